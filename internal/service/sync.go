package service

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/rs/zerolog"

	"github.com/kepler471/daily/internal/config"
	"github.com/kepler471/daily/internal/model"
	"github.com/kepler471/daily/internal/notify"
	"github.com/kepler471/daily/internal/repository"
)

// Action describes what the user did with a delivered reminder.
type Action int

const (
	ActionOpen Action = iota
	ActionComplete
)

// Eligible reports whether an incomplete task should have an active
// reminder. An explicit per-task time overrides the category toggles.
func Eligible(task model.Task, prefs config.Preferences) bool {
	if task.ScheduledTime != nil {
		return true
	}
	switch task.Category {
	case model.CategoryRequired:
		return prefs.RequiredReminders
	case model.CategorySuggested:
		return prefs.SuggestedReminders
	default:
		return false
	}
}

// Synchronizer reconciles the reminder queue against the current set of
// incomplete, eligible tasks: after Synchronize returns, the scheduled
// ids equal the eligible ids exactly. It holds no scheduling state of
// its own; desired state is recomputed from scratch on every pass.
type Synchronizer struct {
	store   TaskStore
	queue   notify.Queue
	prefs   func() config.Preferences
	log     zerolog.Logger
	onFocus func(taskID string)

	mu   sync.Mutex // serializes synchronize passes
	auth notify.AuthStatus
}

func NewSynchronizer(store TaskStore, queue notify.Queue, prefs func() config.Preferences, log zerolog.Logger) *Synchronizer {
	return &Synchronizer{
		store: store,
		queue: queue,
		prefs: prefs,
		log:   log.With().Str("component", "sync").Logger(),
	}
}

// OnFocusTask registers the presentation callback invoked when the user
// opens a reminder. Set before the queue starts delivering.
func (s *Synchronizer) OnFocusTask(fn func(taskID string)) {
	s.onFocus = fn
}

// Synchronize diffs the eligible incomplete tasks against the queue:
// schedules the missing, cancels the stale, leaves matches untouched.
// A second call with unchanged inputs issues zero queue operations.
func (s *Synchronizer) Synchronize(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.auth == notify.AuthDenied {
		return nil
	}

	tasks, err := s.store.ListIncomplete(ctx)
	if err != nil {
		return fmt.Errorf("synchronize: %w", err)
	}
	prefs := s.prefs()

	eligible := make(map[string]model.Task, len(tasks))
	for _, task := range tasks {
		if Eligible(task, prefs) {
			eligible[task.ID] = task
		}
	}

	scheduled := make(map[string]bool)
	for _, id := range s.queue.ScheduledIDs() {
		scheduled[id] = true
	}

	for id, task := range eligible {
		if scheduled[id] {
			continue
		}
		timeOfDay := prefs.DefaultReminderTime
		if task.ScheduledTime != nil {
			timeOfDay = *task.ScheduledTime
		}
		rem := notify.Reminder{TaskID: id, Title: task.Title, TimeOfDay: timeOfDay}
		if err := s.queue.ScheduleDaily(rem); err != nil {
			s.log.Error().Err(err).Str("task_id", id).Msg("schedule reminder")
			continue
		}
	}

	for id := range scheduled {
		if _, ok := eligible[id]; !ok {
			s.queue.Cancel(id)
		}
	}

	return s.refreshBadgeLocked(ctx)
}

// RefreshBadgeCount publishes the count of incomplete required tasks.
func (s *Synchronizer) RefreshBadgeCount(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.refreshBadgeLocked(ctx)
}

func (s *Synchronizer) refreshBadgeLocked(ctx context.Context) error {
	n, err := s.store.CountIncompleteRequired(ctx)
	if err != nil {
		return fmt.Errorf("refresh badge: %w", err)
	}
	s.queue.SetBadgeCount(int(n))
	return nil
}

// CancelAll removes every scheduled reminder. Used by the full data
// reset and on authorization loss.
func (s *Synchronizer) CancelAll() {
	s.queue.CancelAll()
}

// HandleResponse resolves a delivered reminder the user acted on. A
// missing task is expected (deleted since delivery) and only logged.
// The complete action flips the task and resynchronizes; a no-op flip
// skips the resync.
func (s *Synchronizer) HandleResponse(ctx context.Context, taskID string, action Action) error {
	task, err := s.store.FindByID(ctx, taskID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			s.log.Debug().Str("task_id", taskID).Msg("response for missing task")
			return nil
		}
		return fmt.Errorf("handle response: %w", err)
	}

	if s.onFocus != nil {
		s.onFocus(task.ID)
	}

	if action != ActionComplete {
		return nil
	}

	changed, err := s.store.SetCompletion(ctx, taskID, true)
	if err != nil {
		return fmt.Errorf("handle response: %w", err)
	}
	if !changed {
		return nil
	}
	return s.Synchronize(ctx)
}

// SetAuthorization records the delivery channel's permission state.
// Entering authorized triggers a full pass; entering denied cancels
// everything until authorization is regranted.
func (s *Synchronizer) SetAuthorization(ctx context.Context, status notify.AuthStatus) {
	s.mu.Lock()
	prev := s.auth
	s.auth = status
	s.mu.Unlock()

	if prev == status {
		return
	}
	s.log.Info().Stringer("status", status).Msg("authorization changed")

	switch status {
	case notify.AuthAuthorized:
		if err := s.Synchronize(ctx); err != nil {
			s.log.Error().Err(err).Msg("synchronize after authorization")
		}
	case notify.AuthDenied:
		s.queue.CancelAll()
	}
}
