package notify

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"

	"github.com/kepler471/daily/internal/model"
)

const deliveryTimeout = 30 * time.Second

// CronQueue implements Queue on top of a cron runner: one daily entry
// per task id, delivered through the configured Sender.
type CronQueue struct {
	cron    *cron.Cron
	sender  Sender
	log     zerolog.Logger
	onBadge func(int)

	mu      sync.Mutex
	entries map[string]cron.EntryID
	badge   int
}

func NewCronQueue(sender Sender, loc *time.Location, log zerolog.Logger) *CronQueue {
	return &CronQueue{
		cron:    cron.New(cron.WithLocation(loc), cron.WithSeconds()),
		sender:  sender,
		log:     log,
		entries: make(map[string]cron.EntryID),
	}
}

// OnBadgeChange registers an observer for badge updates. Set before Start.
func (q *CronQueue) OnBadgeChange(fn func(int)) {
	q.onBadge = fn
}

func (q *CronQueue) Start() {
	q.cron.Start()
}

// Close stops the runner and waits for in-flight deliveries to finish.
func (q *CronQueue) Close() {
	ctx := q.cron.Stop()
	<-ctx.Done()
}

// ScheduleDaily registers (or replaces) the daily reminder for a task.
func (q *CronQueue) ScheduleDaily(rem Reminder) error {
	spec, err := buildDailySpec(rem.TimeOfDay)
	if err != nil {
		return err
	}

	q.mu.Lock()
	defer q.mu.Unlock()

	if prev, ok := q.entries[rem.TaskID]; ok {
		q.cron.Remove(prev)
	}

	id, err := q.cron.AddFunc(spec, func() {
		q.deliver(rem)
	})
	if err != nil {
		return fmt.Errorf("schedule reminder: %w", err)
	}
	q.entries[rem.TaskID] = id
	return nil
}

func (q *CronQueue) deliver(rem Reminder) {
	ctx, cancel := context.WithTimeout(context.Background(), deliveryTimeout)
	defer cancel()
	if err := q.sender.Send(ctx, rem); err != nil {
		q.log.Error().Err(err).Str("task_id", rem.TaskID).Msg("deliver reminder")
	}
}

func (q *CronQueue) Cancel(taskID string) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if id, ok := q.entries[taskID]; ok {
		q.cron.Remove(id)
		delete(q.entries, taskID)
	}
}

func (q *CronQueue) CancelAll() {
	q.mu.Lock()
	defer q.mu.Unlock()
	for taskID, id := range q.entries {
		q.cron.Remove(id)
		delete(q.entries, taskID)
	}
}

func (q *CronQueue) ScheduledIDs() []string {
	q.mu.Lock()
	defer q.mu.Unlock()
	ids := make([]string, 0, len(q.entries))
	for id := range q.entries {
		ids = append(ids, id)
	}
	return ids
}

// SetBadgeCount publishes the badge value when it changes.
func (q *CronQueue) SetBadgeCount(n int) {
	q.mu.Lock()
	changed := n != q.badge
	q.badge = n
	fn := q.onBadge
	q.mu.Unlock()

	if !changed {
		return
	}
	q.log.Debug().Int("badge", n).Msg("badge count changed")
	if fn != nil {
		fn(n)
	}
}

// ScheduleInterval registers a periodic job every given duration,
// sharing the queue's cron runner.
func (q *CronQueue) ScheduleInterval(interval time.Duration, job func()) error {
	if interval <= 0 {
		return fmt.Errorf("interval must be positive")
	}
	seconds := int(interval.Seconds())
	if seconds <= 0 {
		seconds = 1
	}
	spec := fmt.Sprintf("@every %ds", seconds)
	if _, err := q.cron.AddFunc(spec, job); err != nil {
		return fmt.Errorf("schedule interval: %w", err)
	}
	return nil
}

func buildDailySpec(timeStr string) (string, error) {
	hour, minute, err := model.ParseTimeOfDay(timeStr)
	if err != nil {
		return "", err
	}
	// cron format: second minute hour dom month dow
	return fmt.Sprintf("0 %d %d * * *", minute, hour), nil
}
