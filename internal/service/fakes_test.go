package service

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/kepler471/daily/internal/model"
	"github.com/kepler471/daily/internal/notify"
	"github.com/kepler471/daily/internal/repository"
)

// fakeStore implements TaskStore in memory for testing. Guarded by a
// mutex so the reset-loop tests can poll it from the test goroutine.
type fakeStore struct {
	mu          sync.Mutex
	tasks       map[string]model.Task
	lastReset   time.Time
	failReset   bool
	resetCalls  int
	toggleCalls int
}

func newFakeStore(tasks ...model.Task) *fakeStore {
	s := &fakeStore{tasks: make(map[string]model.Task)}
	for _, task := range tasks {
		s.tasks[task.ID] = task
	}
	return s
}

func (s *fakeStore) ListAll(context.Context) ([]model.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []model.Task
	for _, task := range s.tasks {
		out = append(out, task)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Position < out[j].Position })
	return out, nil
}

func (s *fakeStore) ListIncomplete(ctx context.Context) ([]model.Task, error) {
	all, _ := s.ListAll(ctx)
	var out []model.Task
	for _, task := range all {
		if !task.IsCompleted {
			out = append(out, task)
		}
	}
	return out, nil
}

func (s *fakeStore) FindByID(_ context.Context, id string) (*model.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	task, ok := s.tasks[id]
	if !ok {
		return nil, fmt.Errorf("task %s: %w", id, repository.ErrNotFound)
	}
	return &task, nil
}

func (s *fakeStore) SetCompletion(_ context.Context, id string, done bool) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.toggleCalls++
	task, ok := s.tasks[id]
	if !ok {
		return false, fmt.Errorf("task %s: %w", id, repository.ErrNotFound)
	}
	if task.IsCompleted == done {
		return false, nil
	}
	task.IsCompleted = done
	s.tasks[id] = task
	return true, nil
}

func (s *fakeStore) CountIncompleteRequired(context.Context) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var n int64
	for _, task := range s.tasks {
		if !task.IsCompleted && task.Category == model.CategoryRequired {
			n++
		}
	}
	return n, nil
}

func (s *fakeStore) ResetAllCompletion(_ context.Context, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.resetCalls++
	if s.failReset {
		return fmt.Errorf("store write failed")
	}
	for id, task := range s.tasks {
		task.IsCompleted = false
		s.tasks[id] = task
	}
	s.lastReset = at
	return nil
}

func (s *fakeStore) LastResetAt(context.Context) (time.Time, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastReset, nil
}

func (s *fakeStore) resetCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.resetCalls
}

func (s *fakeStore) get(id string) model.Task {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tasks[id]
}

// fakeQueue implements notify.Queue, recording every operation so tests
// can assert on churn.
type fakeQueue struct {
	scheduled   map[string]notify.Reminder
	scheduleOps int
	cancelOps   int
	badge       int
	badgeSet    bool
}

func newFakeQueue() *fakeQueue {
	return &fakeQueue{scheduled: make(map[string]notify.Reminder)}
}

func (q *fakeQueue) ScheduleDaily(rem notify.Reminder) error {
	q.scheduleOps++
	q.scheduled[rem.TaskID] = rem
	return nil
}

func (q *fakeQueue) Cancel(taskID string) {
	q.cancelOps++
	delete(q.scheduled, taskID)
}

func (q *fakeQueue) CancelAll() {
	q.cancelOps += len(q.scheduled)
	q.scheduled = make(map[string]notify.Reminder)
}

func (q *fakeQueue) ScheduledIDs() []string {
	ids := make([]string, 0, len(q.scheduled))
	for id := range q.scheduled {
		ids = append(ids, id)
	}
	return ids
}

func (q *fakeQueue) SetBadgeCount(n int) {
	q.badge = n
	q.badgeSet = true
}

func (q *fakeQueue) ops() int {
	return q.scheduleOps + q.cancelOps
}

// fakeClock drives the reset loop deterministically.
type fakeClock struct {
	now   time.Time
	fired chan time.Time
}

func newFakeClock(now time.Time) *fakeClock {
	return &fakeClock{now: now, fired: make(chan time.Time)}
}

func (c *fakeClock) Now() time.Time                       { return c.now }
func (c *fakeClock) After(time.Duration) <-chan time.Time { return c.fired }

func timePtr(s string) *string { return &s }
