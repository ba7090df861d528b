package notify

import "context"

// AuthStatus mirrors the delivery channel's permission state.
type AuthStatus int

const (
	AuthNotDetermined AuthStatus = iota
	AuthAuthorized
	AuthDenied
	AuthProvisional
)

func (s AuthStatus) String() string {
	switch s {
	case AuthAuthorized:
		return "authorized"
	case AuthDenied:
		return "denied"
	case AuthProvisional:
		return "provisional"
	default:
		return "not_determined"
	}
}

// Reminder is the payload attached to a scheduled daily notification.
// TaskID is the join key between the store and the reminder queue.
type Reminder struct {
	TaskID    string
	Title     string
	TimeOfDay string // "HH:MM" local
}

// Queue schedules one repeating daily reminder per task id. The queue
// is the source of truth for what is currently scheduled; callers diff
// against ScheduledIDs rather than tracking state of their own.
type Queue interface {
	ScheduleDaily(rem Reminder) error
	Cancel(taskID string)
	CancelAll()
	ScheduledIDs() []string
	SetBadgeCount(n int)
}

// Sender delivers a reminder that has come due.
type Sender interface {
	Send(ctx context.Context, rem Reminder) error
}
