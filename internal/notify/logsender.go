package notify

import (
	"context"

	"github.com/rs/zerolog"
)

// LogSender writes reminders to the log. Used when no delivery channel
// is configured, so the queue still has somewhere to put reminders.
type LogSender struct {
	log zerolog.Logger
}

func NewLogSender(log zerolog.Logger) *LogSender {
	return &LogSender{log: log}
}

func (s *LogSender) Send(_ context.Context, rem Reminder) error {
	s.log.Info().
		Str("task_id", rem.TaskID).
		Str("time", rem.TimeOfDay).
		Str("title", rem.Title).
		Msg("reminder")
	return nil
}
