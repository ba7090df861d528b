package service

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/kepler471/daily/internal/config"
)

// Clock abstracts wall-clock access so the reset loop is testable.
type Clock interface {
	Now() time.Time
	After(d time.Duration) <-chan time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time                         { return time.Now() }
func (systemClock) After(d time.Duration) <-chan time.Time { return time.After(d) }

// NextResetTime returns the next rollover instant strictly after now:
// today at resetHour if that is still ahead, else tomorrow at the same
// hour. Deterministic in (now, resetHour).
func NextResetTime(now time.Time, resetHour int) time.Time {
	next := time.Date(now.Year(), now.Month(), now.Day(), resetHour, 0, 0, 0, now.Location())
	if !next.After(now) {
		next = next.AddDate(0, 0, 1)
	}
	return next
}

// ResetOwed reports whether a rollover boundary has passed since the
// last recorded reset. A zero lastReset is always owed.
func ResetOwed(lastReset, now time.Time, resetHour int) bool {
	boundary := time.Date(now.Year(), now.Month(), now.Day(), resetHour, 0, 0, 0, now.Location())
	if boundary.After(now) {
		boundary = boundary.AddDate(0, 0, -1)
	}
	return lastReset.Before(boundary)
}

// ResetScheduler clears every task's completion flag once per day at
// the configured hour. It arms exactly one one-shot timer at a time and
// recomputes the next instant after every fire, so sleep/wake gaps and
// DST shifts cannot drift it. Missed rollovers are caught up on start.
type ResetScheduler struct {
	store   TaskStore
	prefs   func() config.Preferences
	clock   Clock
	log     zerolog.Logger
	onReset func(context.Context)
	rearm   chan struct{}
}

func NewResetScheduler(store TaskStore, prefs func() config.Preferences, log zerolog.Logger) *ResetScheduler {
	return &ResetScheduler{
		store: store,
		prefs: prefs,
		clock: systemClock{},
		log:   log.With().Str("component", "reset").Logger(),
		rearm: make(chan struct{}, 1),
	}
}

// OnReset registers the push to run after a successful reset (the
// synchronizer re-scheduling reminders, presentation refresh). Set
// before Run.
func (s *ResetScheduler) OnReset(fn func(context.Context)) {
	s.onReset = fn
}

// Rearm pokes the loop to recompute its timer, after the reset hour
// preference changes. Non-blocking.
func (s *ResetScheduler) Rearm() {
	select {
	case s.rearm <- struct{}{}:
	default:
	}
}

// Run blocks until ctx is cancelled, firing ResetAll at every rollover.
func (s *ResetScheduler) Run(ctx context.Context) error {
	s.catchUp(ctx)

	for {
		now := s.clock.Now()
		next := NextResetTime(now, s.prefs().ResetHour)
		s.log.Debug().Time("next_reset", next).Msg("armed")

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-s.rearm:
			continue
		case <-s.clock.After(next.Sub(now)):
			if err := s.ResetAll(ctx); err != nil {
				s.log.Error().Err(err).Msg("scheduled reset failed")
			}
		}
	}
}

// catchUp runs a reset immediately when the process was down across a
// rollover boundary.
func (s *ResetScheduler) catchUp(ctx context.Context) {
	last, err := s.store.LastResetAt(ctx)
	if err != nil {
		s.log.Error().Err(err).Msg("read last reset")
		return
	}
	if !ResetOwed(last, s.clock.Now(), s.prefs().ResetHour) {
		return
	}
	s.log.Info().Time("last_reset", last).Msg("reset owed, catching up")
	if err := s.ResetAll(ctx); err != nil {
		s.log.Error().Err(err).Msg("catch-up reset failed")
	}
}

// ResetAll unconditionally clears every completion flag in one atomic
// batch. Shared by the timer path and the manual "reset now" action.
func (s *ResetScheduler) ResetAll(ctx context.Context) error {
	now := s.clock.Now()
	if err := s.store.ResetAllCompletion(ctx, now); err != nil {
		return fmt.Errorf("reset all: %w", err)
	}
	s.log.Info().Time("at", now).Msg("completion flags cleared")
	if s.onReset != nil {
		s.onReset(ctx)
	}
	return nil
}
