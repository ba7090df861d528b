package cli

import (
	"context"
	"errors"
	"os/signal"
	"sync"
	"syscall"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/spf13/cobra"

	"github.com/kepler471/daily/internal/bot"
	"github.com/kepler471/daily/internal/config"
	"github.com/kepler471/daily/internal/notify"
	"github.com/kepler471/daily/internal/service"
)

const resyncInterval = time.Minute

func newServeCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the reminder and daily-reset daemon",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return a.serve(ctx)
		},
	}
}

func (a *app) serve(ctx context.Context) error {
	log := a.log

	// Live preference snapshot, swapped by the config watcher.
	var prefsMu sync.RWMutex
	current := a.cfg.Preferences
	prefs := func() config.Preferences {
		prefsMu.RLock()
		defer prefsMu.RUnlock()
		return current
	}

	// Delivery channel: Telegram when configured, log output otherwise.
	var (
		sender notify.Sender
		api    *tgbotapi.BotAPI
		auth   = notify.AuthNotDetermined
	)
	if a.cfg.Telegram.Token != "" {
		var err error
		api, err = tgbotapi.NewBotAPI(a.cfg.Telegram.Token)
		if err != nil {
			log.Error().Err(err).Msg("telegram authorization failed, reminders disabled")
			sender = notify.NewLogSender(log)
			auth = notify.AuthDenied
		} else {
			log.Info().Str("account", api.Self.UserName).Msg("telegram authorized")
			sender = notify.NewTelegramSender(api, a.cfg.Telegram.ChatID, log)
			auth = notify.AuthAuthorized
		}
	} else {
		sender = notify.NewLogSender(log)
		auth = notify.AuthAuthorized
	}

	queue := notify.NewCronQueue(sender, time.Local, log)
	queue.OnBadgeChange(func(n int) {
		log.Info().Int("badge", n).Msg("incomplete required tasks")
	})

	synchronizer := service.NewSynchronizer(a.repo, queue, prefs, log)
	synchronizer.OnFocusTask(func(taskID string) {
		log.Debug().Str("task_id", taskID).Msg("focus task requested")
	})

	reset := service.NewResetScheduler(a.repo, prefs, log)
	reset.OnReset(func(ctx context.Context) {
		log.Info().Msg("daily reset completed")
		if err := synchronizer.Synchronize(ctx); err != nil {
			log.Error().Err(err).Msg("synchronize after reset")
		}
	})

	// Periodic reconcile picks up edits made by CLI invocations while
	// the daemon runs.
	if err := queue.ScheduleInterval(resyncInterval, func() {
		jobCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := synchronizer.Synchronize(jobCtx); err != nil && !errors.Is(err, context.Canceled) {
			log.Error().Err(err).Msg("periodic synchronize")
		}
	}); err != nil {
		return err
	}

	queue.Start()
	defer queue.Close()

	synchronizer.SetAuthorization(ctx, auth)

	a.cfg.Watch(func(p config.Preferences) {
		prefsMu.Lock()
		current = p
		prefsMu.Unlock()
		log.Info().Msg("preferences changed")
		reset.Rearm()
		if err := synchronizer.Synchronize(ctx); err != nil {
			log.Error().Err(err).Msg("synchronize after preference change")
		}
	})

	if api != nil && a.cfg.Telegram.ChatID != 0 {
		responder := bot.New(api, a.cfg.Telegram.ChatID, a.tasks, synchronizer, reset, log)
		go func() {
			if err := responder.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
				log.Error().Err(err).Msg("bot stopped")
			}
		}()
	}

	log.Info().Msg("daily daemon started")
	err := reset.Run(ctx)
	if errors.Is(err, context.Canceled) {
		log.Info().Msg("shutdown complete")
		return nil
	}
	return err
}
