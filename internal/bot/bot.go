package bot

import (
	"context"
	"fmt"
	"html"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog"

	"github.com/kepler471/daily/internal/model"
	"github.com/kepler471/daily/internal/service"
)

const cbCompletePrefix = "complete:"

const (
	iconRequired  = "🔴"
	iconSuggested = "🟢"
	iconDone      = "✅"
)

// Bot answers commands and reminder button presses from the single
// configured chat. Task entry happens through the CLI; the bot only
// lists, completes and resets.
type Bot struct {
	api    *tgbotapi.BotAPI
	chatID int64
	tasks  *service.TaskService
	sync   *service.Synchronizer
	reset  *service.ResetScheduler
	log    zerolog.Logger
}

func New(api *tgbotapi.BotAPI, chatID int64, tasks *service.TaskService, sync *service.Synchronizer, reset *service.ResetScheduler, log zerolog.Logger) *Bot {
	return &Bot{
		api:    api,
		chatID: chatID,
		tasks:  tasks,
		sync:   sync,
		reset:  reset,
		log:    log.With().Str("component", "bot").Logger(),
	}
}

// Start begins polling updates until ctx is cancelled.
func (b *Bot) Start(ctx context.Context) error {
	updateConfig := tgbotapi.NewUpdate(0)
	updateConfig.Timeout = 60
	updates := b.api.GetUpdatesChan(updateConfig)

	b.log.Info().Str("account", b.api.Self.UserName).Msg("start polling updates")

	go func() {
		<-ctx.Done()
		b.api.StopReceivingUpdates()
	}()

	for update := range updates {
		switch {
		case update.CallbackQuery != nil:
			if err := b.handleCallback(ctx, update.CallbackQuery); err != nil {
				b.log.Error().Err(err).Msg("handle callback")
			}
		case update.Message != nil:
			if update.Message.Chat == nil || update.Message.Chat.ID != b.chatID {
				continue
			}
			if err := b.handleMessage(ctx, update.Message); err != nil {
				b.log.Error().Err(err).Msg("handle message")
			}
		}
	}

	return nil
}

func (b *Bot) handleMessage(ctx context.Context, msg *tgbotapi.Message) error {
	if !msg.IsCommand() {
		return nil
	}

	switch msg.Command() {
	case "start", "help":
		return b.sendText("Daily keeps your list fresh.\n/list — today's tasks\n/reset — clear all completion flags now")
	case "list":
		return b.sendList(ctx)
	case "reset":
		if err := b.reset.ResetAll(ctx); err != nil {
			return b.sendText("Reset failed, see logs.")
		}
		return b.sendText("🌅 Fresh day: all tasks reopened.")
	default:
		return b.sendText("Unknown command. Try /list or /reset.")
	}
}

func (b *Bot) handleCallback(ctx context.Context, cb *tgbotapi.CallbackQuery) error {
	data := cb.Data
	if !strings.HasPrefix(data, cbCompletePrefix) {
		return nil
	}
	taskID := strings.TrimPrefix(data, cbCompletePrefix)

	if err := b.sync.HandleResponse(ctx, taskID, service.ActionComplete); err != nil {
		return err
	}

	ack := tgbotapi.NewCallback(cb.ID, "Done")
	if _, err := b.api.Request(ack); err != nil {
		return fmt.Errorf("answer callback: %w", err)
	}

	if cb.Message != nil {
		return b.sendList(ctx)
	}
	return nil
}

func (b *Bot) sendList(ctx context.Context) error {
	tasks, err := b.tasks.List(ctx)
	if err != nil {
		return err
	}

	text, keyboard := renderList(tasks)
	msg := tgbotapi.NewMessage(b.chatID, text)
	msg.ParseMode = tgbotapi.ModeHTML
	if len(keyboard.InlineKeyboard) > 0 {
		msg.ReplyMarkup = keyboard
	}
	if _, err := b.api.Send(msg); err != nil {
		return fmt.Errorf("send list: %w", err)
	}
	return nil
}

func (b *Bot) sendText(text string) error {
	if _, err := b.api.Send(tgbotapi.NewMessage(b.chatID, text)); err != nil {
		return fmt.Errorf("send text: %w", err)
	}
	return nil
}

func renderList(tasks []model.Task) (string, tgbotapi.InlineKeyboardMarkup) {
	var builder strings.Builder
	builder.WriteString("📋 <b>Today</b>\n")

	var rows [][]tgbotapi.InlineKeyboardButton
	pendingRequired := 0

	if len(tasks) == 0 {
		builder.WriteString("— no tasks yet\n")
	}
	for _, task := range tasks {
		icon := iconSuggested
		if task.Category == model.CategoryRequired {
			icon = iconRequired
		}
		if task.IsCompleted {
			icon = iconDone
		} else if task.Category == model.CategoryRequired {
			pendingRequired++
		}

		builder.WriteString(fmt.Sprintf("%s %s", icon, html.EscapeString(strings.TrimSpace(task.Title))))
		if task.ScheduledTime != nil {
			builder.WriteString(fmt.Sprintf(" · ⏰ %s", *task.ScheduledTime))
		}
		builder.WriteByte('\n')

		if !task.IsCompleted {
			label := fmt.Sprintf("%s %s", iconDone, truncate(task.Title, 24))
			rows = append(rows, tgbotapi.NewInlineKeyboardRow(
				tgbotapi.NewInlineKeyboardButtonData(label, cbCompletePrefix+task.ID),
			))
		}
	}

	builder.WriteString(fmt.Sprintf("\n🔴 %d required left", pendingRequired))
	return builder.String(), tgbotapi.NewInlineKeyboardMarkup(rows...)
}

func truncate(s string, limit int) string {
	runes := []rune(strings.TrimSpace(s))
	if len(runes) <= limit {
		return string(runes)
	}
	return string(runes[:limit-1]) + "…"
}
