package notify

import (
	"context"
	"fmt"
	"html"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog"
)

// TelegramSender delivers reminders as messages to a single chat.
type TelegramSender struct {
	api    *tgbotapi.BotAPI
	chatID int64
	log    zerolog.Logger
}

func NewTelegramSender(api *tgbotapi.BotAPI, chatID int64, log zerolog.Logger) *TelegramSender {
	return &TelegramSender{api: api, chatID: chatID, log: log}
}

func (s *TelegramSender) Send(ctx context.Context, rem Reminder) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	text := fmt.Sprintf("⏰ <b>%s</b>\nDaily reminder · %s", html.EscapeString(rem.Title), rem.TimeOfDay)
	msg := tgbotapi.NewMessage(s.chatID, text)
	msg.ParseMode = tgbotapi.ModeHTML
	msg.ReplyMarkup = tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("✅ Done", "complete:"+rem.TaskID),
		),
	)
	if _, err := s.api.Send(msg); err != nil {
		return fmt.Errorf("send reminder: %w", err)
	}
	s.log.Debug().Str("task_id", rem.TaskID).Msg("reminder sent")
	return nil
}
