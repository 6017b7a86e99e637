package bot

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"vetremind/internal/export"
)

const (
	cmdResetRules = "resetrules"
	cbResetOK     = "reset_confirm"
	cbCSV         = "csv"
	cbNoop        = "noop"
)

func (b *Bot) handleCallback(_ context.Context, cb *tgbotapi.CallbackQuery) {
	if cb.Message == nil {
		return
	}
	chatID := cb.Message.Chat.ID

	callback := tgbotapi.NewCallback(cb.ID, "")
	if _, err := b.api.Send(callback); err != nil {
		b.log.Error("send callback ack", "error", err)
	}

	action, arg, _ := strings.Cut(cb.Data, ":")

	attrs := []any{"action", action, "chat_id", chatID}
	if cb.From != nil {
		attrs = append(attrs, "user_id", cb.From.ID, "username", cb.From.UserName)
	}
	b.log.Info("callback", attrs...)

	switch action {
	case cbResetOK:
		if err := b.settings.ResetDefaults(); err != nil {
			b.reply(chatID, fmt.Sprintf("Error: %v", err))
			return
		}
		b.reply(chatID, "Rules restored to defaults and exclusions cleared.")
	case cbCSV:
		b.sendCSV(chatID, arg)
	case cbNoop:
		b.reply(chatID, "Cancelled.")
	}
}

func (b *Bot) confirmReset(chatID int64) {
	msg := tgbotapi.NewMessage(chatID, "Replace all rules with the defaults and clear exclusions? Your user name is kept.")
	msg.ReplyMarkup = tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("Yes, reset", cbResetOK),
			tgbotapi.NewInlineKeyboardButtonData("Cancel", cbNoop),
		),
	)
	if _, err := b.api.Send(msg); err != nil {
		b.log.Error("send reset confirmation", "error", err)
	}
}

func (b *Bot) sendCSV(chatID int64, runID string) {
	rep, ok := b.lastReport(chatID, runID)
	if !ok {
		b.reply(chatID, "That batch is no longer available. Upload the file again.")
		return
	}

	var buf bytes.Buffer
	if err := export.WriteCSV(&buf, rep.Reminders); err != nil {
		b.reply(chatID, fmt.Sprintf("Error: %v", err))
		return
	}
	doc := tgbotapi.NewDocument(chatID, tgbotapi.FileBytes{
		Name:  fmt.Sprintf("reminders-%s.csv", rep.Start.Format("2006-01-02")),
		Bytes: buf.Bytes(),
	})
	if _, err := b.api.Send(doc); err != nil {
		b.log.Error("send csv", "chat_id", chatID, "error", err)
	}
}
