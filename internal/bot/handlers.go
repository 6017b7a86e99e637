package bot

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"vetremind/internal/fetcher"
	"vetremind/internal/model"
	"vetremind/internal/pipeline"
	"vetremind/internal/settings"
	"vetremind/internal/storage"
	"vetremind/internal/table"
)

const (
	maxPreviews  = 20
	defaultInbox = 10
)

func (b *Bot) handleStart(chatID int64) {
	b.reply(chatID, `Welcome to VetRemind!

Send a VETport, Xpress or ezyVet invoice export (.csv, .xls or .xlsx) and I will list the clients due for a follow-up in the next seven days, with a ready-to-send message for each.

Put a date such as 2025-01-10 in the file caption to start the window on that day instead of today.

Use /help for the full command reference.`)
}

func (b *Bot) handleHelp(chatID int64) {
	b.reply(chatID, `Reminders:
send a file - build reminders (caption: optional start date)

Rules:
/rules - show all rules
/setrule <days> [qty] <key> = <label> - add or change a rule
/delrule <key> - delete a rule
/resetrules - restore the default rules

Exclusions:
/exclusions - show excluded terms
/exclude <term> - hide reminders whose plan item contains term
/unexclude <term> - remove an excluded term

Messages:
/name [user name] - show or set the sender name (/name - clears it)

Feedback:
/feedback <message> - send feedback to the maintainers
/inbox <secret> [limit] - read feedback
/rmfeedback <secret> <id> - delete a feedback entry

Add "qty" before the key to multiply the interval by the quantity sold.`)
}

func (b *Bot) handleDocument(ctx context.Context, msg *tgbotapi.Message) {
	chatID := msg.Chat.ID
	doc := msg.Document
	name := doc.FileName

	if !table.Supported(name) {
		b.reply(chatID, fmt.Sprintf("%s: unsupported file type. Send a .csv, .xls or .xlsx export.", name))
		return
	}
	if int64(doc.FileSize) > fetcher.MaxSize {
		b.reply(chatID, fmt.Sprintf("%s is too large to download.", name))
		return
	}

	start, err := ParseStartDate(msg.Caption, b.now())
	if err != nil {
		b.reply(chatID, err.Error())
		return
	}

	url, err := b.api.GetFileDirectURL(doc.FileID)
	if err != nil {
		b.log.Error("get file url", "file", name, "error", err)
		b.reply(chatID, "Could not download the file, please try again.")
		return
	}
	data, err := b.fetcher.Download(ctx, url)
	if err != nil {
		b.log.Error("download file", "file", name, "error", err)
		b.reply(chatID, fmt.Sprintf("Could not download %s: %v", name, err))
		return
	}

	st, err := b.settings.Load()
	if err != nil {
		b.reply(chatID, fmt.Sprintf("Error loading settings: %v", err))
		return
	}

	rep, err := pipeline.Run([]pipeline.Input{{Name: name, Data: data}}, st, pipeline.Options{Start: start}, b.log)
	if rep == nil {
		b.reply(chatID, fmt.Sprintf("Error: %v", err))
		return
	}
	summary := FormatReport(rep)
	if err != nil {
		summary += "\n\n" + err.Error()
	}
	if len(rep.Reminders) == 0 {
		b.reply(chatID, summary)
		return
	}

	b.remember(chatID, rep)
	out := tgbotapi.NewMessage(chatID, summary)
	out.ReplyMarkup = tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("Download CSV", cbCSV+":"+rep.RunID),
		),
	)
	if _, err := b.api.Send(out); err != nil {
		b.log.Error("send report", "chat_id", chatID, "error", err)
	}

	for i, r := range rep.Reminders {
		if i == maxPreviews {
			b.reply(chatID, fmt.Sprintf("...and %d more. Download the CSV for the full list.", len(rep.Reminders)-maxPreviews))
			break
		}
		b.reply(chatID, FormatReminder(r))
	}
}

func (b *Bot) handleRules(chatID int64) {
	st, err := b.settings.Load()
	if err != nil {
		b.reply(chatID, fmt.Sprintf("Error: %v", err))
		return
	}
	b.reply(chatID, FormatRules(st.Rules))
}

func (b *Bot) handleSetRule(chatID int64, args string) {
	parsed, err := ParseRuleArgs(args)
	if err != nil {
		b.reply(chatID, err.Error())
		return
	}
	if err := b.settings.Upsert(parsed.Key, parsed.Rule); err != nil {
		b.reply(chatID, fmt.Sprintf("Error: %v", err))
		return
	}
	b.reply(chatID, fmt.Sprintf("Rule saved.\n%s", FormatRules(map[string]model.Rule{parsed.Key: parsed.Rule})))
}

func (b *Bot) handleDelRule(chatID int64, args string) {
	if args == "" {
		b.reply(chatID, "Usage: /delrule <key>")
		return
	}
	err := b.settings.Delete(args)
	if errors.Is(err, settings.ErrUnknownRule) {
		b.reply(chatID, fmt.Sprintf("No rule %q.", args))
		return
	}
	if err != nil {
		b.reply(chatID, fmt.Sprintf("Error: %v", err))
		return
	}
	b.reply(chatID, fmt.Sprintf("Rule %q deleted.", args))
}

func (b *Bot) handleResetRules(chatID int64) {
	b.confirmReset(chatID)
}

func (b *Bot) handleExclusions(chatID int64) {
	st, err := b.settings.Load()
	if err != nil {
		b.reply(chatID, fmt.Sprintf("Error: %v", err))
		return
	}
	b.reply(chatID, FormatExclusions(st.Exclusions))
}

func (b *Bot) handleExclude(chatID int64, args string) {
	if args == "" {
		b.reply(chatID, "Usage: /exclude <term>")
		return
	}
	if err := b.settings.AddExclusion(args); err != nil {
		b.reply(chatID, fmt.Sprintf("Error: %v", err))
		return
	}
	b.reply(chatID, fmt.Sprintf("Reminders whose plan item contains %q will be hidden.", args))
}

func (b *Bot) handleUnexclude(chatID int64, args string) {
	if args == "" {
		b.reply(chatID, "Usage: /unexclude <term>")
		return
	}
	removed, err := b.settings.RemoveExclusion(args)
	if err != nil {
		b.reply(chatID, fmt.Sprintf("Error: %v", err))
		return
	}
	if !removed {
		b.reply(chatID, fmt.Sprintf("%q is not excluded.", args))
		return
	}
	b.reply(chatID, fmt.Sprintf("%q removed from exclusions.", args))
}

func (b *Bot) handleName(chatID int64, args string) {
	if args == "" {
		st, err := b.settings.Load()
		if err != nil {
			b.reply(chatID, fmt.Sprintf("Error: %v", err))
			return
		}
		if st.UserName == "" {
			b.reply(chatID, "No user name set, messages use the anonymous wording. Use /name <name> to set one.")
			return
		}
		b.reply(chatID, fmt.Sprintf("Messages are signed by %q. Use /name - to clear.", st.UserName))
		return
	}

	name := args
	if name == "-" {
		name = ""
	}
	if err := b.settings.SetUserName(name); err != nil {
		b.reply(chatID, fmt.Sprintf("Error: %v", err))
		return
	}
	if name == "" {
		b.reply(chatID, "User name cleared.")
		return
	}
	b.reply(chatID, fmt.Sprintf("Messages will be signed by %q.", name))
}

func (b *Bot) handleFeedback(ctx context.Context, msg *tgbotapi.Message, args string) {
	chatID := msg.Chat.ID
	if args == "" {
		b.reply(chatID, "Usage: /feedback <message>")
		return
	}

	name := msg.From.UserName
	if name == "" {
		name = msg.From.FirstName
	}
	f := &model.Feedback{Name: name, Message: args}
	if err := b.feedback.Insert(ctx, f); err != nil {
		b.log.Error("insert feedback", "error", err)
		b.reply(chatID, fmt.Sprintf("Could not save feedback: %v", err))
		return
	}
	b.reply(chatID, fmt.Sprintf("Thanks! Feedback #%d saved.", f.ID))
}

func (b *Bot) handleInbox(ctx context.Context, chatID int64, args string) {
	secret, rest := ParseSecretArgs(args)
	if !b.cfg.IsAdmin(secret) {
		b.reply(chatID, "Access denied.")
		return
	}

	limit := defaultInbox
	if rest != "" {
		n, err := strconv.Atoi(rest)
		if err != nil || n < 1 {
			b.reply(chatID, "Usage: /inbox <secret> [limit]")
			return
		}
		limit = n
	}

	entries, err := b.feedback.List(ctx, limit)
	if err != nil {
		b.reply(chatID, fmt.Sprintf("Error: %v", err))
		return
	}
	b.reply(chatID, FormatFeedbackList(entries))
}

func (b *Bot) handleRmFeedback(ctx context.Context, chatID int64, args string) {
	secret, rest := ParseSecretArgs(args)
	if !b.cfg.IsAdmin(secret) {
		b.reply(chatID, "Access denied.")
		return
	}
	id, err := ParseIDArg(rest)
	if err != nil {
		b.reply(chatID, "Usage: /rmfeedback <secret> <id>")
		return
	}

	err = b.feedback.Delete(ctx, id)
	if errors.Is(err, storage.ErrNotFound) {
		b.reply(chatID, fmt.Sprintf("Feedback #%d not found.", id))
		return
	}
	if err != nil {
		b.reply(chatID, fmt.Sprintf("Error: %v", err))
		return
	}
	b.reply(chatID, fmt.Sprintf("Feedback #%d deleted.", id))
}
