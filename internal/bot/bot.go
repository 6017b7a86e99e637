// Package bot is the Telegram front end for uploading exports and editing
// reminder settings.
package bot

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"vetremind/internal/config"
	"vetremind/internal/fetcher"
	"vetremind/internal/pipeline"
	"vetremind/internal/settings"
	"vetremind/internal/storage"
)

type telegramAPI interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	GetUpdatesChan(config tgbotapi.UpdateConfig) tgbotapi.UpdatesChannel
	StopReceivingUpdates()
	GetFileDirectURL(fileID string) (string, error)
}

// Bot is the Telegram operator shell: staff upload exports and manage rules.
type Bot struct {
	api      telegramAPI
	settings *settings.Store
	feedback storage.Feedback
	cfg      *config.Config
	fetcher  *fetcher.Fetcher
	log      *slog.Logger
	now      func() time.Time

	mu   sync.Mutex
	last map[int64]*pipeline.Report
}

// New creates a Bot with the given Telegram token, stores, and config.
func New(token string, st *settings.Store, fb storage.Feedback, cfg *config.Config, log *slog.Logger) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("create bot api: %w", err)
	}

	return &Bot{
		api:      api,
		settings: st,
		feedback: fb,
		cfg:      cfg,
		fetcher:  fetcher.New(http.DefaultClient),
		log:      log,
		now:      time.Now,
		last:     make(map[int64]*pipeline.Report),
	}, nil
}

// Run starts the bot's long-polling loop, blocking until ctx is cancelled.
func (b *Bot) Run(ctx context.Context) {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60

	updates := b.api.GetUpdatesChan(u)

	for {
		select {
		case <-ctx.Done():
			b.api.StopReceivingUpdates()
			return
		case update := <-updates:
			b.handleUpdate(ctx, update)
		}
	}
}

func (b *Bot) handleUpdate(ctx context.Context, update tgbotapi.Update) {
	if update.CallbackQuery != nil {
		if update.CallbackQuery.From != nil && !b.cfg.IsUserAllowed(update.CallbackQuery.From.ID) {
			return
		}
		b.handleCallback(ctx, update.CallbackQuery)
		return
	}
	msg := update.Message
	if msg == nil || msg.From == nil {
		return
	}
	if msg.Document == nil && !msg.IsCommand() {
		return
	}
	if !b.cfg.IsUserAllowed(msg.From.ID) {
		b.reply(msg.Chat.ID, "Access denied.")
		return
	}
	if msg.Document != nil {
		b.handleDocument(ctx, msg)
		return
	}
	b.handleCommand(ctx, msg)
}

// SendMessage sends a text message to the given chat.
func (b *Bot) SendMessage(chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.DisableWebPagePreview = true
	if _, err := b.api.Send(msg); err != nil {
		b.log.Error("send message", "chat_id", chatID, "error", err)
	}
}

func (b *Bot) reply(chatID int64, text string) {
	b.SendMessage(chatID, text)
}

func (b *Bot) remember(chatID int64, rep *pipeline.Report) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.last[chatID] = rep
}

func (b *Bot) lastReport(chatID int64, runID string) (*pipeline.Report, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	rep, ok := b.last[chatID]
	if !ok || rep.RunID != runID {
		return nil, false
	}
	return rep, true
}

func (b *Bot) handleCommand(ctx context.Context, msg *tgbotapi.Message) {
	cmd := msg.Command()
	args := strings.TrimSpace(msg.CommandArguments())
	chatID := msg.Chat.ID

	b.log.Debug("command", "cmd", cmd, "chat_id", chatID)

	switch cmd {
	case "start":
		b.handleStart(chatID)
	case "help":
		b.handleHelp(chatID)
	case "rules":
		b.handleRules(chatID)
	case "setrule":
		b.handleSetRule(chatID, args)
	case "delrule":
		b.handleDelRule(chatID, args)
	case cmdResetRules:
		b.handleResetRules(chatID)
	case "exclusions":
		b.handleExclusions(chatID)
	case "exclude":
		b.handleExclude(chatID, args)
	case "unexclude":
		b.handleUnexclude(chatID, args)
	case "name":
		b.handleName(chatID, args)
	case "feedback":
		b.handleFeedback(ctx, msg, args)
	case "inbox":
		b.handleInbox(ctx, chatID, args)
	case "rmfeedback":
		b.handleRmFeedback(ctx, chatID, args)
	default:
		b.reply(chatID, "Unknown command. Use /help for a list of commands.")
	}
}
