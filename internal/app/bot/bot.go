package bot

import (
	"context"
	"time"

	"nawala/internal/checker"
	"nawala/internal/config"
	"nawala/internal/database"
	"nawala/internal/jobs/hourly"

	"github.com/charmbracelet/log"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// Bot is the administrative Telegram command surface. It mirrors the REST
// routes and calls the same registry, oracle and reconciliation entry points.
// Exactly one identity, the configured admin, may use it; everyone else gets
// a rejection and their message is removed after a short delay.
type Bot struct {
	api      *tgbotapi.BotAPI
	adminID  int64
	registry *database.DomainRegistry
	history  *database.HistoryStore
	oracle   *checker.Client
	hourly   *hourly.Checker
}

func New(
	api *tgbotapi.BotAPI,
	adminID int64,
	registry *database.DomainRegistry,
	history *database.HistoryStore,
	oracle *checker.Client,
	hourlyChecker *hourly.Checker,
) *Bot {
	return &Bot{
		api:      api,
		adminID:  adminID,
		registry: registry,
		history:  history,
		oracle:   oracle,
		hourly:   hourlyChecker,
	}
}

// Run consumes the long-polling update stream until the context is done.
func (b *Bot) Run(ctx context.Context) error {
	updateCfg := tgbotapi.NewUpdate(0)
	updateCfg.Timeout = 30

	updates := b.api.GetUpdatesChan(updateCfg)
	log.Info("Telegram bot started", "adminID", b.adminID)

	for {
		select {
		case <-ctx.Done():
			b.api.StopReceivingUpdates()
			return ctx.Err()
		case update, ok := <-updates:
			if !ok {
				return nil
			}
			b.handleUpdate(update)
		}
	}
}

func (b *Bot) handleUpdate(update tgbotapi.Update) {
	msg := update.Message
	if msg == nil || !msg.IsCommand() {
		return
	}

	// /myid stays public so locked-out users can find their identifier.
	if msg.Command() == "myid" {
		b.scheduleCleanup(msg.Chat.ID, msg.MessageID)
		b.handleMyID(msg)
		return
	}

	if msg.From == nil {
		b.reply(msg.Chat.ID, "Access denied. User information not available.")
		return
	}

	if msg.From.ID != b.adminID {
		b.scheduleCleanup(msg.Chat.ID, msg.MessageID)
		b.reply(msg.Chat.ID, "Access denied. This bot is for admin use only.\n\nUse /myid to see your User ID.")
		return
	}

	// Admin command messages are cleaned up too, keeping the channel tidy.
	b.scheduleCleanup(msg.Chat.ID, msg.MessageID)
	b.dispatch(msg)
}

func (b *Bot) dispatch(msg *tgbotapi.Message) {
	switch msg.Command() {
	case "start", "help":
		b.replyMarkdown(msg.Chat.ID, helpText)
	case "check":
		b.handleCheck(msg)
	case "checkmultiple":
		b.handleCheckMultiple(msg)
	case "results":
		b.handleResults(msg)
	case "reports":
		b.handleReports(msg)
	case "status":
		b.handleStatus(msg)
	case "domains":
		b.handleDomains(msg)
	case "adddomain":
		b.handleAddDomain(msg)
	case "toggledomain":
		b.handleToggleDomain(msg)
	case "deletedomain":
		b.handleDeleteDomain(msg)
	case "checknow":
		b.handleCheckNow(msg)
	default:
		b.reply(msg.Chat.ID, "Unknown command. Use /help to list available commands.")
	}
}

func (b *Bot) reply(chatID int64, text string) {
	if _, err := b.api.Send(tgbotapi.NewMessage(chatID, text)); err != nil {
		log.Error("Failed to send bot reply", "error", err)
	}
}

func (b *Bot) replyMarkdown(chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeMarkdown
	if _, err := b.api.Send(msg); err != nil {
		log.Error("Failed to send bot reply", "error", err)
	}
}

// scheduleCleanup deletes a message after the configured delay, best effort.
func (b *Bot) scheduleCleanup(chatID int64, messageID int) {
	delay := time.Duration(config.GetConfig().Bot.ReplyCleanupSeconds) * time.Second
	if delay <= 0 {
		delay = 5 * time.Second
	}

	time.AfterFunc(delay, func() {
		if _, err := b.api.Request(tgbotapi.NewDeleteMessage(chatID, messageID)); err != nil {
			log.Debug("Could not delete message", "messageID", messageID, "error", err)
		}
	})
}
