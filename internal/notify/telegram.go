package notify

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"nawala/internal/domain"

	"github.com/charmbracelet/log"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

const timestampLayout = "02 Jan 2006 15:04:05 MST"

// messageAPI is the slice of the Telegram client the notifier needs.
// *tgbotapi.BotAPI satisfies it.
type messageAPI interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
}

// TelegramNotifier delivers cycle summaries to the single administrative
// chat. It owns the one mutable slot holding the identifier of the last
// summary message, so at any time at most one summary stays visible in the
// channel. Error notices are independent of that slot and stack up.
type TelegramNotifier struct {
	bot     messageAPI
	adminID int64

	mu                  sync.Mutex
	lastReportMessageID int
}

func NewTelegramNotifier(bot *tgbotapi.BotAPI, adminID int64) *TelegramNotifier {
	return &TelegramNotifier{bot: bot, adminID: adminID}
}

func newTelegramNotifierWithAPI(bot messageAPI, adminID int64) *TelegramNotifier {
	return &TelegramNotifier{bot: bot, adminID: adminID}
}

// PublishSummary sends a fresh summary message, first deleting the previous
// one if its identifier is still held. Deletion failures are ignored: the
// message may already be gone. The slot only advances on a successful send.
func (n *TelegramNotifier) PublishSummary(summary domain.CheckSummary, checkedAt time.Time) error {
	n.mu.Lock()
	defer n.mu.Unlock()

	if n.lastReportMessageID != 0 {
		if _, err := n.bot.Request(tgbotapi.NewDeleteMessage(n.adminID, n.lastReportMessageID)); err != nil {
			log.Debug("Could not delete previous summary message", "messageID", n.lastReportMessageID, "error", err)
		}
	}

	msg := tgbotapi.NewMessage(n.adminID, formatSummary(summary, checkedAt))
	msg.ParseMode = tgbotapi.ModeMarkdown

	sent, err := n.bot.Send(msg)
	if err != nil {
		return fmt.Errorf("notify: send summary: %w", err)
	}

	n.lastReportMessageID = sent.MessageID
	return nil
}

// PublishError sends a failure notice. It never touches the summary slot, so
// repeated failures each leave their own message in the channel.
func (n *TelegramNotifier) PublishError(message string) error {
	msg := tgbotapi.NewMessage(n.adminID, formatError(message, time.Now()))
	msg.ParseMode = tgbotapi.ModeMarkdown

	if _, err := n.bot.Send(msg); err != nil {
		return fmt.Errorf("notify: send error notice: %w", err)
	}
	return nil
}

func formatSummary(summary domain.CheckSummary, checkedAt time.Time) string {
	var b strings.Builder

	b.WriteString("*Hourly Check Report*\n\n")
	b.WriteString("*Summary:*\n")
	fmt.Fprintf(&b, "• Domains checked: %d\n", summary.TotalChecked)
	fmt.Fprintf(&b, "• Blocked: %d\n", summary.Blocked)
	fmt.Fprintf(&b, "• Unblocked: %d\n\n", summary.Unblocked)

	if len(summary.BlockedDomains) > 0 {
		b.WriteString("*Blocked Domains:*\n")
		for _, name := range summary.BlockedDomains {
			fmt.Fprintf(&b, "• %s\n", name)
		}
		b.WriteString("\n")
	}

	fmt.Fprintf(&b, "*Checked at:* %s", checkedAt.Format(timestampLayout))
	return b.String()
}

func formatError(message string, at time.Time) string {
	return fmt.Sprintf(
		"*Hourly Check Error*\n\nAn error occurred during the hourly check:\n`%s`\n\n*Time:* %s",
		message,
		at.Format(timestampLayout),
	)
}
