package bot

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"nawala/internal/checker"
	"nawala/internal/config"
	"nawala/internal/domain"

	"github.com/charmbracelet/log"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

const helpText = `*Nawala Live Bot*

This bot helps you check domain blocking status.

*Commands:*
• /check <domain> - Check if a domain is blocked
• /checkmultiple <domain1,domain2> - Check multiple domains (max 10)
• /results - View last check results for all domains
• /reports [limit] - Get hourly reports (default: 5)
• /status - Show bot status and statistics
• /domains - List all domains in database
• /adddomain <domain> - Add new domain to check
• /toggledomain <domain> - Toggle domain active status
• /deletedomain <domain> - Delete domain from database
• /checknow - Trigger manual hourly check
• /help - Show this help message

*Examples:*
• /check example.com
• /checkmultiple example.com,reddit.com
• /adddomain google.com`

func (b *Bot) handleMyID(msg *tgbotapi.Message) {
	if msg.From == nil {
		return
	}

	username := "No username"
	if msg.From.UserName != "" {
		username = "@" + msg.From.UserName
	}

	b.replyMarkdown(msg.Chat.ID, fmt.Sprintf(
		"*Your Telegram Information:*\n\n*User ID:* `%d`\n*Username:* %s\n*Name:* %s %s\n\nIf you need admin access, contact the bot administrator with your User ID.",
		msg.From.ID, username, msg.From.FirstName, msg.From.LastName,
	))
}

func (b *Bot) handleCheck(msg *tgbotapi.Message) {
	name := strings.TrimSpace(msg.CommandArguments())
	if name == "" {
		b.reply(msg.Chat.ID, "Please provide a domain to check.\nExample: /check example.com")
		return
	}

	if !domain.ValidName(domain.NormalizeName(name)) {
		b.reply(msg.Chat.ID, "Invalid domain format. Please provide a valid domain.")
		return
	}

	b.reply(msg.Chat.ID, "Checking domain...")

	outcome, err := b.oracle.CheckDomains(context.Background(), []string{name})
	if err != nil {
		b.reply(msg.Chat.ID, fmt.Sprintf("Error checking domain: %v", err))
		return
	}

	checked := outcome.CheckedDomains[0]
	blocked := false
	if verdict, ok := outcome.Data[checked]; ok {
		blocked = verdict.Blocked
	}

	status := "🟢 UNBLOCKED"
	if blocked {
		status = "🔴 BLOCKED"
	}

	b.replyMarkdown(msg.Chat.ID, fmt.Sprintf(
		"*Domain Check Result*\n\n*Domain:* %s\n*Status:* %s\n*Checked at:* %s",
		checked, status, outcome.Timestamp.Format(timestampLayout),
	))
}

func (b *Bot) handleCheckMultiple(msg *tgbotapi.Message) {
	args := strings.TrimSpace(msg.CommandArguments())
	if args == "" {
		b.reply(msg.Chat.ID, "Please provide domains to check.\nExample: /checkmultiple example.com,reddit.com")
		return
	}

	var names []string
	for _, part := range strings.Split(args, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			names = append(names, trimmed)
		}
	}

	if len(names) == 0 {
		b.reply(msg.Chat.ID, "No valid domains provided.")
		return
	}

	maxBatch := config.GetConfig().Oracle.MaxBatchSize
	if maxBatch <= 0 {
		maxBatch = 10
	}
	if len(names) > maxBatch {
		b.reply(msg.Chat.ID, fmt.Sprintf("Maximum %d domains allowed per check.", maxBatch))
		return
	}

	var invalid []string
	for _, name := range names {
		if !domain.ValidName(domain.NormalizeName(name)) {
			invalid = append(invalid, name)
		}
	}
	if len(invalid) > 0 {
		b.reply(msg.Chat.ID, "Invalid domain format: "+strings.Join(invalid, ", "))
		return
	}

	b.reply(msg.Chat.ID, fmt.Sprintf("Checking %d domain(s)...", len(names)))

	outcome, err := b.oracle.CheckDomains(context.Background(), names)
	if err != nil {
		b.reply(msg.Chat.ID, fmt.Sprintf("Error checking domains: %v", err))
		return
	}

	b.replyMarkdown(msg.Chat.ID, formatBatchReport(checker.GenerateSummary(outcome), outcome))
}

func (b *Bot) handleResults(msg *tgbotapi.Message) {
	results := b.oracle.AllLastCheckResults()
	if len(results) == 0 {
		b.reply(msg.Chat.ID, "No check results available yet.")
		return
	}

	b.replyMarkdown(msg.Chat.ID, formatLastResults(results))
}

func (b *Bot) handleReports(msg *tgbotapi.Message) {
	limit := 5
	if args := strings.TrimSpace(msg.CommandArguments()); args != "" {
		parsed, err := strconv.Atoi(args)
		if err != nil || parsed < 1 || parsed > 24 {
			b.reply(msg.Chat.ID, "Invalid limit. Please provide a number between 1 and 24.")
			return
		}
		limit = parsed
	}

	reports, err := b.history.RecentReports(limit)
	if err != nil {
		log.Error("Failed to load reports for bot", "error", err)
		b.reply(msg.Chat.ID, "An error occurred while retrieving reports.")
		return
	}

	if len(reports) == 0 {
		b.reply(msg.Chat.ID, "No hourly reports available yet.")
		return
	}

	b.replyMarkdown(msg.Chat.ID, formatReports(reports))
}

func (b *Bot) handleStatus(msg *tgbotapi.Message) {
	stats, err := b.registry.Statistics()
	if err != nil {
		log.Error("Failed to load statistics for bot", "error", err)
		b.reply(msg.Chat.ID, "An error occurred while retrieving status.")
		return
	}

	reports, err := b.history.RecentReports(0)
	if err != nil {
		log.Error("Failed to load reports for bot status", "error", err)
		b.reply(msg.Chat.ID, "An error occurred while retrieving status.")
		return
	}

	b.replyMarkdown(msg.Chat.ID, formatStatus(stats, len(reports), b.hourly.Status(), b.adminID))
}

func (b *Bot) handleDomains(msg *tgbotapi.Message) {
	domains, err := b.registry.GetAllDomains(false)
	if err != nil {
		log.Error("Failed to load domains for bot", "error", err)
		b.reply(msg.Chat.ID, "An error occurred while retrieving domains.")
		return
	}

	if len(domains) == 0 {
		b.reply(msg.Chat.ID, "No domains found in database. Use /adddomain to add domains.")
		return
	}

	b.replyMarkdown(msg.Chat.ID, formatDomainList(domains))
}

func (b *Bot) handleAddDomain(msg *tgbotapi.Message) {
	name := strings.TrimSpace(msg.CommandArguments())
	if name == "" {
		b.reply(msg.Chat.ID, "Please provide a domain to add.\nExample: /adddomain example.com")
		return
	}

	record, err := b.registry.AddDomain(name, "", domain.FrequencyHourly)
	switch {
	case errors.Is(err, domain.ErrInvalidFormat):
		b.reply(msg.Chat.ID, "Invalid domain format. Please provide a valid domain.")
		return
	case errors.Is(err, domain.ErrDuplicateDomain):
		b.reply(msg.Chat.ID, "Domain already exists in database.")
		return
	case err != nil:
		log.Error("Failed to add domain via bot", "domain", name, "error", err)
		b.reply(msg.Chat.ID, "An error occurred while adding the domain.")
		return
	}

	b.replyMarkdown(msg.Chat.ID, fmt.Sprintf(
		"*Domain Added Successfully*\n\n*Domain:* %s\n*Status:* Active\n*Frequency:* %s\n*Added at:* %s",
		record.Name, record.CheckFrequency, record.CreatedAt.Format(timestampLayout),
	))
}

func (b *Bot) handleToggleDomain(msg *tgbotapi.Message) {
	name := strings.TrimSpace(msg.CommandArguments())
	if name == "" {
		b.reply(msg.Chat.ID, "Please provide a domain to toggle.\nExample: /toggledomain example.com")
		return
	}

	record, err := b.registry.ToggleDomain(name)
	switch {
	case errors.Is(err, domain.ErrDomainNotFound):
		b.reply(msg.Chat.ID, "Domain not found in database.")
		return
	case err != nil:
		log.Error("Failed to toggle domain via bot", "domain", name, "error", err)
		b.reply(msg.Chat.ID, "An error occurred while toggling domain status.")
		return
	}

	status := "Inactive"
	if record.IsActive {
		status = "Active"
	}

	b.replyMarkdown(msg.Chat.ID, fmt.Sprintf(
		"*Domain Status Toggled*\n\n*Domain:* %s\n*New Status:* %s\n*Updated at:* %s",
		record.Name, status, record.UpdatedAt.Format(timestampLayout),
	))
}

func (b *Bot) handleDeleteDomain(msg *tgbotapi.Message) {
	name := strings.TrimSpace(msg.CommandArguments())
	if name == "" {
		b.reply(msg.Chat.ID, "Please provide a domain to delete.\nExample: /deletedomain example.com")
		return
	}

	record, err := b.registry.DeleteDomain(name)
	switch {
	case errors.Is(err, domain.ErrDomainNotFound):
		b.reply(msg.Chat.ID, "Domain not found in database.")
		return
	case err != nil:
		log.Error("Failed to delete domain via bot", "domain", name, "error", err)
		b.reply(msg.Chat.ID, "An error occurred while deleting the domain.")
		return
	}

	b.replyMarkdown(msg.Chat.ID, fmt.Sprintf(
		"*Domain Deleted Successfully*\n\n*Domain:* %s\n\nAll check history for this domain has also been deleted.",
		record.Name,
	))
}

func (b *Bot) handleCheckNow(msg *tgbotapi.Message) {
	report, err := b.hourly.TriggerCheck()
	if err != nil {
		b.reply(msg.Chat.ID, fmt.Sprintf("Manual hourly check failed: %v", err))
		return
	}

	// nil report without an error: nothing to check, or a cycle is
	// already underway.
	if report == nil {
		b.reply(msg.Chat.ID, "No check was run: no hourly domains configured or a check is already in progress.")
	}
}
