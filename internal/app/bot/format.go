package bot

import (
	"fmt"
	"sort"
	"strings"

	"nawala/internal/api/dto"
	"nawala/internal/checker"
	"nawala/internal/domain"
)

const timestampLayout = "02 Jan 2006 15:04:05 MST"

func formatBatchReport(summary domain.CheckSummary, outcome *checker.Outcome) string {
	var b strings.Builder

	b.WriteString("*Multiple Domain Check Results*\n\n")
	b.WriteString("*Summary:*\n")
	fmt.Fprintf(&b, "• Total checked: %d\n", summary.TotalChecked)
	fmt.Fprintf(&b, "• Blocked: %d\n", summary.Blocked)
	fmt.Fprintf(&b, "• Unblocked: %d\n\n", summary.Unblocked)

	if len(summary.BlockedDomains) > 0 {
		b.WriteString("*Blocked Domains:*\n")
		for _, name := range summary.BlockedDomains {
			fmt.Fprintf(&b, "• %s\n", name)
		}
		b.WriteString("\n")
	}

	if len(summary.UnblockedDomains) > 0 {
		b.WriteString("*Unblocked Domains:*\n")
		for _, name := range summary.UnblockedDomains {
			fmt.Fprintf(&b, "• %s\n", name)
		}
	}

	fmt.Fprintf(&b, "\n*Checked at:* %s", outcome.Timestamp.Format(timestampLayout))
	return b.String()
}

func formatLastResults(results map[string]checker.LastResult) string {
	names := make([]string, 0, len(results))
	for name := range results {
		names = append(names, name)
	}
	sort.Strings(names)

	var b strings.Builder
	b.WriteString("*Last Check Results*\n\n")

	for _, name := range names {
		result := results[name]
		status := "UNBLOCKED"
		if result.Blocked {
			status = "BLOCKED"
		}
		fmt.Fprintf(&b, "*%s*\n%s - %s\n\n", name, status, result.Timestamp.Format(timestampLayout))
	}

	return b.String()
}

func formatReports(reports []domain.HourlyReport) string {
	var b strings.Builder
	fmt.Fprintf(&b, "*Hourly Reports (Last %d)*\n\n", len(reports))

	for i, report := range reports {
		fmt.Fprintf(&b, "*Report %d:*\n", i+1)
		fmt.Fprintf(&b, "• Time: %s\n", report.Timestamp.Format(timestampLayout))
		fmt.Fprintf(&b, "• Domains checked: %d\n", report.Summary.TotalChecked)
		fmt.Fprintf(&b, "• Blocked: %d\n", report.Summary.Blocked)
		fmt.Fprintf(&b, "• Unblocked: %d\n\n", report.Summary.Unblocked)
	}

	return b.String()
}

func formatStatus(stats dto.DomainStats, reportCount int, scheduler dto.SchedulerStatus, adminID int64) string {
	var b strings.Builder

	b.WriteString("*Nawala Live Bot Status*\n\n")
	b.WriteString("*Database Statistics:*\n")
	fmt.Fprintf(&b, "• Total domains: %d\n", stats.TotalDomains)
	fmt.Fprintf(&b, "• Active domains: %d\n", stats.ActiveDomains)
	fmt.Fprintf(&b, "• Hourly check domains: %d\n", stats.HourlyDomains)
	fmt.Fprintf(&b, "• Recent checks: %d\n", stats.RecentChecks)
	fmt.Fprintf(&b, "• Blocked: %d\n", stats.BlockedCount)
	fmt.Fprintf(&b, "• Unblocked: %d\n", stats.UnblockedCount)
	fmt.Fprintf(&b, "• Hourly reports: %d\n\n", reportCount)

	b.WriteString("*Scheduler:*\n")
	running := "Stopped"
	if scheduler.Running {
		running = "Running"
	}
	fmt.Fprintf(&b, "• Status: %s\n", running)
	if scheduler.CronExpression != "" {
		fmt.Fprintf(&b, "• Schedule: %s\n", scheduler.CronExpression)
	}
	fmt.Fprintf(&b, "• Domains to check: %d\n\n", len(scheduler.DomainsToCheck))

	b.WriteString("*Bot Info:*\n")
	fmt.Fprintf(&b, "• Admin ID: %d\n", adminID)
	b.WriteString("• Status: Online")

	return b.String()
}

func formatDomainList(domains []domain.Domain) string {
	var b strings.Builder
	b.WriteString("*Domains in Database*\n\n")

	for i, record := range domains {
		status := "Inactive"
		if record.IsActive {
			status = "Active"
		}

		lastStatus := "Unknown"
		if record.LastStatus.Blocked != nil {
			if *record.LastStatus.Blocked {
				lastStatus = "Blocked"
			} else {
				lastStatus = "Unblocked"
			}
		}

		lastChecked := "Never"
		if record.LastChecked != nil {
			lastChecked = record.LastChecked.Format(timestampLayout)
		}

		fmt.Fprintf(&b, "*%d. %s*\n", i+1, record.Name)
		fmt.Fprintf(&b, "• Status: %s\n", status)
		fmt.Fprintf(&b, "• Frequency: %s\n", record.CheckFrequency)
		fmt.Fprintf(&b, "• Last status: %s\n", lastStatus)
		fmt.Fprintf(&b, "• Last checked: %s\n", lastChecked)
		if record.Description != "" {
			fmt.Fprintf(&b, "• Description: %s\n", record.Description)
		}
		b.WriteString("\n")
	}

	return b.String()
}
