package bot

import (
	"strings"
	"testing"
	"time"

	"nawala/internal/api/dto"
	"nawala/internal/checker"
	"nawala/internal/domain"
)

func TestFormatBatchReport(t *testing.T) {
	summary := domain.CheckSummary{
		TotalChecked:     2,
		Blocked:          1,
		Unblocked:        1,
		BlockedDomains:   domain.NameList{"a.com"},
		UnblockedDomains: domain.NameList{"b.com"},
	}
	outcome := &checker.Outcome{
		Timestamp: time.Date(2025, time.March, 5, 14, 0, 0, 0, time.UTC),
	}

	text := formatBatchReport(summary, outcome)

	for _, want := range []string{
		"Total checked: 2",
		"*Blocked Domains:*",
		"a.com",
		"*Unblocked Domains:*",
		"b.com",
		"05 Mar 2025 14:00:00 UTC",
	} {
		if !strings.Contains(text, want) {
			t.Fatalf("batch report missing %q:\n%s", want, text)
		}
	}
}

func TestFormatLastResults_SortedByName(t *testing.T) {
	results := map[string]checker.LastResult{
		"z.com": {Blocked: true},
		"a.com": {Blocked: false},
	}

	text := formatLastResults(results)

	if strings.Index(text, "a.com") > strings.Index(text, "z.com") {
		t.Fatalf("results not sorted by name:\n%s", text)
	}
	if !strings.Contains(text, "BLOCKED") || !strings.Contains(text, "UNBLOCKED") {
		t.Fatalf("status labels missing:\n%s", text)
	}
}

func TestFormatStatus(t *testing.T) {
	stats := dto.DomainStats{TotalDomains: 3, ActiveDomains: 2}
	scheduler := dto.SchedulerStatus{
		Running:        true,
		CronExpression: "0 * * * *",
		DomainsToCheck: []string{"a.com", "b.com"},
	}

	text := formatStatus(stats, 7, scheduler, 42)

	for _, want := range []string{
		"Total domains: 3",
		"Hourly reports: 7",
		"Status: Running",
		"Schedule: 0 * * * *",
		"Domains to check: 2",
		"Admin ID: 42",
	} {
		if !strings.Contains(text, want) {
			t.Fatalf("status text missing %q:\n%s", want, text)
		}
	}
}

func TestFormatDomainList(t *testing.T) {
	blocked := true
	checked := time.Date(2025, time.March, 5, 14, 0, 0, 0, time.UTC)
	domains := []domain.Domain{
		{
			Name:           "a.com",
			IsActive:       true,
			CheckFrequency: domain.FrequencyHourly,
			LastChecked:    &checked,
			LastStatus:     domain.BlockStatus{Blocked: &blocked},
			Description:    "primary site",
		},
		{
			Name:           "b.com",
			CheckFrequency: domain.FrequencyDaily,
		},
	}

	text := formatDomainList(domains)

	for _, want := range []string{
		"*1. a.com*",
		"Status: Active",
		"Last status: Blocked",
		"Description: primary site",
		"*2. b.com*",
		"Status: Inactive",
		"Last status: Unknown",
		"Last checked: Never",
	} {
		if !strings.Contains(text, want) {
			t.Fatalf("domain list missing %q:\n%s", want, text)
		}
	}
}
