package dto

import (
	"time"

	"nawala/internal/domain"
)

type SingleCheckResult struct {
	Domain    string    `json:"domain"`
	Blocked   bool      `json:"blocked"`
	Timestamp time.Time `json:"timestamp"`
}

// BatchCheckReport is the summary document returned for ad hoc multi-domain
// checks. It mirrors the persisted hourly report minus the database row.
type BatchCheckReport struct {
	Summary   domain.CheckSummary `json:"summary"`
	Details   domain.VerdictMap   `json:"details"`
	Timestamp time.Time           `json:"timestamp"`
}

type SchedulerStatus struct {
	Running        bool     `json:"running"`
	CronExpression string   `json:"cronExpression"`
	DomainsToCheck []string `json:"domainsToCheck"`
}
