package domain

import "time"

// CheckSummary partitions one batch of verdicts into blocked and unblocked
// name lists. Invariant: TotalChecked == len(BlockedDomains)+len(UnblockedDomains).
type CheckSummary struct {
	TotalChecked     int      `json:"totalChecked"`
	Blocked          int      `json:"blocked"`
	Unblocked        int      `json:"unblocked"`
	BlockedDomains   NameList `gorm:"type:json" json:"blockedDomains"`
	UnblockedDomains NameList `gorm:"type:json" json:"unblockedDomains"`
}

type HourlyReport struct {
	ID             uint64       `gorm:"primaryKey;autoIncrement" json:"id"`
	Timestamp      time.Time    `gorm:"not null;index" json:"timestamp"`
	DomainsChecked int          `gorm:"not null" json:"domainsChecked"`
	Summary        CheckSummary `gorm:"embedded;embeddedPrefix:summary_" json:"summary"`
	Details        VerdictMap   `gorm:"type:json" json:"details"`
	CreatedAt      time.Time    `gorm:"autoCreateTime" json:"createdAt"`
}
