package domain

import "time"

// CheckResult is one immutable per-domain check outcome. Rows are only ever
// inserted, and only ever removed as a cascade of domain deletion.
type CheckResult struct {
	ID           uint64    `gorm:"primaryKey;autoIncrement" json:"id"`
	Domain       string    `gorm:"not null;index:idx_check_results_domain_time,priority:1" json:"domain"`
	Blocked      bool      `gorm:"not null" json:"blocked"`
	Timestamp    time.Time `gorm:"index:idx_check_results_domain_time,priority:2;index" json:"timestamp"`
	ResponseTime *int64    `json:"responseTime"`
	Error        *string   `json:"error"`
}
