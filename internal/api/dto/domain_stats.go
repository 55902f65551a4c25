package dto

type DomainStats struct {
	TotalDomains   int64 `json:"totalDomains"`
	ActiveDomains  int64 `json:"activeDomains"`
	HourlyDomains  int64 `json:"hourlyDomains"`
	RecentChecks   int64 `json:"recentChecks"`
	BlockedCount   int64 `json:"blockedCount"`
	UnblockedCount int64 `json:"unblockedCount"`
}
