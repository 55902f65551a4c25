package checker

import (
	"sort"

	"nawala/internal/domain"
)

// GenerateSummary partitions the oracle's per-domain verdicts into blocked
// and unblocked name lists. Names are sorted so identical outcomes always
// produce identical summaries.
func GenerateSummary(outcome *Outcome) domain.CheckSummary {
	names := make([]string, 0, len(outcome.Data))
	for name := range outcome.Data {
		names = append(names, name)
	}
	sort.Strings(names)

	summary := domain.CheckSummary{
		BlockedDomains:   domain.NameList{},
		UnblockedDomains: domain.NameList{},
	}

	for _, name := range names {
		if outcome.Data[name].Blocked {
			summary.BlockedDomains = append(summary.BlockedDomains, name)
		} else {
			summary.UnblockedDomains = append(summary.UnblockedDomains, name)
		}
	}

	summary.Blocked = len(summary.BlockedDomains)
	summary.Unblocked = len(summary.UnblockedDomains)
	summary.TotalChecked = summary.Blocked + summary.Unblocked

	return summary
}
