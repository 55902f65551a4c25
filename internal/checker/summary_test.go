package checker

import (
	"testing"

	"nawala/internal/domain"
)

func TestGenerateSummary_PartitionsVerdicts(t *testing.T) {
	outcome := &Outcome{
		Data: domain.VerdictMap{
			"a.com": {Blocked: true},
			"b.com": {Blocked: false},
		},
		CheckedDomains: []string{"a.com", "b.com"},
	}

	summary := GenerateSummary(outcome)

	if summary.TotalChecked != 2 || summary.Blocked != 1 || summary.Unblocked != 1 {
		t.Fatalf("counts = %+v", summary)
	}
	if len(summary.BlockedDomains) != 1 || summary.BlockedDomains[0] != "a.com" {
		t.Fatalf("blocked domains = %v, want [a.com]", summary.BlockedDomains)
	}
	if len(summary.UnblockedDomains) != 1 || summary.UnblockedDomains[0] != "b.com" {
		t.Fatalf("unblocked domains = %v, want [b.com]", summary.UnblockedDomains)
	}
}

func TestGenerateSummary_CountInvariant(t *testing.T) {
	outcome := &Outcome{
		Data: domain.VerdictMap{
			"a.com": {Blocked: true},
			"b.com": {Blocked: true},
			"c.com": {Blocked: false},
			"d.com": {Blocked: false},
			"e.com": {Blocked: false},
		},
	}

	summary := GenerateSummary(outcome)

	if summary.TotalChecked != len(summary.BlockedDomains)+len(summary.UnblockedDomains) {
		t.Fatalf("count invariant violated: %+v", summary)
	}
	if summary.TotalChecked != 5 {
		t.Fatalf("total checked = %d, want 5", summary.TotalChecked)
	}
}

func TestGenerateSummary_DeterministicOrder(t *testing.T) {
	outcome := &Outcome{
		Data: domain.VerdictMap{
			"z.com": {Blocked: true},
			"a.com": {Blocked: true},
			"m.com": {Blocked: true},
		},
	}

	summary := GenerateSummary(outcome)

	want := []string{"a.com", "m.com", "z.com"}
	for i, name := range want {
		if summary.BlockedDomains[i] != name {
			t.Fatalf("blocked domains = %v, want %v", summary.BlockedDomains, want)
		}
	}
}

func TestGenerateSummary_Empty(t *testing.T) {
	summary := GenerateSummary(&Outcome{Data: domain.VerdictMap{}})

	if summary.TotalChecked != 0 {
		t.Fatalf("total checked = %d, want 0", summary.TotalChecked)
	}
	if summary.BlockedDomains == nil || summary.UnblockedDomains == nil {
		t.Fatal("name lists should be empty, not nil")
	}
}
