// ABOUTME: Tests for gate status presentation lookups
// ABOUTME: Ensures every canonical status has a complete, distinct config
package gate

import (
	"strings"
	"testing"
)

func TestConfigFor_Complete(t *testing.T) {
	seen := map[string]bool{}
	for _, s := range Statuses() {
		c := ConfigFor(s)
		if c.Status != s {
			t.Errorf("ConfigFor(%s).Status = %s", s, c.Status)
		}
		if c.Label == "" || c.LabelEn == "" || c.Icon == "" || c.Classes == "" || c.Color == "" {
			t.Errorf("incomplete config for %s: %+v", s, c)
		}
		if seen[c.LabelEn] {
			t.Errorf("duplicate label %q", c.LabelEn)
		}
		seen[c.LabelEn] = true
	}
}

func TestConfigFor_UnknownUsesNeedConfirm(t *testing.T) {
	if got := Label(Status("BOGUS")); got != "需确认" {
		t.Errorf("Label(BOGUS) = %q", got)
	}
	if got := Icon(Status("")); got != IconAlertCircle {
		t.Errorf("Icon(\"\") = %q", got)
	}
}

func TestLabels(t *testing.T) {
	want := map[Status]string{
		Allow:          "Allow",
		NeedConfirm:    "Need Confirm",
		SuggestReplace: "Suggest Replace",
		Reject:         "Reject",
	}
	for s, l := range want {
		if got := LabelEn(s); got != l {
			t.Errorf("LabelEn(%s) = %q, want %q", s, got, l)
		}
	}
	if Label(Reject) != "拒绝" {
		t.Errorf("Label(Reject) = %q", Label(Reject))
	}
}

func TestBadge_ContainsLabelAndGlyph(t *testing.T) {
	b := Badge(Reject)
	if !strings.Contains(b, "Reject") || !strings.Contains(b, "✖") {
		t.Errorf("badge missing content: %q", b)
	}
	if !strings.HasPrefix(Classes(Allow), "bg-gate-allow") {
		t.Errorf("unexpected classes %q", Classes(Allow))
	}
}
