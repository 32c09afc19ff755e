// ABOUTME: Conjunctive step filter for the decision canvas: free text, normalized status and exact type
package draft

import (
	"strings"

	"github.com/tripnara/tripnara-go/internal/gate"
	"github.com/tripnara/tripnara-go/internal/models"
)

// All disables the status or type predicate.
const All = "all"

// Filter selects the visible steps. Every non-empty predicate must pass.
type Filter struct {
	Query  string
	Status gate.Status
	Type   models.DecisionType
}

// Match reports whether s passes all three predicates.
func (f Filter) Match(s models.DecisionStep) bool {
	if q := strings.ToLower(strings.TrimSpace(f.Query)); q != "" {
		if !strings.Contains(strings.ToLower(s.Title), q) &&
			!strings.Contains(strings.ToLower(s.Description), q) &&
			!strings.Contains(strings.ToLower(string(s.Type)), q) {
			return false
		}
	}
	if f.Status != "" && f.Status != All && s.GateStatus() != gate.Normalize(string(f.Status)) {
		return false
	}
	if f.Type != "" && f.Type != All && s.Type != f.Type {
		return false
	}
	return true
}

// Apply returns the matching steps in their original order.
func (f Filter) Apply(steps []models.DecisionStep) []models.DecisionStep {
	out := make([]models.DecisionStep, 0, len(steps))
	for _, s := range steps {
		if f.Match(s) {
			out = append(out, s)
		}
	}
	return out
}

// IsZero reports whether the filter lets everything through.
func (f Filter) IsZero() bool {
	return strings.TrimSpace(f.Query) == "" &&
		(f.Status == "" || f.Status == All) &&
		(f.Type == "" || f.Type == All)
}
