// ABOUTME: Canonical gate status vocabulary and the normalizer that folds every backend spelling into it
// ABOUTME: Normalize is total and pure; Parse additionally reports whether the token was recognised
package gate

import "strings"

// Status is the four-valued decision lattice every gating decision is shown as.
type Status string

const (
	Allow          Status = "ALLOW"
	NeedConfirm    Status = "NEED_CONFIRM"
	SuggestReplace Status = "SUGGEST_REPLACE"
	Reject         Status = "REJECT"
)

// Statuses returns the lattice in order from most to least permissive.
func Statuses() []Status {
	return []Status{Allow, NeedConfirm, SuggestReplace, Reject}
}

// aliases maps upper-cased raw tokens to the canonical status.
// Lower-case review tokens (approved, pending...) are folded through the same table.
var aliases = map[string]Status{
	"ALLOW":             Allow,
	"PASSED":            Allow,
	"PASS":              Allow,
	"APPROVED":          Allow,
	"NEED_CONFIRM":      NeedConfirm,
	"NEED_CONFIRMATION": NeedConfirm,
	"WARN":              NeedConfirm,
	"PENDING":           NeedConfirm,
	"SUGGEST_REPLACE":   SuggestReplace,
	"REPLACE":           SuggestReplace,
	"ADJUST":            SuggestReplace,
	"MODIFIED":          SuggestReplace,
	"REJECT":            Reject,
	"BLOCKED":           Reject,
	"BLOCK":             Reject,
	"REJECTED":          Reject,
}

// Parse maps a raw status token to its canonical Status.
// The second return value is false when the token is unknown.
func Parse(raw string) (Status, bool) {
	s, ok := aliases[strings.ToUpper(strings.TrimSpace(raw))]
	if !ok {
		return NeedConfirm, false
	}
	return s, true
}

// Normalize maps any raw status token to a canonical Status.
// Unknown or empty input degrades to NeedConfirm so nothing is silently treated as allowed.
func Normalize(raw string) Status {
	s, _ := Parse(raw)
	return s
}

// Valid reports whether s is one of the four canonical values.
func (s Status) Valid() bool {
	switch s {
	case Allow, NeedConfirm, SuggestReplace, Reject:
		return true
	}
	return false
}

func (s Status) String() string {
	return string(s)
}

// Rank orders statuses by severity, 0 for Allow up to 3 for Reject.
func (s Status) Rank() int {
	switch s {
	case Allow:
		return 0
	case NeedConfirm:
		return 1
	case SuggestReplace:
		return 2
	case Reject:
		return 3
	}
	return 1
}

// Worst returns the most severe status among ss, or Allow when ss is empty.
func Worst(ss ...Status) Status {
	worst := Allow
	for _, s := range ss {
		if s.Rank() > worst.Rank() {
			worst = s
		}
	}
	return worst
}
