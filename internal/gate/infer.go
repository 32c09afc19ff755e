// ABOUTME: Severity-based inference of gate status for attention items and persona alerts
// ABOUTME: Kept separate from Normalize since these are heuristics, not vocabulary mappings
package gate

import "strings"

// FromSeverity maps an attention-item severity to a status.
// critical→Reject, high→NeedConfirm, medium→SuggestReplace, anything else→Allow.
func FromSeverity(severity string) Status {
	switch strings.ToLower(strings.TrimSpace(severity)) {
	case "critical":
		return Reject
	case "high":
		return NeedConfirm
	case "medium":
		return SuggestReplace
	default:
		return Allow
	}
}

// FromPersonaSeverity maps a persona alert severity to a status.
func FromPersonaSeverity(severity string) Status {
	switch strings.ToLower(strings.TrimSpace(severity)) {
	case "warning":
		return Reject
	case "info":
		return NeedConfirm
	default:
		return Allow
	}
}

// FromAttentionItem prefers the explicit persona action when one is present.
// Only ALLOW, REJECT, ADJUST and REPLACE are honoured as actions.
func FromAttentionItem(action, severity string) Status {
	switch strings.ToUpper(strings.TrimSpace(action)) {
	case "ALLOW":
		return Allow
	case "REJECT":
		return Reject
	case "ADJUST", "REPLACE":
		return SuggestReplace
	}
	return FromSeverity(severity)
}

// FromPersonaAlert normalizes an explicit action, falling back to the alert severity.
func FromPersonaAlert(action, severity string) Status {
	if strings.TrimSpace(action) != "" {
		return Normalize(action)
	}
	return FromPersonaSeverity(severity)
}
