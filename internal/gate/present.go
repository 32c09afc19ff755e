// ABOUTME: Presentation attributes for each gate status: labels, icon handles, design tokens, terminal styles
// ABOUTME: Every lookup is total over the closed enum and falls back to NeedConfirm for anything else
package gate

import "github.com/charmbracelet/lipgloss"

// IconHandle names a glyph in the design system icon set.
type IconHandle string

const (
	IconCheckCircle IconHandle = "CheckCircle2"
	IconAlertCircle IconHandle = "AlertCircle"
	IconArrowRight  IconHandle = "ArrowRight"
	IconXCircle     IconHandle = "XCircle"
)

// Glyph is the terminal stand-in for the icon.
func (h IconHandle) Glyph() string {
	switch h {
	case IconCheckCircle:
		return "✔"
	case IconArrowRight:
		return "→"
	case IconXCircle:
		return "✖"
	default:
		return "!"
	}
}

// Config bundles every presentation attribute of one status.
type Config struct {
	Status  Status
	Label   string
	LabelEn string
	Icon    IconHandle
	Classes string
	Color   lipgloss.Color
}

var configs = map[Status]Config{
	Allow: {
		Status:  Allow,
		Label:   "通过",
		LabelEn: "Allow",
		Icon:    IconCheckCircle,
		Classes: "bg-gate-allow text-gate-allow-foreground border-gate-allow-border",
		Color:   lipgloss.Color("#16A34A"),
	},
	NeedConfirm: {
		Status:  NeedConfirm,
		Label:   "需确认",
		LabelEn: "Need Confirm",
		Icon:    IconAlertCircle,
		Classes: "bg-gate-confirm text-gate-confirm-foreground border-gate-confirm-border",
		Color:   lipgloss.Color("#D97706"),
	},
	SuggestReplace: {
		Status:  SuggestReplace,
		Label:   "建议替换",
		LabelEn: "Suggest Replace",
		Icon:    IconArrowRight,
		Classes: "bg-gate-suggest text-gate-suggest-foreground border-gate-suggest-border",
		Color:   lipgloss.Color("#2563EB"),
	},
	Reject: {
		Status:  Reject,
		Label:   "拒绝",
		LabelEn: "Reject",
		Icon:    IconXCircle,
		Classes: "bg-gate-reject text-gate-reject-foreground border-gate-reject-border",
		Color:   lipgloss.Color("#DC2626"),
	},
}

// ConfigFor returns the presentation bundle for s.
func ConfigFor(s Status) Config {
	if c, ok := configs[s]; ok {
		return c
	}
	return configs[NeedConfirm]
}

func Label(s Status) string { return ConfigFor(s).Label }
func LabelEn(s Status) string { return ConfigFor(s).LabelEn }
func Icon(s Status) IconHandle { return ConfigFor(s).Icon }
func Classes(s Status) string { return ConfigFor(s).Classes }
func Color(s Status) lipgloss.Color { return ConfigFor(s).Color }

// Style is the terminal rendering of a status badge.
func Style(s Status) lipgloss.Style {
	return lipgloss.NewStyle().
		Foreground(Color(s)).
		Bold(s == Reject)
}

// Badge renders "glyph label" in the status style.
func Badge(s Status) string {
	c := ConfigFor(s)
	return Style(c.Status).Render(c.Icon.Glyph() + " " + c.LabelEn)
}
