// Package ui renders terminal output for the tripnara CLI: styles, tables, failure banners
// and the interactive decision replay.
package ui

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/tripnara/tripnara-go/internal/gate"
)

// Styles groups the lipgloss styles shared by every renderer.
type Styles struct {
	Title  lipgloss.Style
	Header lipgloss.Style
	Body   lipgloss.Style
	Muted  lipgloss.Style
	Error  lipgloss.Style
	Note   lipgloss.Style
	Border lipgloss.Color
}

// DefaultStyles returns the palette used by the CLI.
func DefaultStyles() Styles {
	return Styles{
		Title:  lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#F8FAFC")).Background(lipgloss.Color("#0F172A")).Padding(0, 1),
		Header: lipgloss.NewStyle().Bold(true).Padding(0, 1),
		Body:   lipgloss.NewStyle().Padding(0, 1),
		Muted:  lipgloss.NewStyle().Foreground(lipgloss.Color("#64748B")),
		Error:  lipgloss.NewStyle().Bold(true).Foreground(gate.Color(gate.Reject)),
		Note:   lipgloss.NewStyle().Foreground(gate.Color(gate.NeedConfirm)),
		Border: lipgloss.Color("#334155"),
	}
}

// PlainStyles renders nothing decorative; used when output is not a terminal.
func PlainStyles() Styles {
	plain := lipgloss.NewStyle()
	return Styles{Title: plain, Header: plain, Body: plain, Muted: plain, Error: plain, Note: plain}
}

// Badge renders a gate status, plain text when styled is false.
func Badge(s gate.Status, styled bool) string {
	if styled {
		return gate.Badge(s)
	}
	return gate.Icon(s).Glyph() + " " + gate.LabelEn(s)
}

// Failure writes the title-plus-detail block used for user-facing errors.
func Failure(w io.Writer, st Styles, title, detail string) {
	_, _ = fmt.Fprintln(w, st.Error.Render("Error: "+title))
	if detail = strings.TrimSpace(detail); detail != "" && detail != title {
		_, _ = fmt.Fprintln(w, st.Muted.Render("  "+detail))
	}
}

// Notice writes a soft outcome such as "nothing found" or "canceled".
func Notice(w io.Writer, st Styles, msg string) {
	_, _ = fmt.Fprintln(w, st.Note.Render(msg))
}
