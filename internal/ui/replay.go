// ABOUTME: Interactive bubbletea view over a decision replay timeline
// ABOUTME: Keys drive a draft.Player; player ticks arrive as messages through a buffered channel
package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/tripnara/tripnara-go/internal/draft"
	"github.com/tripnara/tripnara-go/internal/gate"
	"github.com/tripnara/tripnara-go/internal/models"
	"github.com/tripnara/tripnara-go/internal/poll"
)

// stepMsg signals that the player cursor moved.
type stepMsg struct{ index int }

// ReplayModel is the tea.Model for `tripnara draft replay`.
type ReplayModel struct {
	player   *draft.Player
	steps    chan stepMsg
	progress progress.Model
	styles   Styles
	title    string
	err      string
	quitting bool
}

// NewReplayModel builds the model and the player behind it. A nil clock uses wall time.
func NewReplayModel(title string, replay *models.DecisionReplay, clock poll.Clock) *ReplayModel {
	m := &ReplayModel{
		steps:    make(chan stepMsg, 16),
		progress: progress.New(progress.WithDefaultGradient()),
		styles:   DefaultStyles(),
		title:    title,
	}
	var timeline []models.ReplayTimelineItem
	if replay != nil {
		timeline = replay.Timeline
	}
	m.player = draft.NewPlayer(timeline, draft.PlayerOptions{
		Clock: clock,
		OnStep: func(idx int, _ models.ReplayTimelineItem) {
			// The view rereads the player on every message, so a dropped tick only delays a redraw.
			select {
			case m.steps <- stepMsg{index: idx}:
			default:
			}
		},
	})
	return m
}

// Player exposes the underlying player.
func (m *ReplayModel) Player() *draft.Player {
	return m.player
}

func (m *ReplayModel) waitForStep() tea.Cmd {
	return func() tea.Msg {
		return <-m.steps
	}
}

func (m *ReplayModel) Init() tea.Cmd {
	return m.waitForStep()
}

func (m *ReplayModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case stepMsg:
		return m, m.waitForStep()
	case tea.WindowSizeMsg:
		m.progress.Width = max(10, msg.Width-4)
	case tea.KeyMsg:
		m.err = ""
		switch msg.String() {
		case " ":
			m.player.Toggle()
		case "right", "l":
			m.player.StepForward()
		case "left", "h":
			m.player.StepBackward()
		case "r":
			m.player.Reset()
		case "1", "2", "4":
			if err := m.player.SetSpeed(draft.Speed(msg.String()[0] - '0')); err != nil {
				m.err = err.Error()
			}
		case "q", "ctrl+c", "esc":
			m.quitting = true
			m.player.Close()
			return m, tea.Quit
		}
	}
	return m, nil
}

func (m *ReplayModel) View() string {
	if m.quitting {
		return ""
	}
	var b strings.Builder
	b.WriteString(m.styles.Title.Render(m.title))
	b.WriteString("\n\n")

	item, ok := m.player.Current()
	if !ok {
		b.WriteString(m.styles.Muted.Render("This draft has no replay timeline."))
		b.WriteString("\n\n")
		b.WriteString(m.styles.Muted.Render("q quit"))
		return b.String()
	}

	b.WriteString(fmt.Sprintf("[%d/%d] %s  %s\n", m.player.Index()+1, m.player.Len(), item.Step, m.styles.Muted.Render(item.Timestamp)))
	if ds := item.DecisionStep; ds != nil {
		b.WriteString(fmt.Sprintf("  %s  %s\n", gate.Badge(gate.Normalize(ds.Status)), lipgloss.NewStyle().Bold(true).Render(ds.Title)))
		if ds.Description != "" {
			b.WriteString("  " + m.styles.Muted.Render(ds.Description) + "\n")
		}
	}
	if d := item.DecisionMade; d != nil {
		line := "  > " + d.Action
		if d.Reasoning != "" {
			line += ": " + d.Reasoning
		}
		b.WriteString(line + "\n")
	}
	if n := len(item.EvidenceAdded); n > 0 {
		b.WriteString(m.styles.Muted.Render(fmt.Sprintf("  +%d evidence", n)) + "\n")
	}

	b.WriteString("\n")
	b.WriteString(m.progress.ViewAs(m.player.Progress() / 100))
	b.WriteString("\n")

	state := "paused"
	if m.player.Playing() {
		state = "playing"
	}
	b.WriteString(m.styles.Muted.Render(fmt.Sprintf("%s %dx  space play/pause  ←/→ step  r reset  1/2/4 speed  q quit", state, int(m.player.Speed()))))
	if m.err != "" {
		b.WriteString("\n" + m.styles.Error.Render(m.err))
	}
	return b.String()
}
