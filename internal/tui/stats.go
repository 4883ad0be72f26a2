package tui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/sadopc/idlemin/internal/timer"
)

// statsModel shows today's counters and hosts the reset confirmation.
type statsModel struct {
	engine *timer.Engine
	width  int
	height int

	formActive bool
	form       *huh.Form
	confirm    *bool
}

func newStatsModel(e *timer.Engine) statsModel {
	c := false
	return statsModel{engine: e, confirm: &c}
}

func (s *statsModel) setSize(w, h int) {
	s.width = w
	s.height = h
}

func (s statsModel) update(msg tea.Msg) (statsModel, tea.Cmd) {
	if s.formActive && s.form != nil {
		return s.updateForm(msg)
	}

	if msg, ok := msg.(tea.KeyMsg); ok {
		if key.Matches(msg, keys.Reset) {
			return s.showConfirm()
		}
	}
	return s, nil
}

func (s statsModel) showConfirm() (statsModel, tea.Cmd) {
	*s.confirm = false
	s.form = huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title("Reset today's stats?").
				Description("Drops today's counters and the current segment.").
				Affirmative("Reset").
				Negative("Keep").
				Value(s.confirm),
		),
	).WithShowHelp(true)
	s.formActive = true
	return s, s.form.Init()
}

func (s statsModel) updateForm(msg tea.Msg) (statsModel, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		if key.Matches(msg, keys.Back) {
			s.formActive = false
			s.form = nil
			return s, nil
		}
	}

	form, cmd := s.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		s.form = f
	}

	if s.form.State == huh.StateCompleted {
		s.formActive = false
		s.form = nil
		if *s.confirm && s.engine.ResetToday() {
			return s, status("Today reset")
		}
		return s, nil
	}

	return s, cmd
}

func (s statsModel) view() string {
	w := s.width - 4

	if s.formActive && s.form != nil {
		return panelStyle.Width(w).Render(
			lipgloss.JoinVertical(lipgloss.Left,
				titleStyle.Render("Today"), "", s.form.View()),
		)
	}

	e := s.engine
	stats := e.Stats()

	row := func(label, value string) string {
		l := lipgloss.NewStyle().Width(20).Render(label)
		return fmt.Sprintf("  %s %s", l, highlightStyle.Render(value))
	}

	rows := []string{
		titleStyle.Render("Today") + "  " + mutedStyle.Render(stats.Date),
		"",
		row("total work", formatSeconds(e.TotalWorkSeconds())),
		row("idling starts", fmt.Sprintf("%d", stats.IdleStartCount)),
		row("breaks", fmt.Sprintf("%d", stats.BreakCount)),
		"",
		mutedStyle.Render("r: reset today"),
	}

	return panelStyle.Width(w).Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}
