package tui

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/sadopc/idlemin/internal/timer"
)

// timerModel renders the clock and drives the engine's actions. All
// timing logic lives in the engine; this model only reads derived
// values and forwards key presses.
type timerModel struct {
	engine *timer.Engine
	width  int
	height int
}

func newTimerModel(e *timer.Engine) timerModel {
	return timerModel{engine: e}
}

func (t *timerModel) setSize(w, h int) {
	t.width = w
	t.height = h
}

func (t timerModel) update(msg tea.Msg) (timerModel, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return t, nil
	}

	e := t.engine
	if e.AwaitingChoice() {
		switch {
		case key.Matches(keyMsg, keys.Work), key.Matches(keyMsg, keys.Enter):
			if e.StartWork() {
				return t, status("Work started")
			}
		case key.Matches(keyMsg, keys.Break):
			if e.StartBreak() {
				return t, status("Break started")
			}
		}
		return t, nil
	}

	switch {
	case key.Matches(keyMsg, keys.Start):
		if e.IsRunning() {
			return t, nil
		}
		if e.State() == timer.StateIdle && e.ElapsedMs() == 0 {
			if e.StartIdle() {
				return t, status("Idling started")
			}
			return t, nil
		}
		if e.Resume() {
			return t, status("Resumed")
		}
	case key.Matches(keyMsg, keys.Break):
		// Skip straight from running work to a break.
		if e.State() == timer.StateWork && e.IsRunning() && e.StartBreak() {
			return t, status("Break started")
		}
	}
	return t, nil
}

func status(text string) tea.Cmd {
	return func() tea.Msg { return statusMsg{text: text} }
}

func (t timerModel) view() string {
	w := t.width - 4
	e := t.engine

	if e.AwaitingChoice() {
		return t.viewChoice(w)
	}

	timeLabel := "REMAINING"
	clockStyle := clockIdleStyle
	switch e.State() {
	case timer.StateWork:
		timeLabel = "ELAPSED"
		clockStyle = clockWorkStyle
	case timer.StateBreak:
		clockStyle = clockBreakStyle
	}

	clock := clockStyle.Width(w - 6).Render(bigTime(formatMs(e.DisplayMs())))
	label := mutedStyle.Render(timeLabel)
	chip := chipStyle.Render(e.StateLabel())

	var hint string
	switch {
	case e.IsRunning():
		hint = successStyle.Render("● running")
	case e.State() == timer.StateIdle && e.ElapsedMs() == 0:
		hint = mutedStyle.Render("s: start idling")
	default:
		hint = warningStyle.Render("⏸ paused") + mutedStyle.Render("  s: resume")
	}

	var controls string
	switch {
	case e.State() == timer.StateWork && e.IsRunning():
		controls = mutedStyle.Render("b: skip to break  q: quit")
	case e.IsRunning():
		controls = mutedStyle.Render("q: quit")
	default:
		controls = mutedStyle.Render("s: start/resume  q: quit")
	}
	if e.ActionLocked() {
		controls = mutedStyle.Render("…")
	}

	today := mutedStyle.Render("today's work ") +
		highlightStyle.Render(formatSeconds(e.TotalWorkSeconds()))

	content := lipgloss.JoinVertical(lipgloss.Center,
		titleStyle.Render("One-Minute Idling Timer"),
		"",
		label,
		clock,
		chip,
		"",
		hint,
		today,
		"",
		controls,
	)
	return panelStyle.Width(w).Render(content)
}

// viewChoice is the end-of-idling overlay: the minute is up and the
// engine stays paused until the user picks work or break.
func (t timerModel) viewChoice(w int) string {
	rows := lipgloss.JoinVertical(lipgloss.Center,
		mutedStyle.Render("TIME UP"),
		titleStyle.Render("The idling minute is over. Next?"),
		"",
		accentStyle.Render("w: continue to WORK"),
		successStyle.Render("b: one-minute BREAK"),
		"",
		mutedStyle.Render("no auto-advance; it's your call"),
	)
	return overlayStyle.Width(w).Render(rows)
}

// bigTime spaces the digits out so the clock reads from across a desk.
func bigTime(s string) string {
	out := make([]rune, 0, len(s)*2)
	for i, r := range s {
		if i > 0 {
			out = append(out, ' ')
		}
		out = append(out, r)
	}
	return string(out)
}
