package tui

import (
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/sadopc/idlemin/internal/timer"
)

// tickInterval drives redraws and the engine's boundary/rollover
// checks. Derived values are recomputed from absolute timestamps, so
// the interval is a feel knob, not a correctness one.
const tickInterval = 250 * time.Millisecond

// App is the root Bubble Tea model.
type App struct {
	engine *timer.Engine
	width  int
	height int

	activeView viewState
	showHelp   bool

	timerView timerModel
	stats     statsModel

	help   help.Model
	status string
}

func NewApp(e *timer.Engine) App {
	h := help.New()
	h.ShowAll = false

	e.Hydrate()

	return App{
		engine:     e,
		activeView: viewTimer,
		timerView:  newTimerModel(e),
		stats:      newStatsModel(e),
		help:       h,
	}
}

func (a App) Init() tea.Cmd {
	return tickCmd()
}

func tickCmd() tea.Cmd {
	return tea.Tick(tickInterval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.help.Width = msg.Width
		contentHeight := a.height - 4 // header + footer
		a.timerView.setSize(a.width, contentHeight)
		a.stats.setSize(a.width, contentHeight)
		return a, nil

	case tea.FocusMsg:
		// The terminal regaining focus may be the first event after a
		// long sleep; re-check the date immediately.
		a.engine.EnsureToday()
		return a, nil

	case tea.KeyMsg:
		// The reset confirm captures input while open.
		if a.stats.formActive {
			return a.updateActiveView(msg)
		}

		switch {
		case key.Matches(msg, keys.Quit):
			return a, tea.Quit
		case key.Matches(msg, keys.Help):
			a.showHelp = !a.showHelp
			a.help.ShowAll = a.showHelp
			return a, nil
		case key.Matches(msg, keys.Tab1):
			a.activeView = viewTimer
			return a, nil
		case key.Matches(msg, keys.Tab2):
			a.activeView = viewStats
			return a, nil
		case key.Matches(msg, keys.Tab):
			a.activeView = (a.activeView + 1) % 2
			return a, nil
		}
		return a.updateActiveView(msg)

	case tickMsg:
		wasBreak := a.engine.State() == timer.StateBreak && a.engine.IsRunning()
		a.engine.Tick()
		if wasBreak && a.engine.State() == timer.StateIdle {
			a.status = "Break over, idling again"
		}
		return a, tickCmd()

	case statusMsg:
		a.status = msg.text
		return a, nil
	}

	return a.updateActiveView(msg)
}

func (a App) updateActiveView(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch a.activeView {
	case viewTimer:
		a.timerView, cmd = a.timerView.update(msg)
	case viewStats:
		a.stats, cmd = a.stats.update(msg)
	}
	return a, cmd
}

func (a App) View() string {
	if a.width == 0 {
		return "Loading..."
	}

	header := a.renderHeader()
	footer := a.renderFooter()

	var content string
	switch a.activeView {
	case viewTimer:
		content = a.timerView.view()
	case viewStats:
		content = a.stats.view()
	}

	headerHeight := lipgloss.Height(header)
	footerHeight := lipgloss.Height(footer)
	contentHeight := a.height - headerHeight - footerHeight
	if contentHeight < 1 {
		contentHeight = 1
	}

	content = lipgloss.NewStyle().
		Width(a.width).
		Height(contentHeight).
		Render(content)

	return lipgloss.JoinVertical(lipgloss.Left, header, content, footer)
}

func (a App) renderHeader() string {
	var tabs []string
	for i, name := range viewNames {
		if viewState(i) == a.activeView {
			tabs = append(tabs, activeTabStyle.Render(name))
		} else {
			tabs = append(tabs, inactiveTabStyle.Render(name))
		}
	}

	tabRow := lipgloss.JoinHorizontal(lipgloss.Bottom, tabs...)

	title := lipgloss.NewStyle().Bold(true).Foreground(colorPrimary).Render("idlemin")
	gap := a.width - lipgloss.Width(title) - lipgloss.Width(tabRow) - 4
	if gap < 1 {
		gap = 1
	}
	spacer := lipgloss.NewStyle().Width(gap).Render("")

	return headerStyle.Render(
		lipgloss.JoinHorizontal(lipgloss.Bottom, title, spacer, tabRow),
	)
}

func (a App) renderFooter() string {
	helpView := a.help.View(keys)

	status := ""
	if a.status != "" {
		status = mutedStyle.Render(" " + a.status)
	}

	// Segment indicator in footer
	segInfo := ""
	if a.engine.IsRunning() {
		segInfo = successStyle.Render(" ● " + formatMs(a.engine.DisplayMs()))
	} else if a.engine.AwaitingChoice() {
		segInfo = warningStyle.Render(" ? choose")
	}

	left := footerStyle.Render(helpView)
	right := segInfo + status

	gap := a.width - lipgloss.Width(left) - lipgloss.Width(right) - 2
	if gap < 1 {
		gap = 1
	}
	spacer := lipgloss.NewStyle().Width(gap).Render("")

	return lipgloss.JoinHorizontal(lipgloss.Bottom, left, spacer, right)
}
