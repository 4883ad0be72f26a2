package main

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/sadopc/idlemin/internal/store"
	"github.com/sadopc/idlemin/internal/timer"
	"github.com/sadopc/idlemin/internal/tui"
)

func main() {
	// Storage is best-effort: without it the timer still runs, it just
	// forgets everything on exit.
	var kv timer.KV
	if dbPath, err := store.DefaultDBPath(); err == nil {
		s, err := store.New(dbPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "warning: storage unavailable, running in memory: %v\n", err)
		} else {
			defer s.Close()
			kv = s
		}
	}

	app := tui.NewApp(timer.New(kv))
	p := tea.NewProgram(app, tea.WithAltScreen(), tea.WithReportFocus())

	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
