package tui

import (
	"fmt"
	"time"
)

// viewState represents the currently active view.
type viewState int

const (
	viewTimer viewState = iota
	viewStats
)

var viewNames = []string{"Timer", "Stats"}

// --- Messages ---

type statusMsg struct {
	text string
}

type tickMsg time.Time

// --- Helpers ---

// formatSeconds renders whole seconds as MM:SS, floored at zero. Work
// segments can run past an hour, so minutes are not wrapped.
func formatSeconds(totalSeconds int64) string {
	if totalSeconds < 0 {
		totalSeconds = 0
	}
	return fmt.Sprintf("%02d:%02d", totalSeconds/60, totalSeconds%60)
}

// formatMs renders milliseconds as MM:SS.
func formatMs(ms int64) string {
	if ms < 0 {
		ms = 0
	}
	return formatSeconds(ms / 1000)
}
