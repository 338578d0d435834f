// Package tui provides the Bubble Tea debug viewer: the terminal loop,
// input mapping, wireframe rendering and the scene and run browsers.
package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// unsyncedInterval is the tick period when vsync is off.
const unsyncedInterval = time.Millisecond

// TickMsg is sent to trigger a viewer frame.
type TickMsg time.Time

// tickInterval returns the period between frames. A non-positive rate
// means no frame cap.
func tickInterval(tickRate int) time.Duration {
	if tickRate <= 0 {
		return unsyncedInterval
	}
	return time.Second / time.Duration(tickRate)
}

// tickCmd returns a Bubble Tea command that sends tick messages at the specified rate.
func tickCmd(tickRate int) tea.Cmd {
	return tea.Tick(tickInterval(tickRate), func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}
