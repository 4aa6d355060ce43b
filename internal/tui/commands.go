package tui

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// tickCmd creates a command that sends a tick message every interval
func tickCmd(interval time.Duration) tea.Cmd {
	return tea.Tick(interval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// collect runs one collection cycle in the background
func collect(c Snapshotter) tea.Cmd {
	return func() tea.Msg {
		start := time.Now()
		families, err := c.Collect(context.Background())
		return snapshotMsg{families: families, took: time.Since(start), err: err}
	}
}
