package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// Update handles messages and updates the model state
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			return m, tea.Quit

		case "up", "k":
			if m.cursor > 0 {
				m.cursor--
			}

		case "down", "j":
			if m.cursor < len(m.rows)-1 {
				m.cursor++
			}

		case "r":
			m.loading = true
			return m, collect(m.collector)
		}

	case tickMsg:
		// Skip this round if the previous cycle is still running
		if m.loading {
			return m, tickCmd(m.refresh)
		}
		m.loading = true
		return m, tea.Batch(collect(m.collector), tickCmd(m.refresh))

	case snapshotMsg:
		m.loading = false
		m.took = msg.took
		m.updated = time.Now()
		// Keep the last good rows on screen when a cycle fails
		m.err = msg.err
		if msg.err == nil {
			m.rows = rowsFromFamilies(msg.families)
		}
		if m.cursor >= len(m.rows) {
			m.cursor = max(len(m.rows)-1, 0)
		}
	}

	return m, nil
}
