package tui

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
)

const nameWidth = 24

// View renders the TUI interface
func (m Model) View() string {
	top := m.renderTable()
	bottom := m.renderNetworkPanel()
	return lipgloss.JoinVertical(lipgloss.Left, top, bottom, m.renderHelp())
}

func (m Model) renderTable() string {
	var s strings.Builder
	s.WriteString(titleStyle.Render("🐳 Containers") + "\n\n")

	if m.loading && len(m.rows) == 0 {
		s.WriteString("Loading...\n")
		return panelStyle.Render(s.String())
	}

	header := fmt.Sprintf("%-*s %10s %10s %10s %11s %11s %11s %11s",
		nameWidth, "NAME", "CPU", "KERNEL", "USER", "MEM", "LIMIT", "READ", "WRITE")
	s.WriteString(headerStyle.Render(header) + "\n")

	for i, r := range m.rows {
		line := fmt.Sprintf("%-*s %10s %10s %10s %11s %11s %11s %11s",
			nameWidth, truncate(r.name, nameWidth),
			formatSeconds(r.values["container_cpu_usage_total"]),
			formatSeconds(r.values["container_cpu_usage_kernel"]),
			formatSeconds(r.values["container_cpu_usage_user"]),
			formatBytes(r.values["container_mem_usage"]),
			formatBytes(r.values["container_mem_limit"]),
			formatBytes(r.values["container_io_read_total"]),
			formatBytes(r.values["container_io_write_total"]),
		)
		if i == m.cursor {
			line = selectedStyle.Render(line)
		}
		s.WriteString(line + "\n")
	}

	if len(m.rows) == 0 {
		s.WriteString("No running containers\n")
	}

	return panelStyle.Render(s.String())
}

func (m Model) renderNetworkPanel() string {
	var s strings.Builder
	s.WriteString(titleStyle.Render("🌐 Network") + "\n\n")

	if len(m.rows) == 0 {
		s.WriteString("-\n")
		return panelStyle.Render(s.String())
	}

	r := m.rows[m.cursor]
	if len(r.networks) == 0 {
		s.WriteString(fmt.Sprintf("%s reports no networks\n", r.name))
		return panelStyle.Render(s.String())
	}

	for _, iface := range sortedKeys(r.networks) {
		s.WriteString(headerStyle.Render(iface) + "\n")
		counters := r.networks[iface]
		for _, counter := range sortedKeys(counters) {
			s.WriteString(fmt.Sprintf("  %-14s %14.0f\n", counter, counters[counter]))
		}
	}
	return panelStyle.Render(s.String())
}

func (m Model) renderHelp() string {
	status := fmt.Sprintf("updated %s (%s)", m.updated.Format("15:04:05"), m.took.Round(time.Millisecond))
	if m.err != nil {
		status = errorStyle.Render("collection failed: " + m.err.Error())
	}
	return helpStyle.Render(status + "\n↑/↓ select • r refresh • q quit")
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
