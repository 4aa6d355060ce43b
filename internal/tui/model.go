package tui

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rusenback/docker-exporter/internal/model"
)

// Snapshotter runs one collection cycle.
type Snapshotter interface {
	Collect(ctx context.Context) ([]model.MetricFamily, error)
}

// Model represents the TUI application state
type Model struct {
	collector Snapshotter
	refresh   time.Duration

	rows    []row
	cursor  int
	err     error
	loading bool
	updated time.Time
	took    time.Duration

	width  int
	height int
}

// row is one container's view of a snapshot.
type row struct {
	name     string
	values   map[string]float64
	networks map[string]map[string]float64 // interface -> counter -> value
}

// Message types for Bubbletea update loop
type tickMsg time.Time

type snapshotMsg struct {
	families []model.MetricFamily
	took     time.Duration
	err      error
}

// NewModel creates a new TUI model
func NewModel(collector Snapshotter, refresh time.Duration) Model {
	if refresh <= 0 {
		refresh = 2 * time.Second
	}
	return Model{
		collector: collector,
		refresh:   refresh,
		loading:   true,
	}
}

// Init initializes the model and returns initial commands
func (m Model) Init() tea.Cmd {
	return tea.Batch(collect(m.collector), tickCmd(m.refresh))
}
