package tui

import (
	"fmt"

	"github.com/rusenback/docker-exporter/internal/metrics"
	"github.com/rusenback/docker-exporter/internal/model"
)

// rowsFromFamilies regroups a snapshot by container, in the order the
// containers appear in the first fixed family.
func rowsFromFamilies(families []model.MetricFamily) []row {
	var rows []row
	index := map[string]int{}

	lookup := func(name string) *row {
		i, ok := index[name]
		if !ok {
			i = len(rows)
			index[name] = i
			rows = append(rows, row{
				name:     name,
				values:   map[string]float64{},
				networks: map[string]map[string]float64{},
			})
		}
		return &rows[i]
	}

	for _, f := range families {
		for _, s := range f.Samples {
			switch len(s.LabelValues) {
			case 1:
				lookup(s.LabelValues[0]).values[f.Name] = s.Value
			case 2:
				r := lookup(s.LabelValues[0])
				iface := s.LabelValues[1]
				if r.networks[iface] == nil {
					r.networks[iface] = map[string]float64{}
				}
				counter := f.Name[len(metrics.NetworkFamilyName("")):]
				r.networks[iface][counter] = s.Value
			}
		}
	}
	return rows
}

// truncate shortens a string to a maximum length
func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	if max <= 3 {
		return s[:max]
	}
	return s[:max-3] + "..."
}

// formatBytes renders a byte count with a decimal unit
func formatBytes(v float64) string {
	switch {
	case v > 1_000_000_000:
		return fmt.Sprintf("%.2f GB", v/1_000_000_000)
	case v > 1_000_000:
		return fmt.Sprintf("%.2f MB", v/1_000_000)
	case v > 1_000:
		return fmt.Sprintf("%.2f KB", v/1_000)
	default:
		return fmt.Sprintf("%.0f B", v)
	}
}

// formatSeconds renders cumulative CPU nanoseconds as seconds
func formatSeconds(ns float64) string {
	return fmt.Sprintf("%.2fs", ns/1e9)
}
