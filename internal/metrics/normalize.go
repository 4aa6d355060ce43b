// Package metrics turns Docker stats documents into gauge families.
package metrics

import (
	"fmt"
	"sort"
	"strings"

	"github.com/rusenback/docker-exporter/internal/model"
)

const (
	// LabelName carries the container display name.
	LabelName = "name"
	// LabelNetwork carries the interface name on network families.
	LabelNetwork = "network"

	networkPrefix = "container_net_"
)

// MalformedDocumentError means a section every stats document must have was missing.
type MalformedDocumentError struct {
	Container string
	Field     string
}

func (e *MalformedDocumentError) Error() string {
	return fmt.Sprintf("stats for container %q: missing %s", e.Container, e.Field)
}

type fixedField struct {
	name    string
	help    string
	extract func(*model.StatsDocument) float64
}

// fixedFields are emitted in this order, one sample per container.
var fixedFields = []fixedField{
	{"container_cpu_usage_total", "Total CPU time consumed", func(d *model.StatsDocument) float64 {
		return float64(d.CPUStats.CPUUsage.TotalUsage)
	}},
	{"container_cpu_usage_kernel", "Time spent by tasks of the cgroup in kernel mode", func(d *model.StatsDocument) float64 {
		return float64(d.CPUStats.CPUUsage.UsageInKernelmode)
	}},
	{"container_cpu_usage_user", "Time spent by tasks of the cgroup in user mode", func(d *model.StatsDocument) float64 {
		return float64(d.CPUStats.CPUUsage.UsageInUsermode)
	}},
	{"container_cpu_usage_system", "System Usage", func(d *model.StatsDocument) float64 {
		return float64(*d.CPUStats.SystemUsage)
	}},
	{"container_mem_usage", "Total memory usage for container", func(d *model.StatsDocument) float64 {
		return float64(*d.MemoryStats.Usage)
	}},
	{"container_mem_limit", "Memory usage limit for container", func(d *model.StatsDocument) float64 {
		return float64(*d.MemoryStats.Limit)
	}},
	{"container_io_read_total", "Total IO read by the container", func(d *model.StatsDocument) float64 {
		return blkioTotal(d, "read")
	}},
	{"container_io_write_total", "Total IO written by the container", func(d *model.StatsDocument) float64 {
		return blkioTotal(d, "write")
	}},
}

// FixedFamilyNames lists the names of the families every snapshot contains.
func FixedFamilyNames() []string {
	names := make([]string, len(fixedFields))
	for i, f := range fixedFields {
		names[i] = f.name
	}
	return names
}

// NetworkFamilyName is the family name used for a network counter.
func NetworkFamilyName(counter string) string {
	return networkPrefix + counter
}

// Normalize builds the full family set for one batch. The eight fixed
// families come first, then one family per network counter name seen
// anywhere in the batch, sorted by counter name.
func Normalize(docs []*model.StatsDocument) ([]model.MetricFamily, error) {
	for _, d := range docs {
		if err := validate(d); err != nil {
			return nil, err
		}
	}

	families := make([]model.MetricFamily, 0, len(fixedFields))
	for _, f := range fixedFields {
		family := model.MetricFamily{
			Name:    f.name,
			Help:    f.help,
			Labels:  []string{LabelName},
			Samples: make([]model.Sample, 0, len(docs)),
		}
		for _, d := range docs {
			family.Add(f.extract(d), d.DisplayName())
		}
		families = append(families, family)
	}

	return append(families, networkFamilies(docs)...), nil
}

// networkFamilies needs the counter union of the whole batch before any
// family is built, since a counter reported by one container only still
// gets its own family.
func networkFamilies(docs []*model.StatsDocument) []model.MetricFamily {
	seen := make(map[string]struct{})
	for _, d := range docs {
		for _, counters := range d.Networks {
			for counter := range counters {
				seen[counter] = struct{}{}
			}
		}
	}
	counters := sortedKeys(seen)

	families := make([]model.MetricFamily, 0, len(counters))
	for _, counter := range counters {
		family := model.MetricFamily{
			Name:   NetworkFamilyName(counter),
			Help:   "Network metric " + counter,
			Labels: []string{LabelName, LabelNetwork},
		}
		for _, d := range docs {
			name := d.DisplayName()
			for _, iface := range sortedKeys(d.Networks) {
				value, ok := d.Networks[iface][counter]
				if !ok {
					continue
				}
				family.Add(value, name, iface)
			}
		}
		families = append(families, family)
	}
	return families
}

func validate(d *model.StatsDocument) error {
	switch {
	case d == nil:
		return &MalformedDocumentError{Field: "stats document"}
	case d.CPUStats == nil:
		return &MalformedDocumentError{Container: d.DisplayName(), Field: "cpu_stats"}
	case d.CPUStats.CPUUsage == nil:
		return &MalformedDocumentError{Container: d.DisplayName(), Field: "cpu_stats.cpu_usage"}
	case d.CPUStats.SystemUsage == nil:
		return &MalformedDocumentError{Container: d.DisplayName(), Field: "cpu_stats.system_cpu_usage"}
	case d.MemoryStats == nil:
		return &MalformedDocumentError{Container: d.DisplayName(), Field: "memory_stats"}
	case d.MemoryStats.Usage == nil:
		return &MalformedDocumentError{Container: d.DisplayName(), Field: "memory_stats.usage"}
	case d.MemoryStats.Limit == nil:
		return &MalformedDocumentError{Container: d.DisplayName(), Field: "memory_stats.limit"}
	}
	return nil
}

// blkioTotal sums the io_service_bytes_recursive entries for one op.
// cgroup v1 engines report "Read"/"Write", cgroup v2 lower case.
func blkioTotal(d *model.StatsDocument, op string) float64 {
	if d.BlkioStats == nil {
		return 0
	}
	var total uint64
	for _, entry := range d.BlkioStats.IoServiceBytesRecursive {
		if strings.EqualFold(entry.Op, op) {
			total += entry.Value
		}
	}
	return float64(total)
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
