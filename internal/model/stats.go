// internal/model/stats.go
package model

import jsoniter "github.com/json-iterator/go"

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// StatsDocument is one container's point-in-time statistics as returned by
// GET /containers/{id}/stats?stream=false. Sections that must be present
// are pointers so that a missing key can be told apart from a zero value.
type StatsDocument struct {
	ID   string `json:"id"`
	Name string `json:"name"`

	CPUStats    *CPUStats    `json:"cpu_stats"`
	MemoryStats *MemoryStats `json:"memory_stats"`
	BlkioStats  *BlkioStats  `json:"blkio_stats"`

	// Networks maps interface name to counter name to value. Counter names
	// are not fixed, so the map is kept open.
	Networks map[string]NetworkCounters `json:"networks"`
}

// CPUStats sisältää CPU laskurit
type CPUStats struct {
	CPUUsage *CPUUsage `json:"cpu_usage"`
	// SystemUsage is absent when the container stopped before sampling.
	SystemUsage *uint64 `json:"system_cpu_usage"`
}

// CPUUsage holds cumulative CPU time of the container cgroup.
type CPUUsage struct {
	TotalUsage        uint64 `json:"total_usage"`
	UsageInKernelmode uint64 `json:"usage_in_kernelmode"`
	UsageInUsermode   uint64 `json:"usage_in_usermode"`
}

// MemoryStats sisältää muistin käytön ja rajan. Pysäytetyllä containerilla
// molemmat puuttuvat.
type MemoryStats struct {
	Usage *uint64 `json:"usage"`
	Limit *uint64 `json:"limit"`
}

type BlkioStats struct {
	IoServiceBytesRecursive []BlkioStatEntry `json:"io_service_bytes_recursive"`
}

// BlkioStatEntry is a single block device counter, e.g. {"op": "read", "value": 4096}
type BlkioStatEntry struct {
	Major uint64 `json:"major"`
	Minor uint64 `json:"minor"`
	Op    string `json:"op"`
	Value uint64 `json:"value"`
}

// NetworkCounters holds the numeric counters reported for one interface.
type NetworkCounters map[string]float64

// DisplayName returns the document name without the leading "/".
func (d *StatsDocument) DisplayName() string {
	return DisplayName(d.Name)
}

// UnmarshalJSON keeps only numeric counters. Some engines add string fields
// such as endpoint_id next to the counters.
func (n *NetworkCounters) UnmarshalJSON(data []byte) error {
	var raw map[string]interface{}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	counters := make(NetworkCounters, len(raw))
	for k, v := range raw {
		if f, ok := v.(float64); ok {
			counters[k] = f
		}
	}
	*n = counters
	return nil
}
