package metrics

import (
	"errors"
	"testing"

	"github.com/rusenback/docker-exporter/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func u64(v uint64) *uint64 { return &v }

func doc(name string, networks map[string]model.NetworkCounters) *model.StatsDocument {
	return &model.StatsDocument{
		Name: name,
		CPUStats: &model.CPUStats{
			CPUUsage: &model.CPUUsage{
				TotalUsage:        1000,
				UsageInKernelmode: 400,
				UsageInUsermode:   600,
			},
			SystemUsage: u64(50000),
		},
		MemoryStats: &model.MemoryStats{Usage: u64(128), Limit: u64(1024)},
		BlkioStats: &model.BlkioStats{IoServiceBytesRecursive: []model.BlkioStatEntry{
			{Op: "read", Value: 10},
			{Op: "Read", Value: 5},
			{Op: "write", Value: 3},
			{Op: "sync", Value: 99},
		}},
		Networks: networks,
	}
}

func family(t *testing.T, families []model.MetricFamily, name string) model.MetricFamily {
	t.Helper()
	for _, f := range families {
		if f.Name == name {
			return f
		}
	}
	t.Fatalf("family %s not found", name)
	return model.MetricFamily{}
}

func TestNormalizeFixedFields(t *testing.T) {
	docs := []*model.StatsDocument{doc("/a", nil), doc("/b", nil), doc("c", nil)}

	families, err := Normalize(docs)
	require.NoError(t, err)
	require.Len(t, families, 8)
	assert.Equal(t, FixedFamilyNames(), []string{
		families[0].Name, families[1].Name, families[2].Name, families[3].Name,
		families[4].Name, families[5].Name, families[6].Name, families[7].Name,
	})

	want := map[string]float64{
		"container_cpu_usage_total":  1000,
		"container_cpu_usage_kernel": 400,
		"container_cpu_usage_user":   600,
		"container_cpu_usage_system": 50000,
		"container_mem_usage":        128,
		"container_mem_limit":        1024,
		"container_io_read_total":    15,
		"container_io_write_total":   3,
	}
	for _, f := range families {
		assert.Equal(t, []string{LabelName}, f.Labels, f.Name)
		require.Len(t, f.Samples, len(docs), f.Name)
		for i, s := range f.Samples {
			assert.Equal(t, want[f.Name], s.Value, f.Name)
			assert.Equal(t, []string{[]string{"a", "b", "c"}[i]}, s.LabelValues, f.Name)
		}
	}
}

func TestNormalizeMissingBlkio(t *testing.T) {
	noSection := doc("/nosection", nil)
	noSection.BlkioStats = nil
	nullList := doc("/nulllist", nil)
	nullList.BlkioStats = &model.BlkioStats{}

	families, err := Normalize([]*model.StatsDocument{noSection, nullList})
	require.NoError(t, err)

	for _, name := range []string{"container_io_read_total", "container_io_write_total"} {
		f := family(t, families, name)
		require.Len(t, f.Samples, 2)
		assert.Zero(t, f.Samples[0].Value)
		assert.Zero(t, f.Samples[1].Value)
	}
}

func TestNormalizeMalformed(t *testing.T) {
	tests := []struct {
		name  string
		mod   func(*model.StatsDocument)
		field string
	}{
		{"no cpu_stats", func(d *model.StatsDocument) { d.CPUStats = nil }, "cpu_stats"},
		{"no cpu_usage", func(d *model.StatsDocument) { d.CPUStats.CPUUsage = nil }, "cpu_stats.cpu_usage"},
		{"no system_cpu_usage", func(d *model.StatsDocument) { d.CPUStats.SystemUsage = nil }, "cpu_stats.system_cpu_usage"},
		{"no memory_stats", func(d *model.StatsDocument) { d.MemoryStats = nil }, "memory_stats"},
		{"no memory usage", func(d *model.StatsDocument) { d.MemoryStats.Usage = nil }, "memory_stats.usage"},
		{"no memory limit", func(d *model.StatsDocument) { d.MemoryStats.Limit = nil }, "memory_stats.limit"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bad := doc("/bad", nil)
			tt.mod(bad)

			families, err := Normalize([]*model.StatsDocument{doc("/good", nil), bad})
			require.Error(t, err)
			assert.Nil(t, families)

			var malformed *MalformedDocumentError
			require.True(t, errors.As(err, &malformed))
			assert.Equal(t, "bad", malformed.Container)
			assert.Equal(t, tt.field, malformed.Field)
		})
	}
}

func TestNormalizeNetworkDiscovery(t *testing.T) {
	a := doc("/a", map[string]model.NetworkCounters{
		"eth0": {"rx_bytes": 1},
	})
	b := doc("/b", map[string]model.NetworkCounters{
		"eth1": {"rx_bytes": 3, "tx_bytes": 4},
		"eth0": {"rx_bytes": 2},
	})
	c := doc("/c", nil)

	families, err := Normalize([]*model.StatsDocument{a, b, c})
	require.NoError(t, err)
	require.Len(t, families, 10)

	rx := families[8]
	assert.Equal(t, "container_net_rx_bytes", rx.Name)
	assert.Equal(t, "Network metric rx_bytes", rx.Help)
	assert.Equal(t, []string{LabelName, LabelNetwork}, rx.Labels)
	assert.Equal(t, []model.Sample{
		{LabelValues: []string{"a", "eth0"}, Value: 1},
		{LabelValues: []string{"b", "eth0"}, Value: 2},
		{LabelValues: []string{"b", "eth1"}, Value: 3},
	}, rx.Samples)

	tx := families[9]
	assert.Equal(t, "container_net_tx_bytes", tx.Name)
	assert.Equal(t, []model.Sample{
		{LabelValues: []string{"b", "eth1"}, Value: 4},
	}, tx.Samples)
}

func TestNormalizeEmptyNetworks(t *testing.T) {
	families, err := Normalize([]*model.StatsDocument{
		doc("/a", map[string]model.NetworkCounters{}),
		doc("/b", nil),
	})
	require.NoError(t, err)
	assert.Len(t, families, 8)
}

func TestNormalizeEmptyBatch(t *testing.T) {
	families, err := Normalize(nil)
	require.NoError(t, err)
	require.Len(t, families, 8)
	for _, f := range families {
		assert.Empty(t, f.Samples)
	}
}

func TestNormalizeDeterministic(t *testing.T) {
	batch := []*model.StatsDocument{
		doc("/a", map[string]model.NetworkCounters{
			"eth0": {"rx_bytes": 1, "tx_bytes": 2, "rx_packets": 3},
			"br0":  {"rx_bytes": 4},
		}),
		doc("/b", map[string]model.NetworkCounters{
			"lo": {"rx_dropped": 5, "tx_bytes": 6},
		}),
	}

	first, err := Normalize(batch)
	require.NoError(t, err)
	for i := 0; i < 20; i++ {
		again, err := Normalize(batch)
		require.NoError(t, err)
		require.Equal(t, first, again)
	}
}

func TestDisplayNameStripping(t *testing.T) {
	assert.Equal(t, "my_app", model.DisplayName("/my_app"))
	assert.Equal(t, "my_app", model.DisplayName("my_app"))
	assert.Equal(t, "/nested", model.DisplayName("//nested"))
}

// A container that exits between listing and sampling comes back with only
// its name, id and empty sections.
func TestNormalizeStoppedContainer(t *testing.T) {
	gone := &model.StatsDocument{
		Name:        "/gone",
		CPUStats:    &model.CPUStats{CPUUsage: &model.CPUUsage{}},
		MemoryStats: &model.MemoryStats{},
		BlkioStats:  &model.BlkioStats{},
	}

	families, err := Normalize([]*model.StatsDocument{doc("/a", nil), gone})
	require.Error(t, err)
	assert.Nil(t, families)

	var malformed *MalformedDocumentError
	require.ErrorAs(t, err, &malformed)
	assert.Equal(t, "gone", malformed.Container)
	assert.Equal(t, "cpu_stats.system_cpu_usage", malformed.Field)
}
