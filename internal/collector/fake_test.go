package collector

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rusenback/docker-exporter/internal/model"
)

// fakeRuntime is an in-memory docker.Runtime that records peak concurrency.
type fakeRuntime struct {
	containers []model.Container
	docs       map[string]*model.StatsDocument
	listErr    error
	statsErr   map[string]error
	delay      time.Duration

	inFlight atomic.Int32
	peak     atomic.Int32
	mu       sync.Mutex
	calls    []string
}

func (f *fakeRuntime) ListRunning(context.Context) ([]model.Container, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.containers, nil
}

func (f *fakeRuntime) ContainerStats(ctx context.Context, id string) (*model.StatsDocument, error) {
	n := f.inFlight.Add(1)
	defer f.inFlight.Add(-1)
	for {
		p := f.peak.Load()
		if n <= p || f.peak.CompareAndSwap(p, n) {
			break
		}
	}

	f.mu.Lock()
	f.calls = append(f.calls, id)
	f.mu.Unlock()

	if f.delay > 0 {
		select {
		case <-time.After(f.delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if err := f.statsErr[id]; err != nil {
		return nil, err
	}
	doc, ok := f.docs[id]
	if !ok {
		return nil, fmt.Errorf("no such container: %s", id)
	}
	// hand out a copy, a real client decodes a new document every call
	cp := *doc
	return &cp, nil
}

func u64(v uint64) *uint64 { return &v }

func statsDoc(name string, networks map[string]model.NetworkCounters) *model.StatsDocument {
	return &model.StatsDocument{
		Name: name,
		CPUStats: &model.CPUStats{
			CPUUsage:    &model.CPUUsage{TotalUsage: 300, UsageInKernelmode: 100, UsageInUsermode: 200},
			SystemUsage: u64(9000),
		},
		MemoryStats: &model.MemoryStats{Usage: u64(64), Limit: u64(256)},
		BlkioStats: &model.BlkioStats{IoServiceBytesRecursive: []model.BlkioStatEntry{
			{Op: "read", Value: 7},
			{Op: "write", Value: 11},
		}},
		Networks: networks,
	}
}

func newFakeRuntime(n int) *fakeRuntime {
	f := &fakeRuntime{docs: map[string]*model.StatsDocument{}}
	for i := 0; i < n; i++ {
		id := fmt.Sprintf("c%02d", i)
		name := fmt.Sprintf("app%02d", i)
		f.containers = append(f.containers, model.Container{ID: id, Name: name})
		f.docs[id] = statsDoc("/"+name, map[string]model.NetworkCounters{
			"eth0": {"rx_bytes": float64(i), "tx_bytes": float64(2 * i)},
		})
	}
	return f
}
