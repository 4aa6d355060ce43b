package collector

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rusenback/docker-exporter/internal/metrics"
	"github.com/rusenback/docker-exporter/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func TestCollect(t *testing.T) {
	rt := newFakeRuntime(3)
	c := New(rt, Options{MaxWorkers: 2}, zaptest.NewLogger(t))

	families, err := c.Collect(context.Background())
	require.NoError(t, err)
	require.Len(t, families, 10)

	for i, name := range metrics.FixedFamilyNames() {
		assert.Equal(t, name, families[i].Name)
		assert.Len(t, families[i].Samples, 3)
	}
	assert.Equal(t, "container_net_rx_bytes", families[8].Name)
	assert.Equal(t, "container_net_tx_bytes", families[9].Name)
	assert.Equal(t, []string{"app01", "eth0"}, families[9].Samples[1].LabelValues)
	assert.Equal(t, 2.0, families[9].Samples[1].Value)
}

func TestCollectIsIndependentPerCall(t *testing.T) {
	rt := newFakeRuntime(4)
	c := New(rt, Options{}, nil)

	first, err := c.Collect(context.Background())
	require.NoError(t, err)
	second, err := c.Collect(context.Background())
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestCollectRuntimeUnavailable(t *testing.T) {
	rt := &fakeRuntime{listErr: errors.New("dial unix /var/run/docker.sock: connect: no such file")}
	c := New(rt, Options{}, zaptest.NewLogger(t))

	families, err := c.Collect(context.Background())
	assert.Nil(t, families)
	assert.ErrorIs(t, err, ErrRuntimeUnavailable)
}

func TestCollectMalformedDocument(t *testing.T) {
	rt := newFakeRuntime(2)
	rt.docs["c01"] = &model.StatsDocument{Name: "/app01", MemoryStats: &model.MemoryStats{}}
	c := New(rt, Options{}, zaptest.NewLogger(t))

	families, err := c.Collect(context.Background())
	assert.Nil(t, families)
	var malformed *metrics.MalformedDocumentError
	require.ErrorAs(t, err, &malformed)
	assert.Equal(t, "app01", malformed.Container)
	assert.Equal(t, "cpu_stats", malformed.Field)
}

func TestCollectTimeout(t *testing.T) {
	rt := newFakeRuntime(2)
	rt.delay = time.Second
	c := New(rt, Options{Timeout: 20 * time.Millisecond}, zaptest.NewLogger(t))

	start := time.Now()
	_, err := c.Collect(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Less(t, time.Since(start), 500*time.Millisecond)
}

func TestCollectConcurrentScrapes(t *testing.T) {
	rt := newFakeRuntime(10)
	rt.delay = time.Millisecond
	c := New(rt, Options{MaxWorkers: 3}, nil)

	errs := make(chan error, 5)
	for i := 0; i < 5; i++ {
		go func() {
			_, err := c.Collect(context.Background())
			errs <- err
		}()
	}
	for i := 0; i < 5; i++ {
		require.NoError(t, <-errs)
	}
	// five cycles of three workers each share the runtime
	assert.LessOrEqual(t, rt.peak.Load(), int32(15))
}
