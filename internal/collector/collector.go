// Package collector runs one list, fetch and normalize cycle per scrape.
package collector

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rusenback/docker-exporter/internal/docker"
	"github.com/rusenback/docker-exporter/internal/metrics"
	"github.com/rusenback/docker-exporter/internal/model"
	"go.uber.org/zap"
)

// ErrRuntimeUnavailable wraps failures to list containers.
var ErrRuntimeUnavailable = errors.New("container runtime unavailable")

// Collector produces a fresh snapshot on every call. It keeps no state
// between calls, so concurrent scrapes each run their own cycle.
type Collector struct {
	runtime docker.Runtime
	fetcher *Fetcher
	timeout time.Duration
	log     *zap.Logger
}

// Options tune a Collector. Zero values fall back to defaults.
type Options struct {
	MaxWorkers int
	// Timeout bounds one cycle; 0 disables it.
	Timeout time.Duration
}

func New(runtime docker.Runtime, opts Options, log *zap.Logger) *Collector {
	if log == nil {
		log = zap.NewNop()
	}
	return &Collector{
		runtime: runtime,
		fetcher: NewFetcher(runtime, opts.MaxWorkers),
		timeout: opts.Timeout,
		log:     log,
	}
}

// Collect lists the running containers, fetches their stats and returns the
// normalized families. Any failure fails the whole cycle.
func (c *Collector) Collect(ctx context.Context) ([]model.MetricFamily, error) {
	start := time.Now()
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	containers, err := c.runtime.ListRunning(ctx)
	if err != nil {
		c.log.Error("listing containers failed", zap.Error(err))
		return nil, fmt.Errorf("%w: %w", ErrRuntimeUnavailable, err)
	}

	docs, err := c.fetcher.FetchAll(ctx, containers)
	if err != nil {
		var fe *FetchError
		if errors.As(err, &fe) {
			c.log.Error("fetching container stats failed",
				zap.String("container", fe.ContainerName),
				zap.String("id", fe.ContainerID),
				zap.Error(fe.Err))
		} else {
			c.log.Error("fetching container stats failed", zap.Error(err))
		}
		return nil, err
	}

	families, err := metrics.Normalize(docs)
	if err != nil {
		var malformed *metrics.MalformedDocumentError
		if errors.As(err, &malformed) {
			c.log.Error("malformed stats document",
				zap.String("container", malformed.Container),
				zap.String("field", malformed.Field))
		}
		return nil, err
	}

	c.log.Debug("collection cycle finished",
		zap.Int("containers", len(containers)),
		zap.Int("families", len(families)),
		zap.Duration("took", time.Since(start)))

	return families, nil
}
