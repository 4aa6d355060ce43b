package collector

import (
	"context"
	"errors"
	"fmt"

	"github.com/rusenback/docker-exporter/internal/docker"
	"github.com/rusenback/docker-exporter/internal/model"
	"golang.org/x/sync/errgroup"
)

// DefaultMaxWorkers bounds concurrent stats calls when no limit is configured.
const DefaultMaxWorkers = 8

// FetchError reports the container whose stats call failed.
type FetchError struct {
	ContainerID   string
	ContainerName string
	Err           error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("fetch stats for container %q: %v", e.ContainerName, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// Fetcher retrieves one stats document per container with bounded concurrency.
type Fetcher struct {
	runtime    docker.Runtime
	maxWorkers int
}

// NewFetcher returns a Fetcher running at most maxWorkers stats calls at once.
// The runtime client's connection pool must be at least as large.
func NewFetcher(runtime docker.Runtime, maxWorkers int) *Fetcher {
	if maxWorkers <= 0 {
		maxWorkers = DefaultMaxWorkers
	}
	return &Fetcher{runtime: runtime, maxWorkers: maxWorkers}
}

// FetchAll returns the documents in container order. It waits for every
// started call before returning, and the first failure cancels the rest and
// fails the whole batch.
func (f *Fetcher) FetchAll(ctx context.Context, containers []model.Container) ([]*model.StatsDocument, error) {
	docs := make([]*model.StatsDocument, len(containers))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(f.maxWorkers)

	for i, c := range containers {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			doc, err := f.runtime.ContainerStats(ctx, c.ID)
			if err == nil && doc == nil {
				err = errors.New("empty stats response")
			}
			if err != nil {
				return &FetchError{ContainerID: c.ID, ContainerName: c.Name, Err: err}
			}
			if doc.Name == "" {
				doc.Name = c.Name
			}
			docs[i] = doc
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return docs, nil
}
