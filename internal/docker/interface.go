// internal/docker/interface.go
package docker

import (
	"context"

	"github.com/rusenback/docker-exporter/internal/model"
)

// Runtime is the part of the Docker API a collection cycle needs.
// Tests replace it with a fake.
type Runtime interface {
	ListRunning(ctx context.Context) ([]model.Container, error)
	ContainerStats(ctx context.Context, id string) (*model.StatsDocument, error)
}

// Varmista että Client toteuttaa interfacen
var _ Runtime = (*Client)(nil)
