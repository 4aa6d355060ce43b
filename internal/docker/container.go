// internal/docker/container.go
package docker

import (
	"context"
	"fmt"

	"github.com/docker/docker/api/types/container"
	"github.com/rusenback/docker-exporter/internal/model"
)

// ListRunning palauttaa käynnissä olevat containerit
func (c *Client) ListRunning(ctx context.Context) ([]model.Container, error) {
	containers, err := c.cli.ContainerList(ctx, container.ListOptions{})
	if err != nil {
		return nil, fmt.Errorf("list containers: %w", err)
	}

	result := make([]model.Container, 0, len(containers))
	for _, cont := range containers {
		name := cont.ID
		if len(cont.Names) > 0 {
			name = model.DisplayName(cont.Names[0])
		}

		result = append(result, model.Container{
			ID:   cont.ID,
			Name: name,
		})
	}

	return result, nil
}
