// internal/docker/stats.go
package docker

import (
	"context"
	"fmt"

	jsoniter "github.com/json-iterator/go"
	"github.com/rusenback/docker-exporter/internal/model"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// ContainerStats hakee containerin statsit kerran (stream: false)
func (c *Client) ContainerStats(ctx context.Context, id string) (*model.StatsDocument, error) {
	resp, err := c.cli.ContainerStats(ctx, id, false)
	if err != nil {
		return nil, fmt.Errorf("get stats for %s: %w", id, err)
	}
	defer resp.Body.Close()

	var doc model.StatsDocument
	if err := json.NewDecoder(resp.Body).Decode(&doc); err != nil {
		return nil, fmt.Errorf("decode stats for %s: %w", id, err)
	}

	return &doc, nil
}
