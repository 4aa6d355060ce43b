package docker

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/docker/docker/client"
)

// Config sisältää Docker client konfiguraation
type Config struct {
	Host      string
	TLSVerify bool
	CertPath  string
	Timeout   time.Duration

	// PoolSize caps the connections kept to the daemon. It has to be at
	// least the number of concurrent stats fetches, otherwise fetches
	// queue up behind each other on the transport.
	PoolSize int
}

func DefaultConfig() Config {
	return Config{
		Host:     client.DefaultDockerHost,
		Timeout:  30 * time.Second,
		PoolSize: 8,
	}
}

// Client wrappaa Docker API clientin
type Client struct {
	cli *client.Client
}

// NewClient luo uuden Docker clientin ja tarkistaa yhteyden
func NewClient(ctx context.Context, cfg Config) (*Client, error) {
	poolSize := cfg.PoolSize
	if poolSize <= 0 {
		poolSize = DefaultConfig().PoolSize
	}

	// WithHost configures the dialer of this transport for unix, npipe and tcp hosts.
	transport := &http.Transport{
		MaxConnsPerHost:     poolSize,
		MaxIdleConnsPerHost: poolSize,
		IdleConnTimeout:     90 * time.Second,
	}

	opts := []client.Opt{
		client.WithHTTPClient(&http.Client{Transport: transport}),
		client.WithHost(cfg.Host),
		client.WithAPIVersionNegotiation(),
	}

	if cfg.TLSVerify {
		opts = append(opts, client.WithTLSClientConfig(
			cfg.CertPath+"/ca.pem",
			cfg.CertPath+"/cert.pem",
			cfg.CertPath+"/key.pem",
		))
	}

	cli, err := client.NewClientWithOpts(opts...)
	if err != nil {
		return nil, fmt.Errorf("create docker client: %w", err)
	}

	c := &Client{cli: cli}

	pingCtx, cancel := context.WithTimeout(ctx, cfg.Timeout)
	defer cancel()

	if err := c.Ping(pingCtx); err != nil {
		cli.Close()
		return nil, err
	}

	return c, nil
}

// Ping checks that the daemon answers.
func (c *Client) Ping(ctx context.Context) error {
	if _, err := c.cli.Ping(ctx); err != nil {
		return fmt.Errorf("ping docker daemon at %s: %w", c.cli.DaemonHost(), err)
	}
	return nil
}

// Close sulkee yhteyden
func (c *Client) Close() error {
	if c.cli != nil {
		return c.cli.Close()
	}
	return nil
}
