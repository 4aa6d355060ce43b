// cmd/dockerexporter/main.go
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/rusenback/docker-exporter/internal/collector"
	"github.com/rusenback/docker-exporter/internal/config"
	"github.com/rusenback/docker-exporter/internal/docker"
	"github.com/rusenback/docker-exporter/internal/logger"
	"github.com/rusenback/docker-exporter/internal/server"
	"github.com/rusenback/docker-exporter/internal/tui"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:          "dockerexporter",
		Short:        "Expose Docker container statistics as Prometheus metrics",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return serve(cmd)
		},
	}
	config.RegisterFlags(root.PersistentFlags())

	root.AddCommand(&cobra.Command{
		Use:   "top",
		Short: "Show the collected metrics in the terminal",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return top(cmd)
		},
	})
	return root
}

func serve(cmd *cobra.Command) error {
	cfg, err := config.Load(cmd.Flags())
	if err != nil {
		return err
	}

	log, err := logger.New(cfg.LogLevel, cfg.Debug)
	if err != nil {
		return fmt.Errorf("set up logger: %w", err)
	}
	defer logger.Flush(log)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	client, err := connect(ctx, cfg)
	if err != nil {
		log.Error("failed to connect to docker", zap.String("host", cfg.DockerHost), zap.Error(err))
		return err
	}
	defer client.Close()

	coll := collector.New(client, collector.Options{
		MaxWorkers: cfg.MaxWorkers,
		Timeout:    cfg.ScrapeTimeout,
	}, log.Named("collector"))

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		collector.NewExporter(coll),
	)

	log.Info("configuration loaded",
		zap.String("addr", cfg.Addr()),
		zap.String("docker_host", cfg.DockerHost),
		zap.Int("max_workers", cfg.MaxWorkers),
		zap.Int("pool_size", cfg.PoolSize),
		zap.Duration("scrape_timeout", cfg.ScrapeTimeout))

	return server.New(cfg.Addr(), reg, client, log.Named("server")).Run(ctx)
}

func top(cmd *cobra.Command) error {
	cfg, err := config.Load(cmd.Flags())
	if err != nil {
		return err
	}

	client, err := connect(cmd.Context(), cfg)
	if err != nil {
		return err
	}
	defer client.Close()

	// Logging would draw over the alt screen
	coll := collector.New(client, collector.Options{
		MaxWorkers: cfg.MaxWorkers,
		Timeout:    cfg.ScrapeTimeout,
	}, zap.NewNop())

	p := tea.NewProgram(tui.NewModel(coll, cfg.Refresh), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("run top: %w", err)
	}
	return nil
}

func connect(ctx context.Context, cfg *config.Config) (*docker.Client, error) {
	client, err := docker.NewClient(ctx, cfg.Docker())
	if err != nil {
		fmt.Fprintf(os.Stderr, "❌ Failed to connect to Docker: %v\n", err)
		fmt.Fprintln(os.Stderr, "\nMake sure Docker is running:")
		fmt.Fprintln(os.Stderr, "  sudo systemctl start docker")
		fmt.Fprintln(os.Stderr, "  sudo usermod -aG docker $USER")
		return nil, err
	}
	return client, nil
}
