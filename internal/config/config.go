package config

import (
	"errors"
	"fmt"
	"net"
	"strconv"
	"strings"
	"time"

	"github.com/rusenback/docker-exporter/internal/docker"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Config holds every configurable value of the exporter.
type Config struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Debug    bool   `mapstructure:"debug"`
	LogLevel string `mapstructure:"log_level"`

	// MaxWorkers bounds concurrent stats calls in one collection cycle.
	MaxWorkers int `mapstructure:"max_workers"`
	// PoolSize is the Docker client connection pool; 0 means MaxWorkers.
	PoolSize      int           `mapstructure:"pool_size"`
	ScrapeTimeout time.Duration `mapstructure:"scrape_timeout"`
	DockerHost    string        `mapstructure:"docker_host"`
	// TLSVerify and CertPath follow the docker CLI: ca.pem, cert.pem and
	// key.pem are read from CertPath.
	TLSVerify bool   `mapstructure:"tls_verify"`
	CertPath  string `mapstructure:"cert_path"`

	// Refresh is the redraw interval of the top view.
	Refresh time.Duration `mapstructure:"refresh"`
}

type option struct {
	key   string
	flag  string
	usage string
	def   interface{}
}

var options = []option{
	{"host", "host", "address to listen on (empty for all interfaces)", ""},
	{"port", "port", "port to listen on", 8080},
	{"debug", "debug", "enable debug logging", false},
	{"log_level", "log-level", "log level: debug, info, warn, error", "info"},
	{"max_workers", "max-workers", "maximum concurrent container stats requests", 8},
	{"pool_size", "pool-size", "docker client connection pool size (0 = max-workers)", 0},
	{"scrape_timeout", "scrape-timeout", "abort a collection cycle after this long (0 disables); keep it below the Prometheus scrape_timeout", 30 * time.Second},
	{"docker_host", "docker-host", "docker daemon address", docker.DefaultConfig().Host},
	{"tls_verify", "tls-verify", "use TLS and verify the docker daemon", false},
	{"cert_path", "cert-path", "directory with ca.pem, cert.pem and key.pem", ""},
	{"refresh", "refresh", "refresh interval of the top view", 2 * time.Second},
}

// RegisterFlags adds the exporter flags to fs.
func RegisterFlags(fs *pflag.FlagSet) {
	for _, o := range options {
		switch def := o.def.(type) {
		case string:
			fs.String(o.flag, def, o.usage)
		case int:
			fs.Int(o.flag, def, o.usage)
		case bool:
			fs.Bool(o.flag, def, o.usage)
		case time.Duration:
			fs.Duration(o.flag, def, o.usage)
		}
	}
}

// Load reads configuration from, in decreasing priority: flags set on the
// command line, EXPORTER_* environment variables (DOCKER_HOST for the
// daemon address), an optional config.yaml, and the defaults.
func Load(fs *pflag.FlagSet) (*Config, error) {
	v := viper.New()

	for _, o := range options {
		v.SetDefault(o.key, o.def)
		if fs == nil {
			continue
		}
		if f := fs.Lookup(o.flag); f != nil {
			if err := v.BindPFlag(o.key, f); err != nil {
				return nil, fmt.Errorf("bind flag %s: %w", o.flag, err)
			}
		}
	}

	v.SetEnvPrefix("EXPORTER")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	v.AutomaticEnv()
	for key, env := range map[string]string{
		"docker_host": "DOCKER_HOST",
		"tls_verify":  "DOCKER_TLS_VERIFY",
		"cert_path":   "DOCKER_CERT_PATH",
	} {
		if err := v.BindEnv(key, env); err != nil {
			return nil, err
		}
	}

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("./configs")
	v.AddConfigPath("/etc/docker-exporter")
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("cannot decode config: %w", err)
	}
	if cfg.PoolSize == 0 {
		cfg.PoolSize = cfg.MaxWorkers
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks ranges and that the connection pool can carry the
// configured fetch concurrency.
func (c *Config) Validate() error {
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("port %d out of range", c.Port)
	}
	if c.MaxWorkers <= 0 {
		return fmt.Errorf("max-workers must be positive, got %d", c.MaxWorkers)
	}
	if c.PoolSize < c.MaxWorkers {
		return fmt.Errorf("pool-size %d is smaller than max-workers %d", c.PoolSize, c.MaxWorkers)
	}
	if c.ScrapeTimeout < 0 {
		return fmt.Errorf("scrape-timeout must not be negative")
	}
	if c.DockerHost == "" {
		return fmt.Errorf("docker-host must not be empty")
	}
	if c.TLSVerify && c.CertPath == "" {
		return fmt.Errorf("tls-verify needs cert-path")
	}
	return nil
}

// Addr is the listen address for the HTTP server.
func (c *Config) Addr() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}

// Docker returns the client configuration derived from c.
func (c *Config) Docker() docker.Config {
	cfg := docker.DefaultConfig()
	cfg.Host = c.DockerHost
	cfg.PoolSize = c.PoolSize
	cfg.TLSVerify = c.TLSVerify
	cfg.CertPath = c.CertPath
	return cfg
}
