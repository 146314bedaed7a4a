// Package config loads the explorer configuration.
//
// Settings come from three layers, applied in order:
//
//  1. Built-in defaults (Default).
//  2. An optional YAML file, with ${VAR} references expanded from the environment.
//  3. Environment variable overrides (API_BASE_URL, ETH_RPC_URL, ...).
//
// The result is validated strictly; suspicious but legal values produce a
// warning on stderr instead of an error.
package config

import (
	"errors"
	"fmt"
	"io"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// DefaultPath is tried when --config is not given. Its absence is not an error.
const DefaultPath = "config/explorer.yaml"

const (
	DriverFile   = "file"
	DriverSQLite = "sqlite"
)

type Config struct {
	API       APIConfig       `yaml:"api"`
	RPC       RPCConfig       `yaml:"rpc"`
	Query     QueryConfig     `yaml:"query"`
	Dashboard DashboardConfig `yaml:"dashboard"`
	Storage   StorageConfig   `yaml:"storage"`
	Logging   LoggingConfig   `yaml:"logging"`
}

type APIConfig struct {
	BaseURL   string        `yaml:"base_url"`   // Indexer REST origin, e.g. http://localhost:8080
	PingRoute string        `yaml:"ping_route"` // Health route probed by status/watch
	Timeout   time.Duration `yaml:"timeout"`    // 0 means no client-side timeout
}

type RPCConfig struct {
	URL     string        `yaml:"url"`     // JSON-RPC endpoint used for eth_blockNumber
	Timeout time.Duration `yaml:"timeout"` // 0 means no client-side timeout
}

type QueryConfig struct {
	TraceChunkSize    uint64 `yaml:"trace_chunk_size"`
	TransferChunkSize uint64 `yaml:"transfer_chunk_size"`
}

type DashboardConfig struct {
	RefreshInterval time.Duration `yaml:"refresh_interval"`
}

type StorageConfig struct {
	Driver string `yaml:"driver"` // "file" or "sqlite"
	Path   string `yaml:"path"`
}

type LoggingConfig struct {
	Level       string `yaml:"level"`
	Development bool   `yaml:"development"`
}

// Default returns the configuration used when nothing overrides it.
func Default() *Config {
	return &Config{
		API: APIConfig{
			BaseURL:   "http://localhost:8080",
			PingRoute: "/ping",
		},
		RPC: RPCConfig{
			URL: "https://ethereum-rpc.publicnode.com",
		},
		Query: QueryConfig{
			TraceChunkSize:    50000,
			TransferChunkSize: 30000,
		},
		Dashboard: DashboardConfig{
			RefreshInterval: 10 * time.Second,
		},
		Storage: StorageConfig{
			Driver: DriverFile,
		},
		Logging: LoggingConfig{
			Level:       "warn",
			Development: true,
		},
	}
}

// Load reads the YAML file at path on top of the defaults, applies environment
// overrides and validates the result. The file must exist.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}
	return build(data, os.LookupEnv, os.Stderr)
}

// LoadOrDefault behaves like Load but falls back to the defaults when path does not exist.
func LoadOrDefault(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
		data = nil
	}
	return build(data, os.LookupEnv, os.Stderr)
}

func build(data []byte, lookup func(string) (string, bool), warn io.Writer) (*Config, error) {
	cfg := Default()

	if len(data) > 0 {
		expanded := os.Expand(string(data), func(key string) string {
			v, _ := lookup(key)
			return v
		})
		if err := yaml.Unmarshal([]byte(expanded), cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	}

	if err := cfg.applyEnv(lookup); err != nil {
		return nil, err
	}
	if err := cfg.ApplyDefaults(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(warn); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv(lookup func(string) (string, bool)) error {
	str := func(key string, dst *string) {
		if v, ok := lookup(key); ok && strings.TrimSpace(v) != "" {
			*dst = strings.TrimSpace(v)
		}
	}
	num := func(key string, dst *uint64) error {
		v, ok := lookup(key)
		if !ok || strings.TrimSpace(v) == "" {
			return nil
		}
		n, err := strconv.ParseUint(strings.TrimSpace(v), 10, 64)
		if err != nil {
			return fmt.Errorf("%s: expected a non-negative integer, got %q", key, v)
		}
		*dst = n
		return nil
	}

	str("API_BASE_URL", &c.API.BaseURL)
	str("PING_ROUTE", &c.API.PingRoute)
	str("ETH_RPC_URL", &c.RPC.URL)
	str("STORAGE_DRIVER", &c.Storage.Driver)
	str("STORAGE_PATH", &c.Storage.Path)
	str("LOG_LEVEL", &c.Logging.Level)

	if v, ok := lookup("API_TIMEOUT"); ok && strings.TrimSpace(v) != "" {
		d, err := time.ParseDuration(strings.TrimSpace(v))
		if err != nil {
			return fmt.Errorf("API_TIMEOUT: %w", err)
		}
		c.API.Timeout = d
	}
	if err := num("TRACE_CHUNK_SIZE", &c.Query.TraceChunkSize); err != nil {
		return err
	}
	if err := num("TRANSFER_CHUNK_SIZE", &c.Query.TransferChunkSize); err != nil {
		return err
	}
	var refreshMS uint64
	if err := num("DASHBOARD_REFRESH_MS", &refreshMS); err != nil {
		return err
	}
	if refreshMS > 0 {
		c.Dashboard.RefreshInterval = time.Duration(refreshMS) * time.Millisecond
	}
	return nil
}

// ApplyDefaults fills values that depend on other settings.
func (c *Config) ApplyDefaults() error {
	c.Storage.Driver = strings.ToLower(c.Storage.Driver)
	if c.Storage.Path == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("resolve storage path: %w", err)
		}
		name := "storage.json"
		if c.Storage.Driver == DriverSQLite {
			name = "storage.db"
		}
		c.Storage.Path = filepath.Join(home, ".eth-indexer-explorer", name)
	}
	if c.API.PingRoute != "" && !strings.HasPrefix(c.API.PingRoute, "/") {
		c.API.PingRoute = "/" + c.API.PingRoute
	}
	c.API.BaseURL = strings.TrimRight(c.API.BaseURL, "/")
	return nil
}

// Validate rejects unusable settings and writes warnings for suspicious ones to warn.
func (c *Config) Validate(warn io.Writer) error {
	if err := validateURL("api.base_url", c.API.BaseURL); err != nil {
		return err
	}
	if err := validateURL("rpc.url", c.RPC.URL); err != nil {
		return err
	}
	if c.API.PingRoute == "" {
		return fmt.Errorf("api.ping_route is required")
	}
	if c.API.Timeout < 0 || c.RPC.Timeout < 0 {
		return fmt.Errorf("timeouts must be >= 0")
	}
	if c.Query.TraceChunkSize == 0 {
		return fmt.Errorf("query.trace_chunk_size must be > 0")
	}
	if c.Query.TransferChunkSize == 0 {
		return fmt.Errorf("query.transfer_chunk_size must be > 0")
	}
	if c.Dashboard.RefreshInterval <= 0 {
		return fmt.Errorf("dashboard.refresh_interval must be > 0")
	}
	switch c.Storage.Driver {
	case DriverFile, DriverSQLite:
	default:
		return fmt.Errorf("storage.driver %q is not supported (expected %s or %s)", c.Storage.Driver, DriverFile, DriverSQLite)
	}

	if c.Dashboard.RefreshInterval < time.Second {
		fmt.Fprintf(warn, "Warning: dashboard refresh interval is very low (%s); the indexer will be polled aggressively\n", c.Dashboard.RefreshInterval)
	}
	if c.API.Timeout > 0 && c.API.Timeout < 500*time.Millisecond {
		fmt.Fprintf(warn, "Warning: api timeout is very low (%s); range queries may fail before the indexer answers\n", c.API.Timeout)
	}
	return nil
}

func validateURL(field, raw string) error {
	if raw == "" {
		return fmt.Errorf("%s is required", field)
	}
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("%s: invalid url: %w", field, err)
	}
	if u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("%s: invalid url (missing scheme or host)", field)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("%s: invalid url scheme %q (expected http or https)", field, u.Scheme)
	}
	return nil
}
