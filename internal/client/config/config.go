package config

import (
	"path/filepath"
	"time"
)

// Config holds runtime settings for the MedQuery CLI.
//
// Fields:
//   - ServerURL: base URL of the backend HTTP API.
//   - StoragePath: SQLite file for the remembered session; empty runs
//     without persistent storage.
//   - RequestTimeout: per-request deadline; zero waits indefinitely.
//   - LogLevel: debug, info, warn or error.
type Config struct {
	ServerURL      string
	StoragePath    string
	RequestTimeout time.Duration
	LogLevel       string
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.ServerURL = "http://localhost:8000"
	c.StoragePath = filepath.Join(".medquery", "session.db")
	c.RequestTimeout = 0
	c.LogLevel = "warn"
}

// LoadConfig constructs a Config, applies defaults, then overlays values from
// JSON (if present) and command-line flags (if present). Later sources take
// precedence over earlier ones.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseFlags(cfg)
	return cfg
}
