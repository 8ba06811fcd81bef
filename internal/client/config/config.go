package config

import (
	"errors"
	"fmt"
	"net/url"
	"time"
)

// Config holds runtime settings for the gymadmin CLI.
//
// Fields:
//   - ServerURL: base URL of the back office REST API.
//   - DatabasePath: SQLite file that keeps the credential between runs.
//   - PageSize: rows requested per list page.
//   - LoginTimeout: bound on login and token verification calls.
//   - RequestTimeout: bound on list and mutation calls.
//   - SessionCheckInterval: how often the client revalidates the session.
//   - LogLevel: debug, info, warn or error.
type Config struct {
	ServerURL            string
	DatabasePath         string
	PageSize             int
	LoginTimeout         time.Duration
	RequestTimeout       time.Duration
	SessionCheckInterval time.Duration
	LogLevel             string
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.ServerURL = "http://127.0.0.1:8000"
	c.DatabasePath = "gymadmin.db"
	c.PageSize = 10
	c.LoginTimeout = 5 * time.Second
	c.RequestTimeout = 15 * time.Second
	c.SessionCheckInterval = 30 * time.Second
	c.LogLevel = "info"
}

// LoadConfig constructs a Config, applies defaults, then overlays values from
// JSON (if present), the environment and command-line flags. Later sources
// take precedence over earlier ones.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseEnv(cfg)
	parseFlags(cfg)
	return cfg
}

// Validate reports settings the client cannot start with.
func (c *Config) Validate() error {
	var errs []error
	u, err := url.Parse(c.ServerURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		errs = append(errs, fmt.Errorf("server url %q must be an absolute http(s) URL", c.ServerURL))
	}
	if c.DatabasePath == "" {
		errs = append(errs, errors.New("database path is required"))
	}
	if c.PageSize <= 0 {
		errs = append(errs, fmt.Errorf("page size must be positive, got %d", c.PageSize))
	}
	for name, d := range map[string]time.Duration{
		"login timeout":          c.LoginTimeout,
		"request timeout":        c.RequestTimeout,
		"session check interval": c.SessionCheckInterval,
	} {
		if d <= 0 {
			errs = append(errs, fmt.Errorf("%s must be positive, got %s", name, d))
		}
	}
	return errors.Join(errs...)
}
