package config

import (
	"time"

	"github.com/dimasprakoso/siakad-cli/internal/client/api"
)

// Config holds runtime settings for the portal CLI.
//
// Fields:
//   - BaseURL: root of the backend REST API.
//   - RequestTimeout: per-request HTTP timeout.
//   - PageSize: rows per page in list views.
//   - SessionDBPath: sqlite file holding the persisted session.
//   - UnauthorizedPolicy: what a 401/403 on an authenticated call does
//     ("none" leaves it to the caller, "logout" clears the session).
type Config struct {
	BaseURL            string
	RequestTimeout     time.Duration
	PageSize           int
	SessionDBPath      string
	UnauthorizedPolicy api.UnauthorizedPolicy
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.BaseURL = "http://localhost:3000"
	c.RequestTimeout = 15 * time.Second
	c.PageSize = 10
	c.SessionDBPath = "siakad.db"
	c.UnauthorizedPolicy = api.PolicyNone
}

// LoadConfig constructs a Config, applies defaults, then overlays values
// from JSON (if present) and command-line flags (if present). Later sources
// take precedence over earlier ones.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseFlags(cfg)
	return cfg
}
