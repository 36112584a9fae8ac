package config

import "time"

// Config holds runtime settings for the hivegate CLI.
//
// Fields:
//   - ServerURL: base URL of the auth server, e.g. http://localhost:8080.
//   - HiveAuthWSURL: websocket endpoint for hiveauth logins.
//   - DataDir: directory holding the encrypted key store.
//   - RequestTimeout: per-request timeout for server calls.
type Config struct {
	ServerURL      string
	HiveAuthWSURL  string
	DataDir        string
	RequestTimeout time.Duration
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.ServerURL = "http://localhost:8080"
	c.HiveAuthWSURL = "wss://hive-auth.arcange.eu"
	c.DataDir = ".hivegate"
	c.RequestTimeout = 10 * time.Second
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
