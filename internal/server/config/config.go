// Package config handles configuration for the auth server, including
// defaults, JSON overlay, environment overrides, and command-line flags.
package config

import (
	"fmt"
	"os"
	"time"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

// minSecretLength is the shortest session/chat secret Validate accepts.
const minSecretLength = 32

// Config holds runtime settings for the hivegate auth server.
//
// SessionSecret has no default on purpose: the session cookie is encrypted
// with keys derived from it, so a missing secret must stop the server at
// startup rather than surface at the first request.
type Config struct {
	EndpointAddr    string
	ChainAPIURL     string
	HiveAuthWSURL   string
	Env             string
	SessionSecret   string
	SessionTTL      time.Duration
	ChatTokenSecret string
	ChatTokenTTL    time.Duration
	UpstreamTimeout time.Duration
}

// LoadDefaults populates Config with development defaults. Secrets are left
// empty and must come from the environment, the JSON file, or flags.
func (c *Config) LoadDefaults() {
	c.EndpointAddr = ":8080"
	c.ChainAPIURL = "https://api.hive.blog"
	c.HiveAuthWSURL = "wss://hive-auth.arcange.eu"
	c.Env = EnvDevelopment
	c.SessionTTL = 14 * 24 * time.Hour
	c.ChatTokenTTL = 24 * time.Hour
	c.UpstreamTimeout = 10 * time.Second
}

// parseEnv overlays secrets and the bind address from the environment.
func parseEnv(c *Config) {
	if v := os.Getenv("HIVEGATE_ADDR"); v != "" {
		c.EndpointAddr = v
	}
	if v := os.Getenv("HIVEGATE_CHAIN_API"); v != "" {
		c.ChainAPIURL = v
	}
	if v := os.Getenv("HIVEGATE_ENV"); v != "" {
		c.Env = v
	}
	if v := os.Getenv("HIVEGATE_SESSION_SECRET"); v != "" {
		c.SessionSecret = v
	}
	if v := os.Getenv("HIVEGATE_CHAT_SECRET"); v != "" {
		c.ChatTokenSecret = v
	}
}

// Validate fails fast on configuration the server cannot run with.
func (c *Config) Validate() error {
	if len(c.SessionSecret) < minSecretLength {
		return fmt.Errorf("session secret is required and must be at least %d characters", minSecretLength)
	}
	if c.ChatTokenSecret != "" && len(c.ChatTokenSecret) < minSecretLength {
		return fmt.Errorf("chat token secret must be at least %d characters", minSecretLength)
	}
	if c.Env != EnvDevelopment && c.Env != EnvProduction {
		return fmt.Errorf("unknown env %q", c.Env)
	}
	if c.ChainAPIURL == "" {
		return fmt.Errorf("chain API URL is required")
	}
	return nil
}

// Production reports whether cookies must carry the Secure attribute.
func (c *Config) Production() bool {
	return c.Env == EnvProduction
}

// LoadConfig builds a Config by applying defaults, then overlaying values
// from an optional JSON file, the environment, and finally command-line
// flags.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseEnv(cfg)
	parseFlags(cfg)
	return cfg
}
