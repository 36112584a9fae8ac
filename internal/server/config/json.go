package config

import (
	"encoding/json"
	"os"

	"github.com/hivegate/hivegate/internal/flagx"
	"github.com/hivegate/hivegate/internal/timex"
)

// JsonConfig is the DTO for the optional JSON configuration file. Interval
// fields use timex.Duration so both "336h" strings and integer nanoseconds
// parse. Values here are copied into the runtime Config after unmarshalling.
type JsonConfig struct {
	EndpointAddr    string         `json:"endpoint_addr"`
	ChainAPIURL     string         `json:"chain_api_url"`
	HiveAuthWSURL   string         `json:"hiveauth_ws_url"`
	Env             string         `json:"env"`
	SessionSecret   string         `json:"session_secret"`
	SessionTTL      timex.Duration `json:"session_ttl"`
	ChatTokenSecret string         `json:"chat_token_secret"`
	ChatTokenTTL    timex.Duration `json:"chat_token_ttl"`
	UpstreamTimeout timex.Duration `json:"upstream_timeout"`
}

// parseJson overlays values from the file named by -c/-config, when given.
// A missing or malformed file leaves the config untouched.
func parseJson(config *Config) {
	path := flagx.JsonConfigFlags()
	if path == "" {
		return
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return
	}

	var jc JsonConfig
	if err := json.Unmarshal(data, &jc); err != nil {
		return
	}

	if jc.EndpointAddr != "" {
		config.EndpointAddr = jc.EndpointAddr
	}
	if jc.ChainAPIURL != "" {
		config.ChainAPIURL = jc.ChainAPIURL
	}
	if jc.HiveAuthWSURL != "" {
		config.HiveAuthWSURL = jc.HiveAuthWSURL
	}
	if jc.Env != "" {
		config.Env = jc.Env
	}
	if jc.SessionSecret != "" {
		config.SessionSecret = jc.SessionSecret
	}
	if jc.SessionTTL.Duration != 0 {
		config.SessionTTL = jc.SessionTTL.Duration
	}
	if jc.ChatTokenSecret != "" {
		config.ChatTokenSecret = jc.ChatTokenSecret
	}
	if jc.ChatTokenTTL.Duration != 0 {
		config.ChatTokenTTL = jc.ChatTokenTTL.Duration
	}
	if jc.UpstreamTimeout.Duration != 0 {
		config.UpstreamTimeout = jc.UpstreamTimeout.Duration
	}
}
