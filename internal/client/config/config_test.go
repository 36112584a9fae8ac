package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	var c Config
	c.LoadDefaults()

	assert.Equal(t, "http://localhost:8080", c.ServerURL)
	assert.Equal(t, "wss://hive-auth.arcange.eu", c.HiveAuthWSURL)
	assert.Equal(t, ".hivegate", c.DataDir)
	assert.Equal(t, 10*time.Second, c.RequestTimeout)
}

func writeConfigFile(t *testing.T, body string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "conf.json")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))

	orig := os.Args
	os.Args = []string{orig[0], "-c", path}
	t.Cleanup(func() { os.Args = orig })
}

func TestParseJson_Overlay(t *testing.T) {
	writeConfigFile(t, `{
		"server_url": "https://auth.example.org",
		"data_dir": "/var/lib/hivegate",
		"request_timeout": "30s"
	}`)

	var c Config
	c.LoadDefaults()
	parseJson(&c)

	assert.Equal(t, "https://auth.example.org", c.ServerURL)
	assert.Equal(t, "/var/lib/hivegate", c.DataDir)
	assert.Equal(t, 30*time.Second, c.RequestTimeout)
	// Untouched fields keep their defaults.
	assert.Equal(t, "wss://hive-auth.arcange.eu", c.HiveAuthWSURL)
}

func TestParseJson_MalformedFileIsIgnored(t *testing.T) {
	writeConfigFile(t, `{not json`)

	var c Config
	c.LoadDefaults()
	parseJson(&c)

	assert.Equal(t, "http://localhost:8080", c.ServerURL)
}

func TestParseFlags_Overlay(t *testing.T) {
	orig := os.Args
	os.Args = []string{orig[0], "-a", "https://auth.example.org", "-i", "5"}
	t.Cleanup(func() { os.Args = orig })

	var c Config
	c.LoadDefaults()
	parseFlags(&c)

	assert.Equal(t, "https://auth.example.org", c.ServerURL)
	assert.Equal(t, 5*time.Second, c.RequestTimeout)
}
