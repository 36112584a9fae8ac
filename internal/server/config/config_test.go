package config

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	var c Config
	c.LoadDefaults()

	assert.Equal(t, ":8080", c.EndpointAddr)
	assert.Equal(t, "https://api.hive.blog", c.ChainAPIURL)
	assert.Equal(t, EnvDevelopment, c.Env)
	assert.Equal(t, 14*24*time.Hour, c.SessionTTL)
	assert.Equal(t, 24*time.Hour, c.ChatTokenTTL)
	assert.Equal(t, 10*time.Second, c.UpstreamTimeout)
	assert.Empty(t, c.SessionSecret, "secrets must not have defaults")
	assert.Empty(t, c.ChatTokenSecret)
}

func TestValidate_RequiresSessionSecret(t *testing.T) {
	var c Config
	c.LoadDefaults()

	err := c.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "session secret")

	c.SessionSecret = "too-short"
	assert.Error(t, c.Validate())

	c.SessionSecret = strings.Repeat("s", 32)
	assert.NoError(t, c.Validate())
}

func TestValidate_ChecksEnvAndChainURL(t *testing.T) {
	var c Config
	c.LoadDefaults()
	c.SessionSecret = strings.Repeat("s", 32)

	c.Env = "staging"
	assert.Error(t, c.Validate())

	c.Env = EnvProduction
	assert.NoError(t, c.Validate())
	assert.True(t, c.Production())

	c.ChainAPIURL = ""
	assert.Error(t, c.Validate())
}

func TestParseEnv_OverlaysSecrets(t *testing.T) {
	t.Setenv("HIVEGATE_SESSION_SECRET", strings.Repeat("x", 32))
	t.Setenv("HIVEGATE_ENV", EnvProduction)

	var c Config
	c.LoadDefaults()
	parseEnv(&c)

	assert.Equal(t, strings.Repeat("x", 32), c.SessionSecret)
	assert.Equal(t, EnvProduction, c.Env)
	require.NoError(t, c.Validate())
}
