package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newViper() *viper.Viper {
	v := viper.New()
	SetDefaults(v)
	return v
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(newViper(), "")
	require.NoError(t, err)

	assert.Equal(t, "wss://pumpportal.fun/api/data", cfg.Feed.URL)
	assert.Equal(t, 3*time.Second, cfg.Feed.ReconnectDelay)
	assert.Equal(t, 30*time.Second, cfg.Feed.PingInterval)
	assert.Equal(t, ":8080", cfg.HTTP.Addr)
	assert.Equal(t, "PROPHET...XXXXX", cfg.Site.TokenCA)
	assert.Equal(t, "https://x.com/ProphetAI_Sol", cfg.Site.XLink)
	assert.Equal(t, 500*time.Millisecond, cfg.Oracle.MinDelay)
	assert.Equal(t, 1500*time.Millisecond, cfg.Oracle.MaxDelay)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Empty(t, cfg.OTel.Endpoint)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("PROPHET_HTTP_ADDR", "127.0.0.1:9999")
	t.Setenv("PROPHET_FEED_RECONNECT_DELAY", "5s")
	t.Setenv("PROPHET_SITE_TOKEN_CA", "So11111111111111111111111111111111111111112")

	cfg, err := Load(newViper(), "")
	require.NoError(t, err)

	assert.Equal(t, "127.0.0.1:9999", cfg.HTTP.Addr)
	assert.Equal(t, 5*time.Second, cfg.Feed.ReconnectDelay)
	assert.Equal(t, "So11111111111111111111111111111111111111112", cfg.Site.TokenCA)
}

func TestLoad_ConfigFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "prophet.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
[feed]
url = "ws://localhost:7000/feed"
reconnect_delay = "1s"

[oracle]
min_delay = "0s"
max_delay = "0s"
`), 0o644))

	cfg, err := Load(newViper(), path)
	require.NoError(t, err)

	assert.Equal(t, "ws://localhost:7000/feed", cfg.Feed.URL)
	assert.Equal(t, time.Second, cfg.Feed.ReconnectDelay)
	assert.Equal(t, time.Duration(0), cfg.Oracle.MaxDelay)
	// untouched keys keep defaults
	assert.Equal(t, 60*time.Second, cfg.Feed.ReadTimeout)
}

func TestLoad_MissingConfigFile(t *testing.T) {
	_, err := Load(newViper(), filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	base, err := Load(newViper(), "")
	require.NoError(t, err)

	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"http scheme", func(c *Config) { c.Feed.URL = "https://pumpportal.fun/api/data" }},
		{"zero reconnect delay", func(c *Config) { c.Feed.ReconnectDelay = 0 }},
		{"inverted delay range", func(c *Config) { c.Oracle.MinDelay, c.Oracle.MaxDelay = time.Second, time.Millisecond }},
		{"empty addr", func(c *Config) { c.HTTP.Addr = "" }},
		{"zero ping interval", func(c *Config) { c.Feed.PingInterval = 0 }},
		{"ping slower than read timeout", func(c *Config) { c.Feed.PingInterval = 90 * time.Second }},
		{"ping equal to read timeout", func(c *Config) { c.Feed.PingInterval = c.Feed.ReadTimeout }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := base
			tt.mutate(&cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestLoad_RejectsPingAtOrPastReadTimeout(t *testing.T) {
	t.Setenv("PROPHET_FEED_PING_INTERVAL", "90s")

	_, err := Load(newViper(), "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "feed.ping_interval")
}

func TestLoadEnvFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(path, []byte("PROPHET_LOG_LEVEL=debug\n"), 0o644))

	t.Setenv("PROPHET_LOG_LEVEL", "")
	os.Unsetenv("PROPHET_LOG_LEVEL")

	require.NoError(t, LoadEnvFile(path))
	cfg, err := Load(newViper(), "")
	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.Log.Level)

	assert.NoError(t, LoadEnvFile(filepath.Join(dir, "missing.env")))
	assert.NoError(t, LoadEnvFile(""))
}

func TestMarshalTOML_RoundTrip(t *testing.T) {
	cfg, err := Load(newViper(), "")
	require.NoError(t, err)

	data, err := cfg.MarshalTOML()
	require.NoError(t, err)
	assert.Contains(t, string(data), "reconnect_delay")
	assert.Contains(t, string(data), "3s")

	var schema fileSchema
	require.NoError(t, toml.Unmarshal(data, &schema))
	assert.Equal(t, cfg.Feed.URL, schema.Feed.URL)

	path := filepath.Join(t.TempDir(), "effective.toml")
	require.NoError(t, os.WriteFile(path, data, 0o644))

	again, err := Load(newViper(), path)
	require.NoError(t, err)
	assert.Equal(t, cfg, again)
}
