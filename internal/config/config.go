// Package config loads prophet settings from defaults, an optional config
// file, a .env file and PROPHET_* environment variables.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"prophet-ai/internal/pumpportal"
)

// EnvPrefix is prepended to every environment override, e.g. PROPHET_HTTP_ADDR.
const EnvPrefix = "PROPHET"

// Config is the effective configuration.
type Config struct {
	Feed   FeedConfig   `mapstructure:"feed"`
	HTTP   HTTPConfig   `mapstructure:"http"`
	Site   SiteConfig   `mapstructure:"site"`
	Oracle OracleConfig `mapstructure:"oracle"`
	Log    LogConfig    `mapstructure:"log"`
	OTel   OTelConfig   `mapstructure:"otel"`
}

// FeedConfig configures the PumpPortal connection.
type FeedConfig struct {
	URL            string        `mapstructure:"url"`
	ReconnectDelay time.Duration `mapstructure:"reconnect_delay"`
	PingInterval   time.Duration `mapstructure:"ping_interval"`
	ReadTimeout    time.Duration `mapstructure:"read_timeout"`
}

// HTTPConfig configures the web server.
type HTTPConfig struct {
	Addr string `mapstructure:"addr"`
}

// SiteConfig holds landing page display values.
type SiteConfig struct {
	TokenCA string `mapstructure:"token_ca"`
	XLink   string `mapstructure:"x_link"`
}

// OracleConfig bounds the presentation delay before a reply.
type OracleConfig struct {
	MinDelay time.Duration `mapstructure:"min_delay"`
	MaxDelay time.Duration `mapstructure:"max_delay"`
}

// LogConfig selects the zap preset and level.
type LogConfig struct {
	Env   string `mapstructure:"env"`
	Level string `mapstructure:"level"`
}

// OTelConfig enables OTLP tracing when Endpoint is set.
type OTelConfig struct {
	Endpoint string `mapstructure:"endpoint"`
}

// Defaults for every key.
var defaults = map[string]any{
	"feed.url":             pumpportal.DefaultEndpoint,
	"feed.reconnect_delay": 3 * time.Second,
	"feed.ping_interval":   30 * time.Second,
	"feed.read_timeout":    60 * time.Second,
	"http.addr":            ":8080",
	"site.token_ca":        "PROPHET...XXXXX",
	"site.x_link":          "https://x.com/ProphetAI_Sol",
	"oracle.min_delay":     500 * time.Millisecond,
	"oracle.max_delay":     1500 * time.Millisecond,
	"log.env":              "prod",
	"log.level":            "info",
	"otel.endpoint":        "",
}

// SetDefaults registers defaults and environment bindings on v.
func SetDefaults(v *viper.Viper) {
	for key, value := range defaults {
		v.SetDefault(key, value)
	}
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
}

// LoadEnvFile loads KEY=VALUE pairs from path without overriding variables
// already set. A missing file is not an error.
func LoadEnvFile(path string) error {
	if path == "" {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("load env file %s: %w", path, err)
	}
	return nil
}

// Load reads configFile (if set) into v and returns the validated config.
// v should already carry defaults and any bound flags.
func Load(v *viper.Viper, configFile string) (Config, error) {
	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config %s: %w", configFile, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks value ranges.
func (c Config) Validate() error {
	u, err := url.Parse(c.Feed.URL)
	if err != nil {
		return fmt.Errorf("invalid feed.url: %w", err)
	}
	if u.Scheme != "ws" && u.Scheme != "wss" {
		return fmt.Errorf("invalid feed.url %q: scheme must be ws or wss", c.Feed.URL)
	}
	if c.Feed.ReconnectDelay <= 0 {
		return fmt.Errorf("feed.reconnect_delay must be positive, got %v", c.Feed.ReconnectDelay)
	}
	if c.Feed.PingInterval <= 0 || c.Feed.ReadTimeout <= 0 {
		return fmt.Errorf("feed.ping_interval and feed.read_timeout must be positive, got %v and %v",
			c.Feed.PingInterval, c.Feed.ReadTimeout)
	}
	// A quiet socket is only kept alive by pongs, so a ping must land inside the read deadline.
	if c.Feed.PingInterval >= c.Feed.ReadTimeout {
		return fmt.Errorf("feed.ping_interval (%v) must be shorter than feed.read_timeout (%v)",
			c.Feed.PingInterval, c.Feed.ReadTimeout)
	}
	if c.Oracle.MinDelay < 0 || c.Oracle.MaxDelay < c.Oracle.MinDelay {
		return fmt.Errorf("oracle delay range [%v, %v] is invalid", c.Oracle.MinDelay, c.Oracle.MaxDelay)
	}
	if c.HTTP.Addr == "" {
		return errors.New("http.addr is required")
	}
	return nil
}
