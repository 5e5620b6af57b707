package config

import (
	"fmt"

	"github.com/pelletier/go-toml/v2"
)

type fileSchema struct {
	Feed   feedSchema   `toml:"feed"`
	HTTP   httpSchema   `toml:"http"`
	Site   siteSchema   `toml:"site"`
	Oracle oracleSchema `toml:"oracle"`
	Log    logSchema    `toml:"log"`
	OTel   otelSchema   `toml:"otel"`
}

type feedSchema struct {
	URL            string `toml:"url"`
	ReconnectDelay string `toml:"reconnect_delay"`
	PingInterval   string `toml:"ping_interval"`
	ReadTimeout    string `toml:"read_timeout"`
}

type httpSchema struct {
	Addr string `toml:"addr"`
}

type siteSchema struct {
	TokenCA string `toml:"token_ca"`
	XLink   string `toml:"x_link"`
}

type oracleSchema struct {
	MinDelay string `toml:"min_delay"`
	MaxDelay string `toml:"max_delay"`
}

type logSchema struct {
	Env   string `toml:"env"`
	Level string `toml:"level"`
}

type otelSchema struct {
	Endpoint string `toml:"endpoint"`
}

// MarshalTOML renders c in config file form. Durations use Go duration
// syntax so the output can be fed back through --config.
func (c Config) MarshalTOML() ([]byte, error) {
	schema := fileSchema{
		Feed: feedSchema{
			URL:            c.Feed.URL,
			ReconnectDelay: c.Feed.ReconnectDelay.String(),
			PingInterval:   c.Feed.PingInterval.String(),
			ReadTimeout:    c.Feed.ReadTimeout.String(),
		},
		HTTP: httpSchema{Addr: c.HTTP.Addr},
		Site: siteSchema{TokenCA: c.Site.TokenCA, XLink: c.Site.XLink},
		Oracle: oracleSchema{
			MinDelay: c.Oracle.MinDelay.String(),
			MaxDelay: c.Oracle.MaxDelay.String(),
		},
		Log:  logSchema{Env: c.Log.Env, Level: c.Log.Level},
		OTel: otelSchema{Endpoint: c.OTel.Endpoint},
	}

	data, err := toml.Marshal(schema)
	if err != nil {
		return nil, fmt.Errorf("encode config: %w", err)
	}
	return data, nil
}
