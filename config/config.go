package config

import (
	"encoding/json"
	"net/url"
	"os"
	"strings"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/rustyeddy/compound/internal/logging"
	"github.com/rustyeddy/compound/params"
)

// Config is the complete calculator configuration.
type Config struct {
	Defaults params.Parameters `json:"defaults" yaml:"defaults"`
	Server   ServerConfig      `json:"server" yaml:"server"`
	Log      LogConfig         `json:"log" yaml:"log"`
}

// ServerConfig contains HTTP serving parameters
type ServerConfig struct {
	Addr string `json:"addr" yaml:"addr"`
	// BaseURL is the public address share links point at.
	BaseURL string `json:"base_url" yaml:"base_url"`
}

type LogConfig struct {
	Level string `json:"level" yaml:"level"` // debug|info|warn|error
}

// LoadFromFile loads configuration from a file (YAML, falling back to JSON)
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "read config file")
	}

	cfg := Default()

	// Try YAML first, fall back to JSON
	if err := yaml.Unmarshal(data, cfg); err != nil {
		if jerr := json.Unmarshal(data, cfg); jerr != nil {
			return nil, errors.Wrap(jerr, "parse config (tried YAML and JSON)")
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}

	return cfg, nil
}

// SaveToFile saves configuration as YAML or JSON depending on the extension
func (c *Config) SaveToFile(path string) error {
	var data []byte
	var err error

	if strings.HasSuffix(path, ".yaml") || strings.HasSuffix(path, ".yml") {
		data, err = yaml.Marshal(c)
	} else {
		data, err = json.MarshalIndent(c, "", "  ")
	}
	if err != nil {
		return errors.Wrap(err, "marshal config")
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return errors.Wrap(err, "write config file")
	}
	return nil
}

// Validate checks if the configuration is valid. Defaults may use the
// wider share-link ranges.
func (c *Config) Validate() error {
	d := c.Defaults
	if !params.CapitalValid(d.StartingCapital) {
		return errors.New("defaults.capital must be positive")
	}
	if !params.ProfitInBounds(d.ProfitPerTrade, params.URL) {
		return errors.Errorf("defaults.profit must be between %g and %g",
			params.URLBounds.Profit.Min, params.URLBounds.Profit.Max)
	}
	if !params.TradesInBounds(d.NumTrades, params.URL) {
		return errors.Errorf("defaults.trades must be between %g and %g",
			params.URLBounds.Trades.Min, params.URLBounds.Trades.Max)
	}
	if c.Server.Addr == "" {
		return errors.New("server.addr is required")
	}
	u, err := url.Parse(c.Server.BaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return errors.Errorf("server.base_url must be an absolute URL, got %q", c.Server.BaseURL)
	}
	if _, err := logging.ParseLevel(c.Log.Level); err != nil {
		return errors.New("log.level must be one of debug|info|warn|error")
	}
	return nil
}

// Default returns a configuration with sensible defaults
func Default() *Config {
	return &Config{
		Defaults: params.Default(),
		Server: ServerConfig{
			Addr:    ":8080",
			BaseURL: "http://localhost:8080/",
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}
