package infra

import (
	"fmt"
	"os"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

// Config holds every application setting. Sensitive or deploy-specific
// values can be overridden through environment variables after loading.
type Config struct {
	App struct {
		Name    string `yaml:"name"`
		Version string `yaml:"version"`
	} `yaml:"app"`

	Server struct {
		Addr       string `yaml:"addr"`
		CORSOrigin string `yaml:"cors_origin"`
	} `yaml:"server"`

	Database struct {
		Path string `yaml:"path"`
	} `yaml:"database"`

	Trading struct {
		StartingBalance   decimal.Decimal `yaml:"starting_balance"`
		QuoteDeviationPct decimal.Decimal `yaml:"quote_deviation_pct"`
	} `yaml:"trading"`

	Feed struct {
		Binance struct {
			Enabled bool     `yaml:"enabled"`
			WSURL   string   `yaml:"ws_url"`
			Symbols []string `yaml:"symbols"`
		} `yaml:"binance"`
	} `yaml:"feed"`

	Logging struct {
		Level string `yaml:"level"`
	} `yaml:"logging"`
}

// LoadConfig reads and parses the configuration file.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	overrideWithEnv(&cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// Validate checks configuration validity
func (c *Config) Validate() error {
	if c.Server.Addr == "" {
		return fmt.Errorf("server addr is required")
	}
	if c.Database.Path == "" {
		return fmt.Errorf("database path is required")
	}
	if !c.Trading.StartingBalance.IsPositive() {
		return fmt.Errorf("starting balance must be positive")
	}
	if c.Trading.QuoteDeviationPct.IsNegative() {
		return fmt.Errorf("quote deviation tolerance cannot be negative")
	}

	if c.Feed.Binance.Enabled {
		if !hasPrefix(c.Feed.Binance.WSURL, "ws://") && !hasPrefix(c.Feed.Binance.WSURL, "wss://") {
			return fmt.Errorf("invalid Binance WS URL: %s", c.Feed.Binance.WSURL)
		}
		if len(c.Feed.Binance.Symbols) == 0 {
			return fmt.Errorf("at least one Binance symbol is required when the feed is enabled")
		}
	}

	return nil
}

func hasPrefix(s, prefix string) bool {
	return len(s) >= len(prefix) && s[0:len(prefix)] == prefix
}

// overrideWithEnv applies environment overrides when present.
func overrideWithEnv(cfg *Config) {
	if addr := os.Getenv("TRADESIM_ADDR"); addr != "" {
		cfg.Server.Addr = addr
	}
	if path := os.Getenv("TRADESIM_DB_PATH"); path != "" {
		cfg.Database.Path = path
	}
	if level := os.Getenv("TRADESIM_LOG_LEVEL"); level != "" {
		cfg.Logging.Level = level
	}
	if origin := os.Getenv("TRADESIM_CORS_ORIGIN"); origin != "" {
		cfg.Server.CORSOrigin = origin
	}
}
