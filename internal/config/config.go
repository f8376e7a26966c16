// Package config provides Viper-based configuration management for Courtside
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/abelbrown/courtside/internal/coord"
)

// Adapter kinds.
const (
	KindNBA      = "nba"       // nba.com top stories scrape
	KindESPN     = "espn"      // espn.com front page scrape
	KindESPNNews = "espn_news" // ESPN news API
	KindScores   = "scores"    // scoreboard, completed games
	KindSchedule = "schedule"  // scoreboard, upcoming games
	KindRSS      = "rss"
)

// Config represents the complete Courtside configuration
type Config struct {
	Server   ServerConfig    `mapstructure:"server"`
	Fetch    FetchConfig     `mapstructure:"fetch"`
	Pipeline PipelineConfig  `mapstructure:"pipeline"`
	Fallback FallbackConfig  `mapstructure:"fallback"`
	Adapters []AdapterConfig `mapstructure:"adapters"`
	Log      LogConfig       `mapstructure:"log"`
	Client   ClientConfig    `mapstructure:"client"`
}

// ServerConfig contains delivery endpoint settings
type ServerConfig struct {
	Addr            string        `mapstructure:"addr"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

// FetchConfig contains the shared request profile
type FetchConfig struct {
	UserAgent     string        `mapstructure:"user_agent"`
	PageTimeout   time.Duration `mapstructure:"page_timeout"`
	APITimeout    time.Duration `mapstructure:"api_timeout"`
	RatePerSecond float64       `mapstructure:"rate_per_second"`
}

// PipelineConfig contains merge settings
type PipelineConfig struct {
	MaxItems       int           `mapstructure:"max_items"`
	AdapterTimeout time.Duration `mapstructure:"adapter_timeout"`
	FilterPromos   bool          `mapstructure:"filter_promos"`
}

// FallbackConfig contains fallback substitution settings
type FallbackConfig struct {
	PerSource bool `mapstructure:"per_source"`
}

// AdapterConfig enables one upstream. URL overrides the kind's default.
type AdapterConfig struct {
	Name    string `mapstructure:"name"`
	Kind    string `mapstructure:"kind"`
	URL     string `mapstructure:"url"`
	Enabled bool   `mapstructure:"enabled"`
	Days    int    `mapstructure:"days"` // scoreboard window, scores/schedule only
}

// LogConfig contains logging settings
type LogConfig struct {
	Level      string `mapstructure:"level"`
	EventsFile string `mapstructure:"events_file"` // JSONL event log; empty disables
	Dir        string `mapstructure:"dir"`         // watch mode log directory
}

// ClientConfig contains presentation client settings
type ClientConfig struct {
	Endpoint        string        `mapstructure:"endpoint"`
	RefreshInterval time.Duration `mapstructure:"refresh_interval"`
	Timeout         time.Duration `mapstructure:"timeout"`
}

// Load reads configuration from file and environment variables
func Load(cfgFile string) (*Config, error) {
	v := viper.New()

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.SetConfigName("courtside")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.config/courtside")
	}

	// COURTSIDE_SERVER_ADDR -> server.addr
	v.SetEnvPrefix("COURTSIDE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("reading config: %w", err)
		}
		// Config file not found is OK, use defaults
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	if err := validate(&cfg); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return &cfg, nil
}

// DefaultAdapters is the adapter set used when none is configured, in merge
// order.
func DefaultAdapters() []AdapterConfig {
	return []AdapterConfig{
		{Name: "NBA Official", Kind: KindNBA, Enabled: true},
		{Name: "ESPN NBA", Kind: KindESPN, Enabled: true},
		{Name: "NBA Scores", Kind: KindScores, Enabled: true, Days: 3},
		{Name: "NBA Schedule", Kind: KindSchedule, Enabled: true, Days: 3},
		{Name: "ESPN NBA", Kind: KindESPNNews, Enabled: false},
		{Name: "NBA RSS", Kind: KindRSS, Enabled: false},
	}
}

// setDefaults configures default values
func setDefaults(v *viper.Viper) {
	v.SetDefault("server.addr", ":8888")
	v.SetDefault("server.shutdown_timeout", 10*time.Second)

	v.SetDefault("fetch.user_agent", "")
	v.SetDefault("fetch.page_timeout", 15*time.Second)
	v.SetDefault("fetch.api_timeout", 10*time.Second)
	v.SetDefault("fetch.rate_per_second", 4.0)

	v.SetDefault("pipeline.max_items", coord.DefaultMaxItems)
	v.SetDefault("pipeline.adapter_timeout", coord.DefaultAdapterTimeout)
	v.SetDefault("pipeline.filter_promos", true)

	v.SetDefault("fallback.per_source", false)

	adapters := make([]map[string]any, 0)
	for _, a := range DefaultAdapters() {
		adapters = append(adapters, map[string]any{
			"name":    a.Name,
			"kind":    a.Kind,
			"url":     a.URL,
			"enabled": a.Enabled,
			"days":    a.Days,
		})
	}
	v.SetDefault("adapters", adapters)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.events_file", "")
	v.SetDefault("log.dir", "$HOME/.courtside/logs")

	v.SetDefault("client.endpoint", "http://localhost:8888")
	v.SetDefault("client.refresh_interval", 5*time.Minute)
	v.SetDefault("client.timeout", 60*time.Second)
}

// validate checks the configuration for errors
func validate(cfg *Config) error {
	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[cfg.Log.Level] {
		return fmt.Errorf("invalid log level: %s (must be debug, info, warn, or error)", cfg.Log.Level)
	}

	if cfg.Server.Addr == "" {
		return errors.New("server.addr must not be empty")
	}
	if cfg.Pipeline.MaxItems <= 0 {
		return fmt.Errorf("pipeline.max_items must be positive, got %d", cfg.Pipeline.MaxItems)
	}
	if cfg.Fetch.PageTimeout <= 0 || cfg.Fetch.APITimeout <= 0 {
		return errors.New("fetch timeouts must be positive")
	}
	if cfg.Client.RefreshInterval < time.Second {
		return fmt.Errorf("client.refresh_interval too short: %s", cfg.Client.RefreshInterval)
	}

	validKinds := map[string]bool{
		KindNBA: true, KindESPN: true, KindESPNNews: true,
		KindScores: true, KindSchedule: true, KindRSS: true,
	}
	enabled := 0
	for i, a := range cfg.Adapters {
		if !validKinds[a.Kind] {
			return fmt.Errorf("adapters[%d]: unknown kind %q", i, a.Kind)
		}
		if a.Days < 0 {
			return fmt.Errorf("adapters[%d]: days must not be negative", i)
		}
		if a.Enabled {
			enabled++
		}
	}
	if enabled == 0 {
		return errors.New("no adapters enabled")
	}

	return nil
}

// EnabledAdapters returns the enabled adapters in configured order.
func (c *Config) EnabledAdapters() []AdapterConfig {
	var out []AdapterConfig
	for _, a := range c.Adapters {
		if a.Enabled {
			out = append(out, a)
		}
	}
	return out
}
