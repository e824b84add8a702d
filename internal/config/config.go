// Package config loads and validates service configuration via Viper.
package config

import (
	"fmt"
	"strings"
	"time"
	_ "time/tzdata" // schedule.timezone must resolve on minimal images

	"github.com/spf13/viper"

	"github.com/JakeFAU/tv-schedule-scraper/internal/schedule"
)

// DefaultUserAgent is the desktop browser string sent upstream.
const DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 " +
	"(KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36"

// Config captures all service configuration knobs loaded via Viper.
type Config struct {
	Server   ServerConfig       `mapstructure:"server"`
	CORS     CORSConfig         `mapstructure:"cors"`
	Scraper  ScraperConfig      `mapstructure:"scraper"`
	HTTP     HTTPConfig         `mapstructure:"http"`
	Schedule ScheduleConfig     `mapstructure:"schedule"`
	Logging  LoggingConfig      `mapstructure:"logging"`
	Progress ProgressConfig     `mapstructure:"progress"`
	Channels []schedule.Channel `mapstructure:"channels"`
}

// ServerConfig controls HTTP server behavior.
type ServerConfig struct {
	Port                  int `mapstructure:"port"`
	RequestTimeoutSeconds int `mapstructure:"request_timeout_seconds"`
}

// CORSConfig lists the origins allowed to call the API from a browser.
type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// ScraperConfig governs the fetch-and-extract pipeline.
type ScraperConfig struct {
	SourceBaseURL     string `mapstructure:"source_base_url"`
	UserAgent         string `mapstructure:"user_agent"`
	MaxParallel       int    `mapstructure:"max_parallel"`
	PriorityChannels  int    `mapstructure:"priority_channels"`
	AggregatePoolSize int    `mapstructure:"aggregate_pool_size"`
	ChannelPoolSize   int    `mapstructure:"channel_pool_size"`
}

// HTTPConfig sets the outbound budget shared by one endpoint call.
type HTTPConfig struct {
	TimeoutSeconds int `mapstructure:"timeout_seconds"`
}

// ScheduleConfig controls how dates and capture times are presented.
type ScheduleConfig struct {
	Timezone string `mapstructure:"timezone"`
}

// LoggingConfig toggles zap development features.
type LoggingConfig struct {
	Development bool   `mapstructure:"development"`
	Level       string `mapstructure:"level"`
}

// ProgressConfig tunes the run event hub.
type ProgressConfig struct {
	BufferSize     int  `mapstructure:"buffer_size"`
	MaxBatchEvents int  `mapstructure:"max_batch_events"`
	MaxBatchWaitMs int  `mapstructure:"max_batch_wait_ms"`
	LogEvents      bool `mapstructure:"log_events"`
	// HistorySize is how many runs /runs retains; 0 disables run history.
	HistorySize int `mapstructure:"history_size"`
}

// Load builds a Config from disk/environment.
func Load(path string) (Config, error) {
	v := viper.New()
	v.SetEnvPrefix("TVSCHEDULE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	// PORT is what container platforms inject.
	if err := v.BindEnv("server.port", "TVSCHEDULE_SERVER_PORT", "PORT"); err != nil {
		return Config{}, fmt.Errorf("bind port env: %w", err)
	}

	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.request_timeout_seconds", 60)
	v.SetDefault("cors.allowed_origins", []string{"*"})
	v.SetDefault("scraper.source_base_url", "https://www.tvinsider.com")
	v.SetDefault("scraper.user_agent", DefaultUserAgent)
	v.SetDefault("scraper.max_parallel", 5)
	v.SetDefault("scraper.priority_channels", 10)
	v.SetDefault("scraper.aggregate_pool_size", 10)
	v.SetDefault("scraper.channel_pool_size", 1)
	v.SetDefault("http.timeout_seconds", 30)
	v.SetDefault("schedule.timezone", schedule.DefaultTimezone)
	v.SetDefault("logging.development", true)
	v.SetDefault("logging.level", "info")
	v.SetDefault("progress.buffer_size", 1024)
	v.SetDefault("progress.max_batch_events", 100)
	v.SetDefault("progress.max_batch_wait_ms", 500)
	v.SetDefault("progress.log_events", false)
	v.SetDefault("progress.history_size", 256)
}

// Validate enforces required values and reasonable limits.
func (c Config) Validate() error {
	if c.Server.Port <= 0 {
		return fmt.Errorf("server.port must be > 0")
	}
	if c.Server.RequestTimeoutSeconds <= 0 {
		return fmt.Errorf("server.request_timeout_seconds must be > 0")
	}
	if strings.TrimSpace(c.Scraper.SourceBaseURL) == "" {
		return fmt.Errorf("scraper.source_base_url must be set")
	}
	if strings.TrimSpace(c.Scraper.UserAgent) == "" {
		return fmt.Errorf("scraper.user_agent must be set")
	}
	if c.Scraper.MaxParallel <= 0 {
		return fmt.Errorf("scraper.max_parallel must be > 0")
	}
	if c.Scraper.PriorityChannels <= 0 {
		return fmt.Errorf("scraper.priority_channels must be > 0")
	}
	if c.Scraper.AggregatePoolSize <= 0 || c.Scraper.ChannelPoolSize <= 0 {
		return fmt.Errorf("scraper.aggregate_pool_size and scraper.channel_pool_size must be > 0")
	}
	if c.HTTP.TimeoutSeconds <= 0 {
		return fmt.Errorf("http.timeout_seconds must be > 0")
	}
	if _, err := time.LoadLocation(c.Schedule.Timezone); err != nil || c.Schedule.Timezone == "" {
		return fmt.Errorf("schedule.timezone %q is not a known zone", c.Schedule.Timezone)
	}
	if c.Progress.BufferSize < 0 || c.Progress.MaxBatchEvents < 0 || c.Progress.MaxBatchWaitMs < 0 ||
		c.Progress.HistorySize < 0 {
		return fmt.Errorf("progress settings must not be negative")
	}
	return nil
}

// Budget is the deadline shared by every fetch of one endpoint call.
func (c Config) Budget() time.Duration {
	return time.Duration(c.HTTP.TimeoutSeconds) * time.Second
}

// RequestTimeout bounds a single inbound HTTP request.
func (c Config) RequestTimeout() time.Duration {
	return time.Duration(c.Server.RequestTimeoutSeconds) * time.Second
}

// Location resolves schedule.timezone. Validate guarantees it loads.
func (c Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Schedule.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// ProgressBatchWait converts the batch wait into a duration.
func (c Config) ProgressBatchWait() time.Duration {
	return time.Duration(c.Progress.MaxBatchWaitMs) * time.Millisecond
}
