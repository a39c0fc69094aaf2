// Package config loads chime's configuration from the config file and
// command-line flags
package config

import (
	"time"
)

type (
	// Config holds all configuration settings.
	Config struct {
		Timer         TimerConfig        `mapstructure:"timer"`
		Scheduler     SchedulerConfig    `mapstructure:"scheduler"`
		Store         StoreConfig        `mapstructure:"store"`
		Server        ServerConfig       `mapstructure:"server"`
		Notifications NotificationConfig `mapstructure:"notifications"`
		Log           LogConfig          `mapstructure:"log"`
	}

	// TimerConfig holds countdown settings.
	TimerConfig struct {
		PollInterval     time.Duration `mapstructure:"poll_interval"`
		OverrunThreshold time.Duration `mapstructure:"overrun_threshold"`
		RecentsLimit     int           `mapstructure:"recents_limit"`
	}

	// SchedulerConfig holds settings for recurring alarms and reminders.
	SchedulerConfig struct {
		PollInterval  time.Duration `mapstructure:"poll_interval"`
		AlarmSlots    int           `mapstructure:"alarm_slots"`
		IntervalEvery int           `mapstructure:"interval_every"`
	}

	// StoreConfig selects the backend that holds the settings document.
	StoreConfig struct {
		Driver string `mapstructure:"driver"`
		Path   string `mapstructure:"path"`
	}

	// ServerConfig holds RPC server settings.
	ServerConfig struct {
		Address string `mapstructure:"address"`
		Secret  string `mapstructure:"secret"`
	}

	// NotificationConfig holds settings for local notification sinks.
	NotificationConfig struct {
		Desktop bool   `mapstructure:"desktop"`
		Sound   string `mapstructure:"sound"`
		Cmd     string `mapstructure:"cmd"`
	}

	// LogConfig holds logging settings.
	LogConfig struct {
		Level string `mapstructure:"level"`
		Debug bool   `mapstructure:"debug"`
	}

	// Option is a function that modifies Config.
	Option func(*Config) error
)

const Version = "v0.3.0"

// Store drivers.
const (
	DriverBolt   = "bolt"
	DriverSQLite = "sqlite"
	DriverJSON   = "json"
)

// New creates a new Config and applies options in order.
func New(opts ...Option) (*Config, error) {
	cfg := &Config{}

	for _, opt := range opts {
		if err := opt(cfg); err != nil {
			return nil, errConfigOption.Wrap(err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, errConfigValidation.Wrap(err)
	}

	return cfg, nil
}
