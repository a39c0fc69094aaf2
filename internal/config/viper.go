package config

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/viper"

	"github.com/ayoisaiah/chime/internal/osutil"
)

const (
	keyTimerPoll        = "timer.poll_interval"
	keyTimerOverrun     = "timer.overrun_threshold"
	keyRecentsLimit     = "timer.recents_limit"
	keySchedulerPoll    = "scheduler.poll_interval"
	keyAlarmSlots       = "scheduler.alarm_slots"
	keyIntervalEvery    = "scheduler.interval_every"
	keyStoreDriver      = "store.driver"
	keyStorePath        = "store.path"
	keyServerAddress    = "server.address"
	keyServerSecret     = "server.secret"
	keyDesktopNotify    = "notifications.desktop"
	keyNotificationSnd  = "notifications.sound"
	keyNotificationCmd  = "notifications.cmd"
	keyLogLevel         = "log.level"
	keyLogDebug         = "log.debug"
	defaultAddress      = "127.0.0.1:7878"
	defaultTimerPoll    = 5 * time.Second
	defaultOverrun      = 10 * time.Second
	defaultSchedPoll    = 30 * time.Second
	defaultRecentsLimit = 5
	defaultAlarmSlots   = 3
	defaultEvery        = 5
)

// Default returns the configuration used when no config file overrides it.
func Default() *Config {
	return &Config{
		Timer: TimerConfig{
			PollInterval:     defaultTimerPoll,
			OverrunThreshold: defaultOverrun,
			RecentsLimit:     defaultRecentsLimit,
		},
		Scheduler: SchedulerConfig{
			PollInterval:  defaultSchedPoll,
			AlarmSlots:    defaultAlarmSlots,
			IntervalEvery: defaultEvery,
		},
		Store: StoreConfig{
			Driver: DriverBolt,
		},
		Server: ServerConfig{
			Address: defaultAddress,
		},
		Notifications: NotificationConfig{
			Desktop: true,
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// WithDefaults returns an Option that resets the config to its defaults.
func WithDefaults() Option {
	return func(c *Config) error {
		*c = *Default()

		return nil
	}
}

// WithViperConfig returns an Option that loads configuration from the yaml
// file at configPath. The file is created with default values if it does not
// exist.
func WithViperConfig(configPath string) Option {
	return func(c *Config) error {
		v := viper.New()

		v.SetConfigFile(configPath)
		v.SetConfigType("yaml")

		setupViper(v)

		err := v.ReadInConfig()
		if err == nil {
			return v.Unmarshal(c)
		}

		if !errors.Is(err, fs.ErrNotExist) {
			return errReadConfig.Wrap(err)
		}

		if err := os.MkdirAll(filepath.Dir(configPath), osutil.DirPermission); err != nil {
			return errWriteConfig.Wrap(err)
		}

		if err := v.WriteConfig(); err != nil {
			return errWriteConfig.Wrap(err)
		}

		return v.Unmarshal(c)
	}
}

// setupViper registers the default value of every key.
func setupViper(v *viper.Viper) {
	d := Default()

	v.SetDefault(keyTimerPoll, d.Timer.PollInterval.String())
	v.SetDefault(keyTimerOverrun, d.Timer.OverrunThreshold.String())
	v.SetDefault(keyRecentsLimit, d.Timer.RecentsLimit)
	v.SetDefault(keySchedulerPoll, d.Scheduler.PollInterval.String())
	v.SetDefault(keyAlarmSlots, d.Scheduler.AlarmSlots)
	v.SetDefault(keyIntervalEvery, d.Scheduler.IntervalEvery)
	v.SetDefault(keyStoreDriver, d.Store.Driver)
	v.SetDefault(keyStorePath, d.Store.Path)
	v.SetDefault(keyServerAddress, d.Server.Address)
	v.SetDefault(keyServerSecret, d.Server.Secret)
	v.SetDefault(keyDesktopNotify, d.Notifications.Desktop)
	v.SetDefault(keyNotificationSnd, d.Notifications.Sound)
	v.SetDefault(keyNotificationCmd, d.Notifications.Cmd)
	v.SetDefault(keyLogLevel, d.Log.Level)
	v.SetDefault(keyLogDebug, d.Log.Debug)
}

// ParseDuration parses a duration string. A bare number is read as minutes.
func ParseDuration(s string) (time.Duration, error) {
	dur, err := time.ParseDuration(s)
	if err == nil {
		return dur, nil
	}

	mins, err := time.ParseDuration(s + "m")
	if err != nil {
		return 0, errInvalidCLIDuration.Fmt("timer", s)
	}

	return mins, nil
}
