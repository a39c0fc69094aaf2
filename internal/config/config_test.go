package config_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ayoisaiah/chime/internal/config"
)

const modifiedConfig = `timer:
  poll_interval: 2s
  overrun_threshold: 20s
  recents_limit: 8
scheduler:
  poll_interval: 15s
  alarm_slots: 5
store:
  driver: json
server:
  address: 127.0.0.1:9000
notifications:
  desktop: false
  cmd: notify-send done
log:
  level: warn
`

func TestViperWriteConfig(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "chime", "config.yml")

	cfg, err := config.New(config.WithViperConfig(configPath))
	require.NoError(t, err)

	_, err = os.Stat(configPath)
	require.NoError(t, err, "default config file should be written")

	assert.Equal(t, config.Default(), cfg)
}

func TestViperReadConfig(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.yml")

	err := os.WriteFile(configPath, []byte(modifiedConfig), 0o600)
	require.NoError(t, err)

	want := config.Default()
	want.Timer.PollInterval = 2 * time.Second
	want.Timer.OverrunThreshold = 20 * time.Second
	want.Timer.RecentsLimit = 8
	want.Scheduler.PollInterval = 15 * time.Second
	want.Scheduler.AlarmSlots = 5
	want.Store.Driver = config.DriverJSON
	want.Server.Address = "127.0.0.1:9000"
	want.Notifications.Desktop = false
	want.Notifications.Cmd = "notify-send done"
	want.Log.Level = "warn"

	cfg, err := config.New(config.WithViperConfig(configPath))
	require.NoError(t, err)

	assert.Equal(t, want, cfg)
}

func TestValidate(t *testing.T) {
	testCases := []struct {
		name   string
		modify func(c *config.Config)
		valid  bool
	}{
		{
			name:   "defaults",
			modify: func(_ *config.Config) {},
			valid:  true,
		},
		{
			name: "overrun shorter than poll",
			modify: func(c *config.Config) {
				c.Timer.OverrunThreshold = time.Second
			},
		},
		{
			name: "scheduler poll longer than a minute",
			modify: func(c *config.Config) {
				c.Scheduler.PollInterval = 2 * time.Minute
			},
		},
		{
			name: "zero alarm slots",
			modify: func(c *config.Config) {
				c.Scheduler.AlarmSlots = 0
			},
		},
		{
			name: "unknown driver",
			modify: func(c *config.Config) {
				c.Store.Driver = "redis"
			},
		},
		{
			name: "unknown log level",
			modify: func(c *config.Config) {
				c.Log.Level = "loud"
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := config.Default()
			tc.modify(cfg)

			err := cfg.Validate()
			if tc.valid {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}
}

func TestNewWrapsValidationError(t *testing.T) {
	_, err := config.New(
		config.WithDefaults(),
		func(c *config.Config) error {
			c.Timer.RecentsLimit = 0
			return nil
		},
	)

	require.Error(t, err)
	assert.True(t, errors.Unwrap(err) != nil)
}

func TestParseDuration(t *testing.T) {
	testCases := []struct {
		input string
		want  time.Duration
	}{
		{"25m", 25 * time.Minute},
		{"90s", 90 * time.Second},
		{"10", 10 * time.Minute},
		{"1h30m", 90 * time.Minute},
	}

	for _, tc := range testCases {
		got, err := config.ParseDuration(tc.input)
		require.NoError(t, err, tc.input)
		assert.Equal(t, tc.want, got, tc.input)
	}

	_, err := config.ParseDuration("soon")
	assert.Error(t, err)
}
