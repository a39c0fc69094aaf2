package config

import (
	"slices"
	"strings"
	"time"
)

var (
	minTimerPoll = 1 * time.Second
	maxTimerPoll = 1 * time.Minute

	minSchedulerPoll = 1 * time.Second
	maxSchedulerPoll = 1 * time.Minute // a slower poll can skip a whole minute

	minRecentsLimit = 1
	maxRecentsLimit = 20

	minAlarmSlots = 1
	maxAlarmSlots = 12

	minIntervalEvery = 1
	maxIntervalEvery = 720

	logLevels = []string{"debug", "info", "warn", "error"}
)

// Validate performs validation checks on the Config struct and its fields.
func (c *Config) Validate() error {
	if err := c.validateTimer(); err != nil {
		return err
	}

	if err := c.validateScheduler(); err != nil {
		return err
	}

	if !slices.Contains(
		[]string{DriverBolt, DriverSQLite, DriverJSON},
		c.Store.Driver,
	) {
		return errUnknownDriver.Fmt(c.Store.Driver)
	}

	if !slices.Contains(logLevels, strings.ToLower(c.Log.Level)) {
		return errInvalidLogLevel.Fmt(c.Log.Level)
	}

	return nil
}

func (c *Config) validateTimer() error {
	t := c.Timer

	if t.PollInterval < minTimerPoll || t.PollInterval > maxTimerPoll {
		return errInvalidPollInterval.Fmt("timer", minTimerPoll, maxTimerPoll)
	}

	if t.OverrunThreshold < t.PollInterval {
		return errInvalidOverrun.Fmt(t.PollInterval)
	}

	if t.RecentsLimit < minRecentsLimit || t.RecentsLimit > maxRecentsLimit {
		return errInvalidRecentsLimit.Fmt(minRecentsLimit, maxRecentsLimit)
	}

	return nil
}

func (c *Config) validateScheduler() error {
	s := c.Scheduler

	if s.PollInterval < minSchedulerPoll || s.PollInterval > maxSchedulerPoll {
		return errInvalidPollInterval.Fmt(
			"scheduler",
			minSchedulerPoll,
			maxSchedulerPoll,
		)
	}

	if s.AlarmSlots < minAlarmSlots || s.AlarmSlots > maxAlarmSlots {
		return errInvalidAlarmSlots.Fmt(minAlarmSlots, maxAlarmSlots)
	}

	if s.IntervalEvery < minIntervalEvery || s.IntervalEvery > maxIntervalEvery {
		return errInvalidIntervalEvery.Fmt(minIntervalEvery, maxIntervalEvery)
	}

	return nil
}
