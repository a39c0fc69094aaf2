package scheduler

import (
	"log/slog"

	"github.com/ayoisaiah/chime/internal/timeutil"
	"github.com/ayoisaiah/chime/store"
)

// SetAlarm sets the time of an alarm slot and enables it. The slot fires
// again even if it already fired today.
func (s *Scheduler) SetAlarm(slot, hour, minute int) error {
	if err := s.validSlot(slot); err != nil {
		return err
	}

	if err := validTime(hour, minute); err != nil {
		return err
	}

	err := s.updateAlarm(slot, func(a *AlarmConfig) {
		a.Hour = hour
		a.Minute = minute
		a.Enabled = true
		a.LastTriggered = nil
	})
	if err != nil {
		return err
	}

	s.log.Info(
		"daily alarm set",
		slog.Int("slot", slot),
		slog.String("time", timeutil.Clock(hour, minute)),
	)

	return nil
}

// SetAlarmLabel replaces the notification text of an alarm slot. An empty
// label restores the default "Daily Alarm N".
func (s *Scheduler) SetAlarmLabel(slot int, label string) error {
	if err := s.validSlot(slot); err != nil {
		return err
	}

	return s.updateAlarm(slot, func(a *AlarmConfig) {
		a.Label = label
	})
}

// ToggleAlarm enables or disables an alarm slot.
func (s *Scheduler) ToggleAlarm(slot int, enabled bool) error {
	if err := s.validSlot(slot); err != nil {
		return err
	}

	return s.updateAlarm(slot, func(a *AlarmConfig) {
		a.Enabled = enabled
	})
}

// Alarms returns every alarm slot, with defaults for slots never set.
func (s *Scheduler) Alarms() (Alarms, error) {
	var alarms Alarms

	err := s.store.Update(func(tx store.Tx) error {
		var err error

		alarms, err = s.alarms(tx)

		return err
	})

	return alarms, err
}

// SetIntervalTimer sets the reminder window and enables it.
func (s *Scheduler) SetIntervalTimer(startHour, startMinute, endHour, endMinute int) error {
	if err := validTime(startHour, startMinute); err != nil {
		return err
	}

	if err := validTime(endHour, endMinute); err != nil {
		return err
	}

	err := s.updateInterval(func(c *IntervalConfig) {
		c.StartHour = startHour
		c.StartMinute = startMinute
		c.EndHour = endHour
		c.EndMinute = endMinute
		c.Enabled = true
		c.LastTriggeredSlot = nil
	})
	if err != nil {
		return err
	}

	s.log.Info(
		"interval timer set",
		slog.String("start", timeutil.Clock(startHour, startMinute)),
		slog.String("end", timeutil.Clock(endHour, endMinute)),
	)

	return nil
}

// SetIntervalRate sets the reminder cadence. A lateEvery of zero keeps the
// same cadence for the whole window.
func (s *Scheduler) SetIntervalRate(every, lateEvery int) error {
	if every < 1 || every > MaxRate {
		return ErrInvalidRate.Fmt(every)
	}

	if lateEvery < 0 || lateEvery > MaxRate {
		return ErrInvalidRate.Fmt(lateEvery)
	}

	return s.updateInterval(func(c *IntervalConfig) {
		c.Every = every
		c.LateEvery = lateEvery
		c.LastTriggeredSlot = nil
	})
}

// ToggleIntervalTimer enables or disables the reminder window.
func (s *Scheduler) ToggleIntervalTimer(enabled bool) error {
	return s.updateInterval(func(c *IntervalConfig) {
		c.Enabled = enabled
	})
}

// IntervalTimer returns the reminder window configuration.
func (s *Scheduler) IntervalTimer() (IntervalConfig, error) {
	var iv IntervalConfig

	err := s.store.Update(func(tx store.Tx) error {
		var err error

		iv, err = s.interval(tx)

		return err
	})

	return iv, err
}

// AlarmSlots returns the number of configurable alarm slots.
func (s *Scheduler) AlarmSlots() int {
	return s.opts.AlarmSlots
}

func (s *Scheduler) validSlot(slot int) error {
	if slot < 1 || slot > s.opts.AlarmSlots {
		return ErrInvalidSlot.Fmt(slot, s.opts.AlarmSlots)
	}

	return nil
}

func (s *Scheduler) updateAlarm(slot int, fn func(a *AlarmConfig)) error {
	return s.store.Update(func(tx store.Tx) error {
		alarms, err := s.alarms(tx)
		if err != nil {
			return err
		}

		name := SlotName(slot)
		a := alarms[name]
		fn(&a)
		alarms[name] = a

		return tx.Set(store.KeyDailyAlarms, alarms)
	})
}

func (s *Scheduler) updateInterval(fn func(c *IntervalConfig)) error {
	return s.store.Update(func(tx store.Tx) error {
		iv, err := s.interval(tx)
		if err != nil {
			return err
		}

		fn(&iv)

		return tx.Set(store.KeyIntervalTimer, iv)
	})
}
