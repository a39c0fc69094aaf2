// Package scheduler fires the recurring daily alarms and the windowed
// interval reminder. A poll loop checks the configured triggers against the
// wall clock and fires each at most once per dedup key.
package scheduler

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/ayoisaiah/chime/internal/logger"
	"github.com/ayoisaiah/chime/internal/timeutil"
	"github.com/ayoisaiah/chime/notify"
	"github.com/ayoisaiah/chime/store"
)

const (
	DefaultPollInterval = 30 * time.Second
	DefaultAlarmSlots   = 3
)

// Options tune the scheduler. Zero values are replaced by the defaults.
type Options struct {
	Log           *slog.Logger
	PollInterval  time.Duration
	AlarmSlots    int
	IntervalEvery int
}

// Firing is a trigger that became due during a check.
type Firing struct {
	// Trigger is the alarm slot name or "interval".
	Trigger string
	Key     string
	Label   string
}

// TriggerInterval names the interval reminder in a Firing.
const TriggerInterval = "interval"

// Scheduler owns the recurrence poll loop and the trigger configuration.
type Scheduler struct {
	store   store.Store
	sink    notify.Sink
	clock   clockwork.Clock
	log     *slog.Logger
	// badKeys holds the last decode error logged per settings key.
	badKeys map[string]string
	opts    Options
	mu      sync.Mutex
}

// New creates a scheduler. Call Run to start polling.
func New(
	s store.Store,
	sink notify.Sink,
	clock clockwork.Clock,
	opts Options,
) *Scheduler {
	if opts.PollInterval <= 0 {
		opts.PollInterval = DefaultPollInterval
	}

	if opts.AlarmSlots <= 0 {
		opts.AlarmSlots = DefaultAlarmSlots
	}

	if opts.IntervalEvery <= 0 {
		opts.IntervalEvery = defaultEvery
	}

	l := opts.Log
	if l == nil {
		l = logger.Discard()
	}

	if clock == nil {
		clock = clockwork.NewRealClock()
	}

	return &Scheduler{
		store:   s,
		sink:    sink,
		clock:   clock,
		log:     l.With(slog.String("component", "scheduler")),
		badKeys: make(map[string]string),
		opts:    opts,
	}
}

// Run checks the triggers once immediately and then on every poll until ctx
// is cancelled. A failing check is logged and does not stop the loop.
func (s *Scheduler) Run(ctx context.Context) error {
	ticker := s.clock.NewTicker(s.opts.PollInterval)
	defer ticker.Stop()

	s.log.Info("scheduler started", slog.Duration("poll_interval", s.opts.PollInterval))

	s.tick()

	for {
		select {
		case <-ctx.Done():
			s.log.Info("scheduler stopped")
			return nil
		case <-ticker.Chan():
			s.tick()
		}
	}
}

func (s *Scheduler) tick() {
	defer func() {
		if r := recover(); r != nil {
			s.log.Error("recurrence check panicked", slog.Any("panic", r))
		}
	}()

	firings, err := s.Check(s.clock.Now())
	if errors.Is(err, errSaveTriggers) {
		s.log.Error("recurrence check failed", slog.Any("error", err))
	}

	for _, f := range firings {
		s.log.Info(
			"trigger fired",
			slog.String("trigger", f.Trigger),
			slog.String("key", f.Key),
		)
	}
}

// Check fires every trigger due at now whose dedup key differs from the
// stored one. New keys are committed before any event is emitted. A commit
// failure is returned alongside the firings, which are emitted regardless.
// Alarms and the interval reminder are loaded independently: a value that
// fails to decode silences only its own trigger kind.
func (s *Scheduler) Check(now time.Time) ([]Firing, error) {
	t := timeutil.MinutesSinceMidnight(now)
	date := timeutil.DateKey(now)

	var (
		firings []Firing
		subtle  bool
		errs    []error
	)

	err := s.store.Update(func(tx store.Tx) error {
		alarms, err := s.alarms(tx)
		s.noteLoad(store.KeyDailyAlarms, err)

		if err != nil {
			errs = append(errs, err)
		} else {
			fired := dueAlarms(alarms, t, date)
			if len(fired) > 0 {
				if err := tx.Set(store.KeyDailyAlarms, alarms); err != nil {
					return err
				}

				firings = append(firings, fired...)
			}
		}

		iv, err := s.interval(tx)
		s.noteLoad(store.KeyIntervalTimer, err)

		if err != nil {
			errs = append(errs, err)
		} else if f, ok := dueReminder(&iv, now); ok {
			if err := tx.Set(store.KeyIntervalTimer, iv); err != nil {
				return err
			}

			firings = append(firings, f)
		}

		subtle = store.SubtleMode(tx)

		return nil
	})
	if err != nil {
		errs = append(errs, errSaveTriggers.Wrap(err))
	}

	for _, f := range firings {
		s.sink.Emit(notify.EventTimer, f.Label, subtle)
	}

	return firings, errors.Join(errs...)
}

// dueAlarms marks every alarm due at minute t with today's key and returns
// their firings in slot order.
func dueAlarms(alarms Alarms, t int, date string) []Firing {
	var firings []Firing

	for _, name := range alarms.Slots() {
		a := alarms[name]
		if !a.Enabled || a.Minutes() != t {
			continue
		}

		if a.LastTriggered != nil && *a.LastTriggered == date {
			continue
		}

		key := date
		a.LastTriggered = &key
		alarms[name] = a

		firings = append(firings, Firing{
			Trigger: name,
			Key:     key,
			Label:   alarms.Label(name),
		})
	}

	return firings
}

// dueReminder records the reminder due at now, if any, in iv.
func dueReminder(iv *IntervalConfig, now time.Time) (Firing, bool) {
	if !iv.Due(timeutil.MinutesSinceMidnight(now)) {
		return Firing{}, false
	}

	clock := timeutil.Clock(now.Hour(), now.Minute())
	key := timeutil.DateKey(now) + "_" + clock

	if iv.LastTriggeredSlot != nil && *iv.LastTriggeredSlot == key {
		return Firing{}, false
	}

	iv.LastTriggeredSlot = &key

	return Firing{
		Trigger: TriggerInterval,
		Key:     key,
		Label:   "Reminder (" + clock + ")",
	}, true
}

// noteLoad logs a decode failure of key once, until the value decodes again.
func (s *Scheduler) noteLoad(key string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err == nil {
		delete(s.badKeys, key)
		return
	}

	if s.badKeys[key] == err.Error() {
		return
	}

	s.badKeys[key] = err.Error()
	s.log.Warn("ignoring unreadable trigger settings", slog.String("key", key), slog.Any("error", err))
}

// alarms returns the stored alarms merged with defaults for every configured
// slot that was never set.
func (s *Scheduler) alarms(tx store.Tx) (Alarms, error) {
	alarms := make(Alarms)

	if _, err := tx.Get(store.KeyDailyAlarms, &alarms); err != nil {
		return nil, errLoadAlarms.Wrap(err)
	}

	if alarms == nil {
		alarms = make(Alarms)
	}

	for n := 1; n <= s.opts.AlarmSlots; n++ {
		name := SlotName(n)
		if _, ok := alarms[name]; !ok {
			alarms[name] = DefaultAlarm(n)
		}
	}

	return alarms, nil
}

func (s *Scheduler) interval(tx store.Tx) (IntervalConfig, error) {
	iv := DefaultInterval(s.opts.IntervalEvery)

	if _, err := tx.Get(store.KeyIntervalTimer, &iv); err != nil {
		return IntervalConfig{}, errLoadInterval.Wrap(err)
	}

	return iv, nil
}
