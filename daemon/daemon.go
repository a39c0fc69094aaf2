// Package daemon wires the countdown timer and the recurrence scheduler to a
// settings document and an event sink, and exposes the operations available
// to frontends.
package daemon

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/ayoisaiah/chime/internal/config"
	"github.com/ayoisaiah/chime/internal/logger"
	"github.com/ayoisaiah/chime/notify"
	"github.com/ayoisaiah/chime/scheduler"
	"github.com/ayoisaiah/chime/store"
	"github.com/ayoisaiah/chime/timer"
)

// Daemon is the orchestrator of a running chime process.
type Daemon struct {
	Timer     *timer.Countdown
	Scheduler *scheduler.Scheduler
	store     store.Store
	sink      notify.Sink
	log       *slog.Logger
	cancel    context.CancelFunc
	done      chan struct{}
	stopOnce  sync.Once
}

// New builds the timer and scheduler from cfg. A nil logger discards logs.
func New(
	cfg *config.Config,
	s store.Store,
	sink notify.Sink,
	clock clockwork.Clock,
	l *slog.Logger,
) *Daemon {
	if l == nil {
		l = logger.Discard()
	}

	return &Daemon{
		Timer: timer.New(s, sink, clock, timer.Options{
			Log:              l,
			PollInterval:     cfg.Timer.PollInterval,
			OverrunThreshold: cfg.Timer.OverrunThreshold,
			RecentsLimit:     cfg.Timer.RecentsLimit,
		}),
		Scheduler: scheduler.New(s, sink, clock, scheduler.Options{
			Log:           l,
			PollInterval:  cfg.Scheduler.PollInterval,
			AlarmSlots:    cfg.Scheduler.AlarmSlots,
			IntervalEvery: cfg.Scheduler.IntervalEvery,
		}),
		store: s,
		sink:  sink,
		log:   l,
	}
}

// Start loads the settings document, recovers an interrupted countdown,
// pushes the initial state and starts the scheduler loop. It returns once
// the loop is running.
func (d *Daemon) Start(ctx context.Context) {
	if err := d.store.Read(); err != nil {
		d.log.Warn("unable to read settings, using defaults", slog.Any("error", err))
	}

	if err := d.Timer.Recover(); err != nil {
		d.log.Error("timer recovery failed", slog.Any("error", err))
	}

	d.Timer.LoadRecents()
	d.LoadSubtleMode()

	ctx, d.cancel = context.WithCancel(ctx)
	d.done = make(chan struct{})

	go func() {
		defer close(d.done)

		if err := d.Scheduler.Run(ctx); err != nil {
			d.log.Error("scheduler exited", slog.Any("error", err))
		}
	}()

	d.log.Info("chime has been initialised")
}

// Shutdown stops the countdown monitor and the scheduler loop without
// writing anything further. A persisted countdown resumes on the next
// Start.
func (d *Daemon) Shutdown() {
	d.stopOnce.Do(func() {
		d.Timer.Halt()

		if d.cancel != nil {
			d.cancel()
			<-d.done
		}

		d.log.Info("chime has been stopped")
	})
}

// StartTimer starts a countdown of the given seconds.
func (d *Daemon) StartTimer(seconds float64) error {
	return d.Timer.Start(seconds)
}

// CancelTimer cancels the running countdown.
func (d *Daemon) CancelTimer() {
	d.Timer.Cancel()
}

// LoadRecents emits and returns the recent durations.
func (d *Daemon) LoadRecents() []float64 {
	d.Timer.LoadRecents()

	return d.Timer.Recents()
}

// LoadRemainingSeconds emits and returns the remaining countdown seconds.
func (d *Daemon) LoadRemainingSeconds() float64 {
	d.Timer.LoadRemaining()

	return d.Timer.Remaining()
}

// SetSubtleMode persists the subtle flag and emits it. The in-memory value
// is kept and emitted even if the commit fails.
func (d *Daemon) SetSubtleMode(enabled bool) error {
	err := d.store.Update(func(tx store.Tx) error {
		return tx.Set(store.KeySubtleMode, enabled)
	})
	if err != nil {
		d.log.Error("unable to save subtle mode", slog.Any("error", err))
	}

	d.LoadSubtleMode()

	return err
}

// SubtleMode returns the persisted subtle flag.
func (d *Daemon) SubtleMode() bool {
	return store.SubtleMode(d.store)
}

// LoadSubtleMode emits and returns the subtle flag.
func (d *Daemon) LoadSubtleMode() bool {
	subtle := d.SubtleMode()
	d.sink.Emit(notify.EventSubtleMode, subtle)

	return subtle
}

// Status is a snapshot of the countdown for frontends that poll.
type Status struct {
	End       time.Time `json:"end,omitzero"`
	Recents   []float64 `json:"recents"`
	Remaining float64   `json:"remaining"`
	Subtle    bool      `json:"subtle"`
}

// Status returns the countdown state without emitting anything.
func (d *Daemon) Status() Status {
	end, _ := d.Timer.End()

	return Status{
		End:       end,
		Remaining: d.Timer.Remaining(),
		Recents:   d.Timer.Recents(),
		Subtle:    d.SubtleMode(),
	}
}

// SetAlarm sets and enables an alarm slot.
func (d *Daemon) SetAlarm(slot, hour, minute int) error {
	return d.Scheduler.SetAlarm(slot, hour, minute)
}

// SetAlarmLabel sets the notification text of an alarm slot.
func (d *Daemon) SetAlarmLabel(slot int, label string) error {
	return d.Scheduler.SetAlarmLabel(slot, label)
}

// Alarms returns every alarm slot.
func (d *Daemon) Alarms() (scheduler.Alarms, error) {
	return d.Scheduler.Alarms()
}

// ToggleAlarm enables or disables an alarm slot.
func (d *Daemon) ToggleAlarm(slot int, enabled bool) error {
	return d.Scheduler.ToggleAlarm(slot, enabled)
}

// SetIntervalTimer sets and enables the reminder window.
func (d *Daemon) SetIntervalTimer(startHour, startMinute, endHour, endMinute int) error {
	return d.Scheduler.SetIntervalTimer(startHour, startMinute, endHour, endMinute)
}

// IntervalTimer returns the reminder window configuration.
func (d *Daemon) IntervalTimer() (scheduler.IntervalConfig, error) {
	return d.Scheduler.IntervalTimer()
}

// ToggleIntervalTimer enables or disables the reminder window.
func (d *Daemon) ToggleIntervalTimer(enabled bool) error {
	return d.Scheduler.ToggleIntervalTimer(enabled)
}

// SetIntervalRate sets the reminder cadence.
func (d *Daemon) SetIntervalRate(every, lateEvery int) error {
	return d.Scheduler.SetIntervalRate(every, lateEvery)
}
