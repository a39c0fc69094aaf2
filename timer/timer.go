// Package timer operates the chime countdown timer and handles the recovery of
// interrupted timers
package timer

import (
	"context"
	"log/slog"
	"math"
	"slices"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/ayoisaiah/chime/internal/logger"
	"github.com/ayoisaiah/chime/internal/timeutil"
	"github.com/ayoisaiah/chime/notify"
	"github.com/ayoisaiah/chime/store"
)

const (
	msgSessionEnded = "Your session has ended!"
	msgTimerExpired = "Your timer has expired!"
)

const (
	DefaultPollInterval     = 5 * time.Second
	DefaultOverrunThreshold = 10 * time.Second
	DefaultRecentsLimit     = 5
)

// Options tune the countdown. Zero values are replaced by the defaults.
type Options struct {
	Log              *slog.Logger
	PollInterval     time.Duration
	OverrunThreshold time.Duration
	RecentsLimit     int
}

// run is a single monitor goroutine.
type run struct {
	ctx    context.Context
	cancel context.CancelFunc
	done   chan struct{}
	end    time.Time
}

// Countdown is the single active countdown timer.
type Countdown struct {
	store     store.Store
	sink      notify.Sink
	clock     clockwork.Clock
	log       *slog.Logger
	current   *run
	opts      Options
	remaining float64
	mu        sync.Mutex
}

// New creates an idle countdown.
func New(
	s store.Store,
	sink notify.Sink,
	clock clockwork.Clock,
	opts Options,
) *Countdown {
	if opts.PollInterval <= 0 {
		opts.PollInterval = DefaultPollInterval
	}

	if opts.OverrunThreshold <= 0 {
		opts.OverrunThreshold = DefaultOverrunThreshold
	}

	if opts.RecentsLimit <= 0 {
		opts.RecentsLimit = DefaultRecentsLimit
	}

	l := opts.Log
	if l == nil {
		l = logger.Discard()
	}

	if clock == nil {
		clock = clockwork.NewRealClock()
	}

	return &Countdown{
		store: s,
		sink:  sink,
		clock: clock,
		log:   l.With(slog.String("component", "timer")),
		opts:  opts,
	}
}

// Start records seconds in the recent timers, persists the end time and
// starts monitoring it. A running countdown is replaced.
func (c *Countdown) Start(seconds float64) error {
	if seconds <= 0 || math.IsNaN(seconds) || math.IsInf(seconds, 0) {
		return ErrInvalidDuration.Fmt(seconds)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	var recents []float64

	err := c.store.Update(func(tx store.Tx) error {
		recents = store.RecentTimers(tx)

		if len(recents) >= c.opts.RecentsLimit {
			recents = recents[:c.opts.RecentsLimit-1]
		}

		recents = slices.Insert(recents, 0, seconds)

		return tx.Set(store.KeyRecentTimers, recents)
	})
	if err != nil {
		c.log.Error("unable to save recent timers", slog.Any("error", err))
	}

	c.sink.Emit(notify.EventRefreshRecents, recents)

	c.remaining = seconds
	c.sink.Emit(notify.EventSecondsUpdated, seconds)

	end := c.clock.Now().Add(timeutil.Seconds(seconds))

	c.persistEnd(&end)

	c.stop()

	ctx, cancel := context.WithCancel(context.Background())

	r := &run{
		ctx:    ctx,
		cancel: cancel,
		done:   make(chan struct{}),
		end:    end,
	}

	c.current = r

	c.log.Info(
		"timer started",
		slog.Float64("seconds", seconds),
		slog.Time("end", end),
	)

	go c.monitor(r)

	return nil
}

// Cancel stops the countdown and forgets the persisted end time. It is safe
// to call when no countdown is running.
func (c *Countdown) Cancel() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.cancel()
}

// Halt stops the countdown without touching the persisted end time so that
// the next process can resume it. It waits for the monitor to exit.
func (c *Countdown) Halt() {
	c.mu.Lock()

	c.remaining = 0
	c.sink.Emit(notify.EventSecondsUpdated, 0.0)

	r := c.current
	c.stop()

	c.mu.Unlock()

	if r != nil {
		<-r.done
	}
}

// Remaining returns the seconds left on the running countdown, or zero.
func (c *Countdown) Remaining() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.current == nil {
		return c.remaining
	}

	return max(c.current.end.Sub(c.clock.Now()).Seconds(), 0)
}

// End returns the end time of the running countdown.
func (c *Countdown) End() (time.Time, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.current == nil {
		return time.Time{}, false
	}

	return c.current.end, true
}

// LoadRemaining emits the remaining seconds.
func (c *Countdown) LoadRemaining() {
	remaining := c.Remaining()

	c.mu.Lock()
	defer c.mu.Unlock()

	c.sink.Emit(notify.EventSecondsUpdated, remaining)
}

// Recents returns the recent durations, most recent first.
func (c *Countdown) Recents() []float64 {
	return store.RecentTimers(c.store)
}

// LoadRecents emits the recent durations.
func (c *Countdown) LoadRecents() {
	recents := c.Recents()

	c.mu.Lock()
	defer c.mu.Unlock()

	c.sink.Emit(notify.EventRefreshRecents, recents)
}

// Recover resumes a countdown interrupted by a restart. A countdown whose end
// passed while the process was down is cancelled without an expiry event.
func (c *Countdown) Recover() error {
	var endSecs float64

	found, err := c.store.Get(store.KeyTimerEnd, &endSecs)
	if err != nil {
		c.Cancel()
		return errRecover.Wrap(err)
	}

	if !found {
		return nil
	}

	remaining := timeutil.FromEpoch(endSecs).Sub(c.clock.Now()).Seconds()
	if remaining <= 0 {
		c.log.Info("discarding timer that ended while chime was down")
		c.Cancel()

		return nil
	}

	c.log.Info("resuming interrupted timer", slog.Float64("remaining", remaining))

	return c.Start(remaining)
}

// cancel must be called with c.mu held.
func (c *Countdown) cancel() {
	c.remaining = 0
	c.sink.Emit(notify.EventSecondsUpdated, 0.0)

	if c.current != nil {
		c.log.Info("timer cancelled")
	}

	c.stop()
	c.persistEnd(nil)
}

// stop cancels the running monitor, if any. It must be called with c.mu held
// and does not wait for the goroutine to exit.
func (c *Countdown) stop() {
	if c.current == nil {
		return
	}

	c.current.cancel()
	c.current = nil
}

func (c *Countdown) persistEnd(end *time.Time) {
	var value any

	if end != nil {
		value = timeutil.Epoch(*end)
	}

	err := c.store.Update(func(tx store.Tx) error {
		return tx.Set(store.KeyTimerEnd, value)
	})
	if err != nil {
		c.log.Error("unable to save timer end", slog.Any("error", err))
	}
}

func (c *Countdown) monitor(r *run) {
	defer close(r.done)
	defer r.cancel()

	for {
		t := c.clock.NewTimer(c.opts.PollInterval)

		select {
		case <-r.ctx.Done():
			t.Stop()
			return
		case <-t.Chan():
		}

		if !c.tick(r) {
			return
		}
	}
}

// tick recomputes the remaining time and reports whether the monitor should
// keep running.
func (c *Countdown) tick(r *run) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if r.ctx.Err() != nil {
		return false
	}

	remaining := r.end.Sub(c.clock.Now()).Seconds()

	switch {
	case remaining <= -c.opts.OverrunThreshold.Seconds():
		c.log.Warn(
			"timer overran its end, forcing expiry",
			slog.Float64("remaining", remaining),
		)

		c.cancel()
		c.sink.Emit(notify.EventTimer, msgTimerExpired, true)

		return false
	case remaining > 0:
		c.remaining = remaining
		c.sink.Emit(notify.EventSecondsUpdated, remaining)

		return true
	default:
		c.remaining = 0
		c.current = nil
		c.persistEnd(nil)

		c.sink.Emit(notify.EventSecondsUpdated, 0.0)
		c.sink.Emit(notify.EventTimer, msgSessionEnded, store.SubtleMode(c.store))

		c.log.Info("timer completed")

		return false
	}
}
