// Package notify delivers events emitted by the countdown timer and the
// recurrence scheduler to the UI and to local notification channels.
package notify

import (
	"log/slog"
)

// Events pushed to the frontend.
const (
	// EventSecondsUpdated carries the remaining countdown seconds.
	EventSecondsUpdated = "seconds_updated"
	// EventTimer carries a message and the subtle flag.
	EventTimer = "timer_event"
	// EventRefreshRecents carries the recent durations, most recent first.
	EventRefreshRecents = "refresh_recents"
	// EventSubtleMode carries the subtle mode flag.
	EventSubtleMode = "subtle_mode_changed"
)

// Sink receives events. Emit must not block for long and never fails: a
// sink that cannot deliver an event logs and drops it.
type Sink interface {
	Emit(event string, args ...any)
}

// Func adapts a function to the Sink interface.
type Func func(event string, args ...any)

func (f Func) Emit(event string, args ...any) {
	f(event, args...)
}

// Fanout delivers every event to each of its sinks in order.
type Fanout []Sink

func (f Fanout) Emit(event string, args ...any) {
	for _, s := range f {
		s.Emit(event, args...)
	}
}

// Log records every event at debug level.
type Log struct {
	Logger *slog.Logger
}

func (l Log) Emit(event string, args ...any) {
	l.Logger.Debug("event emitted", slog.String("event", event), slog.Any("args", args))
}

// TimerEvent extracts the payload of an EventTimer emission.
func TimerEvent(event string, args []any) (msg string, subtle, ok bool) {
	if event != EventTimer || len(args) < 2 {
		return "", false, false
	}

	msg, ok = args[0].(string)
	if !ok {
		return "", false, false
	}

	subtle, ok = args[1].(bool)

	return msg, subtle, ok
}
