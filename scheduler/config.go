package scheduler

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/maruel/natural"

	"github.com/ayoisaiah/chime/internal/timeutil"
)

const (
	slotPrefix = "alarm_"

	// MaxRate is the largest reminder rate in minutes.
	MaxRate = 720

	defaultEvery = 5
)

// AlarmConfig is a daily alarm slot.
type AlarmConfig struct {
	// LastTriggered is the date (YYYY-MM-DD) the alarm last fired on.
	LastTriggered *string `json:"last_triggered"`
	Label         string  `json:"label,omitempty"`
	Hour          int     `json:"hour"`
	Minute        int     `json:"minute"`
	Enabled       bool    `json:"enabled"`
}

// Minutes returns the alarm time as minutes since midnight.
func (a AlarmConfig) Minutes() int {
	return a.Hour*60 + a.Minute
}

// Alarms maps slot names (alarm_N) to their configuration.
type Alarms map[string]AlarmConfig

// Slots returns the slot names in natural order, so alarm_10 follows
// alarm_9.
func (a Alarms) Slots() []string {
	names := make([]string, 0, len(a))

	for name := range a {
		names = append(names, name)
	}

	sort.Sort(natural.StringSlice(names))

	return names
}

// Label returns the notification text of the named slot.
func (a Alarms) Label(name string) string {
	if l := a[name].Label; l != "" {
		return l
	}

	n := strings.TrimPrefix(name, slotPrefix)

	return "Daily Alarm " + n
}

// SlotName returns the name of the nth alarm slot.
func SlotName(n int) string {
	return slotPrefix + strconv.Itoa(n)
}

// DefaultAlarm returns the configuration used for a slot that was never set.
// The first three slots ring at 21:00, 22:00 and 23:00; later ones start
// disabled at midnight.
func DefaultAlarm(n int) AlarmConfig {
	if n >= 1 && n <= 3 {
		return AlarmConfig{Hour: 20 + n, Enabled: true}
	}

	return AlarmConfig{}
}

// IntervalConfig is a daily window inside which reminders fire every Every
// minutes, or every LateEvery minutes in the second half of the window.
type IntervalConfig struct {
	// LastTriggeredSlot is the dedup key (YYYY-MM-DD_HH:MM) of the last
	// reminder.
	LastTriggeredSlot *string `json:"last_triggered_slot"`
	StartHour         int     `json:"start_hour"`
	StartMinute       int     `json:"start_minute"`
	EndHour           int     `json:"end_hour"`
	EndMinute         int     `json:"end_minute"`
	Every             int     `json:"every"`
	LateEvery         int     `json:"late_every"`
	Enabled           bool    `json:"enabled"`
}

// DefaultInterval is used when no interval timer was configured.
func DefaultInterval(every int) IntervalConfig {
	if every <= 0 {
		every = defaultEvery
	}

	return IntervalConfig{
		StartHour: 9,
		EndHour:   17,
		Every:     every,
	}
}

// Window returns the reminder window.
func (c IntervalConfig) Window() Window {
	return Window{
		Start: c.StartHour*60 + c.StartMinute,
		End:   c.EndHour*60 + c.EndMinute,
	}
}

// Rate returns the reminder cadence in minutes at minute t of the day.
func (c IntervalConfig) Rate(t int) int {
	every := c.Every
	if every <= 0 {
		every = defaultEvery
	}

	if c.LateEvery <= 0 {
		return every
	}

	w := c.Window()
	if w.Offset(t) >= w.Len()/2 {
		return c.LateEvery
	}

	return every
}

// Due reports whether a reminder is due at minute t of the day.
func (c IntervalConfig) Due(t int) bool {
	return c.Enabled && c.Window().Contains(t) && t%c.Rate(t) == 0
}

func (c IntervalConfig) String() string {
	s := fmt.Sprintf(
		"%s-%s every %dm",
		timeutil.Clock(c.StartHour, c.StartMinute),
		timeutil.Clock(c.EndHour, c.EndMinute),
		c.Every,
	)

	if c.LateEvery > 0 {
		s += fmt.Sprintf(", then every %dm", c.LateEvery)
	}

	return s
}

func validTime(hour, minute int) error {
	if hour < 0 || hour > 23 || minute < 0 || minute > 59 {
		return ErrInvalidTime.Fmt(hour, minute)
	}

	return nil
}
