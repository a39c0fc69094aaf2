// Package timeutil provides utility functions and types for working with
// time-related operations.
package timeutil

import (
	"fmt"
	"math"
	"time"
)

const (
	minutesInAnHour = 60
	secondsInAnHour = 3600

	MinutesInADay = 24 * minutesInAnHour
)

// DateLayout is the format of a daily dedup key.
const DateLayout = "2006-01-02"

// Round rounds a time value in seconds, minutes, or hours to the nearest integer.
func Round(t float64) int {
	return int(math.Round(t))
}

// MinsToHoursAndMins expresses a minutes value in hours and mins.
func MinsToHoursAndMins(val int) (hrs, mins int) {
	hrs = int(math.Floor(float64(val) / float64(minutesInAnHour)))
	mins = val % minutesInAnHour

	return
}

// MinutesSinceMidnight returns the minute of the day of t in its location.
func MinutesSinceMidnight(t time.Time) int {
	return t.Hour()*minutesInAnHour + t.Minute()
}

// Clock formats an hour and minute as HH:MM.
func Clock(hour, minute int) string {
	return fmt.Sprintf("%02d:%02d", hour, minute)
}

// DateKey returns the calendar date of t as YYYY-MM-DD.
func DateKey(t time.Time) string {
	return t.Format(DateLayout)
}

// Epoch converts t to fractional seconds since the Unix epoch.
func Epoch(t time.Time) float64 {
	return float64(t.UnixNano()) / float64(time.Second)
}

// FromEpoch is the inverse of Epoch.
func FromEpoch(secs float64) time.Time {
	return time.Unix(0, int64(secs*float64(time.Second)))
}

// Seconds converts fractional seconds to a time.Duration.
func Seconds(secs float64) time.Duration {
	return time.Duration(secs * float64(time.Second))
}

// FormatRemaining renders a countdown in seconds as MM:SS, or HH:MM:SS when
// it lasts an hour or longer. Negative values render as 00:00.
func FormatRemaining(secs float64) string {
	total := int(math.Ceil(secs))
	if total < 0 {
		total = 0
	}

	if total >= secondsInAnHour {
		return fmt.Sprintf(
			"%02d:%02d:%02d",
			total/secondsInAnHour,
			(total%secondsInAnHour)/minutesInAnHour,
			total%minutesInAnHour,
		)
	}

	return fmt.Sprintf("%02d:%02d", total/minutesInAnHour, total%minutesInAnHour)
}
