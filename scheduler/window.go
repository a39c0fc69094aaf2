package scheduler

import "github.com/ayoisaiah/chime/internal/timeutil"

// Window is a daily span of minutes since midnight. The end is exclusive.
// A window whose start is after its end crosses midnight, and a window
// whose start equals its end is empty.
type Window struct {
	Start int
	End   int
}

// Contains reports whether minute t of the day falls inside the window.
func (w Window) Contains(t int) bool {
	if w.Start <= w.End {
		return w.Start <= t && t < w.End
	}

	return t >= w.Start || t < w.End
}

// Len returns the length of the window in minutes.
func (w Window) Len() int {
	return (w.End - w.Start + timeutil.MinutesInADay) % timeutil.MinutesInADay
}

// Offset returns how many minutes into the window t is. The result is only
// meaningful when the window contains t.
func (w Window) Offset(t int) int {
	return (t - w.Start + timeutil.MinutesInADay) % timeutil.MinutesInADay
}
