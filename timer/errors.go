package timer

import "github.com/ayoisaiah/chime/internal/apperr"

// ErrInvalidDuration is returned by Start for durations that are not
// positive.
var ErrInvalidDuration = &apperr.Error{
	Message: "timer duration must be a positive number of seconds, got %v",
}

var errRecover = &apperr.Error{
	Message: "unable to recover interrupted timer",
}
