package scheduler

import "github.com/ayoisaiah/chime/internal/apperr"

var (
	// ErrInvalidTime is returned for hours outside [0,23] or minutes outside
	// [0,59].
	ErrInvalidTime = &apperr.Error{
		Message: "invalid time %02d:%02d: hour must be 0-23 and minute 0-59",
	}

	// ErrInvalidSlot is returned for alarm slots outside the configured range.
	ErrInvalidSlot = &apperr.Error{
		Message: "invalid alarm slot %d: must be between 1 and %d",
	}

	// ErrInvalidRate is returned for interval rates outside [1,720] minutes.
	ErrInvalidRate = &apperr.Error{
		Message: "invalid reminder rate %d: must be between 1 and 720 minutes",
	}

	errLoadAlarms = &apperr.Error{
		Message: "unable to load daily alarms",
	}

	errLoadInterval = &apperr.Error{
		Message: "unable to load interval timer",
	}

	errSaveTriggers = &apperr.Error{
		Message: "unable to save trigger state",
	}
)
