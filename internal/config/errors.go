package config

import "github.com/ayoisaiah/chime/internal/apperr"

var (
	errConfigOption = &apperr.Error{
		Message: "config option error",
	}

	errConfigValidation = &apperr.Error{
		Message: "config validation error",
	}

	errReadConfig = &apperr.Error{
		Message: "reading config file failed",
	}

	errWriteConfig = &apperr.Error{
		Message: "writing default config failed",
	}

	errInvalidPollInterval = &apperr.Error{
		Message: "%s poll interval must be between %v and %v",
	}

	errInvalidOverrun = &apperr.Error{
		Message: "overrun threshold must be at least the countdown poll interval (%v)",
	}

	errInvalidRecentsLimit = &apperr.Error{
		Message: "recents limit must be between %d and %d",
	}

	errInvalidAlarmSlots = &apperr.Error{
		Message: "alarm slots must be between %d and %d",
	}

	errInvalidIntervalEvery = &apperr.Error{
		Message: "interval cadence must be between %d and %d minutes",
	}

	errUnknownDriver = &apperr.Error{
		Message: "unknown store driver: %s (must be bolt, sqlite, or json)",
	}

	errInvalidLogLevel = &apperr.Error{
		Message: "unknown log level: %s",
	}

	errInvalidCLIDuration = &apperr.Error{
		Message: "invalid %s duration: %v",
	}
)
