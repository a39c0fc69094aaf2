package app

import "github.com/ayoisaiah/chime/internal/apperr"

var (
	errMissingArg = &apperr.Error{
		Message: "missing argument: %s",
	}

	errInvalidToggle = &apperr.Error{
		Message: "expected on or off, got %q",
	}

	errInvalidSlot = &apperr.Error{
		Message: "invalid alarm slot %q",
	}

	errParseTime = &apperr.Error{
		Message: "unable to understand %q as a time of day",
	}

	errDisconnected = &apperr.Error{
		Message: "connection to the daemon was closed",
	}
)
