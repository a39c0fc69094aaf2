package store

import "github.com/ayoisaiah/chime/internal/apperr"

var (
	errChimeRunning = &apperr.Error{
		Message: "is chime already running? Only one daemon can be active at a time",
	}

	errUnknownDriver = &apperr.Error{
		Message: "unknown store driver: %s",
	}

	errRead = &apperr.Error{
		Message: "reading settings failed",
	}

	errCommit = &apperr.Error{
		Message: "saving settings failed",
	}

	errDecode = &apperr.Error{
		Message: "decoding setting %q failed",
	}

	errEncode = &apperr.Error{
		Message: "encoding setting %q failed",
	}
)
