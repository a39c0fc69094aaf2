package notify

import "github.com/ayoisaiah/chime/internal/apperr"

var (
	errParseCmd = &apperr.Error{
		Message: "unable to parse notification command",
	}

	errInvalidSoundFormat = &apperr.Error{
		Message: "sound file must be in mp3, ogg, flac, or wav format",
	}
)
