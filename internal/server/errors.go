package server

import "github.com/ayoisaiah/chime/internal/apperr"

var errListen = &apperr.Error{
	Message: "unable to listen on %s",
}
