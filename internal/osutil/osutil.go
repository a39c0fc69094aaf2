// Package osutil holds platform constants shared across chime
package osutil

const Windows = "windows"

type exitCode int

const (
	ExitOK    exitCode = 0
	ExitError exitCode = 1
)

const (
	DirPermission = 0o755
	// FilePermission is used for data files only the owner may read.
	FilePermission = 0o600
)
