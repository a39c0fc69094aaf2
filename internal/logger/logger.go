// Package logger configures the structured logger used by the daemon
package logger

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/ayoisaiah/chime/internal/osutil"
)

// Options controls where and how much is logged.
type Options struct {
	Path  string
	Level string
	Debug bool
}

var levels = map[string]log.Level{
	"debug": log.DebugLevel,
	"info":  log.InfoLevel,
	"warn":  log.WarnLevel,
	"error": log.ErrorLevel,
}

// New returns a logger that writes to a rotating file at opts.Path. In debug
// mode records are also written to stderr. The returned closer releases the
// log file.
func New(opts Options) (*slog.Logger, io.Closer, error) {
	if err := os.MkdirAll(filepath.Dir(opts.Path), osutil.DirPermission); err != nil {
		return nil, nil, err
	}

	fileWriter := &lumberjack.Logger{
		Filename:   opts.Path,
		MaxSize:    10, // megabytes
		MaxBackups: 3,
		MaxAge:     28, // days
		Compress:   true,
	}

	var w io.Writer = fileWriter
	if opts.Debug {
		w = io.MultiWriter(os.Stderr, fileWriter)
	}

	return slog.New(NewHandler(w, opts.Level, opts.Debug)), fileWriter, nil
}

// NewHandler returns the slog handler used by chime.
func NewHandler(w io.Writer, level string, reportCaller bool) slog.Handler {
	lvl, ok := levels[strings.ToLower(level)]
	if !ok {
		lvl = log.InfoLevel
	}

	return log.NewWithOptions(w, log.Options{
		ReportCaller:    reportCaller,
		ReportTimestamp: true,
		Level:           lvl,
		Prefix:          "chime",
	})
}

// Discard returns a logger that drops every record. It is used by tests and
// by components constructed without a logger.
func Discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
