package app

import (
	"io"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
)

// NewLogger writes JSON lines to the shipmate log file. Logging is
// diagnostics only: user-facing failures travel through operation events,
// never through the log.
func NewLogger() zerolog.Logger {
	return zerolog.New(defaultLogWriter()).With().Timestamp().Logger()
}

func defaultLogWriter() io.Writer {
	path := DefaultLogPath()
	if path == "" {
		return io.Discard
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return io.Discard
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return io.Discard
	}
	return f
}

func DefaultLogPath() string {
	base, err := os.UserCacheDir()
	if err != nil {
		return ""
	}
	return filepath.Join(base, "shipmate", "shipmate.log")
}
