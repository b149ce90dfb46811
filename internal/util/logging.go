// Package util provides logging setup, data directory resolution and small
// generic helpers shared by the commands and the TUI.
package util

import (
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// LogConfig captures options for configuring the shared logger.
type LogConfig struct {
	Level   string    // optional level ("debug", "info", ...); falls back to SPT_LOG_LEVEL
	Output  io.Writer // defaults to os.Stderr
	Service string
}

var (
	logMu   sync.RWMutex
	baseLog = zerolog.New(os.Stderr).With().Timestamp().Str("service", "spt").Logger()
)

// ConfigureLogging replaces the shared logger. Later calls win, so the TUI
// can redirect output to a file after the command line has been parsed.
func ConfigureLogging(cfg LogConfig) {
	level := zerolog.InfoLevel
	raw := cfg.Level
	if raw == "" {
		raw = os.Getenv("SPT_LOG_LEVEL")
	}
	if raw != "" {
		if parsed, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(raw))); err == nil {
			level = parsed
		}
	}
	zerolog.SetGlobalLevel(level)
	zerolog.TimeFieldFormat = time.RFC3339

	writer := cfg.Output
	if writer == nil {
		writer = os.Stderr
	}
	service := cfg.Service
	if service == "" {
		service = "spt"
	}

	logMu.Lock()
	baseLog = zerolog.New(writer).With().Timestamp().Str("service", service).Logger()
	logMu.Unlock()
}

// Logger returns a child logger annotated with the given component name.
func Logger(component string) zerolog.Logger {
	logMu.RLock()
	defer logMu.RUnlock()
	return baseLog.With().Str("component", component).Logger()
}

// OpenLogFile opens (appending) the log file inside dir, creating dir first.
func OpenLogFile(dir, name string) (*os.File, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return os.OpenFile(filepath.Join(dir, name), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
}

// LogError logs an error with context if it is non-nil.
func LogError(context string, err error) {
	if err != nil {
		l := Logger("app")
		l.Error().Err(err).Msg(context)
	}
}
