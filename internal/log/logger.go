// Package log provides structured logging for vexdb.
package log

import (
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/vexdb/vexdb/internal/config"
)

// New creates a slog.Logger based on configuration: a coloured terminal
// handler for pretty output, a JSON handler otherwise.
func New(cfg config.AppConfig) *slog.Logger {
	return NewWithWriter(os.Stdout, cfg.LogFormat(), cfg.LogLevel())
}

// NewWithWriter creates a logger that writes to the given writer.
func NewWithWriter(w io.Writer, format config.LogFormat, level string) *slog.Logger {
	lvl := parseLevel(level)

	var handler slog.Handler
	switch format {
	case config.LogFormatJSON:
		handler = slog.NewJSONHandler(w, &slog.HandlerOptions{Level: lvl})
	default:
		handler = newTerminalHandler(w, lvl)
	}

	return slog.New(handler)
}

func parseLevel(level string) slog.Level {
	switch strings.ToUpper(level) {
	case "DEBUG":
		return slog.LevelDebug
	case "WARN", "WARNING":
		return slog.LevelWarn
	case "ERROR":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// Configure builds a logger from config and installs it as the slog
// default.
func Configure(cfg config.AppConfig) *slog.Logger {
	l := New(cfg)
	slog.SetDefault(l)
	return l
}
