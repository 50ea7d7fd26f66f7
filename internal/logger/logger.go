package logger

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

// EnvVarLogLevel overrides the level when no flag sets one.
const EnvVarLogLevel = "LOG_LEVEL"

// New returns a JSON logger on stderr tagged with module and version.
// Source locations are added at debug level only.
func New(module, version, level string) *slog.Logger {
	return NewWithWriter(os.Stderr, module, version, level)
}

// NewWithWriter is New writing to w.
func NewWithWriter(w io.Writer, module, version, level string) *slog.Logger {
	lev := ParseLevel(level)
	return slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{
		Level:     lev,
		AddSource: lev <= slog.LevelDebug,
	})).With("module", module, "version", version)
}

// SetDefault installs New as the slog default. An empty level falls back
// to LOG_LEVEL.
func SetDefault(module, version, level string) *slog.Logger {
	if level == "" {
		level = os.Getenv(EnvVarLogLevel)
	}
	l := New(module, version, level)
	slog.SetDefault(l)
	return l
}

// ParseLevel maps debug, info, warn and error to slog levels. Anything
// else is info.
func ParseLevel(level string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
