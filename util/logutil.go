package util

import (
	"log/slog"
	"os"
	"strings"
)

// InitSlog configures the default slog logger on stderr.
// LOG_LEVEL (debug, info, warn, error) takes precedence over the given level.
// An empty level with no LOG_LEVEL leaves the default logger untouched.
func InitSlog(level string) {
	if logLevel, ok := os.LookupEnv("LOG_LEVEL"); ok {
		level = logLevel
	}
	if level == "" {
		return
	}

	opts := &slog.HandlerOptions{
		Level: ParseLogLevel(level),
	}
	handler := slog.NewTextHandler(os.Stderr, opts)
	slog.SetDefault(slog.New(handler))
}

func ParseLogLevel(level string) slog.Level {
	switch strings.ToLower(level) {
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
