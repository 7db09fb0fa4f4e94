package log

import (
	"log/slog"
	"os"
	"strings"
)

// Setup installs the process-wide slog logger with the given component name
// attached to every record. Level comes from LOG_LEVEL (debug/info/warn/error,
// default info).
func Setup(component string) *slog.Logger {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: levelFromEnv(),
	})).With(FieldComponent, component)

	slog.SetDefault(logger)
	return logger
}

func levelFromEnv() slog.Level {
	switch strings.ToLower(os.Getenv("LOG_LEVEL")) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
