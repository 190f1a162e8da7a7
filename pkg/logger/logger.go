package logger

import (
	"log/slog"
	"os"
)

// serviceName tags every log line so shipped logs can be attributed when
// several services share a sink.
const serviceName = "user-management"

var defaultLogger *slog.Logger

// Init configures the process logger. Production and staging emit JSON at
// info level for log shipping; anything else gets a readable text handler at
// debug level.
func Init(env string) {
	var handler slog.Handler

	switch env {
	case "production", "staging":
		handler = slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo})
	default:
		handler = slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug})
	}

	defaultLogger = slog.New(handler).With("service", serviceName)
	slog.SetDefault(defaultLogger)
}

// LoggerWrapper returns the process logger, initializing a development one on
// first use so early callers never observe nil.
func LoggerWrapper() *slog.Logger {
	if defaultLogger == nil {
		Init("development")
	}
	return defaultLogger
}
