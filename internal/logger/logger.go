package logger

import (
	"os"
	"time"

	"github.com/rs/zerolog"
)

// New builds the service logger: JSON to stderr with a timestamp and
// the service name attached to every line.
func New(level string) zerolog.Logger {
	zerolog.TimeFieldFormat = time.RFC3339

	return zerolog.New(os.Stderr).
		Level(parseLevel(level)).
		With().
		Timestamp().
		Str("service", "reporting-service").
		Logger()
}

func parseLevel(level string) zerolog.Level {
	switch level {
	case "trace":
		return zerolog.TraceLevel
	case "debug":
		return zerolog.DebugLevel
	case "warn":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}
