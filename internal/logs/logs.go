package logs

import (
	"log/slog"
	"os"
	"time"

	"github.com/lmittmann/tint"
)

const logFile = "tenantkit.log"

// FileLogger returns a JSON slog logger appending to the run log file.
// Callers own nothing; the file handle stays open for the process lifetime.
func FileLogger() *slog.Logger {
	opts := &slog.HandlerOptions{
		AddSource: true,
		Level:     slog.LevelDebug,
	}

	f, err := os.OpenFile(logFile, os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0644)
	if err != nil {
		// Fall back to stderr rather than dying over a log file
		return slog.New(slog.NewJSONHandler(os.Stderr, opts))
	}

	return slog.New(slog.NewJSONHandler(f, opts))
}

func ConsoleLogger() *slog.Logger {
	w := os.Stderr

	logger := slog.New(tint.NewHandler(w, nil))

	// set global logger with custom options
	slog.SetDefault(slog.New(
		tint.NewHandler(w, &tint.Options{
			Level:      slog.LevelDebug,
			TimeFormat: time.Kitchen,
		}),
	))
	return logger
}
