package observability

import (
	"log/slog"
	"os"
)

// NewLogger returns the process-wide structured logger. JSON on stdout so
// the platform log collector can ingest it directly.
func NewLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
}
