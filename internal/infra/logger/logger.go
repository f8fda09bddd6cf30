package logger

import (
	"log/slog"
	"os"
)

// New builds the process logger. Dev gets a readable text handler at
// debug level, everything else JSON at info.
func New(env string) *slog.Logger {
	if env == "dev" {
		h := slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug})
		return slog.New(h)
	}
	h := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo})
	return slog.New(h).With("app", "inventario-bot")
}
