package emu

import (
	"context"
	"log/slog"
)

// LevelTrace is the slog level for per-instruction execution detail.
const LevelTrace slog.Level = slog.LevelDebug - 4

// Trace logs at LevelTrace.
func Trace(logger *slog.Logger, msg string, args ...any) {
	logger.Log(context.Background(), LevelTrace, msg, args...)
}
