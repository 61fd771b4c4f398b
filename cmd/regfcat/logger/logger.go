// Package logger owns regfcat's single *slog.Logger, defaulting to a
// discard handler so the core library it drives never has an opinion
// about logging (spec SPEC_FULL.md §1.1).
package logger

import (
	"io"
	"log/slog"
	"os"
)

// L is the active logger. Discards everything until Init raises the level.
var L = slog.New(slog.NewTextHandler(io.Discard, nil))

// Init wires L to stderr at the given level. Passing false for enabled
// leaves L discarding, matching regfcat's default quiet behavior.
func Init(enabled bool, level slog.Level) {
	if !enabled {
		L = slog.New(slog.NewTextHandler(io.Discard, nil))
		return
	}
	L = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

func Debug(msg string, args ...any) { L.Debug(msg, args...) }
func Info(msg string, args ...any)  { L.Info(msg, args...) }
func Warn(msg string, args ...any)  { L.Warn(msg, args...) }
func Error(msg string, args ...any) { L.Error(msg, args...) }
