package main

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"runtime/debug"

	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/fkcurrie/f1-led-golang/internal/display"
	"github.com/fkcurrie/f1-led-golang/internal/rotation"
	"github.com/fkcurrie/f1-led-golang/internal/types"
)

// Log file rotation limits
const (
	logMaxSizeMB  = 5
	logMaxBackups = 4
)

// shutdown is deferred by run. It recovers a panic as an unclassified
// fault, then clears the canvas and blanks and releases the panel on every
// exit path. panel may be nil when running without hardware.
func shutdown(logger *slog.Logger, canvas *display.Canvas, panel types.Panel, code *int) {
	if r := recover(); r != nil {
		logger.Error("Unclassified fault", "panic", r, "stack", string(debug.Stack()))
		*code = 1
	}
	canvas.Clear()
	if panel == nil {
		return
	}
	if err := panel.Blank(); err != nil {
		logger.Warn("Failed to blank panel", "error", err)
	}
	if err := panel.Close(); err != nil {
		logger.Warn("Failed to close panel", "error", err)
	}
}

// exitCode maps the error that ended the rotation to the process status
func exitCode(logger *slog.Logger, err error) int {
	switch {
	case err == nil, errors.Is(err, context.Canceled):
		logger.Info("Exiting...")
		return 0
	case errors.Is(err, rotation.ErrTerminal):
		logger.Error("No data available, stopping", "error", err)
		return 1
	default:
		logger.Error("Unclassified fault", "error", err)
		return 1
	}
}

// newLogger logs to stderr and, when path is set, also to a size capped
// file with a few rotated backups.
func newLogger(verbose bool, path string) (*slog.Logger, func(), error) {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}

	var w io.Writer = os.Stderr
	closeFn := func() {}
	if path != "" {
		f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
		if err != nil {
			return nil, nil, err
		}
		f.Close()
		lj := &lumberjack.Logger{
			Filename:   path,
			MaxSize:    logMaxSizeMB,
			MaxBackups: logMaxBackups,
		}
		w = io.MultiWriter(os.Stderr, lj)
		closeFn = func() { lj.Close() }
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level})), closeFn, nil
}
