package main

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	qt "github.com/frankban/quicktest"

	"github.com/fkcurrie/f1-led-golang/internal/display"
	"github.com/fkcurrie/f1-led-golang/internal/rotation"
	"github.com/fkcurrie/f1-led-golang/internal/types"
)

// recordingPanel records the calls made to it
type recordingPanel struct {
	calls    []string
	blankErr error
}

func (p *recordingPanel) Show(*image.RGBA) error {
	p.calls = append(p.calls, "show")
	return nil
}

func (p *recordingPanel) Blank() error {
	p.calls = append(p.calls, "blank")
	return p.blankErr
}

func (p *recordingPanel) Close() error {
	p.calls = append(p.calls, "close")
	return nil
}

func testLogger() (*slog.Logger, *bytes.Buffer) {
	var buf bytes.Buffer
	return slog.New(slog.NewTextHandler(&buf, nil)), &buf
}

// runWithShutdown mimics run: body decides the code unless it panics
func runWithShutdown(logger *slog.Logger, panel types.Panel, body func() int) (code int) {
	canvas := display.NewCanvas(8, 4, nil)
	defer shutdown(logger, canvas, panel, &code)
	return body()
}

func TestShutdown(t *testing.T) {
	tests := []struct {
		name     string
		body     func() int
		wantCode int
		wantLog  string
	}{
		{"clean exit", func() int { return 0 }, 0, ""},
		{"terminal", func() int { return 1 }, 1, ""},
		{"panic while rendering", func() int { panic("index out of range") }, 1, `(?s).*Unclassified fault.*panic="index out of range".*stack=.*`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := qt.New(t)
			logger, buf := testLogger()
			panel := &recordingPanel{}

			code := runWithShutdown(logger, panel, tt.body)
			c.Assert(code, qt.Equals, tt.wantCode)
			c.Assert(panel.calls, qt.DeepEquals, []string{"blank", "close"})
			if tt.wantLog != "" {
				c.Assert(buf.String(), qt.Matches, tt.wantLog)
			}
		})
	}
}

func TestShutdownClosesAfterBlankFailure(t *testing.T) {
	c := qt.New(t)
	logger, buf := testLogger()
	panel := &recordingPanel{blankErr: errors.New("line busy")}

	code := runWithShutdown(logger, panel, func() int { return 0 })
	c.Assert(code, qt.Equals, 0)
	c.Assert(panel.calls, qt.DeepEquals, []string{"blank", "close"})
	c.Assert(buf.String(), qt.Contains, "Failed to blank panel")
}

func TestShutdownWithoutPanel(t *testing.T) {
	c := qt.New(t)
	logger, _ := testLogger()

	code := runWithShutdown(logger, nil, func() int { panic(fmt.Errorf("nil snapshot")) })
	c.Assert(code, qt.Equals, 1)
}

func TestExitCode(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		want    int
		wantLog string
	}{
		{"canceled", context.Canceled, 0, "Exiting..."},
		{"wrapped cancel", fmt.Errorf("drivers: %w", context.Canceled), 0, "Exiting..."},
		{"terminal", fmt.Errorf("%w: fetch failed", rotation.ErrTerminal), 1, "No data available"},
		{"unclassified", errors.New("swap: panel closed"), 1, "Unclassified fault"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := qt.New(t)
			logger, buf := testLogger()
			c.Assert(exitCode(logger, tt.err), qt.Equals, tt.want)
			c.Assert(buf.String(), qt.Contains, tt.wantLog)
		})
	}
}

func TestNewLoggerWritesFile(t *testing.T) {
	c := qt.New(t)
	path := filepath.Join(t.TempDir(), "leaderboard.log")

	logger, closeLog, err := newLogger(false, path)
	c.Assert(err, qt.IsNil)
	logger.Info("Refreshed data", "season", 2026)
	logger.Debug("hidden below info")
	closeLog()

	data, err := os.ReadFile(path)
	c.Assert(err, qt.IsNil)
	c.Assert(string(data), qt.Contains, "Refreshed data")
	c.Assert(string(data), qt.Not(qt.Contains), "hidden below info")
}

func TestNewLoggerBadPath(t *testing.T) {
	c := qt.New(t)
	_, _, err := newLogger(false, filepath.Join(t.TempDir(), "missing", "dir", "x.log"))
	c.Assert(err, qt.IsNotNil)
}
