package display

import (
	"context"
	"fmt"

	"tinygo.org/x/tinyfont"

	"github.com/fkcurrie/f1-led-golang/internal/config"
	"github.com/fkcurrie/f1-led-golang/internal/types"
)

// Error is the board shown once when data can no longer be fetched
type Error struct {
	surface Surface
	layout  *config.Layout
	font    tinyfont.Fonter
	sleeper Sleeper
}

// NewError creates the error board
func NewError(s Surface, l *config.Layout, f tinyfont.Fonter, sleeper Sleeper) *Error {
	return &Error{surface: s, layout: l, font: f, sleeper: sleeper}
}

// Name implements Board
func (b *Error) Name() string { return "error" }

// Render draws the board, publishes it and holds it for the error dwell
func (b *Error) Render(ctx context.Context, _ *types.Snapshot) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s, l, f := b.surface, b.layout, b.font
	s.Clear()
	drawHeader(s, l, f, "Error", Red, White)
	drawCentered(s, l, f, "No data", White)
	if err := s.Swap(); err != nil {
		return fmt.Errorf("error board: %w", err)
	}
	return b.sleeper.Sleep(ctx, l.ErrorDwell)
}
