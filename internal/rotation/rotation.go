// Package rotation cycles through the boards while the data source is
// healthy and stops on the first failed refresh.
package rotation

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"

	"github.com/fkcurrie/f1-led-golang/internal/cache"
	"github.com/fkcurrie/f1-led-golang/internal/display"
	"github.com/fkcurrie/f1-led-golang/internal/types"
)

// ErrTerminal is returned by Run once the error board has been shown
var ErrTerminal = errors.New("data unavailable")

// State is the controller state
type State int32

const (
	// StateRotating is the initial state: boards are shown in turn
	StateRotating State = iota
	// StateError is terminal
	StateError
)

func (s State) String() string {
	switch s {
	case StateRotating:
		return "ROTATING"
	case StateError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// Cache is the part of the data cache the controller drives
type Cache interface {
	Status() cache.UpdateStatus
	Snapshot() *types.Snapshot
	ShouldUpdate() bool
	Refresh(ctx context.Context) error
}

// Observer is told which board is on screen and when the state changes
type Observer interface {
	BoardStarted(name string)
	StateChanged(s State)
}

// Controller runs the board rotation
type Controller struct {
	cache      Cache
	boards     []display.Board
	errorBoard display.Board
	logger     *slog.Logger
	observers  []Observer

	state atomic.Int32
}

// Option configures a Controller
type Option func(*Controller)

// WithLogger sets the logger
func WithLogger(l *slog.Logger) Option {
	return func(r *Controller) { r.logger = l }
}

// WithObserver registers an observer
func WithObserver(o Observer) Option {
	return func(r *Controller) { r.observers = append(r.observers, o) }
}

// New creates a controller showing boards in order
func New(c Cache, boards []display.Board, errorBoard display.Board, opts ...Option) *Controller {
	r := &Controller{
		cache:      c,
		boards:     boards,
		errorBoard: errorBoard,
		logger:     slog.Default(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// State returns the current state
func (r *Controller) State() State {
	return State(r.state.Load())
}

// Run shows the boards until the cache reports an error or ctx is done.
//
// Each board renders against the snapshot current when it starts. The cache
// is only checked for staleness after a board has finished, never between
// its pages. After a failed refresh the error board is shown once and Run
// returns ErrTerminal. Cancellation returns ctx.Err() without showing the
// error board.
func (r *Controller) Run(ctx context.Context) error {
	if len(r.boards) == 0 {
		return errors.New("no boards to show")
	}
	r.setState(StateRotating)

	var refreshErr error
	for r.cache.Status() == cache.StatusSuccess {
		for _, b := range r.boards {
			if err := ctx.Err(); err != nil {
				return err
			}
			r.logger.Debug("showing board", "board", b.Name())
			for _, o := range r.observers {
				o.BoardStarted(b.Name())
			}
			if err := b.Render(ctx, r.cache.Snapshot()); err != nil {
				if isCancel(err) {
					return err
				}
				return fmt.Errorf("render %s: %w", b.Name(), err)
			}

			if !r.cache.ShouldUpdate() {
				continue
			}
			refreshErr = r.cache.Refresh(ctx)
			if err := ctx.Err(); err != nil {
				return err
			}
			if r.cache.Status() != cache.StatusSuccess {
				break
			}
		}
	}

	r.setState(StateError)
	if refreshErr == nil {
		if ec, ok := r.cache.(interface{ Err() error }); ok {
			refreshErr = ec.Err()
		}
	}
	r.logger.Error("data source failed, stopping rotation", "error", refreshErr)

	if err := r.errorBoard.Render(ctx, r.cache.Snapshot()); err != nil {
		if isCancel(err) {
			return err
		}
		return fmt.Errorf("render %s: %w", r.errorBoard.Name(), err)
	}
	if refreshErr != nil {
		return fmt.Errorf("%w: %w", ErrTerminal, refreshErr)
	}
	return ErrTerminal
}

func (r *Controller) setState(s State) {
	r.state.Store(int32(s))
	r.logger.Info("rotation state", "state", s)
	for _, o := range r.observers {
		o.StateChanged(s)
	}
}

func isCancel(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}
