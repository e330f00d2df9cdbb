// Package cache holds the current championship snapshot and decides when it
// is due to be fetched again.
package cache

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/hako/durafmt"

	"github.com/fkcurrie/f1-led-golang/internal/types"
)

// ErrFetch wraps every failed refresh
var ErrFetch = errors.New("fetch failed")

// Provider fetches a complete snapshot from the data source
type Provider interface {
	FetchSnapshot(ctx context.Context) (*types.Snapshot, error)
}

// Outcome describes one refresh attempt
type Outcome struct {
	Started  time.Time
	Finished time.Time
	Status   UpdateStatus
	// Snapshot is the published snapshot, nil on failure
	Snapshot *types.Snapshot
	Err      error
}

// Duration is the time the provider took
func (o Outcome) Duration() time.Duration {
	return o.Finished.Sub(o.Started)
}

// Observer is told about every refresh attempt
type Observer interface {
	RefreshDone(ctx context.Context, o Outcome)
}

// ObserverFunc adapts a function to Observer
type ObserverFunc func(ctx context.Context, o Outcome)

// RefreshDone calls f
func (f ObserverFunc) RefreshDone(ctx context.Context, o Outcome) { f(ctx, o) }

// Cache holds the latest snapshot together with the refresh clock.
//
// Refresh must only be called from one goroutine. Every other method may be
// called concurrently with it.
type Cache struct {
	provider  Provider
	interval  time.Duration
	now       func() time.Time
	logger    *slog.Logger
	observers []Observer

	snapshot atomic.Pointer[types.Snapshot]

	mu          sync.RWMutex
	status      UpdateStatus
	lastRefresh time.Time
	lastErr     error
}

// Option configures a Cache
type Option func(*Cache)

// WithClock sets the clock used for the staleness check
func WithClock(now func() time.Time) Option {
	return func(c *Cache) { c.now = now }
}

// WithLogger sets the logger
func WithLogger(l *slog.Logger) Option {
	return func(c *Cache) { c.logger = l }
}

// WithObserver registers an observer of refresh outcomes
func WithObserver(o Observer) Option {
	return func(c *Cache) { c.observers = append(c.observers, o) }
}

// New creates an empty cache. Nothing is fetched until Refresh is called.
func New(provider Provider, interval time.Duration, opts ...Option) *Cache {
	c := &Cache{
		provider: provider,
		interval: interval,
		now:      time.Now,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Refresh calls the provider once. On success the new snapshot replaces the
// old one and the refresh clock restarts. On failure the old snapshot is
// kept, the clock is left alone and the status becomes StatusError.
func (c *Cache) Refresh(ctx context.Context) error {
	started := c.now()
	snap, err := c.provider.FetchSnapshot(ctx)
	finished := c.now()
	if err == nil && snap == nil {
		err = errors.New("provider returned no snapshot")
	}

	o := Outcome{Started: started, Finished: finished}
	if err != nil {
		err = fmt.Errorf("%w: %w", ErrFetch, err)
		c.mu.Lock()
		c.status = StatusError
		c.lastErr = err
		c.mu.Unlock()

		o.Status = StatusError
		o.Err = err
		c.logger.Warn("refresh failed", "error", err, "took", durafmt.Parse(o.Duration()).LimitFirstN(2).String())
	} else {
		c.snapshot.Store(snap)
		c.mu.Lock()
		c.status = StatusSuccess
		c.lastRefresh = finished
		c.lastErr = nil
		c.mu.Unlock()

		o.Status = StatusSuccess
		o.Snapshot = snap
		c.logger.Info("refresh succeeded",
			"drivers", len(snap.Drivers),
			"constructors", len(snap.Constructors),
			"next", durafmt.Parse(c.interval).LimitFirstN(2).String())
	}

	for _, obs := range c.observers {
		obs.RefreshDone(ctx, o)
	}
	return err
}

// ShouldUpdate reports whether at least one interval has passed since the
// last successful refresh. It has no side effects.
func (c *Cache) ShouldUpdate() bool {
	c.mu.RLock()
	last := c.lastRefresh
	c.mu.RUnlock()
	if last.IsZero() {
		return true
	}
	return c.now().Sub(last) >= c.interval
}

// Status returns the outcome of the most recent refresh
func (c *Cache) Status() UpdateStatus {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.status
}

// Err returns the error of the most recent refresh, if it failed
func (c *Cache) Err() error {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.lastErr
}

// Snapshot returns the current snapshot, nil before the first success
func (c *Cache) Snapshot() *types.Snapshot {
	return c.snapshot.Load()
}

// LastRefresh returns the completion time of the last successful refresh
func (c *Cache) LastRefresh() time.Time {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.lastRefresh
}

// NextRefresh returns the earliest time ShouldUpdate turns true
func (c *Cache) NextRefresh() time.Time {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.lastRefresh.IsZero() {
		return time.Time{}
	}
	return c.lastRefresh.Add(c.interval)
}

// Interval returns the configured update interval
func (c *Cache) Interval() time.Duration {
	return c.interval
}
