package rotation

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	qt "github.com/frankban/quicktest"

	"github.com/fkcurrie/f1-led-golang/internal/cache"
	"github.com/fkcurrie/f1-led-golang/internal/display"
	"github.com/fkcurrie/f1-led-golang/internal/types"
)

// fakeBoard records every activation into a shared log
type fakeBoard struct {
	name  string
	log   *[]string
	snaps []*types.Snapshot
	err   error
	// hook runs during Render
	hook func()
}

func (b *fakeBoard) Name() string { return b.name }

func (b *fakeBoard) Render(ctx context.Context, snap *types.Snapshot) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	*b.log = append(*b.log, "render "+b.name)
	b.snaps = append(b.snaps, snap)
	if b.hook != nil {
		b.hook()
	}
	return b.err
}

// scriptedProvider returns one result per call; past the script it fails
type scriptedProvider struct {
	log     *[]string
	results []error
	calls   int
}

func (p *scriptedProvider) FetchSnapshot(ctx context.Context) (*types.Snapshot, error) {
	i := p.calls
	p.calls++
	*p.log = append(*p.log, "fetch")
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if i >= len(p.results) {
		return nil, errors.New("script exhausted")
	}
	if p.results[i] != nil {
		return nil, p.results[i]
	}
	return &types.Snapshot{Round: i + 1}, nil
}

type recordingObserver struct {
	events []string
}

func (o *recordingObserver) BoardStarted(name string) { o.events = append(o.events, "board "+name) }
func (o *recordingObserver) StateChanged(s State)     { o.events = append(o.events, "state "+s.String()) }

type testClock struct{ t time.Time }

func (c *testClock) now() time.Time { return c.t }

func newTestCache(c *qt.C, p cache.Provider, interval time.Duration, clock *testClock) *cache.Cache {
	if clock.t.IsZero() {
		clock.t = time.Date(2026, 3, 8, 4, 0, 0, 0, time.UTC)
	}
	dc := cache.New(p, interval, cache.WithClock(clock.now))
	c.Assert(dc.Refresh(context.Background()), qt.IsNil)
	return dc
}

// Scenario: a refresh fails after the first board.
func TestFailedRefreshShowsErrorBoardOnce(t *testing.T) {
	c := qt.New(t)
	var log []string
	boom := errors.New("503 Service Unavailable")
	p := &scriptedProvider{log: &log, results: []error{nil, boom}}
	dc := newTestCache(c, p, 0, &testClock{})

	drivers := &fakeBoard{name: "drivers", log: &log}
	constructors := &fakeBoard{name: "constructors", log: &log}
	errBoard := &fakeBoard{name: "error", log: &log}
	obs := &recordingObserver{}

	r := New(dc, []display.Board{drivers, constructors}, errBoard, WithObserver(obs))
	err := r.Run(context.Background())

	c.Assert(errors.Is(err, ErrTerminal), qt.IsTrue)
	c.Assert(errors.Is(err, cache.ErrFetch), qt.IsTrue)
	c.Assert(errors.Is(err, boom), qt.IsTrue)
	c.Assert(r.State(), qt.Equals, StateError)
	c.Assert(log, qt.DeepEquals, []string{"fetch", "render drivers", "fetch", "render error"})
	c.Assert(obs.events, qt.DeepEquals, []string{"state ROTATING", "board drivers", "state ERROR"})
}

func TestInitialFailureGoesStraightToError(t *testing.T) {
	c := qt.New(t)
	var log []string
	p := &scriptedProvider{log: &log, results: []error{errors.New("no route to host")}}
	dc := cache.New(p, time.Minute)
	c.Assert(dc.Refresh(context.Background()), qt.Not(qt.IsNil))

	drivers := &fakeBoard{name: "drivers", log: &log}
	errBoard := &fakeBoard{name: "error", log: &log}
	err := New(dc, []display.Board{drivers}, errBoard).Run(context.Background())

	c.Assert(errors.Is(err, ErrTerminal), qt.IsTrue)
	c.Assert(err, qt.ErrorMatches, "data unavailable: fetch failed: no route to host")
	c.Assert(log, qt.DeepEquals, []string{"fetch", "render error"})
	c.Assert(errBoard.snaps, qt.DeepEquals, []*types.Snapshot{nil})
}

func TestRefreshOnlyBetweenBoards(t *testing.T) {
	c := qt.New(t)
	var log []string
	clock := &testClock{t: time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)}
	p := &scriptedProvider{log: &log, results: []error{nil, nil, nil}}
	dc := newTestCache(c, p, time.Minute, clock)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	renders := 0
	// Each board takes 40s; the data turns stale during the second board
	advance := func() {
		clock.t = clock.t.Add(40 * time.Second)
		renders++
		if renders == 4 {
			cancel()
		}
	}
	a := &fakeBoard{name: "a", log: &log, hook: advance}
	b := &fakeBoard{name: "b", log: &log, hook: advance}

	err := New(dc, []display.Board{a, b}, &fakeBoard{name: "error", log: &log}).Run(ctx)
	c.Assert(errors.Is(err, context.Canceled), qt.IsTrue)
	c.Assert(log, qt.DeepEquals, []string{
		"fetch",
		"render a",
		"render b", "fetch",
		"render a",
		"render b", "fetch",
	})

	// Boards see the snapshot current when they start
	c.Assert(a.snaps[0].Round, qt.Equals, 1)
	c.Assert(b.snaps[0].Round, qt.Equals, 1)
	c.Assert(a.snaps[1].Round, qt.Equals, 2)
}

func TestCancelDuringRenderSkipsErrorBoard(t *testing.T) {
	c := qt.New(t)
	var log []string
	dc := newTestCache(c, &scriptedProvider{log: &log, results: []error{nil}}, time.Hour, &testClock{})

	ctx, cancel := context.WithCancel(context.Background())
	a := &fakeBoard{name: "a", log: &log, hook: cancel, err: context.Canceled}
	errBoard := &fakeBoard{name: "error", log: &log}

	r := New(dc, []display.Board{a}, errBoard)
	err := r.Run(ctx)
	c.Assert(errors.Is(err, context.Canceled), qt.IsTrue)
	c.Assert(errBoard.snaps, qt.HasLen, 0)
	c.Assert(r.State(), qt.Equals, StateRotating)
}

func TestCancelDuringRefreshSkipsErrorBoard(t *testing.T) {
	c := qt.New(t)
	var log []string
	ctx, cancel := context.WithCancel(context.Background())
	p := &scriptedProvider{log: &log, results: []error{nil, nil}}
	dc := newTestCache(c, p, 0, &testClock{})

	a := &fakeBoard{name: "a", log: &log, hook: cancel}
	errBoard := &fakeBoard{name: "error", log: &log}
	err := New(dc, []display.Board{a}, errBoard).Run(ctx)

	c.Assert(errors.Is(err, context.Canceled), qt.IsTrue)
	c.Assert(log, qt.DeepEquals, []string{"fetch", "render a", "fetch"})
	c.Assert(errBoard.snaps, qt.HasLen, 0)
}

func TestRenderFaultIsReturned(t *testing.T) {
	c := qt.New(t)
	var log []string
	dc := newTestCache(c, &scriptedProvider{log: &log, results: []error{nil}}, time.Hour, &testClock{})

	a := &fakeBoard{name: "a", log: &log, err: fmt.Errorf("show frame: %w", errors.New("gpio closed"))}
	errBoard := &fakeBoard{name: "error", log: &log}
	err := New(dc, []display.Board{a}, errBoard).Run(context.Background())

	c.Assert(err, qt.ErrorMatches, "render a: show frame: gpio closed")
	c.Assert(errors.Is(err, ErrTerminal), qt.IsFalse)
	c.Assert(errBoard.snaps, qt.HasLen, 0)
}

func TestRunWithoutBoards(t *testing.T) {
	c := qt.New(t)
	var log []string
	err := New(&fakeCache{}, nil, &fakeBoard{name: "error", log: &log}).Run(context.Background())
	c.Assert(err, qt.ErrorMatches, "no boards to show")
}

func TestStateString(t *testing.T) {
	c := qt.New(t)
	c.Assert(StateRotating.String(), qt.Equals, "ROTATING")
	c.Assert(StateError.String(), qt.Equals, "ERROR")
	c.Assert(State(9).String(), qt.Equals, "UNKNOWN")
}

// fakeCache never refreshes
type fakeCache struct{}

func (fakeCache) Status() cache.UpdateStatus      { return cache.StatusSuccess }
func (fakeCache) Snapshot() *types.Snapshot       { return nil }
func (fakeCache) ShouldUpdate() bool              { return false }
func (fakeCache) Refresh(_ context.Context) error { return nil }
