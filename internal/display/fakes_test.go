package display

import (
	"context"
	"fmt"
	"image/color"
	"time"

	"tinygo.org/x/tinyfont"

	"github.com/fkcurrie/f1-led-golang/internal/config"
	"github.com/fkcurrie/f1-led-golang/internal/types"
)

// op is one recorded drawing call
type op struct {
	Kind string
	X, Y int
	Text string
	C    color.RGBA
}

// recorder is a Surface that records every call
type recorder struct {
	w, h    int
	ops     []op
	swapErr error
}

func newRecorder() *recorder { return &recorder{w: 64, h: 32} }

func (r *recorder) Width() int  { return r.w }
func (r *recorder) Height() int { return r.h }
func (r *recorder) Clear()      { r.ops = append(r.ops, op{Kind: "clear"}) }

func (r *recorder) DrawText(_ tinyfont.Fonter, x, y int, c color.RGBA, s string) {
	r.ops = append(r.ops, op{Kind: "text", X: x, Y: y, Text: s, C: c})
}

func (r *recorder) DrawLine(x1, y1, _, _ int, c color.RGBA) {
	r.ops = append(r.ops, op{Kind: "line", X: x1, Y: y1, C: c})
}

func (r *recorder) SetPixel(x, y int, c color.RGBA) {
	r.ops = append(r.ops, op{Kind: "pixel", X: x, Y: y, C: c})
}

func (r *recorder) Swap() error {
	r.ops = append(r.ops, op{Kind: "swap"})
	return r.swapErr
}

func (r *recorder) count(kind string) int {
	n := 0
	for _, o := range r.ops {
		if o.Kind == kind {
			n++
		}
	}
	return n
}

// pages returns the text drawn between swaps, one slice per published frame
func (r *recorder) pages() [][]op {
	var (
		pages [][]op
		cur   []op
	)
	for _, o := range r.ops {
		switch o.Kind {
		case "text":
			cur = append(cur, o)
		case "swap":
			pages = append(pages, cur)
			cur = nil
		}
	}
	return pages
}

func texts(ops []op) []string {
	var out []string
	for _, o := range ops {
		out = append(out, o.Text)
	}
	return out
}

// fakeSleeper records dwells instead of sleeping
type fakeSleeper struct {
	dwells []time.Duration
	// failAt makes the n-th call (1-based) return err
	failAt int
	err    error
	// onSleep, if set, runs before each dwell returns
	onSleep func()
}

func (s *fakeSleeper) Sleep(ctx context.Context, d time.Duration) error {
	s.dwells = append(s.dwells, d)
	if s.onSleep != nil {
		s.onSleep()
	}
	if s.failAt > 0 && len(s.dwells) == s.failAt {
		return s.err
	}
	return ctx.Err()
}

func testLayout() *config.Layout {
	l := config.DefaultLayout()
	return &l
}

var testFont tinyfont.Fonter = &tinyfont.TomThumb

func driverSnapshot(n int) *types.Snapshot {
	snap := &types.Snapshot{}
	for i := 0; i < n; i++ {
		snap.Drivers = append(snap.Drivers, types.DriverStanding{
			Position: i + 1,
			Points:   float64(100 - i*5),
			Driver: types.Driver{
				Code:        fmt.Sprintf("D%02d", i+1),
				Constructor: types.Constructor{Colors: types.TeamColors{Background: Red, Text: White}},
			},
		})
	}
	return snap
}
