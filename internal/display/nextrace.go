package display

import (
	"context"
	"image/color"
	"strings"
	"time"

	"github.com/hako/durafmt"
	"tinygo.org/x/tinyfont"

	"github.com/fkcurrie/f1-led-golang/internal/config"
	"github.com/fkcurrie/f1-led-golang/internal/types"
)

// NextRace shows the upcoming grand prix with a countdown to lights out
type NextRace struct {
	pagedBoard
	now func() time.Time
}

// NewNextRace creates the next race board. now defaults to time.Now.
func NewNextRace(s Surface, l *config.Layout, f tinyfont.Fonter, sleeper Sleeper, now func() time.Time) *NextRace {
	if now == nil {
		now = time.Now
	}
	return &NextRace{
		pagedBoard: pagedBoard{
			surface:     s,
			layout:      l,
			font:        f,
			sleeper:     sleeper,
			title:       "Next Race",
			headerBG:    Red,
			headerFG:    White,
			placeholder: "TBA",
			paging:      l.NextRace,
			rowOffset:   l.RowOffset(),
		},
		now: now,
	}
}

// Name implements Board
func (b *NextRace) Name() string { return BoardNextRace }

// Render implements Board
func (b *NextRace) Render(ctx context.Context, snap *types.Snapshot) error {
	var race *types.Race
	if snap != nil {
		race = snap.NextRace
	}
	n := 0
	if race != nil {
		n = 1
	}
	return b.render(ctx, n, func(_ int, cur cursor) {
		b.drawRace(race, cur)
	})
}

func (b *NextRace) drawRace(race *types.Race, cur cursor) {
	s, f := b.surface, b.font
	lines := []struct {
		text string
		c    color.RGBA
	}{
		{ShortRaceName(race.Name), White},
		{race.Locality, White},
		{Countdown(race.Start.Sub(b.now())), Red},
	}
	for _, line := range lines {
		s.DrawText(f, AlignCenter(f, line.text, s.Width()), cur.y, line.c, line.text)
		cur = cur.next(b.rowOffset)
	}
}

// ShortRaceName drops the "Grand Prix" suffix, "Monaco Grand Prix" becomes
// "Monaco"
func ShortRaceName(name string) string {
	return strings.TrimSpace(strings.TrimSuffix(name, "Grand Prix"))
}

// Countdown formats the time left until the start of a race
func Countdown(d time.Duration) string {
	if d <= 0 {
		return "Underway"
	}
	if d < time.Minute {
		return "< 1 minute"
	}
	return durafmt.ParseShort(d.Truncate(time.Minute)).String()
}
