package display

import (
	"context"

	"tinygo.org/x/tinyfont"

	"github.com/fkcurrie/f1-led-golang/internal/config"
	"github.com/fkcurrie/f1-led-golang/internal/types"
)

// ConstructorStandings shows the constructors' championship
type ConstructorStandings struct {
	pagedBoard
}

// NewConstructorStandings creates the constructors board
func NewConstructorStandings(s Surface, l *config.Layout, f tinyfont.Fonter, sleeper Sleeper) *ConstructorStandings {
	return &ConstructorStandings{pagedBoard{
		surface:     s,
		layout:      l,
		font:        f,
		sleeper:     sleeper,
		title:       "Constructors",
		headerBG:    Gray,
		headerFG:    White,
		placeholder: "No data",
		paging:      l.Constructors,
		rowOffset:   l.RowOffset(),
	}}
}

// Name implements Board
func (b *ConstructorStandings) Name() string { return BoardConstructors }

// Render implements Board
func (b *ConstructorStandings) Render(ctx context.Context, snap *types.Snapshot) error {
	var rows []types.ConstructorStanding
	if snap != nil {
		rows = snap.Constructors
	}
	return b.render(ctx, len(rows), func(i int, cur cursor) {
		b.drawRow(rows[i], cur)
	})
}

func (b *ConstructorStandings) drawRow(cs types.ConstructorStanding, cur cursor) {
	s, l, f := b.surface, b.layout, b.font
	colors := cs.Constructor.Colors

	fillBand(s, 0, s.Width(), cur.y, l.FontHeight, colors.Background)
	s.DrawText(f, l.NameX, cur.y, colors.Text, cs.Constructor.Name)

	points := FormatPoints(cs.Points)
	s.DrawText(f, AlignRight(f, points, s.Width()), cur.y, colors.Text, points)
}
