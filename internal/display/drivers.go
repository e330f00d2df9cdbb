package display

import (
	"context"
	"strconv"

	"tinygo.org/x/tinyfont"

	"github.com/fkcurrie/f1-led-golang/internal/config"
	"github.com/fkcurrie/f1-led-golang/internal/types"
)

// DriverStandings shows the drivers' championship
type DriverStandings struct {
	pagedBoard
}

// NewDriverStandings creates the drivers board
func NewDriverStandings(s Surface, l *config.Layout, f tinyfont.Fonter, sleeper Sleeper) *DriverStandings {
	return &DriverStandings{pagedBoard{
		surface:     s,
		layout:      l,
		font:        f,
		sleeper:     sleeper,
		title:       "Drivers",
		headerBG:    Gray,
		headerFG:    White,
		placeholder: "No data",
		paging:      l.Drivers,
		rowOffset:   l.RowOffset(),
	}}
}

// Name implements Board
func (b *DriverStandings) Name() string { return BoardDrivers }

// Render implements Board
func (b *DriverStandings) Render(ctx context.Context, snap *types.Snapshot) error {
	var rows []types.DriverStanding
	if snap != nil {
		rows = snap.Drivers
	}
	return b.render(ctx, len(rows), func(i int, cur cursor) {
		b.drawRow(rows[i], cur)
	})
}

func (b *DriverStandings) drawRow(ds types.DriverStanding, cur cursor) {
	s, l, f := b.surface, b.layout, b.font
	colors := ds.Driver.Constructor.Colors

	fillBand(s, l.CodeX-1, s.Width(), cur.y, l.FontHeight, colors.Background)

	fillBand(s, 0, l.CodeX-2, cur.y, l.FontHeight, White)
	pos := strconv.Itoa(ds.Position)
	s.DrawText(f, AlignCenter(f, pos, l.RankCellWidth), cur.y, Black, pos)

	s.DrawText(f, l.CodeX, cur.y, colors.Text, ds.Driver.Code)

	points := FormatPoints(ds.Points)
	s.DrawText(f, AlignRight(f, points, s.Width()), cur.y, colors.Text, points)
}
