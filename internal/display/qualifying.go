package display

import (
	"context"
	"strconv"

	"tinygo.org/x/tinyfont"

	"github.com/fkcurrie/f1-led-golang/internal/config"
	"github.com/fkcurrie/f1-led-golang/internal/types"
)

// Qualifying shows the starting grid of the upcoming race in two staggered
// columns, odd positions on one side and even positions on the other
type Qualifying struct {
	pagedBoard
}

// NewQualifying creates the qualifying board
func NewQualifying(s Surface, l *config.Layout, f tinyfont.Fonter, sleeper Sleeper) *Qualifying {
	return &Qualifying{pagedBoard{
		surface:     s,
		layout:      l,
		font:        f,
		sleeper:     sleeper,
		title:       "Qualifying",
		headerBG:    Red,
		headerFG:    White,
		placeholder: "Upcoming",
		paging:      l.Qualifying.PagedLayout,
		rowOffset:   l.Qualifying.RowOffset,
	}}
}

// Name implements Board
func (b *Qualifying) Name() string { return BoardQualifying }

// Render implements Board. Without qualifying results only the placeholder
// is shown.
func (b *Qualifying) Render(ctx context.Context, snap *types.Snapshot) error {
	var grid []types.GridSlot
	if snap != nil && snap.Qualifying != nil {
		grid = snap.Qualifying.Grid
	}
	return b.render(ctx, len(grid), func(i int, cur cursor) {
		b.drawRow(grid[i], cur)
	})
}

// column returns the x-coordinates used by the row of a grid position
func (b *Qualifying) column(position int) config.GridColumn {
	if position%2 == 0 {
		return b.layout.Qualifying.Even
	}
	return b.layout.Qualifying.Odd
}

func (b *Qualifying) drawRow(slot types.GridSlot, cur cursor) {
	s, l, f := b.surface, b.layout, b.font
	col := b.column(slot.Position)
	colors := slot.Driver.Constructor.Colors

	fillBand(s, col.CodeX-1, col.CodeX+l.Qualifying.CodeWidth, cur.y, l.FontHeight, colors.Background)
	s.DrawText(f, col.CodeX, cur.y, colors.Text, slot.Driver.Code)

	fillBand(s, col.PositionX, col.CodeX-1, cur.y, l.FontHeight, White)
	pos := strconv.Itoa(slot.Position)
	s.DrawText(f, col.PositionX+AlignCenter(f, pos, l.RankCellWidth), cur.y, Black, pos)
}
