package display

import (
	"context"
	"errors"
	"fmt"
	"image/color"

	"tinygo.org/x/tinyfont"

	"github.com/fkcurrie/f1-led-golang/internal/config"
	"github.com/fkcurrie/f1-led-golang/internal/types"
)

// ErrUnknownBoard is returned for a board name NewBoards does not know
var ErrUnknownBoard = errors.New("unknown board")

// Board renders one full activation: every page of its content, each shown
// for its dwell. Render returns once the last dwell has passed.
type Board interface {
	Name() string
	Render(ctx context.Context, snap *types.Snapshot) error
}

// cursor is the baseline of the next row. It is passed by value so every
// activation starts from a fresh position.
type cursor struct {
	y int
}

func (c cursor) next(offset int) cursor {
	c.y += offset
	return c
}

// pagedBoard is the algorithm shared by the list boards: header once, then
// per page the rows, a swap and a dwell.
type pagedBoard struct {
	surface Surface
	layout  *config.Layout
	font    tinyfont.Fonter
	sleeper Sleeper

	title       string
	headerBG    color.RGBA
	headerFG    color.RGBA
	placeholder string
	paging      config.PagedLayout
	rowOffset   int
}

// render shows n items. drawRow draws item i at cur.
func (b *pagedBoard) render(ctx context.Context, n int, drawRow func(i int, cur cursor)) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	b.surface.Clear()
	b.drawHeader()

	if n == 0 {
		b.drawPlaceholder()
		return b.publish(ctx)
	}

	for pi, page := range PaginateFirst(n, b.paging.FirstPageSize, b.paging.PageSize) {
		cur := cursor{y: b.layout.FirstRowY}
		if pi > 0 {
			b.surface.Clear()
			cur.y = b.layout.TopY
		}
		for i := page.Start; i < page.End; i++ {
			drawRow(i, cur)
			cur = cur.next(b.rowOffset)
		}
		if err := b.publish(ctx); err != nil {
			return err
		}
	}
	return nil
}

// publish swaps the page in and holds it for the dwell
func (b *pagedBoard) publish(ctx context.Context) error {
	if err := b.surface.Swap(); err != nil {
		return fmt.Errorf("%s: %w", b.title, err)
	}
	return b.sleeper.Sleep(ctx, b.paging.Dwell)
}

func (b *pagedBoard) drawHeader() {
	drawHeader(b.surface, b.layout, b.font, b.title, b.headerBG, b.headerFG)
}

func (b *pagedBoard) drawPlaceholder() {
	drawCentered(b.surface, b.layout, b.font, b.placeholder, White)
}

// drawHeader draws the full width title band
func drawHeader(s Surface, l *config.Layout, f tinyfont.Fonter, title string, bg, fg color.RGBA) {
	fillBand(s, 0, s.Width(), l.HeaderY, l.FontHeight, bg)
	s.DrawText(f, AlignCenter(f, title, s.Width()), l.HeaderY, fg, title)
}

// drawCentered draws one line of text in the middle of the body below the
// header
func drawCentered(s Surface, l *config.Layout, f tinyfont.Fonter, text string, c color.RGBA) {
	top := l.HeaderY + 1
	y := top + CenterY(s.Height()-top, l.FontHeight)
	s.DrawText(f, AlignCenter(f, text, s.Width()), y, c, text)
}

// Board names accepted by NewBoards
const (
	BoardDrivers      = "drivers"
	BoardConstructors = "constructors"
	BoardQualifying   = "qualifying"
	BoardNextRace     = "next-race"
)

// NewBoards builds the named boards in the given order
func NewBoards(names []string, s Surface, l *config.Layout, f tinyfont.Fonter, sleeper Sleeper) ([]Board, error) {
	boards := make([]Board, 0, len(names))
	for _, name := range names {
		var b Board
		switch name {
		case BoardDrivers:
			b = NewDriverStandings(s, l, f, sleeper)
		case BoardConstructors:
			b = NewConstructorStandings(s, l, f, sleeper)
		case BoardQualifying:
			b = NewQualifying(s, l, f, sleeper)
		case BoardNextRace:
			b = NewNextRace(s, l, f, sleeper, nil)
		default:
			return nil, fmt.Errorf("%w: %q", ErrUnknownBoard, name)
		}
		boards = append(boards, b)
	}
	return boards, nil
}
