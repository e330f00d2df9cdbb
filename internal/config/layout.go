package config

import (
	"fmt"
	"time"
)

// Layout is the resolved coordinate table shared by every board. It is built
// once at startup and only ever read afterwards.
type Layout struct {
	Font       string
	FontHeight int
	LineGap    int

	// HeaderY is the baseline of the header title; the header band spans
	// FontHeight pixels above it.
	HeaderY   int
	// FirstRowY is the baseline of the first row on a board's first page,
	// just below the header.
	FirstRowY int
	// TopY is the baseline of the first row on every later page.
	TopY      int

	RankCellWidth int
	CodeX         int
	NameX         int

	Drivers      PagedLayout
	Constructors PagedLayout
	Qualifying   GridLayout
	NextRace     PagedLayout

	ErrorDwell time.Duration
}

// PagedLayout holds the paging parameters of a list board
type PagedLayout struct {
	// FirstPageSize is the number of rows on the page under the header.
	// Zero means PageSize.
	FirstPageSize int
	PageSize      int
	Dwell         time.Duration
}

// GridLayout holds the two-column starting grid parameters
type GridLayout struct {
	PagedLayout
	RowOffset int
	CodeWidth int
	Odd       GridColumn
	Even      GridColumn
}

// GridColumn holds the x-coordinates used by rows of one rank parity
type GridColumn struct {
	PositionX int
	CodeX     int
}

// DefaultLayout returns the layout for a 64x32 panel and the Tom Thumb font
func DefaultLayout() Layout {
	return Layout{
		Font:          "tom-thumb",
		FontHeight:    6,
		LineGap:       2,
		HeaderY:       6,
		FirstRowY:     14,
		TopY:          6,
		RankCellWidth: 12,
		CodeX:         15,
		NameX:         1,
		Drivers:       PagedLayout{PageSize: 3, Dwell: 5 * time.Second},
		Constructors:  PagedLayout{PageSize: 3, Dwell: 5 * time.Second},
		Qualifying: GridLayout{
			PagedLayout: PagedLayout{PageSize: 5, Dwell: 7 * time.Second},
			RowOffset:   4,
			CodeWidth:   20,
			Odd:         GridColumn{PositionX: 0, CodeX: 13},
			Even:        GridColumn{PositionX: 30, CodeX: 43},
		},
		NextRace:   PagedLayout{PageSize: 1, Dwell: 7 * time.Second},
		ErrorDwell: 10 * time.Second,
	}
}

// RowOffset is the vertical distance between two list rows
func (l *Layout) RowOffset() int {
	return l.FontHeight + l.LineGap
}

func (l *Layout) validate() error {
	if l.FontHeight <= 0 {
		return fmt.Errorf("%w: font height must be positive", ErrInvalid)
	}
	for name, p := range map[string]PagedLayout{
		"drivers":      l.Drivers,
		"constructors": l.Constructors,
		"qualifying":   l.Qualifying.PagedLayout,
		"next-race":    l.NextRace,
	} {
		if p.PageSize <= 0 {
			return fmt.Errorf("%w: %s page size must be positive", ErrInvalid, name)
		}
		if p.FirstPageSize < 0 {
			return fmt.Errorf("%w: %s first page size must not be negative", ErrInvalid, name)
		}
		if p.Dwell < 0 {
			return fmt.Errorf("%w: %s dwell must not be negative", ErrInvalid, name)
		}
	}
	if l.Qualifying.RowOffset <= 0 {
		return fmt.Errorf("%w: qualifying row offset must be positive", ErrInvalid)
	}
	return nil
}
