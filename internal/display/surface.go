// Package display renders the standings boards onto a double-buffered pixel
// surface.
package display

import (
	"image/color"

	"tinygo.org/x/tinyfont"
)

// Surface is a drawable back buffer with an atomic swap to the visible
// front buffer. Coordinates outside the surface are clipped.
type Surface interface {
	Width() int
	Height() int
	// Clear blanks the back buffer
	Clear()
	// DrawText draws s with its baseline at y
	DrawText(f tinyfont.Fonter, x, y int, c color.RGBA, s string)
	DrawLine(x1, y1, x2, y2 int, c color.RGBA)
	SetPixel(x, y int, c color.RGBA)
	// Swap publishes the back buffer. The previous front buffer becomes the
	// next back buffer; its content is stale until cleared.
	Swap() error
}

// Colours shared by every board
var (
	White = color.RGBA{R: 255, G: 255, B: 255, A: 255}
	Black = color.RGBA{A: 255}
	Red   = color.RGBA{R: 225, G: 6, B: 0, A: 255}
	Gray  = color.RGBA{R: 64, G: 64, B: 64, A: 255}
)

// FillRect fills the w by h rectangle with its top left corner at x, y
func FillRect(s Surface, x, y, w, h int, c color.RGBA) {
	for dy := 0; dy < h; dy++ {
		s.DrawLine(x, y+dy, x+w-1, y+dy, c)
	}
}

// fillBand fills the text band of a row whose baseline is at y, from x0 up
// to but not including x1
func fillBand(s Surface, x0, x1, y, fontHeight int, c color.RGBA) {
	FillRect(s, x0, y-fontHeight, x1-x0, fontHeight+1, c)
}
