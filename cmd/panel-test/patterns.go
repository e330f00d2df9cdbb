package main

import (
	"image/color"

	"tinygo.org/x/tinyfont"

	"github.com/fkcurrie/f1-led-golang/internal/display"
)

const cellSize = 4

var yellow = color.RGBA{R: 255, G: 255, A: 255}

// drawPattern draws step n of the test pattern cycle: solid red, green and
// blue followed by a checkerboard.
func drawPattern(s display.Surface, n int) {
	s.Clear()
	w, h := s.Width(), s.Height()
	switch n % 4 {
	case 0:
		display.FillRect(s, 0, 0, w, h, color.RGBA{R: 255, A: 255})
	case 1:
		display.FillRect(s, 0, 0, w, h, color.RGBA{G: 255, A: 255})
	case 2:
		display.FillRect(s, 0, 0, w, h, color.RGBA{B: 255, A: 255})
	case 3:
		drawCheckerboard(s, n)
	}
}

// drawCheckerboard draws yellow cells; the phase flips every 8 steps
func drawCheckerboard(s display.Surface, offset int) {
	for y := 0; y < s.Height(); y++ {
		for x := 0; x < s.Width(); x++ {
			if (y/cellSize+x/cellSize+offset/8)%2 == 0 {
				s.SetPixel(x, y, yellow)
			}
		}
	}
}

// drawScroll draws text entering from the right edge, offset pixels into
// its journey across the surface
func drawScroll(s display.Surface, f tinyfont.Fonter, fontHeight int, text string, offset int, c color.RGBA) {
	s.Clear()
	width := display.TextWidth(f, text)
	x := s.Width() - offset%(width+s.Width())
	s.DrawText(f, x, display.CenterY(s.Height(), fontHeight), c, text)
}
