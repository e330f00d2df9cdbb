package display

import (
	"strconv"

	"tinygo.org/x/tinyfont"
)

// TextWidth returns the advance width of s in pixels
func TextWidth(f tinyfont.Fonter, s string) int {
	_, outbox := tinyfont.LineWidth(f, s)
	return int(outbox)
}

// AlignRight returns the x-coordinate that makes s end at width
func AlignRight(f tinyfont.Fonter, s string, width int) int {
	return width - TextWidth(f, s)
}

// AlignCenter returns the x-coordinate that centres s in width
func AlignCenter(f tinyfont.Fonter, s string, width int) int {
	return (width - TextWidth(f, s)) / 2
}

// CenterY returns the baseline that centres one line of text vertically
func CenterY(height, fontHeight int) int {
	return (height + fontHeight) / 2
}

// FormatPoints formats a points total without insignificant trailing
// zeros: 25 renders as "25", 12.5 as "12.5".
func FormatPoints(p float64) string {
	if p == 0 {
		// avoids "-0"
		return "0"
	}
	return strconv.FormatFloat(p, 'f', -1, 64)
}
