package hub75

import "image"

// threshold is the channel value from which an LED is lit. The panel is
// driven with one bit per channel.
const threshold = 0x80

// frame holds one byte per data signal per column for every scan row:
// R1 G1 B1 for the upper half and R2 G2 B2 for the lower half.
type frame struct {
	rows [][]byte
}

func newFrame(width, scanRows int) *frame {
	f := &frame{rows: make([][]byte, scanRows)}
	for i := range f.rows {
		f.rows[i] = make([]byte, width*6)
	}
	return f
}

// encode converts img to the scan layout of a width x height panel. Pixels
// outside img stay off.
func encode(img *image.RGBA, width, height int) *frame {
	scan := height / 2
	f := newFrame(width, scan)
	for row := 0; row < scan; row++ {
		data := f.rows[row]
		for col := 0; col < width; col++ {
			idx := col * 6
			setBits(data[idx:idx+3], img, col, row)
			setBits(data[idx+3:idx+6], img, col, row+scan)
		}
	}
	return f
}

func setBits(dst []byte, img *image.RGBA, x, y int) {
	if img == nil || !image.Pt(x, y).In(img.Rect) {
		return
	}
	c := img.RGBAAt(x, y)
	dst[0] = bit(c.R)
	dst[1] = bit(c.G)
	dst[2] = bit(c.B)
}

func bit(v uint8) byte {
	if v >= threshold {
		return 1
	}
	return 0
}
