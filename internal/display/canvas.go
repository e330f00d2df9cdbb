package display

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"sync"

	"tinygo.org/x/tinyfont"
)

// Sink receives every frame published by a Canvas
type Sink interface {
	Show(frame *image.RGBA) error
}

// Canvas is an in-memory Surface with a back and a front buffer. Drawing
// goes to the back buffer and must happen on one goroutine; Front may be
// called from anywhere.
type Canvas struct {
	width  int
	height int
	sink   Sink

	back *image.RGBA

	mu    sync.RWMutex
	front *image.RGBA
	swaps int
}

// NewCanvas creates a blank canvas. sink may be nil.
func NewCanvas(width, height int, sink Sink) *Canvas {
	r := image.Rect(0, 0, width, height)
	c := &Canvas{
		width:  width,
		height: height,
		sink:   sink,
		back:   image.NewRGBA(r),
		front:  image.NewRGBA(r),
	}
	c.Clear()
	c.mu.Lock()
	draw.Draw(c.front, r, image.NewUniform(Black), image.Point{}, draw.Src)
	c.mu.Unlock()
	return c
}

// Width returns the width in pixels
func (c *Canvas) Width() int { return c.width }

// Height returns the height in pixels
func (c *Canvas) Height() int { return c.height }

// Clear blanks the back buffer
func (c *Canvas) Clear() {
	draw.Draw(c.back, c.back.Bounds(), image.NewUniform(Black), image.Point{}, draw.Src)
}

// SetPixel sets one pixel of the back buffer
func (c *Canvas) SetPixel(x, y int, clr color.RGBA) {
	if x < 0 || y < 0 || x >= c.width || y >= c.height {
		return
	}
	c.back.SetRGBA(x, y, clr)
}

// DrawLine draws a line between two points using Bresenham's algorithm
func (c *Canvas) DrawLine(x0, y0, x1, y1 int, clr color.RGBA) {
	dx := abs(x1 - x0)
	dy := abs(y1 - y0)
	sx := -1
	if x0 < x1 {
		sx = 1
	}
	sy := -1
	if y0 < y1 {
		sy = 1
	}
	err := dx - dy

	for {
		c.SetPixel(x0, y0, clr)
		if x0 == x1 && y0 == y1 {
			break
		}
		e2 := 2 * err
		if e2 > -dy {
			err -= dy
			x0 += sx
		}
		if e2 < dx {
			err += dx
			y0 += sy
		}
	}
}

// DrawText draws s with its baseline at y
func (c *Canvas) DrawText(f tinyfont.Fonter, x, y int, clr color.RGBA, s string) {
	tinyfont.WriteLine(textTarget{c}, f, int16(x), int16(y), s, clr)
}

// DrawImage copies img onto the back buffer with its top left corner at x, y.
// Pixels with less than half opacity are skipped.
func (c *Canvas) DrawImage(x, y int, img image.Image) {
	b := img.Bounds()
	for py := b.Min.Y; py < b.Max.Y; py++ {
		for px := b.Min.X; px < b.Max.X; px++ {
			clr := color.RGBAModel.Convert(img.At(px, py)).(color.RGBA)
			if clr.A < 0x80 {
				continue
			}
			c.SetPixel(x+px-b.Min.X, y+py-b.Min.Y, clr)
		}
	}
}

// Swap exchanges the buffers and hands the new front buffer to the sink
func (c *Canvas) Swap() error {
	c.mu.Lock()
	c.back, c.front = c.front, c.back
	c.swaps++
	front := c.front
	c.mu.Unlock()

	if c.sink == nil {
		return nil
	}
	if err := c.sink.Show(front); err != nil {
		return fmt.Errorf("show frame: %w", err)
	}
	return nil
}

// Front returns a copy of the visible frame
func (c *Canvas) Front() *image.RGBA {
	c.mu.RLock()
	defer c.mu.RUnlock()
	img := image.NewRGBA(c.front.Bounds())
	copy(img.Pix, c.front.Pix)
	return img
}

// SwapCount returns the number of frames published so far
func (c *Canvas) SwapCount() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.swaps
}

// textTarget adapts the canvas to the tinyfont display interface
type textTarget struct {
	c *Canvas
}

func (t textTarget) Size() (x, y int16) {
	return int16(t.c.width), int16(t.c.height)
}

func (t textTarget) SetPixel(x, y int16, clr color.RGBA) {
	t.c.SetPixel(int(x), int(y), clr)
}

func (t textTarget) Display() error { return nil }

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
