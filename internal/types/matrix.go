package types

import "image"

// Panel represents the physical display a rendered frame is pushed to
type Panel interface {
	// Show makes frame the visible image. The panel keeps its own copy.
	Show(frame *image.RGBA) error
	// Blank turns every pixel off
	Blank() error
	// Close releases the hardware
	Close() error
}
