package display

import (
	"context"
	"fmt"
	"image"

	"tinygo.org/x/tinyfont"

	"github.com/fkcurrie/f1-led-golang/internal/config"
	"github.com/fkcurrie/f1-led-golang/internal/types"
)

// ImageSurface is a Surface that can also blit images
type ImageSurface interface {
	Surface
	DrawImage(x, y int, img image.Image)
}

// Loading is the splash screen shown while the first fetch runs. It is
// published once and does not dwell.
type Loading struct {
	surface Surface
	layout  *config.Layout
	font    tinyfont.Fonter
	logo    image.Image
}

// NewLoading creates the splash board. logo may be nil.
func NewLoading(s Surface, l *config.Layout, f tinyfont.Fonter, logo image.Image) *Loading {
	return &Loading{surface: s, layout: l, font: f, logo: logo}
}

// Name implements Board
func (b *Loading) Name() string { return "loading" }

// Render implements Board
func (b *Loading) Render(ctx context.Context, _ *types.Snapshot) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s, l, f := b.surface, b.layout, b.font
	s.Clear()

	textY := s.Height() - 2
	is, canBlit := s.(ImageSurface)
	if canBlit && b.logo != nil && b.fits(textY) {
		w := b.logo.Bounds().Dx()
		is.DrawImage((s.Width()-w)/2, 1, b.logo)
	} else {
		s.DrawText(f, AlignCenter(f, "F1", s.Width()), CenterY(textY-l.FontHeight, l.FontHeight), Red, "F1")
	}
	s.DrawText(f, AlignCenter(f, "Loading", s.Width()), textY, White, "Loading")

	if err := s.Swap(); err != nil {
		return fmt.Errorf("loading: %w", err)
	}
	return nil
}

// fits reports whether the logo fits above the text line
func (b *Loading) fits(textY int) bool {
	r := b.logo.Bounds()
	return r.Dx() <= b.surface.Width() && r.Dy() <= textY-b.layout.FontHeight-2
}
