// Package assets holds the artwork embedded in the binary.
package assets

import (
	"bytes"
	_ "embed"
	"fmt"
	"image"

	"github.com/srwiley/oksvg"
	"github.com/srwiley/rasterx"
)

//go:embed logo.svg
var logoSVG []byte

// Logo rasterises the splash logo at the largest size that fits in
// maxWidth by maxHeight while keeping its aspect ratio
func Logo(maxWidth, maxHeight int) (*image.RGBA, error) {
	return Rasterize(logoSVG, maxWidth, maxHeight)
}

// Rasterize renders an SVG document to fit in maxWidth by maxHeight
func Rasterize(svg []byte, maxWidth, maxHeight int) (*image.RGBA, error) {
	icon, err := oksvg.ReadIconStream(bytes.NewReader(svg))
	if err != nil {
		return nil, fmt.Errorf("parse svg: %w", err)
	}
	vw, vh := icon.ViewBox.W, icon.ViewBox.H
	if vw <= 0 || vh <= 0 {
		return nil, fmt.Errorf("svg has an empty view box")
	}

	scale := min(float64(maxWidth)/vw, float64(maxHeight)/vh)
	w, h := int(vw*scale), int(vh*scale)
	if w <= 0 || h <= 0 {
		return nil, fmt.Errorf("%dx%d is too small for the image", maxWidth, maxHeight)
	}

	img := image.NewRGBA(image.Rect(0, 0, w, h))
	icon.SetTarget(0, 0, float64(w), float64(h))
	scanner := rasterx.NewScannerGV(w, h, img, img.Bounds())
	dasher := rasterx.NewDasher(w, h, scanner)
	icon.Draw(dasher, 1.0)
	return img, nil
}
