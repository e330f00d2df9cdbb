package ergast

import (
	"image/color"

	"github.com/fkcurrie/f1-led-golang/internal/types"
)

var (
	white = color.RGBA{R: 255, G: 255, B: 255, A: 255}
	black = color.RGBA{A: 255}
)

// DefaultTeamColors is used for constructors missing from the table
var DefaultTeamColors = types.TeamColors{
	Background: color.RGBA{R: 64, G: 64, B: 64, A: 255},
	Text:       white,
}

// teamColors is keyed by Ergast constructorId
var teamColors = map[string]types.TeamColors{
	"alpine":       {Background: color.RGBA{R: 0, G: 147, B: 204, A: 255}, Text: white},
	"aston_martin": {Background: color.RGBA{R: 0, G: 111, B: 98, A: 255}, Text: white},
	"audi":         {Background: color.RGBA{R: 187, G: 10, B: 48, A: 255}, Text: white},
	"cadillac":     {Background: color.RGBA{R: 180, G: 180, B: 180, A: 255}, Text: black},
	"ferrari":      {Background: color.RGBA{R: 220, G: 0, B: 0, A: 255}, Text: white},
	"haas":         {Background: color.RGBA{R: 182, G: 186, B: 189, A: 255}, Text: black},
	"mclaren":      {Background: color.RGBA{R: 255, G: 128, B: 0, A: 255}, Text: black},
	"mercedes":     {Background: color.RGBA{R: 0, G: 210, B: 190, A: 255}, Text: black},
	"rb":           {Background: color.RGBA{R: 102, G: 146, B: 255, A: 255}, Text: white},
	"red_bull":     {Background: color.RGBA{R: 30, G: 65, B: 255, A: 255}, Text: white},
	"sauber":       {Background: color.RGBA{R: 82, G: 226, B: 82, A: 255}, Text: black},
	"williams":     {Background: color.RGBA{R: 0, G: 90, B: 255, A: 255}, Text: white},
}

// TeamColorsFor returns the colours of a constructor
func TeamColorsFor(constructorID string) types.TeamColors {
	if c, ok := teamColors[constructorID]; ok {
		return c
	}
	return DefaultTeamColors
}
