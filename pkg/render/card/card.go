// Package card draws a finished card layout as a raster image.
package card

import (
	"image"
	"image/color"
	"math"
	"math/rand/v2"

	"github.com/fogleman/gg"
	"golang.org/x/image/colornames"

	"github.com/gobblegen/gobble/pkg/layout"
)

// DefaultRimWidth is the rim thickness as a fraction of the card radius.
const DefaultRimWidth = 0.05

// Options controls card drawing.
type Options struct {
	// Rim colours the band around the card disc. Nil means black.
	Rim color.Color
	// RimWidth is the rim thickness as a fraction of the radius.
	// Zero means DefaultRimWidth.
	RimWidth float64
	// Background fills the square corners outside the rim. Nil means white.
	Background color.Color
}

// Size returns the side of the square image Draw produces for radius.
func Size(radius, rimWidth float64) int {
	if rimWidth == 0 {
		rimWidth = DefaultRimWidth
	}
	return 2 * int(math.Ceil(radius*(1+rimWidth)))
}

// Draw renders c: background, rim, white disc and then every symbol in
// placement order.
func Draw(c *layout.Card, opts Options) image.Image {
	if opts.RimWidth == 0 {
		opts.RimWidth = DefaultRimWidth
	}
	if opts.Rim == nil {
		opts.Rim = color.Black
	}
	if opts.Background == nil {
		opts.Background = color.White
	}

	R := c.Radius()
	size := Size(R, opts.RimWidth)
	centre := float64(size) / 2
	// Placements are in card coordinates, where the centre is (R, R).
	off := int(math.Round(centre - R))

	dc := gg.NewContext(size, size)
	dc.SetColor(opts.Background)
	dc.Clear()

	dc.DrawCircle(centre, centre, R*(1+opts.RimWidth))
	dc.SetColor(opts.Rim)
	dc.Fill()

	dc.DrawCircle(centre, centre, R)
	dc.SetColor(color.White)
	dc.Fill()

	for _, p := range c.Placements() {
		b := p.Bounds()
		if b.Empty() {
			continue
		}
		dc.DrawImage(p.Image(), b.Min.X+off, b.Min.Y+off)
	}
	return dc.Image()
}

// SavePNG draws c and writes it to path.
func SavePNG(path string, c *layout.Card, opts Options) error {
	return gg.SavePNG(path, Draw(c, opts))
}

// RimColor picks a named colour other than white.
func RimColor(rng *rand.Rand) (string, color.RGBA) {
	for {
		name := colornames.Names[rng.IntN(len(colornames.Names))]
		if name != "white" {
			return name, colornames.Map[name]
		}
	}
}
