package layout

import (
	"image"
	"math"

	"github.com/gobblegen/gobble/pkg/assets"
	"github.com/gobblegen/gobble/pkg/mask"
)

// Transform places a symbol on a card.
type Transform struct {
	// X and Y locate the symbol centre in card pixels, origin at the top-left
	// of the card's 2R×2R bounding box.
	X, Y float64
	// Rotation is counter-clockwise, in degrees within [0, 360).
	Rotation int
	// Scale multiplies the asset image size. It already includes the asset's
	// own normalisation scale.
	Scale float64
}

// Placement is one symbol at a fixed transform. Its mask and bounds are
// derived at construction and never change: changing any transform field
// means building a new Placement.
type Placement struct {
	asset *assets.Asset
	t     Transform
	class SizeClass
	ring  Ring
	// radial is the distance from the card centre drawn for the home position.
	radial float64

	mask   *mask.Mask
	bounds image.Rectangle
}

// NewPlacement places asset at t.
func NewPlacement(asset *assets.Asset, t Transform) *Placement {
	return newPlacement(asset, t, Big, Inner, 0)
}

func newPlacement(asset *assets.Asset, t Transform, class SizeClass, ring Ring, radial float64) *Placement {
	m := asset.Mask.Transform(t.Scale, t.Rotation)
	minX := int(math.Round(t.X - float64(m.Width())/2))
	minY := int(math.Round(t.Y - float64(m.Height())/2))
	return &Placement{
		asset:  asset,
		t:      t,
		class:  class,
		ring:   ring,
		radial: radial,
		mask:   m,
		bounds: image.Rect(minX, minY, minX+m.Width(), minY+m.Height()),
	}
}

// neutral places asset at the card centre, unrotated, at its natural scale.
func neutral(asset *assets.Asset, radius float64) *Placement {
	return NewPlacement(asset, Transform{X: radius, Y: radius, Scale: asset.Scale})
}

// WithTransform returns a placement of the same symbol at t, keeping its size
// class and ring.
func (p *Placement) WithTransform(t Transform) *Placement {
	return newPlacement(p.asset, t, p.class, p.ring, p.radial)
}

func (p *Placement) Asset() *assets.Asset { return p.asset }
func (p *Placement) Name() string { return p.asset.Name }
func (p *Placement) Transform() Transform { return p.t }
func (p *Placement) SizeClass() SizeClass { return p.class }
func (p *Placement) Ring() Ring { return p.ring }
func (p *Placement) Radial() float64 { return p.radial }
func (p *Placement) Mask() *mask.Mask { return p.mask }
func (p *Placement) Bounds() image.Rectangle { return p.bounds }

// Image renders the transformed symbol. Its size equals Bounds().Size().
func (p *Placement) Image() *image.NRGBA {
	return mask.TransformImage(p.asset.Image, p.t.Scale, p.t.Rotation)
}
