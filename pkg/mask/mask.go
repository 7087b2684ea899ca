// Package mask implements bit-packed occupancy masks for pixel-exact overlap
// tests between rendered symbols.
//
// A [Mask] is a width×height binary grid stored as rows of 64-bit words. Bits
// past the mask width are always zero, which lets intersection tests compare
// whole words without trimming.
//
// Masks are built from the alpha channel of an image with [FromImage] and
// transformed (scaled, then rotated counter-clockwise) with [Mask.Transform],
// which resamples through the same imaging pipeline used to draw symbols so
// that what is tested is what gets printed.
//
//	m := mask.FromImage(img, 127)
//	t := m.Transform(0.6, 45)
//	if t.Intersects(other, dx, dy) {
//	    // symbols overlap
//	}
package mask

import (
	"image"
	"image/color"
	"math"
	"math/bits"
)

// DefaultThreshold is the alpha value a pixel must exceed to count as ink.
const DefaultThreshold uint8 = 127

// Mask is a fixed-size binary occupancy grid.
// The zero value is an empty 0×0 mask.
type Mask struct {
	w, h   int
	stride int // words per row
	bits   []uint64
}

// New returns an empty mask of the given size.
// Negative dimensions are treated as zero.
func New(w, h int) *Mask {
	w, h = max(w, 0), max(h, 0)
	if w == 0 || h == 0 {
		return &Mask{}
	}
	stride := (w + 63) / 64
	return &Mask{w: w, h: h, stride: stride, bits: make([]uint64, stride*h)}
}

// FromImage builds a mask with one bit per pixel of img, set where the pixel's
// alpha exceeds threshold. The mask origin is img.Bounds().Min.
func FromImage(img image.Image, threshold uint8) *Mask {
	b := img.Bounds()
	m := New(b.Dx(), b.Dy())
	if m.w == 0 {
		return m
	}

	switch src := img.(type) {
	case *image.NRGBA:
		for y := 0; y < m.h; y++ {
			row := src.Pix[y*src.Stride:]
			for x := 0; x < m.w; x++ {
				if row[x*4+3] > threshold {
					m.set(x, y)
				}
			}
		}
	case *image.Alpha:
		for y := 0; y < m.h; y++ {
			row := src.Pix[y*src.Stride:]
			for x := 0; x < m.w; x++ {
				if row[x] > threshold {
					m.set(x, y)
				}
			}
		}
	default:
		for y := 0; y < m.h; y++ {
			for x := 0; x < m.w; x++ {
				if _, _, _, a := img.At(b.Min.X+x, b.Min.Y+y).RGBA(); a>>8 > uint32(threshold) {
					m.set(x, y)
				}
			}
		}
	}
	return m
}

// Width returns the mask width in pixels.
func (m *Mask) Width() int { return m.w }

// Height returns the mask height in pixels.
func (m *Mask) Height() int { return m.h }

// Bounds returns the mask rectangle anchored at the origin.
func (m *Mask) Bounds() image.Rectangle { return image.Rect(0, 0, m.w, m.h) }

// Get reports whether the pixel at (x, y) is set.
// Coordinates outside the mask are never set.
func (m *Mask) Get(x, y int) bool {
	if x < 0 || y < 0 || x >= m.w || y >= m.h {
		return false
	}
	return m.bits[y*m.stride+x/64]&(1<<uint(x%64)) != 0
}

// Set sets or clears the pixel at (x, y). Out-of-range coordinates are ignored.
func (m *Mask) Set(x, y int, on bool) {
	if x < 0 || y < 0 || x >= m.w || y >= m.h {
		return
	}
	if on {
		m.set(x, y)
		return
	}
	m.bits[y*m.stride+x/64] &^= 1 << uint(x%64)
}

func (m *Mask) set(x, y int) {
	m.bits[y*m.stride+x/64] |= 1 << uint(x%64)
}

// Count returns the number of set pixels.
func (m *Mask) Count() int {
	n := 0
	for _, w := range m.bits {
		n += bits.OnesCount64(w)
	}
	return n
}

// Intersects reports whether any set pixel of m coincides with a set pixel of
// o when o's origin is placed at (dx, dy) in m's coordinates.
// The cost is proportional to the overlapping area, not to either mask size.
func (m *Mask) Intersects(o *Mask, dx, dy int) bool {
	y0, y1 := max(0, dy), min(m.h, dy+o.h)
	x0, x1 := max(0, dx), min(m.w, dx+o.w)
	if y0 >= y1 || x0 >= x1 {
		return false
	}
	for y := y0; y < y1; y++ {
		row := m.bits[y*m.stride : (y+1)*m.stride]
		for wi := x0 / 64; wi*64 < x1; wi++ {
			if row[wi]&o.bitsAt(y-dy, wi*64-dx) != 0 {
				return true
			}
		}
	}
	return false
}

// Overlap returns the number of pixels set in both m and o, with o's origin
// at (dx, dy) in m's coordinates.
func (m *Mask) Overlap(o *Mask, dx, dy int) int {
	y0, y1 := max(0, dy), min(m.h, dy+o.h)
	x0, x1 := max(0, dx), min(m.w, dx+o.w)
	if y0 >= y1 || x0 >= x1 {
		return 0
	}
	n := 0
	for y := y0; y < y1; y++ {
		row := m.bits[y*m.stride : (y+1)*m.stride]
		for wi := x0 / 64; wi*64 < x1; wi++ {
			n += bits.OnesCount64(row[wi] & o.bitsAt(y-dy, wi*64-dx))
		}
	}
	return n
}

// bitsAt returns 64 pixels of row y starting at column start, with bit i of
// the result holding column start+i. Columns outside the mask read as zero.
func (m *Mask) bitsAt(y, start int) uint64 {
	if start <= -64 || start >= m.w {
		return 0
	}
	if start < 0 {
		return m.bitsAt(y, 0) << uint(-start)
	}
	row := m.bits[y*m.stride : (y+1)*m.stride]
	wi, off := start/64, uint(start%64)
	v := row[wi] >> off
	if off != 0 && wi+1 < len(row) {
		v |= row[wi+1] << (64 - off)
	}
	return v
}

// AnyOutside reports whether any set pixel lies outside r, given in mask
// coordinates.
func (m *Mask) AnyOutside(r image.Rectangle) bool {
	if r.Min.X <= 0 && r.Min.Y <= 0 && r.Max.X >= m.w && r.Max.Y >= m.h {
		return false
	}
	for y := 0; y < m.h; y++ {
		if y < r.Min.Y || y >= r.Max.Y {
			for _, w := range m.bits[y*m.stride : (y+1)*m.stride] {
				if w != 0 {
					return true
				}
			}
			continue
		}
		for x := 0; x < min(r.Min.X, m.w); x++ {
			if m.Get(x, y) {
				return true
			}
		}
		for x := max(r.Max.X, 0); x < m.w; x++ {
			if m.Get(x, y) {
				return true
			}
		}
	}
	return false
}

// Alpha renders the mask as an alpha image: opaque where set, transparent elsewhere.
func (m *Mask) Alpha() *image.Alpha {
	img := image.NewAlpha(image.Rect(0, 0, m.w, m.h))
	for y := 0; y < m.h; y++ {
		for x := 0; x < m.w; x++ {
			if m.Get(x, y) {
				img.SetAlpha(x, y, color.Alpha{A: 0xff})
			}
		}
	}
	return img
}

// Transform returns a new mask scaled by scale and then rotated
// counter-clockwise by degrees. The result is sized to the rotated bounds.
// A scale that shrinks either side below one pixel yields an empty mask.
//
// The source alpha threshold is not involved: the binary mask itself is
// resampled and a pixel is set when more than half of it is covered
// (DefaultThreshold of the resampled coverage).
func (m *Mask) Transform(scale float64, degrees int) *Mask {
	if m.w == 0 {
		return &Mask{}
	}
	if scale == 1 && degrees%360 == 0 {
		return m.Clone()
	}
	return FromImage(TransformImage(m.Alpha(), scale, degrees), DefaultThreshold)
}

// Clone returns a deep copy of m.
func (m *Mask) Clone() *Mask {
	c := *m
	c.bits = append([]uint64(nil), m.bits...)
	return &c
}

// Ring returns a size×size mask with every pixel set whose centre lies
// farther than radius from the mask centre. Used as the exclusion zone
// around a circular card.
func Ring(size int, radius float64) *Mask {
	m := New(size, size)
	c := float64(size) / 2
	r2 := radius * radius
	for y := 0; y < size; y++ {
		dy := float64(y) + 0.5 - c
		for x := 0; x < size; x++ {
			dx := float64(x) + 0.5 - c
			if dx*dx+dy*dy > r2 {
				m.set(x, y)
			}
		}
	}
	return m
}

// ScaledSize returns the pixel dimensions of a w×h raster scaled by scale.
// Either dimension rounding below one pixel collapses the result to 0×0.
func ScaledSize(w, h int, scale float64) (int, int) {
	sw := int(math.Round(float64(w) * scale))
	sh := int(math.Round(float64(h) * scale))
	if sw < 1 || sh < 1 {
		return 0, 0
	}
	return sw, sh
}
