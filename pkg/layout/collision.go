package layout

import (
	"image"
	"math"

	"github.com/gobblegen/gobble/pkg/mask"
)

// Report is the outcome of one collision evaluation.
type Report struct {
	// Collisions maps each placement index to the indices of the placements
	// it overlaps, in ascending order. Every index has an entry.
	Collisions map[int][]int
	// Boundary lists the placements with ink outside the card circle.
	Boundary []int
}

// HasCollisions reports whether any two placements overlap.
func (r Report) HasCollisions() bool {
	for _, hits := range r.Collisions {
		if len(hits) > 0 {
			return true
		}
	}
	return false
}

// Valid reports whether the card has neither overlaps nor boundary
// violations.
func (r Report) Valid() bool {
	return !r.HasCollisions() && len(r.Boundary) == 0
}

// CollisionEvaluator tests placements against each other and against the
// card edge using their pixel masks.
type CollisionEvaluator struct {
	ring *mask.Mask
	// frame is the ring mask's position in card coordinates.
	frame image.Rectangle
}

// NewCollisionEvaluator builds the exclusion ring for a card of the given
// radius. The ring covers everything outside the card circle up to
// radius·(1+margin); ink beyond the ring's square frame also counts as a
// violation.
func NewCollisionEvaluator(radius, margin float64) *CollisionEvaluator {
	half := int(math.Ceil(radius * (1 + margin)))
	c := int(math.Round(radius))
	frame := image.Rect(c-half, c-half, c+half, c+half)

	return &CollisionEvaluator{
		ring:  mask.Ring(2*half, radius),
		frame: frame,
	}
}

// Evaluate tests every pair of placements on c and every placement against
// the card edge. The overlap map is also cached on the card.
func (e *CollisionEvaluator) Evaluate(c *Card) Report {
	n := c.Len()
	rep := Report{Collisions: make(map[int][]int, n)}
	for i := range n {
		rep.Collisions[i] = []int{}
	}

	for i := range n {
		a := c.At(i)
		for j := i + 1; j < n; j++ {
			b := c.At(j)
			if overlaps(a, b) {
				rep.Collisions[i] = append(rep.Collisions[i], j)
				rep.Collisions[j] = append(rep.Collisions[j], i)
			}
		}
		if e.outside(a) {
			rep.Boundary = append(rep.Boundary, i)
		}
	}
	// Lists are filled in ascending order, no sort needed.

	c.collisions = rep.Collisions
	return rep
}

func overlaps(a, b *Placement) bool {
	ab, bb := a.Bounds(), b.Bounds()
	if !ab.Overlaps(bb) {
		return false
	}
	d := bb.Min.Sub(ab.Min)
	return a.Mask().Intersects(b.Mask(), d.X, d.Y)
}

func (e *CollisionEvaluator) outside(p *Placement) bool {
	pb := p.Bounds()
	if p.Mask().AnyOutside(e.frame.Sub(pb.Min)) {
		return true
	}
	d := pb.Min.Sub(e.frame.Min)
	return e.ring.Intersects(p.Mask(), d.X, d.Y)
}
