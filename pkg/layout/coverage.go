package layout

import "math"

// Coverage returns the summed ink area of every placement on c divided by
// the card's disc area. Overlapping ink is counted twice, so the ratio can
// exceed 1 for cards that also fail collision checks.
func Coverage(c *Card) float64 {
	if c.Radius() <= 0 {
		return 0
	}
	ink := 0
	for _, p := range c.placements {
		ink += p.Mask().Count()
	}
	return float64(ink) / (math.Pi * c.Radius() * c.Radius())
}
