package layout

import (
	"math"
	"math/rand/v2"
)

// Generator draws candidate arrangements for a card.
type Generator struct {
	cfg Config
	rng *rand.Rand
}

// NewGenerator returns a generator using cfg and the random source rng.
// cfg must be valid.
func NewGenerator(cfg Config, rng *rand.Rand) *Generator {
	return &Generator{cfg: cfg, rng: rng}
}

// Regenerate replaces every placement on c with a fresh random one. Only the
// symbols are kept; all previous geometry is discarded.
//
// Each call assigns size classes so that every class is used at least once,
// picks an arrangement template and spreads each ring's symbols at even
// angles with a little radial and angular noise.
func (g *Generator) Regenerate(c *Card) {
	n := c.Len()
	classes := g.sizeClasses(n)
	rings := g.rings()

	var total, seen [2]int
	for _, r := range rings {
		total[r]++
	}

	R := g.cfg.Radius
	for i := range n {
		ring := rings[i]
		lo, hi := 0.0, R*g.cfg.RingBoundary
		if ring == Outer {
			lo, hi = hi, R*g.cfg.OuterLimit
		}
		r := lo + g.rng.Float64()*(hi-lo)

		k, count := seen[ring], total[ring]
		seen[ring]++
		home, spread := 360.0, 90
		if count > 0 {
			home = 360 * float64(k) / float64(count)
			spread = int(360 / float64(count) / 4)
		}
		theta := (home + float64(g.rng.IntN(2*spread+1)-spread)) * math.Pi / 180

		class := classes[i]
		b := g.cfg.SizeClasses.For(class)
		scale := b.Min + g.rng.Float64()*(b.Max-b.Min)

		asset := c.At(i).Asset()
		c.ReplaceAt(i, newPlacement(asset, Transform{
			X:        R + r*math.Cos(theta),
			Y:        R + r*math.Sin(theta),
			Rotation: g.rng.IntN(360),
			Scale:    scale * asset.Scale,
		}, class, ring, r))
	}
}

// sizeClasses returns a shuffled list of n classes with each class present
// at least once. n must be at least 3.
func (g *Generator) sizeClasses(n int) []SizeClass {
	var big, medium, small int
	for big < 1 || medium < 1 || small < 1 {
		big = g.rng.IntN(n + 1)
		medium = g.rng.IntN(n - big + 1)
		small = n - big - medium
	}
	out := make([]SizeClass, 0, n)
	for _, c := range []struct {
		class SizeClass
		count int
	}{{Big, big}, {Medium, medium}, {Small, small}} {
		for range c.count {
			out = append(out, c.class)
		}
	}
	g.rng.Shuffle(n, func(i, j int) { out[i], out[j] = out[j], out[i] })
	return out
}

// rings picks a template and returns its shuffled ring assignment.
func (g *Generator) rings() []Ring {
	t := g.cfg.Templates[g.rng.IntN(len(g.cfg.Templates))]
	out := make([]Ring, 0, t.Outside+t.Inside)
	for range t.Outside {
		out = append(out, Outer)
	}
	for range t.Inside {
		out = append(out, Inner)
	}
	g.rng.Shuffle(len(out), func(i, j int) { out[i], out[j] = out[j], out[i] })
	return out
}
