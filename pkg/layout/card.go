package layout

import (
	"slices"

	"github.com/gobblegen/gobble/pkg/errors"
)

// Card is a fixed-length, ordered set of placements inside a circle of
// Radius pixels. Regeneration swaps placements in place; the number of
// placements never changes.
type Card struct {
	radius     float64
	placements []*Placement

	// collisions caches the most recent CollisionEvaluator result for the
	// current placements. Nil when stale.
	collisions map[int][]int
}

// NewCard builds a card from exactly symbolsPerCard placements.
func NewCard(radius float64, symbolsPerCard int, placements ...*Placement) (*Card, error) {
	if len(placements) != symbolsPerCard {
		return nil, errors.New(errors.ErrCodeInvalidSymbolCount,
			"card needs %d placements, got %d", symbolsPerCard, len(placements))
	}
	return &Card{radius: radius, placements: slices.Clone(placements)}, nil
}

// Radius returns the card radius in pixels.
func (c *Card) Radius() float64 { return c.radius }

// Len returns the number of placements.
func (c *Card) Len() int { return len(c.placements) }

// At returns placement i.
func (c *Card) At(i int) *Placement { return c.placements[i] }

// Placements returns a copy of the placement list.
func (c *Card) Placements() []*Placement { return slices.Clone(c.placements) }

// Names returns the symbol names in placement order.
func (c *Card) Names() []string {
	names := make([]string, len(c.placements))
	for i, p := range c.placements {
		names[i] = p.Name()
	}
	return names
}

// ReplaceAt swaps placement i and drops the cached collision result.
// It panics if i is out of range.
func (c *Card) ReplaceAt(i int, p *Placement) {
	c.placements[i] = p
	c.collisions = nil
}

// Collisions returns the result of the last collision evaluation, mapping
// each placement index to the indices it overlaps. It is nil if the card
// changed since then or was never evaluated.
func (c *Card) Collisions() map[int][]int { return c.collisions }

// HasCollisions reports whether the last evaluation found any overlap.
func (c *Card) HasCollisions() bool {
	for _, hits := range c.collisions {
		if len(hits) > 0 {
			return true
		}
	}
	return false
}
