package layout

import (
	"time"

	"github.com/gobblegen/gobble/pkg/errors"
)

// PlacementRecord is the serialisable form of a Placement.
type PlacementRecord struct {
	Symbol   string    `json:"symbol"`
	X        float64   `json:"x"`
	Y        float64   `json:"y"`
	Rotation int       `json:"rotation"`
	Scale    float64   `json:"scale"`
	Class    SizeClass `json:"size_class"`
	Ring     Ring      `json:"ring"`
	Radial   float64   `json:"radial"`
}

// CardRecord is the serialisable form of an accepted card. It is what the
// layout cache stores and what layouts.json lists.
type CardRecord struct {
	Number     int               `json:"number"`
	Radius     float64           `json:"radius"`
	Attempts   int               `json:"attempts"`
	Coverage   float64           `json:"coverage"`
	Rejections map[string]int    `json:"rejections,omitempty"`
	DurationMS int64             `json:"duration_ms"`
	Placements []PlacementRecord `json:"placements"`
}

// Record converts r for storage.
func (r *Result) Record() CardRecord {
	rec := CardRecord{
		Number:     r.Number,
		Radius:     r.Card.Radius(),
		Attempts:   r.Attempts,
		Coverage:   r.Coverage,
		Rejections: r.Rejections,
		DurationMS: r.Duration.Milliseconds(),
		Placements: make([]PlacementRecord, r.Card.Len()),
	}
	for i, p := range r.Card.placements {
		t := p.Transform()
		rec.Placements[i] = PlacementRecord{
			Symbol:   p.Name(),
			X:        t.X,
			Y:        t.Y,
			Rotation: t.Rotation,
			Scale:    t.Scale,
			Class:    p.SizeClass(),
			Ring:     p.Ring(),
			Radial:   p.Radial(),
		}
	}
	return rec
}

// Result rebuilds a Result from a record, resolving symbols through
// resolver. Masks are recomputed from the stored transforms.
func (rec CardRecord) Result(resolver Resolver, symbolsPerCard int) (*Result, error) {
	placements := make([]*Placement, len(rec.Placements))
	for i, pr := range rec.Placements {
		a, err := resolver.Get(pr.Symbol)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeUnknownSymbol, err, "card %d: unknown symbol %q", rec.Number, pr.Symbol)
		}
		placements[i] = newPlacement(a, Transform{X: pr.X, Y: pr.Y, Rotation: pr.Rotation, Scale: pr.Scale}, pr.Class, pr.Ring, pr.Radial)
	}
	card, err := NewCard(rec.Radius, symbolsPerCard, placements...)
	if err != nil {
		return nil, err
	}
	return &Result{
		Number:     rec.Number,
		Card:       card,
		Attempts:   rec.Attempts,
		Coverage:   rec.Coverage,
		Rejections: rec.Rejections,
		Duration:   time.Duration(rec.DurationMS) * time.Millisecond,
	}, nil
}
