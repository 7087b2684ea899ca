package layout

import (
	"context"
	"fmt"
	"maps"
	"math/rand/v2"
	"time"

	"github.com/gobblegen/gobble/pkg/assets"
	"github.com/gobblegen/gobble/pkg/errors"
)

// State is the controller's position in the generate-and-test loop.
type State int

const (
	Empty State = iota
	GeneratingCandidate
	Evaluating
	Accepted
	Rejected
	Failed
)

var stateNames = [...]string{"empty", "generating", "evaluating", "accepted", "rejected", "failed"}

func (s State) String() string {
	if s < Empty || s > Failed {
		return fmt.Sprintf("State(%d)", int(s))
	}
	return stateNames[s]
}

// Rejection reasons, in the order they are checked.
const (
	ReasonCollision = "collision"
	ReasonBoundary  = "boundary"
	ReasonCoverage  = "coverage"
)

// Resolver looks up symbol assets by name. *assets.Store implements it.
type Resolver interface {
	Get(name string) (*assets.Asset, error)
}

// Result is an accepted card and the statistics of the search that found it.
type Result struct {
	Number     int
	Card       *Card
	Attempts   int
	Coverage   float64
	Rejections map[string]int
	Duration   time.Duration
}

// Controller runs the regenerate-until-valid loop for one card at a time.
// A Controller is not safe for concurrent use; use one per goroutine.
type Controller struct {
	cfg      Config
	resolver Resolver
	eval     *CollisionEvaluator
	state    State
}

// NewController validates cfg after filling defaults.
func NewController(cfg Config, resolver Resolver) (*Controller, error) {
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Controller{
		cfg:      cfg,
		resolver: resolver,
		eval:     NewCollisionEvaluator(cfg.Radius, cfg.BoundaryMargin),
	}, nil
}

// Config returns the effective configuration.
func (c *Controller) Config() Config { return c.cfg }

// State returns the state reached by the last Generate call.
func (c *Controller) State() State { return c.state }

// Generate finds a valid layout for card number with the given symbols.
//
// The random stream is seeded from the configured seed and the card number,
// so a card's layout does not depend on which other cards are generated or
// in what order. Candidates are rejected on any overlap, any ink outside the
// card circle, or coverage below the threshold, and regenerated until one
// passes, ctx is cancelled, or MaxAttempts is reached.
func (c *Controller) Generate(ctx context.Context, number int, names []string) (*Result, error) {
	c.state = Empty
	if len(names) != c.cfg.SymbolsPerCard {
		return nil, errors.New(errors.ErrCodeInvalidSymbolCount,
			"card %d has %d symbols, want %d", number, len(names), c.cfg.SymbolsPerCard)
	}

	placements := make([]*Placement, len(names))
	for i, name := range names {
		a, err := c.resolver.Get(name)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeUnknownSymbol, err, "card %d: unknown symbol %q", number, name)
		}
		placements[i] = neutral(a, c.cfg.Radius)
	}
	card, err := NewCard(c.cfg.Radius, c.cfg.SymbolsPerCard, placements...)
	if err != nil {
		return nil, err
	}

	seed := CardSeed(c.cfg.Seed, number)
	gen := NewGenerator(c.cfg, rand.New(rand.NewPCG(seed, seed^0xdeadbeef)))
	logger := c.cfg.Logger.With("card", number)
	rejections := map[string]int{}
	start := time.Now()

	for attempt := 1; ; attempt++ {
		if c.cfg.MaxAttempts > 0 && attempt > c.cfg.MaxAttempts {
			c.state = Failed
			return nil, &errors.ExhaustedError{Card: number, Attempts: attempt - 1, Reasons: maps.Clone(rejections)}
		}
		if err := ctx.Err(); err != nil {
			c.state = Failed
			return nil, err
		}

		c.state = GeneratingCandidate
		gen.Regenerate(card)

		c.state = Evaluating
		reason, coverage := c.evaluate(card)
		if reason == "" {
			c.state = Accepted
			res := &Result{
				Number:     number,
				Card:       card,
				Attempts:   attempt,
				Coverage:   coverage,
				Rejections: rejections,
				Duration:   time.Since(start),
			}
			logger.Info("card accepted", "attempts", attempt, "coverage", fmt.Sprintf("%.3f", coverage), "took", res.Duration.Round(time.Millisecond))
			return res, nil
		}

		c.state = Rejected
		rejections[reason]++
		logger.Debug("candidate rejected", "attempt", attempt, "reason", reason)
	}
}

// evaluate returns the first rejection reason for card, or "" and the
// coverage ratio if it is acceptable. Coverage is only computed for
// candidates free of overlaps and boundary violations.
func (c *Controller) evaluate(card *Card) (string, float64) {
	rep := c.eval.Evaluate(card)
	switch {
	case rep.HasCollisions():
		return ReasonCollision, 0
	case len(rep.Boundary) > 0:
		return ReasonBoundary, 0
	}
	cov := Coverage(card)
	if cov < c.cfg.CoverageThreshold {
		return ReasonCoverage, cov
	}
	return "", cov
}

// GenerateCard is a convenience wrapper that runs a fresh Controller for a
// single, unnumbered card.
func GenerateCard(ctx context.Context, resolver Resolver, names []string, cfg Config) (*Card, error) {
	ctrl, err := NewController(cfg, resolver)
	if err != nil {
		return nil, err
	}
	res, err := ctrl.Generate(ctx, 0, names)
	if err != nil {
		return nil, err
	}
	return res.Card, nil
}
