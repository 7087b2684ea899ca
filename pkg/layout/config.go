package layout

import (
	"fmt"
	"io"
	"math"

	"github.com/charmbracelet/log"

	"github.com/gobblegen/gobble/pkg/errors"
)

// Default configuration values.
const (
	DefaultCoverageThreshold = 0.22
	DefaultRingBoundary      = 0.5
	DefaultOuterLimit        = 0.9
	DefaultBoundaryMargin    = 0.05
	DefaultMaxAttempts       = 5000
	DefaultSymbolsPerCard    = 8
	DefaultRadius            = 500
)

// SizeClass buckets symbols into scale ranges.
type SizeClass int

const (
	Big SizeClass = iota
	Medium
	Small
)

var sizeClassNames = [...]string{"big", "medium", "small"}

func (c SizeClass) String() string {
	if c < Big || c > Small {
		return fmt.Sprintf("SizeClass(%d)", int(c))
	}
	return sizeClassNames[c]
}

func (c SizeClass) MarshalText() ([]byte, error) {
	if c < Big || c > Small {
		return nil, fmt.Errorf("invalid size class %d", int(c))
	}
	return []byte(c.String()), nil
}

func (c *SizeClass) UnmarshalText(b []byte) error {
	for i, n := range sizeClassNames {
		if n == string(b) {
			*c = SizeClass(i)
			return nil
		}
	}
	return fmt.Errorf("unknown size class %q", b)
}

// Ring is the radial zone a symbol's home position is drawn from.
type Ring int

const (
	Inner Ring = iota
	Outer
)

func (r Ring) String() string {
	switch r {
	case Inner:
		return "inner"
	case Outer:
		return "outer"
	}
	return fmt.Sprintf("Ring(%d)", int(r))
}

func (r Ring) MarshalText() ([]byte, error) {
	if r != Inner && r != Outer {
		return nil, fmt.Errorf("invalid ring %d", int(r))
	}
	return []byte(r.String()), nil
}

func (r *Ring) UnmarshalText(b []byte) error {
	switch string(b) {
	case "inner":
		*r = Inner
	case "outer":
		*r = Outer
	default:
		return fmt.Errorf("unknown ring %q", b)
	}
	return nil
}

// Bounds is a half-open real interval [Min, Max). Min == Max is allowed and
// always yields Min.
type Bounds struct {
	Min float64 `json:"min" toml:"min"`
	Max float64 `json:"max" toml:"max"`
}

func (b Bounds) valid() bool {
	return b.Min > 0 && b.Max >= b.Min && !math.IsInf(b.Max, 0)
}

// SizeClassBounds holds the scale interval of each size class.
type SizeClassBounds struct {
	Big    Bounds `json:"big" toml:"big"`
	Medium Bounds `json:"medium" toml:"medium"`
	Small  Bounds `json:"small" toml:"small"`
}

// For returns the interval of class c.
func (s SizeClassBounds) For(c SizeClass) Bounds {
	switch c {
	case Big:
		return s.Big
	case Medium:
		return s.Medium
	}
	return s.Small
}

// DefaultSizeClasses returns Big [0.65,0.70), Medium [0.55,0.65) and
// Small [0.40,0.55).
func DefaultSizeClasses() SizeClassBounds {
	return SizeClassBounds{
		Big:    Bounds{0.65, 0.70},
		Medium: Bounds{0.55, 0.65},
		Small:  Bounds{0.40, 0.55},
	}
}

// Template splits a card's symbols between the two rings.
type Template struct {
	Outside int `json:"outside" toml:"outside"`
	Inside  int `json:"inside" toml:"inside"`
}

// DefaultTemplates returns one template per inner count from 1 up to a third
// of the symbols (rounded), with the rest on the outer ring.
func DefaultTemplates(symbolsPerCard int) []Template {
	if symbolsPerCard < 2 {
		return []Template{{Outside: max(symbolsPerCard, 0)}}
	}
	maxInside := max(1, (symbolsPerCard+1)/3)
	out := make([]Template, 0, maxInside)
	for in := 1; in <= maxInside; in++ {
		out = append(out, Template{Outside: symbolsPerCard - in, Inside: in})
	}
	return out
}

// Config parameterises layout generation for one card size.
type Config struct {
	// Radius is the card radius in pixels.
	Radius float64 `json:"radius"`
	// SymbolsPerCard is the exact number of symbols on every card.
	SymbolsPerCard int `json:"symbols_per_card"`

	// CoverageThreshold is the minimum ink-to-disc area ratio.
	CoverageThreshold float64 `json:"coverage_threshold"`
	// RingBoundary splits the inner ring [0, R·b) from the outer ring.
	RingBoundary float64 `json:"ring_boundary"`
	// OuterLimit caps the outer ring at R·limit.
	OuterLimit float64 `json:"outer_limit"`
	// BoundaryMargin places the exclusion rim at R·(1+margin).
	BoundaryMargin float64 `json:"boundary_margin"`

	SizeClasses SizeClassBounds `json:"size_classes"`
	// Templates defaults to DefaultTemplates(SymbolsPerCard).
	Templates []Template `json:"templates"`

	// MaxAttempts bounds regenerations per card. Zero means
	// DefaultMaxAttempts; a negative value disables the bound.
	MaxAttempts int `json:"max_attempts"`
	// Seed is the base random seed. Cards derive their own with CardSeed.
	Seed uint64 `json:"seed"`

	Logger *log.Logger `json:"-"`

	// defaulted records that SetDefaults has run, after which zero
	// thresholds and margins are explicit values.
	defaulted bool
}

// DefaultConfig returns a configuration for 8-symbol cards of radius 500.
func DefaultConfig() Config {
	c := Config{Radius: DefaultRadius, SymbolsPerCard: DefaultSymbolsPerCard}
	c.SetDefaults()
	return c
}

// SetDefaults fills zero-valued fields with defaults. Radius and
// SymbolsPerCard are left alone since no value suits every deck.
//
// The ring fractions, coverage threshold and boundary margin are only
// filled on the first call: a zero assigned after that is kept. MaxAttempts
// zero always means DefaultMaxAttempts.
func (c *Config) SetDefaults() {
	if !c.defaulted {
		if c.CoverageThreshold == 0 {
			c.CoverageThreshold = DefaultCoverageThreshold
		}
		if c.RingBoundary == 0 {
			c.RingBoundary = DefaultRingBoundary
		}
		if c.OuterLimit == 0 {
			c.OuterLimit = DefaultOuterLimit
		}
		if c.BoundaryMargin == 0 {
			c.BoundaryMargin = DefaultBoundaryMargin
		}
		c.defaulted = true
	}
	if c.SizeClasses == (SizeClassBounds{}) {
		c.SizeClasses = DefaultSizeClasses()
	}
	if len(c.Templates) == 0 && c.SymbolsPerCard > 0 {
		c.Templates = DefaultTemplates(c.SymbolsPerCard)
	}
	if c.MaxAttempts == 0 {
		c.MaxAttempts = DefaultMaxAttempts
	}
	if c.Logger == nil {
		c.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// Validate reports the first invalid field as an INVALID_CONFIG error.
func (c Config) Validate() error {
	bad := func(format string, args ...any) error {
		return errors.New(errors.ErrCodeInvalidConfig, format, args...)
	}
	switch {
	case !(c.Radius > 0) || math.IsInf(c.Radius, 0):
		return bad("radius must be positive, got %v", c.Radius)
	case c.SymbolsPerCard < 3:
		return bad("symbols per card must be at least 3 so every size class is used, got %d", c.SymbolsPerCard)
	case !(c.CoverageThreshold >= 0) || math.IsInf(c.CoverageThreshold, 0):
		return bad("coverage threshold must be finite and not negative, got %v", c.CoverageThreshold)
	case !(c.RingBoundary > 0 && c.RingBoundary < c.OuterLimit && c.OuterLimit <= 1):
		return bad("ring bounds must satisfy 0 < boundary (%v) < outer limit (%v) <= 1", c.RingBoundary, c.OuterLimit)
	case !(c.BoundaryMargin >= 0) || math.IsInf(c.BoundaryMargin, 0):
		return bad("boundary margin must be finite and not negative, got %v", c.BoundaryMargin)
	}
	for _, sc := range []SizeClass{Big, Medium, Small} {
		if b := c.SizeClasses.For(sc); !b.valid() {
			return bad("%s scale bounds [%v, %v) are invalid", sc, b.Min, b.Max)
		}
	}
	if len(c.Templates) == 0 {
		return bad("no arrangement templates")
	}
	split := false
	for _, t := range c.Templates {
		if t.Outside < 0 || t.Inside < 0 || t.Outside+t.Inside != c.SymbolsPerCard {
			return bad("template %d outside + %d inside does not place %d symbols", t.Outside, t.Inside, c.SymbolsPerCard)
		}
		split = split || (t.Outside > 0 && t.Inside > 0)
	}
	if !split {
		return bad("at least one template must use both rings")
	}
	return nil
}

// CardSeed derives the seed for one card from a base seed so that every card
// gets an independent, reproducible random stream regardless of the order in
// which cards are generated.
func CardSeed(base uint64, card int) uint64 {
	return base ^ (uint64(card)+1)*0x9E3779B97F4A7C15
}
