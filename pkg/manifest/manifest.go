// Package manifest reads deck manifests: which symbols go on which card.
//
// A manifest is a TOML file listing cards by number, an optional table of
// name replacements applied to every card, and optional layout overrides:
//
//	symbols_per_card = 8
//
//	[layout]
//	radius = 500
//	coverage_threshold = 0.22
//
//	[replacements]
//	"Symbol 1" = "MANGO"
//
//	[[card]]
//	number = 1
//	symbols = ["Symbol 1", "CRANE", "GORILLA", "MR BURNS", "GINGY", "GLASSI", "DARTH VADER", "REKHAS CHILLI"]
//
// Replacements let one generic template (for example a standard 57-card
// projective-plane deck with placeholder names) be reused with any symbol set.
package manifest

import (
	"fmt"
	"os"
	"slices"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/gobblegen/gobble/pkg/errors"
	"github.com/gobblegen/gobble/pkg/layout"
)

// Card assigns symbols to one card number.
type Card struct {
	Number  int      `toml:"number"`
	Symbols []string `toml:"symbols"`
}

// Overrides are layout parameters set by the manifest. Nil fields keep the
// caller's values.
type Overrides struct {
	Radius            *float64                `toml:"radius"`
	CoverageThreshold *float64                `toml:"coverage_threshold"`
	RingBoundary      *float64                `toml:"ring_boundary"`
	OuterLimit        *float64                `toml:"outer_limit"`
	BoundaryMargin    *float64                `toml:"boundary_margin"`
	MaxAttempts       *int                    `toml:"max_attempts"`
	Seed              *int64                  `toml:"seed"`
	SizeClasses       *layout.SizeClassBounds `toml:"size_classes"`
	Templates         []layout.Template       `toml:"templates"`
}

// Apply copies every set override into cfg.
func (o *Overrides) Apply(cfg *layout.Config) {
	if o == nil {
		return
	}
	set := func(dst *float64, src *float64) {
		if src != nil {
			*dst = *src
		}
	}
	set(&cfg.Radius, o.Radius)
	set(&cfg.CoverageThreshold, o.CoverageThreshold)
	set(&cfg.RingBoundary, o.RingBoundary)
	set(&cfg.OuterLimit, o.OuterLimit)
	set(&cfg.BoundaryMargin, o.BoundaryMargin)
	if o.MaxAttempts != nil {
		cfg.MaxAttempts = *o.MaxAttempts
	}
	if o.Seed != nil {
		cfg.Seed = uint64(*o.Seed)
	}
	if o.SizeClasses != nil {
		cfg.SizeClasses = *o.SizeClasses
	}
	if len(o.Templates) > 0 {
		cfg.Templates = slices.Clone(o.Templates)
	}
}

// Manifest is a parsed deck manifest.
type Manifest struct {
	SymbolsPerCard int               `toml:"symbols_per_card"`
	Cards          []Card            `toml:"card"`
	Replacements   map[string]string `toml:"replacements"`
	Layout         *Overrides        `toml:"layout"`
}

// Load reads and validates the manifest at path.
func Load(path string) (*Manifest, error) {
	if err := errors.ValidateManifestFilename(path); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidPath, err, "read manifest %s", path)
	}
	m, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return m, nil
}

// Parse decodes and validates a manifest. Unknown keys are rejected so that
// typos in layout overrides do not go unnoticed.
func Parse(data []byte) (*Manifest, error) {
	var m Manifest
	md, err := toml.Decode(string(data), &m)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidManifest, err, "decode manifest")
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return nil, errors.New(errors.ErrCodeInvalidManifest, "unknown keys: %s", strings.Join(keys, ", "))
	}
	if err := m.Validate(); err != nil {
		return nil, err
	}
	return &m, nil
}

// Validate checks card numbering and symbol counts. When SymbolsPerCard is
// zero it is taken from the first card.
func (m *Manifest) Validate() error {
	if len(m.Cards) == 0 {
		return errors.New(errors.ErrCodeInvalidManifest, "no cards")
	}
	if m.SymbolsPerCard == 0 {
		m.SymbolsPerCard = len(m.Cards[0].Symbols)
	}

	for from, to := range m.Replacements {
		if err := errors.ValidateSymbolName(to); err != nil {
			return fmt.Errorf("replacement for %q: %w", from, err)
		}
	}

	seen := make(map[int]bool, len(m.Cards))
	for _, c := range m.Cards {
		if c.Number <= 0 {
			return errors.New(errors.ErrCodeInvalidManifest, "card number must be positive, got %d", c.Number)
		}
		if seen[c.Number] {
			return errors.New(errors.ErrCodeInvalidManifest, "card %d listed twice", c.Number)
		}
		seen[c.Number] = true

		if len(c.Symbols) != m.SymbolsPerCard {
			return errors.New(errors.ErrCodeInvalidSymbolCount,
				"card %d has %d symbols, want %d", c.Number, len(c.Symbols), m.SymbolsPerCard)
		}
		names := m.Resolved(c)
		for _, name := range names {
			if err := errors.ValidateSymbolName(name); err != nil {
				return fmt.Errorf("card %d: %w", c.Number, err)
			}
		}
		sorted := slices.Clone(names)
		slices.Sort(sorted)
		if i := firstDuplicate(sorted); i >= 0 {
			return errors.New(errors.ErrCodeInvalidManifest, "card %d repeats symbol %q", c.Number, sorted[i])
		}
	}
	return nil
}

func firstDuplicate(sorted []string) int {
	for i := 1; i < len(sorted); i++ {
		if sorted[i] == sorted[i-1] {
			return i
		}
	}
	return -1
}

// Resolved returns the symbols of c with replacements applied.
func (m *Manifest) Resolved(c Card) []string {
	out := make([]string, len(c.Symbols))
	for i, s := range c.Symbols {
		if r, ok := m.Replacements[s]; ok {
			s = r
		}
		out[i] = s
	}
	return out
}

// Numbers returns every card number in manifest order.
func (m *Manifest) Numbers() []int {
	out := make([]int, len(m.Cards))
	for i, c := range m.Cards {
		out[i] = c.Number
	}
	return out
}

// Select returns the cards with the given numbers, in manifest order.
// An empty selection returns every card.
func (m *Manifest) Select(numbers []int) ([]Card, error) {
	if len(numbers) == 0 {
		return slices.Clone(m.Cards), nil
	}
	want := make(map[int]bool, len(numbers))
	for _, n := range numbers {
		want[n] = true
	}
	var out []Card
	for _, c := range m.Cards {
		if want[c.Number] {
			out = append(out, c)
			delete(want, c.Number)
		}
	}
	if len(want) > 0 {
		missing := make([]int, 0, len(want))
		for n := range want {
			missing = append(missing, n)
		}
		slices.Sort(missing)
		return nil, errors.New(errors.ErrCodeNotFound, "no card numbered %v in manifest", missing)
	}
	return out, nil
}
