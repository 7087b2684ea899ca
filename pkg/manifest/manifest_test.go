package manifest

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/gobblegen/gobble/pkg/errors"
	"github.com/gobblegen/gobble/pkg/layout"
)

const sample = `
symbols_per_card = 3

[layout]
radius = 250
coverage_threshold = 0.3
max_attempts = 100
seed = 9

[layout.size_classes]
big = { min = 0.6, max = 0.7 }
medium = { min = 0.5, max = 0.6 }
small = { min = 0.3, max = 0.5 }

[replacements]
"Symbol 1" = "MANGO"
"Symbol 2" = "CRANE"

[[card]]
number = 1
symbols = ["Symbol 1", "Symbol 2", "GINGY"]

[[card]]
number = 2
symbols = ["Symbol 1", "GLASSI", "MR BURNS"]

[[card]]
number = 18
symbols = ["Symbol 2", "GLASSI", "GINGY"]
`

func TestParse(t *testing.T) {
	m, err := Parse([]byte(sample))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if m.SymbolsPerCard != 3 {
		t.Errorf("SymbolsPerCard = %d, want 3", m.SymbolsPerCard)
	}
	if got, want := m.Numbers(), []int{1, 2, 18}; !reflect.DeepEqual(got, want) {
		t.Errorf("Numbers() = %v, want %v", got, want)
	}
	if got, want := m.Resolved(m.Cards[0]), []string{"MANGO", "CRANE", "GINGY"}; !reflect.DeepEqual(got, want) {
		t.Errorf("Resolved() = %v, want %v", got, want)
	}
	if m.Cards[0].Symbols[0] != "Symbol 1" {
		t.Error("Resolved must not modify the card")
	}
}

func TestOverridesApply(t *testing.T) {
	m, err := Parse([]byte(sample))
	if err != nil {
		t.Fatal(err)
	}
	cfg := layout.DefaultConfig()
	cfg.BoundaryMargin = 0.1
	m.Layout.Apply(&cfg)

	if cfg.Radius != 250 || cfg.CoverageThreshold != 0.3 || cfg.MaxAttempts != 100 || cfg.Seed != 9 {
		t.Errorf("overrides not applied: %+v", cfg)
	}
	if cfg.SizeClasses.Small != (layout.Bounds{Min: 0.3, Max: 0.5}) {
		t.Errorf("size classes = %+v", cfg.SizeClasses)
	}
	if cfg.BoundaryMargin != 0.1 || cfg.RingBoundary != layout.DefaultRingBoundary {
		t.Error("unset overrides must keep existing values")
	}

	var none *Overrides
	none.Apply(&cfg)
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name string
		doc  string
		code errors.Code
	}{
		{"syntax", `symbols_per_card = `, errors.ErrCodeInvalidManifest},
		{"no cards", `symbols_per_card = 3`, errors.ErrCodeInvalidManifest},
		{"unknown key", "radius = 4\n[[card]]\nnumber = 1\nsymbols = [\"A\", \"B\", \"C\"]", errors.ErrCodeInvalidManifest},
		{"typo in layout", "[layout]\ncoverage = 0.3\n[[card]]\nnumber = 1\nsymbols = [\"A\", \"B\", \"C\"]", errors.ErrCodeInvalidManifest},
		{"wrong count", "symbols_per_card = 3\n[[card]]\nnumber = 7\nsymbols = [\"A\", \"B\"]", errors.ErrCodeInvalidSymbolCount},
		{"duplicate number", "[[card]]\nnumber = 1\nsymbols = [\"A\", \"B\", \"C\"]\n[[card]]\nnumber = 1\nsymbols = [\"D\", \"E\", \"F\"]", errors.ErrCodeInvalidManifest},
		{"zero number", "[[card]]\nnumber = 0\nsymbols = [\"A\", \"B\", \"C\"]", errors.ErrCodeInvalidManifest},
		{"repeated symbol", "[[card]]\nnumber = 1\nsymbols = [\"A\", \"B\", \"A\"]", errors.ErrCodeInvalidManifest},
		{"repeat via replacement", "[replacements]\nX = \"A\"\n[[card]]\nnumber = 1\nsymbols = [\"A\", \"B\", \"X\"]", errors.ErrCodeInvalidManifest},
		{"bad name", "[[card]]\nnumber = 1\nsymbols = [\"A\", \"../B\", \"C\"]", errors.ErrCodeInvalidManifest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.doc))
			if err == nil {
				t.Fatal("expected error")
			}
			if got := errors.GetCode(err); got != tt.code {
				t.Errorf("code = %s, want %s (%v)", got, tt.code, err)
			}
		})
	}
}

func TestSymbolsPerCardInferred(t *testing.T) {
	m, err := Parse([]byte("[[card]]\nnumber = 1\nsymbols = [\"A\", \"B\", \"C\", \"D\"]"))
	if err != nil {
		t.Fatal(err)
	}
	if m.SymbolsPerCard != 4 {
		t.Errorf("SymbolsPerCard = %d, want 4", m.SymbolsPerCard)
	}
}

func TestSelect(t *testing.T) {
	m, err := Parse([]byte(sample))
	if err != nil {
		t.Fatal(err)
	}

	all, err := m.Select(nil)
	if err != nil || len(all) != 3 {
		t.Fatalf("Select(nil) = %d cards, %v", len(all), err)
	}

	some, err := m.Select([]int{18, 1})
	if err != nil {
		t.Fatal(err)
	}
	if len(some) != 2 || some[0].Number != 1 || some[1].Number != 18 {
		t.Errorf("Select kept wrong cards or order: %+v", some)
	}

	_, err = m.Select([]int{1, 99, 42})
	if !errors.Is(err, errors.ErrCodeNotFound) {
		t.Errorf("Select with unknown numbers: %v", err)
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "deck.toml")
	if err := os.WriteFile(path, []byte(sample), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err != nil {
		t.Fatalf("Load: %v", err)
	}

	if _, err := Load(filepath.Join(dir, "deck.xlsx")); !errors.Is(err, errors.ErrCodeInvalidManifest) {
		t.Errorf("non-TOML name: %v", err)
	}
	if _, err := Load(filepath.Join(dir, "missing.toml")); !errors.Is(err, errors.ErrCodeInvalidPath) {
		t.Errorf("missing file: %v", err)
	}
}
