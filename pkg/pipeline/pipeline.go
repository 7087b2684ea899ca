// Package pipeline runs the complete deck generation flow.
//
// This package implements the load → generate → export pipeline used by the
// CLI. By centralizing this logic, every entry point shares the same caching,
// concurrency and output conventions.
//
// # Architecture
//
// The pipeline consists of three stages:
//
//  1. Load: Decode the manifest and the symbol images (cropped, normalised,
//     with precomputed masks)
//  2. Generate: Find a valid layout for every selected card, in parallel,
//     reusing cached layouts when possible
//  3. Export: Write card PNGs and a layouts.json summary
//
// A separate [Runner.BuildSheet] step turns exported card images into
// printable A4 pages.
//
// # Usage
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	result, err := runner.Execute(ctx, pipeline.Options{
//	    AssetsDir:    "images",
//	    ManifestPath: "deck.toml",
//	    OutputDir:    "export",
//	})
package pipeline

import (
	"fmt"
	"io"
	"runtime"
	"time"

	"github.com/charmbracelet/log"

	"github.com/gobblegen/gobble/pkg/errors"
	"github.com/gobblegen/gobble/pkg/layout"
	"github.com/gobblegen/gobble/pkg/manifest"
)

// =============================================================================
// Default Values
// =============================================================================

const (
	// DefaultOutputDir receives card images and layouts.json.
	DefaultOutputDir = "export"

	// DefaultSheetDir receives printable pages.
	DefaultSheetDir = "printable"

	// DefaultSheetName is the base name of printable files.
	DefaultSheetName = "gobble_cards"

	// DefaultSeed is the base random seed for reproducibility.
	DefaultSeed = uint64(42)

	// A4 portrait, the page size of every print sheet.
	sheetWidthMM  = 210.0
	sheetHeightMM = 297.0

	// LayoutsFile is the name of the batch summary written by the json format.
	LayoutsFile = "layouts.json"
)

// Format constants for output formats.
const (
	FormatPNG  = "png"
	FormatJSON = "json"
	FormatSVG  = "svg"
	FormatPDF  = "pdf"
)

// CardFormats are the outputs of the generate stage.
var CardFormats = map[string]bool{
	FormatPNG:  true,
	FormatJSON: true,
}

// SheetFormats are the outputs of the sheet stage.
var SheetFormats = map[string]bool{
	FormatSVG: true,
	FormatPDF: true,
	FormatPNG: true,
}

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains all configuration for a generate run.
type Options struct {
	// Load options
	AssetsDir    string `json:"assets_dir"`
	ManifestPath string `json:"manifest"`
	CropDir      string `json:"crop_dir,omitempty"`

	// Generate options
	Cards      []int `json:"cards,omitempty"` // Empty selects every card
	Workers    int   `json:"workers,omitempty"`
	SkipFailed bool  `json:"skip_failed,omitempty"` // Log and skip exhausted cards instead of failing the run
	Refresh    bool  `json:"refresh,omitempty"`     // Ignore cached layouts but store new ones

	// Layout holds base parameters. The manifest's [layout] table is applied
	// on top, then Overrides.
	Layout    layout.Config       `json:"layout"`
	Overrides *manifest.Overrides `json:"-"`

	// Export options
	OutputDir string   `json:"output_dir,omitempty"`
	Formats   []string `json:"formats,omitempty"`

	// Runtime options (not serialized)
	Logger *log.Logger `json:"-"`

	// Progress, if set, is called after each card finishes with the number
	// of finished cards and the total. Calls are serialized.
	Progress func(done, total int) `json:"-"`

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool `json:"-"`
}

// SheetOptions configures BuildSheet.
type SheetOptions struct {
	CardsDir  string   `json:"cards_dir"`
	BackPath  string   `json:"back,omitempty"` // Empty skips back pages
	OutputDir string   `json:"output_dir,omitempty"`
	Name      string   `json:"name,omitempty"`
	Formats   []string `json:"formats,omitempty"`

	// CardSize is the printed card diameter in millimetres. Cards that
	// no longer fit the page in two columns fall back to fewer per row.
	CardSize float64 `json:"card_size,omitempty"`
}

// Result contains the outputs of a generate run.
type Result struct {
	// RunID identifies the run in logs and layouts.json.
	RunID string

	// Cards holds accepted layouts in manifest order.
	Cards []*layout.Result

	// Failed maps card numbers to the error that stopped them. Only
	// populated with SkipFailed.
	Failed map[int]error

	// Files lists every file written by the export stage.
	Files []string

	// Config is the effective layout configuration.
	Config layout.Config

	Stats     Stats
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	Assets       int
	Attempts     int
	LoadTime     time.Duration
	GenerateTime time.Duration
	ExportTime   time.Duration
}

// CacheInfo counts cached layouts.
type CacheInfo struct {
	Hits   int
	Misses int
}

// =============================================================================
// Validation Functions
// =============================================================================

func validateFormats(formats []string, valid map[string]bool, names string) error {
	for _, f := range formats {
		if !valid[f] {
			return errors.New(errors.ErrCodeInvalidFormat, "invalid format: %q (must be one of: %s)", f, names)
		}
	}
	return nil
}

// ValidateCardFormats checks formats for the generate stage.
func ValidateCardFormats(formats []string) error {
	return validateFormats(formats, CardFormats, "png, json")
}

// ValidateSheetFormats checks formats for the sheet stage.
func ValidateSheetFormats(formats []string) error {
	return validateFormats(formats, SheetFormats, "pdf, svg, png")
}

// =============================================================================
// Options Methods
// =============================================================================

// ValidateAndSetDefaults checks required fields and applies defaults.
// This method is idempotent.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if o.AssetsDir == "" {
		return errors.New(errors.ErrCodeInvalidInput, "assets directory is required")
	}
	if err := errors.ValidateManifestFilename(o.ManifestPath); err != nil {
		return err
	}
	if o.OutputDir == "" {
		o.OutputDir = DefaultOutputDir
	}
	if err := errors.ValidateOutputDir(o.OutputDir); err != nil {
		return err
	}
	if len(o.Formats) == 0 {
		o.Formats = []string{FormatPNG, FormatJSON}
	}
	if err := ValidateCardFormats(o.Formats); err != nil {
		return err
	}
	if o.Workers <= 0 {
		o.Workers = runtime.NumCPU()
	}
	if o.Layout.Seed == 0 {
		o.Layout.Seed = DefaultSeed
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	o.validated = true
	return nil
}

// HasFormat reports whether f was requested.
func (o *Options) HasFormat(f string) bool {
	for _, g := range o.Formats {
		if g == f {
			return true
		}
	}
	return false
}

// layoutConfig merges base parameters, manifest overrides and explicit
// overrides, in that order of increasing precedence.
func (o *Options) layoutConfig(m *manifest.Manifest) (layout.Config, error) {
	cfg := o.Layout
	if cfg.SymbolsPerCard == 0 {
		cfg.SymbolsPerCard = m.SymbolsPerCard
	}
	if cfg.SymbolsPerCard != m.SymbolsPerCard {
		return cfg, errors.New(errors.ErrCodeInvalidSymbolCount,
			"manifest has %d symbols per card, configured for %d", m.SymbolsPerCard, cfg.SymbolsPerCard)
	}
	if cfg.Radius == 0 {
		cfg.Radius = layout.DefaultRadius
	}
	cfg.Logger = o.Logger
	cfg.SetDefaults()

	// Overrides come after the defaults so explicit zeroes stick.
	m.Layout.Apply(&cfg)
	o.Overrides.Apply(&cfg)
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("layout config: %w", err)
	}
	return cfg, nil
}

// SetDefaults applies defaults to sheet options and validates them.
func (o *SheetOptions) SetDefaults() error {
	if o.CardsDir == "" {
		o.CardsDir = DefaultOutputDir
	}
	if o.OutputDir == "" {
		o.OutputDir = DefaultSheetDir
	}
	if err := errors.ValidateOutputDir(o.OutputDir); err != nil {
		return err
	}
	if o.Name == "" {
		o.Name = DefaultSheetName
	}
	if o.CardSize < 0 || o.CardSize > sheetWidthMM {
		return errors.New(errors.ErrCodeInvalidInput, "card size must be between 0 and %v mm, got %v", sheetWidthMM, o.CardSize)
	}
	if len(o.Formats) == 0 {
		o.Formats = []string{FormatPDF}
	}
	return ValidateSheetFormats(o.Formats)
}
