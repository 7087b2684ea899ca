package cli

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/gobblegen/gobble/pkg/manifest"
	"github.com/gobblegen/gobble/pkg/pipeline"
)

// generateFlags holds flags that are not pipeline options.
type generateFlags struct {
	formats    string
	cache      string
	cacheScope string
	noCache    bool
	pick       bool

	radius         float64
	coverage       float64
	ringBoundary   float64
	outerLimit     float64
	boundaryMargin float64
	maxAttempts    int
	seed           int64
}

// generateCommand creates the generate command, the main entry point.
func (c *CLI) generateCommand() *cobra.Command {
	var flags generateFlags
	opts := pipeline.Options{
		AssetsDir:    defaultImagesDir,
		ManifestPath: defaultManifest,
		OutputDir:    pipeline.DefaultOutputDir,
	}

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Lay out every card of a deck and export card images",
		Long: `Lay out every card of a deck and export card images.

The deck manifest (TOML) lists the symbols on each card. Symbols are image
files in the images directory, named after the symbol (MANGO.png). For each
card, random arrangements are generated until one has no overlapping symbols,
nothing outside the card circle, and enough of the card covered.

Layout parameters can be set in the manifest's [layout] table; flags given on
the command line take precedence.

Accepted layouts are cached locally, so regenerating an unchanged deck is fast.`,
		Example: `  gobble generate -m deck.toml -i images
  gobble generate --cards 3,17 --seed 7 -v
  gobble generate --pick`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.Formats = parseFormats(flags.formats)
			opts.Overrides = overridesFromFlags(cmd.Flags(), &flags)
			return c.runGenerate(cmd.Context(), opts, flags)
		},
	}

	f := cmd.Flags()
	f.StringVarP(&opts.ManifestPath, "manifest", "m", opts.ManifestPath, "deck manifest (.toml)")
	f.StringVarP(&opts.AssetsDir, "images", "i", opts.AssetsDir, "directory of symbol images")
	f.StringVarP(&opts.OutputDir, "output", "o", opts.OutputDir, "output directory")
	f.StringVarP(&flags.formats, "format", "f", "", "output format(s): png, json (comma-separated, default both)")
	f.StringVar(&opts.CropDir, "crop-dir", "", "also save cropped symbol images here")
	f.IntSliceVar(&opts.Cards, "cards", nil, "only generate these card numbers")
	f.BoolVar(&flags.pick, "pick", false, "choose cards interactively")
	f.IntVarP(&opts.Workers, "workers", "w", 0, "cards generated in parallel (default: number of CPUs)")
	f.BoolVar(&opts.SkipFailed, "skip-failed", false, "skip cards that exhaust their attempts instead of failing")
	f.StringVar(&flags.cache, "cache", "", "layout cache: a directory, redis:// or mongodb:// URL (env "+cacheEnv+")")
	f.StringVar(&flags.cacheScope, "cache-scope", "", "namespace for this deck's keys in a shared cache")
	f.BoolVar(&flags.noCache, "no-cache", false, "disable the layout cache")
	f.BoolVar(&opts.Refresh, "refresh", false, "ignore cached layouts and store fresh ones")

	// Layout flags override the manifest only when given.
	f.Float64Var(&flags.radius, "radius", 0, "card radius in pixels")
	f.Float64Var(&flags.coverage, "coverage", 0, "minimum fraction of the card covered by symbols")
	f.Float64Var(&flags.ringBoundary, "ring-boundary", 0, "inner ring radius as a fraction of the card radius")
	f.Float64Var(&flags.outerLimit, "outer-limit", 0, "outer ring limit as a fraction of the card radius")
	f.Float64Var(&flags.boundaryMargin, "boundary-margin", 0, "extra room past the card edge before a symbol is out of bounds")
	f.IntVar(&flags.maxAttempts, "max-attempts", 0, "arrangements tried per card (negative: unlimited)")
	f.Int64Var(&flags.seed, "seed", 0, "random seed")

	return cmd
}

// overridesFromFlags returns the layout flags the user set explicitly.
func overridesFromFlags(fs *pflag.FlagSet, flags *generateFlags) *manifest.Overrides {
	o := &manifest.Overrides{}
	set := false
	float := func(name string, v *float64, dst **float64) {
		if fs.Changed(name) {
			*dst = v
			set = true
		}
	}
	float("radius", &flags.radius, &o.Radius)
	float("coverage", &flags.coverage, &o.CoverageThreshold)
	float("ring-boundary", &flags.ringBoundary, &o.RingBoundary)
	float("outer-limit", &flags.outerLimit, &o.OuterLimit)
	float("boundary-margin", &flags.boundaryMargin, &o.BoundaryMargin)
	if fs.Changed("max-attempts") {
		o.MaxAttempts = &flags.maxAttempts
		set = true
	}
	if fs.Changed("seed") {
		o.Seed = &flags.seed
		set = true
	}
	if !set {
		return nil
	}
	return o
}

// runGenerate executes the pipeline and reports the outcome.
func (c *CLI) runGenerate(ctx context.Context, opts pipeline.Options, flags generateFlags) error {
	if flags.pick {
		m, err := manifest.Load(opts.ManifestPath)
		if err != nil {
			return err
		}
		if opts.Cards, err = pickCards(ctx, m); err != nil {
			return err
		}
	}

	runner, err := c.newRunner(ctx, flags.noCache, flags.cache, flags.cacheScope)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	spinner := newSpinnerWithContext(ctx, "Generating cards...")
	opts.Progress = func(done, total int) {
		spinner.SetMessage(fmt.Sprintf("Generating cards (%d/%d)...", done, total))
	}
	spinner.Start()

	result, err := runner.Execute(ctx, opts)
	if err != nil {
		spinner.StopWithError("Generation failed")
		return err
	}
	spinner.Stop()

	if ctx.Err() != nil {
		return ctx.Err()
	}

	printSuccess("Generated %d cards", len(result.Cards))
	printFiles(result.Files, 5)
	printStats(deckStats{
		cards:    len(result.Cards),
		failed:   len(result.Failed),
		attempts: result.Stats.Attempts,
		cached:   result.CacheInfo.Hits,
	})
	for n, ferr := range result.Failed {
		printWarning("card %d skipped: %v", n, ferr)
	}
	printNewline()
	printNextStep("Print", "gobble sheet "+filepath.Clean(opts.OutputDir))

	return nil
}
