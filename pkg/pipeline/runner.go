package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"math/rand/v2"
	"os"
	"path/filepath"
	"slices"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/gobblegen/gobble/pkg/assets"
	"github.com/gobblegen/gobble/pkg/cache"
	"github.com/gobblegen/gobble/pkg/errors"
	"github.com/gobblegen/gobble/pkg/layout"
	"github.com/gobblegen/gobble/pkg/manifest"
	"github.com/gobblegen/gobble/pkg/observability"
	"github.com/gobblegen/gobble/pkg/render/card"
)

// Runner encapsulates pipeline execution with caching.
//
// The Runner is stateless except for the cache and logger - it doesn't
// store pipeline results. Multiple goroutines can safely use the same
// Runner with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
	}
}

// Execute runs the complete load → generate → export pipeline.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}

	result := &Result{RunID: uuid.NewString()}
	logger := opts.Logger.With("run", result.RunID[:8])
	opts.Logger = logger

	// Stage 1: Load
	loadStart := time.Now()
	m, cards, store, err := r.load(ctx, opts, result)
	result.Stats.LoadTime = time.Since(loadStart)
	observability.Pipeline().OnLoadComplete(ctx, len(cards), result.Stats.Assets, result.Stats.LoadTime, err)
	if err != nil {
		return nil, err
	}

	logger.Info("loaded deck",
		"cards", len(cards),
		"symbols", store.Len(),
		"duration", result.Stats.LoadTime)

	// Stage 2: Generate
	generateStart := time.Now()
	if err := r.GenerateCards(ctx, store, m, cards, result.Config, opts, result); err != nil {
		return nil, fmt.Errorf("generate: %w", err)
	}
	result.Stats.GenerateTime = time.Since(generateStart)

	logger.Info("generated layouts",
		"cards", len(result.Cards),
		"failed", len(result.Failed),
		"attempts", result.Stats.Attempts,
		"cached", result.CacheInfo.Hits,
		"duration", result.Stats.GenerateTime)

	// Stage 3: Export
	exportStart := time.Now()
	files, err := r.Export(ctx, result, opts)
	result.Stats.ExportTime = time.Since(exportStart)
	observability.Pipeline().OnExportComplete(ctx, opts.Formats, len(files), result.Stats.ExportTime, err)
	if err != nil {
		return nil, fmt.Errorf("export: %w", err)
	}
	result.Files = files

	logger.Info("exported cards",
		"formats", opts.Formats,
		"files", len(files),
		"duration", result.Stats.ExportTime)

	return result, nil
}

// load reads the manifest, resolves the layout configuration into result
// and decodes the symbol images.
func (r *Runner) load(ctx context.Context, opts Options, result *Result) (*manifest.Manifest, []manifest.Card, *assets.Store, error) {
	m, err := manifest.Load(opts.ManifestPath)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("load manifest: %w", err)
	}
	cfg, err := opts.layoutConfig(m)
	if err != nil {
		return nil, nil, nil, err
	}
	result.Config = cfg
	cards, err := m.Select(opts.Cards)
	if err != nil {
		return nil, nil, nil, err
	}
	store, err := r.LoadAssets(ctx, opts, cfg)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("load assets: %w", err)
	}
	result.Stats.Assets = store.Len()
	return m, cards, store, nil
}

// LoadAssets decodes the symbol images sized for cfg.
func (r *Runner) LoadAssets(ctx context.Context, opts Options, cfg layout.Config) (*assets.Store, error) {
	r.applyLogger(&opts)
	return assets.Load(ctx, opts.AssetsDir, assets.Options{
		Radius:         cfg.Radius,
		SymbolsPerCard: cfg.SymbolsPerCard,
		CropDir:        opts.CropDir,
		Workers:        opts.Workers,
		Logger:         opts.Logger,
	})
}

// GenerateCards finds a layout for every card, opts.Workers at a time, and
// records accepted layouts, failures and cache statistics in result. Each
// card's random stream depends only on the seed and its number, so the
// outcome does not depend on scheduling.
func (r *Runner) GenerateCards(ctx context.Context, store *assets.Store, m *manifest.Manifest, cards []manifest.Card, cfg layout.Config, opts Options, result *Result) error {
	r.applyLogger(&opts)
	cfg.Logger = opts.Logger

	var (
		mu       sync.Mutex
		finished int
		accepted = make([]*layout.Result, len(cards))
	)
	result.Failed = map[int]error{}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(opts.Workers, 1))
	for i, c := range cards {
		g.Go(func() error {
			names := m.Resolved(c)
			start := time.Now()
			observability.Pipeline().OnCardStart(gctx, c.Number)
			res, hit, err := r.generateCard(gctx, store, c.Number, names, cfg, opts.Refresh)
			attempts := 0
			if res != nil && !hit {
				attempts = res.Attempts
			}
			observability.Pipeline().OnCardComplete(gctx, c.Number, attempts, time.Since(start), err)

			mu.Lock()
			defer mu.Unlock()
			finished++
			if opts.Progress != nil {
				opts.Progress(finished, len(cards))
			}
			if err != nil {
				if opts.SkipFailed && errors.Is(err, errors.ErrCodeLayoutExhausted) {
					opts.Logger.Warn("skipping card", "card", c.Number, "error", err)
					result.Failed[c.Number] = err
					return nil
				}
				return err
			}
			accepted[i] = res
			if hit {
				result.CacheInfo.Hits++
			} else {
				result.CacheInfo.Misses++
				result.Stats.Attempts += res.Attempts
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	for _, res := range accepted {
		if res != nil {
			result.Cards = append(result.Cards, res)
		}
	}
	return nil
}

// cacheKeyType labels layout entries in cache hooks.
const cacheKeyType = "layout"

// generateCard returns the layout for one card, from the cache when a
// layout for the same symbols, parameters and images exists.
func (r *Runner) generateCard(ctx context.Context, store *assets.Store, number int, names []string, cfg layout.Config, refresh bool) (*layout.Result, bool, error) {
	key := r.Keyer.LayoutKey(cache.LayoutKeyOpts{
		Card:        number,
		Symbols:     names,
		Params:      cfg,
		AssetDigest: assetDigest(store, names),
	})

	if !refresh {
		if data, hit, err := r.Cache.Get(ctx, key); err == nil && hit {
			var rec layout.CardRecord
			if err := json.Unmarshal(data, &rec); err == nil {
				if res, err := rec.Result(store, cfg.SymbolsPerCard); err == nil {
					observability.Cache().OnCacheHit(ctx, cacheKeyType)
					return res, true, nil
				}
			}
			// Unreadable entries fall through to regeneration.
		}
		observability.Cache().OnCacheMiss(ctx, cacheKeyType)
	}

	ctrl, err := layout.NewController(cfg, store)
	if err != nil {
		return nil, false, err
	}
	res, err := ctrl.Generate(ctx, number, names)
	if err != nil {
		return nil, false, err
	}

	if data, err := json.Marshal(res.Record()); err == nil {
		if err := r.Cache.Set(ctx, key, data, cache.TTLLayout); err != nil {
			r.Logger.Debug("cache write failed", "card", number, "error", err)
		} else {
			observability.Cache().OnCacheSet(ctx, cacheKeyType, len(data))
		}
	}
	return res, false, nil
}

// assetDigest summarises the images behind names. Unknown names are skipped;
// the controller reports them.
func assetDigest(store *assets.Store, names []string) string {
	type entry struct {
		Name          string
		Width, Height int
		Ink           int
		Scale         float64
	}
	entries := make([]entry, 0, len(names))
	for _, n := range names {
		a, err := store.Get(n)
		if err != nil {
			continue
		}
		entries = append(entries, entry{a.Name, a.Width(), a.Height(), a.Mask.Count(), a.Scale})
	}
	data, _ := json.Marshal(entries)
	return cache.Hash(data)
}

// =============================================================================
// Export
// =============================================================================

// Summary is the layouts.json document.
type Summary struct {
	RunID     string              `json:"run_id"`
	CreatedAt time.Time           `json:"created_at"`
	Config    layout.Config       `json:"config"`
	Cards     []layout.CardRecord `json:"cards"`
	Failed    []int               `json:"failed,omitempty"`
}

// Export writes the requested outputs for result into opts.OutputDir and
// returns the written paths.
func (r *Runner) Export(ctx context.Context, result *Result, opts Options) ([]string, error) {
	if err := os.MkdirAll(opts.OutputDir, 0755); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidPath, err, "create output directory")
	}

	var files []string
	if opts.HasFormat(FormatPNG) {
		pngs, err := r.exportPNGs(ctx, result, opts)
		if err != nil {
			return nil, err
		}
		files = append(files, pngs...)
	}
	if opts.HasFormat(FormatJSON) {
		path, err := writeSummary(result, opts.OutputDir)
		if err != nil {
			return nil, err
		}
		files = append(files, path)
	}
	return files, nil
}

// CardFileName is the exported image name for card number n.
func CardFileName(n int) string {
	return fmt.Sprintf("card_%d.png", n)
}

func (r *Runner) exportPNGs(ctx context.Context, result *Result, opts Options) ([]string, error) {
	files := make([]string, len(result.Cards))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(opts.Workers, 1))
	for i, res := range result.Cards {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			// The rim colour has its own stream so it does not shift layouts.
			seed := layout.CardSeed(result.Config.Seed, res.Number) ^ 0x5bd1e995
			name, rim := card.RimColor(rand.New(rand.NewPCG(seed, seed)))
			path := filepath.Join(opts.OutputDir, CardFileName(res.Number))
			if err := card.SavePNG(path, res.Card, card.Options{Rim: rim}); err != nil {
				return fmt.Errorf("card %d: %w", res.Number, err)
			}
			opts.Logger.Debug("wrote card", "card", res.Number, "rim", name, "path", path)
			files[i] = path
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return files, nil
}

func writeSummary(result *Result, dir string) (string, error) {
	sum := Summary{
		RunID:     result.RunID,
		CreatedAt: time.Now().UTC(),
		Config:    result.Config,
		Cards:     make([]layout.CardRecord, len(result.Cards)),
	}
	for i, res := range result.Cards {
		sum.Cards[i] = res.Record()
	}
	for n := range result.Failed {
		sum.Failed = append(sum.Failed, n)
	}
	slices.Sort(sum.Failed)

	data, err := json.MarshalIndent(sum, "", "  ")
	if err != nil {
		return "", err
	}
	path := filepath.Join(dir, LayoutsFile)
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", err
	}
	return path, nil
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}
