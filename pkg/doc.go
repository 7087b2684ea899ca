// Package pkg provides the core libraries for Gobble, a card layout engine
// for symbol-matching party games.
//
// # Overview
//
// Every card is a circle holding a fixed number of symbol images. Gobble
// scatters, rotates and sizes the symbols so that none of their opaque
// pixels overlap, none spill past the card edge, and together they cover
// enough of the card to look full. Layouts are found by rejection sampling:
// draw a random arrangement, evaluate it, and redraw until it passes.
//
// # Architecture
//
// The typical data flow:
//
//	deck.toml + symbol images
//	         ↓
//	    [manifest] + [assets] (cards, replacements, cropped images, masks)
//	         ↓
//	    [layout] (generate → evaluate → accept, per card)
//	         ↓
//	    [render/card] PNG per card, layouts.json
//	         ↓
//	    [render/sheet] A4 SVG pages → PDF
//
// # Quick Start
//
//	m, _ := manifest.Load("deck.toml")
//	store, _ := assets.Load(ctx, "images", assets.Options{Radius: 500, SymbolsPerCard: m.SymbolsPerCard})
//
//	cfg := layout.DefaultConfig()
//	cfg.SymbolsPerCard = m.SymbolsPerCard
//	ctrl, _ := layout.NewController(cfg, store)
//	res, _ := ctrl.Generate(ctx, 1, m.Resolved(m.Cards[0]))
//
// Most callers use [pipeline] instead, which adds caching, a worker pool
// across cards, and export.
//
// # Main Packages
//
// [mask] - Bit-packed opacity masks: build from alpha, scale and rotate,
// intersect at an offset, count set pixels.
//
// [assets] - Symbol image store: load a directory, crop to content,
// normalise size for the card, precompute masks.
//
// [manifest] - The deck manifest: card numbers, symbol names, name
// replacements and optional layout overrides.
//
// [layout] - The layout engine: configuration, arrangement generator,
// collision and coverage evaluation, and the regenerate-until-valid
// controller.
//
// [render] - Card PNG compositing, printable sheets, and SVG conversion
// via rsvg-convert.
//
// [cache] - Layout caches (file, Redis, MongoDB) keyed by a content hash.
//
// [pipeline] - Orchestration used by the CLI: load → generate → export.
//
// [observability] - Hooks for metrics and tracing.
//
// [errors] - Coded errors shared by all packages.
//
// # Testing
//
//	go test ./pkg/...                    # All tests
//	go test ./pkg/layout/...             # Specific package
//	go test -run Example ./pkg/layout    # Examples only
//
// Set GOBBLE_TEST_REDIS_URL or GOBBLE_TEST_MONGO_URL to run the server cache
// tests.
//
// [mask]: https://pkg.go.dev/github.com/gobblegen/gobble/pkg/mask
// [assets]: https://pkg.go.dev/github.com/gobblegen/gobble/pkg/assets
// [manifest]: https://pkg.go.dev/github.com/gobblegen/gobble/pkg/manifest
// [layout]: https://pkg.go.dev/github.com/gobblegen/gobble/pkg/layout
// [render]: https://pkg.go.dev/github.com/gobblegen/gobble/pkg/render
// [render/card]: https://pkg.go.dev/github.com/gobblegen/gobble/pkg/render/card
// [render/sheet]: https://pkg.go.dev/github.com/gobblegen/gobble/pkg/render/sheet
// [cache]: https://pkg.go.dev/github.com/gobblegen/gobble/pkg/cache
// [pipeline]: https://pkg.go.dev/github.com/gobblegen/gobble/pkg/pipeline
// [observability]: https://pkg.go.dev/github.com/gobblegen/gobble/pkg/observability
// [errors]: https://pkg.go.dev/github.com/gobblegen/gobble/pkg/errors
package pkg
