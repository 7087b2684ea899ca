// Package layout arranges symbols on circular cards.
//
// A [Card] holds exactly SymbolsPerCard [Placement] values, each one symbol
// asset at a position, rotation and scale. Layouts are found by rejection
// sampling: the [Generator] draws a random candidate, the
// [CollisionEvaluator] checks it for pixel-exact overlaps and ink outside the
// card circle, [Coverage] measures how much of the disc is inked, and the
// [Controller] repeats until a candidate passes every check.
//
// # Arrangement
//
// Every candidate gives each symbol a size class (at least one Big, one
// Medium and one Small per card) and a ring. Inner ring symbols sit within
// RingBoundary·R of the centre; outer ring symbols between RingBoundary·R and
// OuterLimit·R. Symbols in a ring are spread at even angles with a quarter
// slot of angular jitter, so the outer 10% of the card is never a home
// position, only reachable by a symbol's extent.
//
// # Termination
//
// The loop stops after Config.MaxAttempts regenerations with an
// [errors.ExhaustedError] (code LAYOUT_EXHAUSTED), or as soon as the context
// is cancelled. Configurations that cannot ever succeed, such as fewer than
// three symbols per card, are rejected up front by [Config.Validate].
//
// # Reproducibility
//
// Each card draws from its own PCG stream seeded by [CardSeed], so cards can
// be generated concurrently and still match a sequential run.
//
//	ctrl, err := layout.NewController(cfg, store)
//	res, err := ctrl.Generate(ctx, 1, []string{"MANGO", "CRANE", ...})
package layout
