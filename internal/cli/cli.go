package cli

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/gobblegen/gobble/pkg/buildinfo"
	"github.com/gobblegen/gobble/pkg/cache"
	"github.com/gobblegen/gobble/pkg/pipeline"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// appName is the application name used for directories and display.
	appName = "gobble"

	defaultImagesDir = "images"
	defaultManifest  = "deck.toml"

	// cacheEnv names a shared cache when --cache is not given.
	cacheEnv = "GOBBLE_CACHE"
)

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   appName,
		Short: "Gobble lays out symbol-matching party cards",
		Long: `Gobble generates printable cards for symbol-matching games: every card is a
circle holding a fixed number of symbol images, scattered, rotated and sized
so that none overlap and the card looks full.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
	}

	root.SetVersionTemplate(buildinfo.Template())

	root.AddCommand(c.generateCommand())
	root.AddCommand(c.sheetCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Runner Factory
// =============================================================================

// newRunner creates a pipeline runner for CLI use. A non-empty scope gives
// the run its own key namespace in a shared cache.
func (c *CLI) newRunner(ctx context.Context, noCache bool, location, scope string) (*pipeline.Runner, error) {
	store, err := newCache(ctx, noCache, location)
	if err != nil {
		return nil, err
	}
	var keyer cache.Keyer
	if scope != "" {
		keyer = cache.NewScopedKeyer(nil, scope+":")
	}
	return pipeline.NewRunner(store, keyer, c.Logger), nil
}

// newCache opens the layout cache. Without a location the local XDG
// directory is used; if even that cannot be found, caching is disabled.
func newCache(ctx context.Context, noCache bool, location string) (cache.Cache, error) {
	if noCache {
		return cache.NewNullCache(), nil
	}
	location, err := cacheLocation(location)
	if err != nil {
		return cache.NewNullCache(), nil
	}
	return cache.Open(ctx, location)
}

// cacheLocation resolves the --cache flag, then $GOBBLE_CACHE, then the
// XDG cache directory.
func cacheLocation(flag string) (string, error) {
	if flag != "" {
		return flag, nil
	}
	if env := os.Getenv(cacheEnv); env != "" {
		return env, nil
	}
	return cacheDir()
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns the cache directory using XDG standard (~/.cache/gobble/).
func cacheDir() (string, error) {
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}

// =============================================================================
// Options Helpers
// =============================================================================

// parseFormats parses a comma-separated format string into a slice.
// Empty input yields nil so the pipeline applies its defaults.
func parseFormats(s string) []string {
	if s == "" {
		return nil
	}
	var out []string
	for _, f := range strings.Split(s, ",") {
		if f = strings.TrimSpace(f); f != "" {
			out = append(out, f)
		}
	}
	return out
}
