package cli

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/gobblegen/gobble/pkg/cache"
)

// cacheCommand creates the cache management command.
func (c *CLI) cacheCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage the layout cache",
		Long: `Manage the layout cache.

Accepted card layouts are cached by their symbols, layout parameters and
symbol images, so regenerating an unchanged deck is instant. The cache is a
local directory by default; set --cache or $` + cacheEnv + ` to a redis:// or
mongodb:// URL to share layouts between machines.`,
	}

	cmd.PersistentFlags().String("cache", "", "layout cache location (default: $"+cacheEnv+" or the XDG cache directory)")

	cmd.AddCommand(c.cacheClearCommand())
	cmd.AddCommand(c.cachePathCommand())

	return cmd
}

// cacheClearCommand creates the "cache clear" subcommand.
func (c *CLI) cacheClearCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Remove all cached layouts",
		RunE: func(cmd *cobra.Command, args []string) error {
			flag, _ := cmd.Flags().GetString("cache")
			location, err := cacheLocation(flag)
			if err != nil {
				return fmt.Errorf("get cache dir: %w", err)
			}
			n, err := clearCache(cmd.Context(), location)
			if err != nil {
				return err
			}
			if n == 0 {
				printInfo("Cache is empty")
				return nil
			}
			printSuccess("Cleared %d cached layouts", n)
			printDetail("Location: %s", location)
			return nil
		},
	}
}

// clearCache empties the cache at location. A missing local directory is
// treated as empty and not created.
func clearCache(ctx context.Context, location string) (int, error) {
	if !strings.Contains(location, "://") || strings.HasPrefix(location, "file://") {
		if _, err := os.Stat(strings.TrimPrefix(location, "file://")); os.IsNotExist(err) {
			return 0, nil
		}
	}
	c, err := cache.Open(ctx, location)
	if err != nil {
		return 0, err
	}
	defer c.Close()
	cl, ok := c.(cache.Clearer)
	if !ok {
		return 0, fmt.Errorf("cache %s cannot be cleared", location)
	}
	return cl.Clear(ctx)
}

// cachePathCommand creates the "cache path" subcommand.
func (c *CLI) cachePathCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the cache location",
		RunE: func(cmd *cobra.Command, args []string) error {
			flag, _ := cmd.Flags().GetString("cache")
			location, err := cacheLocation(flag)
			if err != nil {
				return fmt.Errorf("get cache dir: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), location)
			return nil
		},
	}
}
