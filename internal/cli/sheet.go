package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/gobblegen/gobble/pkg/pipeline"
)

// sheetCommand creates the sheet command for printable pages.
func (c *CLI) sheetCommand() *cobra.Command {
	var formats string
	opts := pipeline.SheetOptions{
		OutputDir: pipeline.DefaultSheetDir,
		Name:      pipeline.DefaultSheetName,
	}

	cmd := &cobra.Command{
		Use:   "sheet [cards-dir]",
		Short: "Arrange card images on printable A4 pages",
		Long: `Arrange card images on printable A4 pages.

Cards are placed six to a page, each 85 mm wide and labelled with its file
name. With --back, every page of fronts is followed by a page of backs
mirrored for double-sided printing flipped on the long edge.

PDF and PNG output require rsvg-convert (librsvg).`,
		Example: `  gobble sheet export --back back.png
  gobble sheet -f svg,pdf -o print`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.CardsDir = pipeline.DefaultOutputDir
			if len(args) == 1 {
				opts.CardsDir = args[0]
			}
			opts.Formats = parseFormats(formats)
			return c.runSheet(cmd.Context(), opts)
		},
	}

	cmd.Flags().StringVar(&opts.BackPath, "back", "", "card back image (PNG); omit to skip back pages")
	cmd.Flags().StringVarP(&opts.OutputDir, "output", "o", opts.OutputDir, "output directory")
	cmd.Flags().StringVarP(&opts.Name, "name", "n", opts.Name, "base name of the output files")
	cmd.Flags().Float64Var(&opts.CardSize, "card-size", 0, "printed card diameter in mm (default 85)")
	cmd.Flags().StringVarP(&formats, "format", "f", "", "output format(s): pdf (default), svg, png (comma-separated)")

	return cmd
}

func (c *CLI) runSheet(ctx context.Context, opts pipeline.SheetOptions) error {
	runner := pipeline.NewRunner(nil, nil, c.Logger)

	spinner := newSpinnerWithContext(ctx, fmt.Sprintf("Building sheets from %s...", opts.CardsDir))
	spinner.Start()

	files, err := runner.BuildSheet(ctx, opts)
	if err != nil {
		spinner.StopWithError("Sheet failed")
		return err
	}
	spinner.Stop()

	printSuccess("Wrote %d file(s)", len(files))
	printFiles(files, 5)
	return nil
}
