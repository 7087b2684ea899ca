package pipeline

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/gobblegen/gobble/pkg/errors"
	"github.com/gobblegen/gobble/pkg/render"
	"github.com/gobblegen/gobble/pkg/render/sheet"
)

// BuildSheet lays the PNG card images in opts.CardsDir out on printable
// pages and writes them in every requested format. It returns the written
// paths.
func (r *Runner) BuildSheet(ctx context.Context, opts SheetOptions) ([]string, error) {
	if err := opts.SetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}
	start := time.Now()

	fronts, err := readFronts(opts.CardsDir)
	if err != nil {
		return nil, err
	}
	var back []byte
	if opts.BackPath != "" {
		if back, err = os.ReadFile(opts.BackPath); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidPath, err, "read card back")
		}
	}

	pages := sheet.Pages(fronts, back, sheetLayout(opts.CardSize)...)
	if err := os.MkdirAll(opts.OutputDir, 0755); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidPath, err, "create output directory")
	}

	var files []string
	for _, format := range opts.Formats {
		switch format {
		case FormatSVG, FormatPNG:
			for i, page := range pages {
				data := page
				if format == FormatPNG {
					if data, err = render.ToPNG(ctx, page, 1); err != nil {
						return nil, err
					}
				}
				path := filepath.Join(opts.OutputDir, fmt.Sprintf("%s_page%02d.%s", opts.Name, i+1, format))
				if err := os.WriteFile(path, data, 0644); err != nil {
					return nil, err
				}
				files = append(files, path)
			}
		case FormatPDF:
			pdf, err := render.ToPDF(ctx, pages...)
			if err != nil {
				return nil, err
			}
			path := filepath.Join(opts.OutputDir, opts.Name+".pdf")
			if err := os.WriteFile(path, pdf, 0644); err != nil {
				return nil, err
			}
			files = append(files, path)
		}
	}

	r.Logger.Info("built print sheet",
		"cards", len(fronts),
		"pages", len(pages),
		"duration", time.Since(start))
	return files, nil
}

// sheetLayout sizes the card grid for a card diameter in millimetres, fitting
// as many 5 mm-spaced cards as the A4 page holds. Zero keeps the defaults.
func sheetLayout(cardSize float64) []sheet.Option {
	if cardSize == 0 {
		return nil
	}
	const gap = 5.0
	fit := func(page float64) int { return max(1, int((page+gap)/(cardSize+gap))) }
	return []sheet.Option{
		sheet.WithCardSize(cardSize),
		sheet.WithGrid(fit(sheetWidthMM), fit(sheetHeightMM)),
	}
}

// readFronts loads every PNG in dir, ordered by the number in its name so
// that card_2 precedes card_10.
func readFronts(dir string) ([]sheet.Front, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidPath, err, "read card directory %s", dir)
	}
	var names []string
	for _, e := range entries {
		if !e.IsDir() && strings.EqualFold(filepath.Ext(e.Name()), ".png") {
			names = append(names, e.Name())
		}
	}
	if len(names) == 0 {
		return nil, errors.New(errors.ErrCodeNotFound, "no card images in %s", dir)
	}
	slices.SortFunc(names, compareNatural)

	fronts := make([]sheet.Front, len(names))
	for i, name := range names {
		data, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			return nil, err
		}
		fronts[i] = sheet.Front{Label: name, PNG: data}
	}
	return fronts, nil
}

// compareNatural orders names by their first run of digits, then
// lexically.
func compareNatural(a, b string) int {
	na, oka := firstNumber(a)
	nb, okb := firstNumber(b)
	switch {
	case oka && okb && na != nb:
		if na < nb {
			return -1
		}
		return 1
	case oka != okb:
		if oka {
			return -1
		}
		return 1
	}
	return strings.Compare(a, b)
}

func firstNumber(s string) (int, bool) {
	start := strings.IndexAny(s, "0123456789")
	if start < 0 {
		return 0, false
	}
	end := start
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	n, err := strconv.Atoi(s[start:end])
	return n, err == nil
}
