package render

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
)

// ToPDF converts one or more SVG documents into a single PDF with one page
// per document, using rsvg-convert.
// Requires librsvg: brew install librsvg (macOS), apt install librsvg2-bin (Linux).
func ToPDF(ctx context.Context, pages ...[]byte) ([]byte, error) {
	switch len(pages) {
	case 0:
		return nil, fmt.Errorf("no pages to convert")
	case 1:
		return rsvgConvert(ctx, pages[0], "pdf")
	}

	// rsvg-convert only reads one document from stdin; several pages must be
	// passed as files.
	dir, err := os.MkdirTemp("", "gobble-pages-")
	if err != nil {
		return nil, err
	}
	defer os.RemoveAll(dir)

	files := make([]string, len(pages))
	for i, page := range pages {
		files[i] = filepath.Join(dir, fmt.Sprintf("page-%03d.svg", i+1))
		if err := os.WriteFile(files[i], page, 0644); err != nil {
			return nil, err
		}
	}
	return rsvgConvert(ctx, nil, "pdf", files...)
}

// ToPNG converts SVG bytes to PNG using rsvg-convert with the given scale factor.
// Scale of 2.0 produces a 2x resolution image.
// Requires librsvg: brew install librsvg (macOS), apt install librsvg2-bin (Linux).
func ToPNG(ctx context.Context, svg []byte, scale float64) ([]byte, error) {
	return rsvgConvert(ctx, svg, "png", "-z", fmt.Sprintf("%.2f", scale))
}

// rsvgConvert shells out to rsvg-convert. A nil stdin means the inputs are
// named among extraArgs.
func rsvgConvert(ctx context.Context, stdin []byte, format string, extraArgs ...string) ([]byte, error) {
	if _, err := exec.LookPath("rsvg-convert"); err != nil {
		return nil, fmt.Errorf("%s export requires librsvg. Install with:\n  macOS:  brew install librsvg\n  Linux:  apt install librsvg2-bin", format)
	}

	args := append([]string{"-f", format}, extraArgs...)
	cmd := exec.CommandContext(ctx, "rsvg-convert", args...)
	if stdin != nil {
		cmd.Stdin = bytes.NewReader(stdin)
	}

	var out, errBuf bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &errBuf

	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("rsvg-convert: %v: %s", err, errBuf.String())
	}
	return out.Bytes(), nil
}
