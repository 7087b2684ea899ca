// Package sheet lays card images out on printable pages.
//
// Pages are SVG documents measured in millimetres. Each page of card fronts
// is followed by a page of card backs arranged so that, printed double-sided
// and flipped on the long edge, every back lands behind its front.
package sheet

import (
	"bytes"
	"encoding/base64"
	"fmt"

	svg "github.com/ajstarks/svgo"
)

// Front is one card face to print.
type Front struct {
	// Label is printed at the card's top-left corner, usually the file name.
	Label string
	PNG   []byte
}

// Layout geometry is kept in tenths of a millimetre so svgo's integer
// coordinates stay exact.
type config struct {
	pageW, pageH int
	card, gap    int
	cols, rows   int
	labelSize    int
}

func defaults() config {
	return config{
		pageW: 2100, pageH: 2970,
		card: 850, gap: 50,
		cols: 2, rows: 3,
		labelSize: 28, // 8pt
	}
}

// Option configures page layout.
type Option func(*config)

// WithPageSize sets the page size in millimetres. The default is A4 portrait.
func WithPageSize(w, h float64) Option {
	return func(c *config) { c.pageW, c.pageH = tenths(w), tenths(h) }
}

// WithCardSize sets the printed card diameter in millimetres (default 85).
func WithCardSize(d float64) Option {
	return func(c *config) { c.card = tenths(d) }
}

// WithGap sets the space between cards in millimetres (default 5).
func WithGap(g float64) Option {
	return func(c *config) { c.gap = tenths(g) }
}

// WithGrid sets the number of columns and rows per page (default 2×3).
func WithGrid(cols, rows int) Option {
	return func(c *config) { c.cols, c.rows = max(cols, 1), max(rows, 1) }
}

func tenths(mm float64) int { return int(mm*10 + 0.5) }

func newConfig(opts []Option) config {
	c := defaults()
	for _, opt := range opts {
		opt(&c)
	}
	return c
}

// PerPage returns how many cards fit on one page.
func PerPage(opts ...Option) int {
	c := newConfig(opts)
	return c.cols * c.rows
}

// PageCount returns the number of pages, fronts and backs together, needed
// for n cards.
func PageCount(n int, opts ...Option) int {
	per := PerPage(opts...)
	return 2 * ((n + per - 1) / per)
}

// Pages returns one SVG document per page: a page of fronts, then the
// matching page of backs, repeated until every front is placed. A nil back
// skips the back pages.
func Pages(fronts []Front, back []byte, opts ...Option) [][]byte {
	c := newConfig(opts)
	per := c.cols * c.rows

	var backURI string
	if back != nil {
		backURI = dataURI(back)
	}

	var pages [][]byte
	for start := 0; start < len(fronts); start += per {
		batch := fronts[start:min(start+per, len(fronts))]
		pages = append(pages, c.page(batch, "", false))
		if back != nil {
			pages = append(pages, c.page(make([]Front, len(batch)), backURI, true))
		}
	}
	return pages
}

// page draws one page. For back pages every slot shows uri and columns are
// mirrored.
func (c config) page(cards []Front, uri string, mirrored bool) []byte {
	contentW := c.cols*c.card + (c.cols-1)*c.gap
	contentH := c.rows*c.card + (c.rows-1)*c.gap
	x0, y0 := (c.pageW-contentW)/2, (c.pageH-contentH)/2

	var buf bytes.Buffer
	canvas := svg.New(&buf)
	canvas.StartviewUnit(c.pageW/10, c.pageH/10, "mm", 0, 0, c.pageW, c.pageH)
	canvas.Rect(0, 0, c.pageW, c.pageH, "fill:white")

	for i, card := range cards {
		row, col := i/c.cols, i%c.cols
		if mirrored {
			col = c.cols - 1 - col
		}
		x := x0 + col*(c.card+c.gap)
		y := y0 + row*(c.card+c.gap)

		href := uri
		if href == "" {
			href = dataURI(card.PNG)
		}
		canvas.Image(x, y, c.card, c.card, href)
		if card.Label != "" {
			canvas.Text(x, y+c.labelSize+7, card.Label,
				fmt.Sprintf("font-family:Arial,Helvetica,sans-serif;font-weight:bold;font-size:%dpx;fill:black", c.labelSize))
		}
	}
	canvas.End()
	return buf.Bytes()
}

func dataURI(png []byte) string {
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(png)
}
