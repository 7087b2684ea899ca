// Package render turns accepted card layouts into printable artifacts.
//
// # Cards
//
// The [card] subpackage composites one card as a raster image: a coloured
// rim, the white card disc and every symbol drawn at its placement. Symbols
// are transformed with the same routine that builds their collision masks,
// so the printed ink is exactly the ink that was tested.
//
// # Print sheets
//
// The [sheet] subpackage lays card images out on A4 pages (two columns,
// three rows of 85 mm cards) as SVG, with each page of fronts followed by a
// matching page of backs for double-sided printing.
//
// # Format Conversion
//
// [ToPDF] and [ToPNG] convert SVG to other formats using the external
// rsvg-convert tool (from librsvg). ToPDF accepts several documents and
// emits one page per document.
//
//	pages := sheet.Pages(fronts, back)
//	pdf, err := render.ToPDF(ctx, pages...)
package render
