package mask

import (
	"image"
	"image/color"

	"github.com/disintegration/imaging"
)

// TransformImage scales img by scale and then rotates it counter-clockwise by
// degrees, expanding the canvas to fit and filling uncovered corners with
// transparency. Symbols are drawn with the output of this function and their
// masks are derived from it, so both always agree on size and orientation.
func TransformImage(img image.Image, scale float64, degrees int) *image.NRGBA {
	b := img.Bounds()
	w, h := ScaledSize(b.Dx(), b.Dy(), scale)
	if w == 0 {
		return image.NewNRGBA(image.Rect(0, 0, 0, 0))
	}

	out := imaging.Resize(img, w, h, imaging.Linear)
	if deg := normalizeDegrees(degrees); deg != 0 {
		out = imaging.Rotate(out, float64(deg), color.Transparent)
	}
	return out
}

func normalizeDegrees(d int) int {
	d %= 360
	if d < 0 {
		d += 360
	}
	return d
}
