package assets

import (
	"image"

	"github.com/disintegration/imaging"
)

// ContentBounds returns the smallest rectangle containing every pixel of img
// with non-zero alpha. A fully transparent image yields an empty rectangle.
func ContentBounds(img image.Image) image.Rectangle {
	b := img.Bounds()
	nrgba := imaging.Clone(img)
	minX, minY, maxX, maxY := b.Dx(), b.Dy(), -1, -1
	for y := 0; y < b.Dy(); y++ {
		row := nrgba.Pix[y*nrgba.Stride:]
		for x := 0; x < b.Dx(); x++ {
			if row[x*4+3] == 0 {
				continue
			}
			minX, maxX = min(minX, x), max(maxX, x)
			minY, maxY = min(minY, y), max(maxY, y)
		}
	}
	if maxX < 0 {
		return image.Rectangle{}
	}
	return image.Rect(minX, minY, maxX+1, maxY+1).Add(b.Min)
}

// CropToContent trims the fully transparent border around img.
// Images with no visible pixels are returned unchanged.
func CropToContent(img image.Image) image.Image {
	r := ContentBounds(img)
	if r.Empty() || r == img.Bounds() {
		return img
	}
	return imaging.Crop(img, r)
}

// NormalizeScale returns the factor that brings the longest side of img to
// target pixels, or 1 when target is non-positive.
func NormalizeScale(img image.Image, target int) float64 {
	b := img.Bounds()
	longest := max(b.Dx(), b.Dy())
	if target <= 0 || longest == 0 {
		return 1
	}
	return float64(target) / float64(longest)
}

// Normalize resamples img so its longest side equals target pixels and
// returns the applied scale. A non-positive target leaves img untouched.
func Normalize(img image.Image, target int) (image.Image, float64) {
	b := img.Bounds()
	scale := NormalizeScale(img, target)
	if scale == 1 {
		return img, 1
	}
	var out *image.NRGBA
	if b.Dx() >= b.Dy() {
		out = imaging.Resize(img, target, 0, imaging.Lanczos)
	} else {
		out = imaging.Resize(img, 0, target, imaging.Lanczos)
	}
	return out, scale
}
