package assets

import (
	"context"
	"image"
	"image/color"
	"os"
	"path/filepath"
	"testing"

	"github.com/disintegration/imaging"

	"github.com/gobblegen/gobble/pkg/errors"
)

// square returns a w×h transparent image with an opaque s×s square at (x, y).
func square(w, h, x, y, s int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for j := y; j < y+s; j++ {
		for i := x; i < x+s; i++ {
			img.Set(i, j, color.NRGBA{R: 200, G: 20, B: 20, A: 255})
		}
	}
	return img
}

func TestContentBounds(t *testing.T) {
	tests := []struct {
		name string
		img  image.Image
		want image.Rectangle
	}{
		{"centred square", square(40, 30, 10, 5, 8), image.Rect(10, 5, 18, 13)},
		{"full image", square(6, 6, 0, 0, 6), image.Rect(0, 0, 6, 6)},
		{"transparent", image.NewNRGBA(image.Rect(0, 0, 10, 10)), image.Rectangle{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ContentBounds(tt.img); got != tt.want {
				t.Errorf("ContentBounds() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestContentBoundsOffsetOrigin(t *testing.T) {
	img := image.NewNRGBA(image.Rect(100, 100, 120, 120))
	img.Set(105, 110, color.NRGBA{A: 255})
	if got, want := ContentBounds(img), image.Rect(105, 110, 106, 111); got != want {
		t.Errorf("ContentBounds() = %v, want %v", got, want)
	}
}

func TestCropToContent(t *testing.T) {
	out := CropToContent(square(50, 50, 20, 10, 12))
	if b := out.Bounds(); b.Dx() != 12 || b.Dy() != 12 {
		t.Fatalf("cropped size = %dx%d, want 12x12", b.Dx(), b.Dy())
	}

	empty := image.NewNRGBA(image.Rect(0, 0, 5, 5))
	if CropToContent(empty) != image.Image(empty) {
		t.Error("fully transparent image should be returned unchanged")
	}
}

func TestNormalize(t *testing.T) {
	img := square(200, 100, 0, 0, 100)

	out, scale := Normalize(img, 50)
	if b := out.Bounds(); b.Dx() != 50 || b.Dy() != 25 {
		t.Errorf("normalised size = %dx%d, want 50x25", b.Dx(), b.Dy())
	}
	if scale != 0.25 {
		t.Errorf("scale = %v, want 0.25", scale)
	}

	same, scale := Normalize(img, 0)
	if same != image.Image(img) || scale != 1 {
		t.Error("zero target must leave the image untouched")
	}
}

func TestNormalizedSize(t *testing.T) {
	tests := []struct {
		radius float64
		n      int
		want   int
	}{
		{500, 8, 354},
		{500, 4, 500},
		{0, 8, 0},
		{500, 0, 0},
	}
	for _, tt := range tests {
		if got := NormalizedSize(tt.radius, tt.n); got != tt.want {
			t.Errorf("NormalizedSize(%v, %d) = %d, want %d", tt.radius, tt.n, got, tt.want)
		}
	}
}

func TestStoreGet(t *testing.T) {
	s := NewStore(
		NewAsset("MANGO", square(4, 4, 0, 0, 4), 127),
		NewAsset("APPLE", square(4, 4, 1, 1, 2), 127),
	)

	a, err := s.Get("APPLE")
	if err != nil {
		t.Fatalf("Get(APPLE): %v", err)
	}
	if a.Mask.Count() != 4 {
		t.Errorf("APPLE mask count = %d, want 4", a.Mask.Count())
	}
	if a.Scale != 1 {
		t.Errorf("Scale = %v, want 1", a.Scale)
	}

	_, err = s.Get("PEAR")
	if !errors.Is(err, errors.ErrCodeNotFound) {
		t.Errorf("Get(PEAR) error = %v, want NOT_FOUND", err)
	}

	names := s.Names()
	if len(names) != 2 || names[0] != "APPLE" || names[1] != "MANGO" {
		t.Errorf("Names() = %v, want sorted [APPLE MANGO]", names)
	}
	names[0] = "changed"
	if s.Names()[0] != "APPLE" {
		t.Error("Names() must return a copy")
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	for name, img := range map[string]image.Image{
		"MANGO.png":      square(80, 80, 20, 20, 40),
		"APPLE.v2.png":   square(60, 120, 0, 0, 60),
		"CHERRY.jpg":     square(30, 30, 0, 0, 30),
		"notes.txt.skip": square(10, 10, 0, 0, 10),
	} {
		if err := imaging.Save(img, filepath.Join(dir, name)); err != nil {
			// .skip has no encoder; write something so the file exists.
			if werr := os.WriteFile(filepath.Join(dir, name), []byte("x"), 0644); werr != nil {
				t.Fatal(werr)
			}
		}
	}
	if err := os.Mkdir(filepath.Join(dir, "sub.png"), 0755); err != nil {
		t.Fatal(err)
	}

	cropDir := filepath.Join(t.TempDir(), "cropped")
	store, err := Load(context.Background(), dir, Options{
		Radius:         100,
		SymbolsPerCard: 4,
		CropDir:        cropDir,
		Workers:        2,
	})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if store.Len() != 3 {
		t.Fatalf("Len() = %d, want 3 (%v)", store.Len(), store.Names())
	}

	// Target size is 2*100/sqrt(4) = 100 on the longest side.
	mango, err := store.Get("MANGO")
	if err != nil {
		t.Fatal(err)
	}
	if mango.Width() != 100 || mango.Height() != 100 {
		t.Errorf("MANGO size = %dx%d, want 100x100", mango.Width(), mango.Height())
	}
	if _, err := store.Get("APPLE"); err != nil {
		t.Errorf("APPLE.v2.png should load as APPLE: %v", err)
	}
	if _, err := os.Stat(filepath.Join(cropDir, "MANGO.png")); err != nil {
		t.Errorf("cropped copy not written: %v", err)
	}
}

func TestLoadKeepSource(t *testing.T) {
	dir := t.TempDir()
	if err := imaging.Save(square(50, 50, 0, 0, 50), filepath.Join(dir, "KIWI.png")); err != nil {
		t.Fatal(err)
	}
	store, err := Load(context.Background(), dir, Options{Radius: 100, SymbolsPerCard: 4, KeepSource: true})
	if err != nil {
		t.Fatal(err)
	}
	kiwi, _ := store.Get("KIWI")
	if kiwi.Width() != 50 {
		t.Errorf("width = %d, want source width 50", kiwi.Width())
	}
	if kiwi.Scale != 2 {
		t.Errorf("Scale = %v, want 2", kiwi.Scale)
	}
}

func TestLoadMissingDir(t *testing.T) {
	_, err := Load(context.Background(), filepath.Join(t.TempDir(), "nope"), Options{})
	if !errors.Is(err, errors.ErrCodeInvalidPath) {
		t.Errorf("error = %v, want INVALID_PATH", err)
	}
}

func TestStem(t *testing.T) {
	tests := map[string]string{
		"MANGO.png":    "MANGO",
		"APPLE.v2.png": "APPLE",
		"plain":        "plain",
		".hidden.png":  ".hidden.png",
	}
	for in, want := range tests {
		if got := stem(in); got != want {
			t.Errorf("stem(%q) = %q, want %q", in, got, want)
		}
	}
}
