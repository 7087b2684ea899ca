package mask

import (
	"image"
	"image/color"
	"math/rand/v2"
	"testing"
)

func filled(w, h int) *Mask {
	m := New(w, h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			m.Set(x, y, true)
		}
	}
	return m
}

func randomMask(rng *rand.Rand, w, h int, density float64) *Mask {
	m := New(w, h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if rng.Float64() < density {
				m.Set(x, y, true)
			}
		}
	}
	return m
}

// bruteIntersects is the per-pixel reference for Intersects.
func bruteIntersects(a, b *Mask, dx, dy int) int {
	n := 0
	for y := 0; y < a.Height(); y++ {
		for x := 0; x < a.Width(); x++ {
			if a.Get(x, y) && b.Get(x-dx, y-dy) {
				n++
			}
		}
	}
	return n
}

func TestFromImage(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 4, 2))
	img.Set(0, 0, color.NRGBA{A: 255})
	img.Set(1, 0, color.NRGBA{A: 128})
	img.Set(2, 0, color.NRGBA{A: 127})
	img.Set(3, 1, color.NRGBA{R: 255, A: 200})

	m := FromImage(img, DefaultThreshold)
	if m.Width() != 4 || m.Height() != 2 {
		t.Fatalf("size = %dx%d, want 4x2", m.Width(), m.Height())
	}
	want := map[image.Point]bool{{0, 0}: true, {1, 0}: true, {3, 1}: true}
	for y := 0; y < 2; y++ {
		for x := 0; x < 4; x++ {
			if got := m.Get(x, y); got != want[image.Pt(x, y)] {
				t.Errorf("Get(%d,%d) = %v, want %v", x, y, got, want[image.Pt(x, y)])
			}
		}
	}
	if m.Count() != 3 {
		t.Errorf("Count() = %d, want 3", m.Count())
	}
}

func TestFromImageGenericPath(t *testing.T) {
	img := image.NewRGBA(image.Rect(5, 5, 8, 8))
	img.Set(6, 6, color.RGBA{R: 10, A: 255})

	m := FromImage(img, DefaultThreshold)
	if !m.Get(1, 1) || m.Count() != 1 {
		t.Errorf("expected only (1,1) set relative to bounds origin, count=%d", m.Count())
	}
}

func TestNewEmpty(t *testing.T) {
	for _, sz := range [][2]int{{0, 0}, {0, 5}, {5, 0}, {-1, 3}} {
		m := New(sz[0], sz[1])
		if m.Width() != 0 || m.Height() != 0 || m.Count() != 0 {
			t.Errorf("New(%d,%d) should be empty", sz[0], sz[1])
		}
		if m.Intersects(filled(3, 3), 0, 0) || filled(3, 3).Intersects(m, 0, 0) {
			t.Errorf("empty mask should never intersect")
		}
	}
}

func TestIntersectsFullOverlap(t *testing.T) {
	a := filled(30, 20)
	b := filled(30, 20)
	if !a.Intersects(b, 0, 0) {
		t.Error("identical masks at the same offset must intersect")
	}
	if a.Overlap(b, 0, 0) != 600 {
		t.Errorf("Overlap = %d, want 600", a.Overlap(b, 0, 0))
	}
}

func TestIntersectsDisjoint(t *testing.T) {
	a := filled(10, 10)
	b := filled(10, 10)
	tests := []struct {
		dx, dy int
	}{
		{10, 0}, {-10, 0}, {0, 10}, {0, -10}, {100, 100}, {-64, 3},
	}
	for _, tt := range tests {
		if a.Intersects(b, tt.dx, tt.dy) {
			t.Errorf("Intersects at (%d,%d) should be false", tt.dx, tt.dy)
		}
	}
	if !a.Intersects(b, 9, 9) {
		t.Error("corner pixels should touch at (9,9)")
	}
}

func TestIntersectsAcrossWords(t *testing.T) {
	a := New(200, 3)
	a.Set(130, 1, true)
	b := New(80, 3)
	b.Set(66, 1, true)

	// b's pixel 66 lands on a's pixel 130 when dx = 64.
	if !a.Intersects(b, 64, 0) {
		t.Error("expected intersection at dx=64")
	}
	if a.Intersects(b, 63, 0) || a.Intersects(b, 65, 0) {
		t.Error("off-by-one offsets must not intersect")
	}
	if !b.Intersects(a, -64, 0) {
		t.Error("reverse test should intersect at dx=-64")
	}
}

func TestIntersectsMatchesBruteForce(t *testing.T) {
	rng := rand.New(rand.NewPCG(1, 2))
	for i := 0; i < 200; i++ {
		a := randomMask(rng, 1+rng.IntN(150), 1+rng.IntN(20), 0.05)
		b := randomMask(rng, 1+rng.IntN(150), 1+rng.IntN(20), 0.05)
		dx := rng.IntN(300) - 150
		dy := rng.IntN(40) - 20

		want := bruteIntersects(a, b, dx, dy)
		if got := a.Intersects(b, dx, dy); got != (want > 0) {
			t.Fatalf("case %d: Intersects(dx=%d, dy=%d) = %v, want %v", i, dx, dy, got, want > 0)
		}
		if got := a.Overlap(b, dx, dy); got != want {
			t.Fatalf("case %d: Overlap = %d, want %d", i, got, want)
		}
		if a.Intersects(b, dx, dy) != b.Intersects(a, -dx, -dy) {
			t.Fatalf("case %d: Intersects is not symmetric", i)
		}
	}
}

func TestAnyOutside(t *testing.T) {
	m := New(10, 10)
	m.Set(5, 5, true)

	if m.AnyOutside(image.Rect(0, 0, 10, 10)) {
		t.Error("pixel inside full rect")
	}
	if m.AnyOutside(image.Rect(5, 5, 6, 6)) {
		t.Error("pixel inside exact rect")
	}
	if !m.AnyOutside(image.Rect(0, 0, 5, 10)) {
		t.Error("pixel right of rect")
	}
	if !m.AnyOutside(image.Rect(0, 6, 10, 10)) {
		t.Error("pixel above rect")
	}
	if !m.AnyOutside(image.Rect(20, 20, 30, 30)) {
		t.Error("rect disjoint from mask")
	}
}

func TestRing(t *testing.T) {
	r := Ring(100, 40)
	if r.Get(50, 50) {
		t.Error("centre should be clear")
	}
	if r.Get(50, 12) {
		t.Error("pixel inside radius should be clear")
	}
	if !r.Get(0, 0) || !r.Get(99, 99) {
		t.Error("corners should be set")
	}
	if !r.Get(50, 5) {
		t.Error("pixel outside radius should be set")
	}
}

func TestTransformIdentity(t *testing.T) {
	m := filled(12, 7)
	out := m.Transform(1, 0)
	if out.Width() != 12 || out.Height() != 7 || out.Count() != 84 {
		t.Errorf("identity transform changed mask: %dx%d count=%d", out.Width(), out.Height(), out.Count())
	}
	out.Set(0, 0, false)
	if !m.Get(0, 0) {
		t.Error("Transform must not alias the source")
	}
}

func TestTransformIgnoresSourceThreshold(t *testing.T) {
	// Faint ink only survives a zero threshold; once in the mask it is
	// carried through transforms regardless of the source alpha.
	img := image.NewNRGBA(image.Rect(0, 0, 8, 8))
	for y := 0; y < 8; y++ {
		for x := 0; x < 8; x++ {
			img.SetNRGBA(x, y, color.NRGBA{A: 10})
		}
	}
	m := FromImage(img, 0)
	if m.Count() != 64 {
		t.Fatalf("count = %d, want 64", m.Count())
	}
	if got := m.Transform(1, 90).Count(); got != 64 {
		t.Errorf("rotated count = %d, want 64", got)
	}
}

func TestTransformQuarterTurn(t *testing.T) {
	m := filled(10, 4)
	out := m.Transform(1, 90)
	if out.Width() != 4 || out.Height() != 10 {
		t.Errorf("90° rotation size = %dx%d, want 4x10", out.Width(), out.Height())
	}
	if out.Count() != 40 {
		t.Errorf("90° rotation count = %d, want 40", out.Count())
	}
}

func TestTransformScaleDown(t *testing.T) {
	m := filled(20, 20)
	out := m.Transform(0.5, 0)
	if out.Width() != 10 || out.Height() != 10 {
		t.Errorf("size = %dx%d, want 10x10", out.Width(), out.Height())
	}
	if out.Count() != 100 {
		t.Errorf("count = %d, want 100", out.Count())
	}
}

func TestTransformVanishingScale(t *testing.T) {
	m := filled(20, 20)
	out := m.Transform(0.001, 45)
	if out.Count() != 0 || out.Width() != 0 {
		t.Errorf("near-zero scale should give an empty mask, got %dx%d", out.Width(), out.Height())
	}
}

func TestTransformRotationGrowsBounds(t *testing.T) {
	m := filled(20, 20)
	out := m.Transform(1, 45)
	if out.Width() <= 20 || out.Height() <= 20 {
		t.Errorf("45° rotation should enlarge bounds, got %dx%d", out.Width(), out.Height())
	}
	if c := out.Count(); c < 300 || c > 500 {
		t.Errorf("rotated ink should stay close to 400 pixels, got %d", c)
	}
}

func TestScaledSize(t *testing.T) {
	tests := []struct {
		w, h   int
		scale  float64
		ww, wh int
	}{
		{100, 50, 1, 100, 50},
		{100, 50, 0.5, 50, 25},
		{100, 50, 0.655, 66, 33},
		{100, 1, 0.4, 0, 0},
		{0, 10, 1, 0, 0},
	}
	for _, tt := range tests {
		w, h := ScaledSize(tt.w, tt.h, tt.scale)
		if w != tt.ww || h != tt.wh {
			t.Errorf("ScaledSize(%d,%d,%v) = %d,%d want %d,%d", tt.w, tt.h, tt.scale, w, h, tt.ww, tt.wh)
		}
	}
}
