package layout_test

import (
	"context"
	"fmt"
	"image"
	"image/color"

	"github.com/gobblegen/gobble/pkg/assets"
	"github.com/gobblegen/gobble/pkg/errors"
	"github.com/gobblegen/gobble/pkg/layout"
)

// disc returns a d×d image holding an opaque filled circle.
func disc(d int) image.Image {
	img := image.NewNRGBA(image.Rect(0, 0, d, d))
	r := float64(d) / 2
	for y := 0; y < d; y++ {
		for x := 0; x < d; x++ {
			dx, dy := float64(x)+0.5-r, float64(y)+0.5-r
			if dx*dx+dy*dy <= r*r {
				img.Set(x, y, color.NRGBA{G: 160, A: 255})
			}
		}
	}
	return img
}

func Example() {
	size := assets.NormalizedSize(100, 3)
	store := assets.NewStore(
		assets.NewAsset("SUN", disc(size), 127),
		assets.NewAsset("MOON", disc(size), 127),
		assets.NewAsset("STAR", disc(size), 127),
	)

	cfg := layout.Config{Radius: 100, SymbolsPerCard: 3, Seed: 1}
	ctrl, err := layout.NewController(cfg, store)
	if err != nil {
		panic(err)
	}
	res, err := ctrl.Generate(context.Background(), 1, []string{"SUN", "MOON", "STAR"})
	if err != nil {
		panic(err)
	}

	rep := layout.NewCollisionEvaluator(100, layout.DefaultBoundaryMargin).Evaluate(res.Card)
	fmt.Println("symbols:", res.Card.Names())
	fmt.Println("valid:", rep.Valid())
	fmt.Println("covered:", res.Coverage >= layout.DefaultCoverageThreshold)
	fmt.Println("state:", ctrl.State())
	// Output:
	// symbols: [SUN MOON STAR]
	// valid: true
	// covered: true
	// state: accepted
}

func ExampleConfig_Validate() {
	cfg := layout.Config{Radius: 500, SymbolsPerCard: 2}
	cfg.SetDefaults()
	err := cfg.Validate()
	fmt.Println(errors.GetCode(err))
	// Output:
	// INVALID_CONFIG
}

func ExampleController_Generate_exhausted() {
	store := assets.NewStore(
		assets.NewAsset("A", disc(10), 127),
		assets.NewAsset("B", disc(10), 127),
		assets.NewAsset("C", disc(10), 127),
	)
	cfg := layout.Config{Radius: 100, SymbolsPerCard: 3, CoverageThreshold: 2, MaxAttempts: 50}
	ctrl, _ := layout.NewController(cfg, store)

	_, err := ctrl.Generate(context.Background(), 9, []string{"A", "B", "C"})
	fmt.Println(errors.Is(err, errors.ErrCodeLayoutExhausted))
	fmt.Println(ctrl.State())
	// Output:
	// true
	// failed
}
