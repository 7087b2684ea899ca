// Package assets loads the symbol images placed on cards.
//
// A [Store] holds immutable [Asset] values keyed by name. Each asset carries
// its raster image (cropped to content and resampled to a size that suits the
// card), a precomputed occupancy mask derived from per-pixel alpha, and the
// scale applied during normalisation. Assets are safe to share across
// goroutines once loaded.
//
//	store, err := assets.Load(ctx, "images", assets.Options{Radius: 500, SymbolsPerCard: 8})
//	a, err := store.Get("MANGO")
package assets

import (
	"image"
	"slices"

	"github.com/gobblegen/gobble/pkg/errors"
	"github.com/gobblegen/gobble/pkg/mask"
)

// Asset is one loaded symbol image. It is never modified after construction.
type Asset struct {
	Name  string
	Image image.Image
	Mask  *mask.Mask
	// Scale brings Image to the card's normalised symbol size. It is 1 when
	// the image was resampled at load time. Placement scales multiply onto it.
	Scale float64
}

// NewAsset builds an asset from an in-memory image, deriving its mask with
// the given alpha threshold.
func NewAsset(name string, img image.Image, threshold uint8) *Asset {
	return &Asset{
		Name:  name,
		Image: img,
		Mask:  mask.FromImage(img, threshold),
		Scale: 1,
	}
}

// Width returns the pixel width of the asset image.
func (a *Asset) Width() int { return a.Image.Bounds().Dx() }

// Height returns the pixel height of the asset image.
func (a *Asset) Height() int { return a.Image.Bounds().Dy() }

// Store is a read-only collection of assets keyed by name.
type Store struct {
	assets map[string]*Asset
	names  []string
}

// NewStore creates a store from already-built assets. Later assets replace
// earlier ones with the same name.
func NewStore(list ...*Asset) *Store {
	s := &Store{assets: make(map[string]*Asset, len(list))}
	for _, a := range list {
		if _, dup := s.assets[a.Name]; !dup {
			s.names = append(s.names, a.Name)
		}
		s.assets[a.Name] = a
	}
	slices.Sort(s.names)
	return s
}

// Get returns the asset with the given name, or a NOT_FOUND error.
func (s *Store) Get(name string) (*Asset, error) {
	if a, ok := s.assets[name]; ok {
		return a, nil
	}
	return nil, errors.New(errors.ErrCodeNotFound, "no asset named %q", name)
}

// Names returns all asset names in sorted order.
func (s *Store) Names() []string {
	return slices.Clone(s.names)
}

// Len returns the number of assets.
func (s *Store) Len() int { return len(s.names) }
