package assets

import (
	"context"
	"fmt"
	"image"
	"io"
	"math"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/disintegration/imaging"
	"golang.org/x/sync/errgroup"

	// Extra decoders beyond the png/jpeg/gif/bmp/tiff set imaging registers.
	_ "golang.org/x/image/webp"

	"github.com/gobblegen/gobble/pkg/errors"
	"github.com/gobblegen/gobble/pkg/mask"
)

// supportedExts lists the file extensions Load will decode.
var supportedExts = map[string]bool{
	".png": true, ".jpg": true, ".jpeg": true, ".gif": true,
	".bmp": true, ".tif": true, ".tiff": true, ".webp": true,
}

// Options configures Load.
type Options struct {
	// Radius and SymbolsPerCard size the normalisation target: the longest
	// side of every symbol becomes 2·Radius/√SymbolsPerCard. Zero values
	// disable normalisation.
	Radius         float64
	SymbolsPerCard int

	// AlphaThreshold is the alpha a source pixel must exceed to be ink. It
	// applies once, when the mask is built; transformed masks are derived
	// from that mask. Zero means mask.DefaultThreshold, so the lowest
	// explicit threshold is 1.
	AlphaThreshold uint8

	// CropDir, when set, receives a PNG of every cropped source image.
	// Existing files are left untouched.
	CropDir string

	// KeepSource skips resampling: images stay at their cropped source
	// resolution and Asset.Scale carries the normalisation factor instead.
	KeepSource bool

	// Workers bounds concurrent decoding. Zero means runtime.NumCPU().
	Workers int

	Logger *log.Logger
}

func (o *Options) setDefaults() {
	if o.AlphaThreshold == 0 {
		o.AlphaThreshold = mask.DefaultThreshold
	}
	if o.Workers <= 0 {
		o.Workers = runtime.NumCPU()
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// NormalizedSize returns the longest-side pixel size symbols are resampled to
// for a card of the given radius and symbol count, or 0 if either is unset.
func NormalizedSize(radius float64, symbolsPerCard int) int {
	if radius <= 0 || symbolsPerCard <= 0 {
		return 0
	}
	return int(math.Round(2 * radius / math.Sqrt(float64(symbolsPerCard))))
}

// Load decodes every supported image in dir, crops each to its visible
// content, normalises its size and precomputes its mask. Asset names are the
// file names up to the first dot.
func Load(ctx context.Context, dir string, opts Options) (*Store, error) {
	opts.setDefaults()

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidPath, err, "read asset directory %s", dir)
	}
	if opts.CropDir != "" {
		if err := os.MkdirAll(opts.CropDir, 0755); err != nil {
			return nil, fmt.Errorf("create crop directory: %w", err)
		}
	}

	var files []string
	for _, e := range entries {
		if e.IsDir() || !supportedExts[strings.ToLower(filepath.Ext(e.Name()))] {
			continue
		}
		files = append(files, e.Name())
	}

	target := NormalizedSize(opts.Radius, opts.SymbolsPerCard)

	var (
		mu     sync.Mutex
		loaded []*Asset
	)
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(opts.Workers)
	for _, name := range files {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			a, err := loadFile(dir, name, target, opts)
			if err != nil {
				return err
			}
			mu.Lock()
			loaded = append(loaded, a)
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	store := NewStore(loaded...)
	opts.Logger.Debug("loaded assets", "dir", dir, "count", store.Len(), "target", target)
	return store, nil
}

func loadFile(dir, file string, target int, opts Options) (*Asset, error) {
	path := filepath.Join(dir, file)
	src, err := imaging.Open(path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidImage, err, "decode %s", path)
	}

	cropped := CropToContent(src)
	if opts.CropDir != "" {
		if err := saveCropped(opts.CropDir, file, cropped); err != nil {
			return nil, err
		}
	}

	if opts.KeepSource {
		a := NewAsset(stem(file), cropped, opts.AlphaThreshold)
		a.Scale = NormalizeScale(cropped, target)
		return a, nil
	}
	img, _ := Normalize(cropped, target)
	return NewAsset(stem(file), img, opts.AlphaThreshold), nil
}

// saveCropped writes a cropped copy unless one already exists.
func saveCropped(dir, file string, img image.Image) error {
	out := filepath.Join(dir, strings.TrimSuffix(file, filepath.Ext(file))+".png")
	if _, err := os.Stat(out); err == nil {
		return nil
	}
	if err := imaging.Save(img, out); err != nil {
		return fmt.Errorf("save cropped %s: %w", out, err)
	}
	return nil
}

// stem returns the file name up to its first dot.
func stem(file string) string {
	if i := strings.IndexByte(file, '.'); i > 0 {
		return file[:i]
	}
	return file
}
