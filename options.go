package blockatlas

import (
	"errors"
	"fmt"
)

// ErrInvalidParameter is returned (wrapped) for every rejected size, scale or
// octave count, before anything is allocated.
var ErrInvalidParameter = errors.New("blockatlas: invalid parameter")

const (
	// DefaultTileSize is the edge length the default material coefficients are tuned for.
	DefaultTileSize = 512
	// DefaultSeed is the root seed of the shipped atlas.
	DefaultSeed int64 = 42
)

type Options struct {
	// Edge length of each square tile in pixels.
	// The atlas is TileSize*4 wide and TileSize tall.
	TileSize int
	// Root seed. Every noise layer draws from Seed plus its own SeedOffset,
	// so changing Seed re-rolls the whole atlas while keeping layers decorrelated.
	Seed int64
	// Per-material coefficients.
	Materials Materials
}

func DefaultOptions() Options {
	return Options{
		TileSize:  DefaultTileSize,
		Seed:      DefaultSeed,
		Materials: DefaultMaterials(),
	}
}

// OptionsFromSize returns the default options for a tile edge of size pixels,
// with every noise base scale stretched by size/DefaultTileSize so smaller or
// larger tiles keep the same look.
func OptionsFromSize(size int) Options {
	if size <= 0 {
		return DefaultOptions()
	}
	opt := DefaultOptions()
	opt.TileSize = size
	opt.Materials = opt.Materials.Scaled(float64(size) / DefaultTileSize)
	return opt
}

func (o Options) Validate() error {
	if o.TileSize <= 0 {
		return fmt.Errorf("%w: tile size must be positive, got %d", ErrInvalidParameter, o.TileSize)
	}
	return o.Materials.Validate()
}
