package blockatlas

import (
	"fmt"
	"image"

	"golang.org/x/image/draw"
)

// TileIndex is a slot of the atlas, counted left to right.
// The block renderer indexes the atlas by these values.
type TileIndex uint8

const (
	TileGrassTop TileIndex = iota
	TileGrassSide
	TileDirt
	TileStone
	TileCount
)

// TileOrder lists the tiles in atlas order.
var TileOrder = [TileCount]TileIndex{TileGrassTop, TileGrassSide, TileDirt, TileStone}

func (t TileIndex) String() string {
	switch t {
	case TileGrassTop:
		return "grass_top"
	case TileGrassSide:
		return "grass_side"
	case TileDirt:
		return "dirt"
	case TileStone:
		return "stone"
	default:
		return fmt.Sprintf("tile(%d)", uint8(t))
	}
}

// Assemble pastes tiles left to right onto a transparent canvas as wide as
// all tiles together. Tiles must share one height.
func Assemble(tiles []*image.RGBA) (*image.RGBA, error) {
	if len(tiles) == 0 {
		return nil, fmt.Errorf("%w: no tiles to assemble", ErrInvalidParameter)
	}
	width, height := 0, 0
	for i, t := range tiles {
		if t == nil {
			return nil, fmt.Errorf("%w: tile %d is nil", ErrInvalidParameter, i)
		}
		b := t.Bounds()
		if i == 0 {
			height = b.Dy()
		}
		if b.Dy() != height {
			return nil, fmt.Errorf("%w: tile %d is %d tall, want %d", ErrInvalidParameter, i, b.Dy(), height)
		}
		width += b.Dx()
	}
	if width == 0 || height == 0 {
		return nil, fmt.Errorf("%w: empty tiles", ErrInvalidParameter)
	}

	atlas := image.NewRGBA(image.Rect(0, 0, width, height))
	x := 0
	for _, t := range tiles {
		b := t.Bounds()
		draw.Draw(atlas, image.Rect(x, 0, x+b.Dx(), height), t, b.Min, draw.Src)
		x += b.Dx()
	}
	return atlas, nil
}

// TileRect is the region of slot idx in an atlas of size x size tiles.
func TileRect(idx TileIndex, size int) image.Rectangle {
	x := int(idx) * size
	return image.Rect(x, 0, x+size, size)
}

// Tile cuts slot idx out of an atlas image.
func Tile(atlas image.Image, idx TileIndex, size int) (*image.RGBA, error) {
	r := TileRect(idx, size)
	if !r.In(atlas.Bounds().Sub(atlas.Bounds().Min)) {
		return nil, fmt.Errorf("%w: tile %s outside %v atlas", ErrInvalidParameter, idx, atlas.Bounds().Size())
	}
	out := image.NewRGBA(image.Rect(0, 0, size, size))
	draw.Draw(out, out.Bounds(), atlas, atlas.Bounds().Min.Add(r.Min), draw.Src)
	return out, nil
}

type AtlasBuilder struct {
	Options Options
	// Tiles in atlas order, set by Build.
	Tiles []*image.RGBA
	Atlas *image.RGBA
}

func NewAtlasBuilder(opt Options) *AtlasBuilder {
	return &AtlasBuilder{Options: opt}
}

// Build renders every tile and assembles the atlas. On error Tiles and Atlas
// are left nil; there is no partial atlas.
func (ab *AtlasBuilder) Build() error {
	ab.Tiles, ab.Atlas = nil, nil
	if err := ab.Options.Validate(); err != nil {
		return err
	}
	tiles := make([]*image.RGBA, 0, TileCount)
	for _, idx := range TileOrder {
		t, err := Synthesize(idx, ab.Options)
		if err != nil {
			return fmt.Errorf("build %s: %w", idx, err)
		}
		tiles = append(tiles, t)
	}
	atlas, err := Assemble(tiles)
	if err != nil {
		return err
	}
	ab.Tiles, ab.Atlas = tiles, atlas
	return nil
}
