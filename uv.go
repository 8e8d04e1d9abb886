package blockatlas

import "github.com/go-gl/mathgl/mgl32"

type BlockType uint8

const (
	BlockAir BlockType = iota
	BlockGrass
	BlockDirt
	BlockStone
)

func (b BlockType) String() string {
	switch b {
	case BlockAir:
		return "Air"
	case BlockGrass:
		return "Grass"
	case BlockDirt:
		return "Dirt"
	case BlockStone:
		return "Stone"
	default:
		return "Unknown"
	}
}

type Face uint8

const (
	FaceTop Face = iota
	FaceBottom
	FaceNorth
	FaceSouth
	FaceEast
	FaceWest
)

// TileFor returns the atlas slot textured onto face of a block.
// Grass shows grass on top, dirt underneath and the grass side elsewhere.
func TileFor(b BlockType, f Face) TileIndex {
	switch b {
	case BlockGrass:
		switch f {
		case FaceTop:
			return TileGrassTop
		case FaceBottom:
			return TileDirt
		}
		return TileGrassSide
	case BlockDirt:
		return TileDirt
	case BlockStone:
		return TileStone
	}
	return TileGrassTop
}

// UV is a tile rectangle in atlas texture space.
// Min is the bottom-left corner, Max the top-right one.
type UV struct {
	Min, Max mgl32.Vec2
}

// TileUV returns the texture rectangle of slot idx in a single-row atlas.
func TileUV(idx TileIndex) UV {
	w := 1 / float32(TileCount)
	return UV{
		Min: mgl32.Vec2{float32(idx) * w, 0},
		Max: mgl32.Vec2{float32(idx+1) * w, 1},
	}
}

// Map converts tile-local coordinates in [0,1]^2 to atlas coordinates.
func (uv UV) Map(local mgl32.Vec2) mgl32.Vec2 {
	size := uv.Max.Sub(uv.Min)
	return uv.Min.Add(mgl32.Vec2{local.X() * size.X(), local.Y() * size.Y()})
}
