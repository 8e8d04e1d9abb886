package blockatlas

import (
	"fmt"
	"image"

	"github.com/disintegration/imaging"
	"github.com/lucasb-eyer/go-colorful"
	"golang.org/x/image/draw"
)

// clampByte clips to [0,255] and truncates, never wraps.
func clampByte(v float64) uint8 {
	return uint8(max(0, min(255, v)))
}

// layerFields renders each layer as a size x size fBm field and returns the
// row-major backing data of each.
func layerFields(size int, layers []NoiseLayer, seed int64) ([][]float64, error) {
	fields := make([][]float64, len(layers))
	for i, l := range layers {
		f, err := FBM(size, size, l, seed)
		if err != nil {
			return nil, fmt.Errorf("layer %d: %w", i, err)
		}
		fields[i] = f.RawMatrix().Data
	}
	return fields, nil
}

func blur(img *image.RGBA, sigma float64) *image.RGBA {
	if sigma <= 0 {
		return img
	}
	soft := imaging.Blur(img, sigma)
	out := image.NewRGBA(soft.Bounds())
	draw.Draw(out, out.Bounds(), soft, soft.Bounds().Min, draw.Src)
	return out
}

func mixTile(size int, seed int64, m ChannelMaterial) (*image.RGBA, error) {
	fields, err := layerFields(size, m.Layers, seed)
	if err != nil {
		return nil, err
	}
	img := image.NewRGBA(image.Rect(0, 0, size, size))
	vals := make([]float64, len(fields))
	for y := range size {
		for x := range size {
			i := y*size + x
			for l := range fields {
				vals[l] = fields[l][i]
			}
			off := img.PixOffset(x, y)
			img.Pix[off+0] = clampByte(m.Channels[0].eval(vals))
			img.Pix[off+1] = clampByte(m.Channels[1].eval(vals))
			img.Pix[off+2] = clampByte(m.Channels[2].eval(vals))
			img.Pix[off+3] = 255
		}
	}
	return blur(img, m.Blur), nil
}

// GrassTop renders the grass-top tile: greens with broad and fine variation.
func GrassTop(opt Options) (*image.RGBA, error) {
	if err := opt.Validate(); err != nil {
		return nil, err
	}
	img, err := mixTile(opt.TileSize, opt.Seed, opt.Materials.GrassTop)
	if err != nil {
		return nil, fmt.Errorf("grass top: %w", err)
	}
	return img, nil
}

// Dirt renders the dirt tile: warm browns with granular detail.
func Dirt(opt Options) (*image.RGBA, error) {
	if err := opt.Validate(); err != nil {
		return nil, err
	}
	img, err := mixTile(opt.TileSize, opt.Seed, opt.Materials.Dirt)
	if err != nil {
		return nil, fmt.Errorf("dirt: %w", err)
	}
	return img, nil
}

// BoundaryRows returns, for every column of the grass-side tile, the row where
// grass starts turning into dirt.
func BoundaryRows(opt Options) ([]int, error) {
	if err := opt.Validate(); err != nil {
		return nil, err
	}
	s, size := opt.Materials.GrassSide, opt.TileSize
	noise, err := FBM(size, 1, s.Boundary, opt.Seed)
	if err != nil {
		return nil, fmt.Errorf("grass side boundary: %w", err)
	}
	tile := float64(size)
	lo, hi := int(tile*s.MinRow), int(tile*s.MaxRow)
	rows := make([]int, size)
	for x := range size {
		r := int(tile*s.BandTop + noise.At(0, x)*tile*s.BandDepth)
		rows[x] = min(hi, max(lo, r))
	}
	return rows, nil
}

// BlendWidth is the number of rows over which grass fades into dirt.
func BlendWidth(size int, s SideMaterial) int {
	return max(s.MinBlend, size/s.BlendDivisor)
}

// BlendFactor is the dirt weight of row y for a column whose boundary is at
// row: 0 at and above the boundary, rising linearly to 1 over width rows.
func BlendFactor(y, row, width int) float64 {
	return min(1, max(0, float64(y-row)/float64(width)))
}

func rgbAt(img *image.RGBA, x, y int) colorful.Color {
	p := img.Pix[img.PixOffset(x, y):]
	// Kept in byte scale; BlendRgb is a plain per-channel lerp.
	return colorful.Color{R: float64(p[0]), G: float64(p[1]), B: float64(p[2])}
}

// GrassSide renders the grass-side tile: grass on top fading into dirt along a
// jagged per-column boundary.
func GrassSide(opt Options) (*image.RGBA, error) {
	dirt, err := Dirt(opt)
	if err != nil {
		return nil, err
	}
	grass, err := GrassTop(opt)
	if err != nil {
		return nil, err
	}
	rows, err := BoundaryRows(opt)
	if err != nil {
		return nil, err
	}

	size := opt.TileSize
	width := BlendWidth(size, opt.Materials.GrassSide)
	img := image.NewRGBA(image.Rect(0, 0, size, size))
	for y := range size {
		for x := range size {
			a := BlendFactor(y, rows[x], width)
			c := rgbAt(grass, x, y).BlendRgb(rgbAt(dirt, x, y), a)
			off := img.PixOffset(x, y)
			img.Pix[off+0] = clampByte(c.R)
			img.Pix[off+1] = clampByte(c.G)
			img.Pix[off+2] = clampByte(c.B)
			img.Pix[off+3] = 255
		}
	}
	return img, nil
}

// Stone renders the stone tile: grays with thresholded cracks and a slight
// warm tint.
func Stone(opt Options) (*image.RGBA, error) {
	if err := opt.Validate(); err != nil {
		return nil, err
	}
	m, size := opt.Materials.Stone, opt.TileSize
	fields, err := layerFields(size, m.Layers, opt.Seed)
	if err != nil {
		return nil, fmt.Errorf("stone: %w", err)
	}
	cracks, err := FBM(size, size, m.Cracks, opt.Seed)
	if err != nil {
		return nil, fmt.Errorf("stone cracks: %w", err)
	}
	crack := cracks.RawMatrix().Data

	img := image.NewRGBA(image.Rect(0, 0, size, size))
	vals := make([]float64, len(fields))
	for y := range size {
		for x := range size {
			i := y*size + x
			for l := range fields {
				vals[l] = fields[l][i]
			}
			gray := m.Gray.eval(vals)
			if crack[i] < m.CrackThreshold {
				gray -= m.CrackDepth
			}
			v := float64(clampByte(gray))
			off := img.PixOffset(x, y)
			img.Pix[off+0] = clampByte(v + float64(m.Tint[0]))
			img.Pix[off+1] = clampByte(v + float64(m.Tint[1]))
			img.Pix[off+2] = clampByte(v + float64(m.Tint[2]))
			img.Pix[off+3] = 255
		}
	}
	return blur(img, m.Blur), nil
}

// Synthesize renders the tile at atlas slot idx.
func Synthesize(idx TileIndex, opt Options) (*image.RGBA, error) {
	switch idx {
	case TileGrassTop:
		return GrassTop(opt)
	case TileGrassSide:
		return GrassSide(opt)
	case TileDirt:
		return Dirt(opt)
	case TileStone:
		return Stone(opt)
	}
	return nil, fmt.Errorf("%w: unknown tile %d", ErrInvalidParameter, idx)
}
