package blockatlas

import (
	"fmt"
	"math"
	"math/rand/v2"

	"gonum.org/v1/gonum/mat"
)

const (
	// Seed stride between successive fBm octaves.
	octaveSeedStride = 137
	// Control cells per axis may not exceed max(minGridCap, 4*extent+2).
	// Below a quarter pixel per cell the extra points are never sampled.
	minGridCap = 4096
	// PCG stream selector shared by every noise grid.
	pcgStream = 0x9e3779b97f4a7c15
)

// NoiseLayer describes one fractal noise field.
type NoiseLayer struct {
	// Number of value-noise fields summed. Must be positive.
	Octaves int
	// Scale divisor between successive octaves (2 doubles the detail each octave).
	Lacunarity float64
	// Amplitude multiplier between successive octaves.
	Gain float64
	// Average distance in pixels between control points of the first octave.
	BaseScale float64
	// Added to the root seed; octave k then uses root+SeedOffset+k*137.
	SeedOffset int64
}

func (l NoiseLayer) Validate() error {
	switch {
	case l.Octaves <= 0:
		return fmt.Errorf("%w: octaves must be positive, got %d", ErrInvalidParameter, l.Octaves)
	case !(l.Lacunarity > 0) || math.IsInf(l.Lacunarity, 0):
		return fmt.Errorf("%w: lacunarity must be positive, got %g", ErrInvalidParameter, l.Lacunarity)
	case !(l.Gain >= 0) || math.IsInf(l.Gain, 0):
		return fmt.Errorf("%w: gain must be non-negative, got %g", ErrInvalidParameter, l.Gain)
	case !(l.BaseScale > 0) || math.IsInf(l.BaseScale, 0):
		return fmt.Errorf("%w: base scale must be positive, got %g", ErrInvalidParameter, l.BaseScale)
	}
	return nil
}

// noiseGrid holds the tileable control points of one value-noise field.
// The last row and column repeat the first ones.
type noiseGrid struct {
	cellsX, cellsY int
	points         *mat.Dense // (cellsY+1) x (cellsX+1)
}

func gridCells(extent int, scale float64) int {
	return max(2, int(math.Ceil(float64(extent)/scale))+1)
}

func gridCap(extent int) int {
	return max(minGridCap, 4*extent+2)
}

func newNoiseGrid(width, height int, scale float64, seed int64) (*noiseGrid, error) {
	cx, cy := gridCells(width, scale), gridCells(height, scale)
	if cx > gridCap(width) || cy > gridCap(height) {
		return nil, fmt.Errorf("%w: scale %g too small for a %dx%d field", ErrInvalidParameter, scale, width, height)
	}
	rng := rand.New(rand.NewPCG(uint64(seed), pcgStream))
	points := mat.NewDense(cy+1, cx+1, nil)
	for r := range cy + 1 {
		for c := range cx + 1 {
			points.Set(r, c, rng.Float64())
		}
	}
	for c := range cx + 1 {
		points.Set(cy, c, points.At(0, c))
	}
	for r := range cy + 1 {
		points.Set(r, cx, points.At(r, 0))
	}
	return &noiseGrid{cellsX: cx, cellsY: cy, points: points}, nil
}

// fade is the quintic smoothstep 6t^5 - 15t^4 + 10t^3.
// The float64 conversions round every product, so no multiply-add is fused
// and fields are identical on every architecture.
func fade(t float64) float64 {
	p := float64(t*6) - 15
	p = float64(t*p) + 10
	return t * t * t * p
}

// lerp mixes a and b by w without fused multiply-adds.
func lerp(a, b, w float64) float64 {
	return float64(a*(1-w)) + float64(b*w)
}

// cellOf splits a grid coordinate into a cell index and fractional offset.
// A coordinate on the far edge belongs to the last cell with offset 1.
func cellOf(g float64, cells int) (int, float64) {
	i := int(math.Floor(g))
	if i >= cells {
		return cells - 1, 1
	}
	if i < 0 {
		return 0, 0
	}
	return i, g - float64(i)
}

// sample interpolates the grid at grid coordinates (gx, gy), both in [0, cells].
func (g *noiseGrid) sample(gx, gy float64) float64 {
	xi, tx := cellOf(gx, g.cellsX)
	yi, ty := cellOf(gy, g.cellsY)
	xf, yf := fade(tx), fade(ty)

	top := lerp(g.points.At(yi, xi), g.points.At(yi, xi+1), xf)
	bot := lerp(g.points.At(yi+1, xi), g.points.At(yi+1, xi+1), xf)
	return lerp(top, bot, yf)
}

// ValueNoise returns a height x width field of tileable value noise in [0,1].
// scale is the average distance in pixels between control points. The field
// spans a whole number of grid cells on both axes, so one column past the
// right edge lands back on column 0.
func ValueNoise(width, height int, scale float64, seed int64) (*mat.Dense, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: noise size must be positive, got %dx%d", ErrInvalidParameter, width, height)
	}
	if !(scale > 0) || math.IsInf(scale, 0) {
		return nil, fmt.Errorf("%w: noise scale must be positive, got %g", ErrInvalidParameter, scale)
	}
	grid, err := newNoiseGrid(width, height, scale, seed)
	if err != nil {
		return nil, err
	}

	stepX := float64(grid.cellsX) / float64(width)
	stepY := float64(grid.cellsY) / float64(height)
	field := mat.NewDense(height, width, nil)
	for y := range height {
		gy := float64(y) * stepY
		for x := range width {
			field.Set(y, x, grid.sample(float64(x)*stepX, gy))
		}
	}
	return field, nil
}

// FBM sums layer.Octaves value-noise fields, each at 1/Lacunarity the scale
// and Gain times the amplitude of the previous one, and divides by the total
// amplitude. The result is not clipped.
func FBM(width, height int, layer NoiseLayer, seed int64) (*mat.Dense, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: fbm size must be positive, got %dx%d", ErrInvalidParameter, width, height)
	}
	if err := layer.Validate(); err != nil {
		return nil, err
	}

	base := seed + layer.SeedOffset
	sum := mat.NewDense(height, width, nil)
	amp, scale, total := 1.0, layer.BaseScale, 0.0
	for k := range layer.Octaves {
		octave, err := ValueNoise(width, height, scale, base+int64(k)*octaveSeedStride)
		if err != nil {
			return nil, fmt.Errorf("fbm octave %d: %w", k, err)
		}
		octave.Scale(amp, octave)
		sum.Add(sum, octave)
		total += amp
		amp *= layer.Gain
		scale /= layer.Lacunarity
	}
	sum.Scale(1/total, sum)
	return sum, nil
}
