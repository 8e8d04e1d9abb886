package blockatlas

import (
	"fmt"
	"math"
	"slices"
)

// ChannelMix is one color channel written as Base + sum(Weights[i] * layer_i).
type ChannelMix struct {
	Base    float64
	Weights []float64
}

func (m ChannelMix) eval(fields []float64) float64 {
	v := m.Base
	for i, w := range m.Weights {
		v += float64(w * fields[i])
	}
	return v
}

func (m ChannelMix) clone() ChannelMix {
	m.Weights = slices.Clone(m.Weights)
	return m
}

// ChannelMaterial is a tile whose red, green and blue channels are each a
// linear mix of the same noise layers.
type ChannelMaterial struct {
	Layers []NoiseLayer
	// Red, green and blue mixes. Each needs one weight per layer.
	Channels [3]ChannelMix
	// Gaussian blur sigma in pixels applied to the finished tile. Zero disables it.
	Blur float64
}

// StoneMaterial is a grayscale mix darkened along thresholded crack noise.
type StoneMaterial struct {
	Layers []NoiseLayer
	Gray   ChannelMix
	// High frequency field whose low values mark cracks.
	Cracks NoiseLayer
	// Pixels whose crack value is below CrackThreshold lose CrackDepth gray levels.
	CrackThreshold float64
	CrackDepth     float64
	// Added to the quantized gray value per channel (red, green, blue).
	Tint [3]int
	Blur float64
}

// SideMaterial places a wavy grass/dirt boundary row per column.
// Fractions are relative to the tile height.
type SideMaterial struct {
	// 1D noise driving the boundary height.
	Boundary NoiseLayer
	// Nominal boundary fraction and how far the noise pushes it down.
	BandTop   float64
	BandDepth float64
	// Clip range for the boundary row.
	MinRow float64
	MaxRow float64
	// Blend width is max(MinBlend, TileSize/BlendDivisor) pixels.
	MinBlend     int
	BlendDivisor int
}

// Materials groups the coefficients of all four tiles.
type Materials struct {
	GrassTop  ChannelMaterial
	Dirt      ChannelMaterial
	GrassSide SideMaterial
	Stone     StoneMaterial
}

func octaves(n int, baseScale float64, seedOffset int64) NoiseLayer {
	return NoiseLayer{
		Octaves:    n,
		Lacunarity: 2,
		Gain:       0.5,
		BaseScale:  baseScale,
		SeedOffset: seedOffset,
	}
}

func DefaultMaterials() Materials {
	return Materials{
		GrassTop: ChannelMaterial{
			Layers: []NoiseLayer{
				octaves(5, 80, 10), // broad color variation
				octaves(3, 40, 20),
				octaves(6, 16, 30), // fine detail
			},
			Channels: [3]ChannelMix{
				{Base: 75, Weights: []float64{30, 0, 12}},
				{Base: 140, Weights: []float64{40, 20, -8}},
				{Base: 35, Weights: []float64{0, 15, 8}},
			},
			Blur: 0.5,
		},
		Dirt: ChannelMaterial{
			Layers: []NoiseLayer{
				octaves(5, 64, 50),
				octaves(4, 24, 60),
				octaves(6, 10, 70), // granular
			},
			Channels: [3]ChannelMix{
				{Base: 130, Weights: []float64{28, -10, 14}},
				{Base: 92, Weights: []float64{20, -8, 10}},
				{Base: 62, Weights: []float64{14, 0, 8}},
			},
			Blur: 0.4,
		},
		GrassSide: SideMaterial{
			Boundary:     octaves(4, 64, 80),
			BandTop:      0.20,
			BandDepth:    0.15,
			MinRow:       0.10,
			MaxRow:       0.40,
			MinBlend:     4,
			BlendDivisor: 80,
		},
		Stone: StoneMaterial{
			Layers: []NoiseLayer{
				octaves(5, 80, 90),
				octaves(4, 32, 100),
				octaves(6, 12, 110),
			},
			Gray:           ChannelMix{Base: 125, Weights: []float64{35, -15, 12}},
			Cracks:         octaves(3, 8, 120),
			CrackThreshold: 0.30,
			CrackDepth:     18,
			Tint:           [3]int{2, 0, -1},
			Blur:           0.3,
		},
	}
}

// Scaled returns a deep copy with every noise base scale multiplied by f.
func (m Materials) Scaled(f float64) Materials {
	scale := func(layers []NoiseLayer) []NoiseLayer {
		out := slices.Clone(layers)
		for i := range out {
			out[i].BaseScale *= f
		}
		return out
	}
	out := m.clone()
	out.GrassTop.Layers = scale(out.GrassTop.Layers)
	out.Dirt.Layers = scale(out.Dirt.Layers)
	out.Stone.Layers = scale(out.Stone.Layers)
	out.Stone.Cracks.BaseScale *= f
	out.GrassSide.Boundary.BaseScale *= f
	return out
}

func (m Materials) clone() Materials {
	cloneChannels := func(c ChannelMaterial) ChannelMaterial {
		c.Layers = slices.Clone(c.Layers)
		for i := range c.Channels {
			c.Channels[i] = c.Channels[i].clone()
		}
		return c
	}
	m.GrassTop = cloneChannels(m.GrassTop)
	m.Dirt = cloneChannels(m.Dirt)
	m.Stone.Layers = slices.Clone(m.Stone.Layers)
	m.Stone.Gray = m.Stone.Gray.clone()
	return m
}

func (m Materials) Validate() error {
	if err := m.GrassTop.validate("grass_top"); err != nil {
		return err
	}
	if err := m.Dirt.validate("dirt"); err != nil {
		return err
	}
	if err := m.GrassSide.validate(); err != nil {
		return err
	}
	return m.Stone.validate()
}

func validateLayers(name string, layers []NoiseLayer) error {
	if len(layers) == 0 {
		return fmt.Errorf("%w: %s needs at least one noise layer", ErrInvalidParameter, name)
	}
	for i, l := range layers {
		if err := l.Validate(); err != nil {
			return fmt.Errorf("%s.layers[%d]: %w", name, i, err)
		}
	}
	return nil
}

func validateMix(name string, mix ChannelMix, layers int) error {
	if len(mix.Weights) != layers {
		return fmt.Errorf("%w: %s has %d weights for %d layers", ErrInvalidParameter, name, len(mix.Weights), layers)
	}
	return nil
}

func validateBlur(name string, sigma float64) error {
	if !(sigma >= 0) || math.IsInf(sigma, 0) {
		return fmt.Errorf("%w: %s.blur must be non-negative, got %g", ErrInvalidParameter, name, sigma)
	}
	return nil
}

func (c ChannelMaterial) validate(name string) error {
	if err := validateLayers(name, c.Layers); err != nil {
		return err
	}
	for i, mix := range c.Channels {
		if err := validateMix(fmt.Sprintf("%s.channels[%d]", name, i), mix, len(c.Layers)); err != nil {
			return err
		}
	}
	return validateBlur(name, c.Blur)
}

func (s SideMaterial) validate() error {
	if err := s.Boundary.Validate(); err != nil {
		return fmt.Errorf("grass_side.boundary: %w", err)
	}
	for name, v := range map[string]float64{"band_top": s.BandTop, "band_depth": s.BandDepth, "min_row": s.MinRow, "max_row": s.MaxRow} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("%w: grass_side %s must be finite, got %g", ErrInvalidParameter, name, v)
		}
	}
	if s.MinRow < 0 || s.MaxRow > 1 || s.MinRow > s.MaxRow {
		return fmt.Errorf("%w: grass_side row clip [%g,%g] must lie within [0,1]", ErrInvalidParameter, s.MinRow, s.MaxRow)
	}
	if s.MinBlend <= 0 || s.BlendDivisor <= 0 {
		return fmt.Errorf("%w: grass_side blend width must be positive", ErrInvalidParameter)
	}
	return nil
}

func (s StoneMaterial) validate() error {
	if err := validateLayers("stone", s.Layers); err != nil {
		return err
	}
	if err := validateMix("stone.gray", s.Gray, len(s.Layers)); err != nil {
		return err
	}
	if err := s.Cracks.Validate(); err != nil {
		return fmt.Errorf("stone.cracks: %w", err)
	}
	return validateBlur("stone", s.Blur)
}
