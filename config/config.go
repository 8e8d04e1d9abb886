package config

import (
	"fmt"
	"math"
	"os"

	"github.com/lucasb-eyer/go-colorful"
	"gopkg.in/yaml.v3"

	"github.com/setanarut/blockatlas"
)

// Profile is a material override file. Omitted sections keep their defaults.
type Profile struct {
	TileSize  int             `yaml:"tile_size,omitempty"`
	Seed      *int64          `yaml:"seed,omitempty"`
	GrassTop  *ChannelProfile `yaml:"grass_top,omitempty"`
	Dirt      *ChannelProfile `yaml:"dirt,omitempty"`
	GrassSide *SideProfile    `yaml:"grass_side,omitempty"`
	Stone     *StoneProfile   `yaml:"stone,omitempty"`
}

// LayerProfile is one noise layer. Omitted lacunarity and gain default to 2
// and 0.5; an explicit 0 is kept.
type LayerProfile struct {
	Octaves    int      `yaml:"octaves"`
	Lacunarity *float64 `yaml:"lacunarity,omitempty"`
	Gain       *float64 `yaml:"gain,omitempty"`
	BaseScale  float64  `yaml:"base_scale"`
	SeedOffset int64    `yaml:"seed_offset"`
}

// ChannelProfile describes grass_top and dirt. Base is the hex color of the
// per-channel offsets; Red, Green and Blue hold one weight per layer.
type ChannelProfile struct {
	Base   string         `yaml:"base"`
	Layers []LayerProfile `yaml:"layers"`
	Red    []float64      `yaml:"red"`
	Green  []float64      `yaml:"green"`
	Blue   []float64      `yaml:"blue"`
	Blur   float64        `yaml:"blur"`
}

type StoneProfile struct {
	Base           float64        `yaml:"base"`
	Layers         []LayerProfile `yaml:"layers"`
	Weights        []float64      `yaml:"weights"`
	Cracks         LayerProfile   `yaml:"cracks"`
	CrackThreshold float64        `yaml:"crack_threshold"`
	CrackDepth     float64        `yaml:"crack_depth"`
	Tint           []int          `yaml:"tint"`
	Blur           float64        `yaml:"blur"`
}

type SideProfile struct {
	Boundary     LayerProfile `yaml:"boundary"`
	BandTop      float64      `yaml:"band_top"`
	BandDepth    float64      `yaml:"band_depth"`
	MinRow       float64      `yaml:"min_row"`
	MaxRow       float64      `yaml:"max_row"`
	MinBlend     int          `yaml:"min_blend"`
	BlendDivisor int          `yaml:"blend_divisor"`
}

func Load(path string) (*Profile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read profile: %w", err)
	}
	var p Profile
	if err := yaml.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("parse profile: %w", err)
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return &p, nil
}

func (p *Profile) Validate() error {
	if p.TileSize < 0 {
		return fmt.Errorf("tile_size cannot be negative")
	}
	_, err := p.Apply(blockatlas.DefaultOptions())
	return err
}

// Apply returns opt with every section present in p replaced. A tile_size
// different from opt's rescales the noise of the sections p omits, the way
// OptionsFromSize does.
func (p *Profile) Apply(opt blockatlas.Options) (blockatlas.Options, error) {
	if p.TileSize > 0 && p.TileSize != opt.TileSize {
		if opt.TileSize > 0 {
			opt.Materials = opt.Materials.Scaled(float64(p.TileSize) / float64(opt.TileSize))
		}
		opt.TileSize = p.TileSize
	}
	if p.Seed != nil {
		opt.Seed = *p.Seed
	}
	if p.GrassTop != nil {
		m, err := p.GrassTop.material()
		if err != nil {
			return opt, fmt.Errorf("grass_top: %w", err)
		}
		opt.Materials.GrassTop = m
	}
	if p.Dirt != nil {
		m, err := p.Dirt.material()
		if err != nil {
			return opt, fmt.Errorf("dirt: %w", err)
		}
		opt.Materials.Dirt = m
	}
	if p.GrassSide != nil {
		opt.Materials.GrassSide = p.GrassSide.material()
	}
	if p.Stone != nil {
		m, err := p.Stone.material()
		if err != nil {
			return opt, fmt.Errorf("stone: %w", err)
		}
		opt.Materials.Stone = m
	}
	if err := opt.Validate(); err != nil {
		return opt, err
	}
	return opt, nil
}

func (l LayerProfile) layer() blockatlas.NoiseLayer {
	lacunarity, gain := 2.0, 0.5
	if l.Lacunarity != nil {
		lacunarity = *l.Lacunarity
	}
	if l.Gain != nil {
		gain = *l.Gain
	}
	return blockatlas.NoiseLayer{
		Octaves:    l.Octaves,
		Lacunarity: lacunarity,
		Gain:       gain,
		BaseScale:  l.BaseScale,
		SeedOffset: l.SeedOffset,
	}
}

func layers(ls []LayerProfile) []blockatlas.NoiseLayer {
	out := make([]blockatlas.NoiseLayer, len(ls))
	for i, l := range ls {
		out[i] = l.layer()
	}
	return out
}

func (c *ChannelProfile) material() (blockatlas.ChannelMaterial, error) {
	base, err := colorful.Hex(c.Base)
	if err != nil {
		return blockatlas.ChannelMaterial{}, fmt.Errorf("base must be a #rrggbb color: %w", err)
	}
	level := func(v float64) float64 { return math.Round(v * 255) }
	return blockatlas.ChannelMaterial{
		Layers: layers(c.Layers),
		Channels: [3]blockatlas.ChannelMix{
			{Base: level(base.R), Weights: c.Red},
			{Base: level(base.G), Weights: c.Green},
			{Base: level(base.B), Weights: c.Blue},
		},
		Blur: c.Blur,
	}, nil
}

func (s *SideProfile) material() blockatlas.SideMaterial {
	return blockatlas.SideMaterial{
		Boundary:     s.Boundary.layer(),
		BandTop:      s.BandTop,
		BandDepth:    s.BandDepth,
		MinRow:       s.MinRow,
		MaxRow:       s.MaxRow,
		MinBlend:     s.MinBlend,
		BlendDivisor: s.BlendDivisor,
	}
}

func (s *StoneProfile) material() (blockatlas.StoneMaterial, error) {
	if len(s.Tint) != 0 && len(s.Tint) != 3 {
		return blockatlas.StoneMaterial{}, fmt.Errorf("tint needs 3 values, got %d", len(s.Tint))
	}
	var tint [3]int
	copy(tint[:], s.Tint)
	return blockatlas.StoneMaterial{
		Layers:         layers(s.Layers),
		Gray:           blockatlas.ChannelMix{Base: s.Base, Weights: s.Weights},
		Cracks:         s.Cracks.layer(),
		CrackThreshold: s.CrackThreshold,
		CrackDepth:     s.CrackDepth,
		Tint:           tint,
		Blur:           s.Blur,
	}, nil
}

// FromOptions describes opt as a complete profile, for use as a template.
func FromOptions(opt blockatlas.Options) *Profile {
	m := opt.Materials
	seed := opt.Seed
	return &Profile{
		TileSize:  opt.TileSize,
		Seed:      &seed,
		GrassTop:  channelProfile(m.GrassTop),
		Dirt:      channelProfile(m.Dirt),
		GrassSide: sideProfile(m.GrassSide),
		Stone:     stoneProfile(m.Stone),
	}
}

func layerProfiles(ls []blockatlas.NoiseLayer) []LayerProfile {
	out := make([]LayerProfile, len(ls))
	for i, l := range ls {
		out[i] = layerProfile(l)
	}
	return out
}

func layerProfile(l blockatlas.NoiseLayer) LayerProfile {
	return LayerProfile{
		Octaves:    l.Octaves,
		Lacunarity: &l.Lacunarity,
		Gain:       &l.Gain,
		BaseScale:  l.BaseScale,
		SeedOffset: l.SeedOffset,
	}
}

func channelProfile(m blockatlas.ChannelMaterial) *ChannelProfile {
	ch := m.Channels
	base := colorful.Color{R: ch[0].Base / 255, G: ch[1].Base / 255, B: ch[2].Base / 255}
	return &ChannelProfile{
		Base:   base.Clamped().Hex(),
		Layers: layerProfiles(m.Layers),
		Red:    ch[0].Weights,
		Green:  ch[1].Weights,
		Blue:   ch[2].Weights,
		Blur:   m.Blur,
	}
}

func sideProfile(s blockatlas.SideMaterial) *SideProfile {
	return &SideProfile{
		Boundary:     layerProfile(s.Boundary),
		BandTop:      s.BandTop,
		BandDepth:    s.BandDepth,
		MinRow:       s.MinRow,
		MaxRow:       s.MaxRow,
		MinBlend:     s.MinBlend,
		BlendDivisor: s.BlendDivisor,
	}
}

func stoneProfile(s blockatlas.StoneMaterial) *StoneProfile {
	return &StoneProfile{
		Base:           s.Gray.Base,
		Layers:         layerProfiles(s.Layers),
		Weights:        s.Gray.Weights,
		Cracks:         layerProfile(s.Cracks),
		CrackThreshold: s.CrackThreshold,
		CrackDepth:     s.CrackDepth,
		Tint:           s.Tint[:],
		Blur:           s.Blur,
	}
}
