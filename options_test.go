package blockatlas

import (
	"errors"
	"image"
	"image/color"
	"math"
	"testing"

	"gonum.org/v1/gonum/mat"
)

func TestDefaultOptionsValid(t *testing.T) {
	opt := DefaultOptions()
	if err := opt.Validate(); err != nil {
		t.Fatalf("Validate() = %v", err)
	}
	if opt.TileSize != 512 || opt.Seed != 42 {
		t.Fatalf("defaults = tile %d seed %d, want 512 and 42", opt.TileSize, opt.Seed)
	}
}

func TestOptionsFromSize(t *testing.T) {
	opt := OptionsFromSize(256)
	if opt.TileSize != 256 {
		t.Fatalf("TileSize = %d, want 256", opt.TileSize)
	}
	if got := opt.Materials.GrassTop.Layers[0].BaseScale; got != 40 {
		t.Fatalf("grass top base scale = %g, want 40", got)
	}
	if got := opt.Materials.Stone.Cracks.BaseScale; got != 4 {
		t.Fatalf("crack base scale = %g, want 4", got)
	}

	opt.Materials.Dirt.Channels[0].Weights[0] = -1
	if DefaultMaterials().Dirt.Channels[0].Weights[0] != 28 {
		t.Fatal("OptionsFromSize shares weights with the defaults")
	}

	if got := OptionsFromSize(0).TileSize; got != DefaultTileSize {
		t.Fatalf("OptionsFromSize(0).TileSize = %d, want %d", got, DefaultTileSize)
	}
}

func TestOptionsValidateRejectsTileSize(t *testing.T) {
	opt := DefaultOptions()
	opt.TileSize = 0
	if err := opt.Validate(); !errors.Is(err, ErrInvalidParameter) {
		t.Fatalf("Validate() = %v, want ErrInvalidParameter", err)
	}
}

func TestFieldRange(t *testing.T) {
	f := mat.NewDense(2, 3, []float64{0.5, -0.25, 1.5, 0, 0.75, 1})
	lo, hi := FieldRange(f)
	if lo != -0.25 || hi != 1.5 {
		t.Fatalf("FieldRange = [%g,%g], want [-0.25,1.5]", lo, hi)
	}
}

func TestLumaStats(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 4, 4))
	for y := range 4 {
		for x := range 4 {
			img.SetRGBA(x, y, color.RGBA{R: 128, G: 128, B: 128, A: 255})
		}
	}
	s := LumaStats(img)
	if math.Abs(s.Mean-128) > 1e-6 || math.Abs(s.StdDev) > 1e-6 {
		t.Fatalf("LumaStats = %+v, want mean 128 stddev 0", s)
	}

	img.SetRGBA(0, 0, color.RGBA{A: 255})
	if got := LumaStats(img); got.Mean >= 128 || got.StdDev <= 0 {
		t.Fatalf("LumaStats with a black pixel = %+v", got)
	}
}
