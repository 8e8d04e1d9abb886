package blockatlas

import (
	"bytes"
	"errors"
	"image"
	"image/png"
	"math"
	"os"
	"path/filepath"
	"testing"

	"golang.org/x/image/draw"
)

func testOptions() Options {
	return OptionsFromSize(32)
}

func TestSynthesizersDeterministic(t *testing.T) {
	opt := testOptions()
	for _, idx := range TileOrder {
		t.Run(idx.String(), func(t *testing.T) {
			a, err := Synthesize(idx, opt)
			if err != nil {
				t.Fatalf("Synthesize: %v", err)
			}
			b, err := Synthesize(idx, opt)
			if err != nil {
				t.Fatalf("Synthesize: %v", err)
			}
			if !bytes.Equal(a.Pix, b.Pix) {
				t.Fatal("tile differs between runs")
			}

			reseeded := opt
			reseeded.Seed++
			c, err := Synthesize(idx, reseeded)
			if err != nil {
				t.Fatalf("Synthesize: %v", err)
			}
			if bytes.Equal(a.Pix, c.Pix) {
				t.Fatal("changing the root seed did not change the tile")
			}
		})
	}
}

func TestSynthesizersProduceOpaqueSquareTiles(t *testing.T) {
	opt := testOptions()
	for _, idx := range TileOrder {
		img, err := Synthesize(idx, opt)
		if err != nil {
			t.Fatalf("Synthesize(%s): %v", idx, err)
		}
		if got := img.Bounds(); got != image.Rect(0, 0, 32, 32) {
			t.Fatalf("%s bounds = %v, want 32x32", idx, got)
		}
		for i := 3; i < len(img.Pix); i += 4 {
			if img.Pix[i] != 255 {
				t.Fatalf("%s pixel %d alpha = %d, want 255", idx, i/4, img.Pix[i])
			}
		}
	}
}

func TestGrassTopFollowsChannelMix(t *testing.T) {
	opt := testOptions()
	opt.Materials.GrassTop.Blur = 0
	img, err := GrassTop(opt)
	if err != nil {
		t.Fatalf("GrassTop: %v", err)
	}

	m := opt.Materials.GrassTop
	fields, err := layerFields(opt.TileSize, m.Layers, opt.Seed)
	if err != nil {
		t.Fatalf("layerFields: %v", err)
	}
	for y := range opt.TileSize {
		for x := range opt.TileSize {
			i := y*opt.TileSize + x
			n1, n2, n3 := fields[0][i], fields[1][i], fields[2][i]
			want := [3]uint8{
				clampByte(75 + 30*n1 + 0*n2 + 12*n3),
				clampByte(140 + 40*n1 + 20*n2 - 8*n3),
				clampByte(35 + 0*n1 + 15*n2 + 8*n3),
			}
			p := img.Pix[img.PixOffset(x, y):]
			for c := range 3 {
				// Allow one level for fused multiply-add on some architectures.
				if d := int(p[c]) - int(want[c]); d < -1 || d > 1 {
					t.Fatalf("pixel (%d,%d) = %v, want %v", x, y, p[:3], want)
				}
			}
		}
	}
}

func TestClampByteClipsInsteadOfWrapping(t *testing.T) {
	tests := map[float64]uint8{
		-40:   0,
		0:     0,
		127.9: 127,
		255:   255,
		300:   255,
	}
	for in, want := range tests {
		if got := clampByte(in); got != want {
			t.Errorf("clampByte(%v) = %d, want %d", in, got, want)
		}
	}
}

func TestBoundaryRowsStayInBand(t *testing.T) {
	opt := OptionsFromSize(64)
	rows, err := BoundaryRows(opt)
	if err != nil {
		t.Fatalf("BoundaryRows: %v", err)
	}
	if len(rows) != 64 {
		t.Fatalf("len(rows) = %d, want 64", len(rows))
	}
	tile := float64(opt.TileSize)
	lo, hi := int(tile*0.10), int(tile*0.40)
	for x, r := range rows {
		if r < lo || r > hi {
			t.Errorf("column %d boundary row %d outside [%d,%d]", x, r, lo, hi)
		}
	}
}

func TestBlendWidth(t *testing.T) {
	s := DefaultMaterials().GrassSide
	tests := map[int]int{16: 4, 320: 4, 512: 6, 1024: 12}
	for size, want := range tests {
		if got := BlendWidth(size, s); got != want {
			t.Errorf("BlendWidth(%d) = %d, want %d", size, got, want)
		}
	}
}

func TestBlendFactorMonotone(t *testing.T) {
	opt := OptionsFromSize(64)
	rows, err := BoundaryRows(opt)
	if err != nil {
		t.Fatalf("BoundaryRows: %v", err)
	}
	width := BlendWidth(opt.TileSize, opt.Materials.GrassSide)
	for x, row := range rows {
		prev := 0.0
		for y := range opt.TileSize {
			a := BlendFactor(y, row, width)
			if a < prev {
				t.Fatalf("column %d: blend factor fell from %f to %f at row %d", x, prev, a, y)
			}
			if y <= row && a != 0 {
				t.Fatalf("column %d: blend factor %f above boundary row %d at row %d", x, a, row, y)
			}
			if y >= row+width && a != 1 {
				t.Fatalf("column %d: blend factor %f not saturated at row %d", x, a, y)
			}
			prev = a
		}
	}
}

func TestGrassSideBlendsGrassOverDirt(t *testing.T) {
	opt := testOptions()
	side, err := GrassSide(opt)
	if err != nil {
		t.Fatalf("GrassSide: %v", err)
	}
	grass, err := GrassTop(opt)
	if err != nil {
		t.Fatalf("GrassTop: %v", err)
	}
	dirt, err := Dirt(opt)
	if err != nil {
		t.Fatalf("Dirt: %v", err)
	}
	rows, err := BoundaryRows(opt)
	if err != nil {
		t.Fatalf("BoundaryRows: %v", err)
	}
	width := BlendWidth(opt.TileSize, opt.Materials.GrassSide)

	for x, row := range rows {
		for y := range opt.TileSize {
			off := side.PixOffset(x, y)
			got := side.Pix[off : off+4]
			switch {
			case y <= row:
				if !bytes.Equal(got, grass.Pix[off:off+4]) {
					t.Fatalf("(%d,%d) above boundary = %v, want grass %v", x, y, got, grass.Pix[off:off+4])
				}
			case y >= row+width:
				if !bytes.Equal(got, dirt.Pix[off:off+4]) {
					t.Fatalf("(%d,%d) below blend = %v, want dirt %v", x, y, got, dirt.Pix[off:off+4])
				}
			}
		}
	}
}

func TestStoneTintAndCracks(t *testing.T) {
	opt := testOptions()
	opt.Materials.Stone.Blur = 0
	cracked, err := Stone(opt)
	if err != nil {
		t.Fatalf("Stone: %v", err)
	}
	for i := 0; i < len(cracked.Pix); i += 4 {
		r, g, b := int(cracked.Pix[i]), int(cracked.Pix[i+1]), int(cracked.Pix[i+2])
		if r != min(255, g+2) || b != max(0, g-1) {
			t.Fatalf("pixel %d = (%d,%d,%d), want red +2 and blue -1 around gray", i/4, r, g, b)
		}
	}

	opt.Materials.Stone.CrackDepth = 0
	smooth, err := Stone(opt)
	if err != nil {
		t.Fatalf("Stone: %v", err)
	}
	darker := 0
	for i := 1; i < len(cracked.Pix); i += 4 {
		if cracked.Pix[i] > smooth.Pix[i] {
			t.Fatalf("pixel %d brighter with cracks: %d > %d", i/4, cracked.Pix[i], smooth.Pix[i])
		}
		if cracked.Pix[i] < smooth.Pix[i] {
			darker++
		}
	}
	if darker == 0 {
		t.Fatal("crack mask darkened no pixels")
	}
}

func TestStoneMatchesReference(t *testing.T) {
	opt := OptionsFromSize(64)
	opt.Seed = 42
	img, err := Stone(opt)
	if err != nil {
		t.Fatalf("Stone: %v", err)
	}

	f, err := os.Open(filepath.Join("testdata", "stone_64_seed42.png"))
	if err != nil {
		t.Fatalf("open reference: %v", err)
	}
	defer f.Close()
	ref, err := png.Decode(f)
	if err != nil {
		t.Fatalf("decode reference: %v", err)
	}
	want := image.NewRGBA(ref.Bounds())
	draw.Draw(want, want.Bounds(), ref, ref.Bounds().Min, draw.Src)

	if img.Bounds() != want.Bounds() {
		t.Fatalf("bounds = %v, reference %v", img.Bounds(), want.Bounds())
	}
	for y := range 64 {
		for x := range 64 {
			if got, w := img.RGBAAt(x, y), want.RGBAAt(x, y); got != w {
				t.Fatalf("pixel (%d,%d) = %v, reference %v", x, y, got, w)
			}
		}
	}
}

func TestStonePNGStable(t *testing.T) {
	opt := OptionsFromSize(64)
	opt.Seed = 42
	encode := func() []byte {
		img, err := Stone(opt)
		if err != nil {
			t.Fatalf("Stone: %v", err)
		}
		var buf bytes.Buffer
		if err := png.Encode(&buf, img); err != nil {
			t.Fatalf("png.Encode: %v", err)
		}
		return buf.Bytes()
	}
	if !bytes.Equal(encode(), encode()) {
		t.Fatal("stone PNG bytes differ between runs")
	}
}

func TestSynthesizersRejectInvalidOptions(t *testing.T) {
	tests := map[string]func(o *Options){
		"zero tile size":     func(o *Options) { o.TileSize = 0 },
		"negative tile size": func(o *Options) { o.TileSize = -8 },
		"zero octaves":       func(o *Options) { o.Materials.Dirt.Layers[0].Octaves = 0 },
		"missing weight":     func(o *Options) { o.Materials.GrassTop.Channels[1].Weights = []float64{1} },
		"negative blur":      func(o *Options) { o.Materials.Stone.Blur = -1 },
		"bad row clip":       func(o *Options) { o.Materials.GrassSide.MinRow = 0.9 },
		"zero blend width":   func(o *Options) { o.Materials.GrassSide.MinBlend = 0 },
		"nan band top":       func(o *Options) { o.Materials.GrassSide.BandTop = math.NaN() },
		"inf band depth":     func(o *Options) { o.Materials.GrassSide.BandDepth = math.Inf(1) },
		"nan min row":        func(o *Options) { o.Materials.GrassSide.MinRow = math.NaN() },
		"nan max row":        func(o *Options) { o.Materials.GrassSide.MaxRow = math.NaN() },
	}
	for name, mutate := range tests {
		t.Run(name, func(t *testing.T) {
			opt := testOptions()
			mutate(&opt)
			for _, idx := range TileOrder {
				if _, err := Synthesize(idx, opt); !errors.Is(err, ErrInvalidParameter) {
					t.Fatalf("Synthesize(%s) error = %v, want ErrInvalidParameter", idx, err)
				}
			}
		})
	}
	if _, err := Synthesize(TileCount, testOptions()); !errors.Is(err, ErrInvalidParameter) {
		t.Fatalf("Synthesize(TileCount) error = %v, want ErrInvalidParameter", err)
	}
}
