package blockatlas

import (
	"image"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

// FieldRange returns the smallest and largest value of a field.
func FieldRange(f *mat.Dense) (lo, hi float64) {
	r, c := f.Dims()
	vals := make([]float64, 0, r*c)
	for i := range r {
		vals = append(vals, f.RawRowView(i)...)
	}
	return floats.Min(vals), floats.Max(vals)
}

// TileStats holds the Rec. 709 luma mean and standard deviation of a tile,
// in byte units.
type TileStats struct {
	Mean   float64
	StdDev float64
}

func LumaStats(img image.Image) TileStats {
	b := img.Bounds()
	luma := make([]float64, 0, b.Dx()*b.Dy())
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			r, g, bl, _ := img.At(x, y).RGBA()
			luma = append(luma, (0.2126*float64(r)+0.7152*float64(g)+0.0722*float64(bl))/257)
		}
	}
	if len(luma) == 0 {
		return TileStats{}
	}
	mean, std := stat.MeanStdDev(luma, nil)
	return TileStats{Mean: mean, StdDev: std}
}
