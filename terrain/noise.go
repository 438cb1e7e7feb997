package terrain

import (
	"math"

	opensimplex "github.com/ojrac/opensimplex-go"

	"github.com/milk9111/platformgen/descriptor"
)

const (
	noiseOctaves     = 3
	noisePersistence = 0.5
)

// octaveNoise sums octaves of simplex noise, normalised to [-1,1].
func octaveNoise(noise opensimplex.Noise, x, y float64, octaves int, frequency, persistence float64) float64 {
	total := 0.0
	amplitude := 1.0
	maxVal := 0.0

	for i := 0; i < octaves; i++ {
		total += noise.Eval2(x*frequency, y*frequency) * amplitude
		maxVal += amplitude
		amplitude *= persistence
		frequency *= 2
	}

	return total / maxVal
}

// ridged folds noise into sharp peaks in [0,1].
func ridged(n float64) float64 {
	r := 1 - math.Abs(n)
	return r * r
}

// sampleHeightmap reads the map at normalised coordinates u,v in [0,1]
// with bilinear filtering. Rows run top to bottom.
func sampleHeightmap(hm descriptor.Heightmap, u, v float64) float64 {
	if hm.Empty() {
		return 0
	}
	rows := len(hm.Rows)
	cols := len(hm.Rows[0])

	fx := clamp01(u) * float64(cols-1)
	fy := clamp01(v) * float64(rows-1)
	x0 := int(math.Floor(fx))
	y0 := int(math.Floor(fy))
	x1 := min(x0+1, cols-1)
	y1 := min(y0+1, rows-1)
	tx := fx - float64(x0)
	ty := fy - float64(y0)

	at := func(x, y int) float64 {
		row := hm.Rows[y]
		if x >= len(row) {
			return 0
		}
		return row[x]
	}
	top := at(x0, y0)*(1-tx) + at(x1, y0)*tx
	bottom := at(x0, y1)*(1-tx) + at(x1, y1)*tx
	return top*(1-ty) + bottom*ty
}

func clamp01(v float64) float64 {
	return math.Max(0, math.Min(1, v))
}
