package terrain

import (
	"github.com/milk9111/platformgen/common"
	"github.com/milk9111/platformgen/descriptor"
	"github.com/milk9111/platformgen/tilegrid"
)

// cellContext is everything a selection rule may look at.
type cellContext struct {
	X, Y      int
	Seed      int64
	Depth     int
	Thickness int
	MinY      int
	MaxY      int
}

// selectVariant picks a tile from variants. The choice depends only on the
// cell context, so regenerating the same descriptor yields the same tiles.
func selectVariant(mode descriptor.SelectionMode, variants []int, c cellContext) tilegrid.TileRef {
	n := len(variants)
	if n == 0 {
		return 0
	}
	if n == 1 {
		return tilegrid.TileRef(variants[0])
	}

	var idx int
	switch mode {
	case descriptor.SelectSequential:
		idx = common.Mod(c.X+int(c.Seed), n)
	case descriptor.SelectByDepth:
		if c.Thickness > 0 {
			idx = c.Depth * n / c.Thickness
		}
	case descriptor.SelectByPosition:
		idx = int(hash3(common.FloorDiv(c.X, 4), common.FloorDiv(c.Y, 4), int(c.Seed)) % uint32(n))
	case descriptor.SelectByHeight:
		if c.MaxY > c.MinY {
			t := float64(c.Y-c.MinY) / float64(c.MaxY-c.MinY)
			idx = round(t * float64(n-1))
		}
	default:
		idx = int(hash3(c.X, c.Y, int(c.Seed)) % uint32(n))
	}
	return tilegrid.TileRef(variants[common.ClampInt(idx, 0, n-1)])
}

func hash3(x, y, z int) uint32 {
	h := uint32(x*374761393 + y*668265263 + z*2147483647)
	h = (h ^ (h >> 13)) * 1274126177
	return h ^ (h >> 16)
}
