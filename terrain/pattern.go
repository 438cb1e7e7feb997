package terrain

import (
	"math"

	"github.com/milk9111/platformgen/descriptor"
)

const (
	maxStairSteps = 8
	gapPeriod     = 12
	gapSolidRun   = 8
)

// NoColumn marks a column that receives no base terrain.
const NoColumn = -1

// PatternHeight returns the filled height of column x in a segment of the
// given width, or NoColumn when the column stays empty.
func PatternHeight(p descriptor.Pattern, x, width, thickness int, variation float64) int {
	if width <= 0 || x < 0 || x >= width {
		return NoColumn
	}
	w := float64(width)
	fx := float64(x)
	nx := 2*fx/w - 1

	switch p {
	case descriptor.PatternFlat:
		return thickness
	case descriptor.PatternAscending:
		return thickness + round(variation*fx/w)
	case descriptor.PatternDescending:
		return thickness + round(variation*(w-fx)/w)
	case descriptor.PatternValley:
		// Deepest at the centre, rising to the full variation at the edges.
		return thickness + round(variation) - round(variation*(1-math.Abs(nx)))
	case descriptor.PatternHill:
		return thickness + round(variation*(1-nx*nx))
	case descriptor.PatternStairs:
		steps := min(maxStairSteps, width)
		stepWidth := width / steps
		i := min(x/stepWidth, steps-1)
		return thickness + i
	case descriptor.PatternGaps:
		if x%gapPeriod >= gapSolidRun {
			return NoColumn
		}
		return thickness
	case descriptor.PatternPlatforms:
		return NoColumn
	}
	return thickness
}

func round(v float64) int {
	return int(math.Round(v))
}
