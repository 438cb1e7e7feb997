package common

import "fmt"

// Cell is an integer grid coordinate. Y grows upward.
type Cell struct {
	X int `yaml:"x" json:"x"`
	Y int `yaml:"y" json:"y"`
}

func C(x, y int) Cell { return Cell{X: x, Y: y} }

func (c Cell) Add(o Cell) Cell { return Cell{X: c.X + o.X, Y: c.Y + o.Y} }

func (c Cell) String() string { return fmt.Sprintf("(%d,%d)", c.X, c.Y) }

// Center returns the world-space center of the cell for a tile size.
func (c Cell) Center(tileSize float64) Vec {
	return Vec{X: (float64(c.X) + 0.5) * tileSize, Y: (float64(c.Y) + 0.5) * tileSize}
}

// Region is a rectangle of cells: columns [X, X+W) and rows [Y, Y+H).
type Region struct {
	X int `yaml:"x" json:"x"`
	Y int `yaml:"y" json:"y"`
	W int `yaml:"w" json:"w"`
	H int `yaml:"h" json:"h"`
}

func (r Region) Empty() bool { return r.W <= 0 || r.H <= 0 }

// Contains compares offsets as unsigned so regions near the int limits do
// not wrap.
func (r Region) Contains(c Cell) bool {
	return !r.Empty() &&
		c.X >= r.X && uint(c.X-r.X) < uint(r.W) &&
		c.Y >= r.Y && uint(c.Y-r.Y) < uint(r.H)
}

// MaxX is the last column inside the region.
func (r Region) MaxX() int { return r.X + r.W - 1 }

// MaxY is the last row inside the region.
func (r Region) MaxY() int { return r.Y + r.H - 1 }

// Intersect returns the overlap of two regions, empty when disjoint.
func (r Region) Intersect(o Region) Region {
	if r.Empty() || o.Empty() {
		return Region{}
	}
	x0 := max(r.X, o.X)
	y0 := max(r.Y, o.Y)
	x1 := min(r.X+r.W, o.X+o.W)
	y1 := min(r.Y+r.H, o.Y+o.H)
	if x1 <= x0 || y1 <= y0 {
		return Region{}
	}
	return Region{X: x0, Y: y0, W: x1 - x0, H: y1 - y0}
}

// World returns the world-space rectangle covered by the region.
func (r Region) World(tileSize float64) Rect {
	return Rect{
		X: float64(r.X) * tileSize,
		Y: float64(r.Y) * tileSize,
		W: float64(r.W) * tileSize,
		H: float64(r.H) * tileSize,
	}
}

func (r Region) String() string {
	return fmt.Sprintf("[%d,%d %dx%d]", r.X, r.Y, r.W, r.H)
}
