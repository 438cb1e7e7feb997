package common

import "math"

// Vec is a 2D vector in Y-up world space.
type Vec struct {
	X float64 `yaml:"x" json:"x"`
	Y float64 `yaml:"y" json:"y"`
}

func V(x, y float64) Vec { return Vec{X: x, Y: y} }

func (v Vec) Add(o Vec) Vec { return Vec{X: v.X + o.X, Y: v.Y + o.Y} }

func (v Vec) Sub(o Vec) Vec { return Vec{X: v.X - o.X, Y: v.Y - o.Y} }

func (v Vec) Scale(s float64) Vec { return Vec{X: v.X * s, Y: v.Y * s} }

// Mul multiplies component-wise.
func (v Vec) Mul(o Vec) Vec { return Vec{X: v.X * o.X, Y: v.Y * o.Y} }

func (v Vec) Dot(o Vec) float64 { return v.X*o.X + v.Y*o.Y }

func (v Vec) Len() float64 { return math.Hypot(v.X, v.Y) }

func (v Vec) Neg() Vec { return Vec{X: -v.X, Y: -v.Y} }

func (v Vec) IsZero() bool { return v.X == 0 && v.Y == 0 }

func (v Vec) Finite() bool { return Finite(v.X) && Finite(v.Y) }

// Normalize returns the unit vector, or the zero vector for zero input.
func (v Vec) Normalize() Vec {
	l := v.Len()
	if l == 0 {
		return Vec{}
	}
	return Vec{X: v.X / l, Y: v.Y / l}
}

// Rotate rotates counter-clockwise by rad radians.
func (v Vec) Rotate(rad float64) Vec {
	s, c := math.Sincos(rad)
	return Vec{X: v.X*c - v.Y*s, Y: v.X*s + v.Y*c}
}

// Project returns the component of v along the unit vector dir.
func (v Vec) Project(dir Vec) Vec {
	return dir.Scale(v.Dot(dir))
}

func (v Vec) Near(o Vec, tol float64) bool {
	return NearlyEqual(v.X, o.X, tol) && NearlyEqual(v.Y, o.Y, tol)
}

// Rect is an axis-aligned rectangle with its origin at the minimum corner.
type Rect struct {
	X, Y float64
	W, H float64
}

func (r Rect) Center() Vec { return Vec{X: r.X + r.W/2, Y: r.Y + r.H/2} }

func (r Rect) Intersects(o Rect) bool {
	return r.X < o.X+o.W && r.X+r.W > o.X && r.Y < o.Y+o.H && r.Y+r.H > o.Y
}
