// Package slope builds collision shapes for inclined surfaces and applies
// per-kind velocity and gravity effects to bodies riding them.
package slope

import (
	"fmt"
	"math"

	"github.com/milk9111/platformgen/common"
	"github.com/milk9111/platformgen/descriptor"
)

const (
	minTriggerHeight = 2.0
	vertexTolerance  = 1e-6
)

// Geometry is everything derived from a slope descriptor's shape fields.
// Vectors and vertices are in world space.
type Geometry struct {
	Normal    common.Vec
	Direction common.Vec
	Height    float64

	TriggerCenter common.Vec
	TriggerSize   common.Vec
	// Trigger holds the trigger box corners, counter-clockwise.
	Trigger []common.Vec
	// AxisAligned is true when the trigger box has no rotation.
	AxisAligned bool

	Outline []common.Vec
}

// TriggerRect returns the trigger box as a world rectangle. Only meaningful
// when AxisAligned is set.
func (g Geometry) TriggerRect() common.Rect {
	return common.Rect{
		X: g.TriggerCenter.X - g.TriggerSize.X/2,
		Y: g.TriggerCenter.Y - g.TriggerSize.Y/2,
		W: g.TriggerSize.X,
		H: g.TriggerSize.Y,
	}
}

// GeometryKey holds the descriptor fields geometry depends on. Two
// descriptors with equal keys produce identical geometry.
type GeometryKey struct {
	Angle         float64
	Direction     descriptor.Direction
	Length        float64
	BaseThickness float64
	TriggerSize   common.Vec
	Position      common.Vec
	Rotation      float64
	Scale         common.Vec
}

func KeyOf(d descriptor.Slope) GeometryKey {
	return GeometryKey{
		Angle:         d.Angle,
		Direction:     d.Direction,
		Length:        d.Length,
		BaseThickness: d.BaseThickness,
		TriggerSize:   d.TriggerSize,
		Position:      d.Position,
		Rotation:      d.Rotation,
		Scale:         d.Scale,
	}
}

// Vectors returns the unit normal and unit direction of travel up or down
// the incline in the slope's local frame.
func Vectors(angleDeg float64, dir descriptor.Direction) (normal, direction common.Vec) {
	s, c := math.Sincos(common.Radians(angleDeg))
	if dir == descriptor.Descending {
		return common.Vec{X: s, Y: c}, common.Vec{X: c, Y: -s}
	}
	return common.Vec{X: -s, Y: c}, common.Vec{X: c, Y: s}
}

// LocalOutline returns the wedge outline, counter-clockwise, with the
// incline starting at the origin. The back wall is split at the base line
// when the incline is taller than the base.
func LocalOutline(length, height, thickness float64, dir descriptor.Direction) []common.Vec {
	var verts []common.Vec
	if height > thickness {
		verts = []common.Vec{
			{X: 0, Y: -thickness},
			{X: length, Y: -thickness},
			{X: length, Y: 0},
			{X: length, Y: height},
			{X: 0, Y: 0},
		}
	} else {
		verts = []common.Vec{
			{X: 0, Y: -thickness},
			{X: length, Y: -thickness},
			{X: length, Y: height},
			{X: 0, Y: 0},
		}
	}
	if dir == descriptor.Descending {
		mirrored := make([]common.Vec, len(verts))
		for i, v := range verts {
			mirrored[len(verts)-1-i] = common.Vec{X: length - v.X, Y: v.Y}
		}
		verts = mirrored
	}
	return verts
}

// BuildGeometry derives the trigger zone and collision outline for d. The
// descriptor should already be normalized.
func BuildGeometry(d descriptor.Slope) (Geometry, error) {
	theta := common.Radians(d.Angle)
	height := math.Tan(theta) * d.Length
	rot := common.Radians(d.Rotation)

	toWorld := func(v common.Vec) common.Vec {
		return d.Position.Add(v.Mul(d.Scale).Rotate(rot))
	}

	normal, direction := Vectors(d.Angle, d.Direction)
	g := Geometry{
		Normal:    normal.Mul(signs(d.Scale)).Rotate(rot).Normalize(),
		Direction: direction.Mul(signs(d.Scale)).Rotate(rot).Normalize(),
		Height:    height,
	}

	local := LocalOutline(d.Length, height, d.BaseThickness, d.Direction)
	outline := make([]common.Vec, 0, len(local))
	for _, v := range local {
		outline = append(outline, toWorld(v))
	}
	for _, v := range outline {
		if !v.Finite() {
			return Geometry{}, fmt.Errorf("slope: outline vertex %v is not finite: %w", v, common.ErrInvalidSlopeGeometry)
		}
	}
	outline = dedupe(outline)
	if len(outline) < 3 || math.Abs(area(outline)) < vertexTolerance {
		return Geometry{}, fmt.Errorf("slope: outline has %d usable vertices: %w", len(outline), common.ErrInvalidSlopeGeometry)
	}
	g.Outline = outline

	size := common.Vec{
		X: d.Length * d.TriggerSize.X,
		Y: math.Max(minTriggerHeight, height*d.TriggerSize.Y),
	}
	centerY := 0.3 * height
	if d.Direction == descriptor.Descending {
		centerY = 0.7 * height
	}
	center := common.Vec{X: d.Length / 2, Y: centerY}
	hx, hy := size.X/2, size.Y/2
	corners := []common.Vec{
		{X: center.X - hx, Y: center.Y - hy},
		{X: center.X + hx, Y: center.Y - hy},
		{X: center.X + hx, Y: center.Y + hy},
		{X: center.X - hx, Y: center.Y + hy},
	}
	g.Trigger = make([]common.Vec, len(corners))
	for i, c := range corners {
		g.Trigger[i] = toWorld(c)
		if !g.Trigger[i].Finite() {
			return Geometry{}, fmt.Errorf("slope: trigger corner %v is not finite: %w", g.Trigger[i], common.ErrInvalidSlopeGeometry)
		}
	}
	g.TriggerCenter = toWorld(center)
	g.TriggerSize = common.Vec{X: math.Abs(size.X * d.Scale.X), Y: math.Abs(size.Y * d.Scale.Y)}
	g.AxisAligned = math.Mod(d.Rotation, 360) == 0
	return g, nil
}

func signs(v common.Vec) common.Vec {
	s := common.Vec{X: 1, Y: 1}
	if v.X < 0 {
		s.X = -1
	}
	if v.Y < 0 {
		s.Y = -1
	}
	return s
}

// dedupe drops consecutive vertices closer than the tolerance, including the
// wrap from last to first.
func dedupe(verts []common.Vec) []common.Vec {
	out := make([]common.Vec, 0, len(verts))
	for _, v := range verts {
		if len(out) > 0 && out[len(out)-1].Near(v, vertexTolerance) {
			continue
		}
		out = append(out, v)
	}
	for len(out) > 1 && out[0].Near(out[len(out)-1], vertexTolerance) {
		out = out[:len(out)-1]
	}
	return out
}

func area(verts []common.Vec) float64 {
	var a float64
	for i := range verts {
		j := (i + 1) % len(verts)
		a += verts[i].X*verts[j].Y - verts[j].X*verts[i].Y
	}
	return a / 2
}
