// Package physics defines what terrain and slopes need from a physics engine
// and provides a Chipmunk2D implementation of it.
package physics

//go:generate mockgen -destination=mock/mock_host.go -package=physicsmock github.com/milk9111/platformgen/physics Host

import "github.com/milk9111/platformgen/common"

type ShapeID uint64

type BodyID uint64

// Collision categories used for generated geometry.
const (
	CategorySolid   uint = 1 << 0
	CategoryOneWay  uint = 1 << 1
	CategoryTrigger uint = 1 << 2
	CategoryBody    uint = 1 << 3
	CategoryAll     uint = ^uint(0)
)

type ShapeOptions struct {
	// Sensor shapes report overlaps but never collide.
	Sensor   bool
	OneWay   bool
	Category uint
	Friction float64
}

// ShapeRegistry registers static shapes in world space.
type ShapeRegistry interface {
	AddBox(rect common.Rect, opts ShapeOptions) (ShapeID, error)
	AddPolygon(verts []common.Vec, opts ShapeOptions) (ShapeID, error)
	RemoveShape(id ShapeID)
}

// OverlapQuerier finds bodies touching a registered shape. Only body shapes
// whose category intersects layerMask are reported.
type OverlapQuerier interface {
	OverlapShape(id ShapeID, layerMask uint) []BodyID
}

type BodyController interface {
	AddForce(id BodyID, force common.Vec)
	ApplyImpulse(id BodyID, impulse common.Vec)
	Velocity(id BodyID) common.Vec
	SetVelocity(id BodyID, v common.Vec)
	GravityScale(id BodyID) float64
	SetGravityScale(id BodyID, scale float64)
	Friction(id BodyID) float64
	SetFriction(id BodyID, friction float64)
	// Mass reports false for bodies that are not simulated rigid bodies.
	Mass(id BodyID) (float64, bool)
	Exists(id BodyID) bool
	Gravity() common.Vec
}

type Host interface {
	ShapeRegistry
	OverlapQuerier
	BodyController
}
