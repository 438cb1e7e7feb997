package physics

import (
	"fmt"
	"math"
	"sort"

	"github.com/jakecoffman/cp"

	"github.com/milk9111/platformgen/common"
)

const (
	collisionTypeSolid cp.CollisionType = iota + 1
	collisionTypeOneWay
	collisionTypeTrigger
	collisionTypeBody
)

type bodyInfo struct {
	body         *cp.Body
	shapes       []*cp.Shape
	gravityScale float64
}

// Space is a Host backed by a Chipmunk space.
type Space struct {
	space *cp.Space

	nextShape ShapeID
	nextBody  BodyID
	shapes    map[ShapeID]*cp.Shape
	bodies    map[BodyID]*bodyInfo
}

// NewSpace creates a space with the given gravity vector.
func NewSpace(gravity common.Vec, iterations int) *Space {
	space := cp.NewSpace()
	if iterations > 0 {
		space.Iterations = uint(iterations)
	}
	space.SetGravity(toCP(gravity))

	s := &Space{
		space:  space,
		shapes: make(map[ShapeID]*cp.Shape),
		bodies: make(map[BodyID]*bodyInfo),
	}
	s.setupHandlers()
	return s
}

// CP returns the underlying Chipmunk space.
func (s *Space) CP() *cp.Space {
	if s == nil {
		return nil
	}
	return s.space
}

func (s *Space) Step(dt float64) {
	if s == nil || s.space == nil || dt <= 0 {
		return
	}
	s.space.Step(dt)
}

func (s *Space) Gravity() common.Vec {
	return fromCP(s.space.Gravity())
}

func (s *Space) AddBox(rect common.Rect, opts ShapeOptions) (ShapeID, error) {
	if rect.W <= 0 || rect.H <= 0 {
		return 0, fmt.Errorf("physics: box %vx%v must have positive size", rect.W, rect.H)
	}
	bb := cp.BB{L: rect.X, B: rect.Y, R: rect.X + rect.W, T: rect.Y + rect.H}
	shape := cp.NewBox2(s.space.StaticBody, bb, 0)
	return s.addStatic(shape, opts), nil
}

// AddPolygon registers a convex polygon. Clockwise input is reversed.
func (s *Space) AddPolygon(verts []common.Vec, opts ShapeOptions) (ShapeID, error) {
	if len(verts) < 3 {
		return 0, fmt.Errorf("physics: polygon needs 3 vertices, got %d", len(verts))
	}
	cpVerts := make([]cp.Vector, len(verts))
	for i, v := range verts {
		cpVerts[i] = toCP(v)
	}
	if signedArea(verts) < 0 {
		for i, j := 0, len(cpVerts)-1; i < j; i, j = i+1, j-1 {
			cpVerts[i], cpVerts[j] = cpVerts[j], cpVerts[i]
		}
	}
	shape := cp.NewPolyShapeRaw(s.space.StaticBody, len(cpVerts), cpVerts, 0)
	return s.addStatic(shape, opts), nil
}

func (s *Space) addStatic(shape *cp.Shape, opts ShapeOptions) ShapeID {
	category := opts.Category
	if category == 0 {
		category = CategorySolid
	}
	shape.SetSensor(opts.Sensor)
	shape.SetFriction(opts.Friction)
	shape.SetFilter(cp.NewShapeFilter(cp.NO_GROUP, category, cp.ALL_CATEGORIES))
	switch {
	case opts.Sensor:
		shape.SetCollisionType(collisionTypeTrigger)
	case opts.OneWay:
		shape.SetCollisionType(collisionTypeOneWay)
	default:
		shape.SetCollisionType(collisionTypeSolid)
	}
	s.space.AddShape(shape)

	s.nextShape++
	s.shapes[s.nextShape] = shape
	return s.nextShape
}

func (s *Space) RemoveShape(id ShapeID) {
	shape, ok := s.shapes[id]
	if !ok {
		return
	}
	s.space.RemoveShape(shape)
	delete(s.shapes, id)
}

// ShapeCount reports the number of registered static shapes.
func (s *Space) ShapeCount() int {
	return len(s.shapes)
}

// ShapeBounds returns the world bounding box of a registered shape.
func (s *Space) ShapeBounds(id ShapeID) (common.Rect, bool) {
	shape, ok := s.shapes[id]
	if !ok {
		return common.Rect{}, false
	}
	bb := shape.BB()
	return common.Rect{X: bb.L, Y: bb.B, W: bb.R - bb.L, H: bb.T - bb.B}, true
}

func (s *Space) OverlapShape(id ShapeID, layerMask uint) []BodyID {
	shape, ok := s.shapes[id]
	if !ok {
		return nil
	}
	seen := make(map[*cp.Body]struct{})
	filter := cp.NewShapeFilter(cp.NO_GROUP, cp.ALL_CATEGORIES, layerMask)
	s.space.BBQuery(shape.BB(), filter, func(other *cp.Shape, data interface{}) {
		if other == shape || other.Sensor() {
			return
		}
		body := other.Body()
		if body == nil || body.GetType() == cp.BODY_STATIC {
			return
		}
		seen[body] = struct{}{}
	}, nil)

	var out []BodyID
	for bid, info := range s.bodies {
		if _, ok := seen[info.body]; ok {
			out = append(out, bid)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// AddDynamicBox creates a simulated box body centred on pos.
func (s *Space) AddDynamicBox(pos common.Vec, w, h, mass float64, category uint) BodyID {
	if mass <= 0 {
		mass = 1
	}
	body := cp.NewBody(mass, math.Inf(1))
	body.SetPosition(toCP(pos))
	return s.addBody(body, w, h, category)
}

// AddKinematicBox creates a body that is moved by hand and has no mass.
func (s *Space) AddKinematicBox(pos common.Vec, w, h float64, category uint) BodyID {
	body := cp.NewKinematicBody()
	body.SetPosition(toCP(pos))
	return s.addBody(body, w, h, category)
}

func (s *Space) addBody(body *cp.Body, w, h float64, category uint) BodyID {
	if category == 0 {
		category = CategoryBody
	}
	info := &bodyInfo{body: body, gravityScale: 1}
	body.SetVelocityUpdateFunc(func(b *cp.Body, gravity cp.Vector, damping float64, dt float64) {
		cp.BodyUpdateVelocity(b, gravity.Mult(info.gravityScale), damping, dt)
	})
	shape := cp.NewBox(body, w, h, 0)
	shape.SetFriction(0.8)
	shape.SetCollisionType(collisionTypeBody)
	shape.SetFilter(cp.NewShapeFilter(cp.NO_GROUP, category, cp.ALL_CATEGORIES))
	info.shapes = append(info.shapes, shape)

	s.space.AddBody(body)
	s.space.AddShape(shape)

	s.nextBody++
	s.bodies[s.nextBody] = info
	return s.nextBody
}

// DestroyBody removes a body and its shapes from the space.
func (s *Space) DestroyBody(id BodyID) {
	info, ok := s.bodies[id]
	if !ok {
		return
	}
	for _, shape := range info.shapes {
		s.space.RemoveShape(shape)
	}
	s.space.RemoveBody(info.body)
	delete(s.bodies, id)
}

func (s *Space) Exists(id BodyID) bool {
	_, ok := s.bodies[id]
	return ok
}

func (s *Space) Position(id BodyID) common.Vec {
	info, ok := s.bodies[id]
	if !ok {
		return common.Vec{}
	}
	return fromCP(info.body.Position())
}

func (s *Space) SetPosition(id BodyID, p common.Vec) {
	if info, ok := s.bodies[id]; ok {
		info.body.SetPosition(toCP(p))
		s.reindex(info)
	}
}

// reindex re-inserts a moved body's shapes so queries see the new position
// before the next Step.
func (s *Space) reindex(info *bodyInfo) {
	for _, shape := range info.shapes {
		s.space.RemoveShape(shape)
		s.space.AddShape(shape)
	}
}

func (s *Space) AddForce(id BodyID, force common.Vec) {
	info, ok := s.bodies[id]
	if !ok {
		return
	}
	info.body.ApplyForceAtWorldPoint(toCP(force), info.body.Position())
}

func (s *Space) ApplyImpulse(id BodyID, impulse common.Vec) {
	info, ok := s.bodies[id]
	if !ok {
		return
	}
	info.body.ApplyImpulseAtWorldPoint(toCP(impulse), info.body.Position())
}

func (s *Space) Velocity(id BodyID) common.Vec {
	info, ok := s.bodies[id]
	if !ok {
		return common.Vec{}
	}
	return fromCP(info.body.Velocity())
}

func (s *Space) SetVelocity(id BodyID, v common.Vec) {
	if info, ok := s.bodies[id]; ok {
		info.body.SetVelocityVector(toCP(v))
	}
}

func (s *Space) GravityScale(id BodyID) float64 {
	info, ok := s.bodies[id]
	if !ok {
		return 0
	}
	return info.gravityScale
}

func (s *Space) SetGravityScale(id BodyID, scale float64) {
	if info, ok := s.bodies[id]; ok {
		info.gravityScale = scale
	}
}

func (s *Space) Friction(id BodyID) float64 {
	info, ok := s.bodies[id]
	if !ok || len(info.shapes) == 0 {
		return 0
	}
	return info.shapes[0].Friction()
}

func (s *Space) SetFriction(id BodyID, friction float64) {
	info, ok := s.bodies[id]
	if !ok {
		return
	}
	for _, shape := range info.shapes {
		shape.SetFriction(friction)
	}
}

func (s *Space) Mass(id BodyID) (float64, bool) {
	info, ok := s.bodies[id]
	if !ok || info.body.GetType() != cp.BODY_DYNAMIC {
		return 0, false
	}
	m := info.body.Mass()
	if m <= 0 || math.IsInf(m, 0) {
		return 0, false
	}
	return m, true
}

// setupHandlers lets bodies pass up through one-way shapes.
func (s *Space) setupHandlers() {
	handler := s.space.NewWildcardCollisionHandler(collisionTypeOneWay)
	handler.PreSolveFunc = func(arb *cp.Arbiter, space *cp.Space, userData interface{}) bool {
		if arb.Normal().Dot(cp.Vector{X: 0, Y: 1}) < 0 {
			return arb.Ignore()
		}
		return true
	}
}

func signedArea(verts []common.Vec) float64 {
	var a float64
	for i := range verts {
		j := (i + 1) % len(verts)
		a += verts[i].X*verts[j].Y - verts[j].X*verts[i].Y
	}
	return a / 2
}

func toCP(v common.Vec) cp.Vector { return cp.Vector{X: v.X, Y: v.Y} }

func fromCP(v cp.Vector) common.Vec { return common.Vec{X: v.X, Y: v.Y} }
