package slope

import (
	"math"

	"github.com/milk9111/platformgen/common"
	"github.com/milk9111/platformgen/descriptor"
	"github.com/milk9111/platformgen/events"
	"github.com/milk9111/platformgen/physics"
)

// handler is the per-kind part of a slope's behaviour. Any hook may be nil.
type handler struct {
	enter func(e *Engine, in *Instance, body physics.BodyID)
	apply func(e *Engine, in *Instance, body physics.BodyID, dt float64)
	exit  func(e *Engine, in *Instance, body physics.BodyID)
}

// Basic, Steep and Gentle slopes only use the shared velocity and gravity
// redirection, so they have no entry here.
var handlers = map[descriptor.SlopeKind]handler{
	descriptor.SlopeSpring: {
		enter: springEnter,
	},
	descriptor.SlopeIce: {
		enter: iceEnter,
		apply: iceApply,
		exit:  restoreFriction,
	},
	descriptor.SlopeRough: {
		enter: roughEnter,
		apply: roughApply,
		exit:  restoreFriction,
	},
	descriptor.SlopeGravity: {
		enter: gravityEnter,
		exit:  gravityExit,
	},
	descriptor.SlopeWind: {
		apply: windApply,
	},
}

func springEnter(e *Engine, in *Instance, body physics.BodyID) {
	p, ok := in.Desc.Params.(descriptor.SpringParams)
	if !ok {
		logUnexpectedParams(in, "spring")
		return
	}
	e.host.ApplyImpulse(body, in.Geometry.Normal.Scale(p.BounceForce))
	e.sink.Emit(events.Event{Kind: events.Effect, Name: "spring", Slope: uint64(in.ID), Body: body})
}

func iceEnter(e *Engine, in *Instance, body physics.BodyID) {
	p, ok := in.Desc.Params.(descriptor.IceParams)
	if !ok {
		logUnexpectedParams(in, "ice")
		return
	}
	e.setFriction(body, in.ID, p.Friction)
}

func iceApply(e *Engine, in *Instance, body physics.BodyID, dt float64) {
	p, ok := in.Desc.Params.(descriptor.IceParams)
	if !ok {
		return
	}
	v := e.host.Velocity(body)
	if math.Abs(v.X) <= e.cfg.VelocityThreshold {
		return
	}
	v.X = e.clampSpeed(v.X + common.Sign(v.X)*p.SlideAcceleration*dt)
	e.host.SetVelocity(body, v)
}

func roughEnter(e *Engine, in *Instance, body physics.BodyID) {
	p, ok := in.Desc.Params.(descriptor.RoughParams)
	if !ok {
		logUnexpectedParams(in, "rough")
		return
	}
	e.setFriction(body, in.ID, p.Friction)
}

func roughApply(e *Engine, in *Instance, body physics.BodyID, dt float64) {
	p, ok := in.Desc.Params.(descriptor.RoughParams)
	if !ok {
		return
	}
	v := e.host.Velocity(body)
	if v.X == 0 {
		return
	}
	v.X -= v.X * math.Min(1, p.Deceleration*dt)
	e.host.SetVelocity(body, v)
}

func restoreFriction(e *Engine, in *Instance, body physics.BodyID) {
	e.releaseFriction(body, in.ID)
}

func gravityEnter(e *Engine, in *Instance, body physics.BodyID) {
	p, ok := in.Desc.Params.(descriptor.GravityParams)
	if !ok {
		logUnexpectedParams(in, "gravity")
		return
	}
	e.scaleGravity(body, in.ID, p.GravityMultiplier)
}

// gravityExit drops this slope's multiplier. The last one out restores the
// body's original scale exactly.
func gravityExit(e *Engine, in *Instance, body physics.BodyID) {
	e.releaseGravity(body, in.ID)
}

func windApply(e *Engine, in *Instance, body physics.BodyID, _ float64) {
	p, ok := in.Desc.Params.(descriptor.WindParams)
	if !ok {
		return
	}
	e.host.AddForce(body, p.Direction.Normalize().Scale(p.Force))
}
