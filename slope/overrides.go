package slope

import "github.com/milk9111/platformgen/physics"

// override is one slope's contribution to a body property.
type override struct {
	slope ID
	value float64
}

// bodyOverrides holds a body's own friction and gravity scale while at
// least one slope has changed them. The body's value is recomputed from
// the original on every change.
type bodyOverrides struct {
	friction   float64
	frictionBy []override

	gravityScale float64
	gravityBy    []override
}

func (o *bodyOverrides) idle() bool {
	return len(o.frictionBy) == 0 && len(o.gravityBy) == 0
}

// effectiveGravity is the original scale times every active multiplier.
func (o *bodyOverrides) effectiveGravity() float64 {
	s := o.gravityScale
	for _, g := range o.gravityBy {
		s *= g.value
	}
	return s
}

func without(list []override, slope ID) []override {
	for i, o := range list {
		if o.slope == slope {
			return append(list[:i:i], list[i+1:]...)
		}
	}
	return list
}

func (e *Engine) overridesFor(body physics.BodyID) *bodyOverrides {
	o, ok := e.overrides[body]
	if !ok {
		o = &bodyOverrides{}
		e.overrides[body] = o
	}
	return o
}

// setFriction makes friction the body's friction while slope holds it.
// The most recently entered slope wins.
func (e *Engine) setFriction(body physics.BodyID, slope ID, friction float64) {
	o := e.overridesFor(body)
	if len(o.frictionBy) == 0 {
		o.friction = e.host.Friction(body)
	}
	o.frictionBy = append(without(o.frictionBy, slope), override{slope: slope, value: friction})
	e.host.SetFriction(body, friction)
}

func (e *Engine) releaseFriction(body physics.BodyID, slope ID) {
	o, ok := e.overrides[body]
	if !ok {
		return
	}
	n := len(o.frictionBy)
	o.frictionBy = without(o.frictionBy, slope)
	if len(o.frictionBy) == n {
		return
	}
	if len(o.frictionBy) == 0 {
		e.host.SetFriction(body, o.friction)
	} else {
		e.host.SetFriction(body, o.frictionBy[len(o.frictionBy)-1].value)
	}
	e.dropIfIdle(body, o)
}

// scaleGravity multiplies the body's original gravity scale by mult while
// slope holds it.
func (e *Engine) scaleGravity(body physics.BodyID, slope ID, mult float64) {
	o := e.overridesFor(body)
	if len(o.gravityBy) == 0 {
		o.gravityScale = e.host.GravityScale(body)
	}
	o.gravityBy = append(without(o.gravityBy, slope), override{slope: slope, value: mult})
	e.host.SetGravityScale(body, o.effectiveGravity())
}

func (e *Engine) releaseGravity(body physics.BodyID, slope ID) {
	o, ok := e.overrides[body]
	if !ok {
		return
	}
	n := len(o.gravityBy)
	o.gravityBy = without(o.gravityBy, slope)
	if len(o.gravityBy) == n {
		return
	}
	e.host.SetGravityScale(body, o.effectiveGravity())
	e.dropIfIdle(body, o)
}

func (e *Engine) dropIfIdle(body physics.BodyID, o *bodyOverrides) {
	if o.idle() {
		delete(e.overrides, body)
	}
}
