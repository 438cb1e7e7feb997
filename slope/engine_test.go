package slope

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/milk9111/platformgen/common"
	"github.com/milk9111/platformgen/descriptor"
	"github.com/milk9111/platformgen/events"
	"github.com/milk9111/platformgen/physics"
	physicsmock "github.com/milk9111/platformgen/physics/mock"
)

// onSlope sits above the incline of a default slope at the origin and
// inside its trigger box.
var (
	onSlope  = common.Vec{X: 2.5, Y: 2.2}
	offSlope = common.Vec{X: 50, Y: 50}
)

func newTestEngine(t *testing.T, cfg Config) (*Engine, *physics.Space, *events.Queue) {
	t.Helper()
	space := physics.NewSpace(common.Vec{}, 10)
	q := &events.Queue{}
	return NewEngine(space, q, cfg), space, q
}

func register(t *testing.T, e *Engine, d descriptor.Slope) ID {
	t.Helper()
	id, _, err := e.Register(d)
	require.NoError(t, err)
	return id
}

func kinds(evts []events.Event) []events.Kind {
	out := make([]events.Kind, 0, len(evts))
	for _, e := range evts {
		out = append(out, e.Kind)
	}
	return out
}

func TestIceSlopeScalesVelocityAndRestoresFriction(t *testing.T) {
	e, space, q := newTestEngine(t, DefaultConfig())
	d := descriptor.NewSlope(descriptor.SlopeIce)
	d.SpeedMultiplier = 1.8
	id := register(t, e, d)

	body := space.AddDynamicBox(onSlope, 0.5, 0.5, 1, physics.CategoryBody)
	space.SetVelocity(body, common.Vec{X: 2})

	require.NoError(t, e.Tick(0))
	assert.InDelta(t, 3.6, space.Velocity(body).X, 1e-9)
	assert.InDelta(t, 0.02, space.Friction(body), 1e-9)
	assert.Equal(t, []physics.BodyID{body}, e.Tracked(id))

	space.SetPosition(body, offSlope)
	require.NoError(t, e.Tick(0))
	assert.InDelta(t, 0.8, space.Friction(body), 1e-9)
	assert.Empty(t, e.Tracked(id))
	assert.Equal(t, []events.Kind{events.BodyEnteredSlope, events.BodyExitedSlope}, kinds(q.Drain()))
}

func TestIceSlideAcceleration(t *testing.T) {
	e, space, _ := newTestEngine(t, DefaultConfig())
	d := descriptor.NewSlope(descriptor.SlopeIce)
	d.SpeedMultiplier = 1
	register(t, e, d)

	body := space.AddDynamicBox(onSlope, 0.5, 0.5, 1, physics.CategoryBody)
	space.SetVelocity(body, common.Vec{X: -2})

	require.NoError(t, e.Tick(0.5))
	assert.InDelta(t, -2.75, space.Velocity(body).X, 1e-9)
}

func TestSpringImpulseOnceOnEntry(t *testing.T) {
	ctrl := gomock.NewController(t)
	host := physicsmock.NewMockHost(ctrl)
	q := &events.Queue{}
	e := NewEngine(host, q, DefaultConfig())

	const trigger, outline physics.ShapeID = 1, 2
	const body physics.BodyID = 7
	host.EXPECT().AddBox(gomock.Any(), gomock.Any()).Return(trigger, nil)
	host.EXPECT().AddPolygon(gomock.Any(), gomock.Any()).Return(outline, nil)

	d := descriptor.NewSlope(descriptor.SlopeSpring)
	d.SetParameters(map[string]any{"bounceForce": 15})
	id := register(t, e, d)

	var impulses []common.Vec
	host.EXPECT().ApplyImpulse(body, gomock.Any()).Do(func(_ physics.BodyID, imp common.Vec) {
		impulses = append(impulses, imp)
	}).Times(1)
	host.EXPECT().OverlapShape(trigger, physics.CategoryAll).Return([]physics.BodyID{body}).Times(3)
	host.EXPECT().Exists(body).Return(true).AnyTimes()
	host.EXPECT().Mass(body).Return(1.0, true).AnyTimes()
	host.EXPECT().Velocity(body).Return(common.Vec{}).AnyTimes()
	host.EXPECT().Gravity().Return(common.Vec{Y: -10}).AnyTimes()
	host.EXPECT().AddForce(body, gomock.Any()).AnyTimes()

	for i := 0; i < 3; i++ {
		require.NoError(t, e.Tick(1.0/60))
	}

	require.Len(t, impulses, 1)
	assert.InDelta(t, 15, impulses[0].Len(), 1e-9)
	inst, ok := e.Instance(id)
	require.True(t, ok)
	assert.InDelta(t, 0, impulses[0].Sub(inst.Geometry.Normal.Scale(15)).Len(), 1e-9)

	evts := q.Drain()
	require.Len(t, evts, 2)
	assert.Equal(t, events.BodyEnteredSlope, evts[0].Kind)
	assert.Equal(t, events.Effect, evts[1].Kind)
	assert.Equal(t, "spring", evts[1].Name)
}

func TestGravitySlopeRestoresScaleExactly(t *testing.T) {
	e, space, _ := newTestEngine(t, DefaultConfig())
	d := descriptor.NewSlope(descriptor.SlopeGravity)
	d.SetParameters(map[string]any{"gravity_multiplier": 0.5})
	register(t, e, d)

	body := space.AddDynamicBox(offSlope, 0.5, 0.5, 1, physics.CategoryBody)
	space.SetGravityScale(body, 0.3)

	for i := 0; i < 10; i++ {
		space.SetPosition(body, onSlope)
		require.NoError(t, e.Tick(0))
		assert.InDelta(t, 0.15, space.GravityScale(body), 1e-12)

		space.SetPosition(body, offSlope)
		require.NoError(t, e.Tick(0))
		assert.Equal(t, 0.3, space.GravityScale(body))
	}
}

func TestGravityRedirectionForce(t *testing.T) {
	ctrl := gomock.NewController(t)
	host := physicsmock.NewMockHost(ctrl)
	e := NewEngine(host, nil, DefaultConfig())

	host.EXPECT().AddBox(gomock.Any(), gomock.Any()).Return(physics.ShapeID(1), nil)
	host.EXPECT().AddPolygon(gomock.Any(), gomock.Any()).Return(physics.ShapeID(2), nil)
	id := register(t, e, descriptor.NewSlope(descriptor.SlopeBasic))
	inst, _ := e.Instance(id)
	dir := inst.Geometry.Direction

	var force common.Vec
	host.EXPECT().OverlapShape(physics.ShapeID(1), gomock.Any()).Return([]physics.BodyID{3})
	host.EXPECT().Mass(physics.BodyID(3)).Return(2.0, true).AnyTimes()
	host.EXPECT().Velocity(physics.BodyID(3)).Return(common.Vec{})
	host.EXPECT().Gravity().Return(common.Vec{Y: -10})
	host.EXPECT().AddForce(physics.BodyID(3), gomock.Any()).Do(func(_ physics.BodyID, f common.Vec) {
		force = f
	})

	require.NoError(t, e.Tick(1.0/60))
	// g.dir = -5 for a 30 degree incline, halved by the default redirection.
	want := dir.Scale(-5 * 0.5 * 2)
	assert.True(t, force.Near(want, 1e-9), "force %v want %v", force, want)
}

func TestRoughSlopeDecelerates(t *testing.T) {
	e, space, _ := newTestEngine(t, DefaultConfig())
	register(t, e, descriptor.NewSlope(descriptor.SlopeRough))

	body := space.AddDynamicBox(onSlope, 0.5, 0.5, 1, physics.CategoryBody)
	space.SetVelocity(body, common.Vec{X: 10})

	require.NoError(t, e.Tick(0.1))
	// 10 * 1.2, then 20% off for deceleration 2 over 0.1s.
	assert.InDelta(t, 9.6, space.Velocity(body).X, 1e-9)
	assert.InDelta(t, 1.2, space.Friction(body), 1e-9)
}

func TestWindSlopePushes(t *testing.T) {
	e, space, _ := newTestEngine(t, DefaultConfig())
	register(t, e, descriptor.NewSlope(descriptor.SlopeWind))

	body := space.AddDynamicBox(onSlope, 0.5, 0.5, 1, physics.CategoryBody)
	require.NoError(t, e.Tick(0.1))
	space.Step(0.1)
	assert.InDelta(t, 0.5, space.Velocity(body).X, 1e-6)
}

func TestMaxSpeedClamp(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MaxSpeed = 3
	e, space, _ := newTestEngine(t, cfg)
	register(t, e, descriptor.NewSlope(descriptor.SlopeBasic))

	body := space.AddDynamicBox(onSlope, 0.5, 0.5, 1, physics.CategoryBody)
	space.SetVelocity(body, common.Vec{X: -10})
	require.NoError(t, e.Tick(0))
	assert.Equal(t, -3.0, space.Velocity(body).X)
}

func TestSlowBodiesKeepVelocity(t *testing.T) {
	e, space, _ := newTestEngine(t, DefaultConfig())
	register(t, e, descriptor.NewSlope(descriptor.SlopeBasic))

	body := space.AddDynamicBox(onSlope, 0.5, 0.5, 1, physics.CategoryBody)
	space.SetVelocity(body, common.Vec{X: 0.05})
	require.NoError(t, e.Tick(0))
	assert.Equal(t, 0.05, space.Velocity(body).X)
}

func TestDestroyedBodiesArePruned(t *testing.T) {
	e, space, q := newTestEngine(t, DefaultConfig())
	id := register(t, e, descriptor.NewSlope(descriptor.SlopeGravity))

	body := space.AddDynamicBox(onSlope, 0.5, 0.5, 1, physics.CategoryBody)
	require.NoError(t, e.Tick(0))
	require.Len(t, e.Tracked(id), 1)
	q.Drain()

	space.DestroyBody(body)
	require.NoError(t, e.Tick(0))
	assert.Empty(t, e.Tracked(id))
	evts := q.Drain()
	require.Len(t, evts, 1)
	assert.Equal(t, events.BodyExitedSlope, evts[0].Kind)
	assert.Equal(t, body, evts[0].Body)
	assert.Equal(t, uint64(id), evts[0].Slope)
}

func TestMasslessBodiesIgnored(t *testing.T) {
	e, space, q := newTestEngine(t, DefaultConfig())
	id := register(t, e, descriptor.NewSlope(descriptor.SlopeBasic))

	space.AddKinematicBox(onSlope, 0.5, 0.5, physics.CategoryBody)
	require.NoError(t, e.Tick(0))
	assert.Empty(t, e.Tracked(id))
	assert.Zero(t, q.Len())
}

func TestAffectedLayersOverrideMask(t *testing.T) {
	e, space, _ := newTestEngine(t, DefaultConfig())
	d := descriptor.NewSlope(descriptor.SlopeBasic)
	d.AffectedLayers = 1 << 6
	id := register(t, e, d)

	space.AddDynamicBox(onSlope, 0.5, 0.5, 1, physics.CategoryBody)
	other := space.AddDynamicBox(onSlope, 0.5, 0.5, 1, 1<<6)
	require.NoError(t, e.Tick(0))
	assert.Equal(t, []physics.BodyID{other}, e.Tracked(id))
}

func TestUpdateRebuildsOnlyOnShapeChange(t *testing.T) {
	e, space, _ := newTestEngine(t, DefaultConfig())
	d := descriptor.NewSlope(descriptor.SlopeBasic)
	id := register(t, e, d)
	before, _ := e.Instance(id)

	d.SpeedMultiplier = 2
	_, err := e.Update(id, d)
	require.NoError(t, err)
	same, _ := e.Instance(id)
	assert.Equal(t, before.trigger, same.trigger)
	assert.Equal(t, 2.0, same.Desc.SpeedMultiplier)

	d.Angle = 45
	_, err = e.Update(id, d)
	require.NoError(t, err)
	rebuilt, _ := e.Instance(id)
	assert.NotEqual(t, before.trigger, rebuilt.trigger)
	assert.Greater(t, rebuilt.Geometry.Height, before.Geometry.Height)
	assert.Equal(t, 2, space.ShapeCount())
}

func TestUpdateKeepsGeometryOnError(t *testing.T) {
	e, space, _ := newTestEngine(t, DefaultConfig())
	d := descriptor.NewSlope(descriptor.SlopeBasic)
	id := register(t, e, d)
	before, _ := e.Instance(id)

	d.Scale = common.Vec{X: 1, Y: 0}
	_, err := e.Update(id, d)
	assert.ErrorIs(t, err, common.ErrInvalidSlopeGeometry)

	after, _ := e.Instance(id)
	assert.Equal(t, before.Geometry, after.Geometry)
	assert.Equal(t, before.Desc.Scale, after.Desc.Scale)
	assert.Equal(t, 2, space.ShapeCount())
}

func TestUpdateKindChangeReleasesBodies(t *testing.T) {
	e, space, q := newTestEngine(t, DefaultConfig())
	d := descriptor.NewSlope(descriptor.SlopeIce)
	id := register(t, e, d)

	body := space.AddDynamicBox(onSlope, 0.5, 0.5, 1, physics.CategoryBody)
	require.NoError(t, e.Tick(0))
	require.InDelta(t, 0.02, space.Friction(body), 1e-9)

	d.Kind = descriptor.SlopeBasic
	d.Params = nil
	_, err := e.Update(id, d)
	require.NoError(t, err)
	assert.InDelta(t, 0.8, space.Friction(body), 1e-9)
	assert.Empty(t, e.Tracked(id))
	assert.Equal(t, []events.Kind{events.BodyEnteredSlope, events.BodyExitedSlope}, kinds(q.Drain()))
}

func TestRemoveReleasesBodiesAndShapes(t *testing.T) {
	e, space, q := newTestEngine(t, DefaultConfig())
	id := register(t, e, descriptor.NewSlope(descriptor.SlopeGravity))

	body := space.AddDynamicBox(onSlope, 0.5, 0.5, 1, physics.CategoryBody)
	require.NoError(t, e.Tick(0))
	require.Equal(t, 0.5, space.GravityScale(body))

	assert.True(t, e.Remove(id))
	assert.False(t, e.Remove(id))
	assert.Equal(t, 1.0, space.GravityScale(body))
	assert.Zero(t, space.ShapeCount())
	assert.Zero(t, e.Len())
	assert.Equal(t, []events.Kind{events.BodyEnteredSlope, events.BodyExitedSlope}, kinds(q.Drain()))
}

func TestRegisterWarnsOnRepairs(t *testing.T) {
	e, _, _ := newTestEngine(t, DefaultConfig())
	d := descriptor.NewSlope(descriptor.SlopeBasic)
	d.Angle = 80
	d.Length = 1

	id, ws, err := e.Register(d)
	require.NoError(t, err)
	assert.Len(t, ws, 2)
	inst, _ := e.Instance(id)
	assert.Equal(t, descriptor.MaxSlopeAngle, inst.Desc.Angle)
	assert.Equal(t, descriptor.MinSlopeLength, inst.Desc.Length)
}

func TestMissingHost(t *testing.T) {
	e := NewEngine(nil, nil, DefaultConfig())
	_, _, err := e.Register(descriptor.NewSlope(descriptor.SlopeBasic))
	assert.ErrorIs(t, err, common.ErrMissingCollaborator)
	assert.ErrorIs(t, e.Tick(0), common.ErrMissingCollaborator)
}

func TestOverlappingGravitySlopesRestoreOriginalScale(t *testing.T) {
	e, space, _ := newTestEngine(t, DefaultConfig())
	first := descriptor.NewSlope(descriptor.SlopeGravity)
	second := descriptor.NewSlope(descriptor.SlopeGravity)
	second.Position = common.Vec{X: 0.5}
	register(t, e, first)
	secondID := register(t, e, second)

	body := space.AddDynamicBox(offSlope, 0.5, 0.5, 1, physics.CategoryBody)
	for i := 0; i < 3; i++ {
		space.SetPosition(body, onSlope)
		require.NoError(t, e.Tick(0))
		assert.InDelta(t, 0.25, space.GravityScale(body), 1e-12, "cycle %d", i)

		space.SetPosition(body, offSlope)
		require.NoError(t, e.Tick(0))
		assert.Equal(t, 1.0, space.GravityScale(body), "cycle %d", i)
	}

	space.SetPosition(body, onSlope)
	require.NoError(t, e.Tick(0))
	require.True(t, e.Remove(secondID))
	assert.InDelta(t, 0.5, space.GravityScale(body), 1e-12)

	space.SetPosition(body, offSlope)
	require.NoError(t, e.Tick(0))
	assert.Equal(t, 1.0, space.GravityScale(body))
}

func TestOverlappingIceSlopesRestoreOriginalFriction(t *testing.T) {
	e, space, _ := newTestEngine(t, DefaultConfig())
	first := descriptor.NewSlope(descriptor.SlopeIce)
	first.SetParameters(map[string]any{"friction": 0.05})
	second := descriptor.NewSlope(descriptor.SlopeIce)
	second.Position = common.Vec{X: 0.5}
	firstID := register(t, e, first)
	register(t, e, second)

	body := space.AddDynamicBox(offSlope, 0.5, 0.5, 1, physics.CategoryBody)
	for i := 0; i < 3; i++ {
		space.SetPosition(body, onSlope)
		require.NoError(t, e.Tick(0))
		assert.InDelta(t, 0.02, space.Friction(body), 1e-12, "cycle %d", i)

		space.SetPosition(body, offSlope)
		require.NoError(t, e.Tick(0))
		assert.Equal(t, 0.8, space.Friction(body), "cycle %d", i)
	}

	space.SetPosition(body, onSlope)
	require.NoError(t, e.Tick(0))
	require.True(t, e.Remove(firstID))
	assert.InDelta(t, 0.02, space.Friction(body), 1e-12)

	space.SetPosition(body, offSlope)
	require.NoError(t, e.Tick(0))
	assert.Equal(t, 0.8, space.Friction(body))
	assert.Empty(t, e.overrides)
}

func TestSinkMayRemoveSlopesDuringTick(t *testing.T) {
	space := physics.NewSpace(common.Vec{}, 10)
	var (
		e      *Engine
		remove ID
		seen   []events.Event
	)
	e = NewEngine(space, events.SinkFunc(func(evt events.Event) {
		seen = append(seen, evt)
		if evt.Kind == events.BodyEnteredSlope && remove != 0 {
			e.Remove(remove)
		}
	}), DefaultConfig())

	first := register(t, e, descriptor.NewSlope(descriptor.SlopeGravity))
	second := descriptor.NewSlope(descriptor.SlopeGravity)
	second.Position = common.Vec{X: 0.5}
	secondID := register(t, e, second)
	body := space.AddDynamicBox(onSlope, 0.5, 0.5, 1, physics.CategoryBody)

	remove = secondID
	require.NotPanics(t, func() { require.NoError(t, e.Tick(0)) })
	assert.Equal(t, []ID{first}, e.IDs())
	assert.Equal(t, []physics.BodyID{body}, e.Tracked(first))
	assert.InDelta(t, 0.5, space.GravityScale(body), 1e-12)

	// A slope removing itself from its own entry event leaves the body as
	// it found it.
	space.SetPosition(body, offSlope)
	require.NoError(t, e.Tick(0))
	remove = first
	space.SetPosition(body, onSlope)
	require.NotPanics(t, func() { require.NoError(t, e.Tick(0)) })
	assert.Zero(t, e.Len())
	assert.Equal(t, 1.0, space.GravityScale(body))
	assert.Equal(t, events.BodyExitedSlope, seen[len(seen)-1].Kind)
}
