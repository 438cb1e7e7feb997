package physics

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/milk9111/platformgen/common"
)

func TestOverlapShapeRespectsLayerMask(t *testing.T) {
	s := NewSpace(common.Vec{}, 10)
	trigger, err := s.AddBox(common.Rect{X: 0, Y: 0, W: 4, H: 4}, ShapeOptions{Sensor: true, Category: CategoryTrigger})
	require.NoError(t, err)

	inside := s.AddDynamicBox(common.Vec{X: 2, Y: 2}, 1, 1, 1, CategoryBody)
	_ = s.AddDynamicBox(common.Vec{X: 20, Y: 2}, 1, 1, 1, CategoryBody)
	other := s.AddDynamicBox(common.Vec{X: 1, Y: 1}, 1, 1, 1, 1<<6)

	assert.Equal(t, []BodyID{inside}, s.OverlapShape(trigger, CategoryBody))
	assert.Equal(t, []BodyID{inside, other}, s.OverlapShape(trigger, CategoryAll))
	assert.Empty(t, s.OverlapShape(trigger, CategorySolid))
	assert.Nil(t, s.OverlapShape(999, CategoryAll))
}

func TestSetPositionUpdatesQueriesWithoutStep(t *testing.T) {
	s := NewSpace(common.Vec{Y: -10}, 10)
	trigger, err := s.AddBox(common.Rect{X: 0, Y: 0, W: 4, H: 4}, ShapeOptions{Sensor: true, Category: CategoryTrigger})
	require.NoError(t, err)
	b := s.AddDynamicBox(common.Vec{X: 50, Y: 50}, 1, 1, 1, CategoryBody)
	s.SetFriction(b, 0.3)
	require.Empty(t, s.OverlapShape(trigger, CategoryAll))

	s.SetPosition(b, common.Vec{X: 2, Y: 2})
	assert.Equal(t, []BodyID{b}, s.OverlapShape(trigger, CategoryAll))
	assert.Equal(t, common.Vec{X: 2, Y: 2}, s.Position(b))
	assert.InDelta(t, 0.3, s.Friction(b), 1e-9)

	s.SetPosition(b, common.Vec{X: -50, Y: 2})
	assert.Empty(t, s.OverlapShape(trigger, CategoryAll))

	s.SetPosition(999, common.Vec{})
	assert.NotPanics(t, func() { s.Step(1.0 / 60) })
}

func TestGravityScale(t *testing.T) {
	s := NewSpace(common.Vec{Y: -10}, 10)
	normal := s.AddDynamicBox(common.Vec{X: 0, Y: 10}, 1, 1, 1, 0)
	floating := s.AddDynamicBox(common.Vec{X: 10, Y: 10}, 1, 1, 1, 0)
	s.SetGravityScale(floating, 0)

	assert.Equal(t, 1.0, s.GravityScale(normal))
	for i := 0; i < 10; i++ {
		s.Step(1.0 / 60)
	}
	assert.Less(t, s.Velocity(normal).Y, 0.0)
	assert.InDelta(t, 0, s.Velocity(floating).Y, 1e-9)
	assert.Equal(t, common.Vec{Y: -10}, s.Gravity())
}

func TestForcesAndImpulses(t *testing.T) {
	s := NewSpace(common.Vec{}, 10)
	b := s.AddDynamicBox(common.Vec{}, 1, 1, 2, 0)

	m, ok := s.Mass(b)
	require.True(t, ok)
	assert.Equal(t, 2.0, m)

	s.ApplyImpulse(b, common.Vec{X: 4})
	assert.InDelta(t, 2, s.Velocity(b).X, 1e-9)

	s.SetVelocity(b, common.Vec{})
	s.AddForce(b, common.Vec{X: 10})
	s.Step(0.1)
	assert.InDelta(t, 0.5, s.Velocity(b).X, 1e-9)
}

func TestKinematicBodyHasNoMass(t *testing.T) {
	s := NewSpace(common.Vec{}, 10)
	k := s.AddKinematicBox(common.Vec{}, 1, 1, 0)
	_, ok := s.Mass(k)
	assert.False(t, ok)
	_, ok = s.Mass(12345)
	assert.False(t, ok)
}

func TestFriction(t *testing.T) {
	s := NewSpace(common.Vec{}, 10)
	b := s.AddDynamicBox(common.Vec{}, 1, 1, 1, 0)
	assert.Equal(t, 0.8, s.Friction(b))
	s.SetFriction(b, 0.02)
	assert.Equal(t, 0.02, s.Friction(b))
}

func TestDestroyBody(t *testing.T) {
	s := NewSpace(common.Vec{}, 10)
	trigger, err := s.AddBox(common.Rect{W: 4, H: 4}, ShapeOptions{Sensor: true})
	require.NoError(t, err)
	b := s.AddDynamicBox(common.Vec{X: 2, Y: 2}, 1, 1, 1, 0)
	require.True(t, s.Exists(b))

	s.DestroyBody(b)
	assert.False(t, s.Exists(b))
	assert.Empty(t, s.OverlapShape(trigger, CategoryAll))
	s.DestroyBody(b)
}

func TestShapeRegistration(t *testing.T) {
	s := NewSpace(common.Vec{}, 10)

	_, err := s.AddBox(common.Rect{W: 0, H: 1}, ShapeOptions{})
	require.Error(t, err)
	_, err = s.AddPolygon([]common.Vec{{X: 0}, {X: 1}}, ShapeOptions{})
	require.Error(t, err)

	clockwise := []common.Vec{{X: 0, Y: 0}, {X: 0, Y: 1}, {X: 1, Y: 1}, {X: 1, Y: 0}}
	id, err := s.AddPolygon(clockwise, ShapeOptions{})
	require.NoError(t, err)
	bounds, ok := s.ShapeBounds(id)
	require.True(t, ok)
	assert.InDelta(t, 1, bounds.W, 1e-9)
	assert.InDelta(t, 1, bounds.H, 1e-9)
	assert.Equal(t, 1, s.ShapeCount())

	s.RemoveShape(id)
	s.RemoveShape(id)
	assert.Equal(t, 0, s.ShapeCount())
}

func TestBodyRestsOnSolidBox(t *testing.T) {
	s := NewSpace(common.Vec{Y: -10}, 10)
	_, err := s.AddBox(common.Rect{X: -5, Y: -1, W: 10, H: 1}, ShapeOptions{Friction: 0.8})
	require.NoError(t, err)
	b := s.AddDynamicBox(common.Vec{Y: 1}, 1, 1, 1, 0)

	for i := 0; i < 180; i++ {
		s.Step(1.0 / 60)
	}
	assert.Greater(t, s.Position(b).Y, 0.0)
}
