package level

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/milk9111/platformgen/common"
	"github.com/milk9111/platformgen/config"
	"github.com/milk9111/platformgen/descriptor"
	"github.com/milk9111/platformgen/events"
	"github.com/milk9111/platformgen/physics"
	"github.com/milk9111/platformgen/tilegrid"
)

type countingRenderer struct {
	placed map[common.Cell]tilegrid.TileRef
}

func newCountingRenderer() *countingRenderer {
	return &countingRenderer{placed: make(map[common.Cell]tilegrid.TileRef)}
}

func (r *countingRenderer) Place(cell common.Cell, ref tilegrid.TileRef) { r.placed[cell] = ref }
func (r *countingRenderer) Clear(cell common.Cell)                       { delete(r.placed, cell) }

func testStage() descriptor.Stage {
	hill := descriptor.NewSlope(descriptor.SlopeGravity)
	hill.Name = "hill"
	hill.Position = common.Vec{X: 30}

	return descriptor.Stage{
		Name: "test",
		Layers: []descriptor.Layer{
			{
				Name:         "bedrock",
				Kind:         descriptor.LayerGround,
				AutoGenerate: true,
				Mode:         descriptor.ModeFlat,
				BaseHeight:   -5,
				Thickness:    3,
				Width:        10,
				TileVariants: []int{1},
			},
			{Name: "backdrop", Kind: descriptor.LayerBackground},
		},
		Segments: []descriptor.Segment{
			{
				Index:        1,
				Size:         descriptor.Extent{W: 8, H: 6},
				Thickness:    3,
				TileVariants: []int{1},
				Features: []descriptor.Feature{
					{Kind: descriptor.FeatureRamp, Position: common.Cell{X: 2, Y: 3}, Size: descriptor.Extent{W: 4, H: 2}},
				},
			},
			{Index: 0, Size: descriptor.Extent{W: 8, H: 6}, Thickness: 3, TileVariants: []int{1}},
		},
		Slopes: []descriptor.Slope{hill},
	}
}

func newTestStage(t *testing.T, mutate func(*config.Config)) (*Stage, *physics.Space, *events.Queue) {
	t.Helper()
	cfg := config.Default()
	cfg.Gravity = 0
	cfg.Scheduler.MaxPerFrame = 2
	cfg.Cleanup.Enabled = false
	if mutate != nil {
		mutate(cfg)
	}
	space := physics.NewSpace(cfg.GravityVector(), cfg.Physics.Iterations)
	q := &events.Queue{}
	s, err := New(cfg, space, newCountingRenderer(), q)
	require.NoError(t, err)
	return s, space, q
}

func warnings(evts []events.Event) []string {
	var out []string
	for _, e := range evts {
		if e.Kind == events.Warning {
			out = append(out, e.Message)
		}
	}
	return out
}

func TestNewRequiresCollaborators(t *testing.T) {
	_, err := New(nil, nil, newCountingRenderer(), nil)
	assert.ErrorIs(t, err, common.ErrMissingCollaborator)

	_, err = New(nil, physics.NewSpace(common.Vec{}, 10), nil, nil)
	assert.ErrorIs(t, err, common.ErrMissingCollaborator)

	bad := config.Default()
	bad.TileSize = 0
	_, err = New(bad, physics.NewSpace(common.Vec{}, 10), newCountingRenderer(), nil)
	assert.ErrorContains(t, err, "tile_size must be positive")
}

func TestUpdateSpreadsGenerationAcrossFrames(t *testing.T) {
	s, space, _ := newTestStage(t, nil)
	require.NoError(t, s.Load(testStage()))
	assert.Equal(t, 4, s.Scheduler().Pending())

	// bedrock and segment 0
	require.NoError(t, s.Update(1.0/60))
	assert.Equal(t, 2, s.Scheduler().Pending())
	tile, ok := s.Store().GetTile(common.C(0, -7))
	require.True(t, ok)
	assert.Equal(t, tilegrid.Ground, tile.Class)
	_, ok = s.Store().GetTile(common.C(8, 0))
	assert.False(t, ok, "segment 1 is not generated yet")
	assert.NotEmpty(t, s.Store().Geometry())

	// segment 1 queues its ramp behind the hill slope
	require.NoError(t, s.Update(1.0/60))
	assert.Equal(t, 1, s.Scheduler().Pending())
	_, ok = s.Store().GetTile(common.C(8, 0))
	assert.True(t, ok)

	require.NoError(t, s.Update(1.0/60))
	assert.True(t, s.Idle())
	assert.Equal(t, 2, s.Slopes().Len())
	assert.Equal(t, len(s.Store().Geometry())+4, space.ShapeCount(), "two shapes per slope")

	_, ok = s.SlopeID("hill")
	assert.True(t, ok)
	assert.Equal(t, []string{"hill", "ramp@10,3"}, s.SlopeNames())
	assert.Equal(t, 3, s.Frames())
}

func TestLoadForwardsRepairWarnings(t *testing.T) {
	s, _, q := newTestStage(t, nil)
	st := testStage()
	st.Slopes[0].Angle = 80

	require.NoError(t, s.Load(st))
	ws := warnings(q.Drain())
	require.Len(t, ws, 1)
	assert.True(t, strings.HasPrefix(ws[0], "slopes[0].angle:"), ws[0])
	assert.Equal(t, 80.0, st.Slopes[0].Angle, "caller's descriptor is not modified")
	assert.Equal(t, descriptor.MaxSlopeAngle, s.Descriptor().Slopes[0].Angle)
}

func TestInvalidDescriptorIsSkipped(t *testing.T) {
	s, _, q := newTestStage(t, nil)
	st := testStage()
	st.Layers[0].TileVariants = nil

	require.NoError(t, s.Load(st))
	require.NoError(t, s.Flush())

	ws := warnings(q.Drain())
	require.Len(t, ws, 1)
	assert.Contains(t, ws[0], `layer "bedrock" skipped`)
	_, ok := s.Store().GetTile(common.C(0, -7))
	assert.False(t, ok)
	_, ok = s.Store().GetTile(common.C(0, 0))
	assert.True(t, ok, "segments still generate")
	assert.Equal(t, 2, s.Slopes().Len())
}

func TestSlopesAffectBodies(t *testing.T) {
	s, space, q := newTestStage(t, nil)
	require.NoError(t, s.Load(testStage()))
	require.NoError(t, s.Flush())
	q.Drain()

	id, ok := s.SlopeID("hill")
	require.True(t, ok)
	body := space.AddDynamicBox(common.Vec{X: 32.5, Y: 2.2}, 0.5, 0.5, 1, physics.CategoryBody)

	require.NoError(t, s.Update(1.0/60))
	assert.Equal(t, []physics.BodyID{body}, s.Slopes().Tracked(id))
	assert.Equal(t, 0.5, space.GravityScale(body))

	evts := q.Drain()
	require.Len(t, evts, 1)
	assert.Equal(t, events.BodyEnteredSlope, evts[0].Kind)
}

func TestReloadReplacesStage(t *testing.T) {
	s, space, _ := newTestStage(t, nil)
	require.NoError(t, s.Load(testStage()))
	require.NoError(t, s.Flush())
	require.NotZero(t, s.Store().Len())

	next := descriptor.Stage{
		Name:     "small",
		Segments: []descriptor.Segment{{Size: descriptor.Extent{W: 2, H: 4}}},
	}
	require.NoError(t, s.Reload(next))
	assert.Zero(t, s.Store().Len())
	assert.Zero(t, s.Slopes().Len())
	assert.Empty(t, s.SlopeNames())

	require.NoError(t, s.Flush())
	assert.Equal(t, 6, s.Store().Len())
	assert.Equal(t, len(s.Store().Geometry()), space.ShapeCount())
	assert.Equal(t, "small", s.Descriptor().Name)
}

func TestHazardsAndPlatformsCollected(t *testing.T) {
	s, _, _ := newTestStage(t, nil)
	st := testStage()
	st.Segments[1].Features = append(st.Segments[1].Features, descriptor.Feature{Kind: descriptor.FeatureSpikes, Position: common.Cell{X: 0, Y: 3}})
	st.Segments[1].Platforms = []descriptor.Platform{
		{Kind: descriptor.PlatformMoving, Position: common.Cell{X: 1, Y: 5}, Size: descriptor.Extent{W: 2, H: 1}},
		{Kind: descriptor.PlatformIce, Position: common.Cell{X: 4, Y: 5}, Size: descriptor.Extent{W: 2, H: 1}},
	}

	require.NoError(t, s.Load(st))
	require.NoError(t, s.Flush())
	require.Len(t, s.Hazards(), 1)
	assert.Equal(t, descriptor.FeatureSpikes, s.Hazards()[0].Kind)
	require.Len(t, s.Dynamic(), 1)
	assert.Equal(t, descriptor.PlatformMoving, s.Dynamic()[0].Platform.Kind)
	require.Len(t, s.Surfaces(), 1)
}

func TestCleanupDropsDistantTiles(t *testing.T) {
	s, _, _ := newTestStage(t, func(c *config.Config) {
		c.Cleanup = config.CleanupConfig{Enabled: true, Distance: 5, IntervalFrames: 2}
	})
	require.NoError(t, s.Load(testStage()))
	require.NoError(t, s.Flush())
	total := s.Store().Len()

	s.SetFocus(common.Vec{X: 1000})
	require.NoError(t, s.Update(0))
	assert.Equal(t, total, s.Store().Len(), "cleanup runs every second frame")
	require.NoError(t, s.Update(0))
	assert.Zero(t, s.Store().Len())
}

func TestWatchAppliesReloads(t *testing.T) {
	s, _, _ := newTestStage(t, nil)
	dir := t.TempDir()
	require.NoError(t, s.Watch(dir))
	defer s.Close()
	assert.Error(t, s.Watch(dir))

	data := []byte("name: watched\nsegments:\n  - size: {w: 3, h: 4}\n")
	require.NoError(t, os.WriteFile(filepath.Join(dir, "stage.yaml"), data, 0o644))

	deadline := time.Now().Add(5 * time.Second)
	for s.Descriptor().Name != "watched" {
		if time.Now().After(deadline) {
			t.Fatal("stage was not reloaded")
		}
		require.NoError(t, s.Update(0))
		time.Sleep(10 * time.Millisecond)
	}
	require.NoError(t, s.Flush())
	assert.Equal(t, 9, s.Store().Len())
}
