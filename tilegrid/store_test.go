package tilegrid

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/milk9111/platformgen/common"
	"github.com/milk9111/platformgen/physics"
	physicsmock "github.com/milk9111/platformgen/physics/mock"
)

type recordingRenderer struct {
	placed  map[common.Cell]TileRef
	cleared int
}

func newRecordingRenderer() *recordingRenderer {
	return &recordingRenderer{placed: make(map[common.Cell]TileRef)}
}

func (r *recordingRenderer) Place(cell common.Cell, ref TileRef) { r.placed[cell] = ref }

func (r *recordingRenderer) Clear(cell common.Cell) {
	delete(r.placed, cell)
	r.cleared++
}

func fill(t *testing.T, s *Store, r common.Region, class Classification) {
	t.Helper()
	for y := r.Y; y < r.Y+r.H; y++ {
		for x := r.X; x < r.X+r.W; x++ {
			require.NoError(t, s.SetTile(common.C(x, y), 1, class))
		}
	}
}

func TestSetGetClear(t *testing.T) {
	rr := newRecordingRenderer()
	s := NewStore(1, rr, nil)

	require.NoError(t, s.SetTile(common.C(2, -3), 7, Ground))
	tile, ok := s.GetTile(common.C(2, -3))
	require.True(t, ok)
	assert.Equal(t, Tile{Ref: 7, Class: Ground}, tile)
	assert.Equal(t, TileRef(7), rr.placed[common.C(2, -3)])
	assert.True(t, s.Dirty())

	require.NoError(t, s.SetTile(common.C(2, -3), 9, Wall))
	tile, _ = s.GetTile(common.C(2, -3))
	assert.Equal(t, Tile{Ref: 9, Class: Wall}, tile)
	assert.Equal(t, 1, s.Len())

	require.NoError(t, s.ClearCell(common.C(2, -3)))
	_, ok = s.GetTile(common.C(2, -3))
	assert.False(t, ok)
	assert.Empty(t, rr.placed)

	assert.False(t, s.SetClass(common.C(0, 0), Ceiling))
}

func TestMissingCollaborators(t *testing.T) {
	s := NewStore(1, nil, nil)
	require.ErrorIs(t, s.SetTile(common.C(0, 0), 1, Ground), common.ErrMissingCollaborator)
	_, err := s.ClearRegion(common.Region{W: 1, H: 1})
	require.ErrorIs(t, err, common.ErrMissingCollaborator)
	require.ErrorIs(t, s.ClearAll(), common.ErrMissingCollaborator)
	_, err = s.CleanupDistant(common.Vec{}, 1)
	require.ErrorIs(t, err, common.ErrMissingCollaborator)
	require.ErrorIs(t, s.RegenerateCollisionGeometry(), common.ErrMissingCollaborator)
}

func TestClearRegionAndQuery(t *testing.T) {
	rr := newRecordingRenderer()
	s := NewStore(1, rr, nil)
	fill(t, s, common.Region{X: 0, Y: 0, W: 5, H: 3}, Ground)

	got := s.Query(common.Region{X: 1, Y: 1, W: 2, H: 2})
	require.Len(t, got, 4)
	assert.Equal(t, []common.Cell{{X: 1, Y: 1}, {X: 2, Y: 1}, {X: 1, Y: 2}, {X: 2, Y: 2}},
		[]common.Cell{got[0].Cell, got[1].Cell, got[2].Cell, got[3].Cell})

	n, err := s.ClearRegion(common.Region{X: 3, Y: -10, W: 100, H: 100})
	require.NoError(t, err)
	assert.Equal(t, 6, n)
	assert.Equal(t, 9, s.Len())

	bounds, ok := s.Bounds()
	require.True(t, ok)
	assert.Equal(t, common.Region{X: 0, Y: 0, W: 3, H: 3}, bounds)

	require.NoError(t, s.ClearAll())
	assert.Equal(t, 0, s.Len())
	assert.Empty(t, rr.placed)
	_, ok = s.Bounds()
	assert.False(t, ok)
}

func TestHugeRegionsDoNotOverflow(t *testing.T) {
	rr := newRecordingRenderer()
	s := NewStore(1, rr, nil)
	fill(t, s, common.Region{X: -2, Y: 0, W: 4, H: 2}, Ground)

	huge := common.Region{X: 0, Y: 0, W: math.MaxInt / 2, H: 4}
	got := s.Query(huge)
	require.Len(t, got, 4)
	assert.Equal(t, common.C(0, 0), got[0].Cell)
	assert.Equal(t, common.C(1, 1), got[3].Cell)

	edge := common.Region{X: math.MaxInt - 1, Y: math.MinInt, W: math.MaxInt, H: math.MaxInt}
	assert.Empty(t, s.Query(edge))

	n, err := s.ClearRegion(common.Region{X: math.MinInt / 2, Y: math.MinInt / 2, W: math.MaxInt, H: math.MaxInt})
	require.NoError(t, err)
	assert.Equal(t, 8, n)
	assert.Zero(t, s.Len())
}

func TestCleanupDistant(t *testing.T) {
	s := NewStore(2, newRecordingRenderer(), nil)
	require.NoError(t, s.SetTile(common.C(0, 0), 1, Ground))
	require.NoError(t, s.SetTile(common.C(10, 0), 1, Ground))
	require.NoError(t, s.SetTile(common.C(-50, 3), 1, Ground))

	n, err := s.CleanupDistant(common.Vec{X: 1, Y: 1}, 30)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	_, ok := s.GetTile(common.C(-50, 3))
	assert.False(t, ok)
	_, ok = s.GetTile(common.C(10, 0))
	assert.True(t, ok)
}

func TestMergeRects(t *testing.T) {
	tiles := map[common.Cell]Tile{}
	put := func(r common.Region, class Classification) {
		for y := r.Y; y < r.Y+r.H; y++ {
			for x := r.X; x < r.X+r.W; x++ {
				tiles[common.C(x, y)] = Tile{Ref: 1, Class: class}
			}
		}
	}
	put(common.Region{X: 0, Y: 0, W: 4, H: 2}, Ground)
	put(common.Region{X: 0, Y: 2, W: 1, H: 3}, Ground)
	put(common.Region{X: 6, Y: 4, W: 3, H: 1}, OneWayPlatform)
	put(common.Region{X: 4, Y: 0, W: 1, H: 1}, Wall)
	put(common.Region{X: 10, Y: 10, W: 2, H: 2}, None)

	rects := MergeRects(tiles)
	assert.Equal(t, []Rect{
		{Region: common.Region{X: 0, Y: 0, W: 4, H: 2}, Class: Ground},
		{Region: common.Region{X: 0, Y: 2, W: 1, H: 3}, Class: Ground},
		{Region: common.Region{X: 4, Y: 0, W: 1, H: 1}, Class: Wall},
		{Region: common.Region{X: 6, Y: 4, W: 3, H: 1}, Class: OneWayPlatform},
	}, rects)

	covered := 0
	for _, r := range rects {
		covered += r.Region.W * r.Region.H
	}
	assert.Equal(t, len(tiles)-4, covered)
}

func TestRegenerateIsIdempotent(t *testing.T) {
	space := physics.NewSpace(common.Vec{Y: -9.81}, 10)
	s := NewStore(1, newRecordingRenderer(), space)
	fill(t, s, common.Region{X: 0, Y: -3, W: 10, H: 3}, Ground)
	fill(t, s, common.Region{X: 2, Y: 4, W: 3, H: 1}, OneWayPlatform)

	require.NoError(t, s.RegenerateCollisionGeometry())
	first := s.Geometry()
	firstCount := space.ShapeCount()
	assert.False(t, s.Dirty())

	require.NoError(t, s.RegenerateCollisionGeometry())
	assert.Equal(t, first, s.Geometry())
	assert.Equal(t, firstCount, space.ShapeCount())
	assert.Equal(t, 2, firstCount)
}

func TestRegenerateUsesCategories(t *testing.T) {
	ctrl := gomock.NewController(t)
	host := physicsmock.NewMockHost(ctrl)
	s := NewStore(2, newRecordingRenderer(), host)
	fill(t, s, common.Region{X: 0, Y: 0, W: 2, H: 1}, Ground)
	fill(t, s, common.Region{X: 0, Y: 3, W: 1, H: 1}, OneWayPlatform)

	gomock.InOrder(
		host.EXPECT().
			AddBox(common.Rect{X: 0, Y: 0, W: 4, H: 2}, physics.ShapeOptions{Category: physics.CategorySolid, Friction: 0.8}).
			Return(physics.ShapeID(1), nil),
		host.EXPECT().
			AddBox(common.Rect{X: 0, Y: 6, W: 2, H: 2}, physics.ShapeOptions{Category: physics.CategoryOneWay, OneWay: true, Friction: 0.8}).
			Return(physics.ShapeID(2), nil),
	)
	require.NoError(t, s.RegenerateCollisionGeometry())

	host.EXPECT().RemoveShape(physics.ShapeID(1))
	host.EXPECT().RemoveShape(physics.ShapeID(2))
	require.NoError(t, s.ClearAll())
	require.NoError(t, s.RegenerateCollisionGeometry())
	assert.Empty(t, s.Geometry())
}

func TestParseClassification(t *testing.T) {
	c, ok := ParseClassification("OneWayPlatform")
	require.True(t, ok)
	assert.Equal(t, OneWayPlatform, c)
	c, ok = ParseClassification("ceiling_platform")
	require.True(t, ok)
	assert.Equal(t, CeilingPlatform, c)
	_, ok = ParseClassification("lava")
	assert.False(t, ok)
	assert.True(t, Wall.Solid())
	assert.False(t, OneWayPlatform.Solid())
	assert.True(t, OneWayPlatform.Collides())
	assert.False(t, None.Collides())
}
