package tilegrid

import (
	"errors"
	"fmt"
	"log"
	"sort"

	"github.com/milk9111/platformgen/common"
	"github.com/milk9111/platformgen/physics"
)

// Rect is one merged block of same-class cells.
type Rect struct {
	Region common.Region
	Class  Classification
}

// Store is a sparse cell map. Writes are visible immediately; collision
// geometry is only rebuilt by RegenerateCollisionGeometry.
type Store struct {
	tiles    map[common.Cell]Tile
	renderer Renderer
	collider physics.ShapeRegistry
	tileSize float64

	shapes   []physics.ShapeID
	geometry []Rect
	dirty    bool
	friction float64
}

func NewStore(tileSize float64, renderer Renderer, collider physics.ShapeRegistry) *Store {
	if tileSize <= 0 {
		tileSize = 1
	}
	return &Store{
		tiles:    make(map[common.Cell]Tile),
		renderer: renderer,
		collider: collider,
		tileSize: tileSize,
		friction: 0.8,
	}
}

func (s *Store) TileSize() float64 { return s.tileSize }

func (s *Store) SetTile(cell common.Cell, ref TileRef, class Classification) error {
	if s.renderer == nil {
		return fmt.Errorf("tilegrid: set %s: renderer: %w", cell, common.ErrMissingCollaborator)
	}
	s.tiles[cell] = Tile{Ref: ref, Class: class}
	s.renderer.Place(cell, ref)
	s.dirty = true
	return nil
}

func (s *Store) GetTile(cell common.Cell) (Tile, bool) {
	t, ok := s.tiles[cell]
	return t, ok
}

// SetClass reclassifies an existing cell, keeping its visual.
func (s *Store) SetClass(cell common.Cell, class Classification) bool {
	t, ok := s.tiles[cell]
	if !ok {
		return false
	}
	if t.Class != class {
		t.Class = class
		s.tiles[cell] = t
		s.dirty = true
	}
	return true
}

func (s *Store) ClearCell(cell common.Cell) error {
	if s.renderer == nil {
		return fmt.Errorf("tilegrid: clear %s: renderer: %w", cell, common.ErrMissingCollaborator)
	}
	s.clear(cell)
	return nil
}

func (s *Store) clear(cell common.Cell) {
	if _, ok := s.tiles[cell]; !ok {
		return
	}
	delete(s.tiles, cell)
	s.renderer.Clear(cell)
	s.dirty = true
}

// ClearRegion removes every cell inside r and returns how many were removed.
func (s *Store) ClearRegion(r common.Region) (int, error) {
	if s.renderer == nil {
		return 0, fmt.Errorf("tilegrid: clear region %s: renderer: %w", r, common.ErrMissingCollaborator)
	}
	if r.Empty() {
		return 0, nil
	}
	cells := s.cellsIn(r)
	for _, c := range cells {
		s.clear(c)
	}
	return len(cells), nil
}

func (s *Store) ClearAll() error {
	if s.renderer == nil {
		return fmt.Errorf("tilegrid: clear all: renderer: %w", common.ErrMissingCollaborator)
	}
	for c := range s.tiles {
		s.renderer.Clear(c)
	}
	if len(s.tiles) > 0 {
		s.dirty = true
	}
	s.tiles = make(map[common.Cell]Tile)
	return nil
}

// cellsIn walks the region when it is smaller than the store and scans the
// store otherwise. The size check divides so huge regions cannot overflow.
func (s *Store) cellsIn(r common.Region) []common.Cell {
	var out []common.Cell
	if r.Empty() {
		return nil
	}
	if r.W <= len(s.tiles)/r.H {
		for dy := 0; dy < r.H; dy++ {
			for dx := 0; dx < r.W; dx++ {
				c := common.Cell{X: r.X + dx, Y: r.Y + dy}
				if _, ok := s.tiles[c]; ok {
					out = append(out, c)
				}
			}
		}
		return out
	}
	for c := range s.tiles {
		if r.Contains(c) {
			out = append(out, c)
		}
	}
	sortCells(out)
	return out
}

// Query returns the cells inside r ordered by row then column.
func (s *Store) Query(r common.Region) []Entry {
	cells := s.cellsIn(r)
	out := make([]Entry, len(cells))
	for i, c := range cells {
		out[i] = Entry{Cell: c, Tile: s.tiles[c]}
	}
	return out
}

// Entries returns every cell ordered by row then column.
func (s *Store) Entries() []Entry {
	cells := make([]common.Cell, 0, len(s.tiles))
	for c := range s.tiles {
		cells = append(cells, c)
	}
	sortCells(cells)
	out := make([]Entry, len(cells))
	for i, c := range cells {
		out[i] = Entry{Cell: c, Tile: s.tiles[c]}
	}
	return out
}

func (s *Store) Len() int { return len(s.tiles) }

// Bounds returns the smallest region holding every cell.
func (s *Store) Bounds() (common.Region, bool) {
	if len(s.tiles) == 0 {
		return common.Region{}, false
	}
	first := true
	var minX, minY, maxX, maxY int
	for c := range s.tiles {
		if first {
			minX, maxX, minY, maxY = c.X, c.X, c.Y, c.Y
			first = false
			continue
		}
		minX = min(minX, c.X)
		maxX = max(maxX, c.X)
		minY = min(minY, c.Y)
		maxY = max(maxY, c.Y)
	}
	return common.Region{X: minX, Y: minY, W: maxX - minX + 1, H: maxY - minY + 1}, true
}

// CleanupDistant clears cells whose centre is farther than threshold world
// units from point.
func (s *Store) CleanupDistant(point common.Vec, threshold float64) (int, error) {
	if s.renderer == nil {
		return 0, fmt.Errorf("tilegrid: cleanup: renderer: %w", common.ErrMissingCollaborator)
	}
	var far []common.Cell
	for c := range s.tiles {
		if c.Center(s.tileSize).Sub(point).Len() > threshold {
			far = append(far, c)
		}
	}
	for _, c := range far {
		s.clear(c)
	}
	if len(far) > 0 {
		log.Printf("tilegrid: cleanup removed %d distant tiles", len(far))
	}
	return len(far), nil
}

// Dirty reports whether cells changed since the last regeneration.
func (s *Store) Dirty() bool { return s.dirty }

// Geometry returns the rectangles registered by the last regeneration.
func (s *Store) Geometry() []Rect {
	return append([]Rect(nil), s.geometry...)
}

// RegenerateCollisionGeometry replaces the registered static shapes with a
// fresh greedy merge of the colliding cells.
func (s *Store) RegenerateCollisionGeometry() error {
	if s.collider == nil {
		return fmt.Errorf("tilegrid: regenerate: collider: %w", common.ErrMissingCollaborator)
	}
	for _, id := range s.shapes {
		s.collider.RemoveShape(id)
	}
	s.shapes = s.shapes[:0]

	rects := MergeRects(s.tiles)
	var errs []error
	for _, r := range rects {
		opts := physics.ShapeOptions{Category: physics.CategorySolid, Friction: s.friction}
		if r.Class == OneWayPlatform {
			opts.Category = physics.CategoryOneWay
			opts.OneWay = true
		}
		id, err := s.collider.AddBox(r.Region.World(s.tileSize), opts)
		if err != nil {
			errs = append(errs, fmt.Errorf("tilegrid: register %s: %w", r.Region, err))
			continue
		}
		s.shapes = append(s.shapes, id)
	}
	s.geometry = rects
	s.dirty = false
	log.Printf("tilegrid: regenerated %d shapes from %d tiles", len(s.shapes), len(s.tiles))
	return errors.Join(errs...)
}

// MergeRects greedily merges colliding cells of equal classification into
// rectangles: each run is grown right, then upward while the full row matches.
// Output is ordered by class, then row, then column.
func MergeRects(tiles map[common.Cell]Tile) []Rect {
	byClass := make(map[Classification][]common.Cell)
	for c, t := range tiles {
		if t.Class.Collides() {
			byClass[t.Class] = append(byClass[t.Class], c)
		}
	}
	classes := make([]Classification, 0, len(byClass))
	for class := range byClass {
		classes = append(classes, class)
	}
	sort.Slice(classes, func(i, j int) bool { return classes[i] < classes[j] })

	var out []Rect
	for _, class := range classes {
		cells := byClass[class]
		sortCells(cells)
		processed := make(map[common.Cell]bool, len(cells))
		open := func(c common.Cell) bool {
			t, ok := tiles[c]
			return ok && t.Class == class && !processed[c]
		}
		for _, c := range cells {
			if processed[c] {
				continue
			}
			w := 1
			for open(common.Cell{X: c.X + w, Y: c.Y}) {
				w++
			}
			h := 1
		heightLoop:
			for {
				for x := c.X; x < c.X+w; x++ {
					if !open(common.Cell{X: x, Y: c.Y + h}) {
						break heightLoop
					}
				}
				h++
			}
			for y := c.Y; y < c.Y+h; y++ {
				for x := c.X; x < c.X+w; x++ {
					processed[common.Cell{X: x, Y: y}] = true
				}
			}
			out = append(out, Rect{Region: common.Region{X: c.X, Y: c.Y, W: w, H: h}, Class: class})
		}
	}
	return out
}

func sortCells(cells []common.Cell) {
	sort.Slice(cells, func(i, j int) bool {
		if cells[i].Y != cells[j].Y {
			return cells[i].Y < cells[j].Y
		}
		return cells[i].X < cells[j].X
	})
}
