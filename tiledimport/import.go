// Package tiledimport loads hand-authored Tiled maps into a tile store.
//
// Tile classification comes from a "classification" property on the
// tileset tile, then on the layer, then Options.DefaultClass. Tiles with
// a "slope" property ("ascending" or "descending") are drawn but not made
// solid; diagonal runs of them become slope descriptors whose kind is
// read from "slope_kind".
package tiledimport

import (
	"fmt"
	"io/fs"
	"log"
	"sort"

	"github.com/lafriks/go-tiled"

	"github.com/milk9111/platformgen/common"
	"github.com/milk9111/platformgen/descriptor"
	"github.com/milk9111/platformgen/tilegrid"
)

const (
	propClassification = "classification"
	propSlope          = "slope"
	propSlopeKind      = "slope_kind"
)

type Options struct {
	// Layer names the tile layer to import. Empty imports the first one.
	Layer string
	// Origin is the cell the map's bottom-left tile lands on.
	Origin       common.Cell
	DefaultClass tilegrid.Classification
}

type Result struct {
	Layer  string
	Width  int
	Height int
	Cells  int
	Counts map[tilegrid.Classification]int
	Slopes []descriptor.Slope
}

type slopeTile struct {
	dir  descriptor.Direction
	kind descriptor.SlopeKind
}

// Import reads the TMX file at path from fsys and writes the chosen layer
// into store. Tiled rows run top-down, so rows are flipped into the
// store's Y-up grid.
func Import(fsys fs.FS, path string, store *tilegrid.Store, opts Options) (Result, error) {
	levelMap, err := tiled.LoadFile(path, tiled.WithFileSystem(fsys))
	if err != nil {
		return Result{}, fmt.Errorf("tiledimport: load TMX %s: %w", path, err)
	}

	layer, err := findLayer(levelMap, opts.Layer)
	if err != nil {
		return Result{}, fmt.Errorf("tiledimport: %s: %w", path, err)
	}

	layerClass := opts.DefaultClass
	if name := layer.Properties.GetString(propClassification); name != "" {
		if c, ok := tilegrid.ParseClassification(name); ok {
			layerClass = c
		} else {
			log.Printf("tiledimport: layer %q: unknown classification %q", layer.Name, name)
		}
	}

	res := Result{
		Layer:  layer.Name,
		Width:  levelMap.Width,
		Height: levelMap.Height,
		Counts: make(map[tilegrid.Classification]int),
	}
	slopes := make(map[common.Cell]slopeTile)

	for y := 0; y < levelMap.Height; y++ {
		for x := 0; x < levelMap.Width; x++ {
			i := y*levelMap.Width + x
			if i >= len(layer.Tiles) {
				continue
			}
			tile := layer.Tiles[i]
			if tile == nil || tile.IsNil() {
				continue
			}

			cell := common.Cell{X: opts.Origin.X + x, Y: opts.Origin.Y + levelMap.Height - 1 - y}
			class := layerClass
			var props tiled.Properties
			if tile.Tileset != nil {
				if tt, err := tile.Tileset.GetTilesetTile(tile.ID); err == nil {
					props = tt.Properties
				}
			}
			if name := props.GetString(propClassification); name != "" {
				if c, ok := tilegrid.ParseClassification(name); ok {
					class = c
				} else {
					log.Printf("tiledimport: tile %d: unknown classification %q", tile.ID, name)
				}
			}
			if st, ok := parseSlopeTile(props); ok {
				slopes[cell] = st
				class = tilegrid.None
			}

			ref := tilegrid.TileRef(tile.ID + 1)
			if tile.Tileset != nil {
				ref = tilegrid.TileRef(tile.Tileset.FirstGID + tile.ID)
			}
			if err := store.SetTile(cell, ref, class); err != nil {
				return res, fmt.Errorf("tiledimport: %s: %w", path, err)
			}
			res.Cells++
			res.Counts[class]++
		}
	}

	res.Slopes = slopeRuns(slopes, store.TileSize())
	return res, nil
}

func findLayer(m *tiled.Map, name string) (*tiled.Layer, error) {
	for _, l := range m.Layers {
		if name == "" || l.Name == name {
			return l, nil
		}
	}
	if name == "" {
		return nil, fmt.Errorf("no tile layers")
	}
	return nil, fmt.Errorf("no tile layer %q", name)
}

func parseSlopeTile(props tiled.Properties) (slopeTile, bool) {
	v := props.GetString(propSlope)
	if v == "" {
		return slopeTile{}, false
	}
	dir, ok := descriptor.ParseDirection(v)
	if !ok {
		log.Printf("tiledimport: unknown slope direction %q", v)
		return slopeTile{}, false
	}
	st := slopeTile{dir: dir, kind: descriptor.SlopeBasic}
	if k := props.GetString(propSlopeKind); k != "" {
		if kind, ok := descriptor.ParseSlopeKind(k); ok {
			st.kind = kind
		} else {
			log.Printf("tiledimport: unknown slope kind %q", k)
		}
	}
	return st, true
}

// slopeRuns joins diagonal chains of matching slope tiles into 45 degree
// slopes. Ascending chains step up-right, descending chains down-right.
func slopeRuns(tiles map[common.Cell]slopeTile, tileSize float64) []descriptor.Slope {
	cells := make([]common.Cell, 0, len(tiles))
	for c := range tiles {
		cells = append(cells, c)
	}
	sort.Slice(cells, func(i, j int) bool {
		if cells[i].X != cells[j].X {
			return cells[i].X < cells[j].X
		}
		return cells[i].Y < cells[j].Y
	})

	var out []descriptor.Slope
	for _, start := range cells {
		st := tiles[start]
		step := common.Cell{X: 1, Y: 1}
		if st.dir == descriptor.Descending {
			step.Y = -1
		}
		if prev, ok := tiles[common.Cell{X: start.X - step.X, Y: start.Y - step.Y}]; ok && prev == st {
			continue
		}

		n := 1
		for {
			next, ok := tiles[common.Cell{X: start.X + n*step.X, Y: start.Y + n*step.Y}]
			if !ok || next != st {
				break
			}
			n++
		}

		s := descriptor.NewSlope(st.kind)
		s.Name = fmt.Sprintf("tiled@%d,%d", start.X, start.Y)
		s.Direction = st.dir
		s.Angle = 45
		s.Length = float64(n) * tileSize
		bottom := start.Y
		if st.dir == descriptor.Descending {
			bottom = start.Y - n + 1
		}
		s.Position = common.Vec{X: float64(start.X) * tileSize, Y: float64(bottom) * tileSize}
		out = append(out, s)
	}
	return out
}
