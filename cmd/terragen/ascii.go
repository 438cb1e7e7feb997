package main

import (
	"strings"

	"github.com/milk9111/platformgen/common"
	"github.com/milk9111/platformgen/tilegrid"
)

// asciiRenderer accepts tiles without drawing them. The map is printed
// from the store afterwards.
type asciiRenderer struct {
	placed int
}

func (r *asciiRenderer) Place(common.Cell, tilegrid.TileRef) { r.placed++ }
func (r *asciiRenderer) Clear(common.Cell)                   {}

var classGlyphs = map[tilegrid.Classification]byte{
	tilegrid.None:            '.',
	tilegrid.Ground:          '#',
	tilegrid.Platform:        '=',
	tilegrid.Wall:            '|',
	tilegrid.Ceiling:         '^',
	tilegrid.CeilingPlatform: '~',
	tilegrid.OneWayPlatform:  '-',
}

// asciiMap prints the store top row first.
func asciiMap(store *tilegrid.Store) string {
	bounds, ok := store.Bounds()
	if !ok {
		return ""
	}
	var b strings.Builder
	for y := bounds.MaxY(); y >= bounds.Y; y-- {
		row := make([]byte, bounds.W)
		for i := range row {
			row[i] = ' '
			if t, ok := store.GetTile(common.C(bounds.X+i, y)); ok {
				row[i] = classGlyphs[t.Class]
			}
		}
		b.WriteString(strings.TrimRight(string(row), " "))
		b.WriteByte('\n')
	}
	return b.String()
}
