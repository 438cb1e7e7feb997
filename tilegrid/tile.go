// Package tilegrid stores classified terrain cells and derives static
// collision geometry from them.
package tilegrid

import (
	"fmt"
	"strings"

	"github.com/milk9111/platformgen/common"
)

// TileRef identifies a visual tile. Zero means no visual.
type TileRef int

type Classification int

const (
	None Classification = iota
	Ground
	Platform
	Wall
	Ceiling
	CeilingPlatform
	OneWayPlatform
)

var classificationNames = []string{"none", "ground", "platform", "wall", "ceiling", "ceiling_platform", "one_way_platform"}

func (c Classification) String() string {
	if c < 0 || int(c) >= len(classificationNames) {
		return fmt.Sprintf("classification(%d)", int(c))
	}
	return classificationNames[c]
}

// Solid reports whether cells of this class block from every side.
func (c Classification) Solid() bool {
	switch c {
	case Ground, Platform, Wall, Ceiling, CeilingPlatform:
		return true
	}
	return false
}

// Collides reports whether cells of this class produce collision geometry.
func (c Classification) Collides() bool {
	return c.Solid() || c == OneWayPlatform
}

// ParseClassification accepts names like "one_way_platform" or "OneWayPlatform".
func ParseClassification(s string) (Classification, bool) {
	key := strings.ToLower(strings.ReplaceAll(strings.TrimSpace(s), "_", ""))
	for i, name := range classificationNames {
		if strings.ReplaceAll(name, "_", "") == key {
			return Classification(i), true
		}
	}
	return None, false
}

type Tile struct {
	Ref   TileRef
	Class Classification
}

type Entry struct {
	Cell common.Cell
	Tile
}

// Renderer draws visual tiles. The store never reads visual state back.
type Renderer interface {
	Place(cell common.Cell, ref TileRef)
	Clear(cell common.Cell)
}
