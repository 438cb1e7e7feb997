package render

import (
	"image/color"
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"golang.org/x/image/colornames"

	"github.com/milk9111/platformgen/common"
	"github.com/milk9111/platformgen/tilegrid"
)

var variantColors = []color.RGBA{
	colornames.Sienna,
	colornames.Peru,
	colornames.Saddlebrown,
	colornames.Burlywood,
	colornames.Rosybrown,
	colornames.Tan,
}

var classColors = map[tilegrid.Classification]color.RGBA{
	tilegrid.None:            colornames.Slategray,
	tilegrid.Ground:          colornames.Forestgreen,
	tilegrid.Platform:        colornames.Steelblue,
	tilegrid.Wall:            colornames.Dimgray,
	tilegrid.Ceiling:         colornames.Darkslategray,
	tilegrid.CeilingPlatform: colornames.Cadetblue,
	tilegrid.OneWayPlatform:  colornames.Goldenrod,
}

// VariantColor is the fill used for a tile reference.
func VariantColor(ref tilegrid.TileRef) color.RGBA {
	if ref <= 0 {
		return colornames.Magenta
	}
	return variantColors[int(ref-1)%len(variantColors)]
}

// ClassColor is the overlay colour for a classification.
func ClassColor(class tilegrid.Classification) color.RGBA {
	if c, ok := classColors[class]; ok {
		return c
	}
	return colornames.Magenta
}

// TileRenderer keeps the visual tiles placed by the tile store and draws
// them as coloured squares.
type TileRenderer struct {
	tileSize float64
	tiles    map[common.Cell]tilegrid.TileRef
}

func NewTileRenderer(tileSize float64) *TileRenderer {
	return &TileRenderer{tileSize: tileSize, tiles: make(map[common.Cell]tilegrid.TileRef)}
}

func (r *TileRenderer) Place(cell common.Cell, ref tilegrid.TileRef) {
	r.tiles[cell] = ref
}

func (r *TileRenderer) Clear(cell common.Cell) {
	delete(r.tiles, cell)
}

func (r *TileRenderer) Len() int { return len(r.tiles) }

func (r *TileRenderer) Ref(cell common.Cell) (tilegrid.TileRef, bool) {
	ref, ok := r.tiles[cell]
	return ref, ok
}

func (r *TileRenderer) Draw(screen *ebiten.Image, cam *Camera) {
	view := cam.Visible()
	for cell, ref := range r.tiles {
		rect := common.Region{X: cell.X, Y: cell.Y, W: 1, H: 1}.World(r.tileSize)
		if !rect.Intersects(view) {
			continue
		}
		fillRect(screen, cam, rect, VariantColor(ref))
	}
}

// DrawClasses outlines every stored tile in its classification colour.
func DrawClasses(screen *ebiten.Image, cam *Camera, store *tilegrid.Store) {
	view := cam.Visible()
	ts := store.TileSize()
	for _, e := range store.Entries() {
		rect := common.Region{X: e.Cell.X, Y: e.Cell.Y, W: 1, H: 1}.World(ts)
		if !rect.Intersects(view) {
			continue
		}
		strokeRect(screen, cam, rect, ClassColor(e.Tile.Class))
	}
}

func screenRect(cam *Camera, r common.Rect) (x, y, w, h float32) {
	sx, sy := cam.ToScreen(common.Vec{X: r.X, Y: r.Y + r.H})
	return float32(sx), float32(sy), float32(math.Ceil(r.W * cam.Zoom)), float32(math.Ceil(r.H * cam.Zoom))
}

func fillRect(screen *ebiten.Image, cam *Camera, r common.Rect, c color.Color) {
	x, y, w, h := screenRect(cam, r)
	vector.DrawFilledRect(screen, x, y, w, h, c, false)
}

func strokeRect(screen *ebiten.Image, cam *Camera, r common.Rect, c color.Color) {
	x, y, w, h := screenRect(cam, r)
	vector.StrokeRect(screen, x, y, w, h, 1, c, false)
}

// DrawBody fills a size x size square centred on p.
func DrawBody(screen *ebiten.Image, cam *Camera, p common.Vec, size float64) {
	rect := common.Rect{X: p.X - size/2, Y: p.Y - size/2, W: size, H: size}
	fillRect(screen, cam, rect, colornames.Crimson)
}
