// Package render draws generated terrain and collision shapes with ebiten.
package render

import "github.com/milk9111/platformgen/common"

// Camera maps Y-up world coordinates onto a Y-down screen.
type Camera struct {
	X, Y    float64
	Zoom    float64
	ScreenW float64
	ScreenH float64
}

func NewCamera(screenW, screenH, zoom float64) *Camera {
	if zoom <= 0 {
		zoom = 1
	}
	return &Camera{Zoom: zoom, ScreenW: screenW, ScreenH: screenH}
}

// CenterOn places p in the middle of the screen.
func (c *Camera) CenterOn(p common.Vec) {
	c.X = p.X - c.ScreenW/(2*c.Zoom)
	c.Y = p.Y - c.ScreenH/(2*c.Zoom)
}

func (c *Camera) ToScreen(p common.Vec) (float64, float64) {
	return (p.X - c.X) * c.Zoom, c.ScreenH - (p.Y-c.Y)*c.Zoom
}

func (c *Camera) ToWorld(sx, sy float64) common.Vec {
	return common.Vec{X: sx/c.Zoom + c.X, Y: (c.ScreenH-sy)/c.Zoom + c.Y}
}

// Visible returns the world rectangle currently on screen.
func (c *Camera) Visible() common.Rect {
	return common.Rect{X: c.X, Y: c.Y, W: c.ScreenW / c.Zoom, H: c.ScreenH / c.Zoom}
}
