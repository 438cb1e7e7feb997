package render

import (
	"image/color"
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/jakecoffman/cp"

	"github.com/milk9111/platformgen/common"
)

// DrawSpace renders every Chipmunk shape in space through cam.
func DrawSpace(screen *ebiten.Image, cam *Camera, space *cp.Space) {
	if screen == nil || cam == nil || space == nil {
		return
	}
	cp.DrawSpace(space, &DebugDrawer{screen: screen, cam: cam})
}

// DebugDrawer implements cp.Drawer with a Y-flipping camera.
type DebugDrawer struct {
	screen *ebiten.Image
	cam    *Camera
}

func (d *DebugDrawer) line(a, b cp.Vector, c color.Color) {
	ax, ay := d.cam.ToScreen(common.Vec{X: a.X, Y: a.Y})
	bx, by := d.cam.ToScreen(common.Vec{X: b.X, Y: b.Y})
	vector.StrokeLine(d.screen, float32(ax), float32(ay), float32(bx), float32(by), 1, c, true)
}

func (d *DebugDrawer) DrawCircle(pos cp.Vector, angle, radius float64, outline, fill cp.FColor, data interface{}) {
	c := fcolorToRGBA(outline)
	const steps = 20
	prev := cp.Vector{X: pos.X + radius, Y: pos.Y}
	for i := 1; i <= steps; i++ {
		th := float64(i) * (2 * math.Pi / steps)
		cur := cp.Vector{X: pos.X + math.Cos(th)*radius, Y: pos.Y + math.Sin(th)*radius}
		d.line(prev, cur, c)
		prev = cur
	}
	d.line(pos, cp.Vector{X: pos.X + math.Cos(angle)*radius, Y: pos.Y + math.Sin(angle)*radius}, c)
}

func (d *DebugDrawer) DrawSegment(a, b cp.Vector, fill cp.FColor, data interface{}) {
	d.line(a, b, fcolorToRGBA(fill))
}

func (d *DebugDrawer) DrawFatSegment(a, b cp.Vector, radius float64, outline, fill cp.FColor, data interface{}) {
	d.line(a, b, fcolorToRGBA(outline))
	if radius > 0 {
		d.DrawCircle(a, 0, radius, outline, fill, data)
		d.DrawCircle(b, 0, radius, outline, fill, data)
	}
}

func (d *DebugDrawer) DrawPolygon(count int, verts []cp.Vector, radius float64, outline, fill cp.FColor, data interface{}) {
	if count == 0 {
		return
	}
	c := fcolorToRGBA(outline)
	for i := 0; i < count; i++ {
		d.line(verts[i], verts[(i+1)%count], c)
	}
}

func (d *DebugDrawer) DrawDot(size float64, pos cp.Vector, fill cp.FColor, data interface{}) {
	c := fcolorToRGBA(fill)
	l := size / 2 / d.cam.Zoom
	d.line(cp.Vector{X: pos.X - l, Y: pos.Y}, cp.Vector{X: pos.X + l, Y: pos.Y}, c)
	d.line(cp.Vector{X: pos.X, Y: pos.Y - l}, cp.Vector{X: pos.X, Y: pos.Y + l}, c)
}

func (d *DebugDrawer) Flags() uint {
	return cp.DRAW_SHAPES
}

func (d *DebugDrawer) OutlineColor() cp.FColor {
	return cp.FColor{R: 0.2, G: 1.0, B: 0.2, A: 1.0}
}

// ShapeColor marks slope triggers yellow, static terrain blue and bodies
// purple.
func (d *DebugDrawer) ShapeColor(shape *cp.Shape, data interface{}) cp.FColor {
	if shape == nil {
		return cp.FColor{R: 1, G: 1, B: 1, A: 1}
	}
	if shape.Sensor() {
		return cp.FColor{R: 1.0, G: 0.85, B: 0.2, A: 1.0}
	}
	if shape.Body() != nil && shape.Body().GetType() == cp.BODY_STATIC {
		return cp.FColor{R: 0.4, G: 0.7, B: 1.0, A: 1.0}
	}
	return cp.FColor{R: 0.9, G: 0.4, B: 0.9, A: 1.0}
}

func (d *DebugDrawer) ConstraintColor() cp.FColor {
	return cp.FColor{R: 0.7, G: 0.7, B: 0.7, A: 1.0}
}

func (d *DebugDrawer) CollisionPointColor() cp.FColor {
	return cp.FColor{R: 1.0, G: 0.1, B: 0.1, A: 1.0}
}

func (d *DebugDrawer) Data() interface{} {
	return nil
}

func fcolorToRGBA(c cp.FColor) color.RGBA {
	return color.RGBA{R: unit8(c.R), G: unit8(c.G), B: unit8(c.B), A: unit8(c.A)}
}

func unit8(v float32) uint8 {
	return uint8(common.Clamp(float64(v), 0, 1) * 255)
}
