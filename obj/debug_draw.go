package obj

import (
	"image/color"
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/jakecoffman/cp"
)

// DebugDraw renders the arena's chipmunk shapes through cam.
func (a *Arena) DebugDraw(screen *ebiten.Image, cam *Camera) {
	if a == nil || a.space == nil || screen == nil || cam == nil {
		return
	}
	cp.DrawSpace(a.space, &chipmunkDrawer{screen: screen, geo: cam.GeoM(), ppu: cam.PixelsPerUnit(), player: a.player})
}

// chipmunkDrawer draws world-space primitives in screen space.
type chipmunkDrawer struct {
	screen *ebiten.Image
	geo    ebiten.GeoM
	ppu    float64
	player *cp.Body
}

func (d *chipmunkDrawer) project(p cp.Vector) (float32, float32) {
	x, y := d.geo.Apply(p.X, p.Y)
	return float32(x), float32(y)
}

func (d *chipmunkDrawer) line(a, b cp.Vector, c color.Color) {
	ax, ay := d.project(a)
	bx, by := d.project(b)
	vector.StrokeLine(d.screen, ax, ay, bx, by, 1.5, c, true)
}

func (d *chipmunkDrawer) DrawCircle(pos cp.Vector, angle, radius float64, outline, fill cp.FColor, data interface{}) {
	cx, cy := d.project(pos)
	c := fcolorToRGBA(outline)
	vector.StrokeCircle(d.screen, cx, cy, float32(radius*d.ppu), 1.5, c, true)
	// angle indicator
	d.line(pos, pos.Add(cp.Vector{X: math.Cos(angle), Y: math.Sin(angle)}.Mult(radius)), c)
}

func (d *chipmunkDrawer) DrawSegment(a, b cp.Vector, fill cp.FColor, data interface{}) {
	d.line(a, b, fcolorToRGBA(fill))
}

func (d *chipmunkDrawer) DrawFatSegment(a, b cp.Vector, radius float64, outline, fill cp.FColor, data interface{}) {
	ax, ay := d.project(a)
	bx, by := d.project(b)
	width := max(float32(2*radius*d.ppu), 1)
	vector.StrokeLine(d.screen, ax, ay, bx, by, width, fcolorToRGBA(outline), true)
}

func (d *chipmunkDrawer) DrawPolygon(count int, verts []cp.Vector, radius float64, outline, fill cp.FColor, data interface{}) {
	if count == 0 {
		return
	}
	c := fcolorToRGBA(outline)
	for i := 0; i < count; i++ {
		d.line(verts[i], verts[(i+1)%count], c)
	}
}

func (d *chipmunkDrawer) DrawDot(size float64, pos cp.Vector, fill cp.FColor, data interface{}) {
	x, y := d.project(pos)
	l := float32(size / 2)
	vector.FillRect(d.screen, x-l, y-l, 2*l, 2*l, fcolorToRGBA(fill), false)
}

func (d *chipmunkDrawer) Flags() uint {
	return cp.DRAW_SHAPES
}

func (d *chipmunkDrawer) OutlineColor() cp.FColor {
	return cp.FColor{R: 0.2, G: 1.0, B: 0.2, A: 1.0}
}

func (d *chipmunkDrawer) ShapeColor(shape *cp.Shape, data interface{}) cp.FColor {
	if shape == nil {
		return cp.FColor{R: 1, G: 1, B: 1, A: 1}
	}
	switch {
	case shape.Body() == d.player:
		return cp.FColor{R: 0.3, G: 0.9, B: 1.0, A: 1.0}
	case shape.Body() != nil && shape.Body().GetType() == cp.BODY_STATIC:
		return cp.FColor{R: 0.4, G: 0.7, B: 1.0, A: 1.0}
	}
	return cp.FColor{R: 0.9, G: 0.4, B: 0.9, A: 1.0}
}

func (d *chipmunkDrawer) ConstraintColor() cp.FColor {
	return cp.FColor{R: 0.7, G: 0.7, B: 0.7, A: 1.0}
}

func (d *chipmunkDrawer) CollisionPointColor() cp.FColor {
	return cp.FColor{R: 1.0, G: 0.1, B: 0.1, A: 1.0}
}

func (d *chipmunkDrawer) Data() interface{} {
	return nil
}

func fcolorToRGBA(c cp.FColor) color.RGBA {
	clamp := func(v float32) uint8 {
		if v < 0 {
			v = 0
		}
		if v > 1 {
			v = 1
		}
		return uint8(v * 255)
	}
	return color.RGBA{R: clamp(c.R), G: clamp(c.G), B: clamp(c.B), A: clamp(c.A)}
}
