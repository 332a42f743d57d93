package main

import (
	"image/color"
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/jakecoffman/cp"
	"github.com/milk9111/followcam/ext"
	"golang.org/x/image/colornames"
)

const gridStep = 5.0

func (g *Game) drawWorld(world *ebiten.Image) {
	debug := g.rig.Spec.Debug
	world.Fill(debug.Background.ColorOr(colornames.Black))
	g.drawGrid(world, debug.Grid.ColorOr(colornames.Darkslategray))

	g.arena.DebugDraw(world, g.lens)
	if !g.opts.Debug {
		return
	}

	g.drawBoundaries(world)
	for _, z := range g.rig.Zones {
		g.drawZone(world, z)
	}

	cam := g.rig.Camera
	ppu := float32(g.lens.PixelsPerUnit())
	targetColor := debug.Targets.ColorOr(colornames.Orange)
	for _, t := range cam.Targets() {
		p := cam.Mapper().Planar(t.Position())
		x, y := g.lens.WorldToScreen(p)
		r := float32(0.3+math.Max(t.InfluenceH(), t.InfluenceV())) * ppu
		vector.StrokeCircle(world, float32(x), float32(y), r, 1, targetColor, true)
	}

	g.drawCross(world, cam.TargetsMidPoint(), colornames.Yellow)
	g.drawCross(world, cam.CameraTargetPosition(), colornames.Lime)
}

func (g *Game) drawGrid(world *ebiten.Image, c color.Color) {
	bb := g.lens.ViewBounds()
	w, h := g.lens.ScreenSize()
	for x := math.Floor(bb.L/gridStep) * gridStep; x <= bb.R; x += gridStep {
		sx, _ := g.lens.WorldToScreen(cp.Vector{X: x, Y: bb.B})
		vector.StrokeLine(world, float32(sx), 0, float32(sx), float32(h), 1, c, false)
	}
	for y := math.Floor(bb.B/gridStep) * gridStep; y <= bb.T; y += gridStep {
		_, sy := g.lens.WorldToScreen(cp.Vector{X: bb.L, Y: y})
		vector.StrokeLine(world, 0, float32(sy), float32(w), float32(sy), 1, c, false)
	}
}

func (g *Game) drawBoundaries(world *ebiten.Image) {
	b := g.rig.Boundaries
	if b == nil || !b.Enabled {
		return
	}
	view := g.lens.ViewBounds()
	side := func(s ext.Side, a, bEnd cp.Vector) {
		if !s.Enabled {
			return
		}
		ax, ay := g.lens.WorldToScreen(a)
		bx, by := g.lens.WorldToScreen(bEnd)
		vector.StrokeLine(world, float32(ax), float32(ay), float32(bx), float32(by), 2, colornames.Crimson, true)
	}
	side(b.Left, cp.Vector{X: b.Left.Value, Y: view.B}, cp.Vector{X: b.Left.Value, Y: view.T})
	side(b.Right, cp.Vector{X: b.Right.Value, Y: view.B}, cp.Vector{X: b.Right.Value, Y: view.T})
	side(b.Bottom, cp.Vector{X: view.L, Y: b.Bottom.Value}, cp.Vector{X: view.R, Y: b.Bottom.Value})
	side(b.Top, cp.Vector{X: view.L, Y: b.Top.Value}, cp.Vector{X: view.R, Y: b.Top.Value})
}

func (g *Game) drawZone(world *ebiten.Image, z *ext.InfluenceZone) {
	if z.Center == nil {
		return
	}
	m := g.rig.Camera.Mapper()
	c := m.Planar(z.Center.Position())
	x, y := g.lens.WorldToScreen(c)
	ppu := g.lens.PixelsPerUnit()
	clr := colornames.Steelblue
	if z.Inside() {
		clr = colornames.Skyblue
	}
	vector.StrokeCircle(world, float32(x), float32(y), float32(z.Radius*ppu), 1.5, clr, true)
	vector.StrokeCircle(world, float32(x), float32(y), float32(z.Radius*z.ExclusivePercentage*ppu), 1, clr, true)
}

func (g *Game) drawCross(world *ebiten.Image, p cp.Vector, c color.Color) {
	x, y := g.lens.WorldToScreen(p)
	const l = 6
	vector.StrokeLine(world, float32(x-l), float32(y), float32(x+l), float32(y), 1.5, c, true)
	vector.StrokeLine(world, float32(x), float32(y-l), float32(x), float32(y+l), 1.5, c, true)
}
