package obj

import (
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/jakecoffman/cp"
)

// Camera is an orthographic lens for ebiten. The world is y-up in world
// units; the screen is y-down in pixels. The follow camera drives it through
// the camera.Lens methods and LookAt.
type Camera struct {
	screenW int
	screenH int
	// half the visible world height
	halfHeight float64
	center     cp.Vector
	off        *ebiten.Image

	// Snap rounds the view center to whole screen pixels.
	Snap bool
}

// NewCamera creates a lens for the given logical screen size showing
// 2*halfHeight world units vertically.
func NewCamera(screenW, screenH int, halfHeight float64) *Camera {
	return &Camera{screenW: screenW, screenH: screenH, halfHeight: halfHeight, Snap: true}
}

func (c *Camera) Orthographic() bool { return true }

func (c *Camera) Aspect() float64 {
	if c.screenH == 0 {
		return 0
	}
	return float64(c.screenW) / float64(c.screenH)
}

func (c *Camera) OrthographicSize() float64 { return c.halfHeight }

func (c *Camera) SetOrthographicSize(halfHeight float64) {
	if halfHeight <= 0 {
		return
	}
	c.halfHeight = halfHeight
}

// FieldOfView is nominal; an orthographic lens has none.
func (c *Camera) FieldOfView() float64 { return 60 }

func (c *Camera) SetFieldOfView(float64) {}

// SetScreenSize updates the logical screen size used by the camera.
func (c *Camera) SetScreenSize(w, h int) {
	if w <= 0 || h <= 0 {
		return
	}
	if c.screenW == w && c.screenH == h {
		return
	}
	c.screenW = w
	c.screenH = h
	c.off = nil
}

func (c *Camera) ScreenSize() (int, int) { return c.screenW, c.screenH }

// LookAt centers the view on a world point.
func (c *Camera) LookAt(p cp.Vector) {
	if c.Snap {
		// snap to the pixel grid so sprites do not shimmer while following
		ppu := c.PixelsPerUnit()
		if ppu > 0 {
			p.X = math.Round(p.X*ppu) / ppu
			p.Y = math.Round(p.Y*ppu) / ppu
		}
	}
	c.center = p
}

func (c *Camera) Center() cp.Vector { return c.center }

// PixelsPerUnit is the current zoom.
func (c *Camera) PixelsPerUnit() float64 {
	if c.halfHeight <= 0 {
		return 0
	}
	return float64(c.screenH) / (2 * c.halfHeight)
}

// ViewBounds returns the visible world rectangle.
func (c *Camera) ViewBounds() cp.BB {
	halfH := c.halfHeight
	halfW := halfH * c.Aspect()
	return cp.BB{L: c.center.X - halfW, B: c.center.Y - halfH, R: c.center.X + halfW, T: c.center.Y + halfH}
}

// GeoM maps world coordinates to screen pixels.
func (c *Camera) GeoM() ebiten.GeoM {
	var m ebiten.GeoM
	ppu := c.PixelsPerUnit()
	m.Translate(-c.center.X, -c.center.Y)
	m.Scale(ppu, -ppu)
	m.Translate(float64(c.screenW)/2, float64(c.screenH)/2)
	return m
}

func (c *Camera) WorldToScreen(p cp.Vector) (float64, float64) {
	m := c.GeoM()
	return m.Apply(p.X, p.Y)
}

func (c *Camera) ScreenToWorld(x, y float64) cp.Vector {
	m := c.GeoM()
	if !m.IsInvertible() {
		return c.center
	}
	m.Invert()
	wx, wy := m.Apply(x, y)
	return cp.Vector{X: wx, Y: wy}
}

// Viewport converts a screen pixel to normalized viewport coordinates with
// (0,0) bottom-left and (1,1) top-right.
func (c *Camera) Viewport(x, y float64) cp.Vector {
	if c.screenW == 0 || c.screenH == 0 {
		return cp.Vector{X: 0.5, Y: 0.5}
	}
	return cp.Vector{X: x / float64(c.screenW), Y: 1 - y/float64(c.screenH)}
}

// Render clears the offscreen image, lets drawWorld fill it using GeoM, and
// draws the result onto screen.
func (c *Camera) Render(screen *ebiten.Image, drawWorld func(world *ebiten.Image)) {
	if c.off == nil {
		c.off = ebiten.NewImage(c.screenW, c.screenH)
	}

	c.off.Clear()
	if drawWorld != nil {
		drawWorld(c.off)
	}

	op := &ebiten.DrawImageOptions{}
	op.Filter = ebiten.FilterNearest
	screen.DrawImage(c.off, op)
}
