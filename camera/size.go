package camera

import (
	"math"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/followcam/common"
)

type sizeTweenKey struct{}

// ScreenSize is the full viewport extent (width, height) on the subject
// plane.
func (c *Camera) ScreenSize() cp.Vector { return c.size }

// HalfSize is half the viewport height on the subject plane.
func (c *Camera) HalfSize() float64 { return c.size.Y * 0.5 }

func (c *Camera) StartScreenSize() cp.Vector { return c.startSize }

// SetScreenSize realises halfHeight through the lens. Orthographic lenses
// change their size, perspective lenses either change field of view or move
// along depth.
func (c *Camera) SetScreenSize(halfHeight float64) {
	if !common.Finite(halfHeight) {
		return
	}
	halfHeight = max(halfHeight, minOrthoSize)

	switch {
	case c.lens.Orthographic():
		c.lens.SetOrthographicSize(halfHeight)
	case c.cfg.ZoomWithFOV:
		dist := math.Abs(c.mapper.D(c.pos))
		fov := 2 * math.Atan(halfHeight/dist) * 180 / math.Pi
		c.lens.SetFieldOfView(common.Clamp(fov, minFOV, maxFOV))
		w, h := screenSizeInWorld(c.lens, dist)
		c.size = cp.Vector{X: w, Y: h}
		return
	default:
		d := halfHeight / math.Tan(c.lens.FieldOfView()*0.5*math.Pi/180) * c.depthSign
		p := c.pos
		c.pos = c.mapper.FromPlanar(c.mapper.Planar(p), d)
		c.depth = d
	}
	c.size = cp.Vector{X: 2 * halfHeight * c.lens.Aspect(), Y: 2 * halfHeight}
}

// RefreshScreenSize re-reads the viewport from the lens after the host
// changed it directly, e.g. on window resize.
func (c *Camera) RefreshScreenSize() {
	w, h := screenSizeInWorld(c.lens, math.Abs(c.mapper.D(c.pos)))
	c.size = cp.Vector{X: w, Y: h}
}

// UpdateScreenSize eases the half-height to halfHeight over duration. A
// non-positive duration applies it at once. A new call replaces a running one.
func (c *Camera) UpdateScreenSize(halfHeight, duration float64, ease common.EaseType) *Task {
	if duration <= 0 {
		c.tasks.Cancel(sizeTweenKey{})
		c.SetScreenSize(halfHeight)
		return nil
	}
	start := c.HalfSize()
	progress := 0.0
	return c.tasks.StartKeyed(sizeTweenKey{}, func(dt float64) bool {
		progress += dt / duration
		c.SetScreenSize(common.EaseFromTo(start, halfHeight, progress, ease))
		return progress >= 1
	})
}

// Zoom changes the half-height by amount; positive zooms out.
func (c *Camera) Zoom(amount, duration float64, ease common.EaseType) *Task {
	return c.UpdateScreenSize(c.HalfSize()+amount, duration, ease)
}

func (c *Camera) resetSize() {
	c.tasks.Cancel(sizeTweenKey{})
	c.SetScreenSize(c.startSize.Y * 0.5)
}
