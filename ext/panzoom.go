package ext

import (
	"fmt"
	"math"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/followcam/camera"
	"github.com/milk9111/followcam/common"
	"github.com/milk9111/followcam/geom"
)

// PanZoomInput is the gesture state the host samples once per frame.
// Pointer positions are normalised viewport coordinates, (0,0) bottom-left
// and (1,1) top-right.
type PanZoomInput struct {
	// DragStarted is set on the frame the primary button or single touch
	// went down.
	DragStarted bool
	Dragging    bool
	// Hovering reports that Pointer is inside the window.
	Hovering bool
	Pointer  cp.Vector

	// Pinching is set while a two-finger gesture is active.
	Pinching bool
	// ZoomDelta grows the viewport when positive.
	ZoomDelta float64
	ZoomPoint cp.Vector
}

// Rect is a normalised viewport rectangle. Its X, Y offset the centred
// rectangle of size W x H.
type Rect struct {
	X, Y, W, H float64
}

var fullViewport = Rect{W: 1, H: 1}

func (r Rect) contains(p cp.Vector) bool {
	if r == fullViewport {
		return true
	}
	x0 := r.X + (1-r.W)/2
	y0 := r.Y + (1-r.H)/2
	return p.X > x0 && p.X < x0+r.W && p.Y > y0 && p.Y < y0+r.H
}

// pinchPanCooldown suppresses panning right after a pinch so lifting one
// finger does not fling the camera.
const pinchPanCooldown = 0.1

// PanAndZoom lets the player drag or edge-scroll the view and zoom with the
// wheel or a pinch. Panning moves a private follow target; zooming feeds a
// size delta and disables follow smoothing while the zoom settles.
type PanAndZoom struct {
	AllowPan  bool
	AllowZoom bool

	UsePanByDrag         bool
	StopSpeedOnDragStart float64
	DraggableArea        Rect
	DragPanSpeed         cp.Vector

	UsePanByMoveToEdges bool
	EdgesPanSpeed       cp.Vector
	HorizontalPanEdges  float64
	VerticalPanEdges    float64

	ZoomSpeed         float64
	ZoomInSmoothness  float64
	ZoomOutSmoothness float64
	MaxZoomInAmount   float64
	MaxZoomOutAmount  float64
	ZoomToInputCenter bool

	cam       *camera.Camera
	panMarker *geom.Marker
	panTarget *camera.Target

	input       PanZoomInput
	prevPointer cp.Vector
	panDelta    cp.Vector
	sincePinch  float64

	zoomAmount     float64
	prevZoomAmount float64
	zoomStarted    bool
	origSmoothH    float64
	origSmoothV    float64
	initialSize    float64
}

// NewPanAndZoom attaches a pan/zoom controller to cam with default tuning.
func NewPanAndZoom(cam *camera.Camera) (*PanAndZoom, error) {
	if cam == nil {
		return nil, ErrNoCamera
	}
	p := &PanAndZoom{
		AllowPan:             true,
		AllowZoom:            true,
		UsePanByDrag:         true,
		StopSpeedOnDragStart: 0.95,
		DraggableArea:        fullViewport,
		DragPanSpeed:         cp.Vector{X: 80, Y: 80},
		EdgesPanSpeed:        cp.Vector{X: 2, Y: 2},
		HorizontalPanEdges:   0.9,
		VerticalPanEdges:     0.9,
		ZoomSpeed:            10,
		ZoomInSmoothness:     0.2,
		ZoomOutSmoothness:    0.2,
		MaxZoomInAmount:      2,
		MaxZoomOutAmount:     2,
		ZoomToInputCenter:    true,
		cam:                  cam,
		sincePinch:           pinchPanCooldown,
	}
	p.Attach()
	return p, nil
}

func (p *PanAndZoom) Validate() error {
	if !(p.MaxZoomInAmount > 0) || !(p.MaxZoomOutAmount > 0) {
		return fmt.Errorf("%w: in %v out %v", ErrInvalidZoomLimits, p.MaxZoomInAmount, p.MaxZoomOutAmount)
	}
	return nil
}

// Attach registers the stages and the pan target. The size at attach time is
// the reference for the zoom limits.
func (p *PanAndZoom) Attach() {
	if p.panTarget != nil {
		return
	}
	p.initialSize = p.cam.HalfSize()
	p.panMarker = geom.NewMarker(p.cam.Position())
	p.panTarget = p.cam.AddTarget(p.panMarker, 1, 1, 0, cp.Vector{})

	pl := p.cam.Pipeline()
	pl.PreMovers.Add(p, camera.OrderPanZoomPreMove)
	pl.SizeDeltaChangers.Add(p, camera.OrderPanZoomSize)
	p.cam.AddResetter(p)
}

func (p *PanAndZoom) Detach() {
	if p.panTarget == nil {
		return
	}
	p.endZoom()
	p.cam.RemoveTargetHandle(p.panTarget, 0)
	p.panTarget = nil

	pl := p.cam.Pipeline()
	pl.PreMovers.Remove(p)
	pl.SizeDeltaChangers.Remove(p)
	p.cam.RemoveResetter(p)
}

// SetInput records this frame's gestures. Call it before Camera.Move.
func (p *PanAndZoom) SetInput(in PanZoomInput) { p.input = in }

// PanTarget is the point the controller makes the camera follow.
func (p *PanAndZoom) PanTarget() geom.Vec3 { return p.panMarker.Position() }

func (p *PanAndZoom) Zooming() bool { return p.zoomStarted }

func (p *PanAndZoom) PreMove(dt float64) {
	if p.AllowPan {
		p.pan(dt)
	}
}

func (p *PanAndZoom) AdjustSize(dt float64, delta float64) float64 {
	if p.AllowZoom {
		return delta + p.zoom(dt)
	}
	return delta
}

func (p *PanAndZoom) pan(dt float64) {
	in := p.input
	p.panDelta = cp.Vector{}
	defer func() { p.prevPointer = in.Pointer }()

	p.sincePinch += dt
	if in.Pinching {
		p.sincePinch = 0
	}
	if p.sincePinch < pinchPanCooldown {
		return
	}

	speed := p.DragPanSpeed
	switch {
	case p.UsePanByDrag && in.DragStarted:
		p.centerOnCamera(p.StopSpeedOnDragStart)
	case p.UsePanByDrag && in.Dragging:
		if p.DraggableArea.contains(in.Pointer) {
			p.panDelta = p.prevPointer.Sub(in.Pointer)
		}
	case p.UsePanByMoveToEdges && !in.Dragging && in.Hovering:
		p.panDelta = cp.Vector{
			X: edgeAmount(in.Pointer.X-0.5, p.HorizontalPanEdges),
			Y: edgeAmount(in.Pointer.Y-0.5, p.VerticalPanEdges),
		}
		speed = p.EdgesPanSpeed
	}

	m := p.cam.Mapper()
	if p.panDelta != (cp.Vector{}) {
		size := p.cam.ScreenSize()
		step := cp.Vector{
			X: p.panDelta.X * speed.X * size.X * dt,
			Y: p.panDelta.Y * speed.Y * size.Y * dt,
		}
		p.panMarker.Translate(m.HV(step.X, step.Y))
	}

	// Do not let the pan target run off past a side the camera is pinned to.
	cur := p.cam.PlanarPosition()
	target := m.Planar(p.panMarker.Position())
	bounded := p.cam.Bounded()
	if (bounded.Left && target.X < cur.X) || (bounded.Right && target.X > cur.X) {
		target.X = cur.X
	}
	if (bounded.Bottom && target.Y < cur.Y) || (bounded.Top && target.Y > cur.Y) {
		target.Y = cur.Y
	}
	p.panMarker.SetPosition(m.FromPlanar(target, m.D(p.panMarker.Position())))
}

// edgeAmount maps a centred pointer offset in [-0.5, 0.5] to a pan amount
// that is zero inside the edge band and grows to ±0.5 at the border.
func edgeAmount(off, edges float64) float64 {
	switch {
	case off < -edges*0.5:
		return common.Remap(off, -0.5, -edges*0.5, -0.5, 0)
	case off > edges*0.5:
		return common.Remap(off, edges*0.5, 0.5, 0, 0.5)
	}
	return 0
}

func (p *PanAndZoom) zoom(dt float64) float64 {
	if p.panDelta != (cp.Vector{}) {
		p.endZoom()
		return 0
	}

	raw := p.input.ZoomDelta * p.ZoomSpeed * dt
	smoothness := p.ZoomInSmoothness
	if raw > 0 || (raw == 0 && p.prevZoomAmount > 0) {
		smoothness = p.ZoomOutSmoothness
	}
	p.zoomAmount = common.SmoothApproach(p.prevZoomAmount, raw, smoothness, dt)

	if math.Abs(p.zoomAmount) <= common.Epsilon {
		p.endZoom()
		return 0
	}

	if !p.zoomStarted {
		p.zoomStarted = true
		p.panMarker.SetPosition(p.cam.Position())
		p.origSmoothH, p.origSmoothV = p.cam.FollowSmoothness()
		p.cam.SetFollowSmoothness(0, 0)
	}

	half := p.cam.HalfSize()
	lo, hi := p.zoomLimits()
	size := half + p.zoomAmount
	if size < lo {
		p.zoomAmount -= size - lo
	} else if size > hi {
		p.zoomAmount -= size - hi
	}
	p.prevZoomAmount = p.zoomAmount

	if p.ZoomToInputCenter && half > 0 {
		m := p.cam.Mapper()
		screen := p.cam.ScreenSize()
		cur := p.cam.PlanarPosition()
		point := cp.Vector{
			X: cur.X + (p.input.ZoomPoint.X-0.5)*screen.X,
			Y: cur.Y + (p.input.ZoomPoint.Y-0.5)*screen.Y,
		}
		target := m.Planar(p.panMarker.Position())
		target = target.Add(target.Sub(point).Mult(p.zoomAmount / half))
		p.panMarker.SetPosition(m.FromPlanar(target, m.D(p.panMarker.Position())))
	}
	return p.zoomAmount
}

// ZoomLimits is the allowed half-height range.
func (p *PanAndZoom) ZoomLimits() (lo, hi float64) { return p.zoomLimits() }

func (p *PanAndZoom) zoomLimits() (float64, float64) {
	in, out := p.MaxZoomInAmount, p.MaxZoomOutAmount
	if !(in > 0) {
		in = 1
	}
	if !(out > 0) {
		out = 1
	}
	return p.initialSize / in, p.initialSize * out
}

// endZoom cancels zoom smoothing and gives follow smoothing back.
func (p *PanAndZoom) endZoom() {
	p.zoomAmount = 0
	p.prevZoomAmount = 0
	if p.zoomStarted {
		p.cam.SetFollowSmoothness(p.origSmoothH, p.origSmoothV)
		p.zoomStarted = false
	}
}

func (p *PanAndZoom) centerOnCamera(t float64) {
	m := p.cam.Mapper()
	target := m.Planar(p.panMarker.Position())
	target = target.Lerp(p.cam.PlanarPosition(), t)
	p.panMarker.SetPosition(m.FromPlanar(target, m.D(p.panMarker.Position())))
}

func (p *PanAndZoom) OnReset() {
	p.endZoom()
	p.panDelta = cp.Vector{}
	p.centerOnCamera(1)
}
