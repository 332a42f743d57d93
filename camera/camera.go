package camera

import (
	"fmt"
	"math"
	"sync"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/followcam/common"
	"github.com/milk9111/followcam/geom"
)

// Bounded reports which viewport edges were pinned against a boundary on the
// last tick. It is cleared before the position-delta stage of every tick.
type Bounded struct {
	Left, Right, Top, Bottom bool
}

func (b Bounded) Horizontal() bool { return b.Left || b.Right }

func (b Bounded) Vertical() bool { return b.Top || b.Bottom }

// Camera follows a weighted set of targets and frames them. It owns the frame
// state; one Move runs per host frame.
//
// AddTarget(s), RemoveTarget(Handle), RemoveAllTargets, AdjustTargetInfluence,
// ApplyInfluence, ApplyInfluencesTimed, Pipeline and Scheduler registration,
// and Events may be called from other goroutines. Everything else, including
// Reset, SetConfig and the size setters, belongs to the goroutine driving
// Move.
type Camera struct {
	cfg    Config
	mapper geom.Mapper
	lens   Lens

	pos      geom.Vec3
	startPos geom.Vec3

	targetsMu sync.Mutex
	targets   []*Target

	influences influences

	followSmoothH float64
	followSmoothV float64
	smoothH       Smoother
	smoothV       Smoother

	midpoint     cp.Vector
	prevMidpoint cp.Vector
	targetPos    cp.Vector

	exclusive    cp.Vector
	hasExclusive bool

	size      cp.Vector
	startSize cp.Vector
	depth     float64
	depthSign float64

	bounded Bounded
	dt      float64
	started bool

	pipeline  *Pipeline
	tasks     *Scheduler
	events    EventQueue
	resetters *Registry[Resetter]
}

// New binds a camera to lens at start. A missing or degenerate lens is a
// configuration error; the camera cannot run without a viewport.
func New(cfg Config, lens Lens, start geom.Vec3) (*Camera, error) {
	if lens == nil {
		return nil, ErrNoLens
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	mapper := geom.NewMapper(cfg.Axis)
	depth := mapper.D(start)

	aspect := lens.Aspect()
	if !(aspect > 0) || !common.Finite(aspect) {
		return nil, fmt.Errorf("%w: aspect %v", ErrInvalidViewport, aspect)
	}
	if lens.Orthographic() {
		if s := lens.OrthographicSize(); !(s > 0) {
			return nil, fmt.Errorf("%w: orthographic size %v", ErrInvalidViewport, s)
		}
	} else {
		fov := lens.FieldOfView()
		if !(fov > 0 && fov < 180) {
			return nil, fmt.Errorf("%w: field of view %v", ErrInvalidViewport, fov)
		}
		if depth == 0 {
			return nil, fmt.Errorf("%w: perspective camera on the subject plane", ErrInvalidViewport)
		}
	}

	w, h := screenSizeInWorld(lens, math.Abs(depth))
	c := &Camera{
		cfg:           cfg,
		mapper:        mapper,
		lens:          lens,
		pos:           start,
		startPos:      start,
		followSmoothH: cfg.HorizontalFollowSmoothness,
		followSmoothV: cfg.VerticalFollowSmoothness,
		size:          cp.Vector{X: w, Y: h},
		startSize:     cp.Vector{X: w, Y: h},
		depth:         depth,
		depthSign:     math.Copysign(1, depth),
		pipeline:      NewPipeline(),
		tasks:         NewScheduler(),
		resetters:     NewRegistry[Resetter](),
	}
	c.resetMovement()
	c.midpoint = c.PlanarPosition()
	c.prevMidpoint = c.midpoint
	return c, nil
}

// LateUpdate drives Move when the camera is configured for variable-step
// updates.
func (c *Camera) LateUpdate(dt float64) {
	if c.cfg.UpdateType == UpdateLate {
		c.Move(dt)
	}
}

// FixedUpdate drives Move when the camera is configured for fixed-step
// updates.
func (c *Camera) FixedUpdate(dt float64) {
	if c.cfg.UpdateType == UpdateFixed {
		c.Move(dt)
	}
}

// Move runs one frame: timed tasks, pre-movers, target midpoint plus
// influences, smoothing, position stages, size stages and post-movers.
// Frames shorter than common.Epsilon are dropped without touching state;
// influences queued for a dropped frame are discarded with it.
func (c *Camera) Move(dt float64) {
	if !(dt >= common.Epsilon) || math.IsInf(dt, 0) {
		c.influences.discard()
		return
	}
	c.dt = dt

	if !c.started {
		c.started = true
		if c.cfg.CenterOnStart && c.TargetCount() > 0 {
			c.MoveInstantly(c.centeredTarget())
		}
	}

	c.tasks.Advance(dt)

	for _, m := range c.pipeline.PreMovers.Snapshot() {
		m.PreMove(dt)
	}

	cur := c.PlanarPosition()

	c.prevMidpoint = c.midpoint
	c.midpoint = WeightedMidpoint(c.snapshotTargets(), c.mapper, cur)
	target := c.midpoint.Add(c.influences.drain())

	if !c.cfg.FollowHorizontal {
		target.X = cur.X
	}
	if !c.cfg.FollowVertical {
		target.Y = cur.Y
	}

	if p, ok := c.takeExclusive(); ok {
		target = p
	}

	if c.cfg.FollowHorizontal {
		target.X += c.cfg.Offset.X
	}
	if c.cfg.FollowVertical {
		target.Y += c.cfg.Offset.Y
	}
	c.targetPos = target

	sh := c.smoothH.Step(target.X, c.followSmoothH, dt)
	sv := c.smoothV.Step(target.Y, c.followSmoothV, dt)
	delta := cp.Vector{X: sh - cur.X, Y: sv - cur.Y}

	c.bounded = Bounded{}
	for _, s := range c.pipeline.PositionDeltaChangers.Snapshot() {
		delta = s.AdjustDelta(dt, delta)
	}

	next := cur.Add(delta)
	for _, s := range c.pipeline.PositionOverriders.Snapshot() {
		next = s.OverridePosition(dt, next)
	}
	c.pos = c.mapper.FromPlanar(next, c.mapper.D(c.pos))

	half := c.HalfSize()
	deltaSize := 0.0
	for _, s := range c.pipeline.SizeDeltaChangers.Snapshot() {
		deltaSize = s.AdjustSize(dt, deltaSize)
	}
	size := half + deltaSize
	for _, s := range c.pipeline.SizeOverriders.Snapshot() {
		size = s.OverrideSize(dt, size)
	}
	if size != half {
		c.SetScreenSize(size)
	}

	for _, m := range c.pipeline.PostMovers.Snapshot() {
		m.PostMove(dt)
	}
}

// SetExclusiveTargetPosition replaces the computed follow target for the
// next tick only.
func (c *Camera) SetExclusiveTargetPosition(p cp.Vector) {
	c.exclusive = p
	c.hasExclusive = true
}

func (c *Camera) ExclusiveTargetPosition() (cp.Vector, bool) {
	return c.exclusive, c.hasExclusive
}

func (c *Camera) takeExclusive() (cp.Vector, bool) {
	p, ok := c.exclusive, c.hasExclusive
	c.exclusive = cp.Vector{}
	c.hasExclusive = false
	return p, ok
}

// MoveInstantly places the camera at p and discards smoothing lag.
func (c *Camera) MoveInstantly(p cp.Vector) {
	c.pos = c.mapper.FromPlanar(p, c.mapper.D(c.pos))
	c.resetMovement()
}

// Reset restores the start size and either recenters on the targets or
// keeps the current position, then notifies every Resetter and queues
// EventReset. Calling it twice in a row is the same as calling it once.
func (c *Camera) Reset(centerOnTargets bool) {
	c.influences.clear()
	c.hasExclusive = false
	c.exclusive = cp.Vector{}

	if centerOnTargets {
		c.MoveInstantly(c.centeredTarget())
	} else {
		c.resetMovement()
	}
	c.resetSize()
	c.bounded = Bounded{}

	for _, r := range c.resetters.Snapshot() {
		r.OnReset()
	}
	c.events.Push(Event{Type: EventReset})
}

func (c *Camera) AddResetter(r Resetter) { c.resetters.Add(r, 0) }

func (c *Camera) RemoveResetter(r Resetter) bool { return c.resetters.Remove(r) }

func (c *Camera) centeredTarget() cp.Vector {
	mid := WeightedMidpoint(c.snapshotTargets(), c.mapper, c.PlanarPosition())
	return mid.Add(c.cfg.Offset)
}

func (c *Camera) resetMovement() {
	p := c.PlanarPosition()
	c.targetPos = p
	c.smoothH.Reset(p.X)
	c.smoothV.Reset(p.Y)
}

// Position is the camera's local position in world axes.
func (c *Camera) Position() geom.Vec3 { return c.pos }

// PlanarPosition is the camera position in (H, V).
func (c *Camera) PlanarPosition() cp.Vector { return c.mapper.Planar(c.pos) }

func (c *Camera) Depth() float64 { return c.mapper.D(c.pos) }

func (c *Camera) StartPosition() geom.Vec3 { return c.startPos }

func (c *Camera) TargetsMidPoint() cp.Vector { return c.midpoint }

func (c *Camera) PreviousTargetsMidPoint() cp.Vector { return c.prevMidpoint }

// CameraTargetPosition is the follow target of the last tick, after
// influences, the exclusive override and the offset.
func (c *Camera) CameraTargetPosition() cp.Vector { return c.targetPos }

func (c *Camera) SmoothedTargetPosition() cp.Vector {
	return cp.Vector{X: c.smoothH.Value, Y: c.smoothV.Value}
}

// SmoothedVelocity is the rate of change of the smoothed follow target.
func (c *Camera) SmoothedVelocity() cp.Vector {
	return cp.Vector{X: c.smoothH.Velocity(c.dt), Y: c.smoothV.Velocity(c.dt)}
}

// SetFollowSmoothness overrides the follow smoothing durations at runtime.
// Negative values are treated as zero.
func (c *Camera) SetFollowSmoothness(h, v float64) {
	c.followSmoothH = max(h, 0)
	c.followSmoothV = max(v, 0)
}

func (c *Camera) FollowSmoothness() (h, v float64) {
	return c.followSmoothH, c.followSmoothV
}

func (c *Camera) Bounded() Bounded { return c.bounded }

// SetBounded is written by boundary stages during the position-delta stage.
func (c *Camera) SetBounded(b Bounded) { c.bounded = b }

// DeltaTime is the frame time of the last tick that ran.
func (c *Camera) DeltaTime() float64 { return c.dt }

func (c *Camera) Mapper() geom.Mapper { return c.mapper }

func (c *Camera) Lens() Lens { return c.lens }

func (c *Camera) Config() Config { return c.cfg }

// SetConfig swaps the tunables of a running camera. The axis is fixed at
// construction; a config naming another axis is rejected. Follow smoothness
// overrides set through SetFollowSmoothness are replaced.
func (c *Camera) SetConfig(cfg Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	if cfg.Axis != c.cfg.Axis {
		return fmt.Errorf("%w: %s to %s", ErrAxisChanged, c.cfg.Axis, cfg.Axis)
	}
	c.cfg = cfg
	c.SetFollowSmoothness(cfg.HorizontalFollowSmoothness, cfg.VerticalFollowSmoothness)
	return nil
}

func (c *Camera) Pipeline() *Pipeline { return c.pipeline }

func (c *Camera) Scheduler() *Scheduler { return c.tasks }

func (c *Camera) Events() *EventQueue { return &c.events }
