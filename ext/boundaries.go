package ext

import (
	"errors"
	"fmt"
	"math"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/followcam/camera"
	"github.com/milk9111/followcam/common"
)

var (
	ErrInvertedBoundaries = errors.New("ext: inverted boundaries")
	ErrInvalidZoomLimits  = errors.New("ext: zoom limits must be positive")
	ErrNoCamera           = errors.New("ext: no camera")
)

// Side is one numeric boundary line.
type Side struct {
	Enabled bool    `yaml:"enabled"`
	Value   float64 `yaml:"value"`
}

// Limits are the four boundary lines in world units.
type Limits struct {
	Top    Side `yaml:"top"`
	Bottom Side `yaml:"bottom"`
	Left   Side `yaml:"left"`
	Right  Side `yaml:"right"`
}

// Validate rejects enabled pairs whose far side is below the near side.
func (l Limits) Validate() error {
	if l.Left.Enabled && l.Right.Enabled && l.Right.Value < l.Left.Value {
		return fmt.Errorf("%w: right %v < left %v", ErrInvertedBoundaries, l.Right.Value, l.Left.Value)
	}
	if l.Top.Enabled && l.Bottom.Enabled && l.Top.Value < l.Bottom.Value {
		return fmt.Errorf("%w: top %v < bottom %v", ErrInvertedBoundaries, l.Top.Value, l.Bottom.Value)
	}
	return nil
}

// horizontal reports which horizontal sides apply. An inverted pair disables
// the whole axis.
func (l Limits) horizontal() (left, right bool) {
	if l.Left.Enabled && l.Right.Enabled && l.Right.Value < l.Left.Value {
		return false, false
	}
	return l.Left.Enabled, l.Right.Enabled
}

func (l Limits) vertical() (bottom, top bool) {
	if l.Top.Enabled && l.Bottom.Enabled && l.Top.Value < l.Bottom.Value {
		return false, false
	}
	return l.Bottom.Enabled, l.Top.Enabled
}

type boundariesTransitionKey struct{ b *NumericBoundaries }

// NumericBoundaries keeps the viewport inside axis-aligned limits. It clamps
// the movement delta and caps the viewport size so both opposing sides fit.
// With Elastic set the camera may overshoot by up to the elasticity size,
// easing back onto the limit over the elasticity duration.
type NumericBoundaries struct {
	Enabled bool
	Limits

	Elastic                      bool
	HorizontalElasticityDuration float64
	HorizontalElasticitySize     float64
	VerticalElasticityDuration   float64
	VerticalElasticitySize       float64
	Ease                         common.EaseType

	cam *camera.Camera

	hBoundedFor float64
	vBoundedFor float64
}

// NewNumericBoundaries registers the boundaries with cam.
func NewNumericBoundaries(cam *camera.Camera, limits Limits) (*NumericBoundaries, error) {
	if cam == nil {
		return nil, ErrNoCamera
	}
	if err := limits.Validate(); err != nil {
		return nil, err
	}
	b := &NumericBoundaries{
		Enabled:                      true,
		Limits:                       limits,
		HorizontalElasticityDuration: 0.5,
		HorizontalElasticitySize:     2,
		VerticalElasticityDuration:   0.5,
		VerticalElasticitySize:       2,
		Ease:                         common.EaseInOut,
		cam:                          cam,
	}
	b.Attach()
	return b, nil
}

func (b *NumericBoundaries) Attach() {
	p := b.cam.Pipeline()
	p.PositionDeltaChangers.Add(b, camera.OrderBoundariesDelta)
	p.SizeOverriders.Add(b, camera.OrderBoundariesSize)
	b.cam.AddResetter(b)
}

func (b *NumericBoundaries) Detach() {
	p := b.cam.Pipeline()
	p.PositionDeltaChangers.Remove(b)
	p.SizeOverriders.Remove(b)
	b.cam.RemoveResetter(b)
	b.cam.Scheduler().Cancel(boundariesTransitionKey{b})
}

// SetLimits replaces all four sides at once and stops a running transition.
func (b *NumericBoundaries) SetLimits(l Limits) error {
	if err := l.Validate(); err != nil {
		return err
	}
	b.cam.Scheduler().Cancel(boundariesTransitionKey{b})
	b.Limits = l
	return nil
}

// TransitionTo eases the limits to target over duration. Sides that were
// disabled start from the current viewport edge so the camera never snaps.
func (b *NumericBoundaries) TransitionTo(target Limits, duration float64, ease common.EaseType) (*camera.Task, error) {
	if err := target.Validate(); err != nil {
		return nil, err
	}

	from := b.Limits
	pos := b.cam.PlanarPosition()
	size := b.cam.ScreenSize()
	if !from.Left.Enabled {
		from.Left.Value = pos.X - size.X/2
	}
	if !from.Right.Enabled {
		from.Right.Value = pos.X + size.X/2
	}
	if !from.Bottom.Enabled {
		from.Bottom.Value = pos.Y - size.Y/2
	}
	if !from.Top.Enabled {
		from.Top.Value = pos.Y + size.Y/2
	}

	events := b.cam.Events()
	events.Push(camera.Event{Type: camera.EventBoundariesTransitionStarted, Data: b})

	if duration <= 0 {
		b.cam.Scheduler().Cancel(boundariesTransitionKey{b})
		b.Limits = target
		events.Push(camera.Event{Type: camera.EventBoundariesTransitionEnded, Data: b})
		return nil, nil
	}

	b.Limits = Limits{
		Top:    Side{Enabled: target.Top.Enabled, Value: from.Top.Value},
		Bottom: Side{Enabled: target.Bottom.Enabled, Value: from.Bottom.Value},
		Left:   Side{Enabled: target.Left.Enabled, Value: from.Left.Value},
		Right:  Side{Enabled: target.Right.Enabled, Value: from.Right.Value},
	}

	progress := 0.0
	return b.cam.Scheduler().StartKeyed(boundariesTransitionKey{b}, func(dt float64) bool {
		progress += dt / duration
		b.Top.Value = common.EaseFromTo(from.Top.Value, target.Top.Value, progress, ease)
		b.Bottom.Value = common.EaseFromTo(from.Bottom.Value, target.Bottom.Value, progress, ease)
		b.Left.Value = common.EaseFromTo(from.Left.Value, target.Left.Value, progress, ease)
		b.Right.Value = common.EaseFromTo(from.Right.Value, target.Right.Value, progress, ease)
		if progress < 1 {
			return false
		}
		events.Push(camera.Event{Type: camera.EventBoundariesTransitionEnded, Data: b})
		return true
	}), nil
}

func (b *NumericBoundaries) AdjustDelta(dt float64, delta cp.Vector) cp.Vector {
	if !b.Enabled {
		return delta
	}

	cur := b.cam.PlanarPosition()
	size := b.cam.ScreenSize()
	halfW, halfH := size.X/2, size.Y/2
	useLeft, useRight := b.horizontal()
	useBottom, useTop := b.vertical()

	var flags camera.Bounded
	h := cur.X + delta.X
	if useLeft && h-halfW < b.Left.Value {
		h = b.Left.Value + halfW
		flags.Left = true
	} else if useRight && h+halfW > b.Right.Value {
		h = b.Right.Value - halfW
		flags.Right = true
	}

	v := cur.Y + delta.Y
	if useBottom && v-halfH < b.Bottom.Value {
		v = b.Bottom.Value + halfH
		flags.Bottom = true
	} else if useTop && v+halfH > b.Top.Value {
		v = b.Top.Value - halfH
		flags.Top = true
	}

	if b.Elastic {
		h = b.elastic(&b.hBoundedFor, dt, flags.Left, flags.Right, h, cur.X,
			b.HorizontalElasticityDuration, b.HorizontalElasticitySize)
		v = b.elastic(&b.vBoundedFor, dt, flags.Bottom, flags.Top, v, cur.Y,
			b.VerticalElasticityDuration, b.VerticalElasticitySize)
	}

	prev := b.cam.Bounded()
	b.cam.SetBounded(camera.Bounded{
		Left:   prev.Left || flags.Left,
		Right:  prev.Right || flags.Right,
		Top:    prev.Top || flags.Top,
		Bottom: prev.Bottom || flags.Bottom,
	})

	return cp.Vector{X: h - cur.X, Y: v - cur.Y}
}

// elastic eases from at most size past the clamped position back onto it as
// the axis stays bounded. clamped is the hard-limited position.
func (b *NumericBoundaries) elastic(boundedFor *float64, dt float64, low, high bool, clamped, cur, duration, size float64) float64 {
	if !low && !high {
		*boundedFor = max(0, *boundedFor-dt)
		return clamped
	}

	*boundedFor = min(duration, *boundedFor+dt)
	progress := 1.0
	if duration > 0 {
		progress = *boundedFor / duration
	}
	if low {
		return common.EaseFromTo(max(clamped-size, cur), clamped, progress, b.Ease)
	}
	return common.EaseFromTo(min(clamped+size, cur), clamped, progress, b.Ease)
}

// OverrideSize caps the half-height so the viewport fits between both sides
// of every fully bounded axis.
func (b *NumericBoundaries) OverrideSize(dt float64, size float64) float64 {
	if !b.Enabled {
		return size
	}

	out := size
	useLeft, useRight := b.horizontal()
	if useLeft && useRight {
		if aspect := b.cam.Lens().Aspect(); aspect > 0 {
			out = math.Min(out, (b.Right.Value-b.Left.Value)/aspect/2)
		}
	}
	useBottom, useTop := b.vertical()
	if useBottom && useTop {
		out = math.Min(out, (b.Top.Value-b.Bottom.Value)/2)
	}
	return out
}

// HorizontallyBoundedFor is how long the horizontal axis has been pinned,
// clamped to the elasticity duration.
func (b *NumericBoundaries) HorizontallyBoundedFor() float64 { return b.hBoundedFor }

func (b *NumericBoundaries) VerticallyBoundedFor() float64 { return b.vBoundedFor }

func (b *NumericBoundaries) OnReset() {
	b.hBoundedFor = 0
	b.vBoundedFor = 0
}
