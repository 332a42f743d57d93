package camera

import (
	"reflect"
	"slices"
	"sync"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/followcam/common"
	"github.com/milk9111/followcam/geom"
)

// Target is a followed point with independent horizontal and vertical
// weights. Weights are never negative; a zero-weight target stays registered
// but does not pull the camera.
type Target struct {
	Source geom.Positioner
	Offset cp.Vector

	mu         sync.Mutex
	influenceH float64
	influenceV float64
}

func (t *Target) Position() geom.Vec3 {
	if t == nil || t.Source == nil {
		return geom.Vec3{}
	}
	return t.Source.Position()
}

func (t *Target) InfluenceH() float64 {
	h, _ := t.Influence()
	return h
}

func (t *Target) InfluenceV() float64 {
	_, v := t.Influence()
	return v
}

// Influence returns both weights read together.
func (t *Target) Influence() (h, v float64) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.influenceH, t.influenceV
}

// SetInfluence sets both weights immediately, clamping negatives to zero.
func (t *Target) SetInfluence(h, v float64) {
	t.mu.Lock()
	t.influenceH = max(h, 0)
	t.influenceV = max(v, 0)
	t.mu.Unlock()
}

type fadeKey struct{ t *Target }

// WeightedMidpoint averages the targets' planar positions (plus offsets) by
// their per-axis weights. fallback is returned for an empty set. A lone
// contributor on an axis whose total weight is below one is followed with
// weight one.
func WeightedMidpoint(targets []*Target, m geom.Mapper, fallback cp.Vector) cp.Vector {
	if len(targets) == 0 {
		return fallback
	}

	var midH, midV, totalH, totalV float64
	var countH, countV int
	for _, t := range targets {
		if t == nil {
			continue
		}
		p := m.Planar(t.Position())
		h, v := t.Influence()
		midH += (p.X + t.Offset.X) * h
		midV += (p.Y + t.Offset.Y) * v
		totalH += h
		totalV += v
		if h > 0 {
			countH++
		}
		if v > 0 {
			countV++
		}
	}

	// A lone contributor below unit weight counts with weight one.
	if totalH < 1 && countH == 1 {
		midH /= totalH
		totalH = 1
	}
	if totalV < 1 && countV == 1 {
		midV /= totalV
		totalV = 1
	}

	if totalH > common.Epsilon {
		midH /= totalH
	}
	if totalV > common.Epsilon {
		midV /= totalV
	}
	return cp.Vector{X: midH, Y: midV}
}

// AddTarget starts following src. A positive duration fades the weights in
// from zero.
func (c *Camera) AddTarget(src geom.Positioner, influenceH, influenceV, duration float64, offset cp.Vector) *Target {
	t := &Target{Source: src, Offset: offset}
	if duration > 0 {
		t.SetInfluence(0, 0)
		c.startFade(t, influenceH, influenceV, duration, common.EaseLinear, false)
	} else {
		t.SetInfluence(influenceH, influenceV)
	}

	c.targetsMu.Lock()
	c.targets = append(c.targets, t)
	c.targetsMu.Unlock()
	return t
}

func (c *Camera) AddTargets(srcs []geom.Positioner, influenceH, influenceV, duration float64, offset cp.Vector) []*Target {
	out := make([]*Target, 0, len(srcs))
	for _, src := range srcs {
		out = append(out, c.AddTarget(src, influenceH, influenceV, duration, offset))
	}
	return out
}

// Target finds the first target following src.
func (c *Camera) Target(src geom.Positioner) (*Target, bool) {
	c.targetsMu.Lock()
	defer c.targetsMu.Unlock()
	for _, t := range c.targets {
		if sameSource(t.Source, src) {
			return t, true
		}
	}
	return nil, false
}

func (c *Camera) Targets() []*Target {
	c.targetsMu.Lock()
	defer c.targetsMu.Unlock()
	return slices.Clone(c.targets)
}

func (c *Camera) TargetCount() int {
	c.targetsMu.Lock()
	defer c.targetsMu.Unlock()
	return len(c.targets)
}

// RemoveTarget stops following src, immediately or by fading its weights to
// zero over duration and then evicting it.
func (c *Camera) RemoveTarget(src geom.Positioner, duration float64) {
	for _, t := range c.Targets() {
		if !sameSource(t.Source, src) {
			continue
		}
		c.RemoveTargetHandle(t, duration)
	}
}

// RemoveTargetHandle is RemoveTarget for a known handle.
func (c *Camera) RemoveTargetHandle(t *Target, duration float64) {
	if t == nil {
		return
	}
	if duration > 0 {
		c.startFade(t, 0, 0, duration, common.EaseLinear, true)
		return
	}
	c.evict(t)
}

func (c *Camera) RemoveAllTargets(duration float64) {
	for _, t := range c.Targets() {
		c.RemoveTargetHandle(t, duration)
	}
}

// AdjustTargetInfluence changes a target's weights, instantly for a
// non-positive duration or eased over duration otherwise. A new adjustment
// replaces any fade still running on the same target.
func (c *Camera) AdjustTargetInfluence(t *Target, influenceH, influenceV, duration float64, ease common.EaseType) *Task {
	if t == nil {
		return nil
	}
	if duration <= 0 {
		c.tasks.Cancel(fadeKey{t})
		t.SetInfluence(influenceH, influenceV)
		return nil
	}
	return c.startFade(t, influenceH, influenceV, duration, ease, false)
}

func (c *Camera) startFade(t *Target, h, v, duration float64, ease common.EaseType, removeOnZero bool) *Task {
	startH, startV := t.Influence()
	progress := 0.0
	return c.tasks.StartKeyed(fadeKey{t}, func(dt float64) bool {
		progress += dt / duration
		t.SetInfluence(
			common.EaseFromTo(startH, h, progress, ease),
			common.EaseFromTo(startV, v, progress, ease),
		)
		if progress < 1 {
			return false
		}
		if h, v := t.Influence(); removeOnZero && h <= 0 && v <= 0 {
			c.evict(t)
		}
		return true
	})
}

// evict drops t from the registry. A fade still running on t is canceled
// with it.
func (c *Camera) evict(t *Target) {
	c.tasks.Cancel(fadeKey{t})

	c.targetsMu.Lock()
	i := slices.Index(c.targets, t)
	if i >= 0 {
		c.targets = slices.Delete(c.targets, i, i+1)
	}
	c.targetsMu.Unlock()

	if i >= 0 {
		c.events.Push(Event{Type: EventTargetRemoved, Data: t})
	}
}

func (c *Camera) snapshotTargets() []*Target {
	return c.Targets()
}

func sameSource(a, b geom.Positioner) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	ta, tb := reflect.TypeOf(a), reflect.TypeOf(b)
	if ta != tb || !ta.Comparable() {
		return false
	}
	return a == b
}
