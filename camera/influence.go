package camera

import (
	"sync"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/followcam/common"
)

// influences collects per-frame displacements. They are summed and cleared
// once per tick.
type influences struct {
	mu    sync.Mutex
	items []cp.Vector
	last  cp.Vector
}

func (a *influences) add(v cp.Vector) bool {
	if !common.Finite(v.X) || !common.Finite(v.Y) {
		return false
	}
	a.mu.Lock()
	a.items = append(a.items, v)
	a.mu.Unlock()
	return true
}

func (a *influences) drain() cp.Vector {
	a.mu.Lock()
	defer a.mu.Unlock()
	var sum cp.Vector
	for _, v := range a.items {
		sum = sum.Add(v)
	}
	a.items = a.items[:0]
	a.last = sum
	return sum
}

// discard drops queued displacements without touching the last sum.
func (a *influences) discard() {
	a.mu.Lock()
	a.items = a.items[:0]
	a.mu.Unlock()
}

func (a *influences) clear() {
	a.mu.Lock()
	a.items = a.items[:0]
	a.last = cp.Vector{}
	a.mu.Unlock()
}

type timedInfluenceKey struct{}

// ApplyInfluence displaces the follow target for the current frame only.
// Vectors with NaN or infinite components are ignored. Influences queued
// before a frame that Move drops are discarded.
func (c *Camera) ApplyInfluence(v cp.Vector) bool {
	return c.influences.add(v)
}

// ApplyInfluencesTimed applies each vector every tick for its duration, one
// after the other. A zero duration applies its vector for a single tick.
// Calling it again replaces the running sequence. Extra entries in the longer
// slice are ignored.
func (c *Camera) ApplyInfluencesTimed(vs []cp.Vector, durations []float64) *Task {
	n := min(len(vs), len(durations))
	if n == 0 {
		c.tasks.Cancel(timedInfluenceKey{})
		return nil
	}
	vs = append([]cp.Vector(nil), vs[:n]...)
	durations = append([]float64(nil), durations[:n]...)

	idx := 0
	remaining := durations[0]
	return c.tasks.StartKeyed(timedInfluenceKey{}, func(dt float64) bool {
		c.ApplyInfluence(vs[idx])
		remaining -= dt
		if remaining > 0 {
			return false
		}
		idx++
		if idx >= n {
			return true
		}
		remaining = durations[idx]
		return false
	})
}

// InfluencesSum is the total influence consumed by the last tick.
func (c *Camera) InfluencesSum() cp.Vector {
	c.influences.mu.Lock()
	defer c.influences.mu.Unlock()
	return c.influences.last
}
