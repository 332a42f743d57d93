package ext

import (
	"github.com/jakecoffman/cp"
	"github.com/milk9111/followcam/camera"
	"github.com/milk9111/followcam/common"
)

func smoothDampVec(cur, target cp.Vector, vel *cp.Vector, smoothTime, dt float64) cp.Vector {
	return cp.Vector{
		X: common.SmoothDamp(cur.X, target.X, &vel.X, smoothTime, dt),
		Y: common.SmoothDamp(cur.Y, target.Y, &vel.Y, smoothTime, dt),
	}
}

// PointerInfluence leans the camera toward the pointer. A pointer at the
// viewport edge pushes the follow target by the max influence on that axis.
type PointerInfluence struct {
	Enabled                bool
	MaxHorizontalInfluence float64
	MaxVerticalInfluence   float64
	InfluenceSmoothness    float64

	cam       *camera.Camera
	pointer   cp.Vector
	influence cp.Vector
	velocity  cp.Vector
}

func NewPointerInfluence(cam *camera.Camera) (*PointerInfluence, error) {
	if cam == nil {
		return nil, ErrNoCamera
	}
	p := &PointerInfluence{
		Enabled:                true,
		MaxHorizontalInfluence: 3,
		MaxVerticalInfluence:   2,
		InfluenceSmoothness:    0.2,
		cam:                    cam,
		pointer:                cp.Vector{X: 0.5, Y: 0.5},
	}
	p.Attach()
	return p, nil
}

func (p *PointerInfluence) Attach() {
	p.cam.Pipeline().PreMovers.Add(p, camera.OrderPointerInfluence)
	p.cam.AddResetter(p)
}

func (p *PointerInfluence) Detach() {
	p.cam.Pipeline().PreMovers.Remove(p)
	p.cam.RemoveResetter(p)
}

// SetPointer records the pointer in normalised viewport coordinates.
func (p *PointerInfluence) SetPointer(v cp.Vector) { p.pointer = v }

// Influence is the smoothed displacement applied on the last tick.
func (p *PointerInfluence) Influence() cp.Vector { return p.influence }

func (p *PointerInfluence) PreMove(dt float64) {
	if !p.Enabled {
		return
	}
	want := cp.Vector{
		X: common.Remap(p.pointer.X, 0, 1, -1, 1) * p.MaxHorizontalInfluence,
		Y: common.Remap(p.pointer.Y, 0, 1, -1, 1) * p.MaxVerticalInfluence,
	}
	p.influence = smoothDampVec(p.influence, want, &p.velocity, p.InfluenceSmoothness, dt)
	p.cam.ApplyInfluence(p.influence)
}

func (p *PointerInfluence) OnReset() {
	p.influence = cp.Vector{}
	p.velocity = cp.Vector{}
}
