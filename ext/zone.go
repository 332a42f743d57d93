package ext

import (
	"github.com/jakecoffman/cp"
	"github.com/milk9111/followcam/camera"
	"github.com/milk9111/followcam/common"
	"github.com/milk9111/followcam/geom"
)

// InfluenceZone pulls the camera toward a focus point while the targets'
// midpoint is inside a circle. Within the exclusive inner part of the circle
// the camera is driven to the focus point outright. After the midpoint leaves,
// the pull decays back to zero.
type InfluenceZone struct {
	Enabled bool
	Center  geom.Positioner
	Radius  float64
	// Focus defaults to Center when nil.
	Focus geom.Positioner
	// ExclusivePercentage is the fraction of Radius inside which the focus
	// point takes over completely.
	ExclusivePercentage float64
	Smoothness          float64

	cam *camera.Camera

	inside       bool
	prevPct      float64
	influence    cp.Vector
	velocity     cp.Vector
	exclusive    cp.Vector
	exclusiveVel cp.Vector
}

func NewInfluenceZone(cam *camera.Camera, center geom.Positioner, radius float64) (*InfluenceZone, error) {
	if cam == nil {
		return nil, ErrNoCamera
	}
	z := &InfluenceZone{
		Enabled:             true,
		Center:              center,
		Radius:              radius,
		ExclusivePercentage: 0.25,
		Smoothness:          0.3,
		cam:                 cam,
		prevPct:             1,
	}
	z.Attach()
	return z, nil
}

func (z *InfluenceZone) Attach() {
	z.cam.Pipeline().PreMovers.Add(z, camera.OrderInfluenceZone)
	z.cam.AddResetter(z)
}

func (z *InfluenceZone) Detach() {
	z.cam.Pipeline().PreMovers.Remove(z)
	z.cam.RemoveResetter(z)
}

func (z *InfluenceZone) Inside() bool { return z.inside }

func (z *InfluenceZone) Influence() cp.Vector { return z.influence }

// distancePercentage is 0 inside the exclusive radius, 1 at the rim.
func (z *InfluenceZone) distancePercentage(p cp.Vector) float64 {
	m := z.cam.Mapper()
	d := p.Sub(m.Planar(z.Center.Position())).Length()
	inner := z.Radius * common.Clamp01(z.ExclusivePercentage)
	if d <= inner {
		return 0
	}
	return common.Clamp01(common.Remap(d, inner, z.Radius, 0, 1))
}

func (z *InfluenceZone) PreMove(dt float64) {
	if !z.Enabled || z.Center == nil || z.Radius <= 0 {
		return
	}

	m := z.cam.Mapper()
	mid := z.cam.TargetsMidPoint()
	center := m.Planar(z.Center.Position())
	inside := mid.Sub(center).Length() <= z.Radius

	if inside && !z.inside {
		z.exclusive = z.cam.PlanarPosition()
		z.exclusiveVel = cp.Vector{}
		z.prevPct = 1
	}
	z.inside = inside

	if !inside {
		if z.influence == (cp.Vector{}) {
			return
		}
		z.influence = smoothDampVec(z.influence, cp.Vector{}, &z.velocity, z.Smoothness, dt)
		if z.influence.Length() < common.Epsilon {
			z.influence = cp.Vector{}
			z.velocity = cp.Vector{}
			return
		}
		z.cam.ApplyInfluence(z.influence)
		return
	}

	focus := center
	if z.Focus != nil {
		focus = m.Planar(z.Focus.Position())
	}
	// Lead the midpoint by its last frame of motion.
	predicted := mid.Add(mid.Sub(z.cam.PreviousTargetsMidPoint()))
	toFocus := predicted.Sub(focus)
	pct := z.distancePercentage(mid)

	if pct == 0 {
		z.exclusive = smoothDampVec(z.exclusive, focus, &z.exclusiveVel, z.Smoothness, dt)
		z.cam.SetExclusiveTargetPosition(z.exclusive)
		z.influence = toFocus.Mult(-(1 - pct))
	} else {
		if z.prevPct == 0 {
			// Leaving the exclusive part: continue from where the camera is
			// heading so the handover does not jump.
			z.influence = z.cam.SmoothedTargetPosition().Sub(predicted)
		}
		z.influence = smoothDampVec(z.influence, toFocus.Mult(-(1 - pct)), &z.velocity, z.Smoothness, dt)
		z.cam.ApplyInfluence(z.influence)
		z.exclusive = z.cam.CameraTargetPosition()
	}
	z.prevPct = pct
}

func (z *InfluenceZone) OnReset() {
	z.inside = false
	z.prevPct = 1
	z.influence = cp.Vector{}
	z.velocity = cp.Vector{}
	z.exclusiveVel = cp.Vector{}
}
