package camera

import "github.com/milk9111/followcam/common"

// Smoother is the per-axis follow filter. It keeps the previous sample so
// callers can difference frames; it carries no velocity and cannot overshoot.
type Smoother struct {
	Value    float64
	Previous float64
}

// Step moves Value toward target. duration is the follow smoothness: the time
// to close ~63% of the gap. Zero snaps to target.
func (s *Smoother) Step(target, duration, dt float64) float64 {
	s.Previous = s.Value
	s.Value = common.SmoothApproach(s.Value, target, duration, dt)
	return s.Value
}

func (s *Smoother) Reset(v float64) {
	s.Value = v
	s.Previous = v
}

// Velocity is the rate of change over the last step.
func (s *Smoother) Velocity(dt float64) float64 {
	if dt < common.Epsilon {
		return 0
	}
	return (s.Value - s.Previous) / dt
}
