package common

import "math"

// Epsilon is the threshold below which frame times and influence totals are
// treated as zero.
const Epsilon = 1e-4

func Lerp(a, b, t float64) float64 {
	return a + t*(b-a)
}

func Clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func Clamp01(v float64) float64 {
	return Clamp(v, 0, 1)
}

// Remap maps v from [fromLo, fromHi] onto [toLo, toHi] without clamping.
func Remap(v, fromLo, fromHi, toLo, toHi float64) float64 {
	span := fromHi - fromLo
	if span == 0 {
		return toLo
	}
	return toLo + (v-fromLo)*(toHi-toLo)/span
}

func NearlyZero(v float64) bool {
	return math.Abs(v) < Epsilon
}

// Finite reports whether v is neither NaN nor infinite.
func Finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// SmoothApproach moves prev toward target with first-order exponential decay.
// After duration seconds about 63% of the gap is closed. A non-positive
// duration snaps to target.
func SmoothApproach(prev, target, duration, dt float64) float64 {
	if duration <= 0 {
		return target
	}
	return target + (prev-target)*math.Exp(-dt/duration)
}

// SmoothDamp is a critically damped spring toward target. velocity is carried
// between calls by the caller.
func SmoothDamp(current, target float64, velocity *float64, smoothTime, dt float64) float64 {
	if smoothTime < Epsilon {
		smoothTime = Epsilon
	}
	omega := 2 / smoothTime
	x := omega * dt
	exp := 1 / (1 + x + 0.48*x*x + 0.235*x*x*x)

	change := current - target
	temp := (*velocity + omega*change) * dt
	*velocity = (*velocity - omega*temp) * exp
	out := target + (change+temp)*exp

	// no overshoot past the target
	if (target-current > 0) == (out > target) {
		out = target
		*velocity = 0
	}
	return out
}
