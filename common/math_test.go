package common

import (
	"math"
	"testing"
)

func TestSmoothApproachConvergence(t *testing.T) {
	cases := []struct {
		name     string
		duration float64
		dt       float64
	}{
		{"fast_60hz", 0.1, 1.0 / 60},
		{"slow_60hz", 0.5, 1.0 / 60},
		{"slow_30hz", 0.5, 1.0 / 30},
		{"coarse_steps", 0.25, 0.05},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			const target = 10.0
			v := 0.0
			prev := v
			steps := int(math.Ceil(5 * c.duration / c.dt))
			for i := 0; i < steps; i++ {
				v = SmoothApproach(v, target, c.duration, c.dt)
				if v < prev {
					t.Fatalf("step %d: not monotonic, %v after %v", i, v, prev)
				}
				if v > target {
					t.Fatalf("step %d: overshoot %v", i, v)
				}
				prev = v
			}
			if gap := math.Abs(target-v) / target; gap > 0.01 {
				t.Fatalf("expected within 1%% after 5T, gap=%v", gap)
			}
		})
	}
}

func TestSmoothApproachZeroDurationSnaps(t *testing.T) {
	if got := SmoothApproach(3, 7, 0, 1.0/60); got != 7 {
		t.Fatalf("expected snap to 7, got %v", got)
	}
}

func TestSmoothApproachTimeConstant(t *testing.T) {
	// a single step of exactly one duration closes ~63% of the gap
	got := SmoothApproach(0, 1, 0.3, 0.3)
	if math.Abs(got-(1-math.Exp(-1))) > 1e-12 {
		t.Fatalf("expected 63%% closure, got %v", got)
	}
}

func TestSmoothDampReachesTarget(t *testing.T) {
	v := 0.0
	vel := 0.0
	for i := 0; i < 600; i++ {
		v = SmoothDamp(v, 5, &vel, 0.2, 1.0/60)
		if v > 5 {
			t.Fatalf("overshoot at step %d: %v", i, v)
		}
	}
	if math.Abs(v-5) > 1e-3 {
		t.Fatalf("expected ~5, got %v", v)
	}
}

func TestEaseEndpoints(t *testing.T) {
	for _, e := range []EaseType{EaseLinear, EaseIn, EaseOut, EaseInOut} {
		t.Run(e.String(), func(t *testing.T) {
			if got := e.Ease(0); math.Abs(got) > 1e-12 {
				t.Fatalf("Ease(0)=%v", got)
			}
			if got := e.Ease(1); math.Abs(got-1) > 1e-12 {
				t.Fatalf("Ease(1)=%v", got)
			}
			if got := e.Ease(2); math.Abs(got-1) > 1e-12 {
				t.Fatalf("Ease(2) should clamp, got %v", got)
			}
			parsed, err := ParseEaseType(e.String())
			if err != nil || parsed != e {
				t.Fatalf("round trip %v: got %v err=%v", e, parsed, err)
			}
		})
	}

	if _, err := ParseEaseType("bounce"); err == nil {
		t.Fatalf("expected error for unknown ease")
	}
}

func TestRemap(t *testing.T) {
	if got := Remap(0.5, 0, 1, -1, 1); got != 0 {
		t.Fatalf("expected 0, got %v", got)
	}
	if got := Remap(3, 2, 2, 7, 9); got != 7 {
		t.Fatalf("degenerate span should map to toLo, got %v", got)
	}
}
