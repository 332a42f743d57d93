package common

import (
	"fmt"
	"math"
	"strings"
)

// EaseType selects the curve used by timed transitions.
type EaseType int

const (
	EaseLinear EaseType = iota
	EaseIn
	EaseOut
	EaseInOut
)

func (e EaseType) String() string {
	switch e {
	case EaseIn:
		return "ease_in"
	case EaseOut:
		return "ease_out"
	case EaseInOut:
		return "ease_in_out"
	default:
		return "linear"
	}
}

// ParseEaseType accepts the names produced by String. Empty means linear.
func ParseEaseType(s string) (EaseType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "linear":
		return EaseLinear, nil
	case "ease_in", "easein", "in":
		return EaseIn, nil
	case "ease_out", "easeout", "out":
		return EaseOut, nil
	case "ease_in_out", "easeinout", "in_out":
		return EaseInOut, nil
	}
	return EaseLinear, fmt.Errorf("common: unknown ease type %q", s)
}

// Ease maps progress t (clamped to [0,1]) through the curve.
func (e EaseType) Ease(t float64) float64 {
	t = Clamp01(t)
	switch e {
	case EaseIn:
		return 1 - math.Cos(t*math.Pi*0.5)
	case EaseOut:
		return math.Sin(t * math.Pi * 0.5)
	case EaseInOut:
		return -0.5 * (math.Cos(math.Pi*t) - 1)
	default:
		return t
	}
}

func EaseFromTo(start, end, t float64, ease EaseType) float64 {
	return Lerp(start, end, ease.Ease(t))
}
