package camera

import "math"

// Lens is the host projection the camera realises sizes through.
type Lens interface {
	Orthographic() bool
	// Aspect is viewport width over height.
	Aspect() float64
	// OrthographicSize is the half-height of the view in world units.
	OrthographicSize() float64
	SetOrthographicSize(halfHeight float64)
	// FieldOfView is the vertical field of view in degrees.
	FieldOfView() float64
	SetFieldOfView(degrees float64)
}

const (
	minOrthoSize = 0.1
	minFOV       = 0.1
	maxFOV       = 179.9
)

// screenSizeInWorld returns the full viewport extent (width, height) at the
// given distance from the lens.
func screenSizeInWorld(l Lens, distance float64) (float64, float64) {
	var h float64
	if l.Orthographic() {
		h = 2 * l.OrthographicSize()
	} else {
		h = 2 * distance * math.Tan(l.FieldOfView()*0.5*math.Pi/180)
	}
	return h * l.Aspect(), h
}
