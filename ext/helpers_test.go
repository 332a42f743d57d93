package ext

import (
	"testing"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/followcam/camera"
	"github.com/milk9111/followcam/geom"
	"github.com/stretchr/testify/require"
)

type fakeLens struct {
	aspect float64
	size   float64
}

func (l *fakeLens) Orthographic() bool            { return true }
func (l *fakeLens) Aspect() float64               { return l.aspect }
func (l *fakeLens) OrthographicSize() float64     { return l.size }
func (l *fakeLens) SetOrthographicSize(s float64) { l.size = s }
func (l *fakeLens) FieldOfView() float64          { return 60 }
func (l *fakeLens) SetFieldOfView(float64)        {}

// newCamera builds an orthographic camera without follow smoothing so a tick
// lands exactly on the follow target.
func newCamera(t *testing.T, halfHeight, aspect float64, start cp.Vector) (*camera.Camera, *fakeLens) {
	t.Helper()
	cfg := camera.DefaultConfig()
	cfg.HorizontalFollowSmoothness = 0
	cfg.VerticalFollowSmoothness = 0
	lens := &fakeLens{aspect: aspect, size: halfHeight}
	cam, err := camera.New(cfg, lens, geom.Vec3{X: start.X, Y: start.Y, Z: -10})
	require.NoError(t, err)
	return cam, lens
}

func follow(cam *camera.Camera, x, y float64) *geom.Marker {
	m := geom.NewMarker(geom.Vec3{X: x, Y: y})
	cam.AddTarget(m, 1, 1, 0, cp.Vector{})
	return m
}

func tick(cam *camera.Camera, n int, dt float64) {
	for i := 0; i < n; i++ {
		cam.Move(dt)
	}
}
