package ext

import (
	"testing"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/followcam/geom"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPointerInfluence(t *testing.T) {
	cam, _ := newCamera(t, 5, 2, cp.Vector{})
	follow(cam, 0, 0)
	p, err := NewPointerInfluence(cam)
	require.NoError(t, err)

	cam.Move(0.02)
	assert.Equal(t, cp.Vector{}, cam.CameraTargetPosition(), "centred pointer has no influence")

	p.SetPointer(cp.Vector{X: 1, Y: 0})
	tick(cam, 200, 0.02)
	assert.InDelta(t, 3.0, cam.CameraTargetPosition().X, 1e-3)
	assert.InDelta(t, -2.0, cam.CameraTargetPosition().Y, 1e-3)

	cam.Reset(false)
	assert.Equal(t, cp.Vector{}, p.Influence())
}

func TestSpeedBasedZoom(t *testing.T) {
	cam, lens := newCamera(t, 5, 2, cp.Vector{})
	m := follow(cam, 0, 0)
	z, err := NewSpeedBasedZoom(cam)
	require.NoError(t, err)

	for i := 0; i < 300; i++ {
		m.Translate(geom.Vec3{X: 1})
		cam.Move(0.02)
		require.LessOrEqual(t, lens.size, 10+1e-9)
	}
	assert.Greater(t, z.Speed(), z.SpeedForZoomOut)
	assert.Greater(t, lens.size, 5.0, "fast camera zooms out")

	tick(cam, 600, 0.02)
	assert.Less(t, z.Speed(), z.SpeedForZoomIn)
	assert.GreaterOrEqual(t, lens.size, 2.5-1e-9)
	assert.Less(t, lens.size, 5.0, "still camera zooms back in")
}

func TestInfluenceZoneExclusive(t *testing.T) {
	cam, _ := newCamera(t, 5, 2, cp.Vector{})
	follow(cam, 10.5, 0)
	z, err := NewInfluenceZone(cam, geom.NewMarker(geom.Vec3{X: 10}), 5)
	require.NoError(t, err)
	z.Focus = geom.NewMarker(geom.Vec3{X: 20, Y: 3})

	tick(cam, 200, 0.02)
	assert.True(t, z.Inside())
	assert.InDelta(t, 20.0, cam.PlanarPosition().X, 1e-2)
	assert.InDelta(t, 3.0, cam.PlanarPosition().Y, 1e-2)
}

func TestInfluenceZonePullAndRelease(t *testing.T) {
	cam, _ := newCamera(t, 5, 2, cp.Vector{})
	m := follow(cam, 13.5, 0)
	z, err := NewInfluenceZone(cam, geom.NewMarker(geom.Vec3{X: 10}), 5)
	require.NoError(t, err)

	tick(cam, 300, 0.02)
	require.True(t, z.Inside())
	// Midpoint 3.5 from the focus, 60% of the way to the rim: pulled back by 40%.
	assert.InDelta(t, 12.1, cam.CameraTargetPosition().X, 1e-2)

	m.SetPosition(geom.Vec3{X: 40})
	tick(cam, 300, 0.02)
	assert.False(t, z.Inside())
	assert.Equal(t, cp.Vector{}, z.Influence())
	assert.Equal(t, 40.0, cam.PlanarPosition().X)
}
