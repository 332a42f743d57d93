package main

import (
	"testing"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/followcam/camera"
	"github.com/milk9111/followcam/geom"
	"github.com/milk9111/followcam/obj"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func newStateCamera(t *testing.T) *camera.Camera {
	t.Helper()
	lens := obj.NewCamera(200, 100, 5)
	lens.Snap = false
	cfg := camera.DefaultConfig()
	cfg.HorizontalFollowSmoothness = 0
	cfg.VerticalFollowSmoothness = 0
	cam, err := camera.New(cfg, lens, geom.Vec3{Z: -10})
	require.NoError(t, err)
	return cam
}

func TestMarshalState(t *testing.T) {
	cam := newStateCamera(t)
	cam.AddTarget(geom.NewMarker(geom.Vec3{X: 3, Y: 4}), 1, 1, 0, cp.Vector{})
	cam.AddTarget(geom.NewMarker(geom.Vec3{X: -1, Y: 2}), 0.5, 0.25, 0, cp.Vector{})
	cam.Move(0.02)

	data, err := marshalState(cam)
	require.NoError(t, err)

	var got cameraState
	require.NoError(t, yaml.Unmarshal(data, &got))

	assert.Equal(t, -10.0, got.Position.Z)
	assert.InDelta(t, 5, got.HalfHeight, 1e-9)
	assert.Equal(t, vec2{}, got.Smoothness)
	assert.Empty(t, got.Bounded)
	require.Len(t, got.Targets, 2)
	assert.Equal(t, targetAt{Position: vec2{X: 3, Y: 4}, Weight: 1}, got.Targets[0])
	assert.Equal(t, targetAt{Position: vec2{X: -1, Y: 2}, Weight: 0.5, WeightV: 0.25}, got.Targets[1])

	mid := cam.TargetsMidPoint()
	assert.Equal(t, vec2{X: mid.X, Y: mid.Y}, got.Midpoint)
	assert.Equal(t, toVec2(cam.SmoothedVelocity()), got.Velocity)
	assert.InDelta(t, mid.X/0.02, got.Velocity.X, 1e-9)
	assert.NotContains(t, string(data), "weight_v: 0\n")
}

func TestBoundedSides(t *testing.T) {
	assert.Nil(t, boundedSides(camera.Bounded{}))
	assert.Equal(t, []string{"left", "top"}, boundedSides(camera.Bounded{Left: true, Top: true}))
}

func TestPanelSummary(t *testing.T) {
	cam := newStateCamera(t)
	cam.AddTarget(geom.NewMarker(geom.Vec3{X: 1}), 1, 1, 0, cp.Vector{})
	cam.SetBounded(camera.Bounded{Right: true})

	s := panelSummary(cam, 3)
	assert.Contains(t, s, "targets 1 (3 balls)")
	assert.Contains(t, s, "bounded right")
	assert.Contains(t, s, "half       5.00")
}

func TestPanelSummaryVelocity(t *testing.T) {
	cam := newStateCamera(t)
	cam.AddTarget(geom.NewMarker(geom.Vec3{X: 2, Y: 1}), 1, 1, 0, cp.Vector{})
	cam.Move(0.5)

	assert.Contains(t, panelSummary(cam, 0), "vel        4.00    2.00")
}
