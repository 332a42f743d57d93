package ext

import (
	"testing"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/followcam/camera"
	"github.com/milk9111/followcam/common"
	"github.com/milk9111/followcam/geom"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBoundariesHardClamp(t *testing.T) {
	for _, x := range []float64{8.5, 9, 10, 11, 1000} {
		cam, _ := newCamera(t, 1, 2, cp.Vector{})
		_, err := NewNumericBoundaries(cam, Limits{Right: Side{Enabled: true, Value: 10}})
		require.NoError(t, err)
		follow(cam, x, 0)

		tick(cam, 3, 0.02)
		assert.Equal(t, 8.0, cam.PlanarPosition().X, "requested %v", x)
		assert.True(t, cam.Bounded().Right)
	}

	cam, _ := newCamera(t, 1, 2, cp.Vector{})
	_, err := NewNumericBoundaries(cam, Limits{Right: Side{Enabled: true, Value: 10}})
	require.NoError(t, err)
	follow(cam, 7, 0)
	cam.Move(0.02)
	assert.Equal(t, 7.0, cam.PlanarPosition().X)
	assert.False(t, cam.Bounded().Right)
}

func TestBoundariesRightOnly(t *testing.T) {
	cam, _ := newCamera(t, 2, 2, cp.Vector{})
	_, err := NewNumericBoundaries(cam, Limits{
		Left:  Side{Enabled: false, Value: -10},
		Right: Side{Enabled: true, Value: 10},
	})
	require.NoError(t, err)
	follow(cam, 7.5, 0)

	cam.Move(0.02)
	assert.Equal(t, 6.0, cam.PlanarPosition().X)
	assert.True(t, cam.Bounded().Right)
	assert.False(t, cam.Bounded().Left)

	follow(cam, -200, 0)
	cam.Move(0.02)
	assert.Less(t, cam.PlanarPosition().X, -90.0, "disabled left side must not clamp")
}

func TestBoundariesVertical(t *testing.T) {
	cam, _ := newCamera(t, 1, 1, cp.Vector{})
	_, err := NewNumericBoundaries(cam, Limits{
		Bottom: Side{Enabled: true, Value: 0},
		Top:    Side{Enabled: true, Value: 20},
	})
	require.NoError(t, err)
	m := follow(cam, 0, -5)

	cam.Move(0.02)
	assert.Equal(t, 1.0, cam.PlanarPosition().Y)
	assert.True(t, cam.Bounded().Bottom)

	m.SetPosition(geom.Vec3{Y: 50})
	cam.Move(0.02)
	assert.Equal(t, 19.0, cam.PlanarPosition().Y)
	assert.True(t, cam.Bounded().Top)
	assert.False(t, cam.Bounded().Bottom)
}

func TestBoundariesElasticOvershoot(t *testing.T) {
	const (
		size     = 2.0
		duration = 1.0
		dt       = 0.02
	)
	cam, _ := newCamera(t, 1, 2, cp.Vector{X: 30})
	b, err := NewNumericBoundaries(cam, Limits{Right: Side{Enabled: true, Value: 10}})
	require.NoError(t, err)
	b.Elastic = true
	b.HorizontalElasticitySize = size
	b.HorizontalElasticityDuration = duration
	b.Ease = common.EaseLinear
	follow(cam, 100, 0)

	sawOvershoot := false
	for i := 0; i < int(duration/dt)+10; i++ {
		cam.Move(dt)
		over := cam.PlanarPosition().X - 8
		require.LessOrEqual(t, over, size+1e-9, "tick %d", i)
		if over > 0 {
			sawOvershoot = true
		}
	}
	assert.True(t, sawOvershoot)
	assert.InDelta(t, 8.0, cam.PlanarPosition().X, 1e-9)
	assert.InDelta(t, duration, b.HorizontallyBoundedFor(), 1e-9)

	follow(cam, -100, 0)
	tick(cam, 10, dt)
	assert.Less(t, b.HorizontallyBoundedFor(), duration, "unbounded time must ramp back down")
}

func TestBoundariesSizeCap(t *testing.T) {
	cam, lens := newCamera(t, 5, 2, cp.Vector{})
	_, err := NewNumericBoundaries(cam, Limits{
		Left:  Side{Enabled: true, Value: -5},
		Right: Side{Enabled: true, Value: 5},
	})
	require.NoError(t, err)

	cam.Move(0.02)
	assert.InDelta(t, 2.5, lens.size, 1e-9, "width 10 at aspect 2 allows half-height 2.5")

	cam2, lens2 := newCamera(t, 5, 2, cp.Vector{})
	_, err = NewNumericBoundaries(cam2, Limits{
		Left:   Side{Enabled: true, Value: -5},
		Right:  Side{Enabled: true, Value: 5},
		Bottom: Side{Enabled: true, Value: -1},
		Top:    Side{Enabled: true, Value: 1},
	})
	require.NoError(t, err)

	cam2.Move(0.02)
	assert.InDelta(t, 1.0, lens2.size, 1e-9, "the tighter axis wins")
}

func TestBoundariesInverted(t *testing.T) {
	cam, _ := newCamera(t, 1, 2, cp.Vector{})
	_, err := NewNumericBoundaries(cam, Limits{
		Left:  Side{Enabled: true, Value: 5},
		Right: Side{Enabled: true, Value: -5},
	})
	require.ErrorIs(t, err, ErrInvertedBoundaries)

	b, err := NewNumericBoundaries(cam, Limits{
		Left:  Side{Enabled: true, Value: -10},
		Right: Side{Enabled: true, Value: 10},
	})
	require.NoError(t, err)
	require.ErrorIs(t, b.SetLimits(Limits{
		Top:    Side{Enabled: true, Value: -1},
		Bottom: Side{Enabled: true, Value: 1},
	}), ErrInvertedBoundaries)

	// An inverted pair set behind the validator's back leaves the axis free.
	b.Left.Value = 20
	follow(cam, 50, 0)
	cam.Move(0.02)
	assert.Equal(t, 50.0, cam.PlanarPosition().X)
	assert.False(t, cam.Bounded().Horizontal())
}

func TestBoundariesTransition(t *testing.T) {
	cam, _ := newCamera(t, 1, 2, cp.Vector{})
	b, err := NewNumericBoundaries(cam, Limits{Right: Side{Enabled: true, Value: 10}})
	require.NoError(t, err)

	target := Limits{
		Left:  Side{Enabled: true, Value: -20},
		Right: Side{Enabled: true, Value: 20},
	}
	task, err := b.TransitionTo(target, 0.5, common.EaseLinear)
	require.NoError(t, err)
	require.NotNil(t, task)

	assert.True(t, b.Left.Enabled)
	assert.Equal(t, -2.0, b.Left.Value, "newly enabled side starts at the viewport edge")

	cam.Move(0.25)
	assert.InDelta(t, -11.0, b.Left.Value, 1e-9)
	assert.InDelta(t, 15.0, b.Right.Value, 1e-9)

	tick(cam, 2, 0.25)
	assert.True(t, task.Done())
	assert.Equal(t, target, b.Limits)

	events := cam.Events().Drain()
	require.Len(t, events, 2)
	assert.Equal(t, camera.EventBoundariesTransitionStarted, events[0].Type)
	assert.Equal(t, camera.EventBoundariesTransitionEnded, events[1].Type)
	assert.Same(t, b, events[1].Data)

	_, err = b.TransitionTo(Limits{
		Left:  Side{Enabled: true, Value: 1},
		Right: Side{Enabled: true, Value: 0},
	}, 1, common.EaseLinear)
	require.ErrorIs(t, err, ErrInvertedBoundaries)
}

func TestBoundariesResetAndDetach(t *testing.T) {
	cam, _ := newCamera(t, 1, 2, cp.Vector{X: 30})
	b, err := NewNumericBoundaries(cam, Limits{Right: Side{Enabled: true, Value: 10}})
	require.NoError(t, err)
	b.Elastic = true
	follow(cam, 100, 0)
	tick(cam, 5, 0.02)
	require.Greater(t, b.HorizontallyBoundedFor(), 0.0)

	cam.Reset(false)
	assert.Zero(t, b.HorizontallyBoundedFor())

	b.Detach()
	assert.Equal(t, 0, cam.Pipeline().PositionDeltaChangers.Len())
	assert.Equal(t, 0, cam.Pipeline().SizeOverriders.Len())
	cam.Move(0.02)
	assert.Equal(t, 100.0, cam.PlanarPosition().X)
}
