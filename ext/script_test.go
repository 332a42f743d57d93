package ext

import (
	"bytes"
	"log"
	"os"
	"strings"
	"testing"

	"github.com/jakecoffman/cp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScriptRegistersDefinedPhases(t *testing.T) {
	cam, _ := newCamera(t, 5, 2, cp.Vector{})
	src := `
adjust_delta := func(cam, state, dt, delta) {
	return [delta[0] * 2, delta[1]]
}
`
	s, err := NewScript(cam, "double", []byte(src), 100)
	require.NoError(t, err)
	assert.True(t, s.Defines(PhaseAdjustDelta))
	assert.False(t, s.Defines(PhasePreMove))

	p := cam.Pipeline()
	assert.Equal(t, 1, p.PositionDeltaChangers.Len())
	assert.Equal(t, 0, p.PreMovers.Len())
	assert.Equal(t, 0, p.SizeOverriders.Len())

	follow(cam, 3, 1)
	cam.Move(0.02)
	assert.Equal(t, cp.Vector{X: 6, Y: 1}, cam.PlanarPosition())

	s.Detach()
	assert.Equal(t, 0, p.PositionDeltaChangers.Len())
}

func TestScriptStateAndCameraAPI(t *testing.T) {
	cam, lens := newCamera(t, 5, 2, cp.Vector{})
	follow(cam, 0, 0)
	src := `
pre_move := func(cam, state, dt) {
	if is_undefined(state.ticks) {
		state.ticks = 0
	}
	state.ticks += 1
	cam.apply_influence(1, 0.5)
}

override_size := func(cam, state, dt, size) {
	return size + 1
}
`
	s, err := NewScript(cam, "nudge", []byte(src), 0)
	require.NoError(t, err)

	tick(cam, 3, 0.02)
	assert.Equal(t, 3, s.State()["ticks"])
	assert.Equal(t, cp.Vector{X: 1, Y: 0.5}, cam.CameraTargetPosition())
	assert.Equal(t, 8.0, lens.size)
}

func TestScriptRuntimeErrorPassesThrough(t *testing.T) {
	var buf bytes.Buffer
	log.SetOutput(&buf)
	defer log.SetOutput(os.Stderr)

	cam, lens := newCamera(t, 5, 2, cp.Vector{})
	src := `
adjust_size := func(cam, state, dt, delta) {
	f := delta
	return f()
}

override_position := func(cam, state, dt, pos) {
	return "nowhere"
}
`
	_, err := NewScript(cam, "broken", []byte(src), 0)
	require.NoError(t, err)
	follow(cam, 4, 0)

	tick(cam, 5, 0.02)
	assert.Equal(t, 5.0, lens.size)
	assert.Equal(t, cp.Vector{X: 4}, cam.PlanarPosition())
	assert.Equal(t, 1, strings.Count(buf.String(), "adjust_size"))
	assert.Equal(t, 1, strings.Count(buf.String(), "override_position"))
}

func TestScriptCompileError(t *testing.T) {
	cam, _ := newCamera(t, 5, 2, cp.Vector{})
	_, err := NewScript(cam, "bad", []byte(`pre_move := func(cam, state, dt) {`), 0)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bad")
	assert.Equal(t, 0, cam.Pipeline().PreMovers.Len())
}

func TestScriptSetState(t *testing.T) {
	cam, _ := newCamera(t, 5, 2, cp.Vector{})
	follow(cam, 0, 0)
	src := `
override_position := func(cam, state, dt, pos) {
	if is_undefined(state.kick) {
		return pos
	}
	return [pos[0] + state.kick, pos[1]]
}
`
	s, err := NewScript(cam, "kick", []byte(src), 0)
	require.NoError(t, err)

	cam.Move(0.02)
	assert.Equal(t, 0.0, cam.PlanarPosition().X)

	require.NoError(t, s.SetState("kick", 2.5))
	cam.Move(0.02)
	assert.Equal(t, 2.5, cam.PlanarPosition().X)
	assert.Equal(t, 2.5, s.State()["kick"])
}
