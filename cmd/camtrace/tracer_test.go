package main

import (
	"math"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/jakecoffman/cp"
	"github.com/milk9111/followcam/prefabs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestTracer(t *testing.T) *tracer {
	t.Helper()
	spec, err := prefabs.LoadRigSpec("camera.yaml")
	require.NoError(t, err)
	m, err := newTracer(spec, 30)
	require.NoError(t, err)
	t.Cleanup(m.rig.Close)
	return m
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestTracerFollowsRunner(t *testing.T) {
	m := newTestTracer(t)
	m.Update(tea.WindowSizeMsg{Width: 100, Height: 33})
	assert.InDelta(t, 100.0/(30*cellAspect), m.lens.Aspect(), 1e-9)

	for i := 0; i < 90; i++ {
		_, cmd := m.Update(tickMsg(time.Now()))
		require.NotNil(t, cmd, "ticks must keep rescheduling")
	}
	assert.InDelta(t, 3, m.elapsed, 1e-9)

	// the runner has swept up and right; the camera trails it
	cam := m.rig.Camera
	pos := cam.PlanarPosition()
	size := cam.ScreenSize()
	runner := cam.Mapper().Planar(m.runner.Position())
	assert.Greater(t, runner.X, 0.0)
	assert.Greater(t, runner.Y, 0.0)
	assert.Greater(t, pos.X, 0.0)
	assert.Greater(t, pos.Y, 0.0)
	target := cam.CameraTargetPosition()
	assert.Less(t, math.Abs(target.X-pos.X), size.X/2)
	assert.Less(t, math.Abs(target.Y-pos.Y), size.Y/2)

	lines := strings.Split(m.View(), "\n")
	assert.Len(t, lines, 32)
	assert.Len(t, []rune(lines[0]), 100)
	assert.Contains(t, lines[30], "running")
}

func TestTracerPauseAndStep(t *testing.T) {
	m := newTestTracer(t)

	m.Update(tea.KeyMsg{Type: tea.KeySpace})
	require.True(t, m.paused)

	m.Update(tickMsg(time.Now()))
	assert.Zero(t, m.elapsed, "paused tracer must not advance on ticks")

	m.Update(runes("."))
	assert.InDelta(t, m.dt, m.elapsed, 1e-12)
	assert.Contains(t, m.View(), "paused")

	m.Update(tea.KeyMsg{Type: tea.KeySpace})
	assert.False(t, m.paused)
}

func TestTracerZoomAndQuit(t *testing.T) {
	m := newTestTracer(t)
	start := m.rig.Camera.HalfSize()

	m.Update(runes("-"))
	for i := 0; i < 30; i++ {
		m.Update(tickMsg(time.Now()))
	}
	assert.Greater(t, m.rig.Camera.HalfSize(), start)

	_, cmd := m.Update(runes("q"))
	require.NotNil(t, cmd)
	assert.Equal(t, tea.QuitMsg{}, cmd())
}

func TestTracerShake(t *testing.T) {
	m := newTestTracer(t)
	m.Update(runes("s"))
	s, ok := m.rig.Script("shake")
	require.True(t, ok)
	assert.Equal(t, 1.0, s.State()["trauma"])
}

func TestGrid(t *testing.T) {
	g := newGrid(10, 4, cp.Vector{}, cp.Vector{X: 10, Y: 4})
	g.put(cp.Vector{X: -4.5, Y: 1.5}, 'a')
	g.put(cp.Vector{X: 4.5, Y: -1.5}, 'b')
	g.put(cp.Vector{X: 20, Y: 0}, 'c')
	g.vline(0, '|')

	assert.Equal(t, "a    |    \n     |    \n     |    \n     |   b", g.String())
}
