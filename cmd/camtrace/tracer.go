package main

import (
	"fmt"
	"math"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/jakecoffman/cp"
	"github.com/milk9111/followcam/camera"
	"github.com/milk9111/followcam/common"
	"github.com/milk9111/followcam/geom"
	"github.com/milk9111/followcam/prefabs"
)

const (
	// cellAspect is the height of a terminal cell over its width.
	cellAspect = 2.0
	statusRows = 3
	gridStep   = 5.0

	companionWeight = 0.5
	companionOrbit  = 6.0
	zoomStep        = 1.0
	zoomDuration    = 0.3
)

type tickMsg time.Time

// termLens is an orthographic lens sized to the terminal.
type termLens struct {
	aspect float64
	size   float64
}

func (l *termLens) Orthographic() bool            { return true }
func (l *termLens) Aspect() float64               { return l.aspect }
func (l *termLens) OrthographicSize() float64     { return l.size }
func (l *termLens) SetOrthographicSize(s float64) { l.size = s }
func (l *termLens) FieldOfView() float64          { return 60 }
func (l *termLens) SetFieldOfView(float64)        {}

// tracer is the bubbletea model. It owns a rig and two scripted targets: a
// runner sweeping the arena and a lighter companion orbiting it.
type tracer struct {
	rig       *prefabs.Rig
	lens      *termLens
	runner    *geom.Marker
	companion *geom.Marker

	interval time.Duration
	dt       float64
	elapsed  float64
	paused   bool

	width, height int
	lastEvent     string
}

func newTracer(spec *prefabs.RigSpec, fps int) (*tracer, error) {
	if fps <= 0 {
		fps = 30
	}
	lens := &termLens{aspect: 80 / ((24 - statusRows) * cellAspect), size: 10}
	runner := geom.NewMarker(geom.Vec3{})
	rig, err := prefabs.NewRig(spec, lens, geom.Vec3{Z: -10})
	if err != nil {
		return nil, err
	}

	m := &tracer{
		rig:       rig,
		lens:      lens,
		runner:    runner,
		companion: geom.NewMarker(geom.Vec3{X: companionOrbit}),
		interval:  time.Second / time.Duration(fps),
		dt:        1 / float64(fps),
		width:     80,
		height:    24,
	}
	rig.Camera.AddTarget(m.runner, 1, 1, 0, cp.Vector{})
	rig.Camera.AddTarget(m.companion, companionWeight, companionWeight, 1, cp.Vector{})
	return m, nil
}

func (m *tracer) tick() tea.Cmd {
	return tea.Tick(m.interval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// Init implements tea.Model interface.
func (m *tracer) Init() tea.Cmd {
	return m.tick()
}

// Update implements tea.Model interface.
func (m *tracer) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case " ":
			m.paused = !m.paused
		case ".":
			if m.paused {
				m.advance()
			}
		case "r":
			m.rig.Camera.Reset(true)
		case "s":
			m.shake()
		case "+", "=":
			m.rig.Camera.Zoom(-zoomStep, zoomDuration, common.EaseOut)
		case "-":
			m.rig.Camera.Zoom(zoomStep, zoomDuration, common.EaseOut)
		}
	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)
	case tickMsg:
		if !m.paused {
			m.advance()
		}
		return m, m.tick()
	}
	return m, nil
}

func (m *tracer) resize(w, h int) {
	if w <= 0 || h <= statusRows {
		return
	}
	m.width, m.height = w, h
	m.lens.aspect = float64(w) / (float64(h-statusRows) * cellAspect)
	m.rig.Camera.RefreshScreenSize()
}

// advance moves the scripted targets and runs one camera tick.
func (m *tracer) advance() {
	m.elapsed += m.dt
	t := m.elapsed

	bounds := cp.BB{L: -30, B: -18, R: 30, T: 18}
	if b := m.rig.Boundaries; b != nil && b.Enabled {
		bounds = cp.BB{L: b.Left.Value, B: b.Bottom.Value, R: b.Right.Value, T: b.Top.Value}
	}
	cx, cy := (bounds.L+bounds.R)/2, (bounds.B+bounds.T)/2
	rx, ry := (bounds.R-bounds.L)*0.45, (bounds.T-bounds.B)*0.45

	p := geom.Vec3{X: cx + rx*math.Sin(0.3*t), Y: cy + ry*math.Sin(0.5*t)}
	m.runner.SetPosition(p)
	m.companion.SetPosition(p.Add(geom.Vec3{X: companionOrbit * math.Cos(t), Y: companionOrbit * math.Sin(t)}))

	cam := m.rig.Camera
	switch cam.Config().UpdateType {
	case camera.UpdateFixed:
		cam.FixedUpdate(m.dt)
	case camera.UpdateManual:
		cam.Move(m.dt)
	default:
		cam.LateUpdate(m.dt)
	}
	for _, evt := range cam.Events().Drain() {
		m.lastEvent = string(evt.Type)
	}
}

func (m *tracer) shake() {
	s, ok := m.rig.Script("shake")
	if !ok {
		m.lastEvent = "no shake script"
		return
	}
	if err := s.SetState("trauma", 1.0); err != nil {
		m.lastEvent = err.Error()
	}
}

// View implements tea.Model interface.
func (m *tracer) View() string {
	cam := m.rig.Camera
	g := newGrid(m.width, m.height-statusRows, cam.PlanarPosition(), cam.ScreenSize())

	g.fillGrid(gridStep, '.')
	if b := m.rig.Boundaries; b != nil && b.Enabled {
		if b.Left.Enabled {
			g.vline(b.Left.Value, '|')
		}
		if b.Right.Enabled {
			g.vline(b.Right.Value, '|')
		}
		if b.Bottom.Enabled {
			g.hline(b.Bottom.Value, '-')
		}
		if b.Top.Enabled {
			g.hline(b.Top.Value, '-')
		}
	}
	for _, z := range m.rig.Zones {
		if z.Center == nil {
			continue
		}
		ch := 'z'
		if z.Inside() {
			ch = 'Z'
		}
		g.ring(cam.Mapper().Planar(z.Center.Position()), z.Radius, ch)
	}
	g.put(cam.Mapper().Planar(m.companion.Position()), 'o')
	g.put(cam.Mapper().Planar(m.runner.Position()), '@')
	g.put(cam.TargetsMidPoint(), '+')
	g.put(cam.CameraTargetPosition(), 'x')

	var b strings.Builder
	b.WriteString(g.String())

	pos := cam.PlanarPosition()
	state := "running"
	if m.paused {
		state = "paused"
	}
	fmt.Fprintf(&b, "\npos %7.2f %7.2f  half %5.2f  t %6.1fs  %s", pos.X, pos.Y, cam.HalfSize(), m.elapsed, state)
	if m.lastEvent != "" {
		fmt.Fprintf(&b, "  [%s]", m.lastEvent)
	}
	b.WriteString("\nq quit  space pause  . step  r reset  s shake  +/- zoom")
	return b.String()
}
