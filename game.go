package main

import (
	"fmt"
	"log"
	"math/rand/v2"

	"github.com/ebitenui/ebitenui"
	"github.com/ebitenui/ebitenui/widget"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/jakecoffman/cp"
	"github.com/milk9111/followcam/camera"
	"github.com/milk9111/followcam/geom"
	"github.com/milk9111/followcam/obj"
	"github.com/milk9111/followcam/prefabs"
	"golang.design/x/clipboard"
)

const (
	baseWidth  = 1280
	baseHeight = 720

	gravity       = 30
	ballRadius    = 0.6
	ballInfluence = 0.25
	targetFade    = 0.5
	statusFrames  = 180
)

// arenaBounds matches the boundaries in prefabs/camera.yaml.
var arenaBounds = cp.BB{L: -40, B: -25, R: 40, T: 25}

type GameOptions struct {
	Rig   string
	Balls int
	Debug bool
	Watch bool
}

type Game struct {
	frames int
	opts   GameOptions

	lens  *obj.Camera
	rig   *prefabs.Rig
	arena *obj.Arena
	input *obj.Input

	watcher   *prefabs.Watcher
	clipboard bool

	ui        *ebitenui.UI
	panelText *widget.Text
	showPanel bool

	status      string
	statusTimer int
}

func NewGame(opts GameOptions) (*Game, error) {
	spec, err := prefabs.LoadRigSpec(opts.Rig)
	if err != nil {
		return nil, err
	}

	arena := obj.NewArena(arenaBounds, gravity)
	lens := obj.NewCamera(baseWidth, baseHeight, 12)
	start := arena.Player().Position()
	rig, err := prefabs.NewRig(spec, lens, geom.Vec3{X: start.X, Y: start.Y, Z: -10})
	if err != nil {
		return nil, err
	}

	g := &Game{
		opts:      opts,
		lens:      lens,
		rig:       rig,
		arena:     arena,
		input:     obj.NewInput(lens),
		showPanel: true,
	}

	rig.Camera.AddTarget(obj.BodyTarget{Body: arena.Player()}, 1, 1, 0, cp.Vector{})
	for i := 0; i < opts.Balls; i++ {
		g.addBall()
	}

	if opts.Watch {
		if w, err := prefabs.NewWatcher(); err != nil {
			log.Printf("watch %s: %v (hot reload disabled)", prefabs.Dir, err)
		} else {
			g.watcher = w
		}
	}

	if err := clipboard.Init(); err != nil {
		log.Printf("clipboard unavailable: %v", err)
	} else {
		g.clipboard = true
	}

	g.ui, g.panelText = NewPanelUI(g)
	lens.LookAt(rig.Camera.PlanarPosition())
	return g, nil
}

func (g *Game) Close() {
	if g.watcher != nil {
		_ = g.watcher.Close()
	}
	g.rig.Close()
}

func (g *Game) Update() error {
	g.frames++
	dt := 1 / float64(ebiten.TPS())

	g.input.Update()
	g.drainWatcher()

	if g.input.PanelToggled {
		g.showPanel = !g.showPanel
	}
	if g.input.ResetPressed {
		g.resetCamera()
	}
	if g.input.ShakePressed {
		g.shake(1)
	}
	if g.input.CopyPressed {
		g.copyState()
	}
	if g.input.AddPressed {
		g.addBall()
	}
	if g.input.RemovePressed {
		g.removeBall()
	}

	g.arena.Steer(g.input.Move, g.input.JumpPressed, dt)
	g.arena.Step(dt)
	if impact := g.arena.TakeImpact(); impact > 0 {
		g.shake(impact)
	}

	if pz := g.rig.PanZoom; pz != nil {
		pz.SetInput(g.input.PanZoom)
	}
	if p := g.rig.Pointer; p != nil {
		p.SetPointer(g.input.Pointer)
	}

	cam := g.rig.Camera
	switch cam.Config().UpdateType {
	case camera.UpdateFixed:
		cam.FixedUpdate(dt)
	case camera.UpdateManual:
		cam.Move(dt)
	default:
		cam.LateUpdate(dt)
	}
	g.lens.LookAt(cam.PlanarPosition())

	for _, evt := range cam.Events().Drain() {
		g.setStatus(fmt.Sprintf("event: %s", evt.Type))
	}
	if g.statusTimer > 0 {
		g.statusTimer--
	}

	if g.showPanel {
		g.panelText.Label = panelSummary(cam, len(g.arena.Balls()))
		g.ui.Update()
	}
	return nil
}

func (g *Game) drainWatcher() {
	if g.watcher == nil {
		return
	}
	for {
		select {
		case path, ok := <-g.watcher.Events:
			if !ok {
				g.watcher = nil
				return
			}
			g.reload(path)
		case err, ok := <-g.watcher.Errors:
			if ok {
				log.Printf("watch: %v", err)
			}
		default:
			return
		}
	}
}

// reload re-reads the rig spec when it or one of its scripts changed.
func (g *Game) reload(path string) {
	name := prefabs.Name(path)
	if prefabs.IsSpecFile(path) && name != prefabs.Name(g.opts.Rig) {
		return
	}
	spec, err := prefabs.LoadRigSpec(g.opts.Rig)
	if err != nil {
		g.setStatus(err.Error())
		log.Printf("reload %s: %v", name, err)
		return
	}
	if err := g.rig.Apply(spec); err != nil {
		g.setStatus(err.Error())
		log.Printf("reload %s: %v", name, err)
		return
	}
	g.setStatus("reloaded " + name)
}

func (g *Game) addBall() {
	bb := g.arena.Bounds()
	pos := cp.Vector{
		X: bb.L + 2 + rand.Float64()*(bb.R-bb.L-4),
		Y: bb.T - 2,
	}
	body := g.arena.AddBall(pos, ballRadius)
	g.rig.Camera.AddTarget(obj.BodyTarget{Body: body}, ballInfluence, ballInfluence, targetFade, cp.Vector{})
}

func (g *Game) removeBall() {
	body, ok := g.arena.RemoveBall()
	if !ok {
		return
	}
	// the body is out of the space but keeps its last position while the
	// target fades
	g.rig.Camera.RemoveTarget(obj.BodyTarget{Body: body}, targetFade)
}

func (g *Game) resetCamera() {
	g.rig.Camera.Reset(true)
	g.lens.LookAt(g.rig.Camera.PlanarPosition())
}

func (g *Game) shake(trauma float64) {
	s, ok := g.rig.Script("shake")
	if !ok {
		return
	}
	current := 0.0
	if v, ok := s.State()["trauma"].(float64); ok {
		current = v
	}
	if err := s.SetState("trauma", min(current+trauma, 1)); err != nil {
		log.Printf("shake: %v", err)
	}
}

func (g *Game) copyState() {
	if !g.clipboard {
		g.setStatus("clipboard unavailable")
		return
	}
	data, err := marshalState(g.rig.Camera)
	if err != nil {
		g.setStatus(err.Error())
		return
	}
	clipboard.Write(clipboard.FmtText, data)
	g.setStatus("camera state copied")
}

func (g *Game) setStatus(s string) {
	g.status = s
	g.statusTimer = statusFrames
}

func (g *Game) Draw(screen *ebiten.Image) {
	g.lens.Render(screen, func(world *ebiten.Image) {
		g.drawWorld(world)
	})

	msg := fmt.Sprintf("Frames: %d    FPS: %.2f", g.frames, ebiten.ActualFPS())
	if g.statusTimer > 0 {
		msg += "\n" + g.status
	}
	ebitenutil.DebugPrint(screen, msg)

	if g.showPanel {
		g.ui.Draw(screen)
	}
}

func (g *Game) LayoutF(outsideWidth, outsideHeight float64) (float64, float64) {
	return baseWidth, baseHeight
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	panic("shouldn't use Layout")
}
