package obj

import (
	"math"
	"os"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/jakecoffman/cp"
	"github.com/milk9111/followcam/ext"
)

const (
	// wheelZoomScale converts one wheel notch to a pan/zoom delta.
	wheelZoomScale = 0.5
	// pinchZoomScale converts the change in pinch distance, as a fraction
	// of the screen diagonal, to a pan/zoom delta.
	pinchZoomScale = 20
	stickDeadZone  = 0.3
)

// Input polls ebiten once per frame for the demo controls and the pan/zoom
// and pointer feeds.
type Input struct {
	// Move is the player steering in [-1,1] on both axes, y up.
	Move cp.Vector
	// JumpPressed is true on the frame the jump key is pressed.
	JumpPressed bool

	ResetPressed  bool
	CopyPressed   bool
	ShakePressed  bool
	PanelToggled  bool
	AddPressed    bool
	RemovePressed bool

	// Pointer is the cursor in normalized viewport coordinates.
	Pointer cp.Vector
	// PointerWorld is the cursor in world units.
	PointerWorld cp.Vector
	PanZoom      ext.PanZoomInput

	camera    *Camera
	touches   []ebiten.TouchID
	pinchDist float64
}

func NewInput(camera *Camera) *Input {
	return &Input{camera: camera, Pointer: cp.Vector{X: 0.5, Y: 0.5}}
}

// Update polls the keyboard, mouse, touches and first gamepad.
func (i *Input) Update() {
	if inpututil.IsKeyJustPressed(ebiten.KeyF12) {
		os.Exit(0)
	}

	var move cp.Vector
	if ebiten.IsKeyPressed(ebiten.KeyA) || ebiten.IsKeyPressed(ebiten.KeyLeft) {
		move.X -= 1
	}
	if ebiten.IsKeyPressed(ebiten.KeyD) || ebiten.IsKeyPressed(ebiten.KeyRight) {
		move.X += 1
	}
	if ebiten.IsKeyPressed(ebiten.KeyS) || ebiten.IsKeyPressed(ebiten.KeyDown) {
		move.Y -= 1
	}
	if ebiten.IsKeyPressed(ebiten.KeyW) || ebiten.IsKeyPressed(ebiten.KeyUp) {
		move.Y += 1
	}

	gpJump := false
	if ids := ebiten.AppendGamepadIDs(nil); len(ids) > 0 {
		gid := ids[0]
		lx := ebiten.StandardGamepadAxisValue(gid, ebiten.StandardGamepadAxisLeftStickHorizontal)
		ly := ebiten.StandardGamepadAxisValue(gid, ebiten.StandardGamepadAxisLeftStickVertical)
		if math.Abs(lx) > stickDeadZone {
			move.X = lx
		}
		if math.Abs(ly) > stickDeadZone {
			move.Y = -ly
		}
		gpJump = inpututil.IsStandardGamepadButtonJustPressed(gid, ebiten.StandardGamepadButtonRightBottom)
	}

	i.Move = move
	i.JumpPressed = inpututil.IsKeyJustPressed(ebiten.KeySpace) || gpJump
	i.ResetPressed = inpututil.IsKeyJustPressed(ebiten.KeyR)
	i.CopyPressed = inpututil.IsKeyJustPressed(ebiten.KeyC)
	i.ShakePressed = inpututil.IsKeyJustPressed(ebiten.KeyK)
	i.PanelToggled = inpututil.IsKeyJustPressed(ebiten.KeyTab)
	i.AddPressed = inpututil.IsKeyJustPressed(ebiten.KeyB)
	i.RemovePressed = inpututil.IsKeyJustPressed(ebiten.KeyN)

	i.updatePointer()
}

func (i *Input) updatePointer() {
	w, h := i.camera.ScreenSize()
	var in ext.PanZoomInput

	i.touches = ebiten.AppendTouchIDs(i.touches[:0])
	switch len(i.touches) {
	case 0:
		i.pinchDist = 0
		mx, my := ebiten.CursorPosition()
		x, y := float64(mx), float64(my)
		i.Pointer = i.camera.Viewport(x, y)
		in.Hovering = ebiten.IsFocused() && mx >= 0 && my >= 0 && mx < w && my < h
		in.DragStarted = inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft)
		in.Dragging = ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft)
		if _, wy := ebiten.Wheel(); wy != 0 {
			// wheel up zooms in, which shrinks the view
			in.ZoomDelta = -wy * wheelZoomScale
		}
	case 1:
		i.pinchDist = 0
		tx, ty := ebiten.TouchPosition(i.touches[0])
		i.Pointer = i.camera.Viewport(float64(tx), float64(ty))
		in.Hovering = true
		in.DragStarted = inpututil.TouchPressDuration(i.touches[0]) == 1
		in.Dragging = true
	default:
		ax, ay := ebiten.TouchPosition(i.touches[0])
		bx, by := ebiten.TouchPosition(i.touches[1])
		mid := cp.Vector{X: float64(ax+bx) / 2, Y: float64(ay+by) / 2}
		dist := math.Hypot(float64(ax-bx), float64(ay-by))
		diag := math.Hypot(float64(w), float64(h))
		if i.pinchDist > 0 && diag > 0 {
			// fingers apart zooms in
			in.ZoomDelta = -(dist - i.pinchDist) / diag * pinchZoomScale
		}
		i.pinchDist = dist
		i.Pointer = i.camera.Viewport(mid.X, mid.Y)
		in.Pinching = true
		in.Hovering = true
	}

	in.Pointer = i.Pointer
	in.ZoomPoint = i.Pointer
	i.PanZoom = in

	sx := i.Pointer.X * float64(w)
	sy := (1 - i.Pointer.Y) * float64(h)
	i.PointerWorld = i.camera.ScreenToWorld(sx, sy)
}
