package obj

import (
	"testing"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/followcam/geom"
)

func TestArenaKeepsBodiesInside(t *testing.T) {
	bb := cp.BB{L: -20, B: -10, R: 20, T: 10}
	a := NewArena(bb, 20)
	for i := 0; i < 5; i++ {
		a.AddBall(cp.Vector{X: float64(i*4 - 8), Y: 5}, 0.5)
	}
	if len(a.Balls()) != 5 {
		t.Fatalf("expected 5 balls, got %d", len(a.Balls()))
	}

	start := a.Player().Position()
	for i := 0; i < 240; i++ {
		a.Steer(cp.Vector{X: 1}, i == 0, 1.0/60)
		a.Step(1.0 / 60)
	}
	if a.Player().Position().X <= start.X {
		t.Fatalf("player did not move right: %v -> %v", start, a.Player().Position())
	}
	for _, b := range append(a.Balls(), a.Player()) {
		if !bb.ContainsVect(b.Position()) {
			t.Fatalf("body escaped the arena: %v", b.Position())
		}
	}

	if _, ok := a.RemoveBall(); !ok || len(a.Balls()) != 4 {
		t.Fatalf("RemoveBall failed, %d balls left", len(a.Balls()))
	}
	a.Step(1.0 / 60)
}

func TestBodyTarget(t *testing.T) {
	body := cp.NewBody(1, 1)
	body.SetPosition(cp.Vector{X: 2, Y: -3})
	if got := (BodyTarget{Body: body}).Position(); got != (geom.Vec3{X: 2, Y: -3}) {
		t.Fatalf("unexpected position %v", got)
	}
	if got := (BodyTarget{}).Position(); got != (geom.Vec3{}) {
		t.Fatalf("nil body should report the origin, got %v", got)
	}
	if (BodyTarget{Body: body}) != (BodyTarget{Body: body}) {
		t.Fatalf("targets for the same body must compare equal")
	}
}
