package obj

import (
	"math"
	"math/rand/v2"

	"github.com/jakecoffman/cp"
)

const (
	collisionTypePlayer cp.CollisionType = iota + 1
	collisionTypeBall
	collisionTypeWall
)

const (
	playerRadius   = 0.8
	playerAccel    = 40
	playerMaxSpeed = 12
	playerJump     = 14
	ballElasticity = 0.9
	// impactSpeed is the relative speed above which a hit on the player
	// counts as an impact.
	impactSpeed = 8
)

// Arena is a walled chipmunk space with a steerable player and bouncing
// balls. It is the world the demo camera follows.
type Arena struct {
	space *cp.Space
	bb    cp.BB

	player *cp.Body
	balls  []*cp.Body

	// impact is the strongest player hit since the last TakeImpact, as a
	// fraction of impactSpeed above the threshold.
	impact float64
}

// NewArena builds a closed box spanning bb with gravity pointing down.
func NewArena(bb cp.BB, gravity float64) *Arena {
	space := cp.NewSpace()
	space.Iterations = 20
	space.SetGravity(cp.Vector{X: 0, Y: -gravity})
	a := &Arena{space: space, bb: bb}
	a.buildWalls()
	a.addPlayer(cp.Vector{X: (bb.L + bb.R) / 2, Y: bb.B + 2})
	a.setupHandlers()
	return a
}

func (a *Arena) buildWalls() {
	const thickness = 0.5
	bb := a.bb
	segments := []struct {
		a cp.Vector
		b cp.Vector
	}{
		{a: cp.Vector{X: bb.L, Y: bb.T}, b: cp.Vector{X: bb.R, Y: bb.T}}, // top
		{a: cp.Vector{X: bb.L, Y: bb.B}, b: cp.Vector{X: bb.R, Y: bb.B}}, // bottom
		{a: cp.Vector{X: bb.L, Y: bb.B}, b: cp.Vector{X: bb.L, Y: bb.T}}, // left
		{a: cp.Vector{X: bb.R, Y: bb.B}, b: cp.Vector{X: bb.R, Y: bb.T}}, // right
	}
	for _, seg := range segments {
		shape := cp.NewSegment(a.space.StaticBody, seg.a, seg.b, thickness)
		shape.SetFriction(0.8)
		shape.SetElasticity(0.8)
		shape.SetCollisionType(collisionTypeWall)
		a.space.AddShape(shape)
	}

	// a few ledges so the player has something to climb
	w := bb.R - bb.L
	h := bb.T - bb.B
	for i, f := range []float64{0.2, 0.5, 0.8} {
		cx := bb.L + w*f
		cy := bb.B + h*(0.2+0.2*float64(i%2))
		ledge := cp.BB{L: cx - w*0.06, B: cy - 0.25, R: cx + w*0.06, T: cy + 0.25}
		shape := cp.NewBox2(a.space.StaticBody, ledge, 0)
		shape.SetFriction(0.8)
		shape.SetCollisionType(collisionTypeWall)
		a.space.AddShape(shape)
	}
}

func (a *Arena) addPlayer(pos cp.Vector) {
	mass := 1.0
	body := cp.NewBody(mass, cp.MomentForCircle(mass, 0, playerRadius, cp.Vector{}))
	body.SetPosition(pos)
	shape := cp.NewCircle(body, playerRadius, cp.Vector{})
	shape.SetFriction(0.6)
	shape.SetElasticity(0.2)
	shape.SetCollisionType(collisionTypePlayer)
	a.space.AddBody(body)
	a.space.AddShape(shape)
	a.player = body
}

func (a *Arena) setupHandlers() {
	handler := a.space.NewCollisionHandler(collisionTypePlayer, collisionTypeBall)
	handler.BeginFunc = func(arb *cp.Arbiter, space *cp.Space, userData interface{}) bool {
		ba, bb := arb.Bodies()
		speed := ba.Velocity().Sub(bb.Velocity()).Length()
		if speed > impactSpeed {
			a.impact = max(a.impact, math.Min((speed-impactSpeed)/impactSpeed, 1))
		}
		return true
	}
}

// AddBall drops a ball at pos with a random kick.
func (a *Arena) AddBall(pos cp.Vector, radius float64) *cp.Body {
	mass := radius * radius
	body := cp.NewBody(mass, cp.MomentForCircle(mass, 0, radius, cp.Vector{}))
	body.SetPosition(pos)
	body.SetVelocity((rand.Float64()*2-1)*12, rand.Float64()*8)
	shape := cp.NewCircle(body, radius, cp.Vector{})
	shape.SetFriction(0.4)
	shape.SetElasticity(ballElasticity)
	shape.SetCollisionType(collisionTypeBall)
	a.space.AddBody(body)
	a.space.AddShape(shape)
	a.balls = append(a.balls, body)
	return body
}

// RemoveBall removes the most recently added ball.
func (a *Arena) RemoveBall() (*cp.Body, bool) {
	if len(a.balls) == 0 {
		return nil, false
	}
	body := a.balls[len(a.balls)-1]
	a.balls = a.balls[:len(a.balls)-1]
	var shapes []*cp.Shape
	body.EachShape(func(s *cp.Shape) {
		shapes = append(shapes, s)
	})
	for _, s := range shapes {
		a.space.RemoveShape(s)
	}
	a.space.RemoveBody(body)
	return body, true
}

func (a *Arena) Balls() []*cp.Body { return a.balls }

func (a *Arena) Player() *cp.Body { return a.player }

func (a *Arena) Bounds() cp.BB { return a.bb }

// Steer pushes the player; jump adds an upward kick.
func (a *Arena) Steer(move cp.Vector, jump bool, dt float64) {
	v := a.player.Velocity()
	v.X += move.X * playerAccel * dt
	v.Y += move.Y * playerAccel * 0.5 * dt
	v.X = math.Max(-playerMaxSpeed, math.Min(v.X, playerMaxSpeed))
	if jump {
		v.Y = playerJump
	}
	a.player.SetVelocityVector(v)
}

func (a *Arena) Step(dt float64) {
	a.space.Step(dt)
}

// TakeImpact returns and clears the strongest player hit since the last call.
func (a *Arena) TakeImpact() float64 {
	v := a.impact
	a.impact = 0
	return v
}
