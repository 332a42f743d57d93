package obj

import (
	"github.com/jakecoffman/cp"
	"github.com/milk9111/followcam/geom"
)

// BodyTarget lets the camera follow a chipmunk body on the XY plane.
type BodyTarget struct {
	Body *cp.Body
}

func (b BodyTarget) Position() geom.Vec3 {
	if b.Body == nil {
		return geom.Vec3{}
	}
	p := b.Body.Position()
	return geom.Vec3{X: p.X, Y: p.Y}
}
