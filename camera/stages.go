package camera

import "github.com/jakecoffman/cp"

// Stage capabilities. Positions and deltas are in the camera's
// (horizontal, vertical) plane; sizes are viewport half-heights in world
// units.

type PreMover interface {
	PreMove(dt float64)
}

type PositionDeltaChanger interface {
	AdjustDelta(dt float64, delta cp.Vector) cp.Vector
}

type PositionOverrider interface {
	OverridePosition(dt float64, pos cp.Vector) cp.Vector
}

type SizeDeltaChanger interface {
	AdjustSize(dt float64, delta float64) float64
}

type SizeOverrider interface {
	OverrideSize(dt float64, size float64) float64
}

type PostMover interface {
	PostMove(dt float64)
}

// Resetter is notified by Camera.Reset.
type Resetter interface {
	OnReset()
}

// Default order keys used by the bundled extensions. Lower runs first.
const (
	OrderPanZoomPreMove   = 0
	OrderPanZoomSize      = 0
	OrderSpeedZoom        = 1000
	OrderBoundariesSize   = 2000
	OrderPointerInfluence = 3000
	OrderInfluenceZone    = 3500
	OrderBoundariesDelta  = 4000
)

// Pipeline holds the six ordered stage registries.
type Pipeline struct {
	PreMovers             *Registry[PreMover]
	PositionDeltaChangers *Registry[PositionDeltaChanger]
	PositionOverriders    *Registry[PositionOverrider]
	SizeDeltaChangers     *Registry[SizeDeltaChanger]
	SizeOverriders        *Registry[SizeOverrider]
	PostMovers            *Registry[PostMover]
}

func NewPipeline() *Pipeline {
	return &Pipeline{
		PreMovers:             NewRegistry[PreMover](),
		PositionDeltaChangers: NewRegistry[PositionDeltaChanger](),
		PositionOverriders:    NewRegistry[PositionOverrider](),
		SizeDeltaChangers:     NewRegistry[SizeDeltaChanger](),
		SizeOverriders:        NewRegistry[SizeOverrider](),
		PostMovers:            NewRegistry[PostMover](),
	}
}

// SortAll re-sorts every registry by its current order keys.
func (p *Pipeline) SortAll() {
	p.PreMovers.Sort()
	p.PositionDeltaChangers.Sort()
	p.PositionOverriders.Sort()
	p.SizeDeltaChangers.Sort()
	p.SizeOverriders.Sort()
	p.PostMovers.Sort()
}
