package geom

// Positioner is anything the camera can follow.
type Positioner interface {
	Position() Vec3
}

// PositionFunc adapts a function to Positioner.
type PositionFunc func() Vec3

func (f PositionFunc) Position() Vec3 { return f() }

// Marker is a free-standing settable point.
type Marker struct {
	pos Vec3
}

func NewMarker(p Vec3) *Marker {
	return &Marker{pos: p}
}

func (m *Marker) Position() Vec3 {
	if m == nil {
		return Vec3{}
	}
	return m.pos
}

func (m *Marker) SetPosition(p Vec3) {
	if m == nil {
		return
	}
	m.pos = p
}

func (m *Marker) Translate(d Vec3) {
	if m == nil {
		return
	}
	m.pos = m.pos.Add(d)
}
