package geom

import (
	"errors"
	"fmt"
	"strings"

	"github.com/jakecoffman/cp"
)

var ErrUnknownAxis = errors.New("geom: unknown movement axis")

// Vec3 is a world-space point or displacement.
type Vec3 struct {
	X, Y, Z float64
}

func (v Vec3) Add(o Vec3) Vec3 {
	return Vec3{v.X + o.X, v.Y + o.Y, v.Z + o.Z}
}

func (v Vec3) Sub(o Vec3) Vec3 {
	return Vec3{v.X - o.X, v.Y - o.Y, v.Z - o.Z}
}

func (v Vec3) Scale(s float64) Vec3 {
	return Vec3{v.X * s, v.Y * s, v.Z * s}
}

// Axis names the world plane the camera moves on. The remaining world axis
// is depth.
type Axis int

const (
	AxisXY Axis = iota
	AxisXZ
	AxisYZ
)

func (a Axis) String() string {
	switch a {
	case AxisXZ:
		return "xz"
	case AxisYZ:
		return "yz"
	default:
		return "xy"
	}
}

func ParseAxis(s string) (Axis, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "xy":
		return AxisXY, nil
	case "xz":
		return AxisXZ, nil
	case "yz":
		return AxisYZ, nil
	}
	return AxisXY, fmt.Errorf("%w: %q", ErrUnknownAxis, s)
}

// Mapper converts between world vectors and the camera's
// (horizontal, vertical, depth) basis. The accessors are bound once by
// NewMapper.
type Mapper struct {
	axis Axis

	h   func(Vec3) float64
	v   func(Vec3) float64
	d   func(Vec3) float64
	hvd func(h, v, d float64) Vec3
}

func NewMapper(a Axis) Mapper {
	m := Mapper{axis: a}
	switch a {
	case AxisXZ:
		m.h = func(p Vec3) float64 { return p.X }
		m.v = func(p Vec3) float64 { return p.Z }
		m.d = func(p Vec3) float64 { return p.Y }
		m.hvd = func(h, v, d float64) Vec3 { return Vec3{h, d, v} }
	case AxisYZ:
		m.h = func(p Vec3) float64 { return p.Z }
		m.v = func(p Vec3) float64 { return p.Y }
		m.d = func(p Vec3) float64 { return p.X }
		m.hvd = func(h, v, d float64) Vec3 { return Vec3{d, v, h} }
	default:
		m.axis = AxisXY
		m.h = func(p Vec3) float64 { return p.X }
		m.v = func(p Vec3) float64 { return p.Y }
		m.d = func(p Vec3) float64 { return p.Z }
		m.hvd = func(h, v, d float64) Vec3 { return Vec3{h, v, d} }
	}
	return m
}

func (m Mapper) Axis() Axis { return m.axis }

func (m Mapper) H(p Vec3) float64 { return m.h(p) }

func (m Mapper) V(p Vec3) float64 { return m.v(p) }

func (m Mapper) D(p Vec3) float64 { return m.d(p) }

// HV builds a world vector with zero depth.
func (m Mapper) HV(h, v float64) Vec3 { return m.hvd(h, v, 0) }

func (m Mapper) HVD(h, v, d float64) Vec3 { return m.hvd(h, v, d) }

// Planar drops depth and returns (H, V).
func (m Mapper) Planar(p Vec3) cp.Vector {
	return cp.Vector{X: m.h(p), Y: m.v(p)}
}

func (m Mapper) FromPlanar(p cp.Vector, depth float64) Vec3 {
	return m.hvd(p.X, p.Y, depth)
}
