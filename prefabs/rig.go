package prefabs

import (
	"errors"
	"fmt"

	"github.com/milk9111/followcam/camera"
	"github.com/milk9111/followcam/ext"
	"github.com/milk9111/followcam/geom"
)

var ErrNilSpec = errors.New("prefabs: nil rig spec")

// Rig is a camera with the extensions a RigSpec asks for.
type Rig struct {
	Spec   *RigSpec
	Camera *camera.Camera

	Boundaries *ext.NumericBoundaries
	PanZoom    *ext.PanAndZoom
	Pointer    *ext.PointerInfluence
	SpeedZoom  *ext.SpeedBasedZoom
	Zones      []*ext.InfluenceZone
	Scripts    []*ext.Script
}

// NewRig builds the camera at start and attaches the spec's extensions. A
// positive camera half_height is pushed into an orthographic lens first so it
// becomes the camera's start size.
func NewRig(spec *RigSpec, lens camera.Lens, start geom.Vec3) (*Rig, error) {
	if spec == nil {
		return nil, ErrNilSpec
	}
	cfg, err := spec.Camera.Config()
	if err != nil {
		return nil, fmt.Errorf("prefabs: rig %s: %w", spec.Name, err)
	}
	if lens != nil && lens.Orthographic() && spec.Camera.HalfHeight > 0 {
		lens.SetOrthographicSize(spec.Camera.HalfHeight)
	}
	cam, err := camera.New(cfg, lens, start)
	if err != nil {
		return nil, fmt.Errorf("prefabs: rig %s: %w", spec.Name, err)
	}

	r := &Rig{Camera: cam}
	if err := r.Apply(spec); err != nil {
		r.Close()
		return nil, err
	}
	return r, nil
}

// Apply retunes a running rig. Sections added to the spec attach their
// extension, sections removed detach it, and the rest keep their runtime
// state and only take the new tunables. Zones and scripts are rebuilt.
func (r *Rig) Apply(spec *RigSpec) error {
	if spec == nil {
		return ErrNilSpec
	}
	wrap := func(err error) error {
		return fmt.Errorf("prefabs: rig %s: %w", spec.Name, err)
	}

	cfg, err := spec.Camera.Config()
	if err != nil {
		return wrap(err)
	}
	if err := r.Camera.SetConfig(cfg); err != nil {
		return wrap(err)
	}

	if err := r.applyBoundaries(spec.Boundaries); err != nil {
		return wrap(err)
	}
	if err := r.applyPanZoom(spec.PanZoom); err != nil {
		return wrap(err)
	}
	if err := r.applyPointer(spec.PointerInfluence); err != nil {
		return wrap(err)
	}
	if err := r.applySpeedZoom(spec.SpeedZoom); err != nil {
		return wrap(err)
	}
	if err := r.applyScripts(spec.Scripts); err != nil {
		return wrap(err)
	}
	if err := r.applyZones(spec.Zones); err != nil {
		return wrap(err)
	}

	r.Spec = spec
	return nil
}

func (r *Rig) applyBoundaries(spec *BoundariesSpec) error {
	if spec == nil {
		if r.Boundaries != nil {
			r.Boundaries.Detach()
			r.Boundaries = nil
		}
		return nil
	}
	if r.Boundaries == nil {
		b, err := ext.NewNumericBoundaries(r.Camera, ext.Limits{})
		if err != nil {
			return err
		}
		r.Boundaries = b
	}
	return spec.apply(r.Boundaries)
}

func (r *Rig) applyPanZoom(spec *PanZoomSpec) error {
	if spec == nil {
		if r.PanZoom != nil {
			r.PanZoom.Detach()
			r.PanZoom = nil
		}
		return nil
	}
	if r.PanZoom == nil {
		p, err := ext.NewPanAndZoom(r.Camera)
		if err != nil {
			return err
		}
		r.PanZoom = p
	}
	return spec.apply(r.PanZoom)
}

func (r *Rig) applyPointer(spec *PointerInfluenceSpec) error {
	if spec == nil {
		if r.Pointer != nil {
			r.Pointer.Detach()
			r.Pointer = nil
		}
		return nil
	}
	if r.Pointer == nil {
		p, err := ext.NewPointerInfluence(r.Camera)
		if err != nil {
			return err
		}
		r.Pointer = p
	}
	spec.apply(r.Pointer)
	return nil
}

func (r *Rig) applySpeedZoom(spec *SpeedZoomSpec) error {
	if spec == nil {
		if r.SpeedZoom != nil {
			r.SpeedZoom.Detach()
			r.SpeedZoom = nil
		}
		return nil
	}
	if r.SpeedZoom == nil {
		z, err := ext.NewSpeedBasedZoom(r.Camera)
		if err != nil {
			return err
		}
		r.SpeedZoom = z
	}
	spec.apply(r.SpeedZoom)
	return nil
}

func (r *Rig) applyZones(specs []ZoneSpec) error {
	for _, z := range r.Zones {
		z.Detach()
	}
	r.Zones = r.Zones[:0]

	m := r.Camera.Mapper()
	for i, spec := range specs {
		if !(spec.Radius > 0) {
			return fmt.Errorf("zone %d: radius %v", i, spec.Radius)
		}
		center := geom.NewMarker(m.HV(spec.Center.X, spec.Center.Y))
		z, err := ext.NewInfluenceZone(r.Camera, center, spec.Radius)
		if err != nil {
			return err
		}
		if spec.Focus != nil {
			z.Focus = geom.NewMarker(m.HV(spec.Focus.X, spec.Focus.Y))
		}
		setPositive(&z.ExclusivePercentage, spec.Exclusive)
		setPositive(&z.Smoothness, spec.Smoothness)
		r.Zones = append(r.Zones, z)
	}
	return nil
}

// applyScripts compiles the new set before dropping the old one, so a script
// with a syntax error leaves the running scripts in place.
func (r *Rig) applyScripts(specs []ScriptSpec) error {
	var next []*ext.Script
	for _, spec := range specs {
		src, err := LoadScript(spec.Path)
		if err != nil {
			for _, s := range next {
				s.Detach()
			}
			return fmt.Errorf("script %s: %w", spec.Path, err)
		}
		name := spec.Name
		if name == "" {
			name = spec.Path
		}
		s, err := ext.NewScript(r.Camera, name, src, spec.Order)
		if err != nil {
			for _, s := range next {
				s.Detach()
			}
			return err
		}
		next = append(next, s)
	}

	for _, s := range r.Scripts {
		s.Detach()
	}
	r.Scripts = next
	return nil
}

// Script finds an attached script by name.
func (r *Rig) Script(name string) (*ext.Script, bool) {
	for _, s := range r.Scripts {
		if s.Name == name {
			return s, true
		}
	}
	return nil, false
}

// Close detaches every extension. The camera and its targets are left alone.
func (r *Rig) Close() {
	if r.Boundaries != nil {
		r.Boundaries.Detach()
		r.Boundaries = nil
	}
	if r.PanZoom != nil {
		r.PanZoom.Detach()
		r.PanZoom = nil
	}
	if r.Pointer != nil {
		r.Pointer.Detach()
		r.Pointer = nil
	}
	if r.SpeedZoom != nil {
		r.SpeedZoom.Detach()
		r.SpeedZoom = nil
	}
	for _, z := range r.Zones {
		z.Detach()
	}
	r.Zones = nil
	for _, s := range r.Scripts {
		s.Detach()
	}
	r.Scripts = nil
}
