package ext

import (
	"fmt"
	"log"
	"strings"

	"github.com/d5/tengo/v2"
	"github.com/d5/tengo/v2/stdlib"
	"github.com/jakecoffman/cp"
	"github.com/milk9111/followcam/camera"
)

// Script phases. A script defines any subset of these functions:
//
//	pre_move(cam, state, dt)
//	adjust_delta(cam, state, dt, [h, v]) -> [h, v]
//	override_position(cam, state, dt, [h, v]) -> [h, v]
//	adjust_size(cam, state, dt, delta) -> delta
//	override_size(cam, state, dt, size) -> size
//	post_move(cam, state, dt)
const (
	PhasePreMove          = "pre_move"
	PhaseAdjustDelta      = "adjust_delta"
	PhaseOverridePosition = "override_position"
	PhaseAdjustSize       = "adjust_size"
	PhaseOverrideSize     = "override_size"
	PhasePostMove         = "post_move"
)

var scriptPhases = []string{
	PhasePreMove,
	PhaseAdjustDelta,
	PhaseOverridePosition,
	PhaseAdjustSize,
	PhaseOverrideSize,
	PhasePostMove,
}

// Script is a camera stage implemented in tengo. Only the phases the script
// defines are registered. A phase that fails at runtime passes its input
// through and is reported once.
type Script struct {
	Name  string
	Order int

	cam      *camera.Camera
	compiled *tengo.Compiled
	state    *tengo.Map
	api      *tengo.ImmutableMap
	defined  map[string]bool
	reported map[string]bool
	attached bool
}

// NewScript compiles src and attaches the phases it defines to cam.
func NewScript(cam *camera.Camera, name string, src []byte, order int) (*Script, error) {
	if cam == nil {
		return nil, ErrNoCamera
	}

	defined, err := definedPhases(src)
	if err != nil {
		return nil, fmt.Errorf("ext: script %s: %w", name, err)
	}

	script := tengo.NewScript([]byte(string(src) + "\n" + dispatchSource(defined)))
	_ = script.Add("__phase", "")
	_ = script.Add("__camera", map[string]any{})
	_ = script.Add("__state", map[string]any{})
	_ = script.Add("__dt", 0.0)
	_ = script.Add("__in", nil)
	_ = script.Add("__out", nil)
	script.SetImports(stdlib.GetModuleMap(stdlib.AllModuleNames()...))

	compiled, err := script.Compile()
	if err != nil {
		return nil, fmt.Errorf("ext: script %s: %w", name, err)
	}

	s := &Script{
		Name:     name,
		Order:    order,
		cam:      cam,
		compiled: compiled,
		state:    &tengo.Map{Value: map[string]tengo.Object{}},
		defined:  defined,
		reported: map[string]bool{},
	}
	s.api = buildScriptCamera(cam)

	// A script whose top level fails is rejected here rather than on the
	// first tick.
	if err := s.run("", 0, tengo.UndefinedValue); err != nil {
		return nil, fmt.Errorf("ext: script %s: %w", name, err)
	}

	s.Attach()
	return s, nil
}

// definedPhases compiles the bare script and reports which phase functions
// it declares.
func definedPhases(src []byte) (map[string]bool, error) {
	script := tengo.NewScript(src)
	script.SetImports(stdlib.GetModuleMap(stdlib.AllModuleNames()...))
	compiled, err := script.Run()
	if err != nil {
		return nil, err
	}
	out := map[string]bool{}
	for _, phase := range scriptPhases {
		if !compiled.IsDefined(phase) {
			continue
		}
		if _, ok := compiled.Get(phase).Object().(*tengo.CompiledFunction); ok {
			out[phase] = true
		}
	}
	return out, nil
}

func dispatchSource(defined map[string]bool) string {
	var b strings.Builder
	first := true
	for _, phase := range scriptPhases {
		if !defined[phase] {
			continue
		}
		if !first {
			b.WriteString(" else ")
		}
		first = false
		fmt.Fprintf(&b, "if __phase == %q {\n", phase)
		switch phase {
		case PhasePreMove, PhasePostMove:
			fmt.Fprintf(&b, "\t%s(__camera, __state, __dt)\n", phase)
		default:
			fmt.Fprintf(&b, "\t__out = %s(__camera, __state, __dt, __in)\n", phase)
		}
		b.WriteString("}")
	}
	b.WriteString("\n")
	return b.String()
}

// Defines reports whether the script implements phase.
func (s *Script) Defines(phase string) bool { return s.defined[phase] }

func (s *Script) Attach() {
	if s.attached {
		return
	}
	s.attached = true
	p := s.cam.Pipeline()
	if s.defined[PhasePreMove] {
		p.PreMovers.Add(s, s.Order)
	}
	if s.defined[PhaseAdjustDelta] {
		p.PositionDeltaChangers.Add(s, s.Order)
	}
	if s.defined[PhaseOverridePosition] {
		p.PositionOverriders.Add(s, s.Order)
	}
	if s.defined[PhaseAdjustSize] {
		p.SizeDeltaChangers.Add(s, s.Order)
	}
	if s.defined[PhaseOverrideSize] {
		p.SizeOverriders.Add(s, s.Order)
	}
	if s.defined[PhasePostMove] {
		p.PostMovers.Add(s, s.Order)
	}
}

func (s *Script) Detach() {
	if !s.attached {
		return
	}
	s.attached = false
	p := s.cam.Pipeline()
	p.PreMovers.Remove(s)
	p.PositionDeltaChangers.Remove(s)
	p.PositionOverriders.Remove(s)
	p.SizeDeltaChangers.Remove(s)
	p.SizeOverriders.Remove(s)
	p.PostMovers.Remove(s)
}

// State returns a copy of the script's persistent state map.
func (s *Script) State() map[string]any {
	out, _ := objectToAny(s.state).(map[string]any)
	return out
}

// SetState stores value under key in the script's persistent state.
func (s *Script) SetState(key string, value any) error {
	obj, err := tengo.FromInterface(value)
	if err != nil {
		return fmt.Errorf("ext: script %s: state %s: %w", s.Name, key, err)
	}
	s.state.Value[key] = obj
	return nil
}

func (s *Script) PreMove(dt float64) {
	s.call(PhasePreMove, dt, tengo.UndefinedValue)
}

func (s *Script) PostMove(dt float64) {
	s.call(PhasePostMove, dt, tengo.UndefinedValue)
}

func (s *Script) AdjustDelta(dt float64, delta cp.Vector) cp.Vector {
	out, ok := s.call(PhaseAdjustDelta, dt, vectorObject(delta))
	if !ok {
		return delta
	}
	return s.vectorResult(PhaseAdjustDelta, out, delta)
}

func (s *Script) OverridePosition(dt float64, pos cp.Vector) cp.Vector {
	out, ok := s.call(PhaseOverridePosition, dt, vectorObject(pos))
	if !ok {
		return pos
	}
	return s.vectorResult(PhaseOverridePosition, out, pos)
}

func (s *Script) AdjustSize(dt float64, delta float64) float64 {
	out, ok := s.call(PhaseAdjustSize, dt, &tengo.Float{Value: delta})
	if !ok {
		return delta
	}
	return s.floatResult(PhaseAdjustSize, out, delta)
}

func (s *Script) OverrideSize(dt float64, size float64) float64 {
	out, ok := s.call(PhaseOverrideSize, dt, &tengo.Float{Value: size})
	if !ok {
		return size
	}
	return s.floatResult(PhaseOverrideSize, out, size)
}

func (s *Script) call(phase string, dt float64, in tengo.Object) (tengo.Object, bool) {
	if !s.defined[phase] {
		return nil, false
	}
	if err := s.run(phase, dt, in); err != nil {
		s.report(phase, err)
		return nil, false
	}
	return s.compiled.Get("__out").Object(), true
}

func (s *Script) run(phase string, dt float64, in tengo.Object) error {
	if err := s.compiled.Set("__phase", phase); err != nil {
		return err
	}
	if err := s.compiled.Set("__camera", s.api); err != nil {
		return err
	}
	if err := s.compiled.Set("__state", s.state); err != nil {
		return err
	}
	if err := s.compiled.Set("__dt", dt); err != nil {
		return err
	}
	if err := s.compiled.Set("__in", in); err != nil {
		return err
	}
	if err := s.compiled.Set("__out", tengo.UndefinedValue); err != nil {
		return err
	}
	return s.compiled.Run()
}

func (s *Script) report(phase string, err error) {
	if s.reported[phase] {
		return
	}
	s.reported[phase] = true
	log.Printf("script %s: %s: %v", s.Name, phase, err)
}

func (s *Script) vectorResult(phase string, out tengo.Object, fallback cp.Vector) cp.Vector {
	if _, ok := out.(*tengo.Undefined); ok {
		return fallback
	}
	v, ok := objectToVector(out)
	if !ok {
		s.report(phase, fmt.Errorf("expected [h, v], got %s", out.TypeName()))
		return fallback
	}
	return v
}

func (s *Script) floatResult(phase string, out tengo.Object, fallback float64) float64 {
	if _, ok := out.(*tengo.Undefined); ok {
		return fallback
	}
	f, ok := objectToFloat(out)
	if !ok {
		s.report(phase, fmt.Errorf("expected a number, got %s", out.TypeName()))
		return fallback
	}
	return f
}

func buildScriptCamera(cam *camera.Camera) *tengo.ImmutableMap {
	values := map[string]tengo.Object{}

	values["position"] = &tengo.UserFunction{Name: "position", Value: func(args ...tengo.Object) (tengo.Object, error) {
		return vectorObject(cam.PlanarPosition()), nil
	}}

	values["midpoint"] = &tengo.UserFunction{Name: "midpoint", Value: func(args ...tengo.Object) (tengo.Object, error) {
		return vectorObject(cam.TargetsMidPoint()), nil
	}}

	values["target_position"] = &tengo.UserFunction{Name: "target_position", Value: func(args ...tengo.Object) (tengo.Object, error) {
		return vectorObject(cam.CameraTargetPosition()), nil
	}}

	values["half_size"] = &tengo.UserFunction{Name: "half_size", Value: func(args ...tengo.Object) (tengo.Object, error) {
		return &tengo.Float{Value: cam.HalfSize()}, nil
	}}

	values["target_count"] = &tengo.UserFunction{Name: "target_count", Value: func(args ...tengo.Object) (tengo.Object, error) {
		return &tengo.Int{Value: int64(cam.TargetCount())}, nil
	}}

	values["apply_influence"] = &tengo.UserFunction{Name: "apply_influence", Value: func(args ...tengo.Object) (tengo.Object, error) {
		v, ok := vectorArgs(args)
		if !ok || !cam.ApplyInfluence(v) {
			return tengo.FalseValue, nil
		}
		return tengo.TrueValue, nil
	}}

	values["set_exclusive"] = &tengo.UserFunction{Name: "set_exclusive", Value: func(args ...tengo.Object) (tengo.Object, error) {
		v, ok := vectorArgs(args)
		if !ok {
			return tengo.FalseValue, nil
		}
		cam.SetExclusiveTargetPosition(v)
		return tengo.TrueValue, nil
	}}

	return &tengo.ImmutableMap{Value: values}
}

// vectorArgs accepts either (h, v) or ([h, v]).
func vectorArgs(args []tengo.Object) (cp.Vector, bool) {
	switch len(args) {
	case 1:
		return objectToVector(args[0])
	case 2:
		h, okH := objectToFloat(args[0])
		v, okV := objectToFloat(args[1])
		return cp.Vector{X: h, Y: v}, okH && okV
	}
	return cp.Vector{}, false
}

func vectorObject(v cp.Vector) *tengo.Array {
	return &tengo.Array{Value: []tengo.Object{&tengo.Float{Value: v.X}, &tengo.Float{Value: v.Y}}}
}

func objectToVector(obj tengo.Object) (cp.Vector, bool) {
	var items []tengo.Object
	switch v := obj.(type) {
	case *tengo.Array:
		items = v.Value
	case *tengo.ImmutableArray:
		items = v.Value
	default:
		return cp.Vector{}, false
	}
	if len(items) != 2 {
		return cp.Vector{}, false
	}
	h, okH := objectToFloat(items[0])
	v, okV := objectToFloat(items[1])
	return cp.Vector{X: h, Y: v}, okH && okV
}

func objectToFloat(obj tengo.Object) (float64, bool) {
	switch v := obj.(type) {
	case *tengo.Float:
		return v.Value, true
	case *tengo.Int:
		return float64(v.Value), true
	}
	return 0, false
}

func objectToAny(obj tengo.Object) any {
	if obj == nil {
		return nil
	}

	switch v := obj.(type) {
	case *tengo.String:
		return v.Value
	case *tengo.Int:
		return int(v.Value)
	case *tengo.Float:
		return v.Value
	case *tengo.Bool:
		return !v.IsFalsy()
	case *tengo.Array:
		out := make([]any, 0, len(v.Value))
		for _, item := range v.Value {
			out = append(out, objectToAny(item))
		}
		return out
	case *tengo.Map:
		out := make(map[string]any, len(v.Value))
		for k, item := range v.Value {
			out[k] = objectToAny(item)
		}
		return out
	case *tengo.Undefined:
		return nil
	default:
		return v.String()
	}
}
