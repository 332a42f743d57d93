package main

import (
	"fmt"
	"strings"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/followcam/camera"
	"gopkg.in/yaml.v3"
)

// cameraState is the snapshot copied to the clipboard, shaped so it can be
// pasted back into a rig spec while tuning.
type cameraState struct {
	Position   vec3       `yaml:"position"`
	Target     vec2       `yaml:"target"`
	Midpoint   vec2       `yaml:"midpoint"`
	Influence  vec2       `yaml:"influence"`
	Velocity   vec2       `yaml:"velocity"`
	HalfHeight float64    `yaml:"half_height"`
	Smoothness vec2       `yaml:"smoothness"`
	Bounded    []string   `yaml:"bounded,omitempty"`
	Targets    []targetAt `yaml:"targets"`
}

type vec2 struct {
	X float64 `yaml:"x"`
	Y float64 `yaml:"y"`
}

type vec3 struct {
	X float64 `yaml:"x"`
	Y float64 `yaml:"y"`
	Z float64 `yaml:"z"`
}

type targetAt struct {
	Position vec2    `yaml:"position"`
	Weight   float64 `yaml:"weight"`
	WeightV  float64 `yaml:"weight_v,omitempty"`
}

func toVec2(v cp.Vector) vec2 { return vec2{X: v.X, Y: v.Y} }

func snapshotState(cam *camera.Camera) cameraState {
	pos := cam.Position()
	h, v := cam.FollowSmoothness()
	s := cameraState{
		Position:   vec3{X: pos.X, Y: pos.Y, Z: pos.Z},
		Target:     toVec2(cam.CameraTargetPosition()),
		Midpoint:   toVec2(cam.TargetsMidPoint()),
		Influence:  toVec2(cam.CameraTargetPosition().Sub(cam.TargetsMidPoint())),
		Velocity:   toVec2(cam.SmoothedVelocity()),
		HalfHeight: cam.HalfSize(),
		Smoothness: vec2{X: h, Y: v},
		Bounded:    boundedSides(cam.Bounded()),
	}
	for _, t := range cam.Targets() {
		at := targetAt{
			Position: toVec2(cam.Mapper().Planar(t.Position())),
			Weight:   t.InfluenceH(),
		}
		if t.InfluenceV() != t.InfluenceH() {
			at.WeightV = t.InfluenceV()
		}
		s.Targets = append(s.Targets, at)
	}
	return s
}

func boundedSides(b camera.Bounded) []string {
	var out []string
	if b.Left {
		out = append(out, "left")
	}
	if b.Right {
		out = append(out, "right")
	}
	if b.Bottom {
		out = append(out, "bottom")
	}
	if b.Top {
		out = append(out, "top")
	}
	return out
}

func marshalState(cam *camera.Camera) ([]byte, error) {
	data, err := yaml.Marshal(snapshotState(cam))
	if err != nil {
		return nil, fmt.Errorf("marshal camera state: %w", err)
	}
	return data, nil
}

// panelSummary is the text shown in the debug panel.
func panelSummary(cam *camera.Camera, balls int) string {
	s := snapshotState(cam)
	var b strings.Builder
	fmt.Fprintf(&b, "pos     %7.2f %7.2f\n", s.Position.X, s.Position.Y)
	fmt.Fprintf(&b, "target  %7.2f %7.2f\n", s.Target.X, s.Target.Y)
	fmt.Fprintf(&b, "mid     %7.2f %7.2f\n", s.Midpoint.X, s.Midpoint.Y)
	fmt.Fprintf(&b, "vel     %7.2f %7.2f\n", s.Velocity.X, s.Velocity.Y)
	fmt.Fprintf(&b, "half    %7.2f\n", s.HalfHeight)
	fmt.Fprintf(&b, "targets %d (%d balls)\n", len(s.Targets), balls)
	if len(s.Bounded) > 0 {
		fmt.Fprintf(&b, "bounded %s\n", strings.Join(s.Bounded, ","))
	}
	b.WriteString("\nWASD move  space jump  drag pan  wheel zoom\nK shake  B/N add/remove ball  R reset  C copy  Tab panel")
	return b.String()
}
