package prefabs

import (
	"fmt"
	"image/color"
	"strconv"
	"strings"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/followcam/camera"
	"github.com/milk9111/followcam/common"
	"github.com/milk9111/followcam/ext"
	"github.com/milk9111/followcam/geom"
	"gopkg.in/yaml.v3"
)

// RigSpec describes a camera and the extensions attached to it. Sections
// left out of the document are not attached.
type RigSpec struct {
	Name             string                `yaml:"name"`
	Camera           CameraSpec            `yaml:"camera"`
	Boundaries       *BoundariesSpec       `yaml:"boundaries"`
	PanZoom          *PanZoomSpec          `yaml:"pan_zoom"`
	PointerInfluence *PointerInfluenceSpec `yaml:"pointer_influence"`
	SpeedZoom        *SpeedZoomSpec        `yaml:"speed_zoom"`
	Zones            []ZoneSpec            `yaml:"zones"`
	Scripts          []ScriptSpec          `yaml:"scripts"`
	Debug            DebugSpec             `yaml:"debug"`
}

func LoadRigSpec(name string) (*RigSpec, error) {
	data, err := Load(name)
	if err != nil {
		return nil, fmt.Errorf("prefabs: load %s: %w", name, err)
	}
	spec, err := DecodeRigSpec(data)
	if err != nil {
		return nil, fmt.Errorf("prefabs: %s: %w", name, err)
	}
	return spec, nil
}

func DecodeRigSpec(data []byte) (*RigSpec, error) {
	var spec RigSpec
	if err := yaml.Unmarshal(data, &spec); err != nil {
		return nil, fmt.Errorf("unmarshal rig: %w", err)
	}
	return &spec, nil
}

type Vec2Spec struct {
	X float64 `yaml:"x"`
	Y float64 `yaml:"y"`
}

func (v Vec2Spec) Vector() cp.Vector { return cp.Vector{X: v.X, Y: v.Y} }

type CameraSpec struct {
	Axis          string   `yaml:"axis"`
	UpdateType    string   `yaml:"update_type"`
	FollowH       *bool    `yaml:"follow_horizontal"`
	FollowV       *bool    `yaml:"follow_vertical"`
	SmoothnessH   *float64 `yaml:"horizontal_smoothness"`
	SmoothnessV   *float64 `yaml:"vertical_smoothness"`
	Offset        Vec2Spec `yaml:"offset"`
	ZoomWithFOV   bool     `yaml:"zoom_with_fov"`
	CenterOnStart bool     `yaml:"center_on_start"`
	HalfHeight    float64  `yaml:"half_height"`
}

// Config merges the spec over camera.DefaultConfig.
func (s CameraSpec) Config() (camera.Config, error) {
	cfg := camera.DefaultConfig()
	axis, err := geom.ParseAxis(s.Axis)
	if err != nil {
		return cfg, err
	}
	update, err := camera.ParseUpdateType(s.UpdateType)
	if err != nil {
		return cfg, err
	}
	cfg.Axis = axis
	cfg.UpdateType = update
	if s.FollowH != nil {
		cfg.FollowHorizontal = *s.FollowH
	}
	if s.FollowV != nil {
		cfg.FollowVertical = *s.FollowV
	}
	if s.SmoothnessH != nil {
		cfg.HorizontalFollowSmoothness = *s.SmoothnessH
	}
	if s.SmoothnessV != nil {
		cfg.VerticalFollowSmoothness = *s.SmoothnessV
	}
	cfg.Offset = s.Offset.Vector()
	cfg.ZoomWithFOV = s.ZoomWithFOV
	cfg.CenterOnStart = s.CenterOnStart
	return cfg, cfg.Validate()
}

type BoundariesSpec struct {
	Limits             ext.Limits `yaml:"limits"`
	Elastic            bool       `yaml:"elastic"`
	ElasticityDuration *Vec2Spec  `yaml:"elasticity_duration"`
	ElasticitySize     *Vec2Spec  `yaml:"elasticity_size"`
	Ease               string     `yaml:"ease"`
}

func (s BoundariesSpec) apply(b *ext.NumericBoundaries) error {
	if err := b.SetLimits(s.Limits); err != nil {
		return err
	}
	b.Elastic = s.Elastic
	if d := s.ElasticityDuration; d != nil {
		b.HorizontalElasticityDuration, b.VerticalElasticityDuration = d.X, d.Y
	}
	if sz := s.ElasticitySize; sz != nil {
		b.HorizontalElasticitySize, b.VerticalElasticitySize = sz.X, sz.Y
	}
	if s.Ease != "" {
		ease, err := common.ParseEaseType(s.Ease)
		if err != nil {
			return err
		}
		b.Ease = ease
	}
	return nil
}

type RectSpec struct {
	X float64 `yaml:"x"`
	Y float64 `yaml:"y"`
	W float64 `yaml:"w"`
	H float64 `yaml:"h"`
}

type PanZoomSpec struct {
	Pan           *bool     `yaml:"pan"`
	Zoom          *bool     `yaml:"zoom"`
	Drag          *bool     `yaml:"drag"`
	Edges         bool      `yaml:"edges"`
	DraggableArea *RectSpec `yaml:"draggable_area"`
	DragSpeed     *Vec2Spec `yaml:"drag_speed"`
	EdgesSpeed    *Vec2Spec `yaml:"edges_speed"`
	EdgesBand     *Vec2Spec `yaml:"edges_band"`
	ZoomSpeed     float64   `yaml:"zoom_speed"`
	// Smoothness is zoom-in (x) and zoom-out (y).
	Smoothness   *Vec2Spec `yaml:"zoom_smoothness"`
	MaxZoomIn    float64   `yaml:"max_zoom_in"`
	MaxZoomOut   float64   `yaml:"max_zoom_out"`
	ToInputPoint *bool     `yaml:"zoom_to_input"`
}

func (s PanZoomSpec) apply(p *ext.PanAndZoom) error {
	setBool(&p.AllowPan, s.Pan)
	setBool(&p.AllowZoom, s.Zoom)
	setBool(&p.UsePanByDrag, s.Drag)
	setBool(&p.ZoomToInputCenter, s.ToInputPoint)
	p.UsePanByMoveToEdges = s.Edges
	if r := s.DraggableArea; r != nil {
		p.DraggableArea = ext.Rect{X: r.X, Y: r.Y, W: r.W, H: r.H}
	}
	if v := s.DragSpeed; v != nil {
		p.DragPanSpeed = v.Vector()
	}
	if v := s.EdgesSpeed; v != nil {
		p.EdgesPanSpeed = v.Vector()
	}
	if v := s.EdgesBand; v != nil {
		p.HorizontalPanEdges, p.VerticalPanEdges = v.X, v.Y
	}
	if v := s.Smoothness; v != nil {
		p.ZoomInSmoothness, p.ZoomOutSmoothness = v.X, v.Y
	}
	setPositive(&p.ZoomSpeed, s.ZoomSpeed)
	setPositive(&p.MaxZoomInAmount, s.MaxZoomIn)
	setPositive(&p.MaxZoomOutAmount, s.MaxZoomOut)
	return p.Validate()
}

type PointerInfluenceSpec struct {
	Max        *Vec2Spec `yaml:"max"`
	Smoothness float64   `yaml:"smoothness"`
}

func (s PointerInfluenceSpec) apply(p *ext.PointerInfluence) {
	if s.Max != nil {
		p.MaxHorizontalInfluence, p.MaxVerticalInfluence = s.Max.X, s.Max.Y
	}
	setPositive(&p.InfluenceSmoothness, s.Smoothness)
}

type SpeedZoomSpec struct {
	ZoomOutAbove float64   `yaml:"zoom_out_above"`
	ZoomInBelow  float64   `yaml:"zoom_in_below"`
	Speed        *Vec2Spec `yaml:"speed"`
	Smoothness   *Vec2Spec `yaml:"smoothness"`
	MaxZoomIn    float64   `yaml:"max_zoom_in"`
	MaxZoomOut   float64   `yaml:"max_zoom_out"`
}

func (s SpeedZoomSpec) apply(z *ext.SpeedBasedZoom) {
	setPositive(&z.SpeedForZoomOut, s.ZoomOutAbove)
	setPositive(&z.SpeedForZoomIn, s.ZoomInBelow)
	if v := s.Speed; v != nil {
		z.ZoomInSpeed, z.ZoomOutSpeed = v.X, v.Y
	}
	if v := s.Smoothness; v != nil {
		z.ZoomInSmoothness, z.ZoomOutSmoothness = v.X, v.Y
	}
	setPositive(&z.MaxZoomInAmount, s.MaxZoomIn)
	setPositive(&z.MaxZoomOutAmount, s.MaxZoomOut)
}

type ZoneSpec struct {
	Center     Vec2Spec  `yaml:"center"`
	Radius     float64   `yaml:"radius"`
	Focus      *Vec2Spec `yaml:"focus"`
	Exclusive  float64   `yaml:"exclusive"`
	Smoothness float64   `yaml:"smoothness"`
}

type ScriptSpec struct {
	Name  string `yaml:"name"`
	Path  string `yaml:"path"`
	Order int    `yaml:"order"`
}

type DebugSpec struct {
	Background *YAMLColor `yaml:"background"`
	Grid       *YAMLColor `yaml:"grid"`
	Targets    *YAMLColor `yaml:"targets"`
}

func setBool(dst *bool, v *bool) {
	if v != nil {
		*dst = *v
	}
}

func setPositive(dst *float64, v float64) {
	if v > 0 {
		*dst = v
	}
}

type YAMLColor struct {
	color.Color
}

func (c *YAMLColor) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.ScalarNode {
		return fmt.Errorf("color must be a string")
	}

	s := strings.TrimPrefix(value.Value, "#")

	if len(s) != 6 && len(s) != 8 {
		return fmt.Errorf("invalid color format: %s", value.Value)
	}

	parse := func(start int) (uint8, error) {
		v, err := strconv.ParseUint(s[start:start+2], 16, 8)
		return uint8(v), err
	}

	r, err := parse(0)
	if err != nil {
		return err
	}
	g, err := parse(2)
	if err != nil {
		return err
	}
	b, err := parse(4)
	if err != nil {
		return err
	}

	a := uint8(255)
	if len(s) == 8 {
		a, err = parse(6)
		if err != nil {
			return err
		}
	}

	c.Color = color.NRGBA{R: r, G: g, B: b, A: a}
	return nil
}

// MarshalYAML writes the color back in the #rrggbbaa form it was read in.
func (c YAMLColor) MarshalYAML() (any, error) {
	if c.Color == nil {
		return nil, nil
	}
	n := color.NRGBAModel.Convert(c.Color).(color.NRGBA)
	return fmt.Sprintf("#%02x%02x%02x%02x", n.R, n.G, n.B, n.A), nil
}

// ColorOr returns the color or fallback when unset.
func (c *YAMLColor) ColorOr(fallback color.Color) color.Color {
	if c == nil || c.Color == nil {
		return fallback
	}
	return c.Color
}
