package camera

import (
	"errors"
	"fmt"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/followcam/geom"
)

var (
	ErrNoLens            = errors.New("camera: no lens bound")
	ErrInvalidViewport   = errors.New("camera: invalid viewport")
	ErrInvalidSmoothness = errors.New("camera: follow smoothness must not be negative")
	ErrUnknownUpdateType = errors.New("camera: unknown update type")
	ErrAxisChanged       = errors.New("camera: axis cannot change after construction")
)

// UpdateType selects which host callback drives Move.
type UpdateType int

const (
	UpdateLate UpdateType = iota
	UpdateFixed
	UpdateManual
)

func (u UpdateType) String() string {
	switch u {
	case UpdateFixed:
		return "fixed"
	case UpdateManual:
		return "manual"
	default:
		return "late"
	}
}

func ParseUpdateType(s string) (UpdateType, error) {
	switch s {
	case "", "late":
		return UpdateLate, nil
	case "fixed":
		return UpdateFixed, nil
	case "manual":
		return UpdateManual, nil
	}
	return UpdateLate, fmt.Errorf("%w: %q", ErrUnknownUpdateType, s)
}

type Config struct {
	Axis       geom.Axis
	UpdateType UpdateType

	FollowHorizontal           bool
	FollowVertical             bool
	HorizontalFollowSmoothness float64
	VerticalFollowSmoothness   float64

	// Offset is added to the follow target on enabled axes.
	Offset cp.Vector

	// ZoomWithFOV realises size changes on perspective lenses by changing the
	// field of view instead of moving along depth.
	ZoomWithFOV bool

	// CenterOnStart snaps onto the targets on the first tick.
	CenterOnStart bool
}

func DefaultConfig() Config {
	return Config{
		Axis:                       geom.AxisXY,
		UpdateType:                 UpdateLate,
		FollowHorizontal:           true,
		FollowVertical:             true,
		HorizontalFollowSmoothness: 0.15,
		VerticalFollowSmoothness:   0.15,
	}
}

func (c Config) Validate() error {
	if c.HorizontalFollowSmoothness < 0 || c.VerticalFollowSmoothness < 0 {
		return ErrInvalidSmoothness
	}
	if c.UpdateType < UpdateLate || c.UpdateType > UpdateManual {
		return fmt.Errorf("%w: %d", ErrUnknownUpdateType, c.UpdateType)
	}
	return nil
}
