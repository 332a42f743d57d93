package ext

import (
	"github.com/jakecoffman/cp"
	"github.com/milk9111/followcam/camera"
	"github.com/milk9111/followcam/common"
)

// SpeedBasedZoom zooms out while the camera moves fast and back in while it
// is slow. Between the two speed thresholds the zoom-out rate scales
// linearly.
type SpeedBasedZoom struct {
	Enabled           bool
	SpeedForZoomOut   float64
	SpeedForZoomIn    float64
	ZoomInSpeed       float64
	ZoomOutSpeed      float64
	ZoomInSmoothness  float64
	ZoomOutSmoothness float64
	MaxZoomInAmount   float64
	MaxZoomOutAmount  float64

	cam         *camera.Camera
	initialSize float64
	prevSize    float64
	prevPos     cp.Vector
	prevAmount  float64
	velocity    float64
	speed       float64
}

func NewSpeedBasedZoom(cam *camera.Camera) (*SpeedBasedZoom, error) {
	if cam == nil {
		return nil, ErrNoCamera
	}
	z := &SpeedBasedZoom{
		Enabled:           true,
		SpeedForZoomOut:   5,
		SpeedForZoomIn:    2,
		ZoomInSpeed:       1,
		ZoomOutSpeed:      1,
		ZoomInSmoothness:  1,
		ZoomOutSmoothness: 1,
		MaxZoomInAmount:   2,
		MaxZoomOutAmount:  2,
		cam:               cam,
	}
	z.Attach()
	return z, nil
}

func (z *SpeedBasedZoom) Attach() {
	z.initialSize = z.cam.HalfSize()
	z.OnReset()
	z.cam.Pipeline().SizeDeltaChangers.Add(z, camera.OrderSpeedZoom)
	z.cam.AddResetter(z)
}

func (z *SpeedBasedZoom) Detach() {
	z.cam.Pipeline().SizeDeltaChangers.Remove(z)
	z.cam.RemoveResetter(z)
}

// Speed is the camera speed measured on the last tick.
func (z *SpeedBasedZoom) Speed() float64 { return z.speed }

func (z *SpeedBasedZoom) AdjustSize(dt float64, delta float64) float64 {
	if !z.Enabled {
		return delta
	}

	half := z.cam.HalfSize()
	if half == z.prevSize {
		z.prevAmount = 0
		z.velocity = 0
	}

	pos := z.cam.PlanarPosition()
	z.speed = pos.Sub(z.prevPos).Length() / dt
	z.prevPos = pos

	var want, smoothness float64
	if z.speed > z.SpeedForZoomIn {
		span := z.SpeedForZoomOut - z.SpeedForZoomIn
		pct := 1.0
		if span > 0 {
			pct = (z.speed - z.SpeedForZoomIn) / span
		}
		want = z.ZoomOutSpeed * common.Clamp01(pct)
		smoothness = z.ZoomOutSmoothness
	} else {
		pct := 1.0
		if z.SpeedForZoomIn > 0 {
			pct = 1 - z.speed/z.SpeedForZoomIn
		}
		want = -z.ZoomInSpeed * common.Clamp01(pct)
		smoothness = z.ZoomInSmoothness
	}

	amount := common.SmoothDamp(z.prevAmount, want*dt, &z.velocity, smoothness, dt)

	lo, hi := z.limits()
	size := half + amount
	if size < lo {
		amount -= size - lo
	} else if size > hi {
		amount -= size - hi
	}
	z.prevAmount = amount
	z.prevSize = half
	return delta + amount
}

func (z *SpeedBasedZoom) limits() (float64, float64) {
	in, out := z.MaxZoomInAmount, z.MaxZoomOutAmount
	if !(in > 0) {
		in = 1
	}
	if !(out > 0) {
		out = 1
	}
	return z.initialSize / in, z.initialSize * out
}

func (z *SpeedBasedZoom) OnReset() {
	z.prevSize = z.initialSize
	z.prevPos = z.cam.PlanarPosition()
	z.prevAmount = 0
	z.velocity = 0
	z.speed = 0
}
