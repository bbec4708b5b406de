package engine

import (
	"github.com/litescript/ls-globe/internal/camera"
	"github.com/litescript/ls-globe/internal/logging"
)

// ResizeObserver is told about every applied size change.
type ResizeObserver interface {
	Resized()
}

// Viewport keeps the camera projection and the output surface in step with
// the display size.
type Viewport struct {
	cam     *camera.Camera
	surface Surface
	log     *logging.Logger
	obs     ResizeObserver

	width, height int
}

// NewViewport creates a viewport. obs may be nil.
func NewViewport(cam *camera.Camera, surface Surface, log *logging.Logger, obs ResizeObserver) *Viewport {
	if log == nil {
		log = logging.Discard()
	}
	return &Viewport{cam: cam, surface: surface, log: log, obs: obs}
}

// OnResize sets the camera aspect to width/height, refreshes its projection
// and resizes the surface. Camera position and orientation are untouched.
// Repeating the same size changes nothing; non-positive sizes are ignored.
func (v *Viewport) OnResize(width, height int) {
	if width <= 0 || height <= 0 {
		v.log.Debug("ignoring resize to %dx%d", width, height)
		return
	}

	v.cam.Aspect = float64(width) / float64(height)
	v.cam.UpdateProjectionMatrix()
	v.surface.SetSize(width, height)

	if width == v.width && height == v.height {
		return
	}
	v.width, v.height = width, height
	v.log.Debug("viewport %dx%d aspect %.3f", width, height, v.cam.Aspect)
	if v.obs != nil {
		v.obs.Resized()
	}
}

// Size returns the last applied size.
func (v *Viewport) Size() (width, height int) {
	return v.width, v.height
}
