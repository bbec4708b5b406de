// Package engine drives the animation: it advances the scene once per
// cycle, renders it, and keeps the camera matched to the output size.
package engine

import (
	"github.com/litescript/ls-globe/internal/camera"
	"github.com/litescript/ls-globe/internal/scene"
)

// Renderer draws one frame of a scene from a camera.
type Renderer interface {
	Render(s *scene.Scene, cam *camera.Camera) error
}

// Surface is an output whose pixel size follows the viewport.
type Surface interface {
	SetSize(width, height int)
}

// Context is the state shared by the driver and the viewport. Both run on
// the same goroutine, so the fields are used without locking.
type Context struct {
	Scene    *scene.Scene
	Camera   *camera.Camera
	Renderer Renderer
}
