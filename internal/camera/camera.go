// Package camera provides a perspective camera and orbit controls.
package camera

import (
	"github.com/go-gl/mathgl/mgl64"
)

// Defaults for the scene camera.
const (
	DefaultFOV      = 75.0 // vertical, degrees
	DefaultNear     = 0.1
	DefaultFar      = 1000.0
	DefaultDistance = 5.0
)

// Camera is a perspective camera looking at Target.
//
// The projection matrix is cached: changes to FOV, Aspect, Near or Far take
// effect on the next UpdateProjectionMatrix call, not before.
type Camera struct {
	FOV    float64
	Aspect float64
	Near   float64
	Far    float64

	Position mgl64.Vec3
	Target   mgl64.Vec3
	Up       mgl64.Vec3

	projection mgl64.Mat4
}

// NewPerspective creates a camera at (0, 0, DefaultDistance) looking at the origin.
func NewPerspective(fovDeg, aspect, near, far float64) *Camera {
	c := &Camera{
		FOV:      fovDeg,
		Aspect:   aspect,
		Near:     near,
		Far:      far,
		Position: mgl64.Vec3{0, 0, DefaultDistance},
		Up:       mgl64.Vec3{0, 1, 0},
	}
	c.UpdateProjectionMatrix()
	return c
}

// UpdateProjectionMatrix recomputes the projection from FOV, Aspect, Near and Far.
func (c *Camera) UpdateProjectionMatrix() {
	aspect := c.Aspect
	if aspect <= 0 {
		aspect = 1
	}
	c.projection = mgl64.Perspective(mgl64.DegToRad(c.FOV), aspect, c.Near, c.Far)
}

// Projection returns the cached projection matrix.
func (c *Camera) Projection() mgl64.Mat4 {
	return c.projection
}

// View returns the world-to-camera matrix.
func (c *Camera) View() mgl64.Mat4 {
	return mgl64.LookAtV(c.Position, c.Target, c.Up)
}

// ViewProjection returns Projection * View.
func (c *Camera) ViewProjection() mgl64.Mat4 {
	return c.projection.Mul4(c.View())
}

// Distance returns how far the camera sits from its target.
func (c *Camera) Distance() float64 {
	return c.Position.Sub(c.Target).Len()
}
