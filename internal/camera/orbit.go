package camera

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

const (
	minPolar = 0.01
	maxPolar = math.Pi - 0.01
)

// Orbit moves a camera on a sphere around its target in response to
// pointer drags and zoom input. It mutates the camera position directly.
type Orbit struct {
	cam *Camera

	MinDistance float64
	MaxDistance float64

	home mgl64.Vec3
}

// NewOrbit attaches orbit controls to cam. The current position becomes
// the reset position.
func NewOrbit(cam *Camera) *Orbit {
	return &Orbit{
		cam:         cam,
		MinDistance: 1.2,
		MaxDistance: 60,
		home:        cam.Position,
	}
}

// spherical returns radius, azimuth (around Y, from +Z) and polar angle
// (from +Y) of the camera offset.
func (o *Orbit) spherical() (r, azimuth, polar float64) {
	off := o.cam.Position.Sub(o.cam.Target)
	r = off.Len()
	if r == 0 {
		return 0, 0, math.Pi / 2
	}
	azimuth = math.Atan2(off.X(), off.Z())
	polar = math.Acos(mgl64.Clamp(off.Y()/r, -1, 1))
	return r, azimuth, polar
}

func (o *Orbit) place(r, azimuth, polar float64) {
	sinPolar := math.Sin(polar)
	off := mgl64.Vec3{
		r * sinPolar * math.Sin(azimuth),
		r * math.Cos(polar),
		r * sinPolar * math.Cos(azimuth),
	}
	o.cam.Position = o.cam.Target.Add(off)
}

// Rotate swings the camera by dAzimuth around the vertical axis and by
// dPolar towards the poles. The polar angle stops just short of each pole.
func (o *Orbit) Rotate(dAzimuth, dPolar float64) {
	r, azimuth, polar := o.spherical()
	if r == 0 {
		return
	}
	polar = mgl64.Clamp(polar+dPolar, minPolar, maxPolar)
	o.place(r, azimuth+dAzimuth, polar)
}

// Zoom scales the camera distance by factor (<1 moves closer), within
// [MinDistance, MaxDistance].
func (o *Orbit) Zoom(factor float64) {
	if factor <= 0 {
		return
	}
	r, azimuth, polar := o.spherical()
	if r == 0 {
		return
	}
	o.place(mgl64.Clamp(r*factor, o.MinDistance, o.MaxDistance), azimuth, polar)
}

// Reset returns the camera to where it was when the controls were attached.
func (o *Orbit) Reset() {
	o.cam.Position = o.home
}
