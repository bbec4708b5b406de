// Package astro provides angle conversions and spherical coordinate math
// shared by the starfield and the planet geometry.
package astro

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// EarthObliquityDeg is the tilt of Earth's spin axis against its orbital plane.
const EarthObliquityDeg = 23.4

// DegToRad converts degrees to radians.
func DegToRad(deg float64) float64 {
	return deg * math.Pi / 180
}

// RadToDeg converts radians to degrees.
func RadToDeg(rad float64) float64 {
	return rad * 180 / math.Pi
}

// UniformSphereAngles maps two uniform samples in [0,1) to an azimuth theta
// in [0, 2π) and a polar angle phi in [0, π].
//
// The polar angle uses the inverse CDF of the sphere's solid angle
// (phi = acos(2v - 1)); sampling phi directly would bunch points at the poles.
func UniformSphereAngles(u, v float64) (theta, phi float64) {
	theta = 2 * math.Pi * u
	phi = math.Acos(2*v - 1)
	return theta, phi
}

// SphericalToCartesian converts radius r, azimuth theta (in the XY plane)
// and polar angle phi (measured from +Z) to a Cartesian vector.
func SphericalToCartesian(r, theta, phi float64) mgl64.Vec3 {
	sinPhi := math.Sin(phi)
	return mgl64.Vec3{
		r * sinPhi * math.Cos(theta),
		r * sinPhi * math.Sin(theta),
		r * math.Cos(phi),
	}
}

// PolarAngle returns the angle in radians between v and the +Z axis.
func PolarAngle(v mgl64.Vec3) float64 {
	n := v.Len()
	if n == 0 {
		return 0
	}
	c := v.Z() / n
	if c > 1 {
		c = 1
	} else if c < -1 {
		c = -1
	}
	return math.Acos(c)
}

// Azimuth returns the angle of v around the Y axis used for texture U.
func Azimuth(v mgl64.Vec3) float64 {
	return math.Atan2(v.Z(), -v.X())
}

// Inclination returns the latitude-like angle of v against the XZ plane,
// negated so the north pole (+Y) maps to -π/2.
func Inclination(v mgl64.Vec3) float64 {
	return math.Atan2(-v.Y(), math.Hypot(v.X(), v.Z()))
}

// EquirectUV maps a direction on the unit sphere to equirectangular texture
// coordinates: U wraps around the Y axis, V runs from 0 at the south pole
// to 1 at the north pole.
func EquirectUV(dir mgl64.Vec3) (u, v float64) {
	u = Azimuth(dir)/(2*math.Pi) + 0.5
	v = 1 - (Inclination(dir)/math.Pi + 0.5)
	return u, v
}

// WrapAngle wraps an angle in radians to [0, 2π).
func WrapAngle(a float64) float64 {
	a = math.Mod(a, 2*math.Pi)
	if a < 0 {
		a += 2 * math.Pi
	}
	return a
}
