// Package scene composes the layered planet, its starfield and the sun.
package scene

import (
	"math/rand/v2"

	"github.com/go-gl/mathgl/mgl64"
	colorful "github.com/lucasb-eyer/go-colorful"

	"github.com/litescript/ls-globe/internal/astro"
	"github.com/litescript/ls-globe/internal/config"
	"github.com/litescript/ls-globe/internal/geom"
	"github.com/litescript/ls-globe/internal/starfield"
	"github.com/litescript/ls-globe/internal/texture"
)

// Fixed visual constants. Shell scales strictly increase outward so the
// co-located layers never fight over depth.
const (
	AxialTiltDeg = -astro.EarthObliquityDeg

	SurfaceScale = 1.0
	CloudScale   = 1.003
	GlowScale    = 1.01

	// Yaw increments in radians per animation cycle.
	SurfaceSpin = 0.002
	CloudSpin   = 0.0023
	StarSpin    = -0.0002

	BumpScale     = 0.04
	CloudOpacity  = 0.8
	StarPointSize = 0.2
	SunIntensity  = 2.0
)

// SunPosition is where the directional light sits, independent of the planet.
var SunPosition = mgl64.Vec3{-2, 0.5, 1.5}

// Role identifies a planet layer.
type Role int

const (
	RoleSurface Role = iota
	RoleNightLights
	RoleClouds
	RoleGlow
)

func (r Role) String() string {
	switch r {
	case RoleSurface:
		return "surface"
	case RoleNightLights:
		return "night-lights"
	case RoleClouds:
		return "clouds"
	case RoleGlow:
		return "glow"
	default:
		return "unknown"
	}
}

// Layer is one shell of the planet.
type Layer struct {
	Role     Role
	Geometry *geom.Geometry
	Material Material
	Scale    float64
	Spin     float64 // radians added to Yaw each cycle
	Yaw      float64
}

// Advance applies one cycle of spin.
func (l *Layer) Advance() {
	l.Yaw += l.Spin
}

// Model returns the layer's local-to-world matrix under parent.
func (l *Layer) Model(parent mgl64.Mat4) mgl64.Mat4 {
	return parent.
		Mul4(mgl64.HomogRotate3DY(l.Yaw)).
		Mul4(mgl64.Scale3D(l.Scale, l.Scale, l.Scale))
}

// Group holds the planet layers under a fixed axial tilt about the view axis.
// The tilt never animates.
type Group struct {
	Tilt   float64 // radians about Z
	Layers []*Layer
}

// Matrix returns the group transform.
func (g *Group) Matrix() mgl64.Mat4 {
	return mgl64.HomogRotate3DZ(g.Tilt)
}

// Layer returns the layer with the given role, or nil.
func (g *Group) Layer(role Role) *Layer {
	for _, l := range g.Layers {
		if l.Role == role {
			return l
		}
	}
	return nil
}

// StarNode places the starfield in the scene with its own slow yaw.
type StarNode struct {
	Field    *starfield.Field
	Material PointsMaterial
	Spin     float64
	Yaw      float64
}

// Advance applies one cycle of spin.
func (s *StarNode) Advance() {
	s.Yaw += s.Spin
}

// Model returns the starfield's local-to-world matrix.
func (s *StarNode) Model() mgl64.Mat4 {
	return mgl64.HomogRotate3DY(s.Yaw)
}

// DirectionalLight is a distant light shining from Position toward Target.
type DirectionalLight struct {
	Color     colorful.Color
	Intensity float64
	Position  mgl64.Vec3
	Target    mgl64.Vec3
}

// Direction returns the unit vector from the lit surface toward the light.
func (d DirectionalLight) Direction() mgl64.Vec3 {
	return d.Position.Sub(d.Target).Normalize()
}

// Scene is the composition root for everything that gets rendered.
type Scene struct {
	Geometry *geom.Geometry
	Planet   *Group
	Stars    *StarNode
	Sun      DirectionalLight
}

// TextureSource hands out texture handles that may resolve later.
type TextureSource interface {
	Load(path string) *texture.Texture
}

// Build creates the scene described by cfg. Textures are requested from
// src and not awaited; a nil src builds every layer without maps.
// cfg.Seed selects a reproducible starfield when non-zero.
func Build(cfg config.Config, src TextureSource) *Scene {
	load := func(name string) *texture.Texture {
		if src == nil {
			return nil
		}
		return src.Load(cfg.Textures.Path(name))
	}

	var rng *rand.Rand
	if cfg.Seed != 0 {
		rng = rand.New(rand.NewPCG(cfg.Seed, cfg.Seed^0x9e3779b97f4a7c15))
	}

	sphere := geom.NewIcosphere(1, cfg.Detail)

	surface := &Layer{
		Role:     RoleSurface,
		Geometry: sphere,
		Material: &PhongMaterial{
			Color:       colorful.Color{R: 1, G: 1, B: 1},
			Map:         load(cfg.Textures.Surface),
			SpecularMap: load(cfg.Textures.Specular),
			BumpMap:     load(cfg.Textures.Bump),
			BumpScale:   BumpScale,
			Specular:    mustHex("#111111"),
			Shininess:   30,
		},
		Scale: SurfaceScale,
		Spin:  SurfaceSpin,
	}

	lights := &Layer{
		Role:     RoleNightLights,
		Geometry: sphere,
		Material: &BasicMaterial{
			Map:   load(cfg.Textures.Lights),
			Blend: BlendAdditive,
		},
		Scale: SurfaceScale,
		Spin:  SurfaceSpin,
	}

	clouds := &Layer{
		Role:     RoleClouds,
		Geometry: sphere,
		Material: &StandardMaterial{
			Map:           load(cfg.Textures.Clouds),
			AlphaMap:      load(cfg.Textures.CloudAlpha),
			Opacity:       CloudOpacity,
			IsTransparent: true,
			Blend:         BlendNormal,
		},
		Scale: CloudScale,
		Spin:  CloudSpin,
	}

	glow := &Layer{
		Role:     RoleGlow,
		Geometry: sphere,
		Material: &FresnelMaterial{
			Rim:    mustHex("#0088ff"),
			Facing: mustHex("#000000"),
			Bias:   0.1,
			Scale:  1.0,
			Power:  4.0,
		},
		Scale: GlowScale,
		Spin:  SurfaceSpin,
	}

	return &Scene{
		Geometry: sphere,
		Planet: &Group{
			Tilt:   astro.DegToRad(AxialTiltDeg),
			Layers: []*Layer{surface, lights, clouds, glow},
		},
		Stars: &StarNode{
			Field: starfield.Generate(cfg.StarCount, rng),
			Material: PointsMaterial{
				Size:   StarPointSize,
				Sprite: load(cfg.Textures.StarSprite),
			},
			Spin: StarSpin,
		},
		Sun: DirectionalLight{
			Color:     colorful.Color{R: 1, G: 1, B: 1},
			Intensity: SunIntensity,
			Position:  SunPosition,
		},
	}
}
