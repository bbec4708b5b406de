package scene

import (
	colorful "github.com/lucasb-eyer/go-colorful"

	"github.com/litescript/ls-globe/internal/texture"
)

// Blending selects how a layer's fragments combine with what is already drawn.
type Blending int

const (
	// BlendNormal replaces the destination (alpha-weighted when Transparent).
	BlendNormal Blending = iota
	// BlendAdditive adds the source, weighted by its alpha, onto the destination.
	BlendAdditive
)

func (b Blending) String() string {
	switch b {
	case BlendNormal:
		return "normal"
	case BlendAdditive:
		return "additive"
	default:
		return "unknown"
	}
}

// Material describes how a layer is shaded and composited.
type Material interface {
	Blending() Blending
	Transparent() bool
}

// PhongMaterial is lit with diffuse and Blinn-Phong specular terms.
type PhongMaterial struct {
	Color       colorful.Color
	Map         *texture.Texture
	SpecularMap *texture.Texture
	BumpMap     *texture.Texture
	BumpScale   float64
	Specular    colorful.Color
	Shininess   float64
}

func (m *PhongMaterial) Blending() Blending { return BlendNormal }
func (m *PhongMaterial) Transparent() bool { return false }

// BasicMaterial is unlit: the map color is emitted as-is.
type BasicMaterial struct {
	Map   *texture.Texture
	Blend Blending
}

func (m *BasicMaterial) Blending() Blending { return m.Blend }
func (m *BasicMaterial) Transparent() bool { return false }

// StandardMaterial is diffusely lit with optional transparency from an alpha map.
type StandardMaterial struct {
	Map           *texture.Texture
	AlphaMap      *texture.Texture
	Opacity       float64
	IsTransparent bool
	Blend         Blending
}

func (m *StandardMaterial) Blending() Blending { return m.Blend }
func (m *StandardMaterial) Transparent() bool { return m.IsTransparent }

// FresnelMaterial brightens toward grazing view angles:
// f = Bias + Scale * (1 + dot(viewDir, normal))^Power, color = mix(Facing, Rim, f).
type FresnelMaterial struct {
	Rim    colorful.Color
	Facing colorful.Color
	Bias   float64
	Scale  float64
	Power  float64
}

func (m *FresnelMaterial) Blending() Blending { return BlendAdditive }
func (m *FresnelMaterial) Transparent() bool { return true }

// PointsMaterial draws each star as a sprite tinted by its vertex color.
type PointsMaterial struct {
	Size   float64
	Sprite *texture.Texture
}

// mustHex parses a #rrggbb constant.
func mustHex(s string) colorful.Color {
	c, err := colorful.Hex(s)
	if err != nil {
		panic(err)
	}
	return c
}
