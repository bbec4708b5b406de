package render

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	colorful "github.com/lucasb-eyer/go-colorful"

	"github.com/litescript/ls-globe/internal/scene"
	"github.com/litescript/ls-globe/internal/texture"
)

// fragment carries interpolated vertex data into a shader.
type fragment struct {
	world  mgl64.Vec3 // world-space position
	normal mgl64.Vec3 // object-space normal
	uv     mgl64.Vec2
}

// shader returns a display-space color and coverage for one fragment.
// ok=false discards the fragment without touching color or depth.
type shader func(f *fragment) (c mgl64.Vec3, alpha float64, ok bool)

// lighting is the per-frame environment shared by the lit materials.
type lighting struct {
	camPos   mgl64.Vec3
	sunDir   mgl64.Vec3 // unit, toward the light
	sunColor mgl64.Vec3 // linear, intensity applied
}

func newLighting(s *scene.Scene, camPos mgl64.Vec3) lighting {
	return lighting{
		camPos:   camPos,
		sunDir:   s.Sun.Direction(),
		sunColor: linear(s.Sun.Color).Mul(s.Sun.Intensity),
	}
}

// shaderFor picks the fragment program for a layer material. normalMat
// takes object-space normals to world space.
func shaderFor(mat scene.Material, normalMat mgl64.Mat3, env lighting) shader {
	switch m := mat.(type) {
	case *scene.PhongMaterial:
		return phongShader(m, normalMat, env)
	case *scene.BasicMaterial:
		return basicShader(m)
	case *scene.StandardMaterial:
		return standardShader(m, normalMat, env)
	case *scene.FresnelMaterial:
		return fresnelShader(m, normalMat, env)
	default:
		return nil
	}
}

func phongShader(m *scene.PhongMaterial, normalMat mgl64.Mat3, env lighting) shader {
	base := linear(m.Color)
	f0 := linear(m.Specular)

	return func(f *fragment) (mgl64.Vec3, float64, bool) {
		u, v := f.uv.X(), f.uv.Y()

		albedo := base
		if c, _, ok := m.Map.Sample(u, v); ok {
			albedo = mulVec(albedo, linear(c))
		}

		n := f.normal.Normalize()
		if m.BumpScale != 0 {
			n = bumpNormal(m.BumpMap, n, u, v, m.BumpScale)
		}
		n = normalMat.Mul3x1(n).Normalize()

		dotNL := math.Max(n.Dot(env.sunDir), 0)
		irradiance := env.sunColor.Mul(dotNL)
		col := mulVec(irradiance, albedo).Mul(1 / math.Pi)

		if dotNL > 0 {
			strength := 1.0
			if s, _, ok := m.SpecularMap.Sample(u, v); ok {
				strength = s.R
			}
			view := env.camPos.Sub(f.world).Normalize()
			h := env.sunDir.Add(view).Normalize()
			dotNH := math.Max(n.Dot(h), 0)
			dotVH := math.Max(view.Dot(h), 0)

			fresnel := schlick(f0, dotVH)
			d := (m.Shininess*0.5 + 1) / math.Pi * math.Pow(dotNH, m.Shininess)
			col = col.Add(mulVec(irradiance, fresnel).Mul(0.25 * d * strength))
		}

		return toneMap(col), 1, true
	}
}

// basicShader emits the map unlit. Without a resolved map nothing is drawn.
func basicShader(m *scene.BasicMaterial) shader {
	return func(f *fragment) (mgl64.Vec3, float64, bool) {
		c, a, ok := m.Map.Sample(f.uv.X(), f.uv.Y())
		if !ok {
			return mgl64.Vec3{}, 0, false
		}
		return toneMap(linear(c)), a, true
	}
}

// standardShader is diffuse-only; coverage comes from opacity, the map's
// own alpha and the green channel of the alpha map.
func standardShader(m *scene.StandardMaterial, normalMat mgl64.Mat3, env lighting) shader {
	return func(f *fragment) (mgl64.Vec3, float64, bool) {
		u, v := f.uv.X(), f.uv.Y()

		c, alpha, ok := m.Map.Sample(u, v)
		if !ok {
			return mgl64.Vec3{}, 0, false
		}
		alpha *= m.Opacity
		if am, _, ok := m.AlphaMap.Sample(u, v); ok {
			alpha *= am.G
		}

		n := normalMat.Mul3x1(f.normal).Normalize()
		dotNL := math.Max(n.Dot(env.sunDir), 0)
		col := mulVec(env.sunColor.Mul(dotNL), linear(c)).Mul(1 / math.Pi)

		return toneMap(col), alpha, true
	}
}

// fresnelShader brightens toward the silhouette. Its output is neither
// lit nor tone mapped.
func fresnelShader(m *scene.FresnelMaterial, normalMat mgl64.Mat3, env lighting) shader {
	facing := vec(m.Facing)
	rim := vec(m.Rim)

	return func(f *fragment) (mgl64.Vec3, float64, bool) {
		n := normalMat.Mul3x1(f.normal).Normalize()
		incident := f.world.Sub(env.camPos).Normalize()

		base := math.Max(1+incident.Dot(n), 0)
		factor := mgl64.Clamp(m.Bias+m.Scale*math.Pow(base, m.Power), 0, 1)

		return lerpVec(facing, rim, factor), factor, true
	}
}

// bumpNormal tilts n against the height gradient of the bump map. The
// tangent follows increasing U (eastward), the bitangent increasing V.
func bumpNormal(bump *texture.Texture, n mgl64.Vec3, u, v, scale float64) mgl64.Vec3 {
	w, h := bump.Size()
	if w == 0 || h == 0 {
		return n
	}

	tangent := mgl64.Vec3{n.Z(), 0, -n.X()}
	if tangent.Len() < 1e-9 {
		return n
	}
	tangent = tangent.Normalize()
	bitangent := n.Cross(tangent)

	h0, _ := height(bump, u, v)
	hu, _ := height(bump, u+1/float64(w), v)
	hv, _ := height(bump, u, v+1/float64(h))

	// Slopes per unit arc length on the unit sphere.
	slopeU := (hu - h0) * float64(w) / (2 * math.Pi)
	slopeV := (hv - h0) * float64(h) / math.Pi

	return n.
		Sub(tangent.Mul(scale * slopeU)).
		Sub(bitangent.Mul(scale * slopeV)).
		Normalize()
}

func height(t *texture.Texture, u, v float64) (float64, bool) {
	c, _, ok := t.Sample(u, v)
	if !ok {
		return 0, false
	}
	return (c.R + c.G + c.B) / 3, true
}

func schlick(f0 mgl64.Vec3, dotVH float64) mgl64.Vec3 {
	k := math.Pow(1-dotVH, 5)
	return mgl64.Vec3{
		f0[0] + (1-f0[0])*k,
		f0[1] + (1-f0[1])*k,
		f0[2] + (1-f0[2])*k,
	}
}

// toneMap applies ACES filmic tone mapping to a linear color and encodes
// the result for display.
func toneMap(c mgl64.Vec3) mgl64.Vec3 {
	return vec(colorful.LinearRgb(acesFilmic(c).Elem()))
}

// acesFilmic is the fitted ACES curve, exposure 1.
func acesFilmic(c mgl64.Vec3) mgl64.Vec3 {
	c = c.Mul(1 / 0.6)

	c = mgl64.Vec3{
		0.59719*c[0] + 0.35458*c[1] + 0.04823*c[2],
		0.07600*c[0] + 0.90834*c[1] + 0.01566*c[2],
		0.02840*c[0] + 0.13383*c[1] + 0.83777*c[2],
	}

	for i := range c {
		v := c[i]
		a := v*(v+0.0245786) - 0.000090537
		b := v*(0.983729*v+0.4329510) + 0.238081
		c[i] = a / b
	}

	c = mgl64.Vec3{
		1.60475*c[0] - 0.53108*c[1] - 0.07367*c[2],
		-0.10208*c[0] + 1.10813*c[1] - 0.00605*c[2],
		-0.00327*c[0] - 0.07276*c[1] + 1.07602*c[2],
	}

	for i := range c {
		c[i] = mgl64.Clamp(c[i], 0, 1)
	}
	return c
}

// blendAdditive adds src weighted by alpha.
func blendAdditive(dst, src mgl64.Vec3, alpha float64) mgl64.Vec3 {
	return dst.Add(src.Mul(alpha))
}

// blendAlpha is standard source-over compositing.
func blendAlpha(dst, src mgl64.Vec3, alpha float64) mgl64.Vec3 {
	return src.Mul(alpha).Add(dst.Mul(1 - alpha))
}

// linear decodes a display color to linear light.
func linear(c colorful.Color) mgl64.Vec3 {
	r, g, b := c.LinearRgb()
	return mgl64.Vec3{r, g, b}
}

func vec(c colorful.Color) mgl64.Vec3 {
	return mgl64.Vec3{c.R, c.G, c.B}
}

func mulVec(a, b mgl64.Vec3) mgl64.Vec3 {
	return mgl64.Vec3{a[0] * b[0], a[1] * b[1], a[2] * b[2]}
}

func lerpVec(a, b mgl64.Vec3, t float64) mgl64.Vec3 {
	return a.Add(b.Sub(a).Mul(t))
}
