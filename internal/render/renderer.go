// Package render rasterizes a scene into a pixel buffer in software and
// encodes the buffer for a terminal using half-block cells.
package render

import (
	"errors"
	"math"

	"github.com/go-gl/mathgl/mgl64"
	colorful "github.com/lucasb-eyer/go-colorful"

	"github.com/litescript/ls-globe/internal/camera"
	"github.com/litescript/ls-globe/internal/logging"
	"github.com/litescript/ls-globe/internal/scene"
)

// ErrNothingToRender is returned when Render is called without a scene or camera.
var ErrNothingToRender = errors.New("render: nil scene or camera")

// vertex is a transformed vertex awaiting rasterization.
type vertex struct {
	clip mgl64.Vec4
	frag fragment
}

// Renderer draws scenes into an RGB buffer with a depth buffer. Color values
// are display-encoded, one per pixel; depth is NDC z with smaller nearer.
//
// A Renderer is not safe for concurrent use.
type Renderer struct {
	log *logging.Logger

	width, height int
	color         []mgl64.Vec3
	depth         []float64

	verts []vertex
}

// New creates a renderer with an empty surface.
func New(log *logging.Logger) *Renderer {
	if log == nil {
		log = logging.Discard()
	}
	return &Renderer{log: log}
}

// SetSize resizes the drawing surface in pixels. Non-positive sizes leave
// an empty surface. Previous contents are discarded.
func (r *Renderer) SetSize(width, height int) {
	if width < 0 {
		width = 0
	}
	if height < 0 {
		height = 0
	}
	if width == r.width && height == r.height {
		return
	}

	r.width, r.height = width, height
	r.color = make([]mgl64.Vec3, width*height)
	r.depth = make([]float64, width*height)
	r.log.Debug("surface resized to %dx%d", width, height)
}

// Size returns the surface size in pixels.
func (r *Renderer) Size() (width, height int) {
	return r.width, r.height
}

// Pixel returns the display color at (x, y), clamped to the gamut.
// Out-of-range coordinates read as black.
func (r *Renderer) Pixel(x, y int) colorful.Color {
	if x < 0 || y < 0 || x >= r.width || y >= r.height {
		return colorful.Color{}
	}
	c := r.color[y*r.width+x]
	return colorful.Color{R: c[0], G: c[1], B: c[2]}.Clamped()
}

// Render draws one frame of s as seen from cam: stars first, then each
// planet layer in order, compositing by material blending mode.
func (r *Renderer) Render(s *scene.Scene, cam *camera.Camera) error {
	if s == nil || cam == nil {
		return ErrNothingToRender
	}

	r.clear()
	if r.width == 0 || r.height == 0 {
		return nil
	}

	view := cam.View()
	proj := cam.Projection()
	viewProj := proj.Mul4(view)

	if s.Stars != nil {
		r.drawStars(s.Stars, view, proj, cam.Near)
	}

	if s.Planet != nil {
		env := newLighting(s, cam.Position)
		parent := s.Planet.Matrix()
		for _, l := range s.Planet.Layers {
			r.drawLayer(l, parent, viewProj, cam.Near, env)
		}
	}
	return nil
}

func (r *Renderer) clear() {
	for i := range r.color {
		r.color[i] = mgl64.Vec3{}
		r.depth[i] = math.Inf(1)
	}
}

func (r *Renderer) drawLayer(l *scene.Layer, parent, viewProj mgl64.Mat4, near float64, env lighting) {
	if l == nil || l.Geometry == nil || l.Material == nil {
		return
	}

	model := l.Model(parent)
	shade := shaderFor(l.Material, model.Mat3(), env)
	if shade == nil {
		r.log.Debug("no shader for %s material %T", l.Role, l.Material)
		return
	}

	g := l.Geometry
	r.verts = r.verts[:0]
	for i, p := range g.Positions {
		world := model.Mul4x1(p.Vec4(1))
		r.verts = append(r.verts, vertex{
			clip: viewProj.Mul4x1(world),
			frag: fragment{
				world:  world.Vec3(),
				normal: g.Normals[i],
				uv:     g.UVs[i],
			},
		})
	}

	mode := compositeMode(l.Material)
	for t := 0; t < g.TriangleCount(); t++ {
		a, b, c := g.Triangle(t)
		r.triangle(&r.verts[a], &r.verts[b], &r.verts[c], near, shade, mode)
	}
}

// composite is how a fragment lands on the color buffer.
type composite int

const (
	compositeReplace composite = iota
	compositeAlpha
	compositeAdd
)

func compositeMode(m scene.Material) composite {
	switch {
	case m.Blending() == scene.BlendAdditive:
		return compositeAdd
	case m.Transparent():
		return compositeAlpha
	default:
		return compositeReplace
	}
}

func (r *Renderer) write(i int, c mgl64.Vec3, alpha float64, mode composite) {
	switch mode {
	case compositeAdd:
		r.color[i] = blendAdditive(r.color[i], c, alpha)
	case compositeAlpha:
		r.color[i] = blendAlpha(r.color[i], c, alpha)
	default:
		r.color[i] = c
	}
}

// drawStars splats each star as a screen-aligned square whose size shrinks
// with distance. Stars at least one pixel wide sample the sprite; smaller
// ones draw a single pixel.
func (r *Renderer) drawStars(stars *scene.StarNode, view, proj mgl64.Mat4, near float64) {
	n := stars.Field.Len()
	if n == 0 {
		return
	}

	modelView := view.Mul4(stars.Model())
	scale := float64(r.height) / 2
	sprite := stars.Material.Sprite

	for i := 0; i < n; i++ {
		star := stars.Field.At(i)

		eye := modelView.Mul4x1(star.Position.Vec4(1))
		dist := -eye.Z()
		if dist < near {
			continue
		}
		clip := proj.Mul4x1(eye)
		ndc := clip.Vec3().Mul(1 / clip.W())
		if ndc.Z() < -1 || ndc.Z() > 1 {
			continue
		}

		sx, sy := r.toScreen(ndc)
		size := stars.Material.Size * scale / dist
		tint := linear(star.Color)

		if size <= 1 {
			x, y := int(math.Floor(sx)), int(math.Floor(sy))
			alpha := 1.0
			col := tint
			if c, a, ok := sprite.Sample(0.5, 0.5); ok {
				col = mulVec(col, linear(c))
				alpha = a
			}
			r.plot(x, y, ndc.Z(), toneMap(col), alpha)
			continue
		}

		half := size / 2
		x0, x1 := int(math.Floor(sx-half)), int(math.Ceil(sx+half))
		y0, y1 := int(math.Floor(sy-half)), int(math.Ceil(sy+half))
		for y := y0; y < y1; y++ {
			for x := x0; x < x1; x++ {
				s := (float64(x) + 0.5 - (sx - half)) / size
				t := (float64(y) + 0.5 - (sy - half)) / size
				if s < 0 || s > 1 || t < 0 || t > 1 {
					continue
				}
				alpha := 1.0
				col := tint
				if c, a, ok := sprite.Sample(s, 1-t); ok {
					col = mulVec(col, linear(c))
					alpha = a
				}
				r.plot(x, y, ndc.Z(), toneMap(col), alpha)
			}
		}
	}
}

func (r *Renderer) plot(x, y int, z float64, c mgl64.Vec3, alpha float64) {
	if x < 0 || y < 0 || x >= r.width || y >= r.height || alpha <= 0 {
		return
	}
	i := y*r.width + x
	if z > r.depth[i] {
		return
	}
	r.depth[i] = z
	r.write(i, c, alpha, compositeAlpha)
}

// toScreen maps NDC to pixel coordinates with y growing downward.
func (r *Renderer) toScreen(ndc mgl64.Vec3) (x, y float64) {
	x = (ndc.X() + 1) / 2 * float64(r.width)
	y = (1 - ndc.Y()) / 2 * float64(r.height)
	return x, y
}
