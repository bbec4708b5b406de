// Package starfield generates the background point cloud of stars.
package starfield

import (
	"math/rand/v2"

	"github.com/go-gl/mathgl/mgl64"
	colorful "github.com/lucasb-eyer/go-colorful"

	"github.com/litescript/ls-globe/internal/astro"
)

const (
	// MinRadius and MaxRadius bound the star shell: |p| ∈ [MinRadius, MaxRadius).
	MinRadius = 25.0
	MaxRadius = 50.0

	// Hue and Saturation are fixed for every star (HSL, hue as a 0-1 fraction).
	// Only lightness varies, which keeps the field a pale blue-white.
	Hue        = 0.6
	Saturation = 0.2

	// DefaultCount is the number of stars in the default scene.
	DefaultCount = 2000
)

// Point is a single star.
type Point struct {
	Position mgl64.Vec3
	Color    colorful.Color
}

// Field is an immutable set of stars held in parallel position and color
// buffers, three float64 components per star.
type Field struct {
	positions []float64
	colors    []float64
}

// Generate places count stars uniformly over the sphere's solid angle in a
// radius band [MinRadius, MaxRadius), each with an independent lightness.
//
// A nil rng draws from an unseeded source, so placements differ run to run.
// A count of zero or less yields an empty field.
func Generate(count int, rng *rand.Rand) *Field {
	if count < 0 {
		count = 0
	}
	if rng == nil {
		rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}

	f := &Field{
		positions: make([]float64, 0, count*3),
		colors:    make([]float64, 0, count*3),
	}

	for i := 0; i < count; i++ {
		pos := randomSpherePoint(rng)
		col := colorful.Hsl(Hue*360, Saturation, rng.Float64())

		f.positions = append(f.positions, pos.X(), pos.Y(), pos.Z())
		f.colors = append(f.colors, col.R, col.G, col.B)
	}

	return f
}

// randomSpherePoint draws one position in the radius band.
func randomSpherePoint(rng *rand.Rand) mgl64.Vec3 {
	radius := MinRadius + rng.Float64()*(MaxRadius-MinRadius)
	theta, phi := astro.UniformSphereAngles(rng.Float64(), rng.Float64())
	return astro.SphericalToCartesian(radius, theta, phi)
}

// Len returns the number of stars.
func (f *Field) Len() int {
	if f == nil {
		return 0
	}
	return len(f.positions) / 3
}

// At returns the i-th star.
func (f *Field) At(i int) Point {
	j := i * 3
	return Point{
		Position: mgl64.Vec3{
			f.positions[j],
			f.positions[j+1],
			f.positions[j+2],
		},
		Color: colorful.Color{
			R: f.colors[j],
			G: f.colors[j+1],
			B: f.colors[j+2],
		},
	}
}

// Positions returns a copy of the position buffer (x, y, z per star).
func (f *Field) Positions() []float64 {
	if f == nil {
		return nil
	}
	return append([]float64(nil), f.positions...)
}

// Colors returns a copy of the color buffer (r, g, b per star).
func (f *Field) Colors() []float64 {
	if f == nil {
		return nil
	}
	return append([]float64(nil), f.colors...)
}
