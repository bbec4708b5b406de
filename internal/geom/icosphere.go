// Package geom builds the shared sphere geometry for the planet layers.
package geom

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/litescript/ls-globe/internal/astro"
)

// DefaultDetail is the subdivision level used by the planet.
const DefaultDetail = 12

// Geometry is a non-indexed triangle list: every three consecutive
// vertices form one counter-clockwise triangle.
type Geometry struct {
	Radius float64
	Detail int

	Positions []mgl64.Vec3
	Normals   []mgl64.Vec3
	UVs       []mgl64.Vec2
}

// TriangleCount returns the number of triangles.
func (g *Geometry) TriangleCount() int {
	return len(g.Positions) / 3
}

// Triangle returns the vertex indices of triangle i.
func (g *Geometry) Triangle(i int) (a, b, c int) {
	return i * 3, i*3 + 1, i*3 + 2
}

var icosahedronVertices = func() []mgl64.Vec3 {
	t := (1 + math.Sqrt(5)) / 2
	return []mgl64.Vec3{
		{-1, t, 0}, {1, t, 0}, {-1, -t, 0}, {1, -t, 0},
		{0, -1, t}, {0, 1, t}, {0, -1, -t}, {0, 1, -t},
		{t, 0, -1}, {t, 0, 1}, {-t, 0, -1}, {-t, 0, 1},
	}
}()

var icosahedronFaces = [20][3]int{
	{0, 11, 5}, {0, 5, 1}, {0, 1, 7}, {0, 7, 10}, {0, 10, 11},
	{1, 5, 9}, {5, 11, 4}, {11, 10, 2}, {10, 7, 6}, {7, 1, 8},
	{3, 9, 4}, {3, 4, 2}, {3, 2, 6}, {3, 6, 8}, {3, 8, 9},
	{4, 9, 5}, {2, 4, 11}, {6, 2, 10}, {8, 6, 7}, {9, 8, 1},
}

// NewIcosphere approximates a sphere of the given radius by subdividing
// each icosahedron face into a (detail+1)² triangle grid and pushing every
// vertex onto the sphere. Detail 0 is the bare icosahedron.
func NewIcosphere(radius float64, detail int) *Geometry {
	if detail < 0 {
		detail = 0
	}

	cols := detail + 1
	g := &Geometry{
		Radius:    radius,
		Detail:    detail,
		Positions: make([]mgl64.Vec3, 0, 20*cols*cols*3),
	}

	for _, f := range icosahedronFaces {
		g.subdivideFace(icosahedronVertices[f[0]], icosahedronVertices[f[1]], icosahedronVertices[f[2]], cols)
	}

	g.Normals = make([]mgl64.Vec3, len(g.Positions))
	for i, p := range g.Positions {
		n := p.Normalize()
		g.Normals[i] = n
		g.Positions[i] = n.Mul(radius)
	}

	g.generateUVs()
	return g
}

// subdivideFace appends the triangles of one face split into cols segments per edge.
func (g *Geometry) subdivideFace(a, b, c mgl64.Vec3, cols int) {
	grid := make([][]mgl64.Vec3, cols+1)

	for i := 0; i <= cols; i++ {
		aj := lerp(a, c, float64(i)/float64(cols))
		bj := lerp(b, c, float64(i)/float64(cols))
		rows := cols - i

		grid[i] = make([]mgl64.Vec3, rows+1)
		for j := 0; j <= rows; j++ {
			if j == 0 && i == cols {
				grid[i][j] = aj
			} else {
				grid[i][j] = lerp(aj, bj, float64(j)/float64(rows))
			}
		}
	}

	for i := 0; i < cols; i++ {
		for j := 0; j < 2*(cols-i)-1; j++ {
			k := j / 2
			if j%2 == 0 {
				g.Positions = append(g.Positions, grid[i][k+1], grid[i+1][k], grid[i][k])
			} else {
				g.Positions = append(g.Positions, grid[i][k+1], grid[i+1][k+1], grid[i+1][k])
			}
		}
	}
}

// generateUVs assigns equirectangular coordinates and repairs triangles that
// straddle the U seam or touch a pole.
func (g *Geometry) generateUVs() {
	g.UVs = make([]mgl64.Vec2, len(g.Normals))
	for i, n := range g.Normals {
		u, v := astro.EquirectUV(n)
		g.UVs[i] = mgl64.Vec2{u, v}
	}

	for t := 0; t < g.TriangleCount(); t++ {
		ia, ib, ic := g.Triangle(t)
		g.correctPoles(ia, ib, ic)
		g.correctSeam(ia, ib, ic)
	}
}

// correctSeam shifts the low side of a seam-crossing triangle past 1 so
// interpolation runs the short way round. No triangle spans half a turn,
// so a U spread above 0.5 can only mean the seam.
func (g *Geometry) correctSeam(ia, ib, ic int) {
	ua, ub, uc := g.UVs[ia][0], g.UVs[ib][0], g.UVs[ic][0]
	maxU := math.Max(ua, math.Max(ub, uc))
	minU := math.Min(ua, math.Min(ub, uc))
	if maxU-minU <= 0.5 {
		return
	}
	for _, i := range []int{ia, ib, ic} {
		if g.UVs[i][0] < 0.5 {
			g.UVs[i][0]++
		}
	}
}

// correctPoles gives a pole vertex the U of its triangle's centroid, since
// azimuth is undefined there.
func (g *Geometry) correctPoles(ia, ib, ic int) {
	centroid := g.Normals[ia].Add(g.Normals[ib]).Add(g.Normals[ic]).Mul(1.0 / 3)
	azi := astro.Azimuth(centroid)

	for _, i := range []int{ia, ib, ic} {
		n := g.Normals[i]
		if math.Abs(n.X()) < 1e-9 && math.Abs(n.Z()) < 1e-9 {
			g.UVs[i][0] = azi/(2*math.Pi) + 0.5
		}
	}
}

func lerp(a, b mgl64.Vec3, t float64) mgl64.Vec3 {
	return a.Add(b.Sub(a).Mul(t))
}
