package render

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// screenVertex is a vertex after the perspective divide.
type screenVertex struct {
	x, y, z float64
	invW    float64
}

// edge returns twice the signed area of triangle (a, b, c).
func edge(ax, ay, bx, by, cx, cy float64) float64 {
	return (bx-ax)*(cy-ay) - (by-ay)*(cx-ax)
}

func (r *Renderer) project(v *vertex) screenVertex {
	invW := 1 / v.clip.W()
	ndc := v.clip.Vec3().Mul(invW)
	x, y := r.toScreen(ndc)
	return screenVertex{x: x, y: y, z: ndc.Z(), invW: invW}
}

// triangle rasterizes one triangle at pixel centers. Back faces are culled,
// depth passes when less than or equal to the stored value, and varyings
// are interpolated perspective-correctly.
func (r *Renderer) triangle(a, b, c *vertex, near float64, shade shader, mode composite) {
	// Reject anything reaching behind the near plane rather than clipping.
	if a.clip.W() < near || b.clip.W() < near || c.clip.W() < near {
		return
	}

	pa, pb, pc := r.project(a), r.project(b), r.project(c)

	area := edge(pa.x, pa.y, pb.x, pb.y, pc.x, pc.y)
	// Counter-clockwise in NDC turns clockwise once y points down.
	if area >= 0 {
		return
	}

	minX := int(math.Max(math.Floor(math.Min(pa.x, math.Min(pb.x, pc.x))), 0))
	maxX := int(math.Min(math.Ceil(math.Max(pa.x, math.Max(pb.x, pc.x))), float64(r.width-1)))
	minY := int(math.Max(math.Floor(math.Min(pa.y, math.Min(pb.y, pc.y))), 0))
	maxY := int(math.Min(math.Ceil(math.Max(pa.y, math.Max(pb.y, pc.y))), float64(r.height-1)))

	for y := minY; y <= maxY; y++ {
		py := float64(y) + 0.5
		for x := minX; x <= maxX; x++ {
			px := float64(x) + 0.5

			l0 := edge(pb.x, pb.y, pc.x, pc.y, px, py) / area
			l1 := edge(pc.x, pc.y, pa.x, pa.y, px, py) / area
			l2 := edge(pa.x, pa.y, pb.x, pb.y, px, py) / area
			if l0 < 0 || l1 < 0 || l2 < 0 {
				continue
			}

			z := l0*pa.z + l1*pb.z + l2*pc.z
			if z < -1 || z > 1 {
				continue
			}
			i := y*r.width + x
			if z > r.depth[i] {
				continue
			}

			q0, q1, q2 := l0*pa.invW, l1*pb.invW, l2*pc.invW
			sum := q0 + q1 + q2
			q0, q1, q2 = q0/sum, q1/sum, q2/sum

			f := fragment{
				world:  weigh3(a.frag.world, b.frag.world, c.frag.world, q0, q1, q2),
				normal: weigh3(a.frag.normal, b.frag.normal, c.frag.normal, q0, q1, q2),
				uv: mgl64.Vec2{
					q0*a.frag.uv[0] + q1*b.frag.uv[0] + q2*c.frag.uv[0],
					q0*a.frag.uv[1] + q1*b.frag.uv[1] + q2*c.frag.uv[1],
				},
			}

			col, alpha, ok := shade(&f)
			if !ok {
				continue
			}
			r.depth[i] = z
			r.write(i, col, alpha, mode)
		}
	}
}

func weigh3(a, b, c mgl64.Vec3, wa, wb, wc float64) mgl64.Vec3 {
	return a.Mul(wa).Add(b.Mul(wb)).Add(c.Mul(wc))
}
