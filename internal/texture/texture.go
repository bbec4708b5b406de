// Package texture loads image maps in the background and samples them.
//
// A Texture is a handle that exists before its pixels do: renders that run
// while a load is in flight see an empty handle and draw without the map.
package texture

import (
	"image"
	"image/color"
	"math"
	"sync/atomic"

	colorful "github.com/lucasb-eyer/go-colorful"
)

// pixels is a decoded, non-premultiplied RGBA image in [0,1] floats.
type pixels struct {
	w, h int
	rgba []float64
}

// Texture is a handle to an image that may still be loading.
type Texture struct {
	name string
	data atomic.Pointer[pixels]
}

// New returns an empty handle.
func New(name string) *Texture {
	return &Texture{name: name}
}

// FromImage returns a handle that is already resolved to img.
func FromImage(name string, img image.Image) *Texture {
	t := New(name)
	t.set(img)
	return t
}

// Name returns the path or label the texture was created with.
func (t *Texture) Name() string {
	if t == nil {
		return ""
	}
	return t.name
}

// Ready reports whether the pixels have arrived.
func (t *Texture) Ready() bool {
	return t != nil && t.data.Load() != nil
}

// Size returns the image dimensions, or zero while loading.
func (t *Texture) Size() (w, h int) {
	if t == nil {
		return 0, 0
	}
	p := t.data.Load()
	if p == nil {
		return 0, 0
	}
	return p.w, p.h
}

// Sample returns the texel nearest to (u, v). U wraps; V is clamped with
// v=1 at the top row of the image. ok is false while the texture is unresolved.
func (t *Texture) Sample(u, v float64) (c colorful.Color, alpha float64, ok bool) {
	if t == nil {
		return colorful.Color{}, 0, false
	}
	p := t.data.Load()
	if p == nil {
		return colorful.Color{}, 0, false
	}

	u -= math.Floor(u)
	x := int(u * float64(p.w))
	if x >= p.w {
		x = p.w - 1
	}

	y := int((1 - v) * float64(p.h))
	if y < 0 {
		y = 0
	} else if y >= p.h {
		y = p.h - 1
	}

	i := (y*p.w + x) * 4
	return colorful.Color{R: p.rgba[i], G: p.rgba[i+1], B: p.rgba[i+2]}, p.rgba[i+3], true
}

// set publishes decoded pixels. Readers see either nothing or the full image.
func (t *Texture) set(img image.Image) {
	b := img.Bounds()
	p := &pixels{
		w:    b.Dx(),
		h:    b.Dy(),
		rgba: make([]float64, 0, b.Dx()*b.Dy()*4),
	}

	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			c := color.NRGBAModel.Convert(img.At(x, y)).(color.NRGBA)
			p.rgba = append(p.rgba,
				float64(c.R)/255,
				float64(c.G)/255,
				float64(c.B)/255,
				float64(c.A)/255,
			)
		}
	}

	if p.w == 0 || p.h == 0 {
		return
	}
	t.data.Store(p)
}
