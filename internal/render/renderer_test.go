package render

import (
	"errors"
	"image"
	"image/color"
	"math"
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/go-gl/mathgl/mgl64"
	colorful "github.com/lucasb-eyer/go-colorful"

	"github.com/litescript/ls-globe/internal/camera"
	"github.com/litescript/ls-globe/internal/config"
	"github.com/litescript/ls-globe/internal/scene"
	"github.com/litescript/ls-globe/internal/texture"
)

const (
	testWidth  = 80
	testHeight = 60
)

func testScene(stars int) *scene.Scene {
	cfg := config.Default()
	cfg.Detail = 4
	cfg.StarCount = stars
	cfg.Seed = 3
	return scene.Build(cfg, nil)
}

func testCamera() *camera.Camera {
	return camera.NewPerspective(camera.DefaultFOV, float64(testWidth)/testHeight, camera.DefaultNear, camera.DefaultFar)
}

func solid(c color.NRGBA) *texture.Texture {
	img := image.NewNRGBA(image.Rect(0, 0, 4, 4))
	for y := 0; y < 4; y++ {
		for x := 0; x < 4; x++ {
			img.SetNRGBA(x, y, c)
		}
	}
	return texture.FromImage("solid", img)
}

func brightness(c colorful.Color) float64 {
	return c.R + c.G + c.B
}

func render(t *testing.T, s *scene.Scene) *Renderer {
	t.Helper()
	r := New(nil)
	r.SetSize(testWidth, testHeight)
	if err := r.Render(s, testCamera()); err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	return r
}

func TestRender_NilInputs(t *testing.T) {
	r := New(nil)
	r.SetSize(4, 4)

	if err := r.Render(nil, testCamera()); !errors.Is(err, ErrNothingToRender) {
		t.Errorf("nil scene: err = %v", err)
	}
	if err := r.Render(testScene(0), nil); !errors.Is(err, ErrNothingToRender) {
		t.Errorf("nil camera: err = %v", err)
	}
}

func TestRender_EmptySurface(t *testing.T) {
	r := New(nil)
	if err := r.Render(testScene(10), testCamera()); err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	if r.Encode() != "" {
		t.Error("empty surface should encode to nothing")
	}
}

func TestRender_EmptyStarfield(t *testing.T) {
	r := render(t, testScene(0))

	if w, h := r.Size(); w != testWidth || h != testHeight {
		t.Errorf("Size() = %dx%d", w, h)
	}
	// Nothing but the planet: corners stay black
	if c := r.Pixel(0, 0); brightness(c) != 0 {
		t.Errorf("corner = %v, want black", c)
	}
	if c := r.Pixel(testWidth/2, testHeight/2); brightness(c) == 0 {
		t.Error("planet center is black")
	}
}

func TestRender_SunLightsLeftHemisphere(t *testing.T) {
	r := render(t, testScene(0))

	left := r.Pixel(testWidth/2-4, testHeight/2)
	right := r.Pixel(testWidth/2+4, testHeight/2)
	if brightness(left) <= brightness(right) {
		t.Errorf("left %v should be brighter than right %v", left, right)
	}
}

func TestRender_StarsVisible(t *testing.T) {
	s := testScene(2000)
	s.Planet = nil
	r := render(t, s)

	lit := 0
	for y := 0; y < testHeight; y++ {
		for x := 0; x < testWidth; x++ {
			if brightness(r.Pixel(x, y)) > 0 {
				lit++
			}
		}
	}
	if lit == 0 {
		t.Fatal("no stars drawn")
	}
	if lit > testWidth*testHeight/4 {
		t.Errorf("%d pixels lit, stars should be sparse", lit)
	}
}

func TestRender_PlanetOccludesStars(t *testing.T) {
	withStars := render(t, testScene(2000))
	without := render(t, testScene(0))

	c := withStars.Pixel(testWidth/2, testHeight/2)
	if c != without.Pixel(testWidth/2, testHeight/2) {
		t.Errorf("star leaked through the planet at center: %v", c)
	}
}

func TestRender_MissingMapSkipsLayer(t *testing.T) {
	full := render(t, testScene(0))

	s := testScene(0)
	var kept []*scene.Layer
	for _, l := range s.Planet.Layers {
		if l.Role != scene.RoleNightLights && l.Role != scene.RoleClouds {
			kept = append(kept, l)
		}
	}
	s.Planet.Layers = kept
	trimmed := render(t, s)

	for y := 0; y < testHeight; y++ {
		for x := 0; x < testWidth; x++ {
			if full.Pixel(x, y) != trimmed.Pixel(x, y) {
				t.Fatalf("pixel (%d,%d) differs: unresolved layers must not draw", x, y)
			}
		}
	}
}

func TestRender_NightLightsAdd(t *testing.T) {
	before := render(t, testScene(0))

	s := testScene(0)
	s.Planet.Layer(scene.RoleNightLights).Material.(*scene.BasicMaterial).Map =
		solid(color.NRGBA{R: 255, A: 255})
	after := render(t, s)

	x, y := testWidth/2, testHeight/2
	if after.Pixel(x, y).R <= before.Pixel(x, y).R {
		t.Errorf("red = %v, want more than %v", after.Pixel(x, y).R, before.Pixel(x, y).R)
	}
}

func TestRender_CloudsBlend(t *testing.T) {
	s := testScene(0)
	s.Planet.Layer(scene.RoleSurface).Material.(*scene.PhongMaterial).Color = colorful.Color{}
	clouds := s.Planet.Layer(scene.RoleClouds).Material.(*scene.StandardMaterial)
	clouds.Map = solid(color.NRGBA{R: 255, G: 255, B: 255, A: 255})
	clouds.AlphaMap = solid(color.NRGBA{A: 255}) // green 0: fully clear
	bare := render(t, s)

	clouds.AlphaMap = nil
	covered := render(t, s)

	// White clouds over a black surface brighten the sunlit side.
	x, y := testWidth/2-2, testHeight/2
	if brightness(covered.Pixel(x, y)) <= brightness(bare.Pixel(x, y)) {
		t.Errorf("clouds did not change pixel: %v vs %v", covered.Pixel(x, y), bare.Pixel(x, y))
	}
}

func TestRender_ClearsBetweenFrames(t *testing.T) {
	r := render(t, testScene(0))
	s := testScene(0)
	s.Planet = nil
	if err := r.Render(s, testCamera()); err != nil {
		t.Fatal(err)
	}
	if c := r.Pixel(testWidth/2, testHeight/2); brightness(c) != 0 {
		t.Errorf("previous frame leaked: %v", c)
	}
}

func TestEncode_Dimensions(t *testing.T) {
	r := New(nil)
	r.SetSize(testWidth, testHeight-1) // odd height pads the last row
	if err := r.Render(testScene(500), testCamera()); err != nil {
		t.Fatal(err)
	}

	out := r.Encode()
	lines := strings.Split(out, "\n")
	if len(lines) != testHeight/2 {
		t.Fatalf("got %d lines, want %d", len(lines), testHeight/2)
	}
	for i, line := range lines {
		if w := lipgloss.Width(line); w != testWidth {
			t.Errorf("line %d width = %d, want %d", i, w, testWidth)
		}
	}
	if !strings.Contains(out, halfBlock) {
		t.Error("frame has no drawn cells")
	}
}

func TestSetSize(t *testing.T) {
	r := New(nil)
	r.SetSize(-3, 10)
	if w, h := r.Size(); w != 0 || h != 10 {
		t.Errorf("Size() = %dx%d", w, h)
	}
	if c := r.Pixel(100, 100); brightness(c) != 0 {
		t.Error("out of range pixel should be black")
	}
}

func TestACESFilmic(t *testing.T) {
	if c := acesFilmic(mgl64.Vec3{}); c != (mgl64.Vec3{}) {
		t.Errorf("black maps to %v", c)
	}

	prev := -1.0
	for _, v := range []float64{0.01, 0.1, 0.5, 1, 2, 8, 100} {
		c := acesFilmic(mgl64.Vec3{v, v, v})
		for i := range c {
			if c[i] < 0 || c[i] > 1 {
				t.Fatalf("aces(%v) = %v outside [0,1]", v, c)
			}
		}
		if c[1] <= prev {
			t.Errorf("aces not increasing at %v: %v <= %v", v, c[1], prev)
		}
		prev = c[1]
	}
}

func TestBlend(t *testing.T) {
	dst := mgl64.Vec3{0.2, 0.4, 0.6}
	src := mgl64.Vec3{1, 0, 0.5}

	tests := []struct {
		name  string
		fn    func(dst, src mgl64.Vec3, alpha float64) mgl64.Vec3
		alpha float64
		want  mgl64.Vec3
	}{
		{"additive opaque", blendAdditive, 1, mgl64.Vec3{1.2, 0.4, 1.1}},
		{"additive half", blendAdditive, 0.5, mgl64.Vec3{0.7, 0.4, 0.85}},
		{"additive zero", blendAdditive, 0, dst},
		{"alpha opaque", blendAlpha, 1, src},
		{"alpha clear", blendAlpha, 0, dst},
		{"alpha 0.8", blendAlpha, 0.8, mgl64.Vec3{0.84, 0.08, 0.52}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.fn(dst, src, tt.alpha)
			for i := range got {
				if math.Abs(got[i]-tt.want[i]) > 1e-12 {
					t.Errorf("got %v, want %v", got, tt.want)
					break
				}
			}
		})
	}
}

func TestFresnelShader(t *testing.T) {
	m := &scene.FresnelMaterial{
		Rim:    colorful.Color{R: 0, G: 0.5, B: 1},
		Facing: colorful.Color{},
		Bias:   0.1,
		Scale:  1,
		Power:  4,
	}
	env := lighting{camPos: mgl64.Vec3{0, 0, 5}}
	shade := fresnelShader(m, mgl64.Ident3(), env)

	// Facing the camera: factor is the bias alone
	_, a, _ := shade(&fragment{world: mgl64.Vec3{0, 0, 1}, normal: mgl64.Vec3{0, 0, 1}})
	if math.Abs(a-0.1) > 1e-9 {
		t.Errorf("center factor = %v, want 0.1", a)
	}

	// Grazing: factor saturates at 1 and the color reaches the rim
	c, a, _ := shade(&fragment{world: mgl64.Vec3{1, 0, 0}, normal: mgl64.Vec3{1, 0, 0}})
	if a != 1 {
		t.Errorf("limb factor = %v, want 1", a)
	}
	if math.Abs(c[2]-1) > 1e-9 {
		t.Errorf("limb color = %v, want rim", c)
	}
}
