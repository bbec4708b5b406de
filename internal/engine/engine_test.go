package engine

import (
	"context"
	"errors"
	"math"
	"testing"
	"time"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/litescript/ls-globe/internal/camera"
	"github.com/litescript/ls-globe/internal/config"
	"github.com/litescript/ls-globe/internal/render"
	"github.com/litescript/ls-globe/internal/scene"
)

// recordingRenderer captures the yaw of every layer at render time.
type recordingRenderer struct {
	calls int
	yaws  [][]float64
	stars []float64
	err   error
}

func (r *recordingRenderer) Render(s *scene.Scene, _ *camera.Camera) error {
	r.calls++
	var ys []float64
	for _, l := range s.Planet.Layers {
		ys = append(ys, l.Yaw)
	}
	r.yaws = append(r.yaws, ys)
	r.stars = append(r.stars, s.Stars.Yaw)
	return r.err
}

type countingObserver struct {
	frames, resizes, errs int
}

func (o *countingObserver) FrameRendered(_ time.Duration, err error) {
	o.frames++
	if err != nil {
		o.errs++
	}
}

func (o *countingObserver) Resized() { o.resizes++ }

type sizeRecorder struct {
	w, h  int
	calls int
}

func (s *sizeRecorder) SetSize(w, h int) {
	s.w, s.h = w, h
	s.calls++
}

func newTestContext(r Renderer) *Context {
	cfg := config.Default()
	cfg.Detail = 1
	cfg.StarCount = 10
	cfg.Seed = 1
	return &Context{
		Scene:    scene.Build(cfg, nil),
		Camera:   camera.NewPerspective(camera.DefaultFOV, 1, camera.DefaultNear, camera.DefaultFar),
		Renderer: r,
	}
}

func approx(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestDriver_Step1000(t *testing.T) {
	c := newTestContext(&recordingRenderer{})
	d := NewDriver(c, nil, nil)

	for i := 0; i < 1000; i++ {
		d.Step()
	}

	want := map[scene.Role]float64{
		scene.RoleSurface:     2.0,
		scene.RoleNightLights: 2.0,
		scene.RoleClouds:      2.3,
		scene.RoleGlow:        2.0,
	}
	for role, yaw := range want {
		if got := c.Scene.Planet.Layer(role).Yaw; !approx(got, yaw) {
			t.Errorf("%s yaw = %v, want %v", role, got, yaw)
		}
	}
	if got := c.Scene.Stars.Yaw; !approx(got, -0.2) {
		t.Errorf("stars yaw = %v, want -0.2", got)
	}
	if got := c.Scene.Planet.Tilt; !approx(got, -23.4*math.Pi/180) {
		t.Errorf("tilt = %v, must not animate", got)
	}
}

func TestDriver_CycleRendersAfterStep(t *testing.T) {
	rr := &recordingRenderer{}
	obs := &countingObserver{}
	d := NewDriver(newTestContext(rr), nil, obs)

	for i := 0; i < 3; i++ {
		if err := d.Cycle(); err != nil {
			t.Fatalf("Cycle() error = %v", err)
		}
	}

	if rr.calls != 3 || d.Frames() != 3 || obs.frames != 3 {
		t.Fatalf("renders %d frames %d observed %d, want 3", rr.calls, d.Frames(), obs.frames)
	}
	// First render already sees one full step on every layer
	for i, yaw := range rr.yaws[0] {
		if yaw == 0 {
			t.Errorf("layer %d rendered before it was stepped", i)
		}
	}
	if !approx(rr.yaws[2][2], 3*0.0023) {
		t.Errorf("clouds yaw at third render = %v", rr.yaws[2][2])
	}
	if !approx(rr.stars[2], -3*0.0002) {
		t.Errorf("stars yaw at third render = %v", rr.stars[2])
	}
}

func TestDriver_CycleError(t *testing.T) {
	boom := errors.New("boom")
	obs := &countingObserver{}
	d := NewDriver(newTestContext(&recordingRenderer{err: boom}), nil, obs)

	if err := d.Cycle(); !errors.Is(err, boom) {
		t.Errorf("Cycle() error = %v, want %v", err, boom)
	}
	if obs.errs != 1 {
		t.Errorf("observed errors = %d, want 1", obs.errs)
	}
}

func TestDriver_RunCountedTicks(t *testing.T) {
	rr := &recordingRenderer{}
	d := NewDriver(newTestContext(rr), nil, nil)

	if err := d.Run(context.Background(), CountedTicker(nil, 25)); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if rr.calls != 25 {
		t.Errorf("renders = %d, want 25", rr.calls)
	}
}

func TestDriver_RunCancelled(t *testing.T) {
	rr := &recordingRenderer{}
	d := NewDriver(newTestContext(rr), nil, nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := d.Run(ctx, CountedTicker(nil, 100)); !errors.Is(err, context.Canceled) {
		t.Errorf("Run() error = %v, want context.Canceled", err)
	}
	if rr.calls != 0 {
		t.Errorf("rendered %d frames after cancellation", rr.calls)
	}
}

func TestDriver_RunStopsOnCancelWhileWaiting(t *testing.T) {
	d := NewDriver(newTestContext(&recordingRenderer{}), nil, nil)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	// One tick per second: the second wait outlives the deadline
	err := d.Run(ctx, NewRateTicker(1))
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("Run() error = %v, want deadline exceeded", err)
	}
}

func TestDriver_RunRenderError(t *testing.T) {
	boom := errors.New("boom")
	d := NewDriver(newTestContext(&recordingRenderer{err: boom}), nil, nil)

	if err := d.Run(context.Background(), CountedTicker(nil, 5)); !errors.Is(err, boom) {
		t.Errorf("Run() error = %v, want %v", err, boom)
	}
	if d.Frames() != 1 {
		t.Errorf("frames = %d, want 1", d.Frames())
	}
}

func TestDriver_RealRenderer(t *testing.T) {
	r := render.New(nil)
	c := newTestContext(r)
	v := NewViewport(c.Camera, r, nil, nil)
	v.OnResize(40, 30)

	d := NewDriver(c, nil, nil)
	if err := d.Run(context.Background(), CountedTicker(nil, 3)); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if r.Encode() == "" {
		t.Error("no frame produced")
	}
}

func TestCountedTicker(t *testing.T) {
	src := CountedTicker(nil, 2)
	ctx := context.Background()
	for i := 0; i < 2; i++ {
		if err := src.Next(ctx); err != nil {
			t.Fatalf("tick %d: %v", i, err)
		}
	}
	if err := src.Next(ctx); !errors.Is(err, ErrTicksExhausted) {
		t.Errorf("third tick error = %v", err)
	}
}

func TestViewport_OnResize(t *testing.T) {
	tests := []struct {
		name string
		w, h int
	}{
		{"landscape", 1600, 900},
		{"portrait", 600, 800},
		{"square", 500, 500},
		{"tiny", 1, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cam := camera.NewPerspective(camera.DefaultFOV, 1, camera.DefaultNear, camera.DefaultFar)
			surf := &sizeRecorder{}
			v := NewViewport(cam, surf, nil, nil)

			v.OnResize(tt.w, tt.h)

			wantAspect := float64(tt.w) / float64(tt.h)
			if cam.Aspect != wantAspect {
				t.Errorf("Aspect = %v, want %v", cam.Aspect, wantAspect)
			}
			wantProj := mgl64.Perspective(mgl64.DegToRad(camera.DefaultFOV), wantAspect, camera.DefaultNear, camera.DefaultFar)
			if !cam.Projection().ApproxEqual(wantProj) {
				t.Error("projection not refreshed")
			}
			if surf.w != tt.w || surf.h != tt.h {
				t.Errorf("surface = %dx%d, want %dx%d", surf.w, surf.h, tt.w, tt.h)
			}
		})
	}
}

func TestViewport_Idempotent(t *testing.T) {
	cam := camera.NewPerspective(camera.DefaultFOV, 1, camera.DefaultNear, camera.DefaultFar)
	surf := &sizeRecorder{}
	obs := &countingObserver{}
	v := NewViewport(cam, surf, nil, obs)

	v.OnResize(800, 600)
	aspect, proj := cam.Aspect, cam.Projection()

	v.OnResize(800, 600)
	if cam.Aspect != aspect || cam.Projection() != proj {
		t.Error("repeated resize changed the camera")
	}
	if surf.w != 800 || surf.h != 600 {
		t.Errorf("surface = %dx%d", surf.w, surf.h)
	}
	if obs.resizes != 1 {
		t.Errorf("resizes observed = %d, want 1", obs.resizes)
	}

	v.OnResize(1600, 900)
	if obs.resizes != 2 {
		t.Errorf("resizes observed = %d, want 2", obs.resizes)
	}
	if w, h := v.Size(); w != 1600 || h != 900 {
		t.Errorf("Size() = %dx%d", w, h)
	}
}

func TestViewport_KeepsCameraPose(t *testing.T) {
	cam := camera.NewPerspective(camera.DefaultFOV, 1, camera.DefaultNear, camera.DefaultFar)
	cam.Position = mgl64.Vec3{1, 2, 3}
	v := NewViewport(cam, &sizeRecorder{}, nil, nil)

	v.OnResize(1024, 768)
	if cam.Position != (mgl64.Vec3{1, 2, 3}) || cam.Target != (mgl64.Vec3{}) || cam.Up != (mgl64.Vec3{0, 1, 0}) {
		t.Errorf("camera pose changed: pos %v target %v up %v", cam.Position, cam.Target, cam.Up)
	}
}

func TestViewport_IgnoresNonPositive(t *testing.T) {
	cam := camera.NewPerspective(camera.DefaultFOV, 2, camera.DefaultNear, camera.DefaultFar)
	surf := &sizeRecorder{}
	v := NewViewport(cam, surf, nil, nil)

	v.OnResize(0, 600)
	v.OnResize(800, -1)
	if cam.Aspect != 2 || surf.calls != 0 {
		t.Errorf("aspect %v surface calls %d after invalid sizes", cam.Aspect, surf.calls)
	}
}
