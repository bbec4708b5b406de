package engine

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/litescript/ls-globe/internal/logging"
)

// FrameObserver is told about every rendered frame.
type FrameObserver interface {
	FrameRendered(d time.Duration, err error)
}

// Driver advances the scene and renders it, one cycle per tick.
//
// Spin increments are applied per cycle, not per unit of wall time, so the
// apparent rotation speed follows the tick rate.
type Driver struct {
	ctx    *Context
	log    *logging.Logger
	obs    FrameObserver
	frames uint64
}

// NewDriver creates a driver over c. obs may be nil.
func NewDriver(c *Context, log *logging.Logger, obs FrameObserver) *Driver {
	if log == nil {
		log = logging.Discard()
	}
	return &Driver{ctx: c, log: log, obs: obs}
}

// Step advances every planet layer and the starfield by one cycle of spin.
// The axial tilt is left alone.
func (d *Driver) Step() {
	s := d.ctx.Scene
	if s.Planet != nil {
		for _, l := range s.Planet.Layers {
			l.Advance()
		}
	}
	if s.Stars != nil {
		s.Stars.Advance()
	}
}

// Cycle steps the scene and then renders it once. All mutations land
// before the render starts.
func (d *Driver) Cycle() error {
	d.Step()

	start := time.Now()
	err := d.ctx.Renderer.Render(d.ctx.Scene, d.ctx.Camera)
	d.frames++
	if d.obs != nil {
		d.obs.FrameRendered(time.Since(start), err)
	}
	if err != nil {
		return fmt.Errorf("render frame %d: %w", d.frames, err)
	}
	return nil
}

// Frames returns the number of completed cycles.
func (d *Driver) Frames() uint64 {
	return d.frames
}

// Run cycles once per tick from src until ctx is cancelled, the source
// runs out, or a render fails. Cancellation returns ctx.Err(); an
// exhausted source returns nil.
func (d *Driver) Run(ctx context.Context, src TickSource) error {
	d.log.Debug("animation loop started")
	defer func() { d.log.Debug("animation loop stopped after %d frames", d.frames) }()

	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := src.Next(ctx); err != nil {
			if errors.Is(err, ErrTicksExhausted) {
				return nil
			}
			if ctxErr := ctx.Err(); ctxErr != nil {
				return ctxErr
			}
			return fmt.Errorf("wait for tick: %w", err)
		}
		if err := d.Cycle(); err != nil {
			return err
		}
	}
}
