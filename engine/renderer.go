package engine

import (
	"image"
	"math/rand"
	"time"

	"github.com/pthm-cable/flowfield/config"
	"github.com/pthm-cable/flowfield/field"
	"github.com/pthm-cable/flowfield/particle"
	"github.com/pthm-cable/flowfield/render"
)

// Renderer wires the field, the particle system, the canvas and the
// executor together for one run. A renderer is single-use; a new seed or
// changed configuration needs a new renderer.
type Renderer struct {
	cfg      *config.Config
	canvas   *render.Canvas
	system   *System
	executor *Executor
}

// NewRenderer assembles a run from a finalized config and a seed. The seed
// drives the noise field, the initial angle, the color palette and every
// per-group source, so equal seeds reproduce equal trajectories.
func NewRenderer(cfg *config.Config, seed int64, tracker Tracker) *Renderer {
	rng := rand.New(rand.NewSource(seed))
	turb := field.NewTurbulence(seed)

	f := field.New(field.Params{
		Width:      cfg.Canvas.Width,
		Height:     cfg.Canvas.Height,
		Quality:    cfg.Derived.Quality,
		Zoom:       cfg.Derived.ZoomFactor,
		AngleRange: cfg.Derived.AngleRange,
		Octaves:    cfg.Field.Turbulence,
	}, turb, rng)

	var palette *field.Palette
	if cfg.Derived.ColorFactor != 0 {
		w, h := f.Size()
		palette = field.NewPalette(w, h, cfg.Derived.Particle, cfg.Derived.ColorFactor, rng)
	}

	canvas := render.NewCanvas(cfg.Canvas.Width, cfg.Canvas.Height, render.Stroke{
		Width: cfg.Stroke.Width,
		Cap:   cfg.Stroke.Cap,
		Join:  cfg.Stroke.Join,
	})
	canvas.Fill(cfg.Derived.Background)

	integrator := particle.NewIntegrator(cfg.Derived.Mode, turb.Jitter2)

	system := NewSystem(Params{
		Width:         cfg.Canvas.Width,
		Height:        cfg.Canvas.Height,
		Population:    cfg.Simulation.Particles,
		GroupSize:     cfg.Simulation.GroupSize,
		Field:         f,
		Palette:       palette,
		ParticleColor: cfg.Derived.Particle,
		Integrator:    integrator,
		Force:         cfg.Simulation.Force,
		MaxVelocitySq: cfg.Derived.MaxVelocitySq,
		DepthStep:     cfg.Derived.DepthStep,
		Tolerance:     cfg.Simulation.Tolerance,
		Sink:          canvas,
	}, seed)

	return &Renderer{
		cfg:      cfg,
		canvas:   canvas,
		system:   system,
		executor: NewExecutor(system, cfg.Simulation.Iterations, tracker),
	}
}

// Render runs the simulation to completion and returns the mutated raster.
// On error the raster is partial and must be discarded.
func (r *Renderer) Render() (image.Image, error) {
	if err := r.executor.Run(); err != nil {
		return nil, err
	}
	return r.canvas.Image(), nil
}

// Reports returns the per-group counters after a successful Render.
func (r *Renderer) Reports() []GroupReport {
	reports := make([]GroupReport, r.system.GroupCount())
	for gi := range reports {
		reports[gi] = r.system.Report(gi)
	}
	return reports
}

// Durations returns per-group wall time after a successful Render.
func (r *Renderer) Durations() []time.Duration {
	return r.executor.Durations
}

// Canvas returns the shared drawing surface.
func (r *Renderer) Canvas() *render.Canvas {
	return r.canvas
}
