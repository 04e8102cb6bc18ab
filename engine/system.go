package engine

import (
	"image/color"
	"math"

	"github.com/pthm-cable/flowfield/field"
	"github.com/pthm-cable/flowfield/particle"
)

// Pad expands the canvas bounds on every side so particles die offscreen
// instead of leaving visibly clipped strokes at the edges.
const Pad = 100

// Rect is an axis-aligned bounding rectangle.
type Rect struct {
	X, Y, W, H float64
}

// Contains reports whether the point lies inside the rectangle.
func (r Rect) Contains(x, y float64) bool {
	return x >= r.X && x < r.X+r.W && y >= r.Y && y < r.Y+r.H
}

// Sink receives finished trajectories. Implementations must be safe for
// concurrent use by all group tasks.
type Sink interface {
	DrawPath(points []particle.Point, col color.Color)
}

// Params configures a System. All fields are read-only once the system is
// constructed; group tasks never reach back into shared mutable state.
type Params struct {
	Width, Height int // canvas dimensions

	Population int // total particle count
	GroupSize  int // particles per group (last group may be smaller)

	Field   *field.Field
	Palette *field.Palette // nil = flat particle color

	ParticleColor color.NRGBA
	Integrator    *particle.Integrator

	Force         float64 // displacement magnitude per step
	MaxVelocitySq float64 // squared speed bound for the elastic clamp
	DepthStep     float64 // per-step depth increment (wind)
	Tolerance     float64 // trajectory decimation distance

	Sink Sink
}

// System owns the particle groups and advances them one tick at a time.
// Step and Flush for a given group index must only ever be called from
// that group's task.
type System struct {
	p      Params
	bounds Rect
	groups []*Group
}

// NewSystem partitions the population into ceil(population/groupSize)
// groups and spawns every particle. Spawn placement draws from per-group
// sources derived from seed, so a fixed seed reproduces all trajectories
// regardless of how the groups are later scheduled.
func NewSystem(p Params, seed int64) *System {
	s := &System{
		p: p,
		bounds: Rect{
			X: -Pad,
			Y: -Pad,
			W: float64(p.Width) + 2*Pad,
			H: float64(p.Height) + 2*Pad,
		},
	}

	groupCount := (p.Population + p.GroupSize - 1) / p.GroupSize
	s.groups = make([]*Group, groupCount)

	remaining := p.Population
	for gi := range s.groups {
		size := p.GroupSize
		if size > remaining {
			size = remaining
		}
		remaining -= size

		g := &Group{
			index: gi,
			rng:   newGroupRand(seed, gi),
		}
		g.report.Group = gi
		g.report.Particles = size

		g.particles = make([]*particle.Particle, size)
		for i := range g.particles {
			pt := particle.New(gi, p.Tolerance)
			s.spawn(g, pt)
			g.particles[i] = pt
		}
		s.groups[gi] = g
	}

	return s
}

// GroupCount returns the number of groups.
func (s *System) GroupCount() int {
	return len(s.groups)
}

// Group returns the group at the given index.
func (s *System) Group(gi int) *Group {
	return s.groups[gi]
}

// Bounds returns the padded death rectangle.
func (s *System) Bounds() Rect {
	return s.bounds
}

// Step advances every particle in the group by one tick, then advances the
// group's depth accumulator.
func (s *System) Step(gi int) {
	g := s.groups[gi]
	for _, pt := range g.particles {
		if !s.bounds.Contains(pt.X, pt.Y) {
			s.respawn(g, pt)
		}
		s.update(g, pt)
	}
	g.depth += s.p.DepthStep
	g.report.Steps++
}

// Flush draws every still-renderable trajectory in the group. Called once
// by the group's task after its final iteration.
func (s *System) Flush(gi int) {
	g := s.groups[gi]
	for _, pt := range g.particles {
		if pt.PathReady() {
			s.p.Sink.DrawPath(pt.Points, pt.Color)
			g.report.PathsDrawn++
		}
	}
}

// Report snapshots the group's counters. Only call after the group's task
// has finished. PointsRecorded counts Record appends; the single seed point
// a trajectory starts with is not a recorded point.
func (s *System) Report(gi int) GroupReport {
	return s.groups[gi].report
}

// update advances one particle: sample the field, integrate the
// displacement, clamp, record.
func (s *System) update(g *Group, pt *particle.Particle) {
	cx, cy := s.p.Field.Cell(pt.X, pt.Y)
	angle := s.p.Field.AngleAt(cx, cy, g.depth)

	vx, vy := pt.VX, pt.VY
	dx := s.p.Force * math.Cos(angle)
	dy := s.p.Force * math.Sin(angle)
	s.p.Integrator.Apply(pt, dx, dy)

	// Elastic clamp: the velocity update is rolled back, the position
	// advance from this step stands. Keeps directional continuity.
	if pt.VX*pt.VX+pt.VY*pt.VY > s.p.MaxVelocitySq {
		pt.VX, pt.VY = vx, vy
	}

	assertFinite(pt)

	before := len(pt.Points)
	pt.Record()
	if len(pt.Points) > before {
		g.report.PointsRecorded++
	}
}

// respawn flushes a dead particle's trajectory if renderable, then places
// it uniformly at random inside the padded bounds with a fresh color.
func (s *System) respawn(g *Group, pt *particle.Particle) {
	if pt.PathReady() {
		s.p.Sink.DrawPath(pt.Points, pt.Color)
		g.report.PathsDrawn++
	}
	g.report.Respawns++
	s.spawn(g, pt)
}

// spawn (re)initializes a particle in place.
func (s *System) spawn(g *Group, pt *particle.Particle) {
	x := s.bounds.X + s.bounds.W*g.rng.Float64()
	y := s.bounds.Y + s.bounds.H*g.rng.Float64()
	pt.Reset(x, y)
	pt.Color = s.colorAt(x, y)
}

func (s *System) colorAt(x, y float64) color.NRGBA {
	if s.p.Palette == nil {
		return s.p.ParticleColor
	}
	cx, cy := s.p.Field.Cell(x, y)
	return s.p.Palette.At(cx, cy)
}
