// Package particle contains the flow-field particle state and its
// integration strategies.
package particle

import (
	"image/color"
	"math"
)

// Point is a recorded trajectory position.
type Point struct {
	X, Y float64
}

// Particle is the minimal mutable state advanced once per simulation step.
// Velocity is used by the uniform-mass and jolt modes, acceleration by jolt
// only. LastX/LastY track the most recently recorded trajectory point.
type Particle struct {
	X, Y         float64
	VX, VY       float64
	AX, AY       float64
	LastX, LastY float64

	GroupIndex int
	Color      color.Color
	Tolerance  float64

	Points []Point
}

// New creates a particle belonging to the given group. Position, color and
// trajectory are assigned by the engine on (re)spawn.
func New(groupIndex int, tolerance float64) *Particle {
	return &Particle{GroupIndex: groupIndex, Tolerance: tolerance}
}

// Record appends the current position to the trajectory if it has moved
// further than the tolerance from the last recorded point on either axis.
// Tolerance 0 records every step.
func (p *Particle) Record() {
	if math.Abs(p.LastX-p.X) > p.Tolerance || math.Abs(p.LastY-p.Y) > p.Tolerance {
		p.Points = append(p.Points, Point{p.X, p.Y})
		p.LastX = p.X
		p.LastY = p.Y
	}
}

// PathReady reports whether the trajectory holds enough points to render.
// Shorter trajectories are discarded silently.
func (p *Particle) PathReady() bool {
	return len(p.Points) >= 3
}

// Reset moves the particle to a fresh position, clears kinematic state and
// restarts the trajectory with a single point.
func (p *Particle) Reset(x, y float64) {
	p.X, p.Y = x, y
	p.LastX, p.LastY = x, y
	p.VX, p.VY = 0, 0
	p.AX, p.AY = 0, 0
	p.Points = p.Points[:0]
	p.Points = append(p.Points, Point{x, y})
}

// Speed returns the magnitude of the particle's velocity.
func (p *Particle) Speed() float64 {
	return math.Sqrt(p.VX*p.VX + p.VY*p.VY)
}
