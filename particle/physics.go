package particle

import "fmt"

// Mode selects the physics integration strategy. Exactly one mode is active
// per run; switching modes means re-running the simulation from scratch.
type Mode int

const (
	// NoMass applies the field displacement to the position directly.
	NoMass Mode = iota
	// UniformMass accumulates the displacement into velocity first
	// (explicit Euler with implicit unit mass).
	UniformMass
	// Jolt accumulates through acceleration as well, for erratic motion.
	Jolt
	// Thicken is NoMass plus a noise-sampled jitter, producing fuzzier strokes.
	Thicken
)

// jitterScale amplifies the Thicken noise term.
const jitterScale = 10

var modeNames = map[Mode]string{
	NoMass:      "no-mass",
	UniformMass: "uniform-mass",
	Jolt:        "jolt",
	Thicken:     "thicken",
}

// String returns the config-file name of the mode.
func (m Mode) String() string {
	if s, ok := modeNames[m]; ok {
		return s
	}
	return fmt.Sprintf("Mode(%d)", int(m))
}

// ParseMode resolves a config-file mode name.
func ParseMode(s string) (Mode, error) {
	for m, name := range modeNames {
		if name == s {
			return m, nil
		}
	}
	return 0, fmt.Errorf("unknown physics mode %q", s)
}

// JitterFunc samples 2D coherent noise in a bounded range, used by Thicken.
type JitterFunc func(x, y float64) float64

// updateFunc mutates a particle's kinematic state given a field displacement.
type updateFunc func(p *Particle, dx, dy, jx, jy float64)

// updateTable dispatches the closed set of modes. No state is shared
// between variants.
var updateTable = [...]updateFunc{
	NoMass: func(p *Particle, dx, dy, _, _ float64) {
		p.X += dx
		p.Y += dy
	},
	UniformMass: func(p *Particle, dx, dy, _, _ float64) {
		p.VX += dx
		p.VY += dy
		p.X += p.VX
		p.Y += p.VY
	},
	Jolt: func(p *Particle, dx, dy, _, _ float64) {
		p.AX += dx
		p.AY += dy
		p.VX += p.AX
		p.VY += p.AY
		p.X += p.VX
		p.Y += p.VY
	},
	Thicken: func(p *Particle, dx, dy, jx, jy float64) {
		p.X += dx + jx
		p.Y += dy + jy
	},
}

// Integrator applies field displacements to particles under a fixed mode.
type Integrator struct {
	mode   Mode
	jitter JitterFunc
}

// NewIntegrator creates an integrator for the given mode. jitter is only
// consulted by Thicken and may be nil for the other modes.
func NewIntegrator(mode Mode, jitter JitterFunc) *Integrator {
	if mode == Thicken && jitter == nil {
		panic("particle: Thicken integrator requires a jitter source")
	}
	return &Integrator{mode: mode, jitter: jitter}
}

// Mode returns the active integration mode.
func (in *Integrator) Mode() Mode {
	return in.mode
}

// Apply advances the particle's kinematic state by one displacement.
func (in *Integrator) Apply(p *Particle, dx, dy float64) {
	var jx, jy float64
	if in.mode == Thicken {
		j := in.jitter(dx, dy) * jitterScale
		jx, jy = j, j
	}
	updateTable[in.mode](p, dx, dy, jx, jy)
}
