// Package field derives flow directions from layered coherent noise.
package field

import (
	opensimplex "github.com/ojrac/opensimplex-go"
)

// Turbulence layers coherent noise into a fractal sum. A single octave
// produces smooth, repetitive directions; stacking octaves at doubling
// frequencies yields the filament-like structure.
type Turbulence struct {
	noise opensimplex.Noise
}

// NewTurbulence creates a turbulence source from a seed.
func NewTurbulence(seed int64) *Turbulence {
	return &Turbulence{noise: opensimplex.New(seed)}
}

// Turbulence3 returns the fractal noise sum at (x, y, z) over the given
// octave count. Each octave doubles the frequency and halves the weight,
// so the result stays within (-2, 2) for any octave count.
func (t *Turbulence) Turbulence3(x, y, z float64, octaves int) float64 {
	var sum float64
	f := 1.0
	for i := 0; i < octaves; i++ {
		sum += t.noise.Eval3(x*f, y*f, z*f) / f
		f *= 2
	}
	return sum
}

// Jitter2 samples single-octave 2D noise in [-1, 1]. Used by the thicken
// integration mode to fuzz displacements.
func (t *Turbulence) Jitter2(x, y float64) float64 {
	return t.noise.Eval2(x, y)
}
