package field

import (
	"math"
	"math/rand"
)

// Params sizes and shapes a direction field.
type Params struct {
	Width, Height int     // canvas dimensions in pixels
	Quality       float64 // grid fidelity factor derived from smoothness and zoom
	Zoom          float64 // sampling divisor; larger values stretch the pattern
	AngleRange    float64 // turbulence-to-angle scale (π · variance)
	Octaves       int     // turbulence octave count (1..8)
}

// Field maps grid cells plus a depth coordinate to flow directions. The grid
// resolution is independent of the canvas resolution: Quality trades curve
// smoothness against memory and sampling cost.
type Field struct {
	w, h      int
	density   float64
	zoom      float64
	octaves   int
	rangeMul  float64
	initTheta float64
	turb      *Turbulence
}

// New builds a field over the canvas described by p. The turbulence source
// and the run-fixed initial angle both derive from the caller's seed state,
// so a fixed seed reproduces the field exactly.
func New(p Params, turb *Turbulence, rng *rand.Rand) *Field {
	w := int(float64(p.Width)*p.Quality) + 1
	density := float64(w) / float64(p.Width)
	h := int(float64(p.Height) * density)
	if h < 1 {
		h = 1
	}

	return &Field{
		w:         w,
		h:         h,
		density:   density,
		zoom:      p.Zoom,
		octaves:   p.Octaves,
		rangeMul:  p.AngleRange,
		initTheta: rng.Float64() * 2 * math.Pi,
		turb:      turb,
	}
}

// Size returns the grid dimensions. Both are always at least 1.
func (f *Field) Size() (w, h int) {
	return f.w, f.h
}

// Density returns the grid cells per canvas pixel.
func (f *Field) Density() float64 {
	return f.density
}

// Cell clamps a canvas position into grid coordinates.
func (f *Field) Cell(x, y float64) (cx, cy int) {
	cx = clampInt(int(x*f.density), 0, f.w-1)
	cy = clampInt(int(y*f.density), 0, f.h-1)
	return cx, cy
}

// AngleAt returns the flow direction for a grid cell at the given depth.
// Depth is the caller's per-group accumulator; two groups sampling the same
// cell at different depths see different directions.
func (f *Field) AngleAt(cx, cy int, depth float64) float64 {
	sampleX := float64(cx) / f.zoom / f.density
	sampleY := float64(cy) / f.zoom / f.density
	return f.initTheta + f.turb.Turbulence3(sampleX, sampleY, depth, f.octaves)*f.rangeMul
}

// Turbulence exposes the underlying noise source, shared with the thicken
// integration mode.
func (f *Field) Turbulence() *Turbulence {
	return f.turb
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
