package field

import (
	"image/color"
	"math/rand"

	colorful "github.com/lucasb-eyer/go-colorful"
)

// goldenRatioConjugate steps the hue between neighboring cells so the
// palette never settles into visible bands.
const goldenRatioConjugate = 0.618033988749895

// Palette holds one precomputed color per field cell, used when color
// randomization is enabled. Cells are filled once at setup; reads during
// the run are concurrent and lock-free.
type Palette struct {
	w, h   int
	colors []color.NRGBA
}

// NewPalette builds a w×h color grid. Each cell blends the base particle
// color toward a hue-walked random color by factor (0..1). The walk starts
// from a random hue drawn from rng, so a fixed seed reproduces the palette.
func NewPalette(w, h int, base color.NRGBA, factor float64, rng *rand.Rand) *Palette {
	p := &Palette{
		w:      w,
		h:      h,
		colors: make([]color.NRGBA, w*h),
	}

	baseCol := colorful.Color{
		R: float64(base.R) / 255,
		G: float64(base.G) / 255,
		B: float64(base.B) / 255,
	}

	hue := rng.Float64()
	sat := 0.5 + rng.Float64()*0.5
	val := 0.5 + rng.Float64()*0.5

	for i := range p.colors {
		random := colorful.Hsv(hue*360, sat, val)
		blended := baseCol.BlendRgb(random, factor).Clamped()
		p.colors[i] = color.NRGBA{
			R: uint8(blended.R*255 + 0.5),
			G: uint8(blended.G*255 + 0.5),
			B: uint8(blended.B*255 + 0.5),
			A: base.A,
		}
		hue += goldenRatioConjugate
		if hue >= 1 {
			hue--
		}
	}

	return p
}

// At returns the color for a grid cell.
func (p *Palette) At(cx, cy int) color.NRGBA {
	return p.colors[cx*p.h+cy]
}
