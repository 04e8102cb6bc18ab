//go:build flowdebug

package engine

import (
	"fmt"
	"math"

	"github.com/pthm-cable/flowfield/particle"
)

// assertFinite panics when a particle's kinematic state goes non-finite.
// Enabled with the flowdebug build tag.
func assertFinite(p *particle.Particle) {
	for _, v := range [...]float64{p.X, p.Y, p.VX, p.VY, p.AX, p.AY} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			panic(fmt.Sprintf("engine: non-finite particle state: pos=(%g,%g) vel=(%g,%g) acc=(%g,%g)",
				p.X, p.Y, p.VX, p.VY, p.AX, p.AY))
		}
	}
}
