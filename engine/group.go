// Package engine runs the grouped particle simulation.
package engine

import (
	"math/rand"

	"github.com/pthm-cable/flowfield/particle"
)

// GroupReport holds the counters a group task accumulates over a run.
type GroupReport struct {
	Group          int
	Particles      int
	Steps          int64
	PointsRecorded int64
	PathsDrawn     int64
	Respawns       int64
}

// Group is a fixed partition of the particle population and the unit of
// parallel work. Its particles, depth accumulator, rng and counters are
// owned exclusively by the task stepping it; the shared canvas is the only
// state touched across groups.
type Group struct {
	index     int
	particles []*particle.Particle
	depth     float64
	rng       *rand.Rand
	report    GroupReport
}

// Particles returns the group's particle slice.
func (g *Group) Particles() []*particle.Particle {
	return g.particles
}

// Depth returns the group's depth accumulator, the third noise coordinate
// decorrelating this group from the others.
func (g *Group) Depth() float64 {
	return g.depth
}

// splitmix64 derives a well-mixed per-group seed from the run seed. One
// master seed must reproduce every group's randomness independent of
// scheduling, so each group gets its own deterministic source.
func splitmix64(x uint64) uint64 {
	x += 0x9e3779b97f4a7c15
	x = (x ^ (x >> 30)) * 0xbf58476d1ce4e5b9
	x = (x ^ (x >> 27)) * 0x94d049bb133111eb
	return x ^ (x >> 31)
}

func newGroupRand(seed int64, index int) *rand.Rand {
	mixed := splitmix64(uint64(seed) + splitmix64(uint64(index)+1))
	return rand.New(rand.NewSource(int64(mixed)))
}
