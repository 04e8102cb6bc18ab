//go:build !flowdebug

package engine

import "github.com/pthm-cable/flowfield/particle"

// assertFinite is compiled out of normal builds. Non-finite kinematics
// cannot occur with bounded force and velocity; if they do it is a
// correctness bug, not a recoverable error.
func assertFinite(*particle.Particle) {}
