package particle

import (
	"math"
	"testing"
)

func TestRecordTolerance(t *testing.T) {
	tests := []struct {
		name      string
		tolerance float64
		moves     [][2]float64 // absolute positions visited
		wantLen   int          // trajectory length including the seed point
	}{
		{"zero tolerance records every move", 0, [][2]float64{{1, 0}, {2, 0}, {3, 0}}, 4},
		{"zero tolerance skips zero displacement", 0, [][2]float64{{0, 0}, {0, 0}}, 1},
		{"under tolerance filtered", 5, [][2]float64{{3, 0}, {4, 0}}, 1},
		{"over tolerance on x recorded", 5, [][2]float64{{6, 0}}, 2},
		{"over tolerance on y recorded", 5, [][2]float64{{0, 6}}, 2},
		{"accumulated displacement crosses tolerance", 5, [][2]float64{{3, 0}, {6, 0}}, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := New(0, tt.tolerance)
			p.Reset(0, 0)
			for _, m := range tt.moves {
				p.X, p.Y = m[0], m[1]
				p.Record()
			}
			if len(p.Points) != tt.wantLen {
				t.Errorf("trajectory length = %d, want %d", len(p.Points), tt.wantLen)
			}
		})
	}
}

func TestRecordConsecutiveSpacing(t *testing.T) {
	const tol = 4.0
	p := New(0, tol)
	p.Reset(0, 0)

	// Walk in small increments; decimation must keep recorded points
	// further than tol apart on at least one axis.
	for i := 0; i < 200; i++ {
		p.X += 1.3
		p.Y += 0.7
		p.Record()
	}

	for i := 1; i < len(p.Points); i++ {
		dx := math.Abs(p.Points[i].X - p.Points[i-1].X)
		dy := math.Abs(p.Points[i].Y - p.Points[i-1].Y)
		if dx <= tol && dy <= tol {
			t.Fatalf("points %d and %d closer than tolerance: dx=%g dy=%g", i-1, i, dx, dy)
		}
	}
}

func TestPathReady(t *testing.T) {
	p := New(0, 0)
	p.Reset(0, 0)
	if p.PathReady() {
		t.Error("1-point trajectory reported ready")
	}
	p.Points = append(p.Points, Point{1, 1})
	if p.PathReady() {
		t.Error("2-point trajectory reported ready")
	}
	p.Points = append(p.Points, Point{2, 2})
	if !p.PathReady() {
		t.Error("3-point trajectory not ready")
	}
}

func TestResetClearsState(t *testing.T) {
	p := New(3, 2)
	p.Reset(0, 0)
	p.VX, p.VY = 5, 6
	p.AX, p.AY = 1, 2
	p.Points = append(p.Points, Point{1, 1}, Point{2, 2})

	p.Reset(10, 20)

	if p.X != 10 || p.Y != 20 || p.LastX != 10 || p.LastY != 20 {
		t.Errorf("position not reset: (%g,%g) last (%g,%g)", p.X, p.Y, p.LastX, p.LastY)
	}
	if p.VX != 0 || p.VY != 0 || p.AX != 0 || p.AY != 0 {
		t.Error("kinematic state not cleared")
	}
	if len(p.Points) != 1 || p.Points[0] != (Point{10, 20}) {
		t.Errorf("trajectory not restarted: %v", p.Points)
	}
	if p.GroupIndex != 3 {
		t.Error("group index must survive reset")
	}
}
