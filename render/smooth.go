package render

import (
	"github.com/fogleman/gg"

	"github.com/pthm-cable/flowfield/particle"
)

// smoothInto appends a Catmull-Rom curve through the points to the context's
// current path. Tolerance-filtered trajectories are sparse; fitting a curve
// keeps them rendering as continuous filaments instead of polylines.
func smoothInto(dc *gg.Context, pts []particle.Point) {
	dc.MoveTo(pts[0].X, pts[0].Y)
	for i := 0; i < len(pts)-1; i++ {
		p0 := pts[maxInt(i-1, 0)]
		p1 := pts[i]
		p2 := pts[i+1]
		p3 := pts[minInt(i+2, len(pts)-1)]

		c1, c2 := catmullControls(p0, p1, p2, p3)
		dc.CubicTo(c1.X, c1.Y, c2.X, c2.Y, p2.X, p2.Y)
	}
}

// catmullControls converts one Catmull-Rom segment (p1..p2 with neighbors
// p0, p3) into the control points of an equivalent cubic Bézier. Endpoints
// are handled by the caller clamping p0/p3 to the segment ends.
func catmullControls(p0, p1, p2, p3 particle.Point) (c1, c2 particle.Point) {
	c1 = particle.Point{
		X: p1.X + (p2.X-p0.X)/6,
		Y: p1.Y + (p2.Y-p0.Y)/6,
	}
	c2 = particle.Point{
		X: p2.X - (p3.X-p1.X)/6,
		Y: p2.Y - (p3.Y-p1.Y)/6,
	}
	return c1, c2
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
