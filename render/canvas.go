// Package render rasterizes finished particle trajectories into a shared
// image.
package render

import (
	"fmt"
	"image"
	"image/color"
	"sync"

	"github.com/fogleman/gg"

	"github.com/pthm-cable/flowfield/particle"
)

// Stroke describes how trajectory curves are stroked.
type Stroke struct {
	Width float64
	Cap   string // butt, round, square
	Join  string // round, bevel
}

// Canvas is the one piece of state shared between group tasks. Every draw
// call is serialized by a mutex; strokes composite in task completion order,
// so anti-aliased edges may differ subtly between runs with the same seed.
type Canvas struct {
	mu sync.Mutex
	dc *gg.Context
}

// NewCanvas creates a canvas of the given size with the stroke style
// applied once up front.
func NewCanvas(width, height int, stroke Stroke) *Canvas {
	dc := gg.NewContext(width, height)
	dc.SetLineWidth(stroke.Width)

	switch stroke.Cap {
	case "butt":
		dc.SetLineCap(gg.LineCapButt)
	case "square":
		dc.SetLineCap(gg.LineCapSquare)
	default:
		dc.SetLineCap(gg.LineCapRound)
	}
	switch stroke.Join {
	case "bevel":
		dc.SetLineJoin(gg.LineJoinBevel)
	default:
		dc.SetLineJoin(gg.LineJoinRound)
	}

	return &Canvas{dc: dc}
}

// Fill floods the canvas with a background color.
func (c *Canvas) Fill(col color.Color) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.dc.SetColor(col)
	c.dc.Clear()
}

// DrawPath strokes a smooth curve through the trajectory points in the
// given color. Trajectories shorter than three points are ignored.
func (c *Canvas) DrawPath(points []particle.Point, col color.Color) {
	if len(points) < 3 {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.dc.SetColor(col)
	smoothInto(c.dc, points)
	c.dc.Stroke()
}

// Image returns the underlying raster. Only call after all drawing tasks
// have joined.
func (c *Canvas) Image() image.Image {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.dc.Image()
}

// SavePNG encodes the raster to a PNG file.
func (c *Canvas) SavePNG(path string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.dc.SavePNG(path); err != nil {
		return fmt.Errorf("saving png: %w", err)
	}
	return nil
}
