// Flow field preview tool - interactive parameter exploration with sliders.
//
// Usage: go run ./cmd/fieldpreview
package main

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"log/slog"
	"os"

	gui "github.com/gen2brain/raylib-go/raygui"
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/flowfield/config"
	"github.com/pthm-cable/flowfield/engine"
	"github.com/pthm-cable/flowfield/particle"
)

const (
	windowWidth  = 1000
	windowHeight = 720
	previewSize  = 512
	panelWidth   = windowWidth - previewSize - 30
)

// previewParams holds the slider-driven subset of the configuration.
type previewParams struct {
	Particles  float32
	Iterations float32
	Zoom       float32
	Force      float32
	Variance   float32
	Octaves    int
	Wind       float32
	Tolerance  float32
	Mode       particle.Mode
	Seed       int64
}

func defaultParams() previewParams {
	return previewParams{
		Particles:  600,
		Iterations: 120,
		Zoom:       4000,
		Force:      3.0,
		Variance:   2.0,
		Octaves:    3,
		Wind:       0,
		Tolerance:  10,
		Mode:       particle.UniformMass,
		Seed:       12345,
	}
}

func main() {
	rl.InitWindow(windowWidth, windowHeight, "Flow Field Preview")
	defer rl.CloseWindow()
	rl.SetTargetFPS(30)

	params := defaultParams()

	img := rl.GenImageColor(previewSize, previewSize, rl.Black)
	texture := rl.LoadTextureFromImage(img)
	rl.UnloadImage(img)
	defer rl.UnloadTexture(texture)

	needsRegen := true

	for !rl.WindowShouldClose() {
		if needsRegen {
			if err := regenerate(texture, params); err != nil {
				slog.Error("render failed", "error", err)
				os.Exit(1)
			}
			needsRegen = false
		}

		rl.BeginDrawing()
		rl.ClearBackground(rl.RayWhite)

		rl.DrawTexture(texture, 10, 10, rl.White)
		rl.DrawRectangleLines(10, 10, previewSize, previewSize, rl.DarkGray)

		statsY := int32(previewSize + 25)
		rl.DrawText(fmt.Sprintf("Seed: %d  Mode: %s", params.Seed, params.Mode), 15, statsY, 16, rl.DarkGray)

		panelX := float32(previewSize + 20)
		panelY := float32(10)

		rl.DrawText("Flow Field Parameters", int32(panelX), int32(panelY), 20, rl.DarkGray)
		panelY += 35

		slider := func(label, minText, maxText string, value *float32, min, max float32) {
			rl.DrawText(label, int32(panelX), int32(panelY), 14, rl.Gray)
			panelY += 18
			next := gui.SliderBar(
				rl.Rectangle{X: panelX, Y: panelY, Width: float32(panelWidth - 80), Height: 20},
				minText, maxText,
				*value, min, max,
			)
			rl.DrawText(fmt.Sprintf("%.1f", *value), int32(panelX+float32(panelWidth-70)), int32(panelY+2), 16, rl.DarkGray)
			if next != *value {
				*value = next
				needsRegen = true
			}
			panelY += 35
		}

		slider("Particles (filament count)", "100", "3000", &params.Particles, 100, 3000)
		slider("Iterations (filament length)", "10", "500", &params.Iterations, 10, 500)
		slider("Zoom (%)", "100", "10000", &params.Zoom, 100, 10000)
		slider("Force (stroke length)", "0.5", "10", &params.Force, 0.5, 10)
		slider("Variance (angle range)", "0.1", "10", &params.Variance, 0.1, 10)

		rl.DrawText("Turbulence (noise octaves)", int32(panelX), int32(panelY), 14, rl.Gray)
		panelY += 18
		newOctaves := gui.SliderBar(
			rl.Rectangle{X: panelX, Y: panelY, Width: float32(panelWidth - 80), Height: 20},
			"1", "8",
			float32(params.Octaves), 1, 8,
		)
		rl.DrawText(fmt.Sprintf("%d", params.Octaves), int32(panelX+float32(panelWidth-70)), int32(panelY+2), 16, rl.DarkGray)
		if int(newOctaves) != params.Octaves {
			params.Octaves = int(newOctaves)
			needsRegen = true
		}
		panelY += 35

		slider("Wind (depth drift)", "0", "200", &params.Wind, 0, 200)
		slider("Tolerance (decimation)", "0", "100", &params.Tolerance, 0, 100)

		if gui.Button(rl.Rectangle{X: panelX, Y: panelY, Width: 120, Height: 30}, fmt.Sprintf("Mode: %s", params.Mode)) {
			params.Mode = (params.Mode + 1) % 4
			needsRegen = true
		}
		if gui.Button(rl.Rectangle{X: panelX + 130, Y: panelY, Width: 120, Height: 30}, "Random Seed") {
			params.Seed = int64(rl.GetRandomValue(1, 999999))
			needsRegen = true
		}
		panelY += 40

		if gui.Button(rl.Rectangle{X: panelX, Y: panelY, Width: 120, Height: 30}, "Reset All") {
			params = defaultParams()
			needsRegen = true
		}

		rl.EndDrawing()
	}
}

// regenerate runs the simulation with the current parameters and uploads
// the result into the preview texture.
func regenerate(texture rl.Texture2D, params previewParams) error {
	cfg, err := config.Load("")
	if err != nil {
		return err
	}

	cfg.Canvas.Width = previewSize
	cfg.Canvas.Height = previewSize
	cfg.Simulation.Particles = int(params.Particles)
	cfg.Simulation.Iterations = int(params.Iterations)
	cfg.Simulation.Zoom = float64(params.Zoom)
	cfg.Simulation.Force = float64(params.Force)
	cfg.Simulation.Variance = float64(params.Variance)
	cfg.Simulation.Wind = float64(params.Wind)
	cfg.Simulation.Tolerance = float64(params.Tolerance)
	cfg.Simulation.PhysicsMode = params.Mode.String()
	cfg.Field.Turbulence = params.Octaves
	if err := cfg.Finalize(); err != nil {
		return err
	}

	r := engine.NewRenderer(cfg, params.Seed, nil)
	out, err := r.Render()
	if err != nil {
		return err
	}

	updateTexture(texture, out)
	return nil
}

// updateTexture copies a rendered image into the GPU texture.
func updateTexture(texture rl.Texture2D, img image.Image) {
	b := img.Bounds()
	rgba, ok := img.(*image.RGBA)
	if !ok {
		rgba = image.NewRGBA(b)
		draw.Draw(rgba, b, img, b.Min, draw.Src)
	}

	pixels := make([]color.RGBA, b.Dx()*b.Dy())
	for y := 0; y < b.Dy(); y++ {
		for x := 0; x < b.Dx(); x++ {
			pixels[y*b.Dx()+x] = rgba.RGBAAt(b.Min.X+x, b.Min.Y+y)
		}
	}
	rl.UpdateTexture(texture, pixels)
}
