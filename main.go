package main

import (
	"flag"
	"log/slog"
	"os"
	"time"

	"github.com/pthm-cable/flowfield/config"
	"github.com/pthm-cable/flowfield/engine"
	"github.com/pthm-cable/flowfield/telemetry"
)

func main() {
	// CLI flags
	configPath := flag.String("config", "", "Path to config.yaml (empty = use defaults)")
	outPath := flag.String("out", "flowfield.png", "Output PNG path")
	outputDir := flag.String("output-dir", "", "Output directory for CSV stats and config snapshot")
	seed := flag.Int64("seed", 0, "RNG seed (0 = time-based)")
	particles := flag.Int("particles", 0, "Override particle count (0 = use config)")
	iterations := flag.Int("iterations", 0, "Override iteration count (0 = use config)")
	width := flag.Int("width", 0, "Override canvas width (0 = use config)")
	height := flag.Int("height", 0, "Override canvas height (0 = use config)")

	flag.Parse()

	// Set up slog (JSON to stdout for structured logging)
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	// Initialize config before anything else
	if err := config.Init(*configPath); err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	cfg := config.Cfg()

	// Apply CLI overrides, then re-validate
	if *particles > 0 {
		cfg.Simulation.Particles = *particles
	}
	if *iterations > 0 {
		cfg.Simulation.Iterations = *iterations
	}
	if *width > 0 {
		cfg.Canvas.Width = *width
	}
	if *height > 0 {
		cfg.Canvas.Height = *height
	}
	if err := cfg.Finalize(); err != nil {
		slog.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	// Set up seed
	rngSeed := *seed
	if rngSeed == 0 {
		rngSeed = time.Now().UnixNano()
	}

	om, err := telemetry.NewOutputManager(*outputDir)
	if err != nil {
		slog.Error("failed to create output directory", "error", err)
		os.Exit(1)
	}

	slog.Info("starting render",
		"seed", rngSeed,
		"canvas", cfg.Canvas,
		"particles", cfg.Simulation.Particles,
		"groups", cfg.Derived.GroupCount,
		"iterations", cfg.Simulation.Iterations,
		"mode", cfg.Derived.Mode.String(),
		"octaves", cfg.Field.Turbulence,
	)

	start := time.Now()
	r := engine.NewRenderer(cfg, rngSeed, telemetry.NewSlogTracker())
	if _, err := r.Render(); err != nil {
		slog.Error("render failed", "error", err)
		os.Exit(1)
	}

	if err := r.Canvas().SavePNG(*outPath); err != nil {
		slog.Error("failed to write image", "error", err)
		os.Exit(1)
	}

	stats := telemetry.FromReports(r.Reports(), r.Durations())
	summary := telemetry.Summarize(stats)
	slog.Info("render complete",
		"out", *outPath,
		"elapsed", time.Since(start).Round(time.Millisecond).String(),
		"paths_drawn", summary.TotalPaths,
		"points_recorded", summary.TotalPoints,
		"respawns", summary.TotalRespawns,
		"points_per_group_mean", summary.PointsMean,
		"group_duration_p90_ms", summary.DurationP90Ms,
	)

	if err := om.WriteRunStats(stats); err != nil {
		slog.Error("failed to write run stats", "error", err)
		os.Exit(1)
	}
	if err := om.WriteConfig(cfg); err != nil {
		slog.Error("failed to write config snapshot", "error", err)
		os.Exit(1)
	}
}
