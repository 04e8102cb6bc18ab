// Package config provides configuration loading and access for the renderer.
package config

import (
	_ "embed"
	"fmt"
	"image/color"
	"math"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/pthm-cable/flowfield/particle"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// Config holds all renderer configuration parameters.
type Config struct {
	Canvas     CanvasConfig     `yaml:"canvas"`
	Simulation SimulationConfig `yaml:"simulation"`
	Field      FieldConfig      `yaml:"field"`
	Color      ColorConfig      `yaml:"color"`
	Stroke     StrokeConfig     `yaml:"stroke"`

	// Derived values computed after loading
	Derived DerivedConfig `yaml:"-"`
}

// CanvasConfig holds destination raster dimensions.
type CanvasConfig struct {
	Width  int `yaml:"width"`
	Height int `yaml:"height"`
}

// SimulationConfig holds particle simulation parameters.
type SimulationConfig struct {
	Particles   int     `yaml:"particles"`    // Total particle count (filament count)
	GroupSize   int     `yaml:"group_size"`   // Particles per parallel group
	Iterations  int     `yaml:"iterations"`   // Simulation steps per group
	PhysicsMode string  `yaml:"physics_mode"` // no-mass, uniform-mass, jolt, thicken
	MaxVelocity float64 `yaml:"max_velocity"` // Speed bound for the elastic clamp
	Force       float64 `yaml:"force"`        // Field displacement magnitude per step
	Variance    float64 `yaml:"variance"`     // Angle range multiplier
	Zoom        float64 `yaml:"zoom"`         // Zoom percentage (100..10000)
	Wind        float64 `yaml:"wind"`         // Depth drift (0..200); spreads the flow
	Tolerance   float64 `yaml:"tolerance"`    // Trajectory decimation distance
}

// FieldConfig holds vector field sampling parameters.
type FieldConfig struct {
	Smoothness float64 `yaml:"smoothness"` // Percentage (1..100); finer grid = smoother curves
	Turbulence int     `yaml:"turbulence"` // Noise octaves (1..8)
}

// ColorConfig holds background/particle coloring parameters.
type ColorConfig struct {
	Background string  `yaml:"background"` // #rrggbb or #rrggbbaa
	Particle   string  `yaml:"particle"`
	Randomness float64 `yaml:"randomness"` // Percentage (0..100); 0 = flat particle color
}

// StrokeConfig holds stroke styling for rendered paths.
type StrokeConfig struct {
	Width float64 `yaml:"width"`
	Cap   string  `yaml:"cap"`  // butt, round, square
	Join  string  `yaml:"join"` // round, bevel
}

// DerivedConfig holds computed values derived from the loaded config.
type DerivedConfig struct {
	Mode          particle.Mode // Parsed physics mode
	GroupCount    int           // ceil(Particles / GroupSize)
	ZoomFactor    float64       // Zoom percentage resolved to a sampling divisor
	Quality       float64       // Field grid fidelity from smoothness and zoom
	MaxVelocitySq float64       // MaxVelocity squared, compared against vx²+vy²
	AngleRange    float64       // π · Variance
	DepthStep     float64       // Wind resolved to a per-step depth increment
	Background    color.NRGBA
	Particle      color.NRGBA
	ColorFactor   float64 // Randomness as a 0..1 interpolation factor
}

// global holds the loaded configuration.
var global *Config

// Init loads configuration from the given path, or uses embedded defaults
// if path is empty. Must be called before Cfg().
func Init(path string) error {
	cfg, err := Load(path)
	if err != nil {
		return err
	}
	global = cfg
	return nil
}

// MustInit is like Init but panics on error.
func MustInit(path string) {
	if err := Init(path); err != nil {
		panic(fmt.Sprintf("config: failed to initialize: %v", err))
	}
}

// Cfg returns the global configuration. Panics if Init was not called.
func Cfg() *Config {
	if global == nil {
		panic("config: Cfg() called before Init()")
	}
	return global
}

// Load loads configuration from a YAML file, merging with embedded defaults.
// If path is empty, only embedded defaults are used.
func Load(path string) (*Config, error) {
	// Start with embedded defaults
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded defaults: %w", err)
	}

	// Load user config if provided
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		// Unmarshal into same struct - only overwrites fields present in file
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	if err := cfg.Finalize(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Finalize validates the configuration and computes derived values.
// Callers that mutate a loaded config must call it again before use.
func (c *Config) Finalize() error {
	if err := c.Validate(); err != nil {
		return err
	}
	return c.computeDerived()
}

// Validate rejects degenerate configurations before any work is dispatched.
func (c *Config) Validate() error {
	if c.Canvas.Width <= 0 || c.Canvas.Height <= 0 {
		return fmt.Errorf("config: canvas %dx%d is degenerate", c.Canvas.Width, c.Canvas.Height)
	}
	if c.Simulation.Particles <= 0 {
		return fmt.Errorf("config: particle count must be positive, got %d", c.Simulation.Particles)
	}
	if c.Simulation.GroupSize <= 0 {
		return fmt.Errorf("config: group size must be positive, got %d", c.Simulation.GroupSize)
	}
	if c.Simulation.Iterations <= 0 {
		return fmt.Errorf("config: iteration count must be positive, got %d", c.Simulation.Iterations)
	}
	if c.Field.Turbulence < 1 || c.Field.Turbulence > 8 {
		return fmt.Errorf("config: turbulence octaves must be in 1..8, got %d", c.Field.Turbulence)
	}
	if c.Simulation.Zoom < 100 || c.Simulation.Zoom > 10000 {
		return fmt.Errorf("config: zoom must be in 100..10000, got %g", c.Simulation.Zoom)
	}
	if c.Field.Smoothness < 1 || c.Field.Smoothness > 100 {
		return fmt.Errorf("config: smoothness must be in 1..100, got %g", c.Field.Smoothness)
	}
	if c.Color.Randomness < 0 || c.Color.Randomness > 100 {
		return fmt.Errorf("config: color randomness must be in 0..100, got %g", c.Color.Randomness)
	}
	if c.Simulation.MaxVelocity <= 0 {
		return fmt.Errorf("config: max velocity must be positive, got %g", c.Simulation.MaxVelocity)
	}
	if c.Simulation.Tolerance < 0 {
		return fmt.Errorf("config: tolerance must be non-negative, got %g", c.Simulation.Tolerance)
	}
	if c.Stroke.Width <= 0 {
		return fmt.Errorf("config: stroke width must be positive, got %g", c.Stroke.Width)
	}
	switch c.Stroke.Cap {
	case "butt", "round", "square":
	default:
		return fmt.Errorf("config: unknown stroke cap %q", c.Stroke.Cap)
	}
	switch c.Stroke.Join {
	case "round", "bevel":
	default:
		return fmt.Errorf("config: unknown stroke join %q", c.Stroke.Join)
	}
	return nil
}

// computeDerived calculates values derived from loaded config.
func (c *Config) computeDerived() error {
	mode, err := particle.ParseMode(c.Simulation.PhysicsMode)
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}
	c.Derived.Mode = mode

	groupSize := c.Simulation.GroupSize
	c.Derived.GroupCount = (c.Simulation.Particles + groupSize - 1) / groupSize

	// A zoom value of 4000% resolves to a sampling divisor of 400.
	c.Derived.ZoomFactor = c.Simulation.Zoom * 0.1
	c.Derived.Quality = c.Field.Smoothness / 99 * 400 / c.Derived.ZoomFactor
	c.Derived.MaxVelocitySq = c.Simulation.MaxVelocity * c.Simulation.MaxVelocity
	c.Derived.AngleRange = math.Pi * c.Simulation.Variance
	c.Derived.DepthStep = c.Simulation.Wind / 10000
	c.Derived.ColorFactor = c.Color.Randomness / 100

	bg, err := ParseHexColor(c.Color.Background)
	if err != nil {
		return fmt.Errorf("config: background color: %w", err)
	}
	c.Derived.Background = bg

	pc, err := ParseHexColor(c.Color.Particle)
	if err != nil {
		return fmt.Errorf("config: particle color: %w", err)
	}
	c.Derived.Particle = pc

	return nil
}

// ParseHexColor parses #rrggbb or #rrggbbaa into an RGBA color.
func ParseHexColor(s string) (color.NRGBA, error) {
	var r, g, b, a uint8
	a = 0xff
	switch len(s) {
	case 7:
		if _, err := fmt.Sscanf(s, "#%02x%02x%02x", &r, &g, &b); err != nil {
			return color.NRGBA{}, fmt.Errorf("parsing %q: %w", s, err)
		}
	case 9:
		if _, err := fmt.Sscanf(s, "#%02x%02x%02x%02x", &r, &g, &b, &a); err != nil {
			return color.NRGBA{}, fmt.Errorf("parsing %q: %w", s, err)
		}
	default:
		return color.NRGBA{}, fmt.Errorf("parsing %q: want #rrggbb or #rrggbbaa", s)
	}
	return color.NRGBA{R: r, G: g, B: b, A: a}, nil
}

// WriteYAML writes the configuration to a YAML file.
func (c *Config) WriteYAML(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}
