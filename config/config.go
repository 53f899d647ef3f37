// Package config provides configuration loading and access for the cloth
// simulator and surface reconstruction pipeline.
package config

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// MaxSplineOrder is the widest knot span the surface evaluator supports.
// The De Boor scratch buffers are sized against this.
const MaxSplineOrder = 8

// Config holds all simulation configuration parameters.
type Config struct {
	Screen    ScreenConfig    `yaml:"screen"`
	Cloth     ClothConfig     `yaml:"cloth"`
	Wind      WindConfig      `yaml:"wind"`
	Surface   SurfaceConfig   `yaml:"surface"`
	Model     ModelConfig     `yaml:"model"`
	Telemetry TelemetryConfig `yaml:"telemetry"`

	// Derived values computed after loading
	Derived DerivedConfig `yaml:"-"`
}

// ScreenConfig holds display settings.
type ScreenConfig struct {
	Width     int `yaml:"width"`
	Height    int `yaml:"height"`
	TargetFPS int `yaml:"target_fps"`
}

// ClothConfig holds the XPBD stepping parameters.
type ClothConfig struct {
	DT               float64    `yaml:"dt"`                // Seconds per frame
	Gravity          [3]float64 `yaml:"gravity"`           // World-space gravity vector
	StretchStiffness float64    `yaml:"stretch_stiffness"` // Scales the Lagrange numerator (see solver)
	Substeps         int        `yaml:"substeps"`          // Gauss-Seidel sweeps per frame
}

// WindConfig holds the stochastic wind parameters.
type WindConfig struct {
	Enabled   bool       `yaml:"enabled"`
	Strength  float64    `yaml:"strength"`
	Direction [3]float64 `yaml:"direction"` // Base direction, rotated per particle
	MaxAngle  float64    `yaml:"max_angle"` // Rotation bound around the vertical axis (radians)
}

// SurfaceConfig holds control grid and B-spline evaluation parameters.
type SurfaceConfig struct {
	NumU       int    `yaml:"num_u"`      // Control grid rows
	NumV       int    `yaml:"num_v"`      // Control grid columns
	Refinement int    `yaml:"refinement"` // Dense samples per control point per axis
	OrderU     int    `yaml:"order_u"`    // 4 = cubic
	OrderV     int    `yaml:"order_v"`
	Topology   string `yaml:"topology"` // "open" or "closed"
}

// ModelConfig holds mesh import settings.
type ModelConfig struct {
	Path      string     `yaml:"path"`        // OBJ file (empty = built-in flat grid)
	GridSize  int        `yaml:"grid_size"`   // Built-in grid resolution per axis
	Scale     float64    `yaml:"scale"`
	Translate [3]float64 `yaml:"translate"`
	Mapping   string     `yaml:"mapping"`  // "planar" or "cylindrical"
	PinMode   string     `yaml:"pin_mode"` // "none", "corners", or "top"
	Pins      []int      `yaml:"pins"`     // Additional vertex indices pinned at startup
}

// TelemetryConfig holds diagnostics settings.
type TelemetryConfig struct {
	Residuals   bool    `yaml:"residuals"`    // Record per-sweep stretch residuals
	StatsWindow float64 `yaml:"stats_window"` // Seconds between stat log lines
	PerfWindow  int     `yaml:"perf_window"`  // Frames averaged by the perf collector
}

// DerivedConfig holds values derived from loaded config.
type DerivedConfig struct {
	DT32      float32
	Gravity32 [3]float32
	ResU      int // Surface.NumU * Surface.Refinement
	ResV      int // Surface.NumV * Surface.Refinement
	Closed    bool
	ScreenW32 float32
	ScreenH32 float32
}

// global holds the loaded configuration.
var global *Config

// Init loads configuration from the given path, or uses embedded defaults if path is empty.
// Must be called before Cfg().
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
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded defaults: %w", err)
	}

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

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	cfg.computeDerived()

	return cfg, nil
}

// Validate rejects configurations the pipeline cannot run with.
// These are precondition violations, not recoverable faults.
func (c *Config) Validate() error {
	if c.Cloth.DT <= 0 {
		return fmt.Errorf("config: dt must be positive, got %v", c.Cloth.DT)
	}
	if c.Cloth.Substeps < 1 {
		return fmt.Errorf("config: substeps must be >= 1, got %d", c.Cloth.Substeps)
	}
	if c.Surface.NumU < 2 || c.Surface.NumV < 2 {
		return fmt.Errorf("config: control grid must be at least 2x2, got %dx%d",
			c.Surface.NumU, c.Surface.NumV)
	}
	if c.Surface.Refinement < 1 {
		return fmt.Errorf("config: refinement must be >= 1, got %d", c.Surface.Refinement)
	}
	for _, ord := range [2]int{c.Surface.OrderU, c.Surface.OrderV} {
		if ord < 2 || ord > MaxSplineOrder {
			return fmt.Errorf("config: spline order must be in [2, %d], got %d", MaxSplineOrder, ord)
		}
	}
	if c.Surface.OrderU > c.Surface.NumU || c.Surface.OrderV > c.Surface.NumV {
		return fmt.Errorf("config: spline order (%d, %d) exceeds control grid (%d, %d)",
			c.Surface.OrderU, c.Surface.OrderV, c.Surface.NumU, c.Surface.NumV)
	}
	switch c.Surface.Topology {
	case "open", "closed":
	default:
		return fmt.Errorf("config: topology must be \"open\" or \"closed\", got %q", c.Surface.Topology)
	}
	if c.Surface.Topology == "closed" && c.Surface.NumU < 4 {
		return fmt.Errorf("config: closed topology needs num_u >= 4, got %d", c.Surface.NumU)
	}
	switch c.Model.Mapping {
	case "planar", "cylindrical":
	default:
		return fmt.Errorf("config: mapping must be \"planar\" or \"cylindrical\", got %q", c.Model.Mapping)
	}
	if c.Model.Mapping == "cylindrical" && c.Model.Path == "" && c.Surface.Topology != "closed" {
		return fmt.Errorf("config: cylindrical mapping on the built-in mesh requires closed topology")
	}
	switch c.Model.PinMode {
	case "none", "corners", "top":
	default:
		return fmt.Errorf("config: pin_mode must be \"none\", \"corners\", or \"top\", got %q", c.Model.PinMode)
	}
	return nil
}

// computeDerived calculates values derived from loaded config.
func (c *Config) computeDerived() {
	c.Derived.DT32 = float32(c.Cloth.DT)
	for i, g := range c.Cloth.Gravity {
		c.Derived.Gravity32[i] = float32(g)
	}
	c.Derived.ResU = c.Surface.NumU * c.Surface.Refinement
	c.Derived.ResV = c.Surface.NumV * c.Surface.Refinement
	c.Derived.Closed = c.Surface.Topology == "closed"
	c.Derived.ScreenW32 = float32(c.Screen.Width)
	c.Derived.ScreenH32 = float32(c.Screen.Height)
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
