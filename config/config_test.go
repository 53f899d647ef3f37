package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load defaults: %v", err)
	}

	if cfg.Cloth.DT <= 0 {
		t.Errorf("dt = %v, want positive", cfg.Cloth.DT)
	}
	if cfg.Surface.NumU < 2 || cfg.Surface.NumV < 2 {
		t.Errorf("control grid = %dx%d, want at least 2x2", cfg.Surface.NumU, cfg.Surface.NumV)
	}
	if cfg.Surface.Topology != "open" {
		t.Errorf("default topology = %q, want open", cfg.Surface.Topology)
	}

	// Derived values
	if cfg.Derived.ResU != cfg.Surface.NumU*cfg.Surface.Refinement {
		t.Errorf("ResU = %d, want %d", cfg.Derived.ResU, cfg.Surface.NumU*cfg.Surface.Refinement)
	}
	if cfg.Derived.Closed {
		t.Error("open topology must not derive Closed")
	}
	if cfg.Derived.DT32 != float32(cfg.Cloth.DT) {
		t.Errorf("DT32 = %v, want %v", cfg.Derived.DT32, float32(cfg.Cloth.DT))
	}
}

func TestLoadOverride(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	src := "surface:\n  topology: closed\ncloth:\n  substeps: 8\n"
	if err := os.WriteFile(path, []byte(src), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Cloth.Substeps != 8 {
		t.Errorf("substeps = %d, want override 8", cfg.Cloth.Substeps)
	}
	if !cfg.Derived.Closed {
		t.Error("closed topology must derive Closed")
	}
	// Untouched fields keep defaults.
	if cfg.Surface.OrderU != 4 {
		t.Errorf("order_u = %d, want default 4", cfg.Surface.OrderU)
	}
}

func TestValidate(t *testing.T) {
	base := func() *Config {
		cfg, err := Load("")
		if err != nil {
			t.Fatalf("Load defaults: %v", err)
		}
		return cfg
	}

	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero dt", func(c *Config) { c.Cloth.DT = 0 }},
		{"zero substeps", func(c *Config) { c.Cloth.Substeps = 0 }},
		{"tiny grid", func(c *Config) { c.Surface.NumU = 1 }},
		{"zero refinement", func(c *Config) { c.Surface.Refinement = 0 }},
		{"order too low", func(c *Config) { c.Surface.OrderU = 1 }},
		{"order too high", func(c *Config) { c.Surface.OrderV = MaxSplineOrder + 1 }},
		{"order exceeds grid", func(c *Config) { c.Surface.NumV = 3; c.Surface.OrderV = 4 }},
		{"bad topology", func(c *Config) { c.Surface.Topology = "spherical" }},
		{"closed grid too small", func(c *Config) { c.Surface.Topology = "closed"; c.Surface.NumU = 3; c.Surface.OrderU = 2 }},
		{"bad mapping", func(c *Config) { c.Model.Mapping = "conformal" }},
		{"cylindrical builtin on open topology", func(c *Config) { c.Model.Mapping = "cylindrical" }},
		{"bad pin mode", func(c *Config) { c.Model.PinMode = "bottom" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := base()
			tt.mutate(cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("expected validation error, got nil")
			}
		})
	}
}

func TestWriteYAMLRoundtrip(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load defaults: %v", err)
	}
	cfg.Cloth.StretchStiffness = 123456

	path := filepath.Join(t.TempDir(), "out.yaml")
	if err := cfg.WriteYAML(path); err != nil {
		t.Fatalf("WriteYAML: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load written config: %v", err)
	}
	if loaded.Cloth.StretchStiffness != 123456 {
		t.Errorf("stiffness = %v after roundtrip, want 123456", loaded.Cloth.StretchStiffness)
	}
}
