// Package game orchestrates the per-frame pipeline: cloth integration,
// control net rebuild, surface re-evaluation, rendering, and input.
package game

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/pthm-cable/drape/camera"
	"github.com/pthm-cable/drape/cloth"
	"github.com/pthm-cable/drape/config"
	"github.com/pthm-cable/drape/surface"
	"github.com/pthm-cable/drape/telemetry"
	"github.com/pthm-cable/drape/ui"
)

// Options configures game construction.
type Options struct {
	Seed      int64
	Headless  bool
	LogStats  bool
	OutputDir string
}

// Game holds the complete simulator state.
type Game struct {
	cfg  *config.Config
	opts Options

	// Simulation
	ps         *cloth.ParticleSystem
	solver     *cloth.Solver
	integrator *cloth.Integrator

	// Surface reconstruction
	mapper *surface.GridMapper
	eval   *surface.Evaluator
	net    *surface.ControlNet

	// Telemetry
	perf      *telemetry.PerfCollector
	collector *telemetry.Collector
	output    *telemetry.OutputManager
	frameOpen bool

	// Rendering and interaction (unused in headless mode)
	cam      *camera.Camera
	hud      *ui.HUD
	panel    *ui.ControlsPanel
	controls ui.SimControls

	selection selectionState
	selected  map[int]bool

	screenWidth  float32
	screenHeight float32

	sceneCenter mgl32.Vec3
	sceneRadius float32
}

// NewGameWithOptions builds the scene described by the global config.
func NewGameWithOptions(opts Options) (*Game, error) {
	cfg := config.Cfg()

	g := &Game{
		cfg:          cfg,
		opts:         opts,
		perf:         telemetry.NewPerfCollector(cfg.Telemetry.PerfWindow),
		collector:    telemetry.NewCollector(cfg.Telemetry.StatsWindow, cfg.Cloth.DT),
		selected:     make(map[int]bool),
		screenWidth:  cfg.Derived.ScreenW32,
		screenHeight: cfg.Derived.ScreenH32,
	}

	if err := g.buildScene(); err != nil {
		return nil, fmt.Errorf("building scene: %w", err)
	}

	om, err := telemetry.NewOutputManager(opts.OutputDir)
	if err != nil {
		return nil, err
	}
	g.output = om
	if err := g.output.WriteConfig(cfg); err != nil {
		return nil, err
	}

	if !opts.Headless {
		g.cam = camera.New(g.sceneCenter, g.sceneRadius*2.5)
		g.hud = ui.NewHUD()
		g.panel = ui.NewControlsPanel(10, 10, 240)
	}

	g.controls = ui.SimControls{
		Stiffness:     float32(cfg.Cloth.StretchStiffness),
		Substeps:      cfg.Cloth.Substeps,
		WindEnabled:   cfg.Wind.Enabled,
		WindStrength:  float32(cfg.Wind.Strength),
		ShowSurface:   true,
		ShowWireframe: false,
		ShowParticles: true,
	}

	return g, nil
}

// Frame returns the number of simulation steps taken.
func (g *Game) Frame() int { return g.integrator.Frame() }

// Particles exposes the live particle system for pickers and tests.
func (g *Game) Particles() *cloth.ParticleSystem { return g.ps }

// Update advances one frame in windowed mode: input, then simulation unless
// paused.
func (g *Game) Update() {
	g.handleInput()

	if g.controls.ResetClicked {
		g.controls.ResetClicked = false
		g.integrator.Reset()
		g.rebuildSurface()
	}

	if !g.controls.Paused {
		g.step()
	}
}

// UpdateHeadless advances one frame without any raylib interaction.
func (g *Game) UpdateHeadless() {
	g.step()
	g.endPerfFrame()
}

// stepConfig assembles the per-frame tunables from config and live controls.
func (g *Game) stepConfig() cloth.StepConfig {
	grav := g.cfg.Derived.Gravity32
	dir := g.cfg.Wind.Direction
	return cloth.StepConfig{
		DT:           g.cfg.Derived.DT32,
		Gravity:      mgl32.Vec3{grav[0], grav[1], grav[2]},
		Stiffness:    g.controls.Stiffness,
		Substeps:     g.controls.Substeps,
		WindEnabled:  g.controls.WindEnabled,
		WindStrength: g.controls.WindStrength,
		WindDir:      mgl32.Vec3{float32(dir[0]), float32(dir[1]), float32(dir[2])},
		WindMaxAngle: float32(g.cfg.Wind.MaxAngle),
	}
}

// step runs the simulation pipeline for one frame. The perf frame is left
// open so windowed mode can time rendering into it; callers close it with
// endPerfFrame once the frame is fully done.
func (g *Game) step() {
	g.perf.StartFrame()
	g.frameOpen = true

	g.perf.StartPhase(telemetry.PhaseIntegrate)
	g.integrator.Step(g.stepConfig())

	g.perf.StartPhase(telemetry.PhaseControlNet)
	g.rebuildNet()

	g.perf.StartPhase(telemetry.PhaseSurface)
	g.eval.Evaluate(g.net)

	g.perf.StartPhase(telemetry.PhaseTelemetry)
	g.collector.Record(g.solver.Residuals())
	if g.collector.Due() {
		g.flushTelemetry()
	}
}

func (g *Game) endPerfFrame() {
	if g.frameOpen {
		g.perf.EndFrame()
		g.frameOpen = false
	}
}

// rebuildNet refreshes the control net from current particle positions.
func (g *Game) rebuildNet() {
	net, err := g.mapper.Rebuild(g.ps.XCur)
	if err != nil {
		// Shapes are validated at construction; a mismatch here is a bug.
		panic(err)
	}
	g.net = net
}

// rebuildSurface refreshes both the control net and the dense sample grid,
// used outside the timed pipeline (reset, initial frame).
func (g *Game) rebuildSurface() {
	g.rebuildNet()
	g.eval.Evaluate(g.net)
}

// flushTelemetry emits the window stats to slog and CSV.
func (g *Game) flushTelemetry() {
	stats := g.collector.Flush(g.Frame(), g.stretchRatios(), g.pinnedCount())
	if g.opts.LogStats {
		stats.Log()
		g.perf.Stats().LogStats()
	}
	if g.output != nil {
		if err := g.output.WriteTelemetry(stats); err != nil {
			Logf("telemetry write failed: %v", err)
		}
		if err := g.output.WritePerf(telemetry.NewPerfRecord(g.Frame(), g.perf.Stats())); err != nil {
			Logf("perf write failed: %v", err)
		}
	}
}

// stretchRatios samples |lij-l0|/l0 for every edge.
func (g *Game) stretchRatios() []float64 {
	ratios := make([]float64, len(g.ps.Edges))
	for i, e := range g.ps.Edges {
		lij := g.ps.XCur[e[0]].Sub(g.ps.XCur[e[1]]).Len()
		d := lij - g.ps.L0[i]
		if d < 0 {
			d = -d
		}
		ratios[i] = float64(d / g.ps.L0[i])
	}
	return ratios
}

func (g *Game) pinnedCount() int {
	n := 0
	for _, f := range g.ps.Fixed {
		if f == 0 {
			n++
		}
	}
	return n
}

// Unload releases output files. Safe to call in both modes.
func (g *Game) Unload() {
	if err := g.output.Close(); err != nil {
		Logf("closing output: %v", err)
	}
}
