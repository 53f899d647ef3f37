package main

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/pthm-cable/drape/cloth"
	"github.com/pthm-cable/drape/config"
	"github.com/pthm-cable/drape/mesh"
)

// FitnessEvaluator scores a parameter vector by running headless drape
// simulations and measuring residual stretch in the settled cloth.
type FitnessEvaluator struct {
	params    *ParamVector
	maxFrames int
	seeds     []int64
	baseCfg   *config.Config

	lastStretch float64
}

// NewFitnessEvaluator creates an evaluator running maxFrames frames per seed.
func NewFitnessEvaluator(params *ParamVector, maxFrames int, seeds []int64, baseCfg *config.Config) *FitnessEvaluator {
	return &FitnessEvaluator{
		params:    params,
		maxFrames: maxFrames,
		seeds:     seeds,
		baseCfg:   baseCfg,
	}
}

// LastStretch returns the seed-averaged mean stretch ratio from the most
// recent evaluation, without the substep cost term.
func (fe *FitnessEvaluator) LastStretch() float64 {
	return fe.lastStretch
}

// Evaluate runs the simulation for each seed and returns the averaged
// stretch plus a cost term for substeps, so the optimizer prefers the
// cheapest setting that still holds the cloth together. Lower is better.
// Diverged runs score a large penalty.
func (fe *FitnessEvaluator) Evaluate(raw []float64) float64 {
	cfg := *fe.baseCfg
	fe.params.ApplyToConfig(&cfg, raw)

	total := 0.0
	for _, seed := range fe.seeds {
		total += fe.runOnce(&cfg, seed)
	}
	stretch := total / float64(len(fe.seeds))
	fe.lastStretch = stretch

	return stretch + substepCostWeight*float64(cfg.Cloth.Substeps)
}

// divergedPenalty dominates any achievable stretch objective.
const divergedPenalty = 1e6

// substepCostWeight charges each Gauss-Seidel sweep against the objective.
const substepCostWeight = 0.0005

// runOnce simulates one pinned flat grid to near rest and returns the mean
// stretch ratio, or divergedPenalty when the run blows up.
func (fe *FitnessEvaluator) runOnce(cfg *config.Config, seed int64) float64 {
	m := mesh.FlatGrid(cfg.Model.GridSize, 2.0, 1.5)
	ps, err := cloth.NewParticleSystem(m)
	if err != nil {
		return divergedPenalty
	}
	pinGridCorners(ps, cfg.Model.GridSize)

	solver := cloth.NewSolver(false)
	integrator := cloth.NewIntegrator(ps, solver, seed)

	grav := cfg.Cloth.Gravity
	step := cloth.StepConfig{
		DT:           float32(cfg.Cloth.DT),
		Gravity:      mgl32.Vec3{float32(grav[0]), float32(grav[1]), float32(grav[2])},
		Stiffness:    float32(cfg.Cloth.StretchStiffness),
		Substeps:     cfg.Cloth.Substeps,
		WindEnabled:  cfg.Wind.Enabled,
		WindStrength: float32(cfg.Wind.Strength),
		WindDir: mgl32.Vec3{
			float32(cfg.Wind.Direction[0]),
			float32(cfg.Wind.Direction[1]),
			float32(cfg.Wind.Direction[2]),
		},
		WindMaxAngle: float32(cfg.Wind.MaxAngle),
	}

	for f := 0; f < fe.maxFrames; f++ {
		integrator.Step(step)
	}

	stretch := meanStretch(ps)
	if math.IsNaN(stretch) || math.IsInf(stretch, 0) {
		return divergedPenalty
	}
	return stretch
}

// pinGridCorners pins the four corners of an n x n grid laid out row-major.
func pinGridCorners(ps *cloth.ParticleSystem, n int) {
	ps.Fixed[0] = 0
	ps.Fixed[n-1] = 0
	ps.Fixed[n*(n-1)] = 0
	ps.Fixed[n*n-1] = 0
}

// meanStretch returns the mean |lij-l0|/l0 over all edges.
func meanStretch(ps *cloth.ParticleSystem) float64 {
	total := 0.0
	for i, e := range ps.Edges {
		lij := ps.XCur[e[0]].Sub(ps.XCur[e[1]]).Len()
		d := float64(lij - ps.L0[i])
		if d < 0 {
			d = -d
		}
		total += d / float64(ps.L0[i])
	}
	return total / float64(len(ps.Edges))
}
