package cloth

import (
	"math"
	"math/rand"

	"github.com/go-gl/mathgl/mgl32"
)

// StepConfig carries the per-frame tunables. The viewer mutates these live,
// so they are passed per Step rather than fixed at construction.
type StepConfig struct {
	DT        float32
	Gravity   mgl32.Vec3
	Stiffness float32
	Substeps  int

	WindEnabled  bool
	WindStrength float32
	WindDir      mgl32.Vec3 // base direction, rotated per particle
	WindMaxAngle float32    // rotation bound around the vertical axis (radians)
}

// Integrator advances the particle system one frame at a time:
// predict, optional wind, constraint sweeps, velocity reconstruction,
// position commit. It borrows the particle buffers only for the duration of
// a Step call.
type Integrator struct {
	ps     *ParticleSystem
	solver *Solver
	rng    *rand.Rand
	frame  int
}

// NewIntegrator creates an integrator over ps. The seed fixes the wind noise
// sequence; runs with wind disabled never consume randomness and are
// deterministic regardless of seed.
func NewIntegrator(ps *ParticleSystem, solver *Solver, seed int64) *Integrator {
	return &Integrator{
		ps:     ps,
		solver: solver,
		rng:    rand.New(rand.NewSource(seed)),
	}
}

// Frame returns the number of steps taken since construction or Reset.
func (it *Integrator) Frame() int { return it.frame }

// Step advances the simulation by one frame of cfg.DT seconds.
func (it *Integrator) Step(cfg StepConfig) {
	ps := it.ps
	dt := cfg.DT

	// Predict: explicit Euler into XTilde. Pinned particles (Fixed = 0)
	// stay where they are.
	for i := range ps.XTilde {
		ps.XTilde[i] = ps.XCur[i].Add(
			ps.V[i].Mul(dt).Add(cfg.Gravity.Mul(dt * dt)).Mul(ps.Fixed[i]))
	}

	if cfg.WindEnabled {
		it.applyWind(cfg)
	}

	it.solver.Project(ps, cfg.Stiffness, dt, cfg.Substeps)

	// Reconstruct velocity from the corrected prediction, then commit.
	invDT := 1 / dt
	for i := range ps.V {
		ps.V[i] = ps.XTilde[i].Sub(ps.XCur[i]).Mul(ps.Fixed[i] * invDT)
		ps.XCur[i] = ps.XCur[i].Add(ps.V[i].Mul(ps.Fixed[i] * dt))
	}

	it.frame++
}

// applyWind nudges every movable particle's prediction with a randomized
// gust: the base direction rotated about the vertical axis by a bounded
// random angle, scaled by a random magnitude in [0.5, 1.5] of the configured
// strength, applied as force * dt^2. The noise is fresh every frame, so wind
// runs are only reproducible with a fixed seed.
func (it *Integrator) applyWind(cfg StepConfig) {
	ps := it.ps
	up := mgl32.Vec3{0, 1, 0}
	dtSq := cfg.DT * cfg.DT
	for i := range ps.XTilde {
		if ps.Fixed[i] == 0 {
			continue
		}
		angle := (it.rng.Float32()*2 - 1) * cfg.WindMaxAngle
		dir := rotateAboutAxis(cfg.WindDir, up, angle)
		mag := (0.5 + it.rng.Float32()) * cfg.WindStrength
		ps.XTilde[i] = ps.XTilde[i].Add(dir.Mul(mag * dtSq))
	}
}

// rotateAboutAxis rotates v around unit axis k by angle using Rodrigues'
// rotation formula.
func rotateAboutAxis(v, k mgl32.Vec3, angle float32) mgl32.Vec3 {
	sin := float32(math.Sin(float64(angle)))
	cos := float32(math.Cos(float64(angle)))
	return v.Mul(cos).
		Add(k.Cross(v).Mul(sin)).
		Add(k.Mul(k.Dot(v) * (1 - cos)))
}

// Reset restores the particle system to its rest snapshot and zeroes the
// frame counter. The wind RNG keeps its sequence; reseed by constructing a
// new Integrator when bit-exact wind replay is needed.
func (it *Integrator) Reset() {
	it.ps.Reset()
	it.frame = 0
}
