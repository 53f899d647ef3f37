package cloth

// Solver projects the per-edge distance constraints onto the predicted
// positions with compliant Gauss-Seidel sweeps.
//
// The scale term is stiffness*dtSub^2 applied to the Lagrange numerator.
// Canonical XPBD uses the reciprocal of stiffness as compliance; this system
// deliberately keeps the non-inverted form because every configured stiffness
// range was tuned against it.
type Solver struct {
	recordResiduals bool
	residuals       []float32
}

// NewSolver creates a solver. When record is true, the aggregate squared
// stretch residual is sampled after every sweep and kept until the next
// Project call.
func NewSolver(record bool) *Solver {
	return &Solver{recordResiduals: record}
}

// Project runs `sweeps` Gauss-Seidel passes over all edges of ps, correcting
// XTilde in place. dt is the full frame step; each sweep uses dt/sweeps.
//
// The edge loop must stay sequential: a correction reads positions already
// written by earlier edges in the same sweep. Parallelizing it requires a
// graph coloring into vertex-disjoint edge sets; do not hand it to workers
// as-is.
func (s *Solver) Project(ps *ParticleSystem, stiffness, dt float32, sweeps int) {
	if sweeps < 1 {
		sweeps = 1
	}
	dtSub := dt / float32(sweeps)
	alpha := stiffness * dtSub * dtSub
	if s.recordResiduals {
		s.residuals = s.residuals[:0]
	}

	for sweep := 0; sweep < sweeps; sweep++ {
		for i, e := range ps.Edges {
			v0, v1 := e[0], e[1]
			x01 := ps.XTilde[v0].Sub(ps.XTilde[v1])
			lij := x01.Len()
			if lij < 1e-9 {
				// Gradient undefined when the endpoints coincide.
				continue
			}

			c := lij - ps.L0[i]
			grad := x01.Mul(1 / lij)
			w0 := ps.Fixed[v0] * ps.MInv[v0]
			w1 := ps.Fixed[v1] * ps.MInv[v1]
			schur := w0 + w1

			lambda := alpha * c / (alpha*schur + 1)

			ps.XTilde[v0] = ps.XTilde[v0].Sub(grad.Mul(w0 * lambda))
			ps.XTilde[v1] = ps.XTilde[v1].Add(grad.Mul(w1 * lambda))
		}
		if s.recordResiduals {
			s.residuals = append(s.residuals, StretchResidual(ps))
		}
	}
}

// Residuals returns the per-sweep residuals sampled during the last Project
// call, or nil when recording is disabled. The slice is reused across calls.
func (s *Solver) Residuals() []float32 { return s.residuals }

// StretchResidual returns the aggregate squared stretch over all edges,
// sum((lij - l0)^2), measured on the predicted positions.
func StretchResidual(ps *ParticleSystem) float32 {
	var sum float32
	for i, e := range ps.Edges {
		lij := ps.XTilde[e[0]].Sub(ps.XTilde[e[1]]).Len()
		d := lij - ps.L0[i]
		sum += d * d
	}
	return sum
}
