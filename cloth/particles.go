// Package cloth implements the XPBD cloth model: particle state, per-edge
// distance constraints, and the frame integrator that advances them.
package cloth

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/pthm-cable/drape/mesh"
)

// ParticleSystem owns the simulation state for one cloth mesh. Positions are
// mutated only by the Integrator and Solver during a Step; everything else
// reads them between steps.
type ParticleSystem struct {
	// Per-particle state.
	X0     []mgl32.Vec3 // rest positions, the reset snapshot
	XCur   []mgl32.Vec3 // committed positions
	XTilde []mgl32.Vec3 // predicted positions, corrected by the solver
	V      []mgl32.Vec3 // velocities
	MInv   []float32    // inverse masses, fixed at construction
	Fixed  []float32    // 1 = movable, 0 = pinned

	// Per-edge state. Edge order is the constraint order and never changes.
	Edges [][2]int32
	L0    []float32 // rest lengths, fixed at construction

	Faces [][3]int32
}

// NewParticleSystem builds the simulation state from a mesh. The mesh supplies
// world-space vertex positions, unique undirected edges, and triangle faces.
// Inverse mass of a particle is half the sum of rest lengths of its incident
// edges; both inverse masses and rest lengths are computed here once and never
// recomputed, no matter how far edges stretch later.
func NewParticleSystem(m *mesh.Mesh) (*ParticleSystem, error) {
	if err := m.Validate(); err != nil {
		return nil, err
	}

	n := len(m.Vertices)
	ps := &ParticleSystem{
		X0:     make([]mgl32.Vec3, n),
		XCur:   make([]mgl32.Vec3, n),
		XTilde: make([]mgl32.Vec3, n),
		V:      make([]mgl32.Vec3, n),
		MInv:   make([]float32, n),
		Fixed:  make([]float32, n),
		Edges:  m.Edges,
		L0:     make([]float32, len(m.Edges)),
		Faces:  m.Faces,
	}
	copy(ps.X0, m.Vertices)
	copy(ps.XCur, m.Vertices)
	copy(ps.XTilde, m.Vertices)
	for i := range ps.Fixed {
		ps.Fixed[i] = 1
	}

	for i, e := range m.Edges {
		l0 := ps.X0[e[0]].Sub(ps.X0[e[1]]).Len()
		if l0 == 0 {
			// Coincident endpoints make the constraint gradient undefined.
			return nil, fmt.Errorf("cloth: edge %d (%d, %d) has zero rest length", i, e[0], e[1])
		}
		ps.L0[i] = l0
		ps.MInv[e[0]] += 0.5 * l0
		ps.MInv[e[1]] += 0.5 * l0
	}

	return ps, nil
}

// NumParticles returns the particle count.
func (ps *ParticleSystem) NumParticles() int { return len(ps.XCur) }

// NumEdges returns the constraint count.
func (ps *ParticleSystem) NumEdges() int { return len(ps.Edges) }

// SetPinned pins or releases a particle. Pinned particles keep their current
// position across any number of steps.
func (ps *ParticleSystem) SetPinned(i int, pinned bool) error {
	if i < 0 || i >= len(ps.Fixed) {
		return fmt.Errorf("cloth: particle index %d out of range [0, %d)", i, len(ps.Fixed))
	}
	if pinned {
		ps.Fixed[i] = 0
	} else {
		ps.Fixed[i] = 1
	}
	return nil
}

// Pinned reports whether particle i is pinned.
func (ps *ParticleSystem) Pinned(i int) bool { return ps.Fixed[i] == 0 }

// TogglePinned flips the pin state of particle i.
func (ps *ParticleSystem) TogglePinned(i int) {
	if i >= 0 && i < len(ps.Fixed) {
		ps.Fixed[i] = 1 - ps.Fixed[i]
	}
}

// Reset restores positions to the rest snapshot and zeroes velocities.
// Pin flags, masses, and rest lengths are left alone.
func (ps *ParticleSystem) Reset() {
	copy(ps.XCur, ps.X0)
	copy(ps.XTilde, ps.X0)
	for i := range ps.V {
		ps.V[i] = mgl32.Vec3{}
	}
}
