package surface

import (
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// Topology selects between the flat and the cylindrical surface variant.
// The two differ only in knot construction, control net padding, and the
// u-direction span search.
type Topology int

const (
	Open Topology = iota
	Closed
)

func (t Topology) String() string {
	if t == Closed {
		return "closed"
	}
	return "open"
}

// ControlNet is the row-major grid of control points the evaluator consumes.
// For closed topology the grid carries orderU-1 padding rows past NumU that
// duplicate the first rows, so the evaluator can blend across the seam.
type ControlNet struct {
	NumU, NumV int // base grid size, before padding
	Rows       int // NumU, or NumU+orderU-1 when closed
	Pts        []mgl32.Vec3
}

// At returns the control point at (row, col).
func (c *ControlNet) At(row, col int) mgl32.Vec3 {
	return c.Pts[row*c.NumV+col]
}

// GridMapper buckets simulated particles into a regular control grid using
// fixed per-particle (u,v) parametric coordinates. The coordinates come from
// a planar or cylindrical mapping of the rest mesh and never change, so the
// bucket of every particle is precomputed once.
type GridMapper struct {
	numU, numV int
	orderU     int
	topology   Topology
	buckets    []int // per-particle flat index into the base grid
	net        *ControlNet
}

// NewGridMapper precomputes the bucket of every particle from its (u,v)
// coordinate. Bucket index is round(u*(numU-1)), round(v*(numV-1)); when two
// particles land in the same cell the one processed later wins.
//
// For closed topology u=0 and u=1 name the same column, so the wrap bucket
// at row 0 is folded onto row numU-1; Rebuild then restores row 0 from that
// row when it closes the seam. Construction fails if the mapping leaves any
// other base cell without a particle, since an unwritten cell would feed a
// stale zero point into the surface every frame.
func NewGridMapper(uv [][2]float32, numU, numV, orderU int, topo Topology) (*GridMapper, error) {
	if numU < 2 || numV < 2 {
		return nil, fmt.Errorf("surface: control grid must be at least 2x2, got %dx%d", numU, numV)
	}
	if len(uv) == 0 {
		return nil, fmt.Errorf("surface: no parametric coordinates")
	}

	rows := numU
	if topo == Closed {
		rows = numU + orderU - 1
	}

	m := &GridMapper{
		numU:     numU,
		numV:     numV,
		orderU:   orderU,
		topology: topo,
		buckets:  make([]int, len(uv)),
		net: &ControlNet{
			NumU: numU,
			NumV: numV,
			Rows: rows,
			Pts:  make([]mgl32.Vec3, rows*numV),
		},
	}

	for i, p := range uv {
		u, v := p[0], p[1]
		if u < 0 || u > 1 || v < 0 || v > 1 {
			return nil, fmt.Errorf("surface: particle %d has (u,v)=(%v,%v) outside [0,1]^2", i, u, v)
		}
		row := int(math.Round(float64(u) * float64(numU-1)))
		if topo == Closed && row == 0 {
			row = numU - 1
		}
		col := int(math.Round(float64(v) * float64(numV-1)))
		m.buckets[i] = row*numV + col
	}

	if topo == Closed {
		covered := make([]bool, numU*numV)
		for _, b := range m.buckets {
			covered[b] = true
		}
		for row := 1; row < numU; row++ {
			for col := 0; col < numV; col++ {
				if !covered[row*numV+col] {
					return nil, fmt.Errorf("surface: closed mapping leaves control cell (%d,%d) with no particle", row, col)
				}
			}
		}
	}

	return m, nil
}

// Rebuild overwrites the control grid from the current particle positions
// and returns it. The returned net is owned by the mapper and valid until
// the next Rebuild call.
//
// For closed topology the first row is overwritten from the last to close
// the seam, then rows 1..orderU-1 are replicated into the padding rows so
// the evaluator has enough control points to blend smoothly across it.
func (m *GridMapper) Rebuild(positions []mgl32.Vec3) (*ControlNet, error) {
	if len(positions) != len(m.buckets) {
		return nil, fmt.Errorf("surface: got %d positions for %d mapped particles",
			len(positions), len(m.buckets))
	}

	pts := m.net.Pts
	for i, b := range m.buckets {
		pts[b] = positions[i]
	}

	if m.topology == Closed {
		numU, numV := m.numU, m.numV
		copy(pts[:numV], pts[(numU-1)*numV:numU*numV])
		for j := 1; j < m.orderU; j++ {
			src := pts[j*numV : (j+1)*numV]
			dst := pts[(numU+j-1)*numV : (numU+j)*numV]
			copy(dst, src)
		}
	}

	return m.net, nil
}
