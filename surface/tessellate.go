package surface

// buildIndices triangulates the dense sample grid, two triangles per quad
// cell. Topology is fixed, so this runs once at construction; only the
// sample positions change per frame.
//
// Open surfaces triangulate the full (resU-1) x (resV-1) grid. Closed
// surfaces triangulate only the rows whose parameter falls inside the
// non-duplicated portion of the knot domain and wrap the last of them back
// to row zero; the remaining rows exist purely for evaluation continuity
// near the seam and are left out of the visible mesh.
func (e *Evaluator) buildIndices() []uint32 {
	rows := e.resU
	wrap := false
	if e.topology == Closed {
		rows = e.visibleRows()
		wrap = true
	}

	quadRows := rows - 1
	if wrap {
		quadRows = rows
	}
	idx := make([]uint32, 0, quadRows*(e.resV-1)*6)
	for r := 0; r < quadRows; r++ {
		r0 := r
		r1 := (r + 1) % rows
		for c := 0; c < e.resV-1; c++ {
			a := uint32(r0*e.resV + c)
			b := uint32(r1*e.resV + c)
			d := uint32(r0*e.resV + c + 1)
			f := uint32(r1*e.resV + c + 1)
			idx = append(idx, a, b, d, b, f, d)
		}
	}
	return idx
}

// visibleRows returns how many sample rows fall inside the non-duplicated
// knot domain of the closed u knot vector. Rows at or past the domain end
// re-evaluate the seam and would double it up if drawn.
func (e *Evaluator) visibleRows() int {
	domainEnd := e.knotU[e.numU+e.orderU-2]
	rows := 0
	scale := 1 / float32(e.resU-1)
	for i := 0; i < e.resU; i++ {
		if float32(i)*scale < domainEnd {
			rows++
		}
	}
	if rows < 2 {
		rows = 2
	}
	return rows
}
