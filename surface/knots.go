// Package surface reconstructs a dense, smooth B-spline surface from the
// coarse simulated particle grid. It covers knot construction, control net
// bucketing, De Boor evaluation for open and closed (cylindrical) topology,
// and triangulation of the dense sample grid.
package surface

// ClampedKnots returns the clamped uniform knot sequence for n control
// points of the given order: length n+order, the first and last `order`
// entries pinned to 0 and 1, interior entries uniformly spaced. The repeated
// boundary knots make the surface interpolate its boundary control points.
//
// ClampedKnots(4, 4) = [0 0 0 0 1 1 1 1].
func ClampedKnots(n, order int) []float32 {
	length := n + order
	knots := make([]float32, length)
	denom := float32(length - 2*order + 1)
	for i := order; i < length-order; i++ {
		knots[i] = float32(i-order+1) / denom
	}
	for i := length - order; i < length; i++ {
		knots[i] = 1
	}
	return knots
}

// ClosedKnots returns the pseudo-periodic knot sequence used for cylindrical
// topology: length n+2*order-1, uniformly spaced from 0 to 1 inclusive. This
// is an approximation that relies on control point duplication at the seam,
// not a mathematically periodic basis.
func ClosedKnots(n, order int) []float32 {
	length := n + 2*order - 1
	knots := make([]float32, length)
	scale := 1 / float32(length-1)
	for i := range knots {
		knots[i] = float32(i) * scale
	}
	return knots
}
