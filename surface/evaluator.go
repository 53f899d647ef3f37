package surface

import (
	"fmt"
	"runtime"
	"sync"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/pthm-cable/drape/config"
)

// parallelThreshold is the minimum sample count to fan evaluation out to
// workers. Below this, single-threaded is faster due to goroutine overhead.
const parallelThreshold = 4096

// Evaluator computes a dense grid of surface samples from a control net
// using the De Boor recurrence, tensor-product style: each sample blends in
// the v direction per control row first, then across rows in u.
type Evaluator struct {
	topology       Topology
	numU, numV     int // control counts; numU is the unpadded count for Closed
	orderU, orderV int
	resU, resV     int
	knotU, knotV   []float32
	samples        []mgl32.Vec3
	indices        []uint32
}

// NewEvaluator validates the configuration, builds the knot vectors for the
// requested topology, and precomputes the static triangle index buffer over
// the res grid.
func NewEvaluator(numU, numV, resU, resV, orderU, orderV int, topo Topology) (*Evaluator, error) {
	for _, ord := range [2]int{orderU, orderV} {
		if ord < 2 || ord > config.MaxSplineOrder {
			return nil, fmt.Errorf("surface: order must be in [2, %d], got %d", config.MaxSplineOrder, ord)
		}
	}
	if orderU > numU || orderV > numV {
		return nil, fmt.Errorf("surface: order (%d, %d) exceeds control count (%d, %d)",
			orderU, orderV, numU, numV)
	}
	if resU < 2 || resV < 2 {
		return nil, fmt.Errorf("surface: resolution must be at least 2 per axis, got %dx%d", resU, resV)
	}

	e := &Evaluator{
		topology: topo,
		numU:     numU,
		numV:     numV,
		orderU:   orderU,
		orderV:   orderV,
		resU:     resU,
		resV:     resV,
		knotV:    ClampedKnots(numV, orderV),
		samples:  make([]mgl32.Vec3, resU*resV),
	}
	if topo == Closed {
		e.knotU = ClosedKnots(numU, orderU)
	} else {
		e.knotU = ClampedKnots(numU, orderU)
	}
	e.indices = e.buildIndices()

	return e, nil
}

// Res returns the dense grid dimensions.
func (e *Evaluator) Res() (resU, resV int) { return e.resU, e.resV }

// Indices returns the static triangle index buffer, three entries per
// triangle into the sample grid. Built once at construction.
func (e *Evaluator) Indices() []uint32 { return e.indices }

// Samples returns the sample buffer filled by the last Evaluate call.
func (e *Evaluator) Samples() []mgl32.Vec3 { return e.samples }

// Evaluate refreshes the dense sample grid from the control net. Every
// sample is a pure function of the frozen net and the knot vectors, so rows
// are fanned out across workers when the grid is large enough.
func (e *Evaluator) Evaluate(net *ControlNet) []mgl32.Vec3 {
	if e.resU*e.resV < parallelThreshold {
		e.evaluateRows(net, 0, e.resU)
		return e.samples
	}

	workers := runtime.NumCPU()
	if workers > e.resU {
		workers = e.resU
	}
	chunk := (e.resU + workers - 1) / workers

	var wg sync.WaitGroup
	for start := 0; start < e.resU; start += chunk {
		end := start + chunk
		if end > e.resU {
			end = e.resU
		}
		wg.Add(1)
		go func(start, end int) {
			defer wg.Done()
			e.evaluateRows(net, start, end)
		}(start, end)
	}
	wg.Wait()

	return e.samples
}

// evaluateRows fills sample rows [start, end). Each worker writes a disjoint
// slice of the output.
func (e *Evaluator) evaluateRows(net *ControlNet, start, end int) {
	du := 1 / float32(e.resU-1)
	dv := 1 / float32(e.resV-1)
	for i := start; i < end; i++ {
		u := float32(i) * du
		for j := 0; j < e.resV; j++ {
			v := float32(j) * dv
			e.samples[i*e.resV+j] = e.Point(net, u, v)
		}
	}
}

// Point evaluates the surface at (u,v) in [0,1]^2.
func (e *Evaluator) Point(net *ControlNet, u, v float32) mgl32.Vec3 {
	var spanU int
	if e.topology == Closed {
		u, spanU = e.closedSpanU(u)
	} else {
		spanU = findSpan(e.knotU, u, e.numU, e.orderU)
	}
	spanV := findSpan(e.knotV, v, e.numV, e.orderV)

	// Blend each contributing control row in v, then blend the row results
	// in u. Buffers are gathered back-to-front from the span index.
	var rowPts, local [config.MaxSplineOrder]mgl32.Vec3
	for i := 0; i < e.orderU; i++ {
		row := spanU - i
		for j := 0; j < e.orderV; j++ {
			local[j] = net.At(row, spanV-j)
		}
		rowPts[i] = deBoor(local[:e.orderV], e.knotV, v, spanV, e.orderV)
	}
	return deBoor(rowPts[:e.orderU], e.knotU, u, spanU, e.orderU)
}

// deBoor collapses a local control buffer gathered at span down to the curve
// point at t. buf[0] holds the result; the buffer is clobbered.
//
// The blend factor is held constant within each refinement level, keyed off
// the span index. This is the literal recurrence of the reference system,
// kept as-is: boundary interpolation and continuity behave identically, and
// all grid tuning was done against it.
func deBoor(buf []mgl32.Vec3, knots []float32, t float32, span, order int) mgl32.Vec3 {
	for r := order; r >= 2; r-- {
		denom := knots[span+r-1] - knots[span]
		var omega float32
		if denom >= 1e-6 {
			omega = (t - knots[span]) / denom
		}
		for s := 0; s < r-1; s++ {
			buf[s] = buf[s].Mul(omega).Add(buf[s+1].Mul(1 - omega))
		}
	}
	return buf[0]
}

// findSpan locates the knot span containing t: the index d in
// [order-1, len(knots)-order) with knots[d] <= t < knots[d+1]. Parameters at
// or past the end of the domain, and any scan miss, clamp to the last valid
// span rather than failing.
func findSpan(knots []float32, t float32, numCtrl, order int) int {
	if t >= 1 {
		return numCtrl - 1
	}
	for d := order - 1; d < len(knots)-order; d++ {
		if knots[d] <= t && t < knots[d+1] {
			return d
		}
	}
	return numCtrl - 1
}

// closedSpanU clamps u into the valid domain of the pseudo-periodic knot
// vector, [knotU[orderU-1], knotU[numU+orderU-2]], then locates its span.
// Returns the clamped parameter and the span index.
func (e *Evaluator) closedSpanU(u float32) (float32, int) {
	lo := e.knotU[e.orderU-1]
	hi := e.knotU[e.numU+e.orderU-2]
	if u < lo {
		u = lo
	}
	if u >= hi {
		return hi, e.numU + e.orderU - 2
	}
	for d := e.orderU - 1; d < e.numU+e.orderU-2; d++ {
		if e.knotU[d] <= u && u < e.knotU[d+1] {
			return u, d
		}
	}
	return u, e.numU + e.orderU - 2
}
