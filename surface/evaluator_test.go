package surface

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
)

// testNet builds an open control net over a tilted grid in the XZ plane.
func testNet(numU, numV int) *ControlNet {
	pts := make([]mgl32.Vec3, numU*numV)
	for i := 0; i < numU; i++ {
		for j := 0; j < numV; j++ {
			pts[i*numV+j] = mgl32.Vec3{
				float32(i),
				float32(i)*0.1 + float32(j)*0.2,
				float32(j),
			}
		}
	}
	return &ControlNet{NumU: numU, NumV: numV, Rows: numU, Pts: pts}
}

func vecNear(a, b mgl32.Vec3, tol float32) bool {
	return a.Sub(b).Len() <= tol
}

func TestEvaluatorCornerInterpolation(t *testing.T) {
	numU, numV := 5, 5
	eval, err := NewEvaluator(numU, numV, 10, 10, 4, 4, Open)
	if err != nil {
		t.Fatalf("NewEvaluator: %v", err)
	}
	net := testNet(numU, numV)

	corners := []struct {
		u, v     float32
		row, col int
	}{
		{0, 0, 0, 0},
		{0, 1, 0, numV - 1},
		{1, 0, numU - 1, 0},
		{1, 1, numU - 1, numV - 1},
	}
	for _, c := range corners {
		got := eval.Point(net, c.u, c.v)
		want := net.At(c.row, c.col)
		if !vecNear(got, want, 1e-4) {
			t.Errorf("Point(%v, %v) = %v, want control point (%d,%d) = %v",
				c.u, c.v, got, c.row, c.col, want)
		}
	}
}

func TestEvaluatorPlanarNetStaysPlanar(t *testing.T) {
	// A net with constant y must evaluate to constant y everywhere: every
	// sample is an affine combination of control points.
	numU, numV := 6, 6
	pts := make([]mgl32.Vec3, numU*numV)
	for i := 0; i < numU; i++ {
		for j := 0; j < numV; j++ {
			pts[i*numV+j] = mgl32.Vec3{float32(i), 2.5, float32(j)}
		}
	}
	net := &ControlNet{NumU: numU, NumV: numV, Rows: numU, Pts: pts}

	eval, err := NewEvaluator(numU, numV, 20, 20, 4, 4, Open)
	if err != nil {
		t.Fatalf("NewEvaluator: %v", err)
	}
	for _, s := range eval.Evaluate(net) {
		if math.Abs(float64(s.Y())-2.5) > 1e-4 {
			t.Fatalf("sample %v left the plane y=2.5", s)
		}
	}
}

func TestEvaluatorParallelMatchesSerial(t *testing.T) {
	// 70x70 samples crosses the parallel threshold; every sample must equal
	// a direct single-threaded Point evaluation.
	numU, numV := 6, 6
	resU, resV := 70, 70
	eval, err := NewEvaluator(numU, numV, resU, resV, 4, 4, Open)
	if err != nil {
		t.Fatalf("NewEvaluator: %v", err)
	}
	net := testNet(numU, numV)

	samples := eval.Evaluate(net)
	for i := 0; i < resU; i++ {
		u := float32(i) / float32(resU-1)
		for j := 0; j < resV; j++ {
			v := float32(j) / float32(resV-1)
			want := eval.Point(net, u, v)
			got := samples[i*resV+j]
			if got != want {
				t.Fatalf("sample (%d,%d) = %v, direct evaluation = %v", i, j, got, want)
			}
		}
	}
}

func TestEvaluatorClosedSeam(t *testing.T) {
	numU, numV, orderU := 8, 5, 3
	mapper, err := NewGridMapper(gridUV(numU, numV), numU, numV, orderU, Closed)
	if err != nil {
		t.Fatalf("NewGridMapper: %v", err)
	}

	// Ring of control points around the Y axis.
	positions := make([]mgl32.Vec3, numU*numV)
	for i := 0; i < numU; i++ {
		theta := 2 * math.Pi * float64(i) / float64(numU)
		for j := 0; j < numV; j++ {
			positions[i*numV+j] = mgl32.Vec3{
				float32(math.Cos(theta)),
				float32(j),
				float32(math.Sin(theta)),
			}
		}
	}
	net, err := mapper.Rebuild(positions)
	if err != nil {
		t.Fatalf("Rebuild: %v", err)
	}

	eval, err := NewEvaluator(numU, numV, 24, 15, orderU, 3, Closed)
	if err != nil {
		t.Fatalf("NewEvaluator: %v", err)
	}

	for j := 0; j <= 4; j++ {
		v := float32(j) / 4
		a := eval.Point(net, 0, v)
		b := eval.Point(net, 1, v)
		if !vecNear(a, b, 1e-4) {
			t.Errorf("v=%v: seam mismatch, Point(0)=%v Point(1)=%v", v, a, b)
		}
	}

	for i, s := range eval.Evaluate(net) {
		for axis := 0; axis < 3; axis++ {
			if math.IsNaN(float64(s[axis])) {
				t.Fatalf("sample %d is NaN: %v", i, s)
			}
		}
	}
}

func TestNewEvaluatorRejectsBadConfig(t *testing.T) {
	tests := []struct {
		name                               string
		numU, numV, resU, resV, ordU, ordV int
	}{
		{"order too low", 5, 5, 10, 10, 1, 4},
		{"order too high", 5, 5, 10, 10, 4, 9},
		{"order exceeds control count", 3, 5, 10, 10, 4, 4},
		{"resolution too low", 5, 5, 1, 10, 4, 4},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := NewEvaluator(tt.numU, tt.numV, tt.resU, tt.resV, tt.ordU, tt.ordV, Open); err == nil {
				t.Error("expected error, got nil")
			}
		})
	}
}

func TestFindSpan(t *testing.T) {
	knots := ClampedKnots(5, 4) // [0 0 0 0 0.5 1 1 1 1]

	tests := []struct {
		t    float32
		want int
	}{
		{0, 3},
		{0.25, 3},
		{0.5, 4},
		{0.75, 4},
		{1, 4},   // end of domain clamps to the last control index
		{1.5, 4}, // past the domain too
	}
	for _, tt := range tests {
		if got := findSpan(knots, tt.t, 5, 4); got != tt.want {
			t.Errorf("findSpan(t=%v) = %d, want %d", tt.t, got, tt.want)
		}
	}
}
