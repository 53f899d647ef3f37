package surface

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
)

func TestPlanarUV(t *testing.T) {
	verts := []mgl32.Vec3{
		{-1, 0, -2},
		{1, 0, -2},
		{-1, 0, 2},
		{1, 0, 2},
		{0, 5, 0},
	}
	uv := PlanarUV(verts)

	want := [][2]float32{
		{0, 0},
		{1, 0},
		{0, 1},
		{1, 1},
		{0.5, 0.5},
	}
	for i := range want {
		if uv[i] != want[i] {
			t.Errorf("uv[%d] = %v, want %v", i, uv[i], want[i])
		}
	}
}

func TestPlanarUVDegenerateAxis(t *testing.T) {
	// All x equal: u must not divide by zero.
	verts := []mgl32.Vec3{{1, 0, 0}, {1, 0, 1}, {1, 0, 2}}
	uv := PlanarUV(verts)
	for i, p := range uv {
		if math.IsNaN(float64(p[0])) || math.IsNaN(float64(p[1])) {
			t.Fatalf("uv[%d] = %v contains NaN", i, p)
		}
	}
}

func TestCylindricalUV(t *testing.T) {
	verts := []mgl32.Vec3{
		{-1, 0, 0}, // theta = pi -> u = 1
		{1, 2, 0},  // theta = 0 -> u = 0.5
		{0, 4, 1},  // theta = pi/2 -> u = 0.75
	}
	uv := CylindricalUV(verts)

	tests := []struct {
		i    int
		u, v float32
	}{
		{0, 1, 0},
		{1, 0.5, 0.5},
		{2, 0.75, 1},
	}
	for _, tt := range tests {
		got := uv[tt.i]
		if math.Abs(float64(got[0]-tt.u)) > 1e-5 || math.Abs(float64(got[1]-tt.v)) > 1e-5 {
			t.Errorf("uv[%d] = %v, want (%v, %v)", tt.i, got, tt.u, tt.v)
		}
	}
}

func TestCylindricalUVInRange(t *testing.T) {
	// Sweep a full ring; every u must stay inside [0,1] so the grid mapper
	// accepts it.
	const n = 64
	verts := make([]mgl32.Vec3, n)
	for i := range verts {
		theta := 2 * math.Pi * float64(i) / n
		verts[i] = mgl32.Vec3{float32(math.Cos(theta)), float32(i), float32(math.Sin(theta))}
	}
	for i, p := range CylindricalUV(verts) {
		if p[0] < 0 || p[0] > 1 || p[1] < 0 || p[1] > 1 {
			t.Errorf("uv[%d] = %v outside [0,1]^2", i, p)
		}
	}
}
