// Package renderer draws the dense reconstructed surface, the coarse cloth
// wireframe, and the particle markers with raylib.
package renderer

import (
	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/go-gl/mathgl/mgl32"
)

// lightDir is the fixed directional light used for flat shading.
var lightDir = mgl32.Vec3{0.35, 0.8, 0.5}.Normalize()

// Vec3 converts an engine vector to a raylib vector.
func Vec3(v mgl32.Vec3) rl.Vector3 {
	return rl.Vector3{X: v.X(), Y: v.Y(), Z: v.Z()}
}

// DrawSurface flat-shades the dense sample grid using the static triangle
// index buffer. Triangles are drawn double-sided: cloth has no interior, so
// both windings must light up.
func DrawSurface(samples []mgl32.Vec3, indices []uint32, base rl.Color) {
	for i := 0; i+2 < len(indices); i += 3 {
		a := samples[indices[i]]
		b := samples[indices[i+1]]
		c := samples[indices[i+2]]

		n := b.Sub(a).Cross(c.Sub(a))
		if l := n.Len(); l > 1e-8 {
			n = n.Mul(1 / l)
		}
		// Lambert term, lit from either side.
		d := n.Dot(lightDir)
		if d < 0 {
			d = -d
		}
		shade := 0.35 + 0.65*d

		col := rl.Color{
			R: uint8(float32(base.R) * shade),
			G: uint8(float32(base.G) * shade),
			B: uint8(float32(base.B) * shade),
			A: base.A,
		}
		rl.DrawTriangle3D(Vec3(a), Vec3(b), Vec3(c), col)
		rl.DrawTriangle3D(Vec3(a), Vec3(c), Vec3(b), col)
	}
}

// DrawWireframe draws the coarse simulated mesh edges.
func DrawWireframe(positions []mgl32.Vec3, edges [][2]int32, color rl.Color) {
	for _, e := range edges {
		rl.DrawLine3D(Vec3(positions[e[0]]), Vec3(positions[e[1]]), color)
	}
}

// DrawParticles marks every particle; pinned ones get a larger red marker,
// selected ones are highlighted.
func DrawParticles(positions []mgl32.Vec3, fixed []float32, selected map[int]bool) {
	for i, p := range positions {
		switch {
		case fixed[i] == 0:
			rl.DrawSphere(Vec3(p), 0.035, rl.Red)
		case selected[i]:
			rl.DrawSphere(Vec3(p), 0.03, rl.Yellow)
		default:
			rl.DrawSphere(Vec3(p), 0.015, rl.DarkGray)
		}
	}
}

// DrawGround draws the reference grid under the cloth.
func DrawGround() {
	rl.DrawGrid(20, 0.5)
}
