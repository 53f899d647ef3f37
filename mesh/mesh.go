// Package mesh provides triangle mesh import and procedural generation for
// the cloth simulator. A mesh carries vertex positions in world space, the
// unique undirected edge list the constraint solver works from, and triangle
// faces for rendering and picking.
package mesh

import (
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

const pi = float32(math.Pi)

func cosf(x float32) float32 { return float32(math.Cos(float64(x))) }
func sinf(x float32) float32 { return float32(math.Sin(float64(x))) }

// Mesh holds an indexed triangle mesh.
type Mesh struct {
	Vertices []mgl32.Vec3
	Edges    [][2]int32 // unique undirected edges, v0 < v1, insertion order
	Faces    [][3]int32
}

// Validate rejects meshes the particle system cannot be built from.
func (m *Mesh) Validate() error {
	n := int32(len(m.Vertices))
	if n == 0 {
		return fmt.Errorf("mesh: no vertices")
	}
	for i, e := range m.Edges {
		if e[0] == e[1] {
			return fmt.Errorf("mesh: edge %d connects vertex %d to itself", i, e[0])
		}
		if e[0] < 0 || e[0] >= n || e[1] < 0 || e[1] >= n {
			return fmt.Errorf("mesh: edge %d references vertex out of range [0, %d)", i, n)
		}
	}
	for i, f := range m.Faces {
		for _, v := range f {
			if v < 0 || v >= n {
				return fmt.Errorf("mesh: face %d references vertex out of range [0, %d)", i, n)
			}
		}
	}
	return nil
}

// Transform applies scale, then a rotation about axis by angle (radians),
// then translation, to every vertex in place.
func (m *Mesh) Transform(scale float32, axis mgl32.Vec3, angle float32, translate mgl32.Vec3) {
	rotate := angle != 0 && axis.Len() > 0
	var q mgl32.Quat
	if rotate {
		q = mgl32.QuatRotate(angle, axis.Normalize())
	}
	for i, v := range m.Vertices {
		v = v.Mul(scale)
		if rotate {
			v = q.Rotate(v)
		}
		m.Vertices[i] = v.Add(translate)
	}
}

// edgesFromFaces extracts the unique undirected edge list from the face list.
// Edges are stored with the smaller index first and appear in the order they
// are first encountered, which fixes the constraint ordering downstream.
func edgesFromFaces(faces [][3]int32) [][2]int32 {
	seen := make(map[[2]int32]struct{}, len(faces)*3/2)
	edges := make([][2]int32, 0, len(faces)*3/2)
	for _, f := range faces {
		for k := 0; k < 3; k++ {
			a, b := f[k], f[(k+1)%3]
			if a > b {
				a, b = b, a
			}
			key := [2]int32{a, b}
			if _, ok := seen[key]; ok {
				continue
			}
			seen[key] = struct{}{}
			edges = append(edges, key)
		}
	}
	return edges
}

// FlatGrid builds an n x n planar grid in the XZ plane, centered on the
// origin, spanning size units per axis at the given height.
func FlatGrid(n int, size, height float32) *Mesh {
	if n < 2 {
		n = 2
	}
	verts := make([]mgl32.Vec3, 0, n*n)
	step := size / float32(n-1)
	half := size / 2
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			verts = append(verts, mgl32.Vec3{
				float32(i)*step - half,
				height,
				float32(j)*step - half,
			})
		}
	}

	faces := make([][3]int32, 0, (n-1)*(n-1)*2)
	idx := func(i, j int) int32 { return int32(i*n + j) }
	for i := 0; i < n-1; i++ {
		for j := 0; j < n-1; j++ {
			faces = append(faces,
				[3]int32{idx(i, j), idx(i+1, j), idx(i, j+1)},
				[3]int32{idx(i+1, j), idx(i+1, j+1), idx(i, j+1)},
			)
		}
	}

	return &Mesh{Vertices: verts, Edges: edgesFromFaces(faces), Faces: faces}
}

// Cylinder builds a tube of segs columns around the Y axis and rings rows
// along it, open at both ends. Columns wrap around so the last column of
// faces connects back to the first. Column s sits at angle 2*pi*s/segs - pi,
// so a cylindrical parameterization of the tube assigns it exactly the
// fraction s/segs of the turn.
func Cylinder(segs, rings int, radius, height float32) *Mesh {
	if segs < 3 {
		segs = 3
	}
	if rings < 2 {
		rings = 2
	}
	verts := make([]mgl32.Vec3, 0, segs*rings)
	for s := 0; s < segs; s++ {
		theta := 2*pi*float32(s)/float32(segs) - pi
		x := radius * cosf(theta)
		z := radius * sinf(theta)
		for r := 0; r < rings; r++ {
			y := height * float32(r) / float32(rings-1)
			verts = append(verts, mgl32.Vec3{x, y, z})
		}
	}

	faces := make([][3]int32, 0, segs*(rings-1)*2)
	idx := func(s, r int) int32 { return int32((s%segs)*rings + r) }
	for s := 0; s < segs; s++ {
		for r := 0; r < rings-1; r++ {
			faces = append(faces,
				[3]int32{idx(s, r), idx(s+1, r), idx(s, r+1)},
				[3]int32{idx(s+1, r), idx(s+1, r+1), idx(s, r+1)},
			)
		}
	}

	return &Mesh{Vertices: verts, Edges: edgesFromFaces(faces), Faces: faces}
}
