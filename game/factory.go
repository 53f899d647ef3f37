package game

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/pthm-cable/drape/cloth"
	"github.com/pthm-cable/drape/mesh"
	"github.com/pthm-cable/drape/surface"
)

// buildScene loads or generates the mesh, applies the configured transform,
// and constructs the particle system, mapper, and evaluator around it.
func (g *Game) buildScene() error {
	cfg := g.cfg

	m, err := g.loadMesh()
	if err != nil {
		return err
	}

	tr := cfg.Model.Translate
	m.Transform(float32(cfg.Model.Scale), mgl32.Vec3{}, 0,
		mgl32.Vec3{float32(tr[0]), float32(tr[1]), float32(tr[2])})

	ps, err := cloth.NewParticleSystem(m)
	if err != nil {
		return err
	}
	g.ps = ps
	g.solver = cloth.NewSolver(cfg.Telemetry.Residuals)
	g.integrator = cloth.NewIntegrator(ps, g.solver, g.opts.Seed)

	if err := g.applyPins(); err != nil {
		return err
	}

	var uv [][2]float32
	switch cfg.Model.Mapping {
	case "cylindrical":
		uv = surface.CylindricalUV(ps.X0)
	default:
		uv = surface.PlanarUV(ps.X0)
	}

	topo := surface.Open
	if cfg.Derived.Closed {
		topo = surface.Closed
	}

	g.mapper, err = surface.NewGridMapper(uv, cfg.Surface.NumU, cfg.Surface.NumV, cfg.Surface.OrderU, topo)
	if err != nil {
		return err
	}
	g.eval, err = surface.NewEvaluator(
		cfg.Surface.NumU, cfg.Surface.NumV,
		cfg.Derived.ResU, cfg.Derived.ResV,
		cfg.Surface.OrderU, cfg.Surface.OrderV, topo)
	if err != nil {
		return err
	}

	g.sceneCenter, g.sceneRadius = boundingSphere(ps.X0)
	g.rebuildSurface()

	return nil
}

// loadMesh imports the configured OBJ, or falls back to a generated mesh
// matching the configured topology.
func (g *Game) loadMesh() (*mesh.Mesh, error) {
	cfg := g.cfg
	if cfg.Model.Path != "" {
		return mesh.LoadOBJ(cfg.Model.Path)
	}
	if cfg.Derived.Closed {
		// The closed net has numU-1 distinct columns around the turn (row 0
		// duplicates the last row at the seam), so generate one mesh column
		// per distinct control row. Each column then lands on a bucket
		// center under the cylindrical mapping.
		return mesh.Cylinder(cfg.Surface.NumU-1, cfg.Surface.NumV, 0.8, 1.8), nil
	}
	return mesh.FlatGrid(cfg.Model.GridSize, 2.0, 1.5), nil
}

// applyPins pins vertices according to the configured pin mode, plus any
// explicit indices.
func (g *Game) applyPins() error {
	switch g.cfg.Model.PinMode {
	case "corners":
		for _, i := range cornerVertices(g.ps.X0) {
			g.ps.Fixed[i] = 0
		}
	case "top":
		for _, i := range topVertices(g.ps.X0) {
			g.ps.Fixed[i] = 0
		}
	}
	for _, i := range g.cfg.Model.Pins {
		if err := g.ps.SetPinned(i, true); err != nil {
			return fmt.Errorf("pinning configured vertex: %w", err)
		}
	}
	return nil
}

// cornerVertices returns the vertex nearest each corner of the XZ bounding
// box.
func cornerVertices(verts []mgl32.Vec3) []int {
	xMin, xMax := verts[0].X(), verts[0].X()
	zMin, zMax := verts[0].Z(), verts[0].Z()
	for _, p := range verts {
		if p.X() < xMin {
			xMin = p.X()
		}
		if p.X() > xMax {
			xMax = p.X()
		}
		if p.Z() < zMin {
			zMin = p.Z()
		}
		if p.Z() > zMax {
			zMax = p.Z()
		}
	}

	corners := [4][2]float32{{xMin, zMin}, {xMin, zMax}, {xMax, zMin}, {xMax, zMax}}
	out := make([]int, 4)
	for c, corner := range corners {
		best := float32(-1)
		for i, p := range verts {
			dx := p.X() - corner[0]
			dz := p.Z() - corner[1]
			d := dx*dx + dz*dz
			if best < 0 || d < best {
				best = d
				out[c] = i
			}
		}
	}
	return out
}

// topVertices returns the vertices within a small band of the maximum
// height, e.g. the top ring of a tube.
func topVertices(verts []mgl32.Vec3) []int {
	yMin, yMax := verts[0].Y(), verts[0].Y()
	for _, p := range verts {
		if p.Y() < yMin {
			yMin = p.Y()
		}
		if p.Y() > yMax {
			yMax = p.Y()
		}
	}
	band := (yMax - yMin) * 0.01
	if band == 0 {
		band = 1e-5
	}

	var out []int
	for i, p := range verts {
		if p.Y() >= yMax-band {
			out = append(out, i)
		}
	}
	return out
}

// boundingSphere returns the centroid and the radius of the farthest vertex
// from it.
func boundingSphere(verts []mgl32.Vec3) (mgl32.Vec3, float32) {
	var center mgl32.Vec3
	for _, p := range verts {
		center = center.Add(p)
	}
	center = center.Mul(1 / float32(len(verts)))

	var radius float32
	for _, p := range verts {
		if d := p.Sub(center).Len(); d > radius {
			radius = d
		}
	}
	if radius == 0 {
		radius = 1
	}
	return center, radius
}
