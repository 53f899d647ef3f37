package surface

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// PlanarUV assigns each vertex a (u,v) coordinate by normalizing its x and z
// components against the bounding box. Suitable for sheet-like meshes laid
// out in the XZ plane.
func PlanarUV(verts []mgl32.Vec3) [][2]float32 {
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
	xRange := xMax - xMin
	if xRange == 0 {
		xRange = 1
	}
	zRange := zMax - zMin
	if zRange == 0 {
		zRange = 1
	}

	uv := make([][2]float32, len(verts))
	for i, p := range verts {
		uv[i] = [2]float32{(p.X() - xMin) / xRange, (p.Z() - zMin) / zRange}
	}
	return uv
}

// CylindricalUV assigns (u,v) by normalizing the angle around the Y axis to
// u and the height to v. Suitable for tube-like meshes (skirts, sleeves)
// evaluated with closed topology.
func CylindricalUV(verts []mgl32.Vec3) [][2]float32 {
	yMin, yMax := verts[0].Y(), verts[0].Y()
	for _, p := range verts {
		if p.Y() < yMin {
			yMin = p.Y()
		}
		if p.Y() > yMax {
			yMax = p.Y()
		}
	}
	yRange := yMax - yMin
	if yRange == 0 {
		yRange = 1
	}

	uv := make([][2]float32, len(verts))
	for i, p := range verts {
		theta := math.Atan2(float64(p.Z()), float64(p.X())) // [-pi, pi]
		u := float32((theta + math.Pi) / (2 * math.Pi))
		if u > 1 {
			u = 1
		}
		v := (p.Y() - yMin) / yRange
		uv[i] = [2]float32{u, v}
	}
	return uv
}
