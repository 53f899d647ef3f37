// Package camera provides an orbit camera for viewing the simulation.
package camera

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// Camera orbits a target point at a distance, parameterized by yaw around
// the vertical axis and pitch above the horizon.
type Camera struct {
	Target   mgl32.Vec3
	Yaw      float32 // radians around Y
	Pitch    float32 // radians above the XZ plane
	Distance float32

	// Zoom constraints
	MinDistance, MaxDistance float32
}

// pitchLimit keeps the camera off the poles where the view basis degenerates.
const pitchLimit = float32(math.Pi/2) * 0.98

// New creates a camera orbiting target from the given distance, looking
// slightly down.
func New(target mgl32.Vec3, distance float32) *Camera {
	return &Camera{
		Target:      target,
		Yaw:         0.6,
		Pitch:       0.4,
		Distance:    distance,
		MinDistance: distance * 0.2,
		MaxDistance: distance * 5,
	}
}

// Position returns the camera's world-space position.
func (c *Camera) Position() mgl32.Vec3 {
	cosP := float32(math.Cos(float64(c.Pitch)))
	return c.Target.Add(mgl32.Vec3{
		c.Distance * cosP * float32(math.Cos(float64(c.Yaw))),
		c.Distance * float32(math.Sin(float64(c.Pitch))),
		c.Distance * cosP * float32(math.Sin(float64(c.Yaw))),
	})
}

// Orbit rotates the view by the given yaw/pitch deltas, clamping pitch away
// from the poles.
func (c *Camera) Orbit(dYaw, dPitch float32) {
	c.Yaw += dYaw
	c.Pitch += dPitch
	if c.Pitch > pitchLimit {
		c.Pitch = pitchLimit
	}
	if c.Pitch < -pitchLimit {
		c.Pitch = -pitchLimit
	}
}

// ZoomBy scales the orbit distance; factor < 1 zooms in.
func (c *Camera) ZoomBy(factor float32) {
	c.Distance *= factor
	if c.Distance < c.MinDistance {
		c.Distance = c.MinDistance
	}
	if c.Distance > c.MaxDistance {
		c.Distance = c.MaxDistance
	}
}

// Pan moves the target in the view plane.
func (c *Camera) Pan(dx, dy float32) {
	forward := c.Target.Sub(c.Position()).Normalize()
	right := forward.Cross(mgl32.Vec3{0, 1, 0}).Normalize()
	up := right.Cross(forward)
	c.Target = c.Target.Add(right.Mul(dx)).Add(up.Mul(dy))
}

// Reset recenters on the given target at the given distance.
func (c *Camera) Reset(target mgl32.Vec3, distance float32) {
	c.Target = target
	c.Yaw = 0.6
	c.Pitch = 0.4
	c.Distance = distance
}
