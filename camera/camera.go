package camera

import (
	"github.com/akmonengine/arena/actor"
	"github.com/go-gl/mathgl/mgl64"
)

// Camera trails a body with exponential smoothing. The offset is in world space.
type Camera struct {
	Position mgl64.Vec3
	Target   mgl64.Vec3
	Up       mgl64.Vec3
	Offset   mgl64.Vec3
	// fraction of the remaining distance covered each frame
	Smoothing float64
}

func New() *Camera {
	offset := mgl64.Vec3{-15, 10, 15}
	return &Camera{
		Position:  offset,
		Up:        mgl64.Vec3{0, 1, 0},
		Offset:    offset,
		Smoothing: 0.05,
	}
}

// Snap places the camera at its resting spot behind body, without smoothing
func (c *Camera) Snap(body *actor.RigidBody) {
	c.Target = body.Transform.Position
	c.Position = c.Target.Add(c.Offset)
}

// Follow moves the camera a step toward its spot behind body and aims at it
func (c *Camera) Follow(body *actor.RigidBody) {
	car := body.Transform.Position
	desired := car.Add(c.Offset)

	c.Position = c.Position.Add(desired.Sub(c.Position).Mul(c.Smoothing))
	c.Target = car
}

// View returns the world to camera matrix
func (c *Camera) View() mgl64.Mat4 {
	return mgl64.LookAtV(c.Position, c.Target, c.Up)
}
