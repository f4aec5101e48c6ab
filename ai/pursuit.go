package ai

import (
	"math"

	"github.com/akmonengine/arena/actor"
	"github.com/go-gl/mathgl/mgl64"
)

var up = mgl64.Vec3{0, 1, 0}

// Pursuit chases the ball directly: no prediction, no avoidance, no defense
type Pursuit struct {
	Force float64
	// fraction of the remaining heading error closed each frame
	HeadingBlend float64
	// canonical forward axis of the car shape
	Forward mgl64.Vec3
}

func DefaultPursuit() Pursuit {
	return Pursuit{
		Force:        30,
		HeadingBlend: 0.1,
		Forward:      mgl64.Vec3{0, 0, 1},
	}
}

// Step pushes the opponent toward the ball on the ground plane and turns it toward the ball.
// When both are vertically aligned there is no direction: no force is applied and the heading is kept.
// It returns the applied force.
func (p Pursuit) Step(opponent, ball *actor.RigidBody) mgl64.Vec3 {
	direction := ball.Transform.Position.Sub(opponent.Transform.Position)
	direction[1] = 0

	length := direction.Len()
	if length < 1e-9 {
		return mgl64.Vec3{}
	}
	direction = direction.Mul(1.0 / length)

	force := direction.Mul(p.Force)
	opponent.AddForce(force)

	target := p.heading(direction)
	current := opponent.Transform.Rotation
	if current.Dot(target) < 0 {
		target = target.Scale(-1)
	}
	opponent.SetRotation(mgl64.QuatSlerp(current, target, p.HeadingBlend))

	return force
}

// heading is the yaw rotation mapping Forward onto direction
func (p Pursuit) heading(direction mgl64.Vec3) mgl64.Quat {
	yaw := math.Atan2(direction.X(), direction.Z()) - math.Atan2(p.Forward.X(), p.Forward.Z())
	return mgl64.QuatRotate(yaw, up)
}
