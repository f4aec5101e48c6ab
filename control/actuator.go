package control

import (
	"github.com/akmonengine/arena/actor"
	"github.com/akmonengine/arena/input"
	"github.com/go-gl/mathgl/mgl64"
)

// Actuator turns a drive intent into forces on a car body. Rates are per frame.
type Actuator struct {
	// canonical forward axis of the car shape
	Forward         mgl64.Vec3
	DriveForce      float64
	TurnRate        float64 // rad/s
	BoostMultiplier float64
	BoostDrain      float64
	BoostRegen      float64
}

func DefaultActuator() Actuator {
	return Actuator{
		Forward:         mgl64.Vec3{0, 0, 1},
		DriveForce:      25,
		TurnRate:        3,
		BoostMultiplier: 3,
		BoostDrain:      0.5,
		BoostRegen:      0.2,
	}
}

// GroundForward returns the horizontal forward direction of the body.
// ok is false when the car points straight up or down.
func (a Actuator) GroundForward(body *actor.RigidBody) (mgl64.Vec3, bool) {
	return horizontal(body.Forward(a.Forward))
}

// ApplyPlayerControl applies drive, turn and boost for one frame.
// Turning assigns the yaw rate directly, overriding any spin from contacts while held.
// Boost only fires when the reserve is not empty at the start of the frame.
func (a Actuator) ApplyPlayerControl(body *actor.RigidBody, intent input.DriveIntent, boost *BoostReserve) {
	canBoost := !boost.Empty()

	forward, ok := a.GroundForward(body)
	if ok {
		if intent.Accelerate {
			body.AddForce(forward.Mul(a.DriveForce))
		}
		if intent.Reverse {
			body.AddForce(forward.Mul(-a.DriveForce))
		}
		if intent.Boost && canBoost {
			body.AddForce(forward.Mul(a.DriveForce * a.BoostMultiplier))
		}
	}

	switch {
	case intent.TurnLeft && !intent.TurnRight:
		body.AngularVelocity[1] = a.TurnRate
	case intent.TurnRight && !intent.TurnLeft:
		body.AngularVelocity[1] = -a.TurnRate
	}

	if intent.Boost {
		if canBoost {
			boost.Spend(a.BoostDrain)
		}
	} else {
		boost.Regen(a.BoostRegen)
	}
}

// horizontal drops the vertical component and renormalizes
func horizontal(v mgl64.Vec3) (mgl64.Vec3, bool) {
	v[1] = 0
	length := v.Len()
	if length < 1e-9 {
		return mgl64.Vec3{}, false
	}
	return v.Mul(1.0 / length), true
}
