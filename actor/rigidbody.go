package actor

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// BodyID is the stable identity of a body in the arena.
// Presentation layers look transforms up by this value every frame.
type BodyID int

const (
	StaticGeometry BodyID = iota
	Ball
	PlayerCar
	OpponentCar
)

func (id BodyID) String() string {
	switch id {
	case Ball:
		return "ball"
	case PlayerCar:
		return "player"
	case OpponentCar:
		return "opponent"
	default:
		return "static"
	}
}

// BodyType represents the type of rigid body
type BodyType int

const (
	// BodyTypeDynamic bodies are affected by forces, gravity, and collisions
	BodyTypeDynamic BodyType = iota

	// BodyTypeStatic bodies are immovable and have infinite mass (floor, walls)
	BodyTypeStatic
)

// Material describes the surface and drag of a body.
// Pair-specific overrides live in constraint.Materials and are looked up by Name.
type Material struct {
	Name        string
	Restitution float64 // 0= no rebound, 1= perfect restitution
	Friction    float64

	LinearDamping  float64 // exponential decay rate, 1/s
	AngularDamping float64
}

// RigidBody represents a rigid body in the physics simulation
type RigidBody struct {
	ID BodyID

	PreviousTransform Transform
	Transform         Transform

	PresolveVelocity mgl64.Vec3
	Velocity         mgl64.Vec3

	PresolveAngularVelocity mgl64.Vec3
	AngularVelocity         mgl64.Vec3

	Mass                float64
	InverseMass         float64
	InertiaLocal        mgl64.Mat3
	InverseInertiaLocal mgl64.Mat3

	accumulatedForce  mgl64.Vec3
	accumulatedTorque mgl64.Vec3

	Material Material
	BodyType BodyType

	Shape ShapeInterface
}

// NewRigidBody creates a new rigid body.
// A mass <= 0 makes the body static: it is never integrated and never moved by contacts.
func NewRigidBody(id BodyID, transform Transform, shape ShapeInterface, mass float64, material Material) *RigidBody {
	if transform.Rotation == (mgl64.Quat{}) {
		transform.Rotation = mgl64.QuatIdent()
	}
	transform.SetRotation(transform.Rotation)

	rb := &RigidBody{
		ID:                id,
		PreviousTransform: transform,
		Transform:         transform,
		Shape:             shape,
		Material:          material,
	}

	if mass <= 0 {
		rb.BodyType = BodyTypeStatic
		rb.Mass = math.Inf(1)
	} else {
		rb.BodyType = BodyTypeDynamic
		rb.Mass = mass
		rb.InverseMass = 1.0 / mass
		rb.InertiaLocal = shape.ComputeInertia(mass)
		rb.InverseInertiaLocal = rb.InertiaLocal.Inv()
	}
	rb.Shape.ComputeAABB(rb.Transform)

	return rb
}

// IsStatic reports whether the body has infinite mass
func (rb *RigidBody) IsStatic() bool {
	return rb.BodyType == BodyTypeStatic
}

// Integrate applies gravity, accumulated forces and damping, then predicts the new pose.
// Forces are consumed: they act for exactly one step.
func (rb *RigidBody) Integrate(dt float64, gravity mgl64.Vec3) {
	if rb.IsStatic() {
		return
	}

	rb.PreviousTransform = rb.Transform

	// linear
	acceleration := gravity.Add(rb.accumulatedForce.Mul(rb.InverseMass))
	rb.Velocity = rb.Velocity.Add(acceleration.Mul(dt))
	rb.Velocity = rb.Velocity.Mul(math.Exp(-rb.Material.LinearDamping * dt))
	rb.Transform.Position = rb.Transform.Position.Add(rb.Velocity.Mul(dt))

	// angular
	angularAccel := rb.GetInverseInertiaWorld().Mul3x1(rb.accumulatedTorque)
	rb.AngularVelocity = rb.AngularVelocity.Add(angularAccel.Mul(dt))
	rb.AngularVelocity = rb.AngularVelocity.Mul(math.Exp(-rb.Material.AngularDamping * dt))

	omegaQuat := mgl64.Quat{V: rb.AngularVelocity, W: 0}
	qDot := omegaQuat.Mul(rb.Transform.Rotation).Scale(0.5)
	rb.Transform.SetRotation(rb.Transform.Rotation.Add(qDot.Scale(dt)))

	rb.PresolveVelocity = rb.Velocity
	rb.PresolveAngularVelocity = rb.AngularVelocity

	rb.Shape.ComputeAABB(rb.Transform)
	rb.ClearForces()
}

// Update derives the velocities from the pose change of the step
func (rb *RigidBody) Update(dt float64) {
	if rb.IsStatic() {
		return
	}

	rb.Velocity = rb.Transform.Position.Sub(rb.PreviousTransform.Position).Mul(1.0 / dt)
	qDelta := rb.Transform.Rotation.Mul(rb.PreviousTransform.Rotation.Conjugate()).Normalize()
	if qDelta.W >= 0.0 {
		rb.AngularVelocity = qDelta.V.Mul(2.0 / dt)
	} else {
		rb.AngularVelocity = qDelta.V.Mul(-2.0 / dt)
	}
	rb.Shape.ComputeAABB(rb.Transform)
}

func (rb *RigidBody) AddForce(force mgl64.Vec3) {
	if rb.IsStatic() {
		return
	}
	rb.accumulatedForce = rb.accumulatedForce.Add(force)
}

func (rb *RigidBody) AddTorque(torque mgl64.Vec3) {
	if rb.IsStatic() {
		return
	}
	rb.accumulatedTorque = rb.accumulatedTorque.Add(torque)
}

// AccumulatedForce returns the force waiting for the next step
func (rb *RigidBody) AccumulatedForce() mgl64.Vec3 {
	return rb.accumulatedForce
}

func (rb *RigidBody) ClearForces() {
	rb.accumulatedForce = mgl64.Vec3{}
	rb.accumulatedTorque = mgl64.Vec3{}
}

// Teleport moves the body to position and stops it. Orientation is kept.
func (rb *RigidBody) Teleport(position mgl64.Vec3) {
	if rb.IsStatic() {
		return
	}

	rb.Transform.Position = position
	rb.PreviousTransform = rb.Transform
	rb.Velocity = mgl64.Vec3{}
	rb.AngularVelocity = mgl64.Vec3{}
	rb.PresolveVelocity = mgl64.Vec3{}
	rb.PresolveAngularVelocity = mgl64.Vec3{}
	rb.ClearForces()
	rb.Shape.ComputeAABB(rb.Transform)
}

// SetRotation replaces the orientation of the body
func (rb *RigidBody) SetRotation(rotation mgl64.Quat) {
	rb.Transform.SetRotation(rotation)
	rb.Shape.ComputeAABB(rb.Transform)
}

// Forward rotates the canonical forward axis into world space
func (rb *RigidBody) Forward(canonical mgl64.Vec3) mgl64.Vec3 {
	return rb.Transform.Rotation.Rotate(canonical)
}

// GetInverseInertiaWorld returns R * I_local^-1 * R^T, zero for static bodies
func (rb *RigidBody) GetInverseInertiaWorld() mgl64.Mat3 {
	if rb.IsStatic() {
		return mgl64.Mat3{}
	}

	R := rb.Transform.Rotation.Mat4().Mat3()
	return R.Mul3(rb.InverseInertiaLocal).Mul3(R.Transpose())
}
