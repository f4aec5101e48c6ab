package constraint

import (
	"math"

	"github.com/akmonengine/arena/actor"
	"github.com/go-gl/mathgl/mgl64"
)

const (
	// DefaultCompliance controls soft constraint stiffness for contact resolution.
	// Lower values = stiffer contacts (less penetration, potential jitter)
	// Higher values = softer contacts (more penetration, smoother)
	// Typical range: 1e-10 (very stiff) to 1e-6 (soft)
	DefaultCompliance = 1e-7

	// RestitutionThreshold is the approach speed under which a contact does not bounce.
	// Resting bodies gain about g*dt of approach speed per step and must not jitter.
	RestitutionThreshold = 1.0

	minPenetration = 1e-8
)

type ContactPoint struct {
	Position    mgl64.Vec3
	Penetration float64
}

// ContactConstraint pushes BodyB out of BodyA along Normal (pointing from A to B).
// The manifold is solved as one contact at the penetration-weighted centroid of its points,
// with the deepest penetration: a flat box resting on four corners gets a purely linear correction,
// a tilted one gets pulled level by its deeper corners.
type ContactConstraint struct {
	BodyA  *actor.RigidBody
	BodyB  *actor.RigidBody
	Points []ContactPoint
	Normal mgl64.Vec3

	Compliance  float64
	Restitution float64
	Friction    float64

	// magnitude of the normal correction of the last position pass
	positionLambda float64
}

// manifold returns the solved contact point and the deepest penetration
func (c *ContactConstraint) manifold() (mgl64.Vec3, float64, bool) {
	var centroid mgl64.Vec3
	var weight, deepest float64

	for _, point := range c.Points {
		if point.Penetration <= minPenetration {
			continue
		}
		centroid = centroid.Add(point.Position.Mul(point.Penetration))
		weight += point.Penetration
		deepest = math.Max(deepest, point.Penetration)
	}

	if weight <= 0 {
		return mgl64.Vec3{}, 0, false
	}
	return centroid.Mul(1.0 / weight), deepest, true
}

// generalizedInverseMass is the inverse mass seen along direction at the contact arms rA, rB
func (c *ContactConstraint) generalizedInverseMass(rA, rB, direction mgl64.Vec3, IA_inv, IB_inv mgl64.Mat3) float64 {
	rA_cross := rA.Cross(direction)
	rB_cross := rB.Cross(direction)

	return c.BodyA.InverseMass + c.BodyB.InverseMass +
		IA_inv.Mul3x1(rA_cross).Dot(rA_cross) +
		IB_inv.Mul3x1(rB_cross).Dot(rB_cross)
}

// SolvePosition resolves penetration with a single XPBD correction
func (c *ContactConstraint) SolvePosition(dt float64) {
	c.positionLambda = 0

	point, penetration, ok := c.manifold()
	if !ok {
		return
	}

	bodyA := c.BodyA
	bodyB := c.BodyB
	IA_inv := bodyA.GetInverseInertiaWorld()
	IB_inv := bodyB.GetInverseInertiaWorld()

	rA := point.Sub(bodyA.Transform.Position)
	rB := point.Sub(bodyB.Transform.Position)

	weight := c.generalizedInverseMass(rA, rB, c.Normal, IA_inv, IB_inv)
	if weight <= 1e-8 {
		return
	}

	alphaTilde := c.Compliance / (dt * dt)
	deltaLambda := -penetration / (weight + alphaTilde)
	c.positionLambda = math.Abs(deltaLambda)

	impulse := c.Normal.Mul(deltaLambda)

	if !bodyA.IsStatic() {
		bodyA.Transform.Position = bodyA.Transform.Position.Add(impulse.Mul(bodyA.InverseMass))
		applyRotation(bodyA, IA_inv.Mul3x1(rA.Cross(impulse)))
	}
	if !bodyB.IsStatic() {
		bodyB.Transform.Position = bodyB.Transform.Position.Sub(impulse.Mul(bodyB.InverseMass))
		applyRotation(bodyB, IB_inv.Mul3x1(rB.Cross(impulse.Mul(-1))))
	}
}

// applyRotation rotates body by the small angle deltaRot, q ≈ [1, δθ/2] * q
func applyRotation(body *actor.RigidBody, deltaRot mgl64.Vec3) {
	if deltaRot.Len() <= 1e-10 {
		return
	}

	qDelta := mgl64.Quat{W: 1.0, V: deltaRot.Mul(0.5)}.Normalize()
	body.Transform.SetRotation(qDelta.Mul(body.Transform.Rotation))
}

// SolveVelocity applies restitution and Coulomb friction
func (c *ContactConstraint) SolveVelocity(dt float64) {
	point, _, ok := c.manifold()
	if !ok {
		return
	}

	bodyA := c.BodyA
	bodyB := c.BodyB
	IA_inv := bodyA.GetInverseInertiaWorld()
	IB_inv := bodyB.GetInverseInertiaWorld()

	rA := point.Sub(bodyA.Transform.Position)
	rB := point.Sub(bodyB.Transform.Position)

	vA := bodyA.Velocity.Add(bodyA.AngularVelocity.Cross(rA))
	vB := bodyB.Velocity.Add(bodyB.AngularVelocity.Cross(rB))
	relativeVel := vB.Sub(vA)
	normalVel := relativeVel.Dot(c.Normal)

	vA_prev := bodyA.PresolveVelocity.Add(bodyA.PresolveAngularVelocity.Cross(rA))
	vB_prev := bodyB.PresolveVelocity.Add(bodyB.PresolveAngularVelocity.Cross(rB))
	normalVelPrev := vB_prev.Sub(vA_prev).Dot(c.Normal)

	effectiveMassNormal := c.generalizedInverseMass(rA, rB, c.Normal, IA_inv, IB_inv)
	if effectiveMassNormal < 1e-10 {
		return
	}

	// normal impulse
	restitution := c.Restitution
	if -normalVelPrev < RestitutionThreshold {
		restitution = 0
	}
	targetVel := -restitution * math.Min(normalVelPrev, 0)
	lambdaNormal := (targetVel - normalVel) / effectiveMassNormal

	// contacts never pull
	if lambdaNormal < 0 {
		lambdaNormal = 0
	}

	impulse := c.Normal.Mul(lambdaNormal)

	// friction, bounded by the larger of the velocity and position normal impulses
	normalLimit := math.Max(lambdaNormal, c.positionLambda/dt)
	if normalLimit > 0 && c.Friction > 0 {
		tangentVel := relativeVel.Sub(c.Normal.Mul(normalVel))
		tangentSpeed := tangentVel.Len()

		if tangentSpeed > 1e-6 {
			tangentDir := tangentVel.Mul(1.0 / tangentSpeed)
			effectiveMassTangent := c.generalizedInverseMass(rA, rB, tangentDir, IA_inv, IB_inv)

			if effectiveMassTangent >= 1e-10 {
				// |F_friction| <= μ * |F_normal|
				lambdaTangent := math.Min(tangentSpeed/effectiveMassTangent, c.Friction*normalLimit)
				impulse = impulse.Add(tangentDir.Mul(-lambdaTangent))
			}
		}
	}

	if !bodyA.IsStatic() {
		bodyA.Velocity = bodyA.Velocity.Sub(impulse.Mul(bodyA.InverseMass))
		bodyA.AngularVelocity = bodyA.AngularVelocity.Add(IA_inv.Mul3x1(rA.Cross(impulse.Mul(-1))))
		clampSmallVelocities(bodyA)
	}
	if !bodyB.IsStatic() {
		bodyB.Velocity = bodyB.Velocity.Add(impulse.Mul(bodyB.InverseMass))
		bodyB.AngularVelocity = bodyB.AngularVelocity.Add(IB_inv.Mul3x1(rB.Cross(impulse)))
		clampSmallVelocities(bodyB)
	}
}
