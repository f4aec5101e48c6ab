package arena

import (
	"math"

	"github.com/akmonengine/arena/actor"
	"github.com/akmonengine/arena/constraint"
	"github.com/go-gl/mathgl/mgl64"
)

const contactCompliance = constraint.DefaultCompliance

// detectCollision splits planes from the moving bodies, runs the broad phase on the movers
// and tests each mover against every plane.
func (w *World) detectCollision() []*constraint.ContactConstraint {
	var planes, movers []*actor.RigidBody
	for _, body := range w.Bodies {
		if _, ok := body.Shape.(*actor.Plane); ok {
			planes = append(planes, body)
		} else {
			movers = append(movers, body)
		}
	}

	contacts := NarrowPhase(BroadPhase(w.SpatialGrid, movers), w.Materials)
	contacts = append(contacts, collidePlanes(planes, movers, w.Materials)...)

	return contacts
}

// BroadPhase returns the pairs of bodies whose AABBs overlap
func BroadPhase(spatialGrid *SpatialGrid, bodies []*actor.RigidBody) []Pair {
	spatialGrid.Clear()
	for i, body := range bodies {
		spatialGrid.Insert(i, body)
	}
	spatialGrid.SortCells()

	return spatialGrid.FindPairs(bodies)
}

// NarrowPhase turns overlapping pairs into contact constraints
func NarrowPhase(pairs []Pair, materials *constraint.Materials) []*constraint.ContactConstraint {
	contacts := make([]*constraint.ContactConstraint, 0, len(pairs))
	for _, pair := range pairs {
		if contact, ok := Collide(pair.BodyA, pair.BodyB); ok {
			applyMaterial(contact, materials)
			contacts = append(contacts, contact)
		}
	}

	return contacts
}

func collidePlanes(planes, bodies []*actor.RigidBody, materials *constraint.Materials) []*constraint.ContactConstraint {
	var contacts []*constraint.ContactConstraint
	for _, planeBody := range planes {
		for _, body := range bodies {
			if body.IsStatic() {
				continue
			}
			if contact, ok := CollidePlane(planeBody, body); ok {
				applyMaterial(contact, materials)
				contacts = append(contacts, contact)
			}
		}
	}

	return contacts
}

func applyMaterial(contact *constraint.ContactConstraint, materials *constraint.Materials) {
	response := materials.Resolve(contact.BodyA.Material, contact.BodyB.Material)
	contact.Restitution = response.Restitution
	contact.Friction = response.Friction
	contact.Compliance = contactCompliance
}

// CollidePlane tests object against the plane carried by planeBody.
// The plane is always BodyA, the normal points out of the plane.
func CollidePlane(planeBody, object *actor.RigidBody) (*constraint.ContactConstraint, bool) {
	plane, ok := planeBody.Shape.(*actor.Plane)
	if !ok {
		return nil, false
	}

	distance := plane.Distance - plane.Normal.Dot(planeBody.Transform.Position)
	collision, result := object.Shape.CollideWithPlane(plane.Normal, distance, object.Transform)
	if !collision {
		return nil, false
	}

	points := make([]constraint.ContactPoint, 0, len(result))
	for _, point := range result {
		points = append(points, constraint.ContactPoint{Position: point.Position, Penetration: point.Penetration})
	}

	return &constraint.ContactConstraint{
		BodyA:  planeBody,
		BodyB:  object,
		Normal: plane.Normal,
		Points: points,
	}, true
}

// Collide dispatches a body pair to the analytic test for their shapes
func Collide(bodyA, bodyB *actor.RigidBody) (*constraint.ContactConstraint, bool) {
	switch a := bodyA.Shape.(type) {
	case *actor.Sphere:
		switch b := bodyB.Shape.(type) {
		case *actor.Sphere:
			return collideSpheres(bodyA, a.Radius, bodyB, b.Radius)
		case *actor.Box:
			return collideSphereBox(bodyA, a, bodyB, b)
		case *actor.Plane:
			return CollidePlane(bodyB, bodyA)
		}
	case *actor.Box:
		switch b := bodyB.Shape.(type) {
		case *actor.Sphere:
			return collideSphereBox(bodyB, b, bodyA, a)
		case *actor.Box:
			// boxes only ever meet as cars, a sphere proxy is enough there
			return collideSpheres(bodyA, a.ProxyRadius(), bodyB, b.ProxyRadius())
		case *actor.Plane:
			return CollidePlane(bodyB, bodyA)
		}
	case *actor.Plane:
		return CollidePlane(bodyA, bodyB)
	}

	return nil, false
}

func collideSpheres(bodyA *actor.RigidBody, radiusA float64, bodyB *actor.RigidBody, radiusB float64) (*constraint.ContactConstraint, bool) {
	delta := bodyB.Transform.Position.Sub(bodyA.Transform.Position)
	distance := delta.Len()
	penetration := radiusA + radiusB - distance
	if penetration <= 0 {
		return nil, false
	}

	normal := mgl64.Vec3{0, 1, 0}
	if distance > 1e-9 {
		normal = delta.Mul(1.0 / distance)
	}

	return &constraint.ContactConstraint{
		BodyA:  bodyA,
		BodyB:  bodyB,
		Normal: normal,
		Points: []constraint.ContactPoint{{
			Position:    bodyA.Transform.Position.Add(normal.Mul(radiusA)),
			Penetration: penetration,
		}},
	}, true
}

// collideSphereBox returns a contact with the box as BodyA and the normal pointing toward the sphere
func collideSphereBox(sphereBody *actor.RigidBody, sphere *actor.Sphere, boxBody *actor.RigidBody, box *actor.Box) (*constraint.ContactConstraint, bool) {
	center := sphereBody.Transform.Position
	local := boxBody.Transform.InverseRotation.Rotate(center.Sub(boxBody.Transform.Position))

	var clamped mgl64.Vec3
	inside := true
	for axis := 0; axis < 3; axis++ {
		h := box.HalfExtents[axis]
		clamped[axis] = math.Max(-h, math.Min(h, local[axis]))
		if math.Abs(local[axis]) > h {
			inside = false
		}
	}

	var normal mgl64.Vec3
	var point mgl64.Vec3
	var penetration float64

	if !inside {
		closest := boxBody.Transform.Position.Add(boxBody.Transform.Rotation.Rotate(clamped))
		delta := center.Sub(closest)
		distance := delta.Len()
		if distance >= sphere.Radius || distance < 1e-12 {
			return nil, false
		}

		normal = delta.Mul(1.0 / distance)
		point = closest
		penetration = sphere.Radius - distance
	} else {
		// center inside the box: push out through the nearest face
		bestAxis := 0
		bestDepth := math.Inf(1)
		for axis := 0; axis < 3; axis++ {
			depth := box.HalfExtents[axis] - math.Abs(local[axis])
			if depth < bestDepth {
				bestDepth = depth
				bestAxis = axis
			}
		}

		var localNormal mgl64.Vec3
		localNormal[bestAxis] = 1
		if local[bestAxis] < 0 {
			localNormal[bestAxis] = -1
		}

		normal = boxBody.Transform.Rotation.Rotate(localNormal)
		point = center
		penetration = sphere.Radius + bestDepth
	}

	return &constraint.ContactConstraint{
		BodyA:  boxBody,
		BodyB:  sphereBody,
		Normal: normal,
		Points: []constraint.ContactPoint{{Position: point, Penetration: penetration}},
	}, true
}
