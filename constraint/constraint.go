package constraint

import (
	"math"

	"github.com/akmonengine/arena/actor"
	"github.com/go-gl/mathgl/mgl64"
)

type Constraint interface {
	SolvePosition(dt float64)
	SolveVelocity(dt float64)
}

// ContactMaterial is the surface response of a pair of materials
type ContactMaterial struct {
	Restitution float64
	Friction    float64
}

type materialKey struct {
	a, b string
}

func makeMaterialKey(a, b string) materialKey {
	if b < a {
		a, b = b, a
	}
	return materialKey{a: a, b: b}
}

// Materials holds the pair-specific contact materials, keyed by material name.
// The zero value is not usable, use NewMaterials.
type Materials struct {
	pairs map[materialKey]ContactMaterial
}

func NewMaterials() *Materials {
	return &Materials{pairs: make(map[materialKey]ContactMaterial)}
}

// Set registers the response for the unordered pair (a, b)
func (m *Materials) Set(a, b string, contact ContactMaterial) {
	m.pairs[makeMaterialKey(a, b)] = contact
}

// Resolve returns the registered response for the pair, or combines both materials
func (m *Materials) Resolve(matA, matB actor.Material) ContactMaterial {
	if m != nil {
		if contact, ok := m.pairs[makeMaterialKey(matA.Name, matB.Name)]; ok {
			return contact
		}
	}

	return ContactMaterial{
		Restitution: ComputeRestitution(matA, matB),
		Friction:    ComputeFriction(matA, matB),
	}
}

func ComputeRestitution(matA, matB actor.Material) float64 {
	return (matA.Restitution + matB.Restitution) / 2.0
}

// ComputeFriction uses the geometric mean
func ComputeFriction(matA, matB actor.Material) float64 {
	return math.Sqrt(matA.Friction * matB.Friction)
}

func clampSmallVelocities(rb *actor.RigidBody) {
	const velocityThreshold = 1e-5

	if rb.Velocity.Len() < velocityThreshold {
		rb.Velocity = mgl64.Vec3{0, 0, 0}
	}
	if rb.AngularVelocity.Len() < velocityThreshold {
		rb.AngularVelocity = mgl64.Vec3{0, 0, 0}
	}
}
