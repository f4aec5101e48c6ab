package arena

import (
	"math"
	"testing"

	"github.com/akmonengine/arena/actor"
	"github.com/go-gl/mathgl/mgl64"
)

func createSphere(id actor.BodyID, position mgl64.Vec3, radius float64) *actor.RigidBody {
	return actor.NewRigidBody(id, actor.NewTransformAt(position, mgl64.QuatIdent()), &actor.Sphere{Radius: radius}, 1, actor.Material{Name: MaterialBall})
}

func createBox(id actor.BodyID, position mgl64.Vec3, rotation mgl64.Quat) *actor.RigidBody {
	return actor.NewRigidBody(id, actor.NewTransformAt(position, rotation), &actor.Box{HalfExtents: mgl64.Vec3{1, 0.5, 2}}, 1, actor.Material{Name: MaterialCar})
}

func createPlane(normal mgl64.Vec3, distance float64) *actor.RigidBody {
	return actor.NewRigidBody(actor.StaticGeometry, actor.NewTransform(), &actor.Plane{Normal: normal, Distance: distance}, 0, actor.Material{Name: MaterialGround})
}

// =============================================================================
// Sphere - Sphere
// =============================================================================

func TestCollide_SphereSphere(t *testing.T) {
	tests := []struct {
		name            string
		positionB       mgl64.Vec3
		wantCollision   bool
		wantNormal      mgl64.Vec3
		wantPenetration float64
	}{
		{"separated", mgl64.Vec3{2.5, 0, 0}, false, mgl64.Vec3{}, 0},
		{"touching", mgl64.Vec3{2, 0, 0}, false, mgl64.Vec3{}, 0},
		{"overlapping", mgl64.Vec3{0, 0, 1.5}, true, mgl64.Vec3{0, 0, 1}, 0.5},
		{"coincident", mgl64.Vec3{0, 0, 0}, true, mgl64.Vec3{0, 1, 0}, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := createSphere(actor.Ball, mgl64.Vec3{}, 1)
			b := createSphere(actor.PlayerCar, tt.positionB, 1)

			contact, ok := Collide(a, b)
			if ok != tt.wantCollision {
				t.Fatalf("collision = %v, want %v", ok, tt.wantCollision)
			}
			if !ok {
				return
			}
			if !vec3AlmostEqual(contact.Normal, tt.wantNormal, 1e-12) {
				t.Errorf("normal = %v, want %v", contact.Normal, tt.wantNormal)
			}
			if !almostEqual(contact.Points[0].Penetration, tt.wantPenetration, 1e-12) {
				t.Errorf("penetration = %v, want %v", contact.Points[0].Penetration, tt.wantPenetration)
			}
			if contact.BodyA != a || contact.BodyB != b {
				t.Error("body order should be kept")
			}
		})
	}
}

// =============================================================================
// Sphere - Box
// =============================================================================

func TestCollide_SphereBoxOutside(t *testing.T) {
	box := createBox(actor.PlayerCar, mgl64.Vec3{}, mgl64.QuatIdent())
	ball := createSphere(actor.Ball, mgl64.Vec3{0, 1.4, 0}, 1)

	contact, ok := Collide(ball, box)
	if !ok {
		t.Fatal("expected a contact")
	}
	if contact.BodyA != box || contact.BodyB != ball {
		t.Error("the box should be BodyA so the normal points toward the ball")
	}
	if !vec3AlmostEqual(contact.Normal, mgl64.Vec3{0, 1, 0}, 1e-12) {
		t.Errorf("normal = %v, want {0 1 0}", contact.Normal)
	}
	if !almostEqual(contact.Points[0].Penetration, 0.1, 1e-12) {
		t.Errorf("penetration = %v, want 0.1", contact.Points[0].Penetration)
	}
	if !vec3AlmostEqual(contact.Points[0].Position, mgl64.Vec3{0, 0.5, 0}, 1e-12) {
		t.Errorf("contact point = %v, want top face center", contact.Points[0].Position)
	}
}

func TestCollide_SphereBoxRespectsOrientation(t *testing.T) {
	ballPosition := mgl64.Vec3{2.5, 0, 0}

	// the long axis of the car is local z
	_, ok := Collide(createSphere(actor.Ball, ballPosition, 1), createBox(actor.PlayerCar, mgl64.Vec3{}, mgl64.QuatIdent()))
	if ok {
		t.Error("ball beside the narrow side should not touch an unrotated car")
	}

	turned := createBox(actor.PlayerCar, mgl64.Vec3{}, mgl64.QuatRotate(math.Pi/2, Up))
	contact, ok := Collide(turned, createSphere(actor.Ball, ballPosition, 1))
	if !ok {
		t.Fatal("ball should touch the nose of a car turned toward +x")
	}
	if !vec3AlmostEqual(contact.Normal, mgl64.Vec3{1, 0, 0}, 1e-9) {
		t.Errorf("normal = %v, want {1 0 0}", contact.Normal)
	}
	if !almostEqual(contact.Points[0].Penetration, 0.5, 1e-9) {
		t.Errorf("penetration = %v, want 0.5", contact.Points[0].Penetration)
	}
}

func TestCollide_SphereCenterInsideBox(t *testing.T) {
	box := createBox(actor.PlayerCar, mgl64.Vec3{}, mgl64.QuatIdent())
	ball := createSphere(actor.Ball, mgl64.Vec3{0.2, 0.3, -0.5}, 1)

	contact, ok := Collide(box, ball)
	if !ok {
		t.Fatal("expected a contact")
	}
	// nearest face is +y, 0.2 away
	if !vec3AlmostEqual(contact.Normal, mgl64.Vec3{0, 1, 0}, 1e-12) {
		t.Errorf("normal = %v, want {0 1 0}", contact.Normal)
	}
	if !almostEqual(contact.Points[0].Penetration, 1.2, 1e-12) {
		t.Errorf("penetration = %v, want 1.2", contact.Points[0].Penetration)
	}
}

// =============================================================================
// Box - Box
// =============================================================================

func TestCollide_BoxBoxProxy(t *testing.T) {
	a := createBox(actor.PlayerCar, mgl64.Vec3{0, 0.5, 0}, mgl64.QuatIdent())
	b := createBox(actor.OpponentCar, mgl64.Vec3{2.5, 0.5, 0}, mgl64.QuatIdent())

	contact, ok := Collide(a, b)
	if !ok {
		t.Fatal("cars 2.5 apart should touch through their 1.5 proxies")
	}
	if !almostEqual(contact.Points[0].Penetration, 0.5, 1e-12) {
		t.Errorf("penetration = %v, want 0.5", contact.Points[0].Penetration)
	}

	far := createBox(actor.OpponentCar, mgl64.Vec3{4, 0.5, 0}, mgl64.QuatIdent())
	if _, ok := Collide(a, far); ok {
		t.Error("cars 4 apart should not touch")
	}
}

// =============================================================================
// Planes
// =============================================================================

func TestCollidePlane_Wall(t *testing.T) {
	wall := createPlane(mgl64.Vec3{-1, 0, 0}, 50)
	ball := createSphere(actor.Ball, mgl64.Vec3{49.5, 1, 0}, 1)

	contact, ok := Collide(ball, wall)
	if !ok {
		t.Fatal("expected a wall contact")
	}
	if contact.BodyA != wall {
		t.Error("the plane should always be BodyA")
	}
	if !vec3AlmostEqual(contact.Normal, mgl64.Vec3{-1, 0, 0}, 1e-12) {
		t.Errorf("normal = %v, want {-1 0 0}", contact.Normal)
	}
	if !almostEqual(contact.Points[0].Penetration, 0.5, 1e-12) {
		t.Errorf("penetration = %v, want 0.5", contact.Points[0].Penetration)
	}
}

func TestCollidePlane_NotAPlane(t *testing.T) {
	if _, ok := CollidePlane(createSphere(actor.Ball, mgl64.Vec3{}, 1), createSphere(actor.Ball, mgl64.Vec3{}, 1)); ok {
		t.Error("CollidePlane requires a plane as first body")
	}
}

// =============================================================================
// Materials
// =============================================================================

func TestDetectCollision_AppliesContactMaterials(t *testing.T) {
	p := NewPitch(DefaultPitchConfig())
	p.Ball.Teleport(mgl64.Vec3{0, 0.9, 0})
	p.Player.Teleport(mgl64.Vec3{20, 0.4, 0})

	contacts := p.World.detectCollision()

	var ballFloor, carFloor bool
	for _, c := range contacts {
		if c.BodyA != p.Statics[0] {
			continue
		}
		switch c.BodyB {
		case p.Ball:
			ballFloor = true
			if c.Restitution != 0.8 || c.Friction != 0.3 {
				t.Errorf("ball/ground = %v/%v, want 0.8/0.3", c.Restitution, c.Friction)
			}
		case p.Player:
			carFloor = true
			if c.Restitution != 0.2 || c.Friction != 0.5 {
				t.Errorf("car/ground = %v/%v, want 0.2/0.5", c.Restitution, c.Friction)
			}
		}
	}

	if !ballFloor || !carFloor {
		t.Errorf("missing floor contacts: ball=%v car=%v", ballFloor, carFloor)
	}
}

func TestDetectCollision_BallAgainstCar(t *testing.T) {
	p := NewPitch(DefaultPitchConfig())
	p.Ball.Teleport(mgl64.Vec3{20, 1, 1.8})

	var found bool
	for _, c := range p.World.detectCollision() {
		if c.BodyA == p.Player && c.BodyB == p.Ball {
			found = true
		}
	}
	if !found {
		t.Error("ball beside the player car should produce a car contact")
	}
}
