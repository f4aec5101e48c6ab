package camera

import (
	"math"
	"testing"

	"github.com/akmonengine/arena/actor"
	"github.com/go-gl/mathgl/mgl64"
)

func newCar(position mgl64.Vec3) *actor.RigidBody {
	return actor.NewRigidBody(actor.PlayerCar, actor.NewTransformAt(position, mgl64.QuatIdent()),
		&actor.Box{HalfExtents: mgl64.Vec3{1, 0.5, 2}}, 1, actor.Material{})
}

func TestFollow_Smoothing(t *testing.T) {
	c := New()
	c.Position = mgl64.Vec3{}
	car := newCar(mgl64.Vec3{20, 1, 0})

	c.Follow(car)

	// desired spot is (5, 11, 15), 5% of the way there
	want := mgl64.Vec3{0.25, 0.55, 0.75}
	if c.Position.Sub(want).Len() > 1e-12 {
		t.Errorf("position = %v, want %v", c.Position, want)
	}
	if c.Target != car.Transform.Position {
		t.Errorf("target = %v, want the car", c.Target)
	}
}

func TestFollow_Converges(t *testing.T) {
	c := New()
	car := newCar(mgl64.Vec3{20, 1, 0})

	previous := math.Inf(1)
	desired := car.Transform.Position.Add(c.Offset)
	for iter := 0; iter < 300; iter++ {
		c.Follow(car)
		distance := c.Position.Sub(desired).Len()
		if distance > previous {
			t.Fatal("camera moved away from its spot")
		}
		previous = distance
	}

	if previous > 1e-3 {
		t.Errorf("camera still %v away after 300 frames", previous)
	}
}

func TestSnap(t *testing.T) {
	c := New()
	car := newCar(mgl64.Vec3{-20, 1, 0})

	c.Snap(car)

	if c.Position != (mgl64.Vec3{-35, 11, 15}) {
		t.Errorf("position = %v, want {-35 11 15}", c.Position)
	}
}

func TestView_LooksAtTarget(t *testing.T) {
	c := New()
	c.Snap(newCar(mgl64.Vec3{0, 1, 0}))

	view := c.View()
	target := view.Mul4x1(c.Target.Vec4(1))

	// the target sits on the camera's -z axis
	if math.Abs(target.X()) > 1e-9 || math.Abs(target.Y()) > 1e-9 || target.Z() >= 0 {
		t.Errorf("target in view space = %v, want straight ahead", target)
	}
	if math.Abs(-target.Z()-c.Offset.Len()) > 1e-9 {
		t.Errorf("depth = %v, want %v", -target.Z(), c.Offset.Len())
	}
}
