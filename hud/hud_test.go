package hud

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/akmonengine/arena/actor"
	"github.com/akmonengine/arena/camera"
	"github.com/akmonengine/arena/control"
	"github.com/akmonengine/arena/match"
	"github.com/go-gl/mathgl/mgl64"
)

func TestFormatClock(t *testing.T) {
	tests := map[int]string{
		300: "5:00",
		299: "4:59",
		65:  "1:05",
		59:  "0:59",
		0:   "0:00",
		-3:  "0:00",
	}

	for seconds, want := range tests {
		if got := FormatClock(seconds); got != want {
			t.Errorf("FormatClock(%d) = %q, want %q", seconds, got, want)
		}
	}
}

func TestTake(t *testing.T) {
	state := match.NewState(125)
	state.RecordGoal(match.Opponent)
	state.Boost = control.BoostReserve(42.9)

	got := Take(state)
	want := Snapshot{
		PlayerScore:   0,
		OpponentScore: 1,
		TimeRemaining: 125,
		Clock:         "2:05",
		BoostPercent:  42,
		Phase:         "scored",
	}
	if got != want {
		t.Errorf("Take() = %+v, want %+v", got, want)
	}
}

func TestNewFrame(t *testing.T) {
	ball := actor.NewRigidBody(actor.Ball, actor.NewTransformAt(mgl64.Vec3{0, 2, 0}, mgl64.QuatIdent()), &actor.Sphere{Radius: 1}, 1, actor.Material{})
	car := actor.NewRigidBody(actor.PlayerCar, actor.NewTransformAt(mgl64.Vec3{20, 1, 0}, mgl64.QuatRotate(-math.Pi/2, mgl64.Vec3{0, 1, 0})), &actor.Box{HalfExtents: mgl64.Vec3{1, 0.5, 2}}, 1, actor.Material{})
	cam := camera.New()
	cam.Snap(car)

	frame := NewFrame(7, match.NewState(300), cam, "#FF0000", ball, car)

	if frame.Tick != 7 || frame.PlayerColor != "#FF0000" || frame.HUD.Clock != "5:00" {
		t.Errorf("unexpected frame header %+v", frame)
	}
	if len(frame.Bodies) != 2 || frame.Bodies[0].ID != "ball" || frame.Bodies[1].ID != "player" {
		t.Fatalf("bodies = %+v", frame.Bodies)
	}
	if frame.Bodies[0].Rotation != [4]float64{0, 0, 0, 1} {
		t.Errorf("ball rotation = %v, want identity", frame.Bodies[0].Rotation)
	}
	if frame.Camera.Target != car.Transform.Position {
		t.Errorf("camera target = %v", frame.Camera.Target)
	}

	data, err := json.Marshal(frame)
	if err != nil {
		t.Fatal(err)
	}
	var decoded map[string]any
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatal(err)
	}
	for _, key := range []string{"tick", "hud", "bodies", "camera", "player_color"} {
		if _, ok := decoded[key]; !ok {
			t.Errorf("missing %q in encoded frame", key)
		}
	}
}
