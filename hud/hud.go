package hud

import (
	"fmt"
	"math"

	"github.com/akmonengine/arena/actor"
	"github.com/akmonengine/arena/camera"
	"github.com/akmonengine/arena/match"
	"github.com/go-gl/mathgl/mgl64"
)

// Snapshot is the HUD read model, taken once per frame after the match update
type Snapshot struct {
	PlayerScore   int    `json:"player_score"`
	OpponentScore int    `json:"opponent_score"`
	TimeRemaining int    `json:"time_remaining"`
	Clock         string `json:"clock"`
	BoostPercent  int    `json:"boost_percent"`
	Phase         string `json:"phase"`
}

func Take(state *match.State) Snapshot {
	return Snapshot{
		PlayerScore:   state.Score.Player,
		OpponentScore: state.Score.Opponent,
		TimeRemaining: state.TimeRemaining,
		Clock:         FormatClock(state.TimeRemaining),
		BoostPercent:  int(math.Floor(state.Boost.Value())),
		Phase:         state.Phase.String(),
	}
}

// FormatClock renders seconds as m:ss
func FormatClock(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	return fmt.Sprintf("%d:%02d", seconds/60, seconds%60)
}

// BodyView is the pose of a body, looked up by ID by the presentation layer
type BodyView struct {
	ID       string     `json:"id"`
	Position mgl64.Vec3 `json:"position"`
	Rotation [4]float64 `json:"rotation"` // x, y, z, w
}

func ViewOf(body *actor.RigidBody) BodyView {
	q := body.Transform.Rotation
	return BodyView{
		ID:       body.ID.String(),
		Position: body.Transform.Position,
		Rotation: [4]float64{q.X(), q.Y(), q.Z(), q.W},
	}
}

type CameraView struct {
	Position mgl64.Vec3 `json:"position"`
	Target   mgl64.Vec3 `json:"target"`
}

// Frame is everything a viewer needs to draw one frame
type Frame struct {
	Tick        uint64     `json:"tick"`
	HUD         Snapshot   `json:"hud"`
	Bodies      []BodyView `json:"bodies"`
	Camera      CameraView `json:"camera"`
	PlayerColor string     `json:"player_color"`
}

func NewFrame(tick uint64, state *match.State, cam *camera.Camera, color string, bodies ...*actor.RigidBody) Frame {
	views := make([]BodyView, 0, len(bodies))
	for _, body := range bodies {
		views = append(views, ViewOf(body))
	}

	return Frame{
		Tick:        tick,
		HUD:         Take(state),
		Bodies:      views,
		Camera:      CameraView{Position: cam.Position, Target: cam.Target},
		PlayerColor: color,
	}
}
