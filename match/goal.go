package match

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Side identifies who scored
type Side int

const (
	NoSide Side = iota
	Player
	Opponent
)

func (s Side) String() string {
	switch s {
	case Player:
		return "player"
	case Opponent:
		return "opponent"
	default:
		return "none"
	}
}

// GoalVolume is the region behind a goal line. It never touches the ball,
// the ball entering it is a goal for Scorer.
type GoalVolume struct {
	Scorer Side
	// distance of the goal line from the center along x
	Threshold float64
	// +1 for the goal on +x, -1 for the goal on -x
	Direction float64
	HalfWidth float64
	Ceiling   float64
}

func (g GoalVolume) Contains(position mgl64.Vec3) bool {
	return position.X()*g.Direction > g.Threshold &&
		math.Abs(position.Z()) < g.HalfWidth &&
		position.Y() < g.Ceiling
}

// Detector checks the ball against the goal volumes once per frame
type Detector struct {
	Goals []GoalVolume
}

// DefaultDetector guards both ends: the player defends +x, the opponent defends -x
func DefaultDetector() Detector {
	return Detector{Goals: []GoalVolume{
		{Scorer: Opponent, Threshold: 43, Direction: 1, HalfWidth: 7, Ceiling: 6},
		{Scorer: Player, Threshold: 43, Direction: -1, HalfWidth: 7, Ceiling: 6},
	}}
}

// Detect returns the side credited by the ball position, at most one per call
func (d Detector) Detect(ball mgl64.Vec3) Side {
	for _, goal := range d.Goals {
		if goal.Contains(ball) {
			return goal.Scorer
		}
	}
	return NoSide
}
