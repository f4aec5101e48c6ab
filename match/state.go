package match

import "github.com/akmonengine/arena/control"

const (
	DefaultDuration  = 300
	DefaultMatchType = "1v1"
)

type Phase int

const (
	InProgress Phase = iota
	// a goal was just recorded, waiting for the kickoff reset
	Scored
	Ended
)

func (p Phase) String() string {
	switch p {
	case Scored:
		return "scored"
	case Ended:
		return "ended"
	default:
		return "in_progress"
	}
}

type Score struct {
	Player   int
	Opponent int
}

// State is the match bookkeeping: score, countdown and boost reserve.
// Once Ended it no longer changes.
type State struct {
	Score         Score
	TimeRemaining int
	Duration      int
	Boost         control.BoostReserve
	Phase         Phase
}

// NewState starts a match of duration seconds with a full boost reserve
func NewState(duration int) *State {
	if duration < 0 {
		duration = 0
	}

	s := &State{
		TimeRemaining: duration,
		Duration:      duration,
		Boost:         control.FullBoost(),
	}
	if duration == 0 {
		s.Phase = Ended
	}
	return s
}

func (s *State) Running() bool {
	return s.Phase == InProgress
}

func (s *State) Ended() bool {
	return s.Phase == Ended
}

// RecordGoal credits scorer and moves to Scored. It reports whether the score changed.
func (s *State) RecordGoal(scorer Side) bool {
	if s.Phase != InProgress {
		return false
	}

	switch scorer {
	case Player:
		s.Score.Player++
	case Opponent:
		s.Score.Opponent++
	default:
		return false
	}
	s.Phase = Scored
	return true
}

// Kickoff resumes play after a goal
func (s *State) Kickoff() {
	if s.Phase == Scored {
		s.Phase = InProgress
	}
}

// TickSecond counts one second down. It returns true exactly once, on the tick reaching zero.
func (s *State) TickSecond() bool {
	if s.Phase == Ended || s.TimeRemaining <= 0 {
		return false
	}

	s.TimeRemaining--
	if s.TimeRemaining == 0 {
		s.Phase = Ended
		return true
	}
	return false
}

// Elapsed is the number of seconds played
func (s *State) Elapsed() int {
	return s.Duration - s.TimeRemaining
}
