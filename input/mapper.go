package input

// DriveIntent is the movement request of one frame, independent of the input source
type DriveIntent struct {
	Accelerate bool
	Reverse    bool
	TurnLeft   bool
	TurnRight  bool
	Boost      bool
}

// Mapper lists the identifiers driving each intent flag
type Mapper struct {
	Accelerate []string
	Reverse    []string
	TurnLeft   []string
	TurnRight  []string
	Boost      []string
}

// DefaultMapper binds WASD, the arrows, space and the on-screen controls.
// Brake shares the reverse flag.
func DefaultMapper() Mapper {
	return Mapper{
		Accelerate: []string{KeyW, KeyArrowUp, ButtonUp, SwipeUp},
		Reverse:    []string{KeyS, KeyArrowDown, ButtonDown, ButtonBrake, SwipeDown},
		TurnLeft:   []string{KeyA, KeyArrowLeft, ButtonLeft, SwipeLeft},
		TurnRight:  []string{KeyD, KeyArrowRight, ButtonRight, SwipeRight},
		Boost:      []string{KeySpace, ButtonBoost},
	}
}

// Resolve reads the intent out of state without modifying it
func (m Mapper) Resolve(state *State) DriveIntent {
	return DriveIntent{
		Accelerate: anyPressed(state, m.Accelerate),
		Reverse:    anyPressed(state, m.Reverse),
		TurnLeft:   anyPressed(state, m.TurnLeft),
		TurnRight:  anyPressed(state, m.TurnRight),
		Boost:      anyPressed(state, m.Boost),
	}
}

func anyPressed(state *State, ids []string) bool {
	for _, id := range ids {
		if state.Pressed(id) {
			return true
		}
	}
	return false
}
