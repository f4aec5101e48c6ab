package input

import "strings"

// Canonical key and button identifiers
const (
	KeyW          = "w"
	KeyA          = "a"
	KeyS          = "s"
	KeyD          = "d"
	KeyArrowUp    = "arrowup"
	KeyArrowDown  = "arrowdown"
	KeyArrowLeft  = "arrowleft"
	KeyArrowRight = "arrowright"
	KeySpace      = "space"

	ButtonUp    = "touch-up"
	ButtonDown  = "touch-down"
	ButtonLeft  = "touch-left"
	ButtonRight = "touch-right"
	ButtonBoost = "boost"
	ButtonBrake = "brake"

	SwipeUp    = "swipe-up"
	SwipeDown  = "swipe-down"
	SwipeLeft  = "swipe-left"
	SwipeRight = "swipe-right"
)

// SwipeDeadZone is the distance a touch must travel on an axis before it counts as a swipe
const SwipeDeadZone = 30.0

var aliases = map[string]string{
	" ":        KeySpace,
	"spacebar": KeySpace,
	"up":       KeyArrowUp,
	"down":     KeyArrowDown,
	"left":     KeyArrowLeft,
	"right":    KeyArrowRight,
}

// Canonical normalizes a raw key name: lowercase, trimmed, aliases resolved
func Canonical(key string) string {
	if key == " " {
		return KeySpace
	}

	key = strings.ToLower(strings.TrimSpace(key))
	if alias, ok := aliases[key]; ok {
		return alias
	}
	return key
}

type touch struct {
	active bool
	startX float64
	startY float64
}

// State is the set of pressed input identifiers of one session.
// Keyboard and on-screen buttons write the same flags; the last writer wins.
type State struct {
	pressed map[string]bool
	touch   touch
}

func NewState() *State {
	return &State{pressed: make(map[string]bool)}
}

func (s *State) Press(id string) {
	if s.pressed == nil {
		s.pressed = make(map[string]bool)
	}
	s.pressed[id] = true
}

func (s *State) Release(id string) {
	delete(s.pressed, id)
}

func (s *State) Pressed(id string) bool {
	return s.pressed[id]
}

// Clear releases everything, touch tracking included
func (s *State) Clear() {
	clear(s.pressed)
	s.touch = touch{}
}

func (s *State) KeyDown(key string) {
	s.Press(Canonical(key))
}

func (s *State) KeyUp(key string) {
	s.Release(Canonical(key))
}

func (s *State) ButtonDown(button string) {
	s.Press(button)
}

func (s *State) ButtonUp(button string) {
	s.Release(button)
}

// TouchStart records the reference point of a swipe
func (s *State) TouchStart(x, y float64) {
	s.touch = touch{active: true, startX: x, startY: y}
}

// TouchMove sets the swipe direction of each axis whose displacement exceeds the dead zone.
// Screen y grows downward. Moving back under the dead zone keeps the flags.
func (s *State) TouchMove(x, y float64) {
	if !s.touch.active {
		return
	}

	dx := x - s.touch.startX
	dy := y - s.touch.startY

	switch {
	case dx > SwipeDeadZone:
		s.Press(SwipeRight)
		s.Release(SwipeLeft)
	case dx < -SwipeDeadZone:
		s.Press(SwipeLeft)
		s.Release(SwipeRight)
	}

	switch {
	case dy < -SwipeDeadZone:
		s.Press(SwipeUp)
		s.Release(SwipeDown)
	case dy > SwipeDeadZone:
		s.Press(SwipeDown)
		s.Release(SwipeUp)
	}
}

func (s *State) TouchEnd() {
	s.touch = touch{}
	for _, id := range []string{SwipeUp, SwipeDown, SwipeLeft, SwipeRight} {
		s.Release(id)
	}
}
