package arena

import (
	"math"

	"github.com/akmonengine/arena/actor"
	"github.com/akmonengine/arena/constraint"
	"github.com/go-gl/mathgl/mgl64"
)

const (
	DefaultFixedStep    = 1.0 / 60.0
	DefaultMaxSubsteps  = 10
	DefaultMaxFrameTime = 0.25

	// elapsed times under this are ignored
	minElapsed = 1e-9
	// absorbs the rounding of the accumulator so that n*h worth of time gives n steps
	stepEpsilon = 1e-9
)

type World struct {
	// List of all rigid bodies in the world
	Bodies []*actor.RigidBody
	// Gravity acceleration (m/s², or N/kg)
	Gravity      mgl64.Vec3
	FixedStep    float64
	MaxSubsteps  int
	MaxFrameTime float64
	SpatialGrid  *SpatialGrid
	Materials    *constraint.Materials

	Events Events

	accumulator float64
}

// NewWorld creates an empty world stepping at DefaultFixedStep
func NewWorld(gravity mgl64.Vec3) *World {
	return &World{
		Gravity:      gravity,
		FixedStep:    DefaultFixedStep,
		MaxSubsteps:  DefaultMaxSubsteps,
		MaxFrameTime: DefaultMaxFrameTime,
		SpatialGrid:  NewSpatialGrid(4.0, 256),
		Materials:    constraint.NewMaterials(),
		Events:       NewEvents(),
	}
}

// AddBody adds a rigid body to the world
func (w *World) AddBody(body *actor.RigidBody) {
	w.Bodies = append(w.Bodies, body)
}

// RemoveBody removes a rigid body from the world
func (w *World) RemoveBody(body *actor.RigidBody) {
	k := -1
	for i, b := range w.Bodies {
		if b == body {
			k = i
			break
		}
	}

	if k != -1 {
		w.Bodies = append(w.Bodies[:k], w.Bodies[k+1:]...)
	}

	w.Events.forget(body)
}

// Advance consumes a variable wall-clock delta in fixed steps and returns the number of steps taken.
// Leftover time is kept for the next call; backlog beyond MaxSubsteps is dropped.
func (w *World) Advance(elapsed float64) int {
	if elapsed < minElapsed || w.FixedStep <= 0 {
		return 0
	}
	if w.MaxFrameTime > 0 && elapsed > w.MaxFrameTime {
		elapsed = w.MaxFrameTime
	}

	w.accumulator += elapsed
	steps := 0
	for w.accumulator+stepEpsilon >= w.FixedStep {
		if w.MaxSubsteps > 0 && steps >= w.MaxSubsteps {
			w.accumulator = math.Mod(w.accumulator, w.FixedStep)
			break
		}

		w.Step(w.FixedStep)
		w.accumulator -= w.FixedStep
		steps++
	}
	if w.accumulator < 0 {
		w.accumulator = 0
	}

	return steps
}

// Alpha is the fraction of a fixed step waiting in the accumulator, for interpolation
func (w *World) Alpha() float64 {
	if w.FixedStep <= 0 {
		return 0
	}
	return w.accumulator / w.FixedStep
}

// ResetClock drops any accumulated time
func (w *World) ResetClock() {
	w.accumulator = 0
}

// Step advances the simulation by exactly h seconds
func (w *World) Step(h float64) {
	if h < minElapsed {
		return
	}

	w.integrate(h)

	// broad phase then narrow phase
	constraints := w.detectCollision()

	w.Events.recordCollisions(constraints)

	// one solver iteration per fixed step
	w.solvePosition(h, constraints)

	// velocities from the corrected positions
	w.update(h)

	w.solveVelocity(h, constraints)

	w.Events.flush()
}

func (w *World) integrate(h float64) {
	for _, body := range w.Bodies {
		body.Integrate(h, w.Gravity)
	}
}

func (w *World) solvePosition(h float64, constraints []*constraint.ContactConstraint) {
	for _, c := range constraints {
		c.SolvePosition(h)
	}
}

func (w *World) update(h float64) {
	for _, body := range w.Bodies {
		body.Update(h)
	}
}

func (w *World) solveVelocity(h float64, constraints []*constraint.ContactConstraint) {
	for _, c := range constraints {
		c.SolveVelocity(h)
	}
}
