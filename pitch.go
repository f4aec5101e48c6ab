package arena

import (
	"math"

	"github.com/akmonengine/arena/actor"
	"github.com/akmonengine/arena/constraint"
	"github.com/go-gl/mathgl/mgl64"
)

const (
	MaterialBall   = "ball"
	MaterialCar    = "car"
	MaterialGround = "ground"
)

var (
	// Up is the vertical axis of the arena
	Up = mgl64.Vec3{0, 1, 0}

	BallSpawn     = mgl64.Vec3{0, 2, 0}
	PlayerSpawn   = mgl64.Vec3{20, 1, 0}
	OpponentSpawn = mgl64.Vec3{-20, 1, 0}

	// the player defends +x and faces the center
	PlayerHeading   = mgl64.QuatRotate(-math.Pi/2, Up)
	OpponentHeading = mgl64.QuatRotate(math.Pi/2, Up)
)

// PitchConfig describes the arena layout and body properties
type PitchConfig struct {
	Gravity      float64
	HalfLength   float64 // walls at x = ±HalfLength
	HalfWidth    float64 // walls at z = ±HalfWidth
	BallRadius   float64
	BallMass     float64
	CarHalfSize  mgl64.Vec3
	CarMass      float64
	Ball         actor.Material
	Car          actor.Material
	Ground       actor.Material
	BallGround   constraint.ContactMaterial
	CarGround    constraint.ContactMaterial
	FixedStep    float64
	MaxSubsteps  int
	MaxFrameTime float64
}

func DefaultPitchConfig() PitchConfig {
	return PitchConfig{
		Gravity:     -20,
		HalfLength:  50,
		HalfWidth:   30,
		BallRadius:  1,
		BallMass:    1,
		CarHalfSize: mgl64.Vec3{1, 0.5, 2},
		CarMass:     1,
		Ball: actor.Material{
			Name:           MaterialBall,
			Restitution:    0.8,
			Friction:       0.3,
			LinearDamping:  0.1,
			AngularDamping: 0.1,
		},
		Car: actor.Material{
			Name:           MaterialCar,
			Restitution:    0.2,
			Friction:       0.5,
			LinearDamping:  1.0,
			AngularDamping: 4.0,
		},
		Ground:       actor.Material{Name: MaterialGround, Restitution: 0.5, Friction: 0.5},
		BallGround:   constraint.ContactMaterial{Restitution: 0.8, Friction: 0.3},
		CarGround:    constraint.ContactMaterial{Restitution: 0.2, Friction: 0.5},
		FixedStep:    DefaultFixedStep,
		MaxSubsteps:  DefaultMaxSubsteps,
		MaxFrameTime: DefaultMaxFrameTime,
	}
}

// Pitch is the arena world with its three dynamic bodies at fixed spawns
type Pitch struct {
	World *World

	Ball     *actor.RigidBody
	Player   *actor.RigidBody
	Opponent *actor.RigidBody
	Statics  []*actor.RigidBody
}

// NewPitch builds the floor, the four walls, the ball and both cars
func NewPitch(cfg PitchConfig) *Pitch {
	world := NewWorld(mgl64.Vec3{0, cfg.Gravity, 0})
	world.FixedStep = cfg.FixedStep
	world.MaxSubsteps = cfg.MaxSubsteps
	world.MaxFrameTime = cfg.MaxFrameTime
	world.Materials.Set(MaterialBall, MaterialGround, cfg.BallGround)
	world.Materials.Set(MaterialCar, MaterialGround, cfg.CarGround)

	p := &Pitch{World: world}

	// Normal · p + Distance = 0, normals face the inside of the arena
	planes := []actor.Plane{
		{Normal: Up, Distance: 0},
		{Normal: mgl64.Vec3{-1, 0, 0}, Distance: cfg.HalfLength},
		{Normal: mgl64.Vec3{1, 0, 0}, Distance: cfg.HalfLength},
		{Normal: mgl64.Vec3{0, 0, -1}, Distance: cfg.HalfWidth},
		{Normal: mgl64.Vec3{0, 0, 1}, Distance: cfg.HalfWidth},
	}
	for i := range planes {
		body := actor.NewRigidBody(actor.StaticGeometry, actor.NewTransform(), &planes[i], 0, cfg.Ground)
		p.Statics = append(p.Statics, body)
		world.AddBody(body)
	}

	p.Ball = actor.NewRigidBody(actor.Ball,
		actor.NewTransformAt(BallSpawn, mgl64.QuatIdent()),
		&actor.Sphere{Radius: cfg.BallRadius}, cfg.BallMass, cfg.Ball)
	p.Player = actor.NewRigidBody(actor.PlayerCar,
		actor.NewTransformAt(PlayerSpawn, PlayerHeading),
		&actor.Box{HalfExtents: cfg.CarHalfSize}, cfg.CarMass, cfg.Car)
	p.Opponent = actor.NewRigidBody(actor.OpponentCar,
		actor.NewTransformAt(OpponentSpawn, OpponentHeading),
		&actor.Box{HalfExtents: cfg.CarHalfSize}, cfg.CarMass, cfg.Car)

	world.AddBody(p.Ball)
	world.AddBody(p.Player)
	world.AddBody(p.Opponent)

	return p
}

// Body returns the dynamic body carrying id, nil for static geometry
func (p *Pitch) Body(id actor.BodyID) *actor.RigidBody {
	switch id {
	case actor.Ball:
		return p.Ball
	case actor.PlayerCar:
		return p.Player
	case actor.OpponentCar:
		return p.Opponent
	}
	return nil
}

// ResetKickoff puts the ball back at the center and the cars on their spawns, all at rest.
// Car orientations are kept.
func (p *Pitch) ResetKickoff() {
	p.Ball.Teleport(BallSpawn)
	p.Ball.SetRotation(mgl64.QuatIdent())
	p.Player.Teleport(PlayerSpawn)
	p.Opponent.Teleport(OpponentSpawn)
	p.World.ResetClock()
}

// ResetMatch restores the pre-match pose, headings included
func (p *Pitch) ResetMatch() {
	p.ResetKickoff()
	p.Player.SetRotation(PlayerHeading)
	p.Opponent.SetRotation(OpponentHeading)
}
