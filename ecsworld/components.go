package ecsworld

import (
	"image/color"

	"github.com/plus3/bounce/contact"
	"github.com/plus3/bounce/ecs"
	"github.com/plus3/bounce/physics"
)

// Transform is the position of a ball, copied back from the physics host
// after every step.
type Transform struct {
	X, Y  float64
	Angle float64
}

type Circle struct {
	Radius float64
}

// RigidBody carries the body parameters. Body is nil until BodySyncSystem
// creates the host body.
type RigidBody struct {
	Mass       float64
	Elasticity float64
	Friction   float64
	VX, VY     float64
	Body       *physics.Body
}

// Contacts is the per-ball collision state, keyed by the other entity.
// Walls appear as entity 0.
type Contacts struct {
	contact.List[ecs.EntityId]
}

type Tint struct {
	Color color.RGBA
}

// Bouncy raises the restitution and lifts the ball on its first new
// collision. Spent is set once it has fired.
type Bouncy struct {
	Restitution float64
	Lift        float64
	Spent       bool
}

// DynamicColor toggles Tint between the tuning colors on every new collision.
type DynamicColor struct {
	Toggled bool
}

type DynamicMass struct {
	Factor float64
}

type GravityChanger struct {
	Factor float64
}

// Spawner drops a plain copy Offset above itself on every new collision
// until Limit copies exist.
type Spawner struct {
	Limit   int
	Offset  float64
	Spawned int
}

// Physics holds the host world.
type Physics struct {
	World *physics.World
}

// Gravity is the vertical gravity pushed into the host before each step.
type Gravity struct {
	Y float64
}

// Tuning holds the values shared by every behavior system.
type Tuning struct {
	Threshold float64
	ColorFrom color.RGBA
	ColorTo   color.RGBA
	Workers   int
}

// Counters accumulates per-world totals.
type Counters struct {
	Ticks      uint64
	Contacts   int
	Collisions int64
	Spawns     int
}

// RegisterComponents registers every ball component with registry.
func RegisterComponents(registry *ecs.ComponentRegistry) {
	ecs.RegisterComponent[Transform](registry)
	ecs.RegisterComponent[Circle](registry)
	ecs.RegisterComponent[RigidBody](registry)
	ecs.RegisterComponent[Contacts](registry)
	ecs.RegisterComponent[Tint](registry)
	ecs.RegisterComponent[Bouncy](registry)
	ecs.RegisterComponent[DynamicColor](registry)
	ecs.RegisterComponent[DynamicMass](registry)
	ecs.RegisterComponent[GravityChanger](registry)
	ecs.RegisterComponent[Spawner](registry)
}
