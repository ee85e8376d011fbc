package ecsworld

import (
	"log"
	"sync/atomic"

	"github.com/plus3/bounce/ecs"
	"github.com/plus3/bounce/physics"
	"github.com/plus3/bounce/scene"
)

type bouncyBall struct {
	*Contacts
	*Bouncy
	*Circle
	*RigidBody
}

type colorBall struct {
	*Contacts
	*DynamicColor
	*Tint
}

type massBall struct {
	*Contacts
	*DynamicMass
	*RigidBody
}

type gravityBall struct {
	*Contacts
	*GravityChanger
}

type spawnerBall struct {
	*Contacts
	*Spawner
	*Transform
	*Circle
	*RigidBody
}

type bodyView struct {
	*Transform
	*Circle
	*RigidBody
}

// BodySyncSystem creates a host body for every ball that lacks one. The body
// handle is the entity id; a ball whose id changed because it moved archetype
// gets its body re-keyed.
type BodySyncSystem struct {
	Physics ecs.Singleton[Physics]
	Bodies  ecs.Query[bodyView]
}

func (s *BodySyncSystem) Execute(frame *ecs.UpdateFrame) {
	world := s.Physics.Get().World
	friction := world.Config().Friction
	for id, item := range s.Bodies.Iter() {
		handle := physics.Handle(id)
		rb := item.RigidBody
		if rb.Body != nil && rb.Body.Handle() == handle {
			continue
		}

		spec := physics.BallSpec{
			X:          item.Transform.X,
			Y:          item.Transform.Y,
			VX:         rb.VX,
			VY:         rb.VY,
			Radius:     item.Circle.Radius,
			Mass:       rb.Mass,
			Elasticity: rb.Elasticity,
			Friction:   rb.Friction,
		}
		if spec.Friction == 0 {
			spec.Friction = friction
		}
		if rb.Body != nil {
			spec.VX, spec.VY = rb.Body.Velocity()
			world.Remove(rb.Body.Handle())
		}
		rb.Body = world.AddBall(handle, spec)
	}
}

// PhysicsStepSystem pushes Gravity into the host, steps it and copies the
// resulting positions back into Transform.
type PhysicsStepSystem struct {
	Physics  ecs.Singleton[Physics]
	Gravity  ecs.Singleton[Gravity]
	Counters ecs.Singleton[Counters]
	Bodies   ecs.Query[struct {
		*Transform
		*RigidBody
	}]
}

func (s *PhysicsStepSystem) Execute(frame *ecs.UpdateFrame) {
	world := s.Physics.Get().World
	world.SetGravity(s.Gravity.Get().Y)
	world.Step(frame.DeltaTime)
	s.Counters.Get().Ticks++

	for _, item := range s.Bodies.Iter() {
		if item.RigidBody.Body == nil {
			continue
		}
		item.Transform.X, item.Transform.Y = item.RigidBody.Body.Position()
		item.Transform.Angle = item.RigidBody.Body.Angle()
		item.RigidBody.VX, item.RigidBody.VY = item.RigidBody.Body.Velocity()
	}
}

// CollisionsSystem records both sides of every host contact event into the
// Contacts component of the entities involved. Entities without Contacts,
// including the walls, are skipped.
type CollisionsSystem struct {
	Physics  ecs.Singleton[Physics]
	Tuning   ecs.Singleton[Tuning]
	Counters ecs.Singleton[Counters]

	contacts *ecs.View[struct{ *Contacts }]
}

func (s *CollisionsSystem) Execute(frame *ecs.UpdateFrame) {
	if s.contacts == nil {
		s.contacts = ecs.NewView[struct{ *Contacts }](frame.Storage)
	}

	threshold := s.Tuning.Get().Threshold
	events := s.Physics.Get().World.Events()
	for _, ev := range events {
		a, b := ecs.EntityId(ev.A), ecs.EntityId(ev.B)
		if c := s.contacts.Get(a); c != nil {
			c.Contacts.Record(b, ev.Impulse, threshold)
		}
		if c := s.contacts.Get(b); c != nil {
			c.Contacts.Record(a, ev.Impulse, threshold)
		}
	}
	s.Counters.Get().Contacts += len(events)
}

// BouncyBallSystem makes a ball bouncier and lifts it on its first new
// collision.
type BouncyBallSystem struct {
	Physics  ecs.Singleton[Physics]
	Tuning   ecs.Singleton[Tuning]
	Counters ecs.Singleton[Counters]
	Balls    ecs.Query[bouncyBall]
}

func (s *BouncyBallSystem) Execute(frame *ecs.UpdateFrame) {
	height := s.Physics.Get().World.Config().Height
	var hits atomic.Int64
	err := s.Balls.ParallelEach(s.Tuning.Get().Workers, func(_ ecs.EntityId, item bouncyBall) error {
		if !item.Contacts.Advance() {
			return nil
		}
		hits.Add(1)
		if item.Bouncy.Spent {
			return nil
		}
		item.Bouncy.Spent = true
		item.RigidBody.Elasticity = item.Bouncy.Restitution

		body, lift, radius := item.RigidBody.Body, item.Bouncy.Lift, item.Circle.Radius
		restitution := item.Bouncy.Restitution
		if body == nil {
			return nil
		}
		frame.Commands.Defer(func() {
			body.SetElasticity(restitution)
			x, y := body.Position()
			body.SetPosition(x, min(y+lift, height-radius))
		})
		return nil
	})
	reportParallel("BouncyBallSystem", err)
	s.Counters.Get().Collisions += hits.Load()
}

// DynamicColorSystem toggles a ball's tint on every new collision.
type DynamicColorSystem struct {
	Tuning   ecs.Singleton[Tuning]
	Counters ecs.Singleton[Counters]
	Balls    ecs.Query[colorBall]
}

func (s *DynamicColorSystem) Execute(frame *ecs.UpdateFrame) {
	tuning := s.Tuning.Get()
	var hits atomic.Int64
	err := s.Balls.ParallelEach(tuning.Workers, func(_ ecs.EntityId, item colorBall) error {
		if !item.Contacts.Advance() {
			return nil
		}
		hits.Add(1)
		item.DynamicColor.Toggled = !item.DynamicColor.Toggled
		if item.DynamicColor.Toggled {
			item.Tint.Color = tuning.ColorTo
		} else {
			item.Tint.Color = tuning.ColorFrom
		}
		return nil
	})
	reportParallel("DynamicColorSystem", err)
	s.Counters.Get().Collisions += hits.Load()
}

// DynamicMassSystem multiplies a ball's mass on every new collision.
type DynamicMassSystem struct {
	Tuning   ecs.Singleton[Tuning]
	Counters ecs.Singleton[Counters]
	Balls    ecs.Query[massBall]
}

func (s *DynamicMassSystem) Execute(frame *ecs.UpdateFrame) {
	var hits atomic.Int64
	err := s.Balls.ParallelEach(s.Tuning.Get().Workers, func(_ ecs.EntityId, item massBall) error {
		if !item.Contacts.Advance() {
			return nil
		}
		hits.Add(1)
		item.RigidBody.Mass *= item.DynamicMass.Factor

		body, mass := item.RigidBody.Body, item.RigidBody.Mass
		if body != nil {
			frame.Commands.Defer(func() { body.SetMass(mass) })
		}
		return nil
	})
	reportParallel("DynamicMassSystem", err)
	s.Counters.Get().Collisions += hits.Load()
}

// GravityChangerSystem scales the world gravity on every new collision of a
// changer ball. It writes a singleton, so it runs serially.
type GravityChangerSystem struct {
	Gravity  ecs.Singleton[Gravity]
	Counters ecs.Singleton[Counters]
	Balls    ecs.Query[gravityBall]
}

func (s *GravityChangerSystem) Execute(frame *ecs.UpdateFrame) {
	gravity := s.Gravity.Get()
	counters := s.Counters.Get()
	for _, item := range s.Balls.Iter() {
		if !item.Contacts.Advance() {
			continue
		}
		counters.Collisions++
		gravity.Y *= item.GravityChanger.Factor
	}
}

// SpawnerSystem queues a plain copy of the ball above it on every new
// collision, up to the spawner's limit.
type SpawnerSystem struct {
	Physics  ecs.Singleton[Physics]
	Tuning   ecs.Singleton[Tuning]
	Counters ecs.Singleton[Counters]
	Balls    ecs.Query[spawnerBall]
}

func (s *SpawnerSystem) Execute(frame *ecs.UpdateFrame) {
	height := s.Physics.Get().World.Config().Height
	var hits, spawns atomic.Int64
	err := s.Balls.ParallelEach(s.Tuning.Get().Workers, func(_ ecs.EntityId, item spawnerBall) error {
		if !item.Contacts.Advance() {
			return nil
		}
		hits.Add(1)
		if item.Spawner.Spawned >= item.Spawner.Limit {
			return nil
		}
		item.Spawner.Spawned++
		spawns.Add(1)

		radius := item.Circle.Radius
		frame.Commands.Spawn(
			Transform{X: item.Transform.X, Y: min(item.Transform.Y+item.Spawner.Offset, height-radius)},
			Circle{Radius: radius},
			RigidBody{Mass: item.RigidBody.Mass, Elasticity: item.RigidBody.Elasticity, Friction: item.RigidBody.Friction},
			Tint{Color: scene.KindTint(scene.KindPlain)},
		)
		return nil
	})
	reportParallel("SpawnerSystem", err)
	counters := s.Counters.Get()
	counters.Collisions += hits.Load()
	counters.Spawns += int(spawns.Load())
}

// reportParallel logs a failed parallel pass of a behavior system.
func reportParallel(system string, err error) {
	if err != nil {
		log.Printf("ecsworld: %s: %v", system, err)
	}
}
