// Package ecsworld runs the bouncing-ball demo on the archetype ECS. Every
// behavior is a component plus a system; collision state lives in the
// Contacts component and is filled by CollisionsSystem before any behavior
// system reads it.
package ecsworld

import (
	"iter"
	"runtime"

	"github.com/plus3/bounce/contact"
	"github.com/plus3/bounce/ecs"
	"github.com/plus3/bounce/physics"
	"github.com/plus3/bounce/scene"
)

type options struct {
	workers int
}

// Option configures New.
type Option func(*options)

// WithWorkers bounds the number of goroutines used by the parallel behavior
// systems. Values below one mean GOMAXPROCS.
func WithWorkers(n int) Option {
	return func(o *options) { o.workers = n }
}

// World owns the storage, the scheduler and the host physics world.
type World struct {
	storage   *ecs.Storage
	scheduler *ecs.Scheduler
	scene     scene.Scene
	workers   int

	physics  *ecs.Singleton[Physics]
	gravity  *ecs.Singleton[Gravity]
	counters *ecs.Singleton[Counters]
	sprites  *ecs.View[sprite]
	contacts *ecs.View[struct{ *Contacts }]
}

type sprite struct {
	*Transform
	*Circle
	*Tint
}

// New builds a world populated with the balls of s.
func New(s scene.Scene, opts ...Option) *World {
	o := options{}
	for _, opt := range opts {
		opt(&o)
	}
	if o.workers < 1 {
		o.workers = runtime.GOMAXPROCS(0)
	}
	registry := ecs.NewComponentRegistry()
	RegisterComponents(registry)

	storage := ecs.NewStorage(registry)
	w := &World{
		storage: storage,
		workers: o.workers,
	}
	w.physics = ecs.NewSingleton[Physics](storage)
	w.gravity = ecs.NewSingleton[Gravity](storage)
	w.counters = ecs.NewSingleton[Counters](storage)
	ecs.NewSingleton[Tuning](storage)
	w.sprites = ecs.NewView[sprite](storage)
	w.contacts = ecs.NewView[struct{ *Contacts }](storage)

	storage.OnDelete(func(id ecs.EntityId) {
		if p := w.physics.Get(); p.World != nil {
			p.World.Remove(physics.Handle(id))
		}
	})

	w.scheduler = ecs.NewScheduler(storage)
	w.scheduler.RegisterIn(ecs.PhaseSimulate, &BodySyncSystem{})
	w.scheduler.RegisterIn(ecs.PhaseSimulate, &PhysicsStepSystem{})
	w.scheduler.RegisterIn(ecs.PhaseCollect, &CollisionsSystem{})
	w.scheduler.Register(&BouncyBallSystem{})
	w.scheduler.Register(&DynamicColorSystem{})
	w.scheduler.Register(&DynamicMassSystem{})
	w.scheduler.Register(&GravityChangerSystem{})
	w.scheduler.Register(&SpawnerSystem{})

	w.Reset(s)
	return w
}

// Reset removes every ball, rebuilds the host world from s and spawns its
// balls. Counters and gravity start over.
func (w *World) Reset(s scene.Scene) {
	var ids []ecs.EntityId
	for id := range w.sprites.Iter() {
		ids = append(ids, id)
	}
	for _, id := range ids {
		w.storage.Delete(id)
	}

	w.scene = s
	w.storage.AddSingleton(Physics{World: physics.NewWorld(s.PhysicsConfig())})
	w.storage.AddSingleton(Gravity{Y: s.World.Gravity})
	w.storage.AddSingleton(Counters{})
	w.storage.AddSingleton(Tuning{
		Threshold: s.Contacts.Threshold,
		ColorFrom: scene.ColorOf(s.Behaviors.Color.From),
		ColorTo:   scene.ColorOf(s.Behaviors.Color.To),
		Workers:   w.workers,
	})

	for _, b := range s.Balls {
		w.Spawn(b)
	}
}

// Spawn adds one ball described by b. Its host body is created on the next
// Step.
func (w *World) Spawn(b scene.Ball) ecs.EntityId {
	return w.storage.Spawn(Components(w.scene, b)...)
}

// Components returns the component set of a ball of scene s.
func Components(s scene.Scene, b scene.Ball) []any {
	comps := []any{
		Transform{X: b.X, Y: b.Y},
		Circle{Radius: b.Radius},
		RigidBody{Mass: b.Mass, Elasticity: b.Elasticity, Friction: s.World.Friction, VX: b.VX, VY: b.VY},
		Tint{Color: s.BaseTint(b)},
	}

	tuning := s.Behaviors
	switch b.Kind {
	case scene.KindBouncy:
		comps = append(comps, Bouncy{Restitution: tuning.Bouncy.Restitution, Lift: tuning.Bouncy.Lift})
	case scene.KindColor:
		comps = append(comps, DynamicColor{})
	case scene.KindMass:
		comps = append(comps, DynamicMass{Factor: tuning.Mass.Factor})
	case scene.KindGravity:
		comps = append(comps, GravityChanger{Factor: tuning.Gravity.Factor})
	case scene.KindSpawner:
		comps = append(comps, Spawner{Limit: tuning.Spawner.Limit, Offset: tuning.Spawner.Offset})
	default:
		return comps
	}
	return append(comps, Contacts{})
}

// Step runs one scheduler tick.
func (w *World) Step(dt float64) {
	w.scheduler.Once(dt)
}

// Snapshot appends the drawable state of every ball to dst.
func (w *World) Snapshot(dst []scene.Sprite) []scene.Sprite {
	for _, item := range w.sprites.Iter() {
		dst = append(dst, scene.Sprite{
			X:      item.Transform.X,
			Y:      item.Transform.Y,
			Angle:  item.Transform.Angle,
			Radius: item.Circle.Radius,
			Color:  item.Tint.Color,
		})
	}
	return dst
}

// ContactRecords yields the contact records of every ball that tracks them.
func (w *World) ContactRecords() iter.Seq2[ecs.EntityId, []contact.Record[ecs.EntityId]] {
	return func(yield func(ecs.EntityId, []contact.Record[ecs.EntityId]) bool) {
		for id, item := range w.contacts.Iter() {
			if !yield(id, item.Contacts.Records()) {
				return
			}
		}
	}
}

// Remove deletes a ball and its host body.
func (w *World) Remove(id ecs.EntityId) {
	w.storage.Delete(id)
}

func (w *World) Gravity() float64 {
	return w.gravity.Get().Y
}

func (w *World) Counters() Counters {
	return *w.counters.Get()
}

// Balls returns the number of live balls.
func (w *World) Balls() int {
	n := 0
	for range w.sprites.Iter() {
		n++
	}
	return n
}

func (w *World) Scene() scene.Scene {
	return w.scene
}

func (w *World) Physics() *physics.World {
	return w.physics.Get().World
}

func (w *World) Storage() *ecs.Storage {
	return w.storage
}

func (w *World) Scheduler() *ecs.Scheduler {
	return w.scheduler
}
