package ecs_test

import (
	"fmt"

	"github.com/plus3/bounce/ecs"
)

type expireSystem struct {
	Entities ecs.Query[struct{ *Health }]
}

func (s *expireSystem) Execute(frame *ecs.UpdateFrame) {
	for id, item := range s.Entities.Iter() {
		if item.Health.Current <= 0 {
			frame.Commands.Delete(id)
		}
	}
}

// ExampleCommands defers deletes until the frame has finished so the query
// is never modified while it is being walked.
func ExampleCommands() {
	storage := ecs.NewStorage(newTestRegistry())
	storage.Spawn(Health{Current: 0, Max: 1})
	storage.Spawn(Health{Current: 1, Max: 1})
	storage.Spawn(Health{Current: -2, Max: 1})

	scheduler := ecs.NewScheduler(storage)
	scheduler.Register(&expireSystem{})
	scheduler.Once(1.0 / 60)

	fmt.Println("remaining:", storage.Count())

	// Output:
	// remaining: 1
}

type splitSystem struct {
	Entities ecs.Query[struct {
		*Position
		*Name
	}]
}

func (s *splitSystem) Execute(frame *ecs.UpdateFrame) {
	for _, item := range s.Entities.Iter() {
		frame.Commands.SpawnThen(func(ecs.EntityId) {
			fmt.Println("spawned copy of", item.Name.Value)
		}, Position{X: item.Position.X, Y: item.Position.Y + 1})
		frame.Commands.Defer(func() {
			fmt.Println("deferred runs last")
		})
	}
}

// ExampleCommands_Defer shows spawns being applied before deferred calls.
func ExampleCommands_Defer() {
	storage := ecs.NewStorage(newTestRegistry())
	storage.Spawn(Position{X: 2, Y: 3}, Name{Value: "spawner"})

	scheduler := ecs.NewScheduler(storage)
	scheduler.Register(&splitSystem{})
	scheduler.Once(1.0 / 60)

	fmt.Println("entities:", storage.Count())

	// Output:
	// spawned copy of spawner
	// deferred runs last
	// entities: 2
}
