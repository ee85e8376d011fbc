package ecs_test

import (
	"fmt"
	"reflect"

	"github.com/plus3/bounce/ecs"
)

// ExampleStorage moves an entity between archetypes. Its id changes with
// every move, so callers keep the returned one.
func ExampleStorage() {
	storage := ecs.NewStorage(newTestRegistry())

	ball := storage.Spawn(Position{X: 1, Y: 2})
	moved := storage.AddComponent(ball, Velocity{DX: 3})
	fmt.Println(storage.Alive(ball), storage.Alive(moved))

	vel := ecs.ReadComponent[Velocity](storage, moved)
	fmt.Printf("velocity (%.0f, %.0f)\n", vel.DX, vel.DY)

	moved = storage.RemoveComponent(moved, reflect.TypeFor[Velocity]())
	fmt.Println(storage.HasComponent(moved, reflect.TypeFor[Velocity]()))

	// Output:
	// false true
	// velocity (3, 0)
	// false
}

// ExampleStorage_OnDelete releases external resources tied to an entity.
func ExampleStorage_OnDelete() {
	storage := ecs.NewStorage(newTestRegistry())
	storage.OnDelete(func(id ecs.EntityId) {
		if name := ecs.ReadComponent[Name](storage, id); name != nil {
			fmt.Println("releasing", name.Value)
		}
	})

	ball := storage.Spawn(Name{Value: "body-1"})
	storage.Delete(ball)
	fmt.Println("count:", storage.Count())

	// Output:
	// releasing body-1
	// count: 0
}
