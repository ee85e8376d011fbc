package ecs_test

import (
	"fmt"

	"github.com/plus3/bounce/ecs"
)

// ExampleView resolves the components of one entity without a scheduler.
func ExampleView() {
	storage := ecs.NewStorage(newTestRegistry())
	ball := storage.Spawn(Position{X: 4, Y: 9}, Velocity{DX: -3, DY: 0})

	view := ecs.NewView[struct {
		*Position
		*Velocity
	}](storage)

	if item := view.Get(ball); item != nil {
		fmt.Printf("ball at (%.0f, %.0f) moving (%.0f, %.0f)\n",
			item.Position.X, item.Position.Y, item.Velocity.DX, item.Velocity.DY)
	}

	// Output:
	// ball at (4, 9) moving (-3, 0)
}

// ExampleView_Iter walks every entity carrying the view's components across
// all archetypes. Entities missing a required component are skipped.
func ExampleView_Iter() {
	storage := ecs.NewStorage(newTestRegistry())
	storage.Spawn(Position{X: 1, Y: 1}, Velocity{DX: 1})
	storage.Spawn(Position{X: 2, Y: 2}, Velocity{DY: 1}, Health{Current: 3, Max: 3})
	storage.Spawn(Position{X: 3, Y: 3})

	view := ecs.NewView[struct {
		*Position
		*Velocity
	}](storage)

	moving := 0
	var sum float32
	for id, item := range view.Iter() {
		item.Position.X += item.Velocity.DX
		item.Position.Y += item.Velocity.DY
		sum += item.Position.X + item.Position.Y
		if storage.Alive(id) {
			moving++
		}
	}
	fmt.Printf("moving=%d sum=%.0f\n", moving, sum)

	// Output:
	// moving=2 sum=8
}

// ExampleView_optional matches entities with or without a tagged field.
func ExampleView_optional() {
	storage := ecs.NewStorage(newTestRegistry())
	storage.Spawn(Position{X: 5}, Name{Value: "spawner"})

	view := ecs.NewView[struct {
		Position *Position
		Name     *Name   `ecs:"optional"`
		Health   *Health `ecs:"optional"`
	}](storage)

	for item := range view.Values() {
		fmt.Printf("name=%s health=%v\n", item.Name.Value, item.Health != nil)
	}

	// Output:
	// name=spawner health=false
}
