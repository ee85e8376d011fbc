package ecs_test

import (
	"fmt"
	"sync/atomic"

	"github.com/plus3/bounce/ecs"
)

// ExampleQuery snapshots the matching entities once per Execute. Outside a
// scheduler the caller runs Execute itself.
func ExampleQuery() {
	storage := ecs.NewStorage(newTestRegistry())
	storage.Spawn(Position{X: 0}, Velocity{DX: 2})
	storage.Spawn(Position{X: 10}, Velocity{DX: -1})

	query := ecs.NewQuery[struct {
		*Position
		*Velocity
	}](storage)
	query.Execute()

	var total float32
	for item := range query.Values() {
		item.Position.X += item.Velocity.DX
		total += item.Position.X
	}
	fmt.Printf("entities=%d total=%.0f\n", query.Len(), total)

	// Output:
	// entities=2 total=11
}

// ExampleQuery_ParallelEach splits the snapshot across workers. Each call
// only touches its own entity; shared tallies go through atomics.
func ExampleQuery_ParallelEach() {
	storage := ecs.NewStorage(newTestRegistry())
	for i := range 64 {
		storage.Spawn(Score(i))
	}

	query := ecs.NewQuery[struct{ *Score }](storage)
	query.Execute()

	var odd atomic.Int64
	err := query.ParallelEach(4, func(_ ecs.EntityId, item struct{ *Score }) error {
		*item.Score *= 2
		if *item.Score%4 != 0 {
			odd.Add(1)
		}
		return nil
	})
	fmt.Println(err, odd.Load())

	// Output:
	// <nil> 32
}
