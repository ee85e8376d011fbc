package ecs_test

import (
	"testing"

	"github.com/plus3/bounce/ecs"
)

func BenchmarkSpawn(b *testing.B) {
	storage := ecs.NewStorage(newTestRegistry())

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		storage.Spawn(Position{X: 1, Y: 2}, Velocity{DX: 0.5, DY: 0.5})
	}
}

func BenchmarkSpawnDelete(b *testing.B) {
	storage := ecs.NewStorage(newTestRegistry())

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		storage.Delete(storage.Spawn(Position{X: 1, Y: 2}))
	}
}

func spawnMoving(storage *ecs.Storage, n int) {
	for i := 0; i < n; i++ {
		storage.Spawn(Position{X: float32(i)}, Velocity{DX: 1, DY: -1})
	}
}

func BenchmarkQueryExecuteIter(b *testing.B) {
	storage := ecs.NewStorage(newTestRegistry())
	spawnMoving(storage, 10_000)
	query := ecs.NewQuery[struct {
		*Position
		*Velocity
	}](storage)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		query.Execute()
		for item := range query.Values() {
			item.Position.X += item.Velocity.DX
			item.Position.Y += item.Velocity.DY
		}
	}
}

func BenchmarkQueryParallelEach(b *testing.B) {
	storage := ecs.NewStorage(newTestRegistry())
	spawnMoving(storage, 10_000)
	query := ecs.NewQuery[struct {
		*Position
		*Velocity
	}](storage)
	query.Execute()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = query.ParallelEach(8, func(_ ecs.EntityId, item struct {
			*Position
			*Velocity
		}) error {
			item.Position.X += item.Velocity.DX
			item.Position.Y += item.Velocity.DY
			return nil
		})
	}
}

func BenchmarkViewGet(b *testing.B) {
	storage := ecs.NewStorage(newTestRegistry())
	id := storage.Spawn(Position{X: 1}, Velocity{DX: 1})
	view := ecs.NewView[struct {
		*Position
		*Velocity
	}](storage)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if view.Get(id) == nil {
			b.Fatal("missing entity")
		}
	}
}

func BenchmarkCommandsFlush(b *testing.B) {
	storage := ecs.NewStorage(newTestRegistry())

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		var cmds ecs.Commands
		for j := 0; j < 64; j++ {
			cmds.Spawn(Position{X: float32(j)})
		}
		cmds.Flush(storage)
	}
}
