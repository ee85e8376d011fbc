package ecs_test

import (
	"reflect"
	"sync"
	"testing"

	"github.com/plus3/bounce/ecs"
	"github.com/stretchr/testify/assert"
)

type testSpawnSystem struct {
	executed bool
}

func (s *testSpawnSystem) Execute(frame *ecs.UpdateFrame) {
	s.executed = true
	frame.Commands.Spawn(Position{X: 1, Y: 2}, Velocity{DX: 0.5, DY: 0.5})
	frame.Commands.Spawn(Position{X: 3, Y: 4})
}

func TestCommandsFlush(t *testing.T) {
	storage := ecs.NewStorage(newTestRegistry())
	keep := storage.Spawn(Position{X: 1})
	doomed := storage.Spawn(Health{Current: 1})

	scheduler := ecs.NewScheduler(storage)
	spawner := &testSpawnSystem{}
	scheduler.Register(spawner)
	scheduler.Register(&testMutateSystem{keep: keep, doomed: doomed})

	scheduler.Once(1.0)

	assert.True(t, spawner.executed)
	assert.False(t, storage.Alive(doomed))
	// keep moved to Position+Velocity; plus the two spawns.
	assert.Equal(t, 3, storage.Count())

	view := ecs.NewView[struct {
		*Position
		*Velocity
	}](storage)
	count := 0
	for range view.Iter() {
		count++
	}
	assert.Equal(t, 2, count)
}

type testMutateSystem struct {
	keep, doomed ecs.EntityId
}

func (s *testMutateSystem) Execute(frame *ecs.UpdateFrame) {
	frame.Commands.Delete(s.doomed)
	frame.Commands.AddComponent(s.doomed, Velocity{})
	frame.Commands.AddComponent(s.keep, Velocity{DX: 2})
}

func TestCommandsConcurrentQueueing(t *testing.T) {
	storage := ecs.NewStorage(newTestRegistry())
	var commands ecs.Commands

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			commands.Spawn(Score(1))
		}()
	}
	wg.Wait()

	var spawned []ecs.EntityId
	commands.SpawnThen(func(id ecs.EntityId) { spawned = append(spawned, id) }, Score(2))
	deferred := false
	commands.Defer(func() { deferred = true })
	assert.Equal(t, 18, commands.Pending())

	commands.Flush(storage)

	assert.Equal(t, 17, storage.Count())
	assert.Len(t, spawned, 1)
	assert.Equal(t, Score(2), *ecs.ReadComponent[Score](storage, spawned[0]))
	assert.True(t, deferred)
	assert.Equal(t, 0, commands.Pending())
}

func TestCommandsRemoveComponent(t *testing.T) {
	storage := ecs.NewStorage(newTestRegistry())
	id := storage.Spawn(Position{}, Velocity{})

	var commands ecs.Commands
	commands.RemoveComponent(id, reflect.TypeFor[Velocity]())
	commands.Flush(storage)

	view := ecs.NewView[struct{ *Velocity }](storage)
	for range view.Iter() {
		t.Fatal("velocity should have been removed")
	}
	assert.Equal(t, 1, storage.Count())
}
