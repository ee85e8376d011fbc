package ecsworld_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/image/colornames"

	"github.com/plus3/bounce/ecs"
	"github.com/plus3/bounce/ecsworld"
	"github.com/plus3/bounce/scene"
)

const dt = 1.0 / 60

func parseScene(t *testing.T, yaml string) scene.Scene {
	t.Helper()
	s, err := scene.Parse([]byte(yaml))
	require.NoError(t, err)
	return s
}

func TestComponentsPerKind(t *testing.T) {
	s := scene.Default()
	for _, kind := range scene.Kinds {
		t.Run(string(kind), func(t *testing.T) {
			comps := ecsworld.Components(s, scene.Ball{Kind: kind, X: 1, Y: 1, Radius: 0.5, Mass: 1})
			hasContacts := false
			for _, c := range comps {
				if _, ok := c.(ecsworld.Contacts); ok {
					hasContacts = true
				}
			}
			assert.Equal(t, kind != scene.KindPlain, hasContacts)
		})
	}
}

func TestWorldColorBallTogglesOnLanding(t *testing.T) {
	w := ecsworld.New(parseScene(t, `
balls:
  - {kind: color, x: 10, y: 3, radius: 0.5, mass: 1}
`), ecsworld.WithWorkers(2))

	for range 180 {
		w.Step(dt)
	}

	sprites := w.Snapshot(nil)
	require.Len(t, sprites, 1)
	assert.Equal(t, colornames.Red, sprites[0].Color)
	assert.InDelta(t, 0.5, sprites[0].Y, 0.15)
	assert.EqualValues(t, 1, w.Counters().Collisions)
	assert.EqualValues(t, 180, w.Counters().Ticks)
	assert.Positive(t, w.Counters().Contacts)
}

func TestWorldSpawnerAddsBall(t *testing.T) {
	w := ecsworld.New(parseScene(t, `
behaviors: {spawner: {limit: 1, offset: 10}}
balls:
  - {kind: spawner, x: 10, y: 3, radius: 0.5, mass: 1}
`))
	require.Equal(t, 1, w.Balls())

	for range 120 {
		w.Step(dt)
	}

	assert.Equal(t, 2, w.Balls())
	assert.Equal(t, 1, w.Counters().Spawns)
	assert.Equal(t, 2, w.Physics().BodyCount())
}

func TestWorldGravityChanger(t *testing.T) {
	w := ecsworld.New(parseScene(t, `
world: {gravity: -10}
balls:
  - {kind: gravity, x: 10, y: 3, radius: 0.5, mass: 1}
`))

	for range 120 {
		w.Step(dt)
	}

	assert.InDelta(t, -11, w.Gravity(), 1e-9)
	assert.InDelta(t, -11, w.Physics().Gravity(), 1e-9)
}

func TestWorldRemoveDropsBody(t *testing.T) {
	w := ecsworld.New(scene.Default())
	w.Step(dt)
	require.Equal(t, len(scene.Default().Balls), w.Physics().BodyCount())

	var victim ecs.EntityId
	for id := range w.ContactRecords() {
		victim = id
		break
	}
	w.Remove(victim)

	assert.Equal(t, len(scene.Default().Balls)-1, w.Physics().BodyCount())
	assert.Equal(t, len(scene.Default().Balls)-1, w.Balls())
}

func TestWorldReset(t *testing.T) {
	w := ecsworld.New(scene.Default())
	for range 30 {
		w.Step(dt)
	}

	small := parseScene(t, "balls: [{x: 5, y: 5}, {x: 8, y: 5}]")
	w.Reset(small)

	assert.Equal(t, 2, w.Balls())
	assert.Equal(t, ecsworld.Counters{}, w.Counters())
	assert.Equal(t, small.World.Gravity, w.Gravity())

	w.Step(dt)
	assert.Equal(t, 2, w.Physics().BodyCount())
}

func TestWorldSchedulerPhases(t *testing.T) {
	w := ecsworld.New(scene.Default())
	w.Step(dt)

	phases := map[string]ecs.Phase{}
	for _, sys := range w.Scheduler().GetStats().Systems {
		phases[sys.Name] = sys.Phase
	}
	assert.Equal(t, ecs.PhaseSimulate, phases["PhysicsStepSystem"])
	assert.Equal(t, ecs.PhaseCollect, phases["CollisionsSystem"])
	assert.Equal(t, ecs.PhaseReact, phases["SpawnerSystem"])
}
