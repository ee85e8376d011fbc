// Package ooworld runs the bouncing-ball demo with plain objects: every ball
// owns a list of OnHit behaviours and the world asks a shared contact tracker
// whether a ball has a new collision.
package ooworld

import (
	"fmt"
	"slices"

	"github.com/google/uuid"

	"github.com/plus3/bounce/contact"
	"github.com/plus3/bounce/physics"
	"github.com/plus3/bounce/scene"
)

// Counters accumulates per-world totals.
type Counters struct {
	Ticks      uint64
	Contacts   int
	Collisions int64
	Spawns     int
}

type World struct {
	scene      scene.Scene
	physics    *physics.World
	tracker    *contact.Tracker[physics.Handle]
	balls      []*Ball
	byID       map[uuid.UUID]*Ball
	pending    []scene.Ball
	nextHandle physics.Handle
	counters   Counters
}

// New builds a world populated with the balls of s.
func New(s scene.Scene) *World {
	w := &World{}
	w.Reset(s)
	return w
}

// Reset discards every ball and rebuilds the world from s.
func (w *World) Reset(s scene.Scene) {
	w.scene = s
	w.physics = physics.NewWorld(s.PhysicsConfig())
	w.tracker = contact.NewTracker[physics.Handle](
		contact.WithThreshold(s.Contacts.Threshold),
		contact.WithCapacity(max(len(s.Balls), 16)),
	)
	w.balls = nil
	w.byID = make(map[uuid.UUID]*Ball, len(s.Balls))
	w.pending = nil
	w.nextHandle = physics.WallHandle
	w.counters = Counters{}

	for _, b := range s.Balls {
		w.Spawn(b)
	}
}

// Spawn adds a ball immediately.
func (w *World) Spawn(b scene.Ball) *Ball {
	w.nextHandle++
	ball := &Ball{
		ID:         uuid.New(),
		handle:     w.nextHandle,
		colour:     w.scene.BaseTint(b),
		behaviours: behavioursFor(w.scene, b.Kind),
	}
	ball.body = w.physics.AddBall(ball.handle, b.Spec(w.scene.World.Friction))
	if len(ball.behaviours) > 0 {
		w.tracker.Track(ball.handle)
	}
	w.balls = append(w.balls, ball)
	w.byID[ball.ID] = ball
	return ball
}

// QueueSpawn adds a ball once the current Step has updated every ball.
func (w *World) QueueSpawn(b scene.Ball) {
	w.pending = append(w.pending, b)
}

// Remove deletes the ball with id, its host body and its contact state.
func (w *World) Remove(id uuid.UUID) bool {
	ball, ok := w.byID[id]
	if !ok {
		return false
	}
	delete(w.byID, id)
	w.balls = slices.DeleteFunc(w.balls, func(b *Ball) bool { return b == ball })
	w.physics.Remove(ball.handle)
	w.tracker.Untrack(ball.handle)
	return true
}

// Step advances physics, ingests the contact events, lets every ball react
// and then adds the balls spawned during the tick.
func (w *World) Step(dt float64) error {
	w.physics.Step(dt)
	w.counters.Ticks++

	w.tracker.BeginTick()
	events := w.physics.Events()
	w.tracker.Ingest(events)
	w.counters.Contacts += len(events)

	var errs []error
	for _, ball := range w.balls {
		hit, err := ball.Update(w)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		if hit {
			w.counters.Collisions++
		}
	}

	pending := w.pending
	w.pending = nil
	for _, b := range pending {
		w.Spawn(b)
	}
	w.counters.Spawns += len(pending)

	if len(errs) > 0 {
		return fmt.Errorf("step %d: %w", w.tracker.Tick(), errs[0])
	}
	return nil
}

// Snapshot appends the drawable state of every ball to dst.
func (w *World) Snapshot(dst []scene.Sprite) []scene.Sprite {
	for _, ball := range w.balls {
		x, y := ball.body.Position()
		dst = append(dst, scene.Sprite{
			X:      x,
			Y:      y,
			Angle:  ball.body.Angle(),
			Radius: ball.body.Radius(),
			Color:  ball.colour,
		})
	}
	return dst
}

// ContactRecords returns the contact records of the ball with id.
func (w *World) ContactRecords(id uuid.UUID) []contact.Record[physics.Handle] {
	ball, ok := w.byID[id]
	if !ok {
		return nil
	}
	return w.tracker.Records(ball.handle)
}

func (w *World) Gravity() float64 {
	return w.physics.Gravity()
}

func (w *World) SetGravity(g float64) {
	w.physics.SetGravity(g)
}

// Height is the height of the world box.
func (w *World) Height() float64 {
	return w.physics.Config().Height
}

func (w *World) Counters() Counters {
	return w.counters
}

// Balls returns the live balls in spawn order.
func (w *World) Balls() []*Ball {
	return slices.Clone(w.balls)
}

// Ball looks up a ball by id.
func (w *World) Ball(id uuid.UUID) (*Ball, bool) {
	b, ok := w.byID[id]
	return b, ok
}

func (w *World) Scene() scene.Scene {
	return w.scene
}

func (w *World) Physics() *physics.World {
	return w.physics
}
