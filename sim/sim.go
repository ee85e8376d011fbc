// Package sim puts both world implementations behind one interface so the
// commands can run, draw and compare them without caring which one is live.
package sim

import (
	"fmt"
	"sort"

	"github.com/plus3/bounce/contact"
	"github.com/plus3/bounce/ecs"
	"github.com/plus3/bounce/ecsworld"
	"github.com/plus3/bounce/ooworld"
	"github.com/plus3/bounce/physics"
	"github.com/plus3/bounce/scene"
)

type Mode string

const (
	ModeECS Mode = "ecs"
	ModeOO  Mode = "oo"
)

// Modes lists every supported mode.
var Modes = []Mode{ModeECS, ModeOO}

// ParseMode validates a mode name.
func ParseMode(name string) (Mode, error) {
	for _, m := range Modes {
		if string(m) == name {
			return m, nil
		}
	}
	return "", fmt.Errorf("unknown mode %q (want ecs or oo)", name)
}

// Counters is the common subset of the per-world totals.
type Counters struct {
	Ticks      uint64
	Contacts   int
	Collisions int64
	Spawns     int
	Balls      int
}

// ContactRow is one record of one ball's contact list.
type ContactRow struct {
	Owner  string
	Other  string
	Status contact.Status
}

type Simulation interface {
	Mode() Mode
	Step(dt float64) error
	Reset(s scene.Scene)
	Snapshot(dst []scene.Sprite) []scene.Sprite
	Gravity() float64
	Counters() Counters
	Contacts() []ContactRow
	Scene() scene.Scene
}

// New builds a simulation of the given mode. workers only affects ModeECS.
func New(mode Mode, s scene.Scene, workers int) (Simulation, error) {
	switch mode {
	case ModeECS:
		return &ECS{World: ecsworld.New(s, ecsworld.WithWorkers(workers))}, nil
	case ModeOO:
		return &OO{World: ooworld.New(s)}, nil
	default:
		return nil, fmt.Errorf("unknown mode %q", mode)
	}
}

// ECS adapts ecsworld.World.
type ECS struct {
	World *ecsworld.World
}

func (e *ECS) Mode() Mode { return ModeECS }

func (e *ECS) Step(dt float64) error {
	e.World.Step(dt)
	return nil
}

func (e *ECS) Reset(s scene.Scene) { e.World.Reset(s) }
func (e *ECS) Snapshot(dst []scene.Sprite) []scene.Sprite { return e.World.Snapshot(dst) }
func (e *ECS) Gravity() float64 { return e.World.Gravity() }
func (e *ECS) Scene() scene.Scene { return e.World.Scene() }

func (e *ECS) Counters() Counters {
	c := e.World.Counters()
	return Counters{
		Ticks:      c.Ticks,
		Contacts:   c.Contacts,
		Collisions: c.Collisions,
		Spawns:     c.Spawns,
		Balls:      e.World.Balls(),
	}
}

func (e *ECS) Contacts() []ContactRow {
	var rows []ContactRow
	for id, records := range e.World.ContactRecords() {
		for _, rec := range records {
			rows = append(rows, ContactRow{
				Owner:  id.String(),
				Other:  entityName(rec.Other),
				Status: rec.Status,
			})
		}
	}
	sortRows(rows)
	return rows
}

func entityName(id ecs.EntityId) string {
	if physics.Handle(id) == physics.WallHandle {
		return "wall"
	}
	return id.String()
}

// OO adapts ooworld.World.
type OO struct {
	World *ooworld.World
}

func (o *OO) Mode() Mode { return ModeOO }
func (o *OO) Step(dt float64) error { return o.World.Step(dt) }
func (o *OO) Reset(s scene.Scene) { o.World.Reset(s) }
func (o *OO) Snapshot(dst []scene.Sprite) []scene.Sprite { return o.World.Snapshot(dst) }
func (o *OO) Gravity() float64 { return o.World.Gravity() }
func (o *OO) Scene() scene.Scene { return o.World.Scene() }

func (o *OO) Counters() Counters {
	c := o.World.Counters()
	return Counters{
		Ticks:      c.Ticks,
		Contacts:   c.Contacts,
		Collisions: c.Collisions,
		Spawns:     c.Spawns,
		Balls:      len(o.World.Balls()),
	}
}

func (o *OO) Contacts() []ContactRow {
	balls := o.World.Balls()
	names := make(map[physics.Handle]string, len(balls))
	for _, b := range balls {
		names[b.Handle()] = b.ID.String()[:8]
	}
	names[physics.WallHandle] = "wall"

	var rows []ContactRow
	for _, b := range balls {
		for _, rec := range o.World.ContactRecords(b.ID) {
			other, ok := names[rec.Other]
			if !ok {
				other = fmt.Sprintf("#%d", rec.Other)
			}
			rows = append(rows, ContactRow{Owner: names[b.Handle()], Other: other, Status: rec.Status})
		}
	}
	sortRows(rows)
	return rows
}

func sortRows(rows []ContactRow) {
	sort.SliceStable(rows, func(i, j int) bool { return rows[i].Owner < rows[j].Owner })
}
