package main

import (
	"fmt"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/plus3/bounce/debugui"
	debugui_ebiten "github.com/plus3/bounce/debugui/ebiten"
	"github.com/plus3/bounce/ecs"
	"github.com/plus3/bounce/sim"
)

// overlay drives the debug windows. In ecs mode they live in the world's own
// storage and run in its render phase; in oo mode they get a storage and
// scheduler of their own.
type overlay struct {
	backend   debugui_ebiten.ImguiBackend
	storage   *ecs.Storage
	scheduler *ecs.Scheduler
	ownTick   bool
	input     *ecs.Singleton[debugui.ImguiInputState]
}

func newOverlay(title string, world sim.Simulation) *overlay {
	o := &overlay{backend: debugui_ebiten.New(title, ScreenWidth, ScreenHeight)}

	if e, ok := world.(*sim.ECS); ok {
		o.storage = e.World.Storage()
		o.scheduler = e.World.Scheduler()
	} else {
		o.storage = ecs.NewStorage(ecs.NewComponentRegistry())
		o.scheduler = ecs.NewScheduler(o.storage)
		o.ownTick = true
	}
	debugui.Install(o.storage, o.scheduler)
	o.input = ecs.NewSingleton[debugui.ImguiInputState](o.storage)

	o.storage.Spawn(debugui.NewPerformanceStats(120, o.storage, o.scheduler, func() []debugui.Stat {
		c := world.Counters()
		return []debugui.Stat{
			{Label: "Mode", Value: string(world.Mode())},
			{Label: "Balls", Value: fmt.Sprint(c.Balls)},
			{Label: "Ticks", Value: fmt.Sprint(c.Ticks)},
			{Label: "Contacts", Value: fmt.Sprint(c.Contacts)},
			{Label: "New collisions", Value: fmt.Sprint(c.Collisions)},
			{Label: "Spawns", Value: fmt.Sprint(c.Spawns)},
			{Label: "Gravity", Value: fmt.Sprintf("%.3f", world.Gravity())},
		}
	}))
	o.storage.Spawn(debugui.ContactInspector{Source: world.Contacts})
	return o
}

func (o *overlay) wantsKeyboard() bool {
	return o.input.Get().WantCaptureKeyboard
}

func (o *overlay) begin() {
	o.backend.BeginFrame()
}

func (o *overlay) end() {
	o.backend.EndFrame()
}

// update runs the UI systems when the world did not run them this frame.
func (o *overlay) update(dt float64, paused bool) {
	switch {
	case o.ownTick:
		o.scheduler.Once(dt)
	case paused:
		o.scheduler.RunPhase(ecs.PhaseRender, 0)
	}
}

func (o *overlay) draw(screen *ebiten.Image) {
	o.backend.Draw(screen)
}

func (o *overlay) layout(w, h int) {
	o.backend.Layout(w, h)
}
