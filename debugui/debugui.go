// Package debugui provides immediate-mode GUI integration for ECS applications using Dear ImGui.
// It manages ImGui rendering and input state through ECS components and systems.
package debugui

import (
	"github.com/AllenDang/cimgui-go/imgui"

	"github.com/plus3/bounce/ecs"
)

// ImguiItem is a component that holds a Dear ImGui render function.
// Attach this to entities that should render ImGui widgets each frame.
type ImguiItem struct {
	Render func()
}

// ImguiInputState tracks Dear ImGui's input capture state as a singleton component.
// Use this to determine if ImGui is consuming mouse or keyboard input.
type ImguiInputState struct {
	WantCaptureMouse    bool
	WantCaptureKeyboard bool
}

// ImguiSystem queries all ImguiItem components and defers their render functions.
// It also updates the ImguiInputState singleton with current input capture state.
type ImguiSystem struct {
	Items      ecs.Query[struct{ *ImguiItem }]
	InputState ecs.Singleton[ImguiInputState]
}

// Execute updates input state and queues all ImGui render functions for execution.
func (i *ImguiSystem) Execute(frame *ecs.UpdateFrame) {
	state := i.InputState.Get()
	state.WantCaptureMouse = imgui.CurrentIO().WantCaptureMouse()
	state.WantCaptureKeyboard = imgui.CurrentIO().WantCaptureKeyboard()

	for item := range i.Items.Values() {
		frame.Commands.Defer(item.Render)
	}
}

// WindowsSystem renders the built-in debug windows attached to entities.
type WindowsSystem struct {
	Performance ecs.Query[struct{ *PerformanceStats }]
	Contacts    ecs.Query[struct{ *ContactInspector }]

	timer *FrameTimer
}

func (w *WindowsSystem) Execute(frame *ecs.UpdateFrame) {
	if w.timer == nil {
		w.timer = NewFrameTimer()
	}
	dt := w.timer.GetDeltaTime()
	for item := range w.Performance.Values() {
		stats := item.PerformanceStats
		stats.Sample(dt)
		frame.Commands.Defer(func() { stats.Render(frame.Storage) })
	}
	for item := range w.Contacts.Values() {
		frame.Commands.Defer(item.ContactInspector.Render)
	}
}

// RegisterComponents registers the debug UI components with registry.
func RegisterComponents(registry *ecs.ComponentRegistry) {
	ecs.RegisterComponent[ImguiItem](registry)
	ecs.RegisterComponent[PerformanceStats](registry)
	ecs.RegisterComponent[ContactInspector](registry)
}

// Install registers the debug UI systems in the render phase of scheduler
// and creates the input state singleton.
func Install(storage *ecs.Storage, scheduler *ecs.Scheduler) {
	RegisterComponents(storage.Registry())
	ecs.NewSingleton[ImguiInputState](storage)
	scheduler.RegisterIn(ecs.PhaseRender, &ImguiSystem{})
	scheduler.RegisterIn(ecs.PhaseRender, &WindowsSystem{})
}
