package ecs

import (
	"context"
	"reflect"
	"strings"
	"time"
)

// System represents a behavior that operates on entities with specific components.
// Systems can declare Query and Singleton fields, which the Scheduler
// initializes on registration, plus any state that persists between frames.
type System interface {
	Execute(frame *UpdateFrame)
}

// Phase orders groups of systems within one tick. Every system of a phase
// finishes before the first system of the next phase starts.
type Phase int

const (
	// PhaseSimulate advances the physics host and syncs bodies.
	PhaseSimulate Phase = iota
	// PhaseCollect turns raw host events into per-entity state.
	PhaseCollect
	// PhaseReact runs gameplay reactions that read the collected state.
	PhaseReact
	// PhaseRender prepares presentation data.
	PhaseRender

	phaseCount
)

func (p Phase) String() string {
	switch p {
	case PhaseSimulate:
		return "simulate"
	case PhaseCollect:
		return "collect"
	case PhaseReact:
		return "react"
	case PhaseRender:
		return "render"
	default:
		return "unknown"
	}
}

// SchedulerStats provides statistics about scheduler execution.
type SchedulerStats struct {
	SystemCount     int
	TotalExecutions int64
	Ticks           uint64
	Systems         []SystemStats
}

// SystemStats provides execution statistics for a single system.
type SystemStats struct {
	Name           string
	Phase          Phase
	ExecutionCount int64
	MinDuration    time.Duration
	MaxDuration    time.Duration
	AvgDuration    time.Duration
	LastDuration   time.Duration
	TotalDuration  time.Duration
}

type queryRefresher interface {
	Execute()
}

type registeredSystem struct {
	system  System
	phase   Phase
	queries []queryRefresher

	name           string
	executionCount int64
	minDuration    time.Duration
	maxDuration    time.Duration
	totalDuration  time.Duration
	lastDuration   time.Duration
}

// Scheduler manages and executes systems phase by phase.
type Scheduler struct {
	storage *Storage
	phases  [phaseCount][]*registeredSystem
	order   []*registeredSystem
	tick    uint64
}

// NewScheduler creates a new scheduler for the given storage.
func NewScheduler(storage *Storage) *Scheduler {
	return &Scheduler{storage: storage}
}

// Register adds a system to PhaseReact.
func (s *Scheduler) Register(system System) {
	s.RegisterIn(PhaseReact, system)
}

// RegisterIn adds a system to the given phase and initializes its Query and
// Singleton fields. Systems of one phase run in registration order.
func (s *Scheduler) RegisterIn(phase Phase, system System) {
	if phase < 0 || phase >= phaseCount {
		panic("invalid scheduler phase")
	}

	systemType := reflect.TypeOf(system)
	if systemType.Kind() == reflect.Ptr {
		systemType = systemType.Elem()
	}

	rs := &registeredSystem{
		system:      system,
		phase:       phase,
		queries:     s.initializeFields(system),
		name:        systemType.Name(),
		minDuration: time.Duration(1<<63 - 1),
	}
	s.phases[phase] = append(s.phases[phase], rs)
	s.order = append(s.order, rs)
}

func (s *Scheduler) initializeFields(system System) []queryRefresher {
	systemValue := reflect.ValueOf(system)
	if systemValue.Kind() == reflect.Ptr {
		systemValue = systemValue.Elem()
	}
	if systemValue.Kind() != reflect.Struct {
		return nil
	}

	var queries []queryRefresher
	systemType := systemValue.Type()
	for i := 0; i < systemValue.NumField(); i++ {
		field := systemValue.Field(i)
		if !field.CanSet() || field.Kind() != reflect.Struct {
			continue
		}

		typeName := field.Type().Name()
		isQuery := strings.HasPrefix(typeName, "Query[")
		if !isQuery && !strings.HasPrefix(typeName, "Singleton[") {
			continue
		}

		initMethod := field.Addr().MethodByName("Init")
		if !initMethod.IsValid() {
			panic("Init method not found on field: " + systemType.Field(i).Name)
		}
		initMethod.Call([]reflect.Value{reflect.ValueOf(s.storage)})

		if isQuery {
			if q, ok := field.Addr().Interface().(queryRefresher); ok {
				queries = append(queries, q)
			}
		}
	}
	return queries
}

// Once executes every phase once with the given delta time, then flushes the
// frame's commands.
func (s *Scheduler) Once(dt float64) {
	s.tick++
	frame := newUpdateFrame(s.tick, dt, s.storage)

	for phase := range s.phases {
		s.runPhase(Phase(phase), frame)
	}

	frame.Commands.Flush(s.storage)
}

// RunPhase executes only the systems of phase and flushes their commands.
// The tick counter is not advanced. Use it to keep presentation systems
// running while the simulation is paused.
func (s *Scheduler) RunPhase(phase Phase, dt float64) {
	if phase < 0 || phase >= phaseCount {
		panic("invalid scheduler phase")
	}
	frame := newUpdateFrame(s.tick, dt, s.storage)
	s.runPhase(phase, frame)
	frame.Commands.Flush(s.storage)
}

func (s *Scheduler) runPhase(phase Phase, frame *UpdateFrame) {
	for _, rs := range s.phases[phase] {
		start := time.Now()
		for _, q := range rs.queries {
			q.Execute()
		}
		rs.system.Execute(frame)
		rs.record(time.Since(start))
	}
}

func (rs *registeredSystem) record(duration time.Duration) {
	rs.executionCount++
	rs.lastDuration = duration
	rs.totalDuration += duration
	rs.minDuration = min(rs.minDuration, duration)
	rs.maxDuration = max(rs.maxDuration, duration)
}

// Tick returns the number of completed Once calls.
func (s *Scheduler) Tick() uint64 {
	return s.tick
}

// Run executes all systems repeatedly at the given interval until the context is cancelled.
func (s *Scheduler) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	lastTime := time.Now()

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			dt := now.Sub(lastTime).Seconds()
			lastTime = now
			s.Once(dt)
		}
	}
}

// GetStats returns statistics about system execution in registration order.
func (s *Scheduler) GetStats() *SchedulerStats {
	stats := &SchedulerStats{
		SystemCount: len(s.order),
		Ticks:       s.tick,
		Systems:     make([]SystemStats, len(s.order)),
	}

	for i, rs := range s.order {
		var avgDuration time.Duration
		if rs.executionCount > 0 {
			avgDuration = rs.totalDuration / time.Duration(rs.executionCount)
		}

		stats.Systems[i] = SystemStats{
			Name:           rs.name,
			Phase:          rs.phase,
			ExecutionCount: rs.executionCount,
			MinDuration:    rs.minDuration,
			MaxDuration:    rs.maxDuration,
			AvgDuration:    avgDuration,
			LastDuration:   rs.lastDuration,
			TotalDuration:  rs.totalDuration,
		}
		stats.TotalExecutions += rs.executionCount
	}

	return stats
}
