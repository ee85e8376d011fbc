// Package physics hosts the rigid body simulation for the bouncing balls on
// top of a Chipmunk2D space and reports raw contacts once per step.
package physics

import (
	"math"
	"slices"

	"github.com/jakecoffman/cp"
	"github.com/plus3/bounce/contact"
)

// Handle identifies the owner of a body. WallHandle is reserved for the
// static walls around the world.
type Handle uint64

// WallHandle is the handle reported for contacts with the world bounds.
const WallHandle Handle = 0

const (
	collisionTypeWall cp.CollisionType = iota + 1
	collisionTypeBall
)

// Config describes the space and its static bounds.
type Config struct {
	Width          float64
	Height         float64
	Gravity        float64
	Iterations     uint
	WallThickness  float64
	WallElasticity float64
	Friction       float64
}

// DefaultConfig returns a 32x18 box with earth gravity.
func DefaultConfig() Config {
	return Config{
		Width:          32,
		Height:         18,
		Gravity:        -9.81,
		Iterations:     10,
		WallThickness:  0.1,
		WallElasticity: 0.5,
		Friction:       0.6,
	}
}

// World owns a cp.Space plus the bodies registered by handle.
type World struct {
	cfg    Config
	space  *cp.Space
	bodies map[Handle]*Body
	order  []*Body
	events []contact.Event[Handle]
}

// NewWorld builds a space with four static walls.
func NewWorld(cfg Config) *World {
	space := cp.NewSpace()
	if cfg.Iterations > 0 {
		space.Iterations = cfg.Iterations
	}
	space.SetGravity(cp.Vector{X: 0, Y: cfg.Gravity})

	w := &World{
		cfg:    cfg,
		space:  space,
		bodies: make(map[Handle]*Body),
	}
	w.buildWalls()
	return w
}

func (w *World) buildWalls() {
	width, height, t := w.cfg.Width, w.cfg.Height, w.cfg.WallThickness
	if width <= 0 || height <= 0 {
		return
	}
	// Segments sit one thickness outside the box so the inner faces are
	// exactly at 0 and at width/height.
	segments := []struct {
		a cp.Vector
		b cp.Vector
	}{
		// floor, ceiling, left, right
		{a: cp.Vector{X: -t, Y: -t}, b: cp.Vector{X: width + t, Y: -t}},
		{a: cp.Vector{X: -t, Y: height + t}, b: cp.Vector{X: width + t, Y: height + t}},
		{a: cp.Vector{X: -t, Y: -t}, b: cp.Vector{X: -t, Y: height + t}},
		{a: cp.Vector{X: width + t, Y: -t}, b: cp.Vector{X: width + t, Y: height + t}},
	}
	for _, seg := range segments {
		shape := cp.NewSegment(w.space.StaticBody, seg.a, seg.b, t)
		shape.SetElasticity(w.cfg.WallElasticity)
		shape.SetFriction(w.cfg.Friction)
		shape.SetCollisionType(collisionTypeWall)
		w.space.AddShape(shape)
	}
}

// Config returns the configuration the world was built with.
func (w *World) Config() Config {
	return w.cfg
}

// Gravity returns the vertical gravity.
func (w *World) Gravity() float64 {
	return w.space.Gravity().Y
}

// SetGravity replaces the vertical gravity.
func (w *World) SetGravity(g float64) {
	w.space.SetGravity(cp.Vector{X: 0, Y: g})
}

// BallSpec describes a new dynamic circle.
type BallSpec struct {
	X, Y       float64
	VX, VY     float64
	Radius     float64
	Mass       float64
	Elasticity float64
	Friction   float64
}

// AddBall creates a dynamic circle owned by handle. An existing body for the
// same handle is replaced.
func (w *World) AddBall(handle Handle, spec BallSpec) *Body {
	if handle == WallHandle {
		panic("physics: handle 0 is reserved for walls")
	}
	w.Remove(handle)

	mass := spec.Mass
	if mass <= 0 {
		mass = 1
	}
	radius := spec.Radius
	if radius <= 0 {
		radius = 0.5
	}

	body := cp.NewBody(mass, cp.MomentForCircle(mass, 0, radius, cp.Vector{}))
	body.SetPosition(cp.Vector{X: spec.X, Y: spec.Y})
	body.SetVelocity(spec.VX, spec.VY)
	body.UserData = handle

	shape := cp.NewCircle(body, radius, cp.Vector{})
	shape.SetElasticity(spec.Elasticity)
	shape.SetFriction(spec.Friction)
	shape.SetCollisionType(collisionTypeBall)

	w.space.AddBody(body)
	w.space.AddShape(shape)

	b := &Body{
		handle:     handle,
		body:       body,
		shape:      shape,
		radius:     radius,
		elasticity: spec.Elasticity,
	}
	w.bodies[handle] = b
	w.order = append(w.order, b)
	return b
}

// Body returns the body owned by handle, or nil.
func (w *World) Body(handle Handle) *Body {
	return w.bodies[handle]
}

// BodyCount returns the number of dynamic bodies.
func (w *World) BodyCount() int {
	return len(w.order)
}

// Remove deletes the body owned by handle, if any.
func (w *World) Remove(handle Handle) {
	b, ok := w.bodies[handle]
	if !ok {
		return
	}
	w.space.RemoveShape(b.shape)
	w.space.RemoveBody(b.body)
	delete(w.bodies, handle)
	w.order = slices.DeleteFunc(w.order, func(o *Body) bool { return o == b })
}

// Step advances the simulation by dt and rebuilds the contact events.
func (w *World) Step(dt float64) {
	if dt <= 0 {
		return
	}
	w.space.Step(dt)
	w.collectEvents()
}

// Events returns the contacts touching after the last Step. Each touching
// pair appears once; the slice is reused by the next Step.
func (w *World) Events() []contact.Event[Handle] {
	return w.events
}

func (w *World) collectEvents() {
	w.events = w.events[:0]
	for _, b := range w.order {
		self := b.handle
		b.body.EachArbiter(func(arb *cp.Arbiter) {
			bodyA, bodyB := arb.Bodies()
			otherBody := bodyB
			if bodyA != b.body {
				otherBody = bodyA
			}
			other := handleOf(otherBody)
			// Ball pairs are visited from both sides; keep one.
			if other != WallHandle && other < self {
				return
			}
			w.events = append(w.events, contact.Event[Handle]{
				A:       self,
				B:       other,
				Impulse: arb.TotalImpulse().Length(),
			})
		})
	}
}

func handleOf(body *cp.Body) Handle {
	if body == nil {
		return WallHandle
	}
	if h, ok := body.UserData.(Handle); ok {
		return h
	}
	return WallHandle
}

// Body is a dynamic circle in the world.
type Body struct {
	handle     Handle
	body       *cp.Body
	shape      *cp.Shape
	radius     float64
	elasticity float64
}

// Handle returns the owner handle.
func (b *Body) Handle() Handle {
	return b.handle
}

// Position returns the center of the body.
func (b *Body) Position() (x, y float64) {
	p := b.body.Position()
	return p.X, p.Y
}

// SetPosition teleports the body.
func (b *Body) SetPosition(x, y float64) {
	b.body.SetPosition(cp.Vector{X: x, Y: y})
}

// Velocity returns the linear velocity.
func (b *Body) Velocity() (vx, vy float64) {
	v := b.body.Velocity()
	return v.X, v.Y
}

// Angle returns the rotation in radians.
func (b *Body) Angle() float64 {
	return b.body.Angle()
}

// Radius returns the circle radius.
func (b *Body) Radius() float64 {
	return b.radius
}

// Mass returns the body mass.
func (b *Body) Mass() float64 {
	return b.body.Mass()
}

// SetMass changes the mass and the matching moment of inertia.
func (b *Body) SetMass(mass float64) {
	if mass <= 0 || math.IsInf(mass, 0) || math.IsNaN(mass) {
		return
	}
	b.body.SetMass(mass)
	b.body.SetMoment(cp.MomentForCircle(mass, 0, b.radius, cp.Vector{}))
}

// Elasticity returns the restitution of the body's shape.
func (b *Body) Elasticity() float64 {
	return b.elasticity
}

// SetElasticity changes the restitution of the body's shape.
func (b *Body) SetElasticity(e float64) {
	b.elasticity = e
	b.shape.SetElasticity(e)
}
