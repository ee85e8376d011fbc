package ooworld

import (
	"image/color"

	"github.com/plus3/bounce/scene"
)

// HitContext is what a behaviour sees when its ball has a new collision.
type HitContext struct {
	World *World
	Ball  *Ball
}

// OnHit reacts to a new collision of the ball it is attached to.
type OnHit interface {
	ReactToCollision(ctx *HitContext)
}

// ChangeBouncy makes the ball bouncier and lifts it, once.
type ChangeBouncy struct {
	Restitution float64
	Lift        float64
	spent       bool
}

func (c *ChangeBouncy) ReactToCollision(ctx *HitContext) {
	if c.spent {
		return
	}
	c.spent = true
	body := ctx.Ball.body
	body.SetElasticity(c.Restitution)
	x, y := body.Position()
	body.SetPosition(x, min(y+c.Lift, ctx.World.Height()-body.Radius()))
}

// Spent reports whether the behaviour has already fired.
func (c *ChangeBouncy) Spent() bool {
	return c.spent
}

// ChangeColour toggles the ball between two colours.
type ChangeColour struct {
	From, To color.RGBA
	toggled  bool
}

func (c *ChangeColour) ReactToCollision(ctx *HitContext) {
	c.toggled = !c.toggled
	if c.toggled {
		ctx.Ball.colour = c.To
	} else {
		ctx.Ball.colour = c.From
	}
}

// ChangeMass multiplies the ball's mass.
type ChangeMass struct {
	Factor float64
}

func (c *ChangeMass) ReactToCollision(ctx *HitContext) {
	ctx.Ball.body.SetMass(ctx.Ball.body.Mass() * c.Factor)
}

// ChangeFallSpeed multiplies the world gravity.
type ChangeFallSpeed struct {
	Factor float64
}

func (c *ChangeFallSpeed) ReactToCollision(ctx *HitContext) {
	ctx.World.SetGravity(ctx.World.Gravity() * c.Factor)
}

// ChangeSpawn queues a plain copy of the ball above it, up to Limit copies.
type ChangeSpawn struct {
	Limit   int
	Offset  float64
	spawned int
}

func (c *ChangeSpawn) ReactToCollision(ctx *HitContext) {
	if c.spawned >= c.Limit {
		return
	}
	c.spawned++

	body := ctx.Ball.body
	x, y := body.Position()
	radius := body.Radius()
	ctx.World.QueueSpawn(scene.Ball{
		Kind:       scene.KindPlain,
		X:          x,
		Y:          min(y+c.Offset, ctx.World.Height()-radius),
		Radius:     radius,
		Mass:       body.Mass(),
		Elasticity: body.Elasticity(),
	})
}

// Spawned returns the number of copies queued so far.
func (c *ChangeSpawn) Spawned() int {
	return c.spawned
}

// behavioursFor builds the behaviours of a ball of kind k.
func behavioursFor(s scene.Scene, k scene.Kind) []OnHit {
	t := s.Behaviors
	switch k {
	case scene.KindBouncy:
		return []OnHit{&ChangeBouncy{Restitution: t.Bouncy.Restitution, Lift: t.Bouncy.Lift}}
	case scene.KindColor:
		return []OnHit{&ChangeColour{From: scene.ColorOf(t.Color.From), To: scene.ColorOf(t.Color.To)}}
	case scene.KindMass:
		return []OnHit{&ChangeMass{Factor: t.Mass.Factor}}
	case scene.KindGravity:
		return []OnHit{&ChangeFallSpeed{Factor: t.Gravity.Factor}}
	case scene.KindSpawner:
		return []OnHit{&ChangeSpawn{Limit: t.Spawner.Limit, Offset: t.Spawner.Offset}}
	}
	return nil
}
