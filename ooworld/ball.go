package ooworld

import (
	"image/color"

	"github.com/google/uuid"

	"github.com/plus3/bounce/physics"
)

// Ball is one simulated ball with the behaviours it runs on a new collision.
type Ball struct {
	ID         uuid.UUID
	handle     physics.Handle
	body       *physics.Body
	colour     color.RGBA
	behaviours []OnHit
}

func (b *Ball) Handle() physics.Handle {
	return b.handle
}

func (b *Ball) Body() *physics.Body {
	return b.body
}

func (b *Ball) Colour() color.RGBA {
	return b.colour
}

func (b *Ball) Behaviours() []OnHit {
	return b.behaviours
}

// Update asks the world's tracker once whether the ball has a new collision
// and, if so, runs every behaviour. It reports whether the ball reacted.
func (b *Ball) Update(w *World) (bool, error) {
	if len(b.behaviours) == 0 {
		return false, nil
	}
	hit, err := w.tracker.Advance(b.handle)
	if err != nil || !hit {
		return false, err
	}
	ctx := &HitContext{World: w, Ball: b}
	for _, behaviour := range b.behaviours {
		behaviour.ReactToCollision(ctx)
	}
	return true, nil
}
