// Package render draws a snapshot of balls inside the world box with ebiten's
// vector package.
package render

import (
	"image/color"
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"github.com/plus3/bounce/scene"
)

var (
	Background = color.RGBA{24, 26, 32, 255}
	WallColor  = color.RGBA{120, 124, 136, 255}
	spokeColor = color.RGBA{0, 0, 0, 120}
)

// Scene clears screen and draws the world box and every sprite.
func Scene(screen *ebiten.Image, cam Camera, width, height float64, sprites []scene.Sprite) {
	screen.Fill(Background)

	x0, y0 := cam.ToScreen(0, height)
	vector.StrokeRect(screen, x0, y0, cam.Length(width), cam.Length(height), 2, WallColor, true)

	for _, s := range sprites {
		Ball(screen, cam, s)
	}
}

// Ball draws one sprite with a spoke so rotation is visible.
func Ball(screen *ebiten.Image, cam Camera, s scene.Sprite) {
	cx, cy := cam.ToScreen(s.X, s.Y)
	r := cam.Length(s.Radius)
	vector.DrawFilledCircle(screen, cx, cy, r, s.Color, true)

	ex, ey := cam.ToScreen(s.X+s.Radius*math.Cos(s.Angle), s.Y+s.Radius*math.Sin(s.Angle))
	vector.StrokeLine(screen, cx, cy, ex, ey, 1.5, spokeColor, true)
}
