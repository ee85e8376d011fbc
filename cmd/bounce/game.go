package main

import (
	"log"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"github.com/plus3/bounce/render"
	"github.com/plus3/bounce/scene"
	"github.com/plus3/bounce/sim"
)

// Game implements ebiten.Game around a simulation.
type Game struct {
	world   sim.Simulation
	watcher *scene.Watcher
	overlay *overlay
	dt      float64
	paused  bool
	sprites []scene.Sprite
}

func (g *Game) Update() error {
	if inpututil.IsKeyJustPressed(ebiten.KeyQ) || inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		return ebiten.Termination
	}
	if g.overlay == nil || !g.overlay.wantsKeyboard() {
		if inpututil.IsKeyJustPressed(ebiten.KeySpace) {
			g.paused = !g.paused
		}
		if inpututil.IsKeyJustPressed(ebiten.KeyR) {
			g.world.Reset(g.world.Scene())
		}
	}
	g.pollWatcher()

	if g.overlay != nil {
		g.overlay.begin()
		defer g.overlay.end()
	}

	if !g.paused {
		if err := g.world.Step(g.dt); err != nil {
			log.Printf("bounce: %v", err)
		}
	}
	if g.overlay != nil {
		g.overlay.update(g.dt, g.paused)
	}
	return nil
}

func (g *Game) pollWatcher() {
	if g.watcher == nil {
		return
	}
	select {
	case s, ok := <-g.watcher.Scenes:
		if ok {
			log.Printf("bounce: reloaded %s (%d balls)", g.watcher.Path(), len(s.Balls))
			g.world.Reset(s)
		}
	case err, ok := <-g.watcher.Errors:
		if ok {
			log.Printf("bounce: scene reload failed: %v", err)
		}
	default:
	}
}

func (g *Game) Draw(screen *ebiten.Image) {
	s := g.world.Scene()
	bounds := screen.Bounds()
	cam := render.Fit(s.World.Width, s.World.Height, bounds.Dx(), bounds.Dy())

	g.sprites = g.world.Snapshot(g.sprites[:0])
	render.Scene(screen, cam, s.World.Width, s.World.Height, g.sprites)

	if g.overlay != nil {
		g.overlay.draw(screen)
	}
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	if g.overlay != nil {
		g.overlay.layout(outsideWidth, outsideHeight)
	}
	return outsideWidth, outsideHeight
}
