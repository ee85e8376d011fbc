package main

import (
	"flag"
	"log"
	"runtime"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/plus3/bounce/scene"
	"github.com/plus3/bounce/sim"
)

const (
	ScreenWidth  = 1280
	ScreenHeight = 720
)

func main() {
	modeName := flag.String("mode", "ecs", "World implementation: ecs or oo.")
	scenePath := flag.String("scene", "", "Scene file (default: the embedded demo scene).")
	watch := flag.Bool("watch", false, "Reload the scene file when it changes.")
	debug := flag.Bool("debug", false, "Show the Dear ImGui debug overlay.")
	tps := flag.Int("tps", 60, "Simulation ticks per second.")
	workers := flag.Int("workers", runtime.GOMAXPROCS(0), "Goroutines used by the parallel ECS systems.")
	flag.Parse()

	mode, err := sim.ParseMode(*modeName)
	if err != nil {
		log.Fatalf("bounce: %v", err)
	}
	if *watch && *scenePath == "" {
		log.Fatalf("bounce: -watch needs -scene")
	}

	s := scene.Default()
	if *scenePath != "" {
		if s, err = scene.Load(*scenePath); err != nil {
			log.Fatalf("bounce: %v", err)
		}
	}

	world, err := sim.New(mode, s, *workers)
	if err != nil {
		log.Fatalf("bounce: %v", err)
	}

	game := &Game{
		world: world,
		dt:    1.0 / float64(*tps),
	}

	if *watch {
		w, err := scene.Watch(*scenePath)
		if err != nil {
			log.Fatalf("bounce: %v", err)
		}
		defer w.Close()
		game.watcher = w
		log.Printf("bounce: watching %s", w.Path())
	}

	ebiten.SetTPS(*tps)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	title := "Bounce - " + string(mode)
	if *debug {
		game.overlay = newOverlay(title, world)
	} else {
		ebiten.SetWindowSize(ScreenWidth, ScreenHeight)
		ebiten.SetWindowTitle(title)
	}

	log.Printf("bounce: running %s mode with %d balls", mode, len(s.Balls))
	if err := ebiten.RunGame(game); err != nil {
		log.Fatalf("bounce: %v", err)
	}
}
