package main

import (
	"flag"
	"fmt"
	"log"
	"math/rand/v2"
	"os"
	"runtime"
	"time"

	"github.com/plus3/bounce/scene"
	"github.com/plus3/bounce/sim"
)

func main() {
	scenePath := flag.String("scene", "", "Scene file to run (default: the embedded demo scene).")
	ticks := flag.Int("ticks", 3600, "Number of fixed steps per mode.")
	dt := flag.Float64("dt", 1.0/60, "Step size in seconds.")
	extra := flag.Int("extra", 200, "Random balls added on top of the scene.")
	seed := flag.Uint64("seed", 1, "Seed for the random balls.")
	workers := flag.Int("workers", runtime.GOMAXPROCS(0), "Goroutines used by the parallel ECS systems.")
	gcPauseMetrics := flag.Bool("gc-pause-metrics", false, "Include GC pause totals in the report.")
	flag.Parse()

	log.Println("Starting bounce stress test...")

	s, name, err := loadScene(*scenePath)
	if err != nil {
		log.Fatalf("Failed to load scene: %v", err)
	}
	s.Balls = append(s.Balls, randomBalls(s, *extra, rand.New(rand.NewPCG(*seed, *seed)))...)
	if err := s.Validate(); err != nil {
		log.Fatalf("Generated scene is invalid: %v", err)
	}

	report := &Report{
		Scene:          name,
		Ticks:          *ticks,
		DeltaTime:      *dt,
		Balls:          len(s.Balls),
		Workers:        *workers,
		GCPauseMetrics: *gcPauseMetrics,
	}

	for _, mode := range sim.Modes {
		log.Printf("Running %s mode for %d ticks...\n", mode, *ticks)
		run, err := runMode(mode, s, *ticks, *dt, *workers)
		if err != nil {
			log.Fatalf("%s mode failed: %v", mode, err)
		}
		report.Runs = append(report.Runs, run)
	}

	fmt.Println("\n\n--- Stress Test Report ---")
	if err := report.Generate(os.Stdout); err != nil {
		log.Fatalf("Failed to generate report: %v", err)
	}
	fmt.Println("--- End of Report ---")

	log.Println("Stress test complete.")
}

func loadScene(path string) (scene.Scene, string, error) {
	if path == "" {
		return scene.Default(), "embedded default", nil
	}
	s, err := scene.Load(path)
	return s, path, err
}

// randomBalls scatters n balls of random kinds over the upper half of the world.
func randomBalls(s scene.Scene, n int, rng *rand.Rand) []scene.Ball {
	balls := make([]scene.Ball, 0, n)
	for range n {
		radius := 0.2 + rng.Float64()*0.3
		balls = append(balls, scene.Ball{
			Kind:       scene.Kinds[rng.IntN(len(scene.Kinds))],
			X:          radius + rng.Float64()*(s.World.Width-2*radius),
			Y:          s.World.Height/2 + rng.Float64()*(s.World.Height/2-radius),
			VX:         rng.Float64()*6 - 3,
			Radius:     radius,
			Mass:       0.5 + rng.Float64(),
			Elasticity: rng.Float64() * 0.8,
		})
	}
	return balls
}

func runMode(mode sim.Mode, s scene.Scene, ticks int, dt float64, workers int) (Run, error) {
	world, err := sim.New(mode, s, workers)
	if err != nil {
		return Run{}, err
	}

	run := Run{
		Mode:     mode,
		StepTime: Stats{Samples: make([]time.Duration, 0, ticks)},
	}
	runtime.GC()
	runtime.ReadMemStats(&run.MemStatsStart)

	start := time.Now()
	for range ticks {
		stepStart := time.Now()
		if err := world.Step(dt); err != nil {
			return Run{}, err
		}
		run.StepTime.Samples = append(run.StepTime.Samples, time.Since(stepStart))
	}
	run.TotalTime = time.Since(start)
	run.StepTime.Finalize()
	runtime.ReadMemStats(&run.MemStatsEnd)

	run.Counters = world.Counters()
	run.Gravity = world.Gravity()
	return run, nil
}
