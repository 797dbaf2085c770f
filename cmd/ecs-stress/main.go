package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"math/rand/v2"
	"os"
	"runtime"
	"time"

	"github.com/pkg/profile"
	"github.com/plus3/aspectecs/ecs"
)

func main() {
	duration := flag.Duration("duration", 10*time.Second, "The total duration the test should run for.")
	entityCount := flag.Int("entities", 10000, "The initial number of entities to create.")
	spawns := flag.Int("spawns", 100, "Entities queued for creation every update.")
	edits := flag.Int("edits", 100, "Entities reshaped every update.")
	seed := flag.Uint64("seed", 1, "Seed for the random entity mix.")
	profileMode := flag.String("profile", "", "Write a profile to the working directory: cpu or mem.")
	verbose := flag.Bool("v", false, "Log world diagnostics to stderr.")
	gcPauseMetrics := flag.Bool("gc-pause-metrics", false, "Enable detailed GC pause metrics in the report.")
	flag.Parse()

	switch *profileMode {
	case "":
	case "cpu":
		defer profile.Start(profile.CPUProfile, profile.ProfilePath("."), profile.NoShutdownHook).Stop()
	case "mem":
		defer profile.Start(profile.MemProfileAllocs, profile.ProfilePath("."), profile.NoShutdownHook).Stop()
	default:
		log.Fatalf("Unknown profile mode %q", *profileMode)
	}

	level := slog.LevelWarn
	if *verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	log.Println("Starting ECS stress test...")

	// 1. Setup Registry, World and Systems
	registry := ecs.NewComponentRegistry()
	c := registerComponents(registry)
	world := ecs.NewWorld(registry,
		ecs.WithLogger(logger),
		ecs.WithErrorPolicy(ecs.LogAndContinue),
		ecs.WithCapacity(*entityCount),
	)

	rng := rand.New(rand.NewPCG(*seed, *seed^0x9e3779b97f4a7c15))
	churner := &churn{c: c, rng: rng, spawns: *spawns, edits: *edits}
	decayer := &decay{c: c}
	fighters := &skirmish{sample: 32}
	sleepers := &census{}

	must(world.RegisterSystem(churner))
	must(world.RegisterSystem(ecs.NewEntitySystem(&movement{c: c}, ecs.ForAll(c.Position.ID(), c.Velocity.ID()).WithNone(c.Sleeping.ID()))))
	must(world.RegisterSystem(ecs.NewEntitySystem(decayer, ecs.ForAll(c.Lifetime.ID()))))
	must(world.RegisterSystem(ecs.NewIntervalSystem(ecs.NewInteractSystem(fighters,
		ecs.ForAll(c.Position.ID(), c.Health.ID()),
		ecs.ForAll(c.Position.ID(), c.Velocity.ID()).WithNone(c.Health.ID()),
	), 10)))
	must(world.RegisterPassive("census", ecs.NewEntitySystem(sleepers, ecs.ForAll(c.Sleeping.ID()))))

	// 2. Populate the world with initial entities
	log.Printf("Populating world with %d entities...\n", *entityCount)
	for i := 0; i < *entityCount; i++ {
		// Spawn an entity with 1 to 5 random components
		if _, err := world.Spawn(randomComponents(rng, 1+rng.IntN(5))...); err != nil {
			log.Fatalf("Failed to spawn entity: %v", err)
		}
	}
	log.Println("Population complete.")

	// 3. Run the simulation loop
	report := &Report{
		Duration:       *duration,
		Entities:       *entityCount,
		Components:     registry.Len(),
		Spawns:         *spawns,
		Edits:          *edits,
		GCPauseMetrics: *gcPauseMetrics,
		UpdateTime: Stats{
			Samples: make([]time.Duration, 0),
		},
	}

	runtime.ReadMemStats(&report.MemStatsStart)

	log.Printf("Running simulation for %s...\n", *duration)
	ctx, cancel := context.WithTimeout(context.Background(), *duration)
	defer cancel()

	startTime := time.Now()
	var totalUpdates int64
	lastFrameTime := time.Now()

Loop:
	for {
		select {
		case <-ctx.Done():
			break Loop
		default:
			deltaTime := time.Since(lastFrameTime)
			lastFrameTime = time.Now()

			updateStart := time.Now()
			if err := world.Step(deltaTime.Seconds()); err != nil {
				log.Fatalf("Update failed: %v", err)
			}
			updateDuration := time.Since(updateStart)

			report.UpdateTime.Samples = append(report.UpdateTime.Samples, updateDuration)
			totalUpdates++

			if totalUpdates%100 == 0 {
				must(world.UpdatePassive("census"))
			}
		}
	}

	report.TotalTime = time.Since(startTime)
	report.TotalUpdates = totalUpdates
	report.UpdateTime.Finalize()
	runtime.ReadMemStats(&report.MemStatsEnd)

	report.FinalEntities = world.EntityCount()
	report.Built = churner.built
	report.Modified = churner.modified
	report.Expired = decayer.expired
	report.Pairs = fighters.pairs
	report.Sleeping = sleepers.sleeping
	report.Scheduler = world.Stats()

	log.Println("Simulation finished.")

	// 4. Generate Report to Console
	fmt.Println("\n\n--- Stress Test Report ---")
	if err := report.Generate(os.Stdout); err != nil {
		log.Fatalf("Failed to generate report: %v", err)
	}
	fmt.Println("--- End of Report ---")

	log.Println("Stress test complete.")
}

func must(err error) {
	if err != nil {
		log.Fatalf("World setup failed: %v", err)
	}
}
