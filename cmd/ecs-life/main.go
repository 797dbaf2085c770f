package main

import (
	"flag"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"os"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/plus3/aspectecs/ecs"
)

func main() {
	fps := flag.Int("fps", 30, "Frames per second.")
	size := flag.Int("burst", 40, "Particles per burst.")
	flag.Parse()

	if err := run(*fps, *size); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(fps, burstSize int) error {
	screen, err := tcell.NewScreen()
	if err != nil {
		return err
	}
	if err := screen.Init(); err != nil {
		return err
	}
	defer screen.Fini()

	registry := ecs.NewComponentRegistry()
	c := registerComponents(registry)
	world := ecs.NewWorld(registry, ecs.WithLogger(slog.New(slog.DiscardHandler)))

	width, height := screen.Size()
	bounds := ecs.NewSingleton(world, Bounds{Width: width, Height: height})
	fader := &fade{c: c}

	if err := world.RegisterSystem(ecs.NewEntitySystem(&physics{c: c}, ecs.ForAll(c.Position.ID(), c.Velocity.ID()))); err != nil {
		return err
	}
	if err := world.RegisterSystem(ecs.NewEntitySystem(fader, ecs.ForAll(c.Lifetime.ID()))); err != nil {
		return err
	}
	if err := world.RegisterPassive("render", &renderer{screen: screen}); err != nil {
		return err
	}

	rng := rand.New(rand.NewPCG(uint64(time.Now().UnixNano()), 0))
	events := make(chan tcell.Event, 16)
	go func() {
		for {
			ev := screen.PollEvent()
			if ev == nil {
				close(events)
				return
			}
			events <- ev
		}
	}()

	ticker := time.NewTicker(time.Second / time.Duration(max(fps, 1)))
	defer ticker.Stop()
	last := time.Now()

	for {
		select {
		case ev, ok := <-events:
			if !ok {
				return nil
			}
			switch ev := ev.(type) {
			case *tcell.EventResize:
				w, h := screen.Size()
				bounds.Set(Bounds{Width: w, Height: h})
				screen.Sync()
			case *tcell.EventKey:
				switch {
				case ev.Key() == tcell.KeyEscape, ev.Rune() == 'q':
					return nil
				case ev.Rune() == 'c':
					if err := world.Clear(); err != nil {
						return err
					}
				default:
					b := bounds.Get()
					burst(world.Commands(), rng, float64(rng.IntN(max(b.Width, 1))), float64(rng.IntN(max(b.Height, 1))), burstSize)
				}
			}
		case now := <-ticker.C:
			dt := now.Sub(last).Seconds()
			last = now
			if err := world.Step(dt); err != nil {
				return err
			}
			if err := world.UpdatePassive("render"); err != nil {
				return err
			}
			status := fmt.Sprintf(" particles: %d  cycles: %d  any key: burst  c: clear  q: quit ", fader.alive, world.Cycles())
			for i, r := range status {
				screen.SetContent(i, 0, r, nil, tcell.StyleDefault.Reverse(true))
			}
			screen.Show()
		}
	}
}
