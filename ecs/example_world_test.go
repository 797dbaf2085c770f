package ecs_test

import (
	"fmt"
	"iter"

	"github.com/plus3/aspectecs/ecs"
)

// lifetime counts down and removes entities whose time is up.
type lifetime struct {
	ttl ecs.ComponentType[Health]
}

func (l *lifetime) Process(entities iter.Seq[ecs.Entity], frame *ecs.UpdateFrame) {
	for e := range entities {
		h := l.ttl.MustGet(frame.Components, e)
		h.Current--
		if h.Current <= 0 {
			frame.Commands.Remove(e)
		}
	}
}

func (l *lifetime) OnActivated(e ecs.Entity, w *ecs.World) {
	fmt.Println("tracking", e)
}

func (l *lifetime) OnDeactivated(e ecs.Entity, w *ecs.World) {
	fmt.Println("expired", e)
}

// ExampleEntitySystem shows an entity system reacting to queued builds and
// removals across update cycles.
func ExampleEntitySystem() {
	registry := ecs.NewComponentRegistry()
	health := ecs.RegisterComponent[Health](registry, ecs.Dense)
	w := ecs.NewWorld(registry)

	sys := ecs.NewEntitySystem(&lifetime{ttl: health}, ecs.ForAll(health.ID()))
	if err := w.RegisterSystem(sys); err != nil {
		panic(err)
	}

	w.CreateEntity(Health{Current: 1})
	w.CreateEntity(Health{Current: 2})

	for cycle := 1; cycle <= 3; cycle++ {
		if err := w.Update(); err != nil {
			panic(err)
		}
		fmt.Printf("after update %d: %d alive\n", cycle, w.EntityCount())
	}

	// Output:
	// tracking Entity(0#1)
	// tracking Entity(1#2)
	// after update 1: 2 alive
	// expired Entity(0#1)
	// after update 2: 1 alive
	// expired Entity(1#2)
	// after update 3: 0 alive
}

// ExampleAspect demonstrates combining requirement sets.
func ExampleAspect() {
	registry := ecs.NewComponentRegistry()
	position := ecs.RegisterComponent[Position](registry, ecs.Dense)
	velocity := ecs.RegisterComponent[Velocity](registry, ecs.Dense)
	frozen := ecs.RegisterComponent[Frozen](registry, ecs.Sparse)
	w := ecs.NewWorld(registry)

	moving, _ := w.Spawn(Position{}, Velocity{})
	stuck, _ := w.Spawn(Position{}, Velocity{}, Frozen{})
	still, _ := w.Spawn(Position{})

	movable := ecs.ForAll(position.ID(), velocity.ID()).WithNone(frozen.ID())
	for _, e := range []ecs.Entity{moving, stuck, still} {
		fmt.Println(e, movable.Check(e, w.Components()))
	}

	// Output:
	// Entity(0#1) true
	// Entity(1#2) false
	// Entity(2#3) false
}

// ExampleCommands demonstrates data-only modify requests.
func ExampleCommands() {
	registry := ecs.NewComponentRegistry()
	ecs.RegisterComponent[Name](registry, ecs.Sparse)
	ecs.RegisterComponent[Score](registry, ecs.Dense)
	w := ecs.NewWorld(registry)

	e := w.CreateEntity(Name{Value: "player"}, Score(10))
	w.ModifyEntity(e, ecs.Set(Score(25)), ecs.Unset[Name]())
	if err := w.Update(); err != nil {
		panic(err)
	}

	score, _ := ecs.GetComponent[Score](w, e)
	hasName, _ := ecs.HasComponent[Name](w, e)
	fmt.Println(score, hasName)

	// Output:
	// 25 false
}

// ExampleWorld_UpdatePassive demonstrates a passive system that only runs
// when asked to.
func ExampleWorld_UpdatePassive() {
	registry := ecs.NewComponentRegistry()
	score := ecs.RegisterComponent[Score](registry, ecs.Dense)
	w := ecs.NewWorld(registry)

	board := &leaderboard{score: score}
	if err := w.RegisterPassive("leaderboard", ecs.NewEntitySystem(board, ecs.ForAll(score.ID()))); err != nil {
		panic(err)
	}

	for _, s := range []Score{3, 9, 4} {
		w.CreateEntity(s)
	}
	_ = w.Update()
	_ = w.UpdatePassive("leaderboard")
	fmt.Println("best score:", board.best)

	// Output:
	// best score: 9
}

type leaderboard struct {
	score ecs.ComponentType[Score]
	best  Score
}

func (l *leaderboard) Process(entities iter.Seq[ecs.Entity], frame *ecs.UpdateFrame) {
	for e := range entities {
		if s, _ := l.score.Get(frame.Components, e); s > l.best {
			l.best = s
		}
	}
}
