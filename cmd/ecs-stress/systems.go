package main

import (
	"iter"
	"math/rand/v2"

	"github.com/plus3/aspectecs/ecs"
)

// movement integrates velocities.
type movement struct {
	c components
}

func (m *movement) Process(entities iter.Seq[ecs.Entity], frame *ecs.UpdateFrame) {
	for e := range entities {
		p := m.c.Position.MustGet(frame.Components, e)
		v := m.c.Velocity.MustGet(frame.Components, e)
		p.X += v.DX * frame.DeltaTime
		p.Y += v.DY * frame.DeltaTime
	}
}

// decay removes entities once their lifetime runs out.
type decay struct {
	c       components
	expired int64
}

func (d *decay) Process(entities iter.Seq[ecs.Entity], frame *ecs.UpdateFrame) {
	for e := range entities {
		l := d.c.Lifetime.MustGet(frame.Components, e)
		l.Remaining--
		if l.Remaining <= 0 {
			frame.Commands.Remove(e)
		}
	}
}

func (d *decay) OnDeactivated(e ecs.Entity, w *ecs.World) {
	d.expired++
}

// churn spawns new entities and reshapes random existing ones every update.
type churn struct {
	c      components
	rng    *rand.Rand
	spawns int
	edits  int

	built    int64
	modified int64
}

func (s *churn) Execute(frame *ecs.UpdateFrame) {
	for range s.spawns {
		frame.Commands.Build(randomComponents(s.rng, 1+s.rng.IntN(5))...)
		s.built++
	}

	n := frame.World.EntityCount()
	if n == 0 {
		return
	}
	edited := 0
	for e := range frame.World.Entities() {
		if edited == s.edits {
			break
		}
		if s.rng.IntN(n) >= s.edits {
			continue
		}
		switch s.rng.IntN(3) {
		case 0:
			frame.Commands.Modify(e, ecs.Set(Sleeping{}))
		case 1:
			frame.Commands.Modify(e, ecs.Unset[Sleeping](), ecs.Set(Velocity{DX: s.rng.Float64(), DY: s.rng.Float64()}))
		default:
			// direct edits are picked up at the end of the update
			if s.c.Team.Has(frame.Components, e) {
				s.c.Team.Remove(frame.Components, e)
			} else {
				s.c.Team.Insert(frame.Components, e, Team(s.rng.IntN(4)))
			}
		}
		edited++
		s.modified++
	}
}

// skirmish pairs armed entities with movers. Only a bounded sample is
// compared each run.
type skirmish struct {
	sample int
	pairs  int64
}

func (s *skirmish) Process(fighters, movers iter.Seq[ecs.Entity], frame *ecs.UpdateFrame) {
	i := 0
	for range fighters {
		if i == s.sample {
			return
		}
		j := 0
		for range movers {
			if j == s.sample {
				break
			}
			s.pairs++
			j++
		}
		i++
	}
}

// census counts sleeping entities on demand.
type census struct {
	sleeping int
}

func (c *census) Process(entities iter.Seq[ecs.Entity], frame *ecs.UpdateFrame) {
	c.sleeping = 0
	for range entities {
		c.sleeping++
	}
}

func randomComponents(rng *rand.Rand, n int) []any {
	all := []any{
		Position{X: rng.Float64() * 100, Y: rng.Float64() * 100},
		Velocity{DX: rng.Float64(), DY: rng.Float64()},
		Health{Current: rng.IntN(100)},
		Lifetime{Remaining: 1 + rng.IntN(120)},
		Team(rng.IntN(4)),
		Sleeping{},
	}
	rng.Shuffle(len(all), func(i, j int) { all[i], all[j] = all[j], all[i] })
	return all[:min(n, len(all))]
}
