package ecs_test

import (
	"iter"
	"slices"
	"testing"

	"github.com/plus3/aspectecs/ecs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recorder logs the hooks it receives and the entities it processed last.
type recorder struct {
	events    []string
	processed []ecs.Entity
	runs      int
	inactive  bool
}

func (r *recorder) Process(entities iter.Seq[ecs.Entity], frame *ecs.UpdateFrame) {
	r.runs++
	r.processed = slices.Collect(entities)
}

func (r *recorder) OnActivated(e ecs.Entity, w *ecs.World) {
	r.events = append(r.events, "activated")
}

func (r *recorder) OnDeactivated(e ecs.Entity, w *ecs.World) {
	r.events = append(r.events, "deactivated")
}

func (r *recorder) IsActive() bool {
	return !r.inactive
}

func (r *recorder) take() []string {
	events := r.events
	r.events = nil
	return events
}

// incremental also handles reactivation itself.
type incremental struct {
	recorder
}

func (r *incremental) OnReactivated(e ecs.Entity, w *ecs.World) {
	r.events = append(r.events, "reactivated")
}

// plain has no hooks at all.
type plain struct {
	seen int
}

func (p *plain) Process(entities iter.Seq[ecs.Entity], frame *ecs.UpdateFrame) {
	p.seen = 0
	for range entities {
		p.seen++
	}
}

func TestEntitySystemTransitions(t *testing.T) {
	setup := func(t *testing.T) (*ecs.World, testTypes, *recorder, *ecs.EntitySystem[*recorder]) {
		w, types := newTestWorld()
		rec := &recorder{}
		sys := ecs.NewEntitySystem(rec, ecs.ForAll(types.Position.ID(), types.Velocity.ID()))
		require.NoError(t, w.RegisterSystem(sys))
		return w, types, rec, sys
	}

	t.Run("build of a matching entity activates", func(t *testing.T) {
		w, _, rec, sys := setup(t)
		e := w.CreateEntity(Position{}, Velocity{})
		require.NoError(t, w.Update())

		assert.Equal(t, []string{"activated"}, rec.take())
		assert.True(t, sys.Contains(e))
		assert.Empty(t, rec.processed, "requests are applied after systems run")

		require.NoError(t, w.Update())
		assert.Equal(t, []ecs.Entity{e}, rec.processed)
	})

	t.Run("build of a non-matching entity is ignored", func(t *testing.T) {
		w, _, rec, sys := setup(t)
		e := w.CreateEntity(Position{})
		require.NoError(t, w.Update())

		assert.Empty(t, rec.take())
		assert.False(t, sys.Contains(e))
	})

	t.Run("modify into the aspect activates", func(t *testing.T) {
		w, _, rec, sys := setup(t)
		e := w.CreateEntity(Position{})
		require.NoError(t, w.Update())

		w.ModifyEntity(e, ecs.Set(Velocity{DX: 1}))
		require.NoError(t, w.Update())

		assert.Equal(t, []string{"activated"}, rec.take())
		assert.True(t, sys.Contains(e))
	})

	t.Run("modify out of the aspect deactivates exactly once", func(t *testing.T) {
		w, _, rec, sys := setup(t)
		e := w.CreateEntity(Position{}, Velocity{})
		require.NoError(t, w.Update())
		rec.take()

		w.ModifyEntity(e, ecs.Unset[Velocity]())
		require.NoError(t, w.Update())

		assert.Equal(t, []string{"deactivated"}, rec.take())
		assert.False(t, sys.Contains(e))
	})

	t.Run("default reactivation leaves and rejoins", func(t *testing.T) {
		w, _, rec, sys := setup(t)
		e := w.CreateEntity(Position{}, Velocity{})
		require.NoError(t, w.Update())
		rec.take()

		w.ModifyEntity(e, ecs.Set(Health{Current: 1}))
		require.NoError(t, w.Update())

		assert.Equal(t, []string{"deactivated", "activated"}, rec.take())
		assert.True(t, sys.Contains(e))
	})

	t.Run("remove deactivates members only", func(t *testing.T) {
		w, _, rec, sys := setup(t)
		member := w.CreateEntity(Position{}, Velocity{})
		outsider := w.CreateEntity(Position{})
		require.NoError(t, w.Update())
		rec.take()

		w.RemoveEntity(member)
		w.RemoveEntity(outsider)
		require.NoError(t, w.Update())

		assert.Equal(t, []string{"deactivated"}, rec.take())
		assert.Equal(t, 0, sys.Len())
	})

	t.Run("inactive systems are tracked but not processed", func(t *testing.T) {
		w, _, rec, sys := setup(t)
		rec.inactive = true
		e := w.CreateEntity(Position{}, Velocity{})
		require.NoError(t, w.Update())
		require.NoError(t, w.Update())

		assert.Equal(t, 0, rec.runs)
		assert.True(t, sys.Contains(e))
		assert.False(t, sys.IsActive())
	})
}

func TestEntitySystemReactivationHook(t *testing.T) {
	w, types := newTestWorld()
	inc := &incremental{}
	sys := ecs.NewEntitySystem(inc, ecs.ForAll(types.Position.ID()))
	require.NoError(t, w.RegisterSystem(sys))

	e := w.CreateEntity(Position{})
	require.NoError(t, w.Update())
	w.ModifyEntity(e, ecs.Set(Health{}))
	require.NoError(t, w.Update())
	w.ModifyEntity(e, ecs.Unset[Position]())
	require.NoError(t, w.Update())

	assert.Equal(t, []string{"activated", "reactivated", "deactivated"}, inc.take())
}

func TestEntitySystemWithoutHooks(t *testing.T) {
	w, types := newTestWorld()
	p := &plain{}
	sys := ecs.NewEntitySystem(p, ecs.ForAny(types.Name.ID(), types.Tag.ID()))
	require.NoError(t, w.RegisterSystem(sys))

	w.CreateEntity(Name{Value: "a"})
	w.CreateEntity(Tag("b"))
	w.CreateEntity(Position{})
	require.NoError(t, w.Update())
	require.NoError(t, w.Update())

	assert.Equal(t, 2, p.seen)
	assert.True(t, sys.IsActive())
	assert.Equal(t, "plain", ecs.NewEntitySystem(p, ecs.NilAspect()).SystemName())
}

func TestEntitySystemDuplicateActivation(t *testing.T) {
	w, types := newTestWorld()
	e, err := w.Spawn(Position{})
	require.NoError(t, err)

	sys := ecs.NewEntitySystem(&plain{}, ecs.ForAll(types.Position.ID()))
	require.NoError(t, sys.Activated(e, w))

	err = sys.Activated(e, w)
	var dup *ecs.DuplicateActivationError
	require.ErrorAs(t, err, &dup)
	assert.Equal(t, e, dup.Entity)
}

// TestInterestConsistency churns entities through every mutation path and
// checks after each update that every tracker holds exactly the valid
// entities its aspect matches.
func TestInterestConsistency(t *testing.T) {
	w, types := newTestWorld()

	aspects := []ecs.Aspect{
		ecs.ForAll(types.Position.ID(), types.Velocity.ID()),
		ecs.ForAny(types.Health.ID(), types.Name.ID()).WithNone(types.Frozen.ID()),
		ecs.ForNone(types.Position.ID()),
		ecs.NilAspect(),
	}
	systems := make([]*ecs.EntitySystem[*plain], len(aspects))
	for i, a := range aspects {
		systems[i] = ecs.NewEntitySystem(&plain{}, a)
		require.NoError(t, w.RegisterSystem(systems[i]))
	}

	// mutates through direct access while the update runs
	require.NoError(t, w.RegisterSystem(&shuffler{types: types}))

	values := []any{Position{}, Velocity{}, Health{}, Name{}, Frozen{}}
	var live []ecs.Entity
	seed := uint64(7)
	next := func(n int) int {
		seed = seed*6364136223846793005 + 1442695040888963407
		return int((seed >> 33) % uint64(n))
	}

	for cycle := range 200 {
		for range 5 {
			var components []any
			for _, v := range values {
				if next(2) == 0 {
					components = append(components, v)
				}
			}
			live = append(live, w.CreateEntity(components...))
		}
		for range 3 {
			if len(live) == 0 {
				break
			}
			e := live[next(len(live))]
			if next(2) == 0 {
				w.ModifyEntity(e, ecs.Set(values[next(len(values))]))
			} else {
				w.ModifyEntity(e, ecs.Unset[Velocity](), ecs.Unset[Frozen]())
			}
		}
		if len(live) > 0 && next(3) == 0 {
			i := next(len(live))
			w.RemoveEntity(live[i])
			live = slices.Delete(live, i, i+1)
		}

		require.NoError(t, w.Update())

		for i, sys := range systems {
			expected := slices.Collect(w.EntitiesMatching(aspects[i]))
			actual := slices.Collect(sys.Entities())
			require.ElementsMatch(t, expected, actual, "cycle %d aspect %d", cycle, i)
		}
	}
}

// shuffler toggles components directly during Execute.
type shuffler struct {
	types testTypes
	tick  int
}

func (s *shuffler) Execute(frame *ecs.UpdateFrame) {
	s.tick++
	c := frame.Components
	for e := range frame.World.Entities() {
		if (e.Index+s.tick)%4 != 0 {
			continue
		}
		if s.types.Frozen.Has(c, e) {
			s.types.Frozen.Remove(c, e)
		} else {
			s.types.Frozen.Insert(c, e, Frozen{})
		}
	}
}
