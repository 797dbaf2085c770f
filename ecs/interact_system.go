package ecs

import "iter"

// InteractSystem tracks two aspects at once and processes both member sets
// together, e.g. projectiles against targets. An entity matching both
// aspects is a member of both sets and triggers the inner hooks once per
// set.
type InteractSystem[P InteractProcess] struct {
	Inner P

	a, b  *interest
	hooks hooks
}

var (
	_ System   = (*InteractSystem[InteractProcess])(nil)
	_ Observer = (*InteractSystem[InteractProcess])(nil)
)

func NewInteractSystem[P InteractProcess](inner P, a, b Aspect) *InteractSystem[P] {
	s := &InteractSystem[P]{
		Inner: inner,
		a:     newInterest(a),
		b:     newInterest(b),
	}
	s.hooks = resolveHooks(hookTarget(&s.Inner))
	return s
}

func (s *InteractSystem[P]) Execute(frame *UpdateFrame) {
	s.Inner.Process(s.a.entities(), s.b.entities(), frame)
}

func (s *InteractSystem[P]) Activated(e Entity, w *World) error {
	for _, set := range [...]*interest{s.a, s.b} {
		t, err := set.activated(e, w.components)
		if err != nil {
			return err
		}
		s.hooks.dispatch(t, e, w)
	}
	return nil
}

func (s *InteractSystem[P]) Reactivated(e Entity, w *World) error {
	for _, set := range [...]*interest{s.a, s.b} {
		t, err := set.reactivated(e, w.components)
		if err != nil {
			return err
		}
		s.hooks.dispatch(t, e, w)
	}
	return nil
}

func (s *InteractSystem[P]) Deactivated(e Entity, w *World) error {
	s.hooks.dispatch(s.a.deactivated(e), e, w)
	s.hooks.dispatch(s.b.deactivated(e), e, w)
	return nil
}

func (s *InteractSystem[P]) IsActive() bool {
	return s.hooks.active()
}

// A yields the members of the first aspect.
func (s *InteractSystem[P]) A() iter.Seq[Entity] {
	return s.a.entities()
}

// B yields the members of the second aspect.
func (s *InteractSystem[P]) B() iter.Seq[Entity] {
	return s.b.entities()
}

// Len returns the size of both member sets.
func (s *InteractSystem[P]) Len() (int, int) {
	return s.a.len(), s.b.len()
}
