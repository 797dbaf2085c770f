package ecs

import "iter"

// EntitySystem tracks the entities matching an Aspect and hands them to its
// inner process every update. The inner value may implement ActivationHook,
// ReactivationHook, DeactivationHook and ActivityReporter; the hooks only
// fire for entities that cross the aspect's boundary or stay inside it.
//
// Membership is maintained from lifecycle notifications alone, so it is
// only as accurate as the notifications the World delivers.
type EntitySystem[P EntityProcess] struct {
	Inner P

	interest *interest
	hooks    hooks
}

var (
	_ System           = (*EntitySystem[EntityProcess])(nil)
	_ Observer         = (*EntitySystem[EntityProcess])(nil)
	_ ActivityReporter = (*EntitySystem[EntityProcess])(nil)
)

// NewEntitySystem wraps inner with an interest set for aspect.
func NewEntitySystem[P EntityProcess](inner P, aspect Aspect) *EntitySystem[P] {
	s := &EntitySystem[P]{
		Inner:    inner,
		interest: newInterest(aspect),
	}
	s.hooks = resolveHooks(hookTarget(&s.Inner))
	return s
}

// Execute runs the inner process over the current members.
func (s *EntitySystem[P]) Execute(frame *UpdateFrame) {
	s.Inner.Process(s.interest.entities(), frame)
}

func (s *EntitySystem[P]) Activated(e Entity, w *World) error {
	t, err := s.interest.activated(e, w.components)
	if err != nil {
		return err
	}
	s.hooks.dispatch(t, e, w)
	return nil
}

func (s *EntitySystem[P]) Reactivated(e Entity, w *World) error {
	t, err := s.interest.reactivated(e, w.components)
	if err != nil {
		return err
	}
	s.hooks.dispatch(t, e, w)
	return nil
}

func (s *EntitySystem[P]) Deactivated(e Entity, w *World) error {
	s.hooks.dispatch(s.interest.deactivated(e), e, w)
	return nil
}

// IsActive forwards to the inner value, defaulting to true.
func (s *EntitySystem[P]) IsActive() bool {
	return s.hooks.active()
}

func (s *EntitySystem[P]) Aspect() Aspect {
	return s.interest.aspect
}

// Contains reports whether e is currently a member.
func (s *EntitySystem[P]) Contains(e Entity) bool {
	return s.interest.contains(e)
}

func (s *EntitySystem[P]) Len() int {
	return s.interest.len()
}

// Entities yields the current members in no particular order.
func (s *EntitySystem[P]) Entities() iter.Seq[Entity] {
	return s.interest.entities()
}
