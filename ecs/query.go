package ecs

import "iter"

// Query is a View whose matching entities are tracked by the World instead
// of being searched for. A Query field in a registered system is
// initialized automatically; NewQuery creates one on its own.
type Query[T any] struct {
	view     *View[T]
	world    *World
	interest *interest
}

var _ Observer = (*Query[struct{}])(nil)

// NewQuery creates a Query attached to w. It panics while w is updating.
func NewQuery[T any](w *World) *Query[T] {
	q := &Query[T]{}
	q.Init(w)
	return q
}

// Init attaches the Query to w and seeds it with the matching entities.
// Called by the World during system registration; calling it again with
// the same world does nothing.
func (q *Query[T]) Init(w *World) {
	if q.world == w {
		return
	}
	if w.locked {
		panic(&LockedWorldError{})
	}
	q.view = NewView[T](w.registry)
	q.world = w
	q.interest = newInterest(q.view.Aspect())
	if err := w.attach(q); err != nil {
		panic(err)
	}
}

func (q *Query[T]) Activated(e Entity, w *World) error {
	_, err := q.interest.activated(e, w.components)
	return err
}

func (q *Query[T]) Reactivated(e Entity, w *World) error {
	_, err := q.interest.reactivated(e, w.components)
	return err
}

func (q *Query[T]) Deactivated(e Entity, w *World) error {
	q.interest.deactivated(e)
	return nil
}

func (q *Query[T]) Aspect() Aspect {
	return q.interest.aspect
}

// Len returns the number of matching entities.
func (q *Query[T]) Len() int {
	return q.interest.len()
}

func (q *Query[T]) Contains(e Entity) bool {
	return q.interest.contains(e)
}

// Entities yields the matching entities.
func (q *Query[T]) Entities() iter.Seq[Entity] {
	return q.interest.entities()
}

// Get fills the view for any valid entity, or returns nil if it lacks a
// required component.
func (q *Query[T]) Get(e Entity) *T {
	return q.view.Get(q.world.components, e)
}

// Iter returns an iterator over the matching entities and their view structs.
func (q *Query[T]) Iter() iter.Seq2[Entity, T] {
	return func(yield func(Entity, T) bool) {
		var result T
		for e := range q.interest.entities() {
			if !q.view.Fill(q.world.components, e, &result) {
				continue
			}
			if !yield(e, result) {
				return
			}
		}
	}
}

// Values returns an iterator over the view structs only.
func (q *Query[T]) Values() iter.Seq[T] {
	return func(yield func(T) bool) {
		for _, value := range q.Iter() {
			if !yield(value) {
				return
			}
		}
	}
}
