package ecs

import (
	"iter"

	"github.com/kamstrup/intmap"
)

// DataProcess is the behavior unit wrapped by a DataSystem. Init builds the
// data kept for an entity when it starts matching.
type DataProcess[D any] interface {
	Init(e Entity, w *World) D
	Process(entries iter.Seq2[Entity, *D], frame *UpdateFrame)
}

// DataSystem is an EntitySystem that keeps a D alongside every member,
// e.g. a path being followed or a cached lookup. The data is created when
// an entity joins and dropped when it leaves; entities that stay keep
// theirs across shape changes.
type DataSystem[D any, P DataProcess[D]] struct {
	Inner P

	interest *interest
	data     *intmap.Map[int, *D]
	hooks    hooks
}

func NewDataSystem[D any, P DataProcess[D]](inner P, aspect Aspect) *DataSystem[D, P] {
	s := &DataSystem[D, P]{
		Inner:    inner,
		interest: newInterest(aspect),
		data:     intmap.New[int, *D](64),
	}
	s.hooks = resolveHooks(hookTarget(&s.Inner))
	return s
}

// Execute runs the inner process over the members and their data.
func (s *DataSystem[D, P]) Execute(frame *UpdateFrame) {
	s.Inner.Process(s.entries(), frame)
}

func (s *DataSystem[D, P]) entries() iter.Seq2[Entity, *D] {
	return func(yield func(Entity, *D) bool) {
		for e := range s.interest.entities() {
			d, _ := s.data.Get(e.Index)
			if !yield(e, d) {
				return
			}
		}
	}
}

func (s *DataSystem[D, P]) Activated(e Entity, w *World) error {
	t, err := s.interest.activated(e, w.components)
	if err != nil {
		return err
	}
	s.track(t, e, w)
	return nil
}

func (s *DataSystem[D, P]) Reactivated(e Entity, w *World) error {
	t, err := s.interest.reactivated(e, w.components)
	if err != nil {
		return err
	}
	s.track(t, e, w)
	return nil
}

func (s *DataSystem[D, P]) Deactivated(e Entity, w *World) error {
	s.track(s.interest.deactivated(e), e, w)
	return nil
}

// track keeps the data in step with membership, then runs the hooks.
func (s *DataSystem[D, P]) track(t transition, e Entity, w *World) {
	switch t {
	case joined:
		d := s.Inner.Init(e, w)
		s.data.Put(e.Index, &d)
	case left:
		s.data.Del(e.Index)
	}
	s.hooks.dispatch(t, e, w)
}

func (s *DataSystem[D, P]) IsActive() bool {
	return s.hooks.active()
}

func (s *DataSystem[D, P]) Aspect() Aspect {
	return s.interest.aspect
}

func (s *DataSystem[D, P]) Contains(e Entity) bool {
	return s.interest.contains(e)
}

func (s *DataSystem[D, P]) Len() int {
	return s.interest.len()
}

// Data returns the data kept for e, or nil if e is not a member.
func (s *DataSystem[D, P]) Data(e Entity) *D {
	if !s.interest.contains(e) {
		return nil
	}
	d, _ := s.data.Get(e.Index)
	return d
}

func (s *DataSystem[D, P]) SystemName() string {
	return systemName(s.Inner)
}
