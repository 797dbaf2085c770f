package ecs

import (
	"iter"

	"github.com/kamstrup/intmap"
)

// transition is the outcome of delivering one lifecycle notification to an
// interest set.
type transition int

const (
	unchanged transition = iota
	joined
	stayed
	left
)

// interest caches the entities that currently satisfy an aspect. Members
// are kept in a dense slice for iteration; positions are indexed by entity
// slot so membership tests and removal are O(1).
type interest struct {
	aspect    Aspect
	members   []Entity
	positions *intmap.Map[int, int]
}

func newInterest(aspect Aspect) *interest {
	return &interest{
		aspect:    aspect,
		positions: intmap.New[int, int](64),
	}
}

func (s *interest) contains(e Entity) bool {
	pos, ok := s.positions.Get(e.Index)
	return ok && s.members[pos] == e
}

func (s *interest) insert(e Entity) error {
	if pos, ok := s.positions.Get(e.Index); ok {
		return &DuplicateActivationError{Entity: e, Held: s.members[pos]}
	}
	s.positions.Put(e.Index, len(s.members))
	s.members = append(s.members, e)
	return nil
}

func (s *interest) erase(e Entity) bool {
	pos, ok := s.positions.Get(e.Index)
	if !ok || s.members[pos] != e {
		return false
	}
	last := len(s.members) - 1
	if pos != last {
		moved := s.members[last]
		s.members[pos] = moved
		s.positions.Put(moved.Index, pos)
	}
	s.members = s.members[:last]
	s.positions.Del(e.Index)
	return true
}

// activated handles a freshly built entity.
func (s *interest) activated(e Entity, c *Components) (transition, error) {
	if !s.aspect.Check(e, c) {
		return unchanged, nil
	}
	if err := s.insert(e); err != nil {
		return unchanged, err
	}
	return joined, nil
}

// reactivated handles an entity whose shape may have changed.
func (s *interest) reactivated(e Entity, c *Components) (transition, error) {
	matches := s.aspect.Check(e, c)
	if s.contains(e) {
		if matches {
			return stayed, nil
		}
		s.erase(e)
		return left, nil
	}
	if !matches {
		return unchanged, nil
	}
	if err := s.insert(e); err != nil {
		return unchanged, err
	}
	return joined, nil
}

// deactivated handles an entity that is being removed.
func (s *interest) deactivated(e Entity) transition {
	if s.erase(e) {
		return left
	}
	return unchanged
}

func (s *interest) len() int {
	return len(s.members)
}

// entities yields the members. Membership only changes while the world
// delivers notifications, never during a system's Execute.
func (s *interest) entities() iter.Seq[Entity] {
	return func(yield func(Entity) bool) {
		for _, e := range s.members {
			if !yield(e) {
				return
			}
		}
	}
}

func (s *interest) reset() {
	s.members = s.members[:0]
	s.positions.Clear()
}
