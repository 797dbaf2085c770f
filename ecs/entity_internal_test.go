package ecs

import (
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIndexAllocator(t *testing.T) {
	var a indexAllocator

	assert.Equal(t, 0, a.allocate())
	assert.Equal(t, 1, a.allocate())
	assert.Equal(t, 2, a.allocate())
	assert.Equal(t, 3, a.count())

	a.release(0)
	a.release(2)
	assert.Equal(t, 1, a.count())

	// most recently released first
	assert.Equal(t, 2, a.allocate())
	assert.Equal(t, 0, a.allocate())
	assert.Equal(t, 3, a.allocate())
	assert.Equal(t, 4, a.count())
}

func TestEntityManager(t *testing.T) {
	t.Run("ids are unique across reuse", func(t *testing.T) {
		m := newEntityManager(4)
		first := m.create()
		m.remove(first)
		second := m.create()

		assert.Equal(t, first.Index, second.Index)
		assert.NotEqual(t, first.ID, second.ID)
		assert.False(t, m.isValid(first))
		assert.True(t, m.isValid(second))
	})

	t.Run("remove ignores stale handles", func(t *testing.T) {
		m := newEntityManager(4)
		first := m.create()
		m.remove(first)
		second := m.create()

		m.remove(first)
		assert.True(t, m.isValid(second))
		assert.Equal(t, 1, m.count())
	})

	t.Run("nil and out of range entities are invalid", func(t *testing.T) {
		m := newEntityManager(4)
		m.create()

		assert.False(t, m.isValid(NilEntity))
		assert.False(t, m.isValid(Entity{Index: 99, ID: 1}))
		assert.False(t, m.isValid(Entity{Index: -1, ID: 1}))
	})

	t.Run("all skips entities removed mid iteration", func(t *testing.T) {
		m := newEntityManager(4)
		a, b, c := m.create(), m.create(), m.create()

		var seen []Entity
		for e := range m.all() {
			seen = append(seen, e)
			if e == a {
				m.remove(b)
			}
		}
		assert.Equal(t, []Entity{a, c}, seen)
	})

	t.Run("clear invalidates everything", func(t *testing.T) {
		m := newEntityManager(4)
		a := m.create()
		m.setActivated(a)
		m.clear()

		assert.False(t, m.isValid(a))
		assert.Equal(t, 0, m.count())
		assert.Empty(t, slices.Collect(m.all()))

		b := m.create()
		assert.Equal(t, a.Index, b.Index)
		assert.NotEqual(t, a.ID, b.ID)
		assert.False(t, m.isActivated(b))
	})
}

func TestInterestSwapRemove(t *testing.T) {
	s := newInterest(NilAspect())
	a := Entity{Index: 0, ID: 1}
	b := Entity{Index: 1, ID: 2}
	c := Entity{Index: 2, ID: 3}

	for _, e := range []Entity{a, b, c} {
		assert.NoError(t, s.insert(e))
	}
	assert.True(t, s.erase(a))
	assert.False(t, s.erase(a))

	assert.ElementsMatch(t, []Entity{b, c}, slices.Collect(s.entities()))
	assert.True(t, s.contains(c))
	assert.False(t, s.contains(Entity{Index: 2, ID: 9}))

	err := s.insert(Entity{Index: 1, ID: 7})
	var dup *DuplicateActivationError
	assert.ErrorAs(t, err, &dup)
	assert.Equal(t, b, dup.Held)
}
