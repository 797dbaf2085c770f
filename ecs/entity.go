package ecs

import (
	"fmt"
	"iter"
)

// Entity is a recyclable slot index paired with a unique id.
// The index locates the entity's components; the id tells a reused slot
// apart from its previous occupant. Two entities are equal only if both match.
type Entity struct {
	Index int
	ID    uint64
}

// NilEntity is never valid. Unique ids start at 1.
var NilEntity = Entity{}

// IsNil reports whether e is the nil entity.
func (e Entity) IsNil() bool {
	return e.ID == 0
}

func (e Entity) String() string {
	return fmt.Sprintf("Entity(%d#%d)", e.Index, e.ID)
}

// indexAllocator recycles slot indices so storage does not grow with churn.
type indexAllocator struct {
	free []int
	next int
}

func (a *indexAllocator) allocate() int {
	if n := len(a.free); n > 0 {
		index := a.free[n-1]
		a.free = a.free[:n-1]
		return index
	}
	index := a.next
	a.next++
	return index
}

func (a *indexAllocator) release(index int) {
	a.free = append(a.free, index)
}

func (a *indexAllocator) count() int {
	return a.next - len(a.free)
}

// entityManager owns entity identity. It is the single source of truth for
// liveness: an entity is valid iff the table slot at its index holds it.
type entityManager struct {
	indexes   indexAllocator
	entities  []Entity
	activated []bool
	nextID    uint64
}

func newEntityManager(capacity int) *entityManager {
	return &entityManager{
		entities:  make([]Entity, 0, capacity),
		activated: make([]bool, 0, capacity),
		nextID:    1,
	}
}

// create allocates an index, mints a unique id and makes the entity valid.
func (m *entityManager) create() Entity {
	e := Entity{Index: m.indexes.allocate(), ID: m.nextID}
	m.nextID++

	if e.Index >= len(m.entities) {
		m.entities = append(m.entities, make([]Entity, e.Index+1-len(m.entities))...)
		m.activated = append(m.activated, make([]bool, e.Index+1-len(m.activated))...)
	}
	m.entities[e.Index] = e
	m.activated[e.Index] = false
	return e
}

func (m *entityManager) isValid(e Entity) bool {
	if e.ID == 0 || e.Index < 0 || e.Index >= len(m.entities) {
		return false
	}
	return m.entities[e.Index] == e
}

// remove forgets e and releases its index. Invalid entities are ignored.
// Callers must have purged storages and notified observers first.
func (m *entityManager) remove(e Entity) {
	if !m.isValid(e) {
		return
	}
	m.entities[e.Index] = NilEntity
	m.activated[e.Index] = false
	m.indexes.release(e.Index)
}

func (m *entityManager) isActivated(e Entity) bool {
	return m.isValid(e) && m.activated[e.Index]
}

func (m *entityManager) setActivated(e Entity) {
	m.activated[e.Index] = true
}

func (m *entityManager) count() int {
	return m.indexes.count()
}

// all is a live view: every slot is re-read when reached, so an entity
// removed before the iterator gets to it is never yielded.
func (m *entityManager) all() iter.Seq[Entity] {
	return func(yield func(Entity) bool) {
		for i := 0; i < len(m.entities); i++ {
			e := m.entities[i]
			if e.ID == 0 {
				continue
			}
			if !yield(e) {
				return
			}
		}
	}
}

// clear drops every entity. Unique ids keep increasing across clears so
// handles from before the clear stay invalid.
func (m *entityManager) clear() {
	m.entities = m.entities[:0]
	m.activated = m.activated[:0]
	m.indexes = indexAllocator{}
}
