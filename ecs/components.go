package ecs

import (
	"reflect"

	"github.com/TheBitDrifter/mask"
)

// Components owns one storage per registered component type plus the
// signature of every entity slot. It is lent to systems for the duration of
// a single Execute call and must not be retained.
type Components struct {
	registry   *ComponentRegistry
	entities   *entityManager
	storages   []componentStorage
	signatures []mask.Mask

	// Entities whose signature changed outside a build or modify. The world
	// reactivates them once the current cycle is drained.
	dirty      []Entity
	dirtyMarks []bool
}

func newComponents(registry *ComponentRegistry, entities *entityManager) *Components {
	c := &Components{
		registry: registry,
		entities: entities,
		storages: make([]componentStorage, len(registry.infos)),
	}
	for _, info := range registry.infos {
		c.storages[info.id] = info.factory()
	}
	return c
}

// IsValid reports whether e is a live entity.
func (c *Components) IsValid(e Entity) bool {
	return c.entities.isValid(e)
}

func (c *Components) mustBeValid(e Entity) {
	if !c.entities.isValid(e) {
		panic(&InvalidEntityError{Entity: e})
	}
}

// Signature returns the set of component ids e currently carries.
// It panics if e is not valid.
func (c *Components) Signature(e Entity) mask.Mask {
	c.mustBeValid(e)
	return c.signature(e.Index)
}

func (c *Components) signature(index int) mask.Mask {
	if index < 0 || index >= len(c.signatures) {
		return mask.Mask{}
	}
	return c.signatures[index]
}

// Has reports whether e carries the component with the given id.
// It panics if e is not valid.
func (c *Components) Has(e Entity, id ComponentID) bool {
	c.mustBeValid(e)
	if int(id) >= len(c.storages) {
		return false
	}
	return c.storages[id].has(e.Index)
}

// SetAny adds or replaces the component held in v (a value or a pointer to
// one). Unregistered types and invalid entities are reported as errors.
func (c *Components) SetAny(e Entity, v any) error {
	t := componentTypeOf(v)
	info, ok := c.registry.byType[t]
	if !ok {
		return &UnregisteredComponentError{Type: t}
	}
	if !c.entities.isValid(e) {
		return &InvalidEntityError{Entity: e}
	}
	replaced, err := c.storages[info.id].setAny(e.Index, v)
	if err != nil {
		return err
	}
	if !replaced {
		c.mark(e, info.id)
	}
	return nil
}

// GetAny returns a copy of the component with the given type.
func (c *Components) GetAny(e Entity, t reflect.Type) (any, bool, error) {
	info, ok := c.registry.byType[t]
	if !ok {
		return nil, false, &UnregisteredComponentError{Type: t}
	}
	if !c.entities.isValid(e) {
		return nil, false, &InvalidEntityError{Entity: e}
	}
	v, found := c.storages[info.id].getAny(e.Index)
	return v, found, nil
}

// RemoveByType removes the component of type t from e if present.
func (c *Components) RemoveByType(e Entity, t reflect.Type) (bool, error) {
	info, ok := c.registry.byType[t]
	if !ok {
		return false, &UnregisteredComponentError{Type: t}
	}
	if !c.entities.isValid(e) {
		return false, &InvalidEntityError{Entity: e}
	}
	if !c.storages[info.id].removeAny(e.Index) {
		return false, nil
	}
	c.unmark(e, info.id)
	return true, nil
}

// Count returns how many entities carry the component with the given id.
func (c *Components) Count(id ComponentID) int {
	if int(id) >= len(c.storages) {
		return 0
	}
	return c.storages[id].len()
}

func (c *Components) ensureSlot(index int) {
	if index >= len(c.signatures) {
		c.signatures = append(c.signatures, make([]mask.Mask, index+1-len(c.signatures))...)
		c.dirtyMarks = append(c.dirtyMarks, make([]bool, index+1-len(c.dirtyMarks))...)
	}
}

func (c *Components) mark(e Entity, id ComponentID) {
	c.ensureSlot(e.Index)
	c.signatures[e.Index].Mark(uint32(id))
	c.touch(e)
}

func (c *Components) unmark(e Entity, id ComponentID) {
	c.ensureSlot(e.Index)
	c.signatures[e.Index].Unmark(uint32(id))
	c.touch(e)
}

func (c *Components) touch(e Entity) {
	if c.dirtyMarks[e.Index] {
		return
	}
	c.dirtyMarks[e.Index] = true
	c.dirty = append(c.dirty, e)
}

// settle forgets a pending shape change for e; the caller is about to
// notify observers itself.
func (c *Components) settle(e Entity) {
	if e.Index < len(c.dirtyMarks) {
		c.dirtyMarks[e.Index] = false
	}
}

func (c *Components) hasDirty() bool {
	return len(c.dirty) > 0
}

// takeDirty returns the entities with unreported shape changes, oldest
// first, and resets the list.
func (c *Components) takeDirty() []Entity {
	if len(c.dirty) == 0 {
		return nil
	}
	pending := make([]Entity, 0, len(c.dirty))
	for _, e := range c.dirty {
		// a slot recycled since the change belongs to someone else now
		if !c.entities.isValid(e) {
			continue
		}
		if c.dirtyMarks[e.Index] {
			c.dirtyMarks[e.Index] = false
			pending = append(pending, e)
		}
	}
	c.dirty = c.dirty[:0]
	return pending
}

// purge clears every storage slot for e regardless of what it held, so a
// recycled index never inherits stale data.
func (c *Components) purge(e Entity) {
	for _, s := range c.storages {
		s.purge(e.Index)
	}
	if e.Index < len(c.signatures) {
		c.signatures[e.Index] = mask.Mask{}
		c.dirtyMarks[e.Index] = false
	}
}

func (c *Components) clear() {
	for _, s := range c.storages {
		s.clear()
	}
	c.signatures = c.signatures[:0]
	c.dirtyMarks = c.dirtyMarks[:0]
	c.dirty = c.dirty[:0]
}

// ComponentType is the typed handle of a registered component. It is a
// small value and can be copied freely; it is bound to the registry that
// produced it, not to a particular world.
type ComponentType[T any] struct {
	id  ComponentID
	typ reflect.Type
}

// ID returns the component's id within its registry.
func (ct ComponentType[T]) ID() ComponentID {
	return ct.id
}

// Type returns the component's Go type.
func (ct ComponentType[T]) Type() reflect.Type {
	return ct.typ
}

func (ct ComponentType[T]) storage(c *Components) typedStorage[T] {
	if int(ct.id) >= len(c.storages) {
		panic(&UnregisteredComponentError{Type: reflect.TypeFor[T]()})
	}
	s, ok := c.storages[ct.id].(typedStorage[T])
	if !ok {
		panic(&TypeMismatchError{Expected: c.storages[ct.id].elemType(), Actual: reflect.TypeFor[T]()})
	}
	return s
}

// Insert adds or replaces e's component and returns the previous value.
// It panics if e is not valid.
func (ct ComponentType[T]) Insert(c *Components, e Entity, v T) (prev T, replaced bool) {
	c.mustBeValid(e)
	prev, replaced = ct.storage(c).insert(e.Index, v)
	if !replaced {
		c.mark(e, ct.id)
	}
	return prev, replaced
}

// Remove deletes e's component and returns it.
func (ct ComponentType[T]) Remove(c *Components, e Entity) (T, bool) {
	c.mustBeValid(e)
	v, ok := ct.storage(c).remove(e.Index)
	if ok {
		c.unmark(e, ct.id)
	}
	return v, ok
}

func (ct ComponentType[T]) Has(c *Components, e Entity) bool {
	c.mustBeValid(e)
	return ct.storage(c).has(e.Index)
}

// Get returns a copy of e's component.
func (ct ComponentType[T]) Get(c *Components, e Entity) (T, bool) {
	c.mustBeValid(e)
	return ct.storage(c).get(e.Index)
}

// GetMut returns a pointer to e's component, or nil. The pointer is only
// good until the component is removed or the entity is removed.
func (ct ComponentType[T]) GetMut(c *Components, e Entity) *T {
	c.mustBeValid(e)
	return ct.storage(c).ptr(e.Index)
}

// MustGet is the trusted accessor for callers that established presence
// through an Aspect. It panics with a MissingComponentError otherwise.
func (ct ComponentType[T]) MustGet(c *Components, e Entity) *T {
	c.mustBeValid(e)
	p := ct.storage(c).ptr(e.Index)
	if p == nil {
		panic(&MissingComponentError{Entity: e, Type: ct.typ})
	}
	return p
}
