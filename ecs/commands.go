package ecs

import "reflect"

// Commands buffers structural changes requested while systems run. The
// World drains it once per update: builds first, then modifies, then
// removes, each in the order they were queued. Requests queued while the
// World is draining land in the next update.
//
// Commands holds plain data only. Nothing queued here can be withdrawn.
type Commands struct {
	entities *entityManager

	queued   commandBatch
	draining commandBatch

	// entities with a queued removal that has not been applied yet
	pendingRemove map[Entity]struct{}
}

type commandBatch struct {
	builds   []buildCommand
	modifies []modifyCommand
	removes  []Entity
	defers   []func()
}

type buildCommand struct {
	entity     Entity
	components []any
}

type modifyCommand struct {
	entity  Entity
	changes []Change
}

// Change is one component edit carried by a modify request.
type Change struct {
	value any
	unset reflect.Type
}

// Set adds or replaces the component held in v (a value or a pointer to one).
func Set(v any) Change {
	return Change{value: v}
}

// Unset removes the T component. Removing an absent component is a no-op.
func Unset[T any]() Change {
	return Change{unset: reflect.TypeFor[T]()}
}

// Type returns the component type the change touches.
func (c Change) Type() reflect.Type {
	if c.unset != nil {
		return c.unset
	}
	return componentTypeOf(c.value)
}

// IsUnset reports whether the change removes a component.
func (c Change) IsUnset() bool {
	return c.unset != nil
}

func newCommands(entities *entityManager) *Commands {
	return &Commands{
		entities:      entities,
		pendingRemove: make(map[Entity]struct{}),
	}
}

// Build reserves a new entity and queues its construction from components.
// The returned entity is valid immediately but carries no components and
// is invisible to systems until the build is applied.
func (c *Commands) Build(components ...any) Entity {
	e := c.entities.create()
	c.queued.builds = append(c.queued.builds, buildCommand{
		entity:     e,
		components: components,
	})
	return e
}

// Modify queues component changes for e, applied in order.
func (c *Commands) Modify(e Entity, changes ...Change) {
	c.queued.modifies = append(c.queued.modifies, modifyCommand{
		entity:  e,
		changes: changes,
	})
}

// Remove queues the removal of e. Removing an entity that already has a
// pending removal is a no-op.
func (c *Commands) Remove(e Entity) {
	if _, ok := c.pendingRemove[e]; ok {
		return
	}
	c.pendingRemove[e] = struct{}{}
	c.queued.removes = append(c.queued.removes, e)
}

// Defer queues fn to run after the update's removals have been applied.
func (c *Commands) Defer(fn func()) {
	c.queued.defers = append(c.queued.defers, fn)
}

// Len returns the number of queued requests.
func (c *Commands) Len() int {
	b := &c.queued
	return len(b.builds) + len(b.modifies) + len(b.removes) + len(b.defers)
}

// take hands the queued batch to the World and starts a fresh one.
func (c *Commands) take() *commandBatch {
	c.draining.reset()
	c.queued, c.draining = c.draining, c.queued
	return &c.draining
}

// applied forgets a pending removal once it went through.
func (c *Commands) applied(e Entity) {
	delete(c.pendingRemove, e)
}

func (c *Commands) reset() {
	c.queued.reset()
	c.draining.reset()
	clear(c.pendingRemove)
}

func (b *commandBatch) reset() {
	clear(b.builds)
	clear(b.modifies)
	clear(b.defers)
	b.builds = b.builds[:0]
	b.modifies = b.modifies[:0]
	b.removes = b.removes[:0]
	b.defers = b.defers[:0]
}
