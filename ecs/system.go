package ecs

import (
	"iter"
	"reflect"
)

// System represents a behavior run once per update cycle.
// User-defined systems implement Execute and may hold Query fields, which
// the World initializes on registration, as well as state that persists
// between frames. A system that also implements Observer receives entity
// lifecycle notifications.
type System interface {
	Execute(frame *UpdateFrame)
}

// Observer receives entity lifecycle notifications from the World:
// Activated after an entity is built, Reactivated after it is modified or
// its shape changed, Deactivated before it is removed.
type Observer interface {
	Activated(e Entity, w *World) error
	Reactivated(e Entity, w *World) error
	Deactivated(e Entity, w *World) error
}

// ActivityReporter lets a system opt out of the process step while still
// receiving notifications. Systems without it are active.
type ActivityReporter interface {
	IsActive() bool
}

// EntityProcess is the behavior unit wrapped by an EntitySystem.
type EntityProcess interface {
	Process(entities iter.Seq[Entity], frame *UpdateFrame)
}

// InteractProcess is the behavior unit wrapped by an InteractSystem.
type InteractProcess interface {
	Process(a, b iter.Seq[Entity], frame *UpdateFrame)
}

// ActivationHook is implemented by behavior units that want to know when an
// entity starts matching their aspect.
type ActivationHook interface {
	OnActivated(e Entity, w *World)
}

// ReactivationHook is implemented by behavior units that handle an entity
// which keeps matching after a shape change. Units without it see
// OnDeactivated followed by OnActivated.
type ReactivationHook interface {
	OnReactivated(e Entity, w *World)
}

// DeactivationHook is implemented by behavior units that want to know when an
// entity stops matching or is removed.
type DeactivationHook interface {
	OnDeactivated(e Entity, w *World)
}

// hooks holds a behavior unit's optional callbacks, resolved once.
type hooks struct {
	activated   func(Entity, *World)
	reactivated func(Entity, *World)
	deactivated func(Entity, *World)
	active      func() bool
}

func resolveHooks(inner any) hooks {
	h := hooks{
		activated:   func(Entity, *World) {},
		deactivated: func(Entity, *World) {},
		active:      func() bool { return true },
	}
	if a, ok := inner.(ActivationHook); ok {
		h.activated = a.OnActivated
	}
	if d, ok := inner.(DeactivationHook); ok {
		h.deactivated = d.OnDeactivated
	}
	if r, ok := inner.(ReactivationHook); ok {
		h.reactivated = r.OnReactivated
	} else {
		activated, deactivated := h.activated, h.deactivated
		h.reactivated = func(e Entity, w *World) {
			deactivated(e, w)
			activated(e, w)
		}
	}
	if a, ok := inner.(ActivityReporter); ok {
		h.active = a.IsActive
	}
	return h
}

// hookTarget picks the value whose method set carries the hooks: the unit
// itself for reference types, its address for struct values so pointer
// receivers are found and state changes stick.
func hookTarget[P any](p *P) any {
	switch reflect.TypeFor[P]().Kind() {
	case reflect.Ptr, reflect.Interface, reflect.Map, reflect.Func, reflect.Chan:
		return *p
	}
	return p
}

func (h hooks) dispatch(t transition, e Entity, w *World) {
	switch t {
	case joined:
		h.activated(e, w)
	case stayed:
		h.reactivated(e, w)
	case left:
		h.deactivated(e, w)
	}
}

// ObserverFuncs adapts plain functions to an Observer. Nil fields are
// skipped.
type ObserverFuncs struct {
	OnActivated   func(e Entity, w *World)
	OnReactivated func(e Entity, w *World)
	OnDeactivated func(e Entity, w *World)
}

func (o ObserverFuncs) Activated(e Entity, w *World) error {
	if o.OnActivated != nil {
		o.OnActivated(e, w)
	}
	return nil
}

func (o ObserverFuncs) Reactivated(e Entity, w *World) error {
	if o.OnReactivated != nil {
		o.OnReactivated(e, w)
	}
	return nil
}

func (o ObserverFuncs) Deactivated(e Entity, w *World) error {
	if o.OnDeactivated != nil {
		o.OnDeactivated(e, w)
	}
	return nil
}
