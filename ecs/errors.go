package ecs

import (
	"fmt"
	"reflect"
)

// InvalidEntityError reports use of a handle that is not (or no longer) valid.
type InvalidEntityError struct {
	Entity Entity
}

func (e *InvalidEntityError) Error() string {
	return fmt.Sprintf("invalid entity %v", e.Entity)
}

// MissingComponentError reports trusted access to a component the entity lacks.
type MissingComponentError struct {
	Entity Entity
	Type   reflect.Type
}

func (e *MissingComponentError) Error() string {
	return fmt.Sprintf("entity %v has no %v component", e.Entity, e.Type)
}

// TypeMismatchError reports a value or accessor whose type does not match the storage.
type TypeMismatchError struct {
	Expected reflect.Type
	Actual   reflect.Type
}

func (e *TypeMismatchError) Error() string {
	return fmt.Sprintf("component type mismatch: storage holds %v, got %v", e.Expected, e.Actual)
}

type UnregisteredComponentError struct {
	Type reflect.Type
}

func (e *UnregisteredComponentError) Error() string {
	return fmt.Sprintf("component type %v not registered", e.Type)
}

type UnregisteredSystemError struct {
	Name string
}

func (e *UnregisteredSystemError) Error() string {
	return fmt.Sprintf("no system or observer registered as %q", e.Name)
}

type DuplicateNameError struct {
	Name string
}

func (e *DuplicateNameError) Error() string {
	return fmt.Sprintf("name %q already registered", e.Name)
}

// DuplicateActivationError reports an activation for an entity a tracker
// already holds. It means lifecycle notifications were delivered twice.
type DuplicateActivationError struct {
	Entity Entity
	Held   Entity
}

func (e *DuplicateActivationError) Error() string {
	if e.Held == e.Entity {
		return fmt.Sprintf("entity %v activated twice", e.Entity)
	}
	return fmt.Sprintf("entity %v activated while slot still held by %v", e.Entity, e.Held)
}

// LockedWorldError is returned by immediate structural operations while an
// update cycle is running. Use Commands instead.
type LockedWorldError struct{}

func (e *LockedWorldError) Error() string {
	return "world is locked during update; queue the mutation instead"
}

// RegistrationClosedError is returned when systems or observers are
// registered after the first update.
type RegistrationClosedError struct{}

func (e *RegistrationClosedError) Error() string {
	return "registration is closed once the world has been updated"
}
