package ecs

import "reflect"

// The accessors below work on a World directly and report misuse as
// errors instead of panicking. Outside an update, a shape change is
// delivered to observers before the accessor returns; during an update it
// is delivered once the update's queued requests have been applied.

// SetComponent adds or replaces e's T component.
func SetComponent[T any](w *World, e Entity, v T) error {
	ct, err := Lookup[T](w.registry)
	if err != nil {
		return err
	}
	if !w.entities.isValid(e) {
		return &InvalidEntityError{Entity: e}
	}
	ct.Insert(w.components, e, v)
	return w.afterAccess()
}

// GetComponent returns a copy of e's T component, or a MissingComponentError.
func GetComponent[T any](w *World, e Entity) (T, error) {
	v, ok, err := TryComponent[T](w, e)
	if err != nil {
		return v, err
	}
	if !ok {
		return v, &MissingComponentError{Entity: e, Type: reflect.TypeFor[T]()}
	}
	return v, nil
}

// TryComponent returns a copy of e's T component and whether it exists.
func TryComponent[T any](w *World, e Entity) (T, bool, error) {
	var zero T
	ct, err := Lookup[T](w.registry)
	if err != nil {
		return zero, false, err
	}
	if !w.entities.isValid(e) {
		return zero, false, &InvalidEntityError{Entity: e}
	}
	v, ok := ct.Get(w.components, e)
	return v, ok, nil
}

// ComponentPtr returns a pointer to e's T component for in-place updates.
func ComponentPtr[T any](w *World, e Entity) (*T, error) {
	ct, err := Lookup[T](w.registry)
	if err != nil {
		return nil, err
	}
	if !w.entities.isValid(e) {
		return nil, &InvalidEntityError{Entity: e}
	}
	p := ct.GetMut(w.components, e)
	if p == nil {
		return nil, &MissingComponentError{Entity: e, Type: ct.typ}
	}
	return p, nil
}

func HasComponent[T any](w *World, e Entity) (bool, error) {
	ct, err := Lookup[T](w.registry)
	if err != nil {
		return false, err
	}
	if !w.entities.isValid(e) {
		return false, &InvalidEntityError{Entity: e}
	}
	return ct.Has(w.components, e), nil
}

// RemoveComponent removes e's T component and reports whether it existed.
func RemoveComponent[T any](w *World, e Entity) (bool, error) {
	ct, err := Lookup[T](w.registry)
	if err != nil {
		return false, err
	}
	if !w.entities.isValid(e) {
		return false, &InvalidEntityError{Entity: e}
	}
	if _, ok := ct.Remove(w.components, e); !ok {
		return false, nil
	}
	return true, w.afterAccess()
}

func (w *World) afterAccess() error {
	if w.locked {
		return nil
	}
	return w.report(w.settle())
}
