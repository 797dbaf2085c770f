package ecs

import (
	"iter"
	"reflect"
	"unsafe"

	"github.com/rotisserie/eris"
)

// View reads several components of an entity at once.
// The type T should be a struct with embedded or named pointer fields, one
// per component type. Named fields can be marked as optional using the
// `ecs:"optional"` struct tag; embedded fields are always required.
// Pointers filled in by a View point into storage and follow the same
// lifetime rules as ComponentType.GetMut.
type View[T any] struct {
	ids         []ComponentID
	types       []reflect.Type
	optional    []bool
	fieldOffset []uintptr
	aspect      Aspect
}

// NewView creates a new view for the given struct type. It panics if T is
// not a struct of pointers to component types registered in r.
func NewView[T any](r *ComponentRegistry) *View[T] {
	structType := reflect.TypeFor[T]()

	if structType.Kind() != reflect.Struct {
		panic("View type parameter must be a struct")
	}

	v := &View[T]{
		ids:         make([]ComponentID, 0, structType.NumField()),
		types:       make([]reflect.Type, 0, structType.NumField()),
		optional:    make([]bool, 0, structType.NumField()),
		fieldOffset: make([]uintptr, 0, structType.NumField()),
	}

	var required []ComponentID
	for i := 0; i < structType.NumField(); i++ {
		field := structType.Field(i)
		fieldType := field.Type

		if fieldType.Kind() != reflect.Ptr {
			panic("View struct fields must be pointer types")
		}

		componentType := fieldType.Elem()
		id, err := r.IDOf(componentType)
		if err != nil {
			panic(eris.Wrapf(err, "view %v field %s", structType, field.Name))
		}

		// Parse struct tag to check if component is optional
		// Embedded fields (field.Anonymous) are always required
		isOptional := false
		if !field.Anonymous {
			tag := field.Tag.Get("ecs")
			if tag != "" {
				if tag == "optional" {
					isOptional = true
				} else {
					panic("invalid ecs tag value: \"" + tag + "\" (only \"optional\" is supported)")
				}
			}
		}

		v.ids = append(v.ids, id)
		v.types = append(v.types, componentType)
		v.optional = append(v.optional, isOptional)
		v.fieldOffset = append(v.fieldOffset, field.Offset)
		if !isOptional {
			required = append(required, id)
		}
	}
	v.aspect = ForAll(required...)
	return v
}

// Aspect returns the aspect satisfied by entities carrying every required
// component of the view.
func (v *View[T]) Aspect() Aspect {
	return v.aspect
}

// Fill populates the provided struct pointer with component data for the given entity.
// Returns false if the entity is missing any required components.
// Optional components are set to nil if not present. It panics if e is not valid.
func (v *View[T]) Fill(c *Components, e Entity, ptr *T) bool {
	c.mustBeValid(e)

	// Write the field pointers straight into the struct's memory
	structPtr := unsafe.Pointer(ptr)

	for i, id := range v.ids {
		fieldPtr := unsafe.Add(structPtr, v.fieldOffset[i])
		component := c.storages[id].slot(e.Index)

		if component == nil && !v.optional[i] {
			return false
		}
		*(*unsafe.Pointer)(fieldPtr) = component
	}

	return true
}

// Get returns a populated view struct for the given entity, or nil if the entity
// doesn't have all the required components.
func (v *View[T]) Get(c *Components, e Entity) *T {
	var result T
	if !v.Fill(c, e, &result) {
		return nil
	}
	return &result
}

// Iter returns an iterator over all built entities that have all the required components for this view.
// It scans every live entity; use a Query to iterate a maintained member set instead.
func (v *View[T]) Iter(c *Components) iter.Seq2[Entity, T] {
	return func(yield func(Entity, T) bool) {
		var result T
		for e := range c.entities.all() {
			if !c.entities.isActivated(e) || !v.aspect.Matches(c.signature(e.Index)) {
				continue
			}
			if !v.Fill(c, e, &result) {
				continue
			}
			if !yield(e, result) {
				return
			}
		}
	}
}

// Values returns an iterator over just the view structs (without entities).
func (v *View[T]) Values(c *Components) iter.Seq[T] {
	return func(yield func(T) bool) {
		for _, value := range v.Iter(c) {
			if !yield(value) {
				return
			}
		}
	}
}

// Unpack extracts the component values referenced by data, ready to be
// passed to Commands.Build or World.Spawn. Nil optional fields are
// skipped; a nil required field panics.
func (v *View[T]) Unpack(data T) []any {
	structPtr := unsafe.Pointer(&data)

	components := make([]any, 0, len(v.types))
	for i := 0; i < len(v.types); i++ {
		fieldPtr := unsafe.Add(structPtr, v.fieldOffset[i])
		componentPtr := *(*unsafe.Pointer)(fieldPtr)

		if componentPtr == nil {
			if !v.optional[i] {
				panic("required component is nil in View.Unpack")
			}
			continue
		}

		component := reflect.NewAt(v.types[i], componentPtr).Elem().Interface()
		components = append(components, component)
	}
	return components
}
