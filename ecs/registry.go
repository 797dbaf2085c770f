package ecs

import (
	"reflect"

	"github.com/rotisserie/eris"
)

// ComponentID is the dense identifier of a registered component type. It is
// also the bit the type occupies in entity signatures and aspects.
type ComponentID uint32

// MaxComponentTypes bounds how many component types one registry can hold.
const MaxComponentTypes = 64

// StorageKind selects how a component type is stored. It is a performance
// hint only: both kinds behave identically.
type StorageKind int

const (
	// Dense keeps components in index-addressed blocks. Use for components
	// most entities carry.
	Dense StorageKind = iota
	// Sparse keeps components in a hash map keyed by entity index. Use for
	// rare components.
	Sparse
)

func (k StorageKind) String() string {
	switch k {
	case Dense:
		return "dense"
	case Sparse:
		return "sparse"
	default:
		return "unknown"
	}
}

type componentInfo struct {
	id      ComponentID
	typ     reflect.Type
	kind    StorageKind
	factory func() componentStorage
}

// ComponentRegistry manages component type registration for a World.
// Registration happens before the world is created; the set of component
// types is fixed afterwards.
type ComponentRegistry struct {
	byType map[reflect.Type]*componentInfo
	infos  []*componentInfo
	sealed bool
}

// NewComponentRegistry creates a new component registry.
func NewComponentRegistry() *ComponentRegistry {
	return &ComponentRegistry{
		byType: make(map[reflect.Type]*componentInfo),
	}
}

// RegisterComponent registers T with the given storage kind and returns its
// typed handle. Registering a type twice returns the existing handle.
// It panics for pointer, map, channel and function types, once the registry
// is in use by a World, or when MaxComponentTypes is exceeded.
func RegisterComponent[T any](r *ComponentRegistry, kind StorageKind) ComponentType[T] {
	t := reflect.TypeFor[T]()
	if info, ok := r.byType[t]; ok {
		return ComponentType[T]{id: info.id, typ: t}
	}

	switch t.Kind() {
	case reflect.Ptr, reflect.Map, reflect.Chan, reflect.Func:
		panic("components cannot be pointers, maps, channels, or functions: " + t.String())
	}
	if r.sealed {
		panic(eris.Errorf("cannot register %v: registry already used by a world", t))
	}
	if len(r.infos) >= MaxComponentTypes {
		panic(eris.Errorf("cannot register %v: more than %d component types", t, MaxComponentTypes))
	}

	info := &componentInfo{
		id:   ComponentID(len(r.infos)),
		typ:  t,
		kind: kind,
	}
	switch kind {
	case Sparse:
		info.factory = func() componentStorage { return newSparseStorage[T]() }
	default:
		info.kind = Dense
		info.factory = func() componentStorage { return newDenseStorage[T]() }
	}

	r.byType[t] = info
	r.infos = append(r.infos, info)
	return ComponentType[T]{id: info.id, typ: t}
}

// Lookup returns the handle for a registered T.
func Lookup[T any](r *ComponentRegistry) (ComponentType[T], error) {
	t := reflect.TypeFor[T]()
	info, ok := r.byType[t]
	if !ok {
		return ComponentType[T]{}, &UnregisteredComponentError{Type: t}
	}
	return ComponentType[T]{id: info.id, typ: t}, nil
}

// IDOf returns the ComponentID of a registered type.
func (r *ComponentRegistry) IDOf(t reflect.Type) (ComponentID, error) {
	info, ok := r.byType[t]
	if !ok {
		return 0, &UnregisteredComponentError{Type: t}
	}
	return info.id, nil
}

// Len returns the number of registered component types.
func (r *ComponentRegistry) Len() int {
	return len(r.infos)
}

// Kind returns the storage kind a type was registered with.
func (r *ComponentRegistry) Kind(t reflect.Type) (StorageKind, error) {
	info, ok := r.byType[t]
	if !ok {
		return 0, &UnregisteredComponentError{Type: t}
	}
	return info.kind, nil
}

// Types returns the registered component types in ComponentID order.
func (r *ComponentRegistry) Types() []reflect.Type {
	types := make([]reflect.Type, len(r.infos))
	for i, info := range r.infos {
		types[i] = info.typ
	}
	return types
}

// componentTypeOf resolves the storage type of a component value. Pointers
// to components are accepted and resolve to their element type.
func componentTypeOf(v any) reflect.Type {
	t := reflect.TypeOf(v)
	if t != nil && t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	return t
}
