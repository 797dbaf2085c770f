package ecs

import (
	"reflect"
	"unsafe"
)

// componentStorage is a type-erased component storage addressed by entity
// index. Each registered type has exactly one implementation instance.
// Slot lifetime is decided by the entity manager, never by the storage.
type componentStorage interface {
	elemType() reflect.Type
	has(index int) bool
	// purge clears the slot whether or not it holds a value.
	purge(index int)
	getAny(index int) (any, bool)
	// slot returns the address of the stored value, or nil when absent.
	slot(index int) unsafe.Pointer
	// setAny stores v (a T or *T). It fails with a TypeMismatchError
	// instead of reinterpreting a foreign value.
	setAny(index int, v any) (replaced bool, err error)
	removeAny(index int) bool
	len() int
	clear()
}

// typedStorage is the statically typed view of a componentStorage.
type typedStorage[T any] interface {
	componentStorage
	insert(index int, v T) (prev T, replaced bool)
	remove(index int) (T, bool)
	get(index int) (T, bool)
	ptr(index int) *T
}

// unbox accepts a T or a non-nil *T.
func unbox[T any](v any) (T, bool) {
	switch val := v.(type) {
	case T:
		return val, true
	case *T:
		if val != nil {
			return *val, true
		}
	}
	var zero T
	return zero, false
}
