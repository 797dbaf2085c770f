package ecs

import (
	"reflect"
	"unsafe"

	"github.com/kamstrup/intmap"
)

const sparseInitialCapacity = 64

// sparseStorage keeps rarely used components in a hash map keyed by entity
// index. Values are boxed so pointers from ptr survive map growth.
type sparseStorage[T any] struct {
	items *intmap.Map[int, *T]
}

var _ typedStorage[struct{}] = (*sparseStorage[struct{}])(nil)

func newSparseStorage[T any]() *sparseStorage[T] {
	return &sparseStorage[T]{
		items: intmap.New[int, *T](sparseInitialCapacity),
	}
}

func (cs *sparseStorage[T]) elemType() reflect.Type {
	return reflect.TypeFor[T]()
}

func (cs *sparseStorage[T]) insert(index int, v T) (T, bool) {
	if p, ok := cs.items.Get(index); ok {
		prev := *p
		*p = v
		return prev, true
	}
	boxed := new(T)
	*boxed = v
	cs.items.Put(index, boxed)
	var zero T
	return zero, false
}

func (cs *sparseStorage[T]) has(index int) bool {
	_, ok := cs.items.Get(index)
	return ok
}

func (cs *sparseStorage[T]) get(index int) (T, bool) {
	if p, ok := cs.items.Get(index); ok {
		return *p, true
	}
	var zero T
	return zero, false
}

func (cs *sparseStorage[T]) ptr(index int) *T {
	p, _ := cs.items.Get(index)
	return p
}

func (cs *sparseStorage[T]) remove(index int) (T, bool) {
	p, ok := cs.items.Get(index)
	if !ok {
		var zero T
		return zero, false
	}
	cs.items.Del(index)
	return *p, true
}

func (cs *sparseStorage[T]) purge(index int) {
	cs.items.Del(index)
}

func (cs *sparseStorage[T]) getAny(index int) (any, bool) {
	p, ok := cs.items.Get(index)
	if !ok {
		return nil, false
	}
	return *p, true
}

func (cs *sparseStorage[T]) slot(index int) unsafe.Pointer {
	p, _ := cs.items.Get(index)
	return unsafe.Pointer(p)
}

func (cs *sparseStorage[T]) setAny(index int, v any) (bool, error) {
	val, ok := unbox[T](v)
	if !ok {
		return false, &TypeMismatchError{Expected: cs.elemType(), Actual: reflect.TypeOf(v)}
	}
	_, replaced := cs.insert(index, val)
	return replaced, nil
}

func (cs *sparseStorage[T]) removeAny(index int) bool {
	_, ok := cs.remove(index)
	return ok
}

func (cs *sparseStorage[T]) len() int {
	return cs.items.Len()
}

func (cs *sparseStorage[T]) clear() {
	cs.items.Clear()
}
