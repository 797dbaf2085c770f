package ecs

import (
	"reflect"
	"unsafe"
)

const (
	denseBlockSize = 64
)

// denseStorage keeps components of type T in fixed-size blocks addressed
// directly by entity index. Blocks are never moved, so pointers handed out
// by ptr stay stable until the slot is purged.
type denseStorage[T any] struct {
	blocks []*[denseBlockSize]T
	filled [][denseBlockSize]bool
	count  int
}

var _ typedStorage[struct{}] = (*denseStorage[struct{}])(nil)

func newDenseStorage[T any]() *denseStorage[T] {
	return &denseStorage[T]{}
}

func (cs *denseStorage[T]) elemType() reflect.Type {
	return reflect.TypeFor[T]()
}

func (cs *denseStorage[T]) grow(index int) {
	blockIdx := index / denseBlockSize
	for blockIdx >= len(cs.blocks) {
		cs.blocks = append(cs.blocks, new([denseBlockSize]T))
		cs.filled = append(cs.filled, [denseBlockSize]bool{})
	}
}

// insert stores v at index and returns the value it replaced, if any.
func (cs *denseStorage[T]) insert(index int, v T) (T, bool) {
	cs.grow(index)

	blockIdx := index / denseBlockSize
	slotIdx := index % denseBlockSize

	prev := cs.blocks[blockIdx][slotIdx]
	replaced := cs.filled[blockIdx][slotIdx]
	if !replaced {
		var zero T
		prev = zero
		cs.count++
	}

	cs.blocks[blockIdx][slotIdx] = v
	cs.filled[blockIdx][slotIdx] = true
	return prev, replaced
}

func (cs *denseStorage[T]) has(index int) bool {
	if index < 0 {
		return false
	}

	blockIdx := index / denseBlockSize
	slotIdx := index % denseBlockSize

	if blockIdx >= len(cs.blocks) {
		return false
	}

	return cs.filled[blockIdx][slotIdx]
}

func (cs *denseStorage[T]) get(index int) (T, bool) {
	if !cs.has(index) {
		var zero T
		return zero, false
	}
	return cs.blocks[index/denseBlockSize][index%denseBlockSize], true
}

// ptr returns a pointer to the component at index, or nil.
func (cs *denseStorage[T]) ptr(index int) *T {
	if !cs.has(index) {
		return nil
	}
	return &cs.blocks[index/denseBlockSize][index%denseBlockSize]
}

func (cs *denseStorage[T]) remove(index int) (T, bool) {
	var zero T
	if !cs.has(index) {
		return zero, false
	}

	blockIdx := index / denseBlockSize
	slotIdx := index % denseBlockSize

	prev := cs.blocks[blockIdx][slotIdx]
	cs.blocks[blockIdx][slotIdx] = zero // drop references held by the old value
	cs.filled[blockIdx][slotIdx] = false
	cs.count--
	return prev, true
}

func (cs *denseStorage[T]) purge(index int) {
	cs.remove(index)
}

func (cs *denseStorage[T]) getAny(index int) (any, bool) {
	v, ok := cs.get(index)
	if !ok {
		return nil, false
	}
	return v, true
}

func (cs *denseStorage[T]) slot(index int) unsafe.Pointer {
	return unsafe.Pointer(cs.ptr(index))
}

func (cs *denseStorage[T]) setAny(index int, v any) (bool, error) {
	val, ok := unbox[T](v)
	if !ok {
		return false, &TypeMismatchError{Expected: cs.elemType(), Actual: reflect.TypeOf(v)}
	}
	_, replaced := cs.insert(index, val)
	return replaced, nil
}

func (cs *denseStorage[T]) removeAny(index int) bool {
	_, ok := cs.remove(index)
	return ok
}

func (cs *denseStorage[T]) len() int {
	return cs.count
}

func (cs *denseStorage[T]) clear() {
	cs.blocks = nil
	cs.filled = nil
	cs.count = 0
}
