package ecs

import "reflect"

// Singleton provides access to a single value that is not associated with
// any entity. Use this for global game state, configuration, or services
// shared by systems. Singletons survive World.Clear.
type Singleton[T any] struct {
	world *World
	ptr   *T
}

// NewSingleton creates a new Singleton accessor for w.
// If initializer is provided and the singleton doesn't exist yet,
// it will be created with the initializer value. Otherwise, a zero value is used.
// This guarantees the singleton exists after the call.
func NewSingleton[T any](w *World, initializer ...T) *Singleton[T] {
	t := reflect.TypeFor[T]()
	if _, ok := w.services[t]; !ok {
		value := new(T)
		if len(initializer) > 0 {
			*value = initializer[0]
		}
		w.services[t] = value
	}

	s := &Singleton[T]{}
	s.Init(w)
	return s
}

// Init binds the Singleton to w.
// This is called automatically by the World during system registration.
func (s *Singleton[T]) Init(w *World) {
	s.world = w
	s.updateCache()
}

// Get returns a pointer to the singleton value, or nil if it has not been
// created.
func (s *Singleton[T]) Get() *T {
	if s.ptr == nil {
		s.updateCache()
	}
	return s.ptr
}

// Set creates or replaces the singleton value. It panics if the Singleton
// was never bound to a world.
func (s *Singleton[T]) Set(v T) {
	if s.world == nil {
		panic("ecs: Singleton used before Init")
	}
	if s.Get() == nil {
		s.ptr = new(T)
		s.world.services[reflect.TypeFor[T]()] = s.ptr
	}
	*s.ptr = v
}

// Exists returns true if the singleton value has been created.
func (s *Singleton[T]) Exists() bool {
	return s.Get() != nil
}

// updateCache refreshes the cached pointer from the world
func (s *Singleton[T]) updateCache() {
	if s.world == nil {
		return
	}
	if p, ok := s.world.services[reflect.TypeFor[T]()]; ok {
		s.ptr = p.(*T)
	}
}
