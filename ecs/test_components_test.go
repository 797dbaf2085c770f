package ecs_test

import (
	"github.com/plus3/aspectecs/ecs"
)

// Common test component types
type Position struct {
	X, Y float32
}

type Velocity struct {
	DX, DY float32
}

type Name struct {
	Value string
}

type Health struct {
	Current int
	Max     int
}

type Flag struct {
	Set bool
}

type Frozen struct{}

type Inventory struct {
	Items []string
}

// Custom primitive types for testing non-struct components
type Score int32
type Tag string

type testTypes struct {
	Position  ecs.ComponentType[Position]
	Velocity  ecs.ComponentType[Velocity]
	Name      ecs.ComponentType[Name]
	Health    ecs.ComponentType[Health]
	Flag      ecs.ComponentType[Flag]
	Frozen    ecs.ComponentType[Frozen]
	Inventory ecs.ComponentType[Inventory]
	Score     ecs.ComponentType[Score]
	Tag       ecs.ComponentType[Tag]
}

func newTestRegistry() (*ecs.ComponentRegistry, testTypes) {
	registry := ecs.NewComponentRegistry()
	types := testTypes{
		Position:  ecs.RegisterComponent[Position](registry, ecs.Dense),
		Velocity:  ecs.RegisterComponent[Velocity](registry, ecs.Dense),
		Name:      ecs.RegisterComponent[Name](registry, ecs.Sparse),
		Health:    ecs.RegisterComponent[Health](registry, ecs.Dense),
		Flag:      ecs.RegisterComponent[Flag](registry, ecs.Sparse),
		Frozen:    ecs.RegisterComponent[Frozen](registry, ecs.Sparse),
		Inventory: ecs.RegisterComponent[Inventory](registry, ecs.Sparse),
		Score:     ecs.RegisterComponent[Score](registry, ecs.Dense),
		Tag:       ecs.RegisterComponent[Tag](registry, ecs.Sparse),
	}
	return registry, types
}

func newTestWorld(opts ...ecs.Option) (*ecs.World, testTypes) {
	registry, types := newTestRegistry()
	return ecs.NewWorld(registry, opts...), types
}

// recoverError runs fn and returns the error it panicked with, if any.
func recoverError(fn func()) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err, _ = r.(error)
		}
	}()
	fn()
	return nil
}
