package main

import "github.com/plus3/aspectecs/ecs"

type Position struct {
	X, Y float64
}

type Velocity struct {
	DX, DY float64
}

type Health struct {
	Current int
}

// Lifetime is the number of updates left before the entity expires.
type Lifetime struct {
	Remaining int
}

type Team int

type Sleeping struct{}

type components struct {
	Position ecs.ComponentType[Position]
	Velocity ecs.ComponentType[Velocity]
	Health   ecs.ComponentType[Health]
	Lifetime ecs.ComponentType[Lifetime]
	Team     ecs.ComponentType[Team]
	Sleeping ecs.ComponentType[Sleeping]
}

func registerComponents(registry *ecs.ComponentRegistry) components {
	return components{
		Position: ecs.RegisterComponent[Position](registry, ecs.Dense),
		Velocity: ecs.RegisterComponent[Velocity](registry, ecs.Dense),
		Health:   ecs.RegisterComponent[Health](registry, ecs.Dense),
		Lifetime: ecs.RegisterComponent[Lifetime](registry, ecs.Dense),
		Team:     ecs.RegisterComponent[Team](registry, ecs.Sparse),
		Sleeping: ecs.RegisterComponent[Sleeping](registry, ecs.Sparse),
	}
}
