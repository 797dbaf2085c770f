package ecs

// UpdateFrame is what a system sees during Execute. Components is lent for
// the duration of the call; structural changes go through Commands.
type UpdateFrame struct {
	DeltaTime  float64
	Commands   *Commands
	Components *Components
	World      *World
}

func newUpdateFrame(w *World) *UpdateFrame {
	return &UpdateFrame{
		Commands:   w.commands,
		Components: w.components,
		World:      w,
	}
}
