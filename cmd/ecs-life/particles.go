package main

import (
	"iter"
	"math/rand/v2"

	"github.com/gdamore/tcell/v2"
	"github.com/plus3/aspectecs/ecs"
)

type Position struct {
	X, Y float64
}

type Velocity struct {
	DX, DY float64
}

// Lifetime counts down the updates a particle has left.
type Lifetime struct {
	Remaining, Total int
}

type Color tcell.Color

// Bounds is the size of the drawable area.
type Bounds struct {
	Width, Height int
}

const gravity = 18.0

type components struct {
	Position ecs.ComponentType[Position]
	Velocity ecs.ComponentType[Velocity]
	Lifetime ecs.ComponentType[Lifetime]
	Color    ecs.ComponentType[Color]
}

func registerComponents(r *ecs.ComponentRegistry) components {
	return components{
		Position: ecs.RegisterComponent[Position](r, ecs.Dense),
		Velocity: ecs.RegisterComponent[Velocity](r, ecs.Dense),
		Lifetime: ecs.RegisterComponent[Lifetime](r, ecs.Dense),
		Color:    ecs.RegisterComponent[Color](r, ecs.Sparse),
	}
}

// physics moves particles and bounces them off the edges of Bounds.
type physics struct {
	c      components
	Bounds ecs.Singleton[Bounds]
}

func (p *physics) Process(entities iter.Seq[ecs.Entity], frame *ecs.UpdateFrame) {
	b := p.Bounds.Get()
	for e := range entities {
		pos := p.c.Position.MustGet(frame.Components, e)
		vel := p.c.Velocity.MustGet(frame.Components, e)
		vel.DY += gravity * frame.DeltaTime
		pos.X += vel.DX * frame.DeltaTime
		pos.Y += vel.DY * frame.DeltaTime
		pos.X, vel.DX = bounce(pos.X, vel.DX, float64(b.Width-1))
		pos.Y, vel.DY = bounce(pos.Y, vel.DY, float64(b.Height-1))
	}
}

// bounce reflects a coordinate travelling at speed v back into [0, limit],
// losing a little energy on each hit.
func bounce(x, v, limit float64) (float64, float64) {
	const damping = 0.8
	if limit < 0 {
		limit = 0
	}
	switch {
	case x < 0:
		return -x * damping, -v * damping
	case x > limit:
		return limit - (x-limit)*damping, -v * damping
	}
	return x, v
}

// fade ages particles and removes the expired ones.
type fade struct {
	c     components
	alive int
}

func (f *fade) Process(entities iter.Seq[ecs.Entity], frame *ecs.UpdateFrame) {
	for e := range entities {
		l := f.c.Lifetime.MustGet(frame.Components, e)
		l.Remaining--
		if l.Remaining <= 0 {
			frame.Commands.Remove(e)
		}
	}
}

func (f *fade) OnActivated(e ecs.Entity, w *ecs.World) {
	f.alive++
}

func (f *fade) OnDeactivated(e ecs.Entity, w *ecs.World) {
	f.alive--
}

type particle struct {
	*Position
	*Lifetime
	Color *Color `ecs:"optional"`
}

// canvas is the part of tcell.Screen the renderer draws on.
type canvas interface {
	Clear()
	Size() (int, int)
	SetContent(x, y int, primary rune, combc []rune, style tcell.Style)
}

// renderer draws every particle. It is registered as a passive system and
// run once per frame after the update.
type renderer struct {
	Particles ecs.Query[particle]
	screen    canvas
}

func (r *renderer) Execute(frame *ecs.UpdateFrame) {
	r.screen.Clear()
	for _, p := range r.Particles.Iter() {
		style := tcell.StyleDefault
		if p.Color != nil {
			style = style.Foreground(tcell.Color(*p.Color))
		}
		r.screen.SetContent(int(p.X+0.5), int(p.Y+0.5), glyph(p.Remaining, p.Total), nil, style)
	}
}

var glyphs = []rune{'.', '+', '*', '@'}

// glyph picks a brighter glyph for younger particles.
func glyph(remaining, total int) rune {
	if total <= 0 || remaining <= 0 {
		return glyphs[0]
	}
	i := remaining * len(glyphs) / (total + 1)
	return glyphs[min(i, len(glyphs)-1)]
}

var palette = []tcell.Color{
	tcell.ColorRed, tcell.ColorYellow, tcell.ColorGreen, tcell.ColorAqua, tcell.ColorFuchsia,
}

// burst queues n particles exploding outwards from (x, y).
func burst(cmds *ecs.Commands, rng *rand.Rand, x, y float64, n int) {
	color := Color(palette[rng.IntN(len(palette))])
	for range n {
		life := 30 + rng.IntN(60)
		cmds.Build(
			Position{X: x, Y: y},
			Velocity{DX: (rng.Float64()*2 - 1) * 30, DY: -rng.Float64() * 25},
			Lifetime{Remaining: life, Total: life},
			color,
		)
	}
}
