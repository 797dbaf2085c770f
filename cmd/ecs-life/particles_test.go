package main

import (
	"math/rand/v2"
	"testing"

	"github.com/gdamore/tcell/v2"
	"github.com/plus3/aspectecs/ecs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type cell struct {
	r     rune
	style tcell.Style
}

type fakeCanvas struct {
	w, h  int
	cells map[[2]int]cell
}

func newFakeCanvas(w, h int) *fakeCanvas {
	return &fakeCanvas{w: w, h: h, cells: make(map[[2]int]cell)}
}

func (f *fakeCanvas) Clear() { clear(f.cells) }

func (f *fakeCanvas) Size() (int, int) { return f.w, f.h }

func (f *fakeCanvas) SetContent(x, y int, primary rune, combc []rune, style tcell.Style) {
	f.cells[[2]int{x, y}] = cell{r: primary, style: style}
}

func TestBounce(t *testing.T) {
	x, v := bounce(5, 3, 10)
	assert.Equal(t, 5.0, x)
	assert.Equal(t, 3.0, v)

	x, v = bounce(-2, -5, 10)
	assert.InDelta(t, 1.6, x, 1e-9)
	assert.InDelta(t, 4.0, v, 1e-9)

	x, v = bounce(12, 5, 10)
	assert.InDelta(t, 8.4, x, 1e-9)
	assert.InDelta(t, -4.0, v, 1e-9)
}

func TestGlyph(t *testing.T) {
	assert.Equal(t, '.', glyph(0, 10))
	assert.Equal(t, '.', glyph(1, 10))
	assert.Equal(t, '@', glyph(10, 10))
	assert.Equal(t, '.', glyph(5, 0))
}

func newTestWorld(t *testing.T, screen canvas) (*ecs.World, components, *fade) {
	t.Helper()
	registry := ecs.NewComponentRegistry()
	c := registerComponents(registry)
	world := ecs.NewWorld(registry)
	ecs.NewSingleton(world, Bounds{Width: 20, Height: 10})
	fader := &fade{c: c}
	require.NoError(t, world.RegisterSystem(ecs.NewEntitySystem(&physics{c: c}, ecs.ForAll(c.Position.ID(), c.Velocity.ID()))))
	require.NoError(t, world.RegisterSystem(ecs.NewEntitySystem(fader, ecs.ForAll(c.Lifetime.ID()))))
	require.NoError(t, world.RegisterPassive("render", &renderer{screen: screen}))
	return world, c, fader
}

func TestRendererDrawsParticles(t *testing.T) {
	screen := newFakeCanvas(20, 10)
	world, _, _ := newTestWorld(t, screen)

	_, err := world.Spawn(Position{X: 3, Y: 4}, Lifetime{Remaining: 10, Total: 10}, Color(tcell.ColorRed))
	require.NoError(t, err)
	_, err = world.Spawn(Position{X: 7, Y: 1}, Lifetime{Remaining: 1, Total: 10})
	require.NoError(t, err)
	// no lifetime, so not drawn
	_, err = world.Spawn(Position{X: 9, Y: 9})
	require.NoError(t, err)

	require.NoError(t, world.UpdatePassive("render"))

	require.Len(t, screen.cells, 2)
	assert.Equal(t, cell{r: '@', style: tcell.StyleDefault.Foreground(tcell.ColorRed)}, screen.cells[[2]int{3, 4}])
	assert.Equal(t, cell{r: '.', style: tcell.StyleDefault}, screen.cells[[2]int{7, 1}])
}

func TestParticlesExpire(t *testing.T) {
	world, c, fader := newTestWorld(t, newFakeCanvas(20, 10))

	rng := rand.New(rand.NewPCG(1, 2))
	burst(world.Commands(), rng, 10, 5, 25)
	require.NoError(t, world.Step(0.01))
	assert.Equal(t, 25, fader.alive)
	assert.Equal(t, 25, world.EntityCount())

	for e := range world.Entities() {
		p := c.Position.MustGet(world.Components(), e)
		assert.GreaterOrEqual(t, p.X, 0.0)
		assert.LessOrEqual(t, p.X, 19.0)
	}

	// the longest lifetime is below 90 updates
	for range 100 {
		require.NoError(t, world.Step(0.01))
	}
	assert.Zero(t, fader.alive)
	assert.Zero(t, world.EntityCount())
}

func TestClearResetsParticles(t *testing.T) {
	world, _, fader := newTestWorld(t, newFakeCanvas(20, 10))
	burst(world.Commands(), rand.New(rand.NewPCG(3, 4)), 10, 5, 5)
	require.NoError(t, world.Step(0))
	require.Equal(t, 5, fader.alive)

	require.NoError(t, world.Clear())
	assert.Zero(t, fader.alive)
	assert.Zero(t, world.EntityCount())
}
