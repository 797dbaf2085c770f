package ecs_test

import (
	"slices"
	"testing"

	"github.com/plus3/aspectecs/ecs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEntityIdentity(t *testing.T) {
	t.Run("index reuse", func(t *testing.T) {
		w, _ := newTestWorld()

		first, err := w.Spawn(Position{X: 1})
		require.NoError(t, err)
		require.NoError(t, w.Despawn(first))

		second, err := w.Spawn(Position{X: 2})
		require.NoError(t, err)

		assert.Equal(t, first.Index, second.Index)
		assert.NotEqual(t, first.ID, second.ID)
		assert.False(t, w.IsValid(first))
		assert.True(t, w.IsValid(second))
	})

	t.Run("nil entity", func(t *testing.T) {
		w, _ := newTestWorld()
		assert.True(t, ecs.NilEntity.IsNil())
		assert.False(t, w.IsValid(ecs.NilEntity))
		assert.Equal(t, "Entity(0#0)", ecs.NilEntity.String())
	})

	t.Run("queued builds are valid at once", func(t *testing.T) {
		w, types := newTestWorld()

		e := w.CreateEntity(Position{X: 1})
		assert.True(t, w.IsValid(e))
		assert.Equal(t, 1, w.EntityCount())
		assert.False(t, types.Position.Has(w.Components(), e))

		require.NoError(t, w.Update())
		assert.True(t, types.Position.Has(w.Components(), e))
	})

	t.Run("entities in index order", func(t *testing.T) {
		w, _ := newTestWorld()

		var spawned []ecs.Entity
		for range 5 {
			e, err := w.Spawn()
			require.NoError(t, err)
			spawned = append(spawned, e)
		}
		require.NoError(t, w.Despawn(spawned[2]))

		expected := []ecs.Entity{spawned[0], spawned[1], spawned[3], spawned[4]}
		assert.Equal(t, expected, slices.Collect(w.Entities()))
		assert.Equal(t, 4, w.EntityCount())
	})
}
