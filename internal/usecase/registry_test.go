package usecase

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rocketscienceinc/tictactoe-matchmaker/internal/entity"
)

func newTestMatch(first, second *fakeConn) *Match {
	session := entity.NewSession("s-"+first.id,
		&entity.Participant{ConnID: first.id, PlayerID: "p-" + first.id},
		&entity.Participant{ConnID: second.id, PlayerID: "p-" + second.id},
		3, 3,
	)

	return newMatch(session, first, second)
}

func TestRegistry(t *testing.T) {
	registry := NewRegistry()
	match := newTestMatch(newFakeConn("c1"), newFakeConn("c2"))

	// When: a match is added
	registry.Add(match)

	// Then: both connections resolve to it
	for _, connID := range []string{"c1", "c2"} {
		found, ok := registry.Get(connID)
		require.True(t, ok)
		assert.Same(t, match, found)
	}
	assert.Equal(t, 1, registry.Len())

	// When: it is removed
	assert.True(t, registry.Remove(match))

	// Then: lookups fail and a second removal is a no-op
	_, ok := registry.Get("c1")
	assert.False(t, ok)
	_, ok = registry.Get("c2")
	assert.False(t, ok)
	assert.False(t, registry.Remove(match))
	assert.Equal(t, 0, registry.Len())
}

func TestMatch_Broadcast(t *testing.T) {
	t.Run("Delivers to both", func(t *testing.T) {
		c1, c2 := newFakeConn("c1"), newFakeConn("c2")
		match := newTestMatch(c1, c2)

		require.NoError(t, match.Broadcast("hello"))

		assert.Equal(t, []any{"hello"}, c1.messages)
		assert.Equal(t, []any{"hello"}, c2.messages)
	})

	t.Run("A failing side does not block the other", func(t *testing.T) {
		c1, c2 := newFakeConn("c1"), newFakeConn("c2")
		c1.fail = true
		match := newTestMatch(c1, c2)

		err := match.Broadcast("hello")

		require.ErrorIs(t, err, errConnClosed)
		assert.Equal(t, []any{"hello"}, c2.messages)
	})
}
