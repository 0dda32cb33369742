package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestSession() *Session {
	return NewSession("s1",
		&Participant{ConnID: "c1", PlayerID: "1"},
		&Participant{ConnID: "c2", PlayerID: "2"},
		DefaultBoardSize, DefaultWinLength,
	)
}

func TestNewSession(t *testing.T) {
	// When: a session is created
	session := newTestSession()

	// Then: the waiting player plays X and moves first
	assert.Equal(t, MarkX, session.Participants[0].Mark)
	assert.Equal(t, MarkO, session.Participants[1].Mark)
	assert.Equal(t, "c1", session.ActiveParticipant().ConnID)
	assert.Equal(t, StateAwaitingMove, session.State)
	assert.False(t, session.IsConcluded())
	assert.Equal(t, []string{"1", "2"}, session.PlayerIDs())
}

func TestSession_Participant(t *testing.T) {
	session := newTestSession()

	t.Run("Finds participant by connection", func(t *testing.T) {
		participant, ok := session.Participant("c2")

		require.True(t, ok)
		assert.Equal(t, "2", participant.PlayerID)
	})

	t.Run("Unknown connection", func(t *testing.T) {
		_, ok := session.Participant("c3")

		assert.False(t, ok)
	})

	t.Run("Opponent", func(t *testing.T) {
		assert.Equal(t, "2", session.Opponent("c1").PlayerID)
		assert.Equal(t, "1", session.Opponent("c2").PlayerID)
	})
}

func TestSession_SwitchTurn(t *testing.T) {
	session := newTestSession()

	session.SwitchTurn()
	assert.Equal(t, "c2", session.ActiveParticipant().ConnID)

	session.SwitchTurn()
	assert.Equal(t, "c1", session.ActiveParticipant().ConnID)
}

func TestNewMatchResult(t *testing.T) {
	t.Run("Win", func(t *testing.T) {
		session := newTestSession()
		session.Conclude(OutcomeWin, "1")

		result := NewMatchResult(session, "")

		assert.Equal(t, OutcomeWin, result.Outcome)
		assert.Equal(t, "1", result.Winner)
		assert.Empty(t, result.Disconnected)
	})

	t.Run("Draw", func(t *testing.T) {
		session := newTestSession()
		session.Conclude(OutcomeDraw, WinnerDraw)

		result := NewMatchResult(session, "")

		assert.Equal(t, OutcomeDraw, result.Outcome)
	})

	t.Run("Abandoned", func(t *testing.T) {
		session := newTestSession()
		session.Conclude(OutcomeAbandoned, WinnerOpponentDisconnected)

		result := NewMatchResult(session, "2")

		assert.Equal(t, OutcomeAbandoned, result.Outcome)
		assert.Equal(t, "2", result.Disconnected)
		assert.Equal(t, []string{"1", "2"}, result.Players)
	})

	t.Run("Winner identity that looks like a reserved value", func(t *testing.T) {
		for _, playerID := range []string{WinnerDraw, WinnerOpponentDisconnected} {
			// Given: a player whose identity equals a reserved winner value wins
			session := NewSession("s1",
				&Participant{ConnID: "c1", PlayerID: playerID},
				&Participant{ConnID: "c2", PlayerID: "bob"},
				DefaultBoardSize, DefaultWinLength,
			)
			session.Conclude(OutcomeWin, playerID)

			// When: the result is built
			result := NewMatchResult(session, "")

			// Then: it is recorded as a win for that player
			assert.Equal(t, OutcomeWin, result.Outcome, playerID)
			assert.Equal(t, playerID, result.Winner)
			assert.Empty(t, result.Disconnected)
		}
	})
}
