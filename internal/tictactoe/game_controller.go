package tictactoe

import (
	"fmt"

	"github.com/rocketscienceinc/tictactoe-matchmaker/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-matchmaker/internal/entity"
)

// Turn describes what a successful move did to the session.
type Turn struct {
	Mover     *entity.Participant
	X, Y      int
	Concluded bool
	Winner    string
}

// ValidateMove checks a move without touching the session.
func ValidateMove(session *entity.Session, connID string, x, y int) error {
	if session == nil {
		return apperror.ErrNoActiveGame
	}

	if session.IsConcluded() {
		return apperror.ErrGameFinished
	}

	if !InBounds(session.Board, x, y) {
		return fmt.Errorf("%w: (%d, %d)", apperror.ErrOutOfBounds, x, y)
	}

	if session.Board[x][y] != entity.MarkNone {
		return fmt.Errorf("%w: (%d, %d)", apperror.ErrCellOccupied, x, y)
	}

	if session.ActiveParticipant().ConnID != connID {
		return apperror.ErrNotYourTurn
	}

	return nil
}

// MakeTurn places the active participant's mark and advances the session state machine:
// a win or a full board concludes it, otherwise the turn passes to the other side.
func MakeTurn(session *entity.Session, connID string, x, y int) (*Turn, error) {
	if err := ValidateMove(session, connID, x, y); err != nil {
		return nil, err
	}

	mover := session.ActiveParticipant()
	session.Board[x][y] = mover.Mark
	session.Moves++

	turn := &Turn{Mover: mover, X: x, Y: y}

	switch {
	case HasWinningLine(session.Board, mover.Mark, session.WinLength):
		session.Conclude(entity.OutcomeWin, mover.PlayerID)
	case IsFull(session.Board):
		session.Conclude(entity.OutcomeDraw, entity.WinnerDraw)
	default:
		session.SwitchTurn()
		return turn, nil
	}

	turn.Concluded = true
	turn.Winner = session.Winner

	return turn, nil
}
