package apperror

import (
	"errors"
	"fmt"
)

// ErrInvalidMove is the root of every rejected move. Callers match it with errors.Is.
var ErrInvalidMove = errors.New("invalid move")

var (
	ErrNoActiveGame       = fmt.Errorf("%w: no active game", ErrInvalidMove)
	ErrMissingCoordinates = fmt.Errorf("%w: coordinates are required", ErrInvalidMove)
	ErrOutOfBounds        = fmt.Errorf("%w: cell is out of bounds", ErrInvalidMove)
	ErrCellOccupied       = fmt.Errorf("%w: cell is already occupied", ErrInvalidMove)
	ErrNotYourTurn        = fmt.Errorf("%w: it's not your turn", ErrInvalidMove)
	ErrGameFinished       = fmt.Errorf("%w: game is already finished", ErrInvalidMove)
)

var (
	ErrAlreadyQueued    = errors.New("already searching for a game")
	ErrAlreadyInGame    = errors.New("already in a game")
	ErrMissingPlayerID  = errors.New("player id is required")
	ErrMalformedRequest = errors.New("malformed request")
	ErrUnknownRequest   = errors.New("unknown request type")
	ErrNotFound         = errors.New("not found")
)
