package usecase

import "github.com/rocketscienceinc/tictactoe-matchmaker/internal/entity"

// Inbound request kinds.
const (
	RequestSearchGame = "search_game"
	RequestMakeMove   = "make_move"
)

// Outbound message kinds.
const (
	MessageStartGame   = "start_game"
	MessageUpdateBoard = "update_board"
	MessageError       = "error"
	MessageGameEnd     = "game_end"
)

// Request is an already decoded client message. Coordinates are pointers so that a missing
// value can be told apart from zero.
type Request struct {
	Type     string `json:"type"`
	PlayerID string `json:"playerID"`
	X        *int   `json:"x,omitempty"`
	Y        *int   `json:"y,omitempty"`
}

type StartGame struct {
	Type    string   `json:"type"`
	Players []string `json:"players"`
}

type UpdateBoard struct {
	Type          string       `json:"type"`
	Board         entity.Board `json:"board"`
	CurrentPlayer string       `json:"currentPlayer"`
}

type ErrorMessage struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

type GameEnd struct {
	Type   string `json:"type"`
	Winner string `json:"winner"`
}

func newStartGame(players []string) *StartGame {
	return &StartGame{Type: MessageStartGame, Players: players}
}

func newUpdateBoard(board entity.Board, currentPlayer string) *UpdateBoard {
	return &UpdateBoard{Type: MessageUpdateBoard, Board: board.Clone(), CurrentPlayer: currentPlayer}
}

func newErrorMessage(err error) *ErrorMessage {
	return &ErrorMessage{Type: MessageError, Message: err.Error()}
}

func newGameEnd(winner string) *GameEnd {
	return &GameEnd{Type: MessageGameEnd, Winner: winner}
}
