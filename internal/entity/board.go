package entity

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Mark is the symbol a participant places on the board. The zero value is an unmarked cell.
type Mark string

const (
	MarkNone Mark = ""
	MarkX    Mark = "X"
	MarkO    Mark = "O"
)

const (
	DefaultBoardSize = 3
	MinBoardSize     = 3
)

// MarshalJSON encodes an unmarked cell as null, the way clients expect an empty square.
func (that Mark) MarshalJSON() ([]byte, error) {
	if that == MarkNone {
		return []byte("null"), nil
	}

	return json.Marshal(string(that))
}

func (that *Mark) UnmarshalJSON(data []byte) error {
	if bytes.Equal(data, []byte("null")) {
		*that = MarkNone
		return nil
	}

	var value string
	if err := json.Unmarshal(data, &value); err != nil {
		return fmt.Errorf("failed to unmarshal mark: %w", err)
	}

	switch mark := Mark(value); mark {
	case MarkNone, MarkX, MarkO:
		*that = mark
		return nil
	default:
		return fmt.Errorf("unknown mark %q", value)
	}
}

// Board is a square grid addressed as board[x][y], x being the row.
type Board [][]Mark

func NewBoard(size int) Board {
	board := make(Board, size)
	for i := range board {
		board[i] = make([]Mark, size)
	}

	return board
}

func (that Board) Size() int {
	return len(that)
}

func (that Board) Clone() Board {
	clone := make(Board, len(that))
	for i, row := range that {
		clone[i] = append([]Mark(nil), row...)
	}

	return clone
}
