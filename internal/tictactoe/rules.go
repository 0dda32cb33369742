package tictactoe

import "github.com/rocketscienceinc/tictactoe-matchmaker/internal/entity"

// directions scanned for a line: row, column, main diagonal, anti-diagonal.
var directions = [4][2]int{
	{0, 1},
	{1, 0},
	{1, 1},
	{1, -1},
}

func InBounds(board entity.Board, x, y int) bool {
	return x >= 0 && x < board.Size() && y >= 0 && y < board.Size()
}

// HasWinningLine reports whether mark occupies length consecutive cells in any row, column or
// diagonal. On a 3x3 board with length 3 this covers the 3 rows, 3 columns and 2 diagonals.
func HasWinningLine(board entity.Board, mark entity.Mark, length int) bool {
	if mark == entity.MarkNone || length <= 0 {
		return false
	}

	for x := range board {
		for y := range board[x] {
			if board[x][y] != mark {
				continue
			}

			for _, dir := range directions {
				if runLength(board, mark, x, y, dir[0], dir[1], length) >= length {
					return true
				}
			}
		}
	}

	return false
}

func runLength(board entity.Board, mark entity.Mark, x, y, dx, dy, limit int) int {
	count := 0
	for count < limit && InBounds(board, x, y) && board[x][y] == mark {
		count++
		x += dx
		y += dy
	}

	return count
}

// IsFull reports whether every cell is marked.
func IsFull(board entity.Board) bool {
	for _, row := range board {
		for _, cell := range row {
			if cell == entity.MarkNone {
				return false
			}
		}
	}

	return true
}
