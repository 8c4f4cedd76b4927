package connectfour

import "github.com/rocketscienceinc/connectfour-backend/internal/entity"

// FindWin - scans the whole board for four same-player cells in a row.
// Order: horizontal, vertical, diagonal down-right, diagonal down-left; the first match is returned.
func FindWin(board entity.Board) (entity.WinningLine, bool) {
	// horizontal
	for row := 0; row < entity.Rows; row++ {
		for col := 0; col <= entity.Cols-entity.LineLength; col++ {
			if line, ok := lineAt(board, row, col, 0, 1); ok {
				return line, true
			}
		}
	}

	// vertical
	for row := 0; row <= entity.Rows-entity.LineLength; row++ {
		for col := 0; col < entity.Cols; col++ {
			if line, ok := lineAt(board, row, col, 1, 0); ok {
				return line, true
			}
		}
	}

	// diagonal top-left to bottom-right
	for row := 0; row <= entity.Rows-entity.LineLength; row++ {
		for col := 0; col <= entity.Cols-entity.LineLength; col++ {
			if line, ok := lineAt(board, row, col, 1, 1); ok {
				return line, true
			}
		}
	}

	// diagonal top-right to bottom-left, columns right to left
	for row := 0; row <= entity.Rows-entity.LineLength; row++ {
		for col := entity.Cols - 1; col >= entity.LineLength-1; col-- {
			if line, ok := lineAt(board, row, col, 1, -1); ok {
				return line, true
			}
		}
	}

	return entity.WinningLine{}, false
}

// lineAt - tests the four cells starting at (row, col) stepping by (deltaRow, deltaCol).
// The caller guarantees all four cells are on the board.
func lineAt(board entity.Board, row, col, deltaRow, deltaCol int) (entity.WinningLine, bool) {
	first := board[row][col]
	if first.IsEmpty() {
		return entity.WinningLine{}, false
	}

	var line entity.WinningLine
	for i := range line {
		r, c := row+i*deltaRow, col+i*deltaCol
		if board[r][c] != first {
			return entity.WinningLine{}, false
		}
		line[i] = entity.Coordinate{Row: r, Col: c}
	}

	return line, true
}

// IsFull - reports whether every cell of the top row is occupied.
// Columns fill bottom-up, so a full top row is the draw condition.
func IsFull(board entity.Board) bool {
	for col := 0; col < entity.Cols; col++ {
		if board[0][col].IsEmpty() {
			return false
		}
	}

	return true
}
