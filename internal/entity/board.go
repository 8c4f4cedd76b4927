package entity

import (
	"errors"
	"fmt"
)

const (
	Rows = 6
	Cols = 7

	// LineLength is the number of consecutive pieces that wins a game.
	LineLength = 4
)

var (
	ErrOutOfRange    = errors.New("column is out of range")
	ErrColumnFull    = errors.New("column is full")
	ErrInvalidPlayer = errors.New("invalid player")
)

// Board is the 6x7 grid, row 0 is the top. It is a value: copying a Board copies every cell.
type Board [Rows][Cols]Cell

type Coordinate struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

func (that Coordinate) IsValid() bool {
	return that.Row >= 0 && that.Row < Rows && that.Col >= 0 && that.Col < Cols
}

func NewBoard() Board {
	return Board{}
}

// Drop - places a piece of the player into the lowest empty cell of the column.
// The receiver is never modified; the updated board and the landed row are returned.
func (that Board) Drop(column int, player Player) (Board, int, error) {
	if column < 0 || column >= Cols {
		return that, -1, fmt.Errorf("%w: column %d", ErrOutOfRange, column)
	}

	if !player.IsValid() {
		return that, -1, fmt.Errorf("%w: %d", ErrInvalidPlayer, player)
	}

	for row := Rows - 1; row >= 0; row-- {
		if that[row][column].IsEmpty() {
			that[row][column] = OccupiedBy(player)
			return that, row, nil
		}
	}

	return that, -1, fmt.Errorf("%w: column %d", ErrColumnFull, column)
}

func (that Board) IsColumnFull(column int) bool {
	if column < 0 || column >= Cols {
		return true
	}
	return !that[0][column].IsEmpty()
}

// PlayableColumns - returns the columns that still accept a piece, left to right.
func (that Board) PlayableColumns() []int {
	columns := make([]int, 0, Cols)
	for col := 0; col < Cols; col++ {
		if !that.IsColumnFull(col) {
			columns = append(columns, col)
		}
	}
	return columns
}

// Pieces - counts occupied cells.
func (that Board) Pieces() int {
	count := 0
	for _, row := range that {
		for _, cell := range row {
			if !cell.IsEmpty() {
				count++
			}
		}
	}
	return count
}
