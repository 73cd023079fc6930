package entity

import (
	"fmt"

	"github.com/rocketscienceinc/tictactoe-engine/internal/apperror"
)

// BoardSize - dimension of the square board, also the winning line length.
const BoardSize = 3

// Grid - row-major copy of every cell on the board.
type Grid [BoardSize][BoardSize]Cell

// Board - fixed 3x3 square of write-once cells.
type Board struct {
	cells Grid
}

func NewBoard() *Board {
	return &Board{}
}

// BoardFromGrid - rebuilds a board from a stored snapshot.
func BoardFromGrid(grid Grid) *Board {
	return &Board{cells: grid}
}

// Place - puts the mark into an empty cell. The board is left untouched on error.
func (that *Board) Place(row, column int, mark Cell) error {
	if !InBounds(row, column) {
		return fmt.Errorf("%w: %w: row %d, column %d", apperror.ErrInvalidMove, apperror.ErrOutOfRange, row, column)
	}

	if !mark.IsMark() {
		return fmt.Errorf("%w: cannot place an empty mark", apperror.ErrInvalidMove)
	}

	if that.cells[row][column] != Empty {
		return fmt.Errorf("%w: %w: row %d, column %d", apperror.ErrInvalidMove, apperror.ErrCellOccupied, row, column)
	}

	that.cells[row][column] = mark

	return nil
}

// CellValue - reads a cell, out of range coordinates read as Empty.
func (that *Board) CellValue(row, column int) Cell {
	if !InBounds(row, column) {
		return Empty
	}

	return that.cells[row][column]
}

// Snapshot - returns a copy of the cells that never aliases the board.
func (that *Board) Snapshot() Grid {
	return that.cells
}

func (that *Board) HasAvailableCell() bool {
	return that.cells.HasAvailableCell()
}

// Reset - empties every cell in place.
func (that *Board) Reset() {
	for row := range that.cells {
		for column := range that.cells[row] {
			that.cells[row][column] = Empty
		}
	}
}

// HasAvailableCell - true while at least one cell is empty.
func (that Grid) HasAvailableCell() bool {
	for _, row := range that {
		for _, cell := range row {
			if cell == Empty {
				return true
			}
		}
	}

	return false
}

// EmptyCells - coordinates of every empty cell in row-major order.
func (that Grid) EmptyCells() [][2]int {
	cells := make([][2]int, 0, BoardSize*BoardSize)
	for row := range that {
		for column, cell := range that[row] {
			if cell == Empty {
				cells = append(cells, [2]int{row, column})
			}
		}
	}

	return cells
}

// Glyphs - renders the grid as rows of glyph strings, empty cells as "".
func (that Grid) Glyphs() [BoardSize][BoardSize]string {
	var glyphs [BoardSize][BoardSize]string
	for row := range that {
		for column, cell := range that[row] {
			if cell.IsMark() {
				glyphs[row][column] = cell.String()
			}
		}
	}

	return glyphs
}

func InBounds(row, column int) bool {
	return row >= 0 && row < BoardSize && column >= 0 && column < BoardSize
}
