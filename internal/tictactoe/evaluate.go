package tictactoe

import "github.com/rocketscienceinc/tictactoe-engine/internal/entity"

// winLength - consecutive marks needed for a win.
const winLength = entity.BoardSize

// Evaluate - reports whether target has a full line anywhere on the grid.
func Evaluate(grid entity.Grid, target entity.Cell) bool {
	if !target.IsMark() {
		return false
	}

	return hasStraightLine(grid, target) || hasDiagonalLine(grid, target)
}

// IsTie - a round is tied when the board is full and nobody won on the last move.
func IsTie(grid entity.Grid, won bool) bool {
	return !won && !grid.HasAvailableCell()
}

// hasStraightLine - run-length scan over every row and column. Any other cell breaks the run.
func hasStraightLine(grid entity.Grid, target entity.Cell) bool {
	for i := 0; i < entity.BoardSize; i++ {
		rowRun, columnRun := 0, 0

		for j := 0; j < entity.BoardSize; j++ {
			if grid[i][j] == target {
				rowRun++
				if rowRun >= winLength {
					return true
				}
			} else {
				rowRun = 0
			}

			if grid[j][i] == target {
				columnRun++
				if columnRun >= winLength {
					return true
				}
			} else {
				columnRun = 0
			}
		}
	}

	return false
}

// hasDiagonalLine - walks down-right and down-left from every target cell in the rows a line can start in.
func hasDiagonalLine(grid entity.Grid, target entity.Cell) bool {
	for i := 0; i <= entity.BoardSize-winLength; i++ {
		for j := 0; j < entity.BoardSize; j++ {
			if grid[i][j] != target {
				continue
			}

			downRight, downLeft := 0, 0

			for z := 0; z < winLength; z++ {
				if cellIs(grid, i+z, j+z, target) {
					downRight++
					if downRight >= winLength {
						return true
					}
				} else {
					downRight = 0
				}

				if cellIs(grid, i+z, j-z, target) {
					downLeft++
					if downLeft >= winLength {
						return true
					}
				} else {
					downLeft = 0
				}
			}
		}
	}

	return false
}

// cellIs - cells off the grid never match.
func cellIs(grid entity.Grid, row, column int, target entity.Cell) bool {
	return entity.InBounds(row, column) && grid[row][column] == target
}
