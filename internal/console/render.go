package console

import (
	"fmt"
	"io"
	"strings"

	"github.com/rocketscienceinc/tictactoe-engine/internal/entity"
)

// RenderBoard - draws the grid with 1-based row and column labels.
func RenderBoard(writer io.Writer, grid entity.Grid) {
	var sb strings.Builder

	sb.WriteString("    ")
	for column := range entity.BoardSize {
		fmt.Fprintf(&sb, " %d  ", column+1)
	}
	sb.WriteString("\n")

	for row := range entity.BoardSize {
		fmt.Fprintf(&sb, " %d  ", row+1)

		cells := make([]string, entity.BoardSize)
		for column := range entity.BoardSize {
			cells[column] = " " + grid[row][column].String() + " "
		}
		sb.WriteString(strings.Join(cells, "|"))
		sb.WriteString("\n")

		if row < entity.BoardSize-1 {
			sb.WriteString("    " + strings.Repeat("---+", entity.BoardSize-1) + "---\n")
		}
	}

	_, _ = io.WriteString(writer, sb.String())
}

// RenderScoreboard - one line with both scores, the round and the target.
func RenderScoreboard(writer io.Writer, players [2]entity.Player, round, winTarget int) {
	_, _ = fmt.Fprintf(writer, "Round %d | %s (%s) %d - %d %s (%s) | first to %d\n",
		round,
		players[0].Name, players[0].Mark(), players[0].Score,
		players[1].Score, players[1].Name, players[1].Mark(),
		winTarget,
	)
}
