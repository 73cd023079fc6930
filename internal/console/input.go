package console

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var ErrMalformedInput = errors.New("enter a row and a column, e.g. 2 3")

// ParseMove - reads "row column" (1-based, space or comma separated) and
// returns zero-based coordinates. Range checks are left to the board.
func ParseMove(line string) (int, int, error) {
	fields := strings.FieldsFunc(line, func(r rune) bool {
		return r == ' ' || r == ',' || r == '\t'
	})

	if len(fields) != 2 {
		return 0, 0, ErrMalformedInput
	}

	row, err := strconv.Atoi(fields[0])
	if err != nil {
		return 0, 0, fmt.Errorf("%w: %w", ErrMalformedInput, err)
	}

	column, err := strconv.Atoi(fields[1])
	if err != nil {
		return 0, 0, fmt.Errorf("%w: %w", ErrMalformedInput, err)
	}

	return row - 1, column - 1, nil
}

// IsQuit - "q" or "quit" ends the session.
func IsQuit(line string) bool {
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "q", "quit", "exit":
		return true
	default:
		return false
	}
}

// IsDecline - an explicit "n"/"no"; an empty answer means yes.
func IsDecline(line string) bool {
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "n", "no":
		return true
	default:
		return false
	}
}
