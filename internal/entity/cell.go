package entity

// Cell - content of a single board square.
type Cell uint8

const (
	Empty Cell = iota
	MarkA
	MarkB
)

const (
	GlyphA     = "X"
	GlyphB     = "O"
	GlyphEmpty = " "
)

// String - renders the cell as a glyph.
func (that Cell) String() string {
	switch that {
	case MarkA:
		return GlyphA
	case MarkB:
		return GlyphB
	default:
		return GlyphEmpty
	}
}

// IsMark - reports whether the cell holds a player mark.
func (that Cell) IsMark() bool {
	return that == MarkA || that == MarkB
}

// Seat - identifies one of the two players by tag, never by identity.
type Seat uint8

const (
	SeatNone Seat = iota
	SeatA
	SeatB
)

// Mark - returns the cell value the seat places on the board.
func (that Seat) Mark() Cell {
	switch that {
	case SeatA:
		return MarkA
	case SeatB:
		return MarkB
	default:
		return Empty
	}
}

// Other - returns the opposing seat.
func (that Seat) Other() Seat {
	switch that {
	case SeatA:
		return SeatB
	case SeatB:
		return SeatA
	default:
		return SeatNone
	}
}

func (that Seat) String() string {
	switch that {
	case SeatA:
		return "A"
	case SeatB:
		return "B"
	default:
		return ""
	}
}

// index - position of the seat in a two-player array.
func (that Seat) index() int {
	if that == SeatB {
		return 1
	}

	return 0
}
