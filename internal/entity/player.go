package entity

type Player struct {
	Name  string `json:"name"`
	Seat  Seat   `json:"seat"`
	Score int    `json:"score"`
	IsBot bool   `json:"is_bot,omitempty"`
}

func NewPlayer(name string, seat Seat) Player {
	return Player{
		Name: name,
		Seat: seat,
	}
}

// Mark - the cell value this player places.
func (that Player) Mark() Cell {
	return that.Seat.Mark()
}
