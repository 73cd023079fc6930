package apperror

import "errors"

var (
	ErrInvalidMove       = errors.New("invalid move")
	ErrOutOfRange        = errors.New("coordinates out of range")
	ErrCellOccupied      = errors.New("cell is already occupied")
	ErrRoundAlreadyOver  = errors.New("round is already over")
	ErrIllegalRestart    = errors.New("round cannot be restarted")
	ErrGameNotFound      = errors.New("game not found")
	ErrGameAlreadyExists = errors.New("game already exists")
)
