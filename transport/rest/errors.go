package rest

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rocketscienceinc/tictactoe-engine/internal/apperror"
)

const (
	CodeInvalidRequest   = "INVALID_REQUEST"
	CodeInvalidMove      = "INVALID_MOVE"
	CodeRoundAlreadyOver = "ROUND_ALREADY_OVER"
	CodeIllegalRestart   = "ILLEGAL_RESTART"
	CodeGameNotFound     = "GAME_NOT_FOUND"
	CodeInternalError    = "INTERNAL_ERROR"
)

type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type ErrorResponse struct {
	Error APIError `json:"error"`
}

// httpError - an API error with its status code.
type httpError struct {
	status   int
	apiError APIError
}

func (that *httpError) Error() string {
	return that.apiError.Message
}

func newInvalidRequestError(message string) error {
	return &httpError{http.StatusBadRequest, APIError{CodeInvalidRequest, message}}
}

func writeError(w http.ResponseWriter, err error) {
	he := toHTTPError(err)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(he.status)
	_ = json.NewEncoder(w).Encode(ErrorResponse{Error: he.apiError})
}

func toHTTPError(err error) *httpError {
	var he *httpError
	if errors.As(err, &he) {
		return he
	}

	switch {
	case errors.Is(err, apperror.ErrCellOccupied):
		return &httpError{http.StatusUnprocessableEntity, APIError{CodeInvalidMove, "Cell is already occupied"}}
	case errors.Is(err, apperror.ErrInvalidMove):
		return &httpError{http.StatusUnprocessableEntity, APIError{CodeInvalidMove, "Coordinates are outside the board"}}
	case errors.Is(err, apperror.ErrRoundAlreadyOver):
		return &httpError{http.StatusConflict, APIError{CodeRoundAlreadyOver, "Round is already over"}}
	case errors.Is(err, apperror.ErrIllegalRestart):
		return &httpError{http.StatusConflict, APIError{CodeIllegalRestart, "A new round can only start after a won or tied round"}}
	case errors.Is(err, apperror.ErrGameNotFound):
		return &httpError{http.StatusNotFound, APIError{CodeGameNotFound, "Game not found"}}
	default:
		return &httpError{http.StatusInternalServerError, APIError{CodeInternalError, "Internal server error"}}
	}
}
