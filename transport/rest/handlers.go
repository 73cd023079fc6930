package rest

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/rocketscienceinc/tictactoe-engine/internal/entity"
	"github.com/rocketscienceinc/tictactoe-engine/internal/service"
	"github.com/rocketscienceinc/tictactoe-engine/transport/view"
)

type Handlers interface {
	CreateGame(w http.ResponseWriter, r *http.Request)
	GetGame(w http.ResponseWriter, r *http.Request)
	DeleteGame(w http.ResponseWriter, r *http.Request)

	SubmitMove(w http.ResponseWriter, r *http.Request)
	StartNewRound(w http.ResponseWriter, r *http.Request)
	ResetGame(w http.ResponseWriter, r *http.Request)
}

type gameService interface {
	CreateGame(ctx context.Context, params service.NewGameParams) (*entity.Game, error)
	GetGame(ctx context.Context, id string) (*entity.Game, error)
	DeleteGame(ctx context.Context, id string) error

	SubmitMove(ctx context.Context, id string, row, column int) (*entity.Game, error)
	StartNewRound(ctx context.Context, id string) (*entity.Game, error)
	ResetGame(ctx context.Context, id string) (*entity.Game, error)
}

type createGameRequest struct {
	PlayerA     string `json:"player_a"`
	PlayerB     string `json:"player_b"`
	WinTarget   int    `json:"win_target"`
	StartPolicy string `json:"start_policy"`
	VsBot       bool   `json:"vs_bot"`
}

type moveRequest struct {
	Row    *int `json:"row"`
	Column *int `json:"column"`
}

type handlers struct {
	logger      *slog.Logger
	gameService gameService
}

func NewHandlers(logger *slog.Logger, gameService gameService) Handlers {
	return &handlers{
		logger:      logger.With("component", "rest"),
		gameService: gameService,
	}
}

func (that *handlers) CreateGame(w http.ResponseWriter, r *http.Request) {
	var req createGameRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, newInvalidRequestError("Invalid JSON body"))
		return
	}

	if req.WinTarget < 0 {
		writeError(w, newInvalidRequestError("win_target must not be negative"))
		return
	}

	policy := entity.StartPolicy("")
	if req.StartPolicy != "" {
		parsed, err := entity.ParseStartPolicy(req.StartPolicy)
		if err != nil {
			writeError(w, newInvalidRequestError("start_policy must be player-a or loser"))
			return
		}
		policy = parsed
	}

	game, err := that.gameService.CreateGame(r.Context(), service.NewGameParams{
		PlayerA:     req.PlayerA,
		PlayerB:     req.PlayerB,
		WinTarget:   req.WinTarget,
		StartPolicy: policy,
		VsBot:       req.VsBot,
	})
	if err != nil {
		that.fail(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, view.NewGame(game))
}

func (that *handlers) GetGame(w http.ResponseWriter, r *http.Request) {
	game, err := that.gameService.GetGame(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		that.fail(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, view.NewGame(game))
}

func (that *handlers) DeleteGame(w http.ResponseWriter, r *http.Request) {
	if err := that.gameService.DeleteGame(r.Context(), mux.Vars(r)["id"]); err != nil {
		that.fail(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (that *handlers) SubmitMove(w http.ResponseWriter, r *http.Request) {
	var req moveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, newInvalidRequestError("Invalid JSON body"))
		return
	}

	if req.Row == nil || req.Column == nil {
		writeError(w, newInvalidRequestError("row and column are required"))
		return
	}

	game, err := that.gameService.SubmitMove(r.Context(), mux.Vars(r)["id"], *req.Row, *req.Column)
	if err != nil {
		that.fail(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, view.NewGame(game))
}

func (that *handlers) StartNewRound(w http.ResponseWriter, r *http.Request) {
	game, err := that.gameService.StartNewRound(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		that.fail(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, view.NewGame(game))
}

func (that *handlers) ResetGame(w http.ResponseWriter, r *http.Request) {
	game, err := that.gameService.ResetGame(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		that.fail(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, view.NewGame(game))
}

// fail - logs unexpected errors and writes the mapped response.
func (that *handlers) fail(w http.ResponseWriter, r *http.Request, err error) {
	he := toHTTPError(err)
	if he.status >= http.StatusInternalServerError {
		that.logger.Error("request failed", "path", r.URL.Path, "error", err)
	}

	writeError(w, he)
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		_ = json.NewEncoder(w).Encode(data)
	}
}
