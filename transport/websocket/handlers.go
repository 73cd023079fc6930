package websocket

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/rocketscienceinc/tictactoe-engine/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-engine/internal/entity"
	"github.com/rocketscienceinc/tictactoe-engine/internal/service"
	"github.com/rocketscienceinc/tictactoe-engine/transport/view"
)

const (
	CodeInvalidRequest   = "INVALID_REQUEST"
	CodeInvalidMove      = "INVALID_MOVE"
	CodeRoundAlreadyOver = "ROUND_ALREADY_OVER"
	CodeIllegalRestart   = "ILLEGAL_RESTART"
	CodeGameNotFound     = "GAME_NOT_FOUND"
	CodeInternalError    = "INTERNAL_ERROR"
)

var (
	errInvalidMessage = errors.New("invalid message")
	errUnknownAction  = errors.New("unknown action")
	errMissingGameID  = errors.New("game_id is required")
	errMissingCell    = errors.New("row and column are required")
)

func (that *Server) handleNewGame(ctx context.Context, msg *Message, conn *connection) error {
	log := that.logger.With("method", "handleNewGame")

	payloadReq, err := decodePayload(msg)
	if err != nil {
		return that.sendErrorResponse(conn, msg.Action, err)
	}

	params := service.NewGameParams{}
	if settings := payloadReq.NewGame; settings != nil {
		policy, parseErr := entity.ParseStartPolicy(settings.StartPolicy)
		if parseErr != nil {
			return that.sendErrorResponse(conn, msg.Action, fmt.Errorf("%w: %w", errInvalidMessage, parseErr))
		}

		params = service.NewGameParams{
			PlayerA:     settings.PlayerA,
			PlayerB:     settings.PlayerB,
			WinTarget:   settings.WinTarget,
			StartPolicy: policy,
			VsBot:       settings.VsBot,
		}
	}

	game, err := that.gameService.CreateGame(ctx, params)
	if err != nil {
		log.Error("failed to create game", "error", err)
		return that.sendErrorResponse(conn, msg.Action, err)
	}

	that.subscribe(game.ID, conn)

	log.Info("game created", "gameID", game.ID)

	return that.sendGame(conn, msg.Action, game)
}

func (that *Server) handleGetGame(ctx context.Context, msg *Message, conn *connection) error {
	payloadReq, err := decodeGamePayload(msg)
	if err != nil {
		return that.sendErrorResponse(conn, msg.Action, err)
	}

	game, err := that.gameService.GetGame(ctx, payloadReq.GameID)
	if err != nil {
		return that.sendErrorResponse(conn, msg.Action, err)
	}

	that.subscribe(game.ID, conn)

	return that.sendGame(conn, msg.Action, game)
}

func (that *Server) handleGameTurn(ctx context.Context, msg *Message, conn *connection) error {
	log := that.logger.With("method", "handleGameTurn")

	payloadReq, err := decodeGamePayload(msg)
	if err != nil {
		return that.sendErrorResponse(conn, msg.Action, err)
	}

	if payloadReq.Row == nil || payloadReq.Column == nil {
		return that.sendErrorResponse(conn, msg.Action, errMissingCell)
	}

	game, err := that.gameService.SubmitMove(ctx, payloadReq.GameID, *payloadReq.Row, *payloadReq.Column)
	if err != nil {
		log.Debug("move rejected", "gameID", payloadReq.GameID, "error", err)
		return that.sendErrorResponse(conn, msg.Action, err)
	}

	that.subscribe(game.ID, conn)
	that.broadcast(msg.Action, game)

	return nil
}

func (that *Server) handleNewRound(ctx context.Context, msg *Message, conn *connection) error {
	payloadReq, err := decodeGamePayload(msg)
	if err != nil {
		return that.sendErrorResponse(conn, msg.Action, err)
	}

	game, err := that.gameService.StartNewRound(ctx, payloadReq.GameID)
	if err != nil {
		return that.sendErrorResponse(conn, msg.Action, err)
	}

	that.subscribe(game.ID, conn)
	that.broadcast(msg.Action, game)

	return nil
}

func (that *Server) handleResetGame(ctx context.Context, msg *Message, conn *connection) error {
	payloadReq, err := decodeGamePayload(msg)
	if err != nil {
		return that.sendErrorResponse(conn, msg.Action, err)
	}

	game, err := that.gameService.ResetGame(ctx, payloadReq.GameID)
	if err != nil {
		return that.sendErrorResponse(conn, msg.Action, err)
	}

	that.subscribe(game.ID, conn)
	that.broadcast(msg.Action, game)

	return nil
}

func decodePayload(msg *Message) (RequestPayload, error) {
	var payloadReq RequestPayload

	if len(msg.Payload) == 0 {
		return payloadReq, nil
	}

	if err := json.Unmarshal(msg.Payload, &payloadReq); err != nil {
		return payloadReq, fmt.Errorf("%w: %w", errInvalidMessage, err)
	}

	return payloadReq, nil
}

func decodeGamePayload(msg *Message) (RequestPayload, error) {
	payloadReq, err := decodePayload(msg)
	if err != nil {
		return payloadReq, err
	}

	if payloadReq.GameID == "" {
		return payloadReq, errMissingGameID
	}

	return payloadReq, nil
}

func (that *Server) sendGame(conn *connection, action string, game *entity.Game) error {
	if err := conn.send(action, ResponsePayload{Game: view.NewGame(game)}); err != nil {
		return fmt.Errorf("failed to send game: %w", err)
	}

	return nil
}

func (that *Server) sendErrorResponse(conn *connection, action string, cause error) error {
	code, message := errorCode(cause)

	if err := conn.send(action, ResponsePayload{Error: message, Code: code}); err != nil {
		return fmt.Errorf("failed to send error response: %w", err)
	}

	return nil
}

// errorCode - maps a domain error to its wire code and message.
func errorCode(err error) (string, string) {
	switch {
	case errors.Is(err, errInvalidMessage), errors.Is(err, errUnknownAction),
		errors.Is(err, errMissingGameID), errors.Is(err, errMissingCell):
		return CodeInvalidRequest, err.Error()
	case errors.Is(err, apperror.ErrCellOccupied):
		return CodeInvalidMove, "Cell is already occupied"
	case errors.Is(err, apperror.ErrInvalidMove):
		return CodeInvalidMove, "Coordinates are outside the board"
	case errors.Is(err, apperror.ErrRoundAlreadyOver):
		return CodeRoundAlreadyOver, "Round is already over"
	case errors.Is(err, apperror.ErrIllegalRestart):
		return CodeIllegalRestart, "A new round can only start after a won or tied round"
	case errors.Is(err, apperror.ErrGameNotFound):
		return CodeGameNotFound, "Game not found"
	default:
		return CodeInternalError, "Internal server error"
	}
}
