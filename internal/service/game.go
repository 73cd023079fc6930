package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/rocketscienceinc/tictactoe-engine/internal/entity"
	"github.com/rocketscienceinc/tictactoe-engine/internal/repository"
	"github.com/rocketscienceinc/tictactoe-engine/internal/tictactoe"
)

// NewGameParams - what a caller chooses when creating a game. Zero values take the defaults.
type NewGameParams struct {
	PlayerA     string
	PlayerB     string
	WinTarget   int
	StartPolicy entity.StartPolicy
	VsBot       bool
}

// Defaults - server-wide settings applied to new games.
type Defaults struct {
	WinTarget   int
	StartPolicy entity.StartPolicy
}

type GameService interface {
	CreateGame(ctx context.Context, params NewGameParams) (*entity.Game, error)
	GetGame(ctx context.Context, id string) (*entity.Game, error)
	DeleteGame(ctx context.Context, id string) error

	SubmitMove(ctx context.Context, id string, row, column int) (*entity.Game, error)
	StartNewRound(ctx context.Context, id string) (*entity.Game, error)
	ResetGame(ctx context.Context, id string) (*entity.Game, error)
}

type gameRepo interface {
	Create(ctx context.Context, game *entity.Game) error
	GetByID(ctx context.Context, id string) (*entity.Game, error)
	Update(ctx context.Context, id string, fn repository.UpdateFunc) (*entity.Game, error)
	DeleteByID(ctx context.Context, id string) error
}

type gameService struct {
	logger *slog.Logger

	gameRepo   gameRepo
	botService BotService
	defaults   Defaults
}

func NewGameService(logger *slog.Logger, gameRepo gameRepo, botService BotService, defaults Defaults) GameService {
	return &gameService{
		logger:     logger.With("component", "gameService"),
		gameRepo:   gameRepo,
		botService: botService,
		defaults:   defaults,
	}
}

func (that *gameService) CreateGame(ctx context.Context, params NewGameParams) (*entity.Game, error) {
	winTarget := params.WinTarget
	if winTarget <= 0 {
		winTarget = that.defaults.WinTarget
	}

	policy := params.StartPolicy
	if policy == "" {
		policy = that.defaults.StartPolicy
	}

	opts := []tictactoe.Option{tictactoe.WithStartPolicy(policy)}
	if params.VsBot {
		opts = append(opts, tictactoe.WithBot(entity.SeatB))
	}

	engine := tictactoe.NewGame(params.PlayerA, params.PlayerB, winTarget, opts...)

	game := &entity.Game{ID: uuid.NewString()}
	engine.Store(game)

	if err := that.gameRepo.Create(ctx, game); err != nil {
		return nil, fmt.Errorf("failed to create game: %w", err)
	}

	that.logger.Info("game created", "gameID", game.ID, "winTarget", game.WinTarget, "vsBot", params.VsBot)

	return game, nil
}

func (that *gameService) GetGame(ctx context.Context, id string) (*entity.Game, error) {
	game, err := that.gameRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve game from storage: %w", err)
	}

	return game, nil
}

func (that *gameService) DeleteGame(ctx context.Context, id string) error {
	if err := that.gameRepo.DeleteByID(ctx, id); err != nil {
		return fmt.Errorf("failed to delete game: %w", err)
	}

	return nil
}

// SubmitMove - plays the active player's move and lets a bot opponent answer in the same transaction.
func (that *gameService) SubmitMove(ctx context.Context, id string, row, column int) (*entity.Game, error) {
	log := that.logger.With("method", "SubmitMove", "gameID", id)

	game, err := that.transition(ctx, id, func(engine *tictactoe.Game) error {
		_, err := engine.SubmitMove(row, column)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to submit move: %w", err)
	}

	log.Debug("move submitted", "row", row, "column", column, "status", game.Status)

	return game, nil
}

func (that *gameService) StartNewRound(ctx context.Context, id string) (*entity.Game, error) {
	game, err := that.transition(ctx, id, func(engine *tictactoe.Game) error {
		return engine.StartNewRound()
	})
	if err != nil {
		return nil, fmt.Errorf("failed to start new round: %w", err)
	}

	that.logger.Debug("new round started", "gameID", id, "round", game.Round)

	return game, nil
}

func (that *gameService) ResetGame(ctx context.Context, id string) (*entity.Game, error) {
	game, err := that.transition(ctx, id, func(engine *tictactoe.Game) error {
		engine.Reset()
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to reset game: %w", err)
	}

	that.logger.Debug("game reset", "gameID", id)

	return game, nil
}

// transition - restores the engine, applies fn and stores the result atomically.
func (that *gameService) transition(ctx context.Context, id string, fn func(engine *tictactoe.Game) error) (*entity.Game, error) {
	game, err := that.gameRepo.Update(ctx, id, func(game *entity.Game) error {
		engine := tictactoe.Restore(game)

		if err := fn(engine); err != nil {
			return err
		}

		if err := that.answerBot(engine); err != nil {
			return err
		}

		engine.Store(game)

		return nil
	})
	if err != nil {
		return nil, err //nolint: wrapcheck // wrapped by the callers
	}

	return game, nil
}

// answerBot - moves for the bot while it holds the turn in a running round.
func (that *gameService) answerBot(engine *tictactoe.Game) error {
	for engine.State().Status == entity.StatusInProgress && engine.ActivePlayer().IsBot {
		if _, err := that.botService.MakeTurn(engine); err != nil {
			return fmt.Errorf("bot failed to make turn: %w", err)
		}
	}

	return nil
}
