package tictactoe

import (
	"fmt"

	"github.com/rocketscienceinc/tictactoe-engine/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-engine/internal/entity"
)

const (
	DefaultNameA = "Player A"
	DefaultNameB = "Player B"
)

// Outcome - state tag after a transition, Winner is set on RoundWon and GameOver.
type Outcome struct {
	Status entity.Status `json:"status"`
	Winner entity.Seat   `json:"winner,omitempty"`
}

// Game - the round/game state machine. It is not safe for concurrent use,
// callers serialize every transition.
type Game struct {
	board       *entity.Board
	players     [2]entity.Player
	active      entity.Seat
	status      entity.Status
	winner      entity.Seat
	winTarget   int
	round       int
	startPolicy entity.StartPolicy
}

type Option func(*Game)

// WithStartPolicy - fixes which seat opens every new round.
func WithStartPolicy(policy entity.StartPolicy) Option {
	return func(game *Game) {
		game.startPolicy = policy
	}
}

// WithBot - marks the seat as played by the random bot.
func WithBot(seat entity.Seat) Option {
	return func(game *Game) {
		if seat == entity.SeatA || seat == entity.SeatB {
			game.player(seat).IsBot = true
		}
	}
}

// NewGame - starts a game in progress with Player A to move.
func NewGame(nameA, nameB string, winTarget int, opts ...Option) *Game {
	if nameA == "" {
		nameA = DefaultNameA
	}

	if nameB == "" {
		nameB = DefaultNameB
	}

	if winTarget <= 0 {
		winTarget = entity.DefaultWinTarget
	}

	game := &Game{
		board:       entity.NewBoard(),
		players:     [2]entity.Player{entity.NewPlayer(nameA, entity.SeatA), entity.NewPlayer(nameB, entity.SeatB)},
		active:      entity.SeatA,
		status:      entity.StatusInProgress,
		winTarget:   winTarget,
		round:       1,
		startPolicy: entity.StartPlayerA,
	}

	for _, opt := range opts {
		opt(game)
	}

	return game
}

// Restore - rebuilds the state machine from a stored game.
func Restore(record *entity.Game) *Game {
	game := &Game{
		board:       entity.BoardFromGrid(record.Board),
		players:     record.Players,
		active:      record.Active,
		status:      record.Status,
		winner:      record.Winner,
		winTarget:   record.WinTarget,
		round:       record.Round,
		startPolicy: record.StartPolicy,
	}

	if game.winTarget <= 0 {
		game.winTarget = entity.DefaultWinTarget
	}

	if game.startPolicy == "" {
		game.startPolicy = entity.StartPlayerA
	}

	if game.active == entity.SeatNone {
		game.active = entity.SeatA
	}

	if game.status == "" {
		game.status = entity.StatusInProgress
	}

	if game.round <= 0 {
		game.round = 1
	}

	return game
}

// Store - writes the current state into a stored game, the ID is left as is.
func (that *Game) Store(record *entity.Game) {
	record.Board = that.board.Snapshot()
	record.Players = that.players
	record.Active = that.active
	record.Status = that.status
	record.Winner = that.winner
	record.WinTarget = that.winTarget
	record.Round = that.round
	record.StartPolicy = that.startPolicy
}

// SubmitMove - places the active player's mark and advances the state machine.
func (that *Game) SubmitMove(row, column int) (Outcome, error) {
	if that.status != entity.StatusInProgress {
		return that.State(), apperror.ErrRoundAlreadyOver
	}

	mover := that.active
	mark := mover.Mark()

	if err := that.board.Place(row, column, mark); err != nil {
		return that.State(), fmt.Errorf("invalid turn: %w", err)
	}

	won := Evaluate(that.board.Snapshot(), mark)

	switch {
	case won:
		player := that.player(mover)
		player.Score++
		that.winner = mover

		if player.Score >= that.winTarget {
			that.status = entity.StatusGameOver
		} else {
			that.status = entity.StatusRoundWon
		}
	case IsTie(that.board.Snapshot(), won):
		that.status = entity.StatusRoundTied
	default:
		that.active = mover.Other()
	}

	return that.State(), nil
}

// StartNewRound - clears the board after a won or tied round. Scores are kept.
func (that *Game) StartNewRound() error {
	if that.status != entity.StatusRoundWon && that.status != entity.StatusRoundTied {
		return fmt.Errorf("%w: game is %s", apperror.ErrIllegalRestart, that.status)
	}

	that.active = that.openingSeat()
	that.board.Reset()
	that.status = entity.StatusInProgress
	that.winner = entity.SeatNone
	that.round++

	return nil
}

// Reset - starts the whole game over with zeroed scores.
func (that *Game) Reset() {
	for i := range that.players {
		that.players[i].Score = 0
	}

	that.board.Reset()
	that.active = entity.SeatA
	that.status = entity.StatusInProgress
	that.winner = entity.SeatNone
	that.round = 1
}

func (that *Game) State() Outcome {
	return Outcome{Status: that.status, Winner: that.winner}
}

func (that *Game) ActivePlayer() entity.Player {
	return *that.player(that.active)
}

// Players - copies of both players, seat A first.
func (that *Game) Players() [2]entity.Player {
	return that.players
}

func (that *Game) Snapshot() entity.Grid {
	return that.board.Snapshot()
}

func (that *Game) WinTarget() int {
	return that.winTarget
}

func (that *Game) Round() int {
	return that.round
}

func (that *Game) StartPolicy() entity.StartPolicy {
	return that.startPolicy
}

// openingSeat - seat that moves first in the next round.
func (that *Game) openingSeat() entity.Seat {
	if that.startPolicy == entity.StartLoser && that.status == entity.StatusRoundWon {
		return that.winner.Other()
	}

	return entity.SeatA
}

func (that *Game) player(seat entity.Seat) *entity.Player {
	if seat == entity.SeatB {
		return &that.players[1]
	}

	return &that.players[0]
}
