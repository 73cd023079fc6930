package entity

import (
	"errors"
	"fmt"
	"strings"
)

// Status - state tag of the round/game state machine.
type Status string

const (
	StatusInProgress Status = "in_progress"
	StatusRoundWon   Status = "round_won"
	StatusRoundTied  Status = "round_tied"
	StatusGameOver   Status = "game_over"
)

// StartPolicy - decides which seat opens every new round.
type StartPolicy string

const (
	StartPlayerA StartPolicy = "player-a"
	StartLoser   StartPolicy = "loser"
)

// DefaultWinTarget - round wins needed to take the game.
const DefaultWinTarget = 5

var ErrUnknownStartPolicy = errors.New("unknown start policy")

func ParseStartPolicy(value string) (StartPolicy, error) {
	switch StartPolicy(strings.ToLower(strings.TrimSpace(value))) {
	case "", StartPlayerA:
		return StartPlayerA, nil
	case StartLoser:
		return StartLoser, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownStartPolicy, value)
	}
}

// Game - stored form of a game between two seats.
type Game struct {
	ID          string      `json:"id"`
	Board       Grid        `json:"board"`
	Players     [2]Player   `json:"players"`
	Active      Seat        `json:"active"`
	Status      Status      `json:"status"`
	Winner      Seat        `json:"winner,omitempty"`
	WinTarget   int         `json:"win_target"`
	Round       int         `json:"round"`
	StartPolicy StartPolicy `json:"start_policy"`
}

func (that *Game) IsInProgress() bool {
	return that.Status == StatusInProgress
}

// IsRoundOver - true in RoundWon and RoundTied, the states a new round may start from.
func (that *Game) IsRoundOver() bool {
	return that.Status == StatusRoundWon || that.Status == StatusRoundTied
}

func (that *Game) IsGameOver() bool {
	return that.Status == StatusGameOver
}

// Player - returns the player sitting in the seat.
func (that *Game) Player(seat Seat) *Player {
	return &that.Players[seat.index()]
}

func (that *Game) ActivePlayer() *Player {
	return that.Player(that.Active)
}

// BotToMove - true when the round is running and the active seat is a bot.
func (that *Game) BotToMove() bool {
	return that.IsInProgress() && that.ActivePlayer().IsBot
}
