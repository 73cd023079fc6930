package view

import "github.com/rocketscienceinc/tictactoe-engine/internal/entity"

// Game - client facing form of a game, marks rendered as glyphs.
type Game struct {
	ID          string                                     `json:"id"`
	Board       [entity.BoardSize][entity.BoardSize]string `json:"board"`
	Players     [2]Player                                  `json:"players"`
	Active      string                                     `json:"active,omitempty"`
	Status      entity.Status                              `json:"status"`
	Winner      string                                     `json:"winner,omitempty"`
	WinTarget   int                                        `json:"win_target"`
	Round       int                                        `json:"round"`
	StartPolicy entity.StartPolicy                         `json:"start_policy"`
}

type Player struct {
	Name  string `json:"name"`
	Seat  string `json:"seat"`
	Mark  string `json:"mark"`
	Score int    `json:"score"`
	IsBot bool   `json:"is_bot"`
}

func NewGame(game *entity.Game) *Game {
	result := &Game{
		ID:          game.ID,
		Board:       game.Board.Glyphs(),
		Status:      game.Status,
		Winner:      game.Winner.String(),
		WinTarget:   game.WinTarget,
		Round:       game.Round,
		StartPolicy: game.StartPolicy,
	}

	if game.IsInProgress() {
		result.Active = game.Active.String()
	}

	for i, player := range game.Players {
		result.Players[i] = Player{
			Name:  player.Name,
			Seat:  player.Seat.String(),
			Mark:  player.Mark().String(),
			Score: player.Score,
			IsBot: player.IsBot,
		}
	}

	return result
}
