package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rocketscienceinc/tictactoe-engine/internal/entity"
	"github.com/rocketscienceinc/tictactoe-engine/internal/tictactoe"
)

func TestBotService_ChooseMove(t *testing.T) {
	t.Run("Picks only empty cells", func(t *testing.T) {
		// Given: a game where the top row is taken
		game := tictactoe.NewGame("Ann", "Bob", 5)
		for _, move := range [][2]int{{0, 0}, {0, 1}, {0, 2}} {
			_, err := game.SubmitMove(move[0], move[1])
			require.NoError(t, err)
		}

		// When: the random source selects the first remaining cell
		botService := NewBotService(&scriptedRandom{values: []int{0}})
		row, column, err := botService.ChooseMove(game)

		// Then: the chosen cell is (1, 0)
		require.NoError(t, err)
		assert.Equal(t, 1, row)
		assert.Equal(t, 0, column)
	})

	t.Run("Index maps into the remaining cells in row-major order", func(t *testing.T) {
		game := tictactoe.NewGame("Ann", "Bob", 5)
		_, err := game.SubmitMove(1, 1)
		require.NoError(t, err)

		botService := NewBotService(&scriptedRandom{values: []int{7}})
		row, column, err := botService.ChooseMove(game)

		require.NoError(t, err)
		assert.Equal(t, 2, row)
		assert.Equal(t, 2, column)
	})

	t.Run("Default random source stays on the board", func(t *testing.T) {
		game := tictactoe.NewGame("Ann", "Bob", 5)
		botService := NewBotService(nil)

		for range 20 {
			row, column, err := botService.ChooseMove(game)
			require.NoError(t, err)
			assert.True(t, entity.InBounds(row, column))
		}
	})
}

func TestBotService_MakeTurn(t *testing.T) {
	t.Run("Plays for the active player", func(t *testing.T) {
		// Given: a new game
		game := tictactoe.NewGame("Ann", "Bot", 5, tictactoe.WithBot(entity.SeatB))
		_, err := game.SubmitMove(1, 1)
		require.NoError(t, err)

		// When: the bot makes its turn
		outcome, err := NewBotService(&scriptedRandom{}).MakeTurn(game)

		// Then: B's mark is on the first empty cell and A is active
		require.NoError(t, err)
		assert.Equal(t, entity.StatusInProgress, outcome.Status)
		assert.Equal(t, entity.MarkB, game.Snapshot()[0][0])
		assert.Equal(t, entity.SeatA, game.ActivePlayer().Seat)
	})

	t.Run("Fails on a full board", func(t *testing.T) {
		// Given: a tied round
		game := tictactoe.NewGame("Ann", "Bob", 5)
		for _, move := range [][2]int{{0, 0}, {0, 1}, {0, 2}, {1, 1}, {1, 0}, {1, 2}, {2, 1}, {2, 0}, {2, 2}} {
			_, err := game.SubmitMove(move[0], move[1])
			require.NoError(t, err)
		}

		// When: the bot tries to move
		_, err := NewBotService(nil).MakeTurn(game)

		// Then: there are no moves left
		require.ErrorIs(t, err, ErrNoAvailableMoves)
	})
}
