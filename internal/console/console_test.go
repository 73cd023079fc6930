package console

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rocketscienceinc/tictactoe-engine/internal/entity"
	"github.com/rocketscienceinc/tictactoe-engine/internal/service"
	"github.com/rocketscienceinc/tictactoe-engine/internal/tictactoe"
)

// firstCell - bot source that always takes the first empty cell.
type firstCell struct{}

func (firstCell) Intn(int) int {
	return 0
}

type countingIndicator struct {
	starts, stops int
}

func (that *countingIndicator) Start() { that.starts++ }

func (that *countingIndicator) Stop() { that.stops++ }

func lines(moves ...string) *strings.Reader {
	return strings.NewReader(strings.Join(moves, "\n") + "\n")
}

func TestParseMove(t *testing.T) {
	testCases := []struct {
		input       string
		row, column int
		wantErr     bool
	}{
		{"1 1", 0, 0, false},
		{"3 2", 2, 1, false},
		{" 2,3 ", 1, 2, false},
		{"0 4", -1, 3, false},
		{"2", 0, 0, true},
		{"a b", 0, 0, true},
		{"1 2 3", 0, 0, true},
		{"", 0, 0, true},
	}

	for _, tc := range testCases {
		t.Run("Input "+tc.input, func(t *testing.T) {
			row, column, err := ParseMove(tc.input)

			if tc.wantErr {
				assert.ErrorIs(t, err, ErrMalformedInput)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tc.row, row)
			assert.Equal(t, tc.column, column)
		})
	}
}

func TestAnswers(t *testing.T) {
	assert.True(t, IsQuit(" Q "))
	assert.True(t, IsQuit("exit"))
	assert.False(t, IsQuit("1 1"))

	assert.True(t, IsDecline("No"))
	assert.False(t, IsDecline(""))
	assert.False(t, IsDecline("y"))
}

func TestRenderBoard(t *testing.T) {
	// Given: a grid with one mark of each kind
	var grid entity.Grid
	grid[0][0] = entity.MarkA
	grid[1][1] = entity.MarkB

	// When: rendering it
	var out bytes.Buffer
	RenderBoard(&out, grid)

	// Then: rows carry 1-based labels and glyphs
	rendered := strings.Split(out.String(), "\n")
	require.Len(t, rendered, 7)
	assert.Equal(t, "     1   2   3  ", rendered[0])
	assert.Equal(t, " 1   X |   |   ", rendered[1])
	assert.Equal(t, "    ---+---+---", rendered[2])
	assert.Equal(t, " 2     | O |   ", rendered[3])
}

func TestRenderScoreboard(t *testing.T) {
	players := [2]entity.Player{entity.NewPlayer("Ann", entity.SeatA), entity.NewPlayer("Bob", entity.SeatB)}
	players[0].Score = 2

	var out bytes.Buffer
	RenderScoreboard(&out, players, 4, 5)

	assert.Equal(t, "Round 4 | Ann (X) 2 - 0 Bob (O) | first to 5\n", out.String())
}

func TestSession_Run(t *testing.T) {
	t.Run("Plays a round to the win target", func(t *testing.T) {
		// Given: two humans and a target of one round
		game := tictactoe.NewGame("Ann", "Bob", 1)
		var out bytes.Buffer
		session := NewSession(game, service.NewBotService(nil), lines("1 1", "2 1", "1 2", "2 2", "1 3"), &out)

		// When: Ann completes the top row
		require.NoError(t, session.Run(context.Background()))

		// Then: the game is over with Ann as the winner
		assert.Equal(t, tictactoe.Outcome{Status: entity.StatusGameOver, Winner: entity.SeatA}, game.State())
		assert.Contains(t, out.String(), "Ann wins the game 1 - 0!")
	})

	t.Run("Re-prompts on bad and occupied input", func(t *testing.T) {
		game := tictactoe.NewGame("Ann", "Bob", 1)
		var out bytes.Buffer
		session := NewSession(game, service.NewBotService(nil), lines("1 1", "1 1", "hello", "4 1", "q"), &out)

		require.NoError(t, session.Run(context.Background()))

		assert.Contains(t, out.String(), "That cell is already taken")
		assert.Contains(t, out.String(), ErrMalformedInput.Error())
		assert.Contains(t, out.String(), "Row and column must be between 1 and 3.")
		assert.Equal(t, entity.SeatB, game.ActivePlayer().Seat)
		assert.Equal(t, entity.MarkA, game.Snapshot()[0][0])
	})

	t.Run("Asks before every new round", func(t *testing.T) {
		// Given: a target of two and a player who accepts one more round
		game := tictactoe.NewGame("Ann", "Bob", 2)
		var out bytes.Buffer
		topRow := []string{"1 1", "2 1", "1 2", "2 2", "1 3"}
		input := append(append(append([]string{}, topRow...), "y"), topRow...)
		session := NewSession(game, service.NewBotService(nil), lines(input...), &out)

		// When: Ann wins twice
		require.NoError(t, session.Run(context.Background()))

		// Then: both rounds were played
		assert.Contains(t, out.String(), "Ann wins round 1!")
		assert.Contains(t, out.String(), "Ann wins the game 2 - 0!")
		assert.Equal(t, 2, game.Round())
	})

	t.Run("Declining a new round stops the session", func(t *testing.T) {
		game := tictactoe.NewGame("Ann", "Bob", 3)
		var out bytes.Buffer
		session := NewSession(game, service.NewBotService(nil), lines("1 1", "2 1", "1 2", "2 2", "1 3", "n"), &out)

		require.NoError(t, session.Run(context.Background()))

		assert.Equal(t, entity.StatusRoundWon, game.State().Status)
		assert.True(t, strings.HasSuffix(out.String(), "Bye!\n"))
	})

	t.Run("Bot answers with a spinner", func(t *testing.T) {
		// Given: Bob is the bot and always takes the first empty cell
		game := tictactoe.NewGame("Ann", "Bob", 1, tictactoe.WithBot(entity.SeatB))
		indicator := &countingIndicator{}
		var out bytes.Buffer
		session := NewSession(game, service.NewBotService(firstCell{}), lines("2 2", "3 1", "1 3"), &out,
			WithIndicator(indicator))

		// When: Ann takes the anti-diagonal
		require.NoError(t, session.Run(context.Background()))

		// Then: the bot moved twice and Ann won
		assert.Equal(t, 2, indicator.starts)
		assert.Equal(t, 2, indicator.stops)
		assert.Equal(t, entity.MarkB, game.Snapshot()[0][0])
		assert.Equal(t, entity.MarkB, game.Snapshot()[0][1])
		assert.Equal(t, tictactoe.Outcome{Status: entity.StatusGameOver, Winner: entity.SeatA}, game.State())
	})
}
