package service

import (
	"errors"
	"fmt"
	"math/rand"

	"github.com/rocketscienceinc/tictactoe-engine/internal/tictactoe"
)

var ErrNoAvailableMoves = errors.New("no available moves")

// RandomSource - picks an index in [0, n).
type RandomSource interface {
	Intn(n int) int
}

type mathRandom struct{}

func (mathRandom) Intn(n int) int {
	return rand.Intn(n) //nolint: gosec // it's ok
}

type BotService interface {
	// ChooseMove - picks one of the empty cells uniformly at random.
	ChooseMove(game *tictactoe.Game) (row, column int, err error)
	// MakeTurn - plays the chosen move for the active player.
	MakeTurn(game *tictactoe.Game) (tictactoe.Outcome, error)
}

type botService struct {
	random RandomSource
}

// NewBotService - a nil source falls back to math/rand.
func NewBotService(random RandomSource) BotService {
	if random == nil {
		random = mathRandom{}
	}

	return &botService{
		random: random,
	}
}

func (that *botService) ChooseMove(game *tictactoe.Game) (int, int, error) {
	availableCells := game.Snapshot().EmptyCells()
	if len(availableCells) == 0 {
		return 0, 0, ErrNoAvailableMoves
	}

	chosenCell := availableCells[that.random.Intn(len(availableCells))]

	return chosenCell[0], chosenCell[1], nil
}

func (that *botService) MakeTurn(game *tictactoe.Game) (tictactoe.Outcome, error) {
	row, column, err := that.ChooseMove(game)
	if err != nil {
		return game.State(), err
	}

	outcome, err := game.SubmitMove(row, column)
	if err != nil {
		return outcome, fmt.Errorf("bot failed to make turn: %w", err)
	}

	return outcome, nil
}
