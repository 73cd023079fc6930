package console

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/rocketscienceinc/tictactoe-engine/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-engine/internal/entity"
	"github.com/rocketscienceinc/tictactoe-engine/internal/service"
	"github.com/rocketscienceinc/tictactoe-engine/internal/tictactoe"
)

// Indicator - shown while the bot picks its move, briandowns/spinner fits.
type Indicator interface {
	Start()
	Stop()
}

type noopIndicator struct{}

func (noopIndicator) Start() {}

func (noopIndicator) Stop() {}

type Session struct {
	game *tictactoe.Game
	bot  service.BotService

	in  *bufio.Scanner
	out io.Writer

	indicator Indicator
	botDelay  time.Duration
}

type SessionOption func(*Session)

func WithIndicator(indicator Indicator) SessionOption {
	return func(session *Session) {
		session.indicator = indicator
	}
}

// WithBotDelay - pause before each bot move so the spinner is visible.
func WithBotDelay(delay time.Duration) SessionOption {
	return func(session *Session) {
		session.botDelay = delay
	}
}

func NewSession(game *tictactoe.Game, bot service.BotService, in io.Reader, out io.Writer, opts ...SessionOption) *Session {
	session := &Session{
		game:      game,
		bot:       bot,
		in:        bufio.NewScanner(in),
		out:       out,
		indicator: noopIndicator{},
	}

	for _, opt := range opts {
		opt(session)
	}

	return session
}

// Run - plays until the game is over, the player quits or input ends.
func (that *Session) Run(ctx context.Context) error {
	that.render()

	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		state := that.game.State()

		switch state.Status {
		case entity.StatusInProgress:
			quit, err := that.playTurn(ctx)
			if err != nil || quit {
				return err
			}
		case entity.StatusRoundWon, entity.StatusRoundTied:
			that.announceRound(state)

			if !that.confirm("Start the next round? [Y/n]: ") {
				that.printf("Bye!\n")
				return nil
			}

			if err := that.game.StartNewRound(); err != nil {
				return fmt.Errorf("failed to start new round: %w", err)
			}

			that.render()
		case entity.StatusGameOver:
			winner := that.player(state.Winner)
			players := that.game.Players()
			that.printf("%s wins the game %d - %d!\n", winner.Name, players[0].Score, players[1].Score)

			return nil
		}
	}
}

func (that *Session) playTurn(ctx context.Context) (bool, error) {
	active := that.game.ActivePlayer()

	if active.IsBot {
		if err := that.botTurn(ctx); err != nil {
			return false, err
		}

		that.render()

		return false, nil
	}

	that.printf("%s (%s), your move [row column]: ", active.Name, active.Mark())

	line, ok := that.readLine()
	if !ok || IsQuit(line) {
		that.printf("\nBye!\n")
		return true, nil
	}

	row, column, err := ParseMove(line)
	if err != nil {
		that.printf("%v\n", ErrMalformedInput)
		return false, nil
	}

	if _, err = that.game.SubmitMove(row, column); err != nil {
		if errors.Is(err, apperror.ErrInvalidMove) {
			that.printf("%s\n", invalidMoveMessage(err))
			return false, nil
		}

		return false, fmt.Errorf("failed to submit move: %w", err)
	}

	that.render()

	return false, nil
}

func (that *Session) botTurn(ctx context.Context) error {
	that.indicator.Start()
	defer that.indicator.Stop()

	if that.botDelay > 0 {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(that.botDelay):
		}
	}

	row, column, err := that.bot.ChooseMove(that.game)
	if err != nil {
		return fmt.Errorf("bot failed to choose a move: %w", err)
	}

	logrus.Debugf("bot plays row %d, column %d", row+1, column+1)

	if _, err = that.game.SubmitMove(row, column); err != nil {
		return fmt.Errorf("bot failed to move: %w", err)
	}

	return nil
}

func (that *Session) announceRound(state tictactoe.Outcome) {
	if state.Status == entity.StatusRoundTied {
		that.printf("Round %d is a tie.\n", that.game.Round())
		return
	}

	that.printf("%s wins round %d!\n", that.player(state.Winner).Name, that.game.Round())
}

func (that *Session) confirm(prompt string) bool {
	that.printf("%s", prompt)

	line, ok := that.readLine()
	if !ok || IsQuit(line) {
		return false
	}

	return !IsDecline(line)
}

func (that *Session) readLine() (string, bool) {
	if !that.in.Scan() {
		return "", false
	}

	return that.in.Text(), true
}

func (that *Session) render() {
	that.printf("\n")
	RenderBoard(that.out, that.game.Snapshot())
	RenderScoreboard(that.out, that.game.Players(), that.game.Round(), that.game.WinTarget())
}

func (that *Session) player(seat entity.Seat) entity.Player {
	players := that.game.Players()
	if seat == entity.SeatB {
		return players[1]
	}

	return players[0]
}

func (that *Session) printf(format string, args ...any) {
	_, _ = fmt.Fprintf(that.out, format, args...)
}

func invalidMoveMessage(err error) string {
	if errors.Is(err, apperror.ErrCellOccupied) {
		return "That cell is already taken, try another one."
	}

	return fmt.Sprintf("Row and column must be between 1 and %d.", entity.BoardSize)
}
