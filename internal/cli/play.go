package cli

import (
	"fmt"
	"os"
	"time"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/briandowns/spinner"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/rocketscienceinc/tictactoe-engine/internal/console"
	"github.com/rocketscienceinc/tictactoe-engine/internal/entity"
	"github.com/rocketscienceinc/tictactoe-engine/internal/service"
	"github.com/rocketscienceinc/tictactoe-engine/internal/tictactoe"
)

const botDelay = 600 * time.Millisecond

type playOptions struct {
	playerA     string
	playerB     string
	target      int
	vsBot       bool
	startPolicy string
}

func Play() *cobra.Command {
	opts := playOptions{}

	cmd := &cobra.Command{
		Use:   "play",
		Short: "Starts a local game",
		Args:  cobra.NoArgs,
		Long: heredoc.Doc(`
			Starts a game of tic-tac-toe on this terminal.

			Player A plays X, Player B plays O. Enter moves as "row column",
			both counted from 1, e.g. "2 3" for the middle row, right column.
			The first player to win --target rounds wins the game. Enter "q"
			at any prompt to leave.
		`),
		Example: heredoc.Doc(`
			$ tictactoe play --player-a Ann --bot
			$ tictactoe play --target 3 --start-policy loser
		`),

		RunE: func(cmd *cobra.Command, args []string) error {
			conf, err := loadConfig(cmd)
			if err != nil {
				return err
			}

			if opts.target == 0 {
				opts.target = conf.Game.WinTarget
			}

			if opts.startPolicy == "" {
				opts.startPolicy = conf.Game.StartPolicy
			}

			policy, err := entity.ParseStartPolicy(opts.startPolicy)
			if err != nil {
				return err
			}

			if opts.target < 0 {
				return fmt.Errorf("--target must be positive, got %d", opts.target)
			}

			gameOpts := []tictactoe.Option{tictactoe.WithStartPolicy(policy)}
			if opts.vsBot {
				if opts.playerB == "" {
					opts.playerB = "Bot"
				}
				gameOpts = append(gameOpts, tictactoe.WithBot(entity.SeatB))
			}

			game := tictactoe.NewGame(opts.playerA, opts.playerB, opts.target, gameOpts...)

			logrus.WithFields(logrus.Fields{
				"target":       game.WinTarget(),
				"start_policy": game.StartPolicy(),
				"bot":          opts.vsBot,
			}).Debug("starting game")

			indicator := spinner.New(spinner.CharSets[14], 100*time.Millisecond, spinner.WithWriter(os.Stderr))
			indicator.Suffix = fmt.Sprintf(" %s is thinking...", game.Players()[1].Name)

			session := console.NewSession(game, service.NewBotService(nil), cmd.InOrStdin(), cmd.OutOrStdout(),
				console.WithIndicator(indicator),
				console.WithBotDelay(botDelay),
			)

			return session.Run(cmd.Context())
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&opts.playerA, "player-a", "", "Name of the player with X")
	flags.StringVar(&opts.playerB, "player-b", "", "Name of the player with O")
	flags.IntVar(&opts.target, "target", 0, "Round wins needed to win the game (default from config)")
	flags.BoolVar(&opts.vsBot, "bot", false, "Let a random bot play O")
	flags.StringVar(&opts.startPolicy, "start-policy", "", `Who opens each round: "player-a" or "loser"`)

	return cmd
}
