package cli

import (
	"fmt"

	"github.com/adrg/xdg"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/rocketscienceinc/tictactoe-engine/internal/config"
)

// configFile - looked up under the XDG config directories.
const configFile = "tictactoe/config.yml"

func Root() *cobra.Command {
	root := &cobra.Command{
		Use:   "tictactoe",
		Short: "Play tic-tac-toe in the terminal",
		Args:  cobra.NoArgs,

		SilenceErrors: true,
		SilenceUsage:  true,

		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if cmd.Flag("trace").Changed {
				logrus.SetLevel(logrus.TraceLevel)
			}
		},
	}

	root.PersistentFlags().BoolP("trace", "t", false, "Show Trace Information")
	root.PersistentFlags().StringP("config", "c", "", "Path to a config file")

	root.AddCommand(Play())

	return root
}

// loadConfig - explicit path first, then the XDG search path, then the environment.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	path, err := cmd.Flags().GetString("config")
	if err != nil {
		return nil, fmt.Errorf("failed to read config flag: %w", err)
	}

	if path == "" {
		found, searchErr := xdg.SearchConfigFile(configFile)
		if searchErr != nil {
			logrus.Debugf("no config file found: %v", searchErr)
			return config.LoadEnv()
		}

		path = found
	}

	logrus.Debugf("loading config from %s", path)

	return config.Load(path)
}
