package commands

import (
	"github.com/mosacup/webboard/shared/config"
	"github.com/mosacup/webboard/shared/logger"
	"github.com/spf13/cobra"
)

var configFolder string

var rootCmd = newRootCmd()

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "webboard",
		Short: "Bulletin board backend with a LINE chat bot",
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
		SilenceErrors: true,
		SilenceUsage:  true,
	}
	cmd.PersistentFlags().StringVar(&configFolder, "config_folder", "config", "path to folder with public.yaml and private.yaml")

	cmd.AddCommand(newServeCmd(), newMigrateCmd(), newRichMenuCmd())
	return cmd
}

// Execute runs the command selected by os.Args.
func Execute() error {
	return rootCmd.Execute()
}

// loadConfig reads the config folder and configures the global logger from it.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(configFolder)
	if err != nil {
		return nil, err
	}
	logger.Initialize(cfg.Public.LogLevel, cfg.Public.LogJSON)
	return cfg, nil
}
