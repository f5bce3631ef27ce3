package cli

import (
	"github.com/spf13/cobra"

	"socialfeed/internal/config"
	"socialfeed/internal/logger"
)

// NewRootCommand creates the root command for the socialfeed binary.
func NewRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "socialfeed",
		Short: "Social feed API server",
		Long:  "Posts, likes, comments, follows and notifications over HTTP.",
	}

	cmd.AddCommand(NewServeCommand())
	cmd.AddCommand(NewMigrateCommand())
	cmd.AddCommand(NewTokenCommand())

	return cmd
}

// loadConfig reads the configuration and initializes the global logger from it.
func loadConfig() (*config.Config, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, err
	}

	logger.Init(logger.Config{
		Level:       cfg.LogLevel,
		Pretty:      cfg.LogPretty,
		ServiceName: "socialfeed",
	})
	return cfg, nil
}
