package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"socialfeed/internal/database"
	"socialfeed/internal/logger"
)

// NewMigrateCommand creates the migrate command.
func NewMigrateCommand() *cobra.Command {
	return &cobra.Command{
		Use:          "migrate",
		Short:        "Apply the database schema for the configured driver",
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			db, err := database.Connect(cfg)
			if err != nil {
				return fmt.Errorf("failed to connect to database: %w", err)
			}
			defer db.Close()

			if err := database.Migrate(cmd.Context(), db); err != nil {
				return err
			}

			log := logger.Component("migrate")
			log.Info().Str("driver", cfg.DBDriver).Msg("schema applied")
			return nil
		},
	}
}
