package cli

import (
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	transport "socialfeed/internal/transport/http"
)

// NewServeCommand creates the serve command.
func NewServeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API and the invalidation workers",
		Long: `Run the HTTP API. When REDIS_URL is set the home listing is cached
and invalidation workers consume the activity stream.

Stops gracefully on SIGINT or SIGTERM.`,
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			return transport.Run(ctx, cfg)
		},
	}
}
