package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"socialfeed/internal/auth"
	"socialfeed/internal/model"
)

// TokenOptions holds flags for the token command.
type TokenOptions struct {
	Subject  string
	Name     string
	Email    string
	Picture  string
	Username string
}

// NewTokenCommand creates the token command, which mints a bearer token for local testing.
func NewTokenCommand() *cobra.Command {
	opts := &TokenOptions{}

	cmd := &cobra.Command{
		Use:   "token",
		Short: "Mint a bearer token signed with JWT_SECRET",
		Long: `Mint a bearer token signed with JWT_SECRET.

Example:
  socialfeed token --sub auth0|123 --email jane@example.com --name "Jane Doe"`,
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			token, err := auth.NewTokenManager(cfg.JWTSecret, cfg.TokenTTL).Issue(model.Principal{
				ExternalID:  opts.Subject,
				DisplayName: opts.Name,
				Email:       opts.Email,
				AvatarURL:   opts.Picture,
				Username:    opts.Username,
			})
			if err != nil {
				return err
			}

			_, err = fmt.Fprintln(cmd.OutOrStdout(), token)
			return err
		},
	}

	cmd.Flags().StringVar(&opts.Subject, "sub", "", "external subject id (required)")
	cmd.Flags().StringVar(&opts.Name, "name", "", "display name")
	cmd.Flags().StringVar(&opts.Email, "email", "", "email address")
	cmd.Flags().StringVar(&opts.Picture, "picture", "", "avatar URL")
	cmd.Flags().StringVar(&opts.Username, "username", "", "preferred username")
	_ = cmd.MarkFlagRequired("sub")

	return cmd
}
