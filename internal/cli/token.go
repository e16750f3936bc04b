package cli

import (
	"fmt"
	"time"

	"github.com/fergoeqs/second-service/internal/core/service"
	"github.com/spf13/cobra"
)

var (
	tokenScopes   []string
	tokenLifetime time.Duration
)

var tokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Manage API bearer tokens",
}

var tokenIssueCmd = &cobra.Command{
	Use:   "issue <subject>",
	Short: "Issue a bearer token for the /orgdirectory API",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if !cfg.AuthEnabled() {
			return fmt.Errorf("jwt_secret_key is not configured, authentication is disabled")
		}

		authService := service.NewAuthService(cfg.JWTSecretKey, cfg.JWTAlgorithm)
		token, err := authService.IssueToken(args[0], tokenScopes, tokenLifetime)
		if err != nil {
			return fmt.Errorf("failed to issue token: %w", err)
		}

		fmt.Fprintln(cmd.OutOrStdout(), token)
		return nil
	},
}

func init() {
	tokenIssueCmd.Flags().StringSliceVar(&tokenScopes, "scope", nil, "scope to embed in the token (repeatable)")
	tokenIssueCmd.Flags().DurationVar(&tokenLifetime, "lifetime", service.DefaultTokenLifetime, "token lifetime")
	tokenCmd.AddCommand(tokenIssueCmd)
	rootCmd.AddCommand(tokenCmd)
}
