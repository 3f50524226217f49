package main

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"alumni/internal/auth"
	"alumni/internal/config"
)

func newTokenCmd(cfg config.App) *cobra.Command {
	var (
		subject string
		role    = auth.RoleAdmin
		ttl     = cfg.AccessTTL
	)

	cmd := &cobra.Command{
		Use:   "token --subject <name>",
		Short: "Issue a signed API token with the configured JWT key",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if strings.TrimSpace(subject) == "" {
				return errors.New("--subject is required")
			}
			tok, err := auth.Issue(subject, role, cfg.JWTIssuer, cfg.JWTSigningKey, ttl)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), tok.AccessToken)
			fmt.Fprintln(cmd.ErrOrStderr(), "expires", tok.ExpiresAt.Format(time.RFC3339))
			return nil
		},
	}
	cmd.Flags().StringVar(&subject, "subject", "", "token subject, usually an email")
	cmd.Flags().StringVar(&role, "role", role, "role claim")
	cmd.Flags().DurationVar(&ttl, "ttl", ttl, "token lifetime")
	return cmd
}
