package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"alumni/internal/config"
	"alumni/internal/jobboard"
	"alumni/internal/store"
)

func newCleanupCmd(cfg config.App) *cobra.Command {
	dsn := cfg.DatabaseURL
	cmd := &cobra.Command{
		Use:   "cleanup",
		Short: "Delete job and internship postings whose deadline has passed",
		RunE: func(cmd *cobra.Command, _ []string) error {
			db, err := store.NewDB(cmd.Context(), dsn)
			if err != nil {
				return err
			}
			defer db.Close()

			n, err := jobboard.NewService(jobboard.NewRepository(db.Client)).CleanupExpired(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "deleted %d expired postings\n", n)
			return nil
		},
	}
	cmd.Flags().StringVar(&dsn, "database-url", dsn, "Postgres connection string")
	return cmd
}
