package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"alumni/internal/config"
)

func newRootCmd(cfg config.App) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "alumnictl",
		Short:         "Alumni network administration tool",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.AddCommand(newImportCmd(cfg))
	cmd.AddCommand(newExportCmd(cfg))
	cmd.AddCommand(newTokenCmd(cfg))
	cmd.AddCommand(newCleanupCmd(cfg))
	return cmd
}

func Execute() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, err.Error())
		os.Exit(1)
	}
	if err := newRootCmd(cfg).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err.Error())
		os.Exit(1)
	}
}
