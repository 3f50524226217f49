package main

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"alumni/internal/alumniclient"
	"alumni/internal/config"
)

func newExportCmd(cfg config.App) *cobra.Command {
	var (
		apiURL = cfg.AlumniAPIURL
		token  = cfg.AlumniAPIToken
		format = "csv"
		output string
	)

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Download the alumni directory as CSV or XLSX",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if format != "csv" && format != "xlsx" {
				return fmt.Errorf("--format must be csv or xlsx, got %q", format)
			}
			if output == "" {
				output = "alumni_data_" + time.Now().Format(time.DateOnly) + "." + format
			}

			var w io.Writer = cmd.OutOrStdout()
			if output != "-" {
				f, err := os.Create(output)
				if err != nil {
					return err
				}
				defer f.Close()
				w = f
			}
			client := alumniclient.New(apiURL, token)
			if err := client.Export(cmd.Context(), format, w); err != nil {
				return err
			}
			if output != "-" {
				fmt.Fprintln(cmd.ErrOrStderr(), "wrote", output)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&apiURL, "api", apiURL, "alumni API base URL")
	cmd.Flags().StringVar(&token, "token", token, "admin bearer token")
	cmd.Flags().StringVar(&format, "format", format, "csv or xlsx")
	cmd.Flags().StringVarP(&output, "output", "o", "", `output file ("-" for stdout)`)
	return cmd
}
