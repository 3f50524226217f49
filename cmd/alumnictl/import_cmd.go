package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"alumni/internal/alumniclient"
	"alumni/internal/bulkimport"
	"alumni/internal/config"
)

type importOptions struct {
	APIURL string
	Token  string
	Delay  time.Duration
	DryRun bool
	Yes    bool
}

func newImportCmd(cfg config.App) *cobra.Command {
	opts := importOptions{
		APIURL: cfg.AlumniAPIURL,
		Token:  cfg.AlumniAPIToken,
		Delay:  cfg.ImportDelay,
	}

	cmd := &cobra.Command{
		Use:   "import FILE",
		Short: "Validate a CSV of alumni records and create the valid ones",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return runImport(ctx, cmd.InOrStdin(), cmd.OutOrStdout(), cmd.ErrOrStderr(), cfg, opts, args[0])
		},
	}
	cmd.Flags().StringVar(&opts.APIURL, "api", opts.APIURL, "alumni API base URL")
	cmd.Flags().StringVar(&opts.Token, "token", opts.Token, "admin bearer token")
	cmd.Flags().DurationVar(&opts.Delay, "delay", opts.Delay, "pause between records (negative disables)")
	cmd.Flags().BoolVar(&opts.DryRun, "dry-run", false, "only print the preview")
	cmd.Flags().BoolVarP(&opts.Yes, "yes", "y", false, "import without asking for confirmation")
	return cmd
}

func runImport(ctx context.Context, in io.Reader, out, errOut io.Writer, cfg config.App, opts importOptions, path string) error {
	st, err := os.Stat(path)
	if err != nil {
		return err
	}
	name := filepath.Base(path)
	if err := bulkimport.CheckFile(name, st.Size()); err != nil {
		return err
	}
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	client := alumniclient.New(opts.APIURL, opts.Token)
	if err := client.Health(ctx); err != nil {
		return fmt.Errorf("check %s: %w", opts.APIURL, err)
	}
	existing, err := client.ExistingIDs(ctx)
	if err != nil {
		return fmt.Errorf("load existing alumni: %w", err)
	}
	sess, err := bulkimport.NewSession(name, f, existing)
	if err != nil {
		return err
	}
	if err := bulkimport.WritePreview(out, sess.Preview); err != nil {
		return err
	}
	if opts.DryRun {
		return nil
	}
	if err := sess.Ready(); err != nil {
		return err
	}
	if !opts.Yes {
		ok, err := confirm(in, out, fmt.Sprintf("Import %d valid records to %s? [y/N] ", len(sess.Preview.Valid), opts.APIURL))
		if err != nil {
			return err
		}
		if !ok {
			fmt.Fprintln(out, "Import aborted.")
			return nil
		}
	}

	log := cfg.Logger()
	log.SetOutput(errOut)
	im := bulkimport.NewImporter(client, opts.Delay, log)
	res, runErr := sess.Import(ctx, im, func(p bulkimport.Progress) {
		fmt.Fprintf(out, "[%d/%d] %s %s\n", p.Done, p.Total, p.Record.AlumniID, p.Outcome)
	})
	if res != nil {
		if err := bulkimport.WriteResult(out, res); err != nil {
			return err
		}
	}
	if errors.Is(runErr, context.Canceled) {
		return fmt.Errorf("import cancelled after %d of %d records", res.Processed(), res.Total)
	}
	return runErr
}

func confirm(in io.Reader, out io.Writer, prompt string) (bool, error) {
	fmt.Fprint(out, prompt)
	answer, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return false, err
	}
	switch strings.ToLower(strings.TrimSpace(answer)) {
	case "y", "yes":
		return true, nil
	}
	return false, nil
}
