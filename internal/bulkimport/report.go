package bulkimport

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
)

// WritePreview prints the preview counters followed by every rejected row.
func WritePreview(w io.Writer, p *Preview) error {
	s := p.Summary()
	if _, err := fmt.Fprintf(w, "Total rows: %d  Valid: %d  Invalid: %d\n", s.Total, s.Valid, s.Invalid); err != nil {
		return err
	}
	if len(p.Invalid) == 0 {
		return nil
	}
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "LINE\tVALUES\tERRORS")
	for _, row := range p.Invalid {
		values := row.Raw
		if values == nil {
			values = row.Record.Values()
		}
		fmt.Fprintf(tw, "%d\t%s\t%s\n", row.Line, strings.Join(values, " | "), strings.Join(Messages(row.Issues), "; "))
	}
	return tw.Flush()
}

// WriteResult prints the import counters and the failed records.
func WriteResult(w io.Writer, r *Result) error {
	if _, err := fmt.Fprintf(w, "Imported: %d  Skipped: %d  Failed: %d  (%s)\n", r.Succeeded, r.Skipped, r.Failed, r.State); err != nil {
		return err
	}
	if len(r.Failures) == 0 {
		return nil
	}
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ALUMNI ID\tNAME\tERROR")
	for _, f := range r.Failures {
		fmt.Fprintf(tw, "%s\t%s\t%s\n", f.Record.AlumniID, f.Record.Name, f.Message)
	}
	return tw.Flush()
}
