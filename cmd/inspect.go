package cmd

import (
	"context"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/Zachkp/sheetfolio/internal/content"
	"github.com/Zachkp/sheetfolio/internal/sheet"
)

//nolint:gochecknoglobals // Cobra boilerplate
var inspectStrict bool

//nolint:gochecknoglobals // Cobra boilerplate
var inspectCmd = &cobra.Command{
	Use:   "inspect",
	Short: "Check the sheet's columns and count rows per type",
	Long: `Fetch the sheet, list its columns, report expected columns that are missing
and count certificates, projects and skills.

Example:
  sheetfolio inspect
  sheetfolio inspect --strict   # exit non-zero when a column is missing`,
	RunE: runInspect,
}

//nolint:gochecknoinits // Cobra boilerplate
func init() {
	rootCmd.AddCommand(inspectCmd)
	inspectCmd.Flags().BoolVar(&inspectStrict, "strict", false, "Fail when expected columns are missing")
}

func runInspect(cmd *cobra.Command, args []string) (err error) {
	a, err := bootstrap()
	if err != nil {
		return err
	}
	defer a.shutdown()

	ctx, cancel := context.WithTimeout(context.Background(), a.cfg.Source.Timeout)
	defer cancel()

	rows, err := a.source.Fetch(ctx)
	if err != nil {
		err = errors.Wrap(err, "failed to fetch sheet")
		return err
	}
	report := inspectRows(rows, a.site.Columns())
	err = report.write(cmd.OutOrStdout())
	if err != nil {
		return err
	}
	if inspectStrict && len(report.Missing) > 0 {
		err = errors.Errorf("%d expected column(s) missing", len(report.Missing))
		return err
	}
	return nil
}

type inspection struct {
	Rows    int
	Headers []string
	Missing []sheet.Field
	Counts  map[content.Type]int
}

func inspectRows(rows []sheet.Record, cols sheet.Columns) inspection {
	rows = sheet.NormalizeAll(rows)
	groups := content.Partition(rows, cols)
	counts := make(map[content.Type]int, len(content.Types))
	for _, t := range content.Types {
		counts[t] = len(groups.Of(t))
	}
	headers := sheet.Headers(rows)
	return inspection{
		Rows:    len(rows),
		Headers: headers,
		Missing: cols.Missing(headers),
		Counts:  counts,
	}
}

func (r inspection) write(out io.Writer) error {
	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintf(w, "rows\t%d\n", r.Rows)
	for _, t := range content.Types {
		fmt.Fprintf(w, "%ss\t%d\n", t, r.Counts[t])
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w, "columns:")
	for _, h := range r.Headers {
		fmt.Fprintf(w, "  %s\n", h)
	}
	if len(r.Missing) > 0 {
		fmt.Fprintln(w)
		fmt.Fprintln(w, "missing:")
		for _, f := range r.Missing {
			fmt.Fprintf(w, "  %s\t(%s)\n", f.Header, f.Name)
		}
	}
	return errors.Wrap(w.Flush(), "failed to write report")
}
