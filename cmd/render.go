package cmd

import (
	"context"
	"io"
	"os"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

//nolint:gochecknoglobals // Cobra boilerplate
var renderCategory string

//nolint:gochecknoglobals // Cobra boilerplate
var renderOutput string

//nolint:gochecknoglobals // Cobra boilerplate
var renderCmd = &cobra.Command{
	Use:   "render",
	Short: "Render the page once and write the HTML",
	Long: `Fetch the sheet once, build the page and write the complete HTML document.

Example:
  sheetfolio render > index.html
  sheetfolio render --category Game --output game.html`,
	RunE: runRender,
}

//nolint:gochecknoinits // Cobra boilerplate
func init() {
	rootCmd.AddCommand(renderCmd)
	renderCmd.Flags().StringVar(&renderCategory, "category", "", "Project category to select (default All)")
	renderCmd.Flags().StringVarP(&renderOutput, "output", "o", "", "Output file (default stdout)")
}

func runRender(cmd *cobra.Command, args []string) (err error) {
	a, err := bootstrap()
	if err != nil {
		return err
	}
	defer a.shutdown()

	ctx, cancel := context.WithTimeout(context.Background(), a.cfg.Source.Timeout+a.cfg.Filter.Fallback)
	defer cancel()

	p, err := a.site.Assemble(ctx, renderCategory)
	if err != nil {
		return err
	}
	markup, err := p.HTML()
	if err != nil {
		return err
	}
	a.logger.Info("page rendered", zap.Stringer("state", p.Result.State))

	var w io.Writer = cmd.OutOrStdout()
	if renderOutput != "" {
		f, createErr := os.Create(renderOutput)
		if createErr != nil {
			err = errors.Wrapf(createErr, "failed to create %s", renderOutput)
			return err
		}
		defer f.Close()
		w = f
	}
	_, err = io.WriteString(w, markup)
	return errors.Wrap(err, "failed to write page")
}
