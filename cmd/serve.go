package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/Zachkp/sheetfolio/internal/server"
)

//nolint:gochecknoglobals // Cobra boilerplate
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the portfolio over HTTP",
	Long: `Serve the portfolio page, per-section fragments and the JSON content API.

The port comes from server.port, overridden by $PORT.

Example:
  sheetfolio serve
  PORT=3000 sheetfolio serve --config site.yaml`,
	RunE: runServe,
}

//nolint:gochecknoinits // Cobra boilerplate
func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) (err error) {
	a, err := bootstrap()
	if err != nil {
		return err
	}
	defer a.shutdown()

	srv, err := server.New(a.site, a.logger)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	err = srv.Run(ctx, ":"+a.cfg.Server.Port)
	return err
}
