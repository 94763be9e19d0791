package cli

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"bankhub/internal/app"
)

func newServeCmd(o *options) *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "serve the ledger over HTTP",
		Long:  `Serve the ledger over HTTP/JSON until SIGINT or SIGTERM. Metrics are served on /metrics, or on metrics_addr when configured.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return app.Serve(ctx, o.app, addr)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "listen address (overrides http_addr)")
	return cmd
}
