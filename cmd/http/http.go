package http

import (
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"github.com/Alijeyrad/clinica_backend/cmd/cliutil"
	"github.com/Alijeyrad/clinica_backend/internal/api/http"
	"github.com/Alijeyrad/clinica_backend/pkg/logs"
)

func NewHTTPCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "http",
		Short: "Run the clinic HTTP API",
	}
	cmd.AddCommand(newStartCommand())
	return cmd
}

func newStartCommand() *cobra.Command {
	var shutdownTimeout time.Duration

	cmd := &cobra.Command{
		Use:   "start",
		Short: "Start the HTTP API server and its event workers",
		Long: `Start the HTTP API. When nats.url is set the notification workers run
in the same process and consume the domain events the API publishes.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := cliutil.Config(cmd)
			if err != nil {
				return err
			}

			// Installed before fx starts so provider logs use it too.
			logger, closeLogs := logs.New(cfg)
			defer closeLogs()
			slog.SetDefault(logger)

			http.Start(cfg, shutdownTimeout)
			return nil
		},
	}
	cmd.Flags().DurationVar(&shutdownTimeout, "shutdown-timeout", 30*time.Second, "maximum time to wait for in-flight requests and workers on shutdown")
	return cmd
}
