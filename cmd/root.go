package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/Alijeyrad/clinica_backend/cmd/cliutil"
	httpcmd "github.com/Alijeyrad/clinica_backend/cmd/http"
	systemcmd "github.com/Alijeyrad/clinica_backend/cmd/system"
)

func newRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   "clinica",
		Short: "Clinica backend for psychology and psychiatry practices.",
		Long: `Clinica manages a practice's staff, patients, appointment scheduling and
payroll behind a single HTTP API.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return cliutil.Load(cmd)
		},
	}
	root.PersistentFlags().String("config", "config.yaml", "config file path; its directory is searched for config.yaml")

	root.AddCommand(
		httpcmd.NewHTTPCommand(),
		systemcmd.NewSystemCommand(),
		newVersionCommand(),
	)
	return root
}

// Execute runs the CLI. SIGINT and SIGTERM cancel the command context so
// maintenance commands stop between steps.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := newRootCommand().ExecuteContext(ctx)
	stop()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
