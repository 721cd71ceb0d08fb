package system

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"github.com/Alijeyrad/clinica_backend/cmd/cliutil"
	"github.com/Alijeyrad/clinica_backend/internal/repo/migrate"
	"github.com/Alijeyrad/clinica_backend/pkg/authorize"
	"github.com/Alijeyrad/clinica_backend/pkg/database"
)

func NewMigrateCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Create or update tables and seed RBAC policies",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := cliutil.Config(cmd)
			if err != nil {
				return err
			}

			timeout := time.Duration(cfg.Server.TimeoutSeconds) * time.Second
			if timeout <= 0 {
				timeout = time.Minute
			}
			ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
			defer cancel()

			fmt.Println("Running migrations for the application DB.")
			drv, err := database.NewDriver(cfg.Database)
			if err != nil {
				return fmt.Errorf("failed to open database: %w", err)
			}
			defer drv.Close()

			if err := database.Migrate(ctx, drv, cfg.Database.Migrations.SafeMode, migrate.Tables...); err != nil {
				return fmt.Errorf("failed to run migrations: %w", err)
			}

			fmt.Println("Running migrations for the Casbin DB.")
			enforcer, cleanup, err := authorize.NewEnforcer(authorize.EnforcerOptions{
				ModelPath: cfg.Authorization.CasbinModelPath,
				DSN:       database.DSN(cfg.CasbinDatabase),
			})
			if err != nil {
				return fmt.Errorf("failed to create enforcer: %w", err)
			}
			defer cleanup(context.Background())

			auth, err := authorize.NewAuthorizer(enforcer, cfg.Authorization.SuperadminBypass)
			if err != nil {
				return fmt.Errorf("failed to create authorizer: %w", err)
			}

			slog.Info("Seeding Casbin policies...")
			if err := authorize.SeedDefaultPolicies(ctx, auth); err != nil {
				return fmt.Errorf("failed to seed policies: %w", err)
			}

			fmt.Println("Migrations executed successfully.")
			return nil
		},
	}

	return cmd
}
