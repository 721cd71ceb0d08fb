package system

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/Alijeyrad/clinica_backend/cmd/cliutil"
	"github.com/Alijeyrad/clinica_backend/pkg/authorize"
	"github.com/Alijeyrad/clinica_backend/pkg/database"
)

// openAuthorizer connects to the Casbin database without the policy watcher;
// the returned func closes the adapter.
func openAuthorizer(cmd *cobra.Command) (authorize.Authorizer, func(context.Context), error) {
	cfg, err := cliutil.Config(cmd)
	if err != nil {
		return nil, nil, err
	}
	enforcer, cleanup, err := authorize.NewEnforcer(authorize.EnforcerOptions{
		ModelPath: cfg.Authorization.CasbinModelPath,
		DSN:       database.DSN(cfg.CasbinDatabase),
	})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create enforcer: %w", err)
	}
	auth, err := authorize.NewAuthorizer(enforcer, cfg.Authorization.SuperadminBypass)
	if err != nil {
		cleanup(context.Background())
		return nil, nil, fmt.Errorf("failed to create authorizer: %w", err)
	}
	if cfg.Authorization.EnableAudit {
		auth = authorize.WithAudit(auth, nil)
	}
	return auth, cleanup, nil
}

func parseUser(s string) (authorize.GroupSubject, error) {
	id, err := uuid.Parse(s)
	if err != nil {
		return "", fmt.Errorf("--user must be a UUID: %w", err)
	}
	return authorize.GroupSubject(id.String()), nil
}

func NewGrantCommand() *cobra.Command {
	var (
		userID, roleName string
		remove           bool
	)

	cmd := &cobra.Command{
		Use:   "grant",
		Short: "Assign or remove an RBAC role for a user",
		Example: `  clinica system grant --user 0190b6a1-6f7e-7c4a-9d3e-2b1f4c5d6e7f --role receptionist
  clinica system grant --user 0190b6a1-6f7e-7c4a-9d3e-2b1f4c5d6e7f --role accountant --remove`,
		RunE: func(cmd *cobra.Command, args []string) error {
			sub, err := parseUser(userID)
			if err != nil {
				return err
			}
			role, ok := authorize.ParseRole(roleName)
			if !ok {
				return fmt.Errorf("unknown role %q", roleName)
			}

			auth, cleanup, err := openAuthorizer(cmd)
			if err != nil {
				return err
			}
			defer cleanup(context.Background())

			if remove {
				removed, err := auth.Revoke(cmd.Context(), sub, role)
				if err != nil {
					return fmt.Errorf("failed to remove role: %w", err)
				}
				if removed {
					fmt.Printf("removed %s from %s\n", role, sub)
				} else {
					fmt.Printf("%s does not have %s\n", sub, role)
				}
				return nil
			}

			added, err := auth.Grant(cmd.Context(), sub, role)
			if err != nil {
				return fmt.Errorf("failed to assign role: %w", err)
			}
			if added {
				fmt.Printf("granted %s to %s\n", role, sub)
			} else {
				fmt.Printf("%s already has %s\n", sub, role)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&userID, "user", "", "user id")
	cmd.Flags().StringVar(&roleName, "role", "", "admin, receptionist, professional, accountant or superadmin")
	cmd.Flags().BoolVar(&remove, "remove", false, "remove the role instead of granting it")
	_ = cmd.MarkFlagRequired("user")
	_ = cmd.MarkFlagRequired("role")

	return cmd
}

func NewRolesCommand() *cobra.Command {
	var userID string

	cmd := &cobra.Command{
		Use:   "roles",
		Short: "List the RBAC roles held by a user",
		RunE: func(cmd *cobra.Command, args []string) error {
			sub, err := parseUser(userID)
			if err != nil {
				return err
			}
			auth, cleanup, err := openAuthorizer(cmd)
			if err != nil {
				return err
			}
			defer cleanup(context.Background())

			roles, err := auth.Roles(cmd.Context(), sub)
			if err != nil {
				return err
			}
			if len(roles) == 0 {
				fmt.Printf("%s has no roles\n", sub)
				return nil
			}
			for _, r := range roles {
				fmt.Println(r)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&userID, "user", "", "user id")
	_ = cmd.MarkFlagRequired("user")
	return cmd
}
