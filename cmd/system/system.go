package system

import "github.com/spf13/cobra"

// NewSystemCommand groups the operator commands: database setup, RBAC
// grants and token management.
func NewSystemCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "system",
		Short: "Maintenance and tooling commands",
	}
	cmd.AddGroup(
		&cobra.Group{ID: "db", Title: "Database:"},
		&cobra.Group{ID: "access", Title: "Access control:"},
	)

	for _, c := range []*cobra.Command{NewInitCommand(), NewMigrateCommand()} {
		c.GroupID = "db"
		cmd.AddCommand(c)
	}
	for _, c := range []*cobra.Command{NewGrantCommand(), NewRolesCommand(), NewTokenCommand(), NewRevokeCommand()} {
		c.GroupID = "access"
		cmd.AddCommand(c)
	}
	cmd.AddCommand(NewGenDocsCommand())
	return cmd
}
