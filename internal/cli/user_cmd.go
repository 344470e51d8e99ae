package cli

import (
	"fmt"

	"github.com/alexanderramin/planportal/internal/cli/formatter"
	"github.com/alexanderramin/planportal/internal/domain"
	"github.com/spf13/cobra"
)

func newUserCmd(a *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "user",
		Short: "Manage principals and coordinators",
	}
	cmd.AddCommand(newUserAddCmd(a), newUserListCmd(a))
	return cmd
}

func newUserAddCmd(a *App) *cobra.Command {
	var id, name string
	role := newEnumFlag(string(domain.RoleCoordinator), string(domain.RolePrincipal), string(domain.RoleCoordinator))

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Register or rename a user",
		RunE: func(cmd *cobra.Command, args []string) error {
			u, err := a.Users.Add(cmd.Context(), id, name, domain.Role(role.String()))
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Saved %s %s (%s)\n", u.Role, formatter.Bold(u.Name), u.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&id, "id", "", "User ID")
	cmd.Flags().StringVar(&name, "name", "", "Display name")
	enumVar(cmd, role, "role", "User role")
	_ = cmd.MarkFlagRequired("id")
	_ = cmd.MarkFlagRequired("name")

	return cmd
}

func newUserListCmd(a *App) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List users",
		RunE: func(cmd *cobra.Command, args []string) error {
			users, err := a.Users.List(cmd.Context())
			if err != nil {
				return err
			}
			if len(users) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), formatter.Dim("No users yet. Add one with: planportal user add"))
				return nil
			}
			rows := make([][]string, 0, len(users))
			for _, u := range users {
				rows = append(rows, []string{u.ID, u.Name, string(u.Role)})
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.RenderTable([]string{"ID", "NAME", "ROLE"}, rows))
			return nil
		},
	}
}
