package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rambozzang/smart-turbo-cli/internal/adapter/outbound/api"
	"github.com/rambozzang/smart-turbo-cli/internal/domain/auth"
	"github.com/rambozzang/smart-turbo-cli/internal/domain/guard"
)

var (
	pageFlag int
	sizeFlag int

	userCreateUsername string
	userCreateEmail    string
	userCreatePassword string
	userCreateFullName string
	userCreateRole     string

	userUpdateEmail    string
	userUpdateFullName string
	userUpdateRole     string
	userUpdateStatus   string

	passwdCurrent string
	passwdNew     string
)

var usersCmd = &cobra.Command{
	Use:   "users",
	Short: "Manage user accounts (managers only)",
	Long: `Manage user accounts.

These commands require user-management authority (ADMIN or MANAGER
role); others are redirected away exactly like in the dashboard.`,
}

var usersListCmd = &cobra.Command{
	Use:   "list",
	Short: "List user accounts",
	Args:  cobra.NoArgs,
	RunE:  runUsersList,
}

var usersShowCmd = &cobra.Command{
	Use:   "show <userID>",
	Short: "Show one user account",
	Args:  cobra.ExactArgs(1),
	RunE:  runUsersShow,
}

var usersCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a user account",
	Args:  cobra.NoArgs,
	RunE:  runUsersCreate,
}

var usersUpdateCmd = &cobra.Command{
	Use:   "update <userID>",
	Short: "Update a user account",
	Args:  cobra.ExactArgs(1),
	RunE:  runUsersUpdate,
}

var usersDeleteCmd = &cobra.Command{
	Use:   "delete <userID>",
	Short: "Delete a user account",
	Args:  cobra.ExactArgs(1),
	RunE:  runUsersDelete,
}

var usersPasswdCmd = &cobra.Command{
	Use:   "passwd <userID>",
	Short: "Change a user's password",
	Args:  cobra.ExactArgs(1),
	RunE:  runUsersPasswd,
}

var usersStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show user account statistics",
	Args:  cobra.NoArgs,
	RunE:  runUsersStats,
}

func init() {
	usersListCmd.Flags().IntVar(&pageFlag, "page", 0, "page number (0-based)")
	usersListCmd.Flags().IntVar(&sizeFlag, "size", 20, "page size")

	usersCreateCmd.Flags().StringVarP(&userCreateUsername, "username", "u", "", "username (required)")
	usersCreateCmd.Flags().StringVar(&userCreateEmail, "email", "", "email (required)")
	usersCreateCmd.Flags().StringVarP(&userCreatePassword, "password", "p", "", "initial password (required)")
	usersCreateCmd.Flags().StringVar(&userCreateFullName, "full-name", "", "full name")
	usersCreateCmd.Flags().StringVar(&userCreateRole, "role", "TESTER", "role: ADMIN, MANAGER, TESTER or VIEWER")
	_ = usersCreateCmd.MarkFlagRequired("username")
	_ = usersCreateCmd.MarkFlagRequired("email")
	_ = usersCreateCmd.MarkFlagRequired("password")

	usersUpdateCmd.Flags().StringVar(&userUpdateEmail, "email", "", "new email")
	usersUpdateCmd.Flags().StringVar(&userUpdateFullName, "full-name", "", "new full name")
	usersUpdateCmd.Flags().StringVar(&userUpdateRole, "role", "", "new role")
	usersUpdateCmd.Flags().StringVar(&userUpdateStatus, "status", "", "new status: ACTIVE, INACTIVE or LOCKED")

	usersPasswdCmd.Flags().StringVar(&passwdCurrent, "current", "", "current password")
	usersPasswdCmd.Flags().StringVar(&passwdNew, "new", "", "new password (required)")
	_ = usersPasswdCmd.MarkFlagRequired("new")

	usersCmd.AddCommand(usersListCmd, usersShowCmd, usersCreateCmd, usersUpdateCmd,
		usersDeleteCmd, usersPasswdCmd, usersStatsCmd)
	rootCmd.AddCommand(usersCmd)
}

// requireManagement enforces the user-management guard before an
// elevated command runs.
func requireManagement(ctx context.Context, a *app, view string) error {
	route := guard.Route{Name: view, RequiresAuth: true, RequiresAdmin: true}
	switch d := guard.Resolve(ctx, route, a.session); d {
	case guard.Allow:
		return nil
	case guard.RedirectLogin:
		return fmt.Errorf("not logged in: run \"smart-turbo login\"")
	default:
		return fmt.Errorf("access denied: %s requires user-management authority", view)
	}
}

func runUsersList(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	ctx := cmd.Context()
	defer a.close(ctx)

	if err := requireManagement(ctx, a, "users"); err != nil {
		return err
	}

	page, err := a.client.ListUsers(ctx, pageFlag, sizeFlag)
	if err != nil {
		return err
	}

	if a.jsonOutput() {
		return renderJSON(page)
	}

	w := newTable()
	fmt.Fprintln(w, "ID\tUSERNAME\tEMAIL\tROLE\tSTATUS\tLAST LOGIN")
	for _, u := range page.Content {
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\t%s\n",
			u.ID, u.Username, u.Email, u.Role, u.Status, formatTimePtr(u.LastLoginAt))
	}
	if err := w.Flush(); err != nil {
		return err
	}
	fmt.Printf("Page %d of %d (%d users)\n", page.Number+1, page.TotalPages, page.TotalElements)
	return nil
}

func runUsersShow(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	ctx := cmd.Context()
	defer a.close(ctx)

	if err := requireManagement(ctx, a, "users"); err != nil {
		return err
	}

	id, err := parseID(args[0])
	if err != nil {
		return err
	}

	user, err := a.client.GetUser(ctx, id)
	if err != nil {
		return err
	}

	if a.jsonOutput() {
		return renderJSON(user)
	}

	w := newTable()
	fmt.Fprintf(w, "ID:\t%d\n", user.ID)
	fmt.Fprintf(w, "Username:\t%s\n", user.Username)
	fmt.Fprintf(w, "Full name:\t%s\n", user.FullName)
	fmt.Fprintf(w, "Email:\t%s\n", user.Email)
	fmt.Fprintf(w, "Role:\t%s\n", user.Role)
	fmt.Fprintf(w, "Status:\t%s\n", user.Status)
	fmt.Fprintf(w, "Created:\t%s\n", formatTime(user.CreatedAt))
	fmt.Fprintf(w, "Last login:\t%s\n", formatTimePtr(user.LastLoginAt))
	return w.Flush()
}

func runUsersCreate(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	ctx := cmd.Context()
	defer a.close(ctx)

	if err := requireManagement(ctx, a, "users"); err != nil {
		return err
	}

	role := auth.Role(userCreateRole)
	if !role.IsValid() {
		return fmt.Errorf("invalid role %q: must be ADMIN, MANAGER, TESTER or VIEWER", userCreateRole)
	}

	user, err := a.client.CreateUser(ctx, api.CreateUserRequest{
		Username: userCreateUsername,
		Email:    userCreateEmail,
		Password: userCreatePassword,
		FullName: userCreateFullName,
		Role:     role,
	})
	if err != nil {
		// Validation failures carry the field-level detail in the payload.
		return fmt.Errorf("create user: %s", api.Message(err))
	}

	if a.jsonOutput() {
		return renderJSON(user)
	}
	fmt.Printf("Created user %d (%s)\n", user.ID, user.Username)
	return nil
}

func runUsersUpdate(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	ctx := cmd.Context()
	defer a.close(ctx)

	if err := requireManagement(ctx, a, "users"); err != nil {
		return err
	}

	id, err := parseID(args[0])
	if err != nil {
		return err
	}

	req := api.UpdateUserRequest{
		Email:    userUpdateEmail,
		FullName: userUpdateFullName,
	}
	if userUpdateRole != "" {
		req.Role = auth.Role(userUpdateRole)
		if !req.Role.IsValid() {
			return fmt.Errorf("invalid role %q: must be ADMIN, MANAGER, TESTER or VIEWER", userUpdateRole)
		}
	}
	if userUpdateStatus != "" {
		req.Status = auth.Status(userUpdateStatus)
	}

	user, err := a.client.UpdateUser(ctx, id, req)
	if err != nil {
		return fmt.Errorf("update user: %s", api.Message(err))
	}

	if a.jsonOutput() {
		return renderJSON(user)
	}
	fmt.Printf("Updated user %d (%s)\n", user.ID, user.Username)
	return nil
}

func runUsersDelete(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	ctx := cmd.Context()
	defer a.close(ctx)

	if err := requireManagement(ctx, a, "users"); err != nil {
		return err
	}

	id, err := parseID(args[0])
	if err != nil {
		return err
	}

	if err := a.client.DeleteUser(ctx, id); err != nil {
		return err
	}
	fmt.Printf("Deleted user %d\n", id)
	return nil
}

func runUsersPasswd(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	ctx := cmd.Context()
	defer a.close(ctx)

	if err := requireManagement(ctx, a, "users"); err != nil {
		return err
	}

	id, err := parseID(args[0])
	if err != nil {
		return err
	}

	err = a.client.ChangePassword(ctx, id, api.ChangePasswordRequest{
		CurrentPassword: passwdCurrent,
		NewPassword:     passwdNew,
	})
	if err != nil {
		return fmt.Errorf("change password: %s", api.Message(err))
	}
	fmt.Printf("Password changed for user %d\n", id)
	return nil
}

func runUsersStats(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	ctx := cmd.Context()
	defer a.close(ctx)

	if err := requireManagement(ctx, a, "users"); err != nil {
		return err
	}

	stats, err := a.client.GetUserStats(ctx)
	if err != nil {
		return err
	}

	if a.jsonOutput() {
		return renderJSON(stats)
	}

	w := newTable()
	fmt.Fprintf(w, "Total users:\t%d\n", stats.TotalUsers)
	fmt.Fprintf(w, "Active users:\t%d\n", stats.ActiveUsers)
	for role, n := range stats.UsersByRole {
		fmt.Fprintf(w, "  %s:\t%d\n", role, n)
	}
	return w.Flush()
}
