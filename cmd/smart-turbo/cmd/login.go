package cmd

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

var (
	loginUsername string
	loginPassword string
)

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Sign in to the Smart Turbo backend",
	Long: `Sign in to the Smart Turbo backend and persist the session token.

The token is stored in the state file (~/.smart-turbo/state.json by
default, mode 0600) and attached to every subsequent command until
logout or expiry.

Examples:
  # Prompt for credentials
  smart-turbo login

  # Username from flag, password prompted
  smart-turbo login -u alice`,
	Args: cobra.NoArgs,
	RunE: runLogin,
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Sign out and clear the stored session",
	Long: `Sign out from the Smart Turbo backend.

The server is notified best-effort; the local token is cleared even
when the server cannot be reached.`,
	Args: cobra.NoArgs,
	RunE: runLogout,
}

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the signed-in user and derived permissions",
	Args:  cobra.NoArgs,
	RunE:  runWhoami,
}

func init() {
	loginCmd.Flags().StringVarP(&loginUsername, "username", "u", "", "username")
	loginCmd.Flags().StringVarP(&loginPassword, "password", "p", "", "password (prompted when omitted)")
	rootCmd.AddCommand(loginCmd)
	rootCmd.AddCommand(logoutCmd)
	rootCmd.AddCommand(whoamiCmd)
}

func runLogin(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	ctx := cmd.Context()
	defer a.close(ctx)

	username := loginUsername
	password := loginPassword
	reader := bufio.NewReader(os.Stdin)
	if username == "" {
		fmt.Fprint(os.Stderr, "Username: ")
		line, err := reader.ReadString('\n')
		if err != nil {
			return fmt.Errorf("failed to read username: %w", err)
		}
		username = strings.TrimSpace(line)
	}
	if password == "" {
		fmt.Fprint(os.Stderr, "Password: ")
		line, err := reader.ReadString('\n')
		if err != nil {
			return fmt.Errorf("failed to read password: %w", err)
		}
		password = strings.TrimRight(line, "\r\n")
	}
	if username == "" || password == "" {
		return fmt.Errorf("username and password are required")
	}

	if err := a.session.Login(ctx, username, password); err != nil {
		if msg := a.session.LastError(); msg != "" && msg != "login failed" {
			return fmt.Errorf("login failed: %s", msg)
		}
		return err
	}

	user := a.session.User()
	fmt.Printf("Logged in as %s (%s)\n", user.Username, user.Role)
	return nil
}

func runLogout(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	ctx := cmd.Context()
	defer a.close(ctx)

	if !a.session.HasToken() {
		fmt.Println("Not logged in.")
		return nil
	}

	a.session.Logout(ctx)
	fmt.Println("Logged out.")
	return nil
}

func runWhoami(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	ctx := cmd.Context()
	defer a.close(ctx)

	if !a.session.Restore(ctx) {
		return fmt.Errorf("not logged in: run \"smart-turbo login\"")
	}
	user := a.session.User()

	if a.jsonOutput() {
		return renderJSON(user)
	}

	w := newTable()
	fmt.Fprintf(w, "Username:\t%s\n", user.Username)
	fmt.Fprintf(w, "Full name:\t%s\n", user.FullName)
	fmt.Fprintf(w, "Email:\t%s\n", user.Email)
	fmt.Fprintf(w, "Role:\t%s\n", user.Role)
	fmt.Fprintf(w, "Status:\t%s\n", user.Status)
	fmt.Fprintf(w, "Manage users:\t%t\n", a.session.CanManageUsers())
	fmt.Fprintf(w, "Create tests:\t%t\n", a.session.CanCreateTests())
	fmt.Fprintf(w, "Run tests:\t%t\n", a.session.CanRunTests())
	if user.LastLoginAt != nil {
		fmt.Fprintf(w, "Last login:\t%s\n", formatTimePtr(user.LastLoginAt))
	}
	return w.Flush()
}
