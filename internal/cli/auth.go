package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/hoyo-tech/hoyo-client/internal/auth"
)

// newLoginCmd authenticates and stores the session.
func newLoginCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Authenticate with the HoYo backend",
		Long: `Login exchanges email and password for a bearer token and stores it,
together with your user record, in the local session file.

Example:
  hoyo login --email demo@hoyo.tech --password hoyo123`,
		RunE: runLogin,
	}

	cmd.Flags().String("email", "", "Account email")
	cmd.Flags().String("password", "", "Account password")
	cmd.MarkFlagRequired("email")
	cmd.MarkFlagRequired("password")
	return cmd
}

func runLogin(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}

	email, _ := cmd.Flags().GetString("email")
	password, _ := cmd.Flags().GetString("password")

	result := a.ctrl.Login(cmd.Context(), email, password)
	if !result.Success {
		return fmt.Errorf("login failed: %s", result.Error)
	}

	user, _ := a.ctrl.User()
	if jsonOutput {
		printJSON(map[string]any{"status": "success", "user": user})
	} else {
		okLabel.Println("✓ Login successful")
		fmt.Printf("Signed in as %s <%s>\n", user.Username, user.Email)
	}
	return nil
}

// newRegisterCmd creates an account and signs it in.
func newRegisterCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create a HoYo account and sign in",
		RunE:  runRegister,
	}

	cmd.Flags().String("username", "", "Desired username")
	cmd.Flags().String("email", "", "Account email")
	cmd.Flags().String("password", "", "Account password")
	cmd.MarkFlagRequired("username")
	cmd.MarkFlagRequired("email")
	cmd.MarkFlagRequired("password")
	return cmd
}

func runRegister(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}

	username, _ := cmd.Flags().GetString("username")
	email, _ := cmd.Flags().GetString("email")
	password, _ := cmd.Flags().GetString("password")

	result := a.ctrl.Register(cmd.Context(), username, email, password)
	if !result.Success {
		return fmt.Errorf("registration failed: %s", result.Error)
	}

	user, _ := a.ctrl.User()
	if jsonOutput {
		printJSON(map[string]any{"status": "success", "user": user})
	} else {
		okLabel.Println("✓ Account created")
		fmt.Printf("Signed in as %s <%s>\n", user.Username, user.Email)
	}
	return nil
}

// newLogoutCmd clears the local session.
func newLogoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Clear the stored session",
		Long: `Logout removes the local session file. The token is not invalidated
server-side.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			a.ctrl.Logout()
			if jsonOutput {
				printJSON(map[string]string{"status": "success"})
			} else {
				okLabel.Println("✓ Signed out")
			}
			return nil
		},
	}
}

// newWhoamiCmd verifies the stored token and prints the current user.
func newWhoamiCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the signed-in user",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			if err := a.requireSession(); err != nil {
				return err
			}

			if a.ctrl.CheckAuth(cmd.Context()) != auth.StatusAuthenticated {
				return errNotSignedIn
			}
			user, _ := a.ctrl.User()

			if jsonOutput {
				printJSON(user)
			} else {
				fmt.Printf("%s <%s>\n", user.Username, user.Email)
				if user.Plan != "" {
					fmt.Printf("Plan: %s\n", user.Plan)
				}
			}
			return nil
		},
	}
}
