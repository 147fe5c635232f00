package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/hoyo-tech/hoyo-client/internal/model/account"
)

// newProfileCmd edits the locally cached user record.
func newProfileCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "profile",
		Short: "Manage the cached user profile",
	}
	cmd.AddCommand(newProfileUpdateCmd())
	return cmd
}

func newProfileUpdateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "update",
		Short: "Update the cached profile",
		Long: `Update merges the given fields into the locally cached user record.
The change is not sent to the backend; the next "hoyo whoami" refresh
replaces it with the server's copy.`,
		RunE: runProfileUpdate,
	}

	cmd.Flags().String("username", "", "New username")
	cmd.Flags().String("email", "", "New email")
	cmd.Flags().String("plan", "", "New plan")
	return cmd
}

func runProfileUpdate(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	if err := a.requireSession(); err != nil {
		return err
	}

	var patch account.UserPatch
	if cmd.Flags().Changed("username") {
		v, _ := cmd.Flags().GetString("username")
		patch.Username = &v
	}
	if cmd.Flags().Changed("email") {
		v, _ := cmd.Flags().GetString("email")
		patch.Email = &v
	}
	if cmd.Flags().Changed("plan") {
		v, _ := cmd.Flags().GetString("plan")
		patch.Plan = &v
	}
	if patch.Username == nil && patch.Email == nil && patch.Plan == nil {
		return fmt.Errorf("nothing to update; pass at least one of --username, --email, --plan")
	}

	user, err := a.ctrl.UpdateUser(patch)
	if err != nil {
		return err
	}

	if jsonOutput {
		printJSON(user)
	} else {
		okLabel.Println("✓ Profile updated")
		fmt.Printf("%s <%s> plan=%s\n", user.Username, user.Email, user.Plan)
	}
	return nil
}
