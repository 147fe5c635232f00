// Package cli implements the hoyo terminal client. Every command is a thin
// shape-mapping over the SDK packages; no business logic lives here.
package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var (
	// Global flags
	jsonOutput bool
	configFile string
)

var okLabel = color.New(color.FgGreen)
var errorLabel = color.New(color.FgRed)

// rootCmd is the base command.
var rootCmd = &cobra.Command{
	Use:   "hoyo [command] [flags]",
	Short: "HoYo CLI - a terminal client for the HoYo AI assistant",
	Long: `HoYo CLI talks to a HoYo AI backend: sign in, manage conversations,
chat with the assistant, and follow realtime events from the terminal.

Examples:
  # Sign in
  hoyo login --email demo@hoyo.tech --password hoyo123

  # Start a conversation and chat
  hoyo conversations create --title "Debug session"
  hoyo chat --conversation <id> "Why does my build fail?"

  # Follow assistant messages as they are pushed
  hoyo chat --conversation <id> --watch`,
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Help()
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "", "", "Path to configuration file to override default")
	rootCmd.PersistentFlags().BoolVarP(&jsonOutput, "json", "j", false, "Output in JSON format")

	rootCmd.AddCommand(newLoginCmd())
	rootCmd.AddCommand(newRegisterCmd())
	rootCmd.AddCommand(newLogoutCmd())
	rootCmd.AddCommand(newWhoamiCmd())
	rootCmd.AddCommand(newModelsCmd())
	rootCmd.AddCommand(newConversationsCmd())
	rootCmd.AddCommand(newChatCmd())
	rootCmd.AddCommand(newVoiceCmd())
	rootCmd.AddCommand(newCaptureCmd())
	rootCmd.AddCommand(newProfileCmd())
}

// Execute runs the root command. Called once from main.
func Execute() {
	rootCmd.SilenceErrors = true
	rootCmd.SilenceUsage = true

	if err := rootCmd.Execute(); err != nil {
		if jsonOutput {
			printJSON(map[string]string{"error": err.Error()})
		} else {
			errorLabel.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		os.Exit(1)
	}
}

// printJSON prints the given value as indented JSON to stdout.
func printJSON(data interface{}) {
	out, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		errorLabel.Fprintf(os.Stderr, "Error: %v\n", err)
		return
	}
	fmt.Println(string(out))
}

var errNotSignedIn = errors.New("not signed in; run \"hoyo login\" first")
