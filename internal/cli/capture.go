package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
)

// newCaptureCmd groups screen-capture operations.
func newCaptureCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "capture",
		Short: "Upload and analyze screenshots",
	}

	cmd.AddCommand(newCaptureUploadCmd())
	cmd.AddCommand(newCaptureAnalyzeCmd())
	return cmd
}

func newCaptureUploadCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "upload <file>",
		Short: "Upload a screenshot for a conversation",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			if err := a.requireSession(); err != nil {
				return err
			}

			conversationID, _ := cmd.Flags().GetString("conversation")
			description, _ := cmd.Flags().GetString("description")

			file, err := os.Open(args[0])
			if err != nil {
				return fmt.Errorf("unable to open screenshot: %w", err)
			}
			defer file.Close()

			raw, err := a.client.ScreenCapture().Upload(
				cmd.Context(), conversationID, description, filepath.Base(args[0]), file)
			if err != nil {
				return err
			}

			printRaw(raw)
			return nil
		},
	}

	cmd.Flags().String("conversation", "", "Conversation id")
	cmd.Flags().String("description", "", "What the screenshot shows")
	cmd.MarkFlagRequired("conversation")
	return cmd
}

func newCaptureAnalyzeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "analyze <capture-id>",
		Short: "Run analysis on an uploaded screenshot",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			if err := a.requireSession(); err != nil {
				return err
			}

			raw, err := a.client.ScreenCapture().Analyze(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			printRaw(raw)
			return nil
		},
	}
}

// printRaw pretty-prints a raw JSON payload, or echoes it verbatim when it
// does not re-marshal cleanly.
func printRaw(raw json.RawMessage) {
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		fmt.Println(string(raw))
		return
	}
	printJSON(v)
}
