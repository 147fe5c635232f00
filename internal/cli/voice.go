package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// newVoiceCmd groups voice session operations.
func newVoiceCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "voice",
		Short: "Manage voice transcription sessions",
	}

	cmd.AddCommand(newVoiceStartCmd())
	cmd.AddCommand(newVoiceEndCmd())
	cmd.AddCommand(newVoiceTranscriptCmd())
	return cmd
}

func newVoiceStartCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "start",
		Short: "Start a voice session for a conversation",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			if err := a.requireSession(); err != nil {
				return err
			}

			conversationID, _ := cmd.Flags().GetString("conversation")
			language, _ := cmd.Flags().GetString("language")

			sess, err := a.client.Voice().Start(cmd.Context(), conversationID, language)
			if err != nil {
				return err
			}

			if jsonOutput {
				printJSON(sess)
			} else {
				okLabel.Println("✓ Voice session started")
				fmt.Printf("Session ID: %s\n", sess.ID)
			}
			return nil
		},
	}

	cmd.Flags().String("conversation", "", "Conversation id")
	cmd.Flags().String("language", "", "Recognition language (defaults to ru-RU)")
	cmd.MarkFlagRequired("conversation")
	return cmd
}

func newVoiceEndCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "end <session-id>",
		Short: "End a voice session",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			if err := a.requireSession(); err != nil {
				return err
			}

			if err := a.client.Voice().End(cmd.Context(), args[0]); err != nil {
				return err
			}
			if jsonOutput {
				printJSON(map[string]string{"status": "ended"})
			} else {
				okLabel.Println("✓ Voice session ended")
			}
			return nil
		},
	}
}

func newVoiceTranscriptCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "transcript <session-id> <text>",
		Short: "Submit a transcript for a voice session",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			if err := a.requireSession(); err != nil {
				return err
			}

			sessionID := args[0]
			transcript := args[1]
			if err := a.client.Voice().Transcript(cmd.Context(), sessionID, transcript); err != nil {
				return err
			}
			if jsonOutput {
				printJSON(map[string]string{"status": "received"})
			} else {
				okLabel.Println("✓ Transcript submitted")
			}
			return nil
		},
	}
}
