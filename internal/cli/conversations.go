package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

// newConversationsCmd groups conversation CRUD.
func newConversationsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "conversations",
		Aliases: []string{"conv"},
		Short:   "Manage conversations",
	}

	cmd.AddCommand(newConversationsListCmd())
	cmd.AddCommand(newConversationsCreateCmd())
	cmd.AddCommand(newConversationsDeleteCmd())
	cmd.AddCommand(newConversationsMessagesCmd())
	return cmd
}

func newConversationsListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List your conversations",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			if err := a.requireSession(); err != nil {
				return err
			}

			convs, err := a.client.Conversations().List(cmd.Context())
			if err != nil {
				return err
			}

			if jsonOutput {
				printJSON(convs)
				return nil
			}
			if len(convs) == 0 {
				fmt.Println("No conversations yet.")
				return nil
			}
			for _, c := range convs {
				fmt.Printf("%s  %-24s  %-12s  %d messages  %s\n",
					c.ID, c.Title, c.Model, c.MessageCount, c.UpdatedAt.Format(time.RFC3339))
			}
			return nil
		},
	}
}

func newConversationsCreateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Start a new conversation",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			if err := a.requireSession(); err != nil {
				return err
			}

			title, _ := cmd.Flags().GetString("title")
			model, _ := cmd.Flags().GetString("model")

			conv, err := a.client.Conversations().Create(cmd.Context(), title, model)
			if err != nil {
				return err
			}

			if jsonOutput {
				printJSON(conv)
			} else {
				okLabel.Println("✓ Conversation created")
				fmt.Printf("ID: %s\n", conv.ID)
			}
			return nil
		},
	}

	cmd.Flags().String("title", "", "Conversation title")
	cmd.Flags().String("model", "", "AI model (defaults to HoYo-GPT-4)")
	cmd.MarkFlagRequired("title")
	return cmd
}

func newConversationsDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <conversation-id>",
		Short: "Delete a conversation",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			if err := a.requireSession(); err != nil {
				return err
			}

			if err := a.client.Conversations().Delete(cmd.Context(), args[0]); err != nil {
				return err
			}
			if jsonOutput {
				printJSON(map[string]string{"status": "deleted"})
			} else {
				okLabel.Println("✓ Conversation deleted")
			}
			return nil
		},
	}
}

func newConversationsMessagesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "messages <conversation-id>",
		Short: "Print a conversation transcript",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			if err := a.requireSession(); err != nil {
				return err
			}

			msgs, err := a.client.Conversations().Messages(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			if jsonOutput {
				printJSON(msgs)
				return nil
			}
			for _, m := range msgs {
				fmt.Printf("[%s] %s: %s\n", m.CreatedAt.Format("15:04:05"), m.Role, m.Content)
			}
			return nil
		},
	}
}
