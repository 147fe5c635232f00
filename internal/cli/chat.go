package cli

import (
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/hoyo-tech/hoyo-client/internal/realtime"
)

// newChatCmd sends a message to the assistant, or follows the realtime
// channel with --watch.
func newChatCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "chat [message]",
		Short: "Send a message to the assistant",
		Long: `Chat posts a message to a conversation and prints the assistant's reply.
With --watch the command instead opens the realtime channel for the
conversation and prints pushed messages until interrupted.`,
		RunE: runChat,
	}

	cmd.Flags().String("conversation", "", "Conversation id")
	cmd.Flags().String("model", "", "AI model (defaults to HoYo-GPT-4)")
	cmd.Flags().Bool("watch", false, "Follow realtime messages instead of sending")
	cmd.MarkFlagRequired("conversation")
	return cmd
}

func runChat(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	if err := a.requireSession(); err != nil {
		return err
	}

	conversationID, _ := cmd.Flags().GetString("conversation")
	watch, _ := cmd.Flags().GetBool("watch")

	if watch {
		return watchConversation(cmd, a, conversationID)
	}

	if len(args) == 0 {
		return fmt.Errorf("message is required unless --watch is set")
	}
	message := strings.Join(args, " ")
	model, _ := cmd.Flags().GetString("model")

	reply, err := a.client.Chat().Send(cmd.Context(), conversationID, message, model)
	if err != nil {
		return err
	}

	if jsonOutput {
		printJSON(reply)
	} else {
		fmt.Println(reply.Content)
	}
	return nil
}

// watchConversation holds the realtime channel open until Ctrl-C. The
// channel is opened on entry and closed on exit; it is never shared between
// invocations.
func watchConversation(cmd *cobra.Command, a *app, conversationID string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	channel := realtime.NewChannel(a.cfg.RealtimeURL, a.store, func(ev realtime.ChatEvent) {
		if jsonOutput {
			printJSON(ev)
			return
		}
		role := ev.Role
		if role == "" {
			role = "assistant"
		}
		fmt.Printf("%s: %s\n", role, ev.Content)
	}, realtime.DefaultOptions(), a.logger)

	if err := channel.Connect(ctx, conversationID); err != nil {
		return err
	}
	defer channel.Disconnect()

	if !jsonOutput {
		fmt.Printf("Watching conversation %s (Ctrl-C to stop)\n", conversationID)
	}
	<-ctx.Done()
	return nil
}
