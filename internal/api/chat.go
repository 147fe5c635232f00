package api

import (
	"context"
	"net/http"

	"github.com/hoyo-tech/hoyo-client/internal/model/chat"
)

// ChatAPI sends messages to the assistant.
type ChatAPI struct {
	c *Client
}

// Send posts a user message and returns the assistant's reply.
func (a *ChatAPI) Send(ctx context.Context, conversationID, message, model string) (chat.Message, error) {
	if model == "" {
		model = DefaultModel
	}
	raw, err := a.c.Do(ctx, http.MethodPost, "/chat", map[string]string{
		"conversationId": conversationID,
		"message":        message,
		"model":          model,
	})
	if err != nil {
		return chat.Message{}, err
	}
	var payload struct {
		AIMessage chat.Message `json:"aiMessage"`
	}
	if err := decodeInto(raw, &payload); err != nil {
		return chat.Message{}, err
	}
	return payload.AIMessage, nil
}
