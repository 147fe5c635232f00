package api

import (
	"context"
	"net/http"

	"github.com/hoyo-tech/hoyo-client/internal/model/chat"
)

// ConversationsAPI covers conversation CRUD.
type ConversationsAPI struct {
	c *Client
}

// DefaultModel is the model assigned to new conversations when the caller
// does not pick one.
const DefaultModel = "HoYo-GPT-4"

// Create starts a new conversation with the given title and model.
func (a *ConversationsAPI) Create(ctx context.Context, title, model string) (chat.Conversation, error) {
	if model == "" {
		model = DefaultModel
	}
	raw, err := a.c.Do(ctx, http.MethodPost, "/conversations", map[string]string{
		"title": title,
		"model": model,
	})
	if err != nil {
		return chat.Conversation{}, err
	}
	var conv chat.Conversation
	if err := decodeInto(raw, &conv); err != nil {
		return chat.Conversation{}, err
	}
	return conv, nil
}

// List returns the user's conversations, most recently updated first.
func (a *ConversationsAPI) List(ctx context.Context) ([]chat.Conversation, error) {
	raw, err := a.c.Do(ctx, http.MethodGet, "/conversations", nil)
	if err != nil {
		return nil, err
	}
	var convs []chat.Conversation
	if err := decodeInto(raw, &convs); err != nil {
		return nil, err
	}
	return convs, nil
}

// Messages returns the stored transcript of one conversation.
func (a *ConversationsAPI) Messages(ctx context.Context, conversationID string) ([]chat.Message, error) {
	raw, err := a.c.Do(ctx, http.MethodGet, "/conversations/"+conversationID+"/messages", nil)
	if err != nil {
		return nil, err
	}
	var payload struct {
		Messages []chat.Message `json:"messages"`
	}
	if err := decodeInto(raw, &payload); err != nil {
		return nil, err
	}
	return payload.Messages, nil
}

// Delete removes a conversation and its messages.
func (a *ConversationsAPI) Delete(ctx context.Context, conversationID string) error {
	_, err := a.c.Do(ctx, http.MethodDelete, "/conversations/"+conversationID, nil)
	return err
}
