package api

import (
	"context"
	"net/http"

	"github.com/hoyo-tech/hoyo-client/internal/model/chat"
)

// ModelsAPI exposes the model catalog.
type ModelsAPI struct {
	c *Client
}

// List returns the models available to the authenticated user.
func (m *ModelsAPI) List(ctx context.Context) ([]chat.ModelDescriptor, error) {
	raw, err := m.c.Do(ctx, http.MethodGet, "/models", nil)
	if err != nil {
		return nil, err
	}
	var models []chat.ModelDescriptor
	if err := decodeInto(raw, &models); err != nil {
		return nil, err
	}
	return models, nil
}
