// Package api is the HTTP client for the HoYo AI backend. It owns request
// construction, bearer-token injection, and the unauthorized-response policy;
// the per-resource wrappers in this package are thin shape-mappings over Do.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/hoyo-tech/hoyo-client/internal/session"
)

// Client issues authenticated requests against a fixed base URL.
type Client struct {
	baseURL string
	http    *http.Client
	store   session.Store
	logger  zerolog.Logger

	// onUnauthorized runs after a 401 has cleared the session store. The
	// presentation layer uses it to navigate to the login entry point.
	onUnauthorized func()
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithLogger attaches a logger; the default discards everything.
func WithLogger(logger zerolog.Logger) Option {
	return func(c *Client) { c.logger = logger }
}

// WithUnauthorizedHook registers the callback invoked on any 401 response.
func WithUnauthorizedHook(fn func()) Option {
	return func(c *Client) { c.onUnauthorized = fn }
}

// NewClient builds a Client for the given base URL and session store.
func NewClient(baseURL string, store session.Store, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 30 * time.Second},
		store:   store,
		logger:  zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Auth returns the authentication endpoints.
func (c *Client) Auth() *AuthAPI { return &AuthAPI{c: c} }

// Models returns the model catalog endpoints.
func (c *Client) Models() *ModelsAPI { return &ModelsAPI{c: c} }

// Conversations returns the conversation CRUD endpoints.
func (c *Client) Conversations() *ConversationsAPI { return &ConversationsAPI{c: c} }

// Chat returns the chat message endpoint.
func (c *Client) Chat() *ChatAPI { return &ChatAPI{c: c} }

// ScreenCapture returns the screen-capture endpoints.
func (c *Client) ScreenCapture() *ScreenCaptureAPI { return &ScreenCaptureAPI{c: c} }

// Voice returns the voice session endpoints.
func (c *Client) Voice() *VoiceAPI { return &VoiceAPI{c: c} }

// Do sends one JSON request. body may be nil. The response body is returned
// raw; callers decode it into their own shapes.
//
// A token in the session store is attached as a bearer header. Any 401
// response clears the store, fires the unauthorized hook, and is still
// returned to the caller as *AuthError. Other non-2xx responses become
// *HTTPError; transport failures become *NetworkError. No retries.
func (c *Client) Do(ctx context.Context, method, path string, body any) (json.RawMessage, error) {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return nil, err
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	return c.send(req)
}

// send finishes request preparation shared with the multipart path and
// applies the uniform response policy.
func (c *Client) send(req *http.Request) (json.RawMessage, error) {
	if token, ok := c.store.Token(); ok {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.Debug().Err(err).Str("method", req.Method).Str("url", req.URL.String()).Msg("request failed")
		return nil, &NetworkError{Err: err}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &NetworkError{Err: err}
	}

	if resp.StatusCode == http.StatusUnauthorized {
		// Session teardown happens here, regardless of which endpoint
		// produced the 401. The error still reaches the caller.
		if clearErr := c.store.Clear(); clearErr != nil {
			c.logger.Warn().Err(clearErr).Msg("failed to clear session after 401")
		}
		if c.onUnauthorized != nil {
			c.onUnauthorized()
		}
		return nil, &AuthError{HTTPError: HTTPError{Status: resp.StatusCode, Payload: parseErrorBody(raw)}}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &HTTPError{Status: resp.StatusCode, Payload: parseErrorBody(raw)}
	}

	if len(raw) == 0 {
		return json.RawMessage("null"), nil
	}
	return json.RawMessage(raw), nil
}

// parseErrorBody decodes an error payload, falling back to a generic message
// when the body is not JSON.
func parseErrorBody(raw []byte) map[string]any {
	var payload map[string]any
	if err := json.Unmarshal(raw, &payload); err != nil || payload == nil {
		return map[string]any{"error": "Request failed"}
	}
	return payload
}
