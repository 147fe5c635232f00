// Package realtime maintains the WebSocket connection that carries
// server-pushed chat events for one conversation.
package realtime

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
)

// State is the channel lifecycle position.
type State int

const (
	StateDisconnected State = iota
	StateConnecting
	StateConnected
	StateJoined
	StateError
)

// String returns the lowercase state name.
func (s State) String() string {
	switch s {
	case StateDisconnected:
		return "disconnected"
	case StateConnecting:
		return "connecting"
	case StateConnected:
		return "connected"
	case StateJoined:
		return "joined"
	case StateError:
		return "error"
	default:
		return "unknown"
	}
}

// MessageHandler receives chat messages pushed by the server.
type MessageHandler func(ChatEvent)

// ChatEvent is an inbound frame tagged type "message".
type ChatEvent struct {
	ConversationID string `json:"conversationId,omitempty"`
	Content        string `json:"content"`
	Role           string `json:"role,omitempty"`
}

// frame is the wire envelope; Type discriminates, everything else rides along.
type frame struct {
	Type           string `json:"type"`
	ConversationID string `json:"conversationId,omitempty"`
	Content        string `json:"content,omitempty"`
	Role           string `json:"role,omitempty"`
}

// TokenSource supplies the bearer token for the connect handshake.
type TokenSource interface {
	Token() (string, bool)
}

// Options tunes the transport.
type Options struct {
	HandshakeTimeout time.Duration
	WriteTimeout     time.Duration
}

// DefaultOptions mirrors the timeouts used for the backend's other upstream
// connections.
func DefaultOptions() Options {
	return Options{
		HandshakeTimeout: 30 * time.Second,
		WriteTimeout:     10 * time.Second,
	}
}

// Channel manages a single connection joined to one conversation room.
// It never reconnects on its own; after a transport error the caller decides
// whether to call Connect again.
type Channel struct {
	url     string
	tokens  TokenSource
	handler MessageHandler
	opts    Options
	logger  zerolog.Logger

	mu    sync.Mutex
	state State
	conn  *websocket.Conn

	writeMu sync.Mutex // serializes writes; gorilla allows one writer at a time
}

// NewChannel builds a disconnected channel. url is the realtime endpoint
// without the token query parameter. handler may be nil; inbound messages are
// then dropped.
func NewChannel(url string, tokens TokenSource, handler MessageHandler, opts Options, logger zerolog.Logger) *Channel {
	if opts.HandshakeTimeout == 0 {
		opts.HandshakeTimeout = DefaultOptions().HandshakeTimeout
	}
	if opts.WriteTimeout == 0 {
		opts.WriteTimeout = DefaultOptions().WriteTimeout
	}
	return &Channel{
		url:     url,
		tokens:  tokens,
		handler: handler,
		opts:    opts,
		logger:  logger,
	}
}

// State reports the current lifecycle position.
func (c *Channel) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Connect dials the realtime endpoint and joins the conversation room. The
// join is optimistic: the channel counts as joined once the join frame is
// written, without waiting for a server acknowledgment.
func (c *Channel) Connect(ctx context.Context, conversationID string) error {
	c.mu.Lock()
	if c.state == StateConnecting || c.state == StateConnected || c.state == StateJoined {
		c.mu.Unlock()
		return fmt.Errorf("channel already %s", c.state)
	}
	c.state = StateConnecting
	c.mu.Unlock()

	url := c.url
	if token, ok := c.tokens.Token(); ok {
		url += "?token=" + token
	}

	dialer := &websocket.Dialer{HandshakeTimeout: c.opts.HandshakeTimeout}
	conn, _, err := dialer.DialContext(ctx, url, nil)
	if err != nil {
		c.setError(fmt.Errorf("websocket dial failed: %w", err))
		return fmt.Errorf("websocket dial failed: %w", err)
	}

	c.mu.Lock()
	if c.state != StateConnecting {
		// Disconnect won the race while the dial was in flight; honor it.
		c.mu.Unlock()
		conn.Close()
		return fmt.Errorf("channel closed during connect")
	}
	c.conn = conn
	c.state = StateConnected
	c.mu.Unlock()

	if err := c.writeFrame(frame{Type: "join_conversation", ConversationID: conversationID}); err != nil {
		c.setError(err)
		conn.Close()
		return fmt.Errorf("join failed: %w", err)
	}

	c.mu.Lock()
	c.state = StateJoined
	c.mu.Unlock()

	go c.readLoop(conn)
	return nil
}

// SendTyping emits a best-effort typing indicator. Outside of the
// connected/joined states it is a no-op.
func (c *Channel) SendTyping(conversationID string) {
	c.mu.Lock()
	if c.state != StateConnected && c.state != StateJoined {
		c.mu.Unlock()
		return
	}
	c.mu.Unlock()

	if err := c.writeFrame(frame{Type: "typing", ConversationID: conversationID}); err != nil {
		c.logger.Debug().Err(err).Msg("typing indicator dropped")
	}
}

// Disconnect closes the transport and returns the channel to disconnected.
// Safe to call at any time, any number of times.
func (c *Channel) Disconnect() {
	c.mu.Lock()
	conn := c.conn
	c.conn = nil
	c.state = StateDisconnected
	c.mu.Unlock()

	if conn != nil {
		conn.Close()
	}
}

// writeFrame serializes one outbound frame under the write deadline.
func (c *Channel) writeFrame(f frame) error {
	c.mu.Lock()
	conn := c.conn
	c.mu.Unlock()
	if conn == nil {
		return fmt.Errorf("not connected")
	}

	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	conn.SetWriteDeadline(time.Now().Add(c.opts.WriteTimeout))
	return conn.WriteJSON(f)
}

// readLoop parses inbound frames until the connection dies. Frames with an
// unrecognized type are dropped without comment; delivery is best-effort and
// errors never reach the caller.
func (c *Channel) readLoop(conn *websocket.Conn) {
	for {
		var f frame
		if err := conn.ReadJSON(&f); err != nil {
			c.mu.Lock()
			current := c.conn
			c.mu.Unlock()
			// Disconnect already put us back to disconnected; only a
			// failure on the live connection counts as an error.
			if current == conn {
				c.logger.Warn().Err(err).Msg("realtime transport error")
				c.setError(err)
				conn.Close()
			}
			return
		}

		if f.Type == "message" && c.handler != nil {
			c.handler(ChatEvent{
				ConversationID: f.ConversationID,
				Content:        f.Content,
				Role:           f.Role,
			})
		}
	}
}

func (c *Channel) setError(err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state = StateError
	c.logger.Debug().Err(err).Msg("channel entered error state")
}
