package stub

import (
	"net/http"
	"sync"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
)

// wsFrame is the realtime envelope shared by both directions.
type wsFrame struct {
	Type           string `json:"type"`
	ConversationID string `json:"conversationId,omitempty"`
	Content        string `json:"content,omitempty"`
	Role           string `json:"role,omitempty"`
	Status         string `json:"status,omitempty"`
	Username       string `json:"username,omitempty"`
}

type wsClient struct {
	id   string
	conn *websocket.Conn
	mu   sync.Mutex // serializes writes
}

func (c *wsClient) write(f wsFrame) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.conn.WriteJSON(f)
}

// Hub tracks connected clients and conversation rooms, and fans chat events
// out to room members.
type Hub struct {
	store    *Store
	logger   zerolog.Logger
	upgrader websocket.Upgrader

	mu      sync.Mutex
	clients map[string]*wsClient
	rooms   map[string]map[string]*wsClient // conversation id -> client id -> client
}

// NewHub builds a hub over the given store.
func NewHub(store *Store, logger zerolog.Logger) *Hub {
	return &Hub{
		store:  store,
		logger: logger,
		upgrader: websocket.Upgrader{
			CheckOrigin:     func(r *http.Request) bool { return true },
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
		clients: make(map[string]*wsClient),
		rooms:   make(map[string]map[string]*wsClient),
	}
}

// HandleWS upgrades the request and services the connection until it closes.
// An invalid token downgrades the connection to anonymous rather than
// rejecting it, matching the backend's behavior.
func (h *Hub) HandleWS(w http.ResponseWriter, r *http.Request) {
	username := "anonymous"
	if token := r.URL.Query().Get("token"); token != "" {
		if user, ok := h.store.Authenticate(token); ok {
			username = user.Username
		}
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn().Err(err).Msg("websocket upgrade failed")
		return
	}

	client := &wsClient{id: uuid.NewString(), conn: conn}
	h.mu.Lock()
	h.clients[client.id] = client
	h.mu.Unlock()

	client.write(wsFrame{Type: "connection", Status: "connected", Username: username})

	defer h.drop(client)
	for {
		var f wsFrame
		if err := conn.ReadJSON(&f); err != nil {
			return
		}

		switch f.Type {
		case "join_conversation":
			h.join(client, f.ConversationID)
		case "typing":
			h.broadcast(f.ConversationID, wsFrame{
				Type:           "typing",
				ConversationID: f.ConversationID,
				Username:       username,
			}, client.id)
		default:
			// Unknown client frames are ignored.
		}
	}
}

// Push delivers a chat message to every client joined to the conversation.
func (h *Hub) Push(conversationID, role, content string) {
	h.broadcast(conversationID, wsFrame{
		Type:           "message",
		ConversationID: conversationID,
		Role:           role,
		Content:        content,
	}, "")
}

// Participants returns how many clients are joined to a conversation.
func (h *Hub) Participants(conversationID string) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.rooms[conversationID])
}

func (h *Hub) join(client *wsClient, conversationID string) {
	if conversationID == "" {
		return
	}
	h.mu.Lock()
	defer h.mu.Unlock()

	room, ok := h.rooms[conversationID]
	if !ok {
		room = make(map[string]*wsClient)
		h.rooms[conversationID] = room
	}
	room[client.id] = client
}

func (h *Hub) broadcast(conversationID string, f wsFrame, excludeID string) {
	h.mu.Lock()
	members := make([]*wsClient, 0, len(h.rooms[conversationID]))
	for id, c := range h.rooms[conversationID] {
		if id == excludeID {
			continue
		}
		members = append(members, c)
	}
	h.mu.Unlock()

	for _, c := range members {
		if err := c.write(f); err != nil {
			h.drop(c)
		}
	}
}

func (h *Hub) drop(client *wsClient) {
	h.mu.Lock()
	delete(h.clients, client.id)
	for _, room := range h.rooms {
		delete(room, client.id)
	}
	h.mu.Unlock()
	client.conn.Close()
}
