package stub

import (
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/hoyo-tech/hoyo-client/internal/model/account"
	"github.com/hoyo-tech/hoyo-client/internal/model/chat"
)

var (
	ErrInvalidCredentials   = errors.New("invalid credentials")
	ErrUserExists           = errors.New("user with this email or username already exists")
	ErrConversationNotFound = errors.New("conversation not found")
	ErrSessionNotFound      = errors.New("session not found")
)

type userRecord struct {
	user     account.User
	password string
}

// Store holds the stub backend's in-memory state: accounts, issued tokens,
// conversations with their transcripts, and voice sessions.
type Store struct {
	mu            sync.RWMutex
	usersByEmail  map[string]*userRecord
	usersByID     map[string]*userRecord
	tokens        map[string]string // token -> user id
	conversations map[string]*chat.Conversation
	owners        map[string]string // conversation id -> user id
	messages      map[string][]chat.Message
	voiceSessions map[string]chat.VoiceSession
	captures      map[string]string // capture id -> description
}

// NewStore returns an empty store.
func NewStore() *Store {
	return &Store{
		usersByEmail:  make(map[string]*userRecord),
		usersByID:     make(map[string]*userRecord),
		tokens:        make(map[string]string),
		conversations: make(map[string]*chat.Conversation),
		owners:        make(map[string]string),
		messages:      make(map[string][]chat.Message),
		voiceSessions: make(map[string]chat.VoiceSession),
		captures:      make(map[string]string),
	}
}

// Register creates an account and issues a token for it.
func (s *Store) Register(username, email, password string) (string, account.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.usersByEmail[email]; exists {
		return "", account.User{}, ErrUserExists
	}
	for _, rec := range s.usersByEmail {
		if rec.user.Username == username {
			return "", account.User{}, ErrUserExists
		}
	}

	rec := &userRecord{
		user: account.User{
			ID:       uuid.NewString(),
			Username: username,
			Email:    email,
			Plan:     "free",
			Credits:  100,
		},
		password: password,
	}
	s.usersByEmail[email] = rec
	s.usersByID[rec.user.ID] = rec

	token := uuid.NewString()
	s.tokens[token] = rec.user.ID
	return token, rec.user, nil
}

// Login checks credentials and issues a fresh token.
func (s *Store) Login(email, password string) (string, account.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.usersByEmail[email]
	if !ok || rec.password != password {
		return "", account.User{}, ErrInvalidCredentials
	}

	token := uuid.NewString()
	s.tokens[token] = rec.user.ID
	return token, rec.user, nil
}

// Authenticate resolves a token to its user.
func (s *Store) Authenticate(token string) (account.User, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	userID, ok := s.tokens[token]
	if !ok {
		return account.User{}, false
	}
	rec, ok := s.usersByID[userID]
	if !ok {
		return account.User{}, false
	}
	return rec.user, true
}

// RevokeToken drops a token; unknown tokens are ignored.
func (s *Store) RevokeToken(token string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.tokens, token)
}

// CreateConversation provisions a conversation owned by the given user.
func (s *Store) CreateConversation(userID, title, model string) chat.Conversation {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now().UTC()
	conv := chat.Conversation{
		ID:        uuid.NewString(),
		Title:     title,
		Model:     model,
		CreatedAt: now,
		UpdatedAt: now,
	}
	s.conversations[conv.ID] = &conv
	s.owners[conv.ID] = userID
	s.messages[conv.ID] = make([]chat.Message, 0, 16)
	return conv
}

// ListConversations returns the user's conversations, most recently updated
// first.
func (s *Store) ListConversations(userID string) []chat.Conversation {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var convs []chat.Conversation
	for id, conv := range s.conversations {
		if s.owners[id] != userID {
			continue
		}
		c := *conv
		c.MessageCount = len(s.messages[id])
		convs = append(convs, c)
	}
	sort.Slice(convs, func(i, j int) bool {
		return convs[i].UpdatedAt.After(convs[j].UpdatedAt)
	})
	return convs
}

// Transcript returns the stored messages of a conversation.
func (s *Store) Transcript(userID, conversationID string) ([]chat.Message, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.owners[conversationID] != userID {
		return nil, ErrConversationNotFound
	}
	msgs := s.messages[conversationID]
	copied := make([]chat.Message, len(msgs))
	copy(copied, msgs)
	return copied, nil
}

// DeleteConversation removes a conversation and its messages.
func (s *Store) DeleteConversation(userID, conversationID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.owners[conversationID] != userID {
		return ErrConversationNotFound
	}
	delete(s.conversations, conversationID)
	delete(s.owners, conversationID)
	delete(s.messages, conversationID)
	return nil
}

// AppendMessage stores one turn and bumps the conversation's updated time.
func (s *Store) AppendMessage(userID, conversationID, role, content string) (chat.Message, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.owners[conversationID] != userID {
		return chat.Message{}, ErrConversationNotFound
	}

	msg := chat.Message{
		ID:        uuid.NewString(),
		Role:      role,
		Content:   content,
		CreatedAt: time.Now().UTC(),
	}
	s.messages[conversationID] = append(s.messages[conversationID], msg)
	s.conversations[conversationID].UpdatedAt = msg.CreatedAt
	return msg, nil
}

// StartVoiceSession opens a voice session scoped to a conversation.
func (s *Store) StartVoiceSession(userID, conversationID, language string) (chat.VoiceSession, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.owners[conversationID] != userID {
		return chat.VoiceSession{}, ErrConversationNotFound
	}
	sess := chat.VoiceSession{ID: uuid.NewString(), Language: language}
	s.voiceSessions[sess.ID] = sess
	return sess, nil
}

// EndVoiceSession closes a voice session.
func (s *Store) EndVoiceSession(sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.voiceSessions[sessionID]; !ok {
		return ErrSessionNotFound
	}
	delete(s.voiceSessions, sessionID)
	return nil
}

// HasVoiceSession reports whether a session is open.
func (s *Store) HasVoiceSession(sessionID string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.voiceSessions[sessionID]
	return ok
}

// SaveCapture records an uploaded screenshot and returns its id.
func (s *Store) SaveCapture(description string) string {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := uuid.NewString()
	s.captures[id] = description
	return id
}

// CaptureDescription returns the stored description for a capture.
func (s *Store) CaptureDescription(captureID string) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	desc, ok := s.captures[captureID]
	return desc, ok
}

// SeedDemoUser provisions the demo account used in examples and tests.
func (s *Store) SeedDemoUser() account.User {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec := &userRecord{
		user: account.User{
			ID:       uuid.NewString(),
			Username: "demo",
			Email:    "demo@hoyo.tech",
			Plan:     "pro",
			Credits:  100,
		},
		password: "hoyo123",
	}
	s.usersByEmail[rec.user.Email] = rec
	s.usersByID[rec.user.ID] = rec
	return rec.user
}
