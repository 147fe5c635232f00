// Package stub is an in-process fake of the HoYo AI backend. It implements
// just enough of the REST and WebSocket surface for the SDK and its tests,
// with all state held in memory. It is development tooling, not a backend.
package stub

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rs/zerolog"

	"github.com/hoyo-tech/hoyo-client/internal/model/account"
	"github.com/hoyo-tech/hoyo-client/internal/model/chat"
	"github.com/hoyo-tech/hoyo-client/pkg/utils"
)

type contextKey string

const userKey contextKey = "stub.user"

// Server bundles the stub's store and realtime hub behind a chi router.
type Server struct {
	store  *Store
	hub    *Hub
	logger zerolog.Logger
}

// NewServer builds a stub server with an empty store.
func NewServer(logger zerolog.Logger) *Server {
	store := NewStore()
	return &Server{
		store:  store,
		hub:    NewHub(store, logger),
		logger: logger,
	}
}

// Store exposes the backing store so tests can seed state directly.
func (s *Server) Store() *Store { return s.store }

// Hub exposes the realtime hub.
func (s *Server) Hub() *Hub { return s.hub }

// Router wires all routes.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Authorization", "Content-Type"},
	}))

	r.Route("/api", func(api chi.Router) {
		api.Post("/auth/register", s.handleRegister)
		api.Post("/auth/login", s.handleLogin)

		api.Group(func(protected chi.Router) {
			protected.Use(s.requireAuth)
			protected.Get("/auth/me", s.handleCurrentUser)
			protected.Post("/auth/logout", s.handleLogout)
			protected.Get("/models", s.handleModels)
			protected.Post("/conversations", s.handleCreateConversation)
			protected.Get("/conversations", s.handleListConversations)
			protected.Get("/conversations/{conversationID}/messages", s.handleMessages)
			protected.Delete("/conversations/{conversationID}", s.handleDeleteConversation)
			protected.Post("/chat", s.handleChat)
			protected.Post("/screen-capture/upload", s.handleCaptureUpload)
			protected.Post("/screen-capture/{captureID}/analyze", s.handleCaptureAnalyze)
			protected.Post("/voice/start", s.handleVoiceStart)
			protected.Post("/voice/{sessionID}/end", s.handleVoiceEnd)
			protected.Post("/voice/{sessionID}/transcript", s.handleVoiceTranscript)
		})
	})

	r.Get("/ws", s.hub.HandleWS)

	return r
}

// requireAuth resolves the bearer token and stashes the user in the request
// context. Missing or unknown tokens get a 401.
func (s *Server) requireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || token == "" {
			utils.RespondError(w, http.StatusUnauthorized, "not authenticated")
			return
		}
		user, ok := s.store.Authenticate(token)
		if !ok {
			utils.RespondError(w, http.StatusUnauthorized, "invalid or expired token")
			return
		}
		ctx := context.WithValue(r.Context(), userKey, user)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func currentUser(r *http.Request) account.User {
	user, _ := r.Context().Value(userKey).(account.User)
	return user
}

func bearerToken(r *http.Request) string {
	token, _ := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
	return token
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Username string `json:"username"`
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if payload.Username == "" || payload.Email == "" || payload.Password == "" {
		utils.RespondError(w, http.StatusBadRequest, "username, email and password are required")
		return
	}

	token, user, err := s.store.Register(payload.Username, payload.Email, payload.Password)
	if err != nil {
		utils.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}
	utils.RespondJSON(w, http.StatusOK, map[string]any{"token": token, "user": user})
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	token, user, err := s.store.Login(payload.Email, payload.Password)
	if err != nil {
		utils.RespondError(w, http.StatusUnauthorized, "Invalid credentials")
		return
	}
	utils.RespondJSON(w, http.StatusOK, map[string]any{"token": token, "user": user})
}

func (s *Server) handleCurrentUser(w http.ResponseWriter, r *http.Request) {
	utils.RespondJSON(w, http.StatusOK, currentUser(r))
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	s.store.RevokeToken(bearerToken(r))
	utils.RespondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleModels(w http.ResponseWriter, r *http.Request) {
	utils.RespondJSON(w, http.StatusOK, Catalog(currentUser(r).Plan))
}

func (s *Server) handleCreateConversation(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Title string `json:"title"`
		Model string `json:"model"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if payload.Title == "" {
		utils.RespondError(w, http.StatusBadRequest, "title is required")
		return
	}

	conv := s.store.CreateConversation(currentUser(r).ID, payload.Title, payload.Model)
	utils.RespondJSON(w, http.StatusOK, conv)
}

func (s *Server) handleListConversations(w http.ResponseWriter, r *http.Request) {
	convs := s.store.ListConversations(currentUser(r).ID)
	if convs == nil {
		convs = []chat.Conversation{}
	}
	utils.RespondJSON(w, http.StatusOK, convs)
}

func (s *Server) handleMessages(w http.ResponseWriter, r *http.Request) {
	conversationID := chi.URLParam(r, "conversationID")
	msgs, err := s.store.Transcript(currentUser(r).ID, conversationID)
	if err != nil {
		utils.RespondError(w, http.StatusNotFound, err.Error())
		return
	}
	utils.RespondJSON(w, http.StatusOK, map[string]any{"messages": msgs})
}

func (s *Server) handleDeleteConversation(w http.ResponseWriter, r *http.Request) {
	conversationID := chi.URLParam(r, "conversationID")
	if err := s.store.DeleteConversation(currentUser(r).ID, conversationID); err != nil {
		utils.RespondError(w, http.StatusNotFound, err.Error())
		return
	}
	utils.RespondJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		ConversationID string `json:"conversationId"`
		Message        string `json:"message"`
		Model          string `json:"model"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if payload.Message == "" {
		utils.RespondError(w, http.StatusBadRequest, "message is required")
		return
	}

	user := currentUser(r)
	if _, err := s.store.AppendMessage(user.ID, payload.ConversationID, "user", payload.Message); err != nil {
		utils.RespondError(w, http.StatusNotFound, err.Error())
		return
	}

	reply := fmt.Sprintf("[%s] You said: %s", orDefault(payload.Model, "HoYo-GPT-4"), payload.Message)
	aiMsg, err := s.store.AppendMessage(user.ID, payload.ConversationID, "assistant", reply)
	if err != nil {
		utils.RespondError(w, http.StatusNotFound, err.Error())
		return
	}

	s.hub.Push(payload.ConversationID, "assistant", aiMsg.Content)
	utils.RespondJSON(w, http.StatusOK, map[string]any{"aiMessage": aiMsg})
}

func (s *Server) handleCaptureUpload(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(10 << 20); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid multipart form")
		return
	}
	file, _, err := r.FormFile("screenshot")
	if err != nil {
		utils.RespondError(w, http.StatusBadRequest, "screenshot file is required")
		return
	}
	file.Close()

	id := s.store.SaveCapture(r.FormValue("description"))
	utils.RespondJSON(w, http.StatusOK, map[string]string{"id": id, "status": "uploaded"})
}

func (s *Server) handleCaptureAnalyze(w http.ResponseWriter, r *http.Request) {
	captureID := chi.URLParam(r, "captureID")
	desc, ok := s.store.CaptureDescription(captureID)
	if !ok {
		utils.RespondError(w, http.StatusNotFound, "capture not found")
		return
	}
	utils.RespondJSON(w, http.StatusOK, map[string]string{
		"id":     captureID,
		"result": "Screen analysis complete: " + orDefault(desc, "no description provided"),
	})
}

func (s *Server) handleVoiceStart(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		ConversationID string `json:"conversationId"`
		Language       string `json:"language"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	sess, err := s.store.StartVoiceSession(currentUser(r).ID, payload.ConversationID, orDefault(payload.Language, "ru-RU"))
	if err != nil {
		utils.RespondError(w, http.StatusNotFound, err.Error())
		return
	}
	utils.RespondJSON(w, http.StatusOK, map[string]string{"sessionId": sess.ID})
}

func (s *Server) handleVoiceEnd(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")
	if err := s.store.EndVoiceSession(sessionID); err != nil {
		utils.RespondError(w, http.StatusNotFound, err.Error())
		return
	}
	utils.RespondJSON(w, http.StatusOK, map[string]string{"status": "ended"})
}

func (s *Server) handleVoiceTranscript(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")
	if !s.store.HasVoiceSession(sessionID) {
		utils.RespondError(w, http.StatusNotFound, ErrSessionNotFound.Error())
		return
	}

	var payload struct {
		Transcript string `json:"transcript"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil || payload.Transcript == "" {
		utils.RespondError(w, http.StatusBadRequest, "transcript is required")
		return
	}
	utils.RespondJSON(w, http.StatusOK, map[string]string{"status": "received"})
}

func orDefault(value, fallback string) string {
	if value == "" {
		return fallback
	}
	return value
}
