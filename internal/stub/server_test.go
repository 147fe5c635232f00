package stub

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
)

func setupServer(t *testing.T) (*httptest.Server, *Server) {
	t.Helper()
	server := NewServer(zerolog.Nop())
	server.Store().SeedDemoUser()
	srv := httptest.NewServer(server.Router())
	t.Cleanup(srv.Close)
	return srv, server
}

func doJSON(t *testing.T, method, url, token string, body any) (*http.Response, map[string]any) {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequest(method, url, reader)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	defer resp.Body.Close()

	var parsed map[string]any
	json.NewDecoder(resp.Body).Decode(&parsed)
	return resp, parsed
}

func login(t *testing.T, base string) string {
	t.Helper()
	resp, body := doJSON(t, http.MethodPost, base+"/api/auth/login", "", map[string]string{
		"email":    "demo@hoyo.tech",
		"password": "hoyo123",
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200 from login, got %d", resp.StatusCode)
	}
	token, _ := body["token"].(string)
	if token == "" {
		t.Fatal("expected a token in the login response")
	}
	return token
}

func TestLoginInvalidPassword(t *testing.T) {
	srv, _ := setupServer(t)

	resp, _ := doJSON(t, http.MethodPost, srv.URL+"/api/auth/login", "", map[string]string{
		"email":    "demo@hoyo.tech",
		"password": "nope",
	})
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", resp.StatusCode)
	}
}

func TestProtectedRouteWithoutToken(t *testing.T) {
	srv, _ := setupServer(t)

	resp, _ := doJSON(t, http.MethodGet, srv.URL+"/api/models", "", nil)
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", resp.StatusCode)
	}
}

func TestCurrentUser(t *testing.T) {
	srv, _ := setupServer(t)
	token := login(t, srv.URL)

	resp, body := doJSON(t, http.MethodGet, srv.URL+"/api/auth/me", token, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	if body["username"] != "demo" {
		t.Fatalf("expected demo user, got %v", body["username"])
	}
}

func TestModelsReflectPlan(t *testing.T) {
	srv, _ := setupServer(t)
	token := login(t, srv.URL)

	req, _ := http.NewRequest(http.MethodGet, srv.URL+"/api/models", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	defer resp.Body.Close()

	var models []map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&models); err != nil {
		t.Fatalf("decode models: %v", err)
	}
	if len(models) == 0 {
		t.Fatal("expected a non-empty catalog")
	}

	// The demo user is on the pro plan: HoYo-GPT-4 is allowed,
	// HoYo-Vision is not.
	for _, m := range models {
		switch m["name"] {
		case "HoYo-GPT-4":
			if m["has_access"] != true {
				t.Fatal("pro plan should unlock HoYo-GPT-4")
			}
		case "HoYo-Vision":
			if m["has_access"] == true {
				t.Fatal("pro plan should not unlock HoYo-Vision")
			}
			if m["required_plan"] != "enterprise" {
				t.Fatalf("expected enterprise requirement, got %v", m["required_plan"])
			}
		}
	}
}

func TestConversationLifecycle(t *testing.T) {
	srv, _ := setupServer(t)
	token := login(t, srv.URL)

	resp, conv := doJSON(t, http.MethodPost, srv.URL+"/api/conversations", token, map[string]string{
		"title": "Debug session",
		"model": "HoYo-GPT-4",
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	convID, _ := conv["id"].(string)
	if convID == "" {
		t.Fatal("expected a conversation id")
	}

	resp, reply := doJSON(t, http.MethodPost, srv.URL+"/api/chat", token, map[string]string{
		"conversationId": convID,
		"message":        "hello",
		"model":          "HoYo-GPT-4",
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200 from chat, got %d", resp.StatusCode)
	}
	aiMessage, _ := reply["aiMessage"].(map[string]any)
	if aiMessage == nil || aiMessage["role"] != "assistant" {
		t.Fatalf("expected an assistant message, got %v", reply)
	}

	resp, transcript := doJSON(t, http.MethodGet, srv.URL+"/api/conversations/"+convID+"/messages", token, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	messages, _ := transcript["messages"].([]any)
	if len(messages) != 2 {
		t.Fatalf("expected user + assistant messages, got %d", len(messages))
	}

	resp, _ = doJSON(t, http.MethodDelete, srv.URL+"/api/conversations/"+convID, token, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200 from delete, got %d", resp.StatusCode)
	}

	resp, _ = doJSON(t, http.MethodGet, srv.URL+"/api/conversations/"+convID+"/messages", token, nil)
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404 after delete, got %d", resp.StatusCode)
	}
}

func TestVoiceSessionLifecycle(t *testing.T) {
	srv, _ := setupServer(t)
	token := login(t, srv.URL)

	_, conv := doJSON(t, http.MethodPost, srv.URL+"/api/conversations", token, map[string]string{
		"title": "Voice test",
	})
	convID := conv["id"].(string)

	resp, started := doJSON(t, http.MethodPost, srv.URL+"/api/voice/start", token, map[string]string{
		"conversationId": convID,
		"language":       "ru-RU",
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	sessionID, _ := started["sessionId"].(string)
	if sessionID == "" {
		t.Fatal("expected a voice session id")
	}

	resp, _ = doJSON(t, http.MethodPost, srv.URL+"/api/voice/"+sessionID+"/transcript", token, map[string]string{
		"transcript": "привет",
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200 from transcript, got %d", resp.StatusCode)
	}

	resp, _ = doJSON(t, http.MethodPost, srv.URL+"/api/voice/"+sessionID+"/end", token, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200 from end, got %d", resp.StatusCode)
	}

	resp, _ = doJSON(t, http.MethodPost, srv.URL+"/api/voice/"+sessionID+"/end", token, nil)
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404 on double end, got %d", resp.StatusCode)
	}
}

func TestCaptureUploadAndAnalyze(t *testing.T) {
	srv, _ := setupServer(t)
	token := login(t, srv.URL)

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	part, _ := w.CreateFormFile("screenshot", "shot.png")
	part.Write([]byte("fake png bytes"))
	w.WriteField("conversationId", "conv-1")
	w.WriteField("description", "login page")
	w.Close()

	req, _ := http.NewRequest(http.MethodPost, srv.URL+"/api/screen-capture/upload", &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("upload failed: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200 from upload, got %d", resp.StatusCode)
	}

	var uploaded map[string]string
	json.NewDecoder(resp.Body).Decode(&uploaded)
	if uploaded["id"] == "" {
		t.Fatal("expected a capture id")
	}

	analyzeResp, analysis := doJSON(t, http.MethodPost, srv.URL+"/api/screen-capture/"+uploaded["id"]+"/analyze", token, nil)
	if analyzeResp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200 from analyze, got %d", analyzeResp.StatusCode)
	}
	if result, _ := analysis["result"].(string); !strings.Contains(result, "login page") {
		t.Fatalf("expected analysis to echo the description, got %v", analysis["result"])
	}
}

func TestChatPushesToJoinedClients(t *testing.T) {
	srv, server := setupServer(t)
	token := login(t, srv.URL)

	_, conv := doJSON(t, http.MethodPost, srv.URL+"/api/conversations", token, map[string]string{
		"title": "Realtime test",
	})
	convID := conv["id"].(string)

	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws?token=" + token
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("websocket dial failed: %v", err)
	}
	defer conn.Close()

	// First inbound frame is the connection ack.
	var ack map[string]any
	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	if err := conn.ReadJSON(&ack); err != nil {
		t.Fatalf("read ack: %v", err)
	}
	if ack["type"] != "connection" {
		t.Fatalf("expected connection ack, got %v", ack["type"])
	}
	if ack["username"] != "demo" {
		t.Fatalf("expected authenticated username, got %v", ack["username"])
	}

	if err := conn.WriteJSON(map[string]string{"type": "join_conversation", "conversationId": convID}); err != nil {
		t.Fatalf("join failed: %v", err)
	}

	// The join frame is handled asynchronously; wait until the room sees us.
	deadline := time.Now().Add(2 * time.Second)
	for server.Hub().Participants(convID) == 0 {
		if time.Now().After(deadline) {
			t.Fatal("client never joined the conversation room")
		}
		time.Sleep(10 * time.Millisecond)
	}

	_, _ = doJSON(t, http.MethodPost, srv.URL+"/api/chat", token, map[string]string{
		"conversationId": convID,
		"message":        "ping",
	})

	var pushed map[string]any
	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	if err := conn.ReadJSON(&pushed); err != nil {
		t.Fatalf("read pushed message: %v", err)
	}
	if pushed["type"] != "message" {
		t.Fatalf("expected a message frame, got %v", pushed["type"])
	}
	if content, _ := pushed["content"].(string); !strings.Contains(content, "ping") {
		t.Fatalf("expected pushed content to echo the prompt, got %v", pushed["content"])
	}
}
