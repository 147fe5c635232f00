package api

import (
	"context"
	"net/http"

	"github.com/hoyo-tech/hoyo-client/internal/model/chat"
)

// VoiceAPI manages voice transcription sessions.
type VoiceAPI struct {
	c *Client
}

// Start opens a voice session for a conversation in the given language.
func (a *VoiceAPI) Start(ctx context.Context, conversationID, language string) (chat.VoiceSession, error) {
	if language == "" {
		language = "ru-RU"
	}
	raw, err := a.c.Do(ctx, http.MethodPost, "/voice/start", map[string]string{
		"conversationId": conversationID,
		"language":       language,
	})
	if err != nil {
		return chat.VoiceSession{}, err
	}
	var sess chat.VoiceSession
	if err := decodeInto(raw, &sess); err != nil {
		return chat.VoiceSession{}, err
	}
	if sess.Language == "" {
		sess.Language = language
	}
	return sess, nil
}

// End closes a voice session.
func (a *VoiceAPI) End(ctx context.Context, sessionID string) error {
	_, err := a.c.Do(ctx, http.MethodPost, "/voice/"+sessionID+"/end", nil)
	return err
}

// Transcript submits a recognized utterance for the session.
func (a *VoiceAPI) Transcript(ctx context.Context, sessionID, transcript string) error {
	_, err := a.c.Do(ctx, http.MethodPost, "/voice/"+sessionID+"/transcript", map[string]string{
		"transcript": transcript,
	})
	return err
}
