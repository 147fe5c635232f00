package chat

// VoiceSession names an active voice transcription session on the backend.
type VoiceSession struct {
	ID       string `json:"sessionId"`
	Language string `json:"language,omitempty"`
}
