package chat

// ModelDescriptor describes one AI model advertised by the backend catalog.
// Fields beyond name/description are plan-gating hints for the UI.
type ModelDescriptor struct {
	Name         string `json:"name"`
	Description  string `json:"description,omitempty"`
	MaxTokens    int    `json:"max_tokens,omitempty"`
	Provider     string `json:"provider,omitempty"`
	HasAccess    bool   `json:"has_access,omitempty"`
	RequiredPlan string `json:"required_plan,omitempty"`
}
