package stub

import "github.com/hoyo-tech/hoyo-client/internal/model/chat"

// planAccess maps a plan to the models it unlocks.
var planAccess = map[string][]string{
	"free":       {"HoYo-Fast"},
	"pro":        {"HoYo-Fast", "HoYo-GPT-4", "HoYo-Claude", "HoYo-Code", "HoYo-Gemini"},
	"enterprise": {"HoYo-Fast", "HoYo-GPT-4", "HoYo-Claude", "HoYo-Code", "HoYo-Gemini", "HoYo-Vision"},
}

var catalog = []chat.ModelDescriptor{
	{Name: "HoYo-Fast", Description: "Fast responses for everyday questions", MaxTokens: 4096, Provider: "hoyo"},
	{Name: "HoYo-GPT-4", Description: "General purpose flagship model", MaxTokens: 8192, Provider: "hoyo"},
	{Name: "HoYo-Claude", Description: "Long-context reasoning model", MaxTokens: 100000, Provider: "hoyo"},
	{Name: "HoYo-Code", Description: "Code generation and review", MaxTokens: 8192, Provider: "hoyo"},
	{Name: "HoYo-Gemini", Description: "Multimodal assistant model", MaxTokens: 8192, Provider: "hoyo"},
	{Name: "HoYo-Vision", Description: "Screen and image understanding", MaxTokens: 8192, Provider: "hoyo"},
}

// Catalog returns the model list with access flags resolved for a plan.
func Catalog(plan string) []chat.ModelDescriptor {
	allowed, ok := planAccess[plan]
	if !ok {
		allowed = planAccess["free"]
	}

	models := make([]chat.ModelDescriptor, len(catalog))
	copy(models, catalog)
	for i := range models {
		models[i].HasAccess = contains(allowed, models[i].Name)
		if !models[i].HasAccess {
			models[i].RequiredPlan = requiredPlan(models[i].Name)
		}
	}
	return models
}

func requiredPlan(model string) string {
	if contains(planAccess["free"], model) {
		return "free"
	}
	if contains(planAccess["pro"], model) {
		return "pro"
	}
	return "enterprise"
}

func contains(values []string, want string) bool {
	for _, v := range values {
		if v == want {
			return true
		}
	}
	return false
}
