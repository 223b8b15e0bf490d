package model

// Chat roles in the provider wire format.
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// ChatMessage is one turn of a conversation, in the shape both the Ollama
// and OpenAI chat APIs accept.
type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}
