package models

// Role tags a conversation turn.
type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message is a single turn in an assistant conversation.
type Message struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}
