package models

type ChatRole string

const (
	RoleSystem    ChatRole = "system"
	RoleUser      ChatRole = "user"
	RoleAssistant ChatRole = "assistant"
)

// ChatMessage is one role-tagged turn of an assistant conversation.
type ChatMessage struct {
	Role    ChatRole `json:"role"`
	Content string   `json:"content"`
}

// AssistantSystemPrompt opens every session's chat history.
const AssistantSystemPrompt = "You are a helpful assistant for farmers. Give short, simple advice in easy language."
