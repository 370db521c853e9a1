// Package llm talks to an OpenAI-compatible chat completion backend.
package llm

// Message is a single chat turn sent to the model.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Roles accepted by chat completion endpoints.
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Request describes one completion call.
type Request struct {
	Messages []Message
	// Schema, when set, constrains the response to a JSON document
	// matching the given JSON schema. SchemaName labels it for the API.
	Schema     any
	SchemaName string
}

// Result carries the assistant's reply.
type Result struct {
	Text string
}

func system(content string) Message {
	return Message{Role: RoleSystem, Content: content}
}

func user(content string) Message {
	return Message{Role: RoleUser, Content: content}
}
