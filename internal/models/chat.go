package models

// ChatResponse is a canned reply with optional follow-up suggestions.
type ChatResponse struct {
	Text    string   `json:"text"`
	Options []string `json:"options,omitempty"`
}

// Intent maps trigger patterns to one or more canned replies.
type Intent struct {
	Patterns  []string
	Responses []ChatResponse
}

// Message is one entry of a chat session transcript. Never persisted.
type Message struct {
	ID      string   `json:"id"`
	Text    string   `json:"text"`
	IsUser  bool     `json:"isUser"`
	Options []string `json:"options,omitempty"`
}
