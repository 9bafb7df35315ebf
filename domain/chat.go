package domain

// Chat advisor kinds.
const (
	ChatGeneral = "general"
	ChatProduct = "product"
	ChatResults = "results"
)

type ChatMessage struct {
	Role    string `json:"role" validate:"required,oneof=user assistant"`
	Content string `json:"content" validate:"required"`
}

// ChatRequest carries the visitor question plus whatever context the
// current funnel step has.
type ChatRequest struct {
	Kind     string        `json:"-"`
	Message  string        `json:"message"`
	History  []ChatMessage `json:"history,omitempty"`
	Profile  *UserProfile  `json:"profile,omitempty"`
	Products []Product     `json:"products,omitempty"`
}

type ChatReply struct {
	Reply    string `json:"reply"`
	Fallback bool   `json:"fallback"`
}
