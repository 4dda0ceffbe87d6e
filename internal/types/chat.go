package types

import "github.com/google/uuid"

type MessageRole string

const (
	RoleUser      MessageRole = "user"
	RoleAssistant MessageRole = "assistant"
)

type ChatMessage struct {
	Role    MessageRole `json:"role"`
	Content string      `json:"content"`
}

// ChatRequest starts or continues an assistant conversation. SessionID is nil
// for a new session.
type ChatRequest struct {
	SessionID *uuid.UUID `json:"session_id,omitempty"`
	Message   string     `json:"message"`
}

type ChatResponse struct {
	SessionID    uuid.UUID   `json:"session_id"`
	Message      ChatMessage `json:"message"`
	IsNewSession bool        `json:"is_new_session"`
}

// ChatTranscript is the full local conversation history, append-only, in
// display order. Typing mirrors the assistant pipeline's in-flight flag.
type ChatTranscript struct {
	SessionID uuid.UUID     `json:"session_id"`
	Messages  []ChatMessage `json:"messages"`
	Typing    bool          `json:"typing"`
}
