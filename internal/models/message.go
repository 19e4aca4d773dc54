package models

import "time"

// MessageKind separates the two conversations a user can have.
type MessageKind string

const (
	MessageKindAssistant MessageKind = "assistant"
	MessageKindCoach     MessageKind = "coach"
)

// MessageRole mirrors the chat roles of the provider.
type MessageRole string

const (
	RoleUser      MessageRole = "user"
	RoleAssistant MessageRole = "assistant"
)

// ChatMessage is one persisted transcript line.
type ChatMessage struct {
	ID          string      `db:"id" json:"id"`
	UserID      string      `db:"user_id" json:"user_id"`
	ProgramID   *string     `db:"program_id" json:"program_id,omitempty"`
	Kind        MessageKind `db:"kind" json:"kind"`
	Role        MessageRole `db:"role" json:"role"`
	Content     string      `db:"content" json:"content"`
	SessionDate time.Time   `db:"session_date" json:"session_date"`
	CreatedAt   time.Time   `db:"created_at" json:"created_at"`
}
