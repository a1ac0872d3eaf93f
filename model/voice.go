package model

import (
	"time"

	"github.com/kakilabs/kaki-backend/constant"
)

// StartSessionRequest opens a voice session for the authenticated user.
type StartSessionRequest struct {
	Agent    constant.AgentKind `json:"agent,omitempty"`
	Metadata map[string]string  `json:"metadata,omitempty"`
}

// VoiceSessionStatus is the wrapper state reflected to the caller.
type VoiceSessionStatus struct {
	State          constant.SessionState    `json:"state"`
	Mode           constant.SessionMode     `json:"mode,omitempty"`
	ConversationID string                   `json:"conversation_id,omitempty"`
	AgentID        string                   `json:"agent_id,omitempty"`
	Attempts       int                      `json:"attempts"`
	FallbackURL    string                   `json:"fallback_url,omitempty"`
	LastCommand    constant.CommandCategory `json:"last_command,omitempty"`
	LastError      string                   `json:"last_error,omitempty"`
}

// ClassifyRequest for the voice command classifier
type ClassifyRequest struct {
	Text string `json:"text" validate:"required"`
}

// Command is the result of classifying a voice transcript.
type Command struct {
	Category constant.CommandCategory `json:"category"`
	RawText  string                   `json:"raw_text"`
}

// ConversationEntity represents the conversations table entity
type ConversationEntity struct {
	ID        string    `db:"id" json:"id"`
	UserID    uint64    `db:"user_id" json:"user_id"`
	AgentID   string    `db:"agent_id" json:"agent_id"`
	StartedAt time.Time `db:"started_at" json:"started_at"`
}

// ConversationMessageEntity represents the conversation_messages table entity
type ConversationMessageEntity struct {
	ID             uint64                 `db:"id" json:"id"`
	ConversationID string                 `db:"conversation_id" json:"conversation_id"`
	Source         constant.MessageSource `db:"source" json:"source"`
	Content        string                 `db:"content" json:"content"`
	CreatedAt      time.Time              `db:"created_at" json:"created_at"`
}
