package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

type MessageAuthor string

const (
	MessageAuthorUser      MessageAuthor = "user"
	MessageAuthorAssistant MessageAuthor = "assistant"
)

// Intent is the classified purpose of a user chat message.
type Intent string

const (
	IntentBooking    Intent = "booking"
	IntentFindDoctor Intent = "find_doctor"
	IntentEmergency  Intent = "emergency"
	IntentGeneral    Intent = "general"
)

type ChatMessage struct {
	ID        uuid.UUID      `db:"id" json:"id"`
	UserID    uuid.UUID      `db:"user_id" json:"user_id"`
	Author    MessageAuthor  `db:"author" json:"author"`
	Text      string         `db:"text" json:"text"`
	Verified  bool           `db:"verified" json:"verified"`
	Sources   pq.StringArray `db:"sources" json:"sources,omitempty"`
	CreatedAt time.Time      `db:"created_at" json:"created_at"`
}

// AssistantReply is the outcome of answering a user message, before it is
// persisted as a ChatMessage. Verified and Sources are set only when the
// reply came through the LLM path and carried a recognized citation.
type AssistantReply struct {
	Text     string   `json:"text"`
	Intent   Intent   `json:"intent"`
	Verified bool     `json:"verified"`
	Sources  []string `json:"sources,omitempty"`
}

type SendMessageRequest struct {
	Message  string `json:"message" binding:"required"`
	Language string `json:"language" binding:"omitempty,language"`
}

type SendMessageResponse struct {
	UserMessage      *ChatMessage `json:"user_message"`
	AssistantMessage *ChatMessage `json:"assistant_message"`
	Intent           Intent       `json:"intent"`
}
