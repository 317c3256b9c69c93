package models

import (
	"time"

	"github.com/google/uuid"
)

// Message senders. Every stored message belongs to exactly one of these.
const (
	SenderUser = "user"
	SenderBot  = "bot"
)

// Conversation is the single append-only message log a user owns.
// It is created lazily on the user's first send.
type Conversation struct {
	ID        uuid.UUID `json:"id"`
	UserID    uuid.UUID `json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Message is one entry in a conversation. Position is the append order;
// messages are never reordered or deleted.
type Message struct {
	ID             uuid.UUID `json:"id"`
	ConversationID uuid.UUID `json:"-"`
	Sender         string    `json:"sender"`
	Text           string    `json:"text"`
	Position       int64     `json:"-"`
	CreatedAt      time.Time `json:"-"`
}

// HistoryEntry is the wire form of a stored message.
type HistoryEntry struct {
	Sender string `json:"sender"`
	Text   string `json:"text"`
}

type SendMessageRequest struct {
	Message string `json:"message"`
}

type SendMessageResponse struct {
	Reply string `json:"reply"`
}

type HistoryResponse struct {
	History []HistoryEntry `json:"history"`
}
