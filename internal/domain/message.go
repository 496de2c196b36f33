package domain

import (
	"context"
	"time"
)

// Message is one chat message in an event's room. Messages are append-only;
// the server assigns ID and CreatedAt and never trusts client values for
// either. Author is a guest nickname or a creator user id.
// swagger:model Message
type Message struct {
	ID        string    `json:"id"`
	EventID   string    `json:"event_id"`
	Author    string    `json:"author"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

// MessageRepository is the append-only message log, keyed by event.
type MessageRepository interface {
	Create(ctx context.Context, msg *Message) error
	ListByEventID(ctx context.Context, eventID string) ([]*Message, error)
}

// ChatHistoryService appends to and replays an event's message history.
type ChatHistoryService interface {
	// Append persists a message with a server-assigned id and timestamp.
	Append(ctx context.Context, eventID, author, content string) (*Message, error)
	// ListForEvent returns the full history, ascending by created_at.
	ListForEvent(ctx context.Context, eventID string) ([]*Message, error)
}
