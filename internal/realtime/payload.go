package realtime

import (
	"encoding/json"
	"fmt"
	"strings"

	"quickplan/internal/domain"
)

// Wire frame types. The protocol is a small closed set of tagged variants,
// validated at the boundary before dispatch; unknown types and malformed
// frames are rejected with a non-fatal error frame.
const (
	TypeJoinRoom    = "join_room"
	TypeSendMessage = "send_message"
	TypeJoinedRoom  = "joined_room"
	TypeNewMessage  = "new_message"
	TypeError       = "error"
)

// ClientFrame is a decoded client-to-server frame.
type ClientFrame struct {
	Type     string `json:"type"`
	EventID  string `json:"event_id"`
	Nickname string `json:"nickname,omitempty"`
	Content  string `json:"content,omitempty"`
}

// DecodeClientFrame parses and validates one inbound frame.
func DecodeClientFrame(data []byte) (*ClientFrame, error) {
	var f ClientFrame
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("malformed frame: %w", err)
	}
	switch f.Type {
	case TypeJoinRoom:
		if f.EventID == "" {
			return nil, fmt.Errorf("%s: event_id is required", f.Type)
		}
	case TypeSendMessage:
		if f.EventID == "" {
			return nil, fmt.Errorf("%s: event_id is required", f.Type)
		}
		if strings.TrimSpace(f.Content) == "" {
			return nil, fmt.Errorf("%s: content is required", f.Type)
		}
	default:
		return nil, fmt.Errorf("unknown frame type %q", f.Type)
	}
	return &f, nil
}

// JoinedRoomFrame acknowledges a successful room join.
type JoinedRoomFrame struct {
	Type    string `json:"type"`
	EventID string `json:"event_id"`
}

// NewMessageFrame carries one chat message to room members. Message id and
// created_at are server-assigned.
type NewMessageFrame struct {
	Type    string          `json:"type"`
	Message *domain.Message `json:"message"`
}

// ErrorFrame reports a non-fatal failure to one connection. The transport
// stays open; the client may retry with a different identity or corrected
// input.
type ErrorFrame struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

func joinedRoom(eventID string) *JoinedRoomFrame {
	return &JoinedRoomFrame{Type: TypeJoinedRoom, EventID: eventID}
}

func newMessage(msg *domain.Message) *NewMessageFrame {
	return &NewMessageFrame{Type: TypeNewMessage, Message: msg}
}

func errorFrame(message string) *ErrorFrame {
	return &ErrorFrame{Type: TypeError, Message: message}
}
