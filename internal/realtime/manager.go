package realtime

import (
	"context"
	"errors"
	"log/slog"

	"quickplan/internal/domain"
)

// accessDeniedMessage is what every rejected join or send sees. Unknown
// events and failed gate checks answer identically so an outsider cannot
// probe which event ids exist.
const accessDeniedMessage = "Access denied"

// RoomManager mediates every realtime operation: it authorizes against the
// chat gate, persists through the chat history, and broadcasts through the
// hub. Authorization is re-run on every send; a prior join is never trusted,
// since plan tier and guest membership can change between join and send.
type RoomManager struct {
	hub     *Hub
	gate    domain.ChatAccessService
	history domain.ChatHistoryService
	logger  *slog.Logger
}

func NewRoomManager(hub *Hub, gate domain.ChatAccessService, history domain.ChatHistoryService, logger *slog.Logger) *RoomManager {
	return &RoomManager{
		hub:     hub,
		gate:    gate,
		history: history,
		logger:  logger,
	}
}

// HandleJoin admits the connection to the event's room if the gate allows
// it. On success the client receives the join ack followed by the room's
// full history, ordered before any message broadcast after the join. On
// denial the connection stays out of the room but the transport stays open.
func (m *RoomManager) HandleJoin(ctx context.Context, c *Client, eventID string, identity domain.ChatIdentity) {
	if _, err := m.gate.Authorize(ctx, eventID, identity); err != nil {
		m.reject(ctx, c, eventID, err)
		return
	}

	m.hub.Join(eventID, c, func() {
		c.enqueue(joinedRoom(eventID))
		history, err := m.history.ListForEvent(ctx, eventID)
		if err != nil {
			m.logger.ErrorContext(ctx, "history replay failed", "event_id", eventID, "err", err)
			return
		}
		for _, msg := range history {
			c.enqueue(newMessage(msg))
		}
	})
	m.logger.InfoContext(ctx, "client joined room",
		"client_id", c.ID, "event_id", eventID, "nickname", identity.Nickname)
}

// HandleSend re-authorizes, persists the message, and fans it out to every
// current room member, the sender included. A denied sender gets an error
// frame only: nothing is persisted or broadcast.
func (m *RoomManager) HandleSend(ctx context.Context, c *Client, eventID string, identity domain.ChatIdentity, content string) {
	if _, err := m.gate.Authorize(ctx, eventID, identity); err != nil {
		m.reject(ctx, c, eventID, err)
		return
	}

	author := identity.Nickname
	if author == "" {
		author = identity.UserID
	}

	err := m.hub.Publish(eventID, func() (any, error) {
		msg, err := m.history.Append(ctx, eventID, author, content)
		if err != nil {
			return nil, err
		}
		return newMessage(msg), nil
	})
	if err != nil {
		if errors.Is(err, domain.ErrInvalidInput) {
			c.enqueue(errorFrame(err.Error()))
			return
		}
		m.logger.ErrorContext(ctx, "message append failed", "event_id", eventID, "err", err)
		c.enqueue(errorFrame("message not delivered"))
	}
}

// HandleDisconnect removes the connection from every room. Frames already
// queued for the gone connection are dropped, not retried.
func (m *RoomManager) HandleDisconnect(c *Client) {
	m.hub.Remove(c)
	m.logger.Info("client disconnected", "client_id", c.ID)
}

func (m *RoomManager) reject(ctx context.Context, c *Client, eventID string, err error) {
	if !errors.Is(err, domain.ErrNotFound) && !errors.Is(err, domain.ErrAccessDenied) {
		m.logger.ErrorContext(ctx, "gate check failed", "event_id", eventID, "err", err)
		c.enqueue(errorFrame("internal error"))
		return
	}
	c.enqueue(errorFrame(accessDeniedMessage))
}
