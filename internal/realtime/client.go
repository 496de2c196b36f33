package realtime

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"quickplan/internal/domain"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxFrameSize   = 4096
	sendBufferSize = 64
)

// Client is one websocket connection. UserID is set at upgrade time from a
// verified bearer token and never from frame payloads; nicknames travel per
// frame. The send channel is drained by writePump; enqueue never blocks a
// room on a slow reader.
type Client struct {
	ID     string
	UserID string

	conn    *websocket.Conn
	send    chan any
	closed  chan struct{}
	manager *RoomManager
	logger  *slog.Logger
}

func newClient(conn *websocket.Conn, userID string, manager *RoomManager, logger *slog.Logger) *Client {
	return &Client{
		ID:      uuid.NewString(),
		UserID:  userID,
		conn:    conn,
		send:    make(chan any, sendBufferSize),
		closed:  make(chan struct{}),
		manager: manager,
		logger:  logger,
	}
}

// enqueue queues a frame for delivery. If the client's buffer is full the
// frame is dropped and the connection is scheduled for close: a reader that
// cannot keep up must not stall its room.
func (c *Client) enqueue(frame any) {
	select {
	case <-c.closed:
	case c.send <- frame:
	default:
		c.logger.Warn("send buffer full, dropping client", "client_id", c.ID)
		c.close()
	}
}

func (c *Client) close() {
	select {
	case <-c.closed:
	default:
		close(c.closed)
	}
}

// readPump reads frames until the connection dies, dispatching each to the
// room manager. It runs on the connection's own goroutine.
func (c *Client) readPump() {
	defer func() {
		c.manager.HandleDisconnect(c)
		c.close()
		_ = c.conn.Close()
	}()
	c.conn.SetReadLimit(maxFrameSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.logger.Debug("websocket read error", "client_id", c.ID, "err", err)
			}
			return
		}
		frame, err := DecodeClientFrame(data)
		if err != nil {
			c.enqueue(errorFrame(err.Error()))
			continue
		}
		c.dispatch(frame)
	}
}

func (c *Client) dispatch(frame *ClientFrame) {
	ctx := context.Background()
	identity := domain.ChatIdentity{UserID: c.UserID, Nickname: frame.Nickname}
	switch frame.Type {
	case TypeJoinRoom:
		c.manager.HandleJoin(ctx, c, frame.EventID, identity)
	case TypeSendMessage:
		c.manager.HandleSend(ctx, c, frame.EventID, identity, frame.Content)
	}
}

// writePump serializes queued frames onto the connection and keeps the
// connection alive with pings. It runs on its own goroutine; it is the only
// writer to the underlying conn.
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()
	for {
		select {
		case <-c.closed:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
			return
		case frame := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteJSON(frame); err != nil {
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
