package ws

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"ripple-backend/domain/core/entities"
	"ripple-backend/domain/core/valueobjects"
)

// Connection is one authenticated websocket session. The identity is
// bound at upgrade time and never changes. Outbound delivery goes
// through a buffered channel: Enqueue never blocks, and an event that
// finds the buffer full is dropped.
type Connection struct {
	id            uuid.UUID
	userID        valueobjects.UserID
	user          entities.UserSummary
	establishedAt time.Time

	ws     *websocket.Conn
	send   chan []byte
	done   chan struct{}
	logger *zap.Logger

	writeTimeout   time.Duration
	pongTimeout    time.Duration
	maxMessageSize int64

	closeOnce sync.Once
}

func newConnection(wsConn *websocket.Conn, user entities.UserSummary, opts Options, logger *zap.Logger) *Connection {
	c := &Connection{
		id:             uuid.New(),
		userID:         user.ID,
		user:           user,
		establishedAt:  time.Now(),
		ws:             wsConn,
		send:           make(chan []byte, opts.SendBufferSize),
		done:           make(chan struct{}),
		writeTimeout:   opts.WriteTimeout,
		pongTimeout:    opts.PongTimeout,
		maxMessageSize: opts.MaxMessageSize,
	}
	c.logger = logger.With(
		zap.String("connection_id", c.id.String()),
		zap.String("user_id", c.userID.String()),
	)
	return c
}

func (c *Connection) ID() uuid.UUID               { return c.id }
func (c *Connection) UserID() valueobjects.UserID { return c.userID }
func (c *Connection) User() entities.UserSummary  { return c.user }

// Enqueue serializes the event onto the connection's outbound buffer.
// At-most-once: if the buffer is full or the connection is closing, the
// event is dropped.
func (c *Connection) Enqueue(event Event) {
	payload, err := json.Marshal(event)
	if err != nil {
		c.logger.Error("failed to marshal outbound event", zap.String("event", event.Type), zap.Error(err))
		return
	}
	select {
	case <-c.done:
	case c.send <- payload:
	default:
		c.logger.Warn("outbound buffer full, dropping event", zap.String("event", event.Type))
	}
}

// close stops the pumps and closes the socket. Safe to call more than once.
func (c *Connection) close() {
	c.closeOnce.Do(func() {
		close(c.done)
		if c.ws != nil {
			c.ws.Close()
		}
	})
}

// writePump drains the outbound buffer onto the socket and keeps the
// connection alive with pings. Runs in its own goroutine per connection.
func (c *Connection) writePump() {
	pingInterval := c.pongTimeout * 9 / 10
	ticker := time.NewTicker(pingInterval)
	defer func() {
		ticker.Stop()
		c.close()
	}()

	for {
		select {
		case <-c.done:
			return
		case payload := <-c.send:
			c.ws.SetWriteDeadline(time.Now().Add(c.writeTimeout))
			if err := c.ws.WriteMessage(websocket.TextMessage, payload); err != nil {
				c.logger.Debug("write failed, closing connection", zap.Error(err))
				return
			}
		case <-ticker.C:
			c.ws.SetWriteDeadline(time.Now().Add(c.writeTimeout))
			if err := c.ws.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// readPump reads messages off the socket and hands them to the handler.
// Blocks until the peer goes away or the connection is closed.
func (c *Connection) readPump(handle func(*Connection, []byte)) {
	defer c.close()

	c.ws.SetReadLimit(c.maxMessageSize)
	c.ws.SetReadDeadline(time.Now().Add(c.pongTimeout))
	c.ws.SetPongHandler(func(string) error {
		c.ws.SetReadDeadline(time.Now().Add(c.pongTimeout))
		return nil
	})

	for {
		_, payload, err := c.ws.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.logger.Debug("unexpected close", zap.Error(err))
			}
			return
		}
		handle(c, payload)
	}
}
