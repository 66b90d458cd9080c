package ws

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = pongWait * 9 / 10
)

// Hub fans session updates out to the screens watching each session.
type Hub struct {
	mu          sync.RWMutex
	connections map[uuid.UUID]*Connection
	sessions    map[string]map[uuid.UUID]struct{} // session_id -> connection ids
	logger      zerolog.Logger
}

// NewHub creates a new WebSocket hub.
func NewHub(logger zerolog.Logger) *Hub {
	return &Hub{
		connections: make(map[uuid.UUID]*Connection),
		sessions:    make(map[string]map[uuid.UUID]struct{}),
		logger:      logger.With().Str("component", "ws_hub").Logger(),
	}
}

// Subscribe attaches a connection to a session and returns its id.
func (h *Hub) Subscribe(sessionID string, conn *Connection) uuid.UUID {
	id := uuid.New()

	h.mu.Lock()
	defer h.mu.Unlock()
	h.connections[id] = conn
	watchers, ok := h.sessions[sessionID]
	if !ok {
		watchers = make(map[uuid.UUID]struct{})
		h.sessions[sessionID] = watchers
	}
	watchers[id] = struct{}{}
	h.logger.Debug().Str("session_id", sessionID).Str("conn_id", id.String()).Msg("screen subscribed")
	return id
}

// Unsubscribe closes and forgets a connection.
func (h *Hub) Unsubscribe(sessionID string, id uuid.UUID) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if conn, ok := h.connections[id]; ok {
		conn.Close()
		delete(h.connections, id)
	}
	if watchers, ok := h.sessions[sessionID]; ok {
		delete(watchers, id)
		if len(watchers) == 0 {
			delete(h.sessions, sessionID)
		}
	}
}

// BroadcastToSession sends a message to every screen watching the session.
func (h *Hub) BroadcastToSession(sessionID string, msg Message) error {
	h.mu.RLock()
	conns := make([]*Connection, 0, len(h.sessions[sessionID]))
	for id := range h.sessions[sessionID] {
		conns = append(conns, h.connections[id])
	}
	h.mu.RUnlock()

	var firstErr error
	for _, conn := range conns {
		if err := conn.Send(msg); err != nil && firstErr == nil {
			firstErr = err
			h.logger.Warn().Err(err).Str("session_id", sessionID).Msg("broadcast send failed")
		}
	}
	return firstErr
}

// Watchers is the number of screens attached to a session.
func (h *Hub) Watchers(sessionID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.sessions[sessionID])
}

// Connection represents a WebSocket connection with send queue.
type Connection struct {
	conn   *websocket.Conn
	sendCh chan Message
	mu     sync.Mutex
	closed bool
	logger zerolog.Logger
}

// NewConnection wraps a WebSocket connection.
func NewConnection(conn *websocket.Conn, logger zerolog.Logger) *Connection {
	return &Connection{
		conn:   conn,
		sendCh: make(chan Message, 64),
		logger: logger,
	}
}

// Send queues a message for delivery.
func (c *Connection) Send(msg Message) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return ErrConnectionClosed
	}

	select {
	case c.sendCh <- msg:
		return nil
	default:
		return ErrSendQueueFull
	}
}

// Close shuts down the connection.
func (c *Connection) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return
	}

	c.closed = true
	close(c.sendCh)
	c.conn.Close()
}

// WritePump sends queued messages and keeps the socket alive with pings.
func (c *Connection) WritePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case msg, ok := <-c.sendCh:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteJSON(msg); err != nil {
				c.logger.Warn().Err(err).Msg("write error")
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

// ReadPump receives messages and calls the handler until the peer goes away.
// Frames that do not decode as a Message go to invalid and the connection stays open.
func (c *Connection) ReadPump(handler func(Message) error, invalid func(error) error) {
	defer c.conn.Close()

	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.logger.Warn().Err(err).Msg("read error")
			}
			break
		}

		var msg Message
		if err := json.Unmarshal(data, &msg); err != nil {
			c.logger.Debug().Err(err).Msg("undecodable frame")
			if invalid != nil {
				if err := invalid(err); err != nil {
					c.logger.Warn().Err(err).Msg("invalid frame reply error")
				}
			}
			continue
		}

		if err := handler(msg); err != nil {
			c.logger.Warn().Err(err).Msg("message handler error")
		}
	}
}

var (
	ErrConnectionClosed = &Error{Code: "connection_closed", Message: "Connection is closed"}
	ErrSendQueueFull    = &Error{Code: "send_queue_full", Message: "Send queue is full"}
)

type Error struct {
	Code    string
	Message string
}

func (e *Error) Error() string {
	return e.Message
}
