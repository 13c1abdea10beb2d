package server

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gorilla/websocket"

	"github.com/lox/kittenforbots/internal/protocol"
)

const (
	// Time allowed to write a message to the peer
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer
	maxMessageSize = 65536
)

// ErrConnectionClosed is returned when sending on a closed connection
var ErrConnectionClosed = errors.New("connection closed")

// Connection wraps a websocket to a remote bot. Outbound messages go
// through a buffered send channel so the engine never blocks on a slow
// client; inbound Action/Choice replies are routed to whoever is waiting
// on the matching request id.
type Connection struct {
	conn      *websocket.Conn
	send      chan []byte
	logger    *log.Logger
	ctx       context.Context
	cancel    context.CancelFunc
	closeOnce sync.Once
	flushOnce sync.Once
	flush     chan struct{}
	flushed   chan struct{}

	mu      sync.Mutex
	pending map[int]chan []byte
	nextID  int
}

// NewConnection creates a new connection wrapper
func NewConnection(conn *websocket.Conn, logger *log.Logger) *Connection {
	ctx, cancel := context.WithCancel(context.Background())
	return &Connection{
		conn:    conn,
		send:    make(chan []byte, 256),
		logger:  logger.WithPrefix("conn"),
		ctx:     ctx,
		cancel:  cancel,
		flush:   make(chan struct{}),
		flushed: make(chan struct{}),
		pending: make(map[int]chan []byte),
	}
}

// Start begins handling the connection
func (c *Connection) Start() {
	go c.writePump()
	go c.readPump()
}

// Close closes the connection and unblocks every waiter
func (c *Connection) Close() error {
	var err error
	c.closeOnce.Do(func() {
		c.cancel()
		err = c.conn.Close()
	})
	return err
}

// CloseAfterFlush waits for already-queued messages to reach the socket,
// sends a normal close frame, then closes the connection. Close tears the
// socket down before the write pump drains, so a final message queued just
// before it would be lost; this is the path for parting messages.
func (c *Connection) CloseAfterFlush() error {
	c.flushOnce.Do(func() { close(c.flush) })
	select {
	case <-c.flushed:
	case <-c.ctx.Done():
	case <-time.After(writeWait):
		c.logger.Warn("Timed out flushing connection")
	}
	return c.Close()
}

// Done reports connection shutdown
func (c *Connection) Done() <-chan struct{} {
	return c.ctx.Done()
}

// Send queues a message for delivery. It never blocks; a client too slow
// to drain its buffer gets disconnected.
func (c *Connection) Send(v any) error {
	data, err := protocol.Marshal(v)
	if err != nil {
		return err
	}
	select {
	case c.send <- data:
		return nil
	case <-c.ctx.Done():
		return ErrConnectionClosed
	default:
		c.logger.Warn("Send buffer full, closing connection")
		_ = c.Close()
		return ErrConnectionClosed
	}
}

// expect allocates a request id and a channel its reply will arrive on.
// The caller must consume the channel or call forget.
func (c *Connection) expect() (int, <-chan []byte) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.nextID++
	ch := make(chan []byte, 1)
	c.pending[c.nextID] = ch
	return c.nextID, ch
}

// forget discards the pending slot for a request that timed out
func (c *Connection) forget(id int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.pending, id)
}

// dispatch routes an inbound reply to the waiter for its request id
func (c *Connection) dispatch(requestID int, data []byte) {
	c.mu.Lock()
	ch, ok := c.pending[requestID]
	if ok {
		delete(c.pending, requestID)
	}
	c.mu.Unlock()

	if !ok {
		c.logger.Debug("Reply for unknown request, dropping", "request_id", requestID)
		return
	}
	ch <- data
}

func (c *Connection) readPump() {
	defer c.Close()

	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.logger.Warn("Unexpected close", "error", err)
			}
			return
		}

		typ, err := protocol.Peek(data)
		if err != nil {
			c.logger.Warn("Dropping malformed message", "error", err)
			continue
		}

		switch typ {
		case protocol.TypeAction:
			var msg protocol.Action
			if err := protocol.Unmarshal(data, &msg); err != nil {
				c.logger.Warn("Bad action message", "error", err)
				continue
			}
			c.dispatch(msg.RequestID, data)
		case protocol.TypeChoice:
			var msg protocol.Choice
			if err := protocol.Unmarshal(data, &msg); err != nil {
				c.logger.Warn("Bad choice message", "error", err)
				continue
			}
			c.dispatch(msg.RequestID, data)
		default:
			c.logger.Debug("Ignoring unexpected message", "message_type", typ)
		}
	}
}

func (c *Connection) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.Close()
	}()

	for {
		select {
		case data := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		case <-c.flush:
			defer close(c.flushed)
			for {
				select {
				case data := <-c.send:
					_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
					if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
						return
					}
				default:
					_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
					_ = c.conn.WriteMessage(websocket.CloseMessage,
						websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
					return
				}
			}
		case <-c.ctx.Done():
			return
		}
	}
}
