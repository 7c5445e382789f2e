package server

import (
	"log/slog"
	"net"
	"sync"

	"github.com/google/uuid"

	"github.com/mcoot/jigsawd/internal/model"
)

// sendBufferSize is the per-connection outgoing message buffer
const sendBufferSize = 256

// Client wraps one accepted connection. All writes (acks and broadcasts)
// funnel through the send channel and a single write pump goroutine, so
// messages from different sources never interleave on the wire.
type Client struct {
	// sessionID tags log lines for this connection's lifetime
	sessionID string
	clientID  model.ClientID
	conn      net.Conn
	logger    *slog.Logger

	send      chan []byte
	done      chan struct{}
	closeOnce sync.Once
}

// NewClient wraps an accepted connection
func NewClient(conn net.Conn, logger *slog.Logger) *Client {
	sessionID := uuid.NewString()
	clientID := model.ClientIDFromAddr(conn.RemoteAddr())
	return &Client{
		sessionID: sessionID,
		clientID:  clientID,
		conn:      conn,
		logger: logger.With(
			slog.String("session_id", sessionID),
			slog.String("client", string(clientID))),
		send: make(chan []byte, sendBufferSize),
		done: make(chan struct{}),
	}
}

// ClientID returns the transport-level identity of the peer
func (c *Client) ClientID() model.ClientID {
	return c.clientID
}

// Enqueue queues a pre-encoded message for delivery. It never blocks;
// it reports false if the message was dropped because the buffer is full
// or the connection is closing.
func (c *Client) Enqueue(data []byte) bool {
	select {
	case <-c.done:
		return false
	default:
	}
	select {
	case c.send <- data:
		return true
	default:
		c.logger.Warn("message dropped - client buffer full")
		return false
	}
}

// WritePump drains the send queue onto the connection. It runs in its own
// goroutine and exits when the client closes or a write fails.
func (c *Client) WritePump() {
	for {
		select {
		case data := <-c.send:
			if _, err := c.conn.Write(data); err != nil {
				c.logger.Debug("write failed", slog.String("error", err.Error()))
				c.Close()
				return
			}
		case <-c.done:
			return
		}
	}
}

// Close tears down the connection. Safe to call multiple times; the read
// loop and write pump both unblock.
func (c *Client) Close() {
	c.closeOnce.Do(func() {
		close(c.done)
		_ = c.conn.Close()
	})
}

// Done is closed when the client is shutting down
func (c *Client) Done() <-chan struct{} {
	return c.done
}
