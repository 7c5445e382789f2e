package cli

import (
	"fmt"
	"net"
	"strings"
	"time"

	"github.com/mcoot/jigsawd/internal/protocol"
)

const dialTimeout = 10 * time.Second

// Client is a TCP client for the game session protocol
type Client struct {
	addr   string
	conn   net.Conn
	reader *protocol.Reader
}

// NewClient creates a client for the given server address. It does not
// connect until Connect is called.
func NewClient(addr string) *Client {
	return &Client{addr: addr}
}

// Connect dials the game server
func (c *Client) Connect() error {
	conn, err := net.DialTimeout("tcp", c.addr, dialTimeout)
	if err != nil {
		return fmt.Errorf("connect to %s: %w", c.addr, err)
	}
	c.conn = conn
	c.reader = protocol.NewReader(conn)
	return nil
}

// Close tears down the connection. The server treats the disconnect as an
// implicit leave of any joined room.
func (c *Client) Close() error {
	if c.conn == nil {
		return nil
	}
	return c.conn.Close()
}

// Send writes one message to the server
func (c *Client) Send(msgType protocol.Type, payload any) error {
	return protocol.Write(c.conn, msgType, payload)
}

// Read blocks for the next message from the server
func (c *Client) Read() (protocol.Message, error) {
	return c.reader.Read()
}

// Call sends a request and reads messages until a non-broadcast reply
// arrives, decoding it into result. Broadcasts that arrive in between are
// passed to onBroadcast if it is non-nil, otherwise discarded.
func (c *Client) Call(msgType protocol.Type, payload, result any, onBroadcast func(protocol.Message)) (protocol.Type, error) {
	if err := c.Send(msgType, payload); err != nil {
		return "", err
	}

	for {
		msg, err := c.Read()
		if err != nil {
			return "", fmt.Errorf("read reply to %s: %w", msgType, err)
		}
		if IsBroadcast(msg.Type) {
			if onBroadcast != nil {
				onBroadcast(msg)
			}
			continue
		}
		if result != nil {
			if err := msg.DecodePayload(result); err != nil {
				return msg.Type, fmt.Errorf("decode %s payload: %w", msg.Type, err)
			}
		}
		return msg.Type, nil
	}
}

// IsBroadcast reports whether a message type is a room broadcast rather
// than a direct reply
func IsBroadcast(t protocol.Type) bool {
	return strings.HasSuffix(string(t), "_BROD")
}
