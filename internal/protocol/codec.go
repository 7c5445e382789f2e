// Package protocol defines the wire format shared by the server and clients:
// newline-delimited JSON documents of the form {"type": ..., "payload": ...}.
//
// TCP gives no message boundaries, so a stream decoder is used rather than
// assuming one read returns one document; zero, partial, or multiple
// documents per read are all handled.
package protocol

import (
	"encoding/json"
	"fmt"
	"io"
)

// Reader decodes messages from a byte stream
type Reader struct {
	dec *json.Decoder
}

// NewReader creates a Reader over r
func NewReader(r io.Reader) *Reader {
	return &Reader{dec: json.NewDecoder(r)}
}

// Read blocks until one full message is available.
// Returns io.EOF when the stream ends cleanly.
func (r *Reader) Read() (Message, error) {
	var msg Message
	if err := r.dec.Decode(&msg); err != nil {
		if err == io.EOF {
			return Message{}, io.EOF
		}
		return Message{}, fmt.Errorf("decode message: %w", err)
	}
	if msg.Type == "" {
		return Message{}, fmt.Errorf("decode message: missing type field")
	}
	return msg, nil
}

// Marshal encodes a message with a trailing newline delimiter
func Marshal(msgType Type, payload any) ([]byte, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("encode payload for %s: %w", msgType, err)
	}
	data, err := json.Marshal(Message{Type: msgType, Payload: raw})
	if err != nil {
		return nil, fmt.Errorf("encode message %s: %w", msgType, err)
	}
	return append(data, '\n'), nil
}

// Write encodes one message to w
func Write(w io.Writer, msgType Type, payload any) error {
	data, err := Marshal(msgType, payload)
	if err != nil {
		return err
	}
	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("write message %s: %w", msgType, err)
	}
	return nil
}
