package protocol

import "encoding/json"

// Type is the message-kind discriminator on the wire
type Type string

// Client to server
const (
	TypeHostGame         Type = "HOST_GAME"
	TypeJoinGame         Type = "JOIN_GAME"
	TypeLeaveGame        Type = "LEAVE_GAME"
	TypeListRooms        Type = "LIST_ROOMS"
	TypeLockObject       Type = "LOCK_OBJECT"
	TypeReleaseObject    Type = "RELEASE_OBJECT"
	TypeMoveLockedObject Type = "MOVE_LOCKED_OBJECT"
	TypePuzzleSolved     Type = "PUZZLE_SOLVED"
	TypeSendChat         Type = "SEND_CHAT"
)

// Server to client acks
const (
	TypeHostGameAck      Type = "HOST_GAME_ACK"
	TypeJoinGameAck      Type = "JOIN_GAME_ACK"
	TypeLeaveGameAck     Type = "LEAVE_GAME_ACK"
	TypeListRoomsAck     Type = "LIST_ROOMS_ACK"
	TypeLockObjectAck    Type = "LOCK_OBJECT_ACK"
	TypeReleaseObjectAck Type = "RELEASE_OBJECT_ACK"
	TypePuzzleSolvedAck  Type = "PUZZLE_SOLVED_ACK"
	TypeError            Type = "ERROR"
)

// Server to room broadcasts
const (
	TypePlayerJoinedBrod     Type = "PLAYER_JOINED_BROD"
	TypePlayerLeftBrod       Type = "PLAYER_LEFT_BROD"
	TypeLockObjectBrod       Type = "LOCK_OBJECT_BROD"
	TypeReleaseObjectBrod    Type = "RELEASE_OBJECT_BROD"
	TypeMoveLockedObjectBrod Type = "MOVE_LOCKED_OBJECT_BROD"
	TypePuzzleSolvedBrod     Type = "PUZZLE_SOLVED_BROD"
	TypeChatMessageBrod      Type = "CHAT_MESSAGE_BROD"
)

// Message is one application-level document on the wire
type Message struct {
	Type    Type            `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// DecodePayload unmarshals the message payload into v.
// A missing payload is treated as an empty object.
func (m Message) DecodePayload(v any) error {
	if len(m.Payload) == 0 {
		return nil
	}
	return json.Unmarshal(m.Payload, v)
}
