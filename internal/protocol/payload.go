package protocol

import (
	"time"

	"github.com/mcoot/jigsawd/internal/model"
)

// Requests (client to server)

// HostGameRequest asks the server to create a new room with the sender as host
type HostGameRequest struct {
	GameName   string           `json:"game_name"`
	MaxPlayers int              `json:"max_players"`
	ImageURL   string           `json:"image_url"`
	Difficulty model.Difficulty `json:"difficulty,omitempty"`
}

// JoinGameRequest asks to join an existing room by its code
type JoinGameRequest struct {
	GameID model.RoomID `json:"game_id"`
}

// LockObjectRequest claims exclusive control of a piece
type LockObjectRequest struct {
	ObjectID string `json:"object_id"`
}

// ReleaseObjectRequest drops a held piece at its final position
type ReleaseObjectRequest struct {
	ObjectID string          `json:"object_id"`
	Position *model.Position `json:"position"`
}

// MoveLockedObjectRequest streams drag positions for a held piece.
// Fire-and-forget: the server never acks it, only broadcasts to peers.
type MoveLockedObjectRequest struct {
	ObjectID string          `json:"object_id"`
	Position *model.Position `json:"position"`
}

// PuzzleSolvedRequest reports a client-detected win. The server records the
// claim without re-verifying piece positions.
type PuzzleSolvedRequest struct {
	ElapsedSeconds float64 `json:"elapsed_seconds"`
	TotalPieces    int     `json:"total_pieces"`
}

// SendChatRequest relays a chat line to room peers
type SendChatRequest struct {
	Text string `json:"text"`
}

// Acks (server to sender)

// Ack is the generic success/failure reply
type Ack struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}

// RoomStateAck is the reply to HOST_GAME and JOIN_GAME; on success it carries
// the full room snapshot so the client can render the board.
type RoomStateAck struct {
	Ack
	GameID         model.RoomID              `json:"game_id,omitempty"`
	GameName       string                    `json:"game_name,omitempty"`
	MaxPlayers     int                       `json:"max_players,omitempty"`
	CurrentPlayers int                       `json:"current_players,omitempty"`
	Host           *model.PlayerInfo         `json:"host,omitempty"`
	Players        []model.PlayerInfo        `json:"players,omitempty"`
	ImageURL       string                    `json:"image_url,omitempty"`
	Difficulty     model.Difficulty          `json:"difficulty,omitempty"`
	PiecePositions map[string]model.Position `json:"piece_positions,omitempty"`
	LockedObjects  map[string]string         `json:"locked_objects,omitempty"`
	Solved         bool                      `json:"solved,omitempty"`
}

// RoomStateAckFromSnapshot builds a success ack from a room snapshot
func RoomStateAckFromSnapshot(snap model.Snapshot) RoomStateAck {
	host := snap.Host
	return RoomStateAck{
		Ack:            Ack{Success: true},
		GameID:         snap.ID,
		GameName:       snap.Name,
		MaxPlayers:     snap.MaxPlayers,
		CurrentPlayers: snap.CurrentPlayers,
		Host:           &host,
		Players:        snap.Players,
		ImageURL:       snap.Puzzle.ImageURL,
		Difficulty:     snap.Puzzle.Difficulty,
		PiecePositions: snap.PiecePositions,
		LockedObjects:  snap.LockedObjects,
		Solved:         snap.Solved,
	}
}

// LockAck replies to LOCK_OBJECT and RELEASE_OBJECT. It echoes the full lock
// table so the requester can reconcile its local view.
type LockAck struct {
	Ack
	ObjectID      string            `json:"object_id,omitempty"`
	LockedObjects map[string]string `json:"locked_objects,omitempty"`
}

// RoomSummary is one row in a LIST_ROOMS_ACK
type RoomSummary struct {
	GameID         model.RoomID `json:"game_id"`
	GameName       string       `json:"game_name"`
	MaxPlayers     int          `json:"max_players"`
	CurrentPlayers int          `json:"current_players"`
	Solved         bool         `json:"solved"`
}

// ListRoomsAck replies to LIST_ROOMS with all joinable rooms
type ListRoomsAck struct {
	Ack
	Rooms []RoomSummary `json:"rooms"`
}

// Broadcasts (server to room peers)

// PlayerJoinedBrod tells existing members a new player joined
type PlayerJoinedBrod struct {
	Player         model.PlayerInfo `json:"player"`
	CurrentPlayers int              `json:"current_players"`
}

// PlayerLeftBrod tells remaining members a player departed. Any locks the
// departing player held are listed so peers can unfreeze those pieces.
type PlayerLeftBrod struct {
	Player          model.PlayerInfo  `json:"player"`
	CurrentPlayers  int               `json:"current_players"`
	HostChanged     bool              `json:"host_changed"`
	NewHost         *model.PlayerInfo `json:"new_host,omitempty"`
	ReleasedObjects []string          `json:"released_objects,omitempty"`
}

// LockObjectBrod announces that a piece is now held by a player
type LockObjectBrod struct {
	ObjectID string           `json:"object_id"`
	Player   model.PlayerInfo `json:"player"`
}

// ReleaseObjectBrod announces a piece's release and final position
type ReleaseObjectBrod struct {
	ObjectID string           `json:"object_id"`
	Position model.Position   `json:"position"`
	Player   model.PlayerInfo `json:"player"`
}

// MoveLockedObjectBrod streams a held piece's drag position to peers
type MoveLockedObjectBrod struct {
	ObjectID string           `json:"object_id"`
	Position model.Position   `json:"position"`
	Player   model.PlayerInfo `json:"player"`
}

// PuzzleSolvedBrod announces the session's win to all peers
type PuzzleSolvedBrod struct {
	Player         model.PlayerInfo `json:"player"`
	ElapsedSeconds float64          `json:"elapsed_seconds"`
	TotalPieces    int              `json:"total_pieces"`
}

// ChatMessageBrod relays one chat line
type ChatMessageBrod struct {
	Player model.PlayerInfo `json:"player"`
	Text   string           `json:"text"`
	SentAt time.Time        `json:"sent_at"`
}
