package model

import "time"

// RoomID is a short human-readable code for joining rooms
type RoomID string

// Room represents one active puzzle session.
//
// Room methods are pure state-machine transitions with no internal locking;
// the registry controller serializes all mutations.
type Room struct {
	ID         RoomID
	Name       string
	MaxPlayers int
	Host       ClientID
	Members    []Member // join order; Members[0] becomes host when the host leaves
	Puzzle     PuzzleInfo

	// PiecePositions has exactly one entry per piece for the life of the
	// room; entries are replaced by release/move, never removed.
	PiecePositions map[string]Position

	// Locks maps a piece id to the client currently dragging it.
	// Absence means the piece is free.
	Locks map[string]ClientID

	Solved    bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// GetMember returns the member with the given client id, or nil if absent
func (r *Room) GetMember(client ClientID) *Member {
	for i := range r.Members {
		if r.Members[i].Client == client {
			return &r.Members[i]
		}
	}
	return nil
}

// PlayerCount returns the current number of members
func (r *Room) PlayerCount() int {
	return len(r.Members)
}

// IsFull reports whether the room has reached its player capacity
func (r *Room) IsFull() bool {
	return len(r.Members) >= r.MaxPlayers
}

// IsEmpty reports whether the room has no members left
func (r *Room) IsEmpty() bool {
	return len(r.Members) == 0
}

// AddMember appends a client to the membership in join order
func (r *Room) AddMember(client ClientID, now time.Time) error {
	if r.GetMember(client) != nil {
		return ErrAlreadyInRoom
	}
	if r.IsFull() {
		return ErrRoomFull
	}
	r.Members = append(r.Members, Member{Client: client, JoinedAt: now})
	r.UpdatedAt = now
	return nil
}

// RemoveResult describes the side effects of removing a member
type RemoveResult struct {
	HostChanged bool
	NewHost     ClientID
	// ReleasedPieces lists locks the departing client held. They are dropped
	// without a position update; each piece stays at its last known position.
	ReleasedPieces []string
}

// RemoveMember removes a client from the room, drops any locks it held, and
// reassigns the host to the first remaining member if necessary.
func (r *Room) RemoveMember(client ClientID, now time.Time) (RemoveResult, error) {
	if r.GetMember(client) == nil {
		return RemoveResult{}, ErrNotInRoom
	}

	var result RemoveResult

	for i, m := range r.Members {
		if m.Client == client {
			r.Members = append(r.Members[:i], r.Members[i+1:]...)
			break
		}
	}

	for piece, holder := range r.Locks {
		if holder == client {
			delete(r.Locks, piece)
			result.ReleasedPieces = append(result.ReleasedPieces, piece)
		}
	}

	if r.Host == client && len(r.Members) > 0 {
		r.Host = r.Members[0].Client
		result.HostChanged = true
		result.NewHost = r.Host
	}

	r.UpdatedAt = now
	return result, nil
}

// LockPiece records an exclusive claim on a piece for the given client.
// It fails if the piece is unknown or any client (including the requester)
// already holds it.
func (r *Room) LockPiece(pieceID string, client ClientID, now time.Time) error {
	if _, ok := r.PiecePositions[pieceID]; !ok {
		return ErrUnknownPiece
	}
	if _, held := r.Locks[pieceID]; held {
		return ErrPieceLocked
	}
	r.Locks[pieceID] = client
	r.UpdatedAt = now
	return nil
}

// ReleasePiece clears the client's lock on a piece and records its final
// position. Only the current holder may release.
func (r *Room) ReleasePiece(pieceID string, client ClientID, pos Position, now time.Time) error {
	if _, ok := r.PiecePositions[pieceID]; !ok {
		return ErrUnknownPiece
	}
	if holder, held := r.Locks[pieceID]; !held || holder != client {
		return ErrNotLockHolder
	}
	delete(r.Locks, pieceID)
	r.PiecePositions[pieceID] = pos
	r.UpdatedAt = now
	return nil
}

// MovePiece updates a locked piece's position without releasing the lock.
// Used for continuous drag feedback; only the holder may move.
func (r *Room) MovePiece(pieceID string, client ClientID, pos Position, now time.Time) error {
	if _, ok := r.PiecePositions[pieceID]; !ok {
		return ErrUnknownPiece
	}
	if holder, held := r.Locks[pieceID]; !held || holder != client {
		return ErrNotLockHolder
	}
	r.PiecePositions[pieceID] = pos
	r.UpdatedAt = now
	return nil
}

// MarkSolved flips the one-way solved flag.
// The server trusts the client's claim; positions are not re-verified.
func (r *Room) MarkSolved(now time.Time) error {
	if r.Solved {
		return ErrAlreadySolved
	}
	r.Solved = true
	r.UpdatedAt = now
	return nil
}

// Snapshot is a point-in-time copy of room state for acks and the status API
type Snapshot struct {
	ID             RoomID              `json:"game_id"`
	Name           string              `json:"game_name"`
	MaxPlayers     int                 `json:"max_players"`
	CurrentPlayers int                 `json:"current_players"`
	Host           PlayerInfo          `json:"host"`
	Players        []PlayerInfo        `json:"players"`
	Puzzle         PuzzleInfo          `json:"puzzle"`
	PiecePositions map[string]Position `json:"piece_positions"`
	LockedObjects  map[string]string   `json:"locked_objects"`
	Solved         bool                `json:"solved"`
}

// Snapshot returns a deep copy of the room's externally visible state
func (r *Room) Snapshot() Snapshot {
	players := make([]PlayerInfo, len(r.Members))
	for i, m := range r.Members {
		players[i] = m.Client.Info()
	}

	positions := make(map[string]Position, len(r.PiecePositions))
	for id, pos := range r.PiecePositions {
		positions[id] = pos
	}

	locks := make(map[string]string, len(r.Locks))
	for id, holder := range r.Locks {
		locks[id] = string(holder)
	}

	return Snapshot{
		ID:             r.ID,
		Name:           r.Name,
		MaxPlayers:     r.MaxPlayers,
		CurrentPlayers: len(r.Members),
		Host:           r.Host.Info(),
		Players:        players,
		Puzzle:         r.Puzzle,
		PiecePositions: positions,
		LockedObjects:  locks,
		Solved:         r.Solved,
	}
}
