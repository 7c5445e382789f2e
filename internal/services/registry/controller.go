package registry

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/mcoot/jigsawd/internal/dependencies/clock"
	"github.com/mcoot/jigsawd/internal/dependencies/random"
	"github.com/mcoot/jigsawd/internal/model"
	"github.com/mcoot/jigsawd/internal/services/puzzle"
	"github.com/mcoot/jigsawd/internal/storage"
)

const (
	// RoomCodeLength is the length of generated room codes
	RoomCodeLength = 6
	// RoomCodeAlphabet is the characters used in room codes (avoid confusing chars)
	RoomCodeAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"
)

// Controller is the single source of truth for room membership and piece
// locks. It maps room ids to rooms and clients to their current room, and
// arbitrates every mutation.
//
// A single coarse mutex serializes all mutating operations, so check-then-set
// sequences (lock claims, capacity checks, the one-room-per-client rule) are
// linearizable. Room-level lock granularity was considered and rejected: the
// operations are cheap map updates and a global lock keeps the lock-ordering
// story trivial.
type Controller struct {
	mu      sync.Mutex
	storage storage.Storage
	puzzle  *puzzle.Service
	clock   clock.Clock
	random  random.Random
	logger  *slog.Logger
}

// NewController creates a new registry Controller
func NewController(
	store storage.Storage,
	puzzleService *puzzle.Service,
	clk clock.Clock,
	rnd random.Random,
	logger *slog.Logger,
) *Controller {
	return &Controller{
		storage: store,
		puzzle:  puzzleService,
		clock:   clk,
		random:  rnd,
		logger:  logger.With(slog.String("component", "registry")),
	}
}

// CreateRoom creates a new room with the given client as host and sole member
func (c *Controller) CreateRoom(
	ctx context.Context,
	name string,
	maxPlayers int,
	imageURL string,
	difficulty model.Difficulty,
	host model.ClientID,
) (model.Snapshot, error) {
	if maxPlayers < 1 {
		return model.Snapshot{}, fmt.Errorf("max_players must be at least 1, got %d", maxPlayers)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if _, err := c.storage.GetClientRoom(ctx, host); err == nil {
		return model.Snapshot{}, model.ErrAlreadyInRoom
	}

	puzzleInfo, positions, err := c.puzzle.Generate(imageURL, difficulty)
	if err != nil {
		return model.Snapshot{}, err
	}

	id, err := c.generateRoomID(ctx)
	if err != nil {
		return model.Snapshot{}, err
	}

	now := c.clock.Now()
	room := &model.Room{
		ID:             id,
		Name:           name,
		MaxPlayers:     maxPlayers,
		Host:           host,
		Members:        []model.Member{{Client: host, JoinedAt: now}},
		Puzzle:         puzzleInfo,
		PiecePositions: positions,
		Locks:          make(map[string]model.ClientID),
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	if err := c.storage.SaveRoom(ctx, room); err != nil {
		return model.Snapshot{}, err
	}
	if err := c.storage.SetClientRoom(ctx, host, id); err != nil {
		return model.Snapshot{}, err
	}

	c.logger.Info("room created",
		slog.String("room_id", string(id)),
		slog.String("name", name),
		slog.Int("max_players", maxPlayers),
		slog.String("host", string(host)),
		slog.String("difficulty", string(puzzleInfo.Difficulty)))

	return room.Snapshot(), nil
}

// generateRoomID picks a collision-free room code, retrying on the (rare)
// random collision against an existing room.
func (c *Controller) generateRoomID(ctx context.Context) (model.RoomID, error) {
	for {
		id := model.RoomID(c.random.Code(RoomCodeLength, RoomCodeAlphabet))
		exists, err := c.storage.RoomExists(ctx, id)
		if err != nil {
			return "", err
		}
		if !exists {
			return id, nil
		}
	}
}

// JoinRoom adds a client to an existing room
func (c *Controller) JoinRoom(ctx context.Context, id model.RoomID, client model.ClientID) (model.Snapshot, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, err := c.storage.GetClientRoom(ctx, client); err == nil {
		return model.Snapshot{}, model.ErrAlreadyInRoom
	}

	room, err := c.storage.GetRoom(ctx, id)
	if err != nil {
		return model.Snapshot{}, err
	}

	if err := room.AddMember(client, c.clock.Now()); err != nil {
		return model.Snapshot{}, err
	}

	if err := c.storage.SaveRoom(ctx, room); err != nil {
		return model.Snapshot{}, err
	}
	if err := c.storage.SetClientRoom(ctx, client, id); err != nil {
		return model.Snapshot{}, err
	}

	c.logger.Info("client joined room",
		slog.String("room_id", string(id)),
		slog.String("client", string(client)),
		slog.Int("current_players", room.PlayerCount()))

	return room.Snapshot(), nil
}

// LeaveResult describes the outcome of a leave for ack and broadcast purposes
type LeaveResult struct {
	RoomID         model.RoomID
	RoomDeleted    bool
	CurrentPlayers int
	HostChanged    bool
	NewHost        model.ClientID
	// ReleasedPieces lists locks the departing client held; they vanish with
	// no position update, leaving each piece at its last broadcast position.
	ReleasedPieces []string
}

// LeaveRoom removes a client from its current room. An emptied room is
// deleted immediately; otherwise the host is reassigned to the first
// remaining member in join order if the host departed.
func (c *Controller) LeaveRoom(ctx context.Context, client model.ClientID) (LeaveResult, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	id, err := c.storage.GetClientRoom(ctx, client)
	if err != nil {
		return LeaveResult{}, err
	}

	room, err := c.storage.GetRoom(ctx, id)
	if err != nil {
		return LeaveResult{}, err
	}

	removed, err := room.RemoveMember(client, c.clock.Now())
	if err != nil {
		return LeaveResult{}, err
	}

	if err := c.storage.DeleteClientRoom(ctx, client); err != nil {
		return LeaveResult{}, err
	}

	result := LeaveResult{
		RoomID:         id,
		CurrentPlayers: room.PlayerCount(),
		HostChanged:    removed.HostChanged,
		NewHost:        removed.NewHost,
		ReleasedPieces: removed.ReleasedPieces,
	}

	if room.IsEmpty() {
		if err := c.storage.DeleteRoom(ctx, id); err != nil {
			return LeaveResult{}, err
		}
		result.RoomDeleted = true
		c.logger.Info("room deleted",
			slog.String("room_id", string(id)),
			slog.String("last_client", string(client)))
		return result, nil
	}

	if err := c.storage.SaveRoom(ctx, room); err != nil {
		return LeaveResult{}, err
	}

	c.logger.Info("client left room",
		slog.String("room_id", string(id)),
		slog.String("client", string(client)),
		slog.Bool("host_changed", removed.HostChanged),
		slog.Int("current_players", room.PlayerCount()))

	return result, nil
}

// ClientRoom returns the room the client currently belongs to
func (c *Controller) ClientRoom(ctx context.Context, client model.ClientID) (model.RoomID, error) {
	return c.storage.GetClientRoom(ctx, client)
}

// Snapshot returns a point-in-time copy of a room's state
func (c *Controller) Snapshot(ctx context.Context, id model.RoomID) (model.Snapshot, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	room, err := c.storage.GetRoom(ctx, id)
	if err != nil {
		return model.Snapshot{}, err
	}
	return room.Snapshot(), nil
}

// ListRooms returns snapshots of every active room
func (c *Controller) ListRooms(ctx context.Context) ([]model.Snapshot, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	rooms, err := c.storage.ListRooms(ctx)
	if err != nil {
		return nil, err
	}

	snapshots := make([]model.Snapshot, 0, len(rooms))
	for _, room := range rooms {
		snapshots = append(snapshots, room.Snapshot())
	}
	return snapshots, nil
}

// LockResult carries the lock-table state for lock/release acks
type LockResult struct {
	RoomID        model.RoomID
	LockedObjects map[string]string
}

// LockPiece claims exclusive control of a piece for the client.
// Exactly one of N concurrent claims for the same piece succeeds.
func (c *Controller) LockPiece(ctx context.Context, client model.ClientID, pieceID string) (LockResult, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	id, room, err := c.roomForClient(ctx, client)
	if err != nil {
		return LockResult{}, err
	}

	if err := room.LockPiece(pieceID, client, c.clock.Now()); err != nil {
		return LockResult{}, err
	}

	if err := c.storage.SaveRoom(ctx, room); err != nil {
		return LockResult{}, err
	}

	return LockResult{RoomID: id, LockedObjects: room.Snapshot().LockedObjects}, nil
}

// ReleasePiece drops the client's lock and records the piece's final position
func (c *Controller) ReleasePiece(ctx context.Context, client model.ClientID, pieceID string, pos model.Position) (LockResult, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	id, room, err := c.roomForClient(ctx, client)
	if err != nil {
		return LockResult{}, err
	}

	if err := room.ReleasePiece(pieceID, client, pos, c.clock.Now()); err != nil {
		return LockResult{}, err
	}

	if err := c.storage.SaveRoom(ctx, room); err != nil {
		return LockResult{}, err
	}

	return LockResult{RoomID: id, LockedObjects: room.Snapshot().LockedObjects}, nil
}

// MovePiece updates a held piece's position for drag feedback
func (c *Controller) MovePiece(ctx context.Context, client model.ClientID, pieceID string, pos model.Position) (model.RoomID, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	id, room, err := c.roomForClient(ctx, client)
	if err != nil {
		return "", err
	}

	if err := room.MovePiece(pieceID, client, pos, c.clock.Now()); err != nil {
		return "", err
	}

	if err := c.storage.SaveRoom(ctx, room); err != nil {
		return "", err
	}

	return id, nil
}

// MarkSolved records a client's win claim. The first claim succeeds; repeats
// fail with ErrAlreadySolved.
func (c *Controller) MarkSolved(ctx context.Context, client model.ClientID) (model.RoomID, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	id, room, err := c.roomForClient(ctx, client)
	if err != nil {
		return "", err
	}

	if err := room.MarkSolved(c.clock.Now()); err != nil {
		return "", err
	}

	if err := c.storage.SaveRoom(ctx, room); err != nil {
		return "", err
	}

	c.logger.Info("room solved",
		slog.String("room_id", string(id)),
		slog.String("client", string(client)))

	return id, nil
}

// roomForClient resolves the client's current room. Callers must hold c.mu.
func (c *Controller) roomForClient(ctx context.Context, client model.ClientID) (model.RoomID, *model.Room, error) {
	id, err := c.storage.GetClientRoom(ctx, client)
	if err != nil {
		return "", nil, err
	}
	room, err := c.storage.GetRoom(ctx, id)
	if err != nil {
		return "", nil, err
	}
	return id, room, nil
}

// ControllerInterface for dependency injection
type ControllerInterface interface {
	CreateRoom(ctx context.Context, name string, maxPlayers int, imageURL string, difficulty model.Difficulty, host model.ClientID) (model.Snapshot, error)
	JoinRoom(ctx context.Context, id model.RoomID, client model.ClientID) (model.Snapshot, error)
	LeaveRoom(ctx context.Context, client model.ClientID) (LeaveResult, error)
	ClientRoom(ctx context.Context, client model.ClientID) (model.RoomID, error)
	Snapshot(ctx context.Context, id model.RoomID) (model.Snapshot, error)
	ListRooms(ctx context.Context) ([]model.Snapshot, error)
	LockPiece(ctx context.Context, client model.ClientID, pieceID string) (LockResult, error)
	ReleasePiece(ctx context.Context, client model.ClientID, pieceID string, pos model.Position) (LockResult, error)
	MovePiece(ctx context.Context, client model.ClientID, pieceID string, pos model.Position) (model.RoomID, error)
	MarkSolved(ctx context.Context, client model.ClientID) (model.RoomID, error)
}

var _ ControllerInterface = (*Controller)(nil)
