package server

import (
	"context"
	"errors"
	"io"
	"log/slog"

	"github.com/mcoot/jigsawd/internal/dependencies/clock"
	"github.com/mcoot/jigsawd/internal/model"
	"github.com/mcoot/jigsawd/internal/protocol"
	"github.com/mcoot/jigsawd/internal/services/registry"
)

// Session runs the per-connection dispatch loop. Each inbound message yields
// at most one ack back to the sender and at most one broadcast to the
// sender's room peers. A read failure or EOF is treated as an implicit leave.
type Session struct {
	client   *Client
	registry registry.ControllerInterface
	hubs     *HubManager
	clock    clock.Clock
	logger   *slog.Logger
}

// NewSession creates a session for an accepted connection
func NewSession(client *Client, reg registry.ControllerInterface, hubs *HubManager, clk clock.Clock) *Session {
	return &Session{
		client:   client,
		registry: reg,
		hubs:     hubs,
		clock:    clk,
		logger:   client.logger,
	}
}

// Run reads and dispatches messages until the connection drops.
// It owns connection teardown, including the implicit leave.
func (s *Session) Run(ctx context.Context) {
	s.logger.Info("connection established")

	go s.client.WritePump()
	defer s.teardown(ctx)

	reader := protocol.NewReader(s.client.conn)
	for {
		msg, err := reader.Read()
		if err != nil {
			if !errors.Is(err, io.EOF) {
				s.logger.Debug("read failed", slog.String("error", err.Error()))
			}
			return
		}
		s.dispatch(ctx, msg)
	}
}

// teardown performs the implicit leave and releases the connection
func (s *Session) teardown(ctx context.Context) {
	result, err := s.registry.LeaveRoom(ctx, s.client.ClientID())
	switch {
	case err == nil:
		s.afterLeave(result)
	case errors.Is(err, model.ErrNotInRoom):
		// Client was in the lobby; nothing to clean up
	default:
		s.logger.Error("implicit leave failed", slog.String("error", err.Error()))
	}

	s.client.Close()
	s.logger.Info("connection closed")
}

func (s *Session) dispatch(ctx context.Context, msg protocol.Message) {
	switch msg.Type {
	case protocol.TypeHostGame:
		s.handleHostGame(ctx, msg)
	case protocol.TypeJoinGame:
		s.handleJoinGame(ctx, msg)
	case protocol.TypeLeaveGame:
		s.handleLeaveGame(ctx)
	case protocol.TypeListRooms:
		s.handleListRooms(ctx)
	case protocol.TypeLockObject:
		s.handleLockObject(ctx, msg)
	case protocol.TypeReleaseObject:
		s.handleReleaseObject(ctx, msg)
	case protocol.TypeMoveLockedObject:
		s.handleMoveLockedObject(ctx, msg)
	case protocol.TypePuzzleSolved:
		s.handlePuzzleSolved(ctx, msg)
	case protocol.TypeSendChat:
		s.handleSendChat(ctx, msg)
	default:
		s.logger.Warn("unknown message type", slog.String("type", string(msg.Type)))
		s.sendError("unknown message type: " + string(msg.Type))
	}
}

// send encodes and queues an ack on the sender's own connection
func (s *Session) send(msgType protocol.Type, payload any) {
	data, err := protocol.Marshal(msgType, payload)
	if err != nil {
		s.logger.Error("encode ack failed",
			slog.String("type", string(msgType)),
			slog.String("error", err.Error()))
		return
	}
	s.client.Enqueue(data)
}

func (s *Session) sendError(message string) {
	s.send(protocol.TypeError, protocol.Ack{Success: false, Message: message})
}

// broadcastToRoom encodes a message and fans it out to the room's other
// members. Best-effort: failures are logged, never surfaced to the sender.
func (s *Session) broadcastToRoom(roomID model.RoomID, msgType protocol.Type, payload any, exclude *Client) {
	hub := s.hubs.GetHub(roomID)
	if hub == nil {
		return
	}
	data, err := protocol.Marshal(msgType, payload)
	if err != nil {
		s.logger.Error("encode broadcast failed",
			slog.String("type", string(msgType)),
			slog.String("error", err.Error()))
		return
	}
	hub.Broadcast(data, exclude)
}

func (s *Session) handleHostGame(ctx context.Context, msg protocol.Message) {
	var req protocol.HostGameRequest
	if err := msg.DecodePayload(&req); err != nil {
		s.sendError("malformed HOST_GAME payload: " + err.Error())
		return
	}

	snap, err := s.registry.CreateRoom(ctx, req.GameName, req.MaxPlayers, req.ImageURL, req.Difficulty, s.client.ClientID())
	if err != nil {
		s.send(protocol.TypeHostGameAck, protocol.RoomStateAck{
			Ack: protocol.Ack{Success: false, Message: err.Error()},
		})
		return
	}

	s.hubs.GetOrCreateHub(snap.ID).Register(s.client)
	s.send(protocol.TypeHostGameAck, protocol.RoomStateAckFromSnapshot(snap))
}

func (s *Session) handleJoinGame(ctx context.Context, msg protocol.Message) {
	var req protocol.JoinGameRequest
	if err := msg.DecodePayload(&req); err != nil {
		s.sendError("malformed JOIN_GAME payload: " + err.Error())
		return
	}

	snap, err := s.registry.JoinRoom(ctx, req.GameID, s.client.ClientID())
	if err != nil {
		s.send(protocol.TypeJoinGameAck, protocol.RoomStateAck{
			Ack: protocol.Ack{Success: false, Message: err.Error()},
		})
		return
	}

	s.hubs.GetOrCreateHub(snap.ID).Register(s.client)
	s.send(protocol.TypeJoinGameAck, protocol.RoomStateAckFromSnapshot(snap))

	s.broadcastToRoom(snap.ID, protocol.TypePlayerJoinedBrod, protocol.PlayerJoinedBrod{
		Player:         s.client.ClientID().Info(),
		CurrentPlayers: snap.CurrentPlayers,
	}, s.client)
}

func (s *Session) handleLeaveGame(ctx context.Context) {
	result, err := s.registry.LeaveRoom(ctx, s.client.ClientID())
	if err != nil {
		if errors.Is(err, model.ErrNotInRoom) {
			s.sendError(err.Error())
			return
		}
		s.send(protocol.TypeLeaveGameAck, protocol.Ack{Success: false, Message: err.Error()})
		return
	}

	s.send(protocol.TypeLeaveGameAck, protocol.Ack{Success: true})
	s.afterLeave(result)
}

// afterLeave detaches the connection from its room hub and notifies the
// remaining members. Shared by explicit LEAVE_GAME and implicit leave.
func (s *Session) afterLeave(result registry.LeaveResult) {
	hub := s.hubs.GetHub(result.RoomID)
	if hub != nil {
		hub.Unregister(s.client)
	}

	if result.RoomDeleted {
		// Nobody left to notify
		s.hubs.RemoveHub(result.RoomID)
		return
	}

	brod := protocol.PlayerLeftBrod{
		Player:          s.client.ClientID().Info(),
		CurrentPlayers:  result.CurrentPlayers,
		HostChanged:     result.HostChanged,
		ReleasedObjects: result.ReleasedPieces,
	}
	if result.HostChanged {
		info := result.NewHost.Info()
		brod.NewHost = &info
	}
	s.broadcastToRoom(result.RoomID, protocol.TypePlayerLeftBrod, brod, s.client)
}

func (s *Session) handleListRooms(ctx context.Context) {
	snaps, err := s.registry.ListRooms(ctx)
	if err != nil {
		s.send(protocol.TypeListRoomsAck, protocol.ListRoomsAck{
			Ack: protocol.Ack{Success: false, Message: err.Error()},
		})
		return
	}

	rooms := make([]protocol.RoomSummary, 0, len(snaps))
	for _, snap := range snaps {
		rooms = append(rooms, protocol.RoomSummary{
			GameID:         snap.ID,
			GameName:       snap.Name,
			MaxPlayers:     snap.MaxPlayers,
			CurrentPlayers: snap.CurrentPlayers,
			Solved:         snap.Solved,
		})
	}
	s.send(protocol.TypeListRoomsAck, protocol.ListRoomsAck{
		Ack:   protocol.Ack{Success: true},
		Rooms: rooms,
	})
}

func (s *Session) handleLockObject(ctx context.Context, msg protocol.Message) {
	var req protocol.LockObjectRequest
	if err := msg.DecodePayload(&req); err != nil {
		s.sendError("malformed LOCK_OBJECT payload: " + err.Error())
		return
	}
	if req.ObjectID == "" {
		s.send(protocol.TypeLockObjectAck, protocol.LockAck{
			Ack: protocol.Ack{Success: false, Message: "object_id is required"},
		})
		return
	}

	result, err := s.registry.LockPiece(ctx, s.client.ClientID(), req.ObjectID)
	if err != nil {
		if errors.Is(err, model.ErrNotInRoom) {
			s.sendError(err.Error())
			return
		}
		s.send(protocol.TypeLockObjectAck, protocol.LockAck{
			Ack:      protocol.Ack{Success: false, Message: err.Error()},
			ObjectID: req.ObjectID,
		})
		return
	}

	s.send(protocol.TypeLockObjectAck, protocol.LockAck{
		Ack:           protocol.Ack{Success: true},
		ObjectID:      req.ObjectID,
		LockedObjects: result.LockedObjects,
	})
	s.broadcastToRoom(result.RoomID, protocol.TypeLockObjectBrod, protocol.LockObjectBrod{
		ObjectID: req.ObjectID,
		Player:   s.client.ClientID().Info(),
	}, s.client)
}

func (s *Session) handleReleaseObject(ctx context.Context, msg protocol.Message) {
	var req protocol.ReleaseObjectRequest
	if err := msg.DecodePayload(&req); err != nil {
		s.sendError("malformed RELEASE_OBJECT payload: " + err.Error())
		return
	}
	if req.ObjectID == "" || req.Position == nil {
		s.send(protocol.TypeReleaseObjectAck, protocol.LockAck{
			Ack: protocol.Ack{Success: false, Message: "object_id and position are required"},
		})
		return
	}

	result, err := s.registry.ReleasePiece(ctx, s.client.ClientID(), req.ObjectID, *req.Position)
	if err != nil {
		if errors.Is(err, model.ErrNotInRoom) {
			s.sendError(err.Error())
			return
		}
		s.send(protocol.TypeReleaseObjectAck, protocol.LockAck{
			Ack:      protocol.Ack{Success: false, Message: err.Error()},
			ObjectID: req.ObjectID,
		})
		return
	}

	s.send(protocol.TypeReleaseObjectAck, protocol.LockAck{
		Ack:           protocol.Ack{Success: true},
		ObjectID:      req.ObjectID,
		LockedObjects: result.LockedObjects,
	})
	s.broadcastToRoom(result.RoomID, protocol.TypeReleaseObjectBrod, protocol.ReleaseObjectBrod{
		ObjectID: req.ObjectID,
		Position: *req.Position,
		Player:   s.client.ClientID().Info(),
	}, s.client)
}

func (s *Session) handleMoveLockedObject(ctx context.Context, msg protocol.Message) {
	var req protocol.MoveLockedObjectRequest
	if err := msg.DecodePayload(&req); err != nil {
		s.sendError("malformed MOVE_LOCKED_OBJECT payload: " + err.Error())
		return
	}
	if req.ObjectID == "" || req.Position == nil {
		// Fire-and-forget: nothing useful to tell the mover
		return
	}

	roomID, err := s.registry.MovePiece(ctx, s.client.ClientID(), req.ObjectID, *req.Position)
	if err != nil {
		if errors.Is(err, model.ErrNotInRoom) {
			s.sendError(err.Error())
			return
		}
		// Holder violations on move are dropped; the next release or lock
		// ack resynchronizes the client.
		s.logger.Debug("move rejected",
			slog.String("object_id", req.ObjectID),
			slog.String("error", err.Error()))
		return
	}

	s.broadcastToRoom(roomID, protocol.TypeMoveLockedObjectBrod, protocol.MoveLockedObjectBrod{
		ObjectID: req.ObjectID,
		Position: *req.Position,
		Player:   s.client.ClientID().Info(),
	}, s.client)
}

func (s *Session) handlePuzzleSolved(ctx context.Context, msg protocol.Message) {
	var req protocol.PuzzleSolvedRequest
	if err := msg.DecodePayload(&req); err != nil {
		s.sendError("malformed PUZZLE_SOLVED payload: " + err.Error())
		return
	}

	roomID, err := s.registry.MarkSolved(ctx, s.client.ClientID())
	if err != nil {
		if errors.Is(err, model.ErrNotInRoom) {
			s.sendError(err.Error())
			return
		}
		s.send(protocol.TypePuzzleSolvedAck, protocol.Ack{Success: false, Message: err.Error()})
		return
	}

	s.send(protocol.TypePuzzleSolvedAck, protocol.Ack{Success: true})
	s.broadcastToRoom(roomID, protocol.TypePuzzleSolvedBrod, protocol.PuzzleSolvedBrod{
		Player:         s.client.ClientID().Info(),
		ElapsedSeconds: req.ElapsedSeconds,
		TotalPieces:    req.TotalPieces,
	}, s.client)
}

func (s *Session) handleSendChat(ctx context.Context, msg protocol.Message) {
	var req protocol.SendChatRequest
	if err := msg.DecodePayload(&req); err != nil {
		s.sendError("malformed SEND_CHAT payload: " + err.Error())
		return
	}
	if req.Text == "" {
		return
	}

	roomID, err := s.registry.ClientRoom(ctx, s.client.ClientID())
	if err != nil {
		s.sendError(err.Error())
		return
	}

	s.broadcastToRoom(roomID, protocol.TypeChatMessageBrod, protocol.ChatMessageBrod{
		Player: s.client.ClientID().Info(),
		Text:   req.Text,
		SentAt: s.clock.Now(),
	}, s.client)
}
