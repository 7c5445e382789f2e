package registry

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/mcoot/jigsawd/internal/dependencies/mocks"
	"github.com/mcoot/jigsawd/internal/model"
	"github.com/mcoot/jigsawd/internal/services/puzzle"
	"github.com/mcoot/jigsawd/internal/storage/memory"
	"github.com/mcoot/jigsawd/internal/testutil"
)

const (
	clientA = model.ClientID("10.0.0.1:1111")
	clientB = model.ClientID("10.0.0.2:2222")
	clientC = model.ClientID("10.0.0.3:3333")
)

type ControllerSuite struct {
	suite.Suite
	storage    *memory.Storage
	clock      *mocks.MockClock
	random     *mocks.MockRandom
	controller *Controller
	ctx        context.Context
}

func TestControllerSuite(t *testing.T) {
	suite.Run(t, new(ControllerSuite))
}

func (s *ControllerSuite) SetupTest() {
	s.storage = memory.New()
	logger := testutil.NopLogger()
	s.clock = mocks.NewMockClock(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))
	s.random = mocks.NewMockRandom()
	puzzleService := puzzle.New(s.random, logger)
	s.controller = NewController(s.storage, puzzleService, s.clock, s.random, logger)
	s.ctx = context.Background()
}

// createRoom is a helper that hosts a room with the given code and returns it
func (s *ControllerSuite) createRoom(code string, maxPlayers int, host model.ClientID) model.Snapshot {
	s.random.QueueCode(code)
	snap, err := s.controller.CreateRoom(s.ctx, "test room", maxPlayers, "http://example.com/cat.jpg", model.DifficultyEasy, host)
	s.Require().NoError(err)
	return snap
}

// CreateRoom tests

func (s *ControllerSuite) TestCreateRoomSucceeds() {
	snap := s.createRoom("ABC234", 4, clientA)

	s.Equal(model.RoomID("ABC234"), snap.ID)
	s.Equal("test room", snap.Name)
	s.Equal(4, snap.MaxPlayers)
	s.Equal(1, snap.CurrentPlayers)
	s.Equal(clientA.Info(), snap.Host)
	s.Equal(model.DifficultyEasy, snap.Puzzle.Difficulty)
	// Easy puzzles are a 3x3 grid
	s.Len(snap.PiecePositions, 9)
	s.Empty(snap.LockedObjects)
	s.False(snap.Solved)
}

func (s *ControllerSuite) TestCreateRoomIsPersisted() {
	snap := s.createRoom("ABC234", 4, clientA)

	retrieved, err := s.controller.Snapshot(s.ctx, snap.ID)
	s.Require().NoError(err)
	s.Equal(snap.ID, retrieved.ID)
	s.Equal(snap.PiecePositions, retrieved.PiecePositions)
}

func (s *ControllerSuite) TestCreateRoomRecordsClientRoom() {
	snap := s.createRoom("ABC234", 4, clientA)

	id, err := s.controller.ClientRoom(s.ctx, clientA)
	s.Require().NoError(err)
	s.Equal(snap.ID, id)
}

func (s *ControllerSuite) TestCreateRoomWhileInRoomFails() {
	s.createRoom("ABC234", 4, clientA)

	s.random.QueueCode("XYZ789")
	_, err := s.controller.CreateRoom(s.ctx, "second", 4, "", model.DifficultyEasy, clientA)
	s.ErrorIs(err, model.ErrAlreadyInRoom)
}

func (s *ControllerSuite) TestCreateRoomRejectsZeroCapacity() {
	_, err := s.controller.CreateRoom(s.ctx, "bad", 0, "", model.DifficultyEasy, clientA)
	s.Error(err)
}

func (s *ControllerSuite) TestCreateRoomRetriesOnCodeCollision() {
	s.createRoom("ABC234", 4, clientA)

	// First generated code collides with the existing room
	s.random.QueueCode("ABC234", "XYZ789")
	snap, err := s.controller.CreateRoom(s.ctx, "second", 4, "", model.DifficultyEasy, clientB)
	s.Require().NoError(err)
	s.Equal(model.RoomID("XYZ789"), snap.ID)
}

func (s *ControllerSuite) TestCreateRoomUnknownDifficultyFails() {
	s.random.QueueCode("ABC234")
	_, err := s.controller.CreateRoom(s.ctx, "bad", 4, "", model.Difficulty("impossible"), clientA)
	s.ErrorIs(err, model.ErrUnknownDifficulty)
}

// JoinRoom tests

func (s *ControllerSuite) TestJoinRoomSucceeds() {
	room := s.createRoom("ABC234", 4, clientA)

	snap, err := s.controller.JoinRoom(s.ctx, room.ID, clientB)
	s.Require().NoError(err)

	s.Equal(2, snap.CurrentPlayers)
	s.Equal(clientA.Info(), snap.Host)
	s.Equal([]model.PlayerInfo{clientA.Info(), clientB.Info()}, snap.Players)
}

func (s *ControllerSuite) TestJoinUnknownRoomFails() {
	_, err := s.controller.JoinRoom(s.ctx, "NOPE22", clientA)
	s.ErrorIs(err, model.ErrRoomNotFound)
}

func (s *ControllerSuite) TestJoinFullRoomFails() {
	room := s.createRoom("ABC234", 2, clientA)

	_, err := s.controller.JoinRoom(s.ctx, room.ID, clientB)
	s.Require().NoError(err)

	_, err = s.controller.JoinRoom(s.ctx, room.ID, clientC)
	s.ErrorIs(err, model.ErrRoomFull)
}

func (s *ControllerSuite) TestJoinWhileInRoomFails() {
	room := s.createRoom("ABC234", 4, clientA)

	_, err := s.controller.JoinRoom(s.ctx, room.ID, clientA)
	s.ErrorIs(err, model.ErrAlreadyInRoom)
}

// LeaveRoom tests

func (s *ControllerSuite) TestLeaveRoomSucceeds() {
	room := s.createRoom("ABC234", 4, clientA)
	_, err := s.controller.JoinRoom(s.ctx, room.ID, clientB)
	s.Require().NoError(err)

	result, err := s.controller.LeaveRoom(s.ctx, clientB)
	s.Require().NoError(err)

	s.Equal(room.ID, result.RoomID)
	s.False(result.RoomDeleted)
	s.Equal(1, result.CurrentPlayers)
	s.False(result.HostChanged)

	_, err = s.controller.ClientRoom(s.ctx, clientB)
	s.ErrorIs(err, model.ErrNotInRoom)
}

func (s *ControllerSuite) TestLeaveWithoutRoomFails() {
	_, err := s.controller.LeaveRoom(s.ctx, clientA)
	s.ErrorIs(err, model.ErrNotInRoom)
}

func (s *ControllerSuite) TestLastLeaverDeletesRoom() {
	room := s.createRoom("ABC234", 4, clientA)

	result, err := s.controller.LeaveRoom(s.ctx, clientA)
	s.Require().NoError(err)
	s.True(result.RoomDeleted)

	_, err = s.controller.Snapshot(s.ctx, room.ID)
	s.ErrorIs(err, model.ErrRoomNotFound)
}

func (s *ControllerSuite) TestHostLeavingPromotesNextInJoinOrder() {
	room := s.createRoom("ABC234", 4, clientA)
	_, err := s.controller.JoinRoom(s.ctx, room.ID, clientB)
	s.Require().NoError(err)
	_, err = s.controller.JoinRoom(s.ctx, room.ID, clientC)
	s.Require().NoError(err)

	result, err := s.controller.LeaveRoom(s.ctx, clientA)
	s.Require().NoError(err)

	s.True(result.HostChanged)
	s.Equal(clientB, result.NewHost)

	snap, err := s.controller.Snapshot(s.ctx, room.ID)
	s.Require().NoError(err)
	s.Equal(clientB.Info(), snap.Host)
	s.Equal([]model.PlayerInfo{clientB.Info(), clientC.Info()}, snap.Players)
}

func (s *ControllerSuite) TestLeaveReleasesHeldLocks() {
	room := s.createRoom("ABC234", 4, clientA)
	_, err := s.controller.JoinRoom(s.ctx, room.ID, clientB)
	s.Require().NoError(err)

	_, err = s.controller.LockPiece(s.ctx, clientB, "piece_0")
	s.Require().NoError(err)

	result, err := s.controller.LeaveRoom(s.ctx, clientB)
	s.Require().NoError(err)
	s.Equal([]string{"piece_0"}, result.ReleasedPieces)

	// The piece is immediately lockable again
	lock, err := s.controller.LockPiece(s.ctx, clientA, "piece_0")
	s.Require().NoError(err)
	s.Equal(string(clientA), lock.LockedObjects["piece_0"])
}

func (s *ControllerSuite) TestRoomCodeReusableAfterDeletion() {
	s.createRoom("ABC234", 4, clientA)
	_, err := s.controller.LeaveRoom(s.ctx, clientA)
	s.Require().NoError(err)

	snap := s.createRoom("ABC234", 4, clientB)
	s.Equal(model.RoomID("ABC234"), snap.ID)
}

// ListRooms tests

func (s *ControllerSuite) TestListRooms() {
	s.createRoom("AAAA22", 4, clientA)
	s.createRoom("BBBB33", 2, clientB)

	snaps, err := s.controller.ListRooms(s.ctx)
	s.Require().NoError(err)
	s.Len(snaps, 2)

	ids := []model.RoomID{snaps[0].ID, snaps[1].ID}
	s.ElementsMatch([]model.RoomID{"AAAA22", "BBBB33"}, ids)
}

func (s *ControllerSuite) TestListRoomsEmpty() {
	snaps, err := s.controller.ListRooms(s.ctx)
	s.Require().NoError(err)
	s.Empty(snaps)
}

// Lock tests

func (s *ControllerSuite) TestLockPieceSucceeds() {
	s.createRoom("ABC234", 4, clientA)

	lock, err := s.controller.LockPiece(s.ctx, clientA, "piece_3")
	s.Require().NoError(err)

	s.Equal(model.RoomID("ABC234"), lock.RoomID)
	s.Equal(string(clientA), lock.LockedObjects["piece_3"])
}

func (s *ControllerSuite) TestLockHeldPieceFails() {
	room := s.createRoom("ABC234", 4, clientA)
	_, err := s.controller.JoinRoom(s.ctx, room.ID, clientB)
	s.Require().NoError(err)

	_, err = s.controller.LockPiece(s.ctx, clientA, "piece_3")
	s.Require().NoError(err)

	_, err = s.controller.LockPiece(s.ctx, clientB, "piece_3")
	s.ErrorIs(err, model.ErrPieceLocked)
}

func (s *ControllerSuite) TestLockUnknownPieceFails() {
	s.createRoom("ABC234", 4, clientA)

	_, err := s.controller.LockPiece(s.ctx, clientA, "piece_999")
	s.ErrorIs(err, model.ErrUnknownPiece)
}

func (s *ControllerSuite) TestLockWithoutRoomFails() {
	_, err := s.controller.LockPiece(s.ctx, clientA, "piece_0")
	s.ErrorIs(err, model.ErrNotInRoom)
}

func (s *ControllerSuite) TestReleasePieceRecordsPosition() {
	room := s.createRoom("ABC234", 4, clientA)
	_, err := s.controller.LockPiece(s.ctx, clientA, "piece_0")
	s.Require().NoError(err)

	lock, err := s.controller.ReleasePiece(s.ctx, clientA, "piece_0", model.Position{X: 123, Y: 456})
	s.Require().NoError(err)
	s.NotContains(lock.LockedObjects, "piece_0")

	snap, err := s.controller.Snapshot(s.ctx, room.ID)
	s.Require().NoError(err)
	s.Equal(model.Position{X: 123, Y: 456}, snap.PiecePositions["piece_0"])
}

func (s *ControllerSuite) TestReleaseByNonHolderFails() {
	room := s.createRoom("ABC234", 4, clientA)
	_, err := s.controller.JoinRoom(s.ctx, room.ID, clientB)
	s.Require().NoError(err)

	_, err = s.controller.LockPiece(s.ctx, clientA, "piece_0")
	s.Require().NoError(err)

	_, err = s.controller.ReleasePiece(s.ctx, clientB, "piece_0", model.Position{X: 1, Y: 2})
	s.ErrorIs(err, model.ErrNotLockHolder)
}

func (s *ControllerSuite) TestMovePieceUpdatesPositionKeepsLock() {
	room := s.createRoom("ABC234", 4, clientA)
	_, err := s.controller.LockPiece(s.ctx, clientA, "piece_0")
	s.Require().NoError(err)

	id, err := s.controller.MovePiece(s.ctx, clientA, "piece_0", model.Position{X: 50, Y: 60})
	s.Require().NoError(err)
	s.Equal(room.ID, id)

	snap, err := s.controller.Snapshot(s.ctx, room.ID)
	s.Require().NoError(err)
	s.Equal(model.Position{X: 50, Y: 60}, snap.PiecePositions["piece_0"])
	s.Equal(string(clientA), snap.LockedObjects["piece_0"])
}

func (s *ControllerSuite) TestMoveUnlockedPieceFails() {
	s.createRoom("ABC234", 4, clientA)

	_, err := s.controller.MovePiece(s.ctx, clientA, "piece_0", model.Position{X: 1, Y: 2})
	s.ErrorIs(err, model.ErrNotLockHolder)
}

// MarkSolved tests

func (s *ControllerSuite) TestMarkSolved() {
	room := s.createRoom("ABC234", 4, clientA)

	id, err := s.controller.MarkSolved(s.ctx, clientA)
	s.Require().NoError(err)
	s.Equal(room.ID, id)

	snap, err := s.controller.Snapshot(s.ctx, room.ID)
	s.Require().NoError(err)
	s.True(snap.Solved)
}

func (s *ControllerSuite) TestMarkSolvedTwiceFails() {
	s.createRoom("ABC234", 4, clientA)

	_, err := s.controller.MarkSolved(s.ctx, clientA)
	s.Require().NoError(err)

	_, err = s.controller.MarkSolved(s.ctx, clientA)
	s.ErrorIs(err, model.ErrAlreadySolved)
}

// Scenario: drag lifecycle across two clients

func (s *ControllerSuite) TestDragLifecycle() {
	room := s.createRoom("ABC234", 4, clientA)
	_, err := s.controller.JoinRoom(s.ctx, room.ID, clientB)
	s.Require().NoError(err)

	// A grabs a piece; B's claim on it loses
	_, err = s.controller.LockPiece(s.ctx, clientA, "piece_4")
	s.Require().NoError(err)
	_, err = s.controller.LockPiece(s.ctx, clientB, "piece_4")
	s.ErrorIs(err, model.ErrPieceLocked)

	// A drags and drops
	_, err = s.controller.MovePiece(s.ctx, clientA, "piece_4", model.Position{X: 100, Y: 100})
	s.Require().NoError(err)
	_, err = s.controller.ReleasePiece(s.ctx, clientA, "piece_4", model.Position{X: 150, Y: 150})
	s.Require().NoError(err)

	// Now B can pick it up from where A left it
	lock, err := s.controller.LockPiece(s.ctx, clientB, "piece_4")
	s.Require().NoError(err)
	s.Equal(string(clientB), lock.LockedObjects["piece_4"])

	snap, err := s.controller.Snapshot(s.ctx, room.ID)
	s.Require().NoError(err)
	s.Equal(model.Position{X: 150, Y: 150}, snap.PiecePositions["piece_4"])
}

// Concurrency: exactly one of N simultaneous claims wins

func (s *ControllerSuite) TestConcurrentLockHasOneWinner() {
	room := s.createRoom("ABC234", 32, clientA)

	clients := make([]model.ClientID, 16)
	for i := range clients {
		clients[i] = model.ClientID(fmt.Sprintf("10.0.1.1:%d", 5000+i))
		_, err := s.controller.JoinRoom(s.ctx, room.ID, clients[i])
		s.Require().NoError(err)
	}

	var wg sync.WaitGroup
	wins := make(chan model.ClientID, len(clients))
	for _, client := range clients {
		wg.Add(1)
		go func(c model.ClientID) {
			defer wg.Done()
			if _, err := s.controller.LockPiece(s.ctx, c, "piece_0"); err == nil {
				wins <- c
			}
		}(client)
	}
	wg.Wait()
	close(wins)

	winners := make([]model.ClientID, 0, len(clients))
	for w := range wins {
		winners = append(winners, w)
	}
	s.Require().Len(winners, 1)

	snap, err := s.controller.Snapshot(s.ctx, room.ID)
	s.Require().NoError(err)
	s.Equal(string(winners[0]), snap.LockedObjects["piece_0"])
}
