package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/mcoot/jigsawd/internal/model"
)

type StorageSuite struct {
	suite.Suite
	storage *Storage
	ctx     context.Context
}

func TestStorageSuite(t *testing.T) {
	suite.Run(t, new(StorageSuite))
}

func (s *StorageSuite) SetupTest() {
	s.storage = New()
	s.ctx = context.Background()
}

func (s *StorageSuite) testRoom(id model.RoomID) *model.Room {
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	return &model.Room{
		ID:         id,
		Name:       "test",
		MaxPlayers: 4,
		Host:       "10.0.0.1:1111",
		Members: []model.Member{
			{Client: "10.0.0.1:1111", JoinedAt: now},
		},
		Puzzle:         model.PuzzleInfo{Difficulty: model.DifficultyEasy, Rows: 3, Cols: 3},
		PiecePositions: map[string]model.Position{"piece_0": {X: 1, Y: 2}},
		Locks:          make(map[string]model.ClientID),
		CreatedAt:      now,
		UpdatedAt:      now,
	}
}

// Room tests

func (s *StorageSuite) TestSaveAndGetRoom() {
	room := s.testRoom("ABC234")

	err := s.storage.SaveRoom(s.ctx, room)
	s.Require().NoError(err)

	retrieved, err := s.storage.GetRoom(s.ctx, "ABC234")
	s.Require().NoError(err)
	s.Equal(room.ID, retrieved.ID)
	s.Equal(room.Name, retrieved.Name)
	s.Equal(room.PiecePositions, retrieved.PiecePositions)
}

func (s *StorageSuite) TestGetRoomNotFound() {
	_, err := s.storage.GetRoom(s.ctx, "NOPE22")
	s.ErrorIs(err, model.ErrRoomNotFound)
}

func (s *StorageSuite) TestDeleteRoom() {
	room := s.testRoom("ABC234")
	s.Require().NoError(s.storage.SaveRoom(s.ctx, room))

	err := s.storage.DeleteRoom(s.ctx, "ABC234")
	s.Require().NoError(err)

	_, err = s.storage.GetRoom(s.ctx, "ABC234")
	s.ErrorIs(err, model.ErrRoomNotFound)
}

func (s *StorageSuite) TestRoomExists() {
	exists, err := s.storage.RoomExists(s.ctx, "ABC234")
	s.Require().NoError(err)
	s.False(exists)

	s.Require().NoError(s.storage.SaveRoom(s.ctx, s.testRoom("ABC234")))

	exists, err = s.storage.RoomExists(s.ctx, "ABC234")
	s.Require().NoError(err)
	s.True(exists)
}

func (s *StorageSuite) TestListRooms() {
	s.Require().NoError(s.storage.SaveRoom(s.ctx, s.testRoom("AAAA22")))
	s.Require().NoError(s.storage.SaveRoom(s.ctx, s.testRoom("BBBB33")))

	rooms, err := s.storage.ListRooms(s.ctx)
	s.Require().NoError(err)
	s.Len(rooms, 2)
}

func (s *StorageSuite) TestListRoomsEmpty() {
	rooms, err := s.storage.ListRooms(s.ctx)
	s.Require().NoError(err)
	s.Empty(rooms)
}

// Client index tests

func (s *StorageSuite) TestSetAndGetClientRoom() {
	err := s.storage.SetClientRoom(s.ctx, "10.0.0.1:1111", "ABC234")
	s.Require().NoError(err)

	id, err := s.storage.GetClientRoom(s.ctx, "10.0.0.1:1111")
	s.Require().NoError(err)
	s.Equal(model.RoomID("ABC234"), id)
}

func (s *StorageSuite) TestGetClientRoomNotSet() {
	_, err := s.storage.GetClientRoom(s.ctx, "10.0.0.1:1111")
	s.ErrorIs(err, model.ErrNotInRoom)
}

func (s *StorageSuite) TestDeleteClientRoom() {
	s.Require().NoError(s.storage.SetClientRoom(s.ctx, "10.0.0.1:1111", "ABC234"))

	err := s.storage.DeleteClientRoom(s.ctx, "10.0.0.1:1111")
	s.Require().NoError(err)

	_, err = s.storage.GetClientRoom(s.ctx, "10.0.0.1:1111")
	s.ErrorIs(err, model.ErrNotInRoom)
}
