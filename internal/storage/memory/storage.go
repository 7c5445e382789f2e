package memory

import (
	"context"
	"sync"

	"github.com/mcoot/jigsawd/internal/model"
	"github.com/mcoot/jigsawd/internal/storage"
)

// Storage is an in-memory implementation of the storage interface
type Storage struct {
	mu sync.RWMutex

	rooms       map[model.RoomID]*model.Room
	clientRooms map[model.ClientID]model.RoomID
}

// New creates a new in-memory storage instance
func New() *Storage {
	return &Storage{
		rooms:       make(map[model.RoomID]*model.Room),
		clientRooms: make(map[model.ClientID]model.RoomID),
	}
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

// Room operations

func (s *Storage) SaveRoom(ctx context.Context, room *model.Room) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rooms[room.ID] = room
	return nil
}

func (s *Storage) GetRoom(ctx context.Context, id model.RoomID) (*model.Room, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	room, ok := s.rooms[id]
	if !ok {
		return nil, model.ErrRoomNotFound
	}
	return room, nil
}

func (s *Storage) DeleteRoom(ctx context.Context, id model.RoomID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.rooms, id)
	return nil
}

func (s *Storage) RoomExists(ctx context.Context, id model.RoomID) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.rooms[id]
	return ok, nil
}

func (s *Storage) ListRooms(ctx context.Context) ([]*model.Room, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rooms := make([]*model.Room, 0, len(s.rooms))
	for _, room := range s.rooms {
		rooms = append(rooms, room)
	}
	return rooms, nil
}

// Client index operations

func (s *Storage) SetClientRoom(ctx context.Context, client model.ClientID, id model.RoomID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.clientRooms[client] = id
	return nil
}

func (s *Storage) GetClientRoom(ctx context.Context, client model.ClientID) (model.RoomID, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	id, ok := s.clientRooms[client]
	if !ok {
		return "", model.ErrNotInRoom
	}
	return id, nil
}

func (s *Storage) DeleteClientRoom(ctx context.Context, client model.ClientID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.clientRooms, client)
	return nil
}
