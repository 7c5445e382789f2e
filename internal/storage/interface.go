package storage

import (
	"context"

	"github.com/mcoot/jigsawd/internal/model"
)

// Storage defines the interface for session state persistence.
//
// Implementations provide per-call consistency only; cross-call atomicity
// (check-then-set on rooms and the client index) is the registry
// controller's responsibility.
type Storage interface {
	// Room operations
	SaveRoom(ctx context.Context, room *model.Room) error
	GetRoom(ctx context.Context, id model.RoomID) (*model.Room, error)
	DeleteRoom(ctx context.Context, id model.RoomID) error
	RoomExists(ctx context.Context, id model.RoomID) (bool, error)
	ListRooms(ctx context.Context) ([]*model.Room, error)

	// Client index operations: which room, if any, a client belongs to
	SetClientRoom(ctx context.Context, client model.ClientID, id model.RoomID) error
	GetClientRoom(ctx context.Context, client model.ClientID) (model.RoomID, error)
	DeleteClientRoom(ctx context.Context, client model.ClientID) error
}
