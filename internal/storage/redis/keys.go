package redis

import (
	"fmt"

	"github.com/mcoot/jigsawd/internal/model"
)

// Key prefix for all session data
const keyPrefix = "jigsawd"

// roomKey returns the Redis key for a Room
func roomKey(id model.RoomID) string {
	return fmt.Sprintf("%s:room:%s", keyPrefix, id)
}

// roomIndexKey returns the Redis key for the SET of all room keys
func roomIndexKey() string {
	return fmt.Sprintf("%s:idx:rooms", keyPrefix)
}

// clientRoomKey returns the Redis key for the client -> room index
func clientRoomKey(client model.ClientID) string {
	return fmt.Sprintf("%s:idx:client_room:%s", keyPrefix, client)
}
