package response

import "github.com/mcoot/jigsawd/internal/model"

// RoomSummary represents one room in the listing endpoint
type RoomSummary struct {
	ID             string `json:"game_id"`
	Name           string `json:"game_name"`
	MaxPlayers     int    `json:"max_players"`
	CurrentPlayers int    `json:"current_players"`
	Difficulty     string `json:"difficulty"`
	Solved         bool   `json:"solved"`
}

// RoomList is the response for the room listing endpoint
type RoomList struct {
	Rooms []RoomSummary `json:"rooms"`
}

// RoomListFromSnapshots converts registry snapshots to a listing response
func RoomListFromSnapshots(snaps []model.Snapshot) RoomList {
	rooms := make([]RoomSummary, 0, len(snaps))
	for _, snap := range snaps {
		rooms = append(rooms, RoomSummary{
			ID:             string(snap.ID),
			Name:           snap.Name,
			MaxPlayers:     snap.MaxPlayers,
			CurrentPlayers: snap.CurrentPlayers,
			Difficulty:     string(snap.Puzzle.Difficulty),
			Solved:         snap.Solved,
		})
	}
	return RoomList{Rooms: rooms}
}
