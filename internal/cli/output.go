package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"

	"github.com/mcoot/jigsawd/internal/protocol"
)

// Output handles formatting output based on the configured format
type Output struct {
	format string
}

// NewOutput creates a new Output formatter
func NewOutput(format string) *Output {
	return &Output{format: format}
}

// Print outputs data in the configured format
func (o *Output) Print(data any) {
	if o.format == "json" {
		o.printJSON(data)
	} else {
		o.printText(data)
	}
}

// PrintError outputs an error
func (o *Output) PrintError(err error) {
	if o.format == "json" {
		errData := map[string]any{
			"error": map[string]string{
				"message": err.Error(),
			},
		}
		data, _ := json.Marshal(errData)
		fmt.Fprintln(os.Stderr, string(data))
	} else {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
	}
}

// PrintMessage outputs a simple message
func (o *Output) PrintMessage(msg string) {
	if o.format == "json" {
		data, _ := json.Marshal(map[string]string{"message": msg})
		fmt.Println(string(data))
	} else {
		fmt.Println(msg)
	}
}

// PrintBroadcast renders an incoming room broadcast as a one-liner
func (o *Output) PrintBroadcast(msg protocol.Message) {
	if o.format == "json" {
		data, _ := json.Marshal(msg)
		fmt.Println(string(data))
		return
	}

	switch msg.Type {
	case protocol.TypePlayerJoinedBrod:
		var b protocol.PlayerJoinedBrod
		if msg.DecodePayload(&b) == nil {
			fmt.Printf("* %s:%d joined (%d players)\n", b.Player.IP, b.Player.Port, b.CurrentPlayers)
			return
		}
	case protocol.TypePlayerLeftBrod:
		var b protocol.PlayerLeftBrod
		if msg.DecodePayload(&b) == nil {
			fmt.Printf("* %s:%d left (%d players)", b.Player.IP, b.Player.Port, b.CurrentPlayers)
			if b.HostChanged && b.NewHost != nil {
				fmt.Printf("; new host %s:%d", b.NewHost.IP, b.NewHost.Port)
			}
			if len(b.ReleasedObjects) > 0 {
				fmt.Printf("; released %v", b.ReleasedObjects)
			}
			fmt.Println()
			return
		}
	case protocol.TypeLockObjectBrod:
		var b protocol.LockObjectBrod
		if msg.DecodePayload(&b) == nil {
			fmt.Printf("* %s locked by %s:%d\n", b.ObjectID, b.Player.IP, b.Player.Port)
			return
		}
	case protocol.TypeReleaseObjectBrod:
		var b protocol.ReleaseObjectBrod
		if msg.DecodePayload(&b) == nil {
			fmt.Printf("* %s released at (%d,%d) by %s:%d\n", b.ObjectID, b.Position.X, b.Position.Y, b.Player.IP, b.Player.Port)
			return
		}
	case protocol.TypeMoveLockedObjectBrod:
		var b protocol.MoveLockedObjectBrod
		if msg.DecodePayload(&b) == nil {
			fmt.Printf("* %s moved to (%d,%d)\n", b.ObjectID, b.Position.X, b.Position.Y)
			return
		}
	case protocol.TypePuzzleSolvedBrod:
		var b protocol.PuzzleSolvedBrod
		if msg.DecodePayload(&b) == nil {
			fmt.Printf("* puzzle solved by %s:%d in %.1fs (%d pieces)\n", b.Player.IP, b.Player.Port, b.ElapsedSeconds, b.TotalPieces)
			return
		}
	case protocol.TypeChatMessageBrod:
		var b protocol.ChatMessageBrod
		if msg.DecodePayload(&b) == nil {
			fmt.Printf("[%s] %s:%d: %s\n", b.SentAt.Format("15:04:05"), b.Player.IP, b.Player.Port, b.Text)
			return
		}
	}

	// Fallback for unknown or undecodable broadcasts
	data, _ := json.Marshal(msg)
	fmt.Println(string(data))
}

func (o *Output) printJSON(data any) {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	_ = enc.Encode(data)
}

func (o *Output) printText(data any) {
	switch v := data.(type) {
	case protocol.RoomStateAck:
		o.printRoomState(v)
	case protocol.ListRoomsAck:
		o.printRoomList(v)
	case protocol.LockAck:
		o.printLockAck(v)
	case protocol.Ack:
		o.printAck(v)
	case HealthResult:
		o.printHealthResult(v)
	default:
		// Fallback to JSON for unknown types
		o.printJSON(data)
	}
}

func (o *Output) printAck(a protocol.Ack) {
	if a.Success {
		fmt.Println("OK")
	} else {
		fmt.Printf("Failed: %s\n", a.Message)
	}
}

func (o *Output) printRoomState(r protocol.RoomStateAck) {
	if !r.Success {
		fmt.Printf("Failed: %s\n", r.Message)
		return
	}

	fmt.Printf("Room: %s\n", r.GameID)
	fmt.Printf("Name: %s\n", r.GameName)
	fmt.Printf("Players: %d/%d\n", r.CurrentPlayers, r.MaxPlayers)
	if r.Host != nil {
		fmt.Printf("Host: %s:%d\n", r.Host.IP, r.Host.Port)
	}
	fmt.Printf("Image: %s\n", r.ImageURL)
	fmt.Printf("Difficulty: %s\n", r.Difficulty)
	fmt.Printf("Pieces: %d\n", len(r.PiecePositions))
	if r.Solved {
		fmt.Println("Solved: yes")
	}

	if len(r.LockedObjects) > 0 {
		ids := make([]string, 0, len(r.LockedObjects))
		for id := range r.LockedObjects {
			ids = append(ids, id)
		}
		sort.Strings(ids)
		fmt.Println("Locked:")
		for _, id := range ids {
			fmt.Printf("  - %s (%s)\n", id, r.LockedObjects[id])
		}
	}
}

func (o *Output) printRoomList(l protocol.ListRoomsAck) {
	if !l.Success {
		fmt.Printf("Failed: %s\n", l.Message)
		return
	}

	if len(l.Rooms) == 0 {
		fmt.Println("No rooms")
		return
	}

	fmt.Printf("Rooms (%d):\n", len(l.Rooms))
	for _, r := range l.Rooms {
		solvedStr := ""
		if r.Solved {
			solvedStr = " [solved]"
		}
		fmt.Printf("  %s  %s  %d/%d%s\n", r.GameID, r.GameName, r.CurrentPlayers, r.MaxPlayers, solvedStr)
	}
}

func (o *Output) printLockAck(a protocol.LockAck) {
	if !a.Success {
		fmt.Printf("Failed: %s\n", a.Message)
		return
	}

	fmt.Printf("OK: %s\n", a.ObjectID)
	if len(a.LockedObjects) > 0 {
		ids := make([]string, 0, len(a.LockedObjects))
		for id := range a.LockedObjects {
			ids = append(ids, id)
		}
		sort.Strings(ids)
		fmt.Println("Locked:")
		for _, id := range ids {
			fmt.Printf("  - %s (%s)\n", id, a.LockedObjects[id])
		}
	}
}

// HealthResult response type
type HealthResult struct {
	Status string `json:"status"`
}

func (o *Output) printHealthResult(h HealthResult) {
	fmt.Printf("Status: %s\n", h.Status)
}
