package cli

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/mcoot/jigsawd/internal/model"
	"github.com/mcoot/jigsawd/internal/protocol"
	"github.com/spf13/cobra"
)

func newHostCmd() *cobra.Command {
	var (
		name       string
		maxPlayers int
		imageURL   string
		difficulty string
	)

	cmd := &cobra.Command{
		Use:   "host",
		Short: "Create a room and stay connected as its host",
		RunE: func(cmd *cobra.Command, args []string) error {
			out := NewOutput(cfg.Output)

			client := NewClient(cfg.ServerAddr)
			if err := client.Connect(); err != nil {
				out.PrintError(err)
				return err
			}
			defer func() { _ = client.Close() }()

			req := protocol.HostGameRequest{
				GameName:   name,
				MaxPlayers: maxPlayers,
				ImageURL:   imageURL,
				Difficulty: model.Difficulty(difficulty),
			}

			var ack protocol.RoomStateAck
			if _, err := client.Call(protocol.TypeHostGame, req, &ack, nil); err != nil {
				out.PrintError(err)
				return err
			}

			out.Print(ack)
			if !ack.Success {
				return errors.New(ack.Message)
			}

			return runSession(client, out)
		},
	}

	cmd.Flags().StringVar(&name, "name", "jigsaw", "Room name")
	cmd.Flags().IntVar(&maxPlayers, "max-players", 4, "Maximum player count")
	cmd.Flags().StringVar(&imageURL, "image", "", "Puzzle image URL")
	cmd.Flags().StringVar(&difficulty, "difficulty", "easy", "Difficulty: easy, medium, hard")

	return cmd
}

func newJoinCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "join <game-id>",
		Short: "Join an existing room by its code",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := NewOutput(cfg.Output)

			client := NewClient(cfg.ServerAddr)
			if err := client.Connect(); err != nil {
				out.PrintError(err)
				return err
			}
			defer func() { _ = client.Close() }()

			req := protocol.JoinGameRequest{
				GameID: model.RoomID(strings.ToUpper(args[0])),
			}

			var ack protocol.RoomStateAck
			if _, err := client.Call(protocol.TypeJoinGame, req, &ack, out.PrintBroadcast); err != nil {
				out.PrintError(err)
				return err
			}

			out.Print(ack)
			if !ack.Success {
				return errors.New(ack.Message)
			}

			return runSession(client, out)
		},
	}
}

// runSession drives an interactive room session: a reader goroutine prints
// everything the server sends while the prompt loop turns typed commands
// into protocol messages. The session ends on "leave", "quit", or EOF.
func runSession(client *Client, out *Output) error {
	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			msg, err := client.Read()
			if err != nil {
				return
			}
			if IsBroadcast(msg.Type) {
				out.PrintBroadcast(msg)
			} else {
				out.Print(msg)
			}
		}
	}()

	fmt.Println("Commands: lock <id> | release <id> <x> <y> | move <id> <x> <y> | chat <text> | solve <seconds> <pieces> | leave | quit")

	scanner := bufio.NewScanner(os.Stdin)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		fields := strings.Fields(line)
		cmd := strings.ToLower(fields[0])
		args := fields[1:]

		switch cmd {
		case "quit", "exit":
			// Disconnecting is an implicit leave
			return nil
		case "leave":
			if err := client.Send(protocol.TypeLeaveGame, struct{}{}); err != nil {
				out.PrintError(err)
			}
			return nil
		case "lock":
			if len(args) != 1 {
				out.PrintMessage("usage: lock <id>")
				continue
			}
			if err := client.Send(protocol.TypeLockObject, protocol.LockObjectRequest{ObjectID: args[0]}); err != nil {
				out.PrintError(err)
			}
		case "release":
			pos, ok := parsePieceArgs(out, "release", args)
			if !ok {
				continue
			}
			req := protocol.ReleaseObjectRequest{ObjectID: args[0], Position: pos}
			if err := client.Send(protocol.TypeReleaseObject, req); err != nil {
				out.PrintError(err)
			}
		case "move":
			pos, ok := parsePieceArgs(out, "move", args)
			if !ok {
				continue
			}
			req := protocol.MoveLockedObjectRequest{ObjectID: args[0], Position: pos}
			if err := client.Send(protocol.TypeMoveLockedObject, req); err != nil {
				out.PrintError(err)
			}
		case "chat":
			if len(args) == 0 {
				out.PrintMessage("usage: chat <text>")
				continue
			}
			text := strings.TrimSpace(strings.TrimPrefix(line, fields[0]))
			if err := client.Send(protocol.TypeSendChat, protocol.SendChatRequest{Text: text}); err != nil {
				out.PrintError(err)
			}
		case "solve":
			if len(args) != 2 {
				out.PrintMessage("usage: solve <seconds> <pieces>")
				continue
			}
			seconds, err1 := strconv.ParseFloat(args[0], 64)
			pieces, err2 := strconv.Atoi(args[1])
			if err1 != nil || err2 != nil {
				out.PrintMessage("usage: solve <seconds> <pieces>")
				continue
			}
			req := protocol.PuzzleSolvedRequest{ElapsedSeconds: seconds, TotalPieces: pieces}
			if err := client.Send(protocol.TypePuzzleSolved, req); err != nil {
				out.PrintError(err)
			}
		default:
			out.PrintMessage("unknown command: " + cmd)
		}

		// Stop prompting if the server went away
		select {
		case <-done:
			return errors.New("connection closed by server")
		default:
		}
	}

	return scanner.Err()
}

// parsePieceArgs parses "<id> <x> <y>" arguments for release and move
func parsePieceArgs(out *Output, cmd string, args []string) (*model.Position, bool) {
	if len(args) != 3 {
		out.PrintMessage(fmt.Sprintf("usage: %s <id> <x> <y>", cmd))
		return nil, false
	}
	x, err1 := strconv.Atoi(args[1])
	y, err2 := strconv.Atoi(args[2])
	if err1 != nil || err2 != nil {
		out.PrintMessage(fmt.Sprintf("usage: %s <id> <x> <y>", cmd))
		return nil, false
	}
	return &model.Position{X: x, Y: y}, true
}
