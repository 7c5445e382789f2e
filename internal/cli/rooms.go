package cli

import (
	"github.com/mcoot/jigsawd/internal/protocol"
	"github.com/spf13/cobra"
)

func newRoomsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "rooms",
		Short: "List open rooms on the server",
		RunE: func(cmd *cobra.Command, args []string) error {
			out := NewOutput(cfg.Output)

			client := NewClient(cfg.ServerAddr)
			if err := client.Connect(); err != nil {
				out.PrintError(err)
				return err
			}
			defer func() { _ = client.Close() }()

			var ack protocol.ListRoomsAck
			if _, err := client.Call(protocol.TypeListRooms, struct{}{}, &ack, nil); err != nil {
				out.PrintError(err)
				return err
			}

			out.Print(ack)
			return nil
		},
	}
}
