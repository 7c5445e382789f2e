package cli

import (
	"os"

	"github.com/spf13/cobra"
)

var cfg *Config

// NewRootCmd creates the root command
func NewRootCmd() *cobra.Command {
	cfg = DefaultConfig()

	rootCmd := &cobra.Command{
		Use:   "jigsawctl",
		Short: "CLI tool for the jigsaw session server",
		Long: `jigsawctl is a CLI tool for interacting with the jigsaw puzzle session
server over its TCP JSON protocol.

It supports listing rooms, hosting and joining games, and an interactive
session mode for driving piece locks, moves, and chat.`,
		SilenceUsage: true,
	}

	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfg.ServerAddr, "server", cfg.ServerAddr, "Server address host:port (env: JIGSAWD_SERVER)")
	rootCmd.PersistentFlags().StringVar(&cfg.StatusURL, "status-url", cfg.StatusURL, "Status API URL (env: JIGSAWD_STATUS_URL)")
	rootCmd.PersistentFlags().StringVarP(&cfg.Output, "output", "o", cfg.Output, "Output format: text, json")
	rootCmd.PersistentFlags().BoolVarP(&cfg.Verbose, "verbose", "v", cfg.Verbose, "Verbose output")

	// Add subcommands
	rootCmd.AddCommand(newRoomsCmd())
	rootCmd.AddCommand(newHostCmd())
	rootCmd.AddCommand(newJoinCmd())
	rootCmd.AddCommand(newHealthCmd())

	return rootCmd
}

// Execute runs the root command
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
