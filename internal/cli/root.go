// Package cli implements the guessctl command line client
package cli

import (
	"os"

	"github.com/spf13/cobra"
)

var (
	cfg    *Config
	client *Client
)

// NewRootCmd creates the root command
func NewRootCmd() *cobra.Command {
	cfg = DefaultConfig()

	rootCmd := &cobra.Command{
		Use:   "guessctl",
		Short: "CLI tool for the guess-the-pro game API",
		Long: `guessctl is a CLI tool for interacting with the guess-the-pro JSON API.

It supports the full multiplayer flow: creating and joining rooms,
readying up, starting games, submitting guesses, and streaming the
room's real-time events.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// Load session from file if not provided via flag/env
			if err := cfg.LoadSession(); err != nil {
				return err
			}

			client = NewClient(cfg.ServerURL, cfg.Session)
			return nil
		},
		SilenceUsage: true,
	}

	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfg.ServerURL, "server", cfg.ServerURL, "Server URL (env: GUESSPRO_SERVER)")
	rootCmd.PersistentFlags().StringVar(&cfg.Session, "session", cfg.Session, "Session token (env: GUESSPRO_SESSION)")
	rootCmd.PersistentFlags().StringVar(&cfg.SessionFile, "session-file", cfg.SessionFile, "Session file path (env: GUESSPRO_SESSION_FILE)")
	rootCmd.PersistentFlags().BoolVar(&cfg.JSON, "json", cfg.JSON, "Output as JSON")

	// Add subcommands
	rootCmd.AddCommand(newRoomCmd())
	rootCmd.AddCommand(newEventsCmd())
	rootCmd.AddCommand(newHealthCmd())

	return rootCmd
}

// Execute runs the root command
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
