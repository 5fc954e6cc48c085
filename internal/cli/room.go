package cli

import (
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

func newRoomCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "room",
		Short: "Room lifecycle and in-game actions",
	}

	cmd.AddCommand(newRoomCreateCmd())
	cmd.AddCommand(newRoomJoinCmd())
	cmd.AddCommand(newRoomReadyCmd())
	cmd.AddCommand(newRoomStartCmd())
	cmd.AddCommand(newRoomGuessCmd())
	cmd.AddCommand(newRoomLeaveCmd())
	cmd.AddCommand(newRoomHeartbeatCmd())

	return cmd
}

func newRoomCreateCmd() *cobra.Command {
	var name string
	var difficulty string

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a room and save its session token",
		RunE: func(cmd *cobra.Command, args []string) error {
			var result struct {
				RoomID    string `json:"roomId"`
				SessionID string `json:"sessionId"`
			}
			body := map[string]string{
				"gamerId":    uuid.NewString(),
				"gamerName":  name,
				"difficulty": difficulty,
			}
			if err := client.Post("/api/v1/rooms", body, &result); err != nil {
				return err
			}
			if err := cfg.SaveSession(result.SessionID); err != nil {
				return err
			}

			if cfg.JSON {
				return printJSON(result)
			}
			fmt.Printf("Room created: %s\n", result.RoomID)
			fmt.Printf("Session saved; run 'guessctl events' to connect\n")
			return nil
		},
	}

	cmd.Flags().StringVarP(&name, "name", "n", "", "Display name (required)")
	cmd.Flags().StringVarP(&difficulty, "difficulty", "d", "all", "Difficulty tier: all, normal, hard")
	_ = cmd.MarkFlagRequired("name")

	return cmd
}

func newRoomJoinCmd() *cobra.Command {
	var name string

	cmd := &cobra.Command{
		Use:   "join <room-id>",
		Short: "Join a room and save its session token",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var result struct {
				SessionID string `json:"sessionId"`
			}
			body := map[string]string{
				"gamerId":   uuid.NewString(),
				"gamerName": name,
			}
			if err := client.Post("/api/v1/rooms/"+args[0]+"/join", body, &result); err != nil {
				return err
			}
			if err := cfg.SaveSession(result.SessionID); err != nil {
				return err
			}

			if cfg.JSON {
				return printJSON(result)
			}
			fmt.Printf("Joined room %s\n", args[0])
			fmt.Printf("Session saved; run 'guessctl events' to connect\n")
			return nil
		},
	}

	cmd.Flags().StringVarP(&name, "name", "n", "", "Display name (required)")
	_ = cmd.MarkFlagRequired("name")

	return cmd
}

func newRoomReadyCmd() *cobra.Command {
	var notReady bool

	cmd := &cobra.Command{
		Use:   "ready",
		Short: "Toggle readiness",
		RunE: func(cmd *cobra.Command, args []string) error {
			body := map[string]bool{"ready": !notReady}
			if err := client.Post("/api/v1/room/ready", body, nil); err != nil {
				return err
			}
			fmt.Printf("Ready: %v\n", !notReady)
			return nil
		},
	}

	cmd.Flags().BoolVar(&notReady, "not", false, "Mark as not ready")

	return cmd
}

func newRoomStartCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "start",
		Short: "Start the game (host only)",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := client.Post("/api/v1/room/start", nil, nil); err != nil {
				return err
			}
			fmt.Println("Game started")
			return nil
		},
	}
}

func newRoomGuessCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "guess <player-name>",
		Short: "Submit a guess",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			body := map[string]string{"guessedName": args[0]}
			if err := client.Post("/api/v1/room/guess", body, nil); err != nil {
				return err
			}
			fmt.Println("Guess submitted; watch the event stream for the result")
			return nil
		},
	}
}

func newRoomLeaveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "leave",
		Short: "Leave the room",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := client.Post("/api/v1/room/leave", nil, nil); err != nil {
				return err
			}
			fmt.Println("Left room")
			return nil
		},
	}
}

func newRoomHeartbeatCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "heartbeat",
		Short: "Refresh the session's activity timestamp",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := client.Post("/api/v1/room/heartbeat", nil, nil); err != nil {
				return err
			}
			fmt.Println("Heartbeat sent")
			return nil
		},
	}
}

func printJSON(data any) error {
	out, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(out))
	return nil
}
