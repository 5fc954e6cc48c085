package cli

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"
)

func newEventsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "events [session-id]",
		Short: "Open the room's event stream",
		Long: `Connect to the event stream using the saved session token (or the
one given as an argument) and print events as they arrive.

Opening the stream is what confirms a pending join: run this right
after 'room create' or 'room join', before the token expires.

Events include:
  - connected: Channel established
  - roomState: Full member list and room status
  - gamerJoined / gamerLeft: Membership changes
  - readyUpdate / allReady: Readiness changes
  - gameStarted: The game is on
  - guessResult: A member's guess and its match mask
  - gameEnded: Winner (if any) and the revealed target player
  - roomEnded: The room was torn down

Press Ctrl+C to disconnect.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			token := cfg.Session
			if len(args) == 1 {
				token = args[0]
			}
			if token == "" {
				return errors.New("no session token; create or join a room first")
			}
			return streamEvents(token)
		},
	}

	return cmd
}

// sseEvent represents a parsed event for JSON output
type sseEvent struct {
	Time  time.Time `json:"time"`
	Event string    `json:"event"`
	Data  string    `json:"data"`
}

func streamEvents(token string) error {
	url := strings.TrimSuffix(cfg.ServerURL, "/") + "/api/v1/events/" + token

	req, err := http.NewRequest(http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "text/event-stream")
	req.Header.Set("Cache-Control", "no-cache")

	// Set up cancellation
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		cancel()
	}()

	req = req.WithContext(ctx)

	httpClient := &http.Client{
		Timeout: 0, // No timeout for the event stream
	}

	resp, err := httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("connection failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status: %d", resp.StatusCode)
	}

	if !cfg.JSON {
		fmt.Println("Connected")
	}

	// Parse the event stream
	scanner := bufio.NewScanner(resp.Body)
	var currentEvent string
	var dataLines []string

	for scanner.Scan() {
		line := scanner.Text()

		if strings.HasPrefix(line, "event: ") {
			currentEvent = strings.TrimPrefix(line, "event: ")
		} else if strings.HasPrefix(line, "data: ") {
			dataLines = append(dataLines, strings.TrimPrefix(line, "data: "))
		} else if line == "" {
			// End of event
			if currentEvent != "" {
				printEvent(currentEvent, strings.Join(dataLines, "\n"))
			}
			currentEvent = ""
			dataLines = nil
		}
	}

	if err := scanner.Err(); err != nil {
		// Context cancellation is expected
		if ctx.Err() != nil {
			if !cfg.JSON {
				fmt.Println("\nDisconnected")
			}
			return nil
		}
		return fmt.Errorf("stream error: %w", err)
	}

	if !cfg.JSON {
		fmt.Println("Disconnected")
	}
	return nil
}

func printEvent(event, data string) {
	now := time.Now()

	if cfg.JSON {
		evt := sseEvent{
			Time:  now,
			Event: event,
			Data:  data,
		}
		jsonData, _ := json.Marshal(evt)
		fmt.Println(string(jsonData))
		return
	}

	displayData := strings.ReplaceAll(data, "\n", " ")
	if len(displayData) > 120 {
		displayData = displayData[:120] + "..."
	}
	fmt.Printf("[%s] %s: %s\n", now.Format("15:04:05"), event, displayData)
}
