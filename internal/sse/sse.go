// Package sse frames push events as Server-Sent Events and provides the
// channel abstraction the session registry fans out to. Registries only
// ever see the Channel interface, never a transport type.
package sse

import (
	"encoding/json"
	"fmt"

	"github.com/guesspro/guesspro-go/internal/model"
)

// Channel is the write capability for one connected client
type Channel interface {
	// Send enqueues a pre-formatted frame. Returns an error if the
	// channel is closed or its buffer is full; callers log and skip.
	Send(frame []byte) error

	// Close tears the channel down. Safe to call more than once.
	Close()
}

// FormatEvent formats a named SSE event. Multi-line data gets a "data: "
// prefix per line, as the protocol requires.
func FormatEvent(name model.EventName, data []byte) []byte {
	msg := "event: " + string(name) + "\n"
	start := 0
	for i := 0; i <= len(data); i++ {
		if i == len(data) || data[i] == '\n' {
			msg += "data: " + string(data[start:i]) + "\n"
			start = i + 1
		}
	}
	return []byte(msg + "\n")
}

// MarshalEvent JSON-encodes a payload and formats it as a named frame
func MarshalEvent(name model.EventName, payload any) ([]byte, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal %s event: %w", name, err)
	}
	return FormatEvent(name, data), nil
}
