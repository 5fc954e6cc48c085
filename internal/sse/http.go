package sse

import (
	"net/http"
	"sync"
	"time"

	"github.com/guesspro/guesspro-go/internal/model"
)

const (
	// Time between heartbeat events
	heartbeatPeriod = 30 * time.Second

	// Buffer size for outgoing frames
	sendBufferSize = 256
)

// HTTPChannel is the Channel backing one streaming HTTP response. Frames
// are queued on a buffered channel and drained by Serve; a slow consumer
// whose buffer fills gets send errors rather than blocking the broadcaster.
type HTTPChannel struct {
	send      chan []byte
	done      chan struct{}
	closeOnce sync.Once
}

// NewHTTPChannel creates a channel ready to be served
func NewHTTPChannel() *HTTPChannel {
	return &HTTPChannel{
		send: make(chan []byte, sendBufferSize),
		done: make(chan struct{}),
	}
}

// Send enqueues a frame for delivery
func (c *HTTPChannel) Send(frame []byte) error {
	select {
	case <-c.done:
		return model.ErrChannelClosed
	default:
	}
	select {
	case c.send <- frame:
		return nil
	case <-c.done:
		return model.ErrChannelClosed
	default:
		return model.ErrChannelFull
	}
}

// Close releases the channel and unblocks Serve
func (c *HTTPChannel) Close() {
	c.closeOnce.Do(func() {
		close(c.done)
	})
}

// Serve writes queued frames to the response until the channel is closed
// or the client disconnects. It returns once the connection is finished;
// the caller is responsible for session and room cleanup after that.
func (c *HTTPChannel) Serve(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "Streaming unsupported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("X-Accel-Buffering", "no") // Disable nginx buffering

	ticker := time.NewTicker(heartbeatPeriod)
	defer ticker.Stop()

	for {
		select {
		case frame := <-c.send:
			if _, err := w.Write(frame); err != nil {
				return
			}
			flusher.Flush()

		case <-ticker.C:
			frame, err := MarshalEvent(model.EventHeartbeat, model.HeartbeatPayload{
				Timestamp: time.Now().UTC().Format(time.RFC3339),
			})
			if err != nil {
				return
			}
			if _, err := w.Write(frame); err != nil {
				return
			}
			flusher.Flush()

		case <-c.done:
			return

		case <-r.Context().Done():
			return
		}
	}
}
