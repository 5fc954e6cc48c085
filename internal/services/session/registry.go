// Package session tracks live push connections across all rooms and owns
// the heartbeat and idle-sweep lifecycle.
package session

import (
	"log/slog"
	"sync"
	"time"

	"github.com/guesspro/guesspro-go/internal/dependencies/clock"
	"github.com/guesspro/guesspro-go/internal/model"
	"github.com/guesspro/guesspro-go/internal/sse"
)

const (
	// Maximum number of concurrent sessions across all rooms
	DefaultCapacity = 1000

	// A session with no heartbeat for this long is swept
	DefaultIdleTimeout = 120 * time.Second

	// Time between idle sweeps
	DefaultSweepInterval = 30 * time.Second
)

// Session is one live connection bound to a gamer in a room
type Session struct {
	ID          model.SessionID
	GamerID     model.GamerID
	DisplayName string
	RoomID      model.RoomID
	Channel     sse.Channel
	LastActive  time.Time
}

// Registry manages all live sessions
type Registry struct {
	clock  clock.Clock
	logger *slog.Logger

	capacity      int
	idleTimeout   time.Duration
	sweepInterval time.Duration

	mu       sync.RWMutex
	sessions map[model.SessionID]*Session

	done     chan struct{}
	stopOnce sync.Once
}

// NewRegistry creates a session registry with the default limits
func NewRegistry(clk clock.Clock, logger *slog.Logger) *Registry {
	return &Registry{
		clock:         clk,
		logger:        logger.With(slog.String("component", "session-registry")),
		capacity:      DefaultCapacity,
		idleTimeout:   DefaultIdleTimeout,
		sweepInterval: DefaultSweepInterval,
		sessions:      make(map[model.SessionID]*Session),
		done:          make(chan struct{}),
	}
}

// Start launches the idle-sweep loop. It returns immediately.
func (r *Registry) Start() {
	go r.run()
}

// Stop terminates the sweep loop. Safe to call more than once.
func (r *Registry) Stop() {
	r.stopOnce.Do(func() {
		close(r.done)
	})
}

func (r *Registry) run() {
	r.logger.Info("session sweep started",
		slog.Duration("interval", r.sweepInterval),
		slog.Duration("idle_timeout", r.idleTimeout))
	ticker := time.NewTicker(r.sweepInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			r.sweep()
		case <-r.done:
			r.logger.Info("session sweep stopped")
			return
		}
	}
}

// Create registers a new session. It fails when the global connection
// cap is reached.
func (r *Registry) Create(id model.SessionID, gamerID model.GamerID, displayName string, roomID model.RoomID, channel sse.Channel) (*Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.sessions) >= r.capacity {
		return nil, model.ErrSessionCapacity
	}
	sess := &Session{
		ID:          id,
		GamerID:     gamerID,
		DisplayName: displayName,
		RoomID:      roomID,
		Channel:     channel,
		LastActive:  r.clock.Now(),
	}
	r.sessions[id] = sess
	r.logger.Info("session created",
		slog.String("session_id", string(id)),
		slog.String("gamer_id", string(gamerID)),
		slog.String("room_id", string(roomID)),
		slog.Int("total_sessions", len(r.sessions)))
	return sess, nil
}

// Get returns the session for an id
func (r *Registry) Get(id model.SessionID) (*Session, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	sess, ok := r.sessions[id]
	if !ok {
		return nil, model.ErrInvalidSession
	}
	return sess, nil
}

// Remove drops a session and closes its channel. Removing an unknown
// session is a no-op.
func (r *Registry) Remove(id model.SessionID) {
	r.mu.Lock()
	sess, ok := r.sessions[id]
	if ok {
		delete(r.sessions, id)
	}
	total := len(r.sessions)
	r.mu.Unlock()
	if !ok {
		return
	}
	sess.Channel.Close()
	r.logger.Info("session removed",
		slog.String("session_id", string(id)),
		slog.String("gamer_id", string(sess.GamerID)),
		slog.Int("total_sessions", total))
}

// Heartbeat refreshes a session's activity timestamp. An unknown id is
// ignored: the sweep can remove the session between the caller's auth
// check and this call.
func (r *Registry) Heartbeat(id model.SessionID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if sess, ok := r.sessions[id]; ok {
		sess.LastActive = r.clock.Now()
	}
}

// sweep closes every session idle past the timeout. Closing the channel
// unblocks the transport's serve loop, which performs room cleanup.
func (r *Registry) sweep() {
	cutoff := r.clock.Now().Add(-r.idleTimeout)
	r.mu.Lock()
	var stale []*Session
	for id, sess := range r.sessions {
		if sess.LastActive.Before(cutoff) {
			delete(r.sessions, id)
			stale = append(stale, sess)
		}
	}
	total := len(r.sessions)
	r.mu.Unlock()
	for _, sess := range stale {
		sess.Channel.Close()
		r.logger.Info("idle session swept",
			slog.String("session_id", string(sess.ID)),
			slog.String("gamer_id", string(sess.GamerID)),
			slog.Int("total_sessions", total))
	}
}

// Broadcast sends an event to every session in a room. Sessions whose
// channel is closed or backed up are skipped and logged, never awaited.
func (r *Registry) Broadcast(roomID model.RoomID, event model.EventName, payload any) {
	frame, err := sse.MarshalEvent(event, payload)
	if err != nil {
		r.logger.Error("broadcast marshal failed",
			slog.String("event", string(event)),
			slog.String("error", err.Error()))
		return
	}
	r.mu.RLock()
	targets := make([]*Session, 0, 4)
	for _, sess := range r.sessions {
		if sess.RoomID == roomID {
			targets = append(targets, sess)
		}
	}
	r.mu.RUnlock()
	dropped := 0
	for _, sess := range targets {
		if err := sess.Channel.Send(frame); err != nil {
			dropped++
			r.logger.Warn("event dropped",
				slog.String("event", string(event)),
				slog.String("session_id", string(sess.ID)),
				slog.String("error", err.Error()))
		}
	}
	if dropped > 0 {
		r.logger.Warn("broadcast partial failure",
			slog.String("event", string(event)),
			slog.String("room_id", string(roomID)),
			slog.Int("sent", len(targets)-dropped),
			slog.Int("dropped", dropped))
	}
}

// CloseRoom removes and closes every session bound to a room
func (r *Registry) CloseRoom(roomID model.RoomID) {
	r.mu.Lock()
	var closing []*Session
	for id, sess := range r.sessions {
		if sess.RoomID == roomID {
			delete(r.sessions, id)
			closing = append(closing, sess)
		}
	}
	r.mu.Unlock()
	for _, sess := range closing {
		sess.Channel.Close()
	}
	if len(closing) > 0 {
		r.logger.Info("room sessions closed",
			slog.String("room_id", string(roomID)),
			slog.Int("closed", len(closing)))
	}
}

// Count returns the number of live sessions
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}
