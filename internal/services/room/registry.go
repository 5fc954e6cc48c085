// Package room owns the room lifecycle state machine. Rooms move
// pending -> waiting -> ready -> inProgress -> ended, with waiting and
// ready toggling until the game starts. All room mutation goes through
// the registry under one mutex; the push fan-out is delegated to the
// session registry.
package room

import (
	"context"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/jellydator/ttlcache/v3"

	"github.com/guesspro/guesspro-go/internal/dependencies/clock"
	"github.com/guesspro/guesspro-go/internal/dependencies/random"
	"github.com/guesspro/guesspro-go/internal/model"
	"github.com/guesspro/guesspro-go/internal/services/engine"
	"github.com/guesspro/guesspro-go/internal/services/roster"
	"github.com/guesspro/guesspro-go/internal/services/session"
)

const (
	// Maximum confirmed members per room
	DefaultCapacity = 3

	// Guesses granted to each gamer when the game starts
	DefaultGuessAllowance = 8

	// How long a pending membership may wait for its channel to open
	DefaultPendingTimeout = 30 * time.Second
)

// PendingMembership is a one-shot claim check issued at create/join time
// and consumed when the push channel opens. It expires if never consumed.
type PendingMembership struct {
	RoomID      model.RoomID
	GamerID     model.GamerID
	DisplayName string
}

// Confirmation is the result of consuming a pending membership
type Confirmation struct {
	RoomID      model.RoomID
	GamerID     model.GamerID
	DisplayName string
	State       model.RoomStatePayload
	FirstMember bool
}

// GuessOutcome is the result of one processed guess, carrying everything
// the caller needs to broadcast without re-reading room state.
type GuessOutcome struct {
	GuessID          model.PlayerID
	Mask             model.Mask
	GuessesRemaining int
	Correct          bool
	Ended            bool
	Winner           model.GamerID
	Target           *model.Player
}

// Registry manages all rooms and their pending memberships
type Registry struct {
	roster   *roster.Service
	engine   *engine.Service
	sessions *session.Registry
	clock    clock.Clock
	random   random.Random
	logger   *slog.Logger

	capacity       int
	guessAllowance int

	mu      sync.Mutex
	rooms   map[model.RoomID]*model.Room
	pending *ttlcache.Cache[model.SessionID, *PendingMembership]
}

// NewRegistry creates a room registry with the default limits. Call Start
// to enable pending-membership expiry and Stop to release it.
func NewRegistry(
	rosterSvc *roster.Service,
	engineSvc *engine.Service,
	sessions *session.Registry,
	clk clock.Clock,
	rnd random.Random,
	logger *slog.Logger,
) *Registry {
	r := &Registry{
		roster:         rosterSvc,
		engine:         engineSvc,
		sessions:       sessions,
		clock:          clk,
		random:         rnd,
		logger:         logger.With(slog.String("component", "room-registry")),
		capacity:       DefaultCapacity,
		guessAllowance: DefaultGuessAllowance,
		rooms:          make(map[model.RoomID]*model.Room),
		pending: ttlcache.New[model.SessionID, *PendingMembership](
			ttlcache.WithTTL[model.SessionID, *PendingMembership](DefaultPendingTimeout),
			ttlcache.WithDisableTouchOnHit[model.SessionID, *PendingMembership](),
		),
	}
	// Only expiry triggers cleanup. Explicit deletes are consumption or
	// teardown paths that already hold the registry lock.
	r.pending.OnEviction(func(_ context.Context, reason ttlcache.EvictionReason, item *ttlcache.Item[model.SessionID, *PendingMembership]) {
		if reason != ttlcache.EvictionReasonExpired {
			return
		}
		r.pendingExpired(item.Key(), item.Value())
	})
	return r
}

// Start launches the pending-membership expiry loop
func (r *Registry) Start() {
	go r.pending.Start()
}

// Stop terminates the expiry loop
func (r *Registry) Stop() {
	r.pending.Stop()
}

// pendingExpired discards a never-confirmed membership. If it was the
// creation handshake of a room nobody ever entered, the room goes too.
func (r *Registry) pendingExpired(sessionID model.SessionID, m *PendingMembership) {
	r.mu.Lock()
	defer r.mu.Unlock()
	room, ok := r.rooms[m.RoomID]
	if ok && room.Status == model.RoomStatusPending && len(room.Gamers) == 0 {
		delete(r.rooms, m.RoomID)
		r.logger.Info("unconfirmed room discarded",
			slog.String("room_id", string(m.RoomID)),
			slog.String("session_id", string(sessionID)))
		return
	}
	r.logger.Info("pending membership expired",
		slog.String("room_id", string(m.RoomID)),
		slog.String("gamer_id", string(m.GamerID)))
}

// Create allocates a room in pending state and a one-shot session token
// for the host's channel handshake.
func (r *Registry) Create(hostID model.GamerID, displayName string, difficulty model.Difficulty) (model.RoomID, model.SessionID, error) {
	roomID := model.RoomID(r.random.NewID())
	sessionID := model.SessionID(r.random.NewID())

	r.mu.Lock()
	r.rooms[roomID] = &model.Room{
		ID:         roomID,
		HostID:     hostID,
		Gamers:     make(map[model.GamerID]*model.Gamer),
		Status:     model.RoomStatusPending,
		Difficulty: difficulty,
		CreatedAt:  r.clock.Now(),
	}
	r.mu.Unlock()

	r.pending.Set(sessionID, &PendingMembership{
		RoomID:      roomID,
		GamerID:     hostID,
		DisplayName: displayName,
	}, ttlcache.DefaultTTL)

	r.logger.Info("room created",
		slog.String("room_id", string(roomID)),
		slog.String("host_id", string(hostID)),
		slog.String("difficulty", string(difficulty)))
	return roomID, sessionID, nil
}

// Join issues a pending membership for an existing room. The gamer does
// not appear in the room until the channel handshake confirms it.
func (r *Registry) Join(roomID model.RoomID, gamerID model.GamerID, displayName string) (model.SessionID, error) {
	r.mu.Lock()
	room, ok := r.rooms[roomID]
	if !ok {
		r.mu.Unlock()
		return "", model.ErrRoomNotFound
	}
	if room.Status != model.RoomStatusPending && room.Status != model.RoomStatusWaiting {
		r.mu.Unlock()
		return "", model.ErrRoomUnavailable
	}
	if len(room.Gamers) >= r.capacity {
		r.mu.Unlock()
		return "", model.ErrRoomFull
	}
	if room.Gamer(gamerID) != nil {
		r.mu.Unlock()
		return "", model.ErrAlreadyJoined
	}
	r.mu.Unlock()

	sessionID := model.SessionID(r.random.NewID())
	r.pending.Set(sessionID, &PendingMembership{
		RoomID:      roomID,
		GamerID:     gamerID,
		DisplayName: displayName,
	}, ttlcache.DefaultTTL)

	r.logger.Info("join pending",
		slog.String("room_id", string(roomID)),
		slog.String("gamer_id", string(gamerID)))
	return sessionID, nil
}

// ConfirmJoin consumes a pending membership and inserts the gamer into
// its room. The first confirmed member moves the room out of pending.
func (r *Registry) ConfirmJoin(sessionID model.SessionID) (*Confirmation, error) {
	item, ok := r.pending.GetAndDelete(sessionID)
	if !ok || item == nil {
		return nil, model.ErrInvalidSession
	}
	m := item.Value()

	r.mu.Lock()
	defer r.mu.Unlock()
	room, ok := r.rooms[m.RoomID]
	if !ok {
		return nil, model.ErrInvalidSession
	}
	if room.Status != model.RoomStatusPending && room.Status != model.RoomStatusWaiting {
		return nil, model.ErrRoomUnavailable
	}
	if len(room.Gamers) >= r.capacity {
		return nil, model.ErrRoomFull
	}
	if room.Gamer(m.GamerID) != nil {
		return nil, model.ErrAlreadyJoined
	}

	first := len(room.Gamers) == 0
	room.Gamers[m.GamerID] = &model.Gamer{
		ID:               m.GamerID,
		DisplayName:      m.DisplayName,
		JoinedAt:         r.clock.Now(),
		GuessesRemaining: r.guessAllowance,
	}
	if room.Status == model.RoomStatusPending {
		room.Status = model.RoomStatusWaiting
	}

	r.logger.Info("join confirmed",
		slog.String("room_id", string(room.ID)),
		slog.String("gamer_id", string(m.GamerID)),
		slog.Int("members", len(room.Gamers)))
	return &Confirmation{
		RoomID:      m.RoomID,
		GamerID:     m.GamerID,
		DisplayName: m.DisplayName,
		State:       snapshotLocked(room),
		FirstMember: first,
	}, nil
}

// SetReady flips a member's ready flag. The second return is false when
// the room or gamer is gone, so stale client retries stay soft failures.
// The first return reports the room reaching all-ready on this call.
func (r *Registry) SetReady(roomID model.RoomID, gamerID model.GamerID, ready bool) (allReady bool, ok bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	room, found := r.rooms[roomID]
	if !found {
		return false, false
	}
	gamer := room.Gamer(gamerID)
	if gamer == nil {
		return false, false
	}
	if room.Status != model.RoomStatusWaiting && room.Status != model.RoomStatusReady {
		return false, false
	}

	gamer.Ready = ready
	if room.AllReady() {
		room.Status = model.RoomStatusReady
		return true, true
	}
	room.Status = model.RoomStatusWaiting
	return false, true
}

// StartGame transitions the room to inProgress and picks a target from
// the room's difficulty pool. Only the host may start, and every
// non-host member must be ready first.
func (r *Registry) StartGame(roomID model.RoomID, gamerID model.GamerID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	room, ok := r.rooms[roomID]
	if !ok {
		return model.ErrRoomNotFound
	}
	if gamerID != room.HostID {
		return model.ErrNotHost
	}
	if room.Status != model.RoomStatusWaiting && room.Status != model.RoomStatusReady {
		return model.ErrRoomNotReady
	}
	if !room.NonHostReady() {
		return model.ErrRoomNotReady
	}

	target, err := r.roster.RandomPlayer(room.Difficulty)
	if err != nil {
		return err
	}
	room.Target = target
	room.Status = model.RoomStatusInProgress
	room.StartedAt = r.clock.Now()

	r.logger.Info("game started",
		slog.String("room_id", string(roomID)),
		slog.Int("members", len(room.Gamers)))
	return nil
}

// ProcessGuess resolves a guessed name against the room's difficulty
// pool, computes its mask, and advances the room to ended when the guess
// is correct or every member has run out.
func (r *Registry) ProcessGuess(roomID model.RoomID, gamerID model.GamerID, guessedName string) (*GuessOutcome, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	room, ok := r.rooms[roomID]
	if !ok {
		return nil, model.ErrRoomNotFound
	}
	if room.Status != model.RoomStatusInProgress {
		return nil, model.ErrGameNotStarted
	}
	if room.Target == nil {
		return nil, model.ErrNoTarget
	}
	gamer := room.Gamer(gamerID)
	if gamer == nil {
		return nil, model.ErrInvalidSession
	}
	if gamer.GuessesRemaining <= 0 {
		return nil, model.ErrNoGuessesLeft
	}

	guessed, err := r.roster.FindByName(guessedName, room.Difficulty)
	if err != nil {
		return nil, err
	}

	mask := r.engine.Compare(guessed, room.Target)
	gamer.GuessesRemaining--
	gamer.Guesses = append(gamer.Guesses, model.Guess{
		GuessedID: guessed.ID,
		Mask:      mask,
	})

	outcome := &GuessOutcome{
		GuessID:          guessed.ID,
		Mask:             mask,
		GuessesRemaining: gamer.GuessesRemaining,
		Correct:          r.engine.IsCorrectGuess(guessed, room.Target),
	}
	if outcome.Correct {
		room.Status = model.RoomStatusEnded
		outcome.Ended = true
		outcome.Winner = gamerID
		outcome.Target = room.Target
	} else if room.GuessesExhausted() {
		room.Status = model.RoomStatusEnded
		outcome.Ended = true
		outcome.Target = room.Target
	}

	if outcome.Ended {
		r.logger.Info("game ended",
			slog.String("room_id", string(roomID)),
			slog.String("winner", string(outcome.Winner)))
	}
	return outcome, nil
}

// RemoveGamer deletes a member. The room is torn down when it empties or
// when the host leaves; teardown also drops any still-pending
// memberships for the room. Returns whether the room was torn down, and
// whether the gamer was actually a member.
func (r *Registry) RemoveGamer(roomID model.RoomID, gamerID model.GamerID) (roomClosed bool, ok bool) {
	r.mu.Lock()
	room, found := r.rooms[roomID]
	if !found {
		r.mu.Unlock()
		return false, false
	}
	if room.Gamer(gamerID) == nil {
		r.mu.Unlock()
		return false, false
	}
	delete(room.Gamers, gamerID)
	closed := len(room.Gamers) == 0 || gamerID == room.HostID
	if closed {
		delete(r.rooms, roomID)
	}
	r.mu.Unlock()

	if closed {
		// Eviction callbacks skip explicit deletes, so this cannot
		// re-enter the registry lock.
		for _, key := range r.pending.Keys() {
			if item := r.pending.Get(key); item != nil && item.Value().RoomID == roomID {
				r.pending.Delete(key)
			}
		}
		r.logger.Info("room closed",
			slog.String("room_id", string(roomID)),
			slog.String("left_gamer_id", string(gamerID)))
	} else {
		r.logger.Info("gamer left",
			slog.String("room_id", string(roomID)),
			slog.String("gamer_id", string(gamerID)))
	}
	return closed, true
}

// Room returns the room for an id
func (r *Registry) Room(roomID model.RoomID) (*model.Room, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	room, ok := r.rooms[roomID]
	if !ok {
		return nil, model.ErrRoomNotFound
	}
	return room, nil
}

// Broadcast fans an event out to every channel bound to the room. A room
// that is already gone broadcasts to nobody, which is fine.
func (r *Registry) Broadcast(roomID model.RoomID, event model.EventName, payload any) {
	r.sessions.Broadcast(roomID, event, payload)
}

// snapshotLocked builds the roomState replay payload. Caller holds the
// registry lock.
func snapshotLocked(room *model.Room) model.RoomStatePayload {
	gamers := make([]model.GamerInfo, 0, len(room.Gamers))
	for _, g := range room.Gamers {
		gamers = append(gamers, model.GamerInfo{
			GamerID:     g.ID,
			DisplayName: g.DisplayName,
			Ready:       g.Ready,
			JoinedAt:    g.JoinedAt.UTC().Format(time.RFC3339),
		})
	}
	sort.Slice(gamers, func(i, j int) bool {
		return gamers[i].JoinedAt < gamers[j].JoinedAt ||
			(gamers[i].JoinedAt == gamers[j].JoinedAt && gamers[i].GamerID < gamers[j].GamerID)
	})
	return model.RoomStatePayload{
		Gamers:     gamers,
		RoomStatus: room.Status,
	}
}
