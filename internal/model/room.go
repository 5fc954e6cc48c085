package model

import "time"

// RoomID identifies a multiplayer room
type RoomID string

// GamerID identifies a participant across rooms.
// A gamer can be a member of at most one room at a time.
type GamerID string

// SessionID is the opaque token binding a gamer to a push channel.
// Issued one-shot at create/join time, confirmed when the channel opens.
type SessionID string

// RoomStatus is the room lifecycle state.
// Transitions are one-directional except waiting <-> ready, which toggles
// until the game starts.
type RoomStatus string

const (
	RoomStatusPending    RoomStatus = "pending"    // created, awaiting the host's channel
	RoomStatusWaiting    RoomStatus = "waiting"    // at least one confirmed member
	RoomStatusReady      RoomStatus = "ready"      // every member has readied up
	RoomStatusInProgress RoomStatus = "inProgress" // target picked, guessing open
	RoomStatusEnded      RoomStatus = "ended"      // terminal
)

// Gamer is a confirmed room member
type Gamer struct {
	ID               GamerID
	DisplayName      string
	Ready            bool
	JoinedAt         time.Time
	GuessesRemaining int
	Guesses          []Guess
}

// Room is a multiplayer game room. Owned exclusively by the room registry;
// all mutation goes through it.
type Room struct {
	ID         RoomID
	HostID     GamerID
	Gamers     map[GamerID]*Gamer
	Status     RoomStatus
	Difficulty Difficulty
	Target     *Player // nil until the game starts
	CreatedAt  time.Time
	StartedAt  time.Time
}

// Gamer returns the member with the given id, or nil
func (r *Room) Gamer(id GamerID) *Gamer {
	return r.Gamers[id]
}

// AllReady reports whether every confirmed member is ready
func (r *Room) AllReady() bool {
	for _, g := range r.Gamers {
		if !g.Ready {
			return false
		}
	}
	return len(r.Gamers) > 0
}

// NonHostReady reports whether every member other than the host is ready.
// The host commits implicitly by starting the game.
func (r *Room) NonHostReady() bool {
	for _, g := range r.Gamers {
		if g.ID != r.HostID && !g.Ready {
			return false
		}
	}
	return true
}

// GuessesExhausted reports whether no member has guesses remaining
func (r *Room) GuessesExhausted() bool {
	for _, g := range r.Gamers {
		if g.GuessesRemaining > 0 {
			return false
		}
	}
	return true
}
