package model

import "errors"

// Common errors used across the application
var (
	// Roster errors
	ErrRosterUnavailable = errors.New("roster data unavailable")
	ErrPlayerNotFound    = errors.New("player not found")
	ErrEmptyPool         = errors.New("no players in difficulty pool")

	// Room errors
	ErrRoomNotFound    = errors.New("room not found")
	ErrRoomUnavailable = errors.New("room is not accepting members")
	ErrRoomFull        = errors.New("room is full")
	ErrAlreadyJoined   = errors.New("gamer is already in room")
	ErrNotHost         = errors.New("gamer is not the host")
	ErrRoomNotReady    = errors.New("room is not ready to start")
	ErrGameNotStarted  = errors.New("game is not in progress")
	ErrNoTarget        = errors.New("room has no target player")
	ErrNoGuessesLeft   = errors.New("no guesses remaining")

	// Session errors
	ErrInvalidSession  = errors.New("invalid or expired session")
	ErrSessionCapacity = errors.New("maximum sessions reached")
	ErrChannelFull     = errors.New("channel send buffer full")
	ErrChannelClosed   = errors.New("channel closed")
)
