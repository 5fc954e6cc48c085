package model

// EventName identifies a push-channel event
type EventName string

const (
	EventConnected   EventName = "connected"
	EventRoomState   EventName = "roomState"
	EventHeartbeat   EventName = "heartbeat"
	EventGamerJoined EventName = "gamerJoined"
	EventGamerLeft   EventName = "gamerLeft"
	EventReadyUpdate EventName = "readyUpdate"
	EventAllReady    EventName = "allReady"
	EventGameStarted EventName = "gameStarted"
	EventGuessResult EventName = "guessResult"
	EventGameEnded   EventName = "gameEnded"
	EventRoomEnded   EventName = "roomEnded"
)

// ConnectedPayload is sent once when a push channel is established
type ConnectedPayload struct {
	GamerID     GamerID `json:"gamerId"`
	DisplayName string  `json:"displayName"`
	RoomID      RoomID  `json:"roomId"`
}

// GamerInfo is the public view of a room member
type GamerInfo struct {
	GamerID     GamerID `json:"gamerId"`
	DisplayName string  `json:"displayName"`
	Ready       bool    `json:"ready"`
	JoinedAt    string  `json:"joinedAt"`
}

// RoomStatePayload replays the full room state to a newly connected channel
type RoomStatePayload struct {
	Gamers     []GamerInfo `json:"gamers"`
	RoomStatus RoomStatus  `json:"roomStatus"`
}

// HeartbeatPayload keeps intermediaries from timing out the channel
type HeartbeatPayload struct {
	Timestamp string `json:"timestamp"`
}

// GamerJoinedPayload announces a confirmed join to the other members
type GamerJoinedPayload struct {
	GamerID     GamerID `json:"gamerId"`
	DisplayName string  `json:"displayName"`
}

// GamerLeftPayload announces a departure
type GamerLeftPayload struct {
	GamerID GamerID `json:"gamerId"`
}

// ReadyUpdatePayload announces a ready-flag change
type ReadyUpdatePayload struct {
	GamerID GamerID `json:"gamerId"`
	Ready   bool    `json:"ready"`
}

// AllReadyPayload is empty; the event name carries the signal
type AllReadyPayload struct{}

// GameStartedPayload announces the transition to inProgress
type GameStartedPayload struct {
	Status RoomStatus `json:"status"`
}

// GuessResultPayload announces one gamer's guess outcome to the room
type GuessResultPayload struct {
	GamerID          GamerID  `json:"gamerId"`
	GuessID          PlayerID `json:"guessId"`
	Mask             Mask     `json:"mask"`
	GuessesRemaining int      `json:"guessesRemaining"`
}

// TargetReveal is the target player as revealed at game end
type TargetReveal struct {
	ID                PlayerID `json:"id"`
	DisplayName       string   `json:"displayName"`
	Team              string   `json:"team"`
	Country           string   `json:"country"`
	BirthYear         int      `json:"birthYear"`
	TournamentsPlayed int      `json:"tournamentsPlayed"`
	Role              Role     `json:"role"`
}

// GameEndedPayload announces the terminal state. Winner is empty when all
// guesses were exhausted without a correct one.
type GameEndedPayload struct {
	Winner       GamerID      `json:"winner,omitempty"`
	TargetPlayer TargetReveal `json:"targetPlayer"`
}

// RoomEndedPayload announces room teardown to remaining channels
type RoomEndedPayload struct{}

// RevealTarget builds the end-of-game reveal for a player
func RevealTarget(p *Player) TargetReveal {
	return TargetReveal{
		ID:                p.ID,
		DisplayName:       p.DisplayName,
		Team:              p.Team,
		Country:           p.Country,
		BirthYear:         p.BirthYear,
		TournamentsPlayed: p.TournamentsPlayed,
		Role:              p.Role,
	}
}
