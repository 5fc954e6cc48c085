package factory

import (
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/guesspro/guesspro-go/internal/model"
)

// captureChannel records frames pushed to a session instead of writing them
// to a live stream.
type captureChannel struct {
	frames [][]byte
	closed bool
}

func (c *captureChannel) Send(frame []byte) error {
	c.frames = append(c.frames, frame)
	return nil
}

func (c *captureChannel) Close() {
	c.closed = true
}

type IntegrationSuite struct {
	suite.Suite
	app *TestApp
}

func TestIntegrationSuite(t *testing.T) {
	suite.Run(t, new(IntegrationSuite))
}

func (s *IntegrationSuite) SetupTest() {
	s.app = NewTestApp()
	s.app.LoadTestRoster()
}

// connect confirms a pending membership and binds a capture channel to it,
// mirroring what the event-stream handshake does.
func (s *IntegrationSuite) connect(sessionID model.SessionID) (*captureChannel, *model.RoomStatePayload) {
	conf, err := s.app.Rooms.ConfirmJoin(sessionID)
	s.Require().NoError(err)

	ch := &captureChannel{}
	_, err = s.app.Sessions.Create(sessionID, conf.GamerID, conf.DisplayName, conf.RoomID, ch)
	s.Require().NoError(err)
	return ch, &conf.State
}

// Test: Complete game flow from room creation through a winning guess
func (s *IntegrationSuite) TestCompleteGameFlow() {
	// Step 1: Host creates a hard-difficulty room and confirms their channel
	roomID, hostSession, err := s.app.Rooms.Create("host", "Host Gamer", model.DifficultyHard)
	s.Require().NoError(err)
	s.Equal(model.RoomID("id-1"), roomID)

	hostCh, state := s.connect(hostSession)
	s.Equal(model.RoomStatusWaiting, state.RoomStatus)
	s.Len(state.Gamers, 1)

	// Step 2: A guest joins and confirms
	guestSession, err := s.app.Rooms.Join(roomID, "guest", "Guest Gamer")
	s.Require().NoError(err)

	guestCh, state := s.connect(guestSession)
	s.Len(state.Gamers, 2)

	// Step 3: The guest readies up, which makes the room startable
	allReady, ok := s.app.Rooms.SetReady(roomID, "guest", true)
	s.Require().True(ok)
	s.False(allReady)

	// Step 4: Host starts the game; the single-player hard tier fixes the target
	err = s.app.Rooms.StartGame(roomID, "host")
	s.Require().NoError(err)

	room, err := s.app.Rooms.Room(roomID)
	s.Require().NoError(err)
	s.Equal(model.RoomStatusInProgress, room.Status)
	s.Equal(model.PlayerID("s1mple"), room.Target.ID)

	// Step 5: A wrong guess consumes an attempt and masks the differences
	outcome, err := s.app.Rooms.ProcessGuess(roomID, "host", "device")
	s.Require().NoError(err)
	s.False(outcome.Correct)
	s.False(outcome.Ended)
	s.Equal(7, outcome.GuessesRemaining)
	s.Equal(model.VerdictDifferent, outcome.Mask.Name)
	s.Equal(model.VerdictExact, outcome.Mask.Role)
	s.Equal(model.VerdictLess, outcome.Mask.Age)

	// Step 6: The correct guess ends the game with the guesser as winner
	outcome, err = s.app.Rooms.ProcessGuess(roomID, "guest", "s1mple")
	s.Require().NoError(err)
	s.True(outcome.Correct)
	s.True(outcome.Ended)
	s.Equal(model.GamerID("guest"), outcome.Winner)
	s.Equal(model.PlayerID("s1mple"), outcome.Target.ID)

	room, err = s.app.Rooms.Room(roomID)
	s.Require().NoError(err)
	s.Equal(model.RoomStatusEnded, room.Status)

	// No guessing after the end
	_, err = s.app.Rooms.ProcessGuess(roomID, "host", "NiKo")
	s.ErrorIs(err, model.ErrGameNotStarted)

	s.False(hostCh.closed)
	s.False(guestCh.closed)
}

// Test: broadcasts reach every session bound to the room and no others
func (s *IntegrationSuite) TestBroadcastScopedToRoom() {
	roomA, sessionA, err := s.app.Rooms.Create("alice", "Alice", model.DifficultyNormal)
	s.Require().NoError(err)
	chA, _ := s.connect(sessionA)

	_, sessionB, err := s.app.Rooms.Create("bob", "Bob", model.DifficultyNormal)
	s.Require().NoError(err)
	chB, _ := s.connect(sessionB)

	s.app.Rooms.Broadcast(roomA, model.EventAllReady, model.RoomStatePayload{})
	s.Len(chA.frames, 1)
	s.Empty(chB.frames)
}

// Test: the host leaving tears the room down and closes every channel
func (s *IntegrationSuite) TestHostLeaveEndsRoom() {
	roomID, hostSession, err := s.app.Rooms.Create("host", "Host Gamer", model.DifficultyNormal)
	s.Require().NoError(err)
	hostCh, _ := s.connect(hostSession)

	guestSession, err := s.app.Rooms.Join(roomID, "guest", "Guest Gamer")
	s.Require().NoError(err)
	guestCh, _ := s.connect(guestSession)

	s.app.Sessions.Remove(hostSession)
	closed, ok := s.app.Rooms.RemoveGamer(roomID, "host")
	s.Require().True(ok)
	s.True(closed)

	s.app.Rooms.Broadcast(roomID, model.EventRoomEnded, model.RoomEndedPayload{})
	s.app.Sessions.CloseRoom(roomID)

	s.True(hostCh.closed)
	s.True(guestCh.closed)

	_, err = s.app.Rooms.Room(roomID)
	s.ErrorIs(err, model.ErrRoomNotFound)
}

// Test: a pending session token is consumed by its first confirmation
func (s *IntegrationSuite) TestConfirmJoinIsOneShot() {
	_, hostSession, err := s.app.Rooms.Create("host", "Host Gamer", model.DifficultyNormal)
	s.Require().NoError(err)
	s.connect(hostSession)

	_, err = s.app.Rooms.ConfirmJoin(hostSession)
	s.ErrorIs(err, model.ErrInvalidSession)
}
