package room

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/guesspro/guesspro-go/internal/dependencies/mocks"
	"github.com/guesspro/guesspro-go/internal/model"
	"github.com/guesspro/guesspro-go/internal/services/engine"
	"github.com/guesspro/guesspro-go/internal/services/roster"
	"github.com/guesspro/guesspro-go/internal/services/session"
	"github.com/guesspro/guesspro-go/internal/testutil"
)

func testPlayers() []*model.Player {
	return []*model.Player{
		{ID: "NiKo", DisplayName: "NiKo", Team: "G2", Country: "Bosnia and Herzegovina", BirthYear: 1997, TournamentsPlayed: 5, Role: model.RoleRifler},
		{ID: "device", DisplayName: "device", Team: "Astralis", Country: "Denmark", BirthYear: 1995, TournamentsPlayed: 6, Role: model.RoleAWPer},
		{ID: "s1mple", DisplayName: "s1mple", Team: "NAVI", Country: "Ukraine", BirthYear: 1997, TournamentsPlayed: 4, Role: model.RoleAWPer},
	}
}

type fixture struct {
	registry *Registry
	random   *mocks.MockRandom
	clock    *mocks.MockClock
	sessions *session.Registry
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	logger := testutil.NopLogger()
	clk := mocks.NewMockClock(time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC))
	rnd := mocks.NewMockRandom()

	rosterSvc := roster.New(rnd, logger)
	rosterSvc.LoadPlayers(testPlayers(), map[model.Difficulty][]model.PlayerID{
		model.DifficultyNormal: {"NiKo", "device", "s1mple"},
		model.DifficultyHard:   {"NiKo"},
	})

	sessions := session.NewRegistry(clk, logger)
	registry := NewRegistry(rosterSvc, engine.New(clk), sessions, clk, rnd, logger)
	return &fixture{registry: registry, random: rnd, clock: clk, sessions: sessions}
}

// confirmedRoom creates a room and confirms the host, returning ids
func (f *fixture) confirmedRoom(t *testing.T, host model.GamerID) model.RoomID {
	t.Helper()
	roomID, sessionID, err := f.registry.Create(host, string(host), model.DifficultyAll)
	require.NoError(t, err)
	_, err = f.registry.ConfirmJoin(sessionID)
	require.NoError(t, err)
	return roomID
}

// joinConfirmed joins and confirms a second gamer
func (f *fixture) joinConfirmed(t *testing.T, roomID model.RoomID, gamer model.GamerID) {
	t.Helper()
	sessionID, err := f.registry.Join(roomID, gamer, string(gamer))
	require.NoError(t, err)
	_, err = f.registry.ConfirmJoin(sessionID)
	require.NoError(t, err)
}

func TestCreateAndConfirmHost(t *testing.T) {
	f := newFixture(t)
	roomID, sessionID, err := f.registry.Create("host", "alice", model.DifficultyNormal)
	require.NoError(t, err)

	room, err := f.registry.Room(roomID)
	require.NoError(t, err)
	assert.Equal(t, model.RoomStatusPending, room.Status)
	assert.Empty(t, room.Gamers)

	conf, err := f.registry.ConfirmJoin(sessionID)
	require.NoError(t, err)
	assert.Equal(t, roomID, conf.RoomID)
	assert.Equal(t, model.GamerID("host"), conf.GamerID)
	assert.Equal(t, "alice", conf.DisplayName)
	assert.True(t, conf.FirstMember)
	require.Len(t, conf.State.Gamers, 1)
	assert.Equal(t, model.RoomStatusWaiting, conf.State.RoomStatus)

	room, err = f.registry.Room(roomID)
	require.NoError(t, err)
	assert.Equal(t, model.RoomStatusWaiting, room.Status)
	require.NotNil(t, room.Gamer("host"))
	assert.Equal(t, DefaultGuessAllowance, room.Gamer("host").GuessesRemaining)
}

func TestConfirmUnknownSession(t *testing.T) {
	f := newFixture(t)
	_, err := f.registry.ConfirmJoin("nope")
	assert.ErrorIs(t, err, model.ErrInvalidSession)
}

func TestConfirmIsOneShot(t *testing.T) {
	f := newFixture(t)
	_, sessionID, err := f.registry.Create("host", "alice", model.DifficultyAll)
	require.NoError(t, err)
	_, err = f.registry.ConfirmJoin(sessionID)
	require.NoError(t, err)
	_, err = f.registry.ConfirmJoin(sessionID)
	assert.ErrorIs(t, err, model.ErrInvalidSession)
}

func TestJoinFailures(t *testing.T) {
	f := newFixture(t)
	_, err := f.registry.Join("missing", "g1", "bob")
	assert.ErrorIs(t, err, model.ErrRoomNotFound)

	roomID := f.confirmedRoom(t, "host")
	_, err = f.registry.Join(roomID, "host", "alice")
	assert.ErrorIs(t, err, model.ErrAlreadyJoined)

	f.joinConfirmed(t, roomID, "g2")
	f.joinConfirmed(t, roomID, "g3")
	_, err = f.registry.Join(roomID, "g4", "dan")
	assert.ErrorIs(t, err, model.ErrRoomFull)
}

func TestJoinRejectedOnceInProgress(t *testing.T) {
	f := newFixture(t)
	roomID := f.confirmedRoom(t, "host")
	f.random.QueueIntn(0)
	require.NoError(t, f.registry.StartGame(roomID, "host"))

	_, err := f.registry.Join(roomID, "late", "eve")
	assert.ErrorIs(t, err, model.ErrRoomUnavailable)
}

func TestStartRequiresNonHostReady(t *testing.T) {
	f := newFixture(t)
	roomID := f.confirmedRoom(t, "host")
	f.joinConfirmed(t, roomID, "g2")

	room, err := f.registry.Room(roomID)
	require.NoError(t, err)
	assert.Equal(t, model.RoomStatusWaiting, room.Status)

	err = f.registry.StartGame(roomID, "host")
	assert.ErrorIs(t, err, model.ErrRoomNotReady)
}

func TestReadyThenStart(t *testing.T) {
	f := newFixture(t)
	roomID := f.confirmedRoom(t, "host")
	f.joinConfirmed(t, roomID, "g2")

	allReady, ok := f.registry.SetReady(roomID, "g2", true)
	assert.True(t, ok)
	assert.False(t, allReady) // host not ready yet

	allReady, ok = f.registry.SetReady(roomID, "host", true)
	assert.True(t, ok)
	assert.True(t, allReady)

	room, err := f.registry.Room(roomID)
	require.NoError(t, err)
	assert.Equal(t, model.RoomStatusReady, room.Status)

	f.random.QueueIntn(1)
	require.NoError(t, f.registry.StartGame(roomID, "host"))
	room, err = f.registry.Room(roomID)
	require.NoError(t, err)
	assert.Equal(t, model.RoomStatusInProgress, room.Status)
	assert.NotNil(t, room.Target)
	assert.Equal(t, f.clock.CurrentTime, room.StartedAt)
}

func TestHostCanStartWithOnlyNonHostReady(t *testing.T) {
	f := newFixture(t)
	roomID := f.confirmedRoom(t, "host")
	f.joinConfirmed(t, roomID, "g2")

	_, ok := f.registry.SetReady(roomID, "g2", true)
	require.True(t, ok)

	f.random.QueueIntn(0)
	require.NoError(t, f.registry.StartGame(roomID, "host"))
}

func TestStartRejectsNonHost(t *testing.T) {
	f := newFixture(t)
	roomID := f.confirmedRoom(t, "host")
	f.joinConfirmed(t, roomID, "g2")
	f.registry.SetReady(roomID, "g2", true)

	err := f.registry.StartGame(roomID, "g2")
	assert.ErrorIs(t, err, model.ErrNotHost)
}

func TestReadyToggleMovesStatusBack(t *testing.T) {
	f := newFixture(t)
	roomID := f.confirmedRoom(t, "host")

	allReady, ok := f.registry.SetReady(roomID, "host", true)
	require.True(t, ok)
	assert.True(t, allReady)

	// Idempotent re-ready keeps the flag and just re-detects all ready
	allReady, ok = f.registry.SetReady(roomID, "host", true)
	require.True(t, ok)
	assert.True(t, allReady)

	allReady, ok = f.registry.SetReady(roomID, "host", false)
	require.True(t, ok)
	assert.False(t, allReady)

	room, err := f.registry.Room(roomID)
	require.NoError(t, err)
	assert.Equal(t, model.RoomStatusWaiting, room.Status)
}

func TestReadyRepeatedSetLeavesStateUnchanged(t *testing.T) {
	f := newFixture(t)
	roomID := f.confirmedRoom(t, "host")
	f.joinConfirmed(t, roomID, "g2")

	_, ok := f.registry.SetReady(roomID, "g2", true)
	require.True(t, ok)
	allReady, ok := f.registry.SetReady(roomID, "host", true)
	require.True(t, ok)
	require.True(t, allReady)

	// Setting an already-set flag re-reports all ready and changes nothing
	allReady, ok = f.registry.SetReady(roomID, "host", true)
	require.True(t, ok)
	assert.True(t, allReady)

	room, err := f.registry.Room(roomID)
	require.NoError(t, err)
	assert.Equal(t, model.RoomStatusReady, room.Status)
	assert.True(t, room.Gamer("host").Ready)
	assert.True(t, room.Gamer("g2").Ready)
}

func TestReadyUnknownRoomOrGamer(t *testing.T) {
	f := newFixture(t)
	_, ok := f.registry.SetReady("missing", "host", true)
	assert.False(t, ok)

	roomID := f.confirmedRoom(t, "host")
	_, ok = f.registry.SetReady(roomID, "stranger", true)
	assert.False(t, ok)
}

func TestGuessBeforeStart(t *testing.T) {
	f := newFixture(t)
	roomID := f.confirmedRoom(t, "host")
	_, err := f.registry.ProcessGuess(roomID, "host", "s1mple")
	assert.ErrorIs(t, err, model.ErrGameNotStarted)
}

func TestGuessUnknownName(t *testing.T) {
	f := newFixture(t)
	roomID := f.confirmedRoom(t, "host")
	f.random.QueueIntn(0)
	require.NoError(t, f.registry.StartGame(roomID, "host"))

	_, err := f.registry.ProcessGuess(roomID, "host", "nobody")
	assert.ErrorIs(t, err, model.ErrPlayerNotFound)

	// A failed lookup does not consume a guess
	room, err := f.registry.Room(roomID)
	require.NoError(t, err)
	assert.Equal(t, DefaultGuessAllowance, room.Gamer("host").GuessesRemaining)
}

func TestWrongGuessDecrements(t *testing.T) {
	f := newFixture(t)
	roomID := f.confirmedRoom(t, "host")
	f.joinConfirmed(t, roomID, "g2")
	f.registry.SetReady(roomID, "g2", true)
	f.random.QueueIntn(2) // target s1mple
	require.NoError(t, f.registry.StartGame(roomID, "host"))

	outcome, err := f.registry.ProcessGuess(roomID, "host", "NiKo")
	require.NoError(t, err)
	assert.False(t, outcome.Correct)
	assert.False(t, outcome.Ended)
	assert.Equal(t, model.PlayerID("NiKo"), outcome.GuessID)
	assert.Equal(t, DefaultGuessAllowance-1, outcome.GuessesRemaining)

	room, err := f.registry.Room(roomID)
	require.NoError(t, err)
	require.Len(t, room.Gamer("host").Guesses, 1)
	assert.Equal(t, model.RoomStatusInProgress, room.Status)
}

func TestExhaustionEndsGameWithoutWinner(t *testing.T) {
	f := newFixture(t)
	roomID := f.confirmedRoom(t, "host")
	f.random.QueueIntn(2) // target s1mple
	require.NoError(t, f.registry.StartGame(roomID, "host"))

	room, err := f.registry.Room(roomID)
	require.NoError(t, err)
	room.Gamer("host").GuessesRemaining = 1

	outcome, err := f.registry.ProcessGuess(roomID, "host", "device")
	require.NoError(t, err)
	assert.False(t, outcome.Correct)
	assert.True(t, outcome.Ended)
	assert.Empty(t, outcome.Winner)
	require.NotNil(t, outcome.Target)
	assert.Equal(t, model.PlayerID("s1mple"), outcome.Target.ID)
	assert.Equal(t, 0, outcome.GuessesRemaining)

	room, err = f.registry.Room(roomID)
	require.NoError(t, err)
	assert.Equal(t, model.RoomStatusEnded, room.Status)

	_, err = f.registry.ProcessGuess(roomID, "host", "NiKo")
	assert.ErrorIs(t, err, model.ErrGameNotStarted)
}

func TestCorrectGuessEndsImmediately(t *testing.T) {
	f := newFixture(t)
	roomID := f.confirmedRoom(t, "host")
	f.joinConfirmed(t, roomID, "g2")
	f.registry.SetReady(roomID, "g2", true)
	f.random.QueueIntn(2) // target s1mple
	require.NoError(t, f.registry.StartGame(roomID, "host"))

	outcome, err := f.registry.ProcessGuess(roomID, "g2", "s1mple")
	require.NoError(t, err)
	assert.True(t, outcome.Correct)
	assert.True(t, outcome.Ended)
	assert.Equal(t, model.GamerID("g2"), outcome.Winner)
	require.NotNil(t, outcome.Target)

	// The other gamer still has guesses, but the room is terminal
	room, err := f.registry.Room(roomID)
	require.NoError(t, err)
	assert.Equal(t, model.RoomStatusEnded, room.Status)
	assert.Equal(t, DefaultGuessAllowance, room.Gamer("host").GuessesRemaining)
}

func TestNoGuessesLeft(t *testing.T) {
	f := newFixture(t)
	roomID := f.confirmedRoom(t, "host")
	f.joinConfirmed(t, roomID, "g2")
	f.registry.SetReady(roomID, "g2", true)
	f.random.QueueIntn(2)
	require.NoError(t, f.registry.StartGame(roomID, "host"))

	room, err := f.registry.Room(roomID)
	require.NoError(t, err)
	room.Gamer("host").GuessesRemaining = 0

	_, err = f.registry.ProcessGuess(roomID, "host", "NiKo")
	assert.ErrorIs(t, err, model.ErrNoGuessesLeft)
}

func TestNonHostLeaveKeepsRoom(t *testing.T) {
	f := newFixture(t)
	roomID := f.confirmedRoom(t, "host")
	f.joinConfirmed(t, roomID, "g2")

	closed, ok := f.registry.RemoveGamer(roomID, "g2")
	assert.True(t, ok)
	assert.False(t, closed)

	room, err := f.registry.Room(roomID)
	require.NoError(t, err)
	assert.Nil(t, room.Gamer("g2"))
	require.NotNil(t, room.Gamer("host"))
}

func TestHostLeaveTearsDownRoom(t *testing.T) {
	f := newFixture(t)
	roomID := f.confirmedRoom(t, "host")
	f.joinConfirmed(t, roomID, "g2")

	closed, ok := f.registry.RemoveGamer(roomID, "host")
	assert.True(t, ok)
	assert.True(t, closed)

	_, err := f.registry.Room(roomID)
	assert.ErrorIs(t, err, model.ErrRoomNotFound)

	// The remaining member's follow-up actions fail, not silently succeed
	_, ok = f.registry.SetReady(roomID, "g2", true)
	assert.False(t, ok)
	_, err = f.registry.ProcessGuess(roomID, "g2", "NiKo")
	assert.ErrorIs(t, err, model.ErrRoomNotFound)
}

func TestLastLeaveTearsDownRoom(t *testing.T) {
	f := newFixture(t)
	roomID := f.confirmedRoom(t, "host")
	f.joinConfirmed(t, roomID, "g2")

	closed, _ := f.registry.RemoveGamer(roomID, "g2")
	require.False(t, closed)
	closed, _ = f.registry.RemoveGamer(roomID, "host")
	assert.True(t, closed)
}

func TestRemoveUnknownGamer(t *testing.T) {
	f := newFixture(t)
	_, ok := f.registry.RemoveGamer("missing", "host")
	assert.False(t, ok)

	roomID := f.confirmedRoom(t, "host")
	_, ok = f.registry.RemoveGamer(roomID, "stranger")
	assert.False(t, ok)
}

func TestTeardownDropsPendingJoins(t *testing.T) {
	f := newFixture(t)
	roomID := f.confirmedRoom(t, "host")
	sessionID, err := f.registry.Join(roomID, "g2", "bob")
	require.NoError(t, err)

	closed, _ := f.registry.RemoveGamer(roomID, "host")
	require.True(t, closed)

	_, err = f.registry.ConfirmJoin(sessionID)
	assert.ErrorIs(t, err, model.ErrInvalidSession)
}

func TestPendingExpiryDiscardsUnconfirmedRoom(t *testing.T) {
	f := newFixture(t)
	roomID, sessionID, err := f.registry.Create("host", "alice", model.DifficultyAll)
	require.NoError(t, err)

	item := f.registry.pending.Get(sessionID)
	require.NotNil(t, item)
	f.registry.pending.Delete(sessionID)
	f.registry.pendingExpired(sessionID, item.Value())

	_, err = f.registry.Room(roomID)
	assert.ErrorIs(t, err, model.ErrRoomNotFound)
}

func TestPendingExpiryLeavesConfirmedRoom(t *testing.T) {
	f := newFixture(t)
	roomID := f.confirmedRoom(t, "host")
	sessionID, err := f.registry.Join(roomID, "g2", "bob")
	require.NoError(t, err)

	item := f.registry.pending.Get(sessionID)
	require.NotNil(t, item)
	f.registry.pending.Delete(sessionID)
	f.registry.pendingExpired(sessionID, item.Value())

	// The room and its confirmed member are untouched
	room, err := f.registry.Room(roomID)
	require.NoError(t, err)
	require.NotNil(t, room.Gamer("host"))
	assert.Nil(t, room.Gamer("g2"))
}
