package factory

import (
	"time"

	"github.com/guesspro/guesspro-go/internal/dependencies/mocks"
	"github.com/guesspro/guesspro-go/internal/model"
	"github.com/guesspro/guesspro-go/internal/testutil"
)

// TestApp extends App with test-specific helpers
type TestApp struct {
	*App

	// Mocks for test control
	MockClock  *mocks.MockClock
	MockRandom *mocks.MockRandom
}

// NewTestApp creates an App configured for testing with mocked dependencies
func NewTestApp() *TestApp {
	mockClock := mocks.NewMockClock(time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC))
	mockRandom := mocks.NewMockRandom()

	app := newWithDependencies(mockClock, mockRandom, testutil.NopLogger())

	return &TestApp{
		App:        app,
		MockClock:  mockClock,
		MockRandom: mockRandom,
	}
}

// LoadTestRoster loads a small roster for testing. The hard tier holds a
// single player so a hard-difficulty game always targets s1mple.
func (t *TestApp) LoadTestRoster() {
	players := []*model.Player{
		{ID: "NiKo", DisplayName: "NiKo", Team: "G2", Country: "Bosnia and Herzegovina", BirthYear: 1997, TournamentsPlayed: 5, Role: model.RoleRifler},
		{ID: "device", DisplayName: "device", Team: "Astralis", Country: "Denmark", BirthYear: 1995, TournamentsPlayed: 6, Role: model.RoleAWPer},
		{ID: "s1mple", DisplayName: "s1mple", Team: "NAVI", Country: "Ukraine", BirthYear: 1997, TournamentsPlayed: 4, Role: model.RoleAWPer},
		{ID: "ZywOo", DisplayName: "ZywOo", Team: "Vitality", Country: "France", BirthYear: 2000, TournamentsPlayed: 3, Role: model.RoleAWPer},
	}
	t.Roster.LoadPlayers(players, map[model.Difficulty][]model.PlayerID{
		model.DifficultyNormal: {"NiKo", "device", "s1mple", "ZywOo"},
		model.DifficultyHard:   {"s1mple"},
	})
}
