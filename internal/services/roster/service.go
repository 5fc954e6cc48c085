package roster

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"sort"
	"strings"
	"sync"

	"github.com/guesspro/guesspro-go/internal/dependencies/random"
	"github.com/guesspro/guesspro-go/internal/model"
)

// rawPlayer is the on-disk roster entry format, keyed by player name
type rawPlayer struct {
	Team         string `json:"team"`
	Country      string `json:"country"`
	BirthYear    int    `json:"birth_year"`
	MajorsPlayed int    `json:"majorsPlayed"`
	Role         string `json:"role"`
}

// tierLists is the on-disk difficulty allow-list format
type tierLists struct {
	Normal []string `json:"normal"`
	Hard   []string `json:"hard"`
}

// Service is the player directory: a cached roster with difficulty-tier
// filtering, name lookup and uniform random selection.
type Service struct {
	random random.Random
	logger *slog.Logger

	mu      sync.RWMutex
	loaded  bool
	players []*model.Player
	byTier  map[model.Difficulty][]*model.Player
	byName  map[string]*model.Player // keyed by both lower and filter form
}

// New creates a new roster service. Call LoadFromFiles before use.
func New(rnd random.Random, logger *slog.Logger) *Service {
	return &Service{
		random: rnd,
		logger: logger.With(slog.String("component", "roster")),
		byTier: make(map[model.Difficulty][]*model.Player),
		byName: make(map[string]*model.Player),
	}
}

// LoadFromFiles loads the roster and difficulty allow-lists from disk.
// The result is cached for the process lifetime; subsequent calls replace
// the cache wholesale.
func (s *Service) LoadFromFiles(playersPath, tiersPath string) error {
	rawData, err := os.ReadFile(playersPath)
	if err != nil {
		return fmt.Errorf("%w: %v", model.ErrRosterUnavailable, err)
	}

	var raw map[string]rawPlayer
	if err := json.Unmarshal(rawData, &raw); err != nil {
		return fmt.Errorf("%w: parse %s: %v", model.ErrRosterUnavailable, playersPath, err)
	}

	tierData, err := os.ReadFile(tiersPath)
	if err != nil {
		return fmt.Errorf("%w: %v", model.ErrRosterUnavailable, err)
	}

	var tiers tierLists
	if err := json.Unmarshal(tierData, &tiers); err != nil {
		return fmt.Errorf("%w: parse %s: %v", model.ErrRosterUnavailable, tiersPath, err)
	}

	players := make([]*model.Player, 0, len(raw))
	for name, data := range raw {
		players = append(players, playerFromRaw(name, data))
	}
	// Map iteration order is random; keep the cached slice stable.
	sort.Slice(players, func(i, j int) bool {
		return players[i].DisplayName < players[j].DisplayName
	})

	s.mu.Lock()
	defer s.mu.Unlock()

	s.players = players
	s.byName = make(map[string]*model.Player, len(players)*2)
	for _, p := range players {
		s.byName[p.LowerName] = p
		s.byName[p.FilterName] = p
	}
	s.byTier = map[model.Difficulty][]*model.Player{
		model.DifficultyAll:    players,
		model.DifficultyNormal: s.filterByNames(players, tiers.Normal),
		model.DifficultyHard:   s.filterByNames(players, tiers.Hard),
	}
	s.loaded = true

	s.logger.Info("roster loaded",
		slog.Int("players", len(players)),
		slog.Int("normal", len(s.byTier[model.DifficultyNormal])),
		slog.Int("hard", len(s.byTier[model.DifficultyHard])))
	return nil
}

func (s *Service) filterByNames(players []*model.Player, names []string) []*model.Player {
	allowed := make(map[model.PlayerID]struct{}, len(names))
	for _, n := range names {
		allowed[model.PlayerID(n)] = struct{}{}
	}
	var out []*model.Player
	for _, p := range players {
		if _, ok := allowed[p.ID]; ok {
			out = append(out, p)
		}
	}
	return out
}

// LoadPlayers directly loads a roster and tier lists (useful for testing)
func (s *Service) LoadPlayers(players []*model.Player, tiers map[model.Difficulty][]model.PlayerID) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.players = players
	s.byName = make(map[string]*model.Player, len(players)*2)
	for _, p := range players {
		if p.LowerName == "" {
			p.LowerName = strings.ToLower(p.DisplayName)
		}
		if p.FilterName == "" {
			p.FilterName = foldLeet(p.LowerName)
		}
		s.byName[p.LowerName] = p
		s.byName[p.FilterName] = p
	}
	s.byTier = map[model.Difficulty][]*model.Player{model.DifficultyAll: players}
	for tier, ids := range tiers {
		names := make([]string, len(ids))
		for i, id := range ids {
			names[i] = string(id)
		}
		s.byTier[tier] = s.filterByNames(players, names)
	}
	s.loaded = true
}

// Loaded reports whether the roster cache is populated
func (s *Service) Loaded() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loaded
}

// ByDifficulty returns the players for a tier. Unknown tiers fall back to
// the full roster.
func (s *Service) ByDifficulty(tier model.Difficulty) []*model.Player {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if pool, ok := s.byTier[tier]; ok {
		return pool
	}
	return s.byTier[model.DifficultyAll]
}

// FindByName resolves a player by case-insensitive exact name within a
// tier, also accepting the leetspeak-folded form.
func (s *Service) FindByName(name string, tier model.Difficulty) (*model.Player, error) {
	s.mu.RLock()
	p, ok := s.byName[strings.ToLower(name)]
	if !ok {
		p, ok = s.byName[foldLeet(strings.ToLower(name))]
	}
	s.mu.RUnlock()
	if !ok {
		return nil, model.ErrPlayerNotFound
	}

	// Lookup is scoped to the tier: a player outside the pool is not
	// guessable there.
	for _, candidate := range s.ByDifficulty(tier) {
		if candidate.ID == p.ID {
			return p, nil
		}
	}
	return nil, model.ErrPlayerNotFound
}

// RandomPlayer picks a uniformly random player from a tier
func (s *Service) RandomPlayer(tier model.Difficulty) (*model.Player, error) {
	pool := s.ByDifficulty(tier)
	if len(pool) == 0 {
		return nil, model.ErrEmptyPool
	}
	return pool[s.random.Intn(len(pool))], nil
}

// Count returns the full roster size
func (s *Service) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.players)
}

func playerFromRaw(name string, data rawPlayer) *model.Player {
	team := data.Team
	if team == "" {
		team = "Unknown"
	}
	country := data.Country
	if country == "" {
		country = "Unknown"
	}
	birthYear := data.BirthYear
	if birthYear == 0 {
		birthYear = 2000
	}
	lower := strings.ToLower(name)
	return &model.Player{
		ID:                model.PlayerID(name),
		DisplayName:       name,
		Team:              team,
		Country:           country,
		BirthYear:         birthYear,
		TournamentsPlayed: data.MajorsPlayed,
		Role:              model.ParseRole(data.Role),
		LowerName:         lower,
		FilterName:        foldLeet(lower),
	}
}

// foldLeet maps the digit substitutions common in player tags to letters
func foldLeet(s string) string {
	r := strings.NewReplacer("1", "i", "0", "o", "3", "e")
	return r.Replace(s)
}
