package engine

import (
	"github.com/guesspro/guesspro-go/internal/dependencies/clock"
	"github.com/guesspro/guesspro-go/internal/model"
)

const (
	// AgeNearThreshold is the max age gap still reported as Greater/Less
	AgeNearThreshold = 2
	// TournamentsNearThreshold is the same for tournament appearances
	TournamentsNearThreshold = 3
)

// Service computes per-attribute match masks for guesses.
// Pure apart from the clock, which fixes "current year" for age derivation.
type Service struct {
	clock clock.Clock
}

// New creates a new comparison engine
func New(clk clock.Clock) *Service {
	return &Service{clock: clk}
}

// Compare maps a guessed player and the target to a per-attribute mask.
//
// Ordinal attributes use the guessed-minus-target delta: a positive delta
// within the threshold yields Less, a negative one yields Greater. The
// verdict describes the target relative to the guess ("the target's value
// is less than what you guessed"), which is the convention the reference
// client renders.
func (s *Service) Compare(guessed, target *model.Player) model.Mask {
	year := s.clock.Now().Year()
	guessedAge := year - guessed.BirthYear
	targetAge := year - target.BirthYear

	return model.Mask{
		Name:        exactOrDifferent(guessed.DisplayName == target.DisplayName),
		Team:        exactOrDifferent(guessed.Team == target.Team),
		Country:     compareCountry(guessed.Country, target.Country),
		Age:         compareOrdinal(guessedAge, targetAge, AgeNearThreshold),
		Tournaments: compareOrdinal(guessed.TournamentsPlayed, target.TournamentsPlayed, TournamentsNearThreshold),
		Role:        exactOrDifferent(guessed.Role == target.Role),
	}
}

// IsCorrectGuess reports whether the guess wins. Id equality is the sole
// win condition, independent of the mask.
func (s *Service) IsCorrectGuess(guessed, target *model.Player) bool {
	return guessed.ID == target.ID
}

func exactOrDifferent(equal bool) model.Verdict {
	if equal {
		return model.VerdictExact
	}
	return model.VerdictDifferent
}

func compareCountry(guessed, target string) model.Verdict {
	if guessed == target {
		return model.VerdictExact
	}
	if model.RegionOf(guessed) == model.RegionOf(target) {
		return model.VerdictNear
	}
	return model.VerdictDifferent
}

func compareOrdinal(guessed, target, threshold int) model.Verdict {
	delta := guessed - target
	switch {
	case delta == 0:
		return model.VerdictExact
	case delta > 0 && delta <= threshold:
		return model.VerdictLess
	case delta < 0 && delta >= -threshold:
		return model.VerdictGreater
	default:
		return model.VerdictDifferent
	}
}
