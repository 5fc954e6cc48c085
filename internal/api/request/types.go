package request

import (
	"github.com/google/uuid"

	"github.com/guesspro/guesspro-go/internal/api/apierr"
	"github.com/guesspro/guesspro-go/internal/model"
)

const maxNameLength = 50

// CreateRoomRequest is the request body for creating a room
type CreateRoomRequest struct {
	GamerID    string `json:"gamerId"`
	GamerName  string `json:"gamerName"`
	Difficulty string `json:"difficulty"`
}

// Validate checks field constraints before any state is touched
func (r *CreateRoomRequest) Validate() error {
	if err := validateGamer(r.GamerID, r.GamerName); err != nil {
		return err
	}
	if !model.ValidDifficulty(model.Difficulty(r.Difficulty)) {
		return apierr.NewInvalidRequestError("difficulty must be one of: all, normal, hard")
	}
	return nil
}

// JoinRoomRequest is the request body for joining a room
type JoinRoomRequest struct {
	GamerID   string `json:"gamerId"`
	GamerName string `json:"gamerName"`
}

// Validate checks field constraints
func (r *JoinRoomRequest) Validate() error {
	return validateGamer(r.GamerID, r.GamerName)
}

// SetReadyRequest is the request body for toggling readiness
type SetReadyRequest struct {
	Ready bool `json:"ready"`
}

// GuessRequest is the request body for submitting a guess
type GuessRequest struct {
	GuessedName string `json:"guessedName"`
}

// Validate checks field constraints
func (r *GuessRequest) Validate() error {
	if r.GuessedName == "" {
		return apierr.NewInvalidRequestError("guessedName is required")
	}
	if len(r.GuessedName) > maxNameLength {
		return apierr.NewInvalidRequestError("guessedName is too long")
	}
	return nil
}

func validateGamer(id, name string) error {
	if _, err := uuid.Parse(id); err != nil {
		return apierr.NewInvalidRequestError("gamerId must be a valid UUID")
	}
	if name == "" {
		return apierr.NewInvalidRequestError("gamerName is required")
	}
	if len(name) > maxNameLength {
		return apierr.NewInvalidRequestError("gamerName is too long")
	}
	return nil
}
