package apierr

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/guesspro/guesspro-go/internal/model"
)

// APIError represents an API error response
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ErrorResponse wraps an APIError
type ErrorResponse struct {
	Error APIError `json:"error"`
}

// Common error codes
const (
	CodeInvalidRequest  = "INVALID_REQUEST"
	CodeUnauthorized    = "UNAUTHORIZED"
	CodeInvalidSession  = "INVALID_SESSION"
	CodeRoomNotFound    = "ROOM_NOT_FOUND"
	CodeRoomUnavailable = "ROOM_UNAVAILABLE"
	CodeRoomFull        = "ROOM_FULL"
	CodeAlreadyJoined   = "ALREADY_JOINED"
	CodeNotHost         = "NOT_HOST"
	CodeInvalidState    = "INVALID_STATE"
	CodeNoGuessesLeft   = "NO_GUESSES_LEFT"
	CodePlayerNotFound  = "PLAYER_NOT_FOUND"
	CodeCapacity        = "CAPACITY_EXCEEDED"
	CodeRateLimited     = "RATE_LIMITED"
	CodeInternalError   = "INTERNAL_ERROR"
)

// httpError combines an HTTP status code with an APIError
type httpError struct {
	status   int
	apiError APIError
}

// Error implements error interface
func (e *httpError) Error() string {
	return e.apiError.Message
}

// WriteError writes an error response to the response writer
func WriteError(w http.ResponseWriter, err error) {
	he := toHTTPError(err)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(he.status)
	_ = json.NewEncoder(w).Encode(ErrorResponse{Error: he.apiError})
}

// toHTTPError converts an error to an httpError
func toHTTPError(err error) *httpError {
	// Check for specific error types
	var he *httpError
	if errors.As(err, &he) {
		return he
	}

	// Map model errors
	switch {
	case errors.Is(err, model.ErrRoomNotFound):
		return &httpError{http.StatusNotFound, APIError{CodeRoomNotFound, "Room not found"}}
	case errors.Is(err, model.ErrRoomUnavailable):
		return &httpError{http.StatusConflict, APIError{CodeRoomUnavailable, "Room is not accepting new members"}}
	case errors.Is(err, model.ErrRoomFull):
		return &httpError{http.StatusConflict, APIError{CodeRoomFull, "Room is full"}}
	case errors.Is(err, model.ErrAlreadyJoined):
		return &httpError{http.StatusConflict, APIError{CodeAlreadyJoined, "Already in this room"}}
	case errors.Is(err, model.ErrNotHost):
		return &httpError{http.StatusForbidden, APIError{CodeNotHost, "Only the host can perform this action"}}
	case errors.Is(err, model.ErrRoomNotReady):
		return &httpError{http.StatusConflict, APIError{CodeInvalidState, "Not all members are ready"}}
	case errors.Is(err, model.ErrGameNotStarted):
		return &httpError{http.StatusConflict, APIError{CodeInvalidState, "Game is not in progress"}}
	case errors.Is(err, model.ErrNoGuessesLeft):
		return &httpError{http.StatusConflict, APIError{CodeNoGuessesLeft, "No guesses remaining"}}
	case errors.Is(err, model.ErrPlayerNotFound):
		return &httpError{http.StatusNotFound, APIError{CodePlayerNotFound, "Player not found"}}
	case errors.Is(err, model.ErrInvalidSession):
		return &httpError{http.StatusUnauthorized, APIError{CodeInvalidSession, "Invalid or expired session"}}
	case errors.Is(err, model.ErrSessionCapacity):
		return &httpError{http.StatusServiceUnavailable, APIError{CodeCapacity, "Too many active connections"}}
	case errors.Is(err, model.ErrNoTarget):
		return &httpError{http.StatusInternalServerError, APIError{CodeInternalError, "Room has no target player"}}
	case errors.Is(err, model.ErrEmptyPool):
		return &httpError{http.StatusConflict, APIError{CodeInvalidState, "No players available for this difficulty"}}

	default:
		return &httpError{http.StatusInternalServerError, APIError{CodeInternalError, "Internal server error"}}
	}
}

// NewInvalidRequestError creates an invalid request error
func NewInvalidRequestError(message string) error {
	return &httpError{http.StatusBadRequest, APIError{CodeInvalidRequest, message}}
}

// NewUnauthorizedError creates an unauthorized error
func NewUnauthorizedError() error {
	return &httpError{http.StatusUnauthorized, APIError{CodeUnauthorized, "Authentication required"}}
}

// NewRateLimitedError creates a rate limited error
func NewRateLimitedError() error {
	return &httpError{http.StatusTooManyRequests, APIError{CodeRateLimited, "Too many requests"}}
}

// NewInternalError creates an internal server error
func NewInternalError() error {
	return &httpError{http.StatusInternalServerError, APIError{CodeInternalError, "Internal server error"}}
}
