package handler

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/guesspro/guesspro-go/internal/api/middleware"
	"github.com/guesspro/guesspro-go/internal/api/request"
	"github.com/guesspro/guesspro-go/internal/api/response"
	"github.com/guesspro/guesspro-go/internal/model"
	"github.com/guesspro/guesspro-go/internal/services/room"
	"github.com/guesspro/guesspro-go/internal/services/session"
)

// RoomHandler handles room lifecycle and action endpoints
type RoomHandler struct {
	rooms    *room.Registry
	sessions *session.Registry
}

// NewRoomHandler creates a new room handler
func NewRoomHandler(rooms *room.Registry, sessions *session.Registry) *RoomHandler {
	return &RoomHandler{
		rooms:    rooms,
		sessions: sessions,
	}
}

// Create handles POST /api/v1/rooms
func (h *RoomHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req request.CreateRoomRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, NewInvalidRequestError("invalid JSON body"))
		return
	}
	if err := req.Validate(); err != nil {
		WriteError(w, err)
		return
	}

	roomID, sessionID, err := h.rooms.Create(
		model.GamerID(req.GamerID), req.GamerName, model.Difficulty(req.Difficulty))
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusCreated, response.CreateRoomResponse{
		RoomID:    string(roomID),
		SessionID: string(sessionID),
	})
}

// Join handles POST /api/v1/rooms/{room_id}/join
func (h *RoomHandler) Join(w http.ResponseWriter, r *http.Request) {
	roomID := model.RoomID(mux.Vars(r)["room_id"])

	var req request.JoinRoomRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, NewInvalidRequestError("invalid JSON body"))
		return
	}
	if err := req.Validate(); err != nil {
		WriteError(w, err)
		return
	}

	sessionID, err := h.rooms.Join(roomID, model.GamerID(req.GamerID), req.GamerName)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.JoinRoomResponse{
		SessionID: string(sessionID),
	})
}

// SetReady handles POST /api/v1/room/ready
func (h *RoomHandler) SetReady(w http.ResponseWriter, r *http.Request) {
	sess := middleware.MustGetSession(r.Context())

	var req request.SetReadyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, NewInvalidRequestError("invalid JSON body"))
		return
	}

	// A stale retry against a vanished room is a soft no-op, not an error
	allReady, ok := h.rooms.SetReady(sess.RoomID, sess.GamerID, req.Ready)
	if ok {
		h.rooms.Broadcast(sess.RoomID, model.EventReadyUpdate, model.ReadyUpdatePayload{
			GamerID: sess.GamerID,
			Ready:   req.Ready,
		})
		if allReady {
			h.rooms.Broadcast(sess.RoomID, model.EventAllReady, model.AllReadyPayload{})
		}
	}

	response.JSON(w, http.StatusOK, response.OK)
}

// Start handles POST /api/v1/room/start
func (h *RoomHandler) Start(w http.ResponseWriter, r *http.Request) {
	sess := middleware.MustGetSession(r.Context())

	if err := h.rooms.StartGame(sess.RoomID, sess.GamerID); err != nil {
		WriteError(w, err)
		return
	}

	h.rooms.Broadcast(sess.RoomID, model.EventGameStarted, model.GameStartedPayload{
		Status: model.RoomStatusInProgress,
	})
	response.JSON(w, http.StatusOK, response.OK)
}

// Guess handles POST /api/v1/room/guess
func (h *RoomHandler) Guess(w http.ResponseWriter, r *http.Request) {
	sess := middleware.MustGetSession(r.Context())

	var req request.GuessRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, NewInvalidRequestError("invalid JSON body"))
		return
	}
	if err := req.Validate(); err != nil {
		WriteError(w, err)
		return
	}

	outcome, err := h.rooms.ProcessGuess(sess.RoomID, sess.GamerID, req.GuessedName)
	if err != nil {
		WriteError(w, err)
		return
	}

	h.rooms.Broadcast(sess.RoomID, model.EventGuessResult, model.GuessResultPayload{
		GamerID:          sess.GamerID,
		GuessID:          outcome.GuessID,
		Mask:             outcome.Mask,
		GuessesRemaining: outcome.GuessesRemaining,
	})
	if outcome.Ended {
		h.rooms.Broadcast(sess.RoomID, model.EventGameEnded, model.GameEndedPayload{
			Winner:       outcome.Winner,
			TargetPlayer: model.RevealTarget(outcome.Target),
		})
	}

	response.JSON(w, http.StatusOK, response.OK)
}

// Leave handles POST /api/v1/room/leave
func (h *RoomHandler) Leave(w http.ResponseWriter, r *http.Request) {
	sess := middleware.MustGetSession(r.Context())

	// Drop the leaver's own channel first so the departure broadcasts
	// only reach the remaining members
	h.sessions.Remove(sess.ID)

	closed, ok := h.rooms.RemoveGamer(sess.RoomID, sess.GamerID)
	if ok {
		h.rooms.Broadcast(sess.RoomID, model.EventGamerLeft, model.GamerLeftPayload{
			GamerID: sess.GamerID,
		})
		if closed {
			h.rooms.Broadcast(sess.RoomID, model.EventRoomEnded, model.RoomEndedPayload{})
			h.sessions.CloseRoom(sess.RoomID)
		}
	}

	response.JSON(w, http.StatusOK, response.OK)
}

// Heartbeat handles POST /api/v1/room/heartbeat
func (h *RoomHandler) Heartbeat(w http.ResponseWriter, r *http.Request) {
	sess := middleware.MustGetSession(r.Context())

	h.sessions.Heartbeat(sess.ID)

	response.JSON(w, http.StatusOK, response.OK)
}
