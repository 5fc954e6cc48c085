package handler

import (
	"log/slog"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/guesspro/guesspro-go/internal/model"
	"github.com/guesspro/guesspro-go/internal/services/room"
	"github.com/guesspro/guesspro-go/internal/services/session"
	"github.com/guesspro/guesspro-go/internal/sse"
)

// EventsHandler upgrades a one-shot session token into a long-lived
// event stream.
type EventsHandler struct {
	rooms    *room.Registry
	sessions *session.Registry
	logger   *slog.Logger
}

// NewEventsHandler creates a new events handler
func NewEventsHandler(rooms *room.Registry, sessions *session.Registry, logger *slog.Logger) *EventsHandler {
	return &EventsHandler{
		rooms:    rooms,
		sessions: sessions,
		logger:   logger.With(slog.String("component", "events")),
	}
}

// Connect handles GET /api/v1/events/{session_id}. It confirms the
// pending membership, registers the push channel, replays room state,
// and then relays events until the client goes away.
func (h *EventsHandler) Connect(w http.ResponseWriter, r *http.Request) {
	token := mux.Vars(r)["session_id"]
	if _, err := uuid.Parse(token); err != nil {
		WriteError(w, model.ErrInvalidSession)
		return
	}
	sessionID := model.SessionID(token)

	conf, err := h.rooms.ConfirmJoin(sessionID)
	if err != nil {
		WriteError(w, err)
		return
	}

	// Announce to the members already connected; this channel is not
	// registered yet, so the joiner does not hear their own join
	h.rooms.Broadcast(conf.RoomID, model.EventGamerJoined, model.GamerJoinedPayload{
		GamerID:     conf.GamerID,
		DisplayName: conf.DisplayName,
	})

	channel := sse.NewHTTPChannel()
	if _, err := h.sessions.Create(sessionID, conf.GamerID, conf.DisplayName, conf.RoomID, channel); err != nil {
		// The join already went through; undo it so the member does not
		// occupy a slot with no channel behind it
		h.rooms.RemoveGamer(conf.RoomID, conf.GamerID)
		WriteError(w, err)
		return
	}

	defer func() {
		h.sessions.Remove(sessionID)
		closed, ok := h.rooms.RemoveGamer(conf.RoomID, conf.GamerID)
		if ok {
			h.rooms.Broadcast(conf.RoomID, model.EventGamerLeft, model.GamerLeftPayload{
				GamerID: conf.GamerID,
			})
			if closed {
				h.rooms.Broadcast(conf.RoomID, model.EventRoomEnded, model.RoomEndedPayload{})
				h.sessions.CloseRoom(conf.RoomID)
			}
		}
	}()

	if err := h.seedChannel(channel, conf); err != nil {
		h.logger.Warn("channel seed failed",
			slog.String("session_id", token),
			slog.String("error", err.Error()))
		return
	}

	channel.Serve(w, r)
}

// seedChannel queues the connected event and the roomState replay before
// the serve loop starts draining.
func (h *EventsHandler) seedChannel(channel *sse.HTTPChannel, conf *room.Confirmation) error {
	connected, err := sse.MarshalEvent(model.EventConnected, model.ConnectedPayload{
		GamerID:     conf.GamerID,
		DisplayName: conf.DisplayName,
		RoomID:      conf.RoomID,
	})
	if err != nil {
		return err
	}
	if err := channel.Send(connected); err != nil {
		return err
	}

	state, err := sse.MarshalEvent(model.EventRoomState, conf.State)
	if err != nil {
		return err
	}
	return channel.Send(state)
}
