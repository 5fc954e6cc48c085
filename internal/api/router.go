package api

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/guesspro/guesspro-go/internal/api/handler"
	apimiddleware "github.com/guesspro/guesspro-go/internal/api/middleware"
	"github.com/guesspro/guesspro-go/internal/middleware"
	"github.com/guesspro/guesspro-go/internal/services/room"
	"github.com/guesspro/guesspro-go/internal/services/session"
)

// RouterConfig holds configuration for the API router
type RouterConfig struct {
	Logger      *slog.Logger
	Rooms       *room.Registry
	Sessions    *session.Registry
	RateLimiter *apimiddleware.RateLimiter
}

// NewRouter creates a new API router with all routes configured
func NewRouter(cfg RouterConfig) http.Handler {
	r := mux.NewRouter()

	roomHandler := handler.NewRoomHandler(cfg.Rooms, cfg.Sessions)
	eventsHandler := handler.NewEventsHandler(cfg.Rooms, cfg.Sessions, cfg.Logger)

	authMiddleware := apimiddleware.Auth(cfg.Sessions)
	loggingMiddleware := middleware.Logging(cfg.Logger)
	recoveryMiddleware := apimiddleware.Recovery(cfg.Logger)

	// API subrouter with common middleware
	api := r.PathPrefix("/api/v1").Subrouter()
	api.Use(recoveryMiddleware)
	api.Use(loggingMiddleware)
	if cfg.RateLimiter != nil {
		api.Use(apimiddleware.RateLimit(cfg.RateLimiter))
	}

	// Room entry points (no session yet)
	api.HandleFunc("/rooms", roomHandler.Create).Methods(http.MethodPost)
	api.HandleFunc("/rooms/{room_id}/join", roomHandler.Join).Methods(http.MethodPost)

	// Event stream; the one-shot token in the path is its own auth
	api.HandleFunc("/events/{session_id}", eventsHandler.Connect).Methods(http.MethodGet)

	// Room actions (all require a confirmed session)
	actions := api.PathPrefix("/room").Subrouter()
	actions.Use(authMiddleware)
	actions.HandleFunc("/ready", roomHandler.SetReady).Methods(http.MethodPost)
	actions.HandleFunc("/start", roomHandler.Start).Methods(http.MethodPost)
	actions.HandleFunc("/guess", roomHandler.Guess).Methods(http.MethodPost)
	actions.HandleFunc("/leave", roomHandler.Leave).Methods(http.MethodPost)
	actions.HandleFunc("/heartbeat", roomHandler.Heartbeat).Methods(http.MethodPost)

	// Health check endpoint (no auth)
	api.HandleFunc("/health", healthHandler).Methods(http.MethodGet)

	return r
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(`{"status":"ok"}`))
}
