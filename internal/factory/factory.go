// Package factory wires the application's services together
package factory

import (
	"io"
	"log/slog"

	"github.com/guesspro/guesspro-go/internal/dependencies/clock"
	"github.com/guesspro/guesspro-go/internal/dependencies/random"
	"github.com/guesspro/guesspro-go/internal/services/engine"
	"github.com/guesspro/guesspro-go/internal/services/room"
	"github.com/guesspro/guesspro-go/internal/services/roster"
	"github.com/guesspro/guesspro-go/internal/services/session"
)

// App contains all wired application components
type App struct {
	// External dependencies
	Clock  clock.Clock
	Random random.Random

	// Services
	Roster   *roster.Service
	Engine   *engine.Service
	Sessions *session.Registry
	Rooms    *room.Registry
}

// Config holds configuration for the application factory
type Config struct {
	// PlayersPath is the path to the roster data file (optional)
	// If empty, the roster must be loaded manually
	PlayersPath string
	// TiersPath is the path to the difficulty tier file (optional)
	TiersPath string
	// Logger is the application logger (optional)
	// If nil, a no-op logger is used
	Logger *slog.Logger
}

// New creates a new application with all dependencies wired
func New(cfg Config) (*App, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}

	clk := clock.New()
	rnd := random.New()

	app := newWithDependencies(clk, rnd, logger)

	if cfg.PlayersPath != "" {
		if err := app.Roster.LoadFromFiles(cfg.PlayersPath, cfg.TiersPath); err != nil {
			return nil, err
		}
	}
	return app, nil
}

// newWithDependencies creates an App with the given dependencies (useful for testing)
func newWithDependencies(clk clock.Clock, rnd random.Random, logger *slog.Logger) *App {
	rosterService := roster.New(rnd, logger)
	engineService := engine.New(clk)
	sessionRegistry := session.NewRegistry(clk, logger)
	roomRegistry := room.NewRegistry(rosterService, engineService, sessionRegistry, clk, rnd, logger)

	return &App{
		Clock:    clk,
		Random:   rnd,
		Roster:   rosterService,
		Engine:   engineService,
		Sessions: sessionRegistry,
		Rooms:    roomRegistry,
	}
}

// Start launches the background loops (session sweep, pending expiry)
func (a *App) Start() {
	a.Sessions.Start()
	a.Rooms.Start()
}

// Stop terminates the background loops
func (a *App) Stop() {
	a.Rooms.Stop()
	a.Sessions.Stop()
}
