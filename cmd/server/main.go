package main

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/guesspro/guesspro-go/internal/api"
	apimiddleware "github.com/guesspro/guesspro-go/internal/api/middleware"
	"github.com/guesspro/guesspro-go/internal/factory"
)

type config struct {
	bind        string
	port        int
	playersPath string
	tiersPath   string
	rateLimit   int
	rateBurst   int
	verbose     bool
}

func (c *config) validate() error {
	if c.port < 1 || c.port > 65535 {
		return fmt.Errorf("invalid port (must be between 1-65535 inclusive): %d", c.port)
	}
	if c.rateLimit < 0 || c.rateBurst < 0 {
		return fmt.Errorf("rate limit settings must not be negative")
	}
	return nil
}

func newCmd(cfg *config) *cobra.Command {
	v := viper.New()
	v.SetEnvPrefix("GUESSPRO")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	cmd := &cobra.Command{
		Use:           "guesspro-server",
		Short:         "Multiplayer guess-the-pro game server",
		Args:          cobra.ExactArgs(0),
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := cfg.validate(); err != nil {
				return err
			}
			return run(cmd.Context(), cfg)
		},
	}

	fs := cmd.Flags()

	fs.SetNormalizeFunc(func(_ *pflag.FlagSet, name string) pflag.NormalizedName {
		return pflag.NormalizedName(strings.ReplaceAll(name, "_", "-"))
	})

	fs.StringVarP(&cfg.bind, "bind", "b", "0.0.0.0", "address to bind to (env: GUESSPRO_BIND)")
	fs.IntVarP(&cfg.port, "port", "p", 8080, "port to listen on (env: GUESSPRO_PORT)")
	fs.StringVar(&cfg.playersPath, "players", "data/players.json", "path to the roster data file (env: GUESSPRO_PLAYERS)")
	fs.StringVar(&cfg.tiersPath, "tiers", "data/tiers.json", "path to the difficulty tier file (env: GUESSPRO_TIERS)")
	fs.IntVar(&cfg.rateLimit, "rate-limit", 10, "requests per second per client ip, 0 disables (env: GUESSPRO_RATE_LIMIT)")
	fs.IntVar(&cfg.rateBurst, "rate-burst", 30, "rate limit burst size (env: GUESSPRO_RATE_BURST)")
	fs.BoolVarP(&cfg.verbose, "verbose", "v", false, "log at debug level (env: GUESSPRO_VERBOSE)")

	fs.VisitAll(func(f *pflag.Flag) {
		_ = v.BindPFlag(f.Name, f)
		_ = v.BindEnv(f.Name)
		if !f.Changed && v.IsSet(f.Name) {
			_ = fs.Set(f.Name, fmt.Sprintf("%v", v.Get(f.Name)))
		}
	})

	return cmd
}

func run(ctx context.Context, cfg *config) error {
	level := slog.LevelInfo
	if cfg.verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)

	app, err := factory.New(factory.Config{
		PlayersPath: cfg.playersPath,
		TiersPath:   cfg.tiersPath,
		Logger:      logger,
	})
	if err != nil {
		return fmt.Errorf("failed to create application: %w", err)
	}

	app.Start()
	defer app.Stop()

	var limiter *apimiddleware.RateLimiter
	if cfg.rateLimit > 0 {
		var stopLimiter func()
		limiter, stopLimiter = apimiddleware.NewRateLimiter(cfg.rateLimit, cfg.rateBurst)
		defer stopLimiter()
	}

	router := api.NewRouter(api.RouterConfig{
		Logger:      logger,
		Rooms:       app.Rooms,
		Sessions:    app.Sessions,
		RateLimiter: limiter,
	})

	serverConfig := api.DefaultServerConfig()
	serverConfig.Addr = net.JoinHostPort(cfg.bind, strconv.Itoa(cfg.port))
	server := api.NewServer(router, serverConfig, logger)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		logger.Info("shutdown signal received")
		cancel()
	}()

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Start()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		return server.Shutdown(context.Background())
	}
}

func main() {
	cfg := &config{}
	if err := newCmd(cfg).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
