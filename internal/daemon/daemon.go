package daemon

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/fitcoach-app/fitcoach/internal/api"
	"github.com/fitcoach-app/fitcoach/internal/app/chat"
	"github.com/fitcoach-app/fitcoach/internal/app/gate"
	"github.com/fitcoach-app/fitcoach/internal/app/ledger"
	"github.com/fitcoach-app/fitcoach/internal/health"
	_ "github.com/fitcoach-app/fitcoach/internal/infra/metrics" // Register Prometheus metrics
	"github.com/fitcoach-app/fitcoach/internal/infra/sqlite"
	"github.com/fitcoach-app/fitcoach/internal/relay"
	"github.com/fitcoach-app/fitcoach/internal/scheduler"
)

// Daemon is the core FitCoach runtime. It wires together all services.
type Daemon struct {
	Config Config
	DB     *sqlite.DB
	Gate   *gate.Gate
	Relay  *relay.Client
	Ledger *ledger.Service
	Chat   *chat.Service
	Server *api.Server
	Health *health.Checker
	Weekly *scheduler.Weekly
	Log    zerolog.Logger

	cancel context.CancelFunc
}

// New creates and initializes a Daemon with all services wired.
func New() (*Daemon, error) {
	cfg, err := LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	return NewWithConfig(cfg)
}

// NewWithConfig creates a Daemon with the given configuration.
func NewWithConfig(cfg Config) (*Daemon, error) {
	log := newLogger(cfg.Logging.Level)

	db, err := sqlite.Open(Home())
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	g := gate.New(gate.Limits{
		MaxLength:   cfg.Gate.MaxLength,
		Window:      cfg.Gate.RateWindow(),
		MaxRequests: cfg.Gate.MaxRequests,
	})

	rl := relay.New(cfg.Coach.WebhookURL, cfg.Coach.WebhookTimeout(), log.With().Str("component", "relay").Logger())

	led := ledger.NewService(db)
	chatSvc := chat.NewService(db, g, rl, led, log.With().Str("component", "chat").Logger())

	srv := api.NewServer(chatSvc, led, log.With().Str("component", "api").Logger())
	srv.SetCORSOrigin(cfg.API.CORSOrigin)
	if cfg.Telemetry.Prometheus {
		srv.EnableMetrics()
	}

	checker := health.NewChecker(db, Home(), rl.Configured)
	srv.SetHealthChecker(checker)

	weekly := scheduler.NewWeekly(db, led, log.With().Str("component", "scheduler").Logger())

	return &Daemon{
		Config: cfg,
		DB:     db,
		Gate:   g,
		Relay:  rl,
		Ledger: led,
		Chat:   chatSvc,
		Server: srv,
		Health: checker,
		Weekly: weekly,
		Log:    log,
	}, nil
}

// Serve starts the HTTP server and blocks until shutdown.
func (d *Daemon) Serve(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	d.cancel = cancel

	go d.Health.Run(ctx)
	go d.Weekly.Run(ctx)

	addr := fmt.Sprintf("%s:%d", d.Config.API.Host, d.Config.API.Port)

	httpServer := &http.Server{
		Addr:         addr,
		Handler:      d.Server.Handler(),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 2 * time.Minute,
		IdleTimeout:  2 * time.Minute,
	}

	// Graceful shutdown on signal
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		select {
		case <-sigCh:
		case <-ctx.Done():
		}

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()

		_ = httpServer.Shutdown(shutdownCtx)
		_ = d.DB.Close()
	}()

	fmt.Printf("FitCoach serving on http://%s\n", addr)
	if d.Config.Telemetry.Prometheus {
		fmt.Printf("  Metrics: http://%s/metrics\n", addr)
	}
	if !d.Relay.Configured() {
		fmt.Println("  WARNING: coach webhook URL is not configured (set coach.webhook_url)")
	}

	if err := httpServer.ListenAndServe(); err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Close shuts down all daemon resources.
func (d *Daemon) Close() {
	if d.cancel != nil {
		d.cancel()
	}
	if d.DB != nil {
		_ = d.DB.Close()
	}
}

func newLogger(level string) zerolog.Logger {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil || lvl == zerolog.NoLevel {
		lvl = zerolog.InfoLevel
	}
	return zerolog.New(os.Stderr).Level(lvl).With().Timestamp().Logger()
}
