package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	httpAdapter "github.com/lorrc/ticket-dashboard/internal/adapters/primary/http"
	mw "github.com/lorrc/ticket-dashboard/internal/adapters/primary/http/middleware"
	"github.com/lorrc/ticket-dashboard/internal/adapters/primary/websocket"
	"github.com/lorrc/ticket-dashboard/internal/adapters/secondary/memory"
	"github.com/lorrc/ticket-dashboard/internal/adapters/secondary/postgres"
	"github.com/lorrc/ticket-dashboard/internal/adapters/secondary/upstream"
	"github.com/lorrc/ticket-dashboard/internal/auth"
	"github.com/lorrc/ticket-dashboard/internal/config"
	"github.com/lorrc/ticket-dashboard/internal/core/ports"
	"github.com/lorrc/ticket-dashboard/internal/core/services"
	"github.com/lorrc/ticket-dashboard/internal/infrastructure/logging"
)

// sessionSweepInterval is how often expired sessions are removed.
const sessionSweepInterval = 10 * time.Minute

// sessionBackend is the store plus what the janitor needs from it.
type sessionBackend interface {
	ports.SessionStore
	ports.SessionPurger
}

func main() {
	// 1. Load Configuration
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	// 2. Initialize Structured Logger
	logger := logging.NewLogger(logging.Config{
		Level:       cfg.Logging.Level,
		Format:      cfg.Logging.Format,
		Output:      os.Stdout,
		ServiceName: cfg.App.Name,
		Environment: cfg.App.Environment,
	})

	logger.Info("starting service",
		"version", cfg.App.Version,
		"environment", cfg.App.Environment,
	)
	logger.Debug("configuration loaded", "config", cfg.String())

	ctx, stop := context.WithCancel(context.Background())
	defer stop()

	// 3. Initialize Session Storage
	var sessions sessionBackend
	if cfg.Database.Enabled() {
		if err := postgres.RunMigrations(cfg.Database.MigrationsPath, cfg.Database.URL); err != nil {
			logger.Error("failed to run migrations", "error", err)
			os.Exit(1)
		}

		pool, err := postgres.NewPool(ctx, cfg.Database)
		if err != nil {
			logger.Error("failed to connect to database", "error", err)
			os.Exit(1)
		}
		defer pool.Close()

		sessions = postgres.NewSessionStore(pool)
		logger.Info("using PostgreSQL session store")
	} else {
		sessions = memory.NewSessionStore()
		logger.Info("using in-memory session store")
	}

	// 4. Initialize Security Components
	credentials, err := auth.NewCredentials(cfg.Auth.Email, cfg.Auth.Password, cfg.Auth.PasswordHash)
	if err != nil {
		logger.Error("invalid operator credentials", "error", err)
		os.Exit(1)
	}
	tokenManager := auth.NewTokenManager(cfg.JWT.Secret, cfg.JWT.Issuer)

	// 5. Participants Source
	participants := upstream.NewClient(upstream.Config{
		URL:     cfg.Upstream.URL,
		Token:   cfg.Upstream.Token,
		Timeout: cfg.Upstream.Timeout,
	}, logger)
	if !participants.Configured() {
		logger.Warn("upstream API credentials are not configured; dashboard requests will fail until they are set")
	}

	// 6. Real-time Components and Services (Wiring the Hexagon)
	hub := websocket.NewHub(logger)
	hub.SetKeepalive(cfg.WebSocket.PingInterval, cfg.WebSocket.PongWait)
	go hub.Run()

	authService := services.NewAuthService(credentials, tokenManager, sessions, cfg.Auth.SessionTTL)
	dashboardService := services.NewDashboardService(participants, hub, logger)
	ticketService := services.NewTicketTableService(participants)
	hub.SetSnapshotSource(dashboardService)

	var workers sync.WaitGroup
	workers.Add(2)
	go func() {
		defer workers.Done()
		dashboardService.Run(ctx, cfg.Dashboard.RefreshInterval)
	}()
	go func() {
		defer workers.Done()
		services.NewSessionJanitor(sessions, logger).Run(ctx, sessionSweepInterval)
	}()

	// 7. Initialize Rate Limiters
	var generalRateLimiter, authRateLimiter *mw.RateLimiter
	if cfg.RateLimit.Enabled {
		general := mw.DefaultRateLimiterConfig()
		general.RequestsPerSecond = cfg.RateLimit.RequestsPerSecond
		general.BurstSize = cfg.RateLimit.BurstSize
		generalRateLimiter = mw.NewRateLimiter(general)

		login := mw.AuthRateLimiterConfig()
		login.RequestsPerSecond = cfg.RateLimit.AuthRPS
		login.BurstSize = cfg.RateLimit.AuthBurst
		authRateLimiter = mw.NewRateLimiter(login)
	}

	// 8. Setup Router
	router := httpAdapter.NewRouter(httpAdapter.RouterDeps{
		Config:         cfg,
		Logger:         logger,
		AuthService:    authService,
		Dashboard:      dashboardService,
		Tickets:        ticketService,
		Participants:   participants,
		Sessions:       sessions,
		Hub:            hub,
		GeneralLimiter: generalRateLimiter,
		AuthLimiter:    authRateLimiter,
	})

	// 9. Start Server with Graceful Shutdown
	srv := &http.Server{
		Addr:         cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	serverErr := make(chan error, 1)
	go func() {
		logger.Info("server starting", "port", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	// Wait for interrupt signal or a failed listener
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	exitCode := 0
	select {
	case sig := <-quit:
		logger.Info("shutdown signal received", "signal", sig.String())
	case err := <-serverErr:
		logger.Error("server error", "error", err)
		exitCode = 1
	}

	// Stop background work before draining connections
	stop()
	workers.Wait()
	hub.Stop()
	if generalRateLimiter != nil {
		generalRateLimiter.Stop()
	}
	if authRateLimiter != nil {
		authRateLimiter.Stop()
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown error", "error", err)
		exitCode = 1
	}

	logger.Info("server shutdown complete")
	if exitCode != 0 {
		os.Exit(exitCode)
	}
}
