package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/PeteerDHeras/proyectoFinal/internal/application"
	"github.com/PeteerDHeras/proyectoFinal/internal/config"
	httptransport "github.com/PeteerDHeras/proyectoFinal/internal/http"
	"github.com/PeteerDHeras/proyectoFinal/internal/metrics"
	"github.com/PeteerDHeras/proyectoFinal/internal/persistence/sqlite"
	"github.com/PeteerDHeras/proyectoFinal/internal/session"
)

const sessionSweepInterval = 5 * time.Minute

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	store, err := sqlite.Open(cfg.SQLiteDSN)
	if err != nil {
		logger.Error("failed to open storage", "error", err)
		os.Exit(1)
	}
	defer func() {
		if cerr := store.Close(); cerr != nil {
			logger.Error("failed to close storage", "error", cerr)
		}
	}()

	if err := store.Migrate(context.Background()); err != nil {
		logger.Error("failed to apply migrations", "error", err)
		os.Exit(1)
	}

	registry := prometheus.NewRegistry()
	collector := metrics.NewCollector(registry)

	tracker := session.NewTracker(
		session.WithTTL(cfg.SessionTTL),
		session.WithMaxAge(cfg.SessionMaxAge),
	)

	now := time.Now
	users := newUserStoreAdapter(sqlite.NewUserRepository(store))
	events := newEventRepositoryAdapter(sqlite.NewEventRepository(store))
	tasks := newTaskRepositoryAdapter(sqlite.NewTaskRepository(store))

	dashboardService := application.NewDashboardService(events, tasks, cfg.SummaryCacheTTL, now, logger)
	eventService := application.NewEventService(events, dashboardService, now, logger)
	taskService := application.NewTaskService(tasks, dashboardService, now, logger)
	authService := application.NewAuthService(users, tracker, nil, nil, now, collector, logger)
	userService := application.NewUserService(users, tracker, authService, now, logger)
	maintenanceService := application.NewMaintenanceService(events, tasks, dashboardService, cfg.PurgeRetentionDays, now, collector, logger)

	loginLimiter := httptransport.NewLoginLimiter(cfg.LoginRatePerMinute, cfg.LoginBurst)

	router := httptransport.NewRouter(httptransport.RouterConfig{
		Auth:           httptransport.NewAuthHandler(authService, loginLimiter, logger),
		Events:         httptransport.NewEventHandler(eventService, logger),
		Tasks:          httptransport.NewTaskHandler(taskService, logger),
		Users:          httptransport.NewUserHandler(userService, logger),
		Dashboard:      httptransport.NewDashboardHandler(dashboardService, eventService, maintenanceService, logger),
		Metrics:        metrics.Handler(registry),
		RequireSession: httptransport.RequireSession(authService, logger),
		Middleware: []func(http.Handler) http.Handler{
			httptransport.RequestLogger(logger, collector),
		},
	})

	// Expired sessions are also swept on every login attempt; the ticker
	// keeps the tracker small during quiet periods.
	go func() {
		ticker := time.NewTicker(sessionSweepInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if expired := tracker.CleanupExpired(); expired > 0 {
					collector.SessionsExpired(expired)
					logger.Info("expired sessions removed", "count", expired)
				}
			}
		}
	}()

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("failed to shutdown server", "error", err)
		}
	}()

	logger.Info("planner API listening", "addr", server.Addr)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("server encountered error", "error", err)
		os.Exit(1)
	}
}
