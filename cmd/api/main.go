package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/pawtrail/backend/internal/config"
	"github.com/pawtrail/backend/internal/handler"
	"github.com/pawtrail/backend/internal/logging"
	"github.com/pawtrail/backend/internal/metering"
	"github.com/pawtrail/backend/internal/middleware"
	"github.com/pawtrail/backend/internal/repository"
	"github.com/pawtrail/backend/internal/service"
	"github.com/pawtrail/backend/internal/service/journal"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logging.Init("pawtrail-api", cfg.LogLevel, cfg.AppEnv)

	db, err := connectDB(cfg)
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	userRepo := repository.NewUserRepository(db)
	accountRepo := repository.NewAccountRepository(db)
	ledgerRepo := repository.NewLedgerRepository(db)
	petRepo := repository.NewPetRepository(db)
	observationRepo := repository.NewObservationRepository(db)
	idempotencyRepo := repository.NewIdempotencyRepository(db)

	executor := metering.NewExecutor(db, accountRepo, ledgerRepo, cfg.TxTimeout(), cfg.JournalFreeActions)
	adjuster := metering.NewAdjuster(executor)

	userSvc := service.NewUserService(userRepo, accountRepo, cfg.StartingBalance)
	accountSvc := service.NewAccountService(accountRepo, ledgerRepo)
	adminSvc := service.NewAdminService(adjuster, accountRepo, ledgerRepo)
	journalSvc := journal.NewService(accountRepo, petRepo, observationRepo, metering.DefaultCosts(), executor)

	healthHandler := handler.NewHealthHandler(db)
	authHandler := handler.NewAuthHandler(userSvc, cfg.JWTSecret, cfg.JWTExpiry())
	userHandler := handler.NewUserHandler(userSvc)
	accountHandler := handler.NewAccountHandler(accountSvc)
	petHandler := handler.NewPetHandler(journalSvc)
	observationHandler := handler.NewObservationHandler(journalSvc)
	adminHandler := handler.NewAdminHandler(adminSvc)

	authed := middleware.Auth(cfg.JWTSecret)
	idempotent := middleware.Idempotency(idempotencyRepo)

	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", healthHandler.Liveness)
	mux.HandleFunc("GET /health/ready", healthHandler.Readiness)
	mux.Handle("GET /metrics", promhttp.Handler())
	mux.Handle("GET /docs/routes", handler.ServeRouteIndex())

	mux.HandleFunc("POST /v1/auth/signup", authHandler.Signup)
	mux.HandleFunc("POST /v1/auth/login", authHandler.Login)

	mux.Handle("GET /v1/me", authed(http.HandlerFunc(userHandler.Me)))
	mux.Handle("GET /v1/account", authed(http.HandlerFunc(accountHandler.Get)))
	mux.Handle("GET /v1/account/ledger", authed(http.HandlerFunc(accountHandler.Ledger)))

	mux.Handle("POST /v1/pets", authed(idempotent(http.HandlerFunc(petHandler.Create))))
	mux.Handle("GET /v1/pets", authed(http.HandlerFunc(petHandler.List)))
	mux.Handle("GET /v1/pets/{id}", authed(http.HandlerFunc(petHandler.Get)))
	mux.Handle("PUT /v1/pets/{id}", authed(idempotent(http.HandlerFunc(petHandler.Update))))
	mux.Handle("DELETE /v1/pets/{id}", authed(idempotent(http.HandlerFunc(petHandler.Delete))))

	mux.Handle("POST /v1/pets/{id}/observations", authed(idempotent(http.HandlerFunc(observationHandler.Create))))
	mux.Handle("GET /v1/pets/{id}/observations", authed(http.HandlerFunc(observationHandler.List)))
	mux.Handle("PUT /v1/observations/{id}", authed(idempotent(http.HandlerFunc(observationHandler.Update))))
	mux.Handle("DELETE /v1/observations/{id}", authed(idempotent(http.HandlerFunc(observationHandler.Delete))))

	admin := func(h http.HandlerFunc) http.Handler {
		return authed(middleware.RequireAdmin(h))
	}
	mux.Handle("POST /v1/admin/accounts/{id}/adjustments", admin(adminHandler.Adjust))
	mux.Handle("PUT /v1/admin/accounts/{id}/tier", admin(adminHandler.SetTier))
	mux.Handle("GET /v1/admin/accounts/{id}/ledger", admin(adminHandler.Ledger))

	root := middleware.Tracing(middleware.Logging(middleware.Recovery(mux)))

	addr := fmt.Sprintf(":%d", cfg.Port)
	srv := &http.Server{
		Addr:              addr,
		Handler:           root,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		slog.Info("server started", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("shutting down server")
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		slog.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}
	slog.Info("server stopped")
}

func connectDB(cfg *config.Config) (*sql.DB, error) {
	pool := repository.PoolConfig{
		MaxOpenConns:     cfg.DBMaxOpenConns,
		MaxIdleConns:     cfg.DBMaxIdleConns,
		ConnMaxLifetimeS: cfg.DBConnMaxLifetimeS,
		ConnMaxIdleTimeS: cfg.DBConnMaxIdleTimeS,
	}

	var lastErr error
	for i := range 30 {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		db, err := repository.NewPostgresDB(ctx, cfg.DatabaseURL, pool)
		cancel()
		if err == nil {
			return db, nil
		}
		lastErr = err
		slog.Info("waiting for database", "attempt", i+1)
		time.Sleep(time.Second)
	}

	return nil, fmt.Errorf("connectDB: gave up after 30 attempts: %w", lastErr)
}
