package main

import (
	"context"
	"errors"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"commons/internal/config"
	"commons/internal/db"
	"commons/internal/logging"
	"commons/internal/middleware"
	"commons/internal/router"
	"commons/internal/services"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(ctx)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger, err := logging.New(cfg.Env, cfg.LogLevel)
	if err != nil {
		log.Fatalf("Failed to build logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	if err := run(ctx, cfg, logger); err != nil {
		logger.Fatal("Server stopped with error", zap.Error(err))
	}
}

func run(ctx context.Context, cfg *config.Config, logger *zap.Logger) error {
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	conn, err := db.Open(cfg, logger)
	if err != nil {
		return err
	}
	defer func() {
		if err := db.Close(conn); err != nil {
			logger.Warn("Closing database", zap.Error(err))
		}
	}()

	if err := db.Migrate(conn); err != nil {
		return err
	}

	hasher := services.NewHasher(cfg.BcryptCost, cfg.HashWorkers)
	users := services.NewUserService(conn, hasher)
	ledger := services.NewAttemptLedger(conn)
	auth := services.NewAuthService(users, ledger, hasher, services.LockoutPolicy{
		Threshold: int64(cfg.LockoutThreshold),
		Window:    cfg.LockoutWindow,
		Duration:  cfg.LockoutDuration,
	})
	hub := services.NewHub(logger)

	r, err := router.New(router.Deps{
		Config:       cfg,
		DB:           conn,
		Log:          logger,
		SessionStore: middleware.NewSessionStore(cfg, conn),
		Users:        users,
		Auth:         auth,
		Comments:     services.NewCommentService(conn),
		Chat:         services.NewChatService(conn, hub),
		Hub:          hub,
	})
	if err != nil {
		return err
	}

	// request contexts derive from baseCtx so that open chat streams end on shutdown
	baseCtx, cancelBase := context.WithCancel(context.Background())
	defer cancelBase()
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return baseCtx },
	}
	srv.RegisterOnShutdown(cancelBase)

	errCh := make(chan error, 1)
	go func() {
		logger.Info("Commons server starting", zap.String("addr", srv.Addr), zap.String("env", cfg.Env))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
