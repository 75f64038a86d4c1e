package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"github.com/oksasatya/signal-subscription/config"
	"github.com/oksasatya/signal-subscription/internal/application"
	"github.com/oksasatya/signal-subscription/internal/container"
	pginfra "github.com/oksasatya/signal-subscription/internal/infrastructure/postgres"
	"github.com/oksasatya/signal-subscription/internal/router"
	"github.com/oksasatya/signal-subscription/pkg/helpers"
)

func main() {
	_ = godotenv.Load() // load .env if present

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}
	logger := helpers.NewLogger(cfg.AppName, cfg.Env)
	gin.SetMode(cfg.GinMode)

	if err := pginfra.RunMigrations(cfg.PostgresDSN(), cfg.MigrationsDir, logger); err != nil {
		logger.Fatalf("migration failed: %v", err)
	}

	ctx, cancelBuild := context.WithTimeout(context.Background(), 30*time.Second)
	ctr, err := container.Build(ctx, cfg, logger)
	cancelBuild()
	if err != nil {
		logger.Fatalf("startup failed: %v", err)
	}
	defer ctr.Close()

	var scheduler *application.ExpiryScheduler
	if cfg.SchedulerEnabled {
		scheduler, err = application.NewExpiryScheduler(ctr.Expiry, cfg.ExpiryCron, cfg.ExpiryLocation(), logger)
		if err != nil {
			logger.Fatalf("expiry scheduler: %v", err)
		}
		scheduler.Start()
		logger.WithField("cron", cfg.ExpiryCron).Info("expiry scheduler started")
	}

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router.NewEngine(ctr),
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		logger.Infof("server starting on :%s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatalf("listen: %s", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("shutting down server")

	ctxShutdown, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctxShutdown); err != nil {
		logger.Errorf("server forced to shutdown: %v", err)
	}
	if scheduler != nil {
		if err := scheduler.Stop(ctxShutdown); err != nil {
			logger.Warnf("expiry sweep still running at shutdown: %v", err)
		}
	}
	logger.Info("server exited properly")
}
