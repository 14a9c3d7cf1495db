package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"scrapi-go/pkg/config"
	"scrapi-go/pkg/mockapi"
	"scrapi-go/pkg/mockapi/store"

	"github.com/charmbracelet/log"
	"github.com/gin-gonic/gin"
)

func main() {
	logger := log.NewWithOptions(os.Stderr, log.Options{ReportTimestamp: true, Prefix: "mockapi"})

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("failed to load config", "err", err)
	}

	gin.SetMode(gin.ReleaseMode)

	// Seed the in-memory store
	st := store.New()
	demo := store.Seed(st)
	logger.Info("seeded demo data", "user", demo.Email, "token", store.DemoToken)

	// Runs started from chat execute in the background
	runner := mockapi.NewRunner(st, logger)
	defer runner.Close()

	// Initialize router
	router := mockapi.NewRouter(st, runner, logger)

	// Create server
	srv := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Mock.Host, cfg.Mock.Port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		logger.Info("mock API server starting", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("server failed", "err", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Fatal("server forced to shutdown", "err", err)
	}

	logger.Info("server exited")
}
