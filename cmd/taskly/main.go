package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/alecthomas/kong"

	"github.com/dukerupert/taskly/internal/database"
	"github.com/dukerupert/taskly/internal/logging"
	"github.com/dukerupert/taskly/internal/server"
)

var CLI struct {
	Version  kong.VersionFlag
	Port     string `help:"Port to listen on." env:"TASKLY_PORT" default:"8080"`
	DBPath   string `help:"Path to the SQLite database file." env:"TASKLY_DB_PATH" default:"taskly.db"`
	LogLevel string `help:"Log level: debug, info, warn, error." env:"TASKLY_LOG_LEVEL" default:"info"`
}

func main() {
	kong.Parse(&CLI,
		kong.Name("taskly"),
		kong.Description("Personal and group task, habit, and challenge tracker"),
		kong.UsageOnError(),
		kong.Vars{"version": "v0.1.0"},
	)

	logger := logging.Setup(CLI.LogLevel)

	db, err := database.Open(CLI.DBPath)
	if err != nil {
		logger.Error("open database", "path", CLI.DBPath, "error", err)
		os.Exit(1)
	}
	defer db.Close()

	srv := server.New(db, logger)

	httpServer := &http.Server{
		Addr:         ":" + CLI.Port,
		Handler:      srv.Router(),
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	// Hourly housekeeping: expired sessions and stale rate-limit entries.
	cleanupDone := make(chan struct{})
	go func() {
		ticker := time.NewTicker(time.Hour)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				if n, err := srv.SessionStore().DeleteExpired(); err != nil {
					logger.Error("session cleanup", "error", err)
				} else if n > 0 {
					logger.Info("session cleanup", "removed", n)
				}
				srv.RateLimiter().Cleanup()
			case <-cleanupDone:
				return
			}
		}
	}()

	go func() {
		logger.Info("taskly listening", "addr", httpServer.Addr)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down")
	close(cleanupDone)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(ctx); err != nil {
		logger.Error("shutdown error", "error", err)
		os.Exit(1)
	}
}
