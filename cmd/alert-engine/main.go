package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"github.com/safelanka/alert-engine/internal/api"
	"github.com/safelanka/alert-engine/internal/config"
	"github.com/safelanka/alert-engine/internal/hub"
	"github.com/safelanka/alert-engine/internal/logging"
	"github.com/safelanka/alert-engine/internal/notify"
	"github.com/safelanka/alert-engine/internal/report"
	"github.com/safelanka/alert-engine/internal/repository"
	"github.com/safelanka/alert-engine/internal/scope"
	"github.com/safelanka/alert-engine/internal/snapshot"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		logging.Fatalf("Fatal while loading config: %v", err)
	}
	logging.Setup(cfg.Logging.Level)

	slog.Info("Server starting", "host", cfg.Server.Host, "port", cfg.Server.Port)

	db, err := repository.NewSQLiteDB(cfg.DB.Path)
	if err != nil {
		logging.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	// Realtime hub is owned here: created at boot, closed at shutdown,
	// passed by reference to everything that publishes or subscribes.
	aggregator := snapshot.NewAggregator(db)
	dashboardHub := hub.New(aggregator, cfg.Hub.RecentLimit)

	mailer := notify.NewSMTPMailer(notify.SMTPConfig{
		Host:     cfg.SMTP.Host,
		Port:     cfg.SMTP.Port,
		User:     cfg.SMTP.User,
		Password: cfg.SMTP.Password,
		From:     cfg.SMTP.From,
	})
	dispatcher := notify.NewDispatcher(mailer, cfg.Worker.Count)
	resolver := scope.NewResolver(db)
	reports := report.NewEngine(db)

	// Gin router
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PATCH", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: false, // Set to false when using wildcard origins
	}))
	router.Use(api.RateLimitMiddleware(20, 40)) // 20 req/s global limit

	handler := api.NewHandler(db, db, resolver, dispatcher, dashboardHub, aggregator, reports, cfg.Auth.Token)
	handler.RegisterRoutes(router)

	srv := &http.Server{
		Addr:    fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler: router,
	}

	go func() {
		slog.Info("server listening", "addr", srv.Addr, "poll_interval", cfg.Hub.PollInterval)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logging.Fatalf("server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("shutting down...")

	dashboardHub.Close() // Close all dashboard streams gracefully

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("server shutdown error", "error", err)
	}

	slog.Info("shutdown complete")
}
