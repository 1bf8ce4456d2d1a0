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

	"github.com/Tasneem-netcode/TechSprint-App/internal/api"
	"github.com/Tasneem-netcode/TechSprint-App/internal/app"
	"github.com/Tasneem-netcode/TechSprint-App/internal/config"
	"github.com/Tasneem-netcode/TechSprint-App/internal/logging"
	"github.com/Tasneem-netcode/TechSprint-App/internal/metrics"
	"github.com/Tasneem-netcode/TechSprint-App/internal/publish"
	"github.com/Tasneem-netcode/TechSprint-App/internal/repository"
	"github.com/Tasneem-netcode/TechSprint-App/internal/stream"
	"github.com/Tasneem-netcode/TechSprint-App/internal/warmer"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		logging.Fatalf("Fatal while loading config: %v", err)
	}
	logging.Setup(cfg.Logging.Level)

	slog.Info("Server starting", "host", cfg.Server.Host, "port", cfg.Server.Port)

	m := metrics.New()

	db, err := repository.NewSQLiteDB(cfg.DB.Path)
	if err != nil {
		logging.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	store, closeStore, err := app.NewStore(ctx, cfg.Cache)
	if err != nil {
		logging.Fatalf("Failed to initialize cache: %v", err)
	}
	defer closeStore()

	svc := app.NewOrchestrator(cfg, store, m)
	broadcaster := stream.NewBroadcaster(m)

	var publisher *publish.KafkaPublisher
	publisherDone := make(chan struct{})
	if cfg.Kafka.Enabled() {
		publisher = publish.NewKafkaPublisher(cfg.Kafka.Brokers, cfg.Kafka.Topic, m)
		go func() {
			defer close(publisherDone)
			publisher.Run(ctx, broadcaster)
		}()
		slog.Info("publishing alerts to kafka", "brokers", cfg.Kafka.Brokers, "topic", cfg.Kafka.Topic)
	} else {
		close(publisherDone)
	}

	var w *warmer.Warmer
	if cfg.Warmer.Enabled {
		targets, err := warmer.ParseWatchlist(cfg.Warmer.Watchlist)
		if err != nil {
			logging.Fatalf("Invalid watchlist: %v", err)
		}
		w = warmer.New(warmer.Config{
			Interval:   cfg.Warmer.Interval,
			Workers:    cfg.Warmer.Workers,
			BufferSize: cfg.Warmer.BufferSize,
		}, targets, svc, broadcaster, m)
		w.Start(ctx)
	}

	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.Server.CORSOrigins,
		AllowMethods:     []string{"GET", "POST", "PATCH", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: false,
	}))
	router.Use(api.MetricsMiddleware(m))
	router.Use(api.RateLimitMiddleware(cfg.Server.RateLimit))

	handler := api.NewHandler(svc, db, broadcaster, m)
	handler.RegisterRoutes(router)

	srv := &http.Server{
		Addr:    fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler: router,
	}

	go func() {
		slog.Info("server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logging.Fatalf("server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("shutting down...")

	cancel()
	if w != nil {
		w.Stop()
	}
	broadcaster.Close() // ends SSE streams and the publisher loop
	<-publisherDone
	if publisher != nil {
		if err := publisher.Close(); err != nil {
			slog.Error("kafka writer close error", "error", err)
		}
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("server shutdown error", "error", err)
	}

	slog.Info("shutdown complete")
}
