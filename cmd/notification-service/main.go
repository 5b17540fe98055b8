package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/mlopezuch/fila-backend/internal/api/middleware"
	"github.com/mlopezuch/fila-backend/internal/config"
	"github.com/mlopezuch/fila-backend/internal/infrastructure/redis"
	"github.com/mlopezuch/fila-backend/internal/infrastructure/websocket"
	"github.com/mlopezuch/fila-backend/internal/services"
	"github.com/mlopezuch/fila-backend/pkg/logger"

	redisClient "github.com/go-redis/redis/v8"
	"github.com/gorilla/mux"
	"github.com/joho/godotenv"
)

func main() {
	log := logger.New()
	log.Info("Starting Notification Service")

	if err := godotenv.Load(); err != nil {
		log.Info("No .env file found, continuing with environment")
	}

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Error("Failed to load config", "error", err)
		os.Exit(1)
	}
	log = logger.NewWithLevel(cfg.Log.Level)

	// Initialize Redis
	rdb := redisClient.NewClient(&redisClient.Options{
		Addr:     cfg.Redis.Address,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})

	// Test Redis connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		log.Error("Failed to connect to Redis", "error", err)
		os.Exit(1)
	}
	log.Info("Connected to Redis", "address", cfg.Redis.Address)

	// Initialize the hub and its feed
	hub := websocket.NewHub(log)
	wsHandler := websocket.NewWebSocketHandler(hub, log)

	eventSubscriber := redis.NewRedisEventSubscriber(rdb, log)
	changeListener := services.NewChangeListener(hub, log)

	// Setup routes
	router := mux.NewRouter()
	router.Use(middleware.CORS)

	// WebSocket routes
	router.HandleFunc("/ws", wsHandler.HandleConnection)

	// Health check
	router.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	}).Methods("GET")

	// Start the change listener
	listenerCtx, listenerCancel := context.WithCancel(context.Background())
	defer listenerCancel()

	go func() {
		if err := changeListener.Start(listenerCtx, eventSubscriber); err != nil && listenerCtx.Err() == nil {
			log.Error("Change listener stopped", "error", err)
		}
	}()

	// Start HTTP server
	server := &http.Server{
		Addr:    fmt.Sprintf("%s:%d", cfg.WS.Host, cfg.WS.Port),
		Handler: router,
	}

	go func() {
		log.Info("Starting notification server", "address", server.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("Server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down notification service...")

	// Graceful shutdown
	ctx, cancel = context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	listenerCancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Error("Server forced to shutdown", "error", err)
	}

	log.Info("Notification service stopped")
}
