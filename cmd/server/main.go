package main

import (
	"context"   // context package is needed for Redis operations and shutdown
	"errors"    // Error matching
	"net/http"  // HTTP server
	"os"        // Signals
	"os/signal" // Graceful shutdown
	"syscall"   // SIGTERM
	"time"      // Timeouts

	"ejn_hub/internal/api"      // Custom package for API handlers
	"ejn_hub/internal/config"   // Custom package for configuration
	"ejn_hub/internal/db"       // Database connection
	"ejn_hub/internal/realtime" // Change feed
	"ejn_hub/internal/rewards"  // Points economy
	"ejn_hub/internal/store"    // Data layer

	"github.com/gin-gonic/gin"     // Gin web framework
	"github.com/redis/go-redis/v9" // Redis client
	"github.com/sirupsen/logrus"   // Logrus for structured logging
)

// Main function to set up and run the server
func main() {
	cfg := config.LoadConfig() // Load configuration

	// Setup logger
	logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	// Connect to the database selected by DB_DRIVER
	conn, err := db.Open(cfg)
	if err != nil {
		logrus.Fatalf("failed to connect to DB: %v", err) // Fatal error if DB connection fails
	}

	// Setup Redis client; without REDIS_ADDR the hub runs uncached and without realtime
	var (
		redisClient *redis.Client
		broker      *realtime.Broker
		publisher   store.Publisher
	)
	if cfg.RedisAddr != "" {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr, // Redis server address
			Password: cfg.RedisPass, // Redis password
			DB:       cfg.RedisDB,   // Redis database number
		})
		// Test Redis connection
		if _, err := redisClient.Ping(context.Background()).Result(); err != nil {
			logrus.Fatalf("failed to connect to Redis: %v", err)
		}
		broker = realtime.NewBroker(redisClient)
		publisher = broker
	} else {
		logrus.Warn("REDIS_ADDR not set: caching and realtime disabled")
	}

	st := store.New(conn, publisher)
	log := logrus.StandardLogger()

	// Set Mode to Release if in production
	if cfg.IsProd {
		gin.SetMode(gin.ReleaseMode)
	}

	// Setup Gin
	r := gin.Default() // Gin router instance

	// Set trusted proxies for Gin
	if err := r.SetTrustedProxies([]string{"127.0.0.1"}); err != nil {
		logrus.Fatalf("failed to set trusted proxies: %v", err)
	}

	api.RegisterRoutes(r, api.Deps{
		Store:     st,
		Redis:     redisClient,
		Broker:    broker,
		Workflow:  rewards.NewWorkflow(st, st, st, st, log),
		Coins:     rewards.NewCoinAward(st, log),
		JWTSecret: cfg.JWTSecret,
		CacheTTL:  cfg.CacheTTL,
		Location:  cfg.Location,
	})

	// No write timeout: /realtime responses stay open
	srv := &http.Server{
		Addr:              ":" + cfg.AppPort,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		logrus.Info("Server running on " + cfg.AppPort) // Log server start
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logrus.Fatalf("server error: %v", err)
		}
	}()

	<-ctx.Done()
	logrus.Info("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logrus.Errorf("shutdown: %v", err)
	}
	if redisClient != nil {
		_ = redisClient.Close()
	}
}
