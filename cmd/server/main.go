package main

import (
	"context"
	"errors"
	"log"
	"math/rand"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"workout-tracker/internal/api"
	"workout-tracker/internal/config"
	mongorepo "workout-tracker/internal/repository/mongo"
	"workout-tracker/internal/seed"
	"workout-tracker/internal/service"
)

// @title Workout Tracker API
// @version 1.0
// @description REST API for logging workout sessions and exercises, with a public community feed.
// @BasePath /api
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	log.Println("Starting Workout Tracker server...")

	// .env is a local-development convenience; absence is fine.
	_ = godotenv.Load()

	cfg, err := config.LoadConfig(".")
	if err != nil {
		log.Fatalf("FATAL: Could not load config: %v", err)
	}
	log.Printf("Configuration loaded (auth mode: %s).", cfg.Auth.Mode)
	if cfg.Auth.Mode == config.AuthModeHeader {
		log.Println("WARN: trusted-header identity is enabled; do not use in production.")
	}

	dbClient, err := mongorepo.ConnectDB(cfg.Database.URI)
	if err != nil {
		log.Fatalf("FATAL: Could not connect to MongoDB: %v", err)
	}
	defer func() {
		log.Println("Disconnecting MongoDB...")
		if err := mongorepo.DisconnectDB(dbClient); err != nil {
			log.Printf("ERROR: Failed to disconnect MongoDB: %v", err)
		}
	}()
	appDB := dbClient.Database(cfg.Database.Name)
	log.Println("Database connection established.")

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 1*time.Minute)
		defer cancel()
		mongorepo.EnsureSessionIndexes(ctx, appDB.Collection("sessions"))
		log.Println("Index creation process completed.")
	}()

	sessionRepo := mongorepo.NewMongoSessionRepository(appDB)
	sessionService := service.NewSessionService(sessionRepo)

	var seedRunner *seed.Runner
	if cfg.Seed.Enabled {
		seedRunner = seed.NewRunner(sessionRepo, seed.NewGenerator(rand.Int63()))
		log.Println("Admin reseed endpoint enabled.")
	}

	router := gin.Default() // Includes Logger and Recovery middleware

	api.SetupRoutes(router, cfg, sessionService, seedRunner, func(ctx context.Context) error {
		return mongorepo.Ping(ctx, dbClient)
	})

	server := &http.Server{
		Addr:         cfg.Server.Address,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	log.Printf("Server starting on %s", cfg.Server.Address)

	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("FATAL: ListenAndServe error: %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shut down the server.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	ctxShutdown, cancelShutdown := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelShutdown()

	if err := server.Shutdown(ctxShutdown); err != nil {
		log.Fatalf("FATAL: Server forced to shutdown: %v", err)
	}

	log.Println("Server exiting.")
}
