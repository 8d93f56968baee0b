package main

import (
	"context"
	"log"
	"net"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/crypto/bcrypt"

	"notesapp/internal/auth"
	"notesapp/internal/config"
	"notesapp/internal/db"
	"notesapp/internal/logging"
	"notesapp/internal/notes"
	"notesapp/internal/server"
	"notesapp/internal/users"
)

func main() {
	// Config
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	// Logger
	logger := logging.Setup(cfg.LogLevel)

	// Context for startup
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// Connect to MongoDB
	logger.Info("connecting to MongoDB", "database", cfg.MongoDB)
	database, err := db.Connect(ctx, cfg.MongoURI, cfg.MongoDB)
	if err != nil {
		log.Fatalf("failed to connect to MongoDB: %v", err)
	}
	logger.Info("connected to MongoDB")

	// Wire dependencies
	userRepo := users.NewRepo(database)
	if err := userRepo.EnsureIndexes(ctx); err != nil {
		// Email uniqueness depends on this index.
		log.Fatalf("failed to ensure user indexes: %v", err)
	}
	noteRepo := notes.NewRepo(database)
	if err := noteRepo.EnsureIndexes(ctx); err != nil {
		logger.Warn("failed to ensure note indexes", "error", err)
	}

	tokens, err := auth.NewTokenService(cfg.TokenSecret, cfg.TokenIssuer, cfg.TokenTTL)
	if err != nil {
		log.Fatalf("failed to create token service: %v", err)
	}

	app, err := server.New(server.Deps{
		Users:      userRepo,
		Notes:      noteRepo,
		Tokens:     tokens,
		HashCost:   bcrypt.DefaultCost,
		CORSOrigin: cfg.CORSOrigin,
		Ping: func(ctx context.Context) error {
			return db.Ping(ctx, database)
		},
		Logger: logger,
	})
	if err != nil {
		log.Fatalf("failed to create server: %v", err)
	}

	// Start server
	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      app.Router(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	ln, err := net.Listen("tcp", srv.Addr)
	if err != nil {
		log.Fatalf("failed to listen: %v", err)
	}

	// Graceful shutdown
	sigCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logger.Info("server starting", "port", cfg.Port)
	logger.Info("endpoints available",
		"api", "http://localhost:"+cfg.Port,
		"mcp", "http://localhost:"+cfg.Port+"/mcp",
	)

	// Run returns once in-flight requests have drained.
	if err := server.Run(sigCtx, srv, ln, 10*time.Second, logger); err != nil {
		logger.Error("server shutdown error", "error", err)
	}

	disconnectCtx, disconnectCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer disconnectCancel()
	if err := database.Client().Disconnect(disconnectCtx); err != nil {
		logger.Error("failed to disconnect from MongoDB", "error", err)
	}

	logger.Info("server stopped")
}
