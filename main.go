package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/sethvargo/go-password/password"
	"gopkg.in/natefinch/lumberjack.v2"

	"kinolab/api"
	"kinolab/config"
	"kinolab/handlers"
	"kinolab/internal/database"
	"kinolab/services/accounts"
	"kinolab/services/favorites"
	"kinolab/services/metadata"
	"kinolab/services/player"
	"kinolab/services/reactions"
	"kinolab/services/sessions"
	"kinolab/services/torrents"
)

func main() {
	portOverride := flag.Int("port", 0, "override server port from config")
	flag.Parse()

	configPath := os.Getenv("KINOLAB_CONFIG")
	if configPath == "" {
		configPath = filepath.Join("cache", "settings.json")
	}

	// Init config manager and load settings (creates defaults if missing)
	cfgManager := config.NewManager(configPath)
	settings, err := cfgManager.Load()
	if err != nil {
		log.Fatalf("failed to load settings: %v", err)
	}

	// Set up file logging with rotation
	if settings.Log.File != "" {
		logDir := filepath.Dir(settings.Log.File)
		if err := os.MkdirAll(logDir, 0o755); err != nil {
			log.Printf("Warning: could not create log directory %s: %v", logDir, err)
		} else {
			fileWriter := &lumberjack.Logger{
				Filename:   settings.Log.File,
				MaxSize:    settings.Log.MaxSize,
				MaxBackups: settings.Log.MaxBackups,
				MaxAge:     settings.Log.MaxAge,
				Compress:   settings.Log.Compress,
			}
			log.SetOutput(io.MultiWriter(os.Stdout, fileWriter))
			log.SetFlags(log.LstdFlags | log.Lshortfile)
			log.Printf("Logging to file: %s", settings.Log.File)
		}
	}

	if *portOverride > 0 {
		settings.Server.Port = *portOverride
	}

	// Generate and persist a JWT secret on first run
	if settings.Auth.JWTSecret == "" {
		secret, err := password.Generate(48, 10, 0, false, true)
		if err != nil {
			log.Fatalf("failed to generate jwt secret: %v", err)
		}
		settings.Auth.JWTSecret = secret
		if err := cfgManager.Save(settings); err != nil {
			log.Fatalf("failed to persist generated jwt secret: %v", err)
		}
		log.Println("Generated new JWT secret")
	}

	// Connect to MongoDB
	connectCtx, connectCancel := context.WithTimeout(context.Background(), 20*time.Second)
	db, err := database.Connect(connectCtx, settings.Database.URI, settings.Database.Name)
	connectCancel()
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}
	defer db.Close(context.Background())

	// Services
	sessionsSvc, err := sessions.NewService(settings.Auth.JWTSecret, time.Duration(settings.Auth.TokenTTLHours)*time.Hour)
	if err != nil {
		log.Fatalf("failed to init sessions: %v", err)
	}
	accountsSvc := accounts.NewService(db, accounts.LogMailer{}, time.Duration(settings.Auth.VerificationTTLMinutes)*time.Minute)
	metadataSvc := metadata.NewService(settings.Metadata, nil)
	favoritesSvc := favorites.NewService(db)
	reactionsSvc := reactions.NewService(db)
	torrentsSvc := torrents.NewService(settings.Torrents, nil)
	resolver := player.Resolver{Base: settings.Player.Base}

	// Router and handlers
	r := mux.NewRouter()
	api.Register(
		r,
		handlers.NewAuthHandler(accountsSvc, sessionsSvc),
		handlers.NewMetadataHandler(metadataSvc),
		handlers.NewPlayerHandler(resolver),
		handlers.NewFavoritesHandler(favoritesSvc),
		handlers.NewReactionsHandler(reactionsSvc),
		handlers.NewTorrentsHandler(torrentsSvc),
		handlers.NewImageHandler(nil),
		sessionsSvc,
	)

	addr := fmt.Sprintf("%s:%d", settings.Server.Host, settings.Server.Port)
	log.Printf("Server starting on %s", addr)

	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	shutdownChan := make(chan os.Signal, 1)
	signal.Notify(shutdownChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server error: %v", err)
		}
	}()

	<-shutdownChan
	log.Println("Shutdown signal received, cleaning up...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("Server shutdown error: %v", err)
	}

	log.Println("Shutdown complete")
}
