package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/leolearn/leo-web/internal/api"
	"github.com/leolearn/leo-web/internal/auth"
	"github.com/leolearn/leo-web/internal/config"
	"github.com/leolearn/leo-web/internal/database"
	"github.com/leolearn/leo-web/internal/embedding"
	"github.com/leolearn/leo-web/internal/logger"
	"github.com/leolearn/leo-web/internal/mailer"
	"github.com/leolearn/leo-web/internal/monitoring"
	"github.com/leolearn/leo-web/internal/services"
	"github.com/leolearn/leo-web/internal/store"
	"github.com/leolearn/leo-web/internal/vectorindex"
	"github.com/leolearn/leo-web/internal/views"
	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"
)

func main() {
	// A missing .env is fine; the environment may already be set.
	_ = godotenv.Load()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logger.Init("info")
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}
	logger.Init(cfg.LogLevel)

	if cfg.SecretKeyGenerated {
		log.Warn().Msg("SECRET_KEY is not set; using a random key, sessions will not survive a restart")
	}

	// Set up credential store
	var credentials store.CredentialStore = store.NewMemoryStore()
	var activity store.EventStore = store.NewMemoryEventStore(cfg.ActivityLogSize)
	if cfg.DatabasePath != "" {
		db, err := database.New(cfg.DatabasePath)
		if err != nil {
			log.Fatal().Err(err).Str("path", cfg.DatabasePath).Msg("Failed to initialize database")
		}
		defer db.Close()

		if err := database.Migrate(db); err != nil {
			log.Fatal().Err(err).Msg("Failed to apply database migrations")
		}
		credentials = store.NewSQLiteStore(db)
		activity = store.NewSQLiteEventStore(db)
		log.Info().Str("path", cfg.DatabasePath).Msg("Using SQLite credential and activity store")
	}

	// Set up sessions
	sessions := auth.NewSessionRegistry(cfg.SessionTTL)
	tokens := auth.NewTokenIssuer(cfg.SecretKey)

	// Set up services
	authService := services.NewAuthService(credentials, sessions, tokens, bcrypt.DefaultCost)
	eventService := services.NewEventService(activity)

	retrieverService := services.NewRetrieverService(
		func(context.Context) (embedding.Embedder, error) {
			client, err := embedding.NewHFClient(embedding.Config{
				BaseURL:    cfg.EmbeddingURL,
				Model:      cfg.EmbeddingModel,
				APIToken:   cfg.HFAPIToken,
				Dimensions: cfg.EmbeddingDimension,
				Timeout:    cfg.ExternalTimeout,
			})
			if err != nil {
				return nil, err
			}
			return client, nil
		},
		func(ctx context.Context) (vectorindex.Index, error) {
			index, err := vectorindex.NewPineconeIndex(ctx, cfg.PineconeAPIKey, cfg.PineconeIndex)
			if err != nil {
				return nil, err
			}
			log.Info().Str("index", cfg.PineconeIndex).Msg("Connected to Pinecone index")
			return index, nil
		},
		cfg.EmbeddingDimension,
		cfg.ExternalTimeout,
	)

	smtpMailer := mailer.NewSMTPMailer(mailer.Config{
		Host:     cfg.SMTPHost,
		Port:     cfg.SMTPPort,
		Username: cfg.EmailUser,
		Password: cfg.EmailPassword,
		Timeout:  cfg.ExternalTimeout,
	})
	notificationService := services.NewNotificationService(smtpMailer, cfg.MailFrom, cfg.MailTo)

	renderer, err := views.NewRenderer()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to parse page templates")
	}

	// Set up and run the session sweeper
	sweeper, err := monitoring.NewSessionSweeper(sessions, cfg.SessionSweepSchedule)
	if err != nil {
		log.Fatal().Err(err).Str("schedule", cfg.SessionSweepSchedule).Msg("Invalid session sweep schedule")
	}
	sweeper.Run()

	// Set up router
	router := api.NewRouter(authService, retrieverService, notificationService, eventService, renderer, api.Options{
		CORSOrigins:   cfg.CORSOrigins,
		SecureCookies: cfg.IsProduction(),
	})

	// Set up server
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.ServerPort),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Graceful shutdown
	go func() {
		log.Info().Int("port", cfg.ServerPort).Str("env", cfg.AppEnv).Msg("Server starting")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("ListenAndServe failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	sweeper.Stop(ctx)

	if err := srv.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}

	if err := retrieverService.Close(); err != nil {
		log.Warn().Err(err).Msg("Failed to close vector index connection")
	}

	log.Info().Msg("Server exiting")
}
