package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/sindoca/api/internal/config"
	"github.com/sindoca/api/internal/infrastructure/dynamo"
	jwtinfra "github.com/sindoca/api/internal/infrastructure/jwt"
	s3infra "github.com/sindoca/api/internal/infrastructure/s3"
	"github.com/sindoca/api/internal/infrastructure/smtp"
	"github.com/sindoca/api/internal/infrastructure/sns"
	"github.com/sindoca/api/internal/infrastructure/spotify"
	"github.com/sindoca/api/internal/infrastructure/webpush"
	transporthttp "github.com/sindoca/api/internal/transport/http"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, reading from environment")
	}

	cfg := config.Load()

	// Bootstrap DynamoDB tables (creates them if they don't exist).
	dynamoClient := dynamo.NewClient(cfg)
	dynamo.Bootstrap(context.Background(), dynamoClient, cfg.DynamoTables)

	// JWT provider (optional — graceful fallback if keys are missing).
	var jwtProvider *jwtinfra.Provider
	if p, err := jwtinfra.NewProvider(cfg); err == nil {
		jwtProvider = p
	} else {
		log.Printf("WARN: JWT provider not available: %v", err)
	}

	// S3 store.
	s3Client := s3infra.NewClient(cfg)
	s3Store := s3infra.NewStore(s3Client, cfg.S3BucketName)

	// SMTP mailer.
	mailer := smtp.NewMailer(cfg)

	// Web-push sender (optional — the API still runs without VAPID keys,
	// it just cannot deliver pushes).
	var pushSender webpush.Sender
	if sender, err := webpush.NewSender(cfg); err == nil {
		pushSender = sender
	} else {
		log.Printf("WARN: web-push sender not available: %v", err)
	}

	// SNS SMS sender (optional — graceful fallback).
	var smsSender sns.SMSSender
	if sender, err := sns.NewSender(cfg); err == nil {
		smsSender = sender
	} else {
		log.Printf("WARN: SNS sender not available: %v", err)
	}

	// Spotify client (optional — graceful fallback).
	var spotifyClient spotify.Client
	if client, err := spotify.NewClient(cfg); err == nil {
		spotifyClient = client
	} else {
		log.Printf("WARN: spotify client not available: %v", err)
	}

	deps := &transporthttp.Deps{
		UserRepo:         dynamo.NewUserRepo(dynamoClient, cfg.DynamoTables.Users),
		SessionRepo:      dynamo.NewSessionRepo(dynamoClient, cfg.DynamoTables.Sessions),
		WorkspaceRepo:    dynamo.NewWorkspaceRepo(dynamoClient, cfg.DynamoTables.Workspaces),
		PhotoRepo:        dynamo.NewPhotoRepo(dynamoClient, cfg.DynamoTables.Photos),
		MessageRepo:      dynamo.NewMessageRepo(dynamoClient, cfg.DynamoTables.Messages),
		ReactionRepo:     dynamo.NewReactionRepo(dynamoClient, cfg.DynamoTables.Reactions),
		ReasonRepo:       dynamo.NewReasonRepo(dynamoClient, cfg.DynamoTables.Reasons),
		NotificationRepo: dynamo.NewNotificationRepo(dynamoClient, cfg.DynamoTables.Notifications),
		SubscriptionRepo: dynamo.NewSubscriptionRepo(dynamoClient, cfg.DynamoTables.Subscriptions),
		PreferenceRepo:   dynamo.NewPreferenceRepo(dynamoClient, cfg.DynamoTables.Preferences),
		MusicTokenRepo:   dynamo.NewMusicTokenRepo(dynamoClient, cfg.DynamoTables.MusicTokens),
		S3Store:          s3Store,
		PushSender:       pushSender,
		Mailer:           mailer,
		SMSSender:        smsSender,
		SpotifyClient:    spotifyClient,
		JWTProvider:      jwtProvider,
	}

	router := transporthttp.NewRouter(cfg, deps)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.AppPort),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("Server starting on :%s (env=%s)", cfg.AppPort, cfg.AppEnv)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("forced shutdown: %v", err)
	}
	log.Println("Server stopped")
}
