package main

import (
	"context"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"maskoff-server/internal/adapters/kafka"
	"maskoff-server/internal/adapters/storage"
	"maskoff-server/internal/api/handlers"
	"maskoff-server/internal/api/routes"
	"maskoff-server/internal/config"
	"maskoff-server/internal/database"
	"maskoff-server/internal/repository"
	"maskoff-server/internal/service"
	"maskoff-server/internal/websocket"
	"maskoff-server/pkg/mailer"
	"maskoff-server/pkg/token"

	"github.com/joho/godotenv"
)

// @title           MaskOFF API
// @version         1.0
// @description     Social and job marketplace backend with live notifications.
// @BasePath        /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	if err := godotenv.Load(); err != nil {
		slog.Info("No .env file found, using environment variables")
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	cfg, err := config.Load()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	db, err := database.NewPostgresConnection(cfg.Database.URI)
	if err != nil {
		slog.Error("Failed to connect to PostgreSQL", "error", err)
		os.Exit(1)
	}
	if err := database.Migrate(db); err != nil {
		slog.Error("Failed to run migrations", "error", err)
		os.Exit(1)
	}

	redisClient, err := database.NewRedisConnection(cfg.Redis)
	if err != nil {
		slog.Error("Failed to connect to Redis", "error", err)
		os.Exit(1)
	}
	defer redisClient.Close()

	avatars, err := storage.NewAvatarStore(
		cfg.Storage.Endpoint,
		cfg.Storage.AccessKey,
		cfg.Storage.SecretKey,
		cfg.Storage.Bucket,
		cfg.Storage.UseSSL,
	)
	if err != nil {
		slog.Error("Failed to connect to MinIO", "error", err)
		os.Exit(1)
	}

	var activity *kafka.ActivityPublisher
	if cfg.Kafka.Enabled {
		activity = kafka.NewActivityPublisher(cfg.Kafka.Brokers, cfg.Kafka.Topic)
		defer activity.Close()
	}

	var mail mailer.Mailer
	if cfg.Mail.Enabled {
		mail = mailer.NewSMTPMailer(mailer.Config{
			Host:         cfg.Mail.Host,
			Port:         cfg.Mail.Port,
			Username:     cfg.Mail.Username,
			Password:     cfg.Mail.Password,
			From:         cfg.Mail.From,
			FromName:     cfg.Mail.FromName,
			SupportEmail: cfg.Mail.SupportEmail,
		})
	} else {
		mail = mailer.NewLogMailer()
	}

	tokens := token.NewEngine(cfg.JWT.Secret, cfg.JWT.ExpirationTime)

	userRepo := repository.NewUserRepository(db)
	friendRepo := repository.NewFriendRepository(db)
	postRepo := repository.NewPostRepository(db)
	jobRepo := repository.NewJobRepository(db)
	chatRepo := repository.NewChatRepository(db)
	introRepo := repository.NewIntroductionRepository(db)

	registry := websocket.NewRegistry()
	dispatcher := websocket.NewDispatcher(registry)
	presence := service.NewPresenceService(redisClient.GetClient())

	cipher := service.NewMessageCipher(cfg.App.AESSecret)
	userSvc := service.NewUserService(userRepo, tokens, mail, avatars, activity, cfg.App.ClientURL)
	friendSvc := service.NewFriendService(friendRepo, userRepo)
	postSvc := service.NewPostService(postRepo, userRepo, activity)
	jobSvc := service.NewJobService(jobRepo, activity)
	chatSvc := service.NewChatService(chatRepo, jobRepo, cipher, activity)
	introSvc := service.NewIntroductionService(introRepo, userRepo, activity)

	router := routes.New(cfg, tokens, redisClient.GetClient(), routes.Handlers{
		Auth:         handlers.NewAuthHandler(userSvc, dispatcher),
		User:         handlers.NewUserHandler(userSvc, presence, dispatcher),
		Friend:       handlers.NewFriendHandler(friendSvc, dispatcher),
		Post:         handlers.NewPostHandler(postSvc, dispatcher),
		Job:          handlers.NewJobHandler(jobSvc, dispatcher),
		Chat:         handlers.NewChatHandler(chatSvc, dispatcher),
		Introduction: handlers.NewIntroductionHandler(introSvc, dispatcher),
		WebSocket:    handlers.NewWebSocketHandler(registry, presence),
	})

	srv := &http.Server{
		Addr:         net.JoinHostPort(cfg.Server.Host, cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	go func() {
		slog.Info("Server starting", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("Server failed", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	slog.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		slog.Error("Forced shutdown", "error", err)
	}
	slog.Info("Server stopped")
}
