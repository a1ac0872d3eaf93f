package main

import (
	"context"
	"net/http"

	_ "github.com/go-sql-driver/mysql"
	"github.com/jmoiron/sqlx"
	errandapp "github.com/kakilabs/kaki-backend/application/errand"
	sessionapp "github.com/kakilabs/kaki-backend/application/session"
	userapp "github.com/kakilabs/kaki-backend/application/user"
	voiceapp "github.com/kakilabs/kaki-backend/application/voice"
	"github.com/kakilabs/kaki-backend/cmd/config"
	redisclient "github.com/kakilabs/kaki-backend/cmd/redis"
	_ "github.com/kakilabs/kaki-backend/docs"
	conversationRepo "github.com/kakilabs/kaki-backend/repository/conversation"
	redisRepo "github.com/kakilabs/kaki-backend/repository/redis"
	txRepo "github.com/kakilabs/kaki-backend/repository/tx"
	userRepo "github.com/kakilabs/kaki-backend/repository/user"
	"github.com/kakilabs/kaki-backend/thirdparty/elevenlabs"
	"github.com/kakilabs/kaki-backend/thirdparty/rabbitmq"
	"github.com/kakilabs/kaki-backend/transport"
	"github.com/kakilabs/kaki-backend/utils/logger"
	"go.uber.org/zap"
)

// @title KAKI BACKEND API
// @version 1.0
// @description Kaki companion backend API Documentation
// @host localhost:8080
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	// Load configuration from environment variables
	cfg := config.Load()

	// Initialize global logger
	if err := logger.Init(cfg.Environment); err != nil {
		panic(err)
	}
	defer logger.Close()

	logger.Info("Starting server", zap.String("env", cfg.Environment))

	// Connect to database
	db, err := sqlx.Connect("mysql", cfg.GetDSN())
	if err != nil {
		logger.Fatal("err connect db", zap.Error(err))
	}

	// Initialize Redis client
	if err := redisclient.New(cfg); err != nil {
		logger.Fatal("err connect redis", zap.Error(err))
	}
	defer func() {
		_ = redisclient.Close()
	}()

	// Set database connection pool settings
	db.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	db.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.Database.ConnMaxLifetime)

	// Initialize repositories
	UserRepo := userRepo.NewUserRepository(db)
	RedisRepo := redisRepo.NewRepository()
	TxRepo := txRepo.NewTxRepository(db)
	ConversationRepo := conversationRepo.NewConversationRepository(db)

	// Transcript archive pipeline. The voice path works without it, so
	// a missing broker only degrades archiving.
	var publisher *rabbitmq.Publisher
	publisher, err = rabbitmq.NewPublisher(cfg.RabbitMQ.Host, cfg.RabbitMQ.Port, cfg.RabbitMQ.User, cfg.RabbitMQ.Password)
	if err != nil {
		logger.Warn("err connect rabbitmq publisher, transcript archiving disabled", zap.Error(err))
		publisher = nil
	} else {
		defer publisher.Close()
	}

	consumer, err := rabbitmq.NewConsumer(cfg.RabbitMQ.Host, cfg.RabbitMQ.Port, cfg.RabbitMQ.User, cfg.RabbitMQ.Password, TxRepo, ConversationRepo)
	if err != nil {
		logger.Warn("err connect rabbitmq consumer, transcript archiving disabled", zap.Error(err))
	} else {
		defer consumer.Close()
		go func() {
			if err := consumer.Start(context.Background()); err != nil {
				logger.Error("transcript consumer stopped", zap.Error(err))
			}
		}()
	}

	// Initialize application layers
	UserApp := userapp.NewUserApp(cfg, UserRepo, RedisRepo)
	SessionApp := sessionapp.NewSessionApp(UserRepo, RedisRepo)
	driver := elevenlabs.NewConvAIDriver(cfg.Voice)
	var transcripts voiceapp.TranscriptPublisher
	if publisher != nil {
		transcripts = publisher
	}
	VoiceApp := voiceapp.NewManager(cfg.Voice, driver, transcripts, ConversationRepo)
	ErrandApp := errandapp.NewErrandApp()

	httpTransport := transport.NewTransport(UserApp, SessionApp, VoiceApp, ErrandApp, cfg.Server.InternalAPIKey)

	// Create HTTP server
	server := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      httpTransport,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	logger.Info("HTTP server running", zap.String("port", cfg.Server.Port))
	err = server.ListenAndServe()
	if err != nil {
		logger.Fatal("failed server", zap.Error(err))
	}
}
