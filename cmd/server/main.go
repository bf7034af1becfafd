// Package main runs the SDC registration HTTP server with chat WebSocket and graceful shutdown.
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/sdc-club/backend/config"
	"github.com/sdc-club/backend/internal/analytics"
	"github.com/sdc-club/backend/internal/auth"
	"github.com/sdc-club/backend/internal/chatbot"
	"github.com/sdc-club/backend/internal/emaillogs"
	"github.com/sdc-club/backend/internal/middleware"
	"github.com/sdc-club/backend/internal/notify"
	"github.com/sdc-club/backend/internal/realtime"
	"github.com/sdc-club/backend/internal/registrations"
	"github.com/sdc-club/backend/internal/timeline"
	"github.com/sdc-club/backend/internal/worker"
	"github.com/sdc-club/backend/pkg/queue"
	"github.com/sdc-club/backend/pkg/redis"
	"github.com/sdc-club/backend/pkg/response"
	"github.com/sdc-club/backend/pkg/storage"
)

func main() {
	logger := newLogger()
	defer logger.Sync()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("load config", zap.Error(err))
	}

	ctx := context.Background()
	store, closeStore, err := registrations.Open(ctx, cfg, logger)
	if err != nil {
		logger.Fatal("registration store", zap.Error(err), zap.String("driver", cfg.Store.Driver))
	}
	defer closeStore()

	workerCtx, workerCancel := context.WithCancel(context.Background())
	defer workerCancel()

	// Background jobs are optional; without Redis the API still serves, minus notifications and exports.
	var jobs registrations.Jobs
	var emailLogs *emaillogs.Repository
	var feedPub realtime.Publisher
	var feedSub realtime.Subscriber
	if cfg.Redis.Addr != "" {
		rdb, err := redis.NewClient(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB, logger)
		if err != nil {
			logger.Fatal("redis", zap.Error(err))
		}
		defer rdb.Close()

		jobQueue := queue.NewQueue(rdb.Client, logger)
		jobs = jobQueue
		pubsub := realtime.NewRedisPubSub(rdb.Client, logger)
		feedPub, feedSub = pubsub, pubsub

		var objects worker.ObjectStore
		if cfg.AWS.Region != "" {
			s3Client, err := storage.NewS3(ctx, s3Config(cfg), logger)
			if err != nil {
				logger.Warn("s3 disabled", zap.Error(err))
			} else {
				objects = s3Client
			}
		}
		emailLogs = emaillogs.NewRepository(rdb.Client)
		processor := worker.NewProcessor(jobQueue, store, objects, notify.NewMailer(cfg.Email, logger), logger)
		processor.SetEmailLog(emailLogs)
		go processor.Run(workerCtx)
		logger.Info("job worker started")
	} else {
		logger.Info("REDIS_ADDR not set; background jobs disabled")
	}

	jwtService := auth.NewJWTService(cfg.JWT.Secret, cfg.JWT.ExpireHours)

	matcher := chatbot.NewDefaultMatcher(nil)
	chatHandler := chatbot.NewHandler(matcher)
	registrationHandler := registrations.NewHandler(store, jobs, logger)

	// Review feed: live registration events for the committee dashboard
	hub := realtime.NewHub(logger, feedPub)
	registrationHandler.SetEvents(hub)
	if feedSub != nil {
		go func() {
			if err := hub.Run(workerCtx, feedSub); err != nil {
				logger.Error("review feed subscription", zap.Error(err))
			}
		}()
	}
	var feedAuth func(token string) error
	if cfg.Admin.Enabled() {
		feedAuth = func(token string) error {
			claims, err := jwtService.Validate(token)
			if err != nil {
				return err
			}
			if claims.Role != auth.RoleAdmin {
				return auth.ErrInvalidToken
			}
			return nil
		}
	}
	typingDelay := time.Duration(cfg.Chat.TypingDelayMS) * time.Millisecond

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.CORS(cfg.Server.CORSAllowedOrigins))
	router.Use(middleware.Logger(logger))

	// Health
	router.GET("/health", func(c *gin.Context) { response.OK(c, gin.H{"status": "ok", "store": cfg.Store.Driver}) })

	api := router.Group("/api")
	{
		api.POST("/registration", registrationHandler.Create)
		api.POST("/chat", chatHandler.Respond)
		api.GET("/timeline", timeline.List)

		if cfg.Admin.Enabled() {
			authHandler := auth.NewHandler(cfg.Admin.PasswordHash, jwtService, logger)
			api.POST("/admin/login", authHandler.Login)
			logger.Info("admin auth enabled")
		}
	}

	// Review committee routes (admin JWT when ADMIN_PASSWORD_HASH is set)
	review := router.Group("/api", middleware.AdminOnly(jwtService, cfg.Admin.Enabled())...)
	{
		review.GET("/registration", registrationHandler.List)
		review.GET("/registration/stats", analytics.NewHandler(store, logger).Summary)
		review.PATCH("/registration/:id", registrationHandler.UpdateStatus)
		review.POST("/registration/export", registrationHandler.Export)
		if emailLogs != nil {
			emailLogsHandler := emaillogs.NewHandler(emailLogs, logger)
			review.GET("/registration/:id/emails", emailLogsHandler.ListByRegistration)
		}
	}

	// WebSockets (admin token in query; no Authorization header required)
	router.GET("/ws/chat", chatbot.ServeWs(matcher, typingDelay, logger))
	router.GET("/ws/admin", realtime.ServeWs(hub, logger, feedAuth))

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
	}

	go func() {
		logger.Info("server listening", zap.String("port", cfg.Server.Port), zap.String("store", cfg.Store.Driver))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	workerCancel()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown", zap.Error(err))
	}
	logger.Info("server stopped")
}

func s3Config(cfg *config.Config) storage.S3Config {
	return storage.S3Config{
		Region:               cfg.AWS.Region,
		AccessKeyID:          cfg.AWS.AccessKeyID,
		SecretAccessKey:      cfg.AWS.SecretAccessKey,
		ExportsBucket:        cfg.AWS.ExportsBucket,
		PresignExpireMinutes: cfg.AWS.PresignExpireMinutes,
	}
}

func newLogger() *zap.Logger {
	config := zap.NewProductionConfig()
	config.EncoderConfig.TimeKey = "timestamp"
	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	logger, _ := config.Build()
	return logger
}
