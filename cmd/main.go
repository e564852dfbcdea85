package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/mansoorceksport/gymhub/internal/config"
	"github.com/mansoorceksport/gymhub/internal/domain"
	"github.com/mansoorceksport/gymhub/internal/repository"
	"github.com/mansoorceksport/gymhub/internal/server"
	"github.com/mansoorceksport/gymhub/internal/telemetry"
	"github.com/mansoorceksport/gymhub/pkg/logger"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.opentelemetry.io/contrib/instrumentation/go.mongodb.org/mongo-driver/mongo/otelmongo"
)

func main() {
	log := logger.NewFromEnv()

	cfg, err := config.Load()
	if err != nil {
		log.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	log.Info("starting GymHub API", "version", cfg.OTEL.ServiceVersion, "env", cfg.OTEL.Environment)

	ctx := context.Background()

	otelProvider, err := telemetry.Initialize(ctx, telemetry.ConfigFrom(cfg.OTEL))
	if err != nil {
		log.Warn("failed to initialize OpenTelemetry", "error", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := otelProvider.Shutdown(shutdownCtx); err != nil {
			log.Warn("telemetry shutdown", "error", err)
		}
	}()

	// MongoDB, traced when telemetry is on
	ctxMongo, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	mongoOpts := options.Client().ApplyURI(cfg.MongoDB.URI)
	if cfg.OTEL.Enabled {
		mongoOpts.SetMonitor(otelmongo.NewMonitor())
	}

	mongoClient, err := mongo.Connect(ctxMongo, mongoOpts)
	if err != nil {
		log.Error("failed to connect to MongoDB", "error", err)
		os.Exit(1)
	}
	defer func() {
		if err := mongoClient.Disconnect(context.Background()); err != nil {
			log.Warn("error disconnecting from MongoDB", "error", err)
		}
	}()

	if err := mongoClient.Ping(ctxMongo, nil); err != nil {
		log.Error("failed to ping MongoDB", "error", err)
		os.Exit(1)
	}
	log.Info("MongoDB connected", "database", cfg.MongoDB.Database)

	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       0,
	})
	defer redisClient.Close()

	if err := redisClient.Ping(ctx).Err(); err != nil {
		log.Error("failed to connect to Redis", "error", err)
		os.Exit(1)
	}
	log.Info("Redis connected", "addr", cfg.Redis.Addr)

	var images domain.ImageStore
	if cfg.S3.Enabled {
		store, err := repository.NewSeaweedS3Repository(ctx, cfg.S3)
		if err != nil {
			log.Warn("gym image uploads disabled", "error", err)
		} else {
			images = store
			log.Info("object storage ready", "bucket", cfg.S3.Bucket)
		}
	}

	app := server.NewApp(server.AppDependencies{
		Config:      cfg,
		MongoDB:     mongoClient.Database(cfg.MongoDB.Database),
		RedisClient: redisClient,
		ImageStore:  images,
		Logger:      log,
	})

	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan
		log.Info("shutting down gracefully")
		if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
			log.Warn("shutdown", "error", err)
		}
	}()

	log.Info("server starting", "port", cfg.Server.Port)
	if err := app.Listen(":" + cfg.Server.Port); err != nil {
		log.Error("failed to start server", "error", err)
	}
}
