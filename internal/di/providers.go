// Package di assembles the chat service from configuration.
package di

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"gochat/internal/chat/delivery"
	"gochat/internal/chat/handler"
	"gochat/internal/chat/repository"
	"gochat/internal/chat/service"
	"gochat/internal/common"
	"gochat/internal/config"
	"gochat/internal/dbmongo"
	"gochat/internal/dbmysql"
	"gochat/internal/logger"
	"gochat/internal/media"
	"gochat/internal/metrics"
	"gochat/internal/user"
)

const messagesCollection = "messages"

// ChatApp is everything cmd/chat-svc needs to serve.
type ChatApp struct {
	Config     *config.Config
	Log        *zap.Logger
	DB         *gorm.DB
	Metrics    *metrics.Metrics
	Tokens     *common.TokenManager
	Limiter    *common.RateLimiter
	Users      *user.Handler
	Chat       *handler.ChatHandler
	Delivery   *delivery.Handler
	Dispatcher *delivery.Dispatcher
	Relay      *delivery.RedisRelay
	// Media is nil unless images live in GridFS.
	Media *media.HTTPServer
}

func ProvideConfig() (*config.Config, error) {
	return config.LoadConfig()
}

func ProvideLogger(cfg *config.Config) (*zap.Logger, func(), error) {
	log, err := logger.New(cfg.Logging)
	if err != nil {
		return nil, nil, err
	}
	return log, func() { _ = log.Sync() }, nil
}

func ProvideMetrics() *metrics.Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return metrics.New(reg)
}

func ProvideDatabaseConnection(cfg *config.Config, log *zap.Logger) (*gorm.DB, func(), error) {
	db, err := dbmysql.NewMySQL(cfg, log)
	if err != nil {
		return nil, nil, err
	}
	cleanup := func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	}
	return db, cleanup, nil
}

// ProvideMongo connects only when messages or images live in MongoDB.
func ProvideMongo(cfg *config.Config, log *zap.Logger) (*dbmongo.MongoClient, func(), error) {
	if cfg.Storage.Messages != "mongo" && cfg.Media.Backend != "gridfs" {
		return nil, func() {}, nil
	}
	client, err := dbmongo.NewMongoConnection(cfg, log)
	if err != nil {
		return nil, nil, err
	}
	cleanup := func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = client.Close(ctx)
	}
	return client, cleanup, nil
}

func ProvideMessageRepository(cfg *config.Config, mongo *dbmongo.MongoClient, log *zap.Logger) (repository.MessageRepository, error) {
	if cfg.Storage.Messages == "memory" {
		log.Warn("messages are kept in memory and lost on restart")
		return repository.NewMemoryRepository(), nil
	}
	coll := mongo.Database.Collection(messagesCollection)
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := repository.EnsureIndexes(ctx, coll); err != nil {
		return nil, fmt.Errorf("message indexes: %w", err)
	}
	return repository.NewMongoRepository(coll, time.Duration(cfg.MongoDB.Timeout)*time.Second), nil
}

func ProvideMediaStorage(cfg *config.Config, mongo *dbmongo.MongoClient) *dbmongo.MediaStorage {
	if cfg.Media.Backend != "gridfs" {
		return nil
	}
	return dbmongo.NewMediaStorage(mongo, cfg.Server.MediaBaseURL)
}

func ProvideImageHost(cfg *config.Config, gridfs *dbmongo.MediaStorage) (common.ImageHost, error) {
	if cfg.Media.Backend == "s3" {
		return media.NewS3ImageHost(context.Background(), cfg.Media)
	}
	return gridfs, nil
}

func ProvideMediaServer(storage *dbmongo.MediaStorage, log *zap.Logger) *media.HTTPServer {
	if storage == nil {
		return nil
	}
	return media.NewHTTPServer(storage, log)
}

func ProvideRedis(cfg *config.Config, log *zap.Logger) (*redis.Client, func(), error) {
	if cfg.Redis.Addr == "" {
		log.Info("redis not configured, presence and relay are local only")
		return nil, func() {}, nil
	}
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		rdb.Close()
		return nil, nil, fmt.Errorf("redis ping: %w", err)
	}
	return rdb, func() { _ = rdb.Close() }, nil
}

// ProvideInstanceID names this process on the relay channel.
func ProvideInstanceID() string {
	host, _ := os.Hostname()
	return fmt.Sprintf("%s-%d", host, os.Getpid())
}

func ProvidePresence(cfg *config.Config, rdb *redis.Client, instanceID string) *delivery.RedisPresence {
	if rdb == nil {
		return nil
	}
	return delivery.NewRedisPresence(rdb, instanceID, cfg.Delivery.PresenceExpiry())
}

func ProvideRelay(cfg *config.Config, rdb *redis.Client, instanceID string, presence *delivery.RedisPresence, log *zap.Logger) *delivery.RedisRelay {
	if rdb == nil {
		return nil
	}
	return delivery.NewRedisRelay(rdb, cfg.Delivery.RelayChannel, instanceID, presence, log)
}

// ProvideObserverHub starts the observer workers and, with brokers configured,
// the kafka event publisher.
func ProvideObserverHub(cfg *config.Config, log *zap.Logger) (*delivery.ObserverHub, func()) {
	hub := delivery.NewObserverHub(cfg.Delivery.ObserverPool, 0, log)
	var publisher *delivery.EventPublisher
	if len(cfg.Kafka.Brokers) > 0 {
		publisher = delivery.NewEventPublisher(delivery.NewKafkaWriter(cfg.Kafka.Brokers, cfg.Kafka.Topic))
		hub.Subscribe(publisher)
	}
	return hub, func() {
		hub.Shutdown()
		if publisher != nil {
			_ = publisher.Close()
		}
	}
}

func ProvideDispatcher(registry *delivery.Registry, relay *delivery.RedisRelay, hub *delivery.ObserverHub, m *metrics.Metrics, log *zap.Logger) *delivery.Dispatcher {
	opts := []delivery.Option{delivery.WithObservers(hub), delivery.WithMetrics(m)}
	if relay != nil {
		opts = append(opts, delivery.WithRelay(relay))
	}
	return delivery.NewDispatcher(registry, log, opts...)
}

func ProvideDeliveryHandler(cfg *config.Config, d *delivery.Dispatcher, presence *delivery.RedisPresence, m *metrics.Metrics, log *zap.Logger) *delivery.Handler {
	var p delivery.Presence
	if presence != nil {
		p = presence
	}
	return delivery.NewHandler(d, p, m, cfg.Delivery, log)
}

func ProvideNotifier(d *delivery.Dispatcher) service.Notifier { return d }

func ProvideOnlineLister(h *delivery.Handler) handler.OnlineLister { return h }

func ProvideUserDirectory(r user.UserRepository) common.UserDirectory { return r }

func ProvideMediaConfig(cfg *config.Config) config.MediaConfig { return cfg.Media }

func ProvideTokenManager(cfg *config.Config) *common.TokenManager {
	return common.NewTokenManager(cfg.Auth.JWTSecret, cfg.TokenTTL())
}

func ProvideRateLimiter(cfg *config.Config) *common.RateLimiter {
	return common.NewRateLimiter(cfg.RateLimit.SendsPerMinute, cfg.RateLimit.Burst)
}
