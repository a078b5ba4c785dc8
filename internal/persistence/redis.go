package persistence

import (
	"context"
	"errors"
	"time"

	redisstorage "github.com/gofiber/storage/redis/v3"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/spec-kit/process-desk/internal/config"
)

// Redis holds the session storage backed by Redis.
type Redis struct {
	Storage *redisstorage.Storage
}

// NewRedis connects to Redis and reports whether it answered a ping. The
// storage constructor panics on an unreachable server, so reachability is
// checked with a short-lived client first.
func NewRedis(cfg config.RedisConfig, logger *zap.Logger) (*Redis, bool) {
	probe := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	defer probe.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	if err := probe.Ping(ctx).Err(); err != nil {
		logger.Warn("unable to reach redis", zap.String("addr", cfg.Addr), zap.Error(err))
		return nil, false
	}

	storage := redisstorage.New(redisstorage.Config{
		Addrs:    []string{cfg.Addr},
		Password: cfg.Password,
		Database: cfg.DB,
	})
	logger.Info("connected to redis", zap.String("addr", cfg.Addr))
	return &Redis{Storage: storage}, true
}

// Close closes the storage connection.
func (r *Redis) Close() {
	if r != nil && r.Storage != nil {
		_ = r.Storage.Close()
	}
}

// Ping verifies Redis connectivity.
func (r *Redis) Ping(ctx context.Context) error {
	if r == nil || r.Storage == nil {
		return errors.New("redis client not configured")
	}
	return r.Storage.Conn().Ping(ctx).Err()
}
