package config

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

// NewRedisClient connects to Redis using the loaded configuration. Redis
// backs the booking draft store and the catalog snapshot cache; if the
// connection fails at startup the function returns nil and callers degrade
// to in-memory storage.
func NewRedisClient(cfg RedisConfig, logger *logrus.Logger) *redis.Client {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		logger.WithError(err).WithField("addr", cfg.Addr).
			Warn("Redis unavailable, falling back to in-memory storage")
		client.Close()
		return nil
	}

	logger.WithField("addr", cfg.Addr).Info("Connected to Redis")
	return client
}
