// Package cache provides redis-backed caching for the API. It supports both
// an embedded redis (miniredis) for standalone deployments and tests, and an
// external redis server.
package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/akraev/simple-api/logger"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

var (
	client     *redis.Client
	miniRedis  *miniredis.Miniredis
	isEmbedded = true
)

// InitRedis initializes the redis client. If redisAddr is empty, an embedded
// redis is started in-process; otherwise it connects to the external server.
func InitRedis(redisAddr string) error {
	if redisAddr == "" {
		mr, err := miniredis.Run()
		if err != nil {
			return fmt.Errorf("failed to start embedded redis: %w", err)
		}
		miniRedis = mr
		client = redis.NewClient(&redis.Options{
			Addr: mr.Addr(),
		})
		isEmbedded = true
		logger.Info("Embedded redis started on", mr.Addr())
	} else {
		client = redis.NewClient(&redis.Options{
			Addr: redisAddr,
			DB:   0,
		})
		isEmbedded = false

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if _, err := client.Ping(ctx).Result(); err != nil {
			return fmt.Errorf("failed to connect to redis at %s: %w", redisAddr, err)
		}
		logger.Info("Connected to external redis at", redisAddr)
	}

	return nil
}

// GetClient returns the redis client instance.
func GetClient() *redis.Client {
	return client
}

// IsEmbedded returns true if the embedded redis is in use.
func IsEmbedded() bool {
	return isEmbedded
}

// Close closes the redis connection and stops the embedded redis if running.
func Close() error {
	if client != nil {
		if err := client.Close(); err != nil {
			return err
		}
		client = nil
	}
	if miniRedis != nil {
		miniRedis.Close()
		miniRedis = nil
	}
	return nil
}
