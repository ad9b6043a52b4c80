package database

import (
	"context"
	"fmt"
	"time"

	"github.com/foodbridge-api/internal/config"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// RedisClient wraps the go-redis client used for session persistence
type RedisClient struct {
	client *redis.Client
	log    zerolog.Logger
}

// NewRedis connects to Redis and verifies the connection
func NewRedis(cfg *config.RedisConfig, log zerolog.Logger) (*RedisClient, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr(),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	c := WrapRedis(client, log)
	c.log.Info().Str("addr", cfg.Addr()).Int("db", cfg.DB).Msg("Redis connection established")

	return c, nil
}

// WrapRedis adapts an already constructed client without pinging it
func WrapRedis(client *redis.Client, log zerolog.Logger) *RedisClient {
	return &RedisClient{
		client: client,
		log:    log.With().Str("component", "redis").Logger(),
	}
}

// Client returns the underlying Redis client
func (c *RedisClient) Client() *redis.Client {
	return c.client
}

// HealthCheck verifies the Redis connection is healthy
func (c *RedisClient) HealthCheck(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

// Close closes the Redis connection
func (c *RedisClient) Close() error {
	return c.client.Close()
}
