package cache

import (
	"context"
	"time"

	"github.com/bsm/redislock"
	"github.com/redis/go-redis/v9"
)

type Config struct {
	Addr     string
	Password string
	DB       int
}

// RedisClient bundles the shared redis connection with a distributed locker
// built on top of it.
type RedisClient struct {
	Client *redis.Client
	Locker *redislock.Client
}

func NewRedisClient(cfg *Config) (*RedisClient, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	if err := client.Ping(context.Background()).Err(); err != nil {
		return nil, err
	}

	return &RedisClient{
		Client: client,
		Locker: redislock.New(client),
	}, nil
}

// ObtainLock acquires a lock on key with a linear retry backoff. Returns
// redislock.ErrNotObtained when the lock is still held after all retries.
func (c *RedisClient) ObtainLock(ctx context.Context, key string, ttl time.Duration) (*redislock.Lock, error) {
	return c.Locker.Obtain(ctx, key, ttl, &redislock.Options{
		RetryStrategy: redislock.LimitRetry(redislock.LinearBackoff(100*time.Millisecond), 3),
	})
}

func (c *RedisClient) Close() error {
	return c.Client.Close()
}
