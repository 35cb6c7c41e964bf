package config

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"time"

	"github.com/bsm/redislock"
	"github.com/redis/go-redis/v9"
)

const redisMaxAttempts = 5

// ErrLockNotObtained is returned when a per-key lock stays held past the TTL budget.
var ErrLockNotObtained = errors.New("lock not obtained")

// ConnectRedisWithRetry pings addr with backoff. Unlike the database, Redis
// is optional: after redisMaxAttempts the caller runs without it.
// Call this from main() AFTER the HTTP server is listening.
func ConnectRedisWithRetry(ctx context.Context, addr string) (*redis.Client, error) {
	if addr == "" {
		return nil, errors.New("REDIS_ADDRESS not set")
	}

	var attempt int
	for {
		attempt++
		rdb := redis.NewClient(&redis.Options{
			Addr:     addr,
			DB:       0, // use default DB
			PoolSize: 100,
		})
		err := rdb.Ping(ctx).Err()
		if err == nil {
			log.Printf("connected to redis (attempt=%d addr=%s)", attempt, addr)
			return rdb, nil
		}
		_ = rdb.Close()
		if attempt >= redisMaxAttempts {
			return nil, err
		}

		sleep := retryDelay(attempt)
		log.Printf("failed to connect redis (attempt=%d addr=%s): %v; retrying in %s", attempt, addr, err, sleep)
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(sleep):
		}
	}
}

// RedisCache stores JSON encoded objects.
type RedisCache struct {
	client *redis.Client
}

func NewRedisCache(client *redis.Client) *RedisCache {
	return &RedisCache{client: client}
}

// GetObject decodes key into dest; a miss returns false with no error.
func (c *RedisCache) GetObject(ctx context.Context, key string, dest any) (bool, error) {
	val, err := c.client.Get(ctx, key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return false, nil
		}
		return false, err
	}
	if err := json.Unmarshal([]byte(val), dest); err != nil {
		return false, err
	}
	return true, nil
}

func (c *RedisCache) SetObject(ctx context.Context, key string, obj any, exp time.Duration) error {
	objInByte, err := json.Marshal(obj)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, key, objInByte, exp).Err()
}

func (c *RedisCache) RemoveKey(ctx context.Context, keys ...string) error {
	_, err := c.client.Del(ctx, keys...).Result()
	return err
}

// RedisLocker hands out per-key redislock locks, retrying until ttl elapses.
type RedisLocker struct {
	client *redislock.Client
	retry  time.Duration
}

func NewRedisLocker(client *redis.Client) *RedisLocker {
	return &RedisLocker{client: redislock.New(client), retry: 100 * time.Millisecond}
}

// Obtain blocks until key is locked or the retry budget (ttl) runs out.
// The returned func releases the lock.
func (l *RedisLocker) Obtain(ctx context.Context, key string, ttl time.Duration) (func(context.Context) error, error) {
	retries := int(ttl / l.retry)
	if retries < 1 {
		retries = 1
	}
	lock, err := l.client.Obtain(ctx, key, ttl, &redislock.Options{
		RetryStrategy: redislock.LimitRetry(redislock.LinearBackoff(l.retry), retries),
	})
	if errors.Is(err, redislock.ErrNotObtained) {
		return nil, ErrLockNotObtained
	}
	if err != nil {
		return nil, err
	}
	return lock.Release, nil
}
