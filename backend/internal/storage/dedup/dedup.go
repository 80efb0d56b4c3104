// Package dedup remembers webhook event ids so redelivered events are handled once.
package dedup

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisStore marks event ids with SET NX and lets them expire after ttl.
type RedisStore struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

func NewRedisStore(redisURL string, ttl time.Duration) (*RedisStore, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("connect to redis: %w", err)
	}
	return NewRedisStoreWithClient(client, ttl), nil
}

func NewRedisStoreWithClient(client *redis.Client, ttl time.Duration) *RedisStore {
	return &RedisStore{client: client, prefix: "webhook:event:", ttl: ttl}
}

func (s *RedisStore) key(eventID string) string {
	return s.prefix + eventID
}

// FirstSeen records eventID and reports whether this is its first delivery.
// An empty id is always treated as new.
func (s *RedisStore) FirstSeen(ctx context.Context, eventID string) (bool, error) {
	if eventID == "" {
		return true, nil
	}
	ok, err := s.client.SetNX(ctx, s.key(eventID), time.Now().Unix(), s.ttl).Result()
	if err != nil {
		return false, fmt.Errorf("mark webhook event: %w", err)
	}
	return ok, nil
}

// Forget drops the mark on eventID so a later delivery is handled again.
func (s *RedisStore) Forget(ctx context.Context, eventID string) error {
	if eventID == "" {
		return nil
	}
	if err := s.client.Del(ctx, s.key(eventID)).Err(); err != nil {
		return fmt.Errorf("forget webhook event: %w", err)
	}
	return nil
}

func (s *RedisStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

func (s *RedisStore) Close() error {
	return s.client.Close()
}

// Noop treats every event as new. Used when no redis url is configured.
type Noop struct{}

func (Noop) FirstSeen(context.Context, string) (bool, error) { return true, nil }

func (Noop) Forget(context.Context, string) error { return nil }
