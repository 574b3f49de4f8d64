package prefs

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisStore keeps preference blobs in Redis. A zero TTL makes the tier
// durable; a positive TTL gives session-scoped semantics.
type RedisStore struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

func NewRedisStore(client *redis.Client, prefix string, ttl time.Duration) *RedisStore {
	return &RedisStore{client: client, prefix: prefix, ttl: ttl}
}

func (r *RedisStore) Get(ctx context.Context, customerID, key string, out any) error {
	data, err := r.client.Get(ctx, r.key(customerID, key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("redis get failed: %w", err)
	}

	if err2 := json.Unmarshal(data, out); err2 != nil {
		return fmt.Errorf("unmarshal %s failed: %w", key, err2)
	}
	return nil
}

func (r *RedisStore) Set(ctx context.Context, customerID, key string, value any) {
	data, err := json.Marshal(value)
	if err != nil {
		log.Printf("prefs: marshal %s failed: %v", key, err)
		return
	}

	if err := r.client.Set(ctx, r.key(customerID, key), data, r.ttl).Err(); err != nil {
		log.Printf("prefs: redis set %s failed: %v", key, err)
	}
}

func (r *RedisStore) Delete(ctx context.Context, customerID, key string) {
	if err := r.client.Del(ctx, r.key(customerID, key)).Err(); err != nil {
		log.Printf("prefs: redis delete %s failed: %v", key, err)
	}
}

func (r *RedisStore) key(customerID, key string) string {
	return fmt.Sprintf("%s:%s:%s", r.prefix, customerID, key)
}
