// adapters/redis/redis.go
package redis

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/mahabubulhasibshawon/drone-dispatch.git/internal/ports"
)

// DefaultNamespace prefixes every key so several deployments can share one
// Redis database.
const DefaultNamespace = "dronedispatch:"

const deleteBatch = 100

// Cache backs the inventory listing cache and the token blacklist.
type Cache struct {
	client    *redis.Client
	ttl       time.Duration
	namespace string
}

var _ ports.CachePort = (*Cache)(nil)

func NewCache(addr, username, password string, db int, ttl time.Duration) *Cache {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Username: username,
		Password: password,
		DB:       db,
	})
	return &Cache{client: client, ttl: ttl, namespace: DefaultNamespace}
}

// WithNamespace replaces DefaultNamespace.
func (c *Cache) WithNamespace(ns string) *Cache {
	c.namespace = ns
	return c
}

func (c *Cache) key(k string) string {
	return c.namespace + k
}

func (c *Cache) Get(ctx context.Context, key string) ([]byte, error) {
	data, err := c.client.Get(ctx, c.key(key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ports.ErrCacheMiss
	}
	return data, err
}

func (c *Cache) Set(ctx context.Context, key string, value interface{}) error {
	return c.SetWithTTL(ctx, key, value, c.ttl)
}

func (c *Cache) SetWithTTL(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, c.key(key), data, ttl).Err()
}

// Exists backs the logout blacklist lookup on every authenticated call.
func (c *Cache) Exists(ctx context.Context, key string) (bool, error) {
	n, err := c.client.Exists(ctx, c.key(key)).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// DeleteByPrefix drops every key under prefix, deleting in batches.
func (c *Cache) DeleteByPrefix(ctx context.Context, prefix string) error {
	iter := c.client.Scan(ctx, 0, c.key(prefix)+"*", deleteBatch).Iterator()
	keys := make([]string, 0, deleteBatch)
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
		if len(keys) == deleteBatch {
			if err := c.client.Del(ctx, keys...).Err(); err != nil {
				return err
			}
			keys = keys[:0]
		}
	}
	if err := iter.Err(); err != nil {
		return err
	}
	if len(keys) > 0 {
		return c.client.Del(ctx, keys...).Err()
	}
	return nil
}

func (c *Cache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

func (c *Cache) Close() error {
	return c.client.Close()
}
