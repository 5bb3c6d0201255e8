package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const keyPrefix = "session:"

// Config holds redis connection settings.
type Config struct {
	Addr     string
	Password string
	DB       int
}

// Redis implements Store over a redis client.
type Redis struct {
	client *redis.Client
}

// NewRedis connects to redis and verifies the connection. A failure here is
// fatal at startup by design: the service cannot admit anyone without its
// session store.
func NewRedis(cfg Config) (*Redis, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("ping redis: %w", err)
	}

	return &Redis{client: client}, nil
}

// Put stores id -> username for ttl.
func (r *Redis) Put(ctx context.Context, id, username string, ttl time.Duration) error {
	if err := r.client.Set(ctx, keyPrefix+id, username, ttl).Err(); err != nil {
		return fmt.Errorf("set session: %w", err)
	}
	return nil
}

// Resolve returns the display name for id, or ErrNotFound.
func (r *Redis) Resolve(ctx context.Context, id string) (string, error) {
	username, err := r.client.Get(ctx, keyPrefix+id).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", ErrNotFound
		}
		return "", fmt.Errorf("get session: %w", err)
	}
	return username, nil
}

// Delete revokes a session.
func (r *Redis) Delete(ctx context.Context, id string) error {
	if err := r.client.Del(ctx, keyPrefix+id).Err(); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

// Close releases the redis connection.
func (r *Redis) Close() error {
	return r.client.Close()
}
