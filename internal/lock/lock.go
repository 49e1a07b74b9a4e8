package lock

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
)

var ErrLockHeld = errors.New("lock is held by another request")

// Release frees a lock obtained from Acquire.
type Release func(ctx context.Context) error

type Locker interface {
	Acquire(ctx context.Context, key string) (Release, error)
}

const keyPrefix = "cart_lock:"

// Redis is a SETNX based lock. Each acquisition stores a random token so a
// request only ever deletes the lock it owns.
type Redis struct {
	Client *redis.Client
	TTL    time.Duration
	Wait   time.Duration
	Retry  time.Duration
}

func NewRedis(client *redis.Client) *Redis {
	return &Redis{
		Client: client,
		TTL:    10 * time.Second,
		Wait:   2 * time.Second,
		Retry:  50 * time.Millisecond,
	}
}

func (r *Redis) Acquire(ctx context.Context, key string) (Release, error) {
	fullKey := keyPrefix + key
	token := uuid.New().String()
	deadline := time.Now().Add(r.Wait)

	for {
		ok, err := r.Client.SetNX(ctx, fullKey, token, r.TTL).Result()
		if err != nil {
			return nil, fmt.Errorf("acquire lock %s: %w", key, err)
		}
		if ok {
			break
		}
		if time.Now().After(deadline) {
			return nil, ErrLockHeld
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(r.Retry):
		}
	}

	return func(ctx context.Context) error {
		val, err := r.Client.Get(ctx, fullKey).Result()
		if err == redis.Nil {
			return nil // expired
		}
		if err != nil {
			return err
		}
		if val != token {
			return nil // taken over after expiry, not ours to delete
		}
		return r.Client.Del(ctx, fullKey).Err()
	}, nil
}

// Noop is used when no redis is configured.
type Noop struct{}

func (Noop) Acquire(ctx context.Context, key string) (Release, error) {
	return func(context.Context) error { return nil }, nil
}
