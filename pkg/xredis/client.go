package xredis

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/vinopick/backend/pkg/xcontext"
)

// ErrLocked is returned when a key is held by another owner.
var ErrLocked = errors.New("key is locked")

// Locker is a best-effort distributed mutex keyed by string.
type Locker interface {
	// Lock acquires key for ttl and returns a token which must be passed to Unlock.
	Lock(ctx context.Context, key string, ttl time.Duration) (string, error)
	Unlock(ctx context.Context, key, token string) error
}

// The key is deleted only when it still holds the token of the caller, so an expired lock
// taken over by another owner is never released by mistake.
var unlockScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

type client struct {
	redisClient *redis.Client
}

func NewClient(ctx context.Context) (*client, error) {
	redisClient := redis.NewClient(&redis.Options{
		Addr:            xcontext.Configs(ctx).Redis.Addr,
		MaxRetries:      5,
		MinRetryBackoff: 8 * time.Millisecond,
		MaxRetryBackoff: 512 * time.Millisecond,
		DialTimeout:     5 * time.Second,
		ReadTimeout:     5 * time.Second,
		WriteTimeout:    5 * time.Second,
		PoolSize:        5,
	})

	if err := redisClient.Ping(ctx).Err(); err != nil {
		return nil, err
	}

	return &client{redisClient: redisClient}, nil
}

func (c *client) Lock(ctx context.Context, key string, ttl time.Duration) (string, error) {
	token := uuid.NewString()
	ok, err := c.redisClient.SetNX(ctx, key, token, ttl).Result()
	if err != nil {
		return "", err
	}

	if !ok {
		return "", ErrLocked
	}

	return token, nil
}

func (c *client) Unlock(ctx context.Context, key, token string) error {
	return unlockScript.Run(ctx, c.redisClient, []string{key}, token).Err()
}

func (c *client) Close() error {
	return c.redisClient.Close()
}
