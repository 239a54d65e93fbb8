package lockport

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"

	"gitlab.com/codechallenge.net/internal/core/ports/primary"
	"gitlab.com/codechallenge.net/internal/core/ports/secondary"
)

const (
	lockKeyPrefix       = "lock:"
	DefaultLockTTL      = 10 * time.Second
	DefaultPollInterval = 25 * time.Millisecond
)

// releaseScript deletes the key only while it still holds our token
var releaseScript = redis.NewScript(`
if redis.call("get", KEYS[1]) == ARGV[1] then
	return redis.call("del", KEYS[1])
end
return 0
`)

var _ secondary.Locker = (*Locker)(nil)

// Locker is a single-instance Redis lock (SET NX PX with a random token)
type Locker struct {
	redisClient *redis.Client
	ttl         time.Duration
	poll        time.Duration
	logger      primary.Logger
}

// NewLocker creates a Redis locker. The TTL bounds how long a crashed holder blocks others.
func NewLocker(redisClient *redis.Client, ttl time.Duration, logger primary.Logger) *Locker {
	if ttl <= 0 {
		ttl = DefaultLockTTL
	}
	return &Locker{
		redisClient: redisClient,
		ttl:         ttl,
		poll:        DefaultPollInterval,
		logger:      logger,
	}
}

// Lock polls until the key is acquired or ctx is done
func (l *Locker) Lock(ctx context.Context, key string) (func(), error) {
	lockKey := lockKeyPrefix + key
	token := uuid.NewString()

	ticker := time.NewTicker(l.poll)
	defer ticker.Stop()

	for {
		ok, err := l.redisClient.SetNX(ctx, lockKey, token, l.ttl).Result()
		if err != nil {
			return nil, fmt.Errorf("failed to acquire lock %s: %w", key, err)
		}
		if ok {
			return func() { l.release(lockKey, token) }, nil
		}

		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("failed to acquire lock %s: %w", key, ctx.Err())
		case <-ticker.C:
		}
	}
}

func (l *Locker) release(lockKey, token string) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	if err := releaseScript.Run(ctx, l.redisClient, []string{lockKey}, token).Err(); err != nil && !errors.Is(err, redis.Nil) {
		l.logger.Error("Failed to release lock", "key", lockKey, "error", err)
	}
}
