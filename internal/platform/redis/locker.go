package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	dErrors "stargate/pkg/domain-errors"
)

const (
	lockKeyPrefix        = "stargate:lock:"
	defaultRetryInterval = 25 * time.Millisecond
)

// releaseScript deletes the lock only while it still holds our token, so a lock
// that expired and was re-acquired by another instance is left alone.
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// Locker is a SET NX PX mutual-exclusion lock keyed by an arbitrary string.
type Locker struct {
	client        redis.Cmdable
	ttl           time.Duration
	retryInterval time.Duration
}

// NewLocker builds a Locker whose locks expire after ttl if never released.
func NewLocker(client redis.Cmdable, ttl time.Duration) *Locker {
	return &Locker{client: client, ttl: ttl, retryInterval: defaultRetryInterval}
}

// Lock blocks until key is acquired or ctx is done. The returned func releases
// the lock and is safe to call once.
func (l *Locker) Lock(ctx context.Context, key string) (func(), error) {
	redisKey := lockKeyPrefix + key
	token := uuid.NewString()

	ticker := time.NewTicker(l.retryInterval)
	defer ticker.Stop()
	for {
		ok, err := l.client.SetNX(ctx, redisKey, token, l.ttl).Result()
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return nil, dErrors.Wrap(ctxErr, dErrors.CodeTimeout, "timed out waiting for lock")
			}
			return nil, fmt.Errorf("acquire lock %s: %w", key, err)
		}
		if ok {
			return func() {
				// Release on a fresh context; the caller's may already be cancelled.
				releaseCtx, cancel := context.WithTimeout(context.Background(), time.Second)
				defer cancel()
				// An unreleased lock expires after ttl.
				_ = releaseScript.Run(releaseCtx, l.client, []string{redisKey}, token).Err()
			}, nil
		}
		select {
		case <-ctx.Done():
			return nil, dErrors.Wrap(ctx.Err(), dErrors.CodeTimeout, "timed out waiting for lock")
		case <-ticker.C:
		}
	}
}
