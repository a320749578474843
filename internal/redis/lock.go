package redisclient

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

var (
	ErrLockNotAcquired = errors.New("shift lock not acquired")
)

// Locker guards the booking critical section per shift, so that two
// reservation attempts against the same shift never interleave.
type Locker interface {
	WithShiftLock(ctx context.Context, shiftID uuid.UUID, fn func(ctx context.Context) error) error
}

type redisShiftLocker struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisShiftLocker creates a locker that uses a per shift Redis key
func NewRedisShiftLocker(client *redis.Client, ttl time.Duration) Locker {
	return &redisShiftLocker{
		client: client,
		ttl:    ttl,
	}
}

func (l *redisShiftLocker) WithShiftLock(ctx context.Context, shiftID uuid.UUID, fn func(ctx context.Context) error) error {
	key := fmt.Sprintf("lock:shift:%s", shiftID.String())
	token := uuid.NewString()

	ok, err := l.client.SetNX(ctx, key, token, l.ttl).Result()
	if err != nil {
		return fmt.Errorf("acquire shift lock: %w", err)
	}
	if !ok {
		return ErrLockNotAcquired
	}

	defer func() {
		_ = l.release(ctx, key, token)
	}()

	ctxWithTimeout, cancel := context.WithTimeout(ctx, l.ttl)
	defer cancel()

	return fn(ctxWithTimeout)
}

var unlockScript = redis.NewScript(`
local val = redis.call("GET", KEYS[1])
if val == ARGV[1] then
  return redis.call("DEL", KEYS[1])
else
  return 0
end
`)

func (l *redisShiftLocker) release(ctx context.Context, key, token string) error {
	_, err := unlockScript.Run(ctx, l.client, []string{key}, token).Result()
	if err != nil && !errors.Is(err, redis.Nil) {
		return fmt.Errorf("release shift lock: %w", err)
	}
	return nil
}
