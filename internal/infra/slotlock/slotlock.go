package slotlock

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
)

var ErrNotAcquired = errors.New("slot lock not acquired")

// Locker serializes the check-then-insert window for one
// (veterinarian, instant) slot. It is an optimization: the partial
// unique index on appointments is the actual invariant.
type Locker interface {
	WithSlotLock(ctx context.Context, vetID uint, at time.Time, fn func(ctx context.Context) error) error
}

type redisLocker struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisLocker(client *redis.Client, ttl time.Duration) Locker {
	return &redisLocker{
		client: client,
		ttl:    ttl,
	}
}

func (l *redisLocker) WithSlotLock(ctx context.Context, vetID uint, at time.Time, fn func(ctx context.Context) error) error {
	key := fmt.Sprintf("lock:slot:%d:%d", vetID, at.Unix())
	token := uuid.NewString()

	ok, err := l.client.SetNX(ctx, key, token, l.ttl).Result()
	if err != nil {
		return fmt.Errorf("acquire slot lock: %w", err)
	}
	if !ok {
		return ErrNotAcquired
	}

	defer func() {
		_ = l.release(ctx, key, token)
	}()

	lockCtx, cancel := context.WithTimeout(ctx, l.ttl)
	defer cancel()

	return fn(lockCtx)
}

var unlockScript = redis.NewScript(`
local val = redis.call("GET", KEYS[1])
if val == ARGV[1] then
  return redis.call("DEL", KEYS[1])
else
  return 0
end
`)

func (l *redisLocker) release(ctx context.Context, key, token string) error {
	_, err := unlockScript.Run(ctx, l.client, []string{key}, token).Result()
	if err != nil && !errors.Is(err, redis.Nil) {
		return fmt.Errorf("release slot lock: %w", err)
	}
	return nil
}

// Nop runs the critical section without any lock. Used when Redis is
// not configured; the unique index still rejects double bookings.
type Nop struct{}

func (Nop) WithSlotLock(ctx context.Context, _ uint, _ time.Time, fn func(ctx context.Context) error) error {
	return fn(ctx)
}
